package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummaryKey_NormalizesTimezone(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	jakarta := time.FixedZone("WIB", 7*3600)

	assert.Equal(t, summaryKey(0, start, end), summaryKey(0, start.In(jakarta), end.In(jakarta)))
	assert.NotEqual(t, summaryKey(0, start, end), summaryKey(0, start, end.Add(time.Second)))
	assert.Contains(t, summaryKey(0, start, end), summaryKeyPrefix)
}

func TestSummaryKey_ChangesWithGeneration(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	assert.NotEqual(t, summaryKey(0, start, end), summaryKey(1, start, end))
	assert.NotEqual(t, summaryGenerationKey, summaryKey(0, start, end))
}
