package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/ledger-api/internal/interfaces/http"
)

func TestRateLimit_BlocksAfterQuota(t *testing.T) {
	mw, err := apphttp.RateLimit("2-M")
	require.NoError(t, err)
	app := fiber.New()
	app.Get("/ping", mw, func(c *fiber.Ctx) error { return c.SendString("pong") })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
		resp.Body.Close()
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_InvalidFormat(t *testing.T) {
	_, err := apphttp.RateLimit("muchas")
	assert.Error(t, err)
}
