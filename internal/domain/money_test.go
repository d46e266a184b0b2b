package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRequireMoneyScale(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0", false},
		{"107.5", false},
		{"0.3333", false},
		{"1.50000", false},
		{"0.33333", true},
		{"-2.00001", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := RequireMoneyScale("amount", decimal.RequireFromString(tt.in))
			if tt.wantErr {
				var vErr *ValidationError
				assert.ErrorAs(t, err, &vErr)
				assert.Equal(t, "amount", vErr.Field)
				return
			}
			assert.NoError(t, err)
		})
	}
}
