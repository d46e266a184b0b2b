package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatIDR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "Rp 0"},
		{"215", "Rp 215"},
		{"1500000", "Rp 1.500.000"},
		{"107.5", "Rp 107,50"},
		{"-2500", "-Rp 2.500"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatIDR(decimal.RequireFromString(tt.in)))
		})
	}
}
