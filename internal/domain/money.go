package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale decimales con los que se persisten costos, precios y montos.
const MoneyScale = 4

// RequireMoneyScale rechaza montos con más decimales de los que se persisten, para que
// lo guardado sea exactamente lo calculado.
func RequireMoneyScale(field string, v decimal.Decimal) error {
	if !v.Equal(v.Round(MoneyScale)) {
		return NewValidation(field, fmt.Sprintf("máximo %d decimales", MoneyScale))
	}
	return nil
}
