package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// FormatIDR formatea un monto en rupias con separador de miles local: "Rp 1.234.567".
// Los centavos solo se muestran cuando existen ("Rp 107,50").
func FormatIDR(amount decimal.Decimal) string {
	r := amount.Round(2)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Abs()
	}
	whole := r.IntPart()
	s := printer.Sprintf("%d", whole)
	frac := r.Sub(decimal.NewFromInt(whole))
	if !frac.IsZero() {
		s += fmt.Sprintf(",%02d", frac.Shift(2).IntPart())
	}
	return sign + "Rp " + s
}
