// Package money convierte montos en kobo (int64) a su presentación en naira.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Symbol símbolo de la moneda de facturación.
const Symbol = "₦"

var printer = message.NewPrinter(language.English)

// ToNaira convierte kobo a naira con dos decimales exactos.
func ToNaira(kobo int64) decimal.Decimal {
	return decimal.New(kobo, -2)
}

// DecimalToNaira convierte una suma en kobo (NUMERIC) a naira.
func DecimalToNaira(kobo decimal.Decimal) decimal.Decimal {
	return kobo.Shift(-2)
}

// Format devuelve el monto agrupado por miles, p. ej. 1234567 -> "₦12,345.67".
func Format(kobo int64) string {
	return FormatDecimal(ToNaira(kobo))
}

// FormatDecimal formatea un monto en naira.
func FormatDecimal(naira decimal.Decimal) string {
	f, _ := naira.Round(2).Float64()
	sign := ""
	if f < 0 {
		sign, f = "-", -f
	}
	return sign + Symbol + printer.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
