// utils/money.go
package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ngPrinter = message.NewPrinter(language.English)

// FormatNaira renders an amount for display: rounded half-up to kobo with
// thousands separators. Stored amounts are never rounded.
func FormatNaira(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return "₦" + ngPrinter.Sprint(number.Decimal(f, number.Scale(2)))
}
