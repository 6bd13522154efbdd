// Package money formats amounts for display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// float64 masih eksak sampai 2^53; di atas itu dikelompokkan manual.
var exactLimit = decimal.NewFromInt(1 << 53)

// Rupiah renders d as "Rp 20.000" (or "Rp 12.500,50" with a fraction).
func Rupiah(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(exactLimit) {
		return "Rp " + group(d)
	}
	if d.IsInteger() {
		return printer.Sprintf("Rp %d", d.IntPart())
	}
	return printer.Sprintf("Rp %.2f", d.InexactFloat64())
}

// group formats d with Indonesian separators without going through float64.
func group(d decimal.Decimal) string {
	places := int32(0)
	if !d.IsInteger() {
		places = 2
	}
	digits, frac, _ := strings.Cut(d.Abs().StringFixed(places), ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}
