package view

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money formats an amount with its currency symbol, e.g. "Rs 1,250.00".
func Money(amount decimal.Decimal, currency string) string {
	s := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(currencySymbol(currency))
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

func currencySymbol(code string) string {
	switch strings.ToUpper(code) {
	case "EUR":
		return "€"
	case "USD", "":
		return "$"
	case "GBP":
		return "£"
	case "LKR":
		return "Rs "
	case "INR":
		return "₹"
	default:
		return strings.ToUpper(code) + " "
	}
}
