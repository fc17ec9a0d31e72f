package templates

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rumal.store/web/internal/gateway"
	"rumal.store/web/pkg/view"
)

// DefaultCurrency is used when the gateway omits one.
const DefaultCurrency = "LKR"

func Funcs(cdnBase string) template.FuncMap {
	return template.FuncMap{
		"money": func(amount decimal.Decimal, currency ...string) string {
			cur := DefaultCurrency
			if len(currency) > 0 && currency[0] != "" {
				cur = currency[0]
			}
			return view.Money(amount, cur)
		},
		"date":     formatDate,
		"datetime": formatDateTime,
		"stars":    stars,
		"image": func(key string) string {
			return gateway.CDNURL(cdnBase, key)
		},
		"badgeClass": func(v any) string { return statusClass(fmt.Sprint(v)) },
		"lower":      strings.ToLower,
		"join":       strings.Join,
		"add":        func(a, b int) int { return a + b },
		"percent":    func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
		"rating":     func(f float64) string { return fmt.Sprintf("%.1f", f) },
	}
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("2 Jan 2006")
}

func formatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("2 Jan 2006 15:04")
}

func stars(v any) string {
	var n int
	switch r := v.(type) {
	case int:
		n = r
	case float64:
		n = int(r + 0.5)
	}
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func statusClass(s string) string {
	switch strings.ToUpper(s) {
	case "DELIVERED", "PAID", "COMPLETED", "APPROVED", "ACTIVE", "SUCCEEDED":
		return "badge-ok"
	case "CANCELLED", "REFUNDED", "FAILED", "REJECTED", "HIDDEN", "REVOKED":
		return "badge-bad"
	case "SHIPPED", "PROCESSING", "CONFIRMED":
		return "badge-info"
	default:
		return "badge-muted"
	}
}
