package admin

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/gateway"
)

// Payment is either a customer payment or a vendor payout; Type tells which.
type Payment struct {
	ID         string          `json:"id"`
	Type       string          `json:"type,omitempty"`
	OrderID    string          `json:"orderId,omitempty"`
	VendorID   string          `json:"vendorId,omitempty"`
	VendorName string          `json:"vendorName,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency,omitempty"`
	Method     string          `json:"paymentMethod,omitempty"`
	Provider   string          `json:"provider,omitempty"`
	Status     string          `json:"status"`
	Reference  string          `json:"transactionId,omitempty"`
	CreatedAt  *time.Time      `json:"createdAt,omitempty"`
}

func (s *Service) ListPayments(ctx context.Context, id *auth.Identity, f Filter) (gateway.Page[Payment], error) {
	return list[Payment](ctx, s, id, KeyPayments, "/admin/payments", f)
}
