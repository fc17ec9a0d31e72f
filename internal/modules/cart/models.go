package cart

import "github.com/shopspring/decimal"

type Item struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage,omitempty"`
	SKU          string          `json:"sku,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

// LineTotal falls back to unit price times quantity when the gateway omits it.
func (i Item) LineTotal() decimal.Decimal {
	if !i.TotalPrice.IsZero() {
		return i.TotalPrice
	}
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	ID             string          `json:"id"`
	Items          []Item          `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
	CouponCode     string          `json:"couponCode,omitempty"`
}

// Count is the number of units in the cart, shown on the nav badge.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		if it.Quantity > 0 {
			n += it.Quantity
		}
	}
	return n
}

func (c Cart) Empty() bool { return len(c.Items) == 0 }
