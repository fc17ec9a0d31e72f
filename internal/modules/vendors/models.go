package vendors

import (
	"time"

	"github.com/shopspring/decimal"
)

type Vendor struct {
	ID             string          `json:"id"`
	BusinessName   string          `json:"businessName"`
	Slug           string          `json:"slug,omitempty"`
	Description    string          `json:"description,omitempty"`
	ContactEmail   string          `json:"contactEmail,omitempty"`
	ContactPhone   string          `json:"contactPhone,omitempty"`
	LogoURL        string          `json:"logoUrl,omitempty"`
	Status         string          `json:"status,omitempty"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
	Verified       bool            `json:"verified"`
	CreatedAt      *time.Time      `json:"createdAt,omitempty"`
}

type ProfileInput struct {
	BusinessName string `json:"businessName"`
	Description  string `json:"description,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
	LogoURL      string `json:"logoUrl,omitempty"`
}

type Payout struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Fee         decimal.Decimal `json:"fee"`
	NetAmount   decimal.Decimal `json:"netAmount"`
	Currency    string          `json:"currency,omitempty"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference,omitempty"`
	PeriodStart *time.Time      `json:"periodStart,omitempty"`
	PeriodEnd   *time.Time      `json:"periodEnd,omitempty"`
	PaidAt      *time.Time      `json:"paidAt,omitempty"`
}

type SeriesPoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

type TopProduct struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitsSold   int             `json:"unitsSold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// Dashboard is the vendor analytics summary for a period.
type Dashboard struct {
	Period            string          `json:"period"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalOrders       int             `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	PendingOrders     int             `json:"pendingOrders"`
	AverageRating     float64         `json:"averageRating"`
	ConversionRate    float64         `json:"conversionRate"`
	RevenueSeries     []SeriesPoint   `json:"revenueSeries"`
	TopProducts       []TopProduct    `json:"topProducts"`
}

// MaxRevenue is the largest point of the series, used to scale the bar chart.
func (d Dashboard) MaxRevenue() decimal.Decimal {
	max := decimal.Zero
	for _, p := range d.RevenueSeries {
		if p.Revenue.GreaterThan(max) {
			max = p.Revenue
		}
	}
	return max
}

// BarPercent is the height of a series bar relative to the largest one.
func (d Dashboard) BarPercent(p SeriesPoint) int {
	max := d.MaxRevenue()
	if max.IsZero() {
		return 0
	}
	return int(p.Revenue.Div(max).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

type CategorySpend struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type CustomerInsights struct {
	TotalOrders       int             `json:"totalOrders"`
	TotalSpent        decimal.Decimal `json:"totalSpent"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	WishlistItems     int             `json:"wishlistItems"`
	ReviewsWritten    int             `json:"reviewsWritten"`
	FavoriteCategory  string          `json:"favoriteCategory,omitempty"`
	SpendByCategory   []CategorySpend `json:"spendByCategory"`
	LastOrderAt       *time.Time      `json:"lastOrderAt,omitempty"`
}
