// Package reviews reads and writes product reviews and vendor replies.
package reviews

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/gateway"
	"rumal.store/web/internal/query"
	"rumal.store/web/internal/shared/apperr"
)

var (
	KeyProduct = query.K("reviews", "product")
	KeyVendor  = query.K("vendor", "reviews")
	KeyAdmin   = query.K("admin", "reviews")
)

type Review struct {
	ID           string     `json:"id"`
	ProductID    string     `json:"productId"`
	ProductName  string     `json:"productName,omitempty"`
	CustomerID   string     `json:"customerId,omitempty"`
	CustomerName string     `json:"customerName,omitempty"`
	Rating       int        `json:"rating"`
	Title        string     `json:"title,omitempty"`
	Comment      string     `json:"comment"`
	Status       string     `json:"status,omitempty"`
	Verified     bool       `json:"verifiedPurchase"`
	VendorReply  string     `json:"vendorReply,omitempty"`
	RepliedAt    *time.Time `json:"repliedAt,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// Stars renders the rating as five filled or empty stars.
func (r Review) Stars() string {
	n := r.Rating
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

type Filter struct {
	Rating  int
	Status  string
	Replied string // "", "yes", "no"
	Page    int
	Size    int
}

func (f Filter) values() url.Values {
	q := url.Values{}
	if f.Rating > 0 {
		q.Set("rating", strconv.Itoa(f.Rating))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	switch f.Replied {
	case "yes":
		q.Set("replied", "true")
	case "no":
		q.Set("replied", "false")
	}
	q.Set("page", strconv.Itoa(f.Page))
	if f.Size > 0 {
		q.Set("size", strconv.Itoa(f.Size))
	}
	return q
}

type Input struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Title     string `json:"title,omitempty"`
	Comment   string `json:"comment"`
}

func (in Input) validate() error {
	fields := map[string]string{}
	if in.Rating < 1 || in.Rating > 5 {
		fields["rating"] = "Choose a rating from 1 to 5."
	}
	if strings.TrimSpace(in.Comment) == "" {
		fields["comment"] = "Write a few words about the product."
	}
	if len(fields) > 0 {
		return apperr.InvalidErr("Please check the review form.", fields)
	}
	return nil
}

type Service struct {
	gw    *gateway.Client
	cache *query.Cache
}

func NewService(gw *gateway.Client, cache *query.Cache) *Service {
	return &Service{gw: gw, cache: cache}
}

func (s *Service) ListForProduct(ctx context.Context, productID string, page int) (gateway.Page[Review], error) {
	q := url.Values{"page": {strconv.Itoa(page)}}
	return query.Get(ctx, s.cache, KeyProduct.With(productID, q.Encode()), func(ctx context.Context) (gateway.Page[Review], error) {
		var p gateway.Page[Review]
		err := s.gw.Get(ctx, "/reviews/products/"+url.PathEscape(productID), q, "", &p)
		return p, err
	})
}

func (s *Service) Create(ctx context.Context, id *auth.Identity, in Input) error {
	if err := in.validate(); err != nil {
		return err
	}
	m := query.Mutation{Invalidates: []query.Key{
		KeyProduct.With(in.ProductID), KeyVendor, KeyAdmin, query.K("products", "detail", in.ProductID),
	}}
	return s.cache.Mutate(ctx, id.Subject(), m, func(ctx context.Context) error {
		return s.gw.Post(ctx, "/reviews", in, id.AccessToken, nil)
	})
}

func (s *Service) ListVendor(ctx context.Context, id *auth.Identity, f Filter) (gateway.Page[Review], error) {
	q := f.values()
	return query.Get(ctx, s.cache, KeyVendor.With(id.Subject(), q.Encode()), func(ctx context.Context) (gateway.Page[Review], error) {
		var p gateway.Page[Review]
		err := s.gw.Get(ctx, "/reviews/vendor", q, id.AccessToken, &p)
		return p, err
	})
}

func (s *Service) Reply(ctx context.Context, id *auth.Identity, reviewID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return apperr.InvalidErr("Reply cannot be empty.", map[string]string{"reply": "Reply cannot be empty."})
	}
	m := query.Mutation{Invalidates: []query.Key{KeyVendor, KeyProduct, KeyAdmin}}
	return s.cache.Mutate(ctx, id.Subject(), m, func(ctx context.Context) error {
		return s.gw.Post(ctx, "/reviews/vendor/"+url.PathEscape(reviewID)+"/reply", map[string]string{"reply": text}, id.AccessToken, nil)
	})
}
