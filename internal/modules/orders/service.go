package orders

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/gateway"
	"rumal.store/web/internal/query"
	"rumal.store/web/internal/shared/apperr"
)

var (
	KeyVendor = query.K("vendor", "orders")
	KeyAdmin  = query.K("admin", "orders")
)

func mineKey(subject string) query.Key { return query.Scoped(subject, "orders") }

type Filter struct {
	Status string
	Query  string
	From   string
	To     string
	Page   int
	Size   int
}

func (f Filter) values() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		q.Set("search", s)
	}
	if f.From != "" {
		q.Set("from", f.From)
	}
	if f.To != "" {
		q.Set("to", f.To)
	}
	q.Set("page", strconv.Itoa(f.Page))
	if f.Size > 0 {
		q.Set("size", strconv.Itoa(f.Size))
	}
	return q
}

type Service struct {
	gw    *gateway.Client
	cache *query.Cache
}

func NewService(gw *gateway.Client, cache *query.Cache) *Service {
	return &Service{gw: gw, cache: cache}
}

func (s *Service) ListMine(ctx context.Context, id *auth.Identity, f Filter) (gateway.Page[Order], error) {
	q := f.values()
	return query.Get(ctx, s.cache, mineKey(id.Subject()).With("list", q.Encode()), func(ctx context.Context) (gateway.Page[Order], error) {
		var page gateway.Page[Order]
		err := s.gw.Get(ctx, "/orders/me", q, id.AccessToken, &page)
		return page, err
	})
}

func (s *Service) GetMine(ctx context.Context, id *auth.Identity, orderID string) (Order, error) {
	return query.Get(ctx, s.cache, mineKey(id.Subject()).With("detail", orderID), func(ctx context.Context) (Order, error) {
		var o Order
		err := s.gw.Get(ctx, "/orders/me/"+url.PathEscape(orderID), nil, id.AccessToken, &o)
		return o, err
	})
}

func (s *Service) CancelMine(ctx context.Context, id *auth.Identity, orderID, reason string) error {
	m := query.Mutation{Invalidates: []query.Key{mineKey(id.Subject()), KeyVendor, KeyAdmin}}
	body := map[string]string{"reason": strings.TrimSpace(reason)}
	return s.cache.Mutate(ctx, id.Subject(), m, func(ctx context.Context) error {
		return s.gw.Post(ctx, "/orders/me/"+url.PathEscape(orderID)+"/cancel", body, id.AccessToken, nil)
	})
}

func (s *Service) ListVendor(ctx context.Context, id *auth.Identity, f Filter) (gateway.Page[Order], error) {
	q := f.values()
	return query.Get(ctx, s.cache, KeyVendor.With(id.Subject(), q.Encode()), func(ctx context.Context) (gateway.Page[Order], error) {
		var page gateway.Page[Order]
		err := s.gw.Get(ctx, "/orders/vendor/me", q, id.AccessToken, &page)
		return page, err
	})
}

func (s *Service) UpdateVendorStatus(ctx context.Context, id *auth.Identity, orderID, status, note string) error {
	st, ok := ParseStatus(status)
	if !ok {
		return apperr.InvalidErr("Choose a valid order status.", map[string]string{"status": "Unknown status."})
	}
	m := query.Mutation{Invalidates: []query.Key{KeyVendor, KeyAdmin}}
	body := map[string]string{"status": string(st), "note": strings.TrimSpace(note)}
	return s.cache.Mutate(ctx, id.Subject(), m, func(ctx context.Context) error {
		return s.gw.Patch(ctx, "/orders/vendor/me/"+url.PathEscape(orderID)+"/status", body, id.AccessToken, nil)
	})
}
