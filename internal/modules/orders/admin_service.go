package orders

import (
	"context"
	"net/url"
	"strings"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/gateway"
	"rumal.store/web/internal/query"
	"rumal.store/web/internal/shared/apperr"
)

// AdminService backs the platform-wide order screens.
type AdminService struct {
	gw    *gateway.Client
	cache *query.Cache
}

func NewAdminService(gw *gateway.Client, cache *query.Cache) *AdminService {
	return &AdminService{gw: gw, cache: cache}
}

func (s *AdminService) List(ctx context.Context, id *auth.Identity, f Filter) (gateway.Page[Order], error) {
	q := f.values()
	return query.Get(ctx, s.cache, KeyAdmin.With(id.Subject(), q.Encode()), func(ctx context.Context) (gateway.Page[Order], error) {
		var page gateway.Page[Order]
		err := s.gw.Get(ctx, "/admin/orders", q, id.AccessToken, &page)
		return page, err
	})
}

type TransitionInput struct {
	OrderID string
	Status  string
	Note    string
}

// UpdateStatus moves an order to a new status on behalf of an admin.
func (s *AdminService) UpdateStatus(ctx context.Context, id *auth.Identity, in TransitionInput) error {
	if strings.TrimSpace(in.OrderID) == "" {
		return apperr.InvalidErr("Order is missing.", nil)
	}
	st, ok := ParseStatus(in.Status)
	if !ok {
		return apperr.InvalidErr("Choose a valid order status.", map[string]string{"status": "Unknown status."})
	}
	m := query.Mutation{Invalidates: []query.Key{KeyAdmin, KeyVendor}}
	body := map[string]string{"status": string(st), "note": strings.TrimSpace(in.Note)}
	return s.cache.Mutate(ctx, id.Subject(), m, func(ctx context.Context) error {
		return s.gw.Patch(ctx, "/admin/orders/"+url.PathEscape(in.OrderID)+"/status", body, id.AccessToken, nil)
	})
}
