package cart

import (
	"context"
	"net/url"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/events"
	"rumal.store/web/internal/gateway"
	"rumal.store/web/internal/query"
)

const (
	MinQty = 1
	MaxQty = 99
)

// Key is the cache key of a user's cart.
func Key(subject string) query.Key { return query.Scoped(subject, "cart") }

// Mutation invalidates the user's cart and tells their other tabs.
func Mutation(subject string) query.Mutation {
	return query.Mutation{
		Invalidates: []query.Key{Key(subject)},
		Notify:      []string{events.CartUpdated},
	}
}

type Service struct {
	gw    *gateway.Client
	cache *query.Cache
}

func NewService(gw *gateway.Client, cache *query.Cache) *Service {
	return &Service{gw: gw, cache: cache}
}

func (s *Service) Get(ctx context.Context, id *auth.Identity) (Cart, error) {
	return query.Get(ctx, s.cache, Key(id.Subject()), func(ctx context.Context) (Cart, error) {
		var c Cart
		err := s.gw.Get(ctx, "/cart/me", nil, id.AccessToken, &c)
		return c, err
	})
}

// Count shares the cached cart with the cart page.
func (s *Service) Count(ctx context.Context, id *auth.Identity) (int, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

func (s *Service) AddItem(ctx context.Context, id *auth.Identity, productID string, qty int) error {
	body := map[string]any{"productId": productID, "quantity": Clamp(qty, MinQty, MaxQty)}
	return s.cache.Mutate(ctx, id.Subject(), Mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Post(ctx, "/cart/me/items", body, id.AccessToken, nil)
	})
}

// UpdateItem sets the quantity of a line; zero or less removes it.
func (s *Service) UpdateItem(ctx context.Context, id *auth.Identity, itemID string, qty int) error {
	if qty <= 0 {
		return s.RemoveItem(ctx, id, itemID)
	}
	body := map[string]any{"quantity": Clamp(qty, MinQty, MaxQty)}
	return s.cache.Mutate(ctx, id.Subject(), Mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Put(ctx, "/cart/me/items/"+url.PathEscape(itemID), body, id.AccessToken, nil)
	})
}

func (s *Service) RemoveItem(ctx context.Context, id *auth.Identity, itemID string) error {
	return s.cache.Mutate(ctx, id.Subject(), Mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Delete(ctx, "/cart/me/items/"+url.PathEscape(itemID), id.AccessToken)
	})
}

func (s *Service) Clear(ctx context.Context, id *auth.Identity) error {
	return s.cache.Mutate(ctx, id.Subject(), Mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Delete(ctx, "/cart/me", id.AccessToken)
	})
}

func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
