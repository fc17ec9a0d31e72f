// Package admin backs the platform administration screens. Every call is
// authorized by the gateway with the admin's own access token.
package admin

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/gateway"
	"rumal.store/web/internal/query"
)

var (
	KeyProducts = query.K("admin", "products")
	KeyPayments = query.K("admin", "payments")
	KeyReviews  = query.K("admin", "reviews")
	KeySessions = query.K("admin", "sessions")
	KeySettings = query.K("admin", "settings")
	KeyFlags    = query.K("admin", "flags")
	KeyAPIKeys  = query.K("admin", "api-keys")
	KeyAudit    = query.K("admin", "audit")
)

type Filter struct {
	Query  string
	Status string
	Type   string
	Actor  string
	Action string
	From   string
	To     string
	Page   int
	Size   int
}

func (f Filter) values() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			q.Set(k, v)
		}
	}
	set("search", f.Query)
	set("status", f.Status)
	set("type", f.Type)
	set("actor", f.Actor)
	set("action", f.Action)
	set("from", f.From)
	set("to", f.To)
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

// list is the shared cached read of an admin collection endpoint.
func list[T any](ctx context.Context, s *Service, id *auth.Identity, key query.Key, path string, f Filter) (gateway.Page[T], error) {
	q := f.values()
	return query.Get(ctx, s.cache, key.With(id.Subject(), q.Encode()), func(ctx context.Context) (gateway.Page[T], error) {
		var p gateway.Page[T]
		err := s.gw.Get(ctx, path, q, id.AccessToken, &p)
		return p, err
	})
}

func (s *Service) mutate(ctx context.Context, id *auth.Identity, fn func(context.Context) error, keys ...query.Key) error {
	return s.cache.Mutate(ctx, id.Subject(), query.Mutation{Invalidates: keys}, fn)
}
