package vendors

import (
	"context"
	"net/url"
	"strconv"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/gateway"
	"rumal.store/web/internal/query"
	"rumal.store/web/internal/shared/apperr"
)

var Periods = []string{"7d", "30d", "90d", "12m"}

const DefaultPeriod = "30d"

func vendorKey(subject string) query.Key { return query.K("vendor", "profile", subject) }

type Service struct {
	gw    *gateway.Client
	cache *query.Cache
}

func NewService(gw *gateway.Client, cache *query.Cache) *Service {
	return &Service{gw: gw, cache: cache}
}

func (s *Service) Me(ctx context.Context, id *auth.Identity) (Vendor, error) {
	return query.Get(ctx, s.cache, vendorKey(id.Subject()), func(ctx context.Context) (Vendor, error) {
		var v Vendor
		err := s.gw.Get(ctx, "/vendors/me", nil, id.AccessToken, &v)
		return v, err
	})
}

func (s *Service) UpdateMe(ctx context.Context, id *auth.Identity, in ProfileInput) error {
	if in.BusinessName == "" {
		return apperr.InvalidErr("Business name is required.", map[string]string{"business_name": "Required."})
	}
	m := query.Mutation{Invalidates: []query.Key{vendorKey(id.Subject())}}
	return s.cache.Mutate(ctx, id.Subject(), m, func(ctx context.Context) error {
		return s.gw.Put(ctx, "/vendors/me", in, id.AccessToken, nil)
	})
}

func (s *Service) Payouts(ctx context.Context, id *auth.Identity, page int) (gateway.Page[Payout], error) {
	q := url.Values{"page": {strconv.Itoa(page)}}
	return query.Get(ctx, s.cache, query.K("vendor", "payouts", id.Subject(), q.Encode()), func(ctx context.Context) (gateway.Page[Payout], error) {
		var p gateway.Page[Payout]
		err := s.gw.Get(ctx, "/vendors/me/payouts", q, id.AccessToken, &p)
		return p, err
	})
}

// Dashboard loads analytics for vendorID; unknown periods fall back to 30d.
func (s *Service) Dashboard(ctx context.Context, id *auth.Identity, vendorID, period string) (Dashboard, error) {
	period = normalizePeriod(period)
	q := url.Values{"period": {period}}
	return query.Get(ctx, s.cache, query.K("analytics", "vendor", vendorID, period), func(ctx context.Context) (Dashboard, error) {
		var d Dashboard
		err := s.gw.Get(ctx, "/analytics/vendor/"+url.PathEscape(vendorID)+"/dashboard", q, id.AccessToken, &d)
		if d.Period == "" {
			d.Period = period
		}
		return d, err
	})
}

func (s *Service) CustomerInsights(ctx context.Context, id *auth.Identity, customerID string) (CustomerInsights, error) {
	return query.Get(ctx, s.cache, query.Scoped(id.Subject(), "insights", customerID), func(ctx context.Context) (CustomerInsights, error) {
		var ci CustomerInsights
		err := s.gw.Get(ctx, "/analytics/customer/"+url.PathEscape(customerID)+"/insights", nil, id.AccessToken, &ci)
		return ci, err
	})
}

func normalizePeriod(p string) string {
	for _, x := range Periods {
		if p == x {
			return p
		}
	}
	return DefaultPeriod
}
