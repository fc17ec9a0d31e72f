package vendors

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/gateway/gatewaytest"
	"rumal.store/web/internal/query"
)

var erin = &auth.Identity{AccessToken: "tok-e", Claims: auth.Claims{Subject: "erin", Roles: []string{"vendor_admin"}}}

func newTestService(t *testing.T) (*Service, *gatewaytest.Fake) {
	t.Helper()
	fake, gw := gatewaytest.New(t)
	store := query.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	return NewService(gw, query.New(store)), fake
}

func TestDashboard_NormalizesPeriod(t *testing.T) {
	svc, fake := newTestService(t)
	fake.JSON("GET /analytics/vendor/v1/dashboard", http.StatusOK, map[string]any{
		"totalRevenue": "1200.00",
		"revenueSeries": []map[string]any{
			{"date": "2026-10-01", "revenue": 300},
			{"date": "2026-10-02", "revenue": 600},
		},
	})

	d, err := svc.Dashboard(context.Background(), erin, "v1", "forever")
	require.NoError(t, err)
	assert.Equal(t, "30d", d.Period)
	assert.Equal(t, "period=30d", fake.Calls()[0].Query)
	assert.True(t, d.MaxRevenue().Equal(decimal.NewFromInt(600)))
	assert.Equal(t, 50, d.BarPercent(d.RevenueSeries[0]))
}

func TestUpdateMe_RefetchesProfile(t *testing.T) {
	svc, fake := newTestService(t)
	fake.JSON("GET /vendors/me", http.StatusOK, map[string]any{"id": "v1", "businessName": "Old"})
	fake.JSON("PUT /vendors/me", http.StatusOK, nil)
	ctx := context.Background()

	_, err := svc.Me(ctx, erin)
	require.NoError(t, err)
	require.NoError(t, svc.UpdateMe(ctx, erin, ProfileInput{BusinessName: "New"}))
	_, err = svc.Me(ctx, erin)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Count("GET /vendors/me"))

	assert.Error(t, svc.UpdateMe(ctx, erin, ProfileInput{}))
}

func TestPayouts_FlatArray(t *testing.T) {
	svc, fake := newTestService(t)
	fake.JSON("GET /vendors/me/payouts", http.StatusOK, []map[string]any{{"id": "po1", "amount": "99.90", "status": "PAID"}})

	p, err := svc.Payouts(context.Background(), erin, 0)
	require.NoError(t, err)
	require.Len(t, p.Content, 1)
	assert.Equal(t, 1, p.TotalPages)
}
