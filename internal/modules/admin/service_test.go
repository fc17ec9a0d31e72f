package admin

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/gateway/gatewaytest"
	"rumal.store/web/internal/modules/catalog"
	"rumal.store/web/internal/query"
	"rumal.store/web/internal/shared/apperr"
)

var root = &auth.Identity{AccessToken: "tok-admin", Claims: auth.Claims{Subject: "root", Roles: []string{"super_admin"}}}

func newFixture(t *testing.T) (*Service, *catalog.Service, *gatewaytest.Fake) {
	t.Helper()
	fake, gw := gatewaytest.New(t)
	store := query.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	cache := query.New(store)
	return NewService(gw, cache), catalog.NewService(gw, cache), fake
}

func TestToggleFlag_FailureLeavesListUnchanged(t *testing.T) {
	svc, _, fake := newFixture(t)
	fake.JSON("GET /admin/settings/feature-flags", http.StatusOK, []map[string]any{
		{"key": "new-checkout", "enabled": false},
	})
	fake.JSON("PATCH /admin/settings/feature-flags/new-checkout", http.StatusServiceUnavailable,
		map[string]any{"message": "Config service unavailable"})
	ctx := context.Background()

	flags, err := svc.ListFlags(ctx, root)
	require.NoError(t, err)
	require.False(t, flags[0].Enabled)

	err = svc.ToggleFlag(ctx, root, "new-checkout", true)
	require.Error(t, err)
	assert.Equal(t, "Config service unavailable", apperr.PublicMessage(apperr.FromGateway(err)))

	flags, err = svc.ListFlags(ctx, root)
	require.NoError(t, err)
	assert.False(t, flags[0].Enabled, "displayed state unchanged")
	assert.Equal(t, 1, fake.Count("GET /admin/settings/feature-flags"), "failed toggle does not invalidate")
}

func TestToggleFlag_SuccessRefetches(t *testing.T) {
	svc, _, fake := newFixture(t)
	var enabled atomic.Bool
	fake.Handle("GET /admin/settings/feature-flags", func(w http.ResponseWriter, _ *http.Request) {
		gatewaytest.WriteJSON(w, http.StatusOK, []map[string]any{{"key": "k", "enabled": enabled.Load()}})
	})
	fake.Handle("PATCH /admin/settings/feature-flags/k", func(w http.ResponseWriter, _ *http.Request) {
		enabled.Store(true)
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	_, err := svc.ListFlags(ctx, root)
	require.NoError(t, err)
	require.NoError(t, svc.ToggleFlag(ctx, root, "k", true))
	flags, err := svc.ListFlags(ctx, root)
	require.NoError(t, err)
	assert.True(t, flags[0].Enabled)
}

func TestSetProductActive_RefreshesStorefrontCatalog(t *testing.T) {
	svc, cat, fake := newFixture(t)
	fake.JSON("GET /products", http.StatusOK, []any{})
	fake.JSON("PATCH /admin/products/p1/status", http.StatusOK, nil)
	ctx := context.Background()

	_, err := cat.ListProducts(ctx, catalog.ProductFilter{})
	require.NoError(t, err)
	require.NoError(t, svc.SetProductActive(ctx, root, "p1", false))
	_, err = cat.ListProducts(ctx, catalog.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Count("GET /products"))
	assert.JSONEq(t, `{"active":false}`, fake.Calls()[1].Body)
}

func TestModerateReview(t *testing.T) {
	svc, _, fake := newFixture(t)
	fake.JSON("PATCH /admin/reviews/r1/moderate", http.StatusOK, nil)
	fake.JSON("DELETE /admin/reviews/r2", http.StatusNoContent, nil)
	ctx := context.Background()

	require.NoError(t, svc.ModerateReview(ctx, root, "r1", ModerationHide))
	require.NoError(t, svc.ModerateReview(ctx, root, "r2", ModerationDelete))
	err := svc.ModerateReview(ctx, root, "r3", "burn")
	assert.True(t, apperr.IsKind(err, apperr.Invalid))
	assert.Len(t, fake.Calls(), 2)
}

func TestCreateAPIKey_ReturnsSecretOnce(t *testing.T) {
	svc, _, fake := newFixture(t)
	fake.JSON("POST /admin/api-keys", http.StatusCreated, map[string]any{
		"id": "k1", "name": "ci", "prefix": "rk_live", "key": "rk_live_secret",
	})

	k, err := svc.CreateAPIKey(context.Background(), root, " ci ", []string{"read:orders", " "})
	require.NoError(t, err)
	assert.Equal(t, "rk_live_secret", k.Secret)
	assert.Equal(t, "k1", k.ID)
	assert.JSONEq(t, `{"name":"ci","scopes":["read:orders"]}`, fake.Calls()[0].Body)

	_, err = svc.CreateAPIKey(context.Background(), root, "", nil)
	assert.True(t, apperr.IsKind(err, apperr.Invalid))
}

func TestListAccessAudit_SendsFilters(t *testing.T) {
	svc, _, fake := newFixture(t)
	fake.JSON("GET /admin/access-audit", http.StatusOK, map[string]any{"content": []any{}, "totalPages": 0})

	_, err := svc.ListAccessAudit(context.Background(), root, Filter{Actor: "a@x", Action: "LOGIN", Page: 3})
	require.NoError(t, err)
	assert.Equal(t, "action=LOGIN&actor=a%40x&page=3", fake.Calls()[0].Query)
}
