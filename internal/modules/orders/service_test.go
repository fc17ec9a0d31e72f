package orders

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/gateway/gatewaytest"
	"rumal.store/web/internal/query"
	"rumal.store/web/internal/shared/apperr"
)

var carol = &auth.Identity{AccessToken: "tok-c", Claims: auth.Claims{Subject: "carol"}}

func newServices(t *testing.T) (*Service, *AdminService, *gatewaytest.Fake) {
	t.Helper()
	fake, gw := gatewaytest.New(t)
	store := query.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	cache := query.New(store)
	return NewService(gw, cache), NewAdminService(gw, cache), fake
}

func TestCancelMine_RefetchesOrderList(t *testing.T) {
	svc, _, fake := newServices(t)
	fake.JSON("GET /orders/me", http.StatusOK, map[string]any{
		"content":    []map[string]any{{"id": "o1", "status": "PENDING", "totalAmount": 40}},
		"totalPages": 1, "number": 0,
	})
	fake.JSON("POST /orders/me/o1/cancel", http.StatusOK, nil)
	ctx := context.Background()

	page, err := svc.ListMine(ctx, carol, Filter{})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.True(t, page.Content[0].Status.CustomerCancellable())

	require.NoError(t, svc.CancelMine(ctx, carol, "o1", " changed my mind "))
	_, err = svc.ListMine(ctx, carol, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Count("GET /orders/me"))
}

func TestUpdateVendorStatus_RejectsUnknownStatus(t *testing.T) {
	svc, _, fake := newServices(t)
	err := svc.UpdateVendorStatus(context.Background(), carol, "o1", "LOST", "")
	assert.True(t, apperr.IsKind(err, apperr.Invalid))
	assert.Empty(t, fake.Calls())
}

func TestAdminUpdateStatus_InvalidatesVendorAndAdminLists(t *testing.T) {
	svc, admin, fake := newServices(t)
	fake.JSON("GET /orders/vendor/me", http.StatusOK, []any{})
	fake.JSON("GET /admin/orders", http.StatusOK, []any{})
	fake.JSON("PATCH /admin/orders/o1/status", http.StatusOK, nil)
	ctx := context.Background()

	_, _ = svc.ListVendor(ctx, carol, Filter{})
	_, _ = admin.List(ctx, carol, Filter{Status: "PENDING"})
	require.NoError(t, admin.UpdateStatus(ctx, carol, TransitionInput{OrderID: "o1", Status: "SHIPPED"}))
	_, _ = svc.ListVendor(ctx, carol, Filter{})
	_, _ = admin.List(ctx, carol, Filter{Status: "PENDING"})

	assert.Equal(t, 2, fake.Count("GET /orders/vendor/me"))
	assert.Equal(t, 2, fake.Count("GET /admin/orders"))
}

func TestStatusNext(t *testing.T) {
	assert.Equal(t, []Status{StatusDelivered}, StatusShipped.Next())
	assert.Empty(t, StatusCancelled.Next())
	assert.False(t, StatusShipped.CustomerCancellable())
}
