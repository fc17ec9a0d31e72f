package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/events"
	"rumal.store/web/internal/gateway/gatewaytest"
	"rumal.store/web/internal/query"
)

type topics struct {
	mu  sync.Mutex
	got []string
}

func (n *topics) Publish(scope, topic string) {
	n.mu.Lock()
	n.got = append(n.got, scope+":"+topic)
	n.mu.Unlock()
}

var alice = &auth.Identity{AccessToken: "tok-a", Claims: auth.Claims{Subject: "alice"}}

func newTestService(t *testing.T) (*Service, *gatewaytest.Fake, *topics) {
	t.Helper()
	fake, gw := gatewaytest.New(t)
	store := query.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	n := &topics{}
	return NewService(gw, query.New(store, query.WithNotifier(n))), fake, n
}

func TestCount_SumsQuantities(t *testing.T) {
	svc, fake, _ := newTestService(t)
	fake.JSON("GET /cart/me", http.StatusOK, map[string]any{
		"items": []map[string]any{{"id": "i1", "quantity": 2}, {"id": "i2", "quantity": 3}},
	})

	n, err := svc.Count(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = svc.Get(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Count("GET /cart/me"), "badge and page share the cached cart")
	assert.Equal(t, "tok-a", fake.Calls()[0].Token)
}

func TestAddItem_RefetchesAndNotifies(t *testing.T) {
	svc, fake, n := newTestService(t)
	fake.JSON("GET /cart/me", http.StatusOK, map[string]any{"items": []any{}})
	fake.JSON("POST /cart/me/items", http.StatusOK, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, alice)
	require.NoError(t, err)
	require.NoError(t, svc.AddItem(ctx, alice, "p1", 500))
	_, err = svc.Get(ctx, alice)
	require.NoError(t, err)

	assert.Equal(t, 2, fake.Count("GET /cart/me"))
	assert.Equal(t, []string{"alice:" + events.CartUpdated}, n.got)

	var body map[string]any
	for _, c := range fake.Calls() {
		if c.Method == http.MethodPost {
			require.NoError(t, json.Unmarshal([]byte(c.Body), &body))
		}
	}
	assert.Equal(t, float64(MaxQty), body["quantity"])
}

func TestUpdateItem_ZeroRemoves(t *testing.T) {
	svc, fake, _ := newTestService(t)
	fake.JSON("DELETE /cart/me/items/i1", http.StatusNoContent, nil)

	require.NoError(t, svc.UpdateItem(context.Background(), alice, "i1", 0))
	assert.Equal(t, 1, fake.Count("DELETE /cart/me/items/i1"))
}

func TestFailedMutation_NoNotification(t *testing.T) {
	svc, fake, n := newTestService(t)
	fake.JSON("POST /cart/me/items", http.StatusBadRequest, map[string]any{"message": "Out of stock"})

	err := svc.AddItem(context.Background(), alice, "p1", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Out of stock")
	assert.Empty(t, n.got)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(-3, MinQty, MaxQty))
	assert.Equal(t, 42, Clamp(42, MinQty, MaxQty))
	assert.Equal(t, 99, Clamp(1000, MinQty, MaxQty))
}
