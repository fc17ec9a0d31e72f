package wishlist

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/events"
	"rumal.store/web/internal/gateway"
	"rumal.store/web/internal/gateway/gatewaytest"
	"rumal.store/web/internal/mailer"
	"rumal.store/web/internal/modules/cart"
	"rumal.store/web/internal/query"
	"rumal.store/web/internal/shared/apperr"
)

type topics struct {
	mu  sync.Mutex
	got []string
}

func (n *topics) Publish(_, topic string) {
	n.mu.Lock()
	n.got = append(n.got, topic)
	n.mu.Unlock()
}

var bob = &auth.Identity{AccessToken: "tok-b", Claims: auth.Claims{Subject: "bob", Name: "Bob"}}

type fixture struct {
	svc    *Service
	gw     *gateway.Client
	cache  *query.Cache
	fake   *gatewaytest.Fake
	topics *topics
	mail   *mailer.Mock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	fake, gw := gatewaytest.New(t)
	store := query.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	n := &topics{}
	m := &mailer.Mock{}
	cache := query.New(store, query.WithNotifier(n))
	svc := NewService(gw, cache, m, Config{
		MailFrom:  "no-reply@rumal.store",
		PublicURL: "https://rumal.store/",
	})
	return fixture{svc: svc, gw: gw, cache: cache, fake: fake, topics: n, mail: m}
}

func wishlistWith(items ...map[string]any) []map[string]any { return items }

func TestMoveToCart_RejectsParentWithoutGatewayWrite(t *testing.T) {
	f := newFixture(t)
	f.fake.JSON("GET /wishlist/me", http.StatusOK, wishlistWith(
		map[string]any{"id": "w1", "productId": "p1", "productType": "PARENT"},
	))

	err := f.svc.MoveToCart(context.Background(), bob, "w1")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Invalid))
	assert.Equal(t, 0, f.fake.Count("POST /cart/me/items"))
	assert.Equal(t, 0, f.fake.Count("DELETE /wishlist/me/items/w1"))
	assert.Empty(t, f.topics.got)
}

func TestMoveToCart_SimpleItem(t *testing.T) {
	f := newFixture(t)
	f.fake.JSON("GET /wishlist/me", http.StatusOK, wishlistWith(
		map[string]any{"id": "w2", "productId": "p2", "productType": "SIMPLE"},
	))
	f.fake.JSON("POST /cart/me/items", http.StatusOK, nil)
	f.fake.JSON("DELETE /wishlist/me/items/w2", http.StatusNoContent, nil)
	ctx := context.Background()

	require.NoError(t, f.svc.MoveToCart(ctx, bob, "w2"))
	assert.Equal(t, 1, f.fake.Count("POST /cart/me/items"))
	assert.Equal(t, 1, f.fake.Count("DELETE /wishlist/me/items/w2"))
	assert.ElementsMatch(t, []string{events.WishlistUpdated, events.CartUpdated}, f.topics.got)

	_, err := f.svc.Get(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, 2, f.fake.Count("GET /wishlist/me"), "wishlist refetched after the move")
}

func TestMoveToCart_RemovalFailureStillRefreshesCart(t *testing.T) {
	f := newFixture(t)
	f.fake.JSON("GET /wishlist/me", http.StatusOK, wishlistWith(
		map[string]any{"id": "w3", "productId": "p3", "productType": "SIMPLE"},
	))
	f.fake.JSON("GET /cart/me", http.StatusOK, map[string]any{"items": []any{}})
	f.fake.JSON("POST /cart/me/items", http.StatusOK, nil)
	f.fake.JSON("DELETE /wishlist/me/items/w3", http.StatusInternalServerError, map[string]any{"message": "boom"})
	ctx := context.Background()
	carts := cart.NewService(f.gw, f.cache)

	_, err := carts.Get(ctx, bob)
	require.NoError(t, err)

	err = f.svc.MoveToCart(ctx, bob, "w3")
	require.Error(t, err)
	assert.Equal(t, []string{events.CartUpdated}, f.topics.got, "the cart add landed")

	_, err = carts.Get(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, 2, f.fake.Count("GET /cart/me"), "cart refetched after the add")

	_, err = f.svc.Get(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, 1, f.fake.Count("GET /wishlist/me"), "wishlist untouched by the failed removal")
}

func TestMoveToCart_UnknownItem(t *testing.T) {
	f := newFixture(t)
	f.fake.JSON("GET /wishlist/me", http.StatusOK, []any{})
	err := f.svc.MoveToCart(context.Background(), bob, "nope")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestGetShared_NotFoundIsUnavailable(t *testing.T) {
	f := newFixture(t)
	f.fake.JSON("GET /wishlist/shared/gone", http.StatusNotFound, map[string]any{"message": "Not found"})

	v, err := f.svc.GetShared(context.Background(), "gone")
	require.NoError(t, err)
	assert.False(t, v.Available)
}

func TestGetShared_Available(t *testing.T) {
	f := newFixture(t)
	f.fake.JSON("GET /wishlist/shared/tok1", http.StatusOK, map[string]any{
		"ownerName":  "Bob",
		"collection": map[string]any{"id": "c1", "name": "Eid gifts"},
		"items":      []map[string]any{{"id": "w1", "productName": "Shawl"}},
	})

	v, err := f.svc.GetShared(context.Background(), "tok1")
	require.NoError(t, err)
	assert.True(t, v.Available)
	assert.Equal(t, "Eid gifts", v.Collection.Name)
	require.Len(t, v.Collection.Items, 1)
	assert.Equal(t, "", f.fake.Calls()[0].Token, "shared view is public")
}

func TestGetShared_UpstreamFailure(t *testing.T) {
	f := newFixture(t)
	f.fake.JSON("GET /wishlist/shared/x", http.StatusInternalServerError, nil)
	v, err := f.svc.GetShared(context.Background(), "x")
	assert.Error(t, err)
	assert.False(t, v.Available)
}

func TestEmailShareLink_SharesThenMails(t *testing.T) {
	f := newFixture(t)
	f.fake.JSON("GET /wishlist/me/collections/c1", http.StatusOK, map[string]any{"id": "c1", "name": "Eid gifts"})
	f.fake.JSON("POST /wishlist/me/collections/c1/share", http.StatusOK, map[string]any{"shareToken": "abc"})

	require.NoError(t, f.svc.EmailShareLink(context.Background(), bob, "c1", "friend@example.com"))

	e, ok := f.mail.Last()
	require.True(t, ok)
	assert.Equal(t, []string{"friend@example.com"}, e.To)
	assert.Equal(t, "Bob shared a wishlist with you", e.Subject)
	assert.Contains(t, e.TextBody, "https://rumal.store/wishlist/shared/abc")
}

func TestEmailShareLink_InvalidAddress(t *testing.T) {
	f := newFixture(t)
	err := f.svc.EmailShareLink(context.Background(), bob, "c1", "not-an-email")
	assert.True(t, apperr.IsKind(err, apperr.Invalid))
	assert.Empty(t, f.fake.Calls())
}

func TestCollectionWritesInvalidateLists(t *testing.T) {
	f := newFixture(t)
	f.fake.JSON("GET /wishlist/me/collections", http.StatusOK, []any{})
	f.fake.JSON("POST /wishlist/me/collections", http.StatusCreated, map[string]any{"id": "c9", "name": "New"})
	ctx := context.Background()

	_, err := f.svc.ListCollections(ctx, bob)
	require.NoError(t, err)
	c, err := f.svc.CreateCollection(ctx, bob, CollectionInput{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "c9", c.ID)
	_, err = f.svc.ListCollections(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, 2, f.fake.Count("GET /wishlist/me/collections"))
}
