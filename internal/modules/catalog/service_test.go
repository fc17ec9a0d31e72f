package catalog

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rumal.store/web/internal/gateway/gatewaytest"
	"rumal.store/web/internal/query"
)

func newTestService(t *testing.T) (*Service, *gatewaytest.Fake) {
	t.Helper()
	fake, gw := gatewaytest.New(t)
	store := query.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	return NewService(gw, query.New(store)), fake
}

func TestListProducts_CachedUntilProductWrite(t *testing.T) {
	svc, fake := newTestService(t)
	fake.JSON("GET /products", http.StatusOK, map[string]any{
		"content":    []map[string]any{{"id": "p1", "name": "Shawl", "regularPrice": "12.50", "productType": "SIMPLE"}},
		"totalPages": 1, "totalElements": 1, "number": 0,
	})
	fake.JSON("POST /products", http.StatusCreated, map[string]any{"id": "p2", "name": "Scarf"})
	ctx := context.Background()

	page, err := svc.ListProducts(ctx, ProductFilter{Query: "shawl"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.True(t, page.Content[0].RegularPrice.Equal(decimal.RequireFromString("12.5")))

	_, err = svc.ListProducts(ctx, ProductFilter{Query: "shawl"})
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Count("GET /products"))

	_, err = svc.CreateProduct(ctx, "tok", ProductInput{Name: "Scarf"})
	require.NoError(t, err)

	_, err = svc.ListProducts(ctx, ProductFilter{Query: "shawl"})
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Count("GET /products"), "a product write refetches the list")
}

func TestListProducts_SendsFilters(t *testing.T) {
	svc, fake := newTestService(t)
	fake.JSON("GET /products", http.StatusOK, []any{})

	_, err := svc.ListProducts(context.Background(), ProductFilter{Query: " silk ", Category: "c1", Page: 2, Size: 12})
	require.NoError(t, err)
	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "categoryId=c1&page=2&search=silk&size=12", calls[0].Query)
}

func TestFailedWriteKeepsCache(t *testing.T) {
	svc, fake := newTestService(t)
	fake.JSON("GET /products/p1", http.StatusOK, map[string]any{"id": "p1", "name": "Old"})
	fake.JSON("PUT /products/p1", http.StatusConflict, map[string]any{"message": "SKU already exists"})
	ctx := context.Background()

	_, err := svc.GetProduct(ctx, "p1")
	require.NoError(t, err)
	_, err = svc.UpdateProduct(ctx, "tok", "p1", ProductInput{Name: "New"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SKU already exists")

	p, err := svc.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Old", p.Name)
	assert.Equal(t, 1, fake.Count("GET /products/p1"))
}

func TestProductPrice(t *testing.T) {
	p := Product{RegularPrice: decimal.NewFromInt(20), SellingPrice: decimal.NewFromInt(18)}
	assert.True(t, p.Price().Equal(decimal.NewFromInt(18)))
	assert.True(t, p.OnSale())

	p.DiscountedPrice = decimal.NewNullDecimal(decimal.NewFromInt(15))
	assert.True(t, p.Price().Equal(decimal.NewFromInt(15)))

	plain := Product{RegularPrice: decimal.NewFromInt(9)}
	assert.True(t, plain.Price().Equal(decimal.NewFromInt(9)))
	assert.False(t, plain.OnSale())
}
