package catalog

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"rumal.store/web/internal/gateway"
	"rumal.store/web/internal/query"
)

// Cache prefixes owned by the catalog.
var (
	KeyProducts   = query.K("products")
	KeyCategories = query.K("categories")
	KeyPromotions = query.K("promotions")
)

type ProductFilter struct {
	Query    string
	Category string
	VendorID string
	Sort     string
	Page     int
	Size     int
}

func (f ProductFilter) values() url.Values {
	q := url.Values{}
	if s := strings.TrimSpace(f.Query); s != "" {
		q.Set("search", s)
	}
	if f.Category != "" {
		q.Set("categoryId", f.Category)
	}
	if f.VendorID != "" {
		q.Set("vendorId", f.VendorID)
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
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

func (s *Service) ListProducts(ctx context.Context, f ProductFilter) (gateway.Page[Product], error) {
	q := f.values()
	return query.Get(ctx, s.cache, KeyProducts.With("list", q.Encode()), func(ctx context.Context) (gateway.Page[Product], error) {
		var page gateway.Page[Product]
		err := s.gw.Get(ctx, "/products", q, "", &page)
		return page, err
	})
}

func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	return query.Get(ctx, s.cache, KeyProducts.With("detail", id), func(ctx context.Context) (Product, error) {
		var p Product
		err := s.gw.Get(ctx, "/products/"+url.PathEscape(id), nil, "", &p)
		return p, err
	})
}

func (s *Service) ListVariations(ctx context.Context, parentID string) ([]Product, error) {
	return query.Get(ctx, s.cache, KeyProducts.With("variations", parentID), func(ctx context.Context) ([]Product, error) {
		var page gateway.Page[Product]
		err := s.gw.Get(ctx, "/products/"+url.PathEscape(parentID)+"/variations", nil, "", &page)
		return page.Content, err
	})
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return query.Get(ctx, s.cache, KeyCategories, func(ctx context.Context) ([]Category, error) {
		var page gateway.Page[Category]
		err := s.gw.Get(ctx, "/categories", nil, "", &page)
		return page.Content, err
	})
}

func (s *Service) ListPromotions(ctx context.Context, page int) (gateway.Page[Promotion], error) {
	q := url.Values{"page": {strconv.Itoa(page)}}
	return query.Get(ctx, s.cache, KeyPromotions.With(q.Encode()), func(ctx context.Context) (gateway.Page[Promotion], error) {
		var p gateway.Page[Promotion]
		err := s.gw.Get(ctx, "/promotions", q, "", &p)
		return p, err
	})
}

// productWrites are the lists a product change can appear in.
var productWrites = query.Mutation{
	Invalidates: []query.Key{KeyProducts, query.K("vendor", "products"), query.K("admin", "products")},
}

func (s *Service) CreateProduct(ctx context.Context, token string, in ProductInput) (Product, error) {
	var out Product
	err := s.cache.Mutate(ctx, "", productWrites, func(ctx context.Context) error {
		return s.gw.Post(ctx, "/products", in, token, &out)
	})
	return out, err
}

func (s *Service) UpdateProduct(ctx context.Context, token, id string, in ProductInput) (Product, error) {
	var out Product
	err := s.cache.Mutate(ctx, "", productWrites, func(ctx context.Context) error {
		return s.gw.Put(ctx, "/products/"+url.PathEscape(id), in, token, &out)
	})
	return out, err
}

func (s *Service) DeleteProduct(ctx context.Context, token, id string) error {
	return s.cache.Mutate(ctx, "", productWrites, func(ctx context.Context) error {
		return s.gw.Delete(ctx, "/products/"+url.PathEscape(id), token)
	})
}

// AttachImage records an uploaded image URL on the product.
func (s *Service) AttachImage(ctx context.Context, token, id, imageURL string) error {
	return s.cache.Mutate(ctx, "", productWrites, func(ctx context.Context) error {
		return s.gw.Post(ctx, "/products/"+url.PathEscape(id)+"/images", map[string]string{"url": imageURL}, token, nil)
	})
}
