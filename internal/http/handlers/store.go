package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/http/flash"
	"rumal.store/web/internal/http/middleware"
	"rumal.store/web/internal/http/paging"
	"rumal.store/web/internal/http/render"
	"rumal.store/web/internal/http/validation"
	"rumal.store/web/internal/modules/catalog"
	"rumal.store/web/internal/modules/reviews"
	"rumal.store/web/internal/shared/apperr"
	"rumal.store/web/pkg/view"
)

// optPrefix namespaces variation selectors in the query string: opt_Size=M.
const optPrefix = "opt_"

type HomeVM struct {
	Products   []catalog.Product
	Categories []catalog.Category
	Promotions []catalog.Promotion
	Error      string
}

type ProductsVM struct {
	Products   []catalog.Product
	Categories []catalog.Category
	Query      string
	Category   string
	Sort       string
	FP         string
	Pager      view.Pager
	Error      string
}

type ProductVM struct {
	Product     catalog.Product
	Options     []OptionVM
	Complete    bool
	VariationID string
	Variation   *catalog.Product
	Reviews     []reviews.Review
	ReviewPager view.Pager
	ReviewError string
}

// OptionVM is one variation attribute selector.
type OptionVM struct {
	Name     string
	Field    string
	Values   []string
	Selected string
}

// VariationMatch is the JSON answer of the variation selector.
type VariationMatch struct {
	ProductID   string `json:"productId"`
	VariationID string `json:"variationId,omitempty"`
	Found       bool   `json:"found"`
}

type CategoriesVM struct {
	Categories []catalog.Category
	Error      string
}

type PromotionsVM struct {
	Promotions []catalog.Promotion
	Pager      view.Pager
	Error      string
}

type StoreHandler struct {
	Catalog *catalog.Service
	Reviews *reviews.Service
	Flash   *flash.Codec
	Logger  *slog.Logger
}

func NewStoreHandler(cat *catalog.Service, rev *reviews.Service, codec *flash.Codec, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{Catalog: cat, Reviews: rev, Flash: codec, Logger: logger}
}

// Home shows featured products, categories and running promotions. Each
// block degrades to an empty state on its own.
func (h *StoreHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	vm := HomeVM{}

	prods, err := h.Catalog.ListProducts(ctx, catalog.ProductFilter{Sort: "createdAt,desc", Size: 8})
	if err != nil {
		vm.Error = loadError(err)
	}
	vm.Products = prods.Content

	if cats, err := h.Catalog.ListCategories(ctx); err == nil {
		vm.Categories = cats
	}
	if promos, err := h.Catalog.ListPromotions(ctx, 0); err == nil {
		vm.Promotions = promos.Content
	}

	render.Page(c, http.StatusOK, "home.html", "Rumal Store", vm)
}

func (h *StoreHandler) Products(c *gin.Context) {
	p := paging.Parse(c.Request.URL.Query(), "q", "category", "sort")
	vm := ProductsVM{
		Query:    p.Get("q"),
		Category: p.Get("category"),
		Sort:     p.Get("sort"),
		FP:       p.Fingerprint,
	}

	res, err := h.Catalog.ListProducts(c.Request.Context(), catalog.ProductFilter{
		Query:    vm.Query,
		Category: vm.Category,
		Sort:     vm.Sort,
		Page:     p.Page,
		Size:     p.Size,
	})
	if err != nil {
		vm.Error = loadError(err)
	}
	vm.Products = res.Content
	vm.Pager = p.Pager("/products", res.TotalPages, res.TotalElements)
	if cats, err := h.Catalog.ListCategories(c.Request.Context()); err == nil {
		vm.Categories = cats
	}

	render.Page(c, http.StatusOK, "products.html", "Products", vm)
}

func (h *StoreHandler) Product(c *gin.Context) {
	ctx := c.Request.Context()
	prod, err := h.Catalog.GetProduct(ctx, c.Param("id"))
	if err != nil {
		middleware.Fail(c, apperr.Normalize(err))
		return
	}

	vm := ProductVM{Product: prod}
	if prod.ProductType == catalog.TypeParent {
		vars, err := h.Catalog.ListVariations(ctx, prod.ID)
		if err != nil {
			h.Logger.Warn("variations load failed", slog.String("product_id", prod.ID), slog.Any("err", err))
		}
		vm.Options, vm.Complete, vm.VariationID = selectVariation(prod, vars, c)
		for i := range vars {
			if vars[i].ID == vm.VariationID {
				vm.Variation = &vars[i]
			}
		}
	}

	p := paging.Parse(c.Request.URL.Query())
	revs, err := h.Reviews.ListForProduct(ctx, prod.ID, p.Page)
	if err != nil {
		vm.ReviewError = loadError(err)
	}
	vm.Reviews = revs.Content
	vm.ReviewPager = p.Pager("/products/"+prod.ID, revs.TotalPages, revs.TotalElements)

	render.Page(c, http.StatusOK, "product.html", prod.Name, vm)
}

// Variation answers the selector with the matching variation id, if any.
func (h *StoreHandler) Variation(c *gin.Context) {
	ctx := c.Request.Context()
	prod, err := h.Catalog.GetProduct(ctx, c.Param("id"))
	if err != nil {
		middleware.Fail(c, apperr.Normalize(err))
		return
	}
	out := VariationMatch{ProductID: prod.ID}
	if prod.ProductType == catalog.TypeParent {
		vars, err := h.Catalog.ListVariations(ctx, prod.ID)
		if err != nil {
			middleware.Fail(c, apperr.Normalize(err))
			return
		}
		_, _, out.VariationID = selectVariation(prod, vars, c)
		out.Found = out.VariationID != ""
	}
	c.JSON(http.StatusOK, out)
}

func selectVariation(parent catalog.Product, vars []catalog.Product, c *gin.Context) ([]OptionVM, bool, string) {
	selection := map[string]string{}
	var opts []OptionVM
	complete := len(parent.VariationAttributes) > 0
	for _, o := range catalog.AttributeOptions(parent, vars) {
		field := optPrefix + o.Name
		sel := strings.TrimSpace(c.Query(field))
		if sel == "" {
			complete = false
		}
		selection[o.Name] = sel
		opts = append(opts, OptionVM{Name: o.Name, Field: field, Values: o.Values, Selected: sel})
	}
	id, _ := catalog.MatchVariation(parent, vars, selection)
	return opts, complete, id
}

func (h *StoreHandler) Categories(c *gin.Context) {
	cats, err := h.Catalog.ListCategories(c.Request.Context())
	render.Page(c, http.StatusOK, "categories.html", "Categories", CategoriesVM{Categories: cats, Error: loadError(err)})
}

func (h *StoreHandler) Promotions(c *gin.Context) {
	p := paging.Parse(c.Request.URL.Query())
	res, err := h.Catalog.ListPromotions(c.Request.Context(), p.Page)
	render.Page(c, http.StatusOK, "promotions.html", "Promotions", PromotionsVM{
		Promotions: res.Content,
		Pager:      p.Pager("/promotions", res.TotalPages, res.TotalElements),
		Error:      loadError(err),
	})
}

type reviewForm struct {
	Rating  int    `form:"rating" binding:"required,min=1,max=5"`
	Title   string `form:"title" binding:"max=120"`
	Comment string `form:"comment" binding:"required,max=2000"`
}

// CreateReview posts a review for the product on the URL.
func (h *StoreHandler) CreateReview(c *gin.Context) {
	productID := c.Param("id")
	next := "/products/" + productID

	var f reviewForm
	if err := validation.Bind(c, &f); err != nil {
		render.Mutated(c, h.Flash, err, "", next)
		return
	}
	err := h.Reviews.Create(c.Request.Context(), identity(c), reviews.Input{
		ProductID: productID,
		Rating:    f.Rating,
		Title:     strings.TrimSpace(f.Title),
		Comment:   strings.TrimSpace(f.Comment),
	})
	render.Mutated(c, h.Flash, err, "Thanks! Your review was submitted.", next)
}
