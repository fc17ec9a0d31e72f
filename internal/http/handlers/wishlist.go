package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/http/flash"
	"rumal.store/web/internal/http/render"
	"rumal.store/web/internal/http/validation"
	"rumal.store/web/internal/modules/wishlist"
	"rumal.store/web/pkg/view"
)

type WishlistVM struct {
	Items       []wishlist.Item
	Collections []wishlist.Collection
	Error       string
}

type CollectionVM struct {
	Collection wishlist.Collection
	Items      []wishlist.Item
	ShareURL   string
}

type SharedWishlistVM struct {
	View wishlist.SharedView
}

type WishlistHandler struct {
	Wishlist *wishlist.Service
	Flash    *flash.Codec
	Logger   *slog.Logger
}

func NewWishlistHandler(svc *wishlist.Service, codec *flash.Codec, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{Wishlist: svc, Flash: codec, Logger: logger}
}

func (h *WishlistHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	id := identity(c)

	items, err := h.Wishlist.Get(ctx, id)
	vm := WishlistVM{Items: items, Error: loadError(err)}
	if cols, err := h.Wishlist.ListCollections(ctx, id); err == nil {
		vm.Collections = cols
	}
	render.Page(c, http.StatusOK, "wishlist.html", "Your wishlist", vm)
}

func (h *WishlistHandler) Add(c *gin.Context) {
	err := h.Wishlist.AddItem(c.Request.Context(), identity(c),
		strings.TrimSpace(c.PostForm("product_id")), strings.TrimSpace(c.PostForm("collection_id")))
	render.Mutated(c, h.Flash, err, "Saved to your wishlist.", render.Back(c, "/wishlist"))
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	err := h.Wishlist.RemoveItem(c.Request.Context(), identity(c), c.Param("id"))
	render.Mutated(c, h.Flash, err, "Removed from your wishlist.", "/wishlist")
}

func (h *WishlistHandler) Clear(c *gin.Context) {
	err := h.Wishlist.Clear(c.Request.Context(), identity(c))
	render.Mutated(c, h.Flash, err, "Your wishlist is empty.", "/wishlist")
}

// MoveToCart refuses parent products; the shopper picks options on the
// product page first.
func (h *WishlistHandler) MoveToCart(c *gin.Context) {
	err := h.Wishlist.MoveToCart(c.Request.Context(), identity(c), c.Param("id"))
	render.Mutated(c, h.Flash, err, "Moved to your cart.", "/wishlist")
}

type collectionForm struct {
	Name        string `form:"name" binding:"required,max=80"`
	Description string `form:"description" binding:"max=500"`
	Public      bool   `form:"public"`
}

func (f collectionForm) input() wishlist.CollectionInput {
	return wishlist.CollectionInput{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Public:      f.Public,
	}
}

func (h *WishlistHandler) CreateCollection(c *gin.Context) {
	var f collectionForm
	if err := validation.Bind(c, &f); err != nil {
		render.Mutated(c, h.Flash, err, "", "/wishlist")
		return
	}
	col, err := h.Wishlist.CreateCollection(c.Request.Context(), identity(c), f.input())
	next := "/wishlist"
	if err == nil && col.ID != "" {
		next = "/wishlist/collections/" + col.ID
	}
	render.Mutated(c, h.Flash, err, "Collection created.", next)
}

func (h *WishlistHandler) ShowCollection(c *gin.Context) {
	ctx := c.Request.Context()
	col, err := h.Wishlist.GetCollection(ctx, identity(c), c.Param("id"))
	if err != nil {
		render.RedirectWithFlash(c, h.Flash, "/wishlist", view.FlashError, loadError(err))
		return
	}
	vm := CollectionVM{Collection: col, Items: col.Items}
	if col.ShareToken != "" {
		vm.ShareURL = h.Wishlist.ShareURL(col.ShareToken)
	}
	render.Page(c, http.StatusOK, "collection.html", col.Name, vm)
}

func (h *WishlistHandler) UpdateCollection(c *gin.Context) {
	next := "/wishlist/collections/" + c.Param("id")
	var f collectionForm
	if err := validation.Bind(c, &f); err != nil {
		render.Mutated(c, h.Flash, err, "", next)
		return
	}
	err := h.Wishlist.UpdateCollection(c.Request.Context(), identity(c), c.Param("id"), f.input())
	render.Mutated(c, h.Flash, err, "Collection saved.", next)
}

func (h *WishlistHandler) DeleteCollection(c *gin.Context) {
	err := h.Wishlist.DeleteCollection(c.Request.Context(), identity(c), c.Param("id"))
	render.Mutated(c, h.Flash, err, "Collection deleted.", "/wishlist")
}

func (h *WishlistHandler) Share(c *gin.Context) {
	next := "/wishlist/collections/" + c.Param("id")
	_, err := h.Wishlist.ShareCollection(c.Request.Context(), identity(c), c.Param("id"))
	render.Mutated(c, h.Flash, err, "Share link created.", next)
}

func (h *WishlistHandler) Unshare(c *gin.Context) {
	next := "/wishlist/collections/" + c.Param("id")
	err := h.Wishlist.RevokeShare(c.Request.Context(), identity(c), c.Param("id"))
	render.Mutated(c, h.Flash, err, "Share link revoked.", next)
}

type shareEmailForm struct {
	To string `form:"to" binding:"required,email"`
}

func (h *WishlistHandler) EmailShare(c *gin.Context) {
	next := "/wishlist/collections/" + c.Param("id")
	var f shareEmailForm
	if err := validation.Bind(c, &f); err != nil {
		render.Mutated(c, h.Flash, err, "", next)
		return
	}
	err := h.Wishlist.EmailShareLink(c.Request.Context(), identity(c), c.Param("id"), f.To)
	render.Mutated(c, h.Flash, err, "Share link sent to "+f.To+".", next)
}

// Shared renders a public collection. Unknown or revoked tokens show the
// "not available" state with 200; the page never errors.
func (h *WishlistHandler) Shared(c *gin.Context) {
	v, err := h.Wishlist.GetShared(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.Logger.Warn("shared wishlist load failed", slog.Any("err", err))
	}
	title := "Shared wishlist"
	if v.Available && v.Collection.Name != "" {
		title = v.Collection.Name
	}
	render.Page(c, http.StatusOK, "shared_wishlist.html", title, SharedWishlistVM{View: v})
}
