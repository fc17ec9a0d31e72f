package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/http/middleware"
	"rumal.store/web/internal/http/render"
)

// BadgeVM is the nav counter fragment.
type BadgeVM struct {
	Name  string
	Count int
}

// BadgeHandler serves the nav counters the event script refetches on
// cart-updated and wishlist-updated.
type BadgeHandler struct {
	CartCounter     middleware.BadgeCounter
	WishlistCounter middleware.BadgeCounter
}

func NewBadgeHandler(cart, wishlist middleware.BadgeCounter) *BadgeHandler {
	return &BadgeHandler{CartCounter: cart, WishlistCounter: wishlist}
}

func (h *BadgeHandler) Cart(c *gin.Context)     { h.badge(c, "cart", h.CartCounter) }
func (h *BadgeHandler) Wishlist(c *gin.Context) { h.badge(c, "wishlist", h.WishlistCounter) }

func (h *BadgeHandler) badge(c *gin.Context, name string, counter middleware.BadgeCounter) {
	vm := BadgeVM{Name: name}
	if id, ok := middleware.CurrentIdentity(c); ok {
		if n, err := counter.Count(c.Request.Context(), id); err == nil {
			vm.Count = n
		}
	}
	c.Header("Cache-Control", "no-store")
	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, vm)
		return
	}
	render.Fragment(c, http.StatusOK, "badge", vm)
}
