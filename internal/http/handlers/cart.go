package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/http/flash"
	"rumal.store/web/internal/http/render"
	"rumal.store/web/internal/modules/cart"
	"rumal.store/web/pkg/view"
)

type CartVM struct {
	Cart  cart.Cart
	Error string
}

type CartHandler struct {
	Cart  *cart.Service
	Flash *flash.Codec
}

func NewCartHandler(svc *cart.Service, codec *flash.Codec) *CartHandler {
	return &CartHandler{Cart: svc, Flash: codec}
}

func (h *CartHandler) Show(c *gin.Context) {
	ct, err := h.Cart.Get(c.Request.Context(), identity(c))
	render.Page(c, http.StatusOK, "cart.html", "Your cart", CartVM{Cart: ct, Error: loadError(err)})
}

// Add handles POST /cart/items.
func (h *CartHandler) Add(c *gin.Context) {
	productID := strings.TrimSpace(c.PostForm("product_id"))
	if productID == "" {
		render.RedirectWithFlash(c, h.Flash, render.Back(c, "/products"), view.FlashError, "Choose a product first.")
		return
	}
	qty := cart.Clamp(formInt(c, "qty", 1), cart.MinQty, cart.MaxQty)
	err := h.Cart.AddItem(c.Request.Context(), identity(c), productID, qty)
	render.Mutated(c, h.Flash, err, "Added to cart.", "/cart")
}

// Update handles POST /cart/items/:id. A quantity of zero removes the line.
func (h *CartHandler) Update(c *gin.Context) {
	qty := formInt(c, "qty", 1)
	if qty > cart.MaxQty {
		qty = cart.MaxQty
	}
	err := h.Cart.UpdateItem(c.Request.Context(), identity(c), c.Param("id"), qty)
	msg := "Cart updated."
	if qty <= 0 {
		msg = "Item removed."
	}
	render.Mutated(c, h.Flash, err, msg, "/cart")
}

func (h *CartHandler) Remove(c *gin.Context) {
	err := h.Cart.RemoveItem(c.Request.Context(), identity(c), c.Param("id"))
	render.Mutated(c, h.Flash, err, "Item removed.", "/cart")
}

func (h *CartHandler) Clear(c *gin.Context) {
	err := h.Cart.Clear(c.Request.Context(), identity(c))
	render.Mutated(c, h.Flash, err, "Your cart is empty.", "/cart")
}
