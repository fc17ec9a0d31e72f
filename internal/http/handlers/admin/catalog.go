package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/http/render"
	adminmod "rumal.store/web/internal/modules/admin"
	"rumal.store/web/internal/modules/catalog"
)

func (h *Handler) Products(c *gin.Context) {
	p, f := listParams(c, "q", "status")
	res, err := h.Admin.ListProducts(c.Request.Context(), identity(c), f)
	render.Page(c, http.StatusOK, "admin_products.html", "Products",
		newList[catalog.Product](p, "/admin/products", res.Content, res.TotalPages, res.TotalElements, err))
}

// SetProductActive publishes or unpublishes a product.
func (h *Handler) SetProductActive(c *gin.Context) {
	active := c.PostForm("active") == "true"
	msg := "Product unpublished."
	if active {
		msg = "Product published."
	}
	err := h.Admin.SetProductActive(c.Request.Context(), identity(c), c.Param("id"), active)
	render.Mutated(c, h.Flash, err, msg, render.Back(c, "/admin/products"))
}

func (h *Handler) Reviews(c *gin.Context) {
	p, f := listParams(c, "status")
	res, err := h.Admin.ListReviews(c.Request.Context(), identity(c), f)
	render.Page(c, http.StatusOK, "admin_reviews.html", "Reviews",
		newList[adminmod.ModeratedReview](p, "/admin/reviews", res.Content, res.TotalPages, res.TotalElements, err))
}

func (h *Handler) ModerateReview(c *gin.Context) {
	action := c.PostForm("action")
	err := h.Admin.ModerateReview(c.Request.Context(), identity(c), c.Param("id"), action)
	msg := map[string]string{
		adminmod.ModerationApprove: "Review approved.",
		adminmod.ModerationHide:    "Review hidden.",
		adminmod.ModerationDelete:  "Review deleted.",
	}[action]
	render.Mutated(c, h.Flash, err, msg, render.Back(c, "/admin/reviews"))
}

func (h *Handler) Payments(c *gin.Context) {
	p, f := listParams(c, "q", "status", "type", "from", "to")
	res, err := h.Admin.ListPayments(c.Request.Context(), identity(c), f)
	render.Page(c, http.StatusOK, "admin_payments.html", "Payments",
		newList[adminmod.Payment](p, "/admin/payments", res.Content, res.TotalPages, res.TotalElements, err))
}
