package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/http/flash"
	"rumal.store/web/internal/http/middleware"
	"rumal.store/web/internal/http/paging"
	"rumal.store/web/internal/http/render"
	"rumal.store/web/internal/modules/orders"
	"rumal.store/web/internal/modules/vendors"
	"rumal.store/web/internal/shared/apperr"
	"rumal.store/web/pkg/view"
)

type OrdersVM struct {
	Orders   []orders.Order
	Statuses []orders.Status
	Status   string
	FP       string
	Pager    view.Pager
	Error    string
}

type OrderVM struct {
	Order orders.Order
}

type InsightsVM struct {
	Insights vendors.CustomerInsights
	Error    string
}

// AccountHandler serves the signed-in customer's orders and insights.
type AccountHandler struct {
	Orders  *orders.Service
	Vendors *vendors.Service
	Flash   *flash.Codec
}

func NewAccountHandler(o *orders.Service, v *vendors.Service, codec *flash.Codec) *AccountHandler {
	return &AccountHandler{Orders: o, Vendors: v, Flash: codec}
}

func (h *AccountHandler) ListOrders(c *gin.Context) {
	p := paging.Parse(c.Request.URL.Query(), "status")
	res, err := h.Orders.ListMine(c.Request.Context(), identity(c), orders.Filter{
		Status: p.Get("status"),
		Page:   p.Page,
		Size:   p.Size,
	})
	render.Page(c, http.StatusOK, "orders.html", "Your orders", OrdersVM{
		Orders:   res.Content,
		Statuses: orders.AllStatuses,
		Status:   p.Get("status"),
		FP:       p.Fingerprint,
		Pager:    p.Pager("/account/orders", res.TotalPages, res.TotalElements),
		Error:    loadError(err),
	})
}

func (h *AccountHandler) ShowOrder(c *gin.Context) {
	o, err := h.Orders.GetMine(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		middleware.Fail(c, apperr.Normalize(err))
		return
	}
	render.Page(c, http.StatusOK, "order.html", "Order "+o.OrderNumber, OrderVM{Order: o})
}

func (h *AccountHandler) Cancel(c *gin.Context) {
	next := "/account/orders/" + c.Param("id")
	err := h.Orders.CancelMine(c.Request.Context(), identity(c), c.Param("id"), strings.TrimSpace(c.PostForm("reason")))
	render.Mutated(c, h.Flash, err, "Your order was cancelled.", next)
}

func (h *AccountHandler) Insights(c *gin.Context) {
	id := identity(c)
	ins, err := h.Vendors.CustomerInsights(c.Request.Context(), id, id.Subject())
	render.Page(c, http.StatusOK, "insights.html", "Your shopping insights", InsightsVM{Insights: ins, Error: loadError(err)})
}
