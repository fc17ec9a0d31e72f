// Package admin serves the platform admin screens.
package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/http/flash"
	"rumal.store/web/internal/http/middleware"
	"rumal.store/web/internal/http/paging"
	"rumal.store/web/internal/http/render"
	"rumal.store/web/internal/http/validation"
	adminmod "rumal.store/web/internal/modules/admin"
	"rumal.store/web/internal/modules/orders"
	"rumal.store/web/internal/shared/apperr"
	"rumal.store/web/pkg/view"
)

type Handler struct {
	Admin    *adminmod.Service
	OrderSvc *orders.AdminService
	Flash    *flash.Codec
}

func NewHandler(a *adminmod.Service, o *orders.AdminService, codec *flash.Codec) *Handler {
	return &Handler{Admin: a, OrderSvc: o, Flash: codec}
}

func identity(c *gin.Context) *auth.Identity {
	id, _ := middleware.CurrentIdentity(c)
	return id
}

func loadError(err error) string {
	if err == nil {
		return ""
	}
	return apperr.Normalize(err).PublicMsg
}

// ListVM is shared by every filtered admin table.
type ListVM[T any] struct {
	Rows    []T
	Filters map[string]string
	FP      string
	Pager   view.Pager
	Error   string
}

// listParams parses the page and the named filters of an admin table.
func listParams(c *gin.Context, keys ...string) (paging.Params, adminmod.Filter) {
	p := paging.Parse(c.Request.URL.Query(), keys...)
	return p, adminmod.Filter{
		Query:  p.Get("q"),
		Status: p.Get("status"),
		Type:   p.Get("type"),
		Actor:  p.Get("actor"),
		Action: p.Get("action"),
		From:   p.Get("from"),
		To:     p.Get("to"),
		Page:   p.Page,
		Size:   p.Size,
	}
}

func newList[T any](p paging.Params, path string, rows []T, totalPages int, total int64, err error) ListVM[T] {
	filters := map[string]string{}
	for k := range p.Filters {
		filters[k] = p.Filters.Get(k)
	}
	return ListVM[T]{
		Rows:    rows,
		Filters: filters,
		FP:      p.Fingerprint,
		Pager:   p.Pager(path, totalPages, total),
		Error:   loadError(err),
	}
}

type DashboardVM struct {
	RecentOrders []orders.Order
	Flags        []adminmod.FeatureFlag
	Error        string
}

func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	id := identity(c)
	vm := DashboardVM{}

	res, err := h.OrderSvc.List(ctx, id, orders.Filter{Size: 5})
	vm.RecentOrders = res.Content
	vm.Error = loadError(err)
	if flags, err := h.Admin.ListFlags(ctx, id); err == nil {
		vm.Flags = flags
	}
	render.Page(c, http.StatusOK, "admin_dashboard.html", "Admin", vm)
}

type OrdersVM struct {
	ListVM[orders.Order]
	Statuses []orders.Status
}

func (h *Handler) Orders(c *gin.Context) {
	p, f := listParams(c, "q", "status", "from", "to")
	res, err := h.OrderSvc.List(c.Request.Context(), identity(c), orders.Filter{
		Status: f.Status, Query: f.Query, From: f.From, To: f.To, Page: f.Page, Size: f.Size,
	})
	render.Page(c, http.StatusOK, "admin_orders.html", "Orders", OrdersVM{
		ListVM:   newList(p, "/admin/orders", res.Content, res.TotalPages, res.TotalElements, err),
		Statuses: orders.AllStatuses,
	})
}

type orderStatusForm struct {
	Status string `form:"status" binding:"required"`
	Note   string `form:"note" binding:"max=500"`
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var f orderStatusForm
	if err := validation.Bind(c, &f); err != nil {
		render.Mutated(c, h.Flash, err, "", "/admin/orders")
		return
	}
	err := h.OrderSvc.UpdateStatus(c.Request.Context(), identity(c), orders.TransitionInput{
		OrderID: c.Param("id"),
		Status:  f.Status,
		Note:    strings.TrimSpace(f.Note),
	})
	render.Mutated(c, h.Flash, err, "Order status updated.", render.Back(c, "/admin/orders"))
}
