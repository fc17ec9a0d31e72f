package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/http/render"
	"rumal.store/web/internal/http/validation"
	adminmod "rumal.store/web/internal/modules/admin"
)

func (h *Handler) Sessions(c *gin.Context) {
	p, f := listParams(c, "q", "status")
	res, err := h.Admin.ListSessions(c.Request.Context(), identity(c), f)
	render.Page(c, http.StatusOK, "admin_sessions.html", "Sessions",
		newList[adminmod.Session](p, "/admin/sessions", res.Content, res.TotalPages, res.TotalElements, err))
}

func (h *Handler) RevokeSession(c *gin.Context) {
	err := h.Admin.RevokeSession(c.Request.Context(), identity(c), c.Param("id"))
	render.Mutated(c, h.Flash, err, "Session revoked.", render.Back(c, "/admin/sessions"))
}

type APIKeysVM struct {
	ListVM[adminmod.APIKey]
	Created *adminmod.CreatedAPIKey
}

func (h *Handler) APIKeys(c *gin.Context) {
	h.renderAPIKeys(c, http.StatusOK, nil)
}

func (h *Handler) renderAPIKeys(c *gin.Context, status int, created *adminmod.CreatedAPIKey) {
	p, f := listParams(c, "q")
	res, err := h.Admin.ListAPIKeys(c.Request.Context(), identity(c), f)
	render.Page(c, status, "admin_api_keys.html", "API keys", APIKeysVM{
		ListVM:  newList(p, "/admin/api-keys", res.Content, res.TotalPages, res.TotalElements, err),
		Created: created,
	})
}

type apiKeyForm struct {
	Name   string `form:"name" binding:"required,max=80"`
	Scopes string `form:"scopes"`
}

// CreateAPIKey shows the new secret on the response page; it is never
// retrievable again.
func (h *Handler) CreateAPIKey(c *gin.Context) {
	var f apiKeyForm
	if err := validation.Bind(c, &f); err != nil {
		render.Mutated(c, h.Flash, err, "", "/admin/api-keys")
		return
	}
	scopes := strings.FieldsFunc(f.Scopes, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' })
	key, err := h.Admin.CreateAPIKey(c.Request.Context(), identity(c), f.Name, scopes)
	if err != nil {
		render.Mutated(c, h.Flash, err, "", "/admin/api-keys")
		return
	}
	h.renderAPIKeys(c, http.StatusCreated, &key)
}

func (h *Handler) RevokeAPIKey(c *gin.Context) {
	err := h.Admin.RevokeAPIKey(c.Request.Context(), identity(c), c.Param("id"))
	render.Mutated(c, h.Flash, err, "API key revoked.", "/admin/api-keys")
}

func (h *Handler) AccessAudit(c *gin.Context) {
	p, f := listParams(c, "actor", "action", "from", "to")
	res, err := h.Admin.ListAccessAudit(c.Request.Context(), identity(c), f)
	render.Page(c, http.StatusOK, "admin_audit.html", "Access audit",
		newList[adminmod.AuditEntry](p, "/admin/access-audit", res.Content, res.TotalPages, res.TotalElements, err))
}
