package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/http/render"
	adminmod "rumal.store/web/internal/modules/admin"
)

type SettingsVM struct {
	Settings      []adminmod.Setting
	Flags         []adminmod.FeatureFlag
	SettingsError string
	FlagsError    string
}

func (h *Handler) Settings(c *gin.Context) {
	ctx := c.Request.Context()
	id := identity(c)

	settings, err := h.Admin.ListSettings(ctx, id)
	vm := SettingsVM{Settings: settings, SettingsError: loadError(err)}
	flags, err := h.Admin.ListFlags(ctx, id)
	vm.Flags = flags
	vm.FlagsError = loadError(err)

	render.Page(c, http.StatusOK, "admin_settings.html", "Settings", vm)
}

func (h *Handler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")
	err := h.Admin.UpdateSetting(c.Request.Context(), identity(c), key, c.PostForm("value"))
	render.Mutated(c, h.Flash, err, "Saved "+key+".", "/admin/settings")
}

// ToggleFlag flips a feature flag. On failure the cached flag list is left
// alone, so the page shows the unchanged state next to the error toast.
func (h *Handler) ToggleFlag(c *gin.Context) {
	key := c.Param("key")
	enabled := c.PostForm("enabled") == "true"
	msg := key + " disabled."
	if enabled {
		msg = key + " enabled."
	}
	err := h.Admin.ToggleFlag(c.Request.Context(), identity(c), key, enabled)
	render.Mutated(c, h.Flash, err, msg, "/admin/settings")
}
