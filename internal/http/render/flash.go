package render

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/http/flash"
	"rumal.store/web/internal/http/middleware"
	"rumal.store/web/internal/shared/apperr"
	"rumal.store/web/pkg/view"
)

func RedirectWithFlash(c *gin.Context, codec *flash.Codec, location string, kind view.FlashKind, msg string) {
	middleware.SetFlashCookie(c, codec, view.Flash{Kind: kind, Message: msg})
	c.Redirect(http.StatusFound, location)
}

// Back is the same-site page the form was posted from, or fallback.
func Back(c *gin.Context, fallback string) string {
	ref := c.GetHeader("Referer")
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request.Host) || u.Path == "" {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}

// Mutated finishes a form post. Success flashes okMsg and redirects to next;
// failure flashes the public error message and sends the user back to the
// form. JSON clients get the result or the error status.
func Mutated(c *gin.Context, codec *flash.Codec, err error, okMsg, next string) {
	if middleware.WantsJSON(c) {
		if err != nil {
			middleware.Fail(c, apperr.Normalize(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": okMsg})
		return
	}
	if err != nil {
		ae := apperr.Normalize(err)
		_ = c.Error(ae)
		RedirectWithFlash(c, codec, Back(c, next), view.FlashError, ae.PublicMsg)
		return
	}
	RedirectWithFlash(c, codec, next, view.FlashSuccess, okMsg)
}
