package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/http/flash"
	"rumal.store/web/pkg/view"
)

// RequireAuth sends anonymous visitors to the login page (JSON: 401).
func RequireAuth(codec *flash.Codec) gin.HandlerFunc {
	return requireRole(codec, "Please sign in to continue.", "", nil)
}

// RequireVendor gates the vendor dashboard on the vendor role claims.
func RequireVendor(codec *flash.Codec) gin.HandlerFunc {
	return requireRole(codec, "Please sign in to open the vendor dashboard.",
		"Your account has no vendor access.",
		func(c auth.Claims) bool { return c.IsVendor() || c.IsAdmin() })
}

// RequireAdmin gates the admin screens on the platform role claims.
func RequireAdmin(codec *flash.Codec) gin.HandlerFunc {
	return requireRole(codec, "Please sign in to open the admin panel.",
		"You do not have access to this page.",
		func(c auth.Claims) bool { return c.IsAdmin() })
}

// The claims are display hints only; the gateway authorizes every call.
func requireRole(codec *flash.Codec, loginMsg, forbiddenMsg string, allowed func(auth.Claims) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			if WantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":      "authentication required",
					"request_id": GetRequestID(c),
				})
				return
			}

			SetFlashCookie(c, codec, view.Flash{Kind: view.FlashWarning, Message: loginMsg})
			c.Redirect(http.StatusFound, "/login?return_to="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		if allowed != nil && !allowed(id.Claims) {
			if WantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error":      "forbidden",
					"request_id": GetRequestID(c),
				})
				return
			}

			SetFlashCookie(c, codec, view.Flash{Kind: view.FlashError, Message: forbiddenMsg})
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}
