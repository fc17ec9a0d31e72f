package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/http/flash"
	"rumal.store/web/pkg/view"
)

const CtxKeyFlash = "flash"

// FlashMiddleware moves the one-shot flash cookie into the request context
// and clears it, valid or not. Background requests leave the cookie in place
// so a badge refresh racing a redirect cannot swallow the message meant for
// the page.
func FlashMiddleware(codec *flash.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if backgroundRequest(c) {
			c.Next()
			return
		}
		if v, err := c.Cookie(codec.CookieName); err == nil && v != "" {
			if f, err := codec.Decode(v); err == nil {
				c.Set(CtxKeyFlash, f)
			}
			writeFlashCookie(c, codec, "", -1)
		}
		c.Next()
	}
}

func GetFlash(c *gin.Context) *view.Flash {
	if v, ok := c.Get(CtxKeyFlash); ok {
		if f, ok := v.(*view.Flash); ok {
			return f
		}
	}
	return nil
}

// SetFlashCookie queues f for the next page render. An empty message is
// ignored.
func SetFlashCookie(c *gin.Context, codec *flash.Codec, f view.Flash) {
	if f.Message == "" {
		return
	}
	val, err := codec.Encode(f)
	if err != nil {
		return
	}
	writeFlashCookie(c, codec, val, codec.CookieMaxAge())
}

func writeFlashCookie(c *gin.Context, codec *flash.Codec, val string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(codec.CookieName, val, maxAge, "/", "", codec.Secure, true)
}
