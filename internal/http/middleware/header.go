package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/auth"
	"rumal.store/web/pkg/view"
)

const ctxKeyHeader = "header"

// BadgeCounter is satisfied by the cart and wishlist services.
type BadgeCounter interface {
	Count(ctx context.Context, id *auth.Identity) (int, error)
}

type HeaderCfg struct {
	Cart     BadgeCounter
	Wishlist BadgeCounter
	Logger   *slog.Logger
}

// Header builds the navigation context for HTML page loads. Badge counts come
// from the query cache; a failed count shows zero.
func Header(cfg HeaderCfg) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || WantsJSON(c) || backgroundRequest(c) {
			c.Next()
			return
		}

		h := HeaderFrom(c)
		if id, ok := CurrentIdentity(c); ok {
			h.CartCount = count(c, cfg, cfg.Cart, id, "cart")
			h.WishlistCount = count(c, cfg, cfg.Wishlist, id, "wishlist")
		}
		c.Set(ctxKeyHeader, h)
		c.Next()
	}
}

// backgroundRequest is true for the event stream and the badge fragments.
// They never render the navigation or a flash.
func backgroundRequest(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream") ||
		strings.HasPrefix(c.Request.URL.Path, "/badge/") ||
		c.Request.URL.Path == "/events"
}

func count(c *gin.Context, cfg HeaderCfg, counter BadgeCounter, id *auth.Identity, name string) int {
	if counter == nil {
		return 0
	}
	n, err := counter.Count(c.Request.Context(), id)
	if err != nil {
		cfg.Logger.Debug("badge count failed", slog.String("badge", name), slog.Any("err", err))
		return 0
	}
	return n
}

// HeaderFrom returns the header built by Header, or one derived from the
// identity alone.
func HeaderFrom(c *gin.Context) view.Header {
	if v, ok := c.Get(ctxKeyHeader); ok {
		if h, ok := v.(view.Header); ok {
			return h
		}
	}
	h := view.Header{Path: c.Request.URL.Path}
	if id, ok := CurrentIdentity(c); ok {
		h.SignedIn = true
		h.Name = id.Claims.Name
		h.Email = id.Claims.Email
		h.IsAdmin = id.Claims.IsAdmin()
		h.IsVendor = id.Claims.IsVendor()
	}
	return h
}
