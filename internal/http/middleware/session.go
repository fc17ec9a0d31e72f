package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/auth"
)

const ctxKeyIdentity = "identity"

// SessionCfg holds configuration for session middleware.
type SessionCfg struct {
	Manager    *auth.Manager
	CookieName string
	Secure     bool
	TTL        time.Duration
	Logger     *slog.Logger
}

// SessionMiddleware resolves the signed session cookie into an identity.
// Sessions the manager ended (expired, revoked, failed renewal) clear the
// cookie; the request continues anonymously either way.
func SessionMiddleware(cfg SessionCfg) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cfg.CookieName)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		sid, err := cfg.Manager.Signer().DecodeSessionID(raw)
		if err != nil {
			ClearSessionCookie(c, cfg)
			c.Next()
			return
		}

		id, err := cfg.Manager.Resolve(c.Request.Context(), sid)
		switch {
		case err == nil:
			c.Set(ctxKeyIdentity, id)
		case errors.Is(err, auth.ErrSessionEnded), errors.Is(err, auth.ErrSessionNotFound):
			ClearSessionCookie(c, cfg)
		default:
			cfg.Logger.Warn("session lookup failed",
				slog.String("request_id", GetRequestID(c)), slog.Any("err", err))
		}

		c.Next()
	}
}

// SetSessionCookie stores the signed session id.
func SetSessionCookie(c *gin.Context, cfg SessionCfg, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, cfg.Manager.Signer().EncodeSessionID(sessionID),
		int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
}

func ClearSessionCookie(c *gin.Context, cfg SessionCfg) {
	clearCookie(c, cfg.CookieName, cfg.Secure)
}

func clearCookie(c *gin.Context, name string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", secure, true)
}

// CurrentIdentity returns the signed-in user, if any.
func CurrentIdentity(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(ctxKeyIdentity)
	if !ok {
		return nil, false
	}
	id, ok := v.(*auth.Identity)
	return id, ok && id != nil
}

// SetIdentity is used by tests and by the login callback.
func SetIdentity(c *gin.Context, id *auth.Identity) {
	c.Set(ctxKeyIdentity, id)
}

// EventScope maps a request to its notification scope for the SSE stream.
func EventScope(c *gin.Context) (string, bool) {
	id, ok := CurrentIdentity(c)
	if !ok {
		return "", false
	}
	return id.Subject(), true
}
