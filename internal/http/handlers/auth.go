package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/http/flash"
	"rumal.store/web/internal/http/middleware"
	"rumal.store/web/internal/http/render"
	"rumal.store/web/pkg/view"
)

const loginStateCookie = "rumal_login"

// AuthHandler runs the identity provider round trip.
type AuthHandler struct {
	Manager *auth.Manager
	Session middleware.SessionCfg
	Flash   *flash.Codec
	Logger  *slog.Logger
}

func NewAuthHandler(m *auth.Manager, sess middleware.SessionCfg, codec *flash.Codec, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{Manager: m, Session: sess, Flash: codec, Logger: logger}
}

// Login handles GET /login?return_to=.
func (h *AuthHandler) Login(c *gin.Context) {
	if _, ok := middleware.CurrentIdentity(c); ok {
		c.Redirect(http.StatusFound, auth.SafeReturnTo(c.Query("return_to")))
		return
	}
	cookie, redirect, err := h.Manager.BeginLogin(c.Query("return_to"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(loginStateCookie, cookie, int((10 * time.Minute).Seconds()), "/", "", h.Session.Secure, true)
	c.Redirect(http.StatusFound, redirect)
}

// Callback handles GET /callback from the identity provider.
func (h *AuthHandler) Callback(c *gin.Context) {
	stateCookie, _ := c.Cookie(loginStateCookie)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(loginStateCookie, "", -1, "/", "", h.Session.Secure, true)

	if idpErr := c.Query("error"); idpErr != "" {
		msg := c.Query("error_description")
		if msg == "" {
			msg = "Sign in was cancelled."
		}
		h.Logger.Warn("login_rejected", slog.String("error", idpErr), slog.String("request_id", middleware.GetRequestID(c)))
		render.RedirectWithFlash(c, h.Flash, "/", view.FlashError, msg)
		return
	}

	sess, returnTo, err := h.Manager.CompleteLogin(c.Request.Context(), stateCookie, c.Query("state"), c.Query("code"))
	if err != nil {
		h.Logger.Warn("login_failed", slog.Any("err", err), slog.String("request_id", middleware.GetRequestID(c)))
		msg := "We could not sign you in. Please try again."
		if errors.Is(err, auth.ErrStateMismatch) {
			msg = "Your sign-in link expired. Please try again."
		}
		render.RedirectWithFlash(c, h.Flash, "/", view.FlashError, msg)
		return
	}

	middleware.SetSessionCookie(c, h.Session, sess.ID)
	name := sess.Name
	if name == "" {
		name = sess.Email
	}
	msg := "Welcome back!"
	if name != "" {
		msg = "Welcome back, " + name + "!"
	}
	render.RedirectWithFlash(c, h.Flash, returnTo, view.FlashSuccess, msg)
}

// Logout handles POST /logout and hands over to the provider's logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := ""
	if id, ok := middleware.CurrentIdentity(c); ok {
		sid = id.SessionID
	}
	target := h.Manager.Logout(c.Request.Context(), sid)
	middleware.ClearSessionCookie(c, h.Session)
	c.Redirect(http.StatusFound, target)
}
