package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/shared/apperr"
	"rumal.store/web/pkg/view"
)

// ErrorTemplate is the page rendered for SSR failures.
const ErrorTemplate = "error.html"

// ErrorVM is the data of the error page.
type ErrorVM struct {
	Status  int
	Heading string
	Message string
}

func WantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func ErrorHandler(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		ae := apperr.Normalize(c.Errors.Last().Err)
		status := apperr.HTTPStatus(ae)
		rid := GetRequestID(c)

		level := slog.LevelWarn
		if status >= 500 {
			level = slog.LevelError
		}
		l.LogAttrs(c.Request.Context(), level, "request_failed",
			slog.String("request_id", rid),
			slog.Int("status", status),
			slog.Any("err", ae),
		)

		if WantsJSON(c) {
			payload := gin.H{
				"error":      ae.PublicMsg,
				"request_id": rid,
			}
			if len(ae.Fields) > 0 {
				payload["fields"] = ae.Fields
			}
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Abort()
		c.HTML(status, ErrorTemplate, view.Page{
			Title:     http.StatusText(status),
			Header:    HeaderFrom(c),
			Flash:     GetFlash(c),
			RequestID: rid,
			Data: ErrorVM{
				Status:  status,
				Heading: http.StatusText(status),
				Message: ae.PublicMsg,
			},
		})
	}
}
