package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/http/middleware"
	"rumal.store/web/internal/shared/apperr"
)

// identity is only called behind RequireAuth.
func identity(c *gin.Context) *auth.Identity {
	id, _ := middleware.CurrentIdentity(c)
	return id
}

func formInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.PostForm(key)))
	if err != nil {
		return def
	}
	return n
}

// loadError is the inline message a list page shows instead of its rows.
func loadError(err error) string {
	if err == nil {
		return ""
	}
	return apperr.Normalize(err).PublicMsg
}
