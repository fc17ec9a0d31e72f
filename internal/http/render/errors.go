package render

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/http/middleware"
)

func ErrorPage(c *gin.Context, status int, msg string) {
	if middleware.WantsJSON(c) {
		c.JSON(status, gin.H{"error": msg, "request_id": middleware.GetRequestID(c)})
		return
	}
	Page(c, status, middleware.ErrorTemplate, http.StatusText(status), middleware.ErrorVM{
		Status:  status,
		Heading: http.StatusText(status),
		Message: msg,
	})
}
