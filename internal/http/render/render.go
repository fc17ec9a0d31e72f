// Package render writes pages as HTML from the embedded templates or, for
// API clients, as JSON.
package render

import (
	"github.com/gin-gonic/gin"

	"rumal.store/web/internal/http/middleware"
	"rumal.store/web/pkg/view"
)

// Page renders the named template inside the site layout. JSON clients get
// data as is.
func Page(c *gin.Context, status int, name, title string, data any) {
	if middleware.WantsJSON(c) {
		c.JSON(status, data)
		return
	}
	c.HTML(status, name, view.Page{
		Title:     title,
		Header:    middleware.HeaderFrom(c),
		Flash:     middleware.GetFlash(c),
		RequestID: middleware.GetRequestID(c),
		Data:      data,
	})
}

// Fragment renders a partial without the layout.
func Fragment(c *gin.Context, status int, name string, data any) {
	c.HTML(status, name, data)
}
