// Package templates embeds the server-rendered pages.
package templates

import (
	"embed"
	"html/template"
)

//go:embed layout/*.html pages/*.html
var files embed.FS

// Load parses every page with the site funcs. Pages are addressed by the
// name given in their define block, e.g. "products.html".
func Load(cdnBase string) (*template.Template, error) {
	return template.New("site").Funcs(Funcs(cdnBase)).ParseFS(files, "layout/*.html", "pages/*.html")
}
