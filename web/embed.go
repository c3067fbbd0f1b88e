package web

import (
	"embed"
	"html/template"
	"io/fs"
)

// content embeds the server-rendered pages and their static assets into the binary.
//
//go:embed templates/*.html static
var content embed.FS

// Templates parses every page template. Pages share the partials defined in layout.html.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(content, "templates/*.html")
}

// Static returns the embedded static assets rooted at the static directory.
func Static() (fs.FS, error) {
	return fs.Sub(content, "static")
}
