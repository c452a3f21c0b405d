package httpserver

import (
	"contactmanager/errs"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "templates/layout.html"

// TemplateRenderer renders every page inside the shared layout. Each page is
// parsed into its own set so that all of them can define "content".
type TemplateRenderer struct {
	templates map[string]*template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("httpserver: list templates: %w", err)
	}

	r := &TemplateRenderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		if page == layoutTemplate {
			continue
		}
		t, err := template.ParseFS(templateFS, layoutTemplate, page)
		if err != nil {
			return nil, fmt.Errorf("httpserver: parse %s: %w", page, err)
		}
		r.templates[path.Base(page)] = t
	}
	return r, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return errs.Errorf(errs.EINTERNAL, "template %s not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
