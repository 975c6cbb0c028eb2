// Package web holds the server-rendered pages: embedded templates, the
// flash message cookie and Markdown rendering of marker descriptions.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/zhenghongliu48-sys/mymap/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"list", "create", "view", "edit", "login", "register"}

// PageData is the common view model for every page.
type PageData struct {
	Title       string
	Flash       string
	User        *models.Identity
	AuthEnabled bool

	Markers     []*models.Marker
	Marker      *models.Marker
	Description template.HTML
}

// Pages renders the embedded page templates.
type Pages struct {
	templates map[string]*template.Template
}

// NewPages parses every page together with the shared layout.
func NewPages() (*Pages, error) {
	base, err := template.New("layout.html").Funcs(template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	p := &Pages{templates: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.Must(base.Clone()).ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		p.templates[name] = tmpl
	}
	return p, nil
}

// Render writes the named page. Output is buffered so a template error
// never leaves a half-written page.
func (p *Pages) Render(w io.Writer, name string, data PageData) error {
	tmpl, ok := p.templates[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render page %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
