// Package view renders the dashboard's HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"rentx-admin/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages and the layout each one renders inside.
var pages = map[string]string{
	"login":      "auth_layout.html",
	"register":   "auth_layout.html",
	"dashboard":  "layout.html",
	"customers":  "layout.html",
	"property":   "layout.html",
	"facilities": "layout.html",
	"categories": "layout.html",
	"slider":     "layout.html",
}

type NavItem struct {
	Label  string
	Path   string
	Active bool
}

var navItems = []NavItem{
	{Label: "Dashboard", Path: "/dashboard"},
	{Label: "Customers", Path: "/customers"},
	{Label: "Property", Path: "/property"},
	{Label: "Facilities", Path: "/facilities"},
	{Label: "Categories", Path: "/categories"},
	{Label: "Slider", Path: "/slider"},
}

// Nav returns the sidebar with the item owning path marked active.
func Nav(path string) []NavItem {
	out := make([]NavItem, len(navItems))
	for i, item := range navItems {
		item.Active = path == item.Path || strings.HasPrefix(path, item.Path+"/")
		out[i] = item
	}
	return out
}

// Page is what every template receives.
type Page struct {
	Title string
	Path  string
	User  domain.SessionUser
	Flash *domain.Flash
	Nav   []NavItem
	Data  interface{}
}

type Renderer struct {
	templates map[string]*template.Template
	logger    *zap.Logger
}

var funcs = template.FuncMap{
	"money": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"when": func(t time.Time) string {
		return t.Local().Format("02 Jan 15:04")
	},
	"hasFacility": func(c domain.Category, id string) bool {
		return c.HasFacility(id)
	},
	"facilityNames": func(c domain.Category, all []domain.Facility) string {
		names := make([]string, 0, len(c.Facilities))
		for _, f := range all {
			if c.HasFacility(f.ID) {
				names = append(names, f.Name)
			}
		}
		return strings.Join(names, ", ")
	},
}

func New(logger *zap.Logger) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages)), logger: logger}
	for page, layout := range pages {
		t, err := template.New(layout).Funcs(funcs).ParseFS(templateFS,
			"templates/"+layout,
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", page, err)
		}
		r.templates[page] = t
	}
	return r, nil
}

// Render writes page with the given status. Rendering happens into a buffer so a
// template error never leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, p *Page) {
	t, ok := r.templates[page]
	if !ok {
		r.logger.Error("unknown page", zap.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	p.Nav = Nav(p.Path)

	var buf bytes.Buffer
	if err := t.Execute(&buf, p); err != nil {
		r.logger.Error("failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
