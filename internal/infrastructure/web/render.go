package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const pageTemplate = "index.html.tmpl"

// PageView is everything the page template needs.
type PageView struct {
	// Visited holds unique codes in storage order. Never nil, so the
	// embedded JSON block is always an array.
	Visited []string
	// Countries feeds the name suggestions of the add/remove form.
	Countries []entities.Country
	// Error is the message from the last failed mutation, if any.
	Error string
}

// NewPageView builds a view from raw visited codes, collapsing duplicates.
func NewPageView(codes []string, countries []entities.Country, errMsg string) PageView {
	return PageView{
		Visited:   entities.UniqueCodes(codes),
		Countries: countries,
		Error:     errMsg,
	}
}

// Total is the number of distinct visited countries.
func (v PageView) Total() int {
	return len(v.Visited)
}

// Names maps each reference code to its display name, for codes the map
// has no region for.
func (v PageView) Names() map[string]string {
	names := make(map[string]string, len(v.Countries))
	for _, c := range v.Countries {
		names[c.Code] = c.Name
	}
	return names
}

// Renderer renders the server-side page.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render writes the page for view to w.
func (r *Renderer) Render(w io.Writer, view PageView) error {
	if view.Visited == nil {
		view.Visited = []string{}
	}
	if err := r.templates.ExecuteTemplate(w, pageTemplate, view); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}
