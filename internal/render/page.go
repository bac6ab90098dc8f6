package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/index.html
var templatesFS embed.FS

// Flash kinds.
const (
	FlashInfo  = "info"
	FlashError = "error"
)

// PageData feeds templates/index.html.
type PageData struct {
	Title     string
	Flash     string
	FlashKind string
	Query     string
	Labels    string
	Images    []Image
	NoResults bool
	// Static drops the forms, for pages published to a bucket website.
	Static bool
}

type Page struct {
	tmpl  *template.Template
	title string
}

func NewPage(title string) (*Page, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Page{tmpl: tmpl, title: title}, nil
}

// Render writes the page with the gallery's current contents.
func (p *Page) Render(w io.Writer, g *Gallery, data PageData) error {
	data.Images, data.NoResults = g.Snapshot()
	if data.Title == "" {
		data.Title = p.title
	}
	if err := p.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
