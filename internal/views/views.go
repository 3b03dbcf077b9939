// Package views renders the HTML pages. Rendering reads the data it is
// given and nothing else; it never touches the store.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/petermazzocco/blogly/models"
)

//go:embed templates/*.html
var files embed.FS

const layout = "templates/layout.html"

// Page is the data every template receives. Only the fields a page needs
// are filled in.
type Page struct {
	Title   string
	Flashes []string
	Error   string

	User  models.User
	Users []models.User
	Post  models.Post
	Tag   models.Tag
	Tags  []models.Tag

	// Checked marks the tag ids ticked in the post form.
	Checked map[uint]bool
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("Mon Jan 2, 2006, 3:04 PM")
	},
}

// New parses every page together with the shared layout.
func New() (*Renderer, error) {
	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		if name == layout {
			continue
		}
		t, err := template.New(path.Base(name)).Funcs(funcs).ParseFS(files, layout, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[path.Base(name)] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half-written response behind.
func (v *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
