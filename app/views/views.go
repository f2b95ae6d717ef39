// Package views holds the embedded page templates and stylesheet.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages rendered inside layout.html.
const (
	PostList          = "post_list"
	PostDetail        = "post_detail"
	PostForm          = "post_form"
	PostConfirmDelete = "post_confirm_delete"
	PostDraftList     = "post_draft_list"
	CommentForm       = "comment_form"
	About             = "about"
	Login             = "login"
	NotFound          = "not_found"
)

var pages = []string{
	PostList, PostDetail, PostForm, PostConfirmDelete, PostDraftList,
	CommentForm, About, Login, NotFound,
}

// Data is passed to every template. Pages read only the fields they need.
type Data struct {
	User     *models.User
	Title    string
	Posts    []*models.Post
	Post     *models.Post
	Comments []*models.Comment
	Authors  []*models.User
	Form     any
}

// Templates maps a page name to its parsed template set.
type Templates map[string]*template.Template

var funcs = template.FuncMap{
	"date": formatDate,
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("January 2, 2006, 3:04 p.m.")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("January 2, 2006, 3:04 p.m.")
	default:
		return ""
	}
}

// Load parses every page together with the shared layout.
func Load() (Templates, error) {
	templates := make(Templates, len(pages))
	for _, page := range pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		templates[page] = t
	}
	return templates, nil
}

// MustLoad is Load for program start-up and tests.
func MustLoad() Templates {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// Render executes page into a buffer first so a template error never
// leaves a half-written response.
func (t Templates) Render(w http.ResponseWriter, status int, page string, data *Data) error {
	tmpl, ok := t[page]
	if !ok {
		return fmt.Errorf("unknown template %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded stylesheet. Mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
