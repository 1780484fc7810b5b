// Package pages implements the site's views on top of the page lifecycle.
package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/river-now/folio/internal/content"
	"github.com/river-now/folio/internal/drawbook"
	"github.com/river-now/folio/internal/page"
	"github.com/river-now/folio/internal/seo"
	"github.com/river-now/folio/internal/widgets"
	"github.com/river-now/folio/kit/colorlog"
)

const (
	Home          = "home"
	About         = "about"
	Blogs         = "blogs"
	BlogDetail    = "blog-detail"
	Projects      = "projects"
	ProjectDetail = "project-detail"
	Guestbook     = "guestbook"
	Drawbook      = "drawbook"
	NotFound      = "404"
)

var Log = colorlog.New("pages")

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(template.New("pages").Funcs(template.FuncMap{
	"tags":  widgets.Tags,
	"slab":  widgets.SlabTitle,
	"lower": strings.ToLower,
}).ParseFS(templateFS, "templates/*.html"))

func render(name string, data any) (template.HTML, error) {
	var sb strings.Builder
	if err := tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(sb.String()), nil
}

// Deps is what the pages of one session share. Controller must be the
// controller the pages are registered with; pages ask it whether their
// activation is still current before publishing.
type Deps struct {
	Controller *page.Controller
	Loader     *content.Loader
	Index      *content.Index
	Site       seo.Site

	GuestbookEndpoint string
	Drawbook          *drawbook.Client
	// Path the drawbook canvas posts drawings to. Empty disables uploads.
	DrawbookUploadPath string

	Log *slog.Logger
}

// New creates one instance of every page.
func New(d Deps) []page.Page {
	if d.Log == nil {
		d.Log = Log
	}
	return []page.Page{
		newHome(d),
		newAbout(d),
		newBlogs(d),
		newBlogDetail(d),
		newProjects(d),
		newProjectDetail(d),
		newGuestbook(d),
		newDrawbook(d),
		newNotFound(d),
	}
}

// Register creates the pages and registers them with d.Controller.
func Register(d Deps) error {
	return d.Controller.Register(New(d)...)
}

// publish renders a template into el unless a newer activation has started.
func (d Deps) publish(ctx context.Context, el *page.Element, heading, name string, data any) error {
	html, err := render(name, data)
	if err != nil {
		return err
	}
	d.set(ctx, el, heading, html)
	return nil
}

func (d Deps) set(ctx context.Context, el *page.Element, heading string, html template.HTML) {
	if !d.Controller.Current(ctx) {
		d.Log.Debug("Discarding stale render", "page", el.Name())
		return
	}
	el.Set(heading, html)
}

func message(text string) template.HTML {
	return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
}

type Item[M any] struct {
	Slug string
	Meta M
}
