package pages

import (
	"context"
	"html/template"

	"github.com/river-now/folio/internal/content"
	"github.com/river-now/folio/internal/page"
)

type detailView[M any] struct {
	Slug string
	Meta M
	HTML template.HTML
}

// detail shows one piece of content chosen by the "slug" route parameter.
// The slug is read in BeforeShow and the content fetched in AfterShow, so the
// page becomes visible with a loading message first.
type detail struct {
	page.Base
	d    Deps
	kind content.Kind
	// fill renders loaded content, or returns a message to show instead.
	fill func(slug string, c *content.Content) (heading string, html template.HTML, err error)

	notFound   string
	failed     string
	notFoundH1 string

	slug string
}

func newBlogDetail(d Deps) *detail {
	return &detail{
		Base:       page.NewBase(BlogDetail, "/blogs/:slug"),
		d:          d,
		kind:       content.Blogs,
		notFound:   "Blog post not found.",
		failed:     "Failed to load blog post.",
		notFoundH1: "Blog Not Found",
		fill: func(slug string, c *content.Content) (string, template.HTML, error) {
			m := c.Blog()
			if m.Draft {
				return m.Title.Text, message("This post is not yet published."), nil
			}
			html, err := render(BlogDetail, detailView[content.BlogMeta]{Slug: slug, Meta: m, HTML: c.HTML})
			return m.Title.Text, html, err
		},
	}
}

func newProjectDetail(d Deps) *detail {
	return &detail{
		Base:       page.NewBase(ProjectDetail, "/projects/:slug"),
		d:          d,
		kind:       content.Projects,
		notFound:   "Project not found.",
		failed:     "Failed to load project.",
		notFoundH1: "Project Not Found",
		fill: func(slug string, c *content.Content) (string, template.HTML, error) {
			m := c.Project()
			if !m.Published {
				return m.Title.Text, message("This project is not yet published."), nil
			}
			html, err := render(ProjectDetail, detailView[content.ProjectMeta]{Slug: slug, Meta: m, HTML: c.HTML})
			return m.Title.Text, html, err
		},
	}
}

func (p *detail) BeforeShow(_ context.Context, opts *page.Options) error {
	p.slug = opts.Param("slug")
	return nil
}

func (p *detail) AfterShow(ctx context.Context) error {
	el := p.Element()
	entry, ok := p.d.Index.Lookup(p.kind, p.slug)
	if !ok {
		p.d.set(ctx, el, p.notFoundH1, message(p.notFound))
		return nil
	}

	p.d.set(ctx, el, "Loading...", message("Loading..."))
	c := p.d.Loader.Load(ctx, entry.Path)
	if c == nil {
		p.d.set(ctx, el, string(p.kind), message(p.failed))
		return nil
	}
	heading, html, err := p.fill(p.slug, c)
	if err != nil {
		return err
	}
	p.d.set(ctx, el, heading, html)
	return nil
}
