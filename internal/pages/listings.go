package pages

import (
	"cmp"
	"context"
	"slices"

	"github.com/river-now/folio/internal/content"
	"github.com/river-now/folio/internal/page"
)

// PublishedBlogs loads every indexed post concurrently and returns the
// non-draft ones, newest first.
func PublishedBlogs(ctx context.Context, l *content.Loader, idx *content.Index) []Item[content.BlogMeta] {
	var out []Item[content.BlogMeta]
	for _, rec := range content.LoadAll(ctx, l, idx.List(content.Blogs)) {
		if m := rec.Blog(); !m.Draft {
			out = append(out, Item[content.BlogMeta]{Slug: rec.Slug, Meta: m})
		}
	}
	slices.SortStableFunc(out, func(a, b Item[content.BlogMeta]) int {
		return content.ParseDate(b.Meta.PublishedAt).Compare(content.ParseDate(a.Meta.PublishedAt))
	})
	return out
}

// PublishedProjects returns published projects, featured ones first and
// newest first within each group.
func PublishedProjects(ctx context.Context, l *content.Loader, idx *content.Index) []Item[content.ProjectMeta] {
	var out []Item[content.ProjectMeta]
	for _, rec := range content.LoadAll(ctx, l, idx.List(content.Projects)) {
		if m := rec.Project(); m.Published {
			out = append(out, Item[content.ProjectMeta]{Slug: rec.Slug, Meta: m})
		}
	}
	slices.SortStableFunc(out, func(a, b Item[content.ProjectMeta]) int {
		if a.Meta.Featured != b.Meta.Featured {
			if a.Meta.Featured {
				return -1
			}
			return 1
		}
		return cmp.Compare(content.ParseDate(b.Meta.Date).UnixNano(), content.ParseDate(a.Meta.Date).UnixNano())
	})
	return out
}

// listing is a page that loads its items once per instance and renders them
// on every show. An empty result is not kept, so the next show tries again.
type listing[M any] struct {
	page.Base
	d    Deps
	load func(context.Context, *content.Loader, *content.Index) []Item[M]

	items []Item[M]
}

func (p *listing[M]) BeforeShow(ctx context.Context, _ *page.Options) error {
	if len(p.items) > 0 {
		return nil
	}
	items := p.load(ctx, p.d.Loader, p.d.Index)
	if p.d.Controller.Current(ctx) {
		p.items = items
	}
	return nil
}

func (p *listing[M]) AfterShow(ctx context.Context) error {
	return p.d.publish(ctx, p.Element(), p.Name(), p.Name(), p.items)
}

func newBlogs(d Deps) *listing[content.BlogMeta] {
	return &listing[content.BlogMeta]{Base: page.NewBase(Blogs, "/blogs"), d: d, load: PublishedBlogs}
}

func newProjects(d Deps) *listing[content.ProjectMeta] {
	return &listing[content.ProjectMeta]{Base: page.NewBase(Projects, "/projects"), d: d, load: PublishedProjects}
}
