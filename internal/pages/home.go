package pages

import (
	"context"

	"github.com/river-now/folio/internal/content"
	"github.com/river-now/folio/internal/page"
)

const featuredLimit = 2

type home struct {
	page.Base
	d Deps
}

func newHome(d Deps) *home {
	return &home{Base: page.NewBase(Home, "/"), d: d}
}

type homeView struct {
	SiteName string
	Tagline  string
	Loading  bool
	Featured []Item[content.ProjectMeta]
}

func (p *home) BeforeShow(ctx context.Context, _ *page.Options) error {
	v := homeView{SiteName: p.d.Site.Name, Tagline: p.d.Site.Tagline, Loading: true}
	if err := p.d.publish(ctx, p.Element(), "home", Home, v); err != nil {
		return err
	}
	v.Loading = false
	v.Featured = FeaturedProjects(ctx, p.d.Loader, p.d.Index, featuredLimit)
	return p.d.publish(ctx, p.Element(), "home", Home, v)
}

// FeaturedProjects walks the project index in order and returns up to limit
// published, featured projects. It stops loading once it has enough.
func FeaturedProjects(ctx context.Context, l *content.Loader, idx *content.Index, limit int) []Item[content.ProjectMeta] {
	var out []Item[content.ProjectMeta]
	for _, e := range idx.List(content.Projects) {
		if len(out) >= limit || ctx.Err() != nil {
			break
		}
		c := l.Load(ctx, e.Path)
		if c == nil {
			continue
		}
		if m := c.Project(); m.Featured && m.Published {
			out = append(out, Item[content.ProjectMeta]{Slug: e.Slug, Meta: m})
		}
	}
	return out
}
