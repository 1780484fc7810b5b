package pages

import (
	"context"

	"github.com/river-now/folio/internal/page"
)

type about struct {
	page.Base
	d Deps
}

func newAbout(d Deps) *about {
	return &about{Base: page.NewBase(About, "/about"), d: d}
}

func (p *about) BeforeShow(ctx context.Context, _ *page.Options) error {
	return p.d.publish(ctx, p.Element(), "about", About, struct{ SiteName, Tagline string }{p.d.Site.Name, p.d.Site.Tagline})
}

type guestbook struct {
	page.Base
	d Deps
}

func newGuestbook(d Deps) *guestbook {
	return &guestbook{Base: page.NewBase(Guestbook, "/guestbook"), d: d}
}

func (p *guestbook) BeforeShow(ctx context.Context, _ *page.Options) error {
	return p.d.publish(ctx, p.Element(), "guestbook", Guestbook, struct{ Endpoint string }{p.d.GuestbookEndpoint})
}

type notFound struct {
	page.Base
	d Deps
}

func newNotFound(d Deps) *notFound {
	return &notFound{Base: page.NewBase(NotFound, "/404"), d: d}
}

// BeforeShow expects the unmatched path in opts.Data.
func (p *notFound) BeforeShow(ctx context.Context, opts *page.Options) error {
	path, _ := opts.Data.(string)
	return p.d.publish(ctx, p.Element(), "404", NotFound, path)
}
