package pages

import (
	"context"
	"errors"

	"github.com/river-now/folio/internal/drawbook"
	"github.com/river-now/folio/internal/page"
)

type drawbookView struct {
	CanUpload  bool
	UploadPath string
	Loading    bool
	Failed     bool
	Drawings   []drawbook.Drawing
}

type drawbookPage struct {
	page.Base
	d Deps
}

func newDrawbook(d Deps) *drawbookPage {
	return &drawbookPage{Base: page.NewBase(Drawbook, "/drawbook"), d: d}
}

func (p *drawbookPage) view() drawbookView {
	return drawbookView{
		CanUpload:  p.d.DrawbookUploadPath != "" && p.d.Drawbook != nil && p.d.Drawbook.WorkerURL != "",
		UploadPath: p.d.DrawbookUploadPath,
	}
}

func (p *drawbookPage) BeforeShow(ctx context.Context, _ *page.Options) error {
	v := p.view()
	v.Loading = true
	return p.d.publish(ctx, p.Element(), "drawbook", Drawbook, v)
}

func (p *drawbookPage) AfterShow(ctx context.Context) error {
	v := p.view()
	if p.d.Drawbook == nil {
		v.Failed = true
		return p.d.publish(ctx, p.Element(), "drawbook", Drawbook, v)
	}
	drawings, err := p.d.Drawbook.Gallery(ctx)
	switch {
	case errors.Is(err, drawbook.ErrNotConfigured):
		p.d.Log.Debug("Gallery disabled", "error", err)
		v.Failed = true
	case err != nil:
		p.d.Log.Warn("Failed to load gallery", "error", err)
		v.Failed = true
	}
	v.Drawings = drawings
	return p.d.publish(ctx, p.Element(), "drawbook", Drawbook, v)
}
