// Package content loads markdown documents with their frontmatter and keeps
// the index of blog posts and projects.
package content

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/river-now/folio/kit/colorlog"
	"github.com/river-now/folio/kit/frontmatter"
	"github.com/river-now/folio/kit/markdown"
)

var Log = colorlog.New("content")

type Content struct {
	Frontmatter frontmatter.Document
	Body        string
	HTML        template.HTML
}

// Loader fetches, splits and renders markdown. It caches nothing; every call
// hits the fetcher.
type Loader struct {
	fetcher  Fetcher
	renderer markdown.Renderer
	log      *slog.Logger
}

// NewLoader returns a loader. A nil log uses the package logger.
func NewLoader(f Fetcher, r markdown.Renderer, log *slog.Logger) *Loader {
	if log == nil {
		log = Log
	}
	return &Loader{fetcher: f, renderer: r, log: log}
}

func (l *Loader) Fetch(ctx context.Context, p string) (*Content, error) {
	raw, err := l.fetcher.Fetch(ctx, p)
	if err != nil {
		return nil, err
	}
	res := frontmatter.ParseBytes(raw)
	html, err := l.renderer.Render([]byte(res.Body))
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", p, err)
	}
	return &Content{Frontmatter: res.Metadata, Body: res.Body, HTML: html}, nil
}

// Load is Fetch for views that show a failure state instead of an error: any
// failure is logged and reported as nil.
func (l *Loader) Load(ctx context.Context, p string) *Content {
	c, err := l.Fetch(ctx, p)
	if err != nil {
		if ctx.Err() != nil {
			l.log.Debug("Load canceled", "path", p, "error", err)
			return nil
		}
		l.log.Error("Error loading markdown", "path", p, "error", err)
		return nil
	}
	return c
}
