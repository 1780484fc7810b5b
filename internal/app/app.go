// Package app assembles folio's components from a Config.
package app

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/river-now/folio/internal/config"
	"github.com/river-now/folio/internal/content"
	"github.com/river-now/folio/internal/document"
	"github.com/river-now/folio/internal/drawbook"
	"github.com/river-now/folio/internal/pages"
	"github.com/river-now/folio/internal/seo"
	"github.com/river-now/folio/internal/server"
	"github.com/river-now/folio/internal/session"
	"github.com/river-now/folio/kit/colorlog"
	"github.com/river-now/folio/kit/markdown"
)

var Log = colorlog.New("folio")

type App struct {
	Config      *config.Config
	Site        seo.Site
	Highlighter *markdown.Highlighter
	ContentFS   fs.FS
	Index       *content.Index
	Fetcher     content.Fetcher
	Loader      *content.Loader
	Drawbook    *drawbook.Client
	Log         *slog.Logger
}

// New builds the content pipeline. The index always reads the local content
// directory; bodies come from ContentURL when it is set. Content fetches
// carry no timeout: a navigation away cancels them.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = Log
	}
	hl := markdown.NewHighlighter(cfg.Markdown.Style)
	renderer, err := markdown.New(cfg.Markdown.Engine, hl)
	if err != nil {
		return nil, err
	}

	fsys := os.DirFS(cfg.ContentDir)
	idx, err := content.NewIndex(fsys, log)
	if err != nil {
		return nil, fmt.Errorf("index content: %w", err)
	}

	var fetcher content.Fetcher = content.FSFetcher{FS: fsys}
	if cfg.ContentURL != "" {
		fetcher = content.HTTPFetcher{BaseURL: cfg.ContentURL}
	}

	a := &App{
		Config:      cfg,
		Site:        seo.Site{Name: cfg.Site.Name, Tagline: cfg.Site.Tagline, Icon: cfg.Site.Icon},
		Highlighter: hl,
		ContentFS:   fsys,
		Index:       idx,
		Fetcher:     fetcher,
		Loader:      content.NewLoader(fetcher, renderer, log),
		Log:         log,
	}
	if d := cfg.Drawbook; d != (config.Drawbook{}) {
		a.Drawbook = &drawbook.Client{
			WorkerURL:   d.WorkerURL,
			FormURL:     d.FormURL,
			FormEntryID: d.FormEntryID,
			SheetURL:    d.SheetURL,
			HTTP:        &http.Client{Timeout: 30 * time.Second},
		}
	}
	return a, nil
}

// Deps are the page dependencies shared by every session.
func (a *App) Deps() pages.Deps {
	d := pages.Deps{
		Loader:            a.Loader,
		Index:             a.Index,
		Site:              a.Site,
		GuestbookEndpoint: a.Config.Guestbook.Endpoint,
		Drawbook:          a.Drawbook,
		Log:               a.Log,
	}
	if a.Drawbook != nil {
		d.DrawbookUploadPath = document.UploadPath
	}
	return d
}

func (a *App) Server() *server.Server {
	return server.New(server.Options{
		Store:       session.NewStore(a.Deps(), a.Config.SessionTTL),
		Site:        a.Site,
		Highlighter: a.Highlighter,
		Content:     a.ContentFS,
		Drawbook:    a.Drawbook,
		CORSOrigins: a.Config.CORSOrigins,
		Log:         a.Log,
	})
}
