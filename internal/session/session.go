// Package session holds the state of one loaded document: a page controller
// with its own page instances, a router over a private history, and the
// layout derived from the latest route change.
package session

import (
	"context"
	"html/template"
	"log/slog"
	"sync"

	"github.com/river-now/folio/internal/page"
	"github.com/river-now/folio/internal/pages"
	"github.com/river-now/folio/internal/router"
	"github.com/river-now/folio/internal/seo"
	"github.com/river-now/folio/kit/colorlog"
)

var Log = colorlog.New("session")

// Layout is the chrome around the active page.
type Layout struct {
	Path        string        `json:"path"`
	Params      router.Params `json:"params"`
	Title       string        `json:"title"`
	Breadcrumbs template.HTML `json:"breadcrumbs"`
	Nav         []seo.NavLink `json:"nav"`
}

type Snapshot struct {
	Layout
	Session string                 `json:"session"`
	Active  string                 `json:"active"`
	Pages   []page.ElementSnapshot `json:"pages"`
}

type Session struct {
	id      string
	visitor string
	log     *slog.Logger
	site    seo.Site
	ctrl    *page.Controller
	router  *router.Router

	mu     sync.RWMutex
	layout Layout
}

// New creates a session with fresh instances of every page. d.Controller is
// ignored; each session owns its controller.
func New(id string, d pages.Deps) (*Session, error) {
	log := d.Log
	if log == nil {
		log = Log
	}
	log = log.With("session", short(id))

	s := &Session{
		id:   id,
		log:  log,
		site: d.Site,
		ctrl: page.NewController(log),
	}
	d.Controller = s.ctrl
	d.Log = log
	if err := pages.Register(d); err != nil {
		return nil, err
	}

	s.router = router.New(router.NewMemoryHistory(), log)
	for _, rt := range routes {
		s.router.Handle(rt.matcher, s.activate(rt.page))
	}
	s.router.NotFound(func(ctx context.Context, params router.Params) error {
		return s.ctrl.Activate(ctx, pages.NotFound, &page.Options{Params: params, Data: params[router.PathParam]})
	})
	s.router.OnRouteChange(s.updateLayout)
	return s, nil
}

var routes = []struct {
	matcher router.Matcher
	page    string
}{
	{router.Exact("/"), pages.Home},
	{router.Exact("/about"), pages.About},
	{router.Exact("/blogs"), pages.Blogs},
	{router.Capture(`^/blogs/([a-z0-9-]+)$`, "slug"), pages.BlogDetail},
	{router.Exact("/projects"), pages.Projects},
	{router.Capture(`^/projects/([a-z0-9-]+)$`, "slug"), pages.ProjectDetail},
	{router.Exact("/guestbook"), pages.Guestbook},
	{router.Exact("/drawbook"), pages.Drawbook},
}

func (s *Session) activate(name string) router.Action {
	return func(ctx context.Context, params router.Params) error {
		return s.ctrl.Activate(ctx, name, &page.Options{Params: params})
	}
}

func (s *Session) updateLayout(rc router.RouteChange) {
	l := Layout{
		Path:        rc.Path,
		Params:      rc.Params,
		Title:       s.site.Title(rc.Path, rc.Params),
		Breadcrumbs: seo.Breadcrumbs(rc.Path, rc.Params),
		Nav:         seo.NavLinks(rc.Path),
	}
	s.mu.Lock()
	s.layout = l
	s.mu.Unlock()
}

func (s *Session) ID() string                   { return s.id }
func (s *Session) Visitor() string              { return s.visitor }
func (s *Session) Controller() *page.Controller { return s.ctrl }
func (s *Session) Router() *router.Router       { return s.router }

// Visit loads url as the current history entry, as a document load or a
// history pop does.
func (s *Session) Visit(ctx context.Context, url string) error {
	return s.router.Load(ctx, url)
}

// Navigate pushes url onto the session history and shows it.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.router.Navigate(ctx, url)
}

func (s *Session) Back(ctx context.Context) error    { return s.router.Back(ctx) }
func (s *Session) Forward(ctx context.Context) error { return s.router.Forward(ctx) }

func (s *Session) Layout() Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout
}

// Snapshot captures the layout and every page element.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{Layout: s.Layout(), Session: s.id}
	if p := s.ctrl.Active(); p != nil {
		snap.Active = p.Name()
	}
	for _, p := range s.ctrl.Pages() {
		snap.Pages = append(snap.Pages, p.Element().Snapshot())
	}
	return snap
}

// Close cancels whatever the session is still loading.
func (s *Session) Close() {
	s.ctrl.Close()
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
