// Package router maps paths to actions, keeps the session history in step
// and announces every completed route change.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/river-now/folio/kit/colorlog"
)

var Log = colorlog.New("router")

type Action func(ctx context.Context, params Params) error

// PathParam holds the unmatched path in the params handed to the not-found
// action.
const PathParam = "path"

type RouteChange struct {
	Path   string `json:"path"`
	Params Params `json:"params"`
}

type route struct {
	matcher Matcher
	action  Action
}

// Router evaluates its routes in registration order; the first match wins.
// Paths without a match run the not-found action.
type Router struct {
	log     *slog.Logger
	history History

	mu       sync.RWMutex
	routes   []route
	notFound Action
	subs     []func(RouteChange)
}

// New returns a router over history. A nil history uses a fresh
// MemoryHistory and a nil log the package logger.
func New(history History, log *slog.Logger) *Router {
	if history == nil {
		history = NewMemoryHistory()
	}
	if log == nil {
		log = Log
	}
	return &Router{log: log, history: history}
}

func (r *Router) Handle(m Matcher, action Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route{matcher: m, action: action})
}

func (r *Router) NotFound(action Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notFound = action
}

// OnRouteChange subscribes fn to route changes. Subscribers run in order on
// the navigating goroutine.
func (r *Router) OnRouteChange(fn func(RouteChange)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

func (r *Router) History() History { return r.history }

// Resolve returns the action for path and its parameters. found is false
// when the not-found action was chosen; its params carry path under
// PathParam.
func (r *Router) Resolve(path string) (action Action, params Params, found bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rt := range r.routes {
		if p, ok := rt.matcher.Match(path); ok {
			return rt.action, p, true
		}
	}
	return r.notFound, Params{PathParam: path}, false
}

// Navigate pushes url onto the history and runs its route.
func (r *Router) Navigate(ctx context.Context, rawURL string) error {
	r.history.Push(rawURL)
	return r.dispatch(ctx, rawURL)
}

// Load replaces the current history entry with url and runs its route, as on
// a document load or a history pop reported by the client.
func (r *Router) Load(ctx context.Context, rawURL string) error {
	r.history.Replace(rawURL)
	return r.dispatch(ctx, rawURL)
}

// Back moves one entry back and runs that route. At the start of the history
// it does nothing.
func (r *Router) Back(ctx context.Context) error {
	loc, ok := r.history.Back()
	if !ok {
		return nil
	}
	return r.dispatch(ctx, loc)
}

func (r *Router) Forward(ctx context.Context) error {
	loc, ok := r.history.Forward()
	if !ok {
		return nil
	}
	return r.dispatch(ctx, loc)
}

// dispatch runs the route for rawURL, the location the caller just moved
// the history to. Concurrent navigations each resolve their own URL.
// Subscribers are told only when the action succeeds, so an abandoned
// navigation never announces itself after a newer one.
func (r *Router) dispatch(ctx context.Context, rawURL string) error {
	path := PathOf(rawURL)
	action, params, found := r.Resolve(path)
	if !found {
		r.log.Debug("No route matched", "path", path)
	}
	if action == nil {
		return fmt.Errorf("no action for %s", path)
	}
	if err := action(ctx, params); err != nil {
		r.log.Warn("Route action failed", "path", path, "error", err)
		return fmt.Errorf("route %s: %w", path, err)
	}

	r.mu.RLock()
	subs := append([]func(RouteChange){}, r.subs...)
	r.mu.RUnlock()
	change := RouteChange{Path: path, Params: params}
	for _, fn := range subs {
		fn(change)
	}
	return nil
}

// PathOf returns the path portion of a URL, or "/" if it has none.
func PathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
			rawURL = rawURL[:i]
		}
		if rawURL == "" {
			return "/"
		}
		return rawURL
	}
	return u.Path
}
