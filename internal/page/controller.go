package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/river-now/folio/kit/colorlog"
)

var Log = colorlog.New("page")

var (
	ErrUnknownPage   = errors.New("unknown page")
	ErrDuplicatePage = errors.New("duplicate page")
	// ErrSuperseded is returned by an activation that was still waiting for
	// the previous transition when a newer one started.
	ErrSuperseded = errors.New("activation superseded")
)

type State int

const (
	Inactive State = iota
	Showing
	Active
	Hiding
)

func (s State) String() string {
	switch s {
	case Showing:
		return "showing"
	case Active:
		return "active"
	case Hiding:
		return "hiding"
	}
	return "inactive"
}

type genKey struct{}

// Controller owns a set of pages and keeps at most one of them active.
// Transitions never overlap: an activation runs only after the previous one
// has finished all of its hooks.
type Controller struct {
	log *slog.Logger

	transition sync.Mutex

	mu     sync.RWMutex
	pages  map[string]Page
	order  []string
	active Page
	state  State

	gen      atomic.Uint64
	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

// NewController returns an empty controller. A nil log uses the package
// logger.
func NewController(log *slog.Logger) *Controller {
	if log == nil {
		log = Log
	}
	return &Controller{log: log, pages: make(map[string]Page)}
}

func (c *Controller) Register(pages ...Page) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range pages {
		if _, ok := c.pages[p.Name()]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePage, p.Name())
		}
		c.pages[p.Name()] = p
		c.order = append(c.order, p.Name())
	}
	return nil
}

func (c *Controller) Lookup(name string) (Page, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pages[name]
	return p, ok
}

// Pages returns the registered pages in registration order.
func (c *Controller) Pages() []Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Page, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.pages[name])
	}
	return out
}

// Active returns the active page, or nil before the first activation.
func (c *Controller) Active() Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Current reports whether ctx belongs to the latest activation. Pages check
// it before publishing results of slow work.
func (c *Controller) Current(ctx context.Context) bool {
	gen, ok := ctx.Value(genKey{}).(uint64)
	return ok && gen == c.gen.Load()
}

// Activate hides the active page and shows the named one, running all hooks
// in order. Activating the active page runs the full sequence again.
//
// Starting an activation cancels the context of the previous one. An error
// from BeforeHide leaves the old page active; an error from BeforeShow leaves
// no page active; errors from AfterHide and AfterShow are logged and the
// transition completes.
func (c *Controller) Activate(ctx context.Context, name string, opts *Options) error {
	next, ok := c.Lookup(name)
	if !ok {
		c.log.Error("Page not found", "name", name)
		return fmt.Errorf("%w: %s", ErrUnknownPage, name)
	}
	if opts == nil {
		opts = &Options{}
	}

	gen := c.gen.Add(1)
	actx, cancel := context.WithCancel(context.WithValue(ctx, genKey{}, gen))
	c.cancelMu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.cancelMu.Unlock()

	c.transition.Lock()
	defer c.transition.Unlock()

	if c.gen.Load() != gen {
		c.log.Debug("Activation superseded before it started", "name", name)
		return ErrSuperseded
	}

	if prev := c.Active(); prev != nil {
		c.setState(Hiding)
		if err := prev.BeforeHide(actx); err != nil {
			c.setState(Active)
			c.log.Error("Hide aborted", "page", prev.Name(), "error", err)
			return fmt.Errorf("before hide %s: %w", prev.Name(), err)
		}
		prev.Hide()
		if err := prev.AfterHide(actx); err != nil {
			c.log.Warn("After hide failed", "page", prev.Name(), "error", err)
		}
	}

	c.setState(Showing)
	if err := next.BeforeShow(actx, opts); err != nil {
		c.setActive(nil, Inactive)
		c.log.Error("Show aborted", "page", name, "error", err)
		return fmt.Errorf("before show %s: %w", name, err)
	}
	next.Show()
	err := next.AfterShow(actx)
	c.setActive(next, Active)
	if err != nil {
		c.log.Warn("After show failed", "page", name, "error", err)
		return fmt.Errorf("after show %s: %w", name, err)
	}
	return nil
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) setActive(p Page, s State) {
	c.mu.Lock()
	c.active, c.state = p, s
	c.mu.Unlock()
}

// Close cancels the context of the latest activation.
func (c *Controller) Close() {
	c.cancelMu.Lock()
	defer c.cancelMu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
