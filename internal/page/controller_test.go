package page

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.calls = append(r.calls, s)
	r.mu.Unlock()
}

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.calls
	r.calls = nil
	return out
}

type testPage struct {
	Base
	rec *recorder

	beforeShowErr error
	afterShowErr  error
	beforeHideErr error
	afterHideErr  error
	afterShow     func(ctx context.Context) error
	params        map[string]string
}

func newTestPage(name string, rec *recorder) *testPage {
	return &testPage{Base: NewBase(name, "/"+name), rec: rec}
}

func (p *testPage) BeforeShow(_ context.Context, opts *Options) error {
	p.rec.add(p.Name() + ".beforeShow")
	p.params = opts.Params
	return p.beforeShowErr
}

func (p *testPage) Show() {
	p.rec.add(p.Name() + ".show")
	p.Base.Show()
}

func (p *testPage) AfterShow(ctx context.Context) error {
	p.rec.add(p.Name() + ".afterShow")
	if p.afterShow != nil {
		return p.afterShow(ctx)
	}
	return p.afterShowErr
}

func (p *testPage) BeforeHide(context.Context) error {
	p.rec.add(p.Name() + ".beforeHide")
	return p.beforeHideErr
}

func (p *testPage) Hide() {
	p.rec.add(p.Name() + ".hide")
	p.Base.Hide()
}

func (p *testPage) AfterHide(context.Context) error {
	p.rec.add(p.Name() + ".afterHide")
	return p.afterHideErr
}

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setup(t *testing.T) (*Controller, *recorder, *testPage, *testPage) {
	t.Helper()
	rec := &recorder{}
	a, b := newTestPage("a", rec), newTestPage("b", rec)
	c := NewController(quietLog())
	if err := c.Register(a, b); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return c, rec, a, b
}

func TestController(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstActivation", func(t *testing.T) {
		c, rec, a, _ := setup(t)
		if c.Active() != nil || c.State() != Inactive {
			t.Fatal("Expected no active page initially")
		}
		if err := c.Activate(ctx, "a", nil); err != nil {
			t.Fatalf("Activate: %v", err)
		}
		want := []string{"a.beforeShow", "a.show", "a.afterShow"}
		if got := rec.take(); !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
		if c.Active() != a || c.State() != Active || !a.Element().Active() {
			t.Error("Expected a to be active")
		}
	})

	t.Run("HookOrder", func(t *testing.T) {
		c, rec, a, b := setup(t)
		c.Activate(ctx, "a", nil)
		rec.take()

		opts := &Options{Params: map[string]string{"slug": "x"}}
		if err := c.Activate(ctx, "b", opts); err != nil {
			t.Fatalf("Activate: %v", err)
		}
		want := []string{
			"a.beforeHide", "a.hide", "a.afterHide",
			"b.beforeShow", "b.show", "b.afterShow",
		}
		if got := rec.take(); !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
		if a.Element().Active() || !b.Element().Active() {
			t.Error("Exactly b should be shown")
		}
		if b.params["slug"] != "x" {
			t.Errorf("Params not delivered: %v", b.params)
		}
	})

	t.Run("Reactivation", func(t *testing.T) {
		c, rec, a, _ := setup(t)
		c.Activate(ctx, "a", nil)
		rec.take()
		if err := c.Activate(ctx, "a", &Options{Params: map[string]string{"slug": "y"}}); err != nil {
			t.Fatalf("Activate: %v", err)
		}
		want := []string{"a.beforeHide", "a.hide", "a.afterHide", "a.beforeShow", "a.show", "a.afterShow"}
		if got := rec.take(); !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
		if a.params["slug"] != "y" || !a.Element().Active() {
			t.Error("Expected a to be reshown with new params")
		}
	})

	t.Run("UnknownPage", func(t *testing.T) {
		c, rec, a, _ := setup(t)
		c.Activate(ctx, "a", nil)
		rec.take()
		if err := c.Activate(ctx, "nope", nil); !errors.Is(err, ErrUnknownPage) {
			t.Errorf("Expected ErrUnknownPage, got %v", err)
		}
		if got := rec.take(); len(got) != 0 {
			t.Errorf("Expected no hooks, got %v", got)
		}
		if c.Active() != a || !a.Element().Active() {
			t.Error("Unknown page must not change state")
		}
	})

	t.Run("DuplicatePage", func(t *testing.T) {
		c, rec, _, _ := setup(t)
		if err := c.Register(newTestPage("a", rec)); !errors.Is(err, ErrDuplicatePage) {
			t.Errorf("Expected ErrDuplicatePage, got %v", err)
		}
		if len(c.Pages()) != 2 {
			t.Errorf("Expected 2 pages, got %d", len(c.Pages()))
		}
	})

	t.Run("BeforeHideErrorKeepsOldPage", func(t *testing.T) {
		c, rec, a, b := setup(t)
		c.Activate(ctx, "a", nil)
		rec.take()
		a.beforeHideErr = errors.New("busy")
		if err := c.Activate(ctx, "b", nil); err == nil {
			t.Fatal("Expected error")
		}
		if got := rec.take(); !slices.Equal(got, []string{"a.beforeHide"}) {
			t.Errorf("Unexpected hooks %v", got)
		}
		if c.Active() != a || c.State() != Active || b.Element().Active() {
			t.Error("Expected a to stay active")
		}
	})

	t.Run("BeforeShowErrorLeavesNothingActive", func(t *testing.T) {
		c, rec, a, b := setup(t)
		c.Activate(ctx, "a", nil)
		rec.take()
		b.beforeShowErr = errors.New("bad params")
		if err := c.Activate(ctx, "b", nil); err == nil {
			t.Fatal("Expected error")
		}
		if c.Active() != nil || c.State() != Inactive {
			t.Errorf("Expected no active page, got %v in state %v", c.Active(), c.State())
		}
		if a.Element().Active() || b.Element().Active() {
			t.Error("Neither page should be shown")
		}
	})

	t.Run("AfterHookErrors", func(t *testing.T) {
		c, _, a, b := setup(t)
		c.Activate(ctx, "a", nil)
		a.afterHideErr = errors.New("cleanup")
		if err := c.Activate(ctx, "b", nil); err != nil {
			t.Errorf("AfterHide error should only be logged, got %v", err)
		}
		b.afterShowErr = errors.New("render")
		if err := c.Activate(ctx, "b", nil); err == nil {
			t.Error("Expected AfterShow error to be returned")
		}
		if c.Active() != b || !b.Element().Active() {
			t.Error("Page should stay active after AfterShow error")
		}
	})
}

func TestControllerFencing(t *testing.T) {
	c, rec, a, b := setup(t)

	started := make(chan struct{})
	var firstCtx context.Context
	a.afterShow = func(ctx context.Context) error {
		firstCtx = ctx
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}

	errA := make(chan error, 1)
	go func() { errA <- c.Activate(context.Background(), "a", nil) }()
	<-started

	if !c.Current(firstCtx) {
		t.Error("First activation should be current while it runs")
	}

	if err := c.Activate(context.Background(), "b", nil); err != nil {
		t.Fatalf("Activate b: %v", err)
	}
	select {
	case err := <-errA:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected canceled first activation, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("First activation did not finish")
	}

	if c.Current(firstCtx) {
		t.Error("First activation should no longer be current")
	}
	if c.Active() != b {
		t.Errorf("Expected b active, got %v", c.Active())
	}
	if c.Current(context.Background()) {
		t.Error("A context without an activation is never current")
	}

	calls := rec.take()
	if i, j := slices.Index(calls, "a.afterShow"), slices.Index(calls, "a.beforeHide"); i < 0 || j < i {
		t.Errorf("Transitions overlapped: %v", calls)
	}
}

func TestControllerSerializes(t *testing.T) {
	c, _, a, b := setup(t)

	var running, maxRunning int
	var mu sync.Mutex
	track := func(ctx context.Context) error {
		mu.Lock()
		running++
		maxRunning = max(maxRunning, running)
		mu.Unlock()
		time.Sleep(time.Millisecond)
		mu.Lock()
		running--
		mu.Unlock()
		return nil
	}
	a.afterShow, b.afterShow = track, track

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := "a"
			if i%2 == 1 {
				name = "b"
			}
			err := c.Activate(context.Background(), name, nil)
			if err != nil && !errors.Is(err, ErrSuperseded) {
				t.Errorf("Activate: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxRunning != 1 {
		t.Errorf("Expected serialized transitions, saw %d concurrent", maxRunning)
	}
	if c.State() != Active || c.Active() == nil {
		t.Errorf("Expected a settled active page, got state %v", c.State())
	}
	if a.Element().Active() == b.Element().Active() {
		t.Error("Exactly one element should be shown")
	}
}
