package pages

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/river-now/folio/internal/content"
	"github.com/river-now/folio/internal/drawbook"
	"github.com/river-now/folio/internal/page"
	"github.com/river-now/folio/internal/seo"
	"github.com/river-now/folio/kit/markdown"
)

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func post(title, date string, draft bool) string {
	d := "false"
	if draft {
		d = "true"
	}
	return "---\ntitle:\n  text: \"" + title + "\"\ntags: [go]\npublished_at: " + date + "\ndraft: " + d + "\n---\nBody of " + title + "\n"
}

func project(title, date string, published, featured bool) string {
	b := func(v bool) string {
		if v {
			return "true"
		}
		return "false"
	}
	return "---\ntitle: " + title + "\ndate: " + date + "\npublished: " + b(published) + "\nfeatured: " + b(featured) + "\ntags:\n  - go\n---\nAbout " + title + "\n"
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"blogs/old.md":       {Data: []byte(post("Old Post", "2023-01-01", false))},
		"blogs/new.md":       {Data: []byte(post("New Post", "2024-06-01", false))},
		"blogs/wip.md":       {Data: []byte(post("Work In Progress", "2025-01-01", true))},
		"projects/alpha.md":  {Data: []byte(project("Alpha", "2022-01-01", true, true))},
		"projects/beta.md":   {Data: []byte(project("Beta", "2024-01-01", true, false))},
		"projects/gamma.md":  {Data: []byte(project("Gamma", "2021-01-01", true, true))},
		"projects/delta.md":  {Data: []byte(project("Delta", "2025-01-01", true, true))},
		"projects/hidden.md": {Data: []byte(project("Hidden", "2025-02-01", false, true))},
	}
}

type env struct {
	ctrl *page.Controller
	deps Deps
}

func newEnv(t *testing.T, f content.Fetcher) *env {
	t.Helper()
	fsys := testFS()
	if f == nil {
		f = content.FSFetcher{FS: fsys}
	}
	idx, err := content.NewIndex(fsys, quietLog())
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	r, err := markdown.New(markdown.EngineGoldmark, nil)
	if err != nil {
		t.Fatalf("markdown.New: %v", err)
	}
	ctrl := page.NewController(quietLog())
	d := Deps{
		Controller: ctrl,
		Loader:     content.NewLoader(f, r, quietLog()),
		Index:      idx,
		Site:       seo.Default(),
		Log:        quietLog(),
	}
	if err := Register(d); err != nil {
		t.Fatalf("Register: %v", err)
	}
	t.Cleanup(ctrl.Close)
	return &env{ctrl: ctrl, deps: d}
}

func (e *env) show(t *testing.T, name string, opts *page.Options) page.ElementSnapshot {
	t.Helper()
	if err := e.ctrl.Activate(context.Background(), name, opts); err != nil {
		t.Fatalf("Activate(%s): %v", name, err)
	}
	p, _ := e.ctrl.Lookup(name)
	snap := p.Element().Snapshot()
	if !snap.Active {
		t.Errorf("Expected %s to be active", name)
	}
	return snap
}

func slug(s string) *page.Options {
	return &page.Options{Params: map[string]string{"slug": s}}
}

func TestNewRegistersEveryPage(t *testing.T) {
	e := newEnv(t, nil)
	want := []struct{ name, pattern string }{
		{Home, "/"},
		{About, "/about"},
		{Blogs, "/blogs"},
		{BlogDetail, "/blogs/:slug"},
		{Projects, "/projects"},
		{ProjectDetail, "/projects/:slug"},
		{Guestbook, "/guestbook"},
		{Drawbook, "/drawbook"},
		{NotFound, "/404"},
	}
	got := e.ctrl.Pages()
	if len(got) != len(want) {
		t.Fatalf("Expected %d pages, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Name() != w.name || got[i].Pattern() != w.pattern {
			t.Errorf("Page %d: got %s %s, want %s %s", i, got[i].Name(), got[i].Pattern(), w.name, w.pattern)
		}
	}
}

func TestHome(t *testing.T) {
	e := newEnv(t, nil)
	html := string(e.show(t, Home, nil).HTML)

	if !strings.Contains(html, "a full stack developer") {
		t.Errorf("Expected lowercased tagline, got %s", html)
	}
	// Index order is alpha, beta, delta, gamma, hidden; beta is not featured.
	if !strings.Contains(html, `href="/projects/alpha"`) || !strings.Contains(html, `href="/projects/delta"`) {
		t.Errorf("Expected alpha and delta featured, got %s", html)
	}
	if strings.Contains(html, "gamma") || strings.Contains(html, "hidden") {
		t.Errorf("Expected featured list capped at two published projects, got %s", html)
	}
	if strings.Contains(html, "Loading featured") {
		t.Error("Loading message left behind")
	}
}

func TestFeaturedProjectsNone(t *testing.T) {
	e := newEnv(t, nil)
	if got := FeaturedProjects(context.Background(), e.deps.Loader, e.deps.Index, 0); len(got) != 0 {
		t.Errorf("Expected nothing with limit 0, got %v", got)
	}
}

func TestBlogs(t *testing.T) {
	e := newEnv(t, nil)
	html := string(e.show(t, Blogs, nil).HTML)

	newAt, oldAt := strings.Index(html, "New Post"), strings.Index(html, "Old Post")
	if newAt < 0 || oldAt < 0 || newAt > oldAt {
		t.Errorf("Expected newest post first, got %s", html)
	}
	if strings.Contains(html, "Work In Progress") {
		t.Error("Draft listed")
	}
	if !strings.Contains(html, `<span class="tag">go</span>`) {
		t.Errorf("Expected tags, got %s", html)
	}
}

func TestBlogsEmpty(t *testing.T) {
	fsys := fstest.MapFS{"blogs/wip.md": {Data: []byte(post("WIP", "2024-01-01", true))}}
	idx, _ := content.NewIndex(fsys, quietLog())
	r, _ := markdown.New(markdown.EngineBlackfriday, nil)
	ctrl := page.NewController(quietLog())
	defer ctrl.Close()
	d := Deps{Controller: ctrl, Loader: content.NewLoader(content.FSFetcher{FS: fsys}, r, quietLog()), Index: idx}
	if err := Register(d); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.Activate(context.Background(), Blogs, nil); err != nil {
		t.Fatal(err)
	}
	if html := string(ctrl.Active().Element().Snapshot().HTML); !strings.Contains(html, "No posts yet.") {
		t.Errorf("Expected empty message, got %s", html)
	}
}

type countingFetcher struct {
	content.Fetcher
	mu sync.Mutex
	n  map[string]int
}

func (c *countingFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	c.mu.Lock()
	c.n[p]++
	c.mu.Unlock()
	return c.Fetcher.Fetch(ctx, p)
}

func TestBlogsCachesListing(t *testing.T) {
	f := &countingFetcher{Fetcher: content.FSFetcher{FS: testFS()}, n: map[string]int{}}
	e := newEnv(t, f)
	e.show(t, Blogs, nil)
	e.show(t, About, nil)
	e.show(t, Blogs, nil)
	if f.n["blogs/new.md"] != 1 {
		t.Errorf("Expected listing loaded once, fetched %d times", f.n["blogs/new.md"])
	}
}

func TestProjects(t *testing.T) {
	e := newEnv(t, nil)
	html := string(e.show(t, Projects, nil).HTML)

	order := []string{"Delta", "Alpha", "Gamma", "Beta"}
	last := -1
	for _, name := range order {
		at := strings.Index(html, "<h2>"+name+"</h2>")
		if at < 0 || at < last {
			t.Fatalf("Expected order %v, got %s", order, html)
		}
		last = at
	}
	if strings.Contains(html, "Hidden") {
		t.Error("Unpublished project listed")
	}
}

func TestBlogDetail(t *testing.T) {
	e := newEnv(t, nil)

	t.Run("Found", func(t *testing.T) {
		snap := e.show(t, BlogDetail, slug("new"))
		if snap.Heading != "New Post" {
			t.Errorf("Expected heading New Post, got %q", snap.Heading)
		}
		if !strings.Contains(string(snap.HTML), "Body of New Post") || !strings.Contains(string(snap.HTML), "slab-title") {
			t.Errorf("Unexpected article %s", snap.HTML)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		snap := e.show(t, BlogDetail, slug("nope"))
		if snap.Heading != "Blog Not Found" || !strings.Contains(string(snap.HTML), "Blog post not found.") {
			t.Errorf("Unexpected %+v", snap)
		}
	})

	t.Run("Draft", func(t *testing.T) {
		snap := e.show(t, BlogDetail, slug("wip"))
		if !strings.Contains(string(snap.HTML), "This post is not yet published.") {
			t.Errorf("Unexpected %s", snap.HTML)
		}
	})
}

type failingFetcher struct{}

func (failingFetcher) Fetch(context.Context, string) ([]byte, error) {
	return nil, io.ErrUnexpectedEOF
}

func TestProjectDetail(t *testing.T) {
	e := newEnv(t, nil)

	t.Run("Found", func(t *testing.T) {
		snap := e.show(t, ProjectDetail, slug("alpha"))
		if snap.Heading != "Alpha" || !strings.Contains(string(snap.HTML), "About Alpha") {
			t.Errorf("Unexpected %+v", snap)
		}
		if !strings.Contains(string(snap.HTML), "featured") {
			t.Error("Expected featured badge")
		}
	})

	t.Run("Unpublished", func(t *testing.T) {
		snap := e.show(t, ProjectDetail, slug("hidden"))
		if !strings.Contains(string(snap.HTML), "This project is not yet published.") {
			t.Errorf("Unexpected %s", snap.HTML)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		snap := e.show(t, ProjectDetail, slug("missing"))
		if !strings.Contains(string(snap.HTML), "Project not found.") {
			t.Errorf("Unexpected %s", snap.HTML)
		}
	})

	t.Run("FetchFails", func(t *testing.T) {
		e := newEnv(t, failingFetcher{})
		snap := e.show(t, ProjectDetail, slug("alpha"))
		if !strings.Contains(string(snap.HTML), "Failed to load project.") {
			t.Errorf("Unexpected %s", snap.HTML)
		}
	})
}

// blockingFetcher holds every fetch until its context ends.
type blockingFetcher struct {
	started chan struct{}
}

func (b blockingFetcher) Fetch(ctx context.Context, _ string) ([]byte, error) {
	b.started <- struct{}{}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestDetailDiscardsStaleResults(t *testing.T) {
	f := blockingFetcher{started: make(chan struct{}, 1)}
	e := newEnv(t, f)

	done := make(chan error, 1)
	go func() {
		done <- e.ctrl.Activate(context.Background(), BlogDetail, slug("new"))
	}()
	<-f.started

	if err := e.ctrl.Activate(context.Background(), About, nil); err != nil {
		t.Fatalf("Activate(about): %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Stale activation returned %v", err)
	}

	if e.ctrl.Active().Name() != About {
		t.Fatalf("Expected about active, got %s", e.ctrl.Active().Name())
	}
	p, _ := e.ctrl.Lookup(BlogDetail)
	snap := p.Element().Snapshot()
	if snap.Active {
		t.Error("Blog detail still active")
	}
	if strings.Contains(string(snap.HTML), "Failed") {
		t.Errorf("Stale failure was published: %s", snap.HTML)
	}
}

func TestStaticPages(t *testing.T) {
	e := newEnv(t, nil)

	if html := string(e.show(t, About, nil).HTML); !strings.Contains(html, seo.DefaultSiteName) {
		t.Errorf("Unexpected about %s", html)
	}
	if html := string(e.show(t, Guestbook, nil).HTML); !strings.Contains(html, "closed") {
		t.Errorf("Expected closed guestbook without endpoint, got %s", html)
	}
	if html := string(e.show(t, NotFound, &page.Options{Data: "/nowhere<x>"}).HTML); !strings.Contains(html, "/nowhere&lt;x&gt;") {
		t.Errorf("Expected escaped path, got %s", html)
	}
}

func TestDrawbook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "Timestamp,Image\n1/1/2025 10:00:00,https://img.example/a.png\n2/1/2025 10:00:00,https://img.example/b.png\n")
	}))
	defer srv.Close()

	t.Run("Gallery", func(t *testing.T) {
		e := newEnv(t, nil)
		e.deps.Drawbook = &drawbook.Client{SheetURL: srv.URL, WorkerURL: "https://worker.example"}
		e.deps.DrawbookUploadPath = "/__folio/drawbook/upload"
		p := newDrawbook(e.deps)
		ctrl := page.NewController(quietLog())
		defer ctrl.Close()
		p.d.Controller = ctrl
		if err := ctrl.Register(p); err != nil {
			t.Fatal(err)
		}
		if err := ctrl.Activate(context.Background(), Drawbook, nil); err != nil {
			t.Fatal(err)
		}
		html := string(p.Element().Snapshot().HTML)
		if strings.Index(html, "b.png") > strings.Index(html, "a.png") {
			t.Errorf("Expected newest drawing first, got %s", html)
		}
		if !strings.Contains(html, `data-upload="/__folio/drawbook/upload"`) {
			t.Errorf("Expected upload canvas, got %s", html)
		}
	})

	t.Run("NotConfigured", func(t *testing.T) {
		e := newEnv(t, nil)
		html := string(e.show(t, Drawbook, nil).HTML)
		if !strings.Contains(html, "Failed to load gallery.") || strings.Contains(html, "<canvas") {
			t.Errorf("Unexpected %s", html)
		}
	})
}
