// Package export renders every route of the site through a fresh session and
// writes the result as a static tree.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/river-now/folio/internal/content"
	"github.com/river-now/folio/internal/document"
	"github.com/river-now/folio/internal/pages"
	"github.com/river-now/folio/internal/session"
	"github.com/river-now/folio/kit/colorlog"
	"github.com/river-now/folio/kit/markdown"
)

var Log = colorlog.New("export")

const defaultConcurrency = 4

type Options struct {
	Deps        pages.Deps
	Highlighter *markdown.Highlighter
	// Markdown files under blogs/ and projects/ are copied to <OutDir>/content
	// when set, so the export can serve as its own content origin.
	Content     fs.FS
	OutDir      string
	Concurrency int
	Log         *slog.Logger
}

type Result struct {
	Pages   int
	Content int
}

var staticRoutes = []string{"/", "/about", "/blogs", "/projects", "/guestbook", "/drawbook"}

// Routes lists every path the export renders, slug routes last.
func Routes(idx *content.Index) []string {
	routes := append([]string{}, staticRoutes...)
	for _, kind := range content.Kinds {
		for _, e := range idx.List(kind) {
			routes = append(routes, "/"+string(kind)+"/"+e.Slug)
		}
	}
	return routes
}

// Build writes <OutDir>/<route>/index.html for every route, <OutDir>/404.html
// and the highlight stylesheet.
func Build(ctx context.Context, o Options) (Result, error) {
	log := o.Log
	if log == nil {
		log = Log
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
	}
	if o.Highlighter == nil {
		o.Highlighter = markdown.NewHighlighter("")
	}
	// Pages render statically: the drawbook canvas needs the live server.
	o.Deps.DrawbookUploadPath = ""

	var res Result
	var pagesWritten atomic.Int64
	var n atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Concurrency)

	routes := Routes(o.Deps.Index)
	for _, route := range routes {
		g.Go(func() error {
			if err := renderRoute(gctx, o, "export-"+strconv.FormatInt(n.Add(1), 10), route, outPath(o.OutDir, route)); err != nil {
				return err
			}
			pagesWritten.Add(1)
			return nil
		})
	}
	g.Go(func() error {
		return renderRoute(gctx, o, "export-404", "/404", filepath.Join(o.OutDir, "404.html"))
	})
	g.Go(func() error {
		var buf bytes.Buffer
		if err := o.Highlighter.CSS(&buf); err != nil {
			return err
		}
		return writeFile(filepath.Join(o.OutDir, filepath.FromSlash(document.HighlightCSSPath)), buf.Bytes())
	})
	if err := g.Wait(); err != nil {
		return res, err
	}
	res.Pages = int(pagesWritten.Load())

	if o.Content != nil {
		copied, err := copyContent(o.Content, filepath.Join(o.OutDir, "content"))
		if err != nil {
			return res, err
		}
		res.Content = copied
	}
	log.Info("Export complete", "pages", res.Pages, "content", res.Content, "out", o.OutDir)
	return res, nil
}

func renderRoute(ctx context.Context, o Options, id, route, dest string) error {
	s, err := session.New(id, o.Deps)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Visit(ctx, route); err != nil {
		return fmt.Errorf("render %s: %w", route, err)
	}
	var buf bytes.Buffer
	if _, err := document.Render(&buf, s.Snapshot(), document.Options{Site: o.Deps.Site}); err != nil {
		return fmt.Errorf("render %s: %w", route, err)
	}
	return writeFile(dest, buf.Bytes())
}

func outPath(outDir, route string) string {
	rel := strings.Trim(route, "/")
	return filepath.Join(outDir, filepath.FromSlash(rel), "index.html")
}

func writeFile(dest string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, b, 0o644)
}

func copyContent(fsys fs.FS, dest string) (int, error) {
	var copied int
	for _, kind := range content.Kinds {
		matches, err := doublestar.Glob(fsys, string(kind)+"/*.md")
		if err != nil {
			return copied, err
		}
		for _, m := range matches {
			b, err := fs.ReadFile(fsys, m)
			if err != nil {
				return copied, fmt.Errorf("copy %s: %w", m, err)
			}
			if err := writeFile(filepath.Join(dest, filepath.FromSlash(path.Clean(m))), b); err != nil {
				return copied, err
			}
			copied++
		}
	}
	return copied, nil
}
