// Package check lints the content tree. Every file's metadata is decoded
// twice, by the site's frontmatter parser and by a strict YAML decoder, and
// keys the site parser would silently drop are reported.
package check

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"slices"

	adrg "github.com/adrg/frontmatter"
	"github.com/charmbracelet/lipgloss"

	"github.com/river-now/folio/internal/content"
	"github.com/river-now/folio/kit/frontmatter"
)

type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

type Issue struct {
	Path     string
	Severity Severity
	Message  string
}

type Report struct {
	Files  int
	Issues []Issue
}

func (r Report) Errors() int {
	n := 0
	for _, is := range r.Issues {
		if is.Severity == Error {
			n++
		}
	}
	return n
}

var required = map[content.Kind][]string{
	content.Blogs:    {"title", "description", "published_at"},
	content.Projects: {"title", "description", "date"},
}

// Run checks every indexed file of fsys.
func Run(fsys fs.FS, idx *content.Index) Report {
	var r Report
	for _, kind := range content.Kinds {
		for _, e := range idx.List(kind) {
			r.Files++
			b, err := fs.ReadFile(fsys, e.Path)
			if err != nil {
				r.add(e.Path, Error, "unreadable: %v", err)
				continue
			}
			r.file(e, b)
		}
	}
	return r
}

func (r *Report) add(path string, sev Severity, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Path: path, Severity: sev, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) file(e content.Entry, b []byte) {
	_, _, hasBlock := frontmatter.Split(string(b))
	if !hasBlock {
		r.add(e.Path, Error, "no frontmatter block")
		return
	}
	ours := frontmatter.ParseBytes(b).Metadata

	var strict map[string]any
	if _, err := adrg.Parse(bytes.NewReader(b), &strict); err != nil {
		r.add(e.Path, Error, "invalid YAML: %v", err)
	}
	for _, key := range slices.Sorted(maps.Keys(strict)) {
		if !ours.Has(key) {
			r.add(e.Path, Warning, "key %q is valid YAML but is dropped by the site parser", key)
		}
	}

	for _, key := range required[e.Kind] {
		if ours.String(key) != "" || (key == "title" && ours.Map("title").String("text") != "") {
			continue
		}
		r.add(e.Path, Error, "missing %s", key)
	}
}

var (
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Print writes the report grouped by file. Styles are applied only when w
// supports them.
func (r Report) Print(w io.Writer) {
	re := lipgloss.NewRenderer(w)
	style := func(s lipgloss.Style) lipgloss.Style { return s.Renderer(re) }

	var last string
	for _, is := range r.Issues {
		if is.Path != last {
			mark := style(warnStyle).Render("⚠")
			if r.fileHasErrors(is.Path) {
				mark = style(errStyle).Render("✗")
			}
			fmt.Fprintf(w, "%s %s\n", mark, is.Path)
			last = is.Path
		}
		s := warnStyle
		if is.Severity == Error {
			s = errStyle
		}
		fmt.Fprintf(w, "    %s %s\n", style(s).Render(is.Severity.String()+":"), is.Message)
	}

	summary := fmt.Sprintf("%d files, %d errors, %d warnings", r.Files, r.Errors(), len(r.Issues)-r.Errors())
	if len(r.Issues) == 0 {
		fmt.Fprintln(w, style(okStyle).Render("✓ "+summary))
		return
	}
	fmt.Fprintln(w, style(dimStyle).Render(summary))
}

func (r Report) fileHasErrors(path string) bool {
	return slices.ContainsFunc(r.Issues, func(is Issue) bool {
		return is.Path == path && is.Severity == Error
	})
}
