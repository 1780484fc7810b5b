package check

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/river-now/folio/internal/content"
)

func run(t *testing.T, fsys fstest.MapFS) Report {
	t.Helper()
	idx, err := content.NewIndex(fsys, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	return Run(fsys, idx)
}

func messages(r Report) []string {
	var out []string
	for _, is := range r.Issues {
		out = append(out, is.Severity.String()+" "+is.Path+": "+is.Message)
	}
	return out
}

func TestRun(t *testing.T) {
	t.Run("Clean", func(t *testing.T) {
		r := run(t, fstest.MapFS{
			"blogs/ok.md": {Data: []byte("---\ntitle:\n  text: OK\ndescription: fine\npublished_at: 2024-01-01\ntags: [a, b]\n---\nBody\n")},
		})
		if r.Files != 1 || len(r.Issues) != 0 {
			t.Errorf("Expected a clean report, got %v", messages(r))
		}
	})

	t.Run("DroppedKey", func(t *testing.T) {
		// A flow mapping is valid YAML but not a shape the site parser reads.
		r := run(t, fstest.MapFS{
			"projects/p.md": {Data: []byte("---\ntitle: P\ndescription: d\ndate: 2024-01-01\nmeta: {a: 1}\nitems:\n\n---\nBody\n")},
		})
		found := false
		for _, m := range messages(r) {
			if strings.Contains(m, `"items"`) {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected dropped key warning, got %v", messages(r))
		}
		if r.Errors() != 0 {
			t.Errorf("Expected warnings only, got %v", messages(r))
		}
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		r := run(t, fstest.MapFS{
			"blogs/bad.md": {Data: []byte("---\ntitle: \"unterminated\ndescription: d\npublished_at: x\n---\n")},
		})
		if r.Errors() == 0 {
			t.Errorf("Expected YAML error, got %v", messages(r))
		}
	})

	t.Run("MissingFields", func(t *testing.T) {
		r := run(t, fstest.MapFS{
			"blogs/empty.md":    {Data: []byte("---\ntitle: T\n---\n")},
			"blogs/no-block.md": {Data: []byte("just text")},
		})
		got := strings.Join(messages(r), "\n")
		for _, want := range []string{"missing description", "missing published_at", "no frontmatter block"} {
			if !strings.Contains(got, want) {
				t.Errorf("Expected %q in:\n%s", want, got)
			}
		}
	})
}

func TestPrint(t *testing.T) {
	r := Report{Files: 2, Issues: []Issue{
		{Path: "blogs/a.md", Severity: Error, Message: "missing title"},
		{Path: "blogs/a.md", Severity: Warning, Message: "dropped"},
	}}
	var buf bytes.Buffer
	r.Print(&buf)
	out := buf.String()
	if strings.Count(out, "blogs/a.md") != 1 {
		t.Errorf("Expected issues grouped under one file header, got:\n%s", out)
	}
	if !strings.Contains(out, "2 files, 1 errors, 1 warnings") {
		t.Errorf("Unexpected summary:\n%s", out)
	}

	buf.Reset()
	Report{Files: 3}.Print(&buf)
	if !strings.Contains(buf.String(), "✓ 3 files") {
		t.Errorf("Unexpected clean output %q", buf.String())
	}
}
