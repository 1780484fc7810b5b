package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

type Kind string

const (
	Blogs    Kind = "blogs"
	Projects Kind = "projects"
)

var Kinds = []Kind{Blogs, Projects}

var slugRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidSlug reports whether s can be used as a route segment and index key.
func ValidSlug(s string) bool { return slugRe.MatchString(s) }

type Entry struct {
	Kind Kind
	Slug string
	Path string // relative to the content root, e.g. "blogs/hello.md"
}

// Record is an index entry with its loaded content.
type Record struct {
	Entry
	*Content
}

// Index maps slugs to markdown files under <kind>/*.md of a content FS.
type Index struct {
	fsys fs.FS
	log  *slog.Logger

	mu      sync.RWMutex
	entries map[Kind][]Entry
}

// NewIndex builds an index over fsys and scans it once.
func NewIndex(fsys fs.FS, log *slog.Logger) (*Index, error) {
	if log == nil {
		log = Log
	}
	idx := &Index{fsys: fsys, log: log}
	if err := idx.Refresh(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Refresh rescans the content FS. Files whose stem is not a valid slug are
// skipped with a warning.
func (idx *Index) Refresh() error {
	entries := make(map[Kind][]Entry, len(Kinds))
	for _, kind := range Kinds {
		matches, err := doublestar.Glob(idx.fsys, string(kind)+"/*.md")
		if err != nil {
			return fmt.Errorf("scan %s: %w", kind, err)
		}
		for _, m := range matches {
			slug := strings.TrimSuffix(path.Base(m), ".md")
			if !ValidSlug(slug) {
				idx.log.Warn("Skipping content file with invalid slug", "path", m)
				continue
			}
			entries[kind] = append(entries[kind], Entry{Kind: kind, Slug: slug, Path: m})
		}
		slices.SortFunc(entries[kind], func(a, b Entry) int { return strings.Compare(a.Slug, b.Slug) })
	}

	idx.mu.Lock()
	idx.entries = entries
	idx.mu.Unlock()
	return nil
}

func (idx *Index) Lookup(kind Kind, slug string) (Entry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, e := range idx.entries[kind] {
		if e.Slug == slug {
			return e, true
		}
	}
	return Entry{}, false
}

// List returns the entries of a kind sorted by slug.
func (idx *Index) List(kind Kind) []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return slices.Clone(idx.entries[kind])
}

// Contains reports whether p is an indexed content path.
func (idx *Index) Contains(p string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, kind := range Kinds {
		for _, e := range idx.entries[kind] {
			if e.Path == p {
				return true
			}
		}
	}
	return false
}
