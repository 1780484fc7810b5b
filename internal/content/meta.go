package content

import (
	"math"
	"strings"
	"time"

	"github.com/river-now/folio/kit/frontmatter"
	"github.com/river-now/folio/kit/htmlutil"
)

const wordsPerMinute = 200

type Title struct {
	Text string
	// Per-word slab title configuration, e.g. "4c 2i 3[#ff0000]".
	Config string
}

type BlogMeta struct {
	Title       Title
	Description string
	Tags        []string
	Draft       bool
	PublishedAt string
	Author      string
	ReadingTime int // minutes
}

type Image struct {
	URL string
	Alt string
}

type Link struct {
	Text string
	URL  string
	Icon string
}

type ProjectMeta struct {
	Title       Title
	Description string
	Tags        []string
	Draft       bool
	Date        string
	Published   bool
	Featured    bool
	Image       *Image
	Links       []Link
}

func titleOf(doc frontmatter.Document) Title {
	if m, ok := doc["title"].(frontmatter.Document); ok {
		return Title{Text: m.String("text"), Config: m.String("config")}
	}
	return Title{Text: doc.String("title")}
}

// Blog reads the blog fields of the frontmatter. A missing reading_time is
// estimated from the rendered body.
func (c *Content) Blog() BlogMeta {
	doc := c.Frontmatter
	m := BlogMeta{
		Title:       titleOf(doc),
		Description: doc.String("description"),
		Tags:        doc.Strings("tags"),
		Draft:       doc.Bool("draft"),
		PublishedAt: doc.String("published_at"),
		Author:      doc.String("author"),
		ReadingTime: doc.Int("reading_time"),
	}
	if !doc.Has("reading_time") {
		m.ReadingTime = ReadingTime(string(c.HTML))
	}
	return m
}

func (c *Content) Project() ProjectMeta {
	doc := c.Frontmatter
	m := ProjectMeta{
		Title:       titleOf(doc),
		Description: doc.String("description"),
		Tags:        doc.Strings("tags"),
		Draft:       doc.Bool("draft"),
		Date:        doc.String("date"),
		Published:   doc.Bool("published"),
		Featured:    doc.Bool("featured"),
	}
	if img := doc.Map("image"); img.String("url") != "" {
		m.Image = &Image{URL: img.String("url"), Alt: img.String("alt")}
	}
	for _, l := range doc.Maps("links") {
		m.Links = append(m.Links, Link{Text: l.String("text"), URL: l.String("url"), Icon: l.String("icon")})
	}
	return m
}

// ReadingTime estimates minutes to read an HTML fragment, at least one.
func ReadingTime(html string) int {
	words := htmlutil.WordCount(html)
	return max(1, int(math.Ceil(float64(words)/wordsPerMinute)))
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02 15:04",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate reads the date formats used in frontmatter. Unparseable dates
// yield the zero time, which sorts last in newest-first listings.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
