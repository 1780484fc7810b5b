// Package widgets renders the small decorative pieces shared by pages: tag
// chips and slab titles.
package widgets

import (
	"fmt"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/river-now/folio/kit/htmlutil"
)

type TagColor struct {
	Background string
	Text       string
	Border     string
}

// Buckets of two characters each: tags of length 1-2 get the first entry,
// 3-4 the second, and so on, with long tags sharing the last.
var palette = []TagColor{
	{"#FF6B6B", "#FF6B6B", "#CC5555"}, // red
	{"#4ECDC4", "#4ECDC4", "#3DA39C"}, // teal
	{"#45B7D1", "#45B7D1", "#3692A7"}, // blue
	{"#FFA07A", "#FFA07A", "#CC8062"}, // salmon
	{"#98D8C8", "#FFA07A", "#7AADA0"}, // mint
	{"#F7B731", "#F7B731", "#C69227"}, // gold
	{"#6C5CE7", "#6C5CE7", "#564AB9"}, // purple
	{"#A29BFE", "#A29BFE", "#827CCB"}, // lavender
}

func PaletteColor(tag string) TagColor {
	i := (utf8.RuneCountInString(tag) - 1) / 2
	return palette[max(0, min(i, len(palette)-1))]
}

// HSLColor spreads hues by tag length instead of using the palette.
func HSLColor(tag string) TagColor {
	n := utf8.RuneCountInString(tag)
	hue := (n * 37) % 360
	sat := 60 + (n%3)*5
	light := 45 + (n%4)*2
	return TagColor{
		Background: fmt.Sprintf("hsl(%d, %d%%, %d%%)", hue, sat, light),
		Text:       fmt.Sprintf("hsl(%d, %d%%, 98%%)", hue, sat),
		Border:     fmt.Sprintf("hsl(%d, %d%%, %d%%)", hue, sat, light-10),
	}
}

// TagStyle returns the CSS custom properties for a tag chip.
func TagStyle(tag string) string {
	c := PaletteColor(tag)
	return fmt.Sprintf("--tag-bg: %s; --tag-text: %s; --tag-border: %s;", c.Background, c.Text, c.Border)
}

// Tags renders tag chips. Colored chips carry their palette style.
func Tags(class string, tags []string, colored bool) template.HTML {
	var sb strings.Builder
	for _, tag := range tags {
		el := &htmlutil.Element{
			Tag:         "span",
			Attributes:  map[string]string{"class": class},
			TextContent: tag,
		}
		if colored {
			el.Attributes["style"] = TagStyle(tag)
		}
		if err := htmlutil.RenderElementToBuilder(el, &sb); err != nil {
			continue
		}
	}
	return template.HTML(sb.String())
}
