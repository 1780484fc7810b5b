package widgets

import (
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

var accentColors = []string{
	"var(--slab-rosewater)", "var(--slab-flamingo)", "var(--slab-pink)",
	"var(--slab-mauve)", "var(--slab-red)", "var(--slab-maroon)",
	"var(--slab-peach)", "var(--slab-yellow)", "var(--slab-green)",
	"var(--slab-teal)", "var(--slab-sky)", "var(--slab-sapphire)",
	"var(--slab-blue)", "var(--slab-lavender)",
}

var grayscaleColors = []string{
	"var(--slab-text)", "var(--slab-subtext1)",
	"var(--slab-subtext0)", "var(--slab-overlay2)",
}

const defaultSlabSize = 3

var (
	slabColorRe  = regexp.MustCompile(`\[(#[0-9a-fA-F]{3,8})\]`)
	slabSizeRe   = regexp.MustCompile(`^[\d.]+`)
	vtStripRe    = regexp.MustCompile(`[^a-z0-9\s\-_]`)
	italicWeight = []int{300, 400, 500}
)

type WordConfig struct {
	Size    float64
	Colored bool
	Italic  bool
	Color   string
}

// ParseSlabConfig reads one config token per word, e.g. "4c 2i 3[#ff8800]":
// a leading size in rem, "c" for an accent color, "i" for italic serif and
// an explicit color in brackets.
func ParseSlabConfig(config string) []WordConfig {
	var out []WordConfig
	for _, tok := range strings.Fields(config) {
		wc := WordConfig{Size: defaultSlabSize}
		if m := slabColorRe.FindStringSubmatch(tok); m != nil {
			wc.Color = m[1]
			wc.Colored = true
			tok = strings.Replace(tok, m[0], "", 1)
		}
		if s := slabSizeRe.FindString(tok); s != "" {
			if f, ok := leadingFloat(s); ok {
				wc.Size = f
			}
		}
		wc.Colored = wc.Colored || strings.Contains(tok, "c")
		wc.Italic = strings.Contains(tok, "i")
		out = append(out, wc)
	}
	return out
}

// leadingFloat parses the longest numeric prefix of a run of digits and
// dots, so "1.5.2" reads as 1.5.
func leadingFloat(s string) (float64, bool) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		if j := strings.IndexByte(s[i+1:], '.'); j >= 0 {
			s = s[:i+1+j]
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "."), 64)
	return f, err == nil
}

// SlabTitle renders a title as individually styled words. The slug seeds
// the color choice so a title looks the same on every render, and names the
// view transitions so words can animate between listing and detail.
func SlabTitle(title, config, slug string) template.HTML {
	words := strings.Split(title, " ")
	configs := ParseSlabConfig(config)
	seen := make(map[string]int)

	safePath := slug
	if i := strings.LastIndexByte(slug, '/'); i >= 0 && i < len(slug)-1 {
		safePath = slug[i+1:]
	}

	var sb strings.Builder
	sb.WriteString(`<div class="slab-title-container">`)
	for i, word := range words {
		wc := WordConfig{Size: defaultSlabSize}
		if i < len(configs) {
			wc = configs[i]
		}

		normalized := vtStripRe.ReplaceAllString(strings.ToLower(word), "")
		vtName := "_" + safePath + "__" + normalized
		if n := seen[normalized]; n > 0 {
			vtName += "___" + strconv.Itoa(n)
		}
		seen[normalized]++

		h := hashCode(slug + strconv.Itoa(i))
		weight, fontStyle, family := 900, "normal", "slab-mono"
		if wc.Italic {
			weight, fontStyle, family = italicWeight[h%len(italicWeight)], "italic", "slab-serif"
		}
		color := wc.Color
		switch {
		case color != "":
		case wc.Colored:
			color = accentColors[h%len(accentColors)]
		default:
			color = grayscaleColors[h%len(grayscaleColors)]
		}

		style := fmt.Sprintf("view-transition-name: %s; font-size: %srem; font-weight: %d; color: %s; font-style: %s;",
			vtName, strconv.FormatFloat(wc.Size, 'f', -1, 64), weight, color, fontStyle)
		fmt.Fprintf(&sb, `<span class="slab-word %s" style="%s">%s</span>`,
			family, html.EscapeString(style), html.EscapeString(word))
	}
	sb.WriteString(`</div>`)
	return template.HTML(sb.String())
}

// hashCode is the 31-multiplier string hash over UTF-16 code units with
// 32-bit wraparound, made non-negative.
func hashCode(s string) int {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h<<5 - h + int32(u)
	}
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return int(n)
}
