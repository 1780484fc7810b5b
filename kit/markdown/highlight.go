package markdown

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const DefaultStyle = "onedark"

// Highlighter turns code blocks into class-annotated HTML. The wrapping
// <code> element carries "hljs language-<lang>", or just "hljs" when the
// fence names no language.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHighlighter uses the named chroma style, falling back to the default
// style for unknown or empty names.
func NewHighlighter(style string) *Highlighter {
	if style == "" {
		style = DefaultStyle
	}
	return &Highlighter{
		style: styles.Get(style),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
			chromahtml.TabWidth(2),
		),
	}
}

func (h *Highlighter) StyleName() string { return h.style.Name }

// Lexer resolves the lexer for a fence language. An unknown language is
// plain text; only a fence without a language is detected from the code.
func Lexer(lang, code string) chroma.Lexer {
	var lexer chroma.Lexer
	if lang == "" {
		lexer = lexers.Analyse(code)
	} else {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Get("plaintext")
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

func (h *Highlighter) Highlight(w io.Writer, code, lang string) error {
	lang = strings.TrimSpace(lang)
	it, err := Lexer(lang, code).Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("could not tokenise %q code block: %w", lang, err)
	}

	class := "hljs"
	if lang != "" {
		class += " language-" + lang
	}
	if _, err := fmt.Fprintf(w, `<pre class="chroma"><code class="%s">`, html.EscapeString(class)); err != nil {
		return err
	}
	if err := h.formatter.Format(w, h.style, it); err != nil {
		return fmt.Errorf("could not format code block: %w", err)
	}
	_, err = io.WriteString(w, "</code></pre>\n")
	return err
}

// CSS writes the stylesheet for the highlighter's style.
func (h *Highlighter) CSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}
