// Package markdown renders markdown bodies to HTML with highlighted code
// blocks. Two engines are available: blackfriday (the default) and goldmark.
package markdown

import (
	"fmt"
	"html/template"
)

const (
	EngineBlackfriday = "blackfriday"
	EngineGoldmark    = "goldmark"
)

type Renderer interface {
	Render(src []byte) (template.HTML, error)
}

// New returns the renderer for the named engine. An empty name selects
// blackfriday. A nil highlighter uses the default style.
func New(engine string, hl *Highlighter) (Renderer, error) {
	if hl == nil {
		hl = NewHighlighter("")
	}
	switch engine {
	case "", EngineBlackfriday:
		return NewBlackfriday(hl), nil
	case EngineGoldmark:
		return NewGoldmark(hl), nil
	}
	return nil, fmt.Errorf("unknown markdown engine %q", engine)
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(src []byte) (template.HTML, error)

func (f RendererFunc) Render(src []byte) (template.HTML, error) { return f(src) }
