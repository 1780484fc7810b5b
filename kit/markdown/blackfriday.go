package markdown

import (
	"bytes"
	"html/template"
	"io"

	"github.com/russross/blackfriday/v2"
)

const blackfridayExtensions = blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs

type Blackfriday struct {
	hl *Highlighter
}

func NewBlackfriday(hl *Highlighter) *Blackfriday {
	return &Blackfriday{hl: hl}
}

func (b *Blackfriday) Render(src []byte) (template.HTML, error) {
	r := &bfRenderer{
		HTMLRenderer: blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: blackfriday.CommonHTMLFlags,
		}),
		hl: b.hl,
	}
	out := blackfriday.Run(src, blackfriday.WithRenderer(r), blackfriday.WithExtensions(blackfridayExtensions))
	if r.err != nil {
		return "", r.err
	}
	return template.HTML(out), nil
}

// bfRenderer routes code blocks through the highlighter and leaves every
// other node to the stock HTML renderer.
type bfRenderer struct {
	*blackfriday.HTMLRenderer
	hl  *Highlighter
	err error
}

func (r *bfRenderer) RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	if node.Type != blackfriday.CodeBlock {
		return r.HTMLRenderer.RenderNode(w, node, entering)
	}
	var lang string
	if fields := bytes.Fields(node.CodeBlockData.Info); len(fields) > 0 {
		lang = string(fields[0])
	}
	if err := r.hl.Highlight(w, string(node.Literal), lang); err != nil {
		r.err = err
		return blackfriday.Terminate
	}
	return blackfriday.GoToNext
}
