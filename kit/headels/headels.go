// Package headels collects the elements of a document head.
//
// Only the last title and the last meta description are kept. Any other
// element added twice with the same attributes and content appears once.
// Meta elements render before everything else, in insertion order.
package headels

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/river-now/folio/kit/htmlutil"
)

type Head struct {
	title       string
	description *htmlutil.Element
	els         []*htmlutil.Element
}

func (h *Head) Title(title string) *Head {
	h.title = title
	return h
}

func (h *Head) Description(content string) *Head {
	h.description = meta("name", "description", content)
	return h
}

// Meta adds <meta name=... content=...>.
func (h *Head) Meta(name, content string) *Head {
	return h.Add(meta("name", name, content))
}

// Property adds an Open Graph style <meta property=... content=...>.
func (h *Head) Property(property, content string) *Head {
	return h.Add(meta("property", property, content))
}

func (h *Head) Link(rel, href string) *Head {
	return h.Add(&htmlutil.Element{
		Tag:        "link",
		Attributes: map[string]string{"rel": rel, "href": href},
	})
}

func (h *Head) Add(els ...*htmlutil.Element) *Head {
	h.els = append(h.els, els...)
	return h
}

func meta(attr, key, content string) *htmlutil.Element {
	return &htmlutil.Element{
		Tag:        "meta",
		Attributes: map[string]string{attr: key, "content": content},
	}
}

func (h *Head) Render() (template.HTML, error) {
	var b strings.Builder
	if err := htmlutil.RenderElementToBuilder(&htmlutil.Element{Tag: "title", TextContent: h.title}, &b); err != nil {
		return "", fmt.Errorf("error rendering title: %w", err)
	}
	b.WriteString("\n")

	els := h.els
	if h.description != nil {
		els = append([]*htmlutil.Element{h.description}, els...)
	}

	seen := make(map[template.HTML]bool, len(els))
	var metas, rest []template.HTML
	for _, el := range els {
		out, err := htmlutil.RenderElement(el)
		if err != nil {
			return "", fmt.Errorf("error rendering head el: %w", err)
		}
		if seen[out] {
			continue
		}
		seen[out] = true
		if el.Tag == "meta" {
			metas = append(metas, out)
		} else {
			rest = append(rest, out)
		}
	}
	for _, out := range append(metas, rest...) {
		b.WriteString(string(out))
		b.WriteString("\n")
	}
	return template.HTML(b.String()), nil
}
