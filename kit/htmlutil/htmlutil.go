// Package htmlutil builds small HTML fragments from element descriptions and
// extracts plain text from rendered markup.
package htmlutil

import (
	"fmt"
	"html/template"
	"maps"
	"slices"
	"strings"

	"github.com/river-now/folio/kit/id"
)

type Element struct {
	Tag                     string            `json:"tag,omitempty"`
	Attributes              map[string]string `json:"attributes,omitempty"`
	AttributesDangerousVals map[string]string `json:"attributesDangerousVals,omitempty"`
	BooleanAttributes       []string          `json:"booleanAttributes,omitempty"`
	TextContent             string            `json:"textContent,omitempty"`
	DangerousInnerHTML      template.HTML     `json:"dangerousInnerHTML,omitempty"`
	Children                []*Element        `json:"children,omitempty"`
	SelfClosing             bool              `json:"-"`
}

// see https://html.spec.whatwg.org/multipage/syntax.html#void-elements
var selfClosingTags = []string{
	"area", "base", "br", "col", "embed", "hr", "img",
	"input", "link", "meta", "source", "track", "wbr",
}

// AddNonce sets a random nonce attribute on the element and returns it, for
// use in a Content-Security-Policy script-src.
func AddNonce(el *Element, length uint8) (string, error) {
	if el.AttributesDangerousVals == nil {
		el.AttributesDangerousVals = make(map[string]string)
	}
	if length == 0 {
		length = 16
	}
	nonce, err := id.New(length)
	if err != nil {
		return "", fmt.Errorf("could not generate nonce: %w", err)
	}
	el.AttributesDangerousVals["nonce"] = nonce
	return nonce, nil
}

func RenderElement(el *Element) (template.HTML, error) {
	var sb strings.Builder
	if err := RenderElementToBuilder(el, &sb); err != nil {
		return "", fmt.Errorf("could not render element: %w", err)
	}
	return template.HTML(sb.String()), nil
}

// MustRender is RenderElement for elements built from literals, where a
// missing tag is a programming error.
func MustRender(el *Element) template.HTML {
	out, err := RenderElement(el)
	if err != nil {
		panic(err)
	}
	return out
}

func RenderElementToBuilder(el *Element, sb *strings.Builder) error {
	tag := template.HTMLEscapeString(el.Tag)
	if tag == "" {
		return fmt.Errorf("element has no tag")
	}

	sb.WriteString("<")
	sb.WriteString(tag)

	attrs := combineIntoDangerousAttributes(el)
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		sb.WriteString(" ")
		sb.WriteString(key)
		sb.WriteString(`="`)
		sb.WriteString(attrs[key])
		sb.WriteString(`"`)
	}
	for _, b := range el.BooleanAttributes {
		sb.WriteString(" ")
		sb.WriteString(template.HTMLEscapeString(b))
	}

	if slices.Contains(selfClosingTags, tag) || el.SelfClosing {
		sb.WriteString(" />")
		return nil
	}

	sb.WriteString(">")
	switch {
	case el.DangerousInnerHTML != "":
		sb.WriteString(string(el.DangerousInnerHTML))
	case el.TextContent != "":
		sb.WriteString(template.HTMLEscapeString(el.TextContent))
	}
	for _, child := range el.Children {
		if err := RenderElementToBuilder(child, sb); err != nil {
			return fmt.Errorf("child of <%s>: %w", tag, err)
		}
	}
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteString(">")
	return nil
}

func combineIntoDangerousAttributes(el *Element) map[string]string {
	attributes := make(map[string]string, len(el.Attributes)+len(el.AttributesDangerousVals))
	for k, v := range el.Attributes {
		attributes[template.HTMLEscapeString(k)] = template.HTMLEscapeString(v)
	}
	for k, v := range el.AttributesDangerousVals {
		attributes[template.HTMLEscapeString(k)] = v
	}
	return attributes
}
