// Package frontmatter parses the restricted YAML-like metadata block that may
// open a markdown document:
//
//	---
//	title:
//	  text: "Hello"
//	tags: [go, web]
//	links:
//	  - text: "Source"
//	    url: "https://example.com"
//	draft: false
//	---
//	Body text
//
// Only keyed scalars, inline arrays, dash sequences and indented mappings are
// understood. Parsing never fails: lines that fit none of those shapes are
// skipped, and a document without a leading block yields empty metadata and
// the whole input as its body.
package frontmatter

import (
	"maps"
	"regexp"
	"strings"
	"unicode"
)

// The closing delimiter must be followed by a newline.
var blockRe = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n(.*)$`)

type Result struct {
	Metadata Document
	Body     string
}

// Split reports the raw metadata block and the body. If the document does not
// open with a delimited block, ok is false and body is the whole input.
func Split(markdown string) (block, body string, ok bool) {
	m := blockRe.FindStringSubmatch(markdown)
	if m == nil {
		return "", markdown, false
	}
	return m[1], m[2], true
}

func Parse(markdown string) Result {
	block, body, ok := Split(markdown)
	if !ok {
		return Result{Metadata: Document{}, Body: markdown}
	}
	return Result{Metadata: ParseBlock(block), Body: body}
}

func ParseBytes(markdown []byte) Result {
	return Parse(string(markdown))
}

// ParseBlock parses the text between the delimiters. Only lines at
// indentation zero are read as top-level keys.
func ParseBlock(block string) Document {
	p := &parser{lines: strings.Split(block, "\n")}
	doc, _ := p.mapping(0, 0)
	return doc
}

type parser struct {
	lines []string
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// nextContent returns the index of the first non-blank line at or after i,
// or -1.
func (p *parser) nextContent(i int) int {
	for ; i < len(p.lines); i++ {
		if !isBlank(p.lines[i]) {
			return i
		}
	}
	return -1
}

// mapping reads "key: value" lines at exactly base indentation, starting at
// line i. It stops at the first line indented less than base and returns the
// index of that line.
func (p *parser) mapping(i, base int) (Document, int) {
	doc := Document{}
	for i < len(p.lines) {
		line := p.lines[i]
		if isBlank(line) {
			i++
			continue
		}
		indent := indentOf(line)
		if indent < base {
			break
		}
		trimmed := strings.TrimSpace(line)
		if indent > base || !strings.Contains(trimmed, ":") {
			i++
			continue
		}

		key, value := splitPair(trimmed)
		if value != "" {
			doc[key] = Coerce(value)
			i++
			continue
		}

		child, next, ok := p.childBlock(i+1, indent)
		if ok {
			doc[key] = child
		}
		i = next
	}
	return doc, i
}

// childBlock parses the block owned by a key with an empty value. The block
// starts at the next non-blank line after the key. A sequence may sit at the
// key's own indentation; a mapping must be indented further.
func (p *parser) childBlock(i, parentIndent int) (any, int, bool) {
	j := p.nextContent(i)
	if j < 0 {
		return nil, len(p.lines), false
	}
	indent := indentOf(p.lines[j])
	trimmed := strings.TrimSpace(p.lines[j])

	switch {
	case strings.HasPrefix(trimmed, "-") && indent >= parentIndent:
		return p.sequence(j, indent)
	case strings.Contains(trimmed, ":") && indent > parentIndent:
		doc, next := p.mapping(j, indent)
		return doc, next, true
	}
	return nil, i, false
}

// sequence reads dash items at exactly base indentation. A non-dash line at
// base indentation, or any line indented less, ends the sequence.
func (p *parser) sequence(i, base int) ([]any, int, bool) {
	items := []any{}
	for i < len(p.lines) {
		line := p.lines[i]
		if isBlank(line) {
			i++
			continue
		}
		indent := indentOf(line)
		if indent < base {
			break
		}
		if indent > base {
			i++
			continue
		}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "-") {
			break
		}

		var item any
		item, i = p.item(i, indent, strings.TrimSpace(trimmed[1:]))
		items = append(items, item)
	}
	return items, i, true
}

// item parses one sequence entry whose dash sits on line i. It is a mapping
// when the line right after the dash is indented past it and holds a colon;
// an inline "key: value" after the dash then becomes its first entry. A bare
// dash followed by an indented line is the mapping read from that line.
// Anything else is a scalar.
func (p *parser) item(i, dashIndent int, text string) (any, int) {
	if i+1 >= len(p.lines) {
		return Coerce(text), i + 1
	}
	next := p.lines[i+1]
	nextIndent := indentOf(next)

	switch {
	case nextIndent > dashIndent && strings.Contains(next, ":"):
		doc := Document{}
		if isMappingEntry(text) {
			key, value := splitPair(text)
			doc[key] = Coerce(value)
		}
		rest, end := p.mapping(i+1, nextIndent)
		maps.Copy(doc, rest)
		return doc, end
	case text == "" && nextIndent > dashIndent:
		doc, end := p.mapping(i+1, nextIndent)
		return doc, end
	}
	return Coerce(text), i + 1
}

// splitPair splits on the first colon and trims both sides.
func splitPair(s string) (key, value string) {
	idx := strings.IndexByte(s, ':')
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:])
}

// isMappingEntry reports whether the text after a dash reads as "key: value"
// or "key:". A colon inside a quoted scalar or a URL does not count.
func isMappingEntry(s string) bool {
	if s == "" || s[0] == '"' || s[0] == '\'' || s[0] == '[' {
		return false
	}
	idx := strings.IndexByte(s, ':')
	if idx <= 0 {
		return false
	}
	return idx == len(s)-1 || s[idx+1] == ' ' || s[idx+1] == '\t'
}
