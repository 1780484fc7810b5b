package frontmatter

import "fmt"

// Document is a parsed metadata block. Values are string, bool, float64,
// []any or Document.
//
// Accessors never fail: a missing key or a value of another shape yields the
// zero value, mirroring how the parser itself degrades.
type Document map[string]any

func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns string values as-is and formats numbers and bools, since
// "2024" and "true" in a title are coerced before anyone asks for a string.
func (d Document) String(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprint(v)
	case bool:
		return fmt.Sprint(v)
	}
	return ""
}

func (d Document) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

func (d Document) Number(key string) float64 {
	n, _ := d[key].(float64)
	return n
}

func (d Document) Int(key string) int {
	return int(d.Number(key))
}

// Strings returns the string items of a sequence or inline array. A lone
// scalar is returned as a one-item slice.
func (d Document) Strings(key string) []string {
	switch v := d[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case float64, bool:
				out = append(out, fmt.Sprint(s))
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

func (d Document) Map(key string) Document {
	if m, ok := d[key].(Document); ok {
		return m
	}
	return Document{}
}

// Maps returns the mapping items of a sequence, skipping scalar items.
func (d Document) Maps(key string) []Document {
	items, ok := d[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Document, 0, len(items))
	for _, item := range items {
		if m, ok := item.(Document); ok {
			out = append(out, m)
		}
	}
	return out
}
