package frontmatter

import (
	"math"
	"strconv"
	"strings"
)

// Coerce converts a raw scalar after stripping one leading and one trailing
// quote. Bracketed values become a slice of strings, "true" and "false"
// become bools, finite numbers become float64, and anything else is returned
// as a string.
func Coerce(raw string) any {
	v := stripQuotes(raw)

	if strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
		inner := v[1 : len(v)-1]
		if strings.TrimSpace(inner) == "" {
			return []any{}
		}
		parts := strings.Split(inner, ",")
		out := make([]any, 0, len(parts))
		for _, part := range parts {
			out = append(out, stripQuotes(strings.TrimSpace(part)))
		}
		return out
	}

	switch v {
	case "true":
		return true
	case "false":
		return false
	}

	if n, ok := parseNumber(v); ok {
		return n
	}
	return v
}

func stripQuotes(s string) string {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if s != "" && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}

// parseNumber accepts decimal and exponent forms plus unsigned 0x, 0o and 0b
// integers. Infinities, NaN and digit separators are rejected.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(n), true
		}
	}

	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	if strings.HasPrefix(lower, "inf") || strings.HasPrefix(lower, "nan") {
		return 0, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
