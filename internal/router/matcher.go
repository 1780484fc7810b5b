package router

import (
	"fmt"
	"regexp"
)

type Params map[string]string

// Matcher decides whether a route applies to a path and extracts its
// parameters.
type Matcher interface {
	Match(path string) (Params, bool)
	String() string
}

type exact string

// Exact matches one literal path.
func Exact(path string) Matcher { return exact(path) }

func (e exact) Match(path string) (Params, bool) {
	if path != string(e) {
		return nil, false
	}
	return Params{}, true
}

func (e exact) String() string { return string(e) }

type capture struct {
	re    *regexp.Regexp
	param string
}

// Capture matches paths against a regular expression with exactly one
// capture group, stored under param. It panics if expr does not compile or
// has another number of groups.
func Capture(expr, param string) Matcher {
	re := regexp.MustCompile(expr)
	if re.NumSubexp() != 1 {
		panic(fmt.Sprintf("router: %q must have exactly one capture group", expr))
	}
	return &capture{re: re, param: param}
}

func (c *capture) Match(path string) (Params, bool) {
	m := c.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	return Params{c.param: m[1]}, true
}

func (c *capture) String() string { return c.re.String() }
