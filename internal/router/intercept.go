package router

import (
	"net/url"
	"strings"
)

// Click describes a click on an anchor as reported by the client.
type Click struct {
	Href     string `json:"href"`
	Button   int    `json:"button"`
	Ctrl     bool   `json:"ctrl"`
	Shift    bool   `json:"shift"`
	Alt      bool   `json:"alt"`
	Meta     bool   `json:"meta"`
	Target   string `json:"target"`
	Download bool   `json:"download"`
	// The anchor carries data-folio-pass and wants a normal page load.
	Pass bool `json:"pass"`
}

// Intercept decides whether a click should become an in-app navigation. It
// returns the path (with query) to navigate to when the anchor points at
// origin and the click is a plain primary-button click. Paths under any of
// passPrefixes are left to the browser.
func Intercept(c Click, origin *url.URL, passPrefixes ...string) (string, bool) {
	if c.Href == "" || c.Ctrl || c.Shift || c.Alt || c.Meta || c.Button != 0 ||
		c.Target == "_blank" || c.Download || c.Pass {
		return "", false
	}
	ref, err := url.Parse(c.Href)
	if err != nil {
		return "", false
	}
	u := origin.ResolveReference(ref)
	if u.Scheme != origin.Scheme || u.Host != origin.Host {
		return "", false
	}
	for _, prefix := range passPrefixes {
		if strings.HasPrefix(u.Path, prefix) {
			return "", false
		}
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path, true
}
