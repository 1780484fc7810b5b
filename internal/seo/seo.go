// Package seo derives the document title, breadcrumbs and navigation state
// from a route change.
package seo

import (
	"html"
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultSiteName = "Hilmi Abroor"
	DefaultTagline  = "Full stack developer"
	DefaultIcon     = "✏️"
)

var pageNames = map[string]string{
	"/about":     "About",
	"/blogs":     "Blogs",
	"/projects":  "Projects",
	"/guestbook": "Guestbook",
	"/drawbook":  "Drawbook",
}

type Site struct {
	Name    string
	Tagline string
	// Emoji drawn as the favicon. Empty means no icon.
	Icon string
}

func Default() Site {
	return Site{Name: DefaultSiteName, Tagline: DefaultTagline, Icon: DefaultIcon}
}

// Title returns the document title for a path. Slug routes are titled after
// the slug with dashes read as spaces.
func (s Site) Title(path string, params map[string]string) string {
	if path == "/" {
		return s.Name + " | " + s.Tagline
	}
	if slug := params["slug"]; slug != "" {
		return capitalize(strings.ReplaceAll(slug, "-", " ")) + " | " + s.Name
	}
	if name, ok := pageNames[path]; ok {
		return name + " | " + s.Name
	}
	return "404 | " + s.Name
}

func capitalize(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size > 0 {
			words[i] = string(unicode.ToUpper(r)) + w[size:]
		}
	}
	return strings.Join(words, " ")
}

// Breadcrumbs renders the shell-prompt style trail shown above the content,
// e.g. "~/blogs/" or "~/<a>blogs</a>/my-post/".
func Breadcrumbs(path string, params map[string]string) template.HTML {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, html.EscapeString(p))
		}
	}

	var sb strings.Builder
	sb.WriteString(`<a href="/" class="breadcrumb-tilde breadcrumb-link">~</a>`)
	switch {
	case len(parts) == 0:
		sb.WriteString("/")
	case len(parts) == 1:
		sb.WriteString("/" + parts[0] + "/")
	case len(parts) == 2 && params["slug"] != "":
		sb.WriteString(`/<a href="/` + parts[0] + `" class="breadcrumb-link">` + parts[0] + `</a>/`)
		sb.WriteString(html.EscapeString(params["slug"]) + "/")
	default:
		sb.WriteString("/")
		for i, part := range parts {
			if i < len(parts)-1 {
				sb.WriteString(`<a href="/` + strings.Join(parts[:i+1], "/") + `" class="breadcrumb-link">` + part + `</a>/`)
				continue
			}
			sb.WriteString(part + "/")
		}
	}
	sb.WriteString(`<span class="blocked-caret"></span>`)
	return template.HTML(sb.String())
}

type NavLink struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

var navLinks = []NavLink{
	{Label: "home", Href: "/"},
	{Label: "about", Href: "/about"},
	{Label: "blogs", Href: "/blogs"},
	{Label: "projects", Href: "/projects"},
	{Label: "guestbook", Href: "/guestbook"},
	{Label: "drawbook", Href: "/drawbook"},
}

// NavLinks returns the navigation with the link whose href equals path
// marked active.
func NavLinks(path string) []NavLink {
	out := make([]NavLink, len(navLinks))
	for i, l := range navLinks {
		l.Active = l.Href == path
		out[i] = l
	}
	return out
}
