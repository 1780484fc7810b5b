// Package document renders a session snapshot as a full HTML document.
package document

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/river-now/folio/internal/seo"
	"github.com/river-now/folio/internal/session"
	"github.com/river-now/folio/kit/headels"
	"github.com/river-now/folio/kit/htmlutil"
)

const (
	HighlightCSSPath = "/__folio/highlight.css"
	LivePath         = "/__folio/live"
	// SessionMeta names the meta tag that tells the navigation client which
	// session this document belongs to.
	SessionMeta = "folio-session"
	RoutePath        = "/__folio/route"
	UploadPath       = "/__folio/drawbook/upload"
)

//go:embed document.html client.js
var files embed.FS

var (
	tmpl     = template.Must(template.ParseFS(files, "document.html"))
	clientJS = mustRead("client.js")
)

func mustRead(name string) string {
	b, err := files.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

type Options struct {
	Site seo.Site
	// Live embeds the navigation client, which needs the live endpoint.
	Live bool
}

type view struct {
	Head template.HTML
	session.Snapshot
}

// Render writes the document for snap. With o.Live it returns the nonce of
// the inline client script, which the caller must allow in its
// Content-Security-Policy.
func Render(w io.Writer, snap session.Snapshot, o Options) (nonce string, err error) {
	head := new(headels.Head).
		Title(snap.Title).
		Description(o.Site.Tagline).
		Meta("viewport", "width=device-width, initial-scale=1").
		Property("og:title", snap.Title).
		Property("og:site_name", o.Site.Name).
		Link("stylesheet", HighlightCSSPath)
	if o.Site.Icon != "" {
		head.Link("icon", htmlutil.EmojiIconURL(o.Site.Icon))
	}

	if o.Live {
		head.Meta(SessionMeta, snap.Session)
		script := &htmlutil.Element{
			Tag:                "script",
			DangerousInnerHTML: template.HTML(clientJS),
		}
		if nonce, err = htmlutil.AddNonce(script, 0); err != nil {
			return "", err
		}
		head.Add(script)
	}

	rendered, err := head.Render()
	if err != nil {
		return "", err
	}
	if err := tmpl.Execute(w, view{Head: rendered, Snapshot: snap}); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return nonce, nil
}

// CSP returns the Content-Security-Policy for a document rendered with
// nonce. An empty nonce allows no scripts.
func CSP(nonce string) string {
	script := "'none'"
	if nonce != "" {
		script = "'nonce-" + nonce + "'"
	}
	return strings.Join([]string{
		"default-src 'self'",
		"script-src " + script,
		"style-src 'self' 'unsafe-inline' https:",
		"img-src 'self' https: data: blob:",
		"font-src 'self' https: data:",
		"connect-src 'self' ws: wss:",
		"form-action 'self' https:",
		"frame-ancestors 'none'",
		"base-uri 'self'",
	}, "; ")
}
