// Package page defines the page lifecycle and the controller that moves a
// session from one active page to the next.
package page

import "context"

// Options are handed to BeforeShow. Params holds route captures such as
// "slug"; Data is free for callers.
type Options struct {
	Params map[string]string
	Data   any
}

// Param returns a route parameter, or "" when opts or the key is missing.
func (o *Options) Param(key string) string {
	if o == nil {
		return ""
	}
	return o.Params[key]
}

// Page is one view of the site. The controller calls, in order:
//
//	BeforeHide, Hide, AfterHide   on the page being left
//	BeforeShow, Show, AfterShow   on the page being entered
//
// Hooks receive the context of the activation that runs them; it is canceled
// once a newer activation starts.
type Page interface {
	Name() string
	Pattern() string
	Element() *Element
	BeforeShow(ctx context.Context, opts *Options) error
	Show()
	AfterShow(ctx context.Context) error
	BeforeHide(ctx context.Context) error
	Hide()
	AfterHide(ctx context.Context) error
}

// Base implements Page with no-op hooks. Embed it and override what the page
// needs.
type Base struct {
	name    string
	pattern string
	el      *Element
}

func NewBase(name, pattern string) Base {
	return Base{name: name, pattern: pattern, el: NewElement(name)}
}

func (b *Base) Name() string      { return b.name }
func (b *Base) Pattern() string   { return b.pattern }
func (b *Base) Element() *Element { return b.el }

func (b *Base) Show() { b.el.SetActive(true) }
func (b *Base) Hide() { b.el.SetActive(false) }

func (b *Base) BeforeShow(context.Context, *Options) error { return nil }
func (b *Base) AfterShow(context.Context) error            { return nil }
func (b *Base) BeforeHide(context.Context) error           { return nil }
func (b *Base) AfterHide(context.Context) error            { return nil }
