package page

import (
	"html/template"
	"sync"
)

// Element is the node a page is bound to. The controller toggles it through
// the page's Show and Hide; the page fills in its heading and markup. Readers
// may snapshot it from any goroutine.
type Element struct {
	mu      sync.RWMutex
	name    string
	active  bool
	heading string
	html    template.HTML
}

func NewElement(name string) *Element {
	return &Element{name: name}
}

type ElementSnapshot struct {
	Name    string        `json:"name"`
	Active  bool          `json:"active"`
	Heading string        `json:"heading"`
	HTML    template.HTML `json:"html"`
}

func (e *Element) Name() string { return e.name }

func (e *Element) Active() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

func (e *Element) SetActive(active bool) {
	e.mu.Lock()
	e.active = active
	e.mu.Unlock()
}

func (e *Element) SetHeading(heading string) {
	e.mu.Lock()
	e.heading = heading
	e.mu.Unlock()
}

func (e *Element) SetHTML(html template.HTML) {
	e.mu.Lock()
	e.html = html
	e.mu.Unlock()
}

// Set replaces heading and markup together.
func (e *Element) Set(heading string, html template.HTML) {
	e.mu.Lock()
	e.heading, e.html = heading, html
	e.mu.Unlock()
}

func (e *Element) Snapshot() ElementSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ElementSnapshot{Name: e.name, Active: e.active, Heading: e.heading, HTML: e.html}
}
