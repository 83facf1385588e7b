package render

import (
	"sync"

	"ura-xlaw/internal/format"
)

// Disclosure holds presentation-only state for relationship content: which
// excerpts are expanded and which document, if any, has its full-content
// dialog open. Keys are document ids.
type Disclosure struct {
	mu       sync.RWMutex
	expanded map[string]bool
	open     string
}

// NewDisclosure creates an empty disclosure state with everything collapsed
func NewDisclosure() *Disclosure {
	return &Disclosure{expanded: make(map[string]bool)}
}

// Toggle flips the expanded state for id and returns the new state
func (d *Disclosure) Toggle(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.expanded[id] = !d.expanded[id]
	if !d.expanded[id] {
		delete(d.expanded, id)
	}
	return d.expanded[id]
}

// IsExpanded reports whether the content for id is shown in full
func (d *Disclosure) IsExpanded(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.expanded[id]
}

// Excerpt returns content as it should currently be shown for id and whether
// a "show more"/"show less" toggle applies at all.
func (d *Disclosure) Excerpt(id, content string) (text string, toggle bool) {
	short := format.Excerpt(content, format.ExcerptLength)
	if short == content || content == "" {
		return short, false
	}
	if d.IsExpanded(id) {
		return content, true
	}
	return short, true
}

// Open shows the full-content dialog for id, closing any other
func (d *Disclosure) Open(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = id
}

// Close hides the dialog
func (d *Disclosure) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = ""
}

// OpenID returns the document id whose dialog is open, or ""
func (d *Disclosure) OpenID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.open
}

// Reset collapses everything and closes the dialog
func (d *Disclosure) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.expanded = make(map[string]bool)
	d.open = ""
}
