// Package interaction owns transient hover state: which element of a view
// the pointer is over and the pooled tooltip that describes it.
//
// Every view shares one Handler implementation. Views only expose a Target
// (their surface, hover texts and a highlight switch); the Controller hit-tests
// pointer positions against the surface and turns them into
// enter/move/leave transitions.
package interaction

import (
	"strings"
	"sync"

	"github.com/golang/geo/r2"
)

// Offset is the tooltip anchor relative to the pointer: right and above.
var Offset = r2.Point{X: 10, Y: -28}

// Content is the text a tooltip shows: a bold title and detail lines.
type Content struct {
	Title string
	Lines []string
}

// String joins the title and lines with newlines.
func (c Content) String() string {
	parts := make([]string, 0, len(c.Lines)+1)
	if c.Title != "" {
		parts = append(parts, c.Title)
	}
	parts = append(parts, c.Lines...)
	return strings.Join(parts, "\n")
}

// IsEmpty reports whether there is nothing to show.
func (c Content) IsEmpty() bool {
	return c.Title == "" && len(c.Lines) == 0
}

// Tooltip is the single floating label of one view. It is created once and
// reused: Show/Move/Hide change its state, they never allocate a new one.
type Tooltip struct {
	mu      sync.RWMutex
	view    string
	visible bool
	content Content
	anchor  r2.Point
	shows   int
}

func newTooltip(view string) *Tooltip {
	return &Tooltip{view: view}
}

// View returns the name of the view the tooltip belongs to.
func (t *Tooltip) View() string { return t.view }

// Show makes the tooltip visible with content, anchored next to pointer.
func (t *Tooltip) Show(content Content, pointer r2.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.content = content
	t.anchor = pointer.Add(Offset)
	t.visible = true
	t.shows++
}

// Move re-anchors a visible tooltip. A hidden tooltip stays hidden.
func (t *Tooltip) Move(pointer r2.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.visible {
		return
	}
	t.anchor = pointer.Add(Offset)
}

// Hide hides the tooltip. Safe to call repeatedly and before any Show.
func (t *Tooltip) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = false
	t.content = Content{}
}

// Visible reports whether the tooltip is shown.
func (t *Tooltip) Visible() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.visible
}

// Content returns what the tooltip currently shows (empty when hidden).
func (t *Tooltip) Content() Content {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.content
}

// Anchor returns the top-left position of the tooltip in surface pixels.
func (t *Tooltip) Anchor() r2.Point {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.anchor
}

// Shows counts Show calls over the tooltip's lifetime.
func (t *Tooltip) Shows() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.shows
}
