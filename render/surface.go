// Package render holds the drawing surfaces views paint into.
//
// A Surface is a small retained scene: an ordered list of elements (rects,
// circles, polygons, lines, text), each optionally tagged with a hover key.
// Views clear and refill it on every redraw; the interaction layer hit-tests
// it; Paint and Export hand it to a go-chart renderer for SVG/PNG output.
package render

import (
	"sync"

	"github.com/golang/geo/r2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Kind is the primitive an Element draws.
type Kind int

const (
	KindRect Kind = iota
	KindCircle
	KindPath
	KindLine
	KindText
)

// Anchor aligns text horizontally around its position.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Style is the paint applied to an element. A zero-alpha colour is not drawn.
type Style struct {
	Fill        drawing.Color
	Stroke      drawing.Color
	StrokeWidth float64
	Opacity     float64 // 0 means opaque
	FontSize    float64
	FontColor   drawing.Color
	Anchor      Anchor
	Rotation    float64 // text rotation, degrees
}

// Element is one primitive on a surface. Key is the hover identity; elements
// with an empty key are decoration and never hit.
type Element struct {
	Key   string
	Kind  Kind
	Style Style

	Rect   r2.Rect     // KindRect
	Center r2.Point    // KindCircle
	Radius float64     // KindCircle
	Rings  [][]r2.Point // KindPath, each ring implicitly closed
	From   r2.Point    // KindLine
	To     r2.Point    // KindLine
	At     r2.Point    // KindText baseline anchor
	Text   string      // KindText
}

// Bounds returns the element's bounding rectangle.
func (e Element) Bounds() r2.Rect {
	switch e.Kind {
	case KindRect:
		return e.Rect
	case KindCircle:
		return r2.RectFromCenterSize(e.Center, r2.Point{X: 2 * e.Radius, Y: 2 * e.Radius})
	case KindPath:
		b := r2.EmptyRect()
		for _, ring := range e.Rings {
			for _, p := range ring {
				b = b.AddPoint(p)
			}
		}
		return b
	case KindLine:
		return r2.RectFromPoints(e.From, e.To)
	default:
		return r2.RectFromPoints(e.At)
	}
}

// Contains reports whether p lies inside the element's painted area.
// Lines and text are never hit.
func (e Element) Contains(p r2.Point) bool {
	switch e.Kind {
	case KindRect:
		return e.Rect.ContainsPoint(p)
	case KindCircle:
		return e.Center.Sub(p).Norm() <= e.Radius
	case KindPath:
		if !e.Bounds().ContainsPoint(p) {
			return false
		}
		return pointInRings(p, e.Rings)
	default:
		return false
	}
}

// pointInRings is the even-odd rule over every ring, so holes subtract.
func pointInRings(p r2.Point, rings [][]r2.Point) bool {
	inside := false
	for _, ring := range rings {
		n := len(ring)
		if n < 3 {
			continue
		}
		j := n - 1
		for i := 0; i < n; i++ {
			a, b := ring[i], ring[j]
			if (a.Y > p.Y) != (b.Y > p.Y) {
				x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
				if p.X < x {
					inside = !inside
				}
			}
			j = i
		}
	}
	return inside
}

// ============================================================================
// SURFACE
// ============================================================================

// Surface is a fixed-size retained scene owned by exactly one view.
// It is safe for one writer (the redraw) and concurrent readers (hover).
type Surface struct {
	mu         sync.RWMutex
	width      int
	height     int
	background drawing.Color
	elements   []Element
	byKey      map[string]int
	generation int
}

// NewSurface creates an empty surface with a white background.
func NewSurface(width, height int) *Surface {
	return &Surface{
		width:      width,
		height:     height,
		background: drawing.ColorWhite,
		byKey:      make(map[string]int),
	}
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// SetBackground sets the fill painted behind every element.
func (s *Surface) SetBackground(c drawing.Color) {
	s.mu.Lock()
	s.background = c
	s.mu.Unlock()
}

// Background returns the background fill.
func (s *Surface) Background() drawing.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

// Clear removes every element and starts a new generation.
func (s *Surface) Clear() {
	s.mu.Lock()
	s.elements = s.elements[:0]
	s.byKey = make(map[string]int)
	s.generation++
	s.mu.Unlock()
}

// Add appends an element. A repeated key replaces the lookup target but both
// elements stay painted.
func (s *Surface) Add(e Element) {
	s.mu.Lock()
	s.elements = append(s.elements, e)
	if e.Key != "" {
		s.byKey[e.Key] = len(s.elements) - 1
	}
	s.mu.Unlock()
}

// Len returns the element count.
func (s *Surface) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}

// Generation counts Clear calls.
func (s *Surface) Generation() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Elements returns a snapshot of the scene in paint order.
func (s *Surface) Elements() []Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// Keys returns the hover keys in paint order.
func (s *Surface) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for i, e := range s.elements {
		if e.Key != "" && s.byKey[e.Key] == i {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Lookup finds the element carrying key.
func (s *Surface) Lookup(key string) (Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byKey[key]
	if !ok {
		return Element{}, false
	}
	return s.elements[i], true
}

// Restyle replaces the style of the element carrying key.
func (s *Surface) Restyle(key string, st Style) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byKey[key]
	if !ok {
		return false
	}
	s.elements[i].Style = st
	return true
}

// HitTest returns the topmost keyed element containing p.
func (s *Surface) HitTest(p r2.Point) (Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.elements) - 1; i >= 0; i-- {
		e := s.elements[i]
		if e.Key == "" {
			continue
		}
		if e.Contains(p) {
			return e, true
		}
	}
	return Element{}, false
}
