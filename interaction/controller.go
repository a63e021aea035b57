package interaction

import (
	"sync"

	"github.com/golang/geo/r2"

	"github.com/spektr-org/atlas/render"
)

// ============================================================================
// HOVER CAPABILITY
// ============================================================================

// HoverState is the transient hover of one view. The zero value means
// nothing is hovered.
type HoverState struct {
	ActiveKey string
	Pointer   r2.Point
	Active    bool
}

// Handler receives hover transitions. One implementation serves every view.
type Handler interface {
	OnHoverEnter(key string, p r2.Point)
	OnHoverMove(p r2.Point)
	OnHoverLeave()
}

// Target is what a view exposes to the interaction layer.
type Target interface {
	// Surface is hit-tested to find the element under the pointer.
	Surface() *render.Surface
	// HoverContent describes a keyed element. ok is false for unknown keys.
	HoverContent(key string) (Content, bool)
	// Highlight switches the hover visual of a keyed element.
	Highlight(key string, on bool)
}

// binding ties a view's current target to its pooled tooltip and hover
// state. It is the shared Handler implementation.
type binding struct {
	target  Target
	tooltip *Tooltip
	state   HoverState
}

func (b *binding) OnHoverEnter(key string, p r2.Point) {
	if b.state.Active {
		b.OnHoverLeave()
	}
	content, ok := b.target.HoverContent(key)
	if !ok {
		return
	}
	b.state = HoverState{ActiveKey: key, Pointer: p, Active: true}
	b.target.Highlight(key, true)
	b.tooltip.Show(content, p)
}

func (b *binding) OnHoverMove(p r2.Point) {
	if !b.state.Active {
		return
	}
	b.state.Pointer = p
	b.tooltip.Move(p)
}

func (b *binding) OnHoverLeave() {
	if b.state.Active {
		b.target.Highlight(b.state.ActiveKey, false)
	}
	b.state = HoverState{}
	b.tooltip.Hide()
}

// ============================================================================
// CONTROLLER
// ============================================================================

// Controller routes pointer positions to per-view bindings. Safe for use
// from the UI goroutine and the redraw goroutine at once.
type Controller struct {
	mu       sync.Mutex
	bindings map[string]*binding
	order    []string
}

// NewController creates an empty controller.
func NewController() *Controller {
	return &Controller{bindings: make(map[string]*binding)}
}

// Attach binds target to view after a redraw. The view's tooltip is created
// on the first attach and reused afterwards; every attach clears the hover
// state and hides the tooltip.
func (c *Controller) Attach(view string, target Target) Handler {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bindings[view]
	if !ok {
		b = &binding{tooltip: newTooltip(view)}
		c.bindings[view] = b
		c.order = append(c.order, view)
	}
	// a pointer event between the view's draw and this attach may already
	// have highlighted an element of the new surface
	if b.state.Active {
		target.Highlight(b.state.ActiveKey, false)
	}
	b.target = target
	b.state = HoverState{}
	b.tooltip.Hide()
	return b
}

// Pointer dispatches a pointer position over view. It returns the resulting
// hover state; unknown views report the zero state.
func (c *Controller) Pointer(view string, p r2.Point) HoverState {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bindings[view]
	if !ok || b.target == nil {
		return HoverState{}
	}
	hit, found := b.target.Surface().HitTest(p)
	switch {
	case !found:
		if b.state.Active {
			b.OnHoverLeave()
		}
	case b.state.Active && b.state.ActiveKey == hit.Key:
		b.OnHoverMove(p)
	default:
		b.OnHoverEnter(hit.Key, p)
	}
	return b.state
}

// Leave clears the hover of view, as when the pointer exits its canvas.
func (c *Controller) Leave(view string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.bindings[view]; ok {
		b.OnHoverLeave()
	}
}

// Tooltip returns the pooled tooltip of view, nil before the first attach.
func (c *Controller) Tooltip(view string) *Tooltip {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.bindings[view]; ok {
		return b.tooltip
	}
	return nil
}

// State returns the hover state of view.
func (c *Controller) State(view string) HoverState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.bindings[view]; ok {
		return b.state
	}
	return HoverState{}
}

// Views returns the attached view names in first-attach order.
func (c *Controller) Views() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
