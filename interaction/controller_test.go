package interaction

import (
	"testing"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/atlas/render"
)

type fakeTarget struct {
	surface     *render.Surface
	highlighted map[string]bool
	calls       []string
}

func newFakeTarget() *fakeTarget {
	s := render.NewSurface(100, 100)
	s.Add(render.Element{Key: "a", Kind: render.KindRect, Rect: r2.Rect{X: r1.Interval{Lo: 0, Hi: 40}, Y: r1.Interval{Lo: 0, Hi: 40}}})
	s.Add(render.Element{Key: "b", Kind: render.KindRect, Rect: r2.Rect{X: r1.Interval{Lo: 50, Hi: 90}, Y: r1.Interval{Lo: 0, Hi: 40}}})
	return &fakeTarget{surface: s, highlighted: map[string]bool{}}
}

func (f *fakeTarget) Surface() *render.Surface { return f.surface }

func (f *fakeTarget) HoverContent(key string) (Content, bool) {
	if key != "a" && key != "b" {
		return Content{}, false
	}
	return Content{Title: "item " + key, Lines: []string{"value: 1.00"}}, true
}

func (f *fakeTarget) Highlight(key string, on bool) {
	f.highlighted[key] = on
	if on {
		f.calls = append(f.calls, "on:"+key)
	} else {
		f.calls = append(f.calls, "off:"+key)
	}
}

func TestTooltipHideIsIdempotent(t *testing.T) {
	tt := newTooltip("v")
	tt.Hide()
	tt.Hide()
	assert.False(t, tt.Visible())

	tt.Show(Content{Title: "x"}, r2.Point{X: 5, Y: 50})
	assert.True(t, tt.Visible())
	assert.Equal(t, r2.Point{X: 15, Y: 22}, tt.Anchor())

	tt.Hide()
	tt.Hide()
	assert.False(t, tt.Visible())
	assert.True(t, tt.Content().IsEmpty())
}

func TestTooltipMoveWhileHidden(t *testing.T) {
	tt := newTooltip("v")
	tt.Move(r2.Point{X: 1, Y: 1})
	assert.False(t, tt.Visible())
	assert.Equal(t, r2.Point{}, tt.Anchor())
}

func TestContentString(t *testing.T) {
	c := Content{Title: "Albania", Lines: []string{"a: 1", "b: 2"}}
	assert.Equal(t, "Albania\na: 1\nb: 2", c.String())
	assert.Equal(t, "", Content{}.String())
}

func TestPointerTransitions(t *testing.T) {
	c := NewController()
	target := newFakeTarget()
	c.Attach("hist", target)

	st := c.Pointer("hist", r2.Point{X: 10, Y: 10})
	require.True(t, st.Active)
	assert.Equal(t, "a", st.ActiveKey)
	tip := c.Tooltip("hist")
	require.NotNil(t, tip)
	assert.True(t, tip.Visible())
	assert.Equal(t, "item a", tip.Content().Title)

	st = c.Pointer("hist", r2.Point{X: 20, Y: 12})
	assert.Equal(t, "a", st.ActiveKey)
	assert.Equal(t, r2.Point{X: 30, Y: -16}, tip.Anchor())
	assert.Equal(t, 1, tip.Shows(), "moving inside one element must not re-show")

	st = c.Pointer("hist", r2.Point{X: 60, Y: 10})
	assert.Equal(t, "b", st.ActiveKey)
	assert.Equal(t, []string{"on:a", "off:a", "on:b"}, target.calls)

	st = c.Pointer("hist", r2.Point{X: 45, Y: 80})
	assert.False(t, st.Active)
	assert.False(t, tip.Visible())
	assert.False(t, target.highlighted["b"])
}

func TestLeaveClearsState(t *testing.T) {
	c := NewController()
	target := newFakeTarget()
	c.Attach("map", target)
	c.Pointer("map", r2.Point{X: 10, Y: 10})

	c.Leave("map")
	assert.Equal(t, HoverState{}, c.State("map"))
	assert.False(t, c.Tooltip("map").Visible())
	assert.False(t, target.highlighted["a"])

	c.Leave("map")
	c.Leave("unknown")
}

func TestAttachReusesTooltipAndResets(t *testing.T) {
	c := NewController()
	c.Attach("scatter", newFakeTarget())
	first := c.Tooltip("scatter")
	c.Pointer("scatter", r2.Point{X: 10, Y: 10})
	require.True(t, first.Visible())

	for i := 0; i < 5; i++ {
		c.Attach("scatter", newFakeTarget())
	}
	assert.Same(t, first, c.Tooltip("scatter"))
	assert.False(t, first.Visible())
	assert.Equal(t, HoverState{}, c.State("scatter"))
	assert.Equal(t, []string{"scatter"}, c.Views())
}

func TestPointerUnknownView(t *testing.T) {
	c := NewController()
	assert.Equal(t, HoverState{}, c.Pointer("nope", r2.Point{}))
	assert.Nil(t, c.Tooltip("nope"))
}

func TestHandlerSharedAcrossViews(t *testing.T) {
	c := NewController()
	h1 := c.Attach("one", newFakeTarget())
	h2 := c.Attach("two", newFakeTarget())
	assert.IsType(t, h1, h2)

	h1.OnHoverEnter("b", r2.Point{X: 55, Y: 5})
	assert.Equal(t, "b", c.State("one").ActiveKey)
	assert.False(t, c.State("two").Active)

	h1.OnHoverEnter("zzz", r2.Point{})
	assert.False(t, c.State("one").Active)
}

func TestAttachClearsHighlightFromBeforeAttach(t *testing.T) {
	c := NewController()
	target := newFakeTarget()
	c.Attach("hist", target)

	// the view redraws onto the same target, the pointer lands before the
	// controller re-attaches
	c.Pointer("hist", r2.Point{X: 10, Y: 10})
	require.True(t, target.highlighted["a"])

	c.Attach("hist", target)
	assert.False(t, target.highlighted["a"])
	assert.Equal(t, []string{"on:a", "off:a"}, target.calls)
	assert.Equal(t, HoverState{}, c.State("hist"))
	assert.False(t, c.Tooltip("hist").Visible())
}
