package view

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/golang/geo/r2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/atlas/engine"
	"github.com/spektr-org/atlas/interaction"
	"github.com/spektr-org/atlas/render"
	"github.com/spektr-org/atlas/scale"
)

// ScatterStyle configures the scatterplot.
type ScatterStyle struct {
	Fill         drawing.Color
	Opacity      float64
	Radius       float64
	HoverStroke  drawing.Color
	HoverWidth   float64
	YFloor       float64 // y domain starts at min(YFloor, smallest y)
	XFallbackMax float64 // x domain is [0, max(x)] or [0, XFallbackMax]
	YFallbackMax float64
	Ticks        int
	Axis         AxisStyle
}

type scatterPoint struct {
	entity string
	x, y   float64
}

// Scatter plots one point per record with both an x and a y value.
type Scatter struct {
	name  string
	frame Frame
	style ScatterStyle

	mu      sync.RWMutex
	surface *render.Surface
	xSeries Series
	ySeries Series
	points  []scatterPoint
}

// NewScatter creates a scatterplot view with its own surface.
func NewScatter(name string, frame Frame, style ScatterStyle) *Scatter {
	if style.Ticks <= 0 {
		style.Ticks = 10
	}
	return &Scatter{
		name:    name,
		frame:   frame,
		style:   style,
		surface: render.NewSurface(frame.Width, frame.Height),
	}
}

// Name returns the view name.
func (sc *Scatter) Name() string { return sc.name }

// Surface implements interaction.Target.
func (sc *Scatter) Surface() *render.Surface { return sc.surface }

// Points returns how many points the last draw plotted.
func (sc *Scatter) Points() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.points)
}

// Draw clears the surface and plots xs against ys. Records missing either
// value are skipped. The returned spec carries the x domain.
func (sc *Scatter) Draw(view engine.RecordView, xs, ys Series) scale.Spec {
	complete := engine.Where(view, func(v engine.RecordView, i int) bool {
		return !engine.Missing(v.Measure(i, string(xs.Metric))) && !engine.Missing(v.Measure(i, string(ys.Metric)))
	})
	points := make([]scatterPoint, 0, complete.Len())
	for i := 0; i < complete.Len(); i++ {
		points = append(points, scatterPoint{
			entity: complete.Dimension(i, engine.DimEntity),
			x:      complete.Measure(i, string(xs.Metric)),
			y:      complete.Measure(i, string(ys.Metric)),
		})
	}

	// an all-zero column falls back the same way an empty one does
	maxX, ok := engine.MaxMeasure(complete, xs.Metric)
	if !ok || maxX == 0 {
		maxX = sc.style.XFallbackMax
	}
	maxY, ok := engine.MaxMeasure(complete, ys.Metric)
	if !ok || maxY == 0 {
		maxY = sc.style.YFallbackMax
	}
	yLo := sc.style.YFloor
	if minY, ok := engine.MinMeasure(complete, ys.Metric); ok {
		yLo = math.Min(yLo, minY)
	}

	sc.mu.Lock()
	sc.xSeries, sc.ySeries = xs, ys
	sc.points = points
	sc.mu.Unlock()

	s := sc.surface
	s.Clear()
	plot := sc.frame.Plot()
	x := scale.NewLinear(axisDomain(scale.NewDomain(0, maxX)), plot.X.Lo, plot.X.Hi).Nice(sc.style.Ticks)
	y := scale.NewLinear(axisDomain(scale.NewDomain(yLo, maxY)), plot.Y.Hi, plot.Y.Lo).Nice(sc.style.Ticks)

	for i, p := range points {
		s.Add(render.Element{
			Key:    pointKey(i),
			Kind:   render.KindCircle,
			Center: r2.Point{X: x.Map(p.x), Y: y.Map(p.y)},
			Radius: sc.style.Radius,
			Style:  render.Style{Fill: sc.style.Fill, Opacity: sc.style.Opacity},
		})
	}

	ax := sc.style.Axis
	bottomAxis(s, x, x.Ticks(sc.style.Ticks), plot.Y.Hi, ax)
	leftAxis(s, y, y.Ticks(sc.style.Ticks), plot.X.Lo, ax)
	caption(s, xs.Axis, r2.Point{X: (plot.X.Lo + plot.X.Hi) / 2, Y: plot.Y.Hi + 40}, render.AnchorMiddle, ax)
	caption(s, ys.Axis, r2.Point{X: plot.X.Lo - 40, Y: plot.Y.Lo - 10}, render.AnchorStart, ax)

	return scale.Spec{Domain: x.Domain, Kind: scale.KindLinear}
}

// HoverContent implements interaction.Target: entity, x value, y value.
func (sc *Scatter) HoverContent(key string) (interaction.Content, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	i, ok := parsePointKey(key)
	if !ok || i >= len(sc.points) {
		return interaction.Content{}, false
	}
	p := sc.points[i]
	return interaction.Content{
		Title: p.entity,
		Lines: []string{
			fmt.Sprintf("%s: %s", sc.xSeries.Name, sc.xSeries.value(p.x)),
			fmt.Sprintf("%s: %s", sc.ySeries.Name, sc.ySeries.value(p.y)),
		},
	}, true
}

// Highlight implements interaction.Target with a dark outline.
func (sc *Scatter) Highlight(key string, on bool) {
	e, ok := sc.surface.Lookup(key)
	if !ok {
		return
	}
	st := e.Style
	if on {
		st.Stroke = sc.style.HoverStroke
		st.StrokeWidth = sc.style.HoverWidth
	} else {
		st.Stroke = drawing.Color{}
		st.StrokeWidth = 0
	}
	sc.surface.Restyle(key, st)
}

func pointKey(i int) string { return "pt-" + strconv.Itoa(i) }

func parsePointKey(key string) (int, bool) {
	if len(key) < 4 || key[:3] != "pt-" {
		return 0, false
	}
	i, err := strconv.Atoi(key[3:])
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
