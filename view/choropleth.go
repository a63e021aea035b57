package view

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"sync"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/atlas/engine"
	"github.com/spektr-org/atlas/geo"
	"github.com/spektr-org/atlas/interaction"
	"github.com/spektr-org/atlas/render"
	"github.com/spektr-org/atlas/scale"
)

// LegendStyle places and samples the colour legend.
type LegendStyle struct {
	Width  float64
	Height float64
	Stops  int     // gradient samples, 0.00 … 1.00
	Ticks  int
	Format string  // tick label format, e.g. "%.1f"
	Right  float64 // gap between legend and the right edge
	Bottom float64 // gap between legend top and the bottom edge
}

// MapStyle configures the choropleth.
type MapStyle struct {
	MissingFill     drawing.Color
	Stroke          drawing.Color
	StrokeWidth     float64
	HoverStroke     drawing.Color
	HoverWidth      float64
	ProjectionScale float64
	YOffset         float64
	Legend          LegendStyle
	Axis            AxisStyle
}

// MapLayer is what the map shows for one draw: the metric, the colour ramp
// and the domain to fall back on when no feature joins.
type MapLayer struct {
	Series   Series
	Interp   scale.Interpolator
	Fallback scale.Domain
}

type featureInfo struct {
	name   string
	value  float64
	joined bool
}

// Choropleth fills country boundaries by the active metric and draws a
// gradient legend over the same colour scale.
type Choropleth struct {
	name     string
	frame    Frame
	style    MapStyle
	features *geo.Collection
	rings    [][][]r2.Point // per feature, projected once

	mu       sync.RWMutex
	surface  *render.Surface
	series   Series
	info     []featureInfo
	colors   scale.ColorScale
	unjoined int
}

// NewChoropleth creates the map view. Boundaries are projected here, once.
func NewChoropleth(name string, frame Frame, style MapStyle, features *geo.Collection) *Choropleth {
	if style.Legend.Stops < 2 {
		style.Legend.Stops = 101
	}
	if style.Legend.Ticks <= 0 {
		style.Legend.Ticks = 6
	}
	if style.Legend.Format == "" {
		style.Legend.Format = "%.1f"
	}
	proj := geo.NewNaturalEarth1(style.ProjectionScale, frame.Width, frame.Height, style.YOffset)
	rings := make([][][]r2.Point, features.Len())
	for i, f := range features.Features {
		rings[i] = geo.ProjectRings(f, proj)
	}
	return &Choropleth{
		name:     name,
		frame:    frame,
		style:    style,
		features: features,
		rings:    rings,
		surface:  render.NewSurface(frame.Width, frame.Height),
	}
}

// Name returns the view name.
func (m *Choropleth) Name() string { return m.name }

// Surface implements interaction.Target.
func (m *Choropleth) Surface() *render.Surface { return m.surface }

// ColorScale returns the scale of the last draw, shared by features and
// legend.
func (m *Choropleth) ColorScale() scale.ColorScale {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.colors
}

// Unjoined returns how many features found no record in the last draw.
func (m *Choropleth) Unjoined() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.unjoined
}

// Draw clears the surface and fills every feature from view. Features with
// no matching record, or a missing value, get the missing fill.
func (m *Choropleth) Draw(view engine.RecordView, layer MapLayer) scale.Spec {
	idx := geo.BuildValueIndex(view, layer.Series.Metric)
	dom, usedFallback := scale.NumericDomainOr(idx.JoinedValues(m.features), layer.Fallback)
	if usedFallback {
		log.Printf("⚠️ %s: no joined %s values, using fallback %s", m.name, layer.Series.Metric, dom)
	}
	colors := scale.NewColorScale(dom, layer.Interp, m.style.MissingFill)

	s := m.surface
	s.Clear()

	info := make([]featureInfo, len(m.features.Features))
	unjoined := 0
	for i, f := range m.features.Features {
		v, err := idx.Lookup(f.Code)
		var mjk *geo.MissingJoinKeyError
		if errors.As(err, &mjk) {
			unjoined++
		}
		info[i] = featureInfo{name: f.Name, value: v, joined: err == nil}
		if len(m.rings[i]) == 0 {
			continue
		}
		s.Add(render.Element{
			Key:   featureKey(i),
			Kind:  render.KindPath,
			Rings: m.rings[i],
			Style: render.Style{
				Fill:        colors.Color(v),
				Stroke:      m.style.Stroke,
				StrokeWidth: m.style.StrokeWidth,
			},
		})
	}
	if unjoined > 0 {
		log.Printf("🗺️ %s: %d of %d features have no record", m.name, unjoined, len(info))
	}

	m.drawLegend(colors, layer.Series.Axis)

	m.mu.Lock()
	m.series = layer.Series
	m.info = info
	m.colors = colors
	m.unjoined = unjoined
	m.mu.Unlock()

	return scale.Spec{Domain: dom, Kind: scale.KindSequentialColor}
}

func (m *Choropleth) drawLegend(colors scale.ColorScale, label string) {
	lg := m.style.Legend
	s := m.surface
	x0 := float64(m.frame.Width) - lg.Width - lg.Right
	y0 := float64(m.frame.Height) - lg.Bottom

	// one strip per stop, centred on it, so both ramp ends are painted
	pos, cols := colors.Stops(lg.Stops)
	half := 0.5 / float64(len(pos)-1)
	for i, t := range pos {
		lo, hi := math.Max(0, t-half), math.Min(1, t+half)
		s.Add(render.Element{
			Kind:  render.KindRect,
			Style: render.Style{Fill: cols[i]},
			Rect: r2.Rect{
				X: r1.Interval{Lo: x0 + lo*lg.Width, Hi: x0 + hi*lg.Width},
				Y: r1.Interval{Lo: y0, Hi: y0 + lg.Height},
			},
		})
	}

	axis := scale.NewLinear(colors.Domain, x0, x0+lg.Width)
	ticks := axis.TicksWith(lg.Ticks, func(v float64) string { return fmt.Sprintf(lg.Format, v) })
	bottomAxis(s, axis, ticks, y0+lg.Height, m.style.Axis)
	caption(s, label, r2.Point{X: x0 + lg.Width/2, Y: y0 - 6}, render.AnchorMiddle, m.style.Axis)
}

// HoverContent implements interaction.Target: country name and value.
func (m *Choropleth) HoverContent(key string) (interaction.Content, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := parseFeatureKey(key)
	if !ok || i >= len(m.info) {
		return interaction.Content{}, false
	}
	f := m.info[i]
	return interaction.Content{
		Title: f.name,
		Lines: []string{fmt.Sprintf("%s: %s", m.series.Axis, engine.FormatValue(f.value))},
	}, true
}

// Highlight implements interaction.Target by thickening the outline.
func (m *Choropleth) Highlight(key string, on bool) {
	e, ok := m.surface.Lookup(key)
	if !ok {
		return
	}
	st := e.Style
	if on {
		st.Stroke, st.StrokeWidth = m.style.HoverStroke, m.style.HoverWidth
	} else {
		st.Stroke, st.StrokeWidth = m.style.Stroke, m.style.StrokeWidth
	}
	m.surface.Restyle(key, st)
}

func featureKey(i int) string { return "feat-" + strconv.Itoa(i) }

func parseFeatureKey(key string) (int, bool) {
	if len(key) < 6 || key[:5] != "feat-" {
		return 0, false
	}
	i, err := strconv.Atoi(key[5:])
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
