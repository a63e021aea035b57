// Package view draws the dashboard's linked views (two histograms, a
// scatterplot and a choropleth map) into render surfaces.
//
// Every view follows the same contract:
//
//	spec := v.Draw(filtered, series)   // clear + redraw, returns the scales used
//	v.Surface()                        // what was drawn, for export and hit tests
//	v.HoverContent(key)                // tooltip text for a keyed element
//	v.Highlight(key, on)               // hover visual on/off
//
// Draw is idempotent: the same input produces the same surface, and nothing
// from an earlier draw survives a later one.
package view

import (
	"fmt"
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/atlas/engine"
	"github.com/spektr-org/atlas/render"
	"github.com/spektr-org/atlas/scale"
)

// ============================================================================
// FRAME
// ============================================================================

// Margin is the space between the surface edge and the plot area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Frame is a view's pixel size and margins.
type Frame struct {
	Width  int
	Height int
	Margin Margin
}

// Plot returns the plot area in surface coordinates.
func (f Frame) Plot() r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: f.Margin.Left, Hi: float64(f.Width) - f.Margin.Right},
		Y: r1.Interval{Lo: f.Margin.Top, Hi: float64(f.Height) - f.Margin.Bottom},
	}
}

// ============================================================================
// SERIES
// ============================================================================

// Series names the metric a view plots and how to caption it.
type Series struct {
	Metric engine.Metric
	Name   string // tooltip name: "Poorest 50%", "Life Expectancy"
	Axis   string // axis caption: "Poorest 50% (% of national income)"
	Unit   string // suffix for tooltip values: "%" or ""
}

func (s Series) value(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return engine.FormatValue(v) + s.Unit
}

// ============================================================================
// AXES
// ============================================================================

// AxisStyle is the look of axis lines, ticks and captions.
type AxisStyle struct {
	Color     drawing.Color
	FontSize  float64
	LabelSize float64
	TickSize  float64
}

// DefaultAxisStyle is black 10px ticks with 12px captions.
func DefaultAxisStyle() AxisStyle {
	return AxisStyle{Color: drawing.ColorBlack, FontSize: 10, LabelSize: 12, TickSize: 6}
}

// bottomAxis draws a horizontal axis at y spanning the scale's range.
func bottomAxis(s *render.Surface, sc scale.Linear, ticks []chart.Tick, y float64, st AxisStyle) {
	line := render.Style{Stroke: st.Color, StrokeWidth: 1}
	s.Add(render.Element{Kind: render.KindLine, Style: line,
		From: r2.Point{X: sc.RangeLo, Y: y}, To: r2.Point{X: sc.RangeHi, Y: y}})
	for _, t := range ticks {
		x := sc.Map(t.Value)
		s.Add(render.Element{Kind: render.KindLine, Style: line,
			From: r2.Point{X: x, Y: y}, To: r2.Point{X: x, Y: y + st.TickSize}})
		s.Add(render.Element{Kind: render.KindText, Text: t.Label,
			At:    r2.Point{X: x, Y: y + st.TickSize + st.FontSize + 2},
			Style: render.Style{FontSize: st.FontSize, FontColor: st.Color, Anchor: render.AnchorMiddle}})
	}
}

// leftAxis draws a vertical axis at x spanning the scale's range.
func leftAxis(s *render.Surface, sc scale.Linear, ticks []chart.Tick, x float64, st AxisStyle) {
	line := render.Style{Stroke: st.Color, StrokeWidth: 1}
	s.Add(render.Element{Kind: render.KindLine, Style: line,
		From: r2.Point{X: x, Y: sc.RangeLo}, To: r2.Point{X: x, Y: sc.RangeHi}})
	for _, t := range ticks {
		y := sc.Map(t.Value)
		s.Add(render.Element{Kind: render.KindLine, Style: line,
			From: r2.Point{X: x - st.TickSize, Y: y}, To: r2.Point{X: x, Y: y}})
		s.Add(render.Element{Kind: render.KindText, Text: t.Label,
			At:    r2.Point{X: x - st.TickSize - 3, Y: y + st.FontSize/3},
			Style: render.Style{FontSize: st.FontSize, FontColor: st.Color, Anchor: render.AnchorEnd}})
	}
}

func caption(s *render.Surface, text string, at r2.Point, anchor render.Anchor, st AxisStyle) {
	s.Add(render.Element{Kind: render.KindText, Text: text, At: at,
		Style: render.Style{FontSize: st.LabelSize, FontColor: st.Color, Anchor: anchor}})
}

// axisDomain widens a zero-width domain so an axis can be drawn over it.
func axisDomain(d scale.Domain) scale.Domain {
	return d.Pad(math.Max(math.Abs(d.Lo)*0.05, 1))
}

func rangeText(lo, hi float64, unit string) string {
	return fmt.Sprintf("%.2f%s - %.2f%s", lo, unit, hi, unit)
}
