package view

import (
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/atlas/engine"
	"github.com/spektr-org/atlas/interaction"
	"github.com/spektr-org/atlas/render"
	"github.com/spektr-org/atlas/scale"
)

// HistogramStyle configures a histogram view.
type HistogramStyle struct {
	Fill      drawing.Color
	HoverFill drawing.Color
	BinCount  int
	Inset     float64 // pixels trimmed from each bar's width
	XTicks    int
	YTicks    int
	YLabel    string
	Fallback  scale.Domain // x domain when no value is present
	Axis      AxisStyle
}

// Histogram bins one metric of the filtered view into equal-width bars.
type Histogram struct {
	name  string
	frame Frame
	style HistogramStyle

	mu      sync.RWMutex
	surface *render.Surface
	series  Series
	bins    []scale.Bin
}

// NewHistogram creates a histogram view with its own surface.
func NewHistogram(name string, frame Frame, style HistogramStyle) *Histogram {
	if style.BinCount <= 0 {
		style.BinCount = scale.DefaultBinCount
	}
	if style.XTicks <= 0 {
		style.XTicks = 10
	}
	if style.YTicks <= 0 {
		style.YTicks = 10
	}
	return &Histogram{
		name:    name,
		frame:   frame,
		style:   style,
		surface: render.NewSurface(frame.Width, frame.Height),
	}
}

// Name returns the view name used for hover routing and export files.
func (h *Histogram) Name() string { return h.name }

// Surface implements interaction.Target.
func (h *Histogram) Surface() *render.Surface { return h.surface }

// Bins returns the bins of the last draw.
func (h *Histogram) Bins() []scale.Bin {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]scale.Bin, len(h.bins))
	copy(out, h.bins)
	return out
}

// Draw clears the surface and draws the histogram of series over view.
// No present value draws axes over the fallback domain and zero bars.
func (h *Histogram) Draw(view engine.RecordView, series Series) scale.Spec {
	values := engine.MeasureValues(view, series.Metric)
	bins, err := scale.HistogramBins(values, h.style.BinCount)

	var xDomain scale.Domain
	if err != nil {
		log.Printf("⚠️ %s: %v, drawing over fallback %s", h.name, err, h.style.Fallback)
		bins = nil
		xDomain = h.style.Fallback
	} else {
		xDomain, _ = scale.BinsDomain(bins)
	}

	h.mu.Lock()
	h.series = series
	h.bins = bins
	h.mu.Unlock()

	s := h.surface
	s.Clear()
	plot := h.frame.Plot()

	x := scale.NewLinear(axisDomain(xDomain), plot.X.Lo, plot.X.Hi)
	maxCount := scale.MaxCount(bins)
	yDomain := scale.NewDomain(0, float64(maxCount))
	if maxCount == 0 {
		yDomain = scale.NewDomain(0, 1)
	}
	y := scale.NewLinear(yDomain, plot.Y.Hi, plot.Y.Lo).Nice(h.style.YTicks)

	for i, b := range bins {
		x0, x1 := x.Map(b.Lower), x.Map(b.Upper)
		w := x1 - x0 - h.style.Inset
		if w < 1 {
			w = 1
		}
		s.Add(render.Element{
			Key:   binKey(i),
			Kind:  render.KindRect,
			Style: render.Style{Fill: h.style.Fill},
			Rect: r2.Rect{
				X: r1.Interval{Lo: x0, Hi: x0 + w},
				Y: r1.Interval{Lo: y.Map(float64(b.Count)), Hi: y.Map(0)},
			},
		})
	}

	ax := h.style.Axis
	bottomAxis(s, x, x.Ticks(h.style.XTicks), plot.Y.Hi, ax)
	leftAxis(s, y, y.TicksWith(h.style.YTicks, func(v float64) string { return strconv.Itoa(int(v)) }), plot.X.Lo, ax)
	caption(s, series.Axis, r2.Point{X: (plot.X.Lo + plot.X.Hi) / 2, Y: plot.Y.Hi + 40}, render.AnchorMiddle, ax)
	caption(s, h.style.YLabel, r2.Point{X: plot.X.Lo - 40, Y: plot.Y.Lo - 10}, render.AnchorStart, ax)

	return scale.Spec{Domain: xDomain, Kind: scale.KindLinear, Bins: bins}
}

// HoverContent implements interaction.Target: "<n> countries" and the bin's
// range.
func (h *Histogram) HoverContent(key string) (interaction.Content, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	i, ok := parseBinKey(key)
	if !ok || i >= len(h.bins) {
		return interaction.Content{}, false
	}
	b := h.bins[i]
	return interaction.Content{
		Title: fmt.Sprintf("%d countries", b.Count),
		Lines: []string{fmt.Sprintf("%s: %s", h.series.Name, rangeText(b.Lower, b.Upper, h.series.Unit))},
	}, true
}

// Highlight implements interaction.Target by swapping the bar fill.
func (h *Histogram) Highlight(key string, on bool) {
	fill := h.style.Fill
	if on {
		fill = h.style.HoverFill
	}
	if e, ok := h.surface.Lookup(key); ok {
		st := e.Style
		st.Fill = fill
		h.surface.Restyle(key, st)
	}
}

func binKey(i int) string { return "bin-" + strconv.Itoa(i) }

func parseBinKey(key string) (int, bool) {
	if len(key) < 5 || key[:4] != "bin-" {
		return 0, false
	}
	i, err := strconv.Atoi(key[4:])
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
