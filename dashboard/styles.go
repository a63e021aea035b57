package dashboard

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/atlas/config"
	"github.com/spektr-org/atlas/engine"
	"github.com/spektr-org/atlas/schema"
	"github.com/spektr-org/atlas/scale"
	"github.com/spektr-org/atlas/view"
)

// View names, also used as export file names.
const (
	ViewPoverty = "poverty-histogram"
	ViewLife    = "life-histogram"
	ViewScatter = "scatter"
	ViewMap     = "map"
)

// ViewOrder is the fixed redraw order.
var ViewOrder = []string{ViewPoverty, ViewLife, ViewScatter, ViewMap}

func frame(v config.ViewSize) view.Frame {
	return view.Frame{
		Width:  v.Width,
		Height: v.Height,
		Margin: view.Margin{Top: v.Margin.Top, Right: v.Margin.Right, Bottom: v.Margin.Bottom, Left: v.Margin.Left},
	}
}

func axisStyle(cfg config.Config) view.AxisStyle {
	st := view.DefaultAxisStyle()
	st.Color = scale.ParseHex(cfg.Palette.Axis)
	st.FontSize = cfg.Fonts.Tick
	st.LabelSize = cfg.Fonts.Label
	return st
}

func histogramStyle(cfg config.Config, fill, hover string, fallback scale.Domain) view.HistogramStyle {
	return view.HistogramStyle{
		Fill:      scale.ParseHex(fill),
		HoverFill: scale.ParseHex(hover),
		BinCount:  cfg.Histogram.Bins,
		Inset:     cfg.Histogram.Inset,
		XTicks:    cfg.Histogram.XTicks,
		YTicks:    cfg.Histogram.YTicks,
		YLabel:    cfg.Histogram.YLabel,
		Fallback:  fallback,
		Axis:      axisStyle(cfg),
	}
}

func scatterStyle(cfg config.Config) view.ScatterStyle {
	return view.ScatterStyle{
		Fill:         scale.ParseHex(cfg.Palette.Point),
		Opacity:      cfg.Scatter.Opacity,
		Radius:       cfg.Scatter.Radius,
		HoverStroke:  scale.ParseHex(cfg.Palette.Highlight),
		HoverWidth:   cfg.Palette.HoverWidth,
		YFloor:       cfg.Scatter.YFloor,
		XFallbackMax: cfg.Scatter.XFallbackMax,
		YFallbackMax: cfg.Scatter.YFallbackMax,
		Ticks:        cfg.Scatter.Ticks,
		Axis:         axisStyle(cfg),
	}
}

func mapStyle(cfg config.Config) view.MapStyle {
	lg := cfg.Map.Legend
	return view.MapStyle{
		MissingFill:     scale.ParseHex(cfg.Palette.MissingFill),
		Stroke:          scale.ParseHex(cfg.Palette.MapStroke),
		StrokeWidth:     cfg.Palette.StrokeWidth,
		HoverStroke:     scale.ParseHex(cfg.Palette.Highlight),
		HoverWidth:      cfg.Palette.HoverWidth,
		ProjectionScale: cfg.Map.ProjectionScale,
		YOffset:         cfg.Map.YOffset,
		Legend: view.LegendStyle{
			Width: lg.Width, Height: lg.Height, Stops: lg.Stops, Ticks: lg.Ticks,
			Format: lg.Format, Right: lg.Right, Bottom: lg.Bottom,
		},
		Axis: axisStyle(cfg),
	}
}

// series captions a metric from the schema catalog.
func series(sch schema.Config, m engine.Metric) view.Series {
	s := view.Series{Metric: m, Name: m.Label(), Axis: sch.AxisLabel(string(m))}
	if meta, ok := sch.MeasureByKey(string(m)); ok {
		s.Name = meta.DisplayName
		if meta.Unit == "percent" {
			s.Unit = "%"
		}
	}
	return s
}

func background(cfg config.Config) drawing.Color {
	return scale.ParseHex(cfg.Palette.Background)
}
