// Package config holds the dashboard's presentation settings: view sizes,
// colours, bin counts, colour ramps, fallback domains and the initial
// control selections. A YAML file overlays the defaults; any key left out
// keeps its default value.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/atlas/engine"
	"github.com/spektr-org/atlas/scale"
)

// Map metric selections.
const (
	MapLife    = "life"
	MapPoverty = "poverty"
)

// Margin is the plot inset of a view in pixels.
type Margin struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// ViewSize is a view's pixel size and margins.
type ViewSize struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Margin Margin `yaml:"margin"`
}

// Layout sizes the four views. Both histograms share one size.
type Layout struct {
	Histogram ViewSize `yaml:"histogram"`
	Scatter   ViewSize `yaml:"scatter"`
	Map       ViewSize `yaml:"map"`
}

// Histogram tunes both histograms.
type Histogram struct {
	Bins   int     `yaml:"bins"`   // number of equal-width bins
	Inset  float64 `yaml:"inset"`  // pixels trimmed from each bar
	XTicks int     `yaml:"x_ticks"`
	YTicks int     `yaml:"y_ticks"`
	YLabel string  `yaml:"y_label"`
}

// Scatter tunes the scatterplot.
type Scatter struct {
	Radius       float64 `yaml:"radius"`
	Opacity      float64 `yaml:"opacity"`
	YFloor       float64 `yaml:"y_floor"`        // y axis starts at min(y_floor, smallest value)
	XFallbackMax float64 `yaml:"x_fallback_max"` // x axis end when every x is zero or missing
	YFallbackMax float64 `yaml:"y_fallback_max"`
	Ticks        int     `yaml:"ticks"`
}

// Palette holds every colour as a hex string ("#4682B4").
type Palette struct {
	Background   string  `yaml:"background"`
	Axis         string  `yaml:"axis"`
	PovertyFill  string  `yaml:"poverty_fill"`
	PovertyHover string  `yaml:"poverty_hover"`
	LifeFill     string  `yaml:"life_fill"`
	LifeHover    string  `yaml:"life_hover"`
	Point        string  `yaml:"point"`
	Highlight    string  `yaml:"highlight"` // hover outline of points and countries
	HoverWidth   float64 `yaml:"hover_width"`
	MissingFill  string  `yaml:"missing_fill"`
	MapStroke    string  `yaml:"map_stroke"`
	StrokeWidth  float64 `yaml:"map_stroke_width"`
}

// Legend places the map's colour legend.
type Legend struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Stops  int     `yaml:"stops"`
	Ticks  int     `yaml:"ticks"`
	Format string  `yaml:"format"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
}

// Map tunes the choropleth.
type Map struct {
	ProjectionScale     float64 `yaml:"projection_scale"`
	YOffset             float64 `yaml:"y_offset"`
	LifeInterpolator    string  `yaml:"life_interpolator"`
	PovertyInterpolator string  `yaml:"poverty_interpolator"`
	Legend              Legend  `yaml:"legend"`
}

// Fonts sets text sizes in pixels.
type Fonts struct {
	Tick  float64 `yaml:"tick"`
	Label float64 `yaml:"label"`
}

// Range is a [lo, hi] pair in YAML flow form: [50, 90].
type Range [2]float64

// Domain converts r to a scale domain.
func (r Range) Domain() scale.Domain { return scale.NewDomain(r[0], r[1]) }

// Fallbacks are the domains used when a metric has no present value.
type Fallbacks struct {
	Life    Range `yaml:"life"`
	Poverty Range `yaml:"poverty"`
}

// Controls are the initial selections. Year 0 means the latest year.
type Controls struct {
	Year          int    `yaml:"year"`
	PovertyMetric string `yaml:"poverty_metric"`
	MapMetric     string `yaml:"map_metric"`
}

// Config is the complete presentation configuration.
type Config struct {
	Layout    Layout    `yaml:"layout"`
	Histogram Histogram `yaml:"histogram"`
	Scatter   Scatter   `yaml:"scatter"`
	Palette   Palette   `yaml:"palette"`
	Map       Map       `yaml:"map"`
	Fonts     Fonts     `yaml:"fonts"`
	Fallbacks Fallbacks `yaml:"fallback_domains"`
	Controls  Controls  `yaml:"defaults"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: Layout{
			Histogram: ViewSize{Width: 1100, Height: 420, Margin: Margin{Top: 30, Right: 10, Bottom: 50, Left: 60}},
			Scatter:   ViewSize{Width: 1100, Height: 420, Margin: Margin{Top: 30, Right: 30, Bottom: 60, Left: 60}},
			Map:       ViewSize{Width: 1100, Height: 600},
		},
		Histogram: Histogram{Bins: scale.DefaultBinCount, Inset: 1, XTicks: 10, YTicks: 10, YLabel: "Number of countries"},
		Scatter:   Scatter{Radius: 5, Opacity: 0.8, YFloor: 50, XFallbackMax: 1, YFallbackMax: 90, Ticks: 10},
		Palette: Palette{
			Background:   "#ffffff",
			Axis:         "#000000",
			PovertyFill:  "#4682B4",
			PovertyHover: "#2a4d6b",
			LifeFill:     "#6baed6",
			LifeHover:    "#2171b5",
			Point:        "#e6550d",
			Highlight:    "#222222",
			HoverWidth:   2,
			MissingFill:  "#eeeeee",
			MapStroke:    "#aaaaaa",
			StrokeWidth:  0.5,
		},
		Map: Map{
			ProjectionScale:     260,
			YOffset:             30,
			LifeInterpolator:    "YlOrRd",
			PovertyInterpolator: "YlGnBu",
			Legend:              Legend{Width: 300, Height: 12, Stops: 101, Ticks: 6, Format: "%.1f", Right: 40, Bottom: 40},
		},
		Fonts:     Fonts{Tick: 10, Label: 12},
		Fallbacks: Fallbacks{Life: Range{50, 90}, Poverty: Range{0, 100}},
		Controls:  Controls{PovertyMetric: string(engine.Poorest50), MapMetric: MapLife},
	}
}

// Load reads path over the defaults and validates the result. An empty
// path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	views := []struct {
		name string
		v    ViewSize
	}{{"histogram", c.Layout.Histogram}, {"scatter", c.Layout.Scatter}, {"map", c.Layout.Map}}
	for _, vs := range views {
		name, v := vs.name, vs.v
		if v.Width <= 0 || v.Height <= 0 {
			add("layout.%s: size %dx%d must be positive", name, v.Width, v.Height)
			continue
		}
		if v.Margin.Left+v.Margin.Right >= float64(v.Width) || v.Margin.Top+v.Margin.Bottom >= float64(v.Height) {
			add("layout.%s: margins leave no plot area", name)
		}
	}
	if c.Histogram.Bins < 1 {
		add("histogram.bins: %d must be at least 1", c.Histogram.Bins)
	}
	if c.Scatter.Radius <= 0 {
		add("scatter.radius: %g must be positive", c.Scatter.Radius)
	}
	if c.Scatter.Opacity < 0 || c.Scatter.Opacity > 1 {
		add("scatter.opacity: %g must be within [0, 1]", c.Scatter.Opacity)
	}
	if c.Map.Legend.Stops < 2 {
		add("map.legend.stops: %d must be at least 2", c.Map.Legend.Stops)
	}

	for _, col := range c.colors() {
		if !validHex(col.value) {
			add("palette.%s: %q is not a hex colour", col.key, col.value)
		}
	}
	for _, ramp := range []setting{
		{"life_interpolator", c.Map.LifeInterpolator},
		{"poverty_interpolator", c.Map.PovertyInterpolator},
	} {
		if _, ok := scale.InterpolatorByName(ramp.value); !ok {
			add("map.%s: unknown colour ramp %q", ramp.key, ramp.value)
		}
	}
	fallbacks := []struct {
		key string
		r   Range
	}{{"life", c.Fallbacks.Life}, {"poverty", c.Fallbacks.Poverty}}
	for _, fb := range fallbacks {
		if !(fb.r[0] < fb.r[1]) {
			add("fallback_domains.%s: [%g, %g] must be increasing", fb.key, fb.r[0], fb.r[1])
		}
	}

	if m, ok := engine.ParseMetric(c.Controls.PovertyMetric); !ok || !m.IsPoverty() {
		add("defaults.poverty_metric: %q is not an income-share metric", c.Controls.PovertyMetric)
	}
	if c.Controls.MapMetric != MapLife && c.Controls.MapMetric != MapPoverty {
		add("defaults.map_metric: %q must be %q or %q", c.Controls.MapMetric, MapLife, MapPoverty)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid config: %w", errors.Join(errs...))
}

// PovertyMetric returns the configured initial poverty metric.
func (c Config) PovertyMetric() engine.Metric {
	m, _ := engine.ParseMetric(c.Controls.PovertyMetric)
	return m
}

// Interpolator resolves the colour ramp for a map metric selection.
func (c Config) Interpolator(mapMetric string) scale.Interpolator {
	name := c.Map.LifeInterpolator
	if mapMetric == MapPoverty {
		name = c.Map.PovertyInterpolator
	}
	if fn, ok := scale.InterpolatorByName(name); ok {
		return fn
	}
	return scale.YlOrRd
}

// setting is a named config value, kept in a slice so validation errors
// come out in file order.
type setting struct {
	key   string
	value string
}

func (c Config) colors() []setting {
	p := c.Palette
	return []setting{
		{"background", p.Background},
		{"axis", p.Axis},
		{"poverty_fill", p.PovertyFill},
		{"poverty_hover", p.PovertyHover},
		{"life_fill", p.LifeFill},
		{"life_hover", p.LifeHover},
		{"point", p.Point},
		{"highlight", p.Highlight},
		{"missing_fill", p.MissingFill},
		{"map_stroke", p.MapStroke},
	}
}

func validHex(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 3 && len(s) != 6 {
		return false
	}
	for _, r := range strings.ToLower(s) {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
