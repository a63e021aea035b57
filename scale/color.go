package scale

import (
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ============================================================================
// SEQUENTIAL COLOUR
// ============================================================================

// Interpolator maps t in [0, 1] to a colour. t outside is clamped.
type Interpolator func(t float64) drawing.Color

// Nine-class ColorBrewer sequential schemes.
var (
	schemeYlOrRd = []string{"ffffcc", "ffeda0", "fed976", "feb24c", "fd8d3c", "fc4e2a", "e31a1c", "bd0026", "800026"}
	schemeYlGnBu = []string{"ffffd9", "edf8b1", "c7e9b4", "7fcdbb", "41b6c4", "1d91c0", "225ea8", "253494", "081d58"}
	schemeBlues  = []string{"f7fbff", "deebf7", "c6dbef", "9ecae1", "6baed6", "4292c6", "2171b5", "08519c", "08306b"}
)

var (
	YlOrRd = Basis(hexColors(schemeYlOrRd))
	YlGnBu = Basis(hexColors(schemeYlGnBu))
	Blues  = Basis(hexColors(schemeBlues))
)

var interpolators = map[string]Interpolator{
	"ylorrd": YlOrRd,
	"ylgnbu": YlGnBu,
	"blues":  Blues,
}

// InterpolatorByName resolves "YlOrRd", "YlGnBu" or "Blues" (any case).
func InterpolatorByName(name string) (Interpolator, bool) {
	fn, ok := interpolators[strings.ToLower(strings.TrimSpace(name))]
	return fn, ok
}

// Basis returns a uniform cubic B-spline through the control colours,
// interpolated per RGB channel. The endpoints are exactly the first and last
// colours.
func Basis(colors []drawing.Color) Interpolator {
	n := len(colors) - 1
	if n < 1 {
		return func(float64) drawing.Color {
			if len(colors) == 0 {
				return drawing.ColorBlack
			}
			return colors[0]
		}
	}
	channel := func(get func(drawing.Color) uint8) func(t float64) float64 {
		vals := make([]float64, len(colors))
		for i, c := range colors {
			vals[i] = float64(get(c))
		}
		return func(t float64) float64 {
			var i int
			switch {
			case t <= 0:
				t, i = 0, 0
			case t >= 1:
				t, i = 1, n-1
			default:
				i = int(math.Floor(t * float64(n)))
			}
			v1, v2 := vals[i], vals[i+1]
			v0 := 2*v1 - v2
			if i > 0 {
				v0 = vals[i-1]
			}
			v3 := 2*v2 - v1
			if i < n-1 {
				v3 = vals[i+2]
			}
			return basis((t-float64(i)/float64(n))*float64(n), v0, v1, v2, v3)
		}
	}
	r := channel(func(c drawing.Color) uint8 { return c.R })
	g := channel(func(c drawing.Color) uint8 { return c.G })
	b := channel(func(c drawing.Color) uint8 { return c.B })
	return func(t float64) drawing.Color {
		if math.IsNaN(t) {
			t = 0
		}
		return drawing.Color{R: clampByte(r(t)), G: clampByte(g(t)), B: clampByte(b(t)), A: 255}
	}
}

func basis(t1, v0, v1, v2, v3 float64) float64 {
	t2 := t1 * t1
	t3 := t2 * t1
	return ((1-3*t1+3*t2-t3)*v0 +
		(4-6*t2+3*t3)*v1 +
		(1+3*t1+3*t2-3*t3)*v2 +
		t3*v3) / 6
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ============================================================================
// COLOR SCALE
// ============================================================================

// ColorScale maps values in Domain to colours. Out-of-domain values clamp to
// the nearest end; NaN maps to Missing, which lies outside the colour ramp.
type ColorScale struct {
	Domain  Domain
	Interp  Interpolator
	Missing drawing.Color
}

// NewColorScale builds a sequential colour scale.
func NewColorScale(d Domain, interp Interpolator, missing drawing.Color) ColorScale {
	return ColorScale{Domain: d, Interp: interp, Missing: missing}
}

// Position returns the clamped, normalised position of v in [0, 1]. ok is
// false for NaN. A degenerate domain places every value at 0.
func (s ColorScale) Position(v float64) (t float64, ok bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	span := s.Domain.Hi - s.Domain.Lo
	if span == 0 {
		return 0, true
	}
	t = (v - s.Domain.Lo) / span
	return math.Max(0, math.Min(1, t)), true
}

// Color returns the fill for v.
func (s ColorScale) Color(v float64) drawing.Color {
	t, ok := s.Position(v)
	if !ok {
		return s.Missing
	}
	return s.Interp(t)
}

// Sample returns the ramp colour at fractional position t.
func (s ColorScale) Sample(t float64) drawing.Color {
	return s.Interp(math.Max(0, math.Min(1, t)))
}

// Stops returns n evenly spaced positions 0, 1/(n-1), ..., 1 with their
// colours, the samples a legend gradient is drawn from.
func (s ColorScale) Stops(n int) ([]float64, []drawing.Color) {
	if n < 2 {
		n = 2
	}
	pos := make([]float64, n)
	cols := make([]drawing.Color, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		pos[i] = t
		cols[i] = s.Sample(t)
	}
	return pos, cols
}

// ============================================================================
// HEX COLOURS
// ============================================================================

// ParseHex parses "#rrggbb", "rrggbb" or "#rgb" into an opaque colour.
func ParseHex(s string) drawing.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(s)
}

// Hex renders c as "#rrggbb".
func Hex(c drawing.Color) string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+2*i] = digits[v>>4]
		b[2+2*i] = digits[v&0x0f]
	}
	return string(b)
}

func hexColors(hex []string) []drawing.Color {
	out := make([]drawing.Color, len(hex))
	for i, h := range hex {
		out[i] = ParseHex(h)
	}
	return out
}
