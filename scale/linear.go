package scale

import (
	"fmt"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Linear maps a numeric domain onto a pixel range. RangeLo may exceed
// RangeHi (y axes grow upwards).
type Linear struct {
	Domain  Domain
	RangeLo float64
	RangeHi float64
}

// NewLinear builds a linear scale from d onto [r0, r1].
func NewLinear(d Domain, r0, r1 float64) Linear {
	return Linear{Domain: d, RangeLo: r0, RangeHi: r1}
}

// Map projects v into the range. A degenerate domain maps to the range
// midpoint.
func (s Linear) Map(v float64) float64 {
	span := s.Domain.Hi - s.Domain.Lo
	if span == 0 {
		return (s.RangeLo + s.RangeHi) / 2
	}
	t := (v - s.Domain.Lo) / span
	return s.RangeLo + t*(s.RangeHi-s.RangeLo)
}

// Invert maps a range position back into the domain.
func (s Linear) Invert(px float64) float64 {
	rspan := s.RangeHi - s.RangeLo
	if rspan == 0 {
		return s.Domain.Lo
	}
	t := (px - s.RangeLo) / rspan
	return s.Domain.Lo + t*(s.Domain.Hi-s.Domain.Lo)
}

// Nice extends the domain outward to multiples of the tick step chosen for
// roughly count ticks.
func (s Linear) Nice(count int) Linear {
	s.Domain = NiceDomain(s.Domain, count)
	return s
}

// Ticks returns axis ticks inside the domain, labelled by the step's
// precision.
func (s Linear) Ticks(count int) []chart.Tick {
	step := TickStep(s.Domain.Lo, s.Domain.Hi, count)
	prec := stepPrecision(step)
	return s.TicksWith(count, func(v float64) string {
		return strconv.FormatFloat(v, 'f', prec, 64)
	})
}

// TicksWith is Ticks with a caller-supplied label format.
func (s Linear) TicksWith(count int, label func(float64) string) []chart.Tick {
	lo, hi := s.Domain.Lo, s.Domain.Hi
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}
	if lo == hi {
		return []chart.Tick{{Value: lo, Label: label(lo)}}
	}
	step := TickStep(lo, hi, count)
	eps := step * 1e-9
	start := math.Ceil((lo-eps)/step) * step
	var ticks []chart.Tick
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v > hi+eps {
			break
		}
		// snap away accumulated error (0.30000000000000004 → 0.3)
		v = math.Round(v/step) * step
		if math.Abs(v) < eps {
			v = 0
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: label(v)})
		if i > 1000 {
			break
		}
	}
	return ticks
}

// NiceDomain rounds d outward to the tick step for count ticks.
func NiceDomain(d Domain, count int) Domain {
	if d.Degenerate() {
		return d
	}
	step := TickStep(d.Lo, d.Hi, count)
	return NewDomain(math.Floor(d.Lo/step)*step, math.Ceil(d.Hi/step)*step)
}

// TickStep picks a 1, 2, 2.5 or 5 × 10ⁿ step whose tick count over
// [lo, hi] is closest to n.
func TickStep(lo, hi float64, n int) float64 {
	if n < 2 {
		n = 2
	}
	span := hi - lo
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return 1
	}
	// Preferred tick steps: 1, 2, 2.5, 5, 10 ... scaled by power of 10
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Floor(span/step) + 1
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	return bestStep
}

// FormatTick renders a value with precision falling as magnitude grows.
func FormatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// stepPrecision is the number of decimals needed to print multiples of step.
func stepPrecision(step float64) int {
	for p := 0; p < 10; p++ {
		scaled := step * math.Pow(10, float64(p))
		if math.Abs(scaled-math.Round(scaled)) < 1e-9*math.Max(1, scaled) {
			return p
		}
	}
	return 10
}
