// Package scale turns raw metric columns into the numeric domains, histogram
// bins, pixel scales and colour scales the views draw with.
//
// Every function here is pure: the same values and parameters always give
// the same result, which is what makes a full redraw idempotent.
package scale

import (
	"fmt"
	"math"

	"github.com/golang/geo/r1"
)

// Domain is a closed numeric interval [Lo, Hi].
type Domain struct {
	r1.Interval
}

// NewDomain returns [lo, hi], swapping the bounds when given reversed.
func NewDomain(lo, hi float64) Domain {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Domain{r1.Interval{Lo: lo, Hi: hi}}
}

// Min returns the lower bound.
func (d Domain) Min() float64 { return d.Lo }

// Max returns the upper bound.
func (d Domain) Max() float64 { return d.Hi }

// Degenerate reports whether the domain is a single point.
func (d Domain) Degenerate() bool { return d.Lo == d.Hi }

// Pad widens a domain narrower than 1e-6 by pad on each side. Wider
// domains are returned unchanged.
func (d Domain) Pad(pad float64) Domain {
	if d.Hi-d.Lo > 1e-6 {
		return d
	}
	return NewDomain(d.Lo-pad, d.Hi+pad)
}

func (d Domain) String() string {
	return fmt.Sprintf("[%g, %g]", d.Lo, d.Hi)
}

// EmptyDomainError means no finite value was available to build a domain.
// Callers recover with a fallback domain.
type EmptyDomainError struct {
	Considered int // how many values were inspected
}

func (e *EmptyDomainError) Error() string {
	return fmt.Sprintf("empty domain: no finite value among %d", e.Considered)
}

// NumericDomain returns [min, max] over the finite values. NaN and ±Inf are
// excluded; when nothing remains the error is *EmptyDomainError.
func NumericDomain(values []float64) (Domain, error) {
	iv := r1.EmptyInterval()
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		iv = iv.AddPoint(v)
	}
	if iv.IsEmpty() {
		return Domain{}, &EmptyDomainError{Considered: len(values)}
	}
	return Domain{iv}, nil
}

// NumericDomainOr is NumericDomain with fallback substituted for an empty
// domain. The second result reports whether the fallback was used.
func NumericDomainOr(values []float64, fallback Domain) (Domain, bool) {
	d, err := NumericDomain(values)
	if err != nil {
		return fallback, true
	}
	return d, false
}

// ============================================================================
// SCALE SPEC — what a view derived for one redraw
// ============================================================================

// Kind distinguishes positional from colour scales.
type Kind int

const (
	KindLinear Kind = iota
	KindSequentialColor
)

func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindSequentialColor:
		return "sequential-color"
	default:
		return "unknown"
	}
}

// Spec records the domain (and bins, for histograms) a view drew with.
type Spec struct {
	Domain Domain
	Kind   Kind
	Bins   []Bin
}
