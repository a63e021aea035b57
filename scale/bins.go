package scale

import "math"

// DefaultBinCount is the number of histogram bins when none is configured.
const DefaultBinCount = 12

// degenerateWidth is the width given to the single bin of a constant column.
const degenerateWidth = 1e-9

// Bin is a half-open interval [Lower, Upper) with the number of values in it.
// The last bin of a histogram is closed at Upper.
type Bin struct {
	Lower  float64
	Upper  float64
	Count  int
	Closed bool // Upper is inclusive
}

// Contains reports whether v falls in the bin.
func (b Bin) Contains(v float64) bool {
	if v < b.Lower {
		return false
	}
	if b.Closed {
		return v <= b.Upper
	}
	return v < b.Upper
}

// Width returns Upper - Lower.
func (b Bin) Width() float64 { return b.Upper - b.Lower }

// HistogramBins partitions the finite values into exactly binCount contiguous
// bins of equal width spanning [min, max]. binCount <= 0 means
// DefaultBinCount. Each value lands in exactly one bin; the maximum lands in
// the last one. When min == max the result is one bin [v, v+w] with a minimal
// width holding every value. No finite value yields *EmptyDomainError.
func HistogramBins(values []float64, binCount int) ([]Bin, error) {
	if binCount <= 0 {
		binCount = DefaultBinCount
	}
	dom, err := NumericDomain(values)
	if err != nil {
		return nil, err
	}

	if dom.Degenerate() {
		w := math.Max(math.Abs(dom.Lo)*degenerateWidth, degenerateWidth)
		bin := Bin{Lower: dom.Lo, Upper: dom.Lo + w, Closed: true}
		for _, v := range values {
			if finite(v) {
				bin.Count++
			}
		}
		return []Bin{bin}, nil
	}

	width := (dom.Hi - dom.Lo) / float64(binCount)
	bins := make([]Bin, binCount)
	for i := range bins {
		bins[i].Lower = dom.Lo + float64(i)*width
		bins[i].Upper = dom.Lo + float64(i+1)*width
	}
	// Shared edges: each Upper is exactly the next Lower.
	for i := 0; i < binCount-1; i++ {
		bins[i].Upper = bins[i+1].Lower
	}
	bins[binCount-1].Upper = dom.Hi
	bins[binCount-1].Closed = true

	for _, v := range values {
		if !finite(v) {
			continue
		}
		bins[binIndex(bins, v, dom.Lo, width)].Count++
	}
	return bins, nil
}

// binIndex locates v, correcting the arithmetic guess against the stored
// edges so floating-point rounding never breaks the half-open rule.
func binIndex(bins []Bin, v, lo, width float64) int {
	last := len(bins) - 1
	i := int((v - lo) / width)
	if i > last {
		i = last
	}
	if i < 0 {
		i = 0
	}
	for i > 0 && v < bins[i].Lower {
		i--
	}
	for i < last && v >= bins[i].Upper {
		i++
	}
	return i
}

// MaxCount returns the largest bin count, 0 for no bins.
func MaxCount(bins []Bin) int {
	max := 0
	for _, b := range bins {
		if b.Count > max {
			max = b.Count
		}
	}
	return max
}

// BinsDomain returns [first.Lower, last.Upper]. ok is false for no bins.
func BinsDomain(bins []Bin) (Domain, bool) {
	if len(bins) == 0 {
		return Domain{}, false
	}
	return NewDomain(bins[0].Lower, bins[len(bins)-1].Upper), true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
