package scale

import (
	"errors"
	"math"
	"testing"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var nan = math.NaN()

// ============================================================================
// 1. NUMERIC DOMAIN
// ============================================================================

func TestNumericDomainExcludesNaN(t *testing.T) {
	d, err := NumericDomain([]float64{nan, 12.5, 3, nan, 40.25, math.Inf(1)})
	if err != nil {
		t.Fatalf("NumericDomain failed: %v", err)
	}
	if d.Min() != 3 || d.Max() != 40.25 {
		t.Errorf("domain = %v, want [3, 40.25]", d)
	}
}

func TestNumericDomainEmpty(t *testing.T) {
	for _, values := range [][]float64{nil, {}, {nan, nan}} {
		_, err := NumericDomain(values)
		var ede *EmptyDomainError
		if !errors.As(err, &ede) {
			t.Errorf("NumericDomain(%v) error = %v, want EmptyDomainError", values, err)
		}
	}

	fallback := NewDomain(50, 90)
	d, used := NumericDomainOr([]float64{nan}, fallback)
	if !used || d != fallback {
		t.Errorf("NumericDomainOr = %v, %v", d, used)
	}
}

func TestNewDomainOrdersBounds(t *testing.T) {
	d := NewDomain(10, 2)
	if d.Lo != 2 || d.Hi != 10 {
		t.Errorf("NewDomain(10, 2) = %v", d)
	}
	if !NewDomain(5, 5).Degenerate() {
		t.Error("[5,5] should be degenerate")
	}
	if p := NewDomain(5, 5).Pad(1); p.Lo != 4 || p.Hi != 6 {
		t.Errorf("Pad = %v", p)
	}
	if p := NewDomain(5, 5+1e-9).Pad(1); p.Lo != 4 {
		t.Errorf("Pad of a near-zero span = %v", p)
	}
	if p := NewDomain(0, 1).Pad(1); p != NewDomain(0, 1) {
		t.Errorf("Pad should leave [0, 1] alone, got %v", p)
	}
}

// ============================================================================
// 2. HISTOGRAM BINS
// ============================================================================

func TestHistogramBinsPartition(t *testing.T) {
	values := []float64{10.0, 24.4, 24.7, 8.9, nan, 18.5, 15.2, 21.0, 12.3, nan, 19.9, 10.0, 24.7}
	bins, err := HistogramBins(values, 12)
	if err != nil {
		t.Fatalf("HistogramBins failed: %v", err)
	}
	if len(bins) != 12 {
		t.Fatalf("len(bins) = %d, want 12", len(bins))
	}

	total := 0
	for i, b := range bins {
		total += b.Count
		if i > 0 && bins[i-1].Upper != b.Lower {
			t.Errorf("bins %d/%d not contiguous: %v != %v", i-1, i, bins[i-1].Upper, b.Lower)
		}
		if b.Closed != (i == len(bins)-1) {
			t.Errorf("bin %d Closed = %v", i, b.Closed)
		}
	}
	if total != 11 {
		t.Errorf("count sum = %d, want 11 (non-missing values)", total)
	}
	if bins[0].Lower != 8.9 || bins[11].Upper != 24.7 {
		t.Errorf("span = [%v, %v], want [8.9, 24.7]", bins[0].Lower, bins[11].Upper)
	}
	// last bin [23.38, 24.7] holds 24.4 and the maximum twice
	if bins[11].Count != 3 {
		t.Errorf("last bin count = %d, want 3", bins[11].Count)
	}
	// first bin [8.9, 10.22) holds 8.9 and 10.0 twice
	if bins[0].Count != 3 {
		t.Errorf("first bin count = %d, want 3", bins[0].Count)
	}
}

func TestHistogramBinsEveryValueInItsBin(t *testing.T) {
	values := make([]float64, 0, 200)
	for i := 0; i < 200; i++ {
		values = append(values, 50+float64(i)*0.173)
	}
	bins, err := HistogramBins(values, 0)
	if err != nil {
		t.Fatalf("HistogramBins failed: %v", err)
	}
	if len(bins) != DefaultBinCount {
		t.Fatalf("binCount 0 should default to %d, got %d", DefaultBinCount, len(bins))
	}
	for _, v := range values {
		hits := 0
		for _, b := range bins {
			if b.Contains(v) {
				hits++
			}
		}
		if hits != 1 {
			t.Fatalf("value %v contained by %d bins", v, hits)
		}
	}
}

func TestHistogramBinsBoundaryGoesUp(t *testing.T) {
	// [0, 12] in 12 bins: edges are integers, 3.0 belongs to [3, 4).
	bins, err := HistogramBins([]float64{0, 3, 12}, 12)
	if err != nil {
		t.Fatal(err)
	}
	if bins[3].Count != 1 || bins[2].Count != 0 {
		t.Errorf("edge value placed wrongly: bin2=%d bin3=%d", bins[2].Count, bins[3].Count)
	}
	if bins[11].Count != 1 {
		t.Errorf("max should land in last bin, got %d", bins[11].Count)
	}
}

func TestHistogramBinsDegenerate(t *testing.T) {
	bins, err := HistogramBins([]float64{70, 70, nan, 70}, 12)
	if err != nil {
		t.Fatalf("HistogramBins failed: %v", err)
	}
	if len(bins) != 1 {
		t.Fatalf("len(bins) = %d, want 1", len(bins))
	}
	b := bins[0]
	if b.Lower != 70 || !(b.Upper > 70) || b.Count != 3 {
		t.Errorf("degenerate bin = %+v", b)
	}
}

func TestHistogramBinsEmpty(t *testing.T) {
	_, err := HistogramBins([]float64{nan}, 12)
	var ede *EmptyDomainError
	if !errors.As(err, &ede) {
		t.Errorf("expected EmptyDomainError, got %v", err)
	}
	if MaxCount(nil) != 0 {
		t.Error("MaxCount(nil) should be 0")
	}
	if _, ok := BinsDomain(nil); ok {
		t.Error("BinsDomain(nil) should report ok=false")
	}
}

// ============================================================================
// 3. LINEAR SCALE + TICKS
// ============================================================================

func TestLinearMapInvert(t *testing.T) {
	s := NewLinear(NewDomain(0, 100), 360, 0)
	if s.Map(0) != 360 || s.Map(100) != 0 || s.Map(50) != 180 {
		t.Errorf("Map mismatch: %v %v %v", s.Map(0), s.Map(100), s.Map(50))
	}
	if s.Invert(90) != 75 {
		t.Errorf("Invert(90) = %v, want 75", s.Invert(90))
	}
	flat := NewLinear(NewDomain(3, 3), 0, 100)
	if flat.Map(3) != 50 {
		t.Errorf("degenerate Map = %v, want midpoint", flat.Map(3))
	}
}

func TestTickStep(t *testing.T) {
	cases := []struct {
		lo, hi float64
		n      int
		want   float64
	}{
		{0, 100, 6, 20},
		{0, 26.6, 10, 2.5},
		{50, 85, 10, 5},
		{0, 1, 6, 0.2},
	}
	for _, c := range cases {
		if got := TickStep(c.lo, c.hi, c.n); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("TickStep(%v, %v, %d) = %v, want %v", c.lo, c.hi, c.n, got, c.want)
		}
	}
}

func TestNiceDomain(t *testing.T) {
	d := NiceDomain(NewDomain(0, 26.6), 10)
	if d.Lo != 0 || d.Hi != 27.5 {
		t.Errorf("NiceDomain = %v, want [0, 27.5]", d)
	}
	d = NiceDomain(NewDomain(51.3, 84.6), 10)
	if d.Lo != 50 || d.Hi != 85 {
		t.Errorf("NiceDomain = %v, want [50, 85]", d)
	}
}

func TestTicksInsideDomain(t *testing.T) {
	ticks := NewLinear(NewDomain(0, 100), 0, 1).Ticks(6)
	want := []string{"0", "20", "40", "60", "80", "100"}
	if len(ticks) != len(want) {
		t.Fatalf("got %d ticks, want %d", len(ticks), len(want))
	}
	for i, tk := range ticks {
		if tk.Label != want[i] {
			t.Errorf("tick %d label = %q, want %q", i, tk.Label, want[i])
		}
	}

	ticks = NewLinear(NewDomain(0.1, 0.95), 0, 1).TicksWith(6, FormatTick)
	for _, tk := range ticks {
		if tk.Value < 0.1 || tk.Value > 0.95 {
			t.Errorf("tick %v outside domain", tk.Value)
		}
	}
	if ticks[0].Label != "0.20" {
		t.Errorf("first tick = %q, want 0.20", ticks[0].Label)
	}
}

func TestFormatTick(t *testing.T) {
	cases := map[float64]string{0: "0", 5: "5.00", 42.5: "42.5", 250: "250"}
	for v, want := range cases {
		if got := FormatTick(v); got != want {
			t.Errorf("FormatTick(%v) = %q, want %q", v, got, want)
		}
	}
}

// ============================================================================
// 4. COLOUR SCALE
// ============================================================================

func TestColorScaleEndpointsExact(t *testing.T) {
	s := NewColorScale(NewDomain(50, 85), YlOrRd, ParseHex("#eee"))
	if got := s.Color(50); got != ParseHex("ffffcc") {
		t.Errorf("Color(min) = %s, want #ffffcc", Hex(got))
	}
	if got := s.Color(85); got != ParseHex("800026") {
		t.Errorf("Color(max) = %s, want #800026", Hex(got))
	}
	if got := s.Color(10); got != s.Color(50) {
		t.Error("below-domain value should clamp to the min colour")
	}
	if got := s.Color(120); got != s.Color(85) {
		t.Error("above-domain value should clamp to the max colour")
	}
}

func TestColorScaleMonotonic(t *testing.T) {
	for name, interp := range map[string]Interpolator{"YlOrRd": YlOrRd, "YlGnBu": YlGnBu, "Blues": Blues} {
		s := NewColorScale(NewDomain(0, 100), interp, drawing.ColorWhite)
		prevT, prevLum := -1.0, math.MaxFloat64
		for v := 0.0; v <= 100; v += 10 {
			pos, ok := s.Position(v)
			if !ok || pos < prevT {
				t.Errorf("%s: Position(%v) = %v, not monotonic", name, v, pos)
			}
			c := s.Color(v)
			lum := float64(c.R) + float64(c.G) + float64(c.B)
			if lum > prevLum {
				t.Errorf("%s: colour at %v is lighter than at %v", name, v, v-10)
			}
			prevT, prevLum = pos, lum
		}
	}
}

func TestColorScaleMissing(t *testing.T) {
	missing := ParseHex("#eeeeee")
	s := NewColorScale(NewDomain(0, 1), YlGnBu, missing)
	if s.Color(nan) != missing {
		t.Error("NaN should map to the missing colour")
	}
	if _, ok := s.Position(nan); ok {
		t.Error("Position(NaN) should report ok=false")
	}
	// the missing fill is not on the ramp
	_, cols := s.Stops(101)
	for _, c := range cols {
		if c == missing {
			t.Fatal("missing colour collides with a ramp colour")
		}
	}
}

func TestColorScaleDegenerateDomain(t *testing.T) {
	s := NewColorScale(NewDomain(70, 70), YlOrRd, drawing.ColorWhite)
	if s.Color(70) != YlOrRd(0) {
		t.Error("degenerate domain should map to the ramp start")
	}
}

func TestStops(t *testing.T) {
	s := NewColorScale(NewDomain(0, 1), Blues, drawing.ColorWhite)
	pos, cols := s.Stops(101)
	if len(pos) != 101 || len(cols) != 101 {
		t.Fatalf("got %d stops", len(pos))
	}
	if pos[0] != 0 || pos[100] != 1 || math.Abs(pos[37]-0.37) > 1e-12 {
		t.Errorf("stop positions wrong: %v %v %v", pos[0], pos[37], pos[100])
	}
	if cols[0] != ParseHex("f7fbff") || cols[100] != ParseHex("08306b") {
		t.Error("stop colours should hit the ramp ends")
	}
}

func TestInterpolatorByName(t *testing.T) {
	for _, name := range []string{"YlOrRd", "ylgnbu", " Blues "} {
		if _, ok := InterpolatorByName(name); !ok {
			t.Errorf("InterpolatorByName(%q) not found", name)
		}
	}
	if _, ok := InterpolatorByName("viridis"); ok {
		t.Error("viridis is not registered")
	}
}

func TestHexRoundTrip(t *testing.T) {
	if Hex(ParseHex("#4682B4")) != "#4682b4" {
		t.Errorf("Hex(ParseHex) = %s", Hex(ParseHex("#4682B4")))
	}
}
