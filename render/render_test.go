package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

func rect(x0, y0, x1, y1 float64) r2.Rect {
	return r2.Rect{X: r1.Interval{Lo: x0, Hi: x1}, Y: r1.Interval{Lo: y0, Hi: y1}}
}

func pt(x, y float64) r2.Point { return r2.Point{X: x, Y: y} }

func sampleSurface() *Surface {
	s := NewSurface(200, 100)
	s.Add(Element{Kind: KindRect, Rect: rect(0, 0, 200, 100), Style: Style{Fill: drawing.ColorWhite}})
	s.Add(Element{Key: "bar:0", Kind: KindRect, Rect: rect(10, 20, 40, 90), Style: Style{Fill: drawing.ColorBlue}})
	s.Add(Element{Key: "pt:A", Kind: KindCircle, Center: pt(35, 25), Radius: 5, Style: Style{Fill: drawing.ColorRed}})
	s.Add(Element{
		Key:  "geo:ABC",
		Kind: KindPath,
		Rings: [][]r2.Point{
			{pt(100, 10), pt(190, 10), pt(190, 90), pt(100, 90)},
			{pt(130, 40), pt(160, 40), pt(160, 60), pt(130, 60)}, // hole
		},
		Style: Style{Fill: drawing.ColorBlack, Stroke: drawing.ColorWhite, StrokeWidth: 0.5},
	})
	s.Add(Element{Kind: KindLine, From: pt(0, 95), To: pt(200, 95), Style: Style{Stroke: drawing.ColorBlack}})
	s.Add(Element{Kind: KindText, At: pt(100, 98), Text: "axis", Style: Style{Anchor: AnchorMiddle, FontSize: 9}})
	return s
}

// ============================================================================
// 1. SCENE
// ============================================================================

func TestSurfaceClearResets(t *testing.T) {
	s := sampleSurface()
	if s.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", s.Len())
	}
	gen := s.Generation()
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d", s.Len())
	}
	if _, ok := s.Lookup("bar:0"); ok {
		t.Error("Lookup should fail after Clear")
	}
	if s.Generation() != gen+1 {
		t.Errorf("Generation = %d, want %d", s.Generation(), gen+1)
	}
}

func TestSurfaceKeysAndLookup(t *testing.T) {
	s := sampleSurface()
	if got := strings.Join(s.Keys(), ","); got != "bar:0,pt:A,geo:ABC" {
		t.Errorf("Keys() = %s", got)
	}
	e, ok := s.Lookup("pt:A")
	if !ok || e.Kind != KindCircle || e.Radius != 5 {
		t.Errorf("Lookup(pt:A) = %+v, %v", e, ok)
	}
}

func TestSurfaceRestyle(t *testing.T) {
	s := sampleSurface()
	if !s.Restyle("bar:0", Style{Fill: drawing.ColorRed}) {
		t.Fatal("Restyle should find bar:0")
	}
	e, _ := s.Lookup("bar:0")
	if e.Style.Fill != drawing.ColorRed {
		t.Error("Restyle did not apply")
	}
	if s.Restyle("missing", Style{}) {
		t.Error("Restyle of an unknown key should report false")
	}
}

func TestElementsIsSnapshot(t *testing.T) {
	s := sampleSurface()
	els := s.Elements()
	els[1].Key = "changed"
	if _, ok := s.Lookup("bar:0"); !ok {
		t.Error("mutating the snapshot must not affect the surface")
	}
}

// ============================================================================
// 2. HIT TESTING
// ============================================================================

func TestHitTest(t *testing.T) {
	s := sampleSurface()
	cases := []struct {
		p    r2.Point
		want string
	}{
		{pt(20, 50), "bar:0"},
		{pt(36, 24), "pt:A"}, // circle drawn over the bar
		{pt(110, 20), "geo:ABC"},
		{pt(145, 50), ""}, // inside the hole
		{pt(5, 5), ""},    // background rect has no key
		{pt(100, 95), ""}, // line is never hit
	}
	for _, c := range cases {
		e, ok := s.HitTest(c.p)
		got := ""
		if ok {
			got = e.Key
		}
		if got != c.want {
			t.Errorf("HitTest(%v) = %q, want %q", c.p, got, c.want)
		}
	}
}

func TestElementBounds(t *testing.T) {
	s := sampleSurface()
	e, _ := s.Lookup("geo:ABC")
	b := e.Bounds()
	if b.X.Lo != 100 || b.X.Hi != 190 || b.Y.Lo != 10 || b.Y.Hi != 90 {
		t.Errorf("Bounds() = %v", b)
	}
	c, _ := s.Lookup("pt:A")
	if cb := c.Bounds(); cb.X.Lo != 30 || cb.Y.Hi != 30 {
		t.Errorf("circle Bounds() = %v", cb)
	}
}

// ============================================================================
// 3. EXPORT
// ============================================================================

func TestExportSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(sampleSurface(), &buf, FormatSVG); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") {
		t.Fatalf("output is not SVG: %.80s", out)
	}
	if !strings.Contains(out, "axis") {
		t.Error("SVG should contain the text element")
	}
}

func TestExportPNGDimensions(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(sampleSurface(), &buf, FormatPNG); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("size = %dx%d, want 200x100", b.Dx(), b.Dy())
	}
}

func TestRasterIsDeterministic(t *testing.T) {
	a, err := Raster(sampleSurface())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Raster(sampleSurface())
	if err != nil {
		t.Fatal(err)
	}
	if !sameImage(a, b) {
		t.Error("painting the same scene twice should give identical pixels")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" SVG "); err != nil || f != FormatSVG {
		t.Errorf("ParseFormat(SVG) = %v, %v", f, err)
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("gif should be rejected")
	}
	if FormatPNG.Ext() != ".png" {
		t.Error("Ext mismatch")
	}
}

func TestStampHint(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 120, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 120; x++ {
			src.Set(x, y, color.White)
		}
	}
	out := StampHint(src, "2020")
	if out == image.Image(src) {
		t.Fatal("StampHint should return a new image")
	}
	r, g, b, _ := out.At(4, 34).RGBA()
	if r > 0x8000 || g > 0x8000 || b > 0x8000 {
		t.Error("caption band should darken the bottom-left corner")
	}
	if StampHint(src, "  ") != image.Image(src) {
		t.Error("blank text should leave the image untouched")
	}
}

func sameImage(a, b image.Image) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	bb := a.Bounds()
	for y := bb.Min.Y; y < bb.Max.Y; y++ {
		for x := bb.Min.X; x < bb.Max.X; x++ {
			if a.At(x, y) != b.At(x, y) {
				return false
			}
		}
	}
	return true
}
