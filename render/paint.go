package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Format selects the encoder used by Export.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat accepts "svg" or "png".
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unknown format %q (want svg or png)", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

func (f Format) provider() chart.RendererProvider {
	if f == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

// Paint draws every element of s onto r in order.
func Paint(s *Surface, r chart.Renderer) error {
	f, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	r.SetFont(f)

	w, h := s.Size()
	fillRect(r, 0, 0, w, h, s.Background())

	for _, e := range s.Elements() {
		paintElement(r, e)
		r.ResetStyle()
		r.SetFont(f)
	}
	return nil
}

// Export encodes s as SVG or PNG into w.
func Export(s *Surface, w io.Writer, format Format) error {
	width, height := s.Size()
	r, err := format.provider()(width, height)
	if err != nil {
		return fmt.Errorf("create %s renderer: %w", format, err)
	}
	if err := Paint(s, r); err != nil {
		return err
	}
	return r.Save(w)
}

// Raster paints s and decodes the result for on-screen display.
func Raster(s *Surface) (image.Image, error) {
	var buf bytes.Buffer
	if err := Export(s, &buf, FormatPNG); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}

func paintElement(r chart.Renderer, e Element) {
	st := e.Style
	switch e.Kind {
	case KindRect:
		x0, y0 := int(math.Round(e.Rect.X.Lo)), int(math.Round(e.Rect.Y.Lo))
		x1, y1 := int(math.Round(e.Rect.X.Hi)), int(math.Round(e.Rect.Y.Hi))
		applyStyle(r, st)
		r.MoveTo(x0, y0)
		r.LineTo(x1, y0)
		r.LineTo(x1, y1)
		r.LineTo(x0, y1)
		r.LineTo(x0, y0)
		r.Close()
		finish(r, st)
	case KindCircle:
		applyStyle(r, st)
		r.Circle(e.Radius, int(math.Round(e.Center.X)), int(math.Round(e.Center.Y)))
		finish(r, st)
	case KindPath:
		applyStyle(r, st)
		drew := false
		for _, ring := range e.Rings {
			if len(ring) < 3 {
				continue
			}
			r.MoveTo(int(math.Round(ring[0].X)), int(math.Round(ring[0].Y)))
			for _, p := range ring[1:] {
				r.LineTo(int(math.Round(p.X)), int(math.Round(p.Y)))
			}
			r.Close()
			drew = true
		}
		if drew {
			finish(r, st)
		}
	case KindLine:
		if !visible(st.Stroke) {
			return
		}
		r.SetStrokeColor(st.Stroke)
		r.SetStrokeWidth(strokeWidth(st))
		r.MoveTo(int(math.Round(e.From.X)), int(math.Round(e.From.Y)))
		r.LineTo(int(math.Round(e.To.X)), int(math.Round(e.To.Y)))
		r.Stroke()
	case KindText:
		if e.Text == "" {
			return
		}
		size := st.FontSize
		if size <= 0 {
			size = 10
		}
		fc := st.FontColor
		if !visible(fc) {
			fc = drawing.ColorBlack
		}
		r.SetFontColor(fc)
		r.SetFontSize(size)
		x, y := int(math.Round(e.At.X)), int(math.Round(e.At.Y))
		if st.Rotation != 0 {
			r.SetTextRotation(st.Rotation * math.Pi / 180)
		}
		tw := r.MeasureText(e.Text).Width()
		switch st.Anchor {
		case AnchorMiddle:
			if st.Rotation != 0 {
				y += tw / 2
			} else {
				x -= tw / 2
			}
		case AnchorEnd:
			x -= tw
		}
		r.Text(e.Text, x, y)
		if st.Rotation != 0 {
			r.ClearTextRotation()
		}
	}
}

func applyStyle(r chart.Renderer, st Style) {
	r.SetFillColor(withOpacity(st.Fill, st.Opacity))
	if visible(st.Stroke) {
		r.SetStrokeColor(st.Stroke)
		r.SetStrokeWidth(strokeWidth(st))
	}
}

func finish(r chart.Renderer, st Style) {
	switch {
	case visible(st.Fill) && visible(st.Stroke):
		r.FillStroke()
	case visible(st.Stroke):
		r.Stroke()
	default:
		r.Fill()
	}
}

func fillRect(r chart.Renderer, x0, y0, x1, y1 int, c drawing.Color) {
	if !visible(c) {
		return
	}
	r.SetFillColor(c)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.LineTo(x0, y0)
	r.Close()
	r.Fill()
	r.ResetStyle()
}

func strokeWidth(st Style) float64 {
	if st.StrokeWidth > 0 {
		return st.StrokeWidth
	}
	return 1
}

func visible(c drawing.Color) bool { return c.A > 0 }

func withOpacity(c drawing.Color, opacity float64) drawing.Color {
	if opacity <= 0 || opacity >= 1 {
		return c
	}
	c.A = uint8(math.Round(float64(c.A) * opacity))
	return c
}

// ============================================================================
// RASTER CAPTION
// ============================================================================

// StampHint draws a caption in the bottom-left corner of img on a dark
// translucent band, for raster exports and the on-screen views.
func StampHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	shadowCol := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 180})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6

	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)

	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
