package geo

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
)

// Projection maps a geographic position to surface pixels.
type Projection interface {
	Project(ll s2.LatLng) r2.Point
}

// NaturalEarth1 is the Natural Earth I pseudo-cylindrical projection
// (Šavrič et al. 2011) scaled by Scale and centred on Translate. Screen y
// grows downward.
type NaturalEarth1 struct {
	Scale     float64
	Translate r2.Point
}

// NewNaturalEarth1 builds the projection for a width × height map with the
// given scale, centred horizontally and offset down by yOffset.
func NewNaturalEarth1(scale float64, width, height int, yOffset float64) NaturalEarth1 {
	return NaturalEarth1{
		Scale:     scale,
		Translate: r2.Point{X: float64(width) / 2, Y: float64(height)/2 + yOffset},
	}
}

// Project implements Projection.
func (p NaturalEarth1) Project(ll s2.LatLng) r2.Point {
	x, y := naturalEarth1Raw(ll.Lng.Radians(), ll.Lat.Radians())
	return r2.Point{
		X: p.Translate.X + p.Scale*x,
		Y: p.Translate.Y - p.Scale*y,
	}
}

func naturalEarth1Raw(lambda, phi float64) (x, y float64) {
	phi2 := phi * phi
	phi4 := phi2 * phi2
	x = lambda * (0.8707 - 0.131979*phi2 + phi4*(-0.013791+phi4*(0.003971*phi2-0.001529*phi4)))
	y = phi * (1.007226 + phi2*(0.015085+phi4*(-0.044475+0.028874*phi2-0.005916*phi4)))
	return x, y
}

// ProjectRings projects every ring of every polygon of f into one flat ring
// list, ready for an even-odd fill. Rings that cross the antimeridian are
// unwrapped against their first vertex and clamped to ±180°.
func ProjectRings(f Feature, proj Projection) [][]r2.Point {
	var out [][]r2.Point
	for _, poly := range f.Polygons {
		for _, ring := range poly {
			out = append(out, projectRing(ring, proj))
		}
	}
	return out
}

func projectRing(ring []s2.LatLng, proj Projection) []r2.Point {
	pts := make([]r2.Point, 0, len(ring))
	if len(ring) == 0 {
		return pts
	}
	prev := ring[0].Lng.Degrees()
	for _, ll := range ring {
		lng := ll.Lng.Degrees()
		for lng-prev > 180 {
			lng -= 360
		}
		for prev-lng > 180 {
			lng += 360
		}
		prev = lng
		clamped := math.Max(-180, math.Min(180, lng))
		pts = append(pts, proj.Project(s2.LatLngFromDegrees(ll.Lat.Degrees(), clamped)))
	}
	return pts
}
