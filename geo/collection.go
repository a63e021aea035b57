// Package geo loads country boundaries, resolves their ISO-3 join codes,
// projects them onto the map surface and joins them to dataset values.
package geo

import (
	"fmt"
	"os"

	"github.com/golang/geo/s2"
	geojson "github.com/paulmach/go.geojson"
)

// Feature is one country boundary. Polygons holds polygon → ring → vertex;
// the first ring of each polygon is the outer boundary, the rest are holes.
type Feature struct {
	ID       string // raw feature id as found in the file
	Code     string // resolved ISO-3 code, "" when unresolvable
	Name     string
	Polygons [][][]s2.LatLng
}

// Collection is the read-only set of boundaries loaded once at start-up.
type Collection struct {
	Features []Feature
	byCode   map[string]int
}

// ByCode returns the feature carrying an ISO-3 code.
func (c *Collection) ByCode(code string) (Feature, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return Feature{}, false
	}
	return c.Features[i], true
}

// Len returns the number of features.
func (c *Collection) Len() int { return len(c.Features) }

// Codes returns the resolved codes in file order, skipping unresolved ones.
func (c *Collection) Codes() []string {
	codes := make([]string, 0, len(c.Features))
	for _, f := range c.Features {
		if f.Code != "" {
			codes = append(codes, f.Code)
		}
	}
	return codes
}

// LoadGeoJSON parses a FeatureCollection. Features without polygon geometry
// are skipped.
func LoadGeoJSON(data []byte) (*Collection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	col := &Collection{byCode: make(map[string]int)}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		var polys [][][][]float64
		switch {
		case f.Geometry.IsPolygon():
			polys = append(polys, f.Geometry.Polygon)
		case f.Geometry.IsMultiPolygon():
			polys = append(polys, f.Geometry.MultiPolygon...)
		default:
			continue
		}

		code := ResolveCode(f.ID, f.Properties)
		feat := Feature{
			ID:       rawID(f.ID),
			Code:     code,
			Name:     FeatureName(code, f.Properties),
			Polygons: toLatLng(polys),
		}
		if feat.Name == "" {
			feat.Name = feat.ID
		}
		if code != "" {
			if _, dup := col.byCode[code]; !dup {
				col.byCode[code] = len(col.Features)
			}
		}
		col.Features = append(col.Features, feat)
	}
	return col, nil
}

// LoadGeoJSONFile reads and parses path.
func LoadGeoJSONFile(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundaries: %w", err)
	}
	return LoadGeoJSON(data)
}

// toLatLng converts [lng, lat] positions, dropping rings with fewer than
// three vertices.
func toLatLng(polys [][][][]float64) [][][]s2.LatLng {
	out := make([][][]s2.LatLng, 0, len(polys))
	for _, poly := range polys {
		rings := make([][]s2.LatLng, 0, len(poly))
		for _, ring := range poly {
			pts := make([]s2.LatLng, 0, len(ring))
			for _, pos := range ring {
				if len(pos) < 2 {
					continue
				}
				pts = append(pts, s2.LatLngFromDegrees(pos[1], pos[0]))
			}
			if len(pts) >= 3 {
				rings = append(rings, pts)
			}
		}
		if len(rings) > 0 {
			out = append(out, rings)
		}
	}
	return out
}

func rawID(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}
