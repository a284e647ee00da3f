package workflow

import (
	"errors"
	"fmt"

	"github.com/paulmach/go.geojson"

	"github.com/amanzi/watershed-workflow/geometry"
	"github.com/amanzi/watershed-workflow/warp"
)

func toCoords(raw [][]float64) []geometry.Coordinate {
	out := make([]geometry.Coordinate, len(raw))
	for i, c := range raw {
		out[i] = geometry.Coordinate{c[0], c[1]}
	}
	return out
}

// polygonsFromFeature extracts exterior rings; holes are not part of the
// data model and are dropped.
func polygonsFromFeature(f *geojson.Feature) ([]geometry.Polygon, error) {
	g := f.Geometry
	if g == nil {
		return nil, errors.New("Feature has no geometry")
	}

	switch {
	case g.IsPolygon():
		if len(g.Polygon) == 0 {
			return nil, errors.New("Polygon has no rings")
		}
		return []geometry.Polygon{geometry.Polygon(toCoords(g.Polygon[0]))}, nil
	case g.IsMultiPolygon():
		out := make([]geometry.Polygon, 0, len(g.MultiPolygon))
		for _, rings := range g.MultiPolygon {
			if len(rings) == 0 {
				continue
			}
			out = append(out, geometry.Polygon(toCoords(rings[0])))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("Unsupported geometry type: %s", g.Type)
	}
}

func linesFromFeature(f *geojson.Feature) (geometry.MultiLine, error) {
	g := f.Geometry
	if g == nil {
		return nil, errors.New("Feature has no geometry")
	}

	switch {
	case g.IsLineString():
		return geometry.MultiLine{toCoords(g.LineString)}, nil
	case g.IsMultiLineString():
		out := make(geometry.MultiLine, 0, len(g.MultiLineString))
		for _, raw := range g.MultiLineString {
			out = append(out, toCoords(raw))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("Unsupported geometry type: %s", g.Type)
	}
}

// normalize reprojects freshly converted coordinates into the working CRS
// and rounds them to the configured digits.  The slice is mutated, so
// callers must pass coordinates they own.
func (e *Engine) normalize(coords []geometry.Coordinate, from warp.CRS) ([]geometry.Coordinate, error) {
	out, err := warp.Shape(e.reprojector(), coords, from, e.Config.CRS)
	if err != nil {
		return nil, fmt.Errorf("Failed to reproject: %s", err)
	}
	geometry.Round(out, e.Config.Digits)
	return out, nil
}
