package splithucs

import (
	"github.com/paulsmith/gogeos/geos"

	"github.com/amanzi/watershed-workflow/geometry"
)

// gogeosRing wraps a polygon boundary as GEOS linework for the pairwise
// intersection and difference operations of intersect-and-split.
type gogeosRing struct {
	ring geometry.Polygon
	line *geos.Geometry
}

func newRing(p geometry.Polygon) (*gogeosRing, error) {
	line, err := geometry.LineToGeos(geometry.LineString(p))
	if err != nil {
		return nil, err
	}
	return &gogeosRing{ring: p, line: line}, nil
}

// sharedWith returns the linear pieces common to both boundaries.  Touches
// at isolated points produce no pieces.
func (r *gogeosRing) sharedWith(o *gogeosRing) (geometry.MultiLine, error) {
	inter, err := r.line.Intersection(o.line)
	if err != nil {
		return nil, err
	}
	return mergedLines(inter)
}

// remainder subtracts the shared pieces, leaving the uniquely-owned part of
// the boundary.  With no shared pieces the whole ring is one closed piece.
func (r *gogeosRing) remainder(shared []geometry.LineString) (geometry.MultiLine, error) {
	if len(shared) == 0 {
		return geometry.MultiLine{geometry.LineString(r.ring).Clone()}, nil
	}

	cut, err := geometry.MultiLineToGeos(geometry.MultiLine(shared))
	if err != nil {
		return nil, err
	}
	diff, err := r.line.Difference(cut)
	if err != nil {
		return nil, err
	}
	return mergedLines(diff)
}

// mergedLines line-merges a GEOS result and flattens it, so abutting
// fragments come back as single pieces.
func mergedLines(g *geos.Geometry) (geometry.MultiLine, error) {
	lines, err := geometry.LinesFromGeos(g)
	if err != nil {
		return nil, err
	}
	if len(lines) <= 1 {
		return lines, nil
	}

	collection, err := geometry.MultiLineToGeos(lines)
	if err != nil {
		return nil, err
	}
	merged, err := collection.LineMerge()
	if err != nil {
		return nil, err
	}
	return geometry.LinesFromGeos(merged)
}
