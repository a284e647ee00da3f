package geometry

import (
	"fmt"

	"github.com/paulsmith/gogeos/geos"
)

// Conversions between the semantic containers and GEOS geometries.  All
// planar boolean operations are delegated to GEOS; these helpers keep the
// conversion noise in one place.

func coordsToGeos(coords []Coordinate) []geos.Coord {
	out := make([]geos.Coord, len(coords))
	for i, c := range coords {
		out[i] = geos.Coord{X: c[0], Y: c[1]}
	}
	return out
}

func PointToGeos(c Coordinate) (*geos.Geometry, error) {
	return geos.NewPoint(geos.Coord{X: c[0], Y: c[1]})
}

func LineToGeos(l LineString) (*geos.Geometry, error) {
	return geos.NewLineString(coordsToGeos(l)...)
}

func PolygonToGeos(p Polygon) (*geos.Geometry, error) {
	return geos.NewPolygon(coordsToGeos(p))
}

func MultiLineToGeos(m MultiLine) (*geos.Geometry, error) {
	lines := make([]*geos.Geometry, len(m))
	for i, l := range m {
		g, err := LineToGeos(l)
		if err != nil {
			return nil, err
		}
		lines[i] = g
	}
	return geos.NewCollection(geos.MULTILINESTRING, lines...)
}

func coordsFromGeos(g *geos.Geometry) ([]Coordinate, error) {
	n, err := g.NPoint()
	if err != nil {
		return nil, err
	}

	coords := make([]Coordinate, n)
	for i := 0; i < n; i++ {
		p, err := g.Point(i)
		if err != nil {
			return nil, err
		}
		x, err := p.X()
		if err != nil {
			return nil, err
		}
		y, err := p.Y()
		if err != nil {
			return nil, err
		}
		coords[i] = Coordinate{x, y}
	}
	return coords, nil
}

func LineFromGeos(g *geos.Geometry) (LineString, error) {
	coords, err := coordsFromGeos(g)
	if err != nil {
		return nil, err
	}
	return LineString(coords), nil
}

// LinesFromGeos flattens any linear GEOS geometry into a MultiLine.
// Point and multi-point components are dropped: they carry no linear
// boundary information.
func LinesFromGeos(g *geos.Geometry) (MultiLine, error) {
	t, err := g.Type()
	if err != nil {
		return nil, err
	}

	switch t {
	case geos.LINESTRING, geos.LINEARRING:
		l, err := LineFromGeos(g)
		if err != nil {
			return nil, err
		}
		if len(l) < 2 {
			return MultiLine{}, nil
		}
		return MultiLine{l}, nil
	case geos.POINT, geos.MULTIPOINT:
		return MultiLine{}, nil
	case geos.MULTILINESTRING, geos.GEOMETRYCOLLECTION:
		c, err := g.NGeometry()
		if err != nil {
			return nil, err
		}
		out := MultiLine{}
		for i := 0; i < c; i++ {
			sub, err := g.Geometry(i)
			if err != nil {
				return nil, err
			}
			lines, err := LinesFromGeos(sub)
			if err != nil {
				return nil, err
			}
			out = append(out, lines...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("Unexpected linear geometry type: %v", t)
	}
}

func PolygonFromGeos(g *geos.Geometry) (Polygon, error) {
	shell, err := g.Shell()
	if err != nil {
		return nil, err
	}
	coords, err := coordsFromGeos(shell)
	if err != nil {
		return nil, err
	}
	return Polygon(coords), nil
}
