package workflow

import (
	"fmt"
	"log"
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulsmith/gogeos/geos"

	"github.com/amanzi/watershed-workflow/geometry"
	"github.com/amanzi/watershed-workflow/sources"
	"github.com/amanzi/watershed-workflow/warp"
)

// FindHUC locates the smallest hydrologic unit containing the shape,
// descending one level at a time from the hinted unit.  A shape that is not
// inside the hinted unit is an error.
func (e *Engine) FindHUC(src sources.HUCSource, shape geometry.Polygon, crs warp.CRS, hint string) (string, error) {
	coords, err := e.normalize(geometry.LineString(shape).Clone(), crs)
	if err != nil {
		return "", err
	}
	shp := geometry.Polygon(coords)

	// Shrink by a fraction of the equivalent radius so shapes sharing an
	// edge with a unit boundary still count as inside it.
	radius := math.Sqrt(math.Abs(shp.Area()) / math.Pi)
	shrunk := shrinkShape(shp, 1e-5*radius)

	hinted, err := e.GetHUC(src, hint)
	if err != nil {
		return "", err
	}
	in, err := e.contains(hinted, shrunk)
	if err != nil {
		return "", err
	}
	if !in {
		return "", fmt.Errorf("Shape not contained in hinted unit %s", hint)
	}

	match := hint
	for level := len(hint) + 2; level <= src.LowestLevel(); level += 2 {
		units, err := e.getUnits(src, match, level)
		if err != nil {
			return "", err
		}

		found := ""
		for _, u := range units {
			in, err := e.contains(u.shape, shrunk)
			if err != nil {
				return "", err
			}
			if in {
				found = u.code
				break
			}
		}
		if found == "" {
			// Spans multiple subunits, the current level is the answer.
			break
		}
		match = found
		log.Printf("Found shape in %s", match)
	}
	return match, nil
}

func shrinkShape(p geometry.Polygon, d float64) geometry.Polygon {
	if d <= 0 {
		return p
	}
	g, err := geometry.PolygonToGeos(p)
	if err != nil {
		return p
	}
	buffered, err := g.Buffer(-d)
	if err != nil {
		return p
	}
	out, err := geometry.PolygonFromGeos(buffered)
	if err != nil || len(out) < 4 {
		return p
	}
	return out
}

func (e *Engine) contains(container, contained geometry.Polygon) (bool, error) {
	if e.Config.CRS.Geographic() {
		return loopContains(container, contained), nil
	}

	cg, err := geometry.PolygonToGeos(container)
	if err != nil {
		return false, err
	}
	sg, err := geometry.PolygonToGeos(contained)
	if err != nil {
		return false, err
	}
	return geos.PrepareGeometry(cg).Contains(sg)
}

// loopContains runs the containment test on the sphere for geographic
// coordinates.  All vertices inside the loop is close enough for unit
// boundaries, which are far coarser than the shapes searched for.
func loopContains(container, contained geometry.Polygon) bool {
	loop := makeLoop(container)
	if loop == nil {
		return false
	}
	for _, c := range contained[:len(contained)-1] {
		if !loop.ContainsPoint(pointFromCoord(c)) {
			return false
		}
	}
	return true
}

func pointFromCoord(c geometry.Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c[1], c[0]))
}

func makeLoop(p geometry.Polygon) *s2.Loop {
	coords := geometry.LineString(p)
	// s2.Loop is always CCW
	if p.Clockwise() {
		coords = coords.Reversed()
	}

	// Skip last point, not stored in loop
	points := make([]s2.Point, 0, len(coords)-1)
	for i := 0; i < len(coords)-1; i++ {
		if i > 0 && geometry.Equals(coords[i-1], coords[i]) {
			continue
		}
		points = append(points, pointFromCoord(coords[i]))
	}

	if len(points) < 3 {
		return nil
	}
	return s2.LoopFromPoints(points)
}
