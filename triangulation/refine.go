package triangulation

import (
	"errors"

	"github.com/paulsmith/gogeos/geos"

	"github.com/amanzi/watershed-workflow/geometry"
	"github.com/amanzi/watershed-workflow/rivertree"
)

// RefineFunc is a refinement predicate: report whether a candidate triangle
// needs refinement.  Predicates must be pure; the kernel may call them any
// number of times in any order.
type RefineFunc func(verts [3]geometry.Coordinate, area float64) bool

// Any composes predicates with a logical OR: refine if any criterion fires.
func Any(funcs ...RefineFunc) RefineFunc {
	return func(verts [3]geometry.Coordinate, area float64) bool {
		for _, f := range funcs {
			if f(verts, area) {
				return true
			}
		}
		return false
	}
}

// RefineFromMaxArea refines any triangle larger than maxArea.
func RefineFromMaxArea(maxArea float64) RefineFunc {
	return func(verts [3]geometry.Coordinate, area float64) bool {
		return area > maxArea
	}
}

// RefineFromMaxEdgeLength refines any triangle with an edge longer than
// maxLength.
func RefineFromMaxEdgeLength(maxLength float64) RefineFunc {
	return func(verts [3]geometry.Coordinate, area float64) bool {
		for i := 0; i < 3; i++ {
			if geometry.Distance(verts[i], verts[(i+1)%3]) > maxLength {
				return true
			}
		}
		return false
	}
}

// RefineFromRiverDistance refines using a piecewise-linear max-area ceiling
// as a function of the triangle centroid's distance d to the river network:
// nearArea below nearDist, farArea beyond farDist, interpolated between.
// Distance queries are delegated to GEOS over the flattened forest.
func RefineFromRiverDistance(nearDist, nearArea, farDist, farArea float64, rivers []*rivertree.Tree) (RefineFunc, error) {
	lines := rivertree.ForestToList(rivers)
	if len(lines) == 0 {
		return nil, errors.New("No river network to measure distances from")
	}
	network, err := geometry.MultiLineToGeos(lines)
	if err != nil {
		return nil, err
	}

	return func(verts [3]geometry.Coordinate, area float64) bool {
		centroid := geometry.Coordinate{
			(verts[0][0] + verts[1][0] + verts[2][0]) / 3,
			(verts[0][1] + verts[1][1] + verts[2][1]) / 3,
		}
		point, err := geos.NewPoint(geos.Coord{X: centroid[0], Y: centroid[1]})
		if err != nil {
			return false
		}
		d, err := point.Distance(network)
		if err != nil {
			return false
		}

		switch {
		case d < nearDist:
			return area > nearArea
		case d > farDist:
			return area > farArea
		default:
			ceiling := nearArea + (farArea-nearArea)*(d-nearDist)/(farDist-nearDist)
			return area > ceiling
		}
	}, nil
}

// RiverDistanceArgs mirror the four-tuple refinement argument:
// [nearDist, nearArea, farDist, farArea].
type RiverDistanceArgs struct {
	NearDist float64
	NearArea float64
	FarDist  float64
	FarArea  float64
}

// RefineArgs select which refinement criteria are active.  Zero values
// disable a criterion.
type RefineArgs struct {
	MaxArea       float64
	RiverDistance *RiverDistanceArgs
	MaxEdgeLength float64
}

// Compose builds the OR-combined predicate for the active criteria.  With
// none active the kernel refines on its own defaults only.
func (a RefineArgs) Compose(rivers []*rivertree.Tree) (RefineFunc, error) {
	funcs := []RefineFunc{}
	if a.MaxArea > 0 {
		funcs = append(funcs, RefineFromMaxArea(a.MaxArea))
	}
	if a.RiverDistance != nil {
		f, err := RefineFromRiverDistance(a.RiverDistance.NearDist, a.RiverDistance.NearArea,
			a.RiverDistance.FarDist, a.RiverDistance.FarArea, rivers)
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, f)
	}
	if a.MaxEdgeLength > 0 {
		funcs = append(funcs, RefineFromMaxEdgeLength(a.MaxEdgeLength))
	}

	if len(funcs) == 0 {
		return nil, nil
	}
	return Any(funcs...), nil
}
