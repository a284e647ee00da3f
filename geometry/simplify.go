package geometry

import (
	geo "github.com/paulmach/go.geo"
	"github.com/paulmach/go.geo/reducers"
)

// SimplifyDouglasPeucker reduces a line with the Douglas-Peucker reducer.
// The two endpoints always survive, which is what keeps shared-piece chains
// closed and river junctions welded after simplification.
func SimplifyDouglasPeucker(l LineString, tol float64) LineString {
	if len(l) <= 2 {
		return l.Clone()
	}

	path := geo.NewPathPreallocate(len(l), len(l))
	for i, c := range l {
		path.SetAt(i, &geo.Point{c[0], c[1]})
	}

	reduced := reducers.DouglasPeucker(path, tol)

	out := make(LineString, reduced.Length())
	for j := 0; j < reduced.Length(); j++ {
		p := reduced.GetAt(j)
		out[j] = Coordinate{p[0], p[1]}
	}
	return out
}
