package rivertree

import (
	"fmt"

	"github.com/amanzi/watershed-workflow/geometry"
)

// Cleanup simplifies every reach in the forest while keeping the network
// welded: junction coordinates are fixed points during simplification, and
// child outlets are re-welded exactly onto parent inlets afterwards.
// Simplifying touching reaches independently is how gaps appear; pinning
// the endpoints removes that failure mode.
func Cleanup(forest []*Tree, simplifyTol, pruneTol, snapTol float64) error {
	for ti, t := range forest {
		for i := range t.nodes {
			n := &t.nodes[i]

			merged := mergeShortSegments(n.Reach, pruneTol)
			simplified := geometry.SimplifyDouglasPeucker(merged, simplifyTol)
			if len(simplified) < 2 {
				return fmt.Errorf("Cleanup collapsed reach %d of river %d", i, ti)
			}
			n.Reach = simplified
		}

		// Weld tributary outlets back onto parent inlets.
		for i := range t.nodes {
			n := &t.nodes[i]
			for _, c := range n.Children {
				child := &t.nodes[c]
				d := geometry.Distance(child.Outlet(), n.Inlet())
				if d > 0 && d <= snapTol {
					child.Reach[len(child.Reach)-1] = n.Inlet()
				}
			}
		}
	}
	return nil
}

// mergeShortSegments drops interior vertices closer than tol to the last
// kept vertex.  Endpoints are junctions and never move.
func mergeShortSegments(l geometry.LineString, tol float64) geometry.LineString {
	if len(l) <= 2 {
		return l
	}

	out := geometry.LineString{l[0]}
	for i := 1; i < len(l)-1; i++ {
		if geometry.Distance(out[len(out)-1], l[i]) > tol {
			out = append(out, l[i])
		}
	}
	out = append(out, l[len(l)-1])
	return out
}
