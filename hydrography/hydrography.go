// Package hydrography keeps watershed boundaries and river networks
// mutually consistent: filtering reaches to the domain, snapping river
// endpoints onto boundary vertices and cutting boundary segments where
// rivers cross them.
package hydrography

import (
	"fmt"

	"github.com/paulsmith/gogeos/geos"

	"github.com/amanzi/watershed-workflow/geometry"
	"github.com/amanzi/watershed-workflow/rivertree"
	"github.com/amanzi/watershed-workflow/splithucs"
)

// FilterRiversToShape discards reaches lying wholly outside the shape,
// buffered outward by tol to tolerate simplification error.  An empty
// result is a valid terminal state.
func FilterRiversToShape(shape geometry.Polygon, reaches []geometry.LineString, tol float64) ([]geometry.LineString, error) {
	poly, err := geometry.PolygonToGeos(shape)
	if err != nil {
		return nil, fmt.Errorf("Failed to load filter shape: %s", err)
	}
	buffered, err := poly.Buffer(tol)
	if err != nil {
		return nil, fmt.Errorf("Failed to buffer filter shape: %s", err)
	}
	prepared := geos.PrepareGeometry(buffered)

	out := []geometry.LineString{}
	for i, r := range reaches {
		line, err := geometry.LineToGeos(r)
		if err != nil {
			return nil, fmt.Errorf("Failed to load reach %d: %s", i, err)
		}
		keep, err := prepared.Intersects(line)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, r)
		}
	}
	return out, nil
}

// Snap welds dangling river endpoints (root outlets and leaf inlets) onto
// nearby boundary vertices: an endpoint within snapRadius of a boundary
// vertex is relocated exactly onto the nearest one.  Ties are broken by the
// lowest (piece index, vertex index) pair.  Endpoints with no vertex in
// range stay put.
//
// With cutIntersections set, boundary segments crossed by a river get a new
// vertex at each crossing point, inserted into both the boundary piece and
// the reach, so triangulation sees a conforming shared vertex instead of a
// crossing edge.
func Snap(hucs *splithucs.SplitHUCs, forest []*rivertree.Tree, snapRadius float64, cutIntersections bool) error {
	for _, t := range forest {
		snapEndpoint(hucs, t.Root().Reach, len(t.Root().Reach)-1, snapRadius)
		for _, leaf := range t.Leaves() {
			snapEndpoint(hucs, t.Node(leaf).Reach, 0, snapRadius)
		}
	}

	if cutIntersections {
		if err := cutCrossings(hucs, forest); err != nil {
			return err
		}
	}
	return nil
}

func snapEndpoint(hucs *splithucs.SplitHUCs, reach geometry.LineString, idx int, snapRadius float64) {
	endpoint := reach[idx]

	found := false
	var nearest geometry.Coordinate
	bestDist := snapRadius
	for p := 0; p < hucs.NumPieces(); p++ {
		for _, v := range hucs.Piece(p) {
			d := geometry.Distance(endpoint, v)
			if d < bestDist || (!found && d == bestDist) {
				nearest = v
				bestDist = d
				found = true
			}
		}
	}

	if found {
		reach[idx] = nearest
	}
}

// cutCrossings splits boundary segments at river crossing points.  Because
// pieces are stored once, inserting the vertex updates both adjacent
// polygons identically.
func cutCrossings(hucs *splithucs.SplitHUCs, forest []*rivertree.Tree) error {
	for p := 0; p < hucs.NumPieces(); p++ {
		pieceLine, err := geometry.LineToGeos(hucs.Piece(p))
		if err != nil {
			return err
		}

		for _, t := range forest {
			it := t.DFS()
			for idx, ok := it.Next(); ok; idx, ok = it.Next() {
				node := t.Node(idx)
				reachLine, err := geometry.LineToGeos(node.Reach)
				if err != nil {
					return err
				}

				crosses, err := pieceLine.Crosses(reachLine)
				if err != nil {
					return err
				}
				if !crosses {
					continue
				}

				crossing, err := pieceLine.Intersection(reachLine)
				if err != nil {
					return err
				}
				points, err := crossingPoints(crossing)
				if err != nil {
					return err
				}

				piece := hucs.Piece(p)
				for _, pt := range points {
					piece, _ = insertVertex(piece, pt)
					node.Reach, _ = insertVertex(node.Reach, pt)
				}
				if err := hucs.SetPiece(p, piece); err != nil {
					return err
				}

				pieceLine, err = geometry.LineToGeos(piece)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func crossingPoints(g *geos.Geometry) ([]geometry.Coordinate, error) {
	t, err := g.Type()
	if err != nil {
		return nil, err
	}

	switch t {
	case geos.POINT:
		x, err := g.X()
		if err != nil {
			return nil, err
		}
		y, err := g.Y()
		if err != nil {
			return nil, err
		}
		return []geometry.Coordinate{{x, y}}, nil
	case geos.MULTIPOINT, geos.GEOMETRYCOLLECTION:
		c, err := g.NGeometry()
		if err != nil {
			return nil, err
		}
		out := []geometry.Coordinate{}
		for i := 0; i < c; i++ {
			sub, err := g.Geometry(i)
			if err != nil {
				return nil, err
			}
			pts, err := crossingPoints(sub)
			if err != nil {
				return nil, err
			}
			out = append(out, pts...)
		}
		return out, nil
	default:
		// Collinear overlaps produce linear intersections; those are
		// already conforming and need no cut.
		return nil, nil
	}
}

// insertVertex splices pt into the segment of l it lies on.  No-op when pt
// already is a vertex of l.
func insertVertex(l geometry.LineString, pt geometry.Coordinate) (geometry.LineString, bool) {
	for _, v := range l {
		if geometry.Equals(v, pt) {
			return l, false
		}
	}

	best := 0
	bestDist := geometry.DistanceToSegment(pt, l[0], l[1])
	for i := 1; i < len(l)-1; i++ {
		d := geometry.DistanceToSegment(pt, l[i], l[i+1])
		if d < bestDist {
			best = i
			bestDist = d
		}
	}

	out := make(geometry.LineString, 0, len(l)+1)
	out = append(out, l[:best+1]...)
	out = append(out, pt)
	out = append(out, l[best+1:]...)
	return out, true
}
