package splithucs

import (
	"sort"
	"testing"

	"github.com/cheekybits/is"

	"github.com/amanzi/watershed-workflow/geometry"
)

func square(x0, y0, size float64) geometry.Polygon {
	return geometry.Polygon{
		{x0, y0},
		{x0 + size, y0},
		{x0 + size, y0 + size},
		{x0, y0 + size},
		{x0, y0},
	}
}

// Two unit squares sharing the wall x=10.
func twoSquares() []geometry.Polygon {
	return []geometry.Polygon{
		square(0, 0, 10),
		square(10, 0, 10),
	}
}

func sortedCoords(p geometry.Polygon) []geometry.Coordinate {
	out := make([]geometry.Coordinate, len(p)-1)
	copy(out, p[:len(p)-1])
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

func TestTwoSquares(t *testing.T) {
	is := is.New(t)

	s, err := New(twoSquares())
	is.NoErr(err)
	is.Equal(s.Len(), 2)

	shared := s.SharedPieces()
	is.Equal(len(shared), 1)

	// The shared piece is the segment (10,0)-(10,10).
	wall := shared[0]
	is.Equal(wall.Length(), 10.0)
	ends := []geometry.Coordinate{wall.First(), wall.Last()}
	sort.Slice(ends, func(i, j int) bool { return ends[i][1] < ends[j][1] })
	is.Equal(ends[0], geometry.Coordinate{10, 0})
	is.Equal(ends[1], geometry.Coordinate{10, 10})

	// One unique piece per square holding its remaining three edges.
	unique := 0
	for i := 0; i < s.NumPieces(); i++ {
		if len(s.Owners(i)) == 1 {
			unique++
			is.Equal(s.Piece(i).Length(), 30.0)
		}
	}
	is.Equal(unique, 2)
}

func TestRoundTrip(t *testing.T) {
	is := is.New(t)

	polys := twoSquares()
	s, err := New(polys)
	is.NoErr(err)

	for i, orig := range polys {
		rebuilt, err := s.Polygon(i)
		is.NoErr(err)
		is.True(rebuilt.Closed())
		is.Equal(rebuilt.Area(), orig.Area())
		is.Equal(sortedCoords(rebuilt), sortedCoords(orig))
	}
}

func TestSinglePolygon(t *testing.T) {
	is := is.New(t)

	s, err := New([]geometry.Polygon{square(0, 0, 10)})
	is.NoErr(err)
	is.Equal(s.NumPieces(), 1)
	is.Equal(len(s.Owners(0)), 1)

	p, err := s.Polygon(0)
	is.NoErr(err)
	is.Equal(p.Area(), 100.0)
}

func TestNoCrack(t *testing.T) {
	is := is.New(t)

	// A jagged shared wall that simplification will straighten.
	wall := geometry.LineString{
		{10, 0}, {10.4, 2}, {9.6, 4}, {10.3, 6}, {9.8, 8}, {10, 10},
	}
	left := geometry.Polygon{{0, 0}}
	left = append(left, wall...)
	left = append(left, geometry.Coordinate{0, 10}, geometry.Coordinate{0, 0})

	right := geometry.Polygon{{20, 0}, {20, 10}}
	for i := len(wall) - 1; i >= 0; i-- {
		right = append(right, wall[i])
	}
	right = append(right, geometry.Coordinate{20, 0})

	s, err := New([]geometry.Polygon{left, right})
	is.NoErr(err)
	is.Equal(len(s.SharedPieces()), 1)

	err = s.Simplify(1.0)
	is.NoErr(err)

	// Exactly one shared piece remains, and both polygons reference the
	// identical simplified wall.
	shared := s.SharedPieces()
	is.Equal(len(shared), 1)

	a, err := s.Polygon(0)
	is.NoErr(err)
	b, err := s.Polygon(1)
	is.NoErr(err)
	is.True(a.Closed())
	is.True(b.Closed())

	onWall := func(p geometry.Polygon) []geometry.Coordinate {
		out := []geometry.Coordinate{}
		for _, c := range p[:len(p)-1] {
			if c[0] > 5 && c[0] < 15 {
				out = append(out, c)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i][1] < out[j][1] })
		return out
	}
	is.Equal(onWall(a), onWall(b))
}

func TestSimplifyIdempotent(t *testing.T) {
	is := is.New(t)

	s, err := New(twoSquares())
	is.NoErr(err)

	is.NoErr(s.Simplify(1.0))
	once := s.Segments()

	is.NoErr(s.Simplify(1.0))
	twice := s.Segments()

	is.Equal(once, twice)
}

func TestNested(t *testing.T) {
	is := is.New(t)

	// An island ring wholly inside a containing ring: no shared pieces.
	s, err := New([]geometry.Polygon{
		square(0, 0, 20),
		square(5, 5, 10),
	})
	is.NoErr(err)
	is.Equal(s.NumPieces(), 2)
	is.Equal(len(s.SharedPieces()), 0)

	nested, err := s.Nested()
	is.NoErr(err)
	is.Equal(nested, []int{1})

	// Adjacent polygons share a wall and are not nested.
	adjacent, err := New(twoSquares())
	is.NoErr(err)
	nested, err = adjacent.Nested()
	is.NoErr(err)
	is.Equal(len(nested), 0)
}

func TestExterior(t *testing.T) {
	is := is.New(t)

	s, err := New(twoSquares())
	is.NoErr(err)

	ext, err := s.Exterior()
	is.NoErr(err)
	is.True(ext.Closed())
	is.Equal(ext.Area(), 200.0)
}

func TestTooManyOwners(t *testing.T) {
	is := is.New(t)

	// A third polygon duplicating the right square makes the wall at x=10
	// claimable by three polygons: malformed topology, fatal.
	polys := append(twoSquares(), square(10, 0, 10))
	_, err := New(polys)
	is.NotNil(err)
}

func TestUnclosedInput(t *testing.T) {
	is := is.New(t)

	_, err := New([]geometry.Polygon{{{0, 0}, {1, 0}, {1, 1}}})
	is.NotNil(err)
}

func TestSetPieceKeepsEndpoints(t *testing.T) {
	is := is.New(t)

	s, err := New(twoSquares())
	is.NoErr(err)

	var wallID int
	for i := 0; i < s.NumPieces(); i++ {
		if len(s.Owners(i)) == 2 {
			wallID = i
		}
	}

	wall := s.Piece(wallID)
	widened := geometry.LineString{wall.First(), {10, 5}, wall.Last()}
	is.NoErr(s.SetPiece(wallID, widened))

	moved := geometry.LineString{{11, 0}, {11, 10}}
	is.NotNil(s.SetPiece(wallID, moved))
}
