// Package splithucs stores a collection of adjacent polygons as a set of
// boundary pieces: pieces owned by a single polygon and pieces shared by
// exactly two.  Each piece is stored once, however many polygons reference
// it, so simplifying a shared wall cannot crack the two polygons apart.
package splithucs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/amanzi/watershed-workflow/geometry"
)

// Ref points a polygon at a stored piece, possibly traversed backwards.
type Ref struct {
	Piece    int
	Reversed bool
}

type SplitHUCs struct {
	pieces     []geometry.LineString
	owners     [][]int // per piece, the referencing polygon indices
	boundaries [][]Ref // per polygon, an ordered chain closing its ring

	index map[string]int // canonical coords -> piece
}

// New splits a set of closed polygons into uniquely-owned and shared
// boundary pieces.  Pairwise boundary intersections are delegated to GEOS.
func New(polygons []geometry.Polygon) (*SplitHUCs, error) {
	for i, p := range polygons {
		if !p.Closed() {
			return nil, fmt.Errorf("Polygon %d is not a closed ring", i)
		}
	}

	s := &SplitHUCs{
		boundaries: make([][]Ref, len(polygons)),
		index:      make(map[string]int),
	}

	rings := make([]*gogeosRing, len(polygons))
	for i, p := range polygons {
		r, err := newRing(p)
		if err != nil {
			return nil, fmt.Errorf("Failed to load polygon %d: %s", i, err)
		}
		rings[i] = r
	}

	// Shared walls, one GEOS intersection per polygon pair.
	perPoly := make([][]int, len(polygons))
	for i := 0; i < len(polygons); i++ {
		for j := i + 1; j < len(polygons); j++ {
			lines, err := rings[i].sharedWith(rings[j])
			if err != nil {
				return nil, fmt.Errorf("Failed to intersect polygons %d and %d: %s", i, j, err)
			}
			for _, l := range lines {
				id, err := s.register(l, i, j)
				if err != nil {
					return nil, err
				}
				perPoly[i] = append(perPoly[i], id)
				perPoly[j] = append(perPoly[j], id)
			}
		}
	}

	// Whatever remains of each ring is uniquely owned.
	for i := range polygons {
		shared := make([]geometry.LineString, 0, len(perPoly[i]))
		for _, id := range perPoly[i] {
			shared = append(shared, s.pieces[id])
		}

		lines, err := rings[i].remainder(shared)
		if err != nil {
			return nil, fmt.Errorf("Failed to split polygon %d: %s", i, err)
		}
		for _, l := range lines {
			id, err := s.register(l, i)
			if err != nil {
				return nil, err
			}
			perPoly[i] = append(perPoly[i], id)
		}
	}

	// Order each polygon's pieces into a closed chain.
	for i := range polygons {
		refs, err := s.chain(perPoly[i])
		if err != nil {
			return nil, fmt.Errorf("Polygon %d: %s", i, err)
		}
		s.boundaries[i] = refs
	}

	return s, nil
}

// register stores a piece exactly once.  A piece claimed by more than two
// polygons indicates malformed input topology and is fatal.
func (s *SplitHUCs) register(l geometry.LineString, owners ...int) (int, error) {
	if len(l) < 2 {
		return 0, errors.New("Degenerate boundary piece")
	}

	key := canonicalKey(l)
	id, ok := s.index[key]
	if !ok {
		id = len(s.pieces)
		s.pieces = append(s.pieces, l)
		s.owners = append(s.owners, nil)
		s.index[key] = id
	}

	for _, o := range owners {
		found := false
		for _, existing := range s.owners[id] {
			if existing == o {
				found = true
			}
		}
		if !found {
			s.owners[id] = append(s.owners[id], o)
		}
	}
	if len(s.owners[id]) > 2 {
		return 0, fmt.Errorf("Boundary piece %d referenced by more than two polygons: %v", id, s.owners[id])
	}
	return id, nil
}

// canonicalKey is orientation-independent: a piece and its reversal key
// identically.
func canonicalKey(l geometry.LineString) string {
	a := pieceKey(l)
	b := pieceKey(l.Reversed())
	if b < a {
		return b
	}
	return a
}

func pieceKey(l geometry.LineString) string {
	var sb strings.Builder
	for _, c := range l {
		sb.WriteString(strconv.FormatFloat(c[0], 'g', -1, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(c[1], 'g', -1, 64))
		sb.WriteByte(';')
	}
	return sb.String()
}

// chain orders pieces into a single closed walk by matching endpoints,
// reversing pieces as needed.  Failure to close is fatal: it means the
// piece classification lost part of the ring.
func (s *SplitHUCs) chain(ids []int) ([]Ref, error) {
	if len(ids) == 0 {
		return nil, errors.New("no boundary pieces")
	}

	used := make([]bool, len(ids))
	refs := []Ref{{Piece: ids[0]}}
	used[0] = true
	first := s.pieces[ids[0]].First()
	cur := s.pieces[ids[0]].Last()

	for n := 1; n < len(ids); n++ {
		found := false
		for k, id := range ids {
			if used[k] {
				continue
			}
			p := s.pieces[id]
			if geometry.Equals(p.First(), cur) {
				refs = append(refs, Ref{Piece: id})
				cur = p.Last()
			} else if geometry.Equals(p.Last(), cur) {
				refs = append(refs, Ref{Piece: id, Reversed: true})
				cur = p.First()
			} else {
				continue
			}
			used[k] = true
			found = true
			break
		}
		if !found {
			return nil, fmt.Errorf("boundary piece chain does not close at %v", cur)
		}
	}

	if !geometry.Equals(cur, first) {
		return nil, fmt.Errorf("boundary piece chain ends at %v, expected %v", cur, first)
	}
	return refs, nil
}

func (s *SplitHUCs) Len() int {
	return len(s.boundaries)
}

func (s *SplitHUCs) NumPieces() int {
	return len(s.pieces)
}

func (s *SplitHUCs) Piece(i int) geometry.LineString {
	return s.pieces[i]
}

// SetPiece replaces a stored piece.  Both referencing polygons see the
// change; endpoints must stay put or the piece chains stop closing.
func (s *SplitHUCs) SetPiece(i int, l geometry.LineString) error {
	if len(l) < 2 {
		return errors.New("Degenerate boundary piece")
	}
	old := s.pieces[i]
	keepsEnds := geometry.Equals(old.First(), l.First()) && geometry.Equals(old.Last(), l.Last())
	keepsEndsReversed := geometry.Equals(old.First(), l.Last()) && geometry.Equals(old.Last(), l.First())
	if !keepsEnds && !keepsEndsReversed {
		return fmt.Errorf("Replacement for piece %d moves its endpoints", i)
	}
	s.pieces[i] = l
	return nil
}

// Owners returns the polygon indices referencing piece i.
func (s *SplitHUCs) Owners(i int) []int {
	return s.owners[i]
}

// Polygon reconstructs the full boundary of polygon i from its piece
// references.
func (s *SplitHUCs) Polygon(i int) (geometry.Polygon, error) {
	refs := s.boundaries[i]
	if len(refs) == 0 {
		return nil, fmt.Errorf("Polygon %d has no boundary pieces", i)
	}

	ring := geometry.LineString{}
	for k, ref := range refs {
		p := s.pieces[ref.Piece]
		if ref.Reversed {
			p = p.Reversed()
		}
		if k == 0 {
			ring = append(ring, p...)
		} else {
			if !geometry.Equals(ring[len(ring)-1], p.First()) {
				return nil, fmt.Errorf("Polygon %d boundary does not close at piece %d", i, ref.Piece)
			}
			ring = append(ring, p[1:]...)
		}
	}

	poly := geometry.Polygon(ring)
	if !poly.Closed() {
		return nil, fmt.Errorf("Polygon %d boundary fails to close", i)
	}
	return poly, nil
}

func (s *SplitHUCs) Polygons() ([]geometry.Polygon, error) {
	out := make([]geometry.Polygon, s.Len())
	for i := range out {
		p, err := s.Polygon(i)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// Segments is a flattened read view of all stored pieces.
func (s *SplitHUCs) Segments() geometry.MultiLine {
	out := make(geometry.MultiLine, len(s.pieces))
	copy(out, s.pieces)
	return out
}

// SharedPieces returns the pieces referenced by exactly two polygons.
func (s *SplitHUCs) SharedPieces() geometry.MultiLine {
	out := geometry.MultiLine{}
	for i, o := range s.owners {
		if len(o) == 2 {
			out = append(out, s.pieces[i])
		}
	}
	return out
}

// Nested returns the indices of polygons lying wholly inside another
// polygon's interior.  Nested polygons share no boundary piece with their
// container; adjacency is not nesting.
func (s *SplitHUCs) Nested() ([]int, error) {
	polys, err := s.Polygons()
	if err != nil {
		return nil, err
	}

	out := []int{}
	for i, pi := range polys {
		for j, pj := range polys {
			if i == j || s.sharePiece(i, j) {
				continue
			}
			if pi.Area() < pj.Area() && pj.Contains(pi.Centroid()) {
				out = append(out, i)
				break
			}
		}
	}
	return out, nil
}

func (s *SplitHUCs) sharePiece(a, b int) bool {
	for _, owners := range s.owners {
		hasA, hasB := false, false
		for _, o := range owners {
			if o == a {
				hasA = true
			}
			if o == b {
				hasB = true
			}
		}
		if hasA && hasB {
			return true
		}
	}
	return false
}

// Exterior merges the uniquely-owned pieces into the outer boundary of the
// whole collection.  Rings nested inside another ring are discarded.
func (s *SplitHUCs) Exterior() (geometry.Polygon, error) {
	unique := geometry.MultiLine{}
	for i, o := range s.owners {
		if len(o) == 1 {
			unique = append(unique, s.pieces[i])
		}
	}
	if len(unique) == 0 {
		return nil, errors.New("No uniquely-owned boundary pieces")
	}

	rings, err := mergeRings(unique)
	if err != nil {
		return nil, fmt.Errorf("Failed to build exterior: %s", err)
	}

	best := -1
	bestArea := 0.0
	for i, r := range rings {
		if a := r.Area(); best < 0 || a > bestArea {
			best = i
			bestArea = a
		}
	}
	return rings[best], nil
}
