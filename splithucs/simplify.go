package splithucs

import (
	"fmt"

	"github.com/amanzi/watershed-workflow/geometry"
)

// Simplify reduces every stored piece exactly once, then every polygon
// rebuilt from the pieces sees the same simplified walls.  Simplifying each
// polygon independently instead is the classic way to crack shared
// boundaries, which this representation exists to avoid.
func (s *SplitHUCs) Simplify(tol float64) error {
	for i, piece := range s.pieces {
		simplified := geometry.SimplifyDouglasPeucker(piece, tol)

		// A piece forming a complete ring must keep enough vertices
		// to stay a ring.
		closed := geometry.Equals(piece.First(), piece.Last())
		if closed && len(simplified) < 4 {
			continue
		}
		if len(simplified) < 2 {
			return fmt.Errorf("Simplification collapsed piece %d", i)
		}

		s.pieces[i] = simplified
	}
	return nil
}
