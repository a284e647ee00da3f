package hydrography

import (
	"fmt"
	"log"
	"sort"

	"github.com/amanzi/watershed-workflow/geometry"
	"github.com/amanzi/watershed-workflow/rivertree"
	"github.com/amanzi/watershed-workflow/splithucs"
)

// CleanOptions control the simplify-and-prune pipeline.
type CleanOptions struct {
	// Simplify is the simplification tolerance, in units of the CRS.
	Simplify float64
	// PruneReachSize removes rivers with fewer than this many reaches.
	PruneReachSize int
	// CutIntersections cuts boundary segments at river crossings.
	CutIntersections bool
}

// SimplifyAndPrune cleans a boundary/river pair into a mutually consistent
// state: filter, tree build, prune, river cleanup, boundary simplify, snap.
// Each stage is total over its input; running out of reaches or rivers is a
// valid terminal state, not an error.  The hucs object is modified in place.
func SimplifyAndPrune(hucs *splithucs.SplitHUCs, reaches []geometry.LineString, opts CleanOptions) ([]*rivertree.Tree, error) {
	tol := opts.Simplify

	log.Println("")
	log.Println("Simplifying and pruning")
	log.Println("------------------------------")

	log.Println("Filtering rivers outside of the HUC space")
	exterior, err := hucs.Exterior()
	if err != nil {
		return nil, fmt.Errorf("Failed to build HUC exterior: %s", err)
	}
	reaches, err = FilterRiversToShape(exterior, reaches, tol)
	if err != nil {
		return nil, fmt.Errorf("Failed to filter rivers: %s", err)
	}
	if len(reaches) == 0 {
		return []*rivertree.Tree{}, nil
	}

	log.Println("Generating the river tree")
	rivers, err := rivertree.MakeGlobalTree(reaches, tol)
	if err != nil {
		return nil, fmt.Errorf("Failed to build river tree: %s", err)
	}

	log.Printf("Removing rivers with fewer than %d reaches", opts.PruneReachSize)
	for _, river := range rivers {
		if river.Len() < opts.PruneReachSize {
			log.Printf("  ...removing river with %d reaches", river.Len())
		} else {
			log.Printf("  ...keeping river with %d reaches", river.Len())
		}
	}
	rivers = rivertree.Prune(rivers, opts.PruneReachSize)
	if len(rivers) == 0 {
		return rivers, nil
	}

	log.Println("Simplifying rivers")
	err = rivertree.Cleanup(rivers, tol, tol, tol)
	if err != nil {
		return nil, fmt.Errorf("Failed to clean rivers: %s", err)
	}

	log.Println("Simplifying HUCs")
	err = hucs.Simplify(tol)
	if err != nil {
		return nil, fmt.Errorf("Failed to simplify HUCs: %s", err)
	}

	log.Println("Snapping rivers and HUCs")
	err = Snap(hucs, rivers, 3*tol, opts.CutIntersections)
	if err != nil {
		return nil, fmt.Errorf("Failed to snap: %s", err)
	}

	logDiagnostics(hucs, rivers)
	return rivers, nil
}

// logDiagnostics reports minimum and median segment lengths.  Informational
// only; short segments degrade mesh quality but never fail the pipeline.
func logDiagnostics(hucs *splithucs.SplitHUCs, rivers []*rivertree.Tree) {
	log.Println("")
	log.Println("Simplification diagnostics")
	log.Println("------------------------------")

	if len(rivers) > 0 {
		mins := []float64{}
		for _, t := range rivers {
			it := t.DFS()
			for idx, ok := it.Next(); ok; idx, ok = it.Next() {
				mins = append(mins, t.Node(idx).Reach.MinSegment())
			}
		}
		log.Printf("  river min seg length: %g", minOf(mins))
		log.Printf("  river median seg length: %g", medianOf(mins))
	}

	mins := []float64{}
	for _, seg := range hucs.Segments() {
		mins = append(mins, seg.MinSegment())
	}
	log.Printf("  HUC min seg length: %g", minOf(mins))
	log.Printf("  HUC median seg length: %g", medianOf(mins))
}

func minOf(vals []float64) float64 {
	min := vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func medianOf(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}
