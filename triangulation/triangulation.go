// Package triangulation turns a cleaned boundary/river pair into the planar
// straight-line graph fed to a constrained triangulation kernel, and checks
// the kernel's output against the input constraints.
package triangulation

import (
	"fmt"
	"math"

	"github.com/amanzi/watershed-workflow/geometry"
	"github.com/amanzi/watershed-workflow/rivertree"
	"github.com/amanzi/watershed-workflow/splithucs"
)

// PSLG is a planar straight-line graph: vertices plus non-crossing
// constraint edges.  Holes mark interior points of regions left unmeshed.
type PSLG struct {
	Vertices []geometry.Coordinate
	Segments [][2]int
	Holes    []geometry.Coordinate

	index map[geometry.Coordinate]int
}

func NewPSLG() *PSLG {
	return &PSLG{index: make(map[geometry.Coordinate]int)}
}

// AddVertex returns the index of c, inserting it if unseen.  Coordinates
// are matched exactly: conformity is the snapping pipeline's job, not the
// graph builder's.
func (p *PSLG) AddVertex(c geometry.Coordinate) int {
	if i, ok := p.index[c]; ok {
		return i
	}
	i := len(p.Vertices)
	p.Vertices = append(p.Vertices, c)
	p.index[c] = i
	return i
}

// AddLine adds every segment of l as a constraint edge.
func (p *PSLG) AddLine(l geometry.LineString) {
	for i := 1; i < len(l); i++ {
		a := p.AddVertex(l[i-1])
		b := p.AddVertex(l[i])
		if a != b {
			p.Segments = append(p.Segments, [2]int{a, b})
		}
	}
}

// FromSplitHUCs builds the PSLG for a boundary and river forest: all
// boundary pieces as edges plus all reaches as internal constraint edges.
// Polygons nested inside another polygon's interior become holes, marked by
// an interior point.
func FromSplitHUCs(hucs *splithucs.SplitHUCs, rivers []*rivertree.Tree) (*PSLG, error) {
	p := NewPSLG()

	for _, seg := range hucs.Segments() {
		p.AddLine(seg)
	}
	for _, line := range rivertree.ForestToList(rivers) {
		p.AddLine(line)
	}

	nested, err := hucs.Nested()
	if err != nil {
		return nil, err
	}
	for _, i := range nested {
		poly, err := hucs.Polygon(i)
		if err != nil {
			return nil, err
		}
		p.Holes = append(p.Holes, poly.Centroid())
	}

	if len(p.Vertices) < 3 {
		return nil, fmt.Errorf("Degenerate PSLG with %d vertices", len(p.Vertices))
	}
	return p, nil
}

// Mesh is the kernel's output: 2D vertices and consistently wound triangle
// index triplets.
type Mesh struct {
	Vertices  []geometry.Coordinate
	Triangles [][3]int
}

// Options are passed through to the kernel.  The kernel may invoke Refine
// any number of times; the predicate must be side-effect free.
type Options struct {
	Refine          RefineFunc
	MinAngle        float64 // degrees; 0 leaves the kernel default
	EnforceDelaunay bool
	Verbose         bool
}

// Kernel is the external constrained-triangulation capability.
type Kernel interface {
	Triangulate(pslg *PSLG, opts *Options) (*Mesh, error)
}

// Verify checks the kernel output contract: every input vertex appears
// verbatim, all indices are in range, winding is consistent, and the
// triangle areas sum to the domain area within relative tolerance.
func Verify(pslg *PSLG, mesh *Mesh, domainArea float64) error {
	present := make(map[geometry.Coordinate]bool, len(mesh.Vertices))
	for _, v := range mesh.Vertices {
		present[v] = true
	}
	for i, v := range pslg.Vertices {
		if !present[v] {
			return fmt.Errorf("Input vertex %d (%g, %g) missing from output", i, v[0], v[1])
		}
	}

	totalArea := 0.0
	orientation := 0
	for i, tri := range mesh.Triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= len(mesh.Vertices) {
				return fmt.Errorf("Triangle %d references vertex %d out of range", i, idx)
			}
		}

		a := mesh.Vertices[tri[0]]
		b := mesh.Vertices[tri[1]]
		c := mesh.Vertices[tri[2]]
		signed := (b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])
		if signed == 0 {
			return fmt.Errorf("Triangle %d is degenerate", i)
		}
		sign := 1
		if signed < 0 {
			sign = -1
		}
		if orientation == 0 {
			orientation = sign
		} else if sign != orientation {
			return fmt.Errorf("Triangle %d has inconsistent winding", i)
		}

		totalArea += math.Abs(signed) / 2
	}

	if domainArea > 0 {
		if math.Abs(totalArea-domainArea) > 1e-6*domainArea {
			return fmt.Errorf("Triangle areas sum to %g, expected %g", totalArea, domainArea)
		}
	}
	return nil
}

// Triangulate drives the kernel for a cleaned boundary/river pair,
// composing the active refinement criteria with a logical OR.
func Triangulate(hucs *splithucs.SplitHUCs, rivers []*rivertree.Tree, kernel Kernel, args RefineArgs, opts *Options) (*Mesh, error) {
	pslg, err := FromSplitHUCs(hucs, rivers)
	if err != nil {
		return nil, err
	}

	refine, err := args.Compose(rivers)
	if err != nil {
		return nil, err
	}
	kopts := Options{}
	if opts != nil {
		kopts = *opts
	}
	kopts.Refine = refine

	mesh, err := kernel.Triangulate(pslg, &kopts)
	if err != nil {
		return nil, fmt.Errorf("Failed to triangulate: %s", err)
	}

	exterior, err := hucs.Exterior()
	if err != nil {
		return nil, err
	}
	area := exterior.Area()
	nested, err := hucs.Nested()
	if err != nil {
		return nil, err
	}
	for _, i := range nested {
		poly, err := hucs.Polygon(i)
		if err != nil {
			return nil, err
		}
		area -= poly.Area()
	}
	if err := Verify(pslg, mesh, area); err != nil {
		return nil, err
	}
	return mesh, nil
}
