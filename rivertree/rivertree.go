// Package rivertree builds hierarchical river networks out of reach
// geometries.  Every tree is an index-addressed arena of nodes: parents are
// stored as an optional index, children as an owned index list, so the
// structure carries no reference cycles.
package rivertree

import (
	"fmt"
	"math"

	"github.com/amanzi/watershed-workflow/geometry"
)

// Node owns one reach.  Coordinates run from the inlet (upstream, first)
// to the outlet (downstream, last).
type Node struct {
	Reach    geometry.LineString
	Parent   int // -1 for the root
	Children []int
}

// Inlet is the upstream endpoint of the reach.
func (n *Node) Inlet() geometry.Coordinate { return n.Reach.First() }

// Outlet is the downstream endpoint of the reach.
func (n *Node) Outlet() geometry.Coordinate { return n.Reach.Last() }

// Tree is one connected river network, rooted at the outlet-most reach.
type Tree struct {
	nodes []Node
}

func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the outlet node.  The root is always index 0.
func (t *Tree) Root() *Node { return &t.nodes[0] }

func (t *Tree) Node(i int) *Node { return &t.nodes[i] }

// Leaves returns the indices of nodes with no tributaries.
func (t *Tree) Leaves() []int {
	out := []int{}
	for i := range t.nodes {
		if len(t.nodes[i].Children) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// MakeGlobalTree connects reach A as an upstream tributary of reach B when
// A's outlet lies within tol of B's inlet.  Reaches with no downstream
// match become roots; the result is one tree per independent network.
//
// Degenerate or self-crossing reaches are fatal: they signal corrupted
// upstream data, not something the tree builder can repair.
func MakeGlobalTree(reaches []geometry.LineString, tol float64) ([]*Tree, error) {
	for i, r := range reaches {
		if len(r) < 2 || r.Length() == 0 {
			return nil, fmt.Errorf("Degenerate reach %d", i)
		}
		g, err := geometry.LineToGeos(r)
		if err != nil {
			return nil, fmt.Errorf("Failed to load reach %d: %s", i, err)
		}
		simple, err := g.IsSimple()
		if err != nil {
			return nil, err
		}
		if !simple {
			return nil, fmt.Errorf("Self-crossing reach %d", i)
		}
	}

	// Downstream matching: nearest inlet within tol, lowest index on ties.
	parent := make([]int, len(reaches))
	children := make([][]int, len(reaches))
	for i := range parent {
		parent[i] = -1
	}
	for i, r := range reaches {
		best := -1
		bestDist := math.Inf(1)
		for j, other := range reaches {
			if i == j {
				continue
			}
			d := geometry.Distance(r.Last(), other.First())
			if d <= tol && d < bestDist {
				best = j
				bestDist = d
			}
		}
		if best >= 0 {
			parent[i] = best
			children[best] = append(children[best], i)
		}
	}

	// Every reach must be reachable from a root; anything left over sits
	// on a cycle.
	visited := make([]bool, len(reaches))
	forest := []*Tree{}
	for root := range reaches {
		if parent[root] != -1 {
			continue
		}

		t := &Tree{}
		addSubtree(t, -1, root, reaches, children, visited)
		forest = append(forest, t)
	}

	for i, seen := range visited {
		if !seen {
			return nil, fmt.Errorf("Reach %d participates in a cycle", i)
		}
	}

	return forest, nil
}

// addSubtree copies nodes into the tree-local arena in preorder.
func addSubtree(t *Tree, parentIdx, reach int, reaches []geometry.LineString, children [][]int, visited []bool) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, Node{
		Reach:  reaches[reach].Clone(),
		Parent: parentIdx,
	})
	visited[reach] = true

	for _, child := range children[reach] {
		childIdx := addSubtree(t, idx, child, reaches, children, visited)
		t.nodes[idx].Children = append(t.nodes[idx].Children, childIdx)
	}
	return idx
}

// DFS returns a restartable preorder iterator, root towards leaves.
// The order is deterministic given child ordering.
func (t *Tree) DFS() *DFSIterator {
	if t.Len() == 0 {
		return &DFSIterator{t: t}
	}
	return &DFSIterator{t: t, stack: []int{0}}
}

type DFSIterator struct {
	t     *Tree
	stack []int
}

// Next yields the next node index, or false when exhausted.
func (it *DFSIterator) Next() (int, bool) {
	if len(it.stack) == 0 {
		return 0, false
	}
	idx := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]

	// Push children reversed so the first child pops first.
	children := it.t.nodes[idx].Children
	for i := len(children) - 1; i >= 0; i-- {
		it.stack = append(it.stack, children[i])
	}
	return idx, true
}

// ForestToList flattens all reaches across all trees into one collection,
// in DFS order per tree.
func ForestToList(forest []*Tree) geometry.MultiLine {
	out := geometry.MultiLine{}
	for _, t := range forest {
		it := t.DFS()
		for idx, ok := it.Next(); ok; idx, ok = it.Next() {
			out = append(out, t.nodes[idx].Reach)
		}
	}
	return out
}

// Prune discards whole trees with fewer than minReaches reaches.  Pruning
// never splits a tree.
func Prune(forest []*Tree, minReaches int) []*Tree {
	out := make([]*Tree, 0, len(forest))
	for _, t := range forest {
		if t.Len() >= minReaches {
			out = append(out, t)
		}
	}
	return out
}
