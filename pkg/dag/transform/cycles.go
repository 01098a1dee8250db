package transform

import (
	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/search/graphwalk"
)

// BreakCycles removes back edges until the graph is acyclic and returns the
// number of edges removed.
//
// The walk starts from the source nodes in insertion order, then from any
// node not reached yet, so components that are pure cycles are covered too.
// An edge is a back edge when it points at a node on the current walk path;
// removing every back edge of a depth-first walk leaves the graph acyclic.
// The choice is deterministic but not a minimum feedback arc set.
//
// Parallel edges between the same pair are removed together and counted
// once.
func BreakCycles(g *dag.DAG) int {
	roots := dag.NodeIDs(g.Sources())
	roots = append(roots, g.IDs()...)

	seen := make(map[graphwalk.Edge[string]]struct{})
	for _, e := range graphwalk.BackEdges[string](g, roots...) {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		g.RemoveEdge(e.From, e.To)
	}
	return len(seen)
}
