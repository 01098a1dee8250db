package transform

import (
	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/search/graphwalk"
)

// TransitiveReduction removes every edge u→v for which v is also reachable
// from another child of u, and returns the number of edges removed. The
// graph must be acyclic.
//
// Reachability sets are computed on demand with [graphwalk.Reachable] and
// memoized per node, so the cost is O(V·(V+E)) in the worst case.
func TransitiveReduction(g *dag.DAG) int {
	reach := make(map[string]map[string]struct{})
	reachable := func(from string) map[string]struct{} {
		if r, ok := reach[from]; ok {
			return r
		}
		r := make(map[string]struct{})
		for _, n := range graphwalk.Reachable[string](g, from) {
			r[n] = struct{}{}
		}
		reach[from] = r
		return r
	}

	removed := 0
	for _, e := range g.Edges() {
		for _, w := range g.Children(e.From) {
			if w == e.To {
				continue
			}
			if _, ok := reachable(w)[e.To]; ok {
				g.RemoveEdge(e.From, e.To)
				removed++
				break
			}
		}
	}
	return removed
}
