// Package graphwalk adapts directed graphs to the search engine.
//
// A graph becomes a search tree by treating the path walked so far as the
// state and the next node as the action. The path keeps an on-path set so
// cycles are cut at the first repeated node, which keeps the tree finite for
// any finite graph. Visited-node bookkeeping for the linear-time walks
// (reachability, back edges) lives in the walker, not in the state, so every
// Apply is still undone exactly by its Rollback.
//
// Any type with a Children method satisfies [Graph]; *dag.DAG does.
package graphwalk

import (
	"iter"

	"github.com/matzehuels/statewalk/pkg/search"
)

// Graph is a directed graph given by its successor function.
type Graph[N comparable] interface {
	Children(node N) []N
}

// GraphFunc adapts a successor function to [Graph].
type GraphFunc[N comparable] func(node N) []N

// Children calls f(node).
func (f GraphFunc[N]) Children(node N) []N { return f(node) }

// Edge is a directed edge.
type Edge[N comparable] struct {
	From, To N
}

// Trail is a path from a root, the search state of every walk in this
// package.
type Trail[N comparable] struct {
	Nodes  []N
	onPath map[N]struct{}
}

// NewTrail starts a trail at root.
func NewTrail[N comparable](root N) Trail[N] {
	return Trail[N]{
		Nodes:  []N{root},
		onPath: map[N]struct{}{root: {}},
	}
}

// Last returns the node the trail ends at.
func (t *Trail[N]) Last() N { return t.Nodes[len(t.Nodes)-1] }

// Contains reports whether n is on the trail.
func (t *Trail[N]) Contains(n N) bool {
	_, ok := t.onPath[n]
	return ok
}

// Steps moves a [Trail] along graph edges. It implements
// [search.Environment], [search.ActionsGenerator] and [search.TerminalPolicy]:
// the available actions are the children of the last node that are not
// already on the trail, and a trail is terminal when its last node is a sink.
type Steps[N comparable] struct {
	G Graph[N]
	// OnBackEdge, if set, is called for every edge that leads back onto
	// the trail when a node's children are listed.
	OnBackEdge func(from, to N)
}

// Apply extends the trail by next.
func (Steps[N]) Apply(t *Trail[N], next N) {
	t.Nodes = append(t.Nodes, next)
	t.onPath[next] = struct{}{}
}

// Rollback removes next from the end of the trail.
func (Steps[N]) Rollback(t *Trail[N], next N) {
	t.Nodes = t.Nodes[:len(t.Nodes)-1]
	delete(t.onPath, next)
}

// AppendActions appends the children of the trail's last node that would
// not close a cycle.
func (s Steps[N]) AppendActions(dst []N, t *Trail[N]) []N {
	last := t.Last()
	for _, c := range s.G.Children(last) {
		if t.Contains(c) {
			if s.OnBackEdge != nil {
				s.OnBackEdge(last, c)
			}
			continue
		}
		dst = append(dst, c)
	}
	return dst
}

// IsTerminal reports whether the trail ends at a sink.
func (s Steps[N]) IsTerminal(t *Trail[N]) bool {
	return len(s.G.Children(t.Last())) == 0
}

// Paths yields every simple path from root to a sink, in depth-first order.
// The yielded slice is reused; copy it to keep it. Paths that can only
// continue into a cycle end nowhere and are not yielded.
func Paths[N comparable](g Graph[N], root N) iter.Seq[[]N] {
	return func(yield func([]N) bool) {
		steps := Steps[N]{G: g}
		gen := search.NewGenerator(NewTrail(root), search.Environment[Trail[N], N](steps), steps, search.PolicyOf[Trail[N]](steps))
		for t := range gen.All() {
			if !yield(t.Nodes) {
				return
			}
		}
	}
}

// walker is a depth-first walk that enters every node reachable from the
// roots once. Re-entered nodes are cut by SkipChildren, so the walk is
// linear in the size of the reachable subgraph.
type walker[N comparable] struct {
	g       Graph[N]
	visited map[N]struct{}
	// visit is called on the first entry of a node. Returning false stops
	// the walk.
	visit func(node N, depth int) bool
	// back is called for every edge leading onto the current trail.
	// Returning false stops the walk.
	back func(from, to N) bool
	// again is called when an already visited node is entered a second
	// time. Returning false stops the walk.
	again func(node N) bool
}

func newWalker[N comparable](g Graph[N]) *walker[N] {
	return &walker[N]{g: g, visited: make(map[N]struct{})}
}

func (w *walker[N]) run(roots ...N) {
	stopped := false
	steps := Steps[N]{G: w.g, OnBackEdge: func(from, to N) {
		if !stopped && w.back != nil && !w.back(from, to) {
			stopped = true
		}
	}}
	for _, root := range roots {
		if _, seen := w.visited[root]; seen {
			continue
		}
		v := search.NewVisitor(NewTrail(root), search.Environment[Trail[N], N](steps), steps)
		for t := range v.All() {
			if stopped {
				return
			}
			node := t.Last()
			if _, seen := w.visited[node]; seen {
				v.SkipChildren()
				if w.again != nil && !w.again(node) {
					return
				}
				continue
			}
			w.visited[node] = struct{}{}
			if w.visit != nil && !w.visit(node, v.Depth()) {
				return
			}
		}
		if stopped {
			return
		}
	}
}

// Reachable returns the nodes reachable from roots in depth-first pre-order,
// each once.
func Reachable[N comparable](g Graph[N], roots ...N) []N {
	var out []N
	w := newWalker(g)
	w.visit = func(n N, _ int) bool {
		out = append(out, n)
		return true
	}
	w.run(roots...)
	return out
}

// BackEdges returns the edges that close a cycle during a depth-first walk
// from roots. Removing them leaves the reachable subgraph acyclic.
func BackEdges[N comparable](g Graph[N], roots ...N) []Edge[N] {
	var out []Edge[N]
	w := newWalker(g)
	w.back = func(from, to N) bool {
		out = append(out, Edge[N]{From: from, To: to})
		return true
	}
	w.run(roots...)
	return out
}

// HasCycle reports whether a cycle is reachable from roots. It stops at the
// first back edge.
func HasCycle[N comparable](g Graph[N], roots ...N) bool {
	found := false
	w := newWalker(g)
	w.back = func(N, N) bool {
		found = true
		return false
	}
	w.run(roots...)
	return found
}

// IsTree reports whether the subgraph reachable from root is a tree: no
// node can be reached along two different paths and there is no cycle.
func IsTree[N comparable](g Graph[N], root N) bool {
	tree := true
	w := newWalker(g)
	w.back = func(N, N) bool {
		tree = false
		return false
	}
	w.again = func(N) bool {
		tree = false
		return false
	}
	w.run(root)
	return tree
}
