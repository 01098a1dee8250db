package dag

import (
	"maps"
	"slices"
)

// CrossingWorkspace holds reusable buffers for [CountCrossingsIdx]. Search
// code evaluates crossings at every node of the search tree, so the buffers
// are allocated once per search.
//
// The workspace is not safe for concurrent use; each goroutine needs its own.
type CrossingWorkspace struct {
	ft  []int // Fenwick tree for counting inversions
	pos []int // Position lookup buffer
}

// NewCrossingWorkspace creates a workspace for rows of up to maxWidth nodes.
// A workspace that is too small makes CountCrossingsIdx panic.
func NewCrossingWorkspace(maxWidth int) *CrossingWorkspace {
	return &CrossingWorkspace{
		ft:  make([]int, maxWidth+2),
		pos: make([]int, maxWidth+2),
	}
}

// CountCrossings returns the total number of edge crossings for the given row
// orderings, summed over each pair of consecutive rows. Rows missing from
// orders are treated as empty.
//
//	orders := map[int][]string{
//	    0: {"app", "cli"},
//	    1: {"lib1", "lib2", "lib3"},
//	}
//	crossings := dag.CountCrossings(g, orders)
func CountCrossings(g *DAG, orders map[int][]string) int {
	rows := slices.Sorted(maps.Keys(orders))
	crossings := 0
	for _, r := range rows {
		if lower, ok := orders[r+1]; ok {
			crossings += CountLayerCrossings(g, orders[r], lower)
		}
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent rows.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// so the count is the number of inversions in the sequence of target
// positions taken in source order, which a Fenwick tree counts in
// O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)
	edges := make([][]int, len(upper))
	for i, id := range upper {
		for _, child := range g.Children(id) {
			if pos, ok := lowerPos[child]; ok {
				edges[i] = append(edges[i], pos)
			}
		}
	}
	return CountCrossingsIdx(edges, Identity(len(upper)), Identity(len(lower)), NewCrossingWorkspace(len(lower)))
}

// CountCrossingsIdx counts crossings using index-based edges and
// permutations. edges[i] lists the lower-row indices of the children of
// upper-row node i. upperPerm and lowerPerm give the left-to-right order of
// each row as a permutation of indices. ws must have been created with
// maxWidth >= len(lowerPerm).
func CountCrossingsIdx(edges [][]int, upperPerm, lowerPerm []int, ws *CrossingWorkspace) int {
	if len(upperPerm) == 0 || len(lowerPerm) == 0 {
		return 0
	}

	for pos, idx := range lowerPerm {
		ws.pos[idx] = pos
	}
	limit := len(lowerPerm) + 1
	clear(ws.ft[:limit])

	crossings, total := 0, 0
	for _, u := range upperPerm {
		targets := edges[u]
		// Edges from the same source never cross each other, so query all of
		// them before inserting any.
		for _, t := range targets {
			lessOrEqual := 0
			for q := ws.pos[t] + 1; q > 0; q -= q & (-q) {
				lessOrEqual += ws.ft[q]
			}
			crossings += total - lessOrEqual
		}
		for _, t := range targets {
			total++
			for q := ws.pos[t] + 1; q < limit; q += q & (-q) {
				ws.ft[q]++
			}
		}
	}
	return crossings
}

// CountPairCrossings counts the crossings between the edges of left and
// right, two nodes of the same row with left placed first. If useParents is
// true it considers edges to the row above, otherwise to the row below.
// adjPos maps the adjacent row's node IDs to their positions.
//
// Swapping two adjacent nodes changes the total crossing count by
// CountPairCrossings(right, left) - CountPairCrossings(left, right) for each
// adjacent row, which is what local search uses to score a swap.
func CountPairCrossings(g *DAG, left, right string, adjPos map[string]int, useParents bool) int {
	var lnbr, rnbr []string
	if useParents {
		lnbr, rnbr = g.Parents(left), g.Parents(right)
	} else {
		lnbr, rnbr = g.Children(left), g.Children(right)
	}

	crossings := 0
	for _, ln := range lnbr {
		lp, ok := adjPos[ln]
		if !ok {
			continue
		}
		for _, rn := range rnbr {
			if rp, ok := adjPos[rn]; ok && lp > rp {
				crossings++
			}
		}
	}
	return crossings
}

// Identity returns the permutation 0, 1, ..., n-1.
func Identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// Index is an integer view of a layered DAG for inner loops that cannot
// afford map lookups.
//
// Rows[r] holds the node IDs of the r-th non-empty row (in RowIDs order) in
// their current order. Down[r][i] holds the indices into Rows[r+1] of the
// children of Rows[r][i]; Up is the reverse. Edges between rows that are not
// consecutive integers are dropped.
type Index struct {
	RowIDs   []int
	Rows     [][]string
	Down, Up [][][]int
	MaxWidth int
}

// NewIndex builds an index from the graph's current row orders.
func NewIndex(g *DAG) *Index {
	ids := g.RowIDs()
	ix := &Index{
		RowIDs: ids,
		Rows:   make([][]string, len(ids)),
		Down:   make([][][]int, len(ids)),
		Up:     make([][][]int, len(ids)),
	}
	pos := make([]map[string]int, len(ids))
	for r, row := range ids {
		ix.Rows[r] = NodeIDs(g.NodesInRow(row))
		pos[r] = PosMap(ix.Rows[r])
		ix.Down[r] = make([][]int, len(ix.Rows[r]))
		ix.Up[r] = make([][]int, len(ix.Rows[r]))
		ix.MaxWidth = max(ix.MaxWidth, len(ix.Rows[r]))
	}
	for r := 0; r+1 < len(ids); r++ {
		if ids[r+1] != ids[r]+1 {
			continue
		}
		for i, id := range ix.Rows[r] {
			for _, c := range g.Children(id) {
				if j, ok := pos[r+1][c]; ok {
					ix.Down[r][i] = append(ix.Down[r][i], j)
					ix.Up[r+1][j] = append(ix.Up[r+1][j], i)
				}
			}
		}
	}
	return ix
}

// Orders converts per-row permutations of indices into Rows back into node
// ID orders keyed by graph row index.
func (ix *Index) Orders(perms [][]int) map[int][]string {
	orders := make(map[int][]string, len(ix.RowIDs))
	for r, row := range ix.RowIDs {
		order := make([]string, len(perms[r]))
		for i, idx := range perms[r] {
			order[i] = ix.Rows[r][idx]
		}
		orders[row] = order
	}
	return orders
}

// Crossings counts the crossings of the given per-row permutations.
func (ix *Index) Crossings(perms [][]int, ws *CrossingWorkspace) int {
	total := 0
	for r := 0; r+1 < len(ix.Rows); r++ {
		total += CountCrossingsIdx(ix.Down[r], perms[r], perms[r+1], ws)
	}
	return total
}
