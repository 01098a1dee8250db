package ordering

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/statewalk/pkg/dag"
)

// DefaultPasses is the number of sweeps [Barycentric] runs when Passes is
// not set.
const DefaultPasses = 24

// Barycentric is the Sugiyama barycenter heuristic. Each sweep sorts a row
// by the mean position of its neighbors in the previous row, alternating
// top-down and bottom-up, and then transposes adjacent nodes while that
// reduces crossings. The best ordering seen is returned.
type Barycentric struct {
	Passes int
}

// OrderRows implements [Orderer].
func (b Barycentric) OrderRows(g *dag.DAG) map[int][]string {
	return b.Search(context.Background(), g).Orders
}

// OrderRowsContext implements [ContextOrderer]. Sweeps stop early when ctx
// is done.
func (b Barycentric) OrderRowsContext(ctx context.Context, g *dag.DAG) map[int][]string {
	return b.Search(ctx, g).Orders
}

// Search implements [Searcher].
func (b Barycentric) Search(ctx context.Context, g *dag.DAG) Result {
	rows := g.RowIDs()
	orders := g.Orders()
	best := cloneOrders(orders)
	bestX := dag.CountCrossings(g, orders)

	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}
	res := Result{}
	for pass := range passes {
		if bestX == 0 || ctx.Err() != nil {
			break
		}
		if pass%2 == 0 {
			for i := 1; i < len(rows); i++ {
				sortByBarycenter(g, orders, rows[i], rows[i-1], true)
			}
		} else {
			for i := len(rows) - 2; i >= 0; i-- {
				sortByBarycenter(g, orders, rows[i], rows[i+1], false)
			}
		}
		transpose(g, orders, rows)
		res.Explored++
		if x := dag.CountCrossings(g, orders); x < bestX {
			best, bestX = cloneOrders(orders), x
		}
	}
	res.Orders, res.Crossings = best, bestX
	res.Complete = bestX == 0
	return res
}

// sortByBarycenter reorders row by the mean position of each node's
// neighbors in the adjacent row. Nodes without neighbors there keep their
// index as key.
func sortByBarycenter(g *dag.DAG, orders map[int][]string, row, adj int, useParents bool) {
	order := orders[row]
	pos := dag.PosMap(orders[adj])
	keys := make(map[string]float64, len(order))
	for i, id := range order {
		nbrs := g.Children(id)
		if useParents {
			nbrs = g.Parents(id)
		}
		sum, n := 0.0, 0
		for _, nb := range nbrs {
			if p, ok := pos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		if n == 0 {
			keys[id] = float64(i)
		} else {
			keys[id] = sum / float64(n)
		}
	}
	slices.SortStableFunc(order, func(a, b string) int { return cmp.Compare(keys[a], keys[b]) })
}

// transpose swaps adjacent nodes as long as a swap strictly reduces the
// crossings with the rows above and below.
func transpose(g *dag.DAG, orders map[int][]string, rows []int) {
	for improved := true; improved; {
		improved = false
		for _, r := range rows {
			order := orders[r]
			up, down := dag.PosMap(orders[r-1]), dag.PosMap(orders[r+1])
			for i := 0; i+1 < len(order); i++ {
				u, v := order[i], order[i+1]
				before := dag.CountPairCrossings(g, u, v, up, true) + dag.CountPairCrossings(g, u, v, down, false)
				after := dag.CountPairCrossings(g, v, u, up, true) + dag.CountPairCrossings(g, v, u, down, false)
				if after < before {
					order[i], order[i+1] = v, u
					improved = true
				}
			}
		}
	}
}
