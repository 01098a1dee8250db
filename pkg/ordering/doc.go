// Package ordering provides algorithms for determining the left-to-right
// arrangement of nodes within each row of a layered graph.
//
// # The Ordering Problem
//
// Edge crossings between consecutive rows depend only on the order of the
// nodes in each row. Finding an ordering with the minimum number of
// crossings is NP-hard, so this package offers algorithms with different
// trade-offs:
//
//   - [Barycentric]: fast heuristic, a few sweeps over the rows
//   - [OptimalSearch]: exact branch and bound on the search engine
//   - [Annealing]: randomized local search on adjacent swaps
//
// # Barycentric Heuristic
//
// The classic Sugiyama barycenter method. Each sweep sorts a row by the
// average position of its neighbors in the previous row, alternating
// top-down and bottom-up, then transposes adjacent nodes while that lowers
// the crossing count. It runs in milliseconds but gives no guarantee, and
// seeds the other two algorithms.
//
// # Optimal Search
//
// [OptimalSearch] drives a [search.Generator] over a tree whose depth d
// fixes the order of row d. Crossings are counted incrementally with
// Fenwick trees as each row is placed, candidates are tried cheapest first
// and the continuation policy cuts every branch that already reaches the
// best complete ordering. A timeout returns the best ordering so far.
//
// # Annealing
//
// [Annealing] runs the [anneal.Solver] over adjacent swaps, with the
// crossing count updated in O(degree²) per move.
//
// # Usage
//
// The [Orderer] interface allows algorithms to be used interchangeably:
//
//	var orderer ordering.Orderer = ordering.Barycentric{Passes: 24}
//	orders := orderer.OrderRows(g)  // map[row][]nodeID
//
// [Searcher] adds statistics:
//
//	res := ordering.OptimalSearch{Timeout: 30 * time.Second}.Search(ctx, g)
//	fmt.Println(res.Crossings, res.Complete)
//
// # Quality Presets
//
// The [Quality] type provides preset timeouts:
//
//   - [QualityFast]: 100ms timeout, suitable for interactive use
//   - [QualityBalanced]: 5s timeout, good for most graphs
//   - [QualityOptimal]: 60s timeout
package ordering
