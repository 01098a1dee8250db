package ordering

import (
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/observability"
	"github.com/matzehuels/statewalk/pkg/search"
	"github.com/matzehuels/statewalk/pkg/search/anneal"
)

// Annealing defaults.
const (
	DefaultFloor      = 0.05
	DefaultCooling    = 0.999
	fluctuationProbes = 200
)

// Annealing improves the [Barycentric] ordering by simulated annealing over
// adjacent swaps. It never returns more crossings than the barycentric
// start and makes no optimality claim.
type Annealing struct {
	// Seed makes runs reproducible.
	Seed uint64
	// Temperature is the starting temperature. Zero estimates it from the
	// mean crossing change of random swaps.
	Temperature float64
	// Floor is the temperature at which the run stops.
	Floor float64
	// Cooling is the geometric cooling factor applied after every move.
	Cooling float64
	// Timeout bounds the run. Zero means no limit beyond the context.
	Timeout time.Duration
}

// OrderRows implements [Orderer].
func (a Annealing) OrderRows(g *dag.DAG) map[int][]string {
	return a.Search(context.Background(), g).Orders
}

// OrderRowsContext implements [ContextOrderer].
func (a Annealing) OrderRowsContext(ctx context.Context, g *dag.DAG) map[int][]string {
	return a.Search(ctx, g).Orders
}

// Search implements [Searcher].
func (a Annealing) Search(ctx context.Context, g *dag.DAG) Result {
	start := time.Now()
	hooks := observability.Search()
	hooks.OnSearchStart(ctx, AlgorithmAnnealing, g.NodeCount())

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	ix := dag.NewIndex(g)
	bary := Barycentric{}.Search(ctx, g)
	sw := newSwapper(ix, a.Seed)
	initial := newLayout(ix, indexPerms(ix, bary.Orders))

	res := Result{Orders: bary.Orders, Crossings: initial.crossings, Complete: initial.crossings == 0}
	if initial.crossings > 0 && sw.pairs > 0 {
		solver := anneal.New(initial, search.Environment[layout, swap](sw), sw, anneal.WeightFunc[layout]((*layout).weight), anneal.Options[layout]{
			Temperature: a.Temperature,
			Seed:        a.Seed,
			Clone:       layout.clone,
		})
		if a.Temperature <= 0 {
			solver.SetTemperature(max(solver.EstimateFluctuation(fluctuationProbes), 1))
		}
		// A deadline only shortens the run; the best layout so far stands.
		_ = solver.Run(ctx, anneal.Geometric(a.cooling()), a.floor())

		best := solver.Best()
		proposed, accepted := solver.Steps()
		res = Result{
			Orders:    ix.Orders(best.perms),
			Crossings: best.crossings,
			Explored:  proposed,
			Pruned:    proposed - accepted,
			Complete:  best.crossings == 0,
		}
	}

	hooks.OnSearchComplete(ctx, AlgorithmAnnealing, observability.SearchStats{
		Explored: res.Explored,
		Pruned:   res.Pruned,
		Best:     res.Crossings,
		Complete: res.Complete,
	}, time.Since(start), nil)
	return res
}

func (a Annealing) floor() float64 {
	if a.Floor > 0 {
		return a.Floor
	}
	return DefaultFloor
}

func (a Annealing) cooling() float64 {
	if a.Cooling > 0 && a.Cooling < 1 {
		return a.Cooling
	}
	return DefaultCooling
}

// layout is a full ordering with the position of every node and the
// crossing count kept current.
type layout struct {
	perms     [][]int
	pos       [][]int
	crossings int
}

func newLayout(ix *dag.Index, perms [][]int) layout {
	l := layout{perms: perms, pos: make([][]int, len(perms))}
	for r, p := range perms {
		l.pos[r] = make([]int, len(p))
		for i, idx := range p {
			l.pos[r][idx] = i
		}
	}
	l.crossings = ix.Crossings(perms, dag.NewCrossingWorkspace(ix.MaxWidth))
	return l
}

func (l layout) clone() layout {
	c := layout{perms: make([][]int, len(l.perms)), pos: make([][]int, len(l.pos)), crossings: l.crossings}
	for r := range l.perms {
		c.perms[r] = slices.Clone(l.perms[r])
		c.pos[r] = slices.Clone(l.pos[r])
	}
	return c
}

func (l *layout) weight() float64 { return float64(l.crossings) }

// swap exchanges the nodes at positions I and I+1 of a row.
type swap struct {
	Row, I int
}

// swapper proposes one uniformly random adjacent swap per call. Swaps are
// their own inverse.
type swapper struct {
	ix    *dag.Index
	rng   *rand.Rand
	slots []int // slots[r] = adjacent pairs in rows before r
	pairs int
}

func newSwapper(ix *dag.Index, seed uint64) *swapper {
	s := &swapper{
		ix:    ix,
		rng:   rand.New(rand.NewPCG(seed^0x5bd1e995, seed)),
		slots: make([]int, len(ix.Rows)),
	}
	for r, row := range ix.Rows {
		s.slots[r] = s.pairs
		s.pairs += max(len(row)-1, 0)
	}
	return s
}

func (s *swapper) Apply(l *layout, m swap)    { s.swap(l, m) }
func (s *swapper) Rollback(l *layout, m swap) { s.swap(l, m) }

func (s *swapper) AppendActions(dst []swap, _ *layout) []swap {
	if s.pairs == 0 {
		return dst
	}
	k := s.rng.IntN(s.pairs)
	r := 0
	for r+1 < len(s.slots) && s.slots[r+1] <= k {
		r++
	}
	return append(dst, swap{Row: r, I: k - s.slots[r]})
}

func (s *swapper) swap(l *layout, m swap) {
	row := l.perms[m.Row]
	u, v := row[m.I], row[m.I+1]
	l.crossings += s.pairCrossings(l, m.Row, v, u) - s.pairCrossings(l, m.Row, u, v)
	row[m.I], row[m.I+1] = v, u
	l.pos[m.Row][u], l.pos[m.Row][v] = m.I+1, m.I
}

// pairCrossings counts crossings between the edges of left and right when
// left is placed directly before right, against both adjacent rows.
func (s *swapper) pairCrossings(l *layout, r, left, right int) int {
	n := 0
	if r > 0 {
		n += inversions(s.ix.Up[r][left], s.ix.Up[r][right], l.pos[r-1])
	}
	if r+1 < len(l.pos) {
		n += inversions(s.ix.Down[r][left], s.ix.Down[r][right], l.pos[r+1])
	}
	return n
}

func inversions(left, right, pos []int) int {
	n := 0
	for _, a := range left {
		for _, b := range right {
			if pos[a] > pos[b] {
				n++
			}
		}
	}
	return n
}
