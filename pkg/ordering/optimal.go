package ordering

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/dag/perm"
	"github.com/matzehuels/statewalk/pkg/observability"
	"github.com/matzehuels/statewalk/pkg/search"
)

// DefaultMaxCandidates caps the permutations tried per row (7!).
const DefaultMaxCandidates = 5040

// OptimalSearch finds a minimum-crossing ordering by branch and bound.
//
// The search tree has one level per row. A node at depth d has fixed the
// order of the first d rows; its children are the candidate orders of row
// d, tried cheapest first by the crossings they add. A branch is cut as
// soon as its partial crossing count reaches the best complete ordering
// found so far, which starts from the [Barycentric] result.
//
// Rows wider than the candidate cap only see the first MaxCandidates
// permutations in lexicographic order (plus the barycentric one), in which
// case the result is not guaranteed optimal.
type OptimalSearch struct {
	// Timeout bounds the search. Zero means no limit beyond the context.
	Timeout time.Duration
	// MaxCandidates caps the candidate orders per row.
	MaxCandidates int
	// Progress, if set, is called with the explored and pruned counts and
	// the best crossing count whenever the bound improves and once at the
	// end.
	Progress func(explored, pruned, best int)
	// Debug, if set, receives search space statistics when the search ends.
	Debug func(DebugInfo)
}

// DebugInfo describes the search space of a finished [OptimalSearch].
type DebugInfo struct {
	Rows      []RowInfo
	MaxDepth  int
	TotalRows int
}

// RowInfo describes one row of the search space.
type RowInfo struct {
	Row        int
	NodeCount  int
	Candidates int
}

// OrderRows implements [Orderer].
func (o OptimalSearch) OrderRows(g *dag.DAG) map[int][]string {
	return o.Search(context.Background(), g).Orders
}

// OrderRowsContext implements [ContextOrderer].
func (o OptimalSearch) OrderRowsContext(ctx context.Context, g *dag.DAG) map[int][]string {
	return o.Search(ctx, g).Orders
}

// Search implements [Searcher]. It always returns a valid ordering; when
// the context or the timeout ends the search early the best ordering found
// so far is returned with Complete unset.
func (o OptimalSearch) Search(ctx context.Context, g *dag.DAG) Result {
	start := time.Now()
	hooks := observability.Search()
	hooks.OnSearchStart(ctx, AlgorithmOptimal, g.NodeCount())

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	ix := dag.NewIndex(g)
	bary := Barycentric{}.Search(ctx, g)
	b := newBnB(ctx, ix, indexPerms(ix, bary.Orders), o.maxCandidates())
	b.progress = o.Progress

	res := b.run()
	res.Orders = ix.Orders(b.bestPerms)

	if o.Progress != nil {
		o.Progress(res.Explored, res.Pruned, res.Crossings)
	}
	if o.Debug != nil {
		o.Debug(b.debugInfo())
	}
	hooks.OnSearchComplete(ctx, AlgorithmOptimal, observability.SearchStats{
		Explored: res.Explored,
		Pruned:   res.Pruned,
		Best:     res.Crossings,
		Complete: res.Complete,
	}, time.Since(start), nil)
	return res
}

func (o OptimalSearch) maxCandidates() int {
	if o.MaxCandidates > 0 {
		return o.MaxCandidates
	}
	return DefaultMaxCandidates
}

// partial is a search-tree node: the orders fixed for rows 0..len(perms)-1
// and the running crossing count after each of them.
type partial struct {
	perms [][]int
	cost  []int
}

func (p *partial) crossings() int { return p.cost[len(p.cost)-1] }

// bnb is the transition model and policy of the branch-and-bound search.
// Actions are indices into cands[depth].
type bnb struct {
	ctx       context.Context
	ix        *dag.Index
	ws        *dag.CrossingWorkspace
	cands     [][][]int
	truncated bool
	score     []int

	best      int
	bestPerms [][]int
	gen       *search.Generator[partial, int]
	progress  func(explored, pruned, best int)

	cut      int
	ticks    int
	stopped  bool
	maxDepth int
}

const checkEvery = 1024

func newBnB(ctx context.Context, ix *dag.Index, initial [][]int, limit int) *bnb {
	b := &bnb{
		ctx:       ctx,
		ix:        ix,
		ws:        dag.NewCrossingWorkspace(ix.MaxWidth),
		cands:     make([][][]int, len(ix.Rows)),
		bestPerms: initial,
	}
	b.best = ix.Crossings(initial, b.ws)
	for r, row := range ix.Rows {
		n := len(row)
		all := perm.Generate(n, limit)
		if len(all) == limit && (n > 20 || perm.Factorial(n) > limit) {
			b.truncated = true
		}
		b.cands[r] = append(b.cands[r], initial[r])
		for _, p := range all {
			if !slices.Equal(p, initial[r]) {
				b.cands[r] = append(b.cands[r], p)
			}
		}
	}
	return b
}

func (b *bnb) Apply(s *partial, c int) {
	d := len(s.perms)
	p := b.cands[d][c]
	cost := s.crossings()
	if d > 0 {
		cost += dag.CountCrossingsIdx(b.ix.Down[d-1], s.perms[d-1], p, b.ws)
	}
	s.perms = append(s.perms, p)
	s.cost = append(s.cost, cost)
	b.maxDepth = max(b.maxDepth, d+1)
}

func (b *bnb) Rollback(s *partial, _ int) {
	s.perms = s.perms[:len(s.perms)-1]
	s.cost = s.cost[:len(s.cost)-1]
}

// AppendActions offers the candidate orders of the next row, cheapest
// first, leaving out those that already reach the bound.
func (b *bnb) AppendActions(dst []int, s *partial) []int {
	d := len(s.perms)
	if d >= len(b.cands) {
		return dst
	}
	start := len(dst)
	for c := range b.cands[d] {
		dst = append(dst, c)
	}
	if d == 0 {
		return dst
	}

	b.score = b.score[:0]
	for _, p := range b.cands[d] {
		b.score = append(b.score, dag.CountCrossingsIdx(b.ix.Down[d-1], s.perms[d-1], p, b.ws))
	}
	acts := dst[start:]
	slices.SortStableFunc(acts, func(x, y int) int { return cmp.Compare(b.score[x], b.score[y]) })
	base := s.crossings()
	for i, c := range acts {
		if base+b.score[c] >= b.best {
			b.cut += len(acts) - i
			return dst[:start+i]
		}
	}
	return dst
}

func (b *bnb) IsTerminal(s *partial) bool { return len(s.perms) == len(b.cands) }

func (b *bnb) ShouldContinue(s *partial) bool {
	b.ticks++
	if b.ticks%checkEvery == 0 && b.ctx.Err() != nil {
		b.stopped = true
	}
	return !b.stopped && s.crossings() < b.best
}

func (b *bnb) run() Result {
	res := Result{Crossings: b.best}
	if b.best == 0 {
		res.Complete = true
		return res
	}
	if b.ctx.Err() != nil {
		return res
	}

	root := partial{
		perms: make([][]int, 0, len(b.cands)),
		cost:  append(make([]int, 0, len(b.cands)+1), 0),
	}
	b.gen = search.NewGenerator(root, search.Environment[partial, int](b), b, search.PolicyOf[partial](b))
	for b.gen.Next() {
		s := b.gen.Current()
		if c := s.crossings(); c < b.best {
			b.best = c
			b.bestPerms = slices.Clone(s.perms)
			stats := b.gen.Stats()
			observability.Search().OnSearchImprove(b.ctx, AlgorithmOptimal, c)
			if b.progress != nil {
				b.progress(stats.Entered, stats.Pruned+b.cut, c)
			}
			if c == 0 {
				break
			}
		}
		if b.stopped {
			break
		}
	}

	stats := b.gen.Stats()
	res.Crossings = b.best
	res.Explored = stats.Entered
	res.Pruned = stats.Pruned + b.cut
	res.Complete = b.best == 0 || (b.gen.Done() && !b.stopped && !b.truncated)
	return res
}

func (b *bnb) debugInfo() DebugInfo {
	info := DebugInfo{MaxDepth: b.maxDepth, TotalRows: len(b.ix.Rows)}
	for r, row := range b.ix.Rows {
		info.Rows = append(info.Rows, RowInfo{
			Row:        b.ix.RowIDs[r],
			NodeCount:  len(row),
			Candidates: len(b.cands[r]),
		})
	}
	return info
}
