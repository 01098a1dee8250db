package ordering

import (
	"context"
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/dag/perm"
	"github.com/matzehuels/statewalk/pkg/errors"
)

// randomLayered builds a three-row graph with 2 to 4 nodes per row and
// random edges between consecutive rows.
func randomLayered(t *testing.T, seed uint64) *dag.DAG {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 7))
	g := dag.New(nil)
	var rows [][]string
	for r := range 3 {
		var row []string
		for i := range 2 + rng.IntN(3) {
			id := fmt.Sprintf("n%d_%d", r, i)
			if err := g.AddNode(dag.Node{ID: id, Row: r}); err != nil {
				t.Fatal(err)
			}
			row = append(row, id)
		}
		rows = append(rows, row)
	}
	for r := 0; r+1 < len(rows); r++ {
		for _, u := range rows[r] {
			for _, v := range rows[r+1] {
				if rng.Float64() < 0.45 {
					if err := g.AddEdge(dag.Edge{From: u, To: v}); err != nil {
						t.Fatal(err)
					}
				}
			}
		}
	}
	return g
}

// complete adds every edge between rows 0 and 1.
func complete(t *testing.T, upper, lower int) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for i := range upper {
		_ = g.AddNode(dag.Node{ID: fmt.Sprintf("u%d", i), Row: 0})
	}
	for j := range lower {
		_ = g.AddNode(dag.Node{ID: fmt.Sprintf("l%d", j), Row: 1})
	}
	for i := range upper {
		for j := range lower {
			if err := g.AddEdge(dag.Edge{From: fmt.Sprintf("u%d", i), To: fmt.Sprintf("l%d", j)}); err != nil {
				t.Fatal(err)
			}
		}
	}
	return g
}

func bruteForceMin(g *dag.DAG) int {
	ix := dag.NewIndex(g)
	ws := dag.NewCrossingWorkspace(ix.MaxWidth)
	perms := make([][]int, len(ix.Rows))
	best := -1
	var rec func(r int)
	rec = func(r int) {
		if r == len(ix.Rows) {
			if c := ix.Crossings(perms, ws); best < 0 || c < best {
				best = c
			}
			return
		}
		for _, p := range perm.Generate(len(ix.Rows[r]), 0) {
			perms[r] = p
			rec(r + 1)
		}
	}
	rec(0)
	return best
}

func checkResult(t *testing.T, g *dag.DAG, res Result) {
	t.Helper()
	if !SameRows(g.Orders(), res.Orders) {
		t.Fatalf("orders %v are not a reordering of %v", res.Orders, g.Orders())
	}
	if got := dag.CountCrossings(g, res.Orders); got != res.Crossings {
		t.Errorf("Crossings = %d, but orders have %d", res.Crossings, got)
	}
}

func TestOptimalMatchesBruteForce(t *testing.T) {
	for seed := range uint64(8) {
		t.Run(fmt.Sprint("seed", seed), func(t *testing.T) {
			g := randomLayered(t, seed)
			res := OptimalSearch{}.Search(context.Background(), g)
			checkResult(t, g, res)
			if want := bruteForceMin(g); res.Crossings != want {
				t.Errorf("Crossings = %d, brute force = %d", res.Crossings, want)
			}
			if !res.Complete {
				t.Error("search over full candidate sets should be complete")
			}
		})
	}
}

func TestOptimalUnavoidableCrossings(t *testing.T) {
	// Every ordering of K(2,3) has C(3,2) = 3 crossings.
	g := complete(t, 2, 3)
	res := OptimalSearch{}.Search(context.Background(), g)
	checkResult(t, g, res)
	if res.Crossings != 3 || !res.Complete {
		t.Errorf("got %d crossings (complete=%v), want 3 (complete=true)", res.Crossings, res.Complete)
	}
}

func TestOptimalTruncatedIsIncomplete(t *testing.T) {
	g := complete(t, 2, 5)
	var info DebugInfo
	res := OptimalSearch{MaxCandidates: 10, Debug: func(d DebugInfo) { info = d }}.Search(context.Background(), g)
	checkResult(t, g, res)
	if res.Complete {
		t.Error("truncated candidate lists must not report a complete search")
	}
	if info.TotalRows != 2 || len(info.Rows) != 2 {
		t.Fatalf("DebugInfo = %+v", info)
	}
	// The barycentric order plus at most 10 lexicographic ones.
	if c := info.Rows[1].Candidates; c < 10 || c > 11 {
		t.Errorf("row 1 has %d candidates, want 10 or 11", c)
	}
}

func TestOptimalCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := complete(t, 2, 3)
	res := OptimalSearch{}.Search(ctx, g)
	checkResult(t, g, res)
	if res.Complete {
		t.Error("canceled search reported complete")
	}
}

func TestOptimalProgress(t *testing.T) {
	calls, last := 0, -1
	g := randomLayered(t, 3)
	res := OptimalSearch{Progress: func(explored, pruned, best int) {
		calls++
		last = best
	}}.Search(context.Background(), g)
	if calls == 0 {
		t.Fatal("Progress never called")
	}
	if last != res.Crossings {
		t.Errorf("last progress best = %d, result = %d", last, res.Crossings)
	}
}

func TestBarycentricLeavesGraphUntouched(t *testing.T) {
	g := randomLayered(t, 5)
	before := g.Orders()
	res := Barycentric{}.Search(context.Background(), g)
	checkResult(t, g, res)
	if !reflect.DeepEqual(before, g.Orders()) {
		t.Error("Barycentric modified the graph's row order")
	}
}

func TestAnnealing(t *testing.T) {
	for seed := range uint64(5) {
		g := randomLayered(t, seed)
		bary := Barycentric{}.Search(context.Background(), g)

		a := Annealing{Seed: 42, Cooling: 0.99}
		res := a.Search(context.Background(), g)
		checkResult(t, g, res)
		if res.Crossings > bary.Crossings {
			t.Errorf("seed %d: annealing %d crossings, barycentric %d", seed, res.Crossings, bary.Crossings)
		}

		again := a.Search(context.Background(), g)
		if !reflect.DeepEqual(res, again) {
			t.Errorf("seed %d: same Seed gave different results", seed)
		}
	}
}

func TestSwapKeepsCrossingsCurrent(t *testing.T) {
	g := randomLayered(t, 11)
	ix := dag.NewIndex(g)
	ws := dag.NewCrossingWorkspace(ix.MaxWidth)
	sw := newSwapper(ix, 9)
	l := newLayout(ix, indexPerms(ix, g.Orders()))

	for range 200 {
		acts := sw.AppendActions(nil, &l)
		if len(acts) != 1 {
			t.Fatalf("AppendActions returned %d moves", len(acts))
		}
		before := l.clone()
		sw.Apply(&l, acts[0])
		if got := ix.Crossings(l.perms, ws); got != l.crossings {
			t.Fatalf("after %+v: tracked %d crossings, actual %d", acts[0], l.crossings, got)
		}
		sw.Rollback(&l, acts[0])
		if !reflect.DeepEqual(before, l) {
			t.Fatalf("rollback of %+v did not restore the layout", acts[0])
		}
		sw.Apply(&l, acts[0])
	}
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in      string
		want    Quality
		wantErr bool
	}{
		{"fast", QualityFast, false},
		{"Balanced", QualityBalanced, false},
		{"", QualityBalanced, false},
		{" optimal ", QualityOptimal, false},
		{"perfect", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseQuality(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseQuality(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseQuality(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, name := range Algorithms() {
		if _, err := New(name, DefaultTimeoutFast, 1); err != nil {
			t.Errorf("New(%q) error = %v", name, err)
		}
	}
	_, err := New("genetic", 0, 0)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("New(genetic) error = %v, want INVALID_INPUT", err)
	}
}
