package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/statewalk/pkg/cache"
	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/errors"
	"github.com/matzehuels/statewalk/pkg/ordering"
	"github.com/matzehuels/statewalk/pkg/puzzle"
)

// crossed returns two rows whose insertion order has one crossing.
func crossed(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for _, n := range []dag.Node{{ID: "a", Row: 0}, {ID: "b", Row: 0}, {ID: "c", Row: 1}, {ID: "d", Row: 1}} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []dag.Edge{{From: "a", To: "d"}, {From: "b", To: "c"}} {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name        string
		opts        Options
		wantTimeout time.Duration
		wantErr     errors.Code
	}{
		{"defaults", Options{}, ordering.DefaultTimeoutBalanced, ""},
		{"fast", Options{Quality: "fast"}, ordering.DefaultTimeoutFast, ""},
		{"explicit timeout wins", Options{Quality: "fast", Timeout: time.Second}, time.Second, ""},
		{"unknown quality", Options{Quality: "perfect"}, 0, errors.ErrCodeInvalidInput},
		{"unknown algorithm", Options{Algorithm: "sifting"}, 0, errors.ErrCodeInvalidInput},
		{"negative timeout", Options{Timeout: -time.Second}, 0, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.wantErr {
				t.Fatalf("ValidateAndSetDefaults() error = %v, want code %q", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tt.opts.Timeout != tt.wantTimeout {
				t.Errorf("Timeout = %v, want %v", tt.opts.Timeout, tt.wantTimeout)
			}
			if tt.opts.Algorithm != DefaultAlgorithm {
				t.Errorf("Algorithm = %q, want %q", tt.opts.Algorithm, DefaultAlgorithm)
			}
			if tt.opts.Seed != DefaultSeed {
				t.Errorf("Seed = %d, want %d", tt.opts.Seed, DefaultSeed)
			}
		})
	}
}

func TestOrder(t *testing.T) {
	for _, alg := range ordering.Algorithms() {
		t.Run(alg, func(t *testing.T) {
			r := NewRunner(nil, nil, nil)
			res, err := r.Order(context.Background(), crossed(t), Options{Algorithm: alg, Timeout: time.Second})
			if err != nil {
				t.Fatalf("Order() error = %v", err)
			}
			if res.Ordering.Crossings != 0 {
				t.Errorf("Crossings = %d, want 0", res.Ordering.Crossings)
			}
			if res.Ordering.Algorithm != alg {
				t.Errorf("Algorithm = %q, want %q", res.Ordering.Algorithm, alg)
			}
			if len(res.Ordering.Rows) != 2 {
				t.Errorf("got %d rows, want 2", len(res.Ordering.Rows))
			}
			if res.GraphHash == "" {
				t.Error("GraphHash is empty")
			}
		})
	}
}

func TestOrderCaches(t *testing.T) {
	r := newFileRunner(t)
	ctx := context.Background()

	first, err := r.Order(ctx, crossed(t), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first run should miss the cache")
	}
	second, err := r.Order(ctx, crossed(t), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit the cache")
	}
	if second.Ordering.Crossings != first.Ordering.Crossings {
		t.Errorf("cached crossings = %d, want %d", second.Ordering.Crossings, first.Ordering.Crossings)
	}

	third, err := r.Order(ctx, crossed(t), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestOrderNormalize(t *testing.T) {
	g := dag.New(nil)
	for _, id := range []string{"app", "lib", "core"} {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []dag.Edge{{From: "app", To: "lib"}, {From: "lib", To: "core"}, {From: "app", To: "core"}, {From: "core", To: "app"}} {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}

	r := NewRunner(nil, nil, nil)
	if _, err := r.Order(context.Background(), g, Options{}); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Fatalf("Order() without normalization error = %v, want INVALID_GRAPH", err)
	}

	res, err := r.Order(context.Background(), g, Options{Normalize: true})
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	if res.Normalization.CyclesRemoved != 1 {
		t.Errorf("CyclesRemoved = %d, want 1", res.Normalization.CyclesRemoved)
	}
	if err := res.Graph.Validate(); err != nil {
		t.Errorf("normalized graph invalid: %v", err)
	}
}

func TestOrderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, nil)
	_, err := r.Order(ctx, crossed(t), Options{Algorithm: ordering.AlgorithmBarycentric})
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Errorf("Order() error = %v, want CANCELED", err)
	}
}

func TestEnumerate(t *testing.T) {
	r := newFileRunner(t)
	ctx := context.Background()
	opts := EnumerateOptions{Model: puzzle.NameQueens, Params: puzzle.Params{N: 8}}

	res, err := r.Enumerate(ctx, opts)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	if len(res.Solutions) != 92 || res.Truncated {
		t.Errorf("got %d solutions (truncated %v), want 92 complete", len(res.Solutions), res.Truncated)
	}
	if res.CacheHit {
		t.Error("first run should miss the cache")
	}

	again, err := r.Enumerate(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheHit || len(again.Solutions) != 92 {
		t.Errorf("second run: hit %v, %d solutions", again.CacheHit, len(again.Solutions))
	}
}

func TestEnumerateLimit(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Enumerate(context.Background(), EnumerateOptions{
		Model:  puzzle.NameBits,
		Params: puzzle.Params{Depth: 4, Branching: 2},
		Limit:  5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Solutions) != 5 || !res.Truncated {
		t.Errorf("got %d solutions (truncated %v), want 5 truncated", len(res.Solutions), res.Truncated)
	}

	res, err = r.Enumerate(context.Background(), EnumerateOptions{
		Model:  puzzle.NameBits,
		Params: puzzle.Params{Depth: 2, Branching: 2},
		Limit:  4,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Solutions) != 4 || res.Truncated {
		t.Errorf("got %d solutions (truncated %v), want 4 complete", len(res.Solutions), res.Truncated)
	}
}

func TestEnumerateErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	tests := []struct {
		name string
		opts EnumerateOptions
		want errors.Code
	}{
		{"unknown model", EnumerateOptions{Model: "sudoku"}, errors.ErrCodeInvalidModel},
		{"limit too large", EnumerateOptions{Model: puzzle.NameQueens, Params: puzzle.Params{N: 4}, Limit: MaxLimit + 1}, errors.ErrCodeInvalidInput},
		{"bad params", EnumerateOptions{Model: puzzle.NameQueens}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Enumerate(context.Background(), tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("Enumerate() error = %v, want %s", err, tt.want)
			}
		})
	}
}
