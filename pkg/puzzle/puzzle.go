// Package puzzle bundles ready-made transition models for the search engine.
//
// Each model is a small value type implementing [search.Environment],
// [search.ActionsGenerator] and [search.TerminalPolicy] (and, where it
// prunes, [search.ContinuationPolicy]) over its own state type. They back
// the enumerate command and the enumeration endpoint, and double as worked
// examples of the engine's contracts.
//
// Use [New] to construct a model by name from loosely typed [Params], and
// [Collect] to run it with a limit and a context.
package puzzle

import (
	"context"
	"slices"

	"github.com/matzehuels/statewalk/pkg/errors"
	"github.com/matzehuels/statewalk/pkg/search"
)

// Model names accepted by [New].
const (
	NameBits      = "bits"
	NameQueens    = "queens"
	NameSubsetSum = "subset-sum"
)

// Names lists the models [New] understands.
func Names() []string {
	return []string{NameBits, NameQueens, NameSubsetSum}
}

// Params are the union of all model parameters. Each model reads only the
// fields it needs.
type Params struct {
	N         int   `json:"n,omitempty" yaml:"n,omitempty" toml:"n,omitempty"`
	Depth     int   `json:"depth,omitempty" yaml:"depth,omitempty" toml:"depth,omitempty"`
	Branching int   `json:"branching,omitempty" yaml:"branching,omitempty" toml:"branching,omitempty"`
	Items     []int `json:"items,omitempty" yaml:"items,omitempty" toml:"items,omitempty"`
	Target    int   `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
}

// Puzzle is a model that can enumerate its solutions as text.
type Puzzle interface {
	Name() string
	// Enumerate calls visit with every solution in enumeration order until
	// visit returns false, the tree is exhausted or ctx is done.
	Enumerate(ctx context.Context, visit func(solution string) bool) (search.Stats, error)
}

// New builds the named model.
func New(name string, p Params) (Puzzle, error) {
	switch name {
	case NameBits:
		if err := errors.ValidateRange("depth", p.Depth, 0, 64); err != nil {
			return nil, err
		}
		if err := errors.ValidateRange("branching", p.Branching, 1, 36); err != nil {
			return nil, err
		}
		return Bits{Depth: p.Depth, Branching: p.Branching}, nil
	case NameQueens:
		if err := errors.ValidateRange("n", p.N, 1, MaxQueens); err != nil {
			return nil, err
		}
		return Queens{N: p.N}, nil
	case NameSubsetSum:
		ss, err := NewSubsetSum(p.Items, p.Target)
		if err != nil {
			return nil, err
		}
		return ss, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidModel, "unknown model %q (want one of %v)", name, Names())
	}
}

// drain advances gen until it is exhausted, visit returns false or ctx is
// done.
func drain[S, A any](ctx context.Context, gen *search.Generator[S, A], visit func(*S) bool) (search.Stats, error) {
	n := 0
	for gen.Next() {
		if err := ctx.Err(); err != nil {
			return gen.Stats(), errors.FromContext(err, "enumeration stopped after %d solutions", n)
		}
		n++
		if !visit(gen.Current()) {
			break
		}
	}
	return gen.Stats(), nil
}

// Collect enumerates p and returns up to limit solutions. A non-positive
// limit means all of them.
func Collect(ctx context.Context, p Puzzle, limit int) ([]string, search.Stats, error) {
	var out []string
	stats, err := p.Enumerate(ctx, func(s string) bool {
		out = append(out, s)
		return limit <= 0 || len(out) < limit
	})
	return slices.Clip(out), stats, err
}
