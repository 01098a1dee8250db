package ordering

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/errors"
)

// Orderer is an interface for horizontal row ordering algorithms.
// An orderer determines the horizontal sequence of nodes in each row
// to minimize edge crossings.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// ContextOrderer is an Orderer that supports cancellation and timeouts
// via a context.
type ContextOrderer interface {
	Orderer
	OrderRowsContext(ctx context.Context, g *dag.DAG) map[int][]string
}

// Searcher is an orderer that also reports how it got its answer.
type Searcher interface {
	ContextOrderer
	Search(ctx context.Context, g *dag.DAG) Result
}

// Result is the outcome of a [Searcher] run.
type Result struct {
	Orders    map[int][]string `json:"orders"`
	Crossings int              `json:"crossings"`
	// Explored counts the states the algorithm evaluated: search-tree
	// nodes for OptimalSearch, proposed moves for Annealing, sweeps for
	// Barycentric.
	Explored int `json:"explored"`
	// Pruned counts the states discarded without further work.
	Pruned int `json:"pruned"`
	// Complete is true when Crossings is known to be the minimum.
	Complete bool `json:"complete"`
}

// Quality represents the desired trade-off between ordering speed and quality.
type Quality int

const (
	QualityFast Quality = iota
	QualityBalanced
	QualityOptimal
)

const (
	DefaultTimeoutFast     = 100 * time.Millisecond
	DefaultTimeoutBalanced = 5 * time.Second
	DefaultTimeoutOptimal  = 60 * time.Second
)

// Timeout returns the default search timeout for the preset.
func (q Quality) Timeout() time.Duration {
	switch q {
	case QualityFast:
		return DefaultTimeoutFast
	case QualityOptimal:
		return DefaultTimeoutOptimal
	default:
		return DefaultTimeoutBalanced
	}
}

func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBalanced:
		return "balanced"
	case QualityOptimal:
		return "optimal"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// ParseQuality parses "fast", "balanced" or "optimal".
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast":
		return QualityFast, nil
	case "balanced", "":
		return QualityBalanced, nil
	case "optimal":
		return QualityOptimal, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput, "unknown quality %q (want fast, balanced or optimal)", s)
	}
}

// Algorithm names accepted by [New].
const (
	AlgorithmBarycentric = "barycentric"
	AlgorithmOptimal     = "optimal"
	AlgorithmAnnealing   = "annealing"
)

// Algorithms lists the names [New] understands.
func Algorithms() []string {
	return []string{AlgorithmBarycentric, AlgorithmOptimal, AlgorithmAnnealing}
}

// New builds the named algorithm with the given time budget. seed only
// affects annealing.
func New(algorithm string, timeout time.Duration, seed uint64) (Searcher, error) {
	switch algorithm {
	case AlgorithmBarycentric:
		return Barycentric{}, nil
	case AlgorithmOptimal, "":
		return OptimalSearch{Timeout: timeout}, nil
	case AlgorithmAnnealing:
		return Annealing{Timeout: timeout, Seed: seed}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown algorithm %q (want one of %v)", algorithm, Algorithms())
	}
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for row, ids := range orders {
		out[row] = slices.Clone(ids)
	}
	return out
}

// indexPerms converts orders into per-row permutations of ix.Rows.
func indexPerms(ix *dag.Index, orders map[int][]string) [][]int {
	perms := make([][]int, len(ix.Rows))
	for r, row := range ix.RowIDs {
		pos := dag.PosMap(ix.Rows[r])
		perms[r] = make([]int, 0, len(ix.Rows[r]))
		for _, id := range orders[row] {
			perms[r] = append(perms[r], pos[id])
		}
	}
	return perms
}

// SameRows reports whether every row of b is a permutation of the same row
// in a.
func SameRows(a, b map[int][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, row := range slices.Sorted(maps.Keys(a)) {
		x, y := slices.Sorted(slices.Values(a[row])), slices.Sorted(slices.Values(b[row]))
		if !slices.Equal(x, y) {
			return false
		}
	}
	return true
}
