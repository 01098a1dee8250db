// Package perm enumerates permutations with the search engine.
//
// A permutation is built one position at a time: the state is the prefix
// placed so far plus the set of unused elements, and each action places one
// unused element. Because actions are offered in ascending order, the
// engine produces permutations in lexicographic order, and a prefix filter
// prunes whole families of permutations at once.
package perm

import (
	"iter"
	"slices"

	"github.com/matzehuels/statewalk/pkg/search"
)

// Seq returns a slice containing the sequence [0, 1, 2, ..., n-1].
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n! (n factorial), the product 1 × 2 × ... × n.
// For n <= 1, Factorial returns 1. 21! overflows int64.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Prefix is a partial permutation.
type Prefix struct {
	Order []int
	used  []bool
}

// Space is the permutation tree over n elements. It implements
// [search.Environment], [search.ActionsGenerator] and
// [search.TerminalPolicy] for [Prefix] states.
type Space struct {
	N int
	// Allow, if set, filters the element offered at the next position.
	// Rejected elements are never placed there, so every permutation
	// extending that prefix is skipped.
	Allow func(prefix []int, next int) bool
}

// Start returns the empty prefix.
func (s Space) Start() Prefix {
	return Prefix{Order: make([]int, 0, s.N), used: make([]bool, s.N)}
}

func (Space) Apply(p *Prefix, e int) {
	p.Order = append(p.Order, e)
	p.used[e] = true
}

func (Space) Rollback(p *Prefix, e int) {
	p.Order = p.Order[:len(p.Order)-1]
	p.used[e] = false
}

func (s Space) AppendActions(dst []int, p *Prefix) []int {
	for e, used := range p.used {
		if !used && (s.Allow == nil || s.Allow(p.Order, e)) {
			dst = append(dst, e)
		}
	}
	return dst
}

func (s Space) IsTerminal(p *Prefix) bool { return len(p.Order) == s.N }

// All yields the permutations of the space in lexicographic order. The
// yielded slice is reused; clone it to keep it.
func (s Space) All() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		gen := search.NewGenerator(s.Start(), search.Environment[Prefix, int](s), s, search.PolicyOf[Prefix](s))
		for p := range gen.All() {
			if !yield(p.Order) {
				return
			}
		}
	}
}

// Each yields the permutations of [0, n) in lexicographic order. The
// yielded slice is reused; clone it to keep it.
func Each(n int) iter.Seq[[]int] {
	return Space{N: n}.All()
}

// Generate returns permutations of [0, 1, ..., n-1] in lexicographic order.
//
// If limit > 0, Generate returns at most limit permutations; otherwise it
// returns all n!. Each returned slice is a separate allocation.
//
// For n = 0 Generate returns one empty permutation. The number of
// permutations grows very fast; always pass a limit when n is large.
func Generate(n, limit int) [][]int {
	capacity := limit
	if capacity <= 0 || n <= 10 {
		capacity = Factorial(min(n, 10))
	}
	if limit > 0 {
		capacity = min(capacity, limit)
	}
	result := make([][]int, 0, capacity)
	for p := range Each(n) {
		result = append(result, slices.Clone(p))
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result
}
