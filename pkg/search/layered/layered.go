// Package layered implements layer-by-layer dynamic programming over a
// reversible transition model.
//
// A layer is the set of distinct states reachable in exactly d steps, keyed
// by a caller-supplied projection. Each state carries a value (a count, a
// cost, a best predecessor) that is propagated to its successors by a
// transition function and combined with a merge function when two
// successors share a key. Successors are generated in place with
// [search.Expand]; only states that start a new key are cloned.
package layered

import (
	"context"

	"github.com/matzehuels/statewalk/pkg/search"
)

// Options configures a [Solver].
type Options[K comparable, S, A, V any] struct {
	// Key projects a state onto its identity within a layer. Required.
	Key func(state *S) K
	// Clone copies a state without sharing mutable storage. Required.
	Clone func(S) S
	// Transition computes a successor's value from its predecessor's value
	// and the action taken. Required.
	Transition func(prev V, action A, next *S) V
	// Merge combines two values that reach the same key. Nil keeps the
	// value that arrived first.
	Merge func(existing, candidate V) V
}

// Entry is a state and its value.
type Entry[S, V any] struct {
	State S
	Value V
}

// Solver holds the current layer. It is not safe for concurrent use.
type Solver[K comparable, S, A, V any] struct {
	env   search.Environment[S, A]
	agent search.ActionsGenerator[S, A]
	opts  Options[K, S, A, V]

	index map[K]int
	layer []Entry[S, V]
	depth int
}

// New creates a solver whose first layer holds the given entries.
// States sharing a key are merged.
func New[K comparable, S, A, V any](env search.Environment[S, A], agent search.ActionsGenerator[S, A], opts Options[K, S, A, V], initial ...Entry[S, V]) *Solver[K, S, A, V] {
	s := &Solver[K, S, A, V]{
		env:   env,
		agent: agent,
		opts:  opts,
		index: make(map[K]int, len(initial)),
	}
	for _, e := range initial {
		s.add(&s.layer, s.index, &e.State, e.Value, true)
	}
	return s
}

// add inserts state into layer or merges its value into the existing entry.
// owned means the caller gives up state, so it need not be cloned.
func (s *Solver[K, S, A, V]) add(layer *[]Entry[S, V], index map[K]int, state *S, value V, owned bool) {
	k := s.opts.Key(state)
	if i, ok := index[k]; ok {
		if s.opts.Merge != nil {
			(*layer)[i].Value = s.opts.Merge((*layer)[i].Value, value)
		}
		return
	}
	st := *state
	if !owned {
		st = s.opts.Clone(*state)
	}
	index[k] = len(*layer)
	*layer = append(*layer, Entry[S, V]{State: st, Value: value})
}

// Step replaces the current layer with the distinct successors of its
// states and reports how many there are. Successors appear in the order
// they are first reached.
func (s *Solver[K, S, A, V]) Step() int {
	var next []Entry[S, V]
	index := make(map[K]int, len(s.layer))
	for i := range s.layer {
		e := &s.layer[i]
		for a, succ := range search.Expand(s.env, s.agent, &e.State) {
			s.add(&next, index, succ, s.opts.Transition(e.Value, a, succ), false)
		}
	}
	s.layer, s.index = next, index
	s.depth++
	return len(next)
}

// Run steps until the layer has been advanced layers times, the layer is
// empty, or ctx is done.
func (s *Solver[K, S, A, V]) Run(ctx context.Context, layers int) error {
	for range layers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.Step() == 0 {
			return nil
		}
	}
	return nil
}

// Layer returns the current layer. The solver owns the entries.
func (s *Solver[K, S, A, V]) Layer() []Entry[S, V] { return s.layer }

// Len returns the number of distinct states in the current layer.
func (s *Solver[K, S, A, V]) Len() int { return len(s.layer) }

// Get returns the value stored for key in the current layer.
func (s *Solver[K, S, A, V]) Get(key K) (V, bool) {
	i, ok := s.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return s.layer[i].Value, true
}

// Depth returns the number of steps taken from the initial layer.
func (s *Solver[K, S, A, V]) Depth() int { return s.depth }
