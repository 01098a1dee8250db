package search

import "iter"

// Count drains seq and returns the number of items.
func Count[S any](seq iter.Seq[*S]) int {
	n := 0
	for range seq {
		n++
	}
	return n
}

// Collect drains seq, cloning every item. clone must produce a value that
// does not share mutable storage with its argument.
func Collect[S any](seq iter.Seq[*S], clone func(S) S) []S {
	var out []S
	for s := range seq {
		out = append(out, clone(*s))
	}
	return out
}

// Expand yields the one-step successors of state without cloning it: each
// action is applied in place, yielded together with the mutated state, and
// rolled back before the next one. state holds its original value again when
// the iteration ends, including on early exit.
func Expand[S, A any](env Environment[S, A], agent ActionsGenerator[S, A], state *S) iter.Seq2[A, *S] {
	return func(yield func(A, *S) bool) {
		for _, a := range agent.AppendActions(nil, state) {
			env.Apply(state, a)
			ok := yield(a, state)
			env.Rollback(state, a)
			if !ok {
				return
			}
		}
	}
}
