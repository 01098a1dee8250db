package search

import "iter"

// Environment describes a reversible transition model.
//
// Apply mutates state into the successor reached by action. Rollback mutates
// it back into the predecessor. The engine only calls them with actions the
// [ActionsGenerator] produced for the state at hand, and always in strictly
// nested Apply/Rollback pairs.
type Environment[S, A any] interface {
	Apply(state *S, action A)
	Rollback(state *S, action A)
}

// ActionsGenerator produces the ordered actions available from a state.
//
// AppendActions appends the actions to dst and returns the extended slice,
// in the style of strconv.AppendInt. The engine hands in a buffer it reuses
// for every node at the same depth, so implementations must not retain dst.
// The order of the actions is the order of enumeration. An empty result
// marks a leaf. Implementations must not modify state.
type ActionsGenerator[S, A any] interface {
	AppendActions(dst []A, state *S) []A
}

// TerminalPolicy reports whether a state is a leaf of the search.
type TerminalPolicy[S any] interface {
	IsTerminal(state *S) bool
}

// ContinuationPolicy reports whether exploration should continue past a
// state. It may update agent-local bookkeeping (counters, bounds, deadlines)
// but must not modify state.
type ContinuationPolicy[S any] interface {
	ShouldContinue(state *S) bool
}

// ActionsFunc adapts a function to [ActionsGenerator].
type ActionsFunc[S, A any] func(dst []A, state *S) []A

// AppendActions calls f(dst, state).
func (f ActionsFunc[S, A]) AppendActions(dst []A, state *S) []A { return f(dst, state) }

// TerminalFunc adapts a function to [TerminalPolicy].
type TerminalFunc[S any] func(state *S) bool

// IsTerminal calls f(state).
func (f TerminalFunc[S]) IsTerminal(state *S) bool { return f(state) }

// ContinueFunc adapts a function to [ContinuationPolicy].
type ContinueFunc[S any] func(state *S) bool

// ShouldContinue calls f(state).
func (f ContinueFunc[S]) ShouldContinue(state *S) bool { return f(state) }

// FromSeq adapts a lazy action producer to [ActionsGenerator]. The sequence
// is drained once per node entry.
func FromSeq[S, A any](f func(state *S) iter.Seq[A]) ActionsGenerator[S, A] {
	return ActionsFunc[S, A](func(dst []A, state *S) []A {
		for a := range f(state) {
			dst = append(dst, a)
		}
		return dst
	})
}

// Policy bundles the two pruning predicates consulted by a [Generator].
// A nil Terminal never reports a terminal state; a nil Continue always
// continues.
type Policy[S any] struct {
	Terminal TerminalPolicy[S]
	Continue ContinuationPolicy[S]
}

// PolicyOf builds a Policy from whichever capabilities the given values
// implement. The first value implementing a capability wins.
//
//	policy := search.PolicyOf[Board](env, agent)
func PolicyOf[S any](parts ...any) Policy[S] {
	var p Policy[S]
	for _, part := range parts {
		if t, ok := part.(TerminalPolicy[S]); ok && p.Terminal == nil {
			p.Terminal = t
		}
		if c, ok := part.(ContinuationPolicy[S]); ok && p.Continue == nil {
			p.Continue = c
		}
	}
	return p
}

func (p Policy[S]) isTerminal(state *S) bool {
	return p.Terminal != nil && p.Terminal.IsTerminal(state)
}

func (p Policy[S]) shouldContinue(state *S) bool {
	return p.Continue == nil || p.Continue.ShouldContinue(state)
}

// Stats counts the work done by a traversal.
type Stats struct {
	Entered   int `json:"entered"`  // node entries, root included
	Returned  int `json:"returned"` // re-entries of a parent after backtracking
	Applies   int `json:"applies"`
	Rollbacks int `json:"rollbacks"`
	Terminal  int `json:"terminal"` // terminal states yielded by a Generator
	Pruned    int `json:"pruned"`   // states skipped by a ContinuationPolicy
}
