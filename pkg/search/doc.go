// Package search enumerates the reachable states of a combinatorial search
// space lazily, depth-first and in place.
//
// # Model
//
// A search problem is described by independent capabilities:
//
//   - [Environment]: how an action mutates a state ([Environment.Apply]) and
//     how that mutation is undone ([Environment.Rollback]).
//   - [ActionsGenerator]: the ordered actions available from a state (the
//     children of a search-tree node).
//   - [TerminalPolicy]: whether a state is a leaf that should be reported.
//   - [ContinuationPolicy]: whether exploration should continue past a state.
//     This is the integration point for bounds, budgets and heuristics.
//
// A concrete agent type may implement any subset of them; [PolicyOf] picks up
// the policies a value implements.
//
// # Engine
//
// The engine is split in two layers:
//
//   - [Visitor] owns one mutable state and an explicit stack of resume points.
//     Each [Visitor.Step] traverses exactly one tree edge, performing at most
//     one Apply or one Rollback. [Visitor.Next] yields every node once, in
//     pre-order.
//   - [Generator] drives the Visitor and applies the policies after every
//     step: terminal states are yielded and never expanded, states for which
//     the continuation policy says stop are skipped entirely.
//
// The call stack never grows with the depth of the search tree; memory is
// the single state plus one resume point (and one reusable action buffer)
// per level.
//
// # Streaming Contract
//
// [Visitor.Current] and [Generator.Current] return a pointer into the
// engine's own state. The value it points to changes in place on the next
// advance. Clone it if you need it after the next call to Next:
//
//	gen := search.NewGenerator(initial, env, agent, search.PolicyOf[State](env, agent))
//	for gen.Next() {
//	    s := gen.Current()
//	    if score(s) < best {
//	        best, bestState = score(s), s.Clone()
//	    }
//	}
//
// # Invertibility
//
// Rollback must restore exactly the value that preceded the matching Apply.
// This is a caller contract that the engine does not check. Wrap an
// environment with [Verify] in tests to turn a violation into a panic.
//
// # Concurrency
//
// Visitors and Generators are not safe for concurrent use. Environments are
// expected to be read-only and may be shared by independent traversals.
package search
