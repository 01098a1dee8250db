package search

import (
	"errors"
	"fmt"
)

// ErrNotInvertible is the panic value (wrapped) raised by a [Verify]
// environment when a Rollback does not restore the state that preceded the
// matching Apply.
var ErrNotInvertible = errors.New("rollback did not restore the state before apply")

// Verify wraps env with an invertibility check for tests and debugging.
//
// Before every Apply the state is cloned onto a snapshot stack; after every
// Rollback the state is compared with the popped snapshot and a mismatch
// panics with an error wrapping [ErrNotInvertible]. The check costs one clone
// per edge, so it is not meant for production traversals. The returned
// environment keeps per-traversal state and must not be shared.
func Verify[S, A any](env Environment[S, A], clone func(S) S, equal func(a, b *S) bool) Environment[S, A] {
	return &verified[S, A]{inner: env, clone: clone, equal: equal}
}

type verified[S, A any] struct {
	inner     Environment[S, A]
	clone     func(S) S
	equal     func(a, b *S) bool
	snapshots []S
}

func (v *verified[S, A]) Apply(state *S, action A) {
	v.snapshots = append(v.snapshots, v.clone(*state))
	v.inner.Apply(state, action)
}

func (v *verified[S, A]) Rollback(state *S, action A) {
	v.inner.Rollback(state, action)
	n := len(v.snapshots) - 1
	if n < 0 {
		panic(fmt.Errorf("%w: rollback of %v without a matching apply", ErrNotInvertible, action))
	}
	want := v.snapshots[n]
	v.snapshots = v.snapshots[:n]
	if !v.equal(state, &want) {
		panic(fmt.Errorf("%w: action %v", ErrNotInvertible, action))
	}
}
