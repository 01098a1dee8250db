package search

import "iter"

// Generator yields the terminal states of a search tree, skipping the
// subtrees a [ContinuationPolicy] forbids.
//
// After every visitor step that enters a node, the generator asks the
// terminal policy first: a terminal node is yielded once and never expanded.
// Otherwise it asks the continuation policy: a node that should not be
// continued is neither expanded nor yielded. All other nodes are expanded
// normally. Sibling bookkeeping stays entirely inside the [Visitor].
type Generator[S, A any] struct {
	visitor *Visitor[S, A]
	policy  Policy[S]
	yielded bool
}

// NewGenerator creates a generator over the tree rooted at initial.
func NewGenerator[S, A any](initial S, env Environment[S, A], agent ActionsGenerator[S, A], policy Policy[S]) *Generator[S, A] {
	return &Generator[S, A]{
		visitor: NewVisitor(initial, env, agent),
		policy:  policy,
	}
}

// Next advances to the next terminal state and reports whether there is one.
// Calling Next after exhaustion is a no-op that returns false.
func (g *Generator[S, A]) Next() bool {
	v := g.visitor
	for {
		v.Step()
		switch v.mode {
		case ModeFinished:
			g.yielded = false
			return false
		case ModeEntered:
			if g.policy.isTerminal(&v.state) {
				v.SkipChildren()
				v.stats.Terminal++
				g.yielded = true
				return true
			}
			if !g.policy.shouldContinue(&v.state) {
				v.SkipChildren()
				v.stats.Pruned++
			}
		}
	}
}

// Current returns the last yielded terminal state, or nil before the first
// call to Next and after exhaustion. The pointed-to value changes in place on
// the next call to Next.
func (g *Generator[S, A]) Current() *S {
	if !g.yielded {
		return nil
	}
	return &g.visitor.state
}

// All returns a single-use sequence over the remaining terminal states.
// Each yielded pointer is only valid until the loop body returns.
func (g *Generator[S, A]) All() iter.Seq[*S] {
	return func(yield func(*S) bool) {
		for g.Next() {
			if !yield(&g.visitor.state) {
				return
			}
		}
	}
}

// Done reports whether the traversal is exhausted.
func (g *Generator[S, A]) Done() bool { return g.visitor.mode == ModeFinished }

// Depth returns the depth of the current node.
func (g *Generator[S, A]) Depth() int { return g.visitor.Depth() }

// Path returns the actions applied from the root to the current node.
func (g *Generator[S, A]) Path() []A { return g.visitor.Path() }

// Stats returns the work counters accumulated so far.
func (g *Generator[S, A]) Stats() Stats { return g.visitor.stats }
