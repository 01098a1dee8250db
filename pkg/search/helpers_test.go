package search

import (
	"slices"
)

// bits is the zero/one model: a state is the sequence of choices made so
// far, every node offers the same choices until it is MaxSize long.
type bits struct {
	MaxSize int
	Choices []bool
}

func (b bits) Apply(s *[]bool, a bool)    { *s = append(*s, a) }
func (b bits) Rollback(s *[]bool, _ bool) { *s = (*s)[:len(*s)-1] }

func (b bits) AppendActions(dst []bool, s *[]bool) []bool {
	if len(*s) >= b.MaxSize {
		return dst
	}
	choices := b.Choices
	if choices == nil {
		choices = []bool{true, false}
	}
	return append(dst, choices...)
}

func (b bits) IsTerminal(s *[]bool) bool { return len(*s) >= b.MaxSize }

// ragged is a tree with uneven branching and dead ends, used to compare the
// engine with a naive recursive traversal.
type ragged struct{ MaxDepth int }

func (ragged) Apply(s *[]int, a int)    { *s = append(*s, a) }
func (ragged) Rollback(s *[]int, _ int) { *s = (*s)[:len(*s)-1] }

func (r ragged) AppendActions(dst []int, s *[]int) []int {
	if len(*s) >= r.MaxDepth {
		return dst
	}
	sum := 0
	for _, x := range *s {
		sum += x
	}
	if sum%5 == 4 {
		return dst
	}
	k := (len(*s)+sum)%3 + 1
	for i := range k {
		dst = append(dst, i)
	}
	return dst
}

func cloneInts(s []int) []int    { return slices.Clone(s) }
func cloneBools(s []bool) []bool { return slices.Clone(s) }

// recursiveTerminals is the reference the Generator must agree with.
func recursiveTerminals[S, A any](state *S, env Environment[S, A], agent ActionsGenerator[S, A], p Policy[S], visit func(*S)) {
	if p.isTerminal(state) {
		visit(state)
		return
	}
	if !p.shouldContinue(state) {
		return
	}
	for _, a := range agent.AppendActions(nil, state) {
		env.Apply(state, a)
		recursiveTerminals(state, env, agent, p, visit)
		env.Rollback(state, a)
	}
}

// recursivePreOrder is the reference the Visitor must agree with.
func recursivePreOrder[S, A any](state *S, env Environment[S, A], agent ActionsGenerator[S, A], visit func(*S)) {
	visit(state)
	for _, a := range agent.AppendActions(nil, state) {
		env.Apply(state, a)
		recursivePreOrder(state, env, agent, visit)
		env.Rollback(state, a)
	}
}
