package search

import "iter"

// Mode is the position of a [Visitor] in its edge-traversal cycle.
type Mode int

const (
	// ModeNotStarted means no node has been entered yet.
	ModeNotStarted Mode = iota
	// ModeEntered means the current node was just reached, either as the root
	// or by applying a child or sibling action. Every node is entered once.
	ModeEntered
	// ModeReturned means the visitor backtracked: the action leading to a
	// child was rolled back and the current node is that child's parent.
	ModeReturned
	// ModeFinished means the traversal is exhausted.
	ModeFinished
)

func (m Mode) String() string {
	switch m {
	case ModeNotStarted:
		return "not-started"
	case ModeEntered:
		return "entered"
	case ModeReturned:
		return "returned"
	case ModeFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// frame is a resume point: the children of one node and the position of the
// next sibling to try. actions[next-1] is the action currently applied.
type frame[A any] struct {
	actions []A
	next    int
}

// Visitor is the in-place depth-first traversal engine.
//
// It replaces call-stack recursion with an explicit stack of resume points
// and performs exactly the Apply/Rollback sequence of a recursive pre-order
// traversal, one edge per [Visitor.Step]. The zero value is not usable; use
// [NewVisitor].
type Visitor[S, A any] struct {
	env   Environment[S, A]
	agent ActionsGenerator[S, A]
	state S

	// frames[:depth] is the live stack. Frames past depth are kept so their
	// action buffers can be reused by later siblings at the same level. A
	// frame is only pushed for a node that has children, so len(frames)
	// never exceeds the depth of the deepest inner node plus one.
	frames  []frame[A]
	depth   int
	scratch []A

	mode  Mode
	skip  bool
	stats Stats
}

// NewVisitor creates a visitor that takes ownership of initial.
func NewVisitor[S, A any](initial S, env Environment[S, A], agent ActionsGenerator[S, A]) *Visitor[S, A] {
	return &Visitor[S, A]{
		env:   env,
		agent: agent,
		state: initial,
	}
}

// Step traverses one tree edge.
//
// From ModeEntered it descends into the first child unless the node has no
// children or [Visitor.SkipChildren] was called, in which case it rolls back
// the action that reached the node. From ModeReturned it applies the next
// sibling, or rolls back one more level when the siblings are exhausted.
// Step never performs more than one Apply or Rollback. It is a no-op once
// the visitor is finished.
func (v *Visitor[S, A]) Step() {
	switch v.mode {
	case ModeNotStarted:
		v.skip = false
		v.enter()
	case ModeEntered:
		skip := v.skip
		v.skip = false
		if !skip && v.descend() {
			return
		}
		v.retreat()
	case ModeReturned:
		v.skip = false
		v.sibling()
	}
}

// Next advances to the next node in pre-order and reports whether there is
// one. Backtracking steps are taken internally.
func (v *Visitor[S, A]) Next() bool {
	for {
		v.Step()
		switch v.mode {
		case ModeEntered:
			return true
		case ModeFinished:
			return false
		}
	}
}

// Current returns the engine's state, or nil before the first step and after
// the traversal is finished. The pointed-to value changes in place on the
// next step.
func (v *Visitor[S, A]) Current() *S {
	if v.mode == ModeNotStarted || v.mode == ModeFinished {
		return nil
	}
	return &v.state
}

// All returns a single-use sequence over the remaining nodes in pre-order.
// Each yielded pointer is only valid until the loop body returns.
func (v *Visitor[S, A]) All() iter.Seq[*S] {
	return func(yield func(*S) bool) {
		for v.Next() {
			if !yield(&v.state) {
				return
			}
		}
	}
}

// SkipChildren marks the current node as a leaf for the next step only.
// It has no effect unless the visitor is in ModeEntered.
func (v *Visitor[S, A]) SkipChildren() {
	if v.mode == ModeEntered {
		v.skip = true
	}
}

// Mode returns the current traversal mode.
func (v *Visitor[S, A]) Mode() Mode { return v.mode }

// Depth returns the depth of the current node in the search tree (0 for the
// root).
func (v *Visitor[S, A]) Depth() int { return v.applied() }

// Path returns the actions applied from the root to the current node.
func (v *Visitor[S, A]) Path() []A {
	n := v.applied()
	path := make([]A, n)
	for i := range n {
		f := &v.frames[i]
		path[i] = f.actions[f.next-1]
	}
	return path
}

// Stats returns the work counters accumulated so far.
func (v *Visitor[S, A]) Stats() Stats { return v.stats }

// applied is the number of actions currently applied to the state. After a
// rollback the top frame stays on the stack but its action is undone.
func (v *Visitor[S, A]) applied() int {
	if v.mode == ModeReturned {
		return v.depth - 1
	}
	return v.depth
}

func (v *Visitor[S, A]) enter() {
	v.mode = ModeEntered
	v.stats.Entered++
}

// descend generates the children of the current node into the scratch
// buffer and only then claims a frame, swapping buffers with it.
func (v *Visitor[S, A]) descend() bool {
	v.scratch = v.agent.AppendActions(v.scratch[:0], &v.state)
	if len(v.scratch) == 0 {
		return false
	}
	if v.depth == len(v.frames) {
		v.frames = append(v.frames, frame[A]{})
	}
	f := &v.frames[v.depth]
	f.actions, v.scratch = v.scratch, f.actions
	f.next = 1
	v.depth++
	v.apply(f.actions[0])
	return true
}

func (v *Visitor[S, A]) sibling() {
	top := &v.frames[v.depth-1]
	if top.next < len(top.actions) {
		a := top.actions[top.next]
		top.next++
		v.apply(a)
		return
	}
	v.depth--
	v.retreat()
}

// retreat rolls back the action that reached the current node, or finishes
// the traversal when the current node is the root.
func (v *Visitor[S, A]) retreat() {
	if v.depth == 0 {
		v.mode = ModeFinished
		return
	}
	top := &v.frames[v.depth-1]
	v.env.Rollback(&v.state, top.actions[top.next-1])
	v.stats.Rollbacks++
	v.stats.Returned++
	v.mode = ModeReturned
}

func (v *Visitor[S, A]) apply(a A) {
	v.env.Apply(&v.state, a)
	v.stats.Applies++
	v.enter()
}
