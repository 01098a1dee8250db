package search

import (
	"slices"
	"testing"
)

func TestVisitorPreOrderCount(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		want  int
	}{
		{"root only", 0, 1},
		{"depth 1", 1, 3},
		{"depth 3", 3, 15},
		{"depth 5", 5, 63},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := bits{MaxSize: tt.depth}
			v := NewVisitor([]bool{}, env, env)
			if got := Count(v.All()); got != tt.want {
				t.Errorf("visited %d nodes, want %d", got, tt.want)
			}
		})
	}
}

func TestVisitorMatchesRecursive(t *testing.T) {
	for depth := 0; depth <= 6; depth++ {
		env := ragged{MaxDepth: depth}

		var want [][]int
		recursivePreOrder(&[]int{}, env, env, func(s *[]int) {
			want = append(want, cloneInts(*s))
		})

		got := Collect(NewVisitor([]int{}, env, env).All(), cloneInts)
		if !slices.EqualFunc(got, want, slices.Equal[[]int]) {
			t.Fatalf("depth %d: order mismatch\n got: %v\nwant: %v", depth, got, want)
		}
	}
}

func TestVisitorOneMutationPerStep(t *testing.T) {
	env := ragged{MaxDepth: 5}
	v := NewVisitor([]int{}, env, env)

	prev := v.Stats()
	steps := 0
	for v.Mode() != ModeFinished {
		v.Step()
		steps++
		cur := v.Stats()
		mutations := (cur.Applies - prev.Applies) + (cur.Rollbacks - prev.Rollbacks)
		if mutations > 1 {
			t.Fatalf("step %d performed %d mutations", steps, mutations)
		}
		prev = cur
	}

	st := v.Stats()
	if st.Applies != st.Rollbacks {
		t.Errorf("applies = %d, rollbacks = %d; every apply must be rolled back", st.Applies, st.Rollbacks)
	}
	if st.Entered != st.Applies+1 {
		t.Errorf("entered = %d, want applies+1 = %d", st.Entered, st.Applies+1)
	}
}

func TestVisitorStateMatchesPath(t *testing.T) {
	env := ragged{MaxDepth: 5}
	v := NewVisitor([]int{}, env, env)

	for v.Step(); v.Mode() != ModeFinished; v.Step() {
		replay := []int{}
		for _, a := range v.Path() {
			env.Apply(&replay, a)
		}
		if !slices.Equal(*v.Current(), replay) {
			t.Fatalf("mode %s: state %v, replayed path %v", v.Mode(), *v.Current(), replay)
		}
		if v.Depth() != len(replay) {
			t.Fatalf("Depth() = %d, want %d", v.Depth(), len(replay))
		}
	}
}

func TestVisitorStackEmptyAtEnds(t *testing.T) {
	env := bits{MaxSize: 3}
	v := NewVisitor([]bool{}, env, env)
	if v.depth != 0 || v.Current() != nil {
		t.Fatal("fresh visitor should have an empty stack and no current state")
	}
	for v.Next() {
	}
	if v.depth != 0 {
		t.Errorf("finished visitor has %d resume points", v.depth)
	}
	if v.Current() != nil {
		t.Error("Current() should be nil after exhaustion")
	}
	if len(v.state) != 0 {
		t.Errorf("state after exhaustion = %v, want the initial empty state", v.state)
	}
}

func TestVisitorSkipChildren(t *testing.T) {
	env := bits{MaxSize: 3}
	v := NewVisitor([]bool{}, env, env)

	// Skip the subtree below [true]; everything else is visited.
	var seen [][]bool
	for v.Next() {
		s := *v.Current()
		seen = append(seen, cloneBools(s))
		if len(s) == 1 && s[0] {
			v.SkipChildren()
		}
	}

	if len(seen) != 9 {
		t.Fatalf("visited %d nodes, want 9: %v", len(seen), seen)
	}
	for _, s := range seen {
		if len(s) > 1 && s[0] {
			t.Errorf("visited %v below a skipped node", s)
		}
	}
}

func TestVisitorSkipIsNotSticky(t *testing.T) {
	env := bits{MaxSize: 2}
	v := NewVisitor([]bool{}, env, env)

	v.Next() // root
	v.Next() // [true]
	v.SkipChildren()
	v.Next() // [false], reached without visiting [true true]
	if got := *v.Current(); !slices.Equal(got, []bool{false}) {
		t.Fatalf("current = %v, want [false]", got)
	}
	if !v.Next() {
		t.Fatal("children of [false] should be expanded")
	}
	if got := *v.Current(); !slices.Equal(got, []bool{false, true}) {
		t.Errorf("current = %v, want [false true]", got)
	}
}

func TestVisitorSkipBeforeStartIsIgnored(t *testing.T) {
	env := bits{MaxSize: 2}
	v := NewVisitor([]bool{}, env, env)

	v.SkipChildren()
	n := 0
	for v.Next() {
		n++
	}
	if n != 7 {
		t.Errorf("visited %d nodes, want 7", n)
	}
}

func TestVisitorSkipAfterFinishIsIgnored(t *testing.T) {
	env := bits{MaxSize: 1}
	v := NewVisitor([]bool{}, env, env)
	for v.Next() {
	}
	v.SkipChildren()
	if v.skip {
		t.Error("SkipChildren() on a finished visitor set the skip flag")
	}
}

func TestVisitorRootWithoutChildren(t *testing.T) {
	env := bits{MaxSize: 0}
	v := NewVisitor([]bool{}, env, env)

	if !v.Next() {
		t.Fatal("root should be yielded")
	}
	if v.Next() {
		t.Fatal("a childless root yields exactly one node")
	}
	if v.Mode() != ModeFinished {
		t.Errorf("mode = %s, want finished", v.Mode())
	}
}

func TestVisitorReusesActionBuffers(t *testing.T) {
	env := bits{MaxSize: 4}
	v := NewVisitor([]bool{}, env, env)
	maxDepth := 0
	for v.Next() {
		maxDepth = max(maxDepth, v.Depth())
	}
	if maxDepth != 4 {
		t.Fatalf("deepest node at %d, want 4", maxDepth)
	}
	// Leaves at depth 4 have no children and need no resume point.
	if len(v.frames) != 4 {
		t.Errorf("allocated %d frames for a depth-4 tree, want 4", len(v.frames))
	}
}

func TestVisitorFramesFollowInnerNodes(t *testing.T) {
	env := bits{MaxSize: 3}
	v := NewVisitor([]bool{}, env, env)
	for v.Next() {
		if s := *v.Current(); len(s) == 1 {
			v.SkipChildren()
		}
	}
	// Only the root ever expands, so a single frame suffices.
	if len(v.frames) != 1 {
		t.Errorf("allocated %d frames, want 1", len(v.frames))
	}
}

func TestModeString(t *testing.T) {
	tests := map[Mode]string{
		ModeNotStarted: "not-started",
		ModeEntered:    "entered",
		ModeReturned:   "returned",
		ModeFinished:   "finished",
		Mode(42):       "unknown",
	}
	for m, want := range tests {
		if got := m.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(m), got, want)
		}
	}
}
