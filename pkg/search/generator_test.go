package search

import (
	"slices"
	"testing"
)

func TestGeneratorBinaryTree(t *testing.T) {
	env := bits{MaxSize: 3}
	gen := NewGenerator([]bool{}, env, env, PolicyOf[[]bool](env))

	got := Collect(gen.All(), cloneBools)
	want := [][]bool{
		{true, true, true}, {true, true, false}, {true, false, true}, {true, false, false},
		{false, true, true}, {false, true, false}, {false, false, true}, {false, false, false},
	}
	if !slices.EqualFunc(got, want, slices.Equal[[]bool]) {
		t.Errorf("enumerated %v\nwant %v", got, want)
	}
	if st := gen.Stats(); st.Terminal != 8 || st.Pruned != 0 {
		t.Errorf("stats = %+v, want 8 terminal, 0 pruned", st)
	}
}

func TestGeneratorCounts(t *testing.T) {
	tests := []struct {
		name      string
		branching int
		depth     int
		want      int
	}{
		{"binary depth 3", 2, 3, 8},
		{"ternary depth 4", 3, 4, 81},
		{"unary depth 5", 1, 5, 1},
		{"octal depth 3", 8, 3, 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := counter{Branching: tt.branching, Depth: tt.depth}
			gen := NewGenerator(0, env, env, PolicyOf[int](env))
			if got := Count(gen.All()); got != tt.want {
				t.Errorf("yielded %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGeneratorInitialIsTerminal(t *testing.T) {
	env := bits{MaxSize: 0}
	gen := NewGenerator([]bool{}, env, env, PolicyOf[[]bool](env))

	if got := Count(gen.All()); got != 1 {
		t.Errorf("yielded %d, want 1", got)
	}
	if !gen.Done() {
		t.Error("generator should be done")
	}
}

func TestGeneratorPruning(t *testing.T) {
	env := bits{MaxSize: 3}
	policy := Policy[[]bool]{
		Terminal: env,
		Continue: ContinueFunc[[]bool](func(s *[]bool) bool {
			return len(*s) == 0 || !(*s)[0]
		}),
	}
	gen := NewGenerator([]bool{}, env, env, policy)

	got := Collect(gen.All(), cloneBools)
	if len(got) != 4 {
		t.Fatalf("yielded %d states, want 4: %v", len(got), got)
	}
	for _, s := range got {
		if s[0] {
			t.Errorf("yielded %v from a pruned subtree", s)
		}
	}
	if st := gen.Stats(); st.Pruned != 1 {
		t.Errorf("pruned = %d, want 1", st.Pruned)
	}
}

func TestGeneratorPrunedStatesAreNotYielded(t *testing.T) {
	// A continuation policy that stops everything below the root yields
	// nothing: pruned states are suppressed, not surfaced.
	env := bits{MaxSize: 3}
	policy := Policy[[]bool]{
		Terminal: env,
		Continue: ContinueFunc[[]bool](func(s *[]bool) bool { return len(*s) == 0 }),
	}
	gen := NewGenerator([]bool{}, env, env, policy)
	if gen.Next() {
		t.Errorf("yielded %v, want nothing", *gen.Current())
	}
	if st := gen.Stats(); st.Pruned != 2 {
		t.Errorf("pruned = %d, want 2", st.Pruned)
	}
}

func TestGeneratorMatchesRecursive(t *testing.T) {
	env := ragged{MaxDepth: 5}
	policies := map[string]Policy[[]int]{
		"no policy": {},
		"terminal at 4": {
			Terminal: TerminalFunc[[]int](func(s *[]int) bool { return len(*s) == 4 }),
		},
		"bounded sum": {
			Terminal: TerminalFunc[[]int](func(s *[]int) bool { return len(*s) >= 3 }),
			Continue: ContinueFunc[[]int](func(s *[]int) bool {
				sum := 0
				for _, x := range *s {
					sum += x
				}
				return sum < 3
			}),
		},
	}

	for name, p := range policies {
		t.Run(name, func(t *testing.T) {
			var want [][]int
			recursiveTerminals(&[]int{}, env, env, p, func(s *[]int) {
				want = append(want, cloneInts(*s))
			})
			got := Collect(NewGenerator([]int{}, env, env, p).All(), cloneInts)
			if !slices.EqualFunc(got, want, slices.Equal[[]int]) {
				t.Errorf("order mismatch\n got: %v\nwant: %v", got, want)
			}
		})
	}
}

func TestGeneratorAliasing(t *testing.T) {
	env := bits{MaxSize: 2}
	gen := NewGenerator([]bool{}, env, env, PolicyOf[[]bool](env))

	if !gen.Next() {
		t.Fatal("expected a first state")
	}
	first := gen.Current()
	if !slices.Equal(*first, []bool{true, true}) {
		t.Fatalf("first = %v", *first)
	}
	if !gen.Next() {
		t.Fatal("expected a second state")
	}
	second := gen.Current()
	if first != second {
		t.Error("Current() should always point at the engine's single state")
	}
	if !slices.Equal(*first, []bool{true, false}) {
		t.Errorf("retained reference shows %v, want the mutated [true false]", *first)
	}
}

func TestGeneratorExhaustionIsIdempotent(t *testing.T) {
	env := bits{MaxSize: 1}
	gen := NewGenerator([]bool{}, env, env, PolicyOf[[]bool](env))
	for gen.Next() {
	}
	for range 3 {
		if gen.Next() {
			t.Fatal("Next() after exhaustion returned true")
		}
		if gen.Current() != nil {
			t.Fatal("Current() after exhaustion should be nil")
		}
	}
}

func TestGeneratorBreakOutOfRange(t *testing.T) {
	env := bits{MaxSize: 3}
	gen := NewGenerator([]bool{}, env, env, PolicyOf[[]bool](env))

	n := 0
	for range gen.All() {
		n++
		if n == 3 {
			break
		}
	}
	// The generator resumes where the loop stopped.
	if got := Count(gen.All()); got != 5 {
		t.Errorf("remaining = %d, want 5", got)
	}
}

func TestGeneratorWithVerify(t *testing.T) {
	env := ragged{MaxDepth: 6}
	checked := Verify[[]int, int](env, cloneInts, func(a, b *[]int) bool { return slices.Equal(*a, *b) })
	gen := NewGenerator([]int{}, checked, env, Policy[[]int]{
		Terminal: TerminalFunc[[]int](func(s *[]int) bool { return len(*s) == 6 }),
	})
	for gen.Next() {
	}
	if st := gen.Stats(); st.Applies != st.Rollbacks {
		t.Errorf("applies = %d, rollbacks = %d", st.Applies, st.Rollbacks)
	}
}

func TestPolicyOf(t *testing.T) {
	env := bits{MaxSize: 2}
	stop := ContinueFunc[[]bool](func(*[]bool) bool { return false })

	p := PolicyOf[[]bool](env, stop, 42)
	if p.Terminal == nil {
		t.Error("Terminal should be picked up from env")
	}
	if p.Continue == nil {
		t.Error("Continue should be picked up from stop")
	}

	empty := PolicyOf[[]bool]("nothing")
	if empty.isTerminal(&[]bool{}) {
		t.Error("nil Terminal should never report terminal")
	}
	if !empty.shouldContinue(&[]bool{}) {
		t.Error("nil Continue should always continue")
	}
}

// counter is a b-ary tree of fixed depth whose state is only the depth.
type counter struct {
	Branching int
	Depth     int
}

func (counter) Apply(s *int, _ uint8)    { *s++ }
func (counter) Rollback(s *int, _ uint8) { *s-- }

func (c counter) AppendActions(dst []uint8, s *int) []uint8 {
	if *s >= c.Depth {
		return dst
	}
	for i := range c.Branching {
		dst = append(dst, uint8(i))
	}
	return dst
}

func (c counter) IsTerminal(s *int) bool { return *s >= c.Depth }
