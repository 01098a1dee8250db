package search

import "testing"

func TestGeneratorLargeTree(t *testing.T) {
	if testing.Short() {
		t.Skip("enumerates 8^10 leaves")
	}

	env := counter{Branching: 8, Depth: 10}
	gen := NewGenerator(0, env, env, PolicyOf[int](env))

	n := 0
	for gen.Next() {
		n++
	}
	if n != 1<<30 {
		t.Errorf("yielded %d leaves, want 8^10 = %d", n, 1<<30)
	}
	if got := len(gen.visitor.frames); got > 10 {
		t.Errorf("resume stack grew to %d frames, want at most the tree depth 10", got)
	}
}

func BenchmarkGeneratorStep(b *testing.B) {
	env := counter{Branching: 4, Depth: 8}
	b.ReportAllocs()
	for b.Loop() {
		gen := NewGenerator(0, env, env, PolicyOf[int](env))
		for gen.Next() {
		}
	}
}
