package search_test

import (
	"fmt"

	"github.com/matzehuels/statewalk/pkg/search"
)

// coins flips a coin per step; a state is the sequence of flips so far.
type coins struct{ flips int }

func (coins) Apply(s *[]string, a string)    { *s = append(*s, a) }
func (coins) Rollback(s *[]string, _ string) { *s = (*s)[:len(*s)-1] }

func (c coins) AppendActions(dst []string, s *[]string) []string {
	return append(dst, "H", "T")
}

func (c coins) IsTerminal(s *[]string) bool { return len(*s) == c.flips }

func ExampleGenerator() {
	env := coins{flips: 2}
	gen := search.NewGenerator([]string{}, env, env, search.PolicyOf[[]string](env))

	for gen.Next() {
		fmt.Println(*gen.Current())
	}
	// Output:
	// [H H]
	// [H T]
	// [T H]
	// [T T]
}

func ExampleGenerator_pruning() {
	env := coins{flips: 3}
	// Never continue past two heads in a row.
	noDoubleHeads := search.ContinueFunc[[]string](func(s *[]string) bool {
		n := len(*s)
		return n < 2 || (*s)[n-1] != "H" || (*s)[n-2] != "H"
	})
	gen := search.NewGenerator([]string{}, env, env, search.PolicyOf[[]string](env, noDoubleHeads))

	fmt.Println("sequences:", search.Count(gen.All()))
	fmt.Println("pruned:", gen.Stats().Pruned)
	// Output:
	// sequences: 6
	// pruned: 1
}

func ExampleVisitor() {
	env := coins{flips: 2}
	v := search.NewVisitor([]string{}, search.Environment[[]string, string](env),
		search.ActionsFunc[[]string, string](func(dst []string, s *[]string) []string {
			if env.IsTerminal(s) {
				return dst
			}
			return env.AppendActions(dst, s)
		}))

	for s := range v.All() {
		fmt.Println(v.Depth(), *s)
	}
	// Output:
	// 0 []
	// 1 [H]
	// 2 [H H]
	// 2 [H T]
	// 1 [T]
	// 2 [T H]
	// 2 [T T]
}
