package puzzle

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/statewalk/pkg/errors"
	"github.com/matzehuels/statewalk/pkg/search"
)

// Bits is the fixed-depth b-ary tree. A state is the sequence of digits
// chosen so far; every node below Depth offers the digits 0..Branching-1.
type Bits struct {
	Depth     int
	Branching int
}

func (Bits) Apply(s *[]uint8, d uint8)    { *s = append(*s, d) }
func (Bits) Rollback(s *[]uint8, _ uint8) { *s = (*s)[:len(*s)-1] }

func (b Bits) AppendActions(dst []uint8, s *[]uint8) []uint8 {
	if len(*s) >= b.Depth {
		return dst
	}
	for d := range b.Branching {
		dst = append(dst, uint8(d))
	}
	return dst
}

func (b Bits) IsTerminal(s *[]uint8) bool { return len(*s) >= b.Depth }

func (Bits) Name() string { return NameBits }

func (b Bits) Enumerate(ctx context.Context, visit func(string) bool) (search.Stats, error) {
	gen := search.NewGenerator(make([]uint8, 0, b.Depth), search.Environment[[]uint8, uint8](b), b, search.PolicyOf[[]uint8](b))
	var sb strings.Builder
	return drain(ctx, gen, func(s *[]uint8) bool {
		sb.Reset()
		for _, d := range *s {
			sb.WriteString(strconv.FormatUint(uint64(d), 36))
		}
		return visit(sb.String())
	})
}

// MaxQueens bounds the board size so the diagonal masks fit in a uint64.
const MaxQueens = 32

// Board is an n-queens state: one queen per filled row, with the occupied
// columns and diagonals kept as bitmasks.
type Board struct {
	Cols  []int
	used  uint64
	diag  uint64 // row + col
	adiag uint64 // row - col + n - 1
}

// Queens places N non-attacking queens row by row. Only safe columns are
// offered, so dead ends are leaves without actions and every terminal
// state is a solution.
type Queens struct{ N int }

func (q Queens) masks(row, col int) (uint64, uint64, uint64) {
	return 1 << col, 1 << (row + col), 1 << (row - col + q.N - 1)
}

func (q Queens) Apply(b *Board, col int) {
	c, d, a := q.masks(len(b.Cols), col)
	b.Cols = append(b.Cols, col)
	b.used |= c
	b.diag |= d
	b.adiag |= a
}

func (q Queens) Rollback(b *Board, col int) {
	b.Cols = b.Cols[:len(b.Cols)-1]
	c, d, a := q.masks(len(b.Cols), col)
	b.used &^= c
	b.diag &^= d
	b.adiag &^= a
}

func (q Queens) AppendActions(dst []int, b *Board) []int {
	row := len(b.Cols)
	if row >= q.N {
		return dst
	}
	for col := range q.N {
		c, d, a := q.masks(row, col)
		if b.used&c == 0 && b.diag&d == 0 && b.adiag&a == 0 {
			dst = append(dst, col)
		}
	}
	return dst
}

func (q Queens) IsTerminal(b *Board) bool { return len(b.Cols) == q.N }

func (Queens) Name() string { return NameQueens }

func (q Queens) Enumerate(ctx context.Context, visit func(string) bool) (search.Stats, error) {
	gen := search.NewGenerator(Board{Cols: make([]int, 0, q.N)}, search.Environment[Board, int](q), q, search.PolicyOf[Board](q))
	return drain(ctx, gen, func(b *Board) bool {
		return visit(FormatBoard(b.Cols))
	})
}

// FormatBoard renders queen columns as one row per line, "Q" for a queen
// and "." for an empty square.
func FormatBoard(cols []int) string {
	var sb strings.Builder
	for i, c := range cols {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j := range len(cols) {
			if j == c {
				sb.WriteByte('Q')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// Subset is a subset-sum state: the items decided so far, the indices
// chosen among them and the running totals.
type Subset struct {
	Next      int
	Chosen    []int
	Sum       int
	remaining int
}

// SubsetSum finds the subsets of Items that add up to Target. Items must be
// positive. At every node the next item is either taken or skipped; the
// continuation policy cuts branches that overshoot or can no longer reach
// the target with the items that are left.
type SubsetSum struct {
	Items  []int
	Target int
}

// NewSubsetSum validates items and target.
func NewSubsetSum(items []int, target int) (SubsetSum, error) {
	if len(items) == 0 {
		return SubsetSum{}, errors.New(errors.ErrCodeInvalidInput, "subset-sum needs at least one item")
	}
	if len(items) > 64 {
		return SubsetSum{}, errors.New(errors.ErrCodeInvalidInput, "subset-sum supports at most 64 items, got %d", len(items))
	}
	for i, x := range items {
		if x <= 0 {
			return SubsetSum{}, errors.New(errors.ErrCodeInvalidInput, "item %d must be positive, got %d", i, x)
		}
	}
	if target <= 0 {
		return SubsetSum{}, errors.New(errors.ErrCodeInvalidInput, "target must be positive, got %d", target)
	}
	return SubsetSum{Items: slices.Clone(items), Target: target}, nil
}

// Start returns the root state.
func (p SubsetSum) Start() Subset {
	total := 0
	for _, x := range p.Items {
		total += x
	}
	return Subset{Chosen: make([]int, 0, len(p.Items)), remaining: total}
}

func (p SubsetSum) Apply(s *Subset, take bool) {
	x := p.Items[s.Next]
	if take {
		s.Chosen = append(s.Chosen, s.Next)
		s.Sum += x
	}
	s.remaining -= x
	s.Next++
}

func (p SubsetSum) Rollback(s *Subset, take bool) {
	s.Next--
	x := p.Items[s.Next]
	if take {
		s.Chosen = s.Chosen[:len(s.Chosen)-1]
		s.Sum -= x
	}
	s.remaining += x
}

func (p SubsetSum) AppendActions(dst []bool, s *Subset) []bool {
	if s.Next >= len(p.Items) {
		return dst
	}
	return append(dst, true, false)
}

func (p SubsetSum) IsTerminal(s *Subset) bool { return s.Sum == p.Target }

func (p SubsetSum) ShouldContinue(s *Subset) bool {
	return s.Sum < p.Target && s.Sum+s.remaining >= p.Target
}

func (SubsetSum) Name() string { return NameSubsetSum }

func (p SubsetSum) Enumerate(ctx context.Context, visit func(string) bool) (search.Stats, error) {
	gen := search.NewGenerator(p.Start(), search.Environment[Subset, bool](p), p, search.PolicyOf[Subset](p))
	return drain(ctx, gen, func(s *Subset) bool {
		return visit(p.Format(s))
	})
}

// Format renders a state as the chosen items joined by "+".
func (p SubsetSum) Format(s *Subset) string {
	parts := make([]string, len(s.Chosen))
	for i, idx := range s.Chosen {
		parts[i] = strconv.Itoa(p.Items[idx])
	}
	return fmt.Sprintf("%s=%d", strings.Join(parts, "+"), s.Sum)
}
