// Package anneal implements a simulated-annealing local search over the same
// reversible transition model used by package search.
//
// Instead of enumerating a tree, the [Solver] repeatedly asks an
// [search.ActionsGenerator] for a randomized candidate move, applies it in
// place and keeps it or rolls it back according to the Metropolis criterion.
// Weights are minimised. The best state seen is kept by value, which is the
// one place where a full clone of the state is deliberate: the solver keeps
// exploring past the optimum.
//
// # Usage
//
//	solver := anneal.New(initial, env, agent, agent, anneal.Options[Path]{
//	    Temperature: 100,
//	    Seed:        42,
//	    Clone:       Path.Clone,
//	})
//	solver.Run(ctx, anneal.Geometric(0.95), 0.01)
//	best := solver.Best()
//
// The proposal generator should return exactly one candidate; extra
// candidates are ignored and an empty proposal makes the step a no-op.
package anneal

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/statewalk/pkg/search"
)

// Weigher scores a state. Lower is better.
type Weigher[S any] interface {
	Weight(state *S) float64
}

// WeightFunc adapts a function to [Weigher].
type WeightFunc[S any] func(state *S) float64

// Weight calls f(state).
func (f WeightFunc[S]) Weight(state *S) float64 { return f(state) }

// Options configures a [Solver].
type Options[S any] struct {
	// Temperature is the starting temperature. Must be positive.
	Temperature float64
	// Seed makes acceptance decisions reproducible.
	Seed uint64
	// Clone copies a state without sharing mutable storage. Required.
	Clone func(S) S
}

// Solver runs simulated annealing. It is not safe for concurrent use.
type Solver[S, A any] struct {
	env    search.Environment[S, A]
	agent  search.ActionsGenerator[S, A]
	weigh  Weigher[S]
	clone  func(S) S
	rng    *rand.Rand
	buf    []A
	temp   float64
	cur    S
	curW   float64
	best   S
	bestW  float64
	steps  int
	accept int
}

// New creates a solver that takes ownership of initial.
func New[S, A any](initial S, env search.Environment[S, A], agent search.ActionsGenerator[S, A], weigh Weigher[S], opts Options[S]) *Solver[S, A] {
	s := &Solver[S, A]{
		env:   env,
		agent: agent,
		weigh: weigh,
		clone: opts.Clone,
		rng:   rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		temp:  opts.Temperature,
		cur:   initial,
	}
	s.curW = weigh.Weight(&s.cur)
	s.best = s.clone(s.cur)
	s.bestW = s.curW
	return s
}

// Step proposes one move and applies it. With probe set the move is always
// rolled back, which measures the landscape without changing it. Otherwise
// the move is kept if it does not increase the weight, or with probability
// exp(-(new-prev)/T) if it does. Step reports the weight change of the
// proposed move and whether it was kept.
func (s *Solver[S, A]) Step(probe bool) (delta float64, kept bool) {
	s.buf = s.agent.AppendActions(s.buf[:0], &s.cur)
	if len(s.buf) == 0 {
		return 0, false
	}
	action := s.buf[0]

	prev := s.curW
	s.env.Apply(&s.cur, action)
	next := s.weigh.Weight(&s.cur)
	delta = next - prev
	s.steps++

	if probe || !s.accepts(delta) {
		s.env.Rollback(&s.cur, action)
		return delta, false
	}
	s.curW = next
	s.accept++
	if next < s.bestW {
		s.best = s.clone(s.cur)
		s.bestW = next
	}
	return delta, true
}

func (s *Solver[S, A]) accepts(delta float64) bool {
	if delta <= 0 {
		return true
	}
	if s.temp <= 0 {
		return false
	}
	return s.rng.Float64() < math.Exp(-delta/s.temp)
}

// Run performs steps, cooling the temperature after each one, until the
// temperature drops to floor or ctx is done. cool must be a pure function
// that strictly decreases positive temperatures, or Run will not stop
// before ctx does.
func (s *Solver[S, A]) Run(ctx context.Context, cool func(float64) float64, floor float64) error {
	for s.temp > floor {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Step(false)
		s.temp = cool(s.temp)
	}
	return nil
}

// EstimateFluctuation probes steps random moves from the current state and
// returns their mean absolute weight change. It is a common way to pick a
// starting temperature.
func (s *Solver[S, A]) EstimateFluctuation(steps int) float64 {
	if steps <= 0 {
		return 0
	}
	total := 0.0
	for range steps {
		d, _ := s.Step(true)
		total += math.Abs(d)
	}
	return total / float64(steps)
}

// SetTemperature overrides the current temperature.
func (s *Solver[S, A]) SetTemperature(t float64) { s.temp = t }

// Temperature returns the current temperature.
func (s *Solver[S, A]) Temperature() float64 { return s.temp }

// Current returns the solver's working state. It changes in place on every
// step.
func (s *Solver[S, A]) Current() *S { return &s.cur }

// CurrentWeight returns the weight of the working state.
func (s *Solver[S, A]) CurrentWeight() float64 { return s.curW }

// Best returns the lowest-weight state seen so far. The solver owns it;
// it is replaced, not mutated, when a better state is found.
func (s *Solver[S, A]) Best() *S { return &s.best }

// BestWeight returns the weight of [Solver.Best].
func (s *Solver[S, A]) BestWeight() float64 { return s.bestW }

// Steps returns the number of proposals evaluated and how many were kept.
func (s *Solver[S, A]) Steps() (proposed, accepted int) { return s.steps, s.accept }

// Geometric returns a cooling schedule that multiplies the temperature by
// factor at every step.
func Geometric(factor float64) func(float64) float64 {
	return func(t float64) float64 { return t * factor }
}

// Linear returns a cooling schedule that subtracts step at every step.
func Linear(step float64) func(float64) float64 {
	return func(t float64) float64 { return t - step }
}
