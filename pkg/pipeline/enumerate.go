package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/statewalk/pkg/cache"
	"github.com/matzehuels/statewalk/pkg/errors"
	"github.com/matzehuels/statewalk/pkg/observability"
	"github.com/matzehuels/statewalk/pkg/puzzle"
	"github.com/matzehuels/statewalk/pkg/search"
)

// EnumerateOptions configures [Runner.Enumerate].
type EnumerateOptions struct {
	Model   string        `json:"model"`
	Params  puzzle.Params `json:"params"`
	Limit   int           `json:"limit,omitempty"`   // 0 means DefaultLimit
	Timeout time.Duration `json:"timeout,omitempty"` // 0 means no budget
	Refresh bool          `json:"refresh,omitempty"`
}

// Enumeration is the outcome of [Runner.Enumerate].
type Enumeration struct {
	Model     string       `json:"model"`
	Solutions []string     `json:"solutions"`
	Stats     search.Stats `json:"stats"`
	// Truncated is true when the limit stopped the enumeration before the
	// search tree was exhausted.
	Truncated bool `json:"truncated"`
	CacheHit  bool `json:"-"`
}

// Enumerate runs the named puzzle model and collects up to opts.Limit
// solutions.
func (r *Runner) Enumerate(ctx context.Context, opts EnumerateOptions) (*Enumeration, error) {
	if opts.Limit == 0 {
		opts.Limit = DefaultLimit
	}
	if err := errors.ValidateRange("limit", opts.Limit, 1, MaxLimit); err != nil {
		return nil, err
	}
	p, err := puzzle.New(opts.Model, opts.Params)
	if err != nil {
		return nil, err
	}

	key := r.Keyer.EnumerationKey(opts.Model, opts.Params, opts.Limit)
	if !opts.Refresh {
		var cached Enumeration
		hit, err := cache.GetJSON(ctx, r.Cache, cache.KeyTypeEnumeration, key, &cached)
		if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		if hit {
			cached.CacheHit = true
			return &cached, nil
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	algorithm := "enumerate/" + opts.Model
	hooks := observability.Search()
	hooks.OnSearchStart(ctx, algorithm, opts.Limit)
	start := time.Now()

	// Ask for one extra solution to tell "exactly limit" from "more".
	sols, stats, err := puzzle.Collect(ctx, p, opts.Limit+1)
	elapsed := time.Since(start)
	truncated := len(sols) > opts.Limit
	if truncated {
		sols = sols[:opts.Limit]
	}
	if sols == nil {
		sols = []string{}
	}
	hooks.OnSearchComplete(ctx, algorithm, observability.SearchStats{
		Explored:  stats.Entered,
		Pruned:    stats.Pruned,
		Solutions: len(sols),
		Best:      -1,
		Complete:  err == nil && !truncated,
	}, elapsed, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("enumeration complete",
		"model", opts.Model,
		"solutions", len(sols),
		"entered", stats.Entered,
		"pruned", stats.Pruned,
		"truncated", truncated,
		"duration", elapsed)

	out := &Enumeration{Model: opts.Model, Solutions: sols, Stats: stats, Truncated: truncated}
	if err := cache.SetJSON(ctx, r.Cache, cache.KeyTypeEnumeration, key, out, TTLEnumeration); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	}
	return out, nil
}
