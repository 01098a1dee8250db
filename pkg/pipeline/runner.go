package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/statewalk/pkg/cache"
	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/dag/transform"
	"github.com/matzehuels/statewalk/pkg/errors"
	sio "github.com/matzehuels/statewalk/pkg/io"
	"github.com/matzehuels/statewalk/pkg/ordering"
	"github.com/matzehuels/statewalk/pkg/render/nodelink"
)

// Runner executes orderings and enumerations with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options as long as the cache is safe for
// concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Order finds a row ordering of g. g is modified in place when
// opts.Normalize is set; otherwise it must already be a proper layered
// DAG.
//
// A search cut short by its own time budget still returns its best
// ordering with Complete false. Cancellation of ctx by the caller is an
// error.
func (r *Runner) Order(ctx context.Context, g *dag.DAG, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	hash, err := GraphHash(g)
	if err != nil {
		return nil, err
	}
	res := &Result{Graph: g, GraphHash: hash}

	if opts.Normalize {
		start := time.Now()
		before := g.NodeCount()
		res.Normalization = transform.Normalize(g, transform.Options{})
		res.Stats.NormalizeTime = time.Since(start)
		logger.Debug("normalized graph",
			"original_nodes", before,
			"normalized_nodes", g.NodeCount(),
			"cycles_removed", res.Normalization.CyclesRemoved,
			"subdividers", res.Normalization.SubdividersAdded)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	res.Stats.NodeCount = g.NodeCount()
	res.Stats.EdgeCount = g.EdgeCount()

	ord, hit, err := r.search(ctx, g, hash, &opts, &res.Stats)
	if err != nil {
		return nil, err
	}
	res.Ordering, res.CacheHit = ord, hit

	if opts.Render {
		start := time.Now()
		dot := nodelink.ToDOT(g, ord.Orders(), nodelink.Options{Detailed: opts.Detailed})
		svg, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		res.SVG = svg
		res.Stats.RenderTime = time.Since(start)
	}
	return res, nil
}

func (r *Runner) search(ctx context.Context, g *dag.DAG, hash string, opts *Options, stats *Stats) (sio.Ordering, bool, error) {
	key := r.Keyer.OrderingKey(hash, cache.OrderingKeyOpts{
		Algorithm: opts.Algorithm,
		Timeout:   opts.Timeout,
		Seed:      opts.Seed,
		Normalize: opts.Normalize,
	})

	if !opts.Refresh {
		var cached sio.Ordering
		hit, err := cache.GetJSON(ctx, r.Cache, cache.KeyTypeOrdering, key, &cached)
		if err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		}
		if hit && ordering.SameRows(cached.Orders(), g.Orders()) {
			opts.Logger.Debug("ordering cache hit", "key", key)
			return cached, true, nil
		}
	}

	s, err := opts.Searcher()
	if err != nil {
		return sio.Ordering{}, false, err
	}
	start := time.Now()
	out := s.Search(ctx, g)
	stats.SearchTime = time.Since(start)
	if err := ctx.Err(); err != nil {
		return sio.Ordering{}, false, errors.FromContext(err, "%s search interrupted", opts.Algorithm)
	}
	opts.Logger.Info("ordering complete",
		"algorithm", opts.Algorithm,
		"crossings", out.Crossings,
		"complete", out.Complete,
		"explored", out.Explored,
		"duration", stats.SearchTime)

	ord := sio.NewOrdering(opts.Algorithm, out)
	if err := cache.SetJSON(ctx, r.Cache, cache.KeyTypeOrdering, key, ord, TTLOrdering); err != nil {
		opts.Logger.Warn("cache write failed", "error", err)
	}
	return ord, false, nil
}

// GraphHash returns the content hash of g's canonical JSON encoding.
func GraphHash(g *dag.DAG) (string, error) {
	var buf bytes.Buffer
	if err := sio.Encode(&buf, g, sio.FormatJSON); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
