// Package pipeline runs statewalk's searches end to end with caching.
//
// The CLI and the API server share one [Runner] so both entry points apply
// the same defaults, cache keys and logging:
//
//  1. Order: normalize a graph, search for a crossing-minimal row
//     ordering and optionally render it to SVG
//  2. Enumerate: run one of the bundled puzzle models and collect its
//     solutions
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Order(ctx, g, pipeline.Options{
//	    Algorithm: "optimal",
//	    Normalize: true,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Ordering.Crossings)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/dag/transform"
	"github.com/matzehuels/statewalk/pkg/errors"
	sio "github.com/matzehuels/statewalk/pkg/io"
	"github.com/matzehuels/statewalk/pkg/ordering"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultAlgorithm is the ordering algorithm used when none is given.
	DefaultAlgorithm = ordering.AlgorithmOptimal

	// DefaultSeed seeds annealing when no seed is given.
	DefaultSeed = uint64(42)

	// DefaultLimit caps the number of enumerated solutions returned.
	DefaultLimit = 100

	// MaxLimit is the largest limit an enumeration accepts.
	MaxLimit = 100_000

	// TTLOrdering is how long ordering results stay cached.
	TTLOrdering = 7 * 24 * time.Hour

	// TTLEnumeration is how long enumeration results stay cached.
	TTLEnumeration = 24 * time.Hour
)

// =============================================================================
// Options - Ordering Configuration
// =============================================================================

// Options configures [Runner.Order]. It decodes from API request bodies.
type Options struct {
	Algorithm string `json:"algorithm,omitempty"`
	// Quality picks the time budget when Timeout is zero: fast, balanced
	// or optimal.
	Quality   string        `json:"quality,omitempty"`
	Timeout   time.Duration `json:"timeout,omitempty"`
	Seed      uint64        `json:"seed,omitempty"`
	Normalize bool          `json:"normalize,omitempty"`
	Render    bool          `json:"render,omitempty"` // also render an SVG
	Detailed  bool          `json:"detailed,omitempty"`
	Refresh   bool          `json:"refresh,omitempty"` // bypass cached results

	Logger   *log.Logger                      `json:"-"`
	Progress func(explored, pruned, best int) `json:"-"`
	Debug    func(ordering.DebugInfo)         `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if _, err := ordering.New(o.Algorithm, 0, 0); err != nil {
		return err
	}
	if o.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timeout must not be negative, got %s", o.Timeout)
	}
	if o.Timeout == 0 {
		q, err := ordering.ParseQuality(o.Quality)
		if err != nil {
			return err
		}
		o.Timeout = q.Timeout()
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Searcher builds the configured ordering algorithm.
func (o *Options) Searcher() (ordering.Searcher, error) {
	s, err := ordering.New(o.Algorithm, o.Timeout, o.Seed)
	if err != nil {
		return nil, err
	}
	if opt, ok := s.(ordering.OptimalSearch); ok {
		opt.Progress, opt.Debug = o.Progress, o.Debug
		s = opt
	}
	return s, nil
}

// =============================================================================
// Results
// =============================================================================

// Result is the outcome of [Runner.Order].
type Result struct {
	// Graph is the graph the ordering refers to, normalized if requested.
	Graph *dag.DAG
	// GraphHash is the content hash of the input graph.
	GraphHash string
	// Normalization reports what normalization changed.
	Normalization transform.Result
	Ordering      sio.Ordering
	// SVG holds the rendered drawing when Options.Render is set.
	SVG      []byte
	Stats    Stats
	CacheHit bool
}

// Stats contains ordering timings and sizes.
type Stats struct {
	NodeCount     int
	EdgeCount     int
	NormalizeTime time.Duration
	SearchTime    time.Duration
	RenderTime    time.Duration
}
