package cli

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	sio "github.com/matzehuels/statewalk/pkg/io"
	"github.com/matzehuels/statewalk/pkg/ordering"
	"github.com/matzehuels/statewalk/pkg/pipeline"
)

// orderOpts holds the flags of the order command.
type orderOpts struct {
	output    string
	svg       string
	algorithm string
	quality   string
	timeout   time.Duration
	seed      uint64
	normalize bool
	detailed  bool
	noCache   bool
	refresh   bool
}

// orderCommand creates the order command.
func (c *CLI) orderCommand() *cobra.Command {
	var opts orderOpts

	cmd := &cobra.Command{
		Use:   "order <graph>",
		Short: "Order the rows of a layered graph to minimize edge crossings",
		Long: `Order reads a graph (.json, .yaml or .toml), optionally normalizes it into a
proper layered DAG, and searches for a left-to-right order of every row with
as few edge crossings as possible. The ordering is written as JSON.`,
		Example: `  statewalk order deps.json --normalize
  statewalk order deps.yaml --algorithm annealing --timeout 10s -o order.json
  statewalk order deps.json --normalize --svg deps.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("algorithm") {
				opts.algorithm = c.cfg.Search.Algorithm
			}
			if !cmd.Flags().Changed("quality") {
				opts.quality = c.cfg.Search.Quality
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = c.cfg.Search.Seed
			}
			return c.runOrder(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "write the ordering to this file instead of stdout")
	f.StringVar(&opts.svg, "svg", "", "also render the ordered graph to this SVG file")
	f.StringVarP(&opts.algorithm, "algorithm", "a", pipeline.DefaultAlgorithm, fmt.Sprintf("ordering algorithm %v", ordering.Algorithms()))
	f.StringVarP(&opts.quality, "quality", "q", "balanced", "time budget preset: fast, balanced or optimal")
	f.DurationVarP(&opts.timeout, "timeout", "t", 0, "search time budget (overrides --quality)")
	f.Uint64Var(&opts.seed, "seed", pipeline.DefaultSeed, "random seed for annealing")
	f.BoolVarP(&opts.normalize, "normalize", "n", false, "break cycles, assign rows and subdivide long edges first")
	f.BoolVar(&opts.detailed, "detailed", false, "show node metadata in the SVG")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")

	return cmd
}

func (c *CLI) runOrder(cmd *cobra.Command, path string, opts orderOpts) error {
	stderr := cmd.ErrOrStderr()
	g, err := sio.Import(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded graph", "path", path, "nodes", g.NodeCount(), "edges", g.EdgeCount())

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Algorithm: opts.algorithm,
		Quality:   opts.quality,
		Timeout:   opts.timeout,
		Seed:      opts.seed,
		Normalize: opts.normalize,
		Render:    opts.svg != "",
		Detailed:  opts.detailed,
		Refresh:   opts.refresh,
		Logger:    c.Logger,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	sl := newSearchLogger(c.Logger, popts.Timeout)
	if popts.Algorithm == ordering.AlgorithmOptimal {
		popts.Progress, popts.Debug = sl.onProgress, sl.onDebug
	}

	prog := newProgress(c.Logger)
	res, err := runner.Order(cmd.Context(), g, popts)
	if err != nil {
		return err
	}
	if popts.Algorithm == ordering.AlgorithmOptimal && !res.CacheHit {
		sl.finish(res.Ordering.Crossings, res.Ordering.Complete)
	}
	prog.done(fmt.Sprintf("Ordering complete: %d crossings", res.Ordering.Crossings))

	var buf bytes.Buffer
	if err := sio.WriteOrdering(&buf, res.Ordering); err != nil {
		return err
	}
	if opts.output == "" {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return err
		}
	} else if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return err
	}

	proof := "best found"
	if res.Ordering.Complete {
		proof = "minimal"
	}
	printSuccess(stderr, "Ordered %s with %s (%s)", path, res.Ordering.Algorithm, proof)
	printStats(stderr, res.CacheHit,
		fmt.Sprintf("%d nodes", res.Stats.NodeCount),
		fmt.Sprintf("%d edges", res.Stats.EdgeCount),
		fmt.Sprintf("%d crossings", res.Ordering.Crossings))
	if opts.normalize {
		n := res.Normalization
		printKeyValue(stderr, "normalized", fmt.Sprintf("%d cycles, %d transitive, %d subdividers", n.CyclesRemoved, n.TransitiveEdgesRemoved, n.SubdividersAdded))
	}
	if opts.output != "" {
		printFile(stderr, opts.output)
	}
	if opts.svg != "" {
		if err := os.WriteFile(opts.svg, res.SVG, 0o644); err != nil {
			return err
		}
		printFile(stderr, opts.svg)
	}
	return nil
}
