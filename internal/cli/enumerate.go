package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/statewalk/pkg/pipeline"
	"github.com/matzehuels/statewalk/pkg/puzzle"
)

type enumerateOpts struct {
	params  puzzle.Params
	limit   int
	timeout time.Duration
	count   bool
	json    bool
	noCache bool
	refresh bool
}

// enumerateCommand creates the enumerate command.
func (c *CLI) enumerateCommand() *cobra.Command {
	var opts enumerateOpts

	cmd := &cobra.Command{
		Use:   "enumerate <model>",
		Short: "Enumerate the solutions of a puzzle model",
		Long: fmt.Sprintf(`Enumerate walks the search tree of a bundled model and prints its solutions
in depth-first order.

Models: %s
  bits        every digit string of --depth digits in base --branching
  queens      placements of --n non-attacking queens
  subset-sum  subsets of --items that add up to --target`, strings.Join(puzzle.Names(), ", ")),
		Example: `  statewalk enumerate queens --n 8 --count
  statewalk enumerate subset-sum --items 3,34,4,12,5,2 --target 9
  statewalk enumerate bits --depth 3 --branching 2 --json`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: puzzle.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEnumerate(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.params.N, "n", 8, "board size (queens)")
	f.IntVar(&opts.params.Depth, "depth", 3, "string length (bits)")
	f.IntVar(&opts.params.Branching, "branching", 2, "digits per position (bits)")
	f.IntSliceVar(&opts.params.Items, "items", nil, "positive item values (subset-sum)")
	f.IntVar(&opts.params.Target, "target", 0, "target sum (subset-sum)")
	f.IntVarP(&opts.limit, "limit", "l", pipeline.DefaultLimit, "maximum number of solutions")
	f.DurationVarP(&opts.timeout, "timeout", "t", 0, "stop after this long (0 = no limit)")
	f.BoolVarP(&opts.count, "count", "c", false, "print only the number of solutions")
	f.BoolVar(&opts.json, "json", false, "print the result as JSON")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")

	return cmd
}

func (c *CLI) runEnumerate(cmd *cobra.Command, model string, opts enumerateOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	// Only the chosen model's parameters take part in the cache key.
	params := modelParams(model, opts.params)

	spin := newSpinner(cmd.Context(), cmd.ErrOrStderr(), "Enumerating "+model+"...")
	spin.Start()
	prog := newProgress(c.Logger)
	res, err := runner.Enumerate(cmd.Context(), pipeline.EnumerateOptions{
		Model:   model,
		Params:  params,
		Limit:   opts.limit,
		Timeout: opts.timeout,
		Refresh: opts.refresh,
	})
	spin.Stop()
	if err != nil {
		return err
	}
	c.Logger.Debug("enumeration finished", "elapsed", prog.elapsed())

	out := cmd.OutOrStdout()
	switch {
	case opts.json:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	case opts.count:
		fmt.Fprintln(out, len(res.Solutions))
	default:
		sep := "\n"
		if model == puzzle.NameQueens {
			sep = "\n\n"
		}
		if len(res.Solutions) > 0 {
			fmt.Fprint(out, strings.Join(res.Solutions, sep)+"\n")
		}
	}

	stderr := cmd.ErrOrStderr()
	printSuccess(stderr, "Enumerated %d %s solutions", len(res.Solutions), model)
	printStats(stderr, res.CacheHit,
		fmt.Sprintf("%d states", res.Stats.Entered),
		fmt.Sprintf("%d pruned", res.Stats.Pruned))
	if res.Truncated {
		printWarning(stderr, "Stopped at --limit %d; more solutions exist", opts.limit)
	}
	return nil
}

// modelParams keeps only the fields the model reads.
func modelParams(model string, p puzzle.Params) puzzle.Params {
	switch model {
	case puzzle.NameBits:
		return puzzle.Params{Depth: p.Depth, Branching: p.Branching}
	case puzzle.NameQueens:
		return puzzle.Params{N: p.N}
	case puzzle.NameSubsetSum:
		return puzzle.Params{Items: p.Items, Target: p.Target}
	default:
		return p
	}
}
