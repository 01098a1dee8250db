package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/errors"
	sio "github.com/matzehuels/statewalk/pkg/io"
	"github.com/matzehuels/statewalk/pkg/search/graphwalk"
)

type pathsOpts struct {
	from      []string
	limit     int
	reachable bool
}

// pathsCommand creates the paths command.
func (c *CLI) pathsCommand() *cobra.Command {
	var opts pathsOpts

	cmd := &cobra.Command{
		Use:   "paths <graph>",
		Short: "List the simple paths from source nodes to sinks",
		Long: `Paths prints every simple path from each start node to a node without
children, one path per line. Edges that would revisit a node on the current
path are skipped, so cyclic graphs are fine.`,
		Example: `  statewalk paths deps.json
  statewalk paths deps.json --from app --limit 20
  statewalk paths deps.json --from app --reachable`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := sio.Import(args[0])
			if err != nil {
				return err
			}
			return c.runPaths(cmd, g, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.from, "from", "f", nil, "start nodes (default: all sources)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 1000, "maximum number of paths per start node (0 = all)")
	cmd.Flags().BoolVar(&opts.reachable, "reachable", false, "list the reachable nodes instead of paths")
	return cmd
}

func (c *CLI) runPaths(cmd *cobra.Command, g *dag.DAG, opts pathsOpts) error {
	roots := opts.from
	if len(roots) == 0 {
		roots = dag.NodeIDs(g.Sources())
	}
	for _, r := range roots {
		if _, ok := g.Node(r); !ok {
			return errors.New(errors.ErrCodeNotFound, "unknown node %q", r)
		}
	}
	out := cmd.OutOrStdout()

	if opts.reachable {
		nodes := graphwalk.Reachable[string](g, roots...)
		for _, n := range nodes {
			fmt.Fprintln(out, n)
		}
		printSuccess(cmd.ErrOrStderr(), "%d nodes reachable from %s", len(nodes), strings.Join(roots, ", "))
		return nil
	}

	total, capped := 0, false
	for _, root := range roots {
		n := 0
		for p := range graphwalk.Paths[string](g, root) {
			if opts.limit > 0 && n == opts.limit {
				capped = true
				break
			}
			fmt.Fprintln(out, strings.Join(p, " "+iconArrow+" "))
			n++
		}
		c.Logger.Debug("paths", "from", root, "count", n)
		total += n
	}

	printSuccess(cmd.ErrOrStderr(), "%d paths from %d start nodes", total, len(roots))
	if capped {
		printWarning(cmd.ErrOrStderr(), "Stopped at --limit %d paths per start node", opts.limit)
	}
	return nil
}
