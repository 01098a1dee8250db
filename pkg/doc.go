// Package pkg provides the libraries behind statewalk, a lazy depth-first
// state-space enumerator and the tools built on it.
//
// # Overview
//
// A search problem is described by an environment that applies and rolls
// back actions on a single mutable state, an actions generator that lists
// the moves available from a state, and optional terminal and continuation
// policies. The engine walks the tree those define without ever copying
// the state. The pkg directory is organized into four areas:
//
//  1. [search] - The engine (visitor, generator) and solvers built on it
//  2. [dag] - Layered graphs, normalization and crossing counts
//  3. [ordering] - Crossing minimization, the engine's main consumer
//  4. [pipeline] - Orchestration (normalize → order → render, enumerate)
//     shared by the CLI and the HTTP server
//
// # Architecture
//
// The typical data flow for ordering a graph:
//
//	JSON/YAML/TOML graph
//	         ↓
//	    [io] package (decode into a DAG)
//	         ↓
//	    [dag/transform] package (break cycles, layer, subdivide)
//	         ↓
//	    [ordering] package (branch and bound over row permutations)
//	         ↓
//	    ordering JSON + optional SVG ([render/nodelink])
//
// # Quick Start
//
// Enumerate every terminal state of a custom model:
//
//	type coins struct{ flips int }
//
//	func (coins) Apply(s *[]string, a string)    { *s = append(*s, a) }
//	func (coins) Rollback(s *[]string, _ string) { *s = (*s)[:len(*s)-1] }
//	func (c coins) AppendActions(dst []string, s *[]string) []string {
//	    if len(*s) == c.flips {
//	        return dst
//	    }
//	    return append(dst, "H", "T")
//	}
//	func (c coins) IsTerminal(s *[]string) bool { return len(*s) == c.flips }
//
//	c := coins{flips: 3}
//	gen := search.NewGenerator(nil, search.Environment[[]string, string](c), c, search.PolicyOf[[]string](c))
//	for s := range gen.All() {
//	    fmt.Println(strings.Join(*s, ""))
//	}
//
// Order a graph with the shared runner:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := runner.Order(ctx, g, pipeline.Options{Normalize: true})
//	fmt.Println(res.Ordering.Crossings)
//
// # Main Packages
//
// ## Search
//
// [search] - Visitor, a resumable explicit-stack walk that performs one
// apply or rollback per step, and Generator, which yields terminal states
// and prunes subtrees the continuation policy rejects.
//
// [search/anneal] - Simulated annealing driven by the same Environment and
// ActionsGenerator contracts.
//
// [search/graphwalk] - Graph walks (paths, reachability, back edges) as
// search problems over a trail of visited nodes.
//
// [search/layered] - Breadth-by-layer dynamic programming that merges
// states with equal keys.
//
// [puzzle] - Ready-made models (bits, queens, subset-sum) used by the
// enumerate command and endpoint.
//
// ## Graphs
//
// [dag] - Directed graph with nodes organized into rows. Edges must connect
// consecutive rows for layered algorithms; [dag.DAG.Validate] checks this.
//
// [dag/transform] - Cycle breaking, transitive reduction, longest-path
// layering and edge subdivision. [transform.Normalize] runs them in order.
//
// [dag/perm] - Permutation enumeration as a search space, with an Allow
// hook for constrained orders.
//
// [io] - Node-link serialization in JSON, YAML and TOML, plus the ordering
// result format.
//
// ## Infrastructure
//
// [cache] - Result cache with file, Redis and no-op backends and key
// derivation for orderings and enumerations.
//
// [observability] - Hook interfaces for search, cache and HTTP events;
// [observability/prom] implements them with Prometheus metrics.
//
// [server] - HTTP API over the pipeline runner.
//
// [errors] - Coded errors shared by every package, mapped to exit codes and
// HTTP statuses at the edges.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                   # All tests
//	go test ./pkg/search/...            # Specific package
//	go test -run Example ./pkg/...      # Examples only
//	go test -bench . ./pkg/search       # Engine benchmarks
//
// [search]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/search
// [search/anneal]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/search/anneal
// [search/graphwalk]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/search/graphwalk
// [search/layered]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/search/layered
// [puzzle]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/puzzle
// [dag]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/dag/transform
// [dag/perm]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/dag/perm
// [ordering]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/ordering
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/observability/prom
// [server]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/errors
// [transform.Normalize]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/dag/transform#Normalize
// [dag.DAG.Validate]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/dag#DAG.Validate
//
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/statewalk/pkg/render/nodelink
package pkg
