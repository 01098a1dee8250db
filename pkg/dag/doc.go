// Package dag provides a directed graph organized into rows (layers), the
// input model of the layered ordering problem.
//
// # Overview
//
// A layered drawing places every node on a horizontal row and draws edges
// between consecutive rows. Once rows are fixed, the only freedom left is
// the left-to-right order inside each row, and the quality of a drawing is
// measured by the number of edge crossings. Package ordering searches that
// space; this package holds the graph and counts crossings.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [DAG.AddNode] and edges with
// [DAG.AddEdge]:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "app", Row: 0})
//	g.AddNode(dag.Node{ID: "lib", Row: 1})
//	g.AddEdge(dag.Edge{From: "app", To: "lib"})
//
// Use [DAG.Validate] before ordering. It checks that every edge connects
// consecutive rows and that the graph has no cycle. Graphs read from files
// usually need the [transform] helpers first: break cycles, assign rows and
// subdivide long edges.
//
// Nodes keep insertion order everywhere ([DAG.Nodes], [DAG.NodesInRow]), so
// searches over a graph are reproducible.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count inversions with a Fenwick
// tree in O(E log V). Search code that evaluates many candidate orders works
// on an [Index], an integer view of the rows, and reuses a
// [CrossingWorkspace] across calls to [CountCrossingsIdx].
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Counting crossings on a
// graph nobody modifies is safe from several goroutines as long as each has
// its own workspace.
//
// [transform]: github.com/matzehuels/statewalk/pkg/dag/transform
package dag
