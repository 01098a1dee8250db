// Package nodelink renders ordered layered graphs as node-link diagrams.
//
// # Usage
//
// Convert a DAG and its row orders to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, res.Orders, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Row Order
//
// Each row becomes a rank=same subgraph chained by invisible edges, and the
// graph uses ordering=out, which keeps Graphviz from reordering nodes
// within a row. Rows missing from the orders map fall back to the graph's
// own row order.
//
// # Options
//
//   - Detailed: node labels include the row and all metadata
//   - Title: a graph label, e.g. the crossing count
//
// Subdivider nodes are drawn as small dashed points so long edges read as
// one line.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
