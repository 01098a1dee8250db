// Package io reads and writes layered graphs and their orderings.
//
// # Graph Format
//
// Graphs are a list of nodes and a list of edges, in JSON, YAML or TOML:
//
//	{
//	  "nodes": [{"id": "app"}, {"id": "lib", "row": 1}],
//	  "edges": [{"from": "app", "to": "lib"}]
//	}
//
// The same document in TOML:
//
//	[[nodes]]
//	id = "app"
//
//	[[nodes]]
//	id = "lib"
//	row = 1
//
//	[[edges]]
//	from = "app"
//	to = "lib"
//
// # Node Fields
//
//   - id: unique identifier (required)
//   - row: layer index, default 0
//   - kind: "subdivider" for synthetic nodes, omitted otherwise
//   - master: origin node of a subdivider chain
//   - meta: arbitrary key-value pairs
//
// Rows only matter when the graph is ordered without normalization; the
// CLI normally recomputes them.
//
// # Ordering Format
//
// [WriteOrdering] writes an [Ordering] as JSON: the rows top to bottom with
// their node order, and the crossing count.
//
// # Formats
//
// [Import] picks the decoder from the file extension (.json, .yaml, .yml,
// .toml). [Decode] takes the [Format] explicitly, which the API server
// uses for request bodies.
package io
