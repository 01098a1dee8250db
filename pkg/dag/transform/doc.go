// Package transform turns arbitrary directed graphs into proper layered DAGs
// that the crossing counters and orderers accept.
//
// # Overview
//
// Input graphs rarely arrive layered. After [Normalize]:
//
//   - the graph is acyclic
//   - redundant transitive edges are gone
//   - every node has a row, with sources in row 0
//   - every edge connects consecutive rows
//
// # Cycle Breaking
//
// [BreakCycles] walks the graph depth-first with the search engine's graph
// adapter and removes every back edge it finds.
//
// # Transitive Reduction
//
// [TransitiveReduction] removes an edge u→v when v is reachable through
// another child of u. Transitive edges span several rows and would otherwise
// turn into long subdivider chains.
//
// # Layer Assignment
//
// [AssignLayers] places each node one row below its deepest parent.
//
// # Edge Subdivision
//
// [Subdivide] breaks long edges into chains of single-row hops by inserting
// subdivider nodes:
//
//	Before: app (row 0) → core (row 3)
//	After:  app → app_sub_1 → app_sub_2 → core
//
// Subdividers keep a MasterID linking back to the chain's source.
//
// # Usage
//
//	res := transform.Normalize(g, transform.Options{})
//
// or step by step:
//
//	transform.BreakCycles(g)
//	transform.TransitiveReduction(g)
//	transform.AssignLayers(g)
//	transform.Subdivide(g)
package transform
