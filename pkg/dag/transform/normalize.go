package transform

import "github.com/matzehuels/statewalk/pkg/dag"

// Result reports what [Normalize] changed.
type Result struct {
	// CyclesRemoved is the number of back edges removed.
	CyclesRemoved int `json:"cycles_removed"`
	// TransitiveEdgesRemoved is the number of redundant edges removed.
	TransitiveEdgesRemoved int `json:"transitive_edges_removed"`
	// SubdividersAdded is the number of synthetic nodes inserted to split
	// long edges.
	SubdividersAdded int `json:"subdividers_added"`
	// MaxRow is the deepest row after layering.
	MaxRow int `json:"max_row"`
}

// Options selects the steps [Normalize] runs. The zero value runs all of
// them.
type Options struct {
	SkipCycleBreaking       bool
	SkipTransitiveReduction bool
}

// Normalize turns an arbitrary directed graph into a proper layered DAG in
// place: it breaks cycles, removes transitive edges, assigns rows and
// subdivides long edges. Afterwards [dag.DAG.Validate] succeeds.
func Normalize(g *dag.DAG, opts Options) Result {
	var res Result
	if !opts.SkipCycleBreaking {
		res.CyclesRemoved = BreakCycles(g)
	}
	if !opts.SkipTransitiveReduction {
		res.TransitiveEdgesRemoved = TransitiveReduction(g)
	}
	AssignLayers(g)
	res.SubdividersAdded = Subdivide(g)
	res.MaxRow = g.MaxRow()
	return res
}
