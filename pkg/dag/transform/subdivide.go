package transform

import (
	"fmt"

	"github.com/matzehuels/statewalk/pkg/dag"
)

// Subdivide replaces every edge that spans more than one row with a chain
// of [dag.NodeKindSubdivider] nodes, one per intermediate row, and returns
// the number of subdividers added:
//
//	Before: app (row 0) → core (row 3)
//	After:  app → app_sub_1 → app_sub_2 → core
//
// Subdividers carry a MasterID pointing at the chain's source. Generated
// IDs have the form "master_sub_row", with a "__n" suffix on collision.
// The original edge's metadata moves to the last edge of the chain.
func Subdivide(g *dag.DAG) int {
	ids := newIDGen(g.IDs())
	added := 0
	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		if dst.Row <= src.Row+1 {
			continue
		}

		g.RemoveEdge(e.From, e.To)
		prev := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			id := ids.next(src.ID, row)
			mustAdd(g.AddNode(dag.Node{
				ID:       id,
				Row:      row,
				Kind:     dag.NodeKindSubdivider,
				MasterID: src.EffectiveID(),
			}))
			mustAdd(g.AddEdge(dag.Edge{From: prev, To: id}))
			prev = id
			added++
		}
		mustAdd(g.AddEdge(dag.Edge{From: prev, To: dst.ID, Meta: e.Meta}))
	}
	return added
}

// mustAdd panics on errors that would mean the ID generator handed out a
// duplicate or an edge endpoint vanished.
func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(ids []string) *idGen {
	m := make(map[string]struct{}, len(ids)*2)
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_sub_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
