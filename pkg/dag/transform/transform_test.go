package transform

import (
	"testing"

	"github.com/matzehuels/statewalk/pkg/dag"
)

func newGraph(t *testing.T, ids []string, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for _, id := range ids {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestTransitiveReduction(t *testing.T) {
	tests := []struct {
		name      string
		edges     [][2]string
		wantRemov int
		wantEdges int
	}{
		{"chain", [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}}, 0, 3},
		{"shortcut", [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}}, 1, 2},
		{"long shortcut", [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "d"}, {"b", "d"}}, 2, 3},
		{"diamond", [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}}, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t, []string{"a", "b", "c", "d"}, tt.edges)
			if got := TransitiveReduction(g); got != tt.wantRemov {
				t.Errorf("TransitiveReduction() = %d, want %d", got, tt.wantRemov)
			}
			if g.EdgeCount() != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.wantEdges)
			}
		})
	}
}

func TestAssignLayersLongestPath(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c", "d", "e"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "d"}, {"e", "d"}})
	AssignLayers(g)

	want := map[string]int{"a": 0, "b": 1, "c": 2, "d": 3, "e": 0}
	for id, row := range want {
		n, _ := g.Node(id)
		if n.Row != row {
			t.Errorf("%s.Row = %d, want %d", id, n.Row, row)
		}
	}
}

func TestSubdivideMakesRowsConsecutive(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c", "d", "e"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "d"}, {"e", "d"}})
	AssignLayers(g)
	added := Subdivide(g)

	// a→d spans 3 rows (2 subdividers), e→d spans 3 rows (2 subdividers).
	if added != 4 {
		t.Errorf("Subdivide() added %d, want 4", added)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() after Subdivide = %v", err)
	}
	for _, n := range g.Nodes() {
		if n.IsSubdivider() && n.MasterID != "a" && n.MasterID != "e" {
			t.Errorf("subdivider %s has MasterID %q", n.ID, n.MasterID)
		}
	}
}

func TestSubdivideIDCollision(t *testing.T) {
	g := newGraph(t, []string{"a", "a_sub_1", "z"}, [][2]string{{"a", "z"}})
	g.SetRows(map[string]int{"z": 2, "a_sub_1": 5})

	Subdivide(g)
	if _, ok := g.Node("a_sub_1__1"); !ok {
		t.Errorf("expected a suffixed subdivider, nodes: %v", dag.NodeIDs(g.Nodes()))
	}
}

func TestNormalizeProducesValidDAG(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c", "d", "e"}, [][2]string{
		{"a", "b"}, {"b", "c"}, {"c", "a"}, // cycle
		{"a", "c"}, {"c", "d"}, {"a", "e"}, {"e", "d"},
	})
	res := Normalize(g, Options{})
	if res.CyclesRemoved == 0 {
		t.Error("expected the cycle to be broken")
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if res.MaxRow != g.MaxRow() {
		t.Errorf("MaxRow = %d, graph says %d", res.MaxRow, g.MaxRow())
	}
}

func TestNormalizeSkipSteps(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}})
	res := Normalize(g, Options{SkipTransitiveReduction: true})
	if res.TransitiveEdgesRemoved != 0 {
		t.Errorf("TransitiveEdgesRemoved = %d, want 0", res.TransitiveEdgesRemoved)
	}
	if res.SubdividersAdded != 1 {
		t.Errorf("SubdividersAdded = %d, want 1", res.SubdividersAdded)
	}
}
