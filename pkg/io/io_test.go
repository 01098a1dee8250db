package io

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/errors"
	"github.com/matzehuels/statewalk/pkg/ordering"
)

const jsonGraph = `{
  "nodes": [{"id": "app"}, {"id": "lib", "row": 1, "meta": {"version": "1.0"}}],
  "edges": [{"from": "app", "to": "lib"}]
}`

const yamlGraph = `
nodes:
  - id: app
  - id: lib
    row: 1
    meta:
      version: "1.0"
edges:
  - from: app
    to: lib
`

const tomlGraph = `
[[nodes]]
id = "app"

[[nodes]]
id = "lib"
row = 1
[nodes.meta]
version = "1.0"

[[edges]]
from = "app"
to = "lib"
`

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatJSON, jsonGraph},
		{FormatYAML, yamlGraph},
		{FormatTOML, tomlGraph},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			g, err := Decode(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if g.NodeCount() != 2 || g.EdgeCount() != 1 {
				t.Fatalf("got %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
			}
			lib, _ := g.Node("lib")
			if lib.Row != 1 || lib.Meta["version"] != "1.0" {
				t.Errorf("lib = %+v", lib)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		code   errors.Code
	}{
		{"malformed json", FormatJSON, `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"unknown field", FormatJSON, `{"nodes": [], "edge": []}`, errors.ErrCodeInvalidFormat},
		{"unknown toml field", FormatTOML, "colour = 1", errors.ErrCodeInvalidFormat},
		{"unknown kind", FormatJSON, `{"nodes": [{"id": "a", "kind": "beam"}]}`, errors.ErrCodeInvalidFormat},
		{"duplicate node", FormatJSON, `{"nodes": [{"id": "a"}, {"id": "a"}]}`, errors.ErrCodeInvalidGraph},
		{"unknown edge target", FormatYAML, "nodes: [{id: a}]\nedges: [{from: a, to: b}]", errors.ErrCodeInvalidGraph},
		{"bad format", Format("xml"), "", errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Decode() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDecodeKeepsSentinel(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"nodes": [{"id": "a"}, {"id": "a"}]}`))
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Fatalf("error = %v", err)
	}
	if !stderrors.Is(err, dag.ErrDuplicateNodeID) {
		t.Errorf("error = %v, want it to wrap ErrDuplicateNodeID", err)
	}
}

func TestRoundTrip(t *testing.T) {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a"})
	_ = g.AddNode(dag.Node{ID: "a_sub_1", Row: 1, Kind: dag.NodeKindSubdivider, MasterID: "a"})
	_ = g.AddNode(dag.Node{ID: "b", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "a", To: "a_sub_1"})
	_ = g.AddEdge(dag.Edge{From: "a_sub_1", To: "b"})

	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		var buf bytes.Buffer
		if err := Encode(&buf, g, format); err != nil {
			t.Fatalf("%s: Encode() = %v", format, err)
		}
		back, err := Decode(&buf, format)
		if err != nil {
			t.Fatalf("%s: Decode() = %v", format, err)
		}
		if !reflect.DeepEqual(FromDAG(g), FromDAG(back)) {
			t.Errorf("%s: round trip changed the graph:\n%+v\n%+v", format, FromDAG(g), FromDAG(back))
		}
		sub, _ := back.Node("a_sub_1")
		if !sub.IsSubdivider() || sub.EffectiveID() != "a" {
			t.Errorf("%s: subdivider lost: %+v", format, sub)
		}
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "graph.yml")
	if err := os.WriteFile(src, []byte(yamlGraph), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := Import(src)
	if err != nil {
		t.Fatalf("Import() = %v", err)
	}

	dst := filepath.Join(dir, "out.toml")
	if err := Export(g, dst); err != nil {
		t.Fatalf("Export() = %v", err)
	}
	back, err := Import(dst)
	if err != nil {
		t.Fatalf("Import(%s) = %v", dst, err)
	}
	if back.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d", back.EdgeCount())
	}

	if _, err := Import(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := Import(filepath.Join(dir, "graph.dot")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("unknown extension error = %v", err)
	}
}

func TestOrderingRoundTrip(t *testing.T) {
	res := ordering.Result{
		Orders:    map[int][]string{1: {"y", "x"}, 0: {"a", "b"}},
		Crossings: 0,
		Explored:  7,
		Complete:  true,
	}
	o := NewOrdering("optimal", res)
	if o.Rows[0].Row != 0 || o.Rows[1].Row != 1 {
		t.Fatalf("rows not sorted: %+v", o.Rows)
	}

	var buf bytes.Buffer
	if err := WriteOrdering(&buf, o); err != nil {
		t.Fatal(err)
	}
	back, err := ReadOrdering(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Orders(), res.Orders) || back.Algorithm != "optimal" || !back.Complete {
		t.Errorf("ReadOrdering() = %+v", back)
	}
}
