package io

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/errors"
)

// Format is a graph encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "cannot infer graph format from %q (want .json, .yaml or .toml)", path)
	}
}

var kindFromString = map[string]dag.NodeKind{
	"":           dag.NodeKindRegular,
	"regular":    dag.NodeKindRegular,
	"subdivider": dag.NodeKindSubdivider,
}

var kindToString = map[dag.NodeKind]string{
	dag.NodeKindSubdivider: "subdivider",
}

// Graph is the serialized form of a [dag.DAG].
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges" toml:"edges"`
}

// Node is the serialized form of a [dag.Node].
type Node struct {
	ID     string       `json:"id" yaml:"id" toml:"id"`
	Row    *int         `json:"row,omitempty" yaml:"row,omitempty" toml:"row,omitempty"`
	Kind   string       `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Master string       `json:"master,omitempty" yaml:"master,omitempty" toml:"master,omitempty"`
	Meta   dag.Metadata `json:"meta,omitempty" yaml:"meta,omitempty" toml:"meta,omitempty"`
}

// Edge is the serialized form of a [dag.Edge].
type Edge struct {
	From string `json:"from" yaml:"from" toml:"from"`
	To   string `json:"to" yaml:"to" toml:"to"`
}

// Build converts the document into a DAG.
func (d Graph) Build() (*dag.DAG, error) {
	g := dag.New(nil)
	for _, n := range d.Nodes {
		kind, ok := kindFromString[n.Kind]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %s: unknown kind %q", n.ID, n.Kind)
		}
		nd := dag.Node{ID: n.ID, Kind: kind, MasterID: n.Master, Meta: n.Meta}
		if n.Row != nil {
			nd.Row = *n.Row
		}
		if err := g.AddNode(nd); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %q", n.ID)
		}
	}
	for _, e := range d.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "edge %s->%s", e.From, e.To)
		}
	}
	return g, nil
}

// FromDAG converts a DAG into its serialized form.
func FromDAG(g *dag.DAG) Graph {
	out := Graph{Nodes: make([]Node, 0, g.NodeCount()), Edges: make([]Edge, 0, g.EdgeCount())}
	for _, n := range g.Nodes() {
		nd := Node{ID: n.ID, Kind: kindToString[n.Kind], Master: n.MasterID}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		if n.Row != 0 {
			row := n.Row
			nd.Row = &row
		}
		out.Nodes = append(out.Nodes, nd)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{From: e.From, To: e.To})
	}
	return out
}
