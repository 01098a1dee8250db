package io

import (
	"encoding/json"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/errors"
	"github.com/matzehuels/statewalk/pkg/ordering"
)

// Encode writes g in the given format. The output can be read back with
// [Decode].
func Encode(w io.Writer, g *dag.DAG, format Format) error {
	doc := FromDAG(g)
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(doc)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s graph", format)
	}
	return nil
}

// WriteJSON encodes g as JSON.
func WriteJSON(g *dag.DAG, w io.Writer) error { return Encode(w, g, FormatJSON) }

// Export writes g to path in the format given by the file extension.
func Export(g *dag.DAG, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return Encode(f, g, format)
}

// Ordering is the serialized result of an ordering run.
type Ordering struct {
	Algorithm string       `json:"algorithm"`
	Crossings int          `json:"crossings"`
	Complete  bool         `json:"complete"`
	Explored  int          `json:"explored"`
	Pruned    int          `json:"pruned"`
	Rows      []OrderedRow `json:"rows"`
}

// OrderedRow is one row of an [Ordering], left to right.
type OrderedRow struct {
	Row   int      `json:"row"`
	Nodes []string `json:"nodes"`
}

// NewOrdering converts a search result, listing rows top to bottom.
func NewOrdering(algorithm string, res ordering.Result) Ordering {
	out := Ordering{
		Algorithm: algorithm,
		Crossings: res.Crossings,
		Complete:  res.Complete,
		Explored:  res.Explored,
		Pruned:    res.Pruned,
		Rows:      make([]OrderedRow, 0, len(res.Orders)),
	}
	for _, row := range slices.Sorted(maps.Keys(res.Orders)) {
		out.Rows = append(out.Rows, OrderedRow{Row: row, Nodes: res.Orders[row]})
	}
	return out
}

// Orders returns the row orders keyed by row index.
func (o Ordering) Orders() map[int][]string {
	orders := make(map[int][]string, len(o.Rows))
	for _, r := range o.Rows {
		orders[r.Row] = r.Nodes
	}
	return orders
}

// WriteOrdering encodes o as indented JSON.
func WriteOrdering(w io.Writer, o Ordering) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode ordering")
	}
	return nil
}

// ReadOrdering decodes an ordering written by [WriteOrdering].
func ReadOrdering(r io.Reader) (Ordering, error) {
	var o Ordering
	if err := json.NewDecoder(r).Decode(&o); err != nil {
		return Ordering{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode ordering")
	}
	return o, nil
}
