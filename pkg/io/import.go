package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/errors"
)

// Decode reads a graph document in the given format and builds the DAG.
// Decode does not close r.
//
// Errors carry ErrCodeInvalidFormat for malformed documents and
// ErrCodeInvalidGraph for duplicate IDs or edges to unknown nodes; the
// underlying dag sentinel errors stay reachable with errors.Is.
func Decode(r io.Reader, format Format) (*dag.DAG, error) {
	var doc Graph
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&doc)
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.NewDecoder(r).Decode(&doc)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown field %q", undecoded[0].String())
			}
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s graph", format)
	}
	return doc.Build()
}

// ReadJSON decodes a JSON graph from r.
func ReadJSON(r io.Reader) (*dag.DAG, error) { return Decode(r, FormatJSON) }

// ReadYAML decodes a YAML graph from r.
func ReadYAML(r io.Reader) (*dag.DAG, error) { return Decode(r, FormatYAML) }

// ReadTOML decodes a TOML graph from r.
func ReadTOML(r io.Reader) (*dag.DAG, error) { return Decode(r, FormatTOML) }

// Import reads the graph file at path, choosing the decoder from the file
// extension.
func Import(path string) (*dag.DAG, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f, format)
}
