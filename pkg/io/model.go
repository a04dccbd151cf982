package io

import (
	"fmt"
	"io"

	y0errors "github.com/Aryan-Seth/y0/pkg/errors"
	"github.com/Aryan-Seth/y0/pkg/graph"
	"github.com/Aryan-Seth/y0/pkg/hcm"
)

// ModelDocument is the serialized form of a hierarchical causal model.
type ModelDocument struct {
	ObservedSubunits   []string       `json:"observed_subunits,omitempty" yaml:"observed_subunits,omitempty" toml:"observed_subunits,omitempty"`
	UnobservedSubunits []string       `json:"unobserved_subunits,omitempty" yaml:"unobserved_subunits,omitempty" toml:"unobserved_subunits,omitempty"`
	ObservedUnits      []string       `json:"observed_units,omitempty" yaml:"observed_units,omitempty" toml:"observed_units,omitempty"`
	UnobservedUnits    []string       `json:"unobserved_units,omitempty" yaml:"unobserved_units,omitempty" toml:"unobserved_units,omitempty"`
	Edges              []EdgeDocument `json:"edges" yaml:"edges" toml:"edges"`
}

// NewModelDocument serializes m.
func NewModelDocument(m *hcm.Model) ModelDocument {
	observed := m.Observed()
	subunits := m.Subunits()
	names := func(s graph.Set) []string {
		var out []string
		for _, v := range s.Sorted() {
			out = append(out, string(v))
		}
		return out
	}
	return ModelDocument{
		ObservedSubunits:   names(subunits.Intersect(observed)),
		UnobservedSubunits: names(subunits.Difference(observed)),
		ObservedUnits:      names(m.Units().Intersect(observed)),
		UnobservedUnits:    names(m.Units().Difference(observed)),
		Edges:              edgeDocuments(m.Edges()),
	}
}

// Model validates the document and builds the model.
func (d ModelDocument) Model() (*hcm.Model, error) {
	lists := [][]string{d.ObservedSubunits, d.UnobservedSubunits, d.ObservedUnits, d.UnobservedUnits}
	for _, names := range lists {
		for _, n := range names {
			if err := y0errors.ValidateVariableName(n); err != nil {
				return nil, err
			}
		}
	}
	edges := make([]graph.Edge, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = graph.E(e.From, e.To)
	}
	m, err := hcm.FromLists(d.ObservedSubunits, d.UnobservedSubunits, d.ObservedUnits, d.UnobservedUnits, edges)
	if err != nil {
		return nil, y0errors.Wrap(y0errors.ErrCodeInvalidGraph, err, "hierarchical model")
	}
	return m, nil
}

// ReadModel decodes a hierarchical model document in format f from r.
func ReadModel(r io.Reader, f Format) (*hcm.Model, error) {
	var doc ModelDocument
	if err := decode(r, f, &doc); err != nil {
		return nil, err
	}
	return doc.Model()
}

// WriteModel encodes m in format f to w.
func WriteModel(m *hcm.Model, w io.Writer, f Format) error {
	return encode(w, f, NewModelDocument(m))
}

// ImportModel reads the model file at path, choosing the format from its
// extension.
func ImportModel(path string) (*hcm.Model, error) {
	file, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	m, err := ReadModel(file, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return m, nil
}
