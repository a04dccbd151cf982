package io

import (
	"fmt"
	"io"

	y0errors "github.com/Aryan-Seth/y0/pkg/errors"
)

// QueryDocument is the serialized form of an identification query. Which
// fields apply depends on Algorithm: I, J and Z are read by "gz", Domains by
// "z2", and "id" uses only outcomes and treatments.
//
// The graph is either inline (Graph) or a path (GraphFile) resolved by the
// caller relative to the query file.
type QueryDocument struct {
	Algorithm  string           `json:"algorithm" yaml:"algorithm" toml:"algorithm"`
	Outcomes   []string         `json:"outcomes" yaml:"outcomes" toml:"outcomes"`
	Treatments []string         `json:"treatments,omitempty" yaml:"treatments,omitempty" toml:"treatments,omitempty"`
	I          []string         `json:"i,omitempty" yaml:"i,omitempty" toml:"i,omitempty"`
	J          []string         `json:"j,omitempty" yaml:"j,omitempty" toml:"j,omitempty"`
	Z          []string         `json:"z,omitempty" yaml:"z,omitempty" toml:"z,omitempty"`
	Domains    []DomainDocument `json:"domains,omitempty" yaml:"domains,omitempty" toml:"domains,omitempty"`
	Graph      *GraphDocument   `json:"graph,omitempty" yaml:"graph,omitempty" toml:"graph,omitempty"`
	GraphFile  string           `json:"graph_file,omitempty" yaml:"graph_file,omitempty" toml:"graph_file,omitempty"`
}

// DomainDocument is one source domain of a z2 query: the variables that
// were experimentally controlled there.
type DomainDocument struct {
	Name       string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Treatments []string `json:"treatments" yaml:"treatments" toml:"treatments"`
}

// Validate checks the algorithm and every variable name. An empty
// algorithm defaults to "id".
func (q *QueryDocument) Validate() error {
	if q.Algorithm == "" {
		q.Algorithm = "id"
	}
	if err := y0errors.ValidateAlgorithm(q.Algorithm); err != nil {
		return err
	}
	if len(q.Outcomes) == 0 {
		return y0errors.New(y0errors.ErrCodeInvalidQuery, "query needs at least one outcome")
	}
	lists := []struct {
		name string
		vs   []string
	}{
		{"outcomes", q.Outcomes},
		{"treatments", q.Treatments},
		{"i", q.I},
		{"j", q.J},
		{"z", q.Z},
	}
	for _, l := range lists {
		if err := y0errors.ValidateVariableNames(l.vs); err != nil {
			return fmt.Errorf("%s: %w", l.name, err)
		}
	}
	for i, d := range q.Domains {
		if err := y0errors.ValidateVariableNames(d.Treatments); err != nil {
			return fmt.Errorf("domain %d: %w", i, err)
		}
	}
	if q.Graph != nil && q.GraphFile != "" {
		return y0errors.New(y0errors.ErrCodeInvalidQuery, "query sets both graph and graph_file")
	}
	return nil
}

// ReadQuery decodes and validates a query document in format f from r.
func ReadQuery(r io.Reader, f Format) (*QueryDocument, error) {
	var q QueryDocument
	if err := decode(r, f, &q); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}

// ImportQuery reads the query file at path, choosing the format from its
// extension.
func ImportQuery(path string) (*QueryDocument, error) {
	file, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	q, err := ReadQuery(file, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return q, nil
}
