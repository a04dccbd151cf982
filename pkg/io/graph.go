package io

import (
	"fmt"
	"io"

	y0errors "github.com/Aryan-Seth/y0/pkg/errors"
	"github.com/Aryan-Seth/y0/pkg/graph"
)

// GraphDocument is the serialized form of a mixed graph.
type GraphDocument struct {
	Nodes      []string       `json:"nodes,omitempty" yaml:"nodes,omitempty" toml:"nodes,omitempty"`
	Directed   []EdgeDocument `json:"directed" yaml:"directed" toml:"directed"`
	Undirected []EdgeDocument `json:"undirected" yaml:"undirected" toml:"undirected"`
}

// EdgeDocument is one edge. Orientation is ignored for undirected edges.
type EdgeDocument struct {
	From string `json:"from" yaml:"from" toml:"from"`
	To   string `json:"to" yaml:"to" toml:"to"`
}

// NewGraphDocument serializes g. Nodes and edges are sorted so the output is
// stable.
func NewGraphDocument(g *graph.Graph) GraphDocument {
	doc := GraphDocument{
		Directed:   edgeDocuments(g.DirectedEdges()),
		Undirected: edgeDocuments(g.UndirectedEdges()),
	}
	for _, v := range g.Nodes().Sorted() {
		doc.Nodes = append(doc.Nodes, string(v))
	}
	return doc
}

func edgeDocuments(edges []graph.Edge) []EdgeDocument {
	out := make([]EdgeDocument, len(edges))
	for i, e := range edges {
		out[i] = EdgeDocument{From: string(e.From), To: string(e.To)}
	}
	return out
}

// Graph validates the document and builds the graph it describes.
func (d GraphDocument) Graph() (*graph.Graph, error) {
	g := graph.New()
	for _, n := range d.Nodes {
		if err := y0errors.ValidateVariableName(n); err != nil {
			return nil, err
		}
		if err := g.AddNode(graph.Variable(n)); err != nil {
			return nil, y0errors.Wrap(y0errors.ErrCodeInvalidGraph, err, "node %q", n)
		}
	}
	add := func(kind string, edges []EdgeDocument, fn func(a, b graph.Variable) error) error {
		for _, e := range edges {
			if err := y0errors.ValidateVariableName(e.From); err != nil {
				return err
			}
			if err := y0errors.ValidateVariableName(e.To); err != nil {
				return err
			}
			if err := fn(graph.Variable(e.From), graph.Variable(e.To)); err != nil {
				return y0errors.Wrap(y0errors.ErrCodeInvalidGraph, err, "%s edge %s-%s", kind, e.From, e.To)
			}
		}
		return nil
	}
	if err := add("directed", d.Directed, g.AddDirectedEdge); err != nil {
		return nil, err
	}
	if err := add("undirected", d.Undirected, g.AddUndirectedEdge); err != nil {
		return nil, err
	}
	return g, nil
}

// ReadGraph decodes a graph document in format f from r.
//
// ReadGraph does not check acyclicity: cyclic graphs are valid input for
// the consolidated-district operations, and the identification engines
// reject them on their own. ReadGraph does not close r.
func ReadGraph(r io.Reader, f Format) (*graph.Graph, error) {
	var doc GraphDocument
	if err := decode(r, f, &doc); err != nil {
		return nil, err
	}
	return doc.Graph()
}

// WriteGraph encodes g in format f to w.
func WriteGraph(g *graph.Graph, w io.Writer, f Format) error {
	return encode(w, f, NewGraphDocument(g))
}

// ImportGraph reads the graph file at path, choosing the format from its
// extension.
func ImportGraph(path string) (*graph.Graph, error) {
	file, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	g, err := ReadGraph(file, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return g, nil
}

// ExportGraph writes g to path, choosing the format from its extension.
func ExportGraph(g *graph.Graph, path string) error {
	return create(path, func(w io.Writer) error {
		return WriteGraph(g, w, FormatFromPath(path))
	})
}
