package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	y0errors "github.com/Aryan-Seth/y0/pkg/errors"
	"github.com/Aryan-Seth/y0/pkg/graph"
	"github.com/Aryan-Seth/y0/pkg/hcm"
)

func frontDoor() *graph.Graph {
	g := graph.MustFromEdges(
		[]graph.Edge{graph.E("X", "M"), graph.E("M", "Y")},
		[]graph.Edge{graph.E("X", "Y")},
	)
	_ = g.AddNode("W")
	return g
}

func TestReadGraph_JSON(t *testing.T) {
	input := `{
		"nodes": ["W"],
		"directed": [{"from": "X", "to": "M"}, {"from": "M", "to": "Y"}],
		"undirected": [{"from": "Y", "to": "X"}]
	}`

	g, err := ReadGraph(strings.NewReader(input), FormatJSON)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if !g.Equal(frontDoor()) {
		t.Errorf("ReadGraph() = %v %v %v", g.Nodes(), g.DirectedEdges(), g.UndirectedEdges())
	}
}

func TestReadGraph_YAML(t *testing.T) {
	input := `
directed:
  - {from: X, to: M}
  - {from: M, to: Y}
undirected:
  - {from: X, to: Y}
nodes: [W]
`
	g, err := ReadGraph(strings.NewReader(input), FormatYAML)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if !g.Equal(frontDoor()) {
		t.Errorf("ReadGraph() = %v %v", g.DirectedEdges(), g.UndirectedEdges())
	}
}

func TestReadGraph_TOML(t *testing.T) {
	input := `
nodes = ["W"]

[[directed]]
from = "X"
to = "M"

[[directed]]
from = "M"
to = "Y"

[[undirected]]
from = "X"
to = "Y"
`
	g, err := ReadGraph(strings.NewReader(input), FormatTOML)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if !g.Equal(frontDoor()) {
		t.Errorf("ReadGraph() = %v %v", g.DirectedEdges(), g.UndirectedEdges())
	}
}

func TestReadGraph_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		code   y0errors.Code
	}{
		{"malformed json", `{"directed": [`, FormatJSON, y0errors.ErrCodeInvalidFormat},
		{"unknown field", `{"edges": []}`, FormatJSON, y0errors.ErrCodeInvalidFormat},
		{"unknown toml key", "edges = []\n", FormatTOML, y0errors.ErrCodeInvalidFormat},
		{"unknown yaml key", "edges: []\n", FormatYAML, y0errors.ErrCodeInvalidFormat},
		{"self loop", `{"directed": [{"from": "X", "to": "X"}]}`, FormatJSON, y0errors.ErrCodeInvalidGraph},
		{"bidirected self loop", `{"undirected": [{"from": "X", "to": "X"}]}`, FormatJSON, y0errors.ErrCodeInvalidGraph},
		{"empty name", `{"directed": [{"from": "", "to": "X"}]}`, FormatJSON, y0errors.ErrCodeInvalidVariable},
		{"reserved character", `{"nodes": ["A,B"]}`, FormatJSON, y0errors.ErrCodeInvalidVariable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(strings.NewReader(tt.input), tt.format)
			if !y0errors.Is(err, tt.code) {
				t.Errorf("ReadGraph() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestReadGraph_CyclicAccepted(t *testing.T) {
	input := `{"directed": [{"from": "X", "to": "Y"}, {"from": "Y", "to": "X"}]}`
	g, err := ReadGraph(strings.NewReader(input), FormatJSON)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if g.IsAcyclic() {
		t.Error("IsAcyclic() = true for a 2-cycle")
	}
}

func TestExportImportGraph(t *testing.T) {
	dir := t.TempDir()
	want := frontDoor()

	for _, name := range []string{"g.json", "g.yaml", "g.toml"} {
		path := filepath.Join(dir, name)
		if err := ExportGraph(want, path); err != nil {
			t.Fatalf("ExportGraph(%s): %v", name, err)
		}
		got, err := ImportGraph(path)
		if err != nil {
			t.Fatalf("ImportGraph(%s): %v", name, err)
		}
		if !got.Equal(want) {
			t.Errorf("%s: got %v %v, want %v %v", name,
				got.DirectedEdges(), got.UndirectedEdges(), want.DirectedEdges(), want.UndirectedEdges())
		}
	}
}

func TestWriteGraph_StableJSON(t *testing.T) {
	var a, b bytes.Buffer
	if err := WriteGraph(frontDoor(), &a, FormatJSON); err != nil {
		t.Fatal(err)
	}
	if err := WriteGraph(frontDoor(), &b, FormatJSON); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("WriteGraph output is not deterministic")
	}
	if !strings.Contains(a.String(), `"nodes": [`) {
		t.Errorf("WriteGraph() missing nodes array:\n%s", a.String())
	}
}

func TestImportGraph_Missing(t *testing.T) {
	_, err := ImportGraph(filepath.Join(t.TempDir(), "missing.json"))
	if !y0errors.Is(err, y0errors.ErrCodeFileNotFound) {
		t.Errorf("ImportGraph(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"g.json", FormatJSON},
		{"g.YAML", FormatYAML},
		{"dir/g.yml", FormatYAML},
		{"q.toml", FormatTOML},
		{"noext", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("yml"); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(yml) = %q, %v", f, err)
	}
	if _, err := ParseFormat("dot"); !y0errors.Is(err, y0errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(dot) error = %v", err)
	}
}

func TestReadModel(t *testing.T) {
	input := `
observed_subunits: [A, Y]
unobserved_units: [U]
edges:
  - {from: U, to: A}
  - {from: U, to: Y}
  - {from: A, to: Y}
`
	m, err := ReadModel(strings.NewReader(input), FormatYAML)
	if err != nil {
		t.Fatalf("ReadModel: %v", err)
	}
	collapsed, err := hcm.Collapse(m)
	if err != nil {
		t.Fatalf("Collapse: %v", err)
	}
	if !collapsed.HasUndirectedEdge("Q_a", "Q_{y|a}") {
		t.Errorf("collapsed model missing Q_a <-> Q_{y|a}: %v", collapsed.UndirectedEdges())
	}

	var buf bytes.Buffer
	if err := WriteModel(m, &buf, FormatJSON); err != nil {
		t.Fatal(err)
	}
	again, err := ReadModel(&buf, FormatJSON)
	if err != nil {
		t.Fatalf("ReadModel(round trip): %v", err)
	}
	if !again.Subunits().Equal(m.Subunits()) || !again.Observed().Equal(m.Observed()) {
		t.Errorf("round trip changed partitions: %v %v", again.Subunits(), again.Observed())
	}
}

func TestReadModel_Duplicate(t *testing.T) {
	input := `{"observed_subunits": ["A"], "observed_units": ["A"], "edges": []}`
	_, err := ReadModel(strings.NewReader(input), FormatJSON)
	if !y0errors.Is(err, y0errors.ErrCodeInvalidGraph) {
		t.Errorf("ReadModel(duplicate) error = %v, want INVALID_GRAPH", err)
	}
}

func TestImportQuery_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.toml")
	input := `
algorithm = "z2"
outcomes = ["Y"]
treatments = ["X"]
graph_file = "g.json"

[[domains]]
name = "pi1"
treatments = ["Z"]

[[domains]]
treatments = ["X", "Z"]
`
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}
	q, err := ImportQuery(path)
	if err != nil {
		t.Fatalf("ImportQuery: %v", err)
	}
	if q.Algorithm != "z2" || q.GraphFile != "g.json" {
		t.Errorf("ImportQuery() = %+v", q)
	}
	if len(q.Domains) != 2 || q.Domains[0].Name != "pi1" || len(q.Domains[1].Treatments) != 2 {
		t.Errorf("Domains = %+v", q.Domains)
	}
}

func TestQueryDocument_Validate(t *testing.T) {
	tests := []struct {
		name string
		q    QueryDocument
		code y0errors.Code
	}{
		{"defaults to id", QueryDocument{Outcomes: []string{"Y"}}, ""},
		{"unknown algorithm", QueryDocument{Algorithm: "do", Outcomes: []string{"Y"}}, y0errors.ErrCodeInvalidAlgorithm},
		{"no outcomes", QueryDocument{Algorithm: "id"}, y0errors.ErrCodeInvalidQuery},
		{"bad name", QueryDocument{Outcomes: []string{"Y"}, Z: []string{"S 1"}}, y0errors.ErrCodeInvalidVariable},
		{"bad domain", QueryDocument{Outcomes: []string{"Y"}, Domains: []DomainDocument{{Treatments: []string{""}}}}, y0errors.ErrCodeInvalidVariable},
		{
			"graph twice",
			QueryDocument{Outcomes: []string{"Y"}, Graph: &GraphDocument{}, GraphFile: "g.json"},
			y0errors.ErrCodeInvalidQuery,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				if tt.q.Algorithm != "id" {
					t.Errorf("Algorithm = %q, want id", tt.q.Algorithm)
				}
				return
			}
			if !y0errors.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want %s", err, tt.code)
			}
		})
	}
}
