package hcm

import (
	"errors"
	"slices"
	"testing"

	"github.com/Aryan-Seth/y0/pkg/graph"
)

func mustModel(t *testing.T, obsSub, unobsSub, obsUnits, unobsUnits []string, edges []graph.Edge) *Model {
	t.Helper()
	m, err := FromLists(obsSub, unobsSub, obsUnits, unobsUnits, edges)
	if err != nil {
		t.Fatalf("FromLists() error = %v", err)
	}
	return m
}

func TestFromLists_Partitions(t *testing.T) {
	m := mustModel(t,
		[]string{"A", "Y"}, []string{"S"}, []string{"Z"}, []string{"U"},
		[]graph.Edge{graph.E("U", "A"), graph.E("U", "Y"), graph.E("A", "Y"), graph.E("Z", "A"), graph.E("S", "Y")},
	)
	if got := m.Observed(); !got.Equal(graph.SetOf("A", "Y", "Z")) {
		t.Errorf("Observed() = %v", got)
	}
	if got := m.Unobserved(); !got.Equal(graph.SetOf("S", "U")) {
		t.Errorf("Unobserved() = %v", got)
	}
	if got := m.Subunits(); !got.Equal(graph.SetOf("A", "S", "Y")) {
		t.Errorf("Subunits() = %v", got)
	}
	if got := m.Units(); !got.Equal(graph.SetOf("U", "Z")) {
		t.Errorf("Units() = %v", got)
	}
	if got := m.Parents("Y"); !got.Equal(graph.SetOf("A", "S", "U")) {
		t.Errorf("Parents(Y) = %v", got)
	}
}

func TestFromLists_Errors(t *testing.T) {
	_, err := FromLists([]string{"A"}, nil, []string{"A"}, nil, nil)
	if !errors.Is(err, ErrDuplicateVariable) {
		t.Errorf("FromLists(duplicate) error = %v, want ErrDuplicateVariable", err)
	}
	_, err = FromLists([]string{"A"}, nil, nil, nil, []graph.Edge{graph.E("A", "B")})
	if !errors.Is(err, graph.ErrUnknownVariable) {
		t.Errorf("FromLists(unknown) error = %v, want ErrUnknownVariable", err)
	}
}

func TestQVariable(t *testing.T) {
	m := mustModel(t,
		[]string{"A", "B", "Y"}, nil, []string{"Z"}, nil,
		[]graph.Edge{graph.E("B", "Y"), graph.E("A", "Y"), graph.E("Z", "A")},
	)
	tests := []struct {
		s    graph.Variable
		want graph.Variable
	}{
		{"A", "Q_a"},
		{"Y", "Q_{y|a,b}"},
	}
	for _, tt := range tests {
		if got := m.QVariable(tt.s); got != tt.want {
			t.Errorf("QVariable(%s) = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestDirectUnitDescendants(t *testing.T) {
	m := mustModel(t,
		[]string{"A", "Y"}, nil, []string{"Z", "B", "C"}, nil,
		[]graph.Edge{graph.E("Z", "A"), graph.E("A", "Y"), graph.E("Y", "B"), graph.E("A", "C"), graph.E("B", "C")},
	)
	if got := m.DirectUnitDescendants("A"); !got.Equal(graph.SetOf("B", "C")) {
		t.Errorf("DirectUnitDescendants(A) = %v, want {B, C}", got)
	}
	if got := m.DirectUnitDescendants("Y"); !got.Equal(graph.SetOf("B")) {
		t.Errorf("DirectUnitDescendants(Y) = %v, want {B}", got)
	}
}

func TestCollapse_Confounded(t *testing.T) {
	m := mustModel(t,
		[]string{"A", "Y"}, nil, nil, []string{"U"},
		[]graph.Edge{graph.E("U", "A"), graph.E("U", "Y"), graph.E("A", "Y")},
	)
	got, err := Collapse(m)
	if err != nil {
		t.Fatalf("Collapse() error = %v", err)
	}
	want := graph.MustFromEdges(nil, []graph.Edge{graph.E("Q_a", "Q_{y|a}")})
	if !got.Equal(want) {
		t.Errorf("Collapse() = %v / %v, want %v / %v",
			got.DirectedEdges(), got.UndirectedEdges(), want.DirectedEdges(), want.UndirectedEdges())
	}
}

func TestCollapse_ObservedUnits(t *testing.T) {
	m := mustModel(t,
		[]string{"A", "Y"}, nil, []string{"Z", "B"}, nil,
		[]graph.Edge{graph.E("Z", "A"), graph.E("A", "Y"), graph.E("Y", "B")},
	)
	got, err := Collapse(m)
	if err != nil {
		t.Fatalf("Collapse() error = %v", err)
	}
	want := []graph.Edge{graph.E("Q_a", "B"), graph.E("Q_{y|a}", "B"), graph.E("Z", "Q_a")}
	if !slices.Equal(got.DirectedEdges(), want) {
		t.Errorf("DirectedEdges() = %v, want %v", got.DirectedEdges(), want)
	}
	if !got.Nodes().Equal(graph.SetOf("B", "Q_a", "Q_{y|a}", "Z")) {
		t.Errorf("Nodes() = %v", got.Nodes())
	}
}

func TestCollapse_Errors(t *testing.T) {
	tests := []struct {
		name string
		m    *Model
		want error
	}{
		{
			"unobserved subunit",
			mustModel(t, []string{"A"}, []string{"Y"}, nil, nil, []graph.Edge{graph.E("A", "Y")}),
			ErrUnobservedQ,
		},
		{
			"latent with three children",
			mustModel(t, []string{"A", "Y"}, nil, []string{"B"}, []string{"U"},
				[]graph.Edge{graph.E("U", "A"), graph.E("U", "Y"), graph.E("U", "B")}),
			ErrLatentDescendants,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Collapse(tt.m); !errors.Is(err, tt.want) {
				t.Errorf("Collapse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func augmentFixture(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.MustFromEdges(
		[]graph.Edge{graph.E("Z", "A"), graph.E("A", "Y"), graph.E("B", "Y"), graph.E("C", "Y")},
		nil,
	)
	aug, err := Augment(g, "M", graph.SetOf("A", "B"))
	if err != nil {
		t.Fatalf("Augment() error = %v", err)
	}
	return aug
}

func TestAugment(t *testing.T) {
	got := augmentFixture(t)
	want := []graph.Edge{
		graph.E("A", "M"), graph.E("B", "M"), graph.E("C", "Y"), graph.E("M", "Y"), graph.E("Z", "A"),
	}
	if !slices.Equal(got.DirectedEdges(), want) {
		t.Errorf("Augment() = %v, want %v", got.DirectedEdges(), want)
	}

	if _, err := Augment(got, "N", graph.SetOf("Q")); !errors.Is(err, ErrMechanismNotInModel) {
		t.Errorf("Augment(unknown) error = %v, want ErrMechanismNotInModel", err)
	}
	if _, err := Augment(got, "N", nil); !errors.Is(err, ErrEmptyMechanism) {
		t.Errorf("Augment(empty) error = %v, want ErrEmptyMechanism", err)
	}
}

func TestMarginalize(t *testing.T) {
	aug := augmentFixture(t)
	got, err := Marginalize(aug, "M", graph.SetOf("A"))
	if err != nil {
		t.Fatalf("Marginalize() error = %v", err)
	}
	want := []graph.Edge{graph.E("B", "M"), graph.E("C", "Y"), graph.E("M", "Y"), graph.E("Z", "M")}
	if !slices.Equal(got.DirectedEdges(), want) {
		t.Errorf("Marginalize() = %v, want %v", got.DirectedEdges(), want)
	}
	if !aug.Has("A") {
		t.Error("Marginalize() modified its input")
	}
}

func TestMarginalize_Errors(t *testing.T) {
	aug := augmentFixture(t)
	tests := []struct {
		name    string
		aug     graph.Variable
		parents graph.Set
		want    error
	}{
		{"missing augmentation", "N", graph.SetOf("A"), ErrAugmentationNotInModel},
		{"all parents", "M", graph.SetOf("A", "B"), ErrMarginalizeAll},
		{"other children", "Y", graph.SetOf("C"), ErrNotOnlyChild},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Marginalize(aug, tt.aug, tt.parents); !errors.Is(err, tt.want) {
				t.Errorf("Marginalize() error = %v, want %v", err, tt.want)
			}
		})
	}
}
