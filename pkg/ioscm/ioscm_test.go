package ioscm

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aryan-Seth/y0/pkg/graph"
)

// cyclic has the 3-cycle X → Y → Z → X, fed by W and feeding V, with a
// latent confounder between V and U.
var cyclic = graph.MustFromEdges(
	[]graph.Edge{
		graph.E("X", "Y"), graph.E("Y", "Z"), graph.E("Z", "X"),
		graph.E("W", "X"), graph.E("Z", "V"),
	},
	[]graph.Edge{graph.E("V", "U")},
)

func TestStronglyConnectedComponents_ThreeCycle(t *testing.T) {
	g := graph.MustFromEdges(
		[]graph.Edge{graph.E("X", "Y"), graph.E("Z", "X"), graph.E("Y", "Z")},
		nil,
	)
	got := StronglyConnectedComponents(g)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(graph.SetOf("X", "Y", "Z")))

	order, err := AptOrder(g)
	require.NoError(t, err)
	assert.Equal(t, graph.Vars("X", "Y", "Z"), order)
	assert.NoError(t, IsAptOrder(order, g))
}

func TestStronglyConnectedComponents(t *testing.T) {
	got := StronglyConnectedComponents(cyclic)
	want := []graph.Set{
		graph.SetOf("U"), graph.SetOf("V"), graph.SetOf("W"), graph.SetOf("X", "Y", "Z"),
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "component %d = %v, want %v", i, got[i], want[i])
	}
}

func TestStronglyConnectedComponent(t *testing.T) {
	assert.True(t, StronglyConnectedComponent(cyclic, "Y").Equal(graph.SetOf("X", "Y", "Z")))
	assert.True(t, StronglyConnectedComponent(cyclic, "W").Equal(graph.SetOf("W")))
	assert.True(t, StronglyConnectedComponent(cyclic, "missing").IsEmpty())
}

func TestStronglyConnectedComponents_MatchesPerVertex(t *testing.T) {
	for _, c := range StronglyConnectedComponents(cyclic) {
		for v := range c {
			assert.True(t, StronglyConnectedComponent(cyclic, v).Equal(c), "Sc(%s)", v)
		}
	}
}

func TestConvertStronglyConnectedComponents(t *testing.T) {
	got := ConvertStronglyConnectedComponents(cyclic)

	wantDirected := []graph.Edge{graph.E("W", "X"), graph.E("Z", "V")}
	assert.Equal(t, wantDirected, got.DirectedEdges())

	wantUndirected := []graph.Edge{
		graph.E("U", "V"), graph.E("X", "Y"), graph.E("X", "Z"), graph.E("Y", "Z"),
	}
	assert.Equal(t, wantUndirected, got.UndirectedEdges())
	assert.Equal(t, 5, cyclic.DirectedEdgeCount(), "original graph modified")
}

func TestConsolidatedDistricts(t *testing.T) {
	got := GraphConsolidatedDistricts(cyclic)
	want := []graph.Set{graph.SetOf("U", "V"), graph.SetOf("W"), graph.SetOf("X", "Y", "Z")}
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "district %d = %v, want %v", i, got[i], want[i])
	}

	assert.True(t, VertexConsolidatedDistrict(cyclic, "Z").Equal(graph.SetOf("X", "Y", "Z")))
	assert.True(t, ConsolidatedDistrict(cyclic, graph.SetOf("U", "X")).Equal(graph.SetOf("U", "V", "X", "Y", "Z")))
}

func TestConsolidatedDistricts_CoarsenDistricts(t *testing.T) {
	g := graph.MustFromEdges(
		[]graph.Edge{graph.E("A", "B"), graph.E("B", "A"), graph.E("B", "C"), graph.E("D", "E")},
		[]graph.Edge{graph.E("A", "D"), graph.E("C", "F")},
	)
	consolidated := GraphConsolidatedDistricts(g)
	for _, d := range g.Districts() {
		containing := 0
		for _, cd := range consolidated {
			if d.IsSubset(cd) {
				containing++
			}
		}
		assert.Equal(t, 1, containing, "district %v", d)
	}
}

func TestSimplifyStronglyConnectedComponents(t *testing.T) {
	contracted, byRep, err := SimplifyStronglyConnectedComponents(cyclic, nil)
	require.NoError(t, err)

	assert.True(t, contracted.Nodes().Equal(graph.SetOf("U", "V", "W", "X")))
	assert.Equal(t, []graph.Edge{graph.E("W", "X"), graph.E("X", "V")}, contracted.DirectedEdges())
	assert.Equal(t, []graph.Edge{graph.E("U", "V")}, contracted.UndirectedEdges())
	assert.True(t, byRep["X"].Equal(graph.SetOf("X", "Y", "Z")))
}

func TestSimplifyStronglyConnectedComponents_KeepsIsolated(t *testing.T) {
	g := graph.MustFromEdges([]graph.Edge{graph.E("A", "B"), graph.E("B", "A")}, nil)
	contracted, _, err := SimplifyStronglyConnectedComponents(g, func(c graph.Set) graph.Variable {
		return c.Sorted()[c.Len()-1]
	})
	require.NoError(t, err)
	assert.True(t, contracted.Nodes().Equal(graph.SetOf("B")))
	assert.Zero(t, contracted.DirectedEdgeCount())
}

func TestSimplifyStronglyConnectedComponents_InvalidRepresentative(t *testing.T) {
	tests := []struct {
		name string
		rep  Representative
	}{
		{"empty", func(graph.Set) graph.Variable { return "" }},
		{"outside component", func(graph.Set) graph.Variable { return "Q" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := SimplifyStronglyConnectedComponents(cyclic, tt.rep)
			assert.ErrorIs(t, err, ErrInvalidRepresentative)
		})
	}
}

func TestAptOrder(t *testing.T) {
	order, err := AptOrder(cyclic)
	require.NoError(t, err)
	assert.Equal(t, graph.Vars("U", "W", "X", "Y", "Z", "V"), order)
	assert.NoError(t, IsAptOrder(order, cyclic))
}

func TestAptOrder_AcyclicIsTopological(t *testing.T) {
	g := graph.MustFromEdges(
		[]graph.Edge{graph.E("C", "A"), graph.E("B", "A"), graph.E("D", "C")},
		[]graph.Edge{graph.E("A", "D")},
	)
	order, err := AptOrder(g)
	require.NoError(t, err)
	topo, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, topo, order)
}

func TestIsAptOrder_BidirectedClique(t *testing.T) {
	g := graph.MustFromEdges(nil, []graph.Edge{
		graph.E("A", "B"), graph.E("A", "C"), graph.E("B", "C"),
	})
	for _, order := range [][]graph.Variable{
		graph.Vars("A", "B", "C"),
		graph.Vars("C", "A", "B"),
		graph.Vars("B", "C", "A"),
	} {
		assert.NoError(t, IsAptOrder(order, g), "order %v", order)
	}
}

func TestIsAptOrder_Violations(t *testing.T) {
	tests := []struct {
		name  string
		order []graph.Variable
	}{
		{"ancestor after", graph.Vars("U", "X", "Y", "Z", "W", "V")},
		{"split component", graph.Vars("U", "W", "X", "Y", "V", "Z")},
		{"missing vertex", graph.Vars("U", "W", "X", "Y", "Z")},
		{"duplicate", graph.Vars("U", "W", "X", "Y", "Z", "V", "V")},
		{"unknown vertex", graph.Vars("U", "W", "X", "Y", "Z", "V", "Q")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IsAptOrder(tt.order, cyclic)
			assert.True(t, errors.Is(err, ErrNotAptOrder), "IsAptOrder() error = %v", err)
		})
	}
}

func TestIsAptOrder_ReportsFirstSplitComponent(t *testing.T) {
	g := graph.MustFromEdges([]graph.Edge{
		graph.E("A", "B"), graph.E("B", "A"),
		graph.E("C", "D"), graph.E("D", "C"),
	}, nil)
	for range 20 {
		err := IsAptOrder(graph.Vars("A", "C", "B", "D"), g)
		require.ErrorIs(t, err, ErrNotAptOrder)
		assert.Contains(t, err.Error(), "component {A, B} is not contiguous")
	}
}

func TestAptOrder_ComponentsContiguous(t *testing.T) {
	g := graph.MustFromEdges(
		[]graph.Edge{
			graph.E("A", "B"), graph.E("B", "A"),
			graph.E("B", "C"), graph.E("C", "D"), graph.E("D", "C"),
			graph.E("E", "A"),
		},
		nil,
	)
	order, err := AptOrder(g)
	require.NoError(t, err)
	require.NoError(t, IsAptOrder(order, g))
	i := slices.Index(order, "C")
	assert.Equal(t, graph.Variable("D"), order[i+1])
}
