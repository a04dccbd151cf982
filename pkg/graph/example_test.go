package graph_test

import (
	"fmt"

	"github.com/Aryan-Seth/y0/pkg/graph"
)

func ExampleGraph_Districts() {
	// A front-door graph: X → M → Y with X and Y confounded.
	g := graph.MustFromEdges(
		[]graph.Edge{graph.E("X", "M"), graph.E("M", "Y")},
		[]graph.Edge{graph.E("X", "Y")},
	)
	for _, d := range g.Districts() {
		fmt.Println(d)
	}
	// Output:
	// {M}
	// {X, Y}
}

func ExampleGraph_TopologicalSort() {
	g := graph.MustFromEdges(
		[]graph.Edge{graph.E("Z", "X"), graph.E("X", "Y"), graph.E("A", "Y")},
		nil,
	)
	order, _ := g.TopologicalSort()
	fmt.Println(order)
	// Output:
	// [A Z X Y]
}

func ExampleGraph_IntervenedAncestors() {
	g := graph.MustFromEdges(
		[]graph.Edge{graph.E("Z", "X"), graph.E("X", "Y")},
		nil,
	)
	fmt.Println(g.AncestorsInclusive(graph.SetOf("Y")))
	fmt.Println(g.IntervenedAncestors(graph.SetOf("X"), graph.SetOf("Y")))
	// Output:
	// {X, Y, Z}
	// {X, Y}
}
