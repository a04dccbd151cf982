package dsl_test

import (
	"fmt"

	"github.com/Aryan-Seth/y0/pkg/dsl"
	"github.com/Aryan-Seth/y0/pkg/graph"
)

func ExampleSumSafe() {
	mediation := dsl.SumSafe(
		dsl.ProductSafe(dsl.P("Y").Given("A", "M"), dsl.P("M").Given("A")),
		graph.SetOf("M"),
	)
	fmt.Println(mediation)
	fmt.Println(dsl.SumSafe(dsl.P("Y"), nil))
	// Output:
	// Σ_{M} [P(Y | A, M) P(M | A)]
	// P(Y)
}

func ExampleProductSafe_unidentifiable() {
	u := dsl.NewUnidentifiable(graph.SetOf("X", "Y"))
	fmt.Println(dsl.ProductSafe(dsl.P("Z"), u))
	// Output:
	// Unidentifiable{X, Y}
}
