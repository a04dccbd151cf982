// Package dsl provides the symbolic probability expressions produced by the
// identification engines.
//
// An identifying functional is a tree of conditional probability factors
// ([Probability]), marginal sums ([Sum]) and products ([Product]). When no
// functional exists the engines return [Unidentifiable] instead.
//
// # Safe Construction
//
// Engines combine partial results with [SumSafe] and [ProductSafe]. Both
// collapse trivial structure (empty ranges, single factors, nested products)
// and propagate Unidentifiable: a product or sum containing an
// Unidentifiable factor is that Unidentifiable.
//
//	expr := dsl.SumSafe(
//	    dsl.ProductSafe(
//	        dsl.P("Y").Given("A", "M"),
//	        dsl.P("M").Given("A"),
//	    ),
//	    graph.SetOf("M"),
//	)
//	fmt.Println(expr) // Σ_{M} [P(Y | A, M) P(M | A)]
//
// # Comparison
//
// Two expressions built along different paths may differ in factor order or
// sum nesting. Use [Equal], which compares [Canonicalize]d forms.
//
// # Encoding
//
// [Marshal] and [Unmarshal] convert expressions to and from a JSON tree. The
// result cache and the HTTP API store expressions in this form.
package dsl
