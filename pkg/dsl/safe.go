package dsl

import "github.com/Aryan-Seth/y0/pkg/graph"

// SumSafe builds the marginal of expr over ranges, collapsing degenerate
// cases:
//
//   - empty ranges return expr unchanged
//   - an [Unidentifiable] expr is returned as is
//   - a [Sum] expr is merged into one sum over the union of both ranges
func SumSafe(expr Expression, ranges graph.Set) Expression {
	if ranges.IsEmpty() {
		return expr
	}
	switch e := expr.(type) {
	case Unidentifiable:
		return e
	case Sum:
		return Sum{Expression: e.Expression, Ranges: e.Ranges.Union(ranges)}
	}
	return Sum{Expression: expr, Ranges: ranges.Clone()}
}

// ProductSafe multiplies factors, collapsing degenerate cases: nested
// products are flattened, [One] factors dropped, a single remaining factor
// is returned unwrapped and no factors at all yield One. The first
// [Unidentifiable] factor, if any, is returned in place of the product.
func ProductSafe(factors ...Expression) Expression {
	flat := make([]Expression, 0, len(factors))
	for _, f := range factors {
		switch e := f.(type) {
		case Unidentifiable:
			return e
		case One:
			continue
		case Product:
			for _, inner := range e.Factors {
				if u, ok := inner.(Unidentifiable); ok {
					return u
				}
				if _, ok := inner.(One); ok {
					continue
				}
				flat = append(flat, inner)
			}
		default:
			flat = append(flat, f)
		}
	}
	switch len(flat) {
	case 0:
		return One{}
	case 1:
		return flat[0]
	}
	return Product{Factors: flat}
}
