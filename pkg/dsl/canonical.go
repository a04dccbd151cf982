package dsl

import (
	"slices"
	"strings"

	"github.com/Aryan-Seth/y0/pkg/graph"
)

// Canonicalize rewrites e into a normal form so that expressions differing
// only in factor order, parent order or sum nesting render identically:
//
//   - probability parents (and children) are sorted
//   - nested sums are merged
//   - product factors are flattened and sorted by their rendering
//   - degenerate sums and products collapse as in [SumSafe] and [ProductSafe]
func Canonicalize(e Expression) Expression {
	switch x := e.(type) {
	case Probability:
		return Probability{
			Children: graph.NewSet(x.Children...).Sorted(),
			Parents:  graph.NewSet(x.Parents...).Sorted(),
		}
	case Sum:
		return SumSafe(Canonicalize(x.Expression), x.Ranges)
	case Product:
		factors := make([]Expression, len(x.Factors))
		for i, f := range x.Factors {
			factors[i] = Canonicalize(f)
		}
		p := ProductSafe(factors...)
		if prod, ok := p.(Product); ok {
			slices.SortStableFunc(prod.Factors, func(a, b Expression) int {
				return strings.Compare(a.String(), b.String())
			})
		}
		return p
	case Unidentifiable:
		return NewUnidentifiable(x.Nodes)
	}
	return e
}

// Equal reports whether a and b have the same canonical form.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Canonicalize(a).String() == Canonicalize(b).String()
}
