package identify

import (
	"context"

	"github.com/Aryan-Seth/y0/pkg/dsl"
)

// Identify runs the ID algorithm of Shpitser and Pearl on q.
//
// It returns an expression over the observational distribution equal to
// P(q.Outcomes | do(q.Treatments)), or a [dsl.Unidentifiable] value when no
// such expression exists. Errors are reserved for invalid input, context
// cancellation, the recursion ceiling and precondition violations.
//
// The graph must be acyclic.
func Identify(ctx context.Context, q Identification, opts ...Option) (dsl.Expression, error) {
	if err := requireAcyclic(q.Graph); err != nil {
		return nil, err
	}
	e := newEngine(q.Graph, opts)
	return e.identify(ctx, q, 0)
}

func (e *engine) identify(ctx context.Context, q Identification, depth int) (dsl.Expression, error) {
	if err := e.enter(ctx, depth); err != nil {
		return nil, err
	}
	g := q.Graph
	vertices := g.Nodes()
	estimand := defaultEstimand(g, q.Estimand)

	// line 1
	if q.Treatments.IsEmpty() {
		e.trace("id", 1, depth, "outcomes", q.Outcomes)
		return dsl.SumSafe(estimand, vertices.Difference(q.Outcomes)), nil
	}

	// line 2
	if trimmed, sets, removed := TrimToAncestors(g, q.Outcomes, q.Treatments); !removed.IsEmpty() {
		e.trace("id", 2, depth, "removed", removed)
		return e.identify(ctx, Identification{
			Graph:      trimmed,
			Outcomes:   q.Outcomes,
			Treatments: sets[0],
			Estimand:   dsl.SumSafe(estimand, removed),
		}, depth+1)
	}

	// line 3
	w := vertices.Difference(q.Treatments, g.IntervenedAncestors(q.Treatments, q.Outcomes))
	if !w.IsEmpty() {
		e.trace("id", 3, depth, "w", w)
		return e.identify(ctx, Identification{
			Graph:      g,
			Outcomes:   q.Outcomes,
			Treatments: q.Treatments.Union(w),
			Estimand:   estimand,
		}, depth+1)
	}

	// line 4
	withoutTreatments := g.RemoveNodes(q.Treatments)
	districts := withoutTreatments.Districts()
	if len(districts) > 1 {
		e.trace("id", 4, depth, "districts", len(districts))
		subs := make([]Identification, len(districts))
		for i, d := range districts {
			subs[i] = Identification{
				Graph:      g,
				Outcomes:   d,
				Treatments: vertices.Difference(d),
				Estimand:   estimand,
			}
		}
		results, err := solveAll(ctx, e, subs, func(ctx context.Context, sub Identification) (dsl.Expression, error) {
			return e.identify(ctx, sub, depth+1)
		})
		if err != nil {
			return nil, err
		}
		return dsl.SumSafe(dsl.ProductSafe(results...), vertices.Difference(q.Treatments, q.Outcomes)), nil
	}

	// line 5
	if g.IsSingleDistrict() {
		e.trace("id", 5, depth)
		return dsl.NewUnidentifiable(vertices), nil
	}

	district, err := singleDistrict(withoutTreatments)
	if err != nil {
		return nil, err
	}
	ordering, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	// line 6
	if g.ContainsDistrict(district) {
		e.trace("id", 6, depth, "district", district)
		product, err := markovProduct(district, ordering)
		if err != nil {
			return nil, err
		}
		return dsl.SumSafe(product, district.Difference(q.Outcomes)), nil
	}

	// line 7
	containing, err := containingDistrict(g, district)
	if err != nil {
		return nil, err
	}
	e.trace("id", 7, depth, "district", containing)
	product, err := markovProduct(containing, ordering)
	if err != nil {
		return nil, err
	}
	return e.identify(ctx, Identification{
		Graph:      g.Subgraph(containing),
		Outcomes:   q.Outcomes,
		Treatments: q.Treatments.Intersect(containing),
		Estimand:   product,
	}, depth+1)
}

// IsIdentifiable is a convenience wrapper reporting whether Identify finds
// an expression for q.
func IsIdentifiable(ctx context.Context, q Identification, opts ...Option) (bool, error) {
	expr, err := Identify(ctx, q, opts...)
	if err != nil {
		return false, err
	}
	return !dsl.IsUnidentifiable(expr), nil
}
