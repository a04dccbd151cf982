package identify

import (
	"context"
	"fmt"

	"github.com/Aryan-Seth/y0/pkg/dsl"
	"github.com/Aryan-Seth/y0/pkg/graph"
)

// GZIdentify runs gz-identification (identification under
// z-transportability, after Lee and Honavar) on q.
//
// The result is an expression or [dsl.Unidentifiable]. Errors are reserved
// for invalid input, cancellation, the recursion ceiling and precondition
// violations.
func GZIdentify(ctx context.Context, q ZIdentification, opts ...Option) (dsl.Expression, error) {
	if err := requireAcyclic(q.Graph); err != nil {
		return nil, err
	}
	e := newEngine(q.Graph, opts)
	return e.gzIdentify(ctx, q, 0)
}

func (e *engine) gzIdentify(ctx context.Context, q ZIdentification, depth int) (dsl.Expression, error) {
	if err := e.enter(ctx, depth); err != nil {
		return nil, err
	}
	g := q.Graph
	vertices := g.Nodes()
	estimand := defaultEstimand(g, q.Estimand)
	intervened := q.Treatments.Union(q.TreatmentsI, q.TreatmentsJ)

	// line 1
	if q.Treatments.IsEmpty() {
		e.trace("gz", 1, depth, "outcomes", q.Outcomes)
		return dsl.SumSafe(estimand, vertices.Difference(q.Outcomes)), nil
	}

	// line 2
	trimmed, sets, removed := TrimToAncestors(g, q.Outcomes, q.Treatments, q.TreatmentsI, q.TreatmentsJ, q.Z)
	if !removed.IsEmpty() {
		e.trace("gz", 2, depth, "removed", removed)
		return e.gzIdentify(ctx, ZIdentification{
			Graph:       trimmed,
			Outcomes:    q.Outcomes,
			Treatments:  sets[0],
			TreatmentsI: sets[1],
			TreatmentsJ: sets[2],
			Z:           sets[3],
			Estimand:    dsl.SumSafe(estimand, removed),
		}, depth+1)
	}

	// line 3
	w := vertices.Difference(intervened, g.IntervenedAncestors(intervened, q.Outcomes))
	zw := q.Z.Intersect(w.Union(q.Treatments))
	if !w.IsEmpty() || !zw.IsEmpty() {
		e.trace("gz", 3, depth, "w", w, "z_w", zw)
		return e.gzIdentify(ctx, ZIdentification{
			Graph:       g,
			Outcomes:    q.Outcomes,
			Treatments:  q.Treatments.Union(w).Difference(zw),
			TreatmentsI: q.TreatmentsI.Union(zw),
			TreatmentsJ: q.TreatmentsJ,
			Z:           q.Z.Difference(w),
			Estimand:    estimand,
		}, depth+1)
	}

	// line 4
	withoutIntervened := g.RemoveNodes(intervened)
	if len(withoutIntervened.Districts()) > 1 {
		subs, err := Line4(q)
		if err != nil {
			return nil, err
		}
		e.trace("gz", 4, depth, "districts", len(subs))
		results, err := solveAll(ctx, e, subs, func(ctx context.Context, sub ZIdentification) (dsl.Expression, error) {
			return e.gzIdentify(ctx, sub, depth+1)
		})
		if err != nil {
			return nil, err
		}
		marginal := vertices.Difference(q.Treatments, q.TreatmentsI, q.Outcomes)
		return dsl.SumSafe(dsl.ProductSafe(results...), marginal), nil
	}

	// line 5
	if g.IsSingleDistrict() {
		e.trace("gz", 5, depth)
		return dsl.NewUnidentifiable(vertices), nil
	}

	district, err := singleDistrict(withoutIntervened)
	if err != nil {
		return nil, err
	}

	// line 6
	if g.ContainsDistrict(district) {
		e.trace("gz", 6, depth, "district", district)
		ordering, err := g.TopologicalSort()
		if err != nil {
			return nil, err
		}
		auxiliary := q.TreatmentsI.Union(q.TreatmentsJ)
		product, err := markovProduct(district, graph.Without(ordering, auxiliary))
		if err != nil {
			return nil, err
		}
		return dsl.SumSafe(product, district.Difference(q.Outcomes)), nil
	}

	// line 7
	next, err := Line7(q)
	if err != nil {
		return nil, err
	}
	e.trace("gz", 7, depth, "district", next.Graph.Nodes())
	return e.gzIdentify(ctx, next, depth+1)
}

// Line4 decomposes q into one sub-problem per district of the graph with
// every intervened vertex (treatments, I and J) removed. For a district D,
// the sub-problem keeps the full graph and asks for D under intervention on
// everything outside D except the selection nodes, which move to J.
//
// Returns ErrPrecondition unless the removal leaves more than one district.
func Line4(q ZIdentification) ([]ZIdentification, error) {
	g := q.Graph
	vertices := g.Nodes()
	intervened := q.Treatments.Union(q.TreatmentsI, q.TreatmentsJ)
	districts := g.RemoveNodes(intervened).Districts()
	if len(districts) <= 1 {
		return nil, fmt.Errorf("%w: line 4 needs more than one district, got %d", ErrPrecondition, len(districts))
	}
	subs := make([]ZIdentification, len(districts))
	for i, d := range districts {
		outside := vertices.Difference(d)
		subs[i] = ZIdentification{
			Graph:       g,
			Outcomes:    d,
			Treatments:  outside.Difference(q.Z),
			TreatmentsI: q.TreatmentsI.Clone(),
			TreatmentsJ: q.TreatmentsJ.Union(q.Z.Intersect(outside)),
			Z:           q.Z.Intersect(d),
			Estimand:    q.Estimand,
		}
	}
	return subs, nil
}

// Line7 narrows q to the district of its graph that strictly contains the
// single district left after removing every intervened vertex. The new
// estimand is the Markov factorization of that district under the graph's
// topological order with I and J dropped.
//
// Returns ErrPrecondition if the removal does not leave exactly one district
// or no district of the graph strictly contains it.
func Line7(q ZIdentification) (ZIdentification, error) {
	g := q.Graph
	intervened := q.Treatments.Union(q.TreatmentsI, q.TreatmentsJ)
	district, err := singleDistrict(g.RemoveNodes(intervened))
	if err != nil {
		return ZIdentification{}, err
	}
	containing, err := containingDistrict(g, district)
	if err != nil {
		return ZIdentification{}, err
	}
	ordering, err := g.TopologicalSort()
	if err != nil {
		return ZIdentification{}, err
	}
	auxiliary := q.TreatmentsI.Union(q.TreatmentsJ)
	product, err := markovProduct(containing.Difference(auxiliary), graph.Without(ordering, auxiliary))
	if err != nil {
		return ZIdentification{}, err
	}
	return ZIdentification{
		Graph:       g.Subgraph(containing),
		Outcomes:    q.Outcomes,
		Treatments:  q.Treatments.Intersect(containing),
		TreatmentsI: q.TreatmentsI.Intersect(containing),
		TreatmentsJ: q.TreatmentsJ.Intersect(containing),
		Z:           q.Z.Intersect(containing),
		Estimand:    product,
	}, nil
}
