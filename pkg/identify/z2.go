package identify

import (
	"context"

	"github.com/Aryan-Seth/y0/pkg/dsl"
	"github.com/Aryan-Seth/y0/pkg/graph"
)

// Z2ID runs identification under multi-domain transportability.
//
// When the first domain controls at least one variable and the query has no
// treatments, the whole graph is decomposed by districts and each district
// is solved with [SubZ2]. Otherwise Z2ID is SubZ2.
func Z2ID(ctx context.Context, q Z2Identification, opts ...Option) (dsl.Expression, error) {
	if err := requireAcyclic(q.Graph); err != nil {
		return nil, err
	}
	e := newEngine(q.Graph, opts)

	if len(q.SetTreatments) > 0 && !q.SetTreatments[0].IsEmpty() && q.Treatments.IsEmpty() {
		g := q.Graph
		vertices := g.Nodes()
		districts := g.Districts()
		e.trace("z2", 0, 0, "districts", len(districts))
		subs := make([]Z2Identification, len(districts))
		for i, d := range districts {
			subs[i] = Z2Identification{
				Graph:         g,
				Outcomes:      d,
				Treatments:    vertices.Difference(d),
				SetTreatments: q.SetTreatments,
			}
		}
		results, err := solveAll(ctx, e, subs, func(ctx context.Context, sub Z2Identification) (dsl.Expression, error) {
			return e.subZ2(ctx, sub, 1)
		})
		if err != nil {
			return nil, err
		}
		return dsl.SumSafe(dsl.ProductSafe(results...), vertices.Difference(q.Outcomes)), nil
	}
	return e.subZ2(ctx, q, 0)
}

// SubZ2 is the recursive core of [Z2ID].
//
// Its first step is the selection-diagram test on the first domain. If that
// domain's controlled set z lies within the treatments and another domain z1
// satisfies z ⊊ z1 ⊆ treatments, the query is unidentifiable. Otherwise it
// reduces to ordinary identification with [Identify]. Only a query with no
// domains at all is trimmed, absorbed and decomposed by SubZ2 itself.
func SubZ2(ctx context.Context, q Z2Identification, opts ...Option) (dsl.Expression, error) {
	if err := requireAcyclic(q.Graph); err != nil {
		return nil, err
	}
	return newEngine(q.Graph, opts).subZ2(ctx, q, 0)
}

func (e *engine) subZ2(ctx context.Context, q Z2Identification, depth int) (dsl.Expression, error) {
	if err := e.enter(ctx, depth); err != nil {
		return nil, err
	}
	g := q.Graph
	vertices := g.Nodes()

	// line 1
	if len(q.SetTreatments) > 0 {
		z := q.SetTreatments[0]
		if z.IsSubset(q.Treatments) {
			for j, z1 := range q.SetTreatments[1:] {
				if z.IsStrictSubset(z1) && z1.IsSubset(q.Treatments) {
					e.trace("z2", 1, depth, "shadowed_by", j+1)
					return dsl.NewUnidentifiable(vertices), nil
				}
			}
		}
		e.trace("z2", 1, depth, "within_treatments", z.IsSubset(q.Treatments))
		return e.identify(ctx, Identification{
			Graph:      g,
			Outcomes:   q.Outcomes,
			Treatments: q.Treatments,
			Estimand:   dsl.PJoint(vertices),
		}, depth+1)
	}

	// line 2
	trimmed, sets, removed := TrimToAncestors(g, q.Outcomes, append([]graph.Set{q.Treatments}, q.SetTreatments...)...)
	if !removed.IsEmpty() {
		e.trace("z2", 2, depth, "removed", removed)
		return e.subZ2(ctx, Z2Identification{
			Graph:         trimmed,
			Outcomes:      q.Outcomes,
			Treatments:    sets[0],
			SetTreatments: sets[1:],
		}, depth+1)
	}

	// line 3
	w := vertices.Difference(q.Treatments, g.IntervenedAncestors(q.Treatments, q.Outcomes))
	if !w.IsEmpty() {
		e.trace("z2", 3, depth, "w", w)
		return e.subZ2(ctx, Z2Identification{
			Graph:         g,
			Outcomes:      q.Outcomes,
			Treatments:    q.Treatments.Union(w),
			SetTreatments: q.SetTreatments,
		}, depth+1)
	}

	// line 4
	districts := g.RemoveNodes(q.Treatments).Districts()
	if len(districts) > 1 {
		e.trace("z2", 4, depth, "districts", len(districts))
		subs := make([]Z2Identification, len(districts))
		for i, d := range districts {
			subs[i] = Z2Identification{
				Graph:         g,
				Outcomes:      d,
				Treatments:    vertices.Difference(d),
				SetTreatments: q.SetTreatments,
			}
		}
		results, err := solveAll(ctx, e, subs, func(ctx context.Context, sub Z2Identification) (dsl.Expression, error) {
			return e.subZ2(ctx, sub, depth+1)
		})
		if err != nil {
			return nil, err
		}
		return dsl.SumSafe(dsl.ProductSafe(results...), vertices.Difference(q.Treatments, q.Outcomes)), nil
	}

	e.trace("z2", 5, depth)
	return dsl.NewUnidentifiable(vertices), nil
}
