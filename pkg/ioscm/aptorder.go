package ioscm

import (
	"errors"
	"fmt"

	"github.com/Aryan-Seth/y0/pkg/graph"
)

var (
	// ErrNotAptOrder is returned by [IsAptOrder] for an order violating one
	// of the apt-order properties.
	ErrNotAptOrder = errors.New("not an apt-order")

	// ErrInvalidRepresentative is returned when a [Representative] picks a
	// vertex outside the component it stands for.
	ErrInvalidRepresentative = errors.New("representative is not a member of its component")
)

// Representative picks the vertex standing in for a strongly connected
// component in the contracted graph. It must return a member of component.
type Representative func(component graph.Set) graph.Variable

// MinVariable picks the smallest member by name.
func MinVariable(component graph.Set) graph.Variable {
	v, _ := component.Min()
	return v
}

// SimplifyStronglyConnectedComponents contracts every strongly connected
// component of g to one representative vertex chosen by rep (MinVariable
// when nil). Edges of both kinds are remapped onto representatives, and
// edges that become self-loops are dropped. Every representative is a
// vertex of the result, including those left without edges.
//
// It returns the contracted graph and the representative → component map,
// or ErrInvalidRepresentative if rep returns a vertex outside its component.
func SimplifyStronglyConnectedComponents(g *graph.Graph, rep Representative) (*graph.Graph, map[graph.Variable]graph.Set, error) {
	if rep == nil {
		rep = MinVariable
	}
	components := StronglyConnectedComponents(g)
	toRep := make(map[graph.Variable]graph.Variable, g.NodeCount())
	byRep := make(map[graph.Variable]graph.Set, len(components))

	out := graph.New()
	for _, c := range components {
		r := rep(c)
		if !c.Has(r) {
			return nil, nil, fmt.Errorf("%w: %q for %v", ErrInvalidRepresentative, r, c)
		}
		byRep[r] = c
		_ = out.AddNode(r)
		for v := range c {
			toRep[v] = r
		}
	}
	// Representatives are vertices of out and distinct per component, so the
	// remaining adds cannot fail.
	for _, e := range g.DirectedEdges() {
		if from, to := toRep[e.From], toRep[e.To]; from != to {
			_ = out.AddDirectedEdge(from, to)
		}
	}
	for _, e := range g.UndirectedEdges() {
		if a, b := toRep[e.From], toRep[e.To]; a != b {
			_ = out.AddUndirectedEdge(a, b)
		}
	}
	return out, byRep, nil
}

// AptOrder returns an assembling pseudo-topological order of g: a total
// order in which every ancestor of a vertex outside its strongly connected
// component comes first, and each component occupies a contiguous block.
//
// Components are ordered by a topological sort of the contracted graph and
// expanded in name order, so the result is deterministic.
func AptOrder(g *graph.Graph) ([]graph.Variable, error) {
	contracted, byRep, err := SimplifyStronglyConnectedComponents(g, nil)
	if err != nil {
		return nil, err
	}
	reps, err := contracted.TopologicalSort()
	if err != nil {
		// The contraction of a directed graph is always acyclic.
		return nil, fmt.Errorf("apt-order: %w", err)
	}
	order := make([]graph.Variable, 0, g.NodeCount())
	for _, r := range reps {
		order = append(order, byRep[r].Sorted()...)
	}
	return order, nil
}

// IsAptOrder reports whether order is an apt-order of g:
//
//   - order is a permutation of the vertices of g
//   - w ∈ An(v) \ Sc(v) implies w comes before v
//   - the members of each strongly connected component are contiguous
//
// A nil error means the order is valid. Otherwise the error wraps
// ErrNotAptOrder and names the first violation found.
func IsAptOrder(order []graph.Variable, g *graph.Graph) error {
	position := make(map[graph.Variable]int, len(order))
	for i, v := range order {
		if !g.Has(v) {
			return fmt.Errorf("%w: %w: %s", ErrNotAptOrder, graph.ErrUnknownVariable, v)
		}
		if _, dup := position[v]; dup {
			return fmt.Errorf("%w: %s appears twice", ErrNotAptOrder, v)
		}
		position[v] = i
	}
	if len(position) != g.NodeCount() {
		missing := g.Nodes().Difference(graph.NewSet(order...))
		return fmt.Errorf("%w: missing %v", ErrNotAptOrder, missing)
	}

	components := StronglyConnectedComponents(g)
	index := componentIndex(components)
	for _, v := range order {
		component := index[v]
		for w := range g.AncestorsInclusive(graph.NewSet(v)) {
			if !component.Has(w) && position[w] > position[v] {
				return fmt.Errorf("%w: ancestor %s comes after %s", ErrNotAptOrder, w, v)
			}
		}
	}

	for _, component := range components {
		first, last := len(order), -1
		for v := range component {
			first = min(first, position[v])
			last = max(last, position[v])
		}
		if last-first+1 != component.Len() {
			return fmt.Errorf("%w: component %v is not contiguous", ErrNotAptOrder, component)
		}
	}
	return nil
}
