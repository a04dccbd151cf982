package hcm

import (
	"errors"
	"fmt"

	"github.com/Aryan-Seth/y0/pkg/graph"
)

var (
	// ErrMechanismNotInModel is returned by [Augment] when the mechanism
	// names variables outside the collapsed model.
	ErrMechanismNotInModel = errors.New("mechanism must be contained in the collapsed model")

	// ErrEmptyMechanism is returned by [Augment] for an empty mechanism.
	ErrEmptyMechanism = errors.New("mechanism must not be empty")

	// ErrAugmentationNotInModel is returned by [Marginalize] when the
	// augmentation variable is not in the model.
	ErrAugmentationNotInModel = errors.New("augmentation variable must be in the augmented model")

	// ErrMarginalizeAll is returned by [Marginalize] when asked to remove
	// every parent of the augmentation variable.
	ErrMarginalizeAll = errors.New("cannot marginalize all parents of the augmentation variable")

	// ErrNotOnlyChild is returned by [Marginalize] when a parent to remove
	// has children other than the augmentation variable.
	ErrNotOnlyChild = errors.New("augmentation variable must be the only child of each marginalized parent")
)

// Collapse turns a hierarchical model into a flat mixed graph over its
// observed unit variables and one Q variable per subunit variable.
//
// A Q variable inherits observed unit parents as directed edges and points
// at its subunit's direct unit descendants. A latent unit parent shared with
// one other variable becomes a bidirected edge. Latent units between two
// observed units become bidirected edges between them.
func Collapse(m *Model) (*graph.Graph, error) {
	out := graph.New()
	units := m.Units()
	observedUnits := units.Intersect(m.observed)

	for _, s := range m.subunits.Sorted() {
		parents := m.Parents(s)
		if !m.observed.Has(s) || !parents.Intersect(m.subunits).IsSubset(m.observed) {
			return nil, fmt.Errorf("%w: %s", ErrUnobservedQ, s)
		}
		q := m.QVariable(s)
		if err := out.AddNode(q); err != nil {
			return nil, err
		}
		for _, u := range parents.Intersect(units).Sorted() {
			if m.observed.Has(u) {
				if err := out.AddDirectedEdge(u, q); err != nil {
					return nil, err
				}
				continue
			}
			other, err := otherChild(m, u, s)
			if err != nil {
				return nil, err
			}
			if m.subunits.Has(other) {
				other = m.QVariable(other)
			}
			if err := out.AddUndirectedEdge(q, other); err != nil {
				return nil, err
			}
		}
		for _, d := range m.DirectUnitDescendants(s).Sorted() {
			if err := out.AddDirectedEdge(q, d); err != nil {
				return nil, err
			}
		}
	}

	for _, u := range observedUnits.Sorted() {
		if err := out.AddNode(u); err != nil {
			return nil, err
		}
		for _, d := range m.Children(u).Intersect(observedUnits).Sorted() {
			if err := out.AddDirectedEdge(u, d); err != nil {
				return nil, err
			}
		}
	}
	for _, u := range units.Difference(m.observed).Sorted() {
		children := m.Children(u)
		if children.Len() != 2 {
			return nil, fmt.Errorf("%w: %s has %d", ErrLatentDescendants, u, children.Len())
		}
		if children.IsSubset(observedUnits) {
			pair := children.Sorted()
			if err := out.AddUndirectedEdge(pair[0], pair[1]); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func otherChild(m *Model, latent, s graph.Variable) (graph.Variable, error) {
	children := m.Children(latent)
	if children.Len() != 2 {
		return "", fmt.Errorf("%w: %s has %d", ErrLatentDescendants, latent, children.Len())
	}
	for _, c := range children.Sorted() {
		if c != s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLatentDescendants, latent)
}

// Augment adds variable aug to a collapsed model, caused by every member of
// mechanism. Each existing variable whose parents include the whole
// mechanism is rewired to depend on aug instead of the mechanism.
func Augment(collapsed *graph.Graph, aug graph.Variable, mechanism graph.Set) (*graph.Graph, error) {
	if mechanism.IsEmpty() {
		return nil, ErrEmptyMechanism
	}
	if !mechanism.IsSubset(collapsed.Nodes()) {
		return nil, fmt.Errorf("%w: %v", ErrMechanismNotInModel, mechanism.Difference(collapsed.Nodes()))
	}
	out := collapsed.Copy()
	if err := out.AddNode(aug); err != nil {
		return nil, err
	}
	for _, v := range mechanism.Sorted() {
		if err := out.AddDirectedEdge(v, aug); err != nil {
			return nil, err
		}
	}
	for _, v := range out.Nodes().Sorted() {
		if v == aug || !mechanism.IsSubset(out.Parents(v)) {
			continue
		}
		if err := out.AddDirectedEdge(aug, v); err != nil {
			return nil, err
		}
		for p := range mechanism {
			out.RemoveDirectedEdge(p, v)
		}
	}
	return out, nil
}

// Marginalize removes marginalParents, each of which must have aug as its
// only child, from an augmented model. The removed parents' own parents
// become parents of aug.
func Marginalize(augmented *graph.Graph, aug graph.Variable, marginalParents graph.Set) (*graph.Graph, error) {
	if !augmented.Has(aug) {
		return nil, fmt.Errorf("%w: %s", ErrAugmentationNotInModel, aug)
	}
	if marginalParents.Equal(augmented.Parents(aug)) {
		return nil, ErrMarginalizeAll
	}
	out := augmented.Copy()
	for _, p := range marginalParents.Sorted() {
		if !out.Children(p).Equal(graph.NewSet(aug)) {
			return nil, fmt.Errorf("%w: %s", ErrNotOnlyChild, p)
		}
		for _, gp := range out.Parents(p).Sorted() {
			if err := out.AddDirectedEdge(gp, aug); err != nil {
				return nil, err
			}
		}
		out = out.RemoveNodes(graph.NewSet(p))
	}
	return out, nil
}
