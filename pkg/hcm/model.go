package hcm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Aryan-Seth/y0/pkg/graph"
)

var (
	// ErrDuplicateVariable is returned by [FromLists] when a name is
	// declared in more than one list.
	ErrDuplicateVariable = errors.New("variable declared twice")

	// ErrLatentDescendants is returned by [Collapse] when an unobserved unit
	// variable does not have exactly two children.
	ErrLatentDescendants = errors.New("latent variables must have exactly 2 children")

	// ErrUnobservedQ is returned by [Collapse] when a subunit variable, or
	// one of its subunit parents, is unobserved. The resulting Q variable
	// would be latent, which collapsing does not support.
	ErrUnobservedQ = errors.New("unobserved Q variables are not supported")
)

// Model is a hierarchical causal model: a directed graph whose variables are
// either unit-level or subunit-level (repeated within each unit), and either
// observed or unobserved.
type Model struct {
	g        *graph.Graph
	observed graph.Set
	subunits graph.Set
}

// FromLists builds a model from its four variable lists and directed edges.
// Every edge endpoint must be declared in one of the lists.
func FromLists(obsSubunits, unobsSubunits, obsUnits, unobsUnits []string, edges []graph.Edge) (*Model, error) {
	m := &Model{
		g:        graph.New(),
		observed: make(graph.Set),
		subunits: make(graph.Set),
	}
	declare := func(names []string, observed, subunit bool) error {
		for _, name := range names {
			v := graph.Variable(name)
			if m.g.Has(v) {
				return fmt.Errorf("%w: %s", ErrDuplicateVariable, v)
			}
			if err := m.g.AddNode(v); err != nil {
				return err
			}
			if observed {
				m.observed.Add(v)
			}
			if subunit {
				m.subunits.Add(v)
			}
		}
		return nil
	}
	if err := declare(obsSubunits, true, true); err != nil {
		return nil, err
	}
	if err := declare(unobsSubunits, false, true); err != nil {
		return nil, err
	}
	if err := declare(obsUnits, true, false); err != nil {
		return nil, err
	}
	if err := declare(unobsUnits, false, false); err != nil {
		return nil, err
	}
	for _, e := range edges {
		for _, v := range []graph.Variable{e.From, e.To} {
			if !m.g.Has(v) {
				return nil, fmt.Errorf("%w: %s", graph.ErrUnknownVariable, v)
			}
		}
		if err := m.g.AddDirectedEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Variables returns every variable of the model.
func (m *Model) Variables() graph.Set { return m.g.Nodes() }

// Edges returns the directed edges, sorted.
func (m *Model) Edges() []graph.Edge { return m.g.DirectedEdges() }

// Observed returns the observed variables, unit and subunit.
func (m *Model) Observed() graph.Set { return m.observed.Clone() }

// Unobserved returns the unobserved variables, unit and subunit.
func (m *Model) Unobserved() graph.Set { return m.g.Nodes().Difference(m.observed) }

// Subunits returns the subunit variables.
func (m *Model) Subunits() graph.Set { return m.subunits.Clone() }

// Units returns the unit variables.
func (m *Model) Units() graph.Set { return m.g.Nodes().Difference(m.subunits) }

// Parents returns the direct causes of v.
func (m *Model) Parents(v graph.Variable) graph.Set { return m.g.Parents(v) }

// Children returns the direct effects of v.
func (m *Model) Children(v graph.Variable) graph.Set { return m.g.Children(v) }

// QVariable names the unit-level Q variable of subunit s: "Q_s" when s has
// no subunit parents, otherwise "Q_{s|p1,p2}" with the subunit parents in
// name order. Names are lowercased.
func (m *Model) QVariable(s graph.Variable) graph.Variable {
	name := strings.ToLower(string(s))
	parents := m.Parents(s).Intersect(m.subunits).Sorted()
	if len(parents) == 0 {
		return graph.Variable("Q_" + name)
	}
	names := make([]string, len(parents))
	for i, p := range parents {
		names[i] = strings.ToLower(string(p))
	}
	return graph.Variable("Q_{" + name + "|" + strings.Join(names, ",") + "}")
}

// DirectUnitDescendants returns the unit variables reachable from subunit s
// through paths whose intermediate vertices are all subunits.
func (m *Model) DirectUnitDescendants(s graph.Variable) graph.Set {
	out := make(graph.Set)
	seen := graph.NewSet(s)
	frontier := m.Children(s).Sorted()
	for len(frontier) > 0 {
		var next []graph.Variable
		for _, d := range frontier {
			if seen.Has(d) {
				continue
			}
			seen.Add(d)
			if m.subunits.Has(d) {
				next = append(next, m.Children(d).Sorted()...)
			} else {
				out.Add(d)
			}
		}
		frontier = next
	}
	return out
}
