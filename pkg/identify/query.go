package identify

import (
	"errors"
	"fmt"

	"github.com/Aryan-Seth/y0/pkg/dsl"
	"github.com/Aryan-Seth/y0/pkg/graph"
)

var (
	// ErrInvalidQuery is returned by the record constructors when a query is
	// malformed: no graph, no outcomes, sets naming unknown variables, or
	// outcomes overlapping an intervention set.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrPrecondition is returned when a step of an algorithm is invoked
	// without its structural guard holding. Branch ordering in the engines
	// rules this out, so seeing it indicates a bug, never a property of the
	// query.
	ErrPrecondition = errors.New("precondition violated")

	// ErrRecursionLimit is returned when recursion exceeds the configured
	// ceiling (see [WithMaxDepth]).
	ErrRecursionLimit = errors.New("recursion limit exceeded")
)

// Identification is a query for P(Outcomes | do(Treatments)) over Graph.
//
// Estimand is the expression the engine currently stands in for the joint
// distribution of Graph's vertices. For a fresh query it is P(V).
type Identification struct {
	Graph      *graph.Graph
	Outcomes   graph.Set
	Treatments graph.Set
	Estimand   dsl.Expression
}

// NewIdentification validates and builds an [Identification]. A nil
// estimand defaults to the joint distribution over the graph's vertices.
func NewIdentification(g *graph.Graph, outcomes, treatments graph.Set, estimand dsl.Expression) (Identification, error) {
	if err := validate(g, outcomes, namedSet{"treatments", treatments}); err != nil {
		return Identification{}, err
	}
	return Identification{
		Graph:      g,
		Outcomes:   outcomes.Clone(),
		Treatments: treatments.Clone(),
		Estimand:   defaultEstimand(g, estimand),
	}, nil
}

// ZIdentification is a query under z-transportability.
//
// TreatmentsI and TreatmentsJ are auxiliary intervention sets that carry
// transportability bookkeeping between recursive calls. Z holds the
// selection (transportability) nodes that mark where source and target
// domains differ.
type ZIdentification struct {
	Graph       *graph.Graph
	Outcomes    graph.Set
	Treatments  graph.Set
	TreatmentsI graph.Set
	TreatmentsJ graph.Set
	Z           graph.Set
	Estimand    dsl.Expression
}

// NewZIdentification validates and builds a [ZIdentification]. A nil
// estimand defaults to the joint distribution over the graph's vertices.
func NewZIdentification(g *graph.Graph, outcomes, treatments, treatmentsI, treatmentsJ, z graph.Set, estimand dsl.Expression) (ZIdentification, error) {
	err := validate(g, outcomes,
		namedSet{"treatments", treatments},
		namedSet{"treatments I", treatmentsI},
		namedSet{"treatments J", treatmentsJ},
	)
	if err != nil {
		return ZIdentification{}, err
	}
	if !z.IsSubset(g.Nodes()) {
		return ZIdentification{}, fmt.Errorf("%w: z %v not in graph", ErrInvalidQuery, z.Difference(g.Nodes()))
	}
	return ZIdentification{
		Graph:       g,
		Outcomes:    outcomes.Clone(),
		Treatments:  treatments.Clone(),
		TreatmentsI: treatmentsI.Clone(),
		TreatmentsJ: treatmentsJ.Clone(),
		Z:           z.Clone(),
		Estimand:    defaultEstimand(g, estimand),
	}, nil
}

// Z2Identification is a query under multi-domain transportability.
// SetTreatments lists, per source domain, the variables experimentally
// controlled in that domain. Order matters: domains are considered in list
// order.
type Z2Identification struct {
	Graph         *graph.Graph
	Outcomes      graph.Set
	Treatments    graph.Set
	SetTreatments []graph.Set
}

// NewZ2Identification validates and builds a [Z2Identification].
func NewZ2Identification(g *graph.Graph, outcomes, treatments graph.Set, setTreatments []graph.Set) (Z2Identification, error) {
	if err := validate(g, outcomes, namedSet{"treatments", treatments}); err != nil {
		return Z2Identification{}, err
	}
	nodes := g.Nodes()
	domains := make([]graph.Set, len(setTreatments))
	for i, s := range setTreatments {
		if !s.IsSubset(nodes) {
			return Z2Identification{}, fmt.Errorf("%w: domain %d names %v not in graph", ErrInvalidQuery, i, s.Difference(nodes))
		}
		domains[i] = s.Clone()
	}
	return Z2Identification{
		Graph:         g,
		Outcomes:      outcomes.Clone(),
		Treatments:    treatments.Clone(),
		SetTreatments: domains,
	}, nil
}

type namedSet struct {
	name string
	set  graph.Set
}

func validate(g *graph.Graph, outcomes graph.Set, interventions ...namedSet) error {
	if g == nil {
		return fmt.Errorf("%w: nil graph", ErrInvalidQuery)
	}
	if outcomes.IsEmpty() {
		return fmt.Errorf("%w: no outcomes", ErrInvalidQuery)
	}
	nodes := g.Nodes()
	if !outcomes.IsSubset(nodes) {
		return fmt.Errorf("%w: outcomes %v not in graph", ErrInvalidQuery, outcomes.Difference(nodes))
	}
	for _, ns := range interventions {
		if !ns.set.IsSubset(nodes) {
			return fmt.Errorf("%w: %s %v not in graph", ErrInvalidQuery, ns.name, ns.set.Difference(nodes))
		}
		if overlap := ns.set.Intersect(outcomes); !overlap.IsEmpty() {
			return fmt.Errorf("%w: %s overlap outcomes at %v", ErrInvalidQuery, ns.name, overlap)
		}
	}
	return nil
}

func defaultEstimand(g *graph.Graph, e dsl.Expression) dsl.Expression {
	if e != nil {
		return e
	}
	return dsl.PJoint(g.Nodes())
}

// PParents returns the Markov factor of child under ordering:
// P(child | every variable before child in ordering).
//
// Returns ErrPrecondition if child does not appear in ordering.
func PParents(child graph.Variable, ordering []graph.Variable) (dsl.Probability, error) {
	for i, v := range ordering {
		if v == child {
			return dsl.P(child).Given(ordering[:i]...), nil
		}
	}
	return dsl.Probability{}, fmt.Errorf("%w: %s not in ordering %v", ErrPrecondition, child, ordering)
}

// markovProduct multiplies PParents(v, ordering) over the members of vs,
// visited in ordering order.
func markovProduct(vs graph.Set, ordering []graph.Variable) (dsl.Expression, error) {
	factors := make([]dsl.Expression, 0, len(vs))
	for _, v := range ordering {
		if !vs.Has(v) {
			continue
		}
		p, err := PParents(v, ordering)
		if err != nil {
			return nil, err
		}
		factors = append(factors, p)
	}
	if len(factors) != len(vs) {
		missing := vs.Difference(graph.NewSet(ordering...))
		return nil, fmt.Errorf("%w: %v not in ordering", ErrPrecondition, missing)
	}
	return dsl.ProductSafe(factors...), nil
}
