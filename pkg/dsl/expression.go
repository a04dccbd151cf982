package dsl

import (
	"strings"

	"github.com/Aryan-Seth/y0/pkg/graph"
)

// Expression is a node in a probability expression tree.
//
// The concrete types are [Probability], [Sum], [Product], [One] and
// [Unidentifiable]. Expressions are values: constructors copy their inputs
// and no method modifies the receiver.
type Expression interface {
	// String renders the expression in a compact mathematical notation.
	String() string
	// Variables returns every variable mentioned anywhere in the expression.
	Variables() graph.Set

	expression()
}

// Probability is a (conditional) probability factor P(children | parents).
//
// Parents keep their construction order. For factors built from a
// topological ordering this is the order of the ordering; [Canonicalize]
// sorts them.
type Probability struct {
	Children []graph.Variable
	Parents  []graph.Variable
}

// P builds a joint probability over children, in sorted order.
func P(children ...graph.Variable) Probability {
	return Probability{Children: graph.NewSet(children...).Sorted()}
}

// PJoint builds the joint distribution over every member of vs.
func PJoint(vs graph.Set) Probability {
	return Probability{Children: vs.Sorted()}
}

// Given returns a copy of p conditioned on parents, replacing any previous
// conditioning set.
func (p Probability) Given(parents ...graph.Variable) Probability {
	return Probability{
		Children: append([]graph.Variable(nil), p.Children...),
		Parents:  append([]graph.Variable(nil), parents...),
	}
}

func (p Probability) String() string {
	var b strings.Builder
	b.WriteString("P(")
	writeVars(&b, p.Children)
	if len(p.Parents) > 0 {
		b.WriteString(" | ")
		writeVars(&b, p.Parents)
	}
	b.WriteString(")")
	return b.String()
}

// Variables returns the children and parents of the factor.
func (p Probability) Variables() graph.Set {
	return graph.NewSet(p.Children...).Union(graph.NewSet(p.Parents...))
}

func (Probability) expression() {}

// Sum marginalizes Expression over the variables in Ranges.
type Sum struct {
	Expression Expression
	Ranges     graph.Set
}

func (s Sum) String() string {
	var b strings.Builder
	b.WriteString("Σ_{")
	writeVars(&b, s.Ranges.Sorted())
	b.WriteString("} ")
	if _, ok := s.Expression.(Product); ok {
		b.WriteString("[")
		b.WriteString(s.Expression.String())
		b.WriteString("]")
	} else {
		b.WriteString(s.Expression.String())
	}
	return b.String()
}

// Variables returns the summed variables and those of the inner expression.
func (s Sum) Variables() graph.Set {
	return s.Expression.Variables().Union(s.Ranges)
}

func (Sum) expression() {}

// Product multiplies its factors. Products built with [ProductSafe] never
// contain nested products, [One], or a single factor.
type Product struct {
	Factors []Expression
}

func (p Product) String() string {
	parts := make([]string, len(p.Factors))
	for i, f := range p.Factors {
		if _, ok := f.(Sum); ok {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, " ")
}

// Variables returns the union of the factors' variables.
func (p Product) Variables() graph.Set {
	out := make(graph.Set)
	for _, f := range p.Factors {
		out = out.Union(f.Variables())
	}
	return out
}

func (Product) expression() {}

// One is the multiplicative identity, the value of an empty product.
type One struct{}

func (One) String() string { return "1" }

// Variables returns an empty set.
func (One) Variables() graph.Set { return make(graph.Set) }

func (One) expression() {}

// Unidentifiable is the terminal result of an identification that has no
// closed form. Nodes holds the vertex set of the graph where the algorithm
// stopped.
//
// Unidentifiable is a result, not an error. It absorbs every product or sum
// it is combined into through [ProductSafe] and [SumSafe].
type Unidentifiable struct {
	Nodes graph.Set
}

// NewUnidentifiable records the vertex set of the failing graph.
func NewUnidentifiable(nodes graph.Set) Unidentifiable {
	return Unidentifiable{Nodes: nodes.Clone()}
}

func (u Unidentifiable) String() string { return "Unidentifiable" + u.Nodes.String() }

// Variables returns the recorded vertex set.
func (u Unidentifiable) Variables() graph.Set { return u.Nodes.Clone() }

func (Unidentifiable) expression() {}

// IsUnidentifiable reports whether e is an [Unidentifiable] result.
func IsUnidentifiable(e Expression) bool {
	_, ok := e.(Unidentifiable)
	return ok
}

func writeVars(b *strings.Builder, vs []graph.Variable) {
	for i, v := range vs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(v))
	}
}
