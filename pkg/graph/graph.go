package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidVariable is returned by [Graph.AddNode] and the edge builders
	// when a variable name is empty.
	ErrInvalidVariable = errors.New("variable name must not be empty")

	// ErrSelfLoop is returned when an edge would connect a variable to itself.
	// Neither directed nor bidirected self-loops carry meaning in a causal graph.
	ErrSelfLoop = errors.New("self-loop")

	// ErrUnknownVariable is returned when an operation names a variable that
	// is not in the graph.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrCycle is returned by [Graph.TopologicalSort] when the directed part
	// of the graph contains a cycle.
	ErrCycle = errors.New("graph contains a directed cycle")
)

// Edge is a pair of variables. For directed edges From is the cause and To
// the effect. For bidirected (undirected) edges the orientation carries no
// meaning; the graph reports them with From < To.
type Edge struct {
	From Variable
	To   Variable
}

// E is shorthand for building an edge from two names.
func E(from, to string) Edge { return Edge{From: Variable(from), To: Variable(to)} }

// Graph is a mixed graph: a directed edge relation for causal influence and an
// undirected relation for latent confounding (drawn as bidirected arcs), over
// a shared vertex set. The vertex set is the union of all edge endpoints plus
// any isolated vertices added explicitly.
//
// A Graph is built with [New] and the Add* methods, or with [FromEdges]. Once
// handed to the identification engines it is treated as immutable: every
// operation that changes structure ([Graph.Subgraph], [Graph.RemoveNodes],
// [Graph.Intervene], [Graph.Copy]) returns a new Graph.
//
// The zero value is not usable; use New.
type Graph struct {
	nodes      Set
	children   map[Variable]Set
	parents    map[Variable]Set
	undirected map[Variable]Set
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:      make(Set),
		children:   make(map[Variable]Set),
		parents:    make(map[Variable]Set),
		undirected: make(map[Variable]Set),
	}
}

// FromEdges builds a graph from directed and undirected edge lists. The vertex
// set is exactly the set of endpoints.
func FromEdges(directed, undirected []Edge) (*Graph, error) {
	g := New()
	for _, e := range directed {
		if err := g.AddDirectedEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	for _, e := range undirected {
		if err := g.AddUndirectedEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// MustFromEdges is like [FromEdges] but panics on error. It is intended for
// tests and package-level fixtures.
func MustFromEdges(directed, undirected []Edge) *Graph {
	g, err := FromEdges(directed, undirected)
	if err != nil {
		panic(err)
	}
	return g
}

// AddNode adds an isolated vertex. Adding an existing vertex is a no-op.
func (g *Graph) AddNode(v Variable) error {
	if v == "" {
		return ErrInvalidVariable
	}
	g.nodes.Add(v)
	return nil
}

// AddDirectedEdge adds from → to, adding either endpoint if needed.
// Duplicate edges are ignored.
func (g *Graph) AddDirectedEdge(from, to Variable) error {
	if from == "" || to == "" {
		return ErrInvalidVariable
	}
	if from == to {
		return ErrSelfLoop
	}
	g.nodes.Add(from)
	g.nodes.Add(to)
	link(g.children, from, to)
	link(g.parents, to, from)
	return nil
}

// AddUndirectedEdge adds a ↔ b, adding either endpoint if needed.
// Duplicate edges are ignored.
func (g *Graph) AddUndirectedEdge(a, b Variable) error {
	if a == "" || b == "" {
		return ErrInvalidVariable
	}
	if a == b {
		return ErrSelfLoop
	}
	g.nodes.Add(a)
	g.nodes.Add(b)
	link(g.undirected, a, b)
	link(g.undirected, b, a)
	return nil
}

// RemoveDirectedEdge deletes from → to if present. It is meant for building
// a graph, like the Add* methods.
func (g *Graph) RemoveDirectedEdge(from, to Variable) {
	delete(g.children[from], to)
	delete(g.parents[to], from)
}

func link(adj map[Variable]Set, from, to Variable) {
	s, ok := adj[from]
	if !ok {
		s = make(Set)
		adj[from] = s
	}
	s.Add(to)
}

// Nodes returns a copy of the vertex set.
func (g *Graph) Nodes() Set { return g.nodes.Clone() }

// Has reports whether v is a vertex of the graph.
func (g *Graph) Has(v Variable) bool { return g.nodes.Has(v) }

// NodeCount returns the number of vertices.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Parents returns the direct causes of v.
func (g *Graph) Parents(v Variable) Set { return g.parents[v].Clone() }

// Children returns the direct effects of v.
func (g *Graph) Children(v Variable) Set { return g.children[v].Clone() }

// Spouses returns the variables sharing a bidirected edge with v.
func (g *Graph) Spouses(v Variable) Set { return g.undirected[v].Clone() }

// HasDirectedEdge reports whether from → to is in the graph.
func (g *Graph) HasDirectedEdge(from, to Variable) bool { return g.children[from].Has(to) }

// HasUndirectedEdge reports whether a ↔ b is in the graph.
func (g *Graph) HasUndirectedEdge(a, b Variable) bool { return g.undirected[a].Has(b) }

// DirectedEdges returns every directed edge, sorted by (From, To).
func (g *Graph) DirectedEdges() []Edge {
	var edges []Edge
	for from, tos := range g.children {
		for to := range tos {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	sortEdges(edges)
	return edges
}

// UndirectedEdges returns every bidirected edge once, with From < To, sorted.
func (g *Graph) UndirectedEdges() []Edge {
	var edges []Edge
	for a, bs := range g.undirected {
		for b := range bs {
			if a < b {
				edges = append(edges, Edge{From: a, To: b})
			}
		}
	}
	sortEdges(edges)
	return edges
}

// DirectedEdgeCount returns the number of directed edges.
func (g *Graph) DirectedEdgeCount() int {
	n := 0
	for _, tos := range g.children {
		n += len(tos)
	}
	return n
}

// UndirectedEdgeCount returns the number of bidirected edges.
func (g *Graph) UndirectedEdgeCount() int {
	n := 0
	for _, bs := range g.undirected {
		n += len(bs)
	}
	return n / 2
}

func sortEdges(edges []Edge) {
	slices.SortFunc(edges, func(a, b Edge) int {
		if a.From != b.From {
			if a.From < b.From {
				return -1
			}
			return 1
		}
		if a.To < b.To {
			return -1
		}
		if a.To > b.To {
			return 1
		}
		return 0
	})
}

// Copy returns an independent copy of the graph.
func (g *Graph) Copy() *Graph {
	return g.Subgraph(g.nodes)
}

// Subgraph returns the subgraph induced by keep: the vertices of keep that
// are in g, and every edge of either kind with both endpoints among them.
func (g *Graph) Subgraph(keep Set) *Graph {
	out := New()
	for v := range g.nodes {
		if keep.Has(v) {
			out.nodes.Add(v)
		}
	}
	for from, tos := range g.children {
		if !out.nodes.Has(from) {
			continue
		}
		for to := range tos {
			if out.nodes.Has(to) {
				link(out.children, from, to)
				link(out.parents, to, from)
			}
		}
	}
	for a, bs := range g.undirected {
		if !out.nodes.Has(a) {
			continue
		}
		for b := range bs {
			if out.nodes.Has(b) {
				link(out.undirected, a, b)
			}
		}
	}
	return out
}

// RemoveNodes returns a new graph without the given vertices and their edges.
func (g *Graph) RemoveNodes(remove Set) *Graph {
	return g.Subgraph(g.nodes.Difference(remove))
}

// Intervene returns the mutilated graph G with every edge pointing into a
// member of interventions removed: directed edges whose head is intervened
// and bidirected edges touching an intervened vertex. Vertices are kept.
func (g *Graph) Intervene(interventions Set) *Graph {
	out := g.Copy()
	for v := range interventions {
		for p := range out.parents[v] {
			delete(out.children[p], v)
		}
		delete(out.parents, v)
		for s := range out.undirected[v] {
			delete(out.undirected[s], v)
		}
		delete(out.undirected, v)
	}
	return out
}

// Equal reports whether two graphs have the same vertices and edges.
func (g *Graph) Equal(o *Graph) bool {
	if !g.nodes.Equal(o.nodes) {
		return false
	}
	return slices.Equal(g.DirectedEdges(), o.DirectedEdges()) &&
		slices.Equal(g.UndirectedEdges(), o.UndirectedEdges())
}
