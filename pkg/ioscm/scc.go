package ioscm

import "github.com/Aryan-Seth/y0/pkg/graph"

// StronglyConnectedComponent returns Sc(v) = An(v) ∩ De(v): the vertices
// mutually reachable with v over directed edges, v included. It is empty
// when v is not in g.
func StronglyConnectedComponent(g *graph.Graph, v graph.Variable) graph.Set {
	self := graph.NewSet(v)
	return g.AncestorsInclusive(self).Intersect(g.DescendantsInclusive(self))
}

// StronglyConnectedComponents partitions the vertices of g by mutual directed
// reachability. Every vertex belongs to exactly one component; vertices on
// no directed cycle form singletons. Bidirected edges are ignored.
//
// The result is sorted with [graph.SortSets].
func StronglyConnectedComponents(g *graph.Graph) []graph.Set {
	// Kosaraju: a postorder pass over children, then components collected
	// over parents in reverse postorder.
	postorder := make([]graph.Variable, 0, g.NodeCount())
	seen := make(graph.Set)
	var visit func(v graph.Variable)
	visit = func(v graph.Variable) {
		if seen.Has(v) {
			return
		}
		seen.Add(v)
		for _, c := range g.Children(v).Sorted() {
			visit(c)
		}
		postorder = append(postorder, v)
	}
	for _, v := range g.Nodes().Sorted() {
		visit(v)
	}

	var components []graph.Set
	seen = make(graph.Set)
	var collect func(v graph.Variable, into graph.Set)
	collect = func(v graph.Variable, into graph.Set) {
		if seen.Has(v) {
			return
		}
		seen.Add(v)
		into.Add(v)
		for p := range g.Parents(v) {
			collect(p, into)
		}
	}
	for i := len(postorder) - 1; i >= 0; i-- {
		if v := postorder[i]; !seen.Has(v) {
			component := make(graph.Set)
			collect(v, component)
			components = append(components, component)
		}
	}
	return graph.SortSets(components)
}

// componentIndex maps every vertex to its strongly connected component.
func componentIndex(components []graph.Set) map[graph.Variable]graph.Set {
	index := make(map[graph.Variable]graph.Set)
	for _, c := range components {
		for v := range c {
			index[v] = c
		}
	}
	return index
}

// ConvertStronglyConnectedComponents returns a copy of g in which every
// directed edge whose endpoints share a strongly connected component is
// replaced by a bidirected edge. Directed edges between components and all
// bidirected edges are kept.
func ConvertStronglyConnectedComponents(g *graph.Graph) *graph.Graph {
	index := componentIndex(StronglyConnectedComponents(g))
	// Every vertex and edge comes from g, so the adds below cannot fail.
	out := graph.New()
	for _, v := range g.Nodes().Sorted() {
		_ = out.AddNode(v)
	}
	for _, e := range g.DirectedEdges() {
		if index[e.From].Has(e.To) {
			_ = out.AddUndirectedEdge(e.From, e.To)
		} else {
			_ = out.AddDirectedEdge(e.From, e.To)
		}
	}
	for _, e := range g.UndirectedEdges() {
		_ = out.AddUndirectedEdge(e.From, e.To)
	}
	return out
}
