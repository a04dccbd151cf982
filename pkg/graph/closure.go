package graph

// AncestorsInclusive returns the members of vs that are in the graph together
// with every vertex that has a directed path into one of them.
func (g *Graph) AncestorsInclusive(vs Set) Set {
	return g.reach(vs, g.parents)
}

// DescendantsInclusive returns the members of vs that are in the graph
// together with every vertex reachable from one of them by a directed path.
func (g *Graph) DescendantsInclusive(vs Set) Set {
	return g.reach(vs, g.children)
}

// IntervenedAncestors returns the ancestors (inclusive) of outcomes in the
// graph mutilated by interventions, i.e. An(outcomes) in G with all edges
// into the intervened vertices removed.
func (g *Graph) IntervenedAncestors(interventions, outcomes Set) Set {
	return g.Intervene(interventions).AncestorsInclusive(outcomes)
}

func (g *Graph) reach(start Set, adj map[Variable]Set) Set {
	seen := make(Set, len(start))
	stack := make([]Variable, 0, len(start))
	for v := range start {
		if g.nodes.Has(v) && !seen.Has(v) {
			seen.Add(v)
			stack = append(stack, v)
		}
	}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for next := range adj[v] {
			if !seen.Has(next) {
				seen.Add(next)
				stack = append(stack, next)
			}
		}
	}
	return seen
}

// District returns the district (c-component) containing v: every vertex
// joined to v by a chain of bidirected edges, v included. It returns an
// empty set when v is not in the graph.
func (g *Graph) District(v Variable) Set {
	if !g.nodes.Has(v) {
		return make(Set)
	}
	return g.reach(NewSet(v), g.undirected)
}

// Districts partitions the vertex set into districts. Isolated vertices and
// vertices without bidirected edges form singleton districts. The result is
// ordered by [SortSets] so that callers iterating it are deterministic.
//
// Districts are recomputed on every call; they depend on the exact vertex and
// edge sets of this graph and are never shared across transformations.
func (g *Graph) Districts() []Set {
	seen := make(Set, len(g.nodes))
	var out []Set
	for _, v := range g.nodes.Sorted() {
		if seen.Has(v) {
			continue
		}
		d := g.District(v)
		for w := range d {
			seen.Add(w)
		}
		out = append(out, d)
	}
	return SortSets(out)
}

// IsSingleDistrict reports whether the whole graph forms one district.
// An empty graph has no districts and is not a single district.
func (g *Graph) IsSingleDistrict() bool {
	if len(g.nodes) == 0 {
		return false
	}
	for v := range g.nodes {
		return g.District(v).Len() == len(g.nodes)
	}
	return false
}

// ContainsDistrict reports whether d is exactly one of g's districts.
func (g *Graph) ContainsDistrict(d Set) bool {
	for v := range d {
		return g.District(v).Equal(d)
	}
	return false
}
