package ioscm

import "github.com/Aryan-Seth/y0/pkg/graph"

// VertexConsolidatedDistrict returns Cd(v): every vertex joined to v by a
// chain whose steps are bidirected edges or moves within a strongly
// connected component.
func VertexConsolidatedDistrict(g *graph.Graph, v graph.Variable) graph.Set {
	return ConvertStronglyConnectedComponents(g).District(v)
}

// ConsolidatedDistrict returns Cd(B), the union of the consolidated
// districts of the members of vertices.
func ConsolidatedDistrict(g *graph.Graph, vertices graph.Set) graph.Set {
	converted := ConvertStronglyConnectedComponents(g)
	out := make(graph.Set)
	for _, v := range vertices.Sorted() {
		if out.Has(v) {
			continue
		}
		out = out.Union(converted.District(v))
	}
	return out
}

// GraphConsolidatedDistricts partitions the vertices of g into consolidated
// districts. Each ordinary district lies inside exactly one of them.
func GraphConsolidatedDistricts(g *graph.Graph) []graph.Set {
	return ConvertStronglyConnectedComponents(g).Districts()
}
