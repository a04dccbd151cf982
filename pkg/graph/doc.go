// Package graph provides the mixed causal graph used by the identification
// engines: a directed edge relation for causal influence and a bidirected
// relation for latent confounding over one shared vertex set.
//
// # Overview
//
// Causal identification works over acyclic directed mixed graphs (ADMGs).
// A directed edge X → Y says X is a direct cause of Y. A bidirected edge
// X ↔ Y says X and Y share an unobserved common cause. The graph stores the
// bidirected relation as a symmetric adjacency and exposes it as "undirected"
// edges, reported with From < To.
//
// # Basic Usage
//
// Build a graph from edge lists with [FromEdges], or incrementally with [New]
// and [Graph.AddDirectedEdge] / [Graph.AddUndirectedEdge]:
//
//	g, err := graph.FromEdges(
//	    []graph.Edge{graph.E("A", "Y")},
//	    []graph.Edge{graph.E("A", "Y")},
//	)
//
// Variables are plain names ([Variable]); sets of variables use the [Set]
// type, whose algebra (Union, Intersect, Difference) never mutates its
// operands.
//
// # Derived Graphs
//
// [Graph.Subgraph], [Graph.RemoveNodes], [Graph.Intervene] and [Graph.Copy]
// return new graphs. Engines rely on this: a graph handed to a recursive call
// is never aliased with one the caller keeps modifying.
//
// # Structural Queries
//
//   - [Graph.Districts]: the partition of vertices into c-components
//   - [Graph.AncestorsInclusive], [Graph.DescendantsInclusive]: closures
//   - [Graph.IntervenedAncestors]: ancestors in the mutilated graph
//   - [Graph.TopologicalSort]: Kahn's algorithm with a lexicographic
//     tie-break, so the order is reproducible across runs
//
// Every query that returns a collection of sets sorts it with [SortSets].
//
// # Concurrency
//
// Graph instances are not safe for concurrent modification. Once built, a
// graph is only read, and concurrent reads are safe.
package graph
