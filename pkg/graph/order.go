package graph

import (
	"container/heap"
	"fmt"
)

// TopologicalSort returns the vertices ordered so that every directed edge
// points forward. Bidirected edges do not constrain the order.
//
// TopologicalSort uses Kahn's algorithm with a min-heap of ready vertices, so
// among vertices that are simultaneously available the lexicographically
// smallest comes first. The order is therefore fully determined by the graph.
//
// Returns ErrCycle, wrapped with the number of vertices left unordered, if the
// directed edges contain a cycle.
//
// Time complexity is O((V + E) log V).
func (g *Graph) TopologicalSort() ([]Variable, error) {
	inDegree := make(map[Variable]int, len(g.nodes))
	ready := &variableHeap{}
	for v := range g.nodes {
		inDegree[v] = len(g.parents[v])
		if inDegree[v] == 0 {
			*ready = append(*ready, v)
		}
	}
	heap.Init(ready)

	order := make([]Variable, 0, len(g.nodes))
	for ready.Len() > 0 {
		curr := heap.Pop(ready).(Variable)
		order = append(order, curr)
		for child := range g.children[curr] {
			inDegree[child]--
			if inDegree[child] == 0 {
				heap.Push(ready, child)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, fmt.Errorf("%w: %d vertices unordered", ErrCycle, len(g.nodes)-len(order))
	}
	return order, nil
}

// IsAcyclic reports whether the directed part of the graph has no cycles.
func (g *Graph) IsAcyclic() bool {
	_, err := g.TopologicalSort()
	return err == nil
}

// Without returns order with the members of remove filtered out, keeping the
// relative order of the rest.
func Without(order []Variable, remove Set) []Variable {
	out := make([]Variable, 0, len(order))
	for _, v := range order {
		if !remove.Has(v) {
			out = append(out, v)
		}
	}
	return out
}

type variableHeap []Variable

func (h variableHeap) Len() int           { return len(h) }
func (h variableHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h variableHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *variableHeap) Push(x any)        { *h = append(*h, x.(Variable)) }
func (h *variableHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
