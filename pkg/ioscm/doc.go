// Package ioscm provides the strongly-connected-component analysis used for
// identification in input-output structural causal models, whose graphs may
// contain directed cycles.
//
// # Consolidated Districts
//
// A consolidated district extends a district across strongly connected
// components: two vertices are in the same consolidated district when a chain
// of bidirected edges and same-component moves joins them.
// [ConvertStronglyConnectedComponents] turns every directed edge inside a
// component into a bidirected one, after which ordinary districts of the
// converted graph are the consolidated districts of the original.
//
// # Apt-Orders
//
// An assembling pseudo-topological order (apt-order) generalizes a
// topological order to cyclic graphs. [AptOrder] builds one by contracting
// each component to a representative ([SimplifyStronglyConnectedComponents]),
// sorting the contracted acyclic graph, and expanding representatives back
// into their components. [IsAptOrder] checks a candidate order.
//
//	order, err := ioscm.AptOrder(g)
//	if err := ioscm.IsAptOrder(order, g); err != nil { ... }
package ioscm
