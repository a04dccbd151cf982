// Package identify implements causal effect identification over mixed
// graphs.
//
// Three engines share one recursive, guarded-branch style: each numbered
// line of an algorithm is a branch, branches are tried in order and the
// first whose condition holds decides the step.
//
//   - [Identify]: the ID algorithm of Shpitser and Pearl for
//     P(Y | do(X)) from observational data.
//   - [GZIdentify]: identification under z-transportability, with
//     auxiliary intervention sets I and J and selection nodes Z.
//   - [Z2ID] and [SubZ2]: identification from several source domains, each
//     with its own set of experimentally controlled variables.
//
// # Queries
//
// Queries are plain records ([Identification], [ZIdentification],
// [Z2Identification]) built with validating constructors. Engines never
// modify a record; every recursive step builds a new one over a new graph.
//
//	q, err := identify.NewIdentification(g, graph.SetOf("Y"), graph.SetOf("X"), nil)
//	expr, err := identify.Identify(ctx, q)
//
// # Results
//
// An engine returns a [dsl.Expression]. A query without a closed form
// yields [dsl.Unidentifiable], which is a result, not an error. Errors are:
//
//   - [ErrInvalidQuery]: malformed query or cyclic graph
//   - [ErrRecursionLimit]: the ceiling set by [WithMaxDepth] was reached
//   - [ErrPrecondition]: a line ran without its guard, which is a bug
//   - the context's error on cancellation
//
// # Concurrency
//
// With [WithParallel], sub-problems produced by a district decomposition run
// on separate goroutines through an errgroup. Results are combined in
// district order, so parallel and sequential runs return identical
// expressions.
package identify
