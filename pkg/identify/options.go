package identify

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/Aryan-Seth/y0/pkg/dsl"
	"github.com/Aryan-Seth/y0/pkg/graph"
)

// Option configures an engine run.
type Option func(*options)

type options struct {
	logger   *log.Logger
	maxDepth int
	parallel bool
}

// WithLogger traces every algorithm line taken at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxDepth sets the recursion ceiling. Exceeding it aborts the run with
// ErrRecursionLimit. Values below 1 select the default of 4|V|+16, which the
// algorithms never reach on acyclic graphs.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithParallel solves the sub-problems of a district decomposition
// concurrently. Results are combined in district order, so the output does
// not depend on scheduling.
func WithParallel(enabled bool) Option {
	return func(o *options) { o.parallel = enabled }
}

// DefaultMaxDepth returns the recursion ceiling used for a graph with n
// vertices when [WithMaxDepth] is not given.
func DefaultMaxDepth(n int) int { return 4*n + 16 }

type engine struct {
	logger   *log.Logger
	limit    int
	parallel bool
}

func newEngine(g *graph.Graph, opts []Option) *engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if o.maxDepth < 1 {
		o.maxDepth = DefaultMaxDepth(g.NodeCount())
	}
	return &engine{logger: o.logger, limit: o.maxDepth, parallel: o.parallel}
}

func (e *engine) enter(ctx context.Context, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth > e.limit {
		return fmt.Errorf("%w: depth %d exceeds %d", ErrRecursionLimit, depth, e.limit)
	}
	return nil
}

func (e *engine) trace(algorithm string, line, depth int, keyvals ...any) {
	e.logger.Debug("identify", append([]any{"algorithm", algorithm, "line", line, "depth", depth}, keyvals...)...)
}

// solveAll runs solve on every sub-problem and returns the results in input
// order. Sequential runs stop at the first Unidentifiable result, which is
// the one ProductSafe would keep anyway.
func solveAll[Q any](ctx context.Context, e *engine, subs []Q, solve func(context.Context, Q) (dsl.Expression, error)) ([]dsl.Expression, error) {
	results := make([]dsl.Expression, len(subs))
	if !e.parallel || len(subs) < 2 {
		for i, q := range subs {
			r, err := solve(ctx, q)
			if err != nil {
				return nil, err
			}
			results[i] = r
			if dsl.IsUnidentifiable(r) {
				return results[:i+1], nil
			}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range subs {
		g.Go(func() error {
			r, err := solve(gctx, q)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func requireAcyclic(g *graph.Graph) error {
	if g == nil {
		return fmt.Errorf("%w: nil graph", ErrInvalidQuery)
	}
	if _, err := g.TopologicalSort(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	return nil
}

// TrimToAncestors restricts g to the ancestors (inclusive) of outcomes and
// intersects each of sets with them. It returns the trimmed graph, the
// trimmed sets in input order, and the removed vertices. Trimming an
// already trimmed query changes nothing.
func TrimToAncestors(g *graph.Graph, outcomes graph.Set, sets ...graph.Set) (*graph.Graph, []graph.Set, graph.Set) {
	ancestors := g.AncestorsInclusive(outcomes)
	trimmed := make([]graph.Set, len(sets))
	for i, s := range sets {
		trimmed[i] = s.Intersect(ancestors)
	}
	return g.Subgraph(ancestors), trimmed, g.Nodes().Difference(ancestors)
}

// singleDistrict returns the only district of g, or ErrPrecondition when g
// does not have exactly one.
func singleDistrict(g *graph.Graph) (graph.Set, error) {
	districts := g.Districts()
	if len(districts) != 1 {
		return nil, fmt.Errorf("%w: expected a single district, got %d", ErrPrecondition, len(districts))
	}
	return districts[0], nil
}

// containingDistrict returns the district of g that strictly contains s.
func containingDistrict(g *graph.Graph, s graph.Set) (graph.Set, error) {
	for _, d := range g.Districts() {
		if s.IsStrictSubset(d) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: no district strictly contains %v", ErrPrecondition, s)
}
