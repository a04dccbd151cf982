package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Aryan-Seth/y0/pkg/cache"
	"github.com/Aryan-Seth/y0/pkg/dsl"
	y0errors "github.com/Aryan-Seth/y0/pkg/errors"
	"github.com/Aryan-Seth/y0/pkg/graph"
	"github.com/Aryan-Seth/y0/pkg/identify"
	"github.com/Aryan-Seth/y0/pkg/observability"
)

// Runner executes requests with caching. It holds no per-request state, so
// one Runner may serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// MaxDepth overrides the engines' recursion ceiling when positive.
	MaxDepth int
	// Parallel solves district sub-problems concurrently.
	Parallel bool
	// TTL overrides the cache entry lifetime when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Identify runs req through the selected algorithm, consulting the cache
// first unless req.Refresh is set. Errors are classified with [Classify].
func (r *Runner) Identify(ctx context.Context, req Request) (*Result, error) {
	if req.Graph == nil {
		return nil, y0errors.New(y0errors.ErrCodeInvalidQuery, "no graph")
	}
	if req.Algorithm == "" {
		req.Algorithm = AlgorithmID
	}
	if err := y0errors.ValidateAlgorithm(req.Algorithm); err != nil {
		return nil, err
	}

	hash, err := GraphHash(req.Graph)
	if err != nil {
		return nil, Classify(fmt.Errorf("hash graph: %w", err))
	}
	key := r.Keyer.IdentifyKey(hash, req.keyOpts())

	if !req.Refresh {
		if expr, ok := r.lookup(ctx, key); ok {
			r.Logger.Debug("identification cache hit", "algorithm", req.Algorithm, "key", key)
			return &Result{
				Algorithm:    req.Algorithm,
				Expression:   expr,
				Identifiable: !dsl.IsUnidentifiable(expr),
				GraphHash:    hash,
				Cached:       true,
			}, nil
		}
	}

	hooks := observability.Identify()
	hooks.OnIdentifyStart(ctx, req.Algorithm, req.Graph.NodeCount())
	start := time.Now()
	expr, err := r.run(ctx, req)
	duration := time.Since(start)
	hooks.OnIdentifyComplete(ctx, req.Algorithm, err == nil && !dsl.IsUnidentifiable(expr), duration, err)
	if err != nil {
		return nil, Classify(err)
	}

	res := &Result{
		Algorithm:    req.Algorithm,
		Expression:   expr,
		Identifiable: !dsl.IsUnidentifiable(expr),
		GraphHash:    hash,
		Duration:     duration,
	}
	r.Logger.Info("identified",
		"algorithm", req.Algorithm,
		"outcomes", req.Outcomes,
		"treatments", req.Treatments,
		"identifiable", res.Identifiable,
		"duration", duration)

	if data, err := dsl.Marshal(expr); err == nil {
		r.store(ctx, key, cache.KeyTypeIdentify, data, cache.TTLIdentify)
	}
	return res, nil
}

func (r *Runner) run(ctx context.Context, req Request) (dsl.Expression, error) {
	opts := []identify.Option{
		identify.WithLogger(r.Logger),
		identify.WithMaxDepth(r.MaxDepth),
		identify.WithParallel(r.Parallel),
	}
	switch req.Algorithm {
	case AlgorithmGZ:
		q, err := identify.NewZIdentification(req.Graph, req.Outcomes, req.Treatments, req.I, req.J, req.Z, nil)
		if err != nil {
			return nil, err
		}
		return identify.GZIdentify(ctx, q, opts...)
	case AlgorithmZ2:
		q, err := identify.NewZ2Identification(req.Graph, req.Outcomes, req.Treatments, req.Domains)
		if err != nil {
			return nil, err
		}
		return identify.Z2ID(ctx, q, opts...)
	default:
		q, err := identify.NewIdentification(req.Graph, req.Outcomes, req.Treatments, nil)
		if err != nil {
			return nil, err
		}
		return identify.Identify(ctx, q, opts...)
	}
}

// Analyze returns the structural analysis of g, cached by graph hash.
func (r *Runner) Analyze(ctx context.Context, g *graph.Graph) (*Analysis, error) {
	hash, err := GraphHash(g)
	if err != nil {
		return nil, Classify(fmt.Errorf("hash graph: %w", err))
	}
	key := r.Keyer.AnalysisKey(hash, "structure")

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		if a, err := unmarshalAnalysis(data); err == nil {
			observability.Cache().OnCacheHit(ctx, cache.KeyTypeAnalysis)
			a.GraphHash, a.Cached = hash, true
			return a, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, cache.KeyTypeAnalysis)

	a, err := Analyze(g)
	if err != nil {
		return nil, Classify(err)
	}
	a.GraphHash = hash
	r.Logger.Debug("analyzed graph",
		"nodes", g.NodeCount(),
		"districts", len(a.Districts),
		"components", len(a.Components))

	if data, err := a.marshal(); err == nil {
		r.store(ctx, key, cache.KeyTypeAnalysis, data, cache.TTLAnalysis)
	}
	return a, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (dsl.Expression, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeIdentify)
		return nil, false
	}
	expr, err := dsl.Unmarshal(data)
	if err != nil {
		r.Logger.Warn("discarding corrupt cache entry", "key", key, "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeIdentify)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cache.KeyTypeIdentify)
	return expr, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
