// Package observability provides hooks for metrics and tracing.
//
// Engines and the pipeline runner emit events through small hook interfaces
// with no-op defaults. The application registers real implementations at
// startup; [PrometheusHooks] is the one shipped with y0.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    hooks := observability.NewPrometheusHooks(prometheus.DefaultRegisterer)
//	    observability.SetIdentifyHooks(hooks)
//	    observability.SetCacheHooks(hooks)
//	    observability.SetServerHooks(hooks)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Identify().OnIdentifyStart(ctx, "gz", g.NodeCount())
//	// ... run the engine ...
//	observability.Identify().OnIdentifyComplete(ctx, "gz", identifiable, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// IdentifyHooks receives events from identification runs.
type IdentifyHooks interface {
	OnIdentifyStart(ctx context.Context, algorithm string, nodeCount int)
	OnIdentifyComplete(ctx context.Context, algorithm string, identifiable bool, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnRequest records a handled request. Route is the chi route pattern,
	// not the raw path.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopIdentifyHooks is a no-op implementation of IdentifyHooks.
type NoopIdentifyHooks struct{}

func (NoopIdentifyHooks) OnIdentifyStart(context.Context, string, int) {}
func (NoopIdentifyHooks) OnIdentifyComplete(context.Context, string, bool, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

var (
	identifyHooks IdentifyHooks = NoopIdentifyHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	serverHooks   ServerHooks   = NoopServerHooks{}
	hooksMu       sync.RWMutex
)

// SetIdentifyHooks registers custom identification hooks. Nil is ignored.
func SetIdentifyHooks(h IdentifyHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		identifyHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers custom HTTP server hooks. Nil is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Identify returns the registered identification hooks.
func Identify() IdentifyHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return identifyHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered HTTP server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	identifyHooks = NoopIdentifyHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
