package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusHooks implements every hook interface by updating Prometheus
// collectors.
type PrometheusHooks struct {
	identifyTotal    *prometheus.CounterVec
	identifyDuration *prometheus.HistogramVec
	identifyInFlight prometheus.Gauge
	graphSize        prometheus.Histogram
	cacheOps         *prometheus.CounterVec
	cacheBytes       prometheus.Counter
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// NewPrometheusHooks creates the collectors and registers them with reg.
// It panics if a collector with the same name is already registered, like
// prometheus.MustRegister.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		identifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "y0_identify_total",
			Help: "Identification runs by algorithm and outcome",
		}, []string{"algorithm", "outcome"}),
		identifyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "y0_identify_duration_seconds",
			Help:    "Time spent in the identification engines",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"algorithm"}),
		identifyInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "y0_identify_in_flight",
			Help: "Identification runs currently executing",
		}),
		graphSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "y0_identify_graph_vertices",
			Help:    "Number of vertices in identified graphs",
			Buckets: []float64{2, 4, 8, 16, 32, 64, 128},
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "y0_cache_operations_total",
			Help: "Cache lookups and writes by key type and result",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "y0_cache_written_bytes_total",
			Help: "Bytes written to the result cache",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "y0_http_requests_total",
			Help: "HTTP API requests by route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "y0_http_request_duration_seconds",
			Help:    "HTTP API latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		h.identifyTotal, h.identifyDuration, h.identifyInFlight, h.graphSize,
		h.cacheOps, h.cacheBytes, h.requests, h.requestDuration,
	)
	return h
}

// OnIdentifyStart implements IdentifyHooks.
func (h *PrometheusHooks) OnIdentifyStart(_ context.Context, _ string, nodeCount int) {
	h.identifyInFlight.Inc()
	h.graphSize.Observe(float64(nodeCount))
}

// OnIdentifyComplete implements IdentifyHooks.
func (h *PrometheusHooks) OnIdentifyComplete(_ context.Context, algorithm string, identifiable bool, duration time.Duration, err error) {
	h.identifyInFlight.Dec()
	outcome := "unidentifiable"
	switch {
	case err != nil:
		outcome = "error"
	case identifiable:
		outcome = "identifiable"
	}
	h.identifyTotal.WithLabelValues(algorithm, outcome).Inc()
	h.identifyDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// OnCacheHit implements CacheHooks.
func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements CacheHooks.
func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements CacheHooks.
func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.Add(float64(size))
}

// OnRequest implements ServerHooks.
func (h *PrometheusHooks) OnRequest(_ context.Context, method, route string, status int, duration time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

var (
	_ IdentifyHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ ServerHooks   = (*PrometheusHooks)(nil)
)
