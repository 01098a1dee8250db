// Package prom implements the observability hooks with Prometheus metrics.
//
// Every constructor registers its collectors on the given registerer and
// panics if a collector with the same name is already registered, the way
// [prometheus.MustRegister] does. Pass a fresh [prometheus.NewRegistry] in
// tests.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/statewalk/pkg/observability"
)

const namespace = "statewalk"

// SearchHooks records searches and enumerations.
type SearchHooks struct {
	started   *prometheus.CounterVec
	completed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	explored  *prometheus.CounterVec
	pruned    *prometheus.CounterVec
	improved  *prometheus.CounterVec
	best      *prometheus.GaugeVec
}

// NewSearchHooks registers the search metrics on reg.
func NewSearchHooks(reg prometheus.Registerer) *SearchHooks {
	h := &SearchHooks{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Searches started, by algorithm.",
		}, []string{"algorithm"}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches finished, by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall time of finished searches.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"algorithm"}),
		explored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_states_explored_total",
			Help:      "States entered by finished searches.",
		}, []string{"algorithm"}),
		pruned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_states_pruned_total",
			Help:      "Subtrees cut by finished searches.",
		}, []string{"algorithm"}),
		improved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_improvements_total",
			Help:      "New best objectives found.",
		}, []string{"algorithm"}),
		best: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "search_best_objective",
			Help:      "Best objective of the most recent search.",
		}, []string{"algorithm"}),
	}
	reg.MustRegister(h.started, h.completed, h.duration, h.explored, h.pruned, h.improved, h.best)
	return h
}

func (h *SearchHooks) OnSearchStart(_ context.Context, algorithm string, _ int) {
	h.started.WithLabelValues(algorithm).Inc()
}

func (h *SearchHooks) OnSearchImprove(_ context.Context, algorithm string, best int) {
	h.improved.WithLabelValues(algorithm).Inc()
	h.best.WithLabelValues(algorithm).Set(float64(best))
}

func (h *SearchHooks) OnSearchComplete(_ context.Context, algorithm string, stats observability.SearchStats, d time.Duration, err error) {
	h.completed.WithLabelValues(algorithm, outcome(stats, err)).Inc()
	h.duration.WithLabelValues(algorithm).Observe(d.Seconds())
	h.explored.WithLabelValues(algorithm).Add(float64(stats.Explored))
	h.pruned.WithLabelValues(algorithm).Add(float64(stats.Pruned))
	if stats.Best >= 0 {
		h.best.WithLabelValues(algorithm).Set(float64(stats.Best))
	}
}

func outcome(stats observability.SearchStats, err error) string {
	switch {
	case err != nil:
		return "error"
	case stats.Complete:
		return "complete"
	default:
		return "partial"
	}
}

// CacheHooks records cache lookups and writes.
type CacheHooks struct {
	lookups *prometheus.CounterVec
	written *prometheus.CounterVec
	bytes   *prometheus.CounterVec
}

// NewCacheHooks registers the cache metrics on reg.
func NewCacheHooks(reg prometheus.Registerer) *CacheHooks {
	h := &CacheHooks{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups, by key type and result.",
		}, []string{"key_type", "result"}),
		written: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_writes_total",
			Help:      "Cache writes, by key type.",
		}, []string{"key_type"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache, by key type.",
		}, []string{"key_type"}),
	}
	reg.MustRegister(h.lookups, h.written, h.bytes)
	return h
}

func (h *CacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.lookups.WithLabelValues(keyType, "hit").Inc()
}

func (h *CacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.lookups.WithLabelValues(keyType, "miss").Inc()
}

func (h *CacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.written.WithLabelValues(keyType).Inc()
	h.bytes.WithLabelValues(keyType).Add(float64(size))
}

// ServerHooks records HTTP requests.
type ServerHooks struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewServerHooks registers the HTTP metrics on reg.
func NewServerHooks(reg prometheus.Registerer) *ServerHooks {
	h := &ServerHooks{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(h.requests, h.duration)
	return h
}

func (h *ServerHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Register installs Prometheus hooks for every event category on reg and
// in the global observability registry.
func Register(reg prometheus.Registerer) {
	observability.SetSearchHooks(NewSearchHooks(reg))
	observability.SetCacheHooks(NewCacheHooks(reg))
	observability.SetServerHooks(NewServerHooks(reg))
}

var (
	_ observability.SearchHooks = (*SearchHooks)(nil)
	_ observability.CacheHooks  = (*CacheHooks)(nil)
	_ observability.ServerHooks = (*ServerHooks)(nil)
)
