// Package metrics exposes the server's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eolo-server/internal/utils"
)

type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	providerDuration  *prometheus.HistogramVec
	providerErrors    *prometheus.CounterVec
	lookups           *prometheus.CounterVec
	publishErrors     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_cache_hits_total",
			Help: "Provider response cache hits by cache.",
		}, []string{"cache"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_cache_misses_total",
			Help: "Provider response cache misses by cache.",
		}, []string{"cache"}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weather_provider_request_duration_seconds",
			Help:    "Histogram of upstream weather provider request durations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_provider_errors_total",
			Help: "Upstream weather provider failures.",
		}, []string{"provider"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_lookups_total",
			Help: "Completed lookups by country and condition.",
		}, []string{"country", "condition"}),
		publishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weather_report_publish_errors_total",
			Help: "Reports that could not be published to the broker.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.cacheHits,
		m.cacheMisses,
		m.providerDuration,
		m.providerErrors,
		m.lookups,
		m.publishErrors,
	)
	return m
}

// Middleware records request count and latency. Routes are labelled by the
// matched ServeMux pattern so path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := utils.NewStatusRecorder(w)
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m == nil {
			return
		}
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CacheObserver reports hits and misses for the named cache.
func (m *Metrics) CacheObserver(name string) *CacheObserver {
	return &CacheObserver{m: m, name: name}
}

type CacheObserver struct {
	m    *Metrics
	name string
}

func (o *CacheObserver) CacheHit() {
	if o == nil || o.m == nil {
		return
	}
	o.m.cacheHits.WithLabelValues(o.name).Inc()
}

func (o *CacheObserver) CacheMiss() {
	if o == nil || o.m == nil {
		return
	}
	o.m.cacheMisses.WithLabelValues(o.name).Inc()
}

func (m *Metrics) ProviderRequest(provider string, duration time.Duration, success bool) {
	if m == nil {
		return
	}
	m.providerDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if !success {
		m.providerErrors.WithLabelValues(provider).Inc()
	}
}

func (m *Metrics) Lookup(country, condition string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(country, condition).Inc()
}

func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.publishErrors.Inc()
}
