package usecase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the aggregation layer.
type Metrics struct {
	Registry        *prometheus.Registry
	PartnerRequests *prometheus.CounterVec
	PartnerDuration prometheus.Histogram
	CacheHitsTotal  prometheus.Counter
	CacheMissTotal  prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	partnerRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoplens_partner_requests_total",
			Help: "Total partner storefront fetches by store and outcome.",
		},
		[]string{"store", "outcome"},
	)
	partnerDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shoplens_partner_request_duration_seconds",
			Help:    "Latency of partner storefront fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shoplens_cache_hits_total",
			Help: "Recommendation cache hits.",
		},
	)
	cacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shoplens_cache_misses_total",
			Help: "Recommendation cache misses.",
		},
	)

	registry.MustRegister(partnerRequests, partnerDuration, cacheHits, cacheMisses)

	return &Metrics{
		Registry:        registry,
		PartnerRequests: partnerRequests,
		PartnerDuration: partnerDuration,
		CacheHitsTotal:  cacheHits,
		CacheMissTotal:  cacheMisses,
	}
}

// IncPartnerRequest records one partner fetch outcome.
func (m *Metrics) IncPartnerRequest(store, outcome string) {
	if m == nil {
		return
	}
	m.PartnerRequests.WithLabelValues(store, outcome).Inc()
}

// ObservePartnerDuration records the latency of one partner fetch.
func (m *Metrics) ObservePartnerDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.PartnerDuration.Observe(d.Seconds())
}

// IncCacheHit increments the cache hit counter.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// IncCacheMiss increments the cache miss counter.
func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMissTotal.Inc()
}
