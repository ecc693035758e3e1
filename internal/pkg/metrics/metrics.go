package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	DecimalsCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "decimals_cache_lookups_total",
		Help:      "Decimals cache lookups by result (hit, miss).",
	}, []string{"result"})

	RemoteCallFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "remote_call_failures_total",
		Help:      "Failed contract reads and price requests by chain and method.",
	}, []string{"chain", "method"})

	PriceRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portfolio",
		Name:      "price_request_duration_seconds",
		Help:      "Latency of upstream price requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	ResolvedHoldings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "resolved_holdings_total",
		Help:      "Resolved holdings by outcome (ok, failed).",
	}, []string{"outcome"})
)

var registerOnce sync.Once

// MustRegisterMetrics registers the collectors with the default registry.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(DecimalsCacheLookups, RemoteCallFailures, PriceRequestDuration, ResolvedHoldings)
	})
}
