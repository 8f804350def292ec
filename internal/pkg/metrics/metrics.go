package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChainFetchDuration observes how long a single chain's position fetch took.
	ChainFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "position_tracker_chain_fetch_duration_seconds",
		Help:    "Duration of per-chain position fetches.",
		Buckets: prometheus.DefBuckets,
	}, []string{"chain"})

	// ChainFetchErrors counts chain-scoped fetch failures.
	ChainFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "position_tracker_chain_fetch_errors_total",
		Help: "Total number of failed per-chain position fetches.",
	}, []string{"chain"})

	// PriceCacheHits counts price lookups served from the cache.
	PriceCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "position_tracker_price_cache_hits_total",
		Help: "Total number of price cache hits.",
	})

	// PriceCacheMisses counts price lookups that required a remote fetch.
	PriceCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "position_tracker_price_cache_misses_total",
		Help: "Total number of price cache misses.",
	})

	// PricingRequests counts remote pricing calls by outcome (success, error, skipped).
	PricingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "position_tracker_pricing_requests_total",
		Help: "Total number of remote pricing provider requests.",
	}, []string{"outcome"})
)
