package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes.
const (
	outcomeApplied = "applied"
	outcomeStale   = "stale"
	outcomeFailed  = "failed"
)

var (
	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_catalog_fetches_total",
			Help: "Catalog page fetches by outcome",
		},
		[]string{"outcome"},
	)

	fetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_catalog_fetch_duration_seconds",
			Help:    "Duration of catalog page fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	carouselTimers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_carousel_timers_active",
			Help: "Number of running carousel timers",
		},
	)
)
