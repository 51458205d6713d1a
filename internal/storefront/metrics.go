package storefront

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_sessions_active",
			Help: "Number of live storefront sessions",
		},
	)

	sessionsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_sessions_evicted_total",
			Help: "Storefront sessions closed after being idle",
		},
	)
)
