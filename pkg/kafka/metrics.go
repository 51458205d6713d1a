package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Publish results recorded by the producer.
const (
	resultOK    = "ok"
	resultError = "error"
)

var (
	publishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_signals_published_total",
			Help: "Signals written to Kafka, by topic and result.",
		},
		[]string{"topic", "result"},
	)

	publishSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_signal_publish_seconds",
			Help:    "Time spent writing one signal to Kafka.",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"topic"},
	)
)

func observePublish(topic string, seconds float64, err error) {
	publishSeconds.WithLabelValues(topic).Observe(seconds)
	result := resultOK
	if err != nil {
		result = resultError
	}
	publishTotal.WithLabelValues(topic, result).Inc()
}
