package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectMetric returns the first metric of c whose labels include labels.
func collectMetric(t *testing.T, c prometheus.Collector, labels map[string]string) *dto.Metric {
	if t != nil {
		t.Helper()
	}
	ch := make(chan prometheus.Metric, 100)
	c.Collect(ch)
	close(ch)

	for m := range ch {
		d := &dto.Metric{}
		if err := m.Write(d); err != nil {
			continue
		}

		match := true
		for k, v := range labels {
			found := false
			for _, lp := range d.GetLabel() {
				if lp.GetName() == k && lp.GetValue() == v {
					found = true
					break
				}
			}
			if !found {
				match = false
				break
			}
		}
		if match {
			return d
		}
	}
	return nil
}

func TestPrometheusMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("metrics-route"))
	r.Delete("/api/v1/cart/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	m := collectMetric(t, httpRequestsTotal, map[string]string{
		"service": "metrics-route",
		"method":  "DELETE",
		"path":    "/api/v1/cart/items/{id}",
		"status":  "404",
	})
	require.NotNil(t, m)
	assert.Equal(t, float64(3), m.GetCounter().GetValue())

	h := collectMetric(t, httpRequestDuration, map[string]string{"service": "metrics-route"})
	require.NotNil(t, h)
	assert.Equal(t, uint64(3), h.GetHistogram().GetSampleCount())
}

func TestPrometheusMetrics_InFlightGauge(t *testing.T) {
	inFlightSeen := float64(-1)

	r := chi.NewRouter()
	r.Use(PrometheusMetrics("metrics-inflight"))
	r.Get("/api/v1/catalog", func(w http.ResponseWriter, r *http.Request) {
		if m := collectMetric(nil, httpRequestsInFlight, map[string]string{"service": "metrics-inflight"}); m != nil {
			inFlightSeen = m.GetGauge().GetValue()
		}
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))

	assert.Equal(t, float64(1), inFlightSeen)
	m := collectMetric(t, httpRequestsInFlight, map[string]string{"service": "metrics-inflight"})
	require.NotNil(t, m)
	assert.Equal(t, float64(0), m.GetGauge().GetValue())
}

func TestPrometheusMetrics_DefaultStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("metrics-default"))
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	require.NotNil(t, collectMetric(t, httpRequestsTotal, map[string]string{
		"service": "metrics-default",
		"status":  "200",
	}))
}
