package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ready(t *testing.T, h *Handler) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func up(context.Context) error { return nil }

func TestLivenessHandler(t *testing.T) {
	h := NewHandler()
	h.Register("storefront-api", func(context.Context) error { return fmt.Errorf("down") })

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestReadinessHandler_AllUp(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("storefront-api", up)
	h.RegisterNonCritical("redis", up)
	h.RegisterNonCritical("kafka", up)

	code, resp := ready(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Len(t, resp.Checks, 3)
}

func TestReadinessHandler_NonCriticalDown_Degraded(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("storefront-api", up)
	h.RegisterNonCritical("kafka", func(context.Context) error { return fmt.Errorf("broker unreachable") })

	code, resp := ready(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.False(t, resp.Checks["kafka"].Critical)
	assert.Equal(t, "broker unreachable", resp.Checks["kafka"].Error)
}

func TestReadinessHandler_CriticalDown(t *testing.T) {
	h := NewHandler()
	h.Register("storefront-api", func(context.Context) error { return fmt.Errorf("connection refused") })
	h.RegisterNonCritical("redis", func(context.Context) error { return fmt.Errorf("redis down") })

	code, resp := ready(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusDown, resp.Status)
	assert.True(t, resp.Checks["storefront-api"].Critical)
}

func TestReadinessHandler_NoCheckers(t *testing.T) {
	code, resp := ready(t, NewHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Empty(t, resp.Checks)
}

func TestRegister_Overwrites(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("redis", func(context.Context) error { return fmt.Errorf("down") })
	h.RegisterNonCritical("redis", up)

	code, resp := ready(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Checks["redis"].Status)
}
