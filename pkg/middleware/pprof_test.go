package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func serveFrom(h http.Handler, remoteAddr, target string) int {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestIPAllowlist(t *testing.T) {
	h := IPAllowlist([]string{"10.0.0.0/8", "::1/128", "not-a-cidr"}, discardLogger())(okHandler())

	assert.Equal(t, http.StatusOK, serveFrom(h, "10.1.2.3:9999", "/"))
	assert.Equal(t, http.StatusOK, serveFrom(h, "[::1]:9999", "/"))
	assert.Equal(t, http.StatusOK, serveFrom(h, "10.9.9.9", "/"))
	assert.Equal(t, http.StatusForbidden, serveFrom(h, "192.168.1.1:80", "/"))
	assert.Equal(t, http.StatusForbidden, serveFrom(h, "garbage", "/"))
}

func TestIPAllowlist_EmptyDeniesAll(t *testing.T) {
	h := IPAllowlist(nil, discardLogger())(okHandler())
	assert.Equal(t, http.StatusForbidden, serveFrom(h, "127.0.0.1:1", "/"))
}

func TestRegisterPprof(t *testing.T) {
	r := chi.NewRouter()
	RegisterPprof(r, []string{"127.0.0.0/8"}, discardLogger())

	assert.Equal(t, http.StatusOK, serveFrom(r, "127.0.0.1:1", "/debug/pprof/"))
	assert.Equal(t, http.StatusForbidden, serveFrom(r, "8.8.8.8:1", "/debug/pprof/"))
}
