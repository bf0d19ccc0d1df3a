package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftboard/internal/services"
	"shiftboard/internal/shared/testutil"
)

type statusFunc func() services.LoadStatus

func (f statusFunc) Status() services.LoadStatus { return f() }

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newHealthRouter(t *testing.T, status services.LoadStatus, ping error) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewHealthService("1.4.0",
		statusFunc(func() services.LoadStatus { return status }),
		pingFunc(func(context.Context) error { return ping }),
		nil, logger)
	h := NewHealthHandler(svc, logger)

	r := chi.NewRouter()
	r.Get("/api/health", h.HealthCheck)
	r.Get("/ready", h.ReadinessCheck)
	r.Get("/live", h.LivenessCheck)
	r.Get("/api/version", h.Version)
	return r
}

func TestHealthHandler_Ready(t *testing.T) {
	rec := serve(newHealthRouter(t, loadedStatus, nil), http.MethodGet, "/ready")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ready", body["status"])
	svcs := body["services"].(map[string]interface{})
	assert.Equal(t, "ready", svcs["schedule"].(map[string]interface{})["status"])
	assert.Equal(t, "ready", svcs["preferences"].(map[string]interface{})["status"])
}

func TestHealthHandler_NotReady(t *testing.T) {
	tests := []struct {
		name    string
		status  services.LoadStatus
		ping    error
		service string
	}{
		{"schedule never loaded", services.LoadStatus{State: services.StatePending}, nil, "schedule"},
		{"store down", loadedStatus, assert.AnError, "preferences"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newHealthRouter(t, tt.status, tt.ping), http.MethodGet, "/ready")

			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, "not_ready", body["status"])
			svc := body["services"].(map[string]interface{})[tt.service].(map[string]interface{})
			assert.Equal(t, "not_ready", svc["status"])
		})
	}
}

func TestHealthHandler_StructuralErrorStillReady(t *testing.T) {
	status := services.LoadStatus{
		State:    services.StateStructuralError,
		LoadedAt: loadedStatus.LoadedAt,
	}
	rec := serve(newHealthRouter(t, status, nil), http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthHandler_LiveAndVersion(t *testing.T) {
	router := newHealthRouter(t, services.LoadStatus{}, nil)

	rec := serve(router, http.MethodGet, "/live")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", decodeBody(t, rec)["status"])

	rec = serve(router, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = serve(router, http.MethodGet, "/api/version")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.4.0", decodeBody(t, rec)["version"])
}
