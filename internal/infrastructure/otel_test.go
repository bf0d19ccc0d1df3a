package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftboard/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestOTelInitializationDisabled(t *testing.T) {
	providers, err := InitializeOTel(config.TelemetryConfig{}, "test", testLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestOTelInitialization(t *testing.T) {
	cfg := config.TelemetryConfig{
		EnableTracing: true,
		EnableMetrics: true,
		TraceExporter: "stdout",
		SampleRatio:   1.0,
		Environment:   "test",
	}
	providers, err := InitializeOTel(cfg, "test", testLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, span := providers.Tracer.Start(context.Background(), "test-operation")
	traceID := TraceIDFromContext(ctx)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)
	RecordError(ctx, errors.New("boom"))
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelUnsupportedExporter(t *testing.T) {
	cfg := config.TelemetryConfig{EnableTracing: true, TraceExporter: "jaeger"}
	_, err := InitializeOTel(cfg, "test", testLogger())
	assert.Error(t, err)
}

func TestPrometheusEndpoint(t *testing.T) {
	providers, err := InitializeOTel(config.TelemetryConfig{EnableMetrics: true}, "test", testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := NewMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordReload(ctx, "success", 120*time.Millisecond)
	metrics.RecordsLoaded.Record(ctx, 42)

	server := httptest.NewServer(providers.PrometheusHTTP)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "schedule_reloads_total")
	assert.Contains(t, string(body), "schedule_records")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics()
	require.NotNil(t, m)
	m.RecordReload(context.Background(), "failure", time.Second)

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordReload(context.Background(), "failure", time.Second)
	})
}
