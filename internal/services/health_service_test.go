package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftboard/internal/shared/testutil"
)

type staticStatus LoadStatus

func (s staticStatus) Status() LoadStatus { return LoadStatus(s) }

func TestHealthService_HealthAndLiveness(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.4.0", nil, nil, nil, logger)
	ctx := context.Background()

	health := hs.HealthCheck(ctx)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.4.0", health.Version)

	live := hs.LivenessCheck(ctx)
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")
	assert.Contains(t, live.Runtime, "go_version")
}

func TestHealthService_Readiness(t *testing.T) {
	loaded := staticStatus{State: StateLoaded, LoadedAt: time.Now(), Records: 3, Dates: 2, Origin: "file:shifts.csv"}
	structural := staticStatus{State: StateStructuralError, LoadedAt: time.Now()}
	neverLoaded := staticStatus{State: StateAcquisitionError, Error: "no such file"}

	tests := []struct {
		name     string
		schedule ScheduleStatusProvider
		store    Pinger
		want     string
	}{
		{"loaded", loaded, stubPinger{}, "ready"},
		{"empty after structural error", structural, stubPinger{}, "ready"},
		{"never loaded", neverLoaded, stubPinger{}, "not_ready"},
		{"store down", loaded, stubPinger{err: errors.New("locked")}, "not_ready"},
		{"no dependencies", nil, nil, "ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			hs := NewHealthService("1.4.0", tt.schedule, tt.store, stubCounter(2), logger)
			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.want, status.Status)
			assert.Contains(t, status.Services, "schedule")
			assert.Contains(t, status.Services, "preferences")
			assert.Contains(t, status.Services, "websocket")
		})
	}
}

func TestHealthService_ReadinessMessages(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.4.0",
		staticStatus{State: StateAcquisitionError, Error: "no such file"}, nil, stubCounter(4), logger)

	status := hs.ReadinessCheck(context.Background())
	sched, ok := status.Services["schedule"].(ServiceHealth)
	require.True(t, ok)
	assert.Contains(t, sched.Message, "no such file")

	ws, ok := status.Services["websocket"].(ServiceHealth)
	require.True(t, ok)
	assert.Equal(t, "4 clients connected", ws.Message)
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthServiceWithBuildInfo("1.4.0", "2025-03-25T06:00:00Z", "abc123", nil, nil, nil, nil)
	v := hs.Version()
	assert.Equal(t, "1.4.0", v["version"])
	assert.Equal(t, "2025-03-25T06:00:00Z", v["build_time"])
	assert.Equal(t, "abc123", v["build_id"])
	assert.Contains(t, v, "go_version")

	plain := NewHealthService("1.4.0", nil, nil, nil, nil).Version()
	assert.NotContains(t, plain, "build_time")
}
