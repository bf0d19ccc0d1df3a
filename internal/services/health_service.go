package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// ScheduleStatusProvider reports the current schedule load state
type ScheduleStatusProvider interface {
	Status() LoadStatus
}

// Pinger is implemented by dependencies that can check their backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// ClientCounter reports connected push clients
type ClientCounter interface {
	ClientCount() int
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	buildID   string
	schedule  ScheduleStatusProvider
	store     Pinger
	clients   ClientCounter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a health service. Any dependency may be nil; nil
// dependencies are reported ready.
func NewHealthService(version string, schedule ScheduleStatusProvider, store Pinger, clients ClientCounter, logger *slog.Logger) *HealthService {
	return NewHealthServiceWithBuildInfo(version, "", "", schedule, store, clients, logger)
}

// NewHealthServiceWithBuildInfo creates a new health service with build information
func NewHealthServiceWithBuildInfo(version, buildTime, buildID string, schedule ScheduleStatusProvider, store Pinger, clients ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("build_id", buildID))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		buildID:   buildID,
		schedule:  schedule,
		store:     store,
		clients:   clients,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready once a schedule has been installed and the
// preference store answers.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	status.Services["schedule"] = hs.checkScheduleHealth()
	status.Services["preferences"] = hs.checkStoreHealth(ctx)
	status.Services["websocket"] = hs.checkWebSocketHealth()

	for name, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "readiness check failed",
				slog.String("service", name),
				slog.String("message", sh.Message))
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.buildID != "" {
		result["build_id"] = hs.buildID
	}

	return result
}

// checkScheduleHealth is ready after any install, including an empty one left
// by a structural error. Only a source that never answered is not ready.
func (hs *HealthService) checkScheduleHealth() ServiceHealth {
	if hs.schedule == nil {
		return ServiceHealth{Status: "ready", Message: "schedule service not configured"}
	}
	st := hs.schedule.Status()
	if !st.Loaded() {
		msg := "schedule not loaded yet"
		if st.Error != "" {
			msg = fmt.Sprintf("schedule not loaded: %s", st.Error)
		}
		return ServiceHealth{Status: "not_ready", Message: msg}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%s: %d records, %d dates (%s)", st.State, st.Records, st.Dates, st.Origin),
		Uptime:  time.Since(st.LoadedAt).Round(time.Second).String(),
	}
}

func (hs *HealthService) checkStoreHealth(ctx context.Context) ServiceHealth {
	if hs.store == nil {
		return ServiceHealth{Status: "ready", Message: "preference store not configured"}
	}
	if err := hs.store.Ping(ctx); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("preference store error: %v", err),
		}
	}
	return ServiceHealth{Status: "ready", Message: "preference store is healthy"}
}

// checkWebSocketHealth checks WebSocket service health
func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	msg := "WebSocket service is healthy"
	if hs.clients != nil {
		msg = fmt.Sprintf("%d clients connected", hs.clients.ClientCount())
	}
	return ServiceHealth{
		Status:  "ready",
		Message: msg,
		Uptime:  time.Since(hs.startTime).String(),
	}
}
