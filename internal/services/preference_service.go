package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"shiftboard/internal/infrastructure"
	"shiftboard/internal/preferences"
)

// PreferenceService validates and persists per-client theme choices
type PreferenceService struct {
	store   preferences.Store
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// NewPreferenceService wraps store. metrics may be nil.
func NewPreferenceService(store preferences.Store, metrics *infrastructure.Metrics, logger *slog.Logger) *PreferenceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferenceService{
		store:   store,
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "preference_service"),
	}
}

// Theme returns the theme of clientID. Clients without an ID get the default.
func (s *PreferenceService) Theme(ctx context.Context, clientID string) (preferences.Theme, error) {
	if clientID == "" {
		return preferences.DefaultTheme, nil
	}
	theme, err := s.store.Get(ctx, clientID)
	if err != nil {
		return preferences.DefaultTheme, fmt.Errorf("load theme: %w", err)
	}
	return theme, nil
}

// SetTheme stores value for clientID after validating it
func (s *PreferenceService) SetTheme(ctx context.Context, clientID, value string) (preferences.Theme, error) {
	if clientID == "" {
		return "", ErrMissingClientID
	}
	theme, err := preferences.ParseTheme(value)
	if err != nil {
		return "", err
	}
	if err := s.save(ctx, clientID, theme); err != nil {
		return "", err
	}
	return theme, nil
}

// Toggle flips the stored theme of clientID and returns the new value
func (s *PreferenceService) Toggle(ctx context.Context, clientID string) (preferences.Theme, error) {
	if clientID == "" {
		return "", ErrMissingClientID
	}
	current, err := s.Theme(ctx, clientID)
	if err != nil {
		return "", err
	}
	next := current.Toggled()
	if err := s.save(ctx, clientID, next); err != nil {
		return "", err
	}
	return next, nil
}

// Ping checks the backing store when it supports it
func (s *PreferenceService) Ping(ctx context.Context) error {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *PreferenceService) save(ctx context.Context, clientID string, theme preferences.Theme) error {
	if err := s.store.Set(ctx, clientID, theme); err != nil {
		s.logger.ErrorContext(ctx, "failed to save theme",
			slog.String("client_id", clientID),
			slog.String("error", err.Error()))
		return fmt.Errorf("save theme: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ThemeToggles.Add(ctx, 1, metric.WithAttributes(attribute.String("theme", string(theme))))
	}
	s.logger.DebugContext(ctx, "theme saved",
		slog.String("client_id", clientID),
		slog.String("theme", string(theme)))
	return nil
}
