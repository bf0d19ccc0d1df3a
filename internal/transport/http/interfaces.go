package http

import (
	"context"

	"shiftboard/internal/preferences"
	"shiftboard/internal/schedule"
	"shiftboard/internal/services"
)

// ScheduleServiceInterface defines the schedule operations the handlers need
type ScheduleServiceInterface interface {
	Reload(ctx context.Context) (*services.LoadStatus, error)
	Dates() []string
	DefaultDate() string
	Schedule(dateKey string) (schedule.DaySchedule, error)
	Status() services.LoadStatus
}

// PreferenceServiceInterface defines the theme operations the handlers need
type PreferenceServiceInterface interface {
	Theme(ctx context.Context, clientID string) (preferences.Theme, error)
	SetTheme(ctx context.Context, clientID, value string) (preferences.Theme, error)
	Toggle(ctx context.Context, clientID string) (preferences.Theme, error)
}
