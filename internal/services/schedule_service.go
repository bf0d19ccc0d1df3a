package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/singleflight"

	"shiftboard/internal/infrastructure"
	"shiftboard/internal/schedule"
	"shiftboard/internal/source"
	"shiftboard/pkg/contracts/events"
)

// Load states reported by LoadStatus.State
const (
	StatePending          = "pending"
	StateLoaded           = "loaded"
	StateStructuralError  = "structural_error"
	StateAcquisitionError = "acquisition_error"
)

// Publisher pushes schedule events to connected clients.
type Publisher interface {
	Publish(ctx context.Context, msgType events.MessageType, data interface{})
}

// LoadStatus describes the most recent load attempt and the collection it left
// in place.
type LoadStatus struct {
	State          string              `json:"state"`
	Origin         string              `json:"origin,omitempty"`
	LoadedAt       time.Time           `json:"loaded_at"`
	AttemptedAt    time.Time           `json:"attempted_at"`
	Duration       time.Duration       `json:"duration"`
	Records        int                 `json:"records"`
	Dates          int                 `json:"dates"`
	Undated        int                 `json:"undated"`
	Stats          schedule.ParseStats `json:"stats"`
	MissingColumns []string            `json:"missing_columns,omitempty"`
	Error          string              `json:"error,omitempty"`
}

// Loaded reports whether a collection has ever been installed.
func (s LoadStatus) Loaded() bool {
	return !s.LoadedAt.IsZero()
}

// snapshot pairs a collection with the status that produced it so readers
// never observe one without the other.
type snapshot struct {
	collection *schedule.Collection
	status     LoadStatus
}

// ScheduleService owns the current schedule collection. Reloads replace it
// atomically; readers are lock-free.
type ScheduleService struct {
	src       source.Source
	opts      schedule.Options
	publisher Publisher
	metrics   *infrastructure.Metrics
	tracer    trace.Tracer
	logger    *slog.Logger
	now       func() time.Time

	current atomic.Pointer[snapshot]
	group   singleflight.Group
}

// ScheduleOption configures optional collaborators of a ScheduleService
type ScheduleOption func(*ScheduleService)

// WithPublisher sets the event publisher notified after each reload
func WithPublisher(p Publisher) ScheduleOption {
	return func(s *ScheduleService) { s.publisher = p }
}

// WithMetrics sets the instruments reloads are recorded on
func WithMetrics(m *infrastructure.Metrics) ScheduleOption {
	return func(s *ScheduleService) { s.metrics = m }
}

// WithTracer sets the tracer used for reload spans
func WithTracer(t trace.Tracer) ScheduleOption {
	return func(s *ScheduleService) { s.tracer = t }
}

// WithClock overrides time.Now, for tests
func WithClock(now func() time.Time) ScheduleOption {
	return func(s *ScheduleService) { s.now = now }
}

// NewScheduleService creates a service that loads from src using opts.
// Nothing is fetched until Reload is called.
func NewScheduleService(src source.Source, opts schedule.Options, logger *slog.Logger, options ...ScheduleOption) *ScheduleService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ScheduleService{
		src:    src,
		opts:   opts,
		tracer: noop.NewTracerProvider().Tracer(infrastructure.ServiceName),
		logger: infrastructure.WithComponent(logger, "schedule_service"),
		now:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	s.current.Store(&snapshot{
		collection: schedule.Empty(),
		status:     LoadStatus{State: StatePending, Origin: src.Describe()},
	})
	return s
}

// Reload fetches and parses the source, then installs the result. Concurrent
// callers share one in-flight reload, which is not cancelled when the caller
// that started it goes away. The returned status is never nil.
func (s *ScheduleService) Reload(ctx context.Context) (*LoadStatus, error) {
	v, err, shared := s.group.Do("reload", func() (interface{}, error) {
		return s.reload(context.WithoutCancel(ctx))
	})
	if shared {
		s.logger.DebugContext(ctx, "joined in-flight reload")
	}
	status := v.(LoadStatus)
	return &status, err
}

func (s *ScheduleService) reload(ctx context.Context) (LoadStatus, error) {
	ctx, span := s.tracer.Start(ctx, "schedule.reload",
		trace.WithAttributes(attribute.String("schedule.source", s.src.Describe())))
	defer span.End()

	start := s.now()
	prev := s.current.Load()

	doc, err := s.src.Fetch(ctx)
	if err != nil {
		status := prev.status
		status.State = StateAcquisitionError
		status.AttemptedAt = start
		status.Duration = s.now().Sub(start)
		status.Error = err.Error()
		status.MissingColumns = nil
		s.current.Store(&snapshot{collection: prev.collection, status: status})

		infrastructure.RecordError(ctx, err)
		s.metrics.RecordReload(ctx, "acquisition_error", status.Duration)
		s.logger.WarnContext(ctx, "schedule acquisition failed, keeping previous collection",
			slog.String("source", s.src.Describe()),
			slog.Int("records", prev.collection.Len()),
			slog.String("error", err.Error()))
		return status, err
	}

	coll, err := doc.Parse(s.opts)
	if err != nil {
		if !errors.Is(err, schedule.ErrStructural) {
			infrastructure.RecordError(ctx, err)
			s.metrics.RecordReload(ctx, "error", s.now().Sub(start))
			return prev.status, fmt.Errorf("parse schedule: %w", err)
		}

		status := LoadStatus{
			State:       StateStructuralError,
			Origin:      doc.Origin,
			LoadedAt:    start,
			AttemptedAt: start,
			Duration:    s.now().Sub(start),
			Error:       err.Error(),
		}
		var mc *schedule.MissingColumnsError
		if errors.As(err, &mc) {
			status.MissingColumns = append([]string(nil), mc.Missing...)
		}
		s.install(ctx, schedule.Empty(), status)

		infrastructure.RecordError(ctx, err)
		s.metrics.RecordReload(ctx, "structural_error", status.Duration)
		s.logger.ErrorContext(ctx, "schedule structure invalid, serving empty schedule",
			slog.String("origin", doc.Origin),
			slog.Any("missing_columns", status.MissingColumns),
			slog.String("error", err.Error()))
		s.publish(ctx, events.MessageTypeScheduleFailed, status, nil)
		return status, err
	}

	stats := coll.Stats()
	status := LoadStatus{
		State:       StateLoaded,
		Origin:      doc.Origin,
		LoadedAt:    start,
		AttemptedAt: start,
		Duration:    s.now().Sub(start),
		Records:     coll.Len(),
		Dates:       len(coll.Dates()),
		Undated:     len(coll.Undated()),
		Stats:       stats,
	}
	s.install(ctx, coll, status)

	span.SetAttributes(
		attribute.Int("schedule.records", status.Records),
		attribute.Int("schedule.dates", status.Dates),
		attribute.Int("schedule.dropped", stats.Dropped))
	s.metrics.RecordReload(ctx, "ok", status.Duration)
	if s.metrics != nil && stats.Dropped > 0 {
		s.metrics.RowsDropped.Add(ctx, int64(stats.Dropped))
	}
	s.logger.InfoContext(ctx, "schedule loaded",
		slog.String("origin", doc.Origin),
		slog.Int("records", status.Records),
		slog.Int("dates", status.Dates),
		slog.Int("dropped", stats.Dropped),
		slog.Int("malformed_dates", stats.MalformedDates),
		slog.Duration("duration", status.Duration))
	s.publish(ctx, events.MessageTypeScheduleReloaded, status, coll.Dates())
	return status, nil
}

func (s *ScheduleService) install(ctx context.Context, coll *schedule.Collection, status LoadStatus) {
	s.current.Store(&snapshot{collection: coll, status: status})
	if s.metrics != nil {
		s.metrics.RecordsLoaded.Record(ctx, int64(status.Records))
		s.metrics.DatesLoaded.Record(ctx, int64(status.Dates))
	}
}

func (s *ScheduleService) publish(ctx context.Context, msgType events.MessageType, status LoadStatus, dates []string) {
	if s.publisher == nil {
		return
	}
	if dates == nil {
		dates = []string{}
	}
	s.publisher.Publish(ctx, msgType, events.ScheduleReloaded{
		State:          status.State,
		Origin:         status.Origin,
		LoadedAt:       status.LoadedAt,
		Records:        status.Records,
		Dates:          dates,
		MissingColumns: status.MissingColumns,
		Error:          status.Error,
	})
}

// Collection returns the current collection. Before the first load it is empty.
func (s *ScheduleService) Collection() *schedule.Collection {
	return s.current.Load().collection
}

// Status returns a copy of the most recent load status
func (s *ScheduleService) Status() LoadStatus {
	return s.current.Load().status
}

// Dates returns the distinct date keys in ascending order
func (s *ScheduleService) Dates() []string {
	return s.Collection().Dates()
}

// DefaultDate is the date shown when none is selected: the earliest one.
// Empty when the collection has no dated records.
func (s *ScheduleService) DefaultDate() string {
	dates := s.Dates()
	if len(dates) == 0 {
		return ""
	}
	return dates[0]
}

// Schedule returns the Day and Night shifts of dateKey.
func (s *ScheduleService) Schedule(dateKey string) (schedule.DaySchedule, error) {
	snap := s.current.Load()
	if !snap.status.Loaded() {
		return schedule.DaySchedule{}, ErrNotLoaded
	}
	if _, ok := schedule.KeyTime(dateKey); !ok {
		return schedule.DaySchedule{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, dateKey)
	}
	day, ok := snap.collection.Schedule(dateKey)
	if !ok {
		return schedule.DaySchedule{}, fmt.Errorf("%w: %s", ErrUnknownDate, dateKey)
	}
	return day, nil
}

// Source describes where the schedule is loaded from
func (s *ScheduleService) Source() string {
	return s.src.Describe()
}
