package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Reloader is the part of ScheduleService the refresher drives
type Reloader interface {
	Reload(ctx context.Context) (*LoadStatus, error)
}

// Refresher reloads the schedule on a cron expression. Standard 5-field
// expressions ("*/15 * * * *") and descriptors ("@every 10m", "@hourly") are
// accepted.
type Refresher struct {
	spec     string
	reloader Reloader
	timeout  time.Duration
	logger   *slog.Logger

	cron *cron.Cron

	mu     sync.Mutex
	parent context.Context
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseCron validates a refresh expression
func ParseCron(spec string) (cron.Schedule, error) {
	sched, err := cronParser.Parse(strings.TrimSpace(spec))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidCron, spec, err)
	}
	return sched, nil
}

// NewRefresher creates a refresher for spec. Each run gets its own timeout.
func NewRefresher(spec string, reloader Reloader, timeout time.Duration, logger *slog.Logger) (*Refresher, error) {
	sched, err := ParseCron(spec)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "refresher"))

	r := &Refresher{
		spec:     strings.TrimSpace(spec),
		reloader: reloader,
		timeout:  timeout,
		logger:   logger,
		parent:   context.Background(),
	}
	cl := cronLogger{logger: logger}
	r.cron = cron.New(
		cron.WithParser(cronParser),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	r.cron.Schedule(sched, cron.FuncJob(r.run))
	return r, nil
}

// Start begins scheduling. Runs in flight when ctx ends are cancelled.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	r.parent = ctx
	r.mu.Unlock()

	r.cron.Start()
	r.logger.InfoContext(ctx, "scheduled refresh started",
		slog.String("schedule", r.spec),
		slog.Time("next", r.Next()))
}

// Stop halts scheduling and waits for a running reload or ctx, whichever
// comes first.
func (r *Refresher) Stop(ctx context.Context) error {
	done := r.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the next planned run, zero before Start
func (r *Refresher) Next() time.Time {
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (r *Refresher) run() {
	r.mu.Lock()
	parent := r.parent
	r.mu.Unlock()

	ctx := parent
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, r.timeout)
		defer cancel()
	}

	status, err := r.reloader.Reload(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "scheduled refresh failed", slog.String("error", err.Error()))
		return
	}
	r.logger.DebugContext(ctx, "scheduled refresh complete",
		slog.String("state", status.State),
		slog.Int("records", status.Records))
}

// cronLogger adapts slog to cron.Logger
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
