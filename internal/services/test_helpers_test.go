package services

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"shiftboard/internal/source"
	"shiftboard/pkg/contracts/events"
)

// MockPublisher is a mock for the Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, msgType events.MessageType, data interface{}) {
	m.Called(ctx, msgType, data)
}

// MockReloader is a mock for the Reloader interface
type MockReloader struct {
	mock.Mock
}

func (m *MockReloader) Reload(ctx context.Context) (*LoadStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LoadStatus), args.Error(1)
}

// stubSource serves whatever text or error was last set
type stubSource struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
	gate  chan struct{}
}

func (s *stubSource) set(text string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text, s.err = text, err
}

func (s *stubSource) Fetch(ctx context.Context) (*source.Document, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, &source.AcquisitionError{Source: s.Describe(), Err: s.err}
	}
	return &source.Document{Text: s.text, Origin: s.Describe()}, nil
}

func (s *stubSource) Describe() string { return "stub:schedule.csv" }

func (s *stubSource) fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubCounter int

func (c stubCounter) ClientCount() int { return int(c) }
