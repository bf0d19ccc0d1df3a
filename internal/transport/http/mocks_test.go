package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "shiftboard/internal/errors"
	"shiftboard/internal/preferences"
	"shiftboard/internal/schedule"
	"shiftboard/internal/services"
	"shiftboard/internal/shared/testutil"
)

// MockScheduleService is a mock implementation of ScheduleServiceInterface
type MockScheduleService struct {
	mock.Mock
}

func (m *MockScheduleService) Reload(ctx context.Context) (*services.LoadStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoadStatus), args.Error(1)
}

func (m *MockScheduleService) Dates() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockScheduleService) DefaultDate() string {
	return m.Called().String(0)
}

func (m *MockScheduleService) Schedule(dateKey string) (schedule.DaySchedule, error) {
	args := m.Called(dateKey)
	return args.Get(0).(schedule.DaySchedule), args.Error(1)
}

func (m *MockScheduleService) Status() services.LoadStatus {
	return m.Called().Get(0).(services.LoadStatus)
}

// MockPreferenceService is a mock implementation of PreferenceServiceInterface
type MockPreferenceService struct {
	mock.Mock
}

func (m *MockPreferenceService) Theme(ctx context.Context, clientID string) (preferences.Theme, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(preferences.Theme), args.Error(1)
}

func (m *MockPreferenceService) SetTheme(ctx context.Context, clientID, value string) (preferences.Theme, error) {
	args := m.Called(ctx, clientID, value)
	return args.Get(0).(preferences.Theme), args.Error(1)
}

func (m *MockPreferenceService) Toggle(ctx context.Context, clientID string) (preferences.Theme, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(preferences.Theme), args.Error(1)
}

func newErrorHandler(t *testing.T) *apierrors.ErrorHandler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return apierrors.NewErrorHandler(logger, false)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

// fixtureDay returns the 2025-03-25 schedule of the compact fixture
func fixtureDay(t *testing.T) schedule.DaySchedule {
	t.Helper()
	coll, err := schedule.Parse(testutil.CompactCSV, schedule.DefaultOptions())
	require.NoError(t, err)
	day, ok := coll.Schedule("2025-03-25")
	require.True(t, ok)
	return day
}
