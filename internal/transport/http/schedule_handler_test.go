package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shiftboard/internal/middleware"
	"shiftboard/internal/schedule"
	"shiftboard/internal/services"
	"shiftboard/internal/shared/testutil"
	"shiftboard/internal/source"
)

var loadedStatus = services.LoadStatus{
	State:    services.StateLoaded,
	Origin:   "file:shifts.csv",
	LoadedAt: time.Date(2025, 3, 25, 6, 0, 0, 0, time.UTC),
	Records:  3,
	Dates:    2,
	Stats:    schedule.ParseStats{Rows: 3, Retained: 3},
}

func newScheduleRouter(t *testing.T, svc ScheduleServiceInterface, guard func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewScheduleHandler(svc, middleware.NewRequestValidator(), logger, newErrorHandler(t), guard)
	r := chi.NewRouter()
	r.Mount("/api/schedule", h.Routes())
	return r
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestScheduleHandler_GetDates(t *testing.T) {
	svc := &MockScheduleService{}
	svc.On("Status").Return(loadedStatus)
	svc.On("Dates").Return([]string{"2025-03-25", "2025-03-26"})
	svc.On("DefaultDate").Return("2025-03-25")

	rec := serve(newScheduleRouter(t, svc, nil), http.MethodGet, "/api/schedule/dates")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{
		"dates": [
			{"key": "2025-03-25", "display": "25/03/2025"},
			{"key": "2025-03-26", "display": "26/03/2025"}
		],
		"default": "2025-03-25",
		"undated": 0
	}`, rec.Body.String())
}

func TestScheduleHandler_GetDatesNotLoaded(t *testing.T) {
	svc := &MockScheduleService{}
	svc.On("Status").Return(services.LoadStatus{State: services.StatePending})

	rec := serve(newScheduleRouter(t, svc, nil), http.MethodGet, "/api/schedule/dates")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "SCHEDULE_NOT_LOADED", body["error_code"])
	svc.AssertNotCalled(t, "Dates")
}

func TestScheduleHandler_GetSchedule(t *testing.T) {
	tests := []struct {
		name       string
		date       string
		setup      func(*MockScheduleService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "found",
			date: "2025-03-25",
			setup: func(m *MockScheduleService) {
				m.On("Schedule", "2025-03-25").Return(fixtureDay(t), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "unknown date",
			date: "2025-03-27",
			setup: func(m *MockScheduleService) {
				m.On("Schedule", "2025-03-27").Return(schedule.DaySchedule{}, services.ErrUnknownDate)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "DATE_NOT_FOUND",
		},
		{
			name: "not loaded",
			date: "2025-03-25",
			setup: func(m *MockScheduleService) {
				m.On("Schedule", "2025-03-25").Return(schedule.DaySchedule{}, services.ErrNotLoaded)
			},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "SCHEDULE_NOT_LOADED",
		},
		{
			name:       "malformed date",
			date:       "tomorrow",
			setup:      func(m *MockScheduleService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "impossible date",
			date:       "2025-02-30",
			setup:      func(m *MockScheduleService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockScheduleService{}
			tt.setup(svc)

			rec := serve(newScheduleRouter(t, svc, nil), http.MethodGet, "/api/schedule/"+tt.date)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
				return
			}
			assert.Equal(t, "25/03/2025", body["display_date"])
			day := body["day"].([]interface{})
			night := body["night"].([]interface{})
			require.Len(t, day, 1)
			require.Len(t, night, 1)
			assert.Equal(t, "Smith", day[0].(map[string]interface{})["driver"])
			assert.Equal(t, "", day[0].(map[string]interface{})["off"])
			assert.Equal(t, "Jones", night[0].(map[string]interface{})["driver"])
			svc.AssertExpectations(t)
		})
	}
}

func TestScheduleHandler_GetStatus(t *testing.T) {
	svc := &MockScheduleService{}
	svc.On("Status").Return(services.LoadStatus{
		State:          services.StateStructuralError,
		LoadedAt:       loadedStatus.LoadedAt,
		MissingColumns: []string{"Off"},
		Error:          "missing required columns: Off",
	})

	rec := serve(newScheduleRouter(t, svc, nil), http.MethodGet, "/api/schedule/status")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "structural_error", body["state"])
	assert.Equal(t, []interface{}{"Off"}, body["missing_columns"])
	assert.Equal(t, "2025-03-25T06:00:00Z", body["loaded_at"])
	assert.NotContains(t, body, "attempted_at")
}

func TestScheduleHandler_Reload(t *testing.T) {
	tests := []struct {
		name       string
		status     *services.LoadStatus
		err        error
		wantStatus int
		check      func(t *testing.T, body map[string]interface{})
	}{
		{
			name:       "success",
			status:     &loadedStatus,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "loaded", body["state"])
				assert.Equal(t, float64(3), body["records"])
			},
		},
		{
			name:       "structural error",
			status:     &services.LoadStatus{State: services.StateStructuralError},
			err:        &schedule.MissingColumnsError{Missing: []string{"Off", "Shift"}},
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, []interface{}{"Off", "Shift"}, body["missing_columns"])
			},
		},
		{
			name:       "acquisition error",
			status:     &services.LoadStatus{State: services.StateAcquisitionError},
			err:        &source.AcquisitionError{Source: "http://example.test/shifts.csv", Err: errors.New("unexpected status 500")},
			wantStatus: http.StatusBadGateway,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Contains(t, body["detail"], "unexpected status 500")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockScheduleService{}
			svc.On("Reload", mock.Anything).Return(tt.status, tt.err).Once()

			rec := serve(newScheduleRouter(t, svc, nil), http.MethodPost, "/api/schedule/reload")

			assert.Equal(t, tt.wantStatus, rec.Code)
			tt.check(t, decodeBody(t, rec))
			svc.AssertExpectations(t)
		})
	}
}

func TestScheduleHandler_ReloadGuard(t *testing.T) {
	hash, err := middleware.HashAdminToken("s3cret")
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	svc := &MockScheduleService{}
	svc.On("Reload", mock.Anything).Return(&loadedStatus, nil).Once()

	router := newScheduleRouter(t, svc, middleware.AdminToken(hash, logger, newErrorHandler(t)))

	rec := serve(router, http.MethodPost, "/api/schedule/reload")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/schedule/reload", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	svc.AssertExpectations(t)
}
