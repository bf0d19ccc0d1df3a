package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftboard/internal/schedule"
	"shiftboard/internal/shared/testutil"
	"shiftboard/internal/source"
)

func respond(t *testing.T, h *ErrorHandler, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/schedule/2025-03-25", nil)
	req = req.WithContext(context.WithValue(req.Context(), chimw.RequestIDKey, "req-42"))
	rec := httptest.NewRecorder()
	h.HandleError(rec, req, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestHandleError_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		typ      string
		wantCode string
	}{
		{
			name:     "api error",
			err:      UnknownDateError("2025-03-25"),
			status:   http.StatusNotFound,
			typ:      TypeDateNotFound,
			wantCode: "DATE_NOT_FOUND",
		},
		{
			name:     "not loaded",
			err:      fmt.Errorf("dates: %w", ErrScheduleNotLoaded),
			status:   http.StatusServiceUnavailable,
			typ:      TypeScheduleNotLoaded,
			wantCode: "SCHEDULE_NOT_LOADED",
		},
		{
			name:   "missing columns",
			err:    &schedule.MissingColumnsError{Missing: []string{"Off"}},
			status: http.StatusUnprocessableEntity,
			typ:    TypeScheduleStructure,
		},
		{
			name:   "no header",
			err:    schedule.ErrNoHeader,
			status: http.StatusUnprocessableEntity,
			typ:    TypeScheduleStructure,
		},
		{
			name:   "acquisition",
			err:    &source.AcquisitionError{Source: "file:shifts.csv", Err: errors.New("permission denied")},
			status: http.StatusBadGateway,
			typ:    TypeScheduleSource,
		},
		{
			name:   "deadline",
			err:    fmt.Errorf("reload: %w", context.DeadlineExceeded),
			status: http.StatusGatewayTimeout,
			typ:    TypeTimeout,
		},
		{
			name:   "unexpected",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			typ:    TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			rec, body := respond(t, NewErrorHandler(logger, false), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.typ, body["type"])
			assert.Equal(t, float64(tt.status), body["status"])
			assert.Equal(t, "/api/schedule/2025-03-25", body["instance"])
			assert.Equal(t, "req-42", body["trace_id"])
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}
			assert.NotContains(t, body, "stack")
		})
	}
}

func TestHandleError_MissingColumnsExtension(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	_, body := respond(t, NewErrorHandler(logger, false),
		fmt.Errorf("parse: %w", &schedule.MissingColumnsError{Missing: []string{"Off", "Shift"}}))

	assert.Equal(t, []interface{}{"Off", "Shift"}, body["missing_columns"])
}

func TestHandleError_InternalDetailHidden(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	_, body := respond(t, NewErrorHandler(logger, false), errors.New("db password is hunter2"))

	assert.NotContains(t, body["detail"], "hunter2")
	record, ok := logs.Find("request failed")
	require.True(t, ok)
	assert.Equal(t, slog.LevelError, record.Level)
}

func TestHandleError_StackWhenEnabled(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	_, body := respond(t, NewErrorHandler(logger, true), errors.New("boom"))
	assert.Contains(t, body, "stack")
}

func TestHandleError_NilIsNoop(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	rec := httptest.NewRecorder()
	NewErrorHandler(logger, false).HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), TypeNotFound)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/schedule/dates", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "Method DELETE is not allowed")
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := RecoveryMiddleware(NewErrorHandler(logger, false))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("template exploded")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), TypeInternal)
	assert.NotContains(t, rec.Body.String(), "template exploded")
	testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")
}

func TestRecoveryMiddleware_AbortHandlerPropagates(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := RecoveryMiddleware(NewErrorHandler(logger, false))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
