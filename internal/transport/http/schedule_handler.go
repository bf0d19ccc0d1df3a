package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "shiftboard/internal/errors"
	"shiftboard/internal/middleware"
	"shiftboard/internal/services"
	api "shiftboard/pkg/contracts/api/v1"
)

// ScheduleHandler serves the schedule JSON API
type ScheduleHandler struct {
	service      ScheduleServiceInterface
	validator    *middleware.RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	// reloadGuard wraps the reload endpoint, e.g. with the admin token check
	reloadGuard func(http.Handler) http.Handler
}

// NewScheduleHandler creates a schedule handler. reloadGuard may be nil.
func NewScheduleHandler(service ScheduleServiceInterface, validator *middleware.RequestValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, reloadGuard func(http.Handler) http.Handler) *ScheduleHandler {
	return &ScheduleHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "schedule_handler")),
		errorHandler: errorHandler,
		reloadGuard:  reloadGuard,
	}
}

// Routes returns the schedule routes
func (h *ScheduleHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/dates", h.GetDates)
	r.Get("/status", h.GetStatus)
	r.Get("/{date}", h.GetSchedule)

	r.Group(func(r chi.Router) {
		if h.reloadGuard != nil {
			r.Use(h.reloadGuard)
		}
		r.Post("/reload", h.Reload)
	})

	return r
}

// GetDates handles GET /api/schedule/dates
func (h *ScheduleHandler) GetDates(w http.ResponseWriter, r *http.Request) {
	status := h.service.Status()
	if !status.Loaded() {
		h.errorHandler.HandleError(w, r, apierrors.ErrScheduleNotLoaded)
		return
	}

	render.JSON(w, r, api.DatesResponse{
		Dates:   toDateOptions(h.service.Dates()),
		Default: h.service.DefaultDate(),
		Undated: status.Undated,
	})
}

// GetStatus handles GET /api/schedule/status
func (h *ScheduleHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, toStatusResponse(h.service.Status()))
}

// GetSchedule handles GET /api/schedule/{date}
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if err := h.validator.Var("date", date, "required,datekey"); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	day, err := h.service.Schedule(date)
	if err != nil {
		h.errorHandler.HandleError(w, r, scheduleError(err, date))
		return
	}

	render.JSON(w, r, toScheduleResponse(day))
}

// Reload handles POST /api/schedule/reload
func (h *ScheduleHandler) Reload(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Reload(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "schedule reloaded on request",
		slog.Int("records", status.Records),
		slog.Int("dates", status.Dates))
	render.JSON(w, r, toStatusResponse(*status))
}

// scheduleError maps service lookup errors to API errors
func scheduleError(err error, date string) error {
	switch {
	case errors.Is(err, services.ErrNotLoaded):
		return apierrors.ErrScheduleNotLoaded
	case errors.Is(err, services.ErrUnknownDate):
		return apierrors.UnknownDateError(date)
	case errors.Is(err, services.ErrInvalidDateKey):
		return apierrors.NewValidationErrors([]apierrors.ValidationError{{
			Field:   "date",
			Message: "date must be a YYYY-MM-DD date",
		}})
	}
	return err
}
