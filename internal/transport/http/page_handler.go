package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apierrors "shiftboard/internal/errors"
	"shiftboard/internal/preferences"
	"shiftboard/internal/render"
	"shiftboard/internal/schedule"
	"shiftboard/internal/services"
)

// PageHandler serves the server-rendered schedule page
type PageHandler struct {
	schedule     ScheduleServiceInterface
	preferences  PreferenceServiceInterface
	identity     *ClientIdentity
	html         *render.HTML
	version      string
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPageHandler creates a page handler
func NewPageHandler(sched ScheduleServiceInterface, prefs PreferenceServiceInterface, identity *ClientIdentity, html *render.HTML, version string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PageHandler {
	return &PageHandler{
		schedule:     sched,
		preferences:  prefs,
		identity:     identity,
		html:         html,
		version:      version,
		logger:       logger.With(slog.String("component", "page_handler")),
		errorHandler: errorHandler,
	}
}

// Index handles GET /?date=. The date may be a key (2025-03-25) or a display
// date (25/03/2025); without one the earliest date is shown.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := h.identity.Ensure(w, r)

	theme, err := h.preferences.Theme(ctx, clientID)
	if err != nil {
		h.logger.WarnContext(ctx, "theme lookup failed, using default",
			slog.String("error", err.Error()))
		theme = preferences.DefaultTheme
	}

	status := h.schedule.Status()
	page := render.Page{
		Version:  h.version,
		Theme:    string(theme),
		LoadedAt: status.LoadedAt,
		Undated:  status.Undated,
		ReturnTo: r.URL.RequestURI(),
	}
	code := http.StatusOK

	switch {
	case status.State == services.StateStructuralError:
		page.Notice = status.Error
		page.MissingColumns = status.MissingColumns
	case !status.Loaded():
		page.Notice = "The schedule could not be loaded yet."
		if status.Error != "" {
			page.Notice = fmt.Sprintf("The schedule could not be loaded: %s", status.Error)
		}
		code = http.StatusServiceUnavailable
	}

	selected, ok := selectedDate(r.URL.Query().Get("date"), h.schedule.DefaultDate())
	if !ok {
		page.Notice = "Dates must look like 2025-03-25 or 25/03/2025."
		code = http.StatusBadRequest
	}

	page.Dates = render.NewDateOptions(h.schedule.Dates(), selected)
	if selected != "" && status.Loaded() {
		day, err := h.schedule.Schedule(selected)
		switch {
		case err == nil:
			page.Schedule = &day
		case errors.Is(err, services.ErrUnknownDate) && page.Notice == "":
			page.Notice = fmt.Sprintf("No shifts are scheduled for %s.", schedule.DisplayDate(selected))
			code = http.StatusNotFound
		}
	}

	var buf bytes.Buffer
	if err := h.html.Page(&buf, page); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	buf.WriteTo(w)
}

// selectedDate resolves the query value to a date key. ok is false for text
// that is neither form.
func selectedDate(query, fallback string) (string, bool) {
	if query == "" {
		return fallback, true
	}
	if _, ok := schedule.KeyTime(query); ok {
		return query, true
	}
	if key, err := schedule.ParseDisplayDate(query); err == nil {
		return key, true
	}
	return fallback, false
}
