package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "shiftboard/internal/errors"
	"shiftboard/internal/middleware"
	"shiftboard/internal/preferences"
	api "shiftboard/pkg/contracts/api/v1"
)

// PreferenceHandler serves the theme preference API and the page's toggle form
type PreferenceHandler struct {
	service      PreferenceServiceInterface
	identity     *ClientIdentity
	validator    *middleware.RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPreferenceHandler creates a preference handler
func NewPreferenceHandler(service PreferenceServiceInterface, identity *ClientIdentity, validator *middleware.RequestValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PreferenceHandler {
	return &PreferenceHandler{
		service:      service,
		identity:     identity,
		validator:    validator,
		logger:       logger.With(slog.String("component", "preference_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the JSON preference routes
func (h *PreferenceHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/theme", h.GetTheme)
	r.Put("/theme", h.PutTheme)
	r.Post("/theme/toggle", h.ToggleTheme)

	return r
}

// GetTheme handles GET /api/preferences/theme
func (h *PreferenceHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	clientID := h.identity.Ensure(w, r)
	theme, err := h.service.Theme(r.Context(), clientID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.ThemeResponse{ClientID: clientID, Theme: string(theme)})
}

// PutTheme handles PUT /api/preferences/theme
func (h *PreferenceHandler) PutTheme(w http.ResponseWriter, r *http.Request) {
	var req api.ThemeRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	clientID := h.identity.Ensure(w, r)
	theme, err := h.service.SetTheme(r.Context(), clientID, req.Theme)
	if err != nil {
		h.errorHandler.HandleError(w, r, preferenceError(err))
		return
	}
	render.JSON(w, r, api.ThemeResponse{ClientID: clientID, Theme: string(theme)})
}

// ToggleTheme handles POST /api/preferences/theme/toggle
func (h *PreferenceHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	clientID := h.identity.Ensure(w, r)
	theme, err := h.service.Toggle(r.Context(), clientID)
	if err != nil {
		h.errorHandler.HandleError(w, r, preferenceError(err))
		return
	}
	render.JSON(w, r, api.ThemeResponse{ClientID: clientID, Theme: string(theme)})
}

// ToggleForm handles POST /preferences/theme/toggle from the page and
// redirects back to where the form was submitted
func (h *PreferenceHandler) ToggleForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
	if err := r.ParseForm(); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	clientID := h.identity.Ensure(w, r)
	theme, err := h.service.Toggle(r.Context(), clientID)
	if err != nil {
		h.errorHandler.HandleError(w, r, preferenceError(err))
		return
	}

	h.logger.DebugContext(r.Context(), "theme toggled from page",
		slog.String("theme", string(theme)))
	http.Redirect(w, r, safeReturn(r.PostForm.Get("return")), http.StatusSeeOther)
}

// safeReturn keeps redirects on this site
func safeReturn(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.ContainsAny(target, "\\\r\n") {
		return "/"
	}
	return target
}

func preferenceError(err error) error {
	if errors.Is(err, preferences.ErrInvalidTheme) {
		return apierrors.NewValidationErrors([]apierrors.ValidationError{{
			Field:   "theme",
			Message: "theme must be one of: light, dark",
		}})
	}
	return err
}
