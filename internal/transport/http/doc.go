// Package http implements the HTTP handlers of shiftboard. Handlers stay thin:
// they parse the request, call a service, and render JSON, HTML or an RFC 7807
// problem.
//
// # Routes
//
//	GET  /                               schedule page (?date=)
//	POST /preferences/theme/toggle       theme toggle form, redirects back
//	GET  /api/schedule/dates             distinct dates, ascending
//	GET  /api/schedule/status            outcome of the last load
//	GET  /api/schedule/{date}            Day and Night shifts of a date
//	POST /api/schedule/reload            reload now (admin token when configured)
//	GET  /api/preferences/theme          current theme
//	PUT  /api/preferences/theme          set theme
//	POST /api/preferences/theme/toggle   flip theme
//	GET  /api/health, /ready, /live      health probes
//	GET  /api/version                    build information
//	GET  /ws                             schedule events
//
// # Errors
//
// Service errors are translated before they reach the error handler:
//
//	services.ErrNotLoaded      → 503 SCHEDULE_NOT_LOADED
//	services.ErrUnknownDate    → 404 DATE_NOT_FOUND
//	schedule.ErrStructural     → 422 with missing_columns
//	source.ErrAcquisition      → 502
//
// Clients are identified by an anonymous UUID cookie, issued on first visit,
// which keys the stored theme.
package http
