package services

import "errors"

// Service errors
var (
	// Schedule errors
	ErrNotLoaded      = errors.New("schedule not loaded")
	ErrUnknownDate    = errors.New("date not in schedule")
	ErrInvalidDateKey = errors.New("invalid date key")

	// Refresh errors
	ErrInvalidCron = errors.New("invalid refresh schedule")

	// Preference errors
	ErrMissingClientID = errors.New("missing client id")
)
