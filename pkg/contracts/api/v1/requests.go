// Package api contains the JSON contracts of the shiftboard HTTP API.
// Version v1 represents the current stable API version.
package api

import "time"

// Preference API Requests

// ThemeRequest sets the display theme for the calling client
type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

// Schedule API Requests

// ScheduleQuery selects one date of the schedule
type ScheduleQuery struct {
	Date string `json:"date" validate:"required,datekey"`
}

// Responses

// DateOption is one entry of the date selector
type DateOption struct {
	Key     string `json:"key"`
	Display string `json:"display"`
}

// DatesResponse lists the distinct dates of the loaded schedule in ascending order
type DatesResponse struct {
	Dates   []DateOption `json:"dates"`
	Default string       `json:"default,omitempty"`
	Undated int          `json:"undated"`
}

// ShiftRecord is one shift row as exposed by the API
type ShiftRecord struct {
	Truck       string `json:"truck"`
	Driver      string `json:"driver"`
	Run         string `json:"run"`
	Off         string `json:"off"`
	Shift       string `json:"shift"`
	Start       string `json:"start"`
	Destination string `json:"destination"`
	DateKey     string `json:"date_key"`
	DisplayDate string `json:"display_date"`
}

// ScheduleResponse holds the Day and Night shifts of one date, each in truck order
type ScheduleResponse struct {
	DateKey     string        `json:"date_key"`
	DisplayDate string        `json:"display_date"`
	Day         []ShiftRecord `json:"day"`
	Night       []ShiftRecord `json:"night"`
}

// ParseStats mirrors the row accounting of the last parse
type ParseStats struct {
	Rows           int `json:"rows"`
	Retained       int `json:"retained"`
	Dropped        int `json:"dropped"`
	MalformedDates int `json:"malformed_dates"`
	ShortRows      int `json:"short_rows"`
}

// StatusResponse describes the outcome of the most recent load
type StatusResponse struct {
	State          string     `json:"state"`
	Origin         string     `json:"origin,omitempty"`
	LoadedAt       *time.Time `json:"loaded_at,omitempty"`
	AttemptedAt    *time.Time `json:"attempted_at,omitempty"`
	DurationMS     int64      `json:"duration_ms"`
	Records        int        `json:"records"`
	Dates          int        `json:"dates"`
	Undated        int        `json:"undated"`
	Stats          ParseStats `json:"stats"`
	MissingColumns []string   `json:"missing_columns,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// ThemeResponse reports the effective theme of a client
type ThemeResponse struct {
	ClientID string `json:"client_id"`
	Theme    string `json:"theme"`
}
