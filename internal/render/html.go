package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"shiftboard/internal/schedule"
)

//go:embed templates/*.tmpl static/*
var assets embed.FS

// DateOption is one entry of the date selector
type DateOption struct {
	Key      string
	Display  string
	Selected bool
}

// Page is everything the schedule page shows
type Page struct {
	Title   string
	Version string
	// Theme is "light" or "dark".
	Theme string
	Dates []DateOption
	// Schedule is nil when no date is selected.
	Schedule *schedule.DaySchedule
	// Notice is shown above the tables, e.g. for a structural error.
	Notice         string
	MissingColumns []string
	Undated        int
	LoadedAt       time.Time
	// ReturnTo is where the theme toggle form redirects.
	ReturnTo string
}

// NewDateOptions builds selector entries for keys, marking selected
func NewDateOptions(keys []string, selected string) []DateOption {
	opts := make([]DateOption, len(keys))
	for i, k := range keys {
		opts[i] = DateOption{Key: k, Display: schedule.DisplayDate(k), Selected: k == selected}
	}
	return opts
}

// ThemeClass is the body class for the page theme
func (p Page) ThemeClass() string {
	if p.Theme == "dark" {
		return "dark-mode"
	}
	return "light-mode"
}

// ToggleLabel names the theme the toggle switches to
func (p Page) ToggleLabel() string {
	if p.Theme == "dark" {
		return "Light Mode"
	}
	return "Dark Mode"
}

// Tables returns the Day and Night tables of the selected date
func (p Page) Tables() []Table {
	if p.Schedule == nil {
		return nil
	}
	return Tables(*p.Schedule)
}

// Columns returns the table headings
func (p Page) Columns() []string {
	return Columns
}

// HTML renders the schedule page from embedded templates
type HTML struct {
	tmpl *template.Template
}

// NewHTML parses the embedded templates
func NewHTML() (*HTML, error) {
	tmpl, err := template.ParseFS(assets, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &HTML{tmpl: tmpl}, nil
}

// Page writes the rendered page to w. Nothing is written if rendering fails.
func (h *HTML) Page(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = "Shift Schedule"
	}
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "page.html.tmpl", p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Static returns the stylesheet and script served under /static/
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
