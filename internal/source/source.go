// Package source fetches raw schedule documents from local files, HTTP
// endpoints, Excel workbooks or Google Sheets.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shiftboard/internal/config"
	"shiftboard/internal/schedule"
)

// ErrAcquisition matches every fetch failure
var ErrAcquisition = errors.New("schedule source unavailable")

// AcquisitionError wraps a fetch failure with the source it came from
type AcquisitionError struct {
	Source string
	Err    error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// Is reports ErrAcquisition so callers need not know the concrete type
func (e *AcquisitionError) Is(target error) bool {
	return target == ErrAcquisition
}

func acquisitionError(src string, err error) error {
	return &AcquisitionError{Source: src, Err: err}
}

// Document is one fetched schedule. Text sources set Text; spreadsheet sources
// set Rows with the header row first.
type Document struct {
	Text      string
	Rows      []schedule.RawRow
	Origin    string
	FetchedAt time.Time
}

// Parse runs the schedule pipeline over whichever form the document carries
func (d *Document) Parse(opts schedule.Options) (*schedule.Collection, error) {
	if d.Rows != nil {
		return schedule.ParseRows(d.Rows, opts)
	}
	return schedule.Parse(d.Text, opts)
}

// Source fetches the current schedule document
type Source interface {
	Fetch(ctx context.Context) (*Document, error)
	Describe() string
}

// New builds the source selected by cfg.Kind
func New(cfg config.SourceConfig, logger *slog.Logger) (Source, error) {
	switch cfg.Kind {
	case config.SourceFile:
		return NewFileSource(cfg.Path, cfg.MaxBytes), nil
	case config.SourceHTTP:
		return NewHTTPSource(cfg.URL, cfg.Timeout, cfg.MaxBytes, logger), nil
	case config.SourceXLSX:
		return NewXLSXSource(cfg.Path, cfg.Sheet), nil
	case config.SourceSheets:
		return NewSheetsSource(SheetsConfig{
			SpreadsheetID:   cfg.SpreadsheetID,
			Range:           cfg.Range,
			APIKey:          cfg.APIKey,
			CredentialsFile: cfg.CredentialsFile,
			Timeout:         cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
