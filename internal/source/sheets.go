package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"shiftboard/internal/schedule"
)

// SheetsConfig selects a Google Sheets range and how to authenticate
type SheetsConfig struct {
	SpreadsheetID   string
	Range           string
	APIKey          string
	CredentialsFile string
	Timeout         time.Duration
	// Endpoint overrides the API base URL; used against test servers.
	Endpoint string
}

// SheetsSource reads a range through the Sheets v4 values API
type SheetsSource struct {
	cfg SheetsConfig

	once    sync.Once
	service *sheets.Service
	initErr error
}

// NewSheetsSource creates a Sheets source. The API client is built on first fetch.
func NewSheetsSource(cfg SheetsConfig) *SheetsSource {
	if cfg.Range == "" {
		cfg.Range = "A:Z"
	}
	return &SheetsSource{cfg: cfg}
}

// Describe implements Source
func (s *SheetsSource) Describe() string {
	return fmt.Sprintf("sheets:%s!%s", s.cfg.SpreadsheetID, s.cfg.Range)
}

func (s *SheetsSource) client(ctx context.Context) (*sheets.Service, error) {
	s.once.Do(func() {
		opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
		switch {
		case s.cfg.CredentialsFile != "":
			opts = append(opts, option.WithCredentialsFile(s.cfg.CredentialsFile))
		case s.cfg.APIKey != "":
			opts = append(opts, option.WithAPIKey(s.cfg.APIKey))
		default:
			opts = append(opts, option.WithoutAuthentication())
		}
		if s.cfg.Endpoint != "" {
			opts = append(opts, option.WithEndpoint(s.cfg.Endpoint))
		}
		s.service, s.initErr = sheets.NewService(context.WithoutCancel(ctx), opts...)
	})
	return s.service, s.initErr
}

// Fetch implements Source
func (s *SheetsSource) Fetch(ctx context.Context) (*Document, error) {
	svc, err := s.client(ctx)
	if err != nil {
		return nil, acquisitionError(s.Describe(), err)
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, s.cfg.Range).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, acquisitionError(s.Describe(), err)
	}

	return &Document{
		Rows:      valuesToRows(resp.Values),
		Origin:    s.Describe(),
		FetchedAt: time.Now(),
	}, nil
}

func valuesToRows(values [][]interface{}) []schedule.RawRow {
	rows := make([]schedule.RawRow, 0, len(values))
	for _, v := range values {
		row := make(schedule.RawRow, len(v))
		for i, cell := range v {
			if cell != nil {
				row[i] = fmt.Sprint(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
