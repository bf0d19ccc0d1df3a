package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// HTTPSource downloads a CSV schedule, typically a published spreadsheet export
type HTTPSource struct {
	url      string
	client   *http.Client
	maxBytes int64
	logger   *slog.Logger
}

// NewHTTPSource creates an HTTP source
func NewHTTPSource(url string, timeout time.Duration, maxBytes int64, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		url:      url,
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", "http_source")),
	}
}

// Describe implements Source
func (s *HTTPSource) Describe() string { return s.url }

// Fetch implements Source
func (s *HTTPSource) Fetch(ctx context.Context) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, acquisitionError(s.url, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	req.Header.Set("User-Agent", "shiftboard")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, acquisitionError(s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, acquisitionError(s.url, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := readCapped(resp.Body, s.maxBytes)
	if err != nil {
		return nil, acquisitionError(s.url, err)
	}

	s.logger.DebugContext(ctx, "schedule downloaded",
		slog.Int("bytes", len(body)),
		slog.Duration("duration", time.Since(start)))

	return &Document{
		Text:      string(body),
		Origin:    s.url,
		FetchedAt: time.Now(),
	}, nil
}
