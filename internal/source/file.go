package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// FileSource reads a CSV schedule from disk
type FileSource struct {
	path     string
	maxBytes int64
}

// NewFileSource creates a file source. maxBytes <= 0 means no cap.
func NewFileSource(path string, maxBytes int64) *FileSource {
	return &FileSource{path: path, maxBytes: maxBytes}
}

// Path returns the watched file path
func (s *FileSource) Path() string { return s.path }

// Describe implements Source
func (s *FileSource) Describe() string { return "file:" + s.path }

// Fetch implements Source
func (s *FileSource) Fetch(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, acquisitionError(s.Describe(), err)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, acquisitionError(s.Describe(), err)
	}
	defer f.Close()

	body, err := readCapped(f, s.maxBytes)
	if err != nil {
		return nil, acquisitionError(s.Describe(), err)
	}

	return &Document{
		Text:      string(body),
		Origin:    s.Describe(),
		FetchedAt: time.Now(),
	}, nil
}

// readCapped reads r fully, failing once more than max bytes arrive
func readCapped(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > max {
		return nil, fmt.Errorf("document exceeds %d bytes", max)
	}
	return body, nil
}
