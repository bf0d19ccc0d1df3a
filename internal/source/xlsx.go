package source

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"shiftboard/internal/schedule"
)

// XLSXSource reads one worksheet of an Excel workbook
type XLSXSource struct {
	path  string
	sheet string
}

// NewXLSXSource creates a workbook source. An empty sheet selects the first one.
func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

// Path returns the watched file path
func (s *XLSXSource) Path() string { return s.path }

// Describe implements Source
func (s *XLSXSource) Describe() string {
	if s.sheet == "" {
		return "xlsx:" + s.path
	}
	return fmt.Sprintf("xlsx:%s#%s", s.path, s.sheet)
}

// Fetch implements Source
func (s *XLSXSource) Fetch(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, acquisitionError(s.Describe(), err)
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, acquisitionError(s.Describe(), err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, acquisitionError(s.Describe(), fmt.Errorf("workbook has no sheets"))
		}
		sheet = sheets[0]
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, acquisitionError(s.Describe(), err)
	}

	return &Document{
		Rows:      toRawRows(cells),
		Origin:    s.Describe(),
		FetchedAt: time.Now(),
	}, nil
}

// toRawRows never returns nil, so Document.Parse takes the row path even for an
// empty sheet.
func toRawRows(cells [][]string) []schedule.RawRow {
	rows := make([]schedule.RawRow, 0, len(cells))
	for _, c := range cells {
		rows = append(rows, schedule.RawRow(c))
	}
	return rows
}
