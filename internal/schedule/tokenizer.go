package schedule

import "strings"

// RawRow is one tokenized input line. It may be shorter than the header.
type RawRow []string

// Field returns the field at i, or "" and false when the row is too short.
func (r RawRow) Field(i int) (string, bool) {
	if i < 0 || i >= len(r) {
		return "", false
	}
	return r[i], true
}

// byteOrderMark is the UTF-8 BOM spreadsheet exports put before the header
const byteOrderMark = "\ufeff"

// Tokenize splits text into rows on newlines and each row into fields on commas that
// are not inside a pair of double quotes. A comma separates fields only when an even
// number of quote characters precede it on the same line. Quote characters are kept in
// the field. Unbalanced quotes split unpredictably; multi-line quoted fields and escaped
// quotes are not supported. A leading byte order mark is dropped.
func Tokenize(text string) []RawRow {
	text = strings.TrimSpace(strings.TrimPrefix(text, byteOrderMark))
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	rows := make([]RawRow, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, splitLine(line))
	}
	return rows
}

func splitLine(line string) RawRow {
	var (
		fields []string
		quotes int
		start  int
	)
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			quotes++
		case ',':
			if quotes%2 == 0 {
				fields = append(fields, line[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, line[start:])
}
