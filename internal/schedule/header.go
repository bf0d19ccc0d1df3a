package schedule

import "strings"

// NotFound is the position reported for a column absent from the header.
const NotFound = -1

// ColumnIndex maps logical field names to header positions.
type ColumnIndex map[string]int

// Position returns the column position of field, or NotFound.
func (ci ColumnIndex) Position(field string) int {
	if pos, ok := ci[field]; ok {
		return pos
	}
	return NotFound
}

// HeaderPosition returns the position of the first header cell that equals name after
// trimming both sides. The match is case-sensitive.
func HeaderPosition(header RawRow, name string) int {
	name = strings.TrimSpace(name)
	for i, cell := range header {
		if strings.TrimSpace(cell) == name {
			return i
		}
	}
	return NotFound
}

// ResolveHeader maps every column in cols to its header position. If any column is
// missing the result is nil and the error is a *MissingColumnsError naming all of
// them.
func ResolveHeader(header RawRow, cols ColumnSet) (ColumnIndex, error) {
	index := make(ColumnIndex, len(cols))
	var missing []string
	for _, c := range cols {
		pos := HeaderPosition(header, c.Header)
		if pos == NotFound {
			missing = append(missing, c.Header)
			continue
		}
		index[c.Field] = pos
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}
	return index, nil
}
