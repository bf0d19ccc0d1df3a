package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStructural marks failures that invalidate the whole parse.
	ErrStructural = errors.New("structural schedule error")

	// ErrMissingColumns is returned when the header lacks a required column.
	ErrMissingColumns = fmt.Errorf("%w: required column missing", ErrStructural)

	// ErrNoHeader is returned for input without any rows.
	ErrNoHeader = fmt.Errorf("%w: no header row", ErrStructural)

	// ErrInvalidOptions is returned when Options fail validation.
	ErrInvalidOptions = errors.New("invalid parse options")
)

// MissingColumnsError lists every required header that could not be found.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Is lets errors.Is match ErrMissingColumns and ErrStructural.
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns || target == ErrStructural
}
