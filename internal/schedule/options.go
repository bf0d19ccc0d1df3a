package schedule

import (
	"fmt"
	"strings"
)

// Logical column names.
const (
	FieldDate        = "date"
	FieldTruck       = "truck"
	FieldDriver      = "driver"
	FieldRun         = "run"
	FieldOff         = "off"
	FieldShift       = "shift"
	FieldStart       = "start"
	FieldDestination = "destination"
)

// Shift periods recognised by Collection.Schedule.
const (
	PeriodDay   = "Day"
	PeriodNight = "Night"
)

// DriverPolicy controls how driver and off names are kept.
type DriverPolicy string

const (
	DriverFullName   DriverPolicy = "full"
	DriverFirstToken DriverPolicy = "first"
)

// RunPolicy controls how the run field is kept.
type RunPolicy string

const (
	RunVerbatim RunPolicy = "verbatim"
	RunCleaned  RunPolicy = "cleaned"
)

// RetentionPolicy decides which normalized rows become records.
type RetentionPolicy string

const (
	// RetainLenient keeps a row whose driver is present.
	RetainLenient RetentionPolicy = "lenient"
	// RetainStrict keeps a row with a start time and at least one other value.
	RetainStrict RetentionPolicy = "strict"
)

// ZeroSentinel is the source value meaning "no data".
const ZeroSentinel = "0"

// RunSeparator replaces commas inside a cleaned run.
const RunSeparator = " - "

// Column binds a logical field to the exact header text that carries it.
type Column struct {
	Field  string `yaml:"field" json:"field"`
	Header string `yaml:"header" json:"header"`
}

// ColumnSet is the fixed list of required columns. Fields missing from the set are
// never read and normalize to empty.
type ColumnSet []Column

// Header returns the header text configured for field, or "" when the set does not
// carry it.
func (cs ColumnSet) Header(field string) string {
	for _, c := range cs {
		if c.Field == field {
			return c.Header
		}
	}
	return ""
}

// Validate checks that every column names a known field once and has header text.
func (cs ColumnSet) Validate() error {
	if len(cs) == 0 {
		return fmt.Errorf("column set is empty")
	}
	seen := make(map[string]bool, len(cs))
	headers := make(map[string]bool, len(cs))
	for _, c := range cs {
		if !knownField(c.Field) {
			return fmt.Errorf("unknown field %q", c.Field)
		}
		if seen[c.Field] {
			return fmt.Errorf("field %q listed twice", c.Field)
		}
		if strings.TrimSpace(c.Header) == "" {
			return fmt.Errorf("field %q has no header", c.Field)
		}
		h := strings.TrimSpace(c.Header)
		if headers[h] {
			return fmt.Errorf("header %q used by more than one field", h)
		}
		seen[c.Field] = true
		headers[h] = true
	}
	return nil
}

func knownField(field string) bool {
	switch field {
	case FieldDate, FieldTruck, FieldDriver, FieldRun, FieldOff, FieldShift, FieldStart, FieldDestination:
		return true
	}
	return false
}

// CompactColumns is the short header layout: Date,Truck,Driver,Run,Off,Shift,Start.
func CompactColumns() ColumnSet {
	return ColumnSet{
		{Field: FieldDate, Header: "Date"},
		{Field: FieldTruck, Header: "Truck"},
		{Field: FieldDriver, Header: "Driver"},
		{Field: FieldRun, Header: "Run"},
		{Field: FieldOff, Header: "Off"},
		{Field: FieldShift, Header: "Shift"},
		{Field: FieldStart, Header: "Start"},
	}
}

// DepotColumns is the depot export layout, which also carries a destination.
func DepotColumns() ColumnSet {
	return ColumnSet{
		{Field: FieldDate, Header: "Date"},
		{Field: FieldTruck, Header: "Unit"},
		{Field: FieldDriver, Header: "Driver Name"},
		{Field: FieldRun, Header: "Run"},
		{Field: FieldOff, Header: "Driver (on days off)"},
		{Field: FieldShift, Header: "Shift"},
		{Field: FieldDestination, Header: "Destination"},
		{Field: FieldStart, Header: "Start Time"},
	}
}

// Preset returns a named column set.
func Preset(name string) (ColumnSet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "compact", "":
		return CompactColumns(), nil
	case "depot":
		return DepotColumns(), nil
	default:
		return nil, fmt.Errorf("unknown column preset %q", name)
	}
}

// Options configures parsing. The zero value is not usable; start from DefaultOptions.
type Options struct {
	Columns   ColumnSet
	Driver    DriverPolicy
	Run       RunPolicy
	Retention RetentionPolicy
}

// DefaultOptions uses the compact columns, first-name drivers, cleaned runs and
// lenient retention.
func DefaultOptions() Options {
	return Options{
		Columns:   CompactColumns(),
		Driver:    DriverFirstToken,
		Run:       RunCleaned,
		Retention: RetainLenient,
	}
}

// Validate rejects unknown policies and malformed column sets.
func (o Options) Validate() error {
	if err := o.Columns.Validate(); err != nil {
		return fmt.Errorf("columns: %w", err)
	}
	switch o.Driver {
	case DriverFullName, DriverFirstToken:
	default:
		return fmt.Errorf("unknown driver policy %q", o.Driver)
	}
	switch o.Run {
	case RunVerbatim, RunCleaned:
	default:
		return fmt.Errorf("unknown run policy %q", o.Run)
	}
	switch o.Retention {
	case RetainLenient, RetainStrict:
	default:
		return fmt.Errorf("unknown retention policy %q", o.Retention)
	}
	return nil
}
