package schedule

import (
	"strconv"
	"strings"
)

// Record is one retained schedule row. Empty strings mean "no value"; the zero
// sentinel never survives normalization.
type Record struct {
	Truck       string `json:"truck"`
	Start       string `json:"start"`
	Driver      string `json:"driver"`
	Run         string `json:"run"`
	Off         string `json:"off"`
	Destination string `json:"destination"`
	Shift       string `json:"shift"`
	DateKey     string `json:"date_key"`
	DisplayDate string `json:"display_date"`
	// Line is the 1-based input line the record came from.
	Line int `json:"line"`
}

// TruckRank is the numeric order of the truck identifier: the value of its leading
// digits with an optional sign, or 0 when there are none.
func (r Record) TruckRank() int {
	return truckRank(r.Truck)
}

// HasData reports whether any observable field carries a value.
func (r Record) HasData() bool {
	for _, v := range r.values() {
		if v != "" {
			return true
		}
	}
	return false
}

func (r Record) values() []string {
	return []string{r.Truck, r.Start, r.Driver, r.Run, r.Off, r.Destination, r.Shift, r.DateKey}
}

// Normalizer builds records from data rows for a resolved header.
type Normalizer struct {
	opts  Options
	index ColumnIndex
}

// NewNormalizer returns a normalizer reading fields through index.
func NewNormalizer(index ColumnIndex, opts Options) *Normalizer {
	return &Normalizer{opts: opts, index: index}
}

// Normalize builds a record from row. keep is false when the retention policy rejects
// the row. rawDate is the trimmed source date so callers can tell an
// empty date from a malformed one.
func (n *Normalizer) Normalize(row RawRow, line int) (rec Record, rawDate string, keep bool) {
	rawDate = n.field(row, FieldDate)
	rec = Record{
		Truck:       n.field(row, FieldTruck),
		Start:       n.field(row, FieldStart),
		Driver:      n.name(n.field(row, FieldDriver)),
		Run:         n.run(n.field(row, FieldRun)),
		Off:         n.name(n.field(row, FieldOff)),
		Destination: n.field(row, FieldDestination),
		Shift:       n.field(row, FieldShift),
		Line:        line,
	}
	if rawDate != "" {
		rec.DateKey = NormalizeDate(rawDate)
		rec.DisplayDate = DisplayDate(rec.DateKey)
	}
	return rec, rawDate, n.retain(rec)
}

// field reads, trims and blanks the zero sentinel. Absent columns read as "".
func (n *Normalizer) field(row RawRow, field string) string {
	pos := n.index.Position(field)
	if pos == NotFound {
		return ""
	}
	v, ok := row.Field(pos)
	if !ok {
		return ""
	}
	return blankSentinel(strings.TrimSpace(v))
}

func (n *Normalizer) name(v string) string {
	if n.opts.Driver != DriverFirstToken || v == "" {
		return v
	}
	return blankSentinel(strings.Fields(v)[0])
}

func (n *Normalizer) run(v string) string {
	if n.opts.Run != RunCleaned || v == "" {
		return v
	}
	v = strings.TrimPrefix(v, `"`)
	v = strings.TrimSuffix(v, `"`)
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return blankSentinel(strings.Join(parts, RunSeparator))
}

func (n *Normalizer) retain(rec Record) bool {
	switch n.opts.Retention {
	case RetainStrict:
		if rec.Start == "" {
			return false
		}
		for _, v := range []string{rec.Truck, rec.Driver, rec.Run, rec.Off, rec.Destination, rec.Shift, rec.DateKey} {
			if v != "" {
				return true
			}
		}
		return false
	default:
		return rec.Driver != "" && rec.HasData()
	}
}

func blankSentinel(v string) string {
	if v == ZeroSentinel {
		return ""
	}
	return v
}

func truckRank(truck string) int {
	truck = strings.TrimSpace(truck)
	end := 0
	if end < len(truck) && (truck[0] == '-' || truck[0] == '+') {
		end++
	}
	digits := end
	for end < len(truck) && truck[end] >= '0' && truck[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(truck[:end])
	if err != nil {
		return 0
	}
	return n
}
