package schedule

import (
	"fmt"
	"sort"
)

// ParseStats counts what happened to the data rows of one parse.
type ParseStats struct {
	Rows           int `json:"rows"`
	Retained       int `json:"retained"`
	Dropped        int `json:"dropped"`
	MalformedDates int `json:"malformed_dates"`
	ShortRows      int `json:"short_rows"`
}

// DaySchedule is the Day and Night view of one date, each in truck order.
type DaySchedule struct {
	DateKey     string   `json:"date_key"`
	DisplayDate string   `json:"display_date"`
	Day         []Record `json:"day"`
	Night       []Record `json:"night"`
}

// Empty reports whether neither period has records.
func (d DaySchedule) Empty() bool {
	return len(d.Day) == 0 && len(d.Night) == 0
}

// Collection is an immutable set of records with its derived views. Accessors return
// copies, so callers cannot change a collection after it is built.
type Collection struct {
	records []Record
	dates   []string
	days    map[string]DaySchedule
	undated []Record
	stats   ParseStats
}

// Parse runs the full pipeline over delimited text. A structural error returns a nil
// collection; row-level problems are absorbed and counted in Stats.
func Parse(text string, opts Options) (*Collection, error) {
	return ParseRows(Tokenize(text), opts)
}

// ParseRows runs header resolution, normalization and grouping over rows that were
// already split into fields. The first row is the header.
func ParseRows(rows []RawRow, opts Options) (*Collection, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	index, err := ResolveHeader(rows[0], opts.Columns)
	if err != nil {
		return nil, err
	}

	width := 0
	for _, pos := range index {
		if pos+1 > width {
			width = pos + 1
		}
	}

	norm := NewNormalizer(index, opts)
	var (
		records []Record
		stats   ParseStats
	)
	for i, row := range rows[1:] {
		stats.Rows++
		if len(row) < width {
			stats.ShortRows++
		}
		rec, rawDate, keep := norm.Normalize(row, i+2)
		if !keep {
			stats.Dropped++
			continue
		}
		if rawDate != "" && rec.DateKey == "" {
			stats.MalformedDates++
		}
		records = append(records, rec)
	}
	stats.Retained = len(records)

	c := NewCollection(records)
	c.stats = stats
	return c, nil
}

// NewCollection derives the date list and Day/Night groups from records. Records
// keep their input order except inside a period, where they are stably sorted by
// truck rank.
func NewCollection(records []Record) *Collection {
	c := &Collection{
		records: append([]Record(nil), records...),
		days:    make(map[string]DaySchedule),
	}
	c.stats.Retained = len(records)

	for _, rec := range c.records {
		if rec.DateKey == "" {
			c.undated = append(c.undated, rec)
			continue
		}
		day, seen := c.days[rec.DateKey]
		if !seen {
			c.dates = append(c.dates, rec.DateKey)
			day = DaySchedule{DateKey: rec.DateKey, DisplayDate: rec.DisplayDate}
		}
		switch rec.Shift {
		case PeriodDay:
			day.Day = append(day.Day, rec)
		case PeriodNight:
			day.Night = append(day.Night, rec)
		}
		c.days[rec.DateKey] = day
	}

	sort.Strings(c.dates)
	for key, day := range c.days {
		sortByTruck(day.Day)
		sortByTruck(day.Night)
		c.days[key] = day
	}
	return c
}

// Empty returns a collection with no records.
func Empty() *Collection {
	return NewCollection(nil)
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// Records returns every record in input order.
func (c *Collection) Records() []Record {
	return append([]Record(nil), c.records...)
}

// Dates returns the distinct non-empty date keys in ascending order.
func (c *Collection) Dates() []string {
	return append([]string(nil), c.dates...)
}

// HasDate reports whether key is one of the collection's dates.
func (c *Collection) HasDate(key string) bool {
	_, ok := c.days[key]
	return ok
}

// Schedule returns the Day and Night records of key. Records whose shift is neither
// Day nor Night are in neither list.
func (c *Collection) Schedule(key string) (DaySchedule, bool) {
	day, ok := c.days[key]
	if !ok {
		return DaySchedule{}, false
	}
	return DaySchedule{
		DateKey:     day.DateKey,
		DisplayDate: day.DisplayDate,
		Day:         append([]Record(nil), day.Day...),
		Night:       append([]Record(nil), day.Night...),
	}, true
}

// Undated returns records whose date was empty or malformed.
func (c *Collection) Undated() []Record {
	return append([]Record(nil), c.undated...)
}

// Stats returns the counters of the parse that built the collection.
func (c *Collection) Stats() ParseStats {
	return c.stats
}

// SortedByDate returns all records ordered by date key, empty keys first, keeping
// input order between equal keys.
func (c *Collection) SortedByDate() []Record {
	out := c.Records()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateKey < out[j].DateKey
	})
	return out
}

func sortByTruck(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].TruckRank() < recs[j].TruckRank()
	})
}
