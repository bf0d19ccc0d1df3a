// Package render turns a day's schedule into output: an HTML page for the web
// UI and lipgloss tables for the terminal.
package render

import "shiftboard/internal/schedule"

// Columns are the headings of every shift table, in cell order.
var Columns = []string{"Truck", "Departure Time", "Driver", "Run", "Off", "Destination"}

// Table is one titled block of shift rows
type Table struct {
	Title string
	Rows  [][]string
}

// Cells returns the displayed cells of r in Columns order. Empty fields stay
// empty.
func Cells(r schedule.Record) []string {
	return []string{r.Truck, r.Start, r.Driver, r.Run, r.Off, r.Destination}
}

// Tables splits day into its Day and Night tables. A period with no records
// produces no table.
func Tables(day schedule.DaySchedule) []Table {
	var out []Table
	if t, ok := periodTable("Day Shift", day.Day); ok {
		out = append(out, t)
	}
	if t, ok := periodTable("Night Shift", day.Night); ok {
		out = append(out, t)
	}
	return out
}

func periodTable(title string, recs []schedule.Record) (Table, bool) {
	if len(recs) == 0 {
		return Table{}, false
	}
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = Cells(r)
	}
	return Table{Title: title, Rows: rows}, true
}
