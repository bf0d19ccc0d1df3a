package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"shiftboard/internal/schedule"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4A90E2")).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	oddRowStyle = cellStyle.Foreground(lipgloss.Color("245"))

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// Terminal renders schedules as lipgloss tables
type Terminal struct {
	w io.Writer
}

// NewTerminal writes to w
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Day writes the heading and Day/Night tables of day
func (t *Terminal) Day(day schedule.DaySchedule) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Schedule for " + day.DisplayDate))
	b.WriteString("\n")

	tables := Tables(day)
	if len(tables) == 0 {
		b.WriteString(mutedStyle.Render("No shifts on this date."))
		b.WriteString("\n")
	}
	for _, tbl := range tables {
		b.WriteString(sectionStyle.Render(tbl.Title))
		b.WriteString("\n")
		b.WriteString(TableString(tbl))
		b.WriteString("\n")
	}

	_, err := io.WriteString(t.w, b.String())
	return err
}

// Dates writes one line per date key with its display form and shift counts
func (t *Terminal) Dates(coll *schedule.Collection) error {
	dates := coll.Dates()
	rows := make([][]string, 0, len(dates))
	for _, key := range dates {
		day, _ := coll.Schedule(key)
		rows = append(rows, []string{
			key,
			day.DisplayDate,
			fmt.Sprint(len(day.Day)),
			fmt.Sprint(len(day.Night)),
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Key", "Date", "Day", "Night").
		Rows(rows...).
		StyleFunc(styleRow)

	out := tbl.String() + "\n"
	if n := len(coll.Undated()); n > 0 {
		out += mutedStyle.Render(fmt.Sprintf("%d undated records", n)) + "\n"
	}
	_, err := io.WriteString(t.w, out)
	return err
}

// Notice writes a highlighted message, e.g. a structural error
func (t *Terminal) Notice(msg string) error {
	_, err := io.WriteString(t.w, lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B6B")).
		Bold(true).
		Render(msg)+"\n")
	return err
}

// TableString renders tbl with the shift columns
func TableString(tbl Table) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(Columns...).
		Rows(tbl.Rows...).
		StyleFunc(styleRow).
		String()
}

func styleRow(row, _ int) lipgloss.Style {
	switch {
	case row == table.HeaderRow:
		return headerStyle
	case row%2 == 1:
		return oddRowStyle
	default:
		return cellStyle
	}
}
