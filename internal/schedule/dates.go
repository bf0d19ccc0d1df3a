package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	keyLayout     = "2006-01-02"
	displayLayout = "02/01/2006"
)

// NormalizeDate converts source date text into a canonical YYYY-MM-DD key.
//
// Dash-separated text is read as year-month-day. Slash-separated text is read as
// month/day/year; when the final segment is greater than 31 it is certainly a year,
// and if the first segment then exceeds 12 while the second does not, the first two
// segments are read as day/month instead. Two-digit years are taken as 20YY. Anything
// else, including impossible calendar dates, yields "".
func NormalizeDate(text string) string {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return ""
	case strings.Count(text, "-") == 2:
		parts, ok := atoiAll(strings.Split(text, "-"))
		if !ok {
			return ""
		}
		return formatKey(parts[0], parts[1], parts[2])
	case strings.Count(text, "/") == 2:
		parts, ok := atoiAll(strings.Split(text, "/"))
		if !ok {
			return ""
		}
		month, day, year := parts[0], parts[1], parts[2]
		if year > 31 && month > 12 && day <= 12 {
			month, day = day, month
		}
		return formatKey(year, month, day)
	default:
		return ""
	}
}

// DisplayDate renders a canonical key as DD/MM/YYYY, or "" for an invalid key.
func DisplayDate(key string) string {
	t, err := time.Parse(keyLayout, key)
	if err != nil {
		return ""
	}
	return t.Format(displayLayout)
}

// ParseDisplayDate is the inverse of DisplayDate.
func ParseDisplayDate(display string) (string, error) {
	t, err := time.Parse(displayLayout, strings.TrimSpace(display))
	if err != nil {
		return "", fmt.Errorf("parse display date %q: %w", display, err)
	}
	return t.Format(keyLayout), nil
}

// KeyTime returns the calendar date of a canonical key.
func KeyTime(key string) (time.Time, bool) {
	t, err := time.Parse(keyLayout, key)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func atoiAll(parts []string) ([]int, bool) {
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func formatKey(year, month, day int) string {
	if year < 100 {
		year += 2000
	}
	if year > 9999 || month < 1 || month > 12 || day < 1 {
		return ""
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow, e.g. Feb 30 -> Mar 2.
	if t.Day() != day || int(t.Month()) != month {
		return ""
	}
	return t.Format(keyLayout)
}
