package http

import (
	"time"

	"shiftboard/internal/schedule"
	"shiftboard/internal/services"
	api "shiftboard/pkg/contracts/api/v1"
)

func toShiftRecords(recs []schedule.Record) []api.ShiftRecord {
	out := make([]api.ShiftRecord, len(recs))
	for i, r := range recs {
		out[i] = api.ShiftRecord{
			Truck:       r.Truck,
			Driver:      r.Driver,
			Run:         r.Run,
			Off:         r.Off,
			Shift:       r.Shift,
			Start:       r.Start,
			Destination: r.Destination,
			DateKey:     r.DateKey,
			DisplayDate: r.DisplayDate,
		}
	}
	return out
}

func toScheduleResponse(day schedule.DaySchedule) api.ScheduleResponse {
	return api.ScheduleResponse{
		DateKey:     day.DateKey,
		DisplayDate: day.DisplayDate,
		Day:         toShiftRecords(day.Day),
		Night:       toShiftRecords(day.Night),
	}
}

func toDateOptions(keys []string) []api.DateOption {
	out := make([]api.DateOption, len(keys))
	for i, k := range keys {
		out[i] = api.DateOption{Key: k, Display: schedule.DisplayDate(k)}
	}
	return out
}

func toStatusResponse(s services.LoadStatus) api.StatusResponse {
	return api.StatusResponse{
		State:       s.State,
		Origin:      s.Origin,
		LoadedAt:    timePtr(s.LoadedAt),
		AttemptedAt: timePtr(s.AttemptedAt),
		DurationMS:  s.Duration.Milliseconds(),
		Records:     s.Records,
		Dates:       s.Dates,
		Undated:     s.Undated,
		Stats: api.ParseStats{
			Rows:           s.Stats.Rows,
			Retained:       s.Stats.Retained,
			Dropped:        s.Stats.Dropped,
			MalformedDates: s.Stats.MalformedDates,
			ShortRows:      s.Stats.ShortRows,
		},
		MissingColumns: s.MissingColumns,
		Error:          s.Error,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
