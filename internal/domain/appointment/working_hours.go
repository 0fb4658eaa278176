package appointment

import (
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// WorkingIntervals resolves a weekday row into concrete intervals on day.
// A lunch break splits the day in two. A missing or inactive row is a
// closed day and yields no intervals.
func WorkingIntervals(wh *models.WorkingHours, day time.Time) ([]Interval, error) {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return nil, nil
	}

	workStart, err := clockOn(day, wh.StartTime)
	if err != nil {
		return nil, err
	}
	workEnd, err := clockOn(day, wh.EndTime)
	if err != nil {
		return nil, err
	}
	if !workStart.Before(workEnd) {
		return nil, httperr.ErrValidation("invalid_working_hours")
	}

	if wh.LunchStart == "" || wh.LunchEnd == "" {
		return []Interval{{Start: workStart, End: workEnd}}, nil
	}

	lunchStart, err := clockOn(day, wh.LunchStart)
	if err != nil {
		return nil, err
	}
	lunchEnd, err := clockOn(day, wh.LunchEnd)
	if err != nil {
		return nil, err
	}
	if !lunchStart.Before(lunchEnd) {
		return nil, httperr.ErrValidation("invalid_working_hours")
	}

	var out []Interval
	if workStart.Before(lunchStart) {
		out = append(out, Interval{Start: workStart, End: minTime(lunchStart, workEnd)})
	}
	if lunchEnd.Before(workEnd) {
		out = append(out, Interval{Start: maxTime(lunchEnd, workStart), End: workEnd})
	}
	return out, nil
}

// ValidateWorkingHours checks the HH:MM fields of a weekday row.
func ValidateWorkingHours(wh models.WorkingHours) error {
	if wh.Weekday < 0 || wh.Weekday > 6 {
		return httperr.ErrValidation("invalid_working_hours")
	}
	if !wh.Active {
		return nil
	}
	_, err := WorkingIntervals(&wh, time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC))
	return err
}

// FitsWorkingHours reports whether window lies entirely inside one of the
// working intervals.
func FitsWorkingHours(intervals []Interval, window Interval) bool {
	for _, iv := range intervals {
		if iv.Contains(window) {
			return true
		}
	}
	return false
}

// clockOn places an HH:MM wall clock on day. "24:00" is the next midnight.
func clockOn(day time.Time, hm string) (time.Time, error) {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	if hm == "24:00" {
		return midnight.AddDate(0, 0, 1), nil
	}

	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_working_hours")
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), nil
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
