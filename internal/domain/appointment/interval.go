package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i Interval) Contains(o Interval) bool {
	return !o.Start.Before(i.Start) && !o.End.After(i.End)
}

// OccupiedIntervals keeps the appointments that block calendar space,
// ordered by start.
func OccupiedIntervals(aps []models.Appointment) []Interval {
	out := make([]Interval, 0, len(aps))
	for _, ap := range aps {
		if !Status(ap.Status).IsOccupying() {
			continue
		}
		out = append(out, Interval{Start: ap.StartTime, End: ap.EndTime})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// PeakOverlap returns the largest number of busy intervals active at the
// same instant inside window.
func PeakOverlap(window Interval, busy []Interval) int {
	type edge struct {
		at    time.Time
		delta int
	}

	var edges []edge
	for _, b := range busy {
		if !b.Overlaps(window) {
			continue
		}
		start, end := b.Start, b.End
		if start.Before(window.Start) {
			start = window.Start
		}
		if end.After(window.End) {
			end = window.End
		}
		edges = append(edges, edge{start, 1}, edge{end, -1})
	}

	// closing edges first at the same instant: back-to-back is not overlap
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].at.Equal(edges[j].at) {
			return edges[i].delta < edges[j].delta
		}
		return edges[i].at.Before(edges[j].at)
	})

	peak, cur := 0, 0
	for _, e := range edges {
		cur += e.delta
		if cur > peak {
			peak = cur
		}
	}
	return peak
}
