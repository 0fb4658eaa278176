package appointment

import (
	"sort"
)

// GenerateSlots walks every working interval in Step increments and
// returns one candidate per start whose buffered window still fits the
// interval. A partial tail is dropped, never truncated. Candidates that
// overlap busy time at capacity, or start before EarliestStart, are kept
// with Available=false. The result is ordered by start.
func GenerateSlots(working []Interval, busy []Interval, rules SlotRules) []Slot {
	effective := rules.EffectiveDuration()
	if rules.Duration <= 0 || effective <= 0 {
		return []Slot{}
	}

	step := rules.Step
	if step <= 0 {
		step = rules.Duration
	}

	capacity := rules.capacity()
	slots := make([]Slot, 0)

	for _, iv := range working {
		for ws := iv.Start; !ws.Add(effective).After(iv.End); ws = ws.Add(step) {
			start := ws.Add(rules.BufferBefore)
			window := Interval{Start: ws, End: ws.Add(effective)}

			available := PeakOverlap(window, busy) < capacity
			if available && !rules.EarliestStart.IsZero() && start.Before(rules.EarliestStart) {
				available = false
			}

			slots = append(slots, Slot{
				StartTime: start,
				EndTime:   start.Add(rules.Duration),
				Available: available,
			})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})
	return slots
}

// CheckBookable re-runs the availability test for a single start time. It
// is the write-time counterpart of GenerateSlots: the window must fit the
// working hours and stay under capacity against busy.
func CheckBookable(working []Interval, busy []Interval, rules SlotRules, window Interval) error {
	if !FitsWorkingHours(working, window) {
		return errOutsideWorkingHours
	}
	if PeakOverlap(window, busy) >= rules.capacity() {
		return errTimeConflict
	}
	return nil
}

// AvailableOnly filters a slot list down to the bookable entries.
func AvailableOnly(slots []Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}
