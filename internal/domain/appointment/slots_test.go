package appointment

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

var testDay = time.Date(2031, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hm string) time.Time {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		panic(err)
	}
	return time.Date(testDay.Year(), testDay.Month(), testDay.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

func hours(start, end string) []Interval {
	return []Interval{{Start: at(start), End: at(end)}}
}

func rules(duration, step int) SlotRules {
	return SlotRules{
		Duration: time.Duration(duration) * time.Minute,
		Step:     time.Duration(step) * time.Minute,
	}
}

func starts(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime.Format("15:04"))
	}
	return out
}

func TestGenerateSlotsMorningShift(t *testing.T) {
	slots := GenerateSlots(hours("08:00", "12:00"), nil, rules(30, 30))

	assert.Equal(t,
		[]string{"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
		starts(slots),
	)
	for _, s := range slots {
		assert.True(t, s.Available)
		assert.Equal(t, 30*time.Minute, s.EndTime.Sub(s.StartTime))
	}
	assert.Equal(t, at("12:00"), slots[len(slots)-1].EndTime)
}

func TestGenerateSlotsConfirmedAppointmentBlocksItsSlot(t *testing.T) {
	busy := OccupiedIntervals([]models.Appointment{
		{StartTime: at("09:00"), EndTime: at("09:30"), Status: string(StatusConfirmed)},
	})

	slots := GenerateSlots(hours("08:00", "12:00"), busy, rules(30, 30))

	require.Len(t, slots, 8)
	assert.Equal(t,
		[]string{"08:00", "08:30", "09:30", "10:00", "10:30", "11:00", "11:30"},
		starts(AvailableOnly(slots)),
	)
}

func TestGenerateSlotsIgnoresNonOccupyingStatuses(t *testing.T) {
	for _, st := range []Status{StatusCancelled, StatusCompleted, StatusNoShow, StatusRescheduled} {
		t.Run(string(st), func(t *testing.T) {
			busy := OccupiedIntervals([]models.Appointment{
				{StartTime: at("09:00"), EndTime: at("09:30"), Status: string(st)},
			})

			slots := GenerateSlots(hours("08:00", "12:00"), busy, rules(30, 30))

			assert.Len(t, AvailableOnly(slots), 8)
		})
	}
}

func TestGenerateSlotsClosedDay(t *testing.T) {
	working, err := WorkingIntervals(nil, testDay)
	require.NoError(t, err)

	slots := GenerateSlots(working, nil, rules(30, 30))

	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGenerateSlotsDropsPartialTail(t *testing.T) {
	slots := GenerateSlots(hours("08:00", "09:45"), nil, rules(30, 30))

	assert.Equal(t, []string{"08:00", "08:30", "09:00"}, starts(slots))
}

func TestGenerateSlotsFinerGranularity(t *testing.T) {
	slots := GenerateSlots(hours("08:00", "09:00"), nil, rules(30, 10))

	assert.Equal(t, []string{"08:00", "08:10", "08:20", "08:30"}, starts(slots))
}

func TestGenerateSlotsBackToBackIsNotConflict(t *testing.T) {
	busy := []Interval{{Start: at("08:30"), End: at("09:00")}}

	slots := GenerateSlots(hours("08:00", "09:30"), busy, rules(30, 30))

	require.Len(t, slots, 3)
	assert.True(t, slots[0].Available)
	assert.False(t, slots[1].Available)
	assert.True(t, slots[2].Available)
}

func TestGenerateSlotsWithBuffers(t *testing.T) {
	r := SlotRules{
		Duration:     30 * time.Minute,
		BufferBefore: 10 * time.Minute,
		BufferAfter:  5 * time.Minute,
		Step:         15 * time.Minute,
	}
	busy := []Interval{{Start: at("09:00"), End: at("09:30")}}

	slots := GenerateSlots(hours("08:00", "10:00"), busy, r)

	assert.Equal(t, []string{"08:10", "08:25", "08:40", "08:55", "09:10", "09:25"}, starts(slots))
	assert.Equal(t, []string{"08:10", "08:25"}, starts(AvailableOnly(slots)))

	for _, s := range slots {
		assert.False(t, s.EndTime.Add(r.BufferAfter).After(at("10:00")))
	}
}

func TestGenerateSlotsCapacity(t *testing.T) {
	r := rules(30, 30)
	r.MaxConcurrent = 2

	one := []Interval{{Start: at("09:00"), End: at("09:30")}}
	two := append(one, Interval{Start: at("09:00"), End: at("09:30")})

	slots := GenerateSlots(hours("09:00", "09:30"), one, r)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].Available)

	slots = GenerateSlots(hours("09:00", "09:30"), two, r)
	require.Len(t, slots, 1)
	assert.False(t, slots[0].Available)
}

func TestGenerateSlotsCapacityUsesPeakNotCount(t *testing.T) {
	r := rules(60, 60)
	r.MaxConcurrent = 2
	busy := []Interval{
		{Start: at("09:00"), End: at("09:30")},
		{Start: at("09:30"), End: at("10:00")},
	}

	slots := GenerateSlots(hours("09:00", "10:00"), busy, r)

	require.Len(t, slots, 1)
	assert.True(t, slots[0].Available)
}

func TestGenerateSlotsLeadTime(t *testing.T) {
	r := rules(30, 30)
	r.EarliestStart = at("10:00")

	slots := GenerateSlots(hours("08:00", "12:00"), nil, r)

	require.Len(t, slots, 8)
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, starts(AvailableOnly(slots)))
}

func TestGenerateSlotsLunchSplitsDay(t *testing.T) {
	wh := &models.WorkingHours{
		Active:     true,
		StartTime:  "08:00",
		EndTime:    "12:00",
		LunchStart: "10:00",
		LunchEnd:   "10:45",
	}
	working, err := WorkingIntervals(wh, testDay)
	require.NoError(t, err)

	slots := GenerateSlots(working, nil, rules(30, 30))

	assert.Equal(t, []string{"08:00", "08:30", "09:00", "09:30", "10:45", "11:15"}, starts(slots))
}

func TestGenerateSlotsIdempotent(t *testing.T) {
	busy := []Interval{{Start: at("09:00"), End: at("09:30")}}
	r := rules(30, 15)

	first := GenerateSlots(hours("08:00", "12:00"), busy, r)
	second := GenerateSlots(hours("08:00", "12:00"), busy, r)

	assert.Equal(t, first, second)
}

func TestGenerateSlotsProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		r := SlotRules{
			Duration:     time.Duration(5*(1+rng.Intn(12))) * time.Minute,
			BufferBefore: time.Duration(5*rng.Intn(3)) * time.Minute,
			BufferAfter:  time.Duration(5*rng.Intn(3)) * time.Minute,
			Step:         time.Duration(5*(1+rng.Intn(6))) * time.Minute,
		}
		workStart := at("07:00").Add(time.Duration(15*rng.Intn(8)) * time.Minute)
		workEnd := workStart.Add(time.Duration(60+15*rng.Intn(32)) * time.Minute)
		working := []Interval{{Start: workStart, End: workEnd}}

		var busy []Interval
		for n := rng.Intn(5); n > 0; n-- {
			s := workStart.Add(time.Duration(5*rng.Intn(120)) * time.Minute)
			busy = append(busy, Interval{Start: s, End: s.Add(time.Duration(5*(1+rng.Intn(12))) * time.Minute)})
		}

		slots := GenerateSlots(working, busy, r)

		for j, s := range slots {
			window := r.Window(s.StartTime)
			assert.False(t, window.Start.Add(r.EffectiveDuration()).After(workEnd), "slot exceeds working hours")
			assert.False(t, window.Start.Before(workStart), "slot starts before working hours")

			if j > 0 {
				assert.False(t, s.StartTime.Before(slots[j-1].StartTime), "slots out of order")
			}

			if s.Available {
				for _, b := range busy {
					assert.False(t, window.Overlaps(b), "available slot overlaps busy interval")
				}
			}
		}
	}
}

func TestCheckBookable(t *testing.T) {
	working := hours("08:00", "12:00")
	busy := []Interval{{Start: at("10:00"), End: at("10:30")}}
	r := rules(30, 30)

	assert.NoError(t, CheckBookable(working, busy, r, r.Window(at("09:30"))))
	assert.ErrorIs(t, CheckBookable(working, busy, r, r.Window(at("10:15"))), errTimeConflict)
	assert.ErrorIs(t, CheckBookable(working, busy, r, r.Window(at("11:45"))), errOutsideWorkingHours)
}

func TestPeakOverlap(t *testing.T) {
	window := Interval{Start: at("09:00"), End: at("11:00")}
	busy := []Interval{
		{Start: at("08:30"), End: at("09:30")},
		{Start: at("09:15"), End: at("10:00")},
		{Start: at("09:20"), End: at("09:40")},
		{Start: at("11:00"), End: at("12:00")},
	}

	assert.Equal(t, 3, PeakOverlap(window, busy))
	assert.Equal(t, 0, PeakOverlap(Interval{Start: at("10:00"), End: at("11:00")}, busy))
}
