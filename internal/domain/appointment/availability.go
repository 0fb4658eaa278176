package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type AvailabilityInput struct {
	TenantID       uuid.UUID
	ProfessionalID uuid.UUID
	ServiceID      uuid.UUID
	// Date is a calendar day in the tenant timezone (YYYY-MM-DD).
	Date string
}

// Slot is one offerable appointment. StartTime/EndTime are the service
// interval; buffers are only used for the availability test.
type Slot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Available bool      `json:"available"`
}

// SlotRules carries everything the engine needs besides the calendar.
type SlotRules struct {
	Duration      time.Duration
	BufferBefore  time.Duration
	BufferAfter   time.Duration
	Step          time.Duration
	MaxConcurrent int
	// EarliestStart is now + lead time. Zero disables the check.
	EarliestStart time.Time
}

func (r SlotRules) EffectiveDuration() time.Duration {
	return r.BufferBefore + r.Duration + r.BufferAfter
}

// Window is the interval a booking at start blocks, buffers included.
func (r SlotRules) Window(start time.Time) Interval {
	return Interval{
		Start: start.Add(-r.BufferBefore),
		End:   start.Add(r.Duration + r.BufferAfter),
	}
}

func (r SlotRules) capacity() int {
	if r.MaxConcurrent <= 0 {
		return 1
	}
	return r.MaxConcurrent
}

// RulesFor derives slot rules from the tenant, professional and service
// configuration. Granularity falls back professional → tenant → service.
// Starts in the past are never bookable, lead time or not.
func RulesFor(
	tenant *models.Tenant,
	pro *models.Professional,
	svc *models.Service,
	now time.Time,
) SlotRules {
	step := pro.SlotDuration
	if step <= 0 {
		step = tenant.DefaultSlotDuration
	}
	if step <= 0 {
		step = svc.DurationMin
	}

	rules := SlotRules{
		Duration:      time.Duration(svc.DurationMin) * time.Minute,
		BufferBefore:  time.Duration(svc.BufferBeforeMin) * time.Minute,
		BufferAfter:   time.Duration(svc.BufferAfterMin) * time.Minute,
		Step:          time.Duration(step) * time.Minute,
		MaxConcurrent: svc.MaxConcurrent,
		EarliestStart: now,
	}
	if tenant.MinAdvanceMinutes > 0 {
		rules.EarliestStart = now.Add(time.Duration(tenant.MinAdvanceMinutes) * time.Minute)
	}
	return rules
}
