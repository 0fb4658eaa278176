package appointment

import (
	"strings"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled   Status = "SCHEDULED"
	StatusConfirmed   Status = "CONFIRMED"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusCompleted   Status = "COMPLETED"
	StatusCancelled   Status = "CANCELLED"
	StatusNoShow      Status = "NO_SHOW"
	StatusRescheduled Status = "RESCHEDULED"
)

var transitions = map[Status][]Status{
	StatusScheduled:  {StatusConfirmed, StatusInProgress, StatusCancelled, StatusNoShow, StatusRescheduled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow, StatusRescheduled},
	StatusInProgress: {StatusCompleted},
}

// OccupyingStatuses are the statuses that block calendar space.
func OccupyingStatuses() []string {
	return []string{
		string(StatusScheduled),
		string(StatusConfirmed),
		string(StatusInProgress),
	}
}

func (s Status) IsOccupying() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	_, ok := transitions[s]
	return !ok
}

// ParseStatus accepts any casing of a known status.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(v)))
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted,
		StatusCancelled, StatusNoShow, StatusRescheduled:
		return s, nil
	}
	return "", httperr.ErrValidation("invalid_status")
}

// ===============================
// Validations
// ===============================

func CanTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrConflict("invalid_state")
}

func InitialStatus() Status {
	return StatusScheduled
}
