package appointment

import (
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to the target status and stamps the matching
// timestamp. reason is only kept for cancellations.
func Transition(ap *models.Appointment, to Status, now time.Time, reason string) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	switch to {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusInProgress:
		ap.StartedAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
		ap.CancellationReason = reason
	}

	ap.Status = string(to)
	return nil
}
