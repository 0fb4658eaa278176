package appointment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

type UpdateStatusInput struct {
	TenantID      uuid.UUID
	AppointmentID uuid.UUID
	Status        string
	Reason        string
	UserID        *uuid.UUID
}

// UpdateStatus confirms, starts, completes, cancels or marks a no-show.
// Moving to RESCHEDULED goes through RescheduleAppointment.
type UpdateStatus struct {
	Deps
}

func NewUpdateStatus(deps Deps) *UpdateStatus {
	return &UpdateStatus{Deps: deps}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Appointment, error) {

	to, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if to == domain.StatusRescheduled {
		return nil, httperr.ErrValidation("use_reschedule")
	}

	tenant, err := uc.Repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	current, err := uc.Repo.GetAppointment(ctx, in.TenantID, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if domain.Status(current.Status).IsTerminal() {
		return nil, httperr.ErrConflict("invalid_state")
	}

	var ap *models.Appointment
	err = uc.Repo.WithProfessionalLock(ctx, current.ProfessionalID, func(tx domain.Repository) error {
		ap, err = tx.GetAppointment(ctx, in.TenantID, in.AppointmentID)
		if err != nil {
			return err
		}

		now := uc.now().In(timezone.Location(tenant.Timezone))
		if err := domain.Transition(ap, to, now, strings.TrimSpace(in.Reason)); err != nil {
			return err
		}

		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	if !to.IsOccupying() {
		uc.invalidate(ctx, ap.ProfessionalID)
	}

	uc.Audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.UserID,
		Action:   "appointment_" + strings.ToLower(string(to)),
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
