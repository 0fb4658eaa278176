package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

type RescheduleInput struct {
	TenantID      uuid.UUID
	AppointmentID uuid.UUID
	StartTime     time.Time
	UserID        *uuid.UUID
}

type RescheduleAppointment struct {
	Deps
}

func NewRescheduleAppointment(deps Deps) *RescheduleAppointment {
	return &RescheduleAppointment{Deps: deps}
}

// Execute moves an appointment to a new start. The old row ends as
// RESCHEDULED and points to the new SCHEDULED row.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	tenant, err := uc.Repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(tenant.Timezone)

	current, err := uc.Repo.GetAppointment(ctx, in.TenantID, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanTransition(domain.Status(current.Status), domain.StatusRescheduled); err != nil {
		return nil, err
	}

	pro, svc, err := loadCatalog(ctx, uc.Repo, in.TenantID, current.ProfessionalID, current.ServiceID)
	if err != nil {
		return nil, err
	}

	if in.StartTime.IsZero() {
		return nil, httperr.ErrValidation("invalid_date_or_time")
	}
	start := in.StartTime.In(loc)
	now := uc.now().In(loc)

	rules := domain.RulesFor(tenant, pro, svc, now)
	if start.Before(rules.EarliestStart) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	day, _ := timezone.DayBounds(start)
	working, err := workingIntervalsOn(ctx, uc.Repo, pro.ID, day)
	if err != nil {
		return nil, err
	}
	window := rules.Window(start)

	var next *models.Appointment
	err = uc.Repo.WithProfessionalLock(ctx, pro.ID, func(tx domain.Repository) error {
		// re-read under the lock; the status may have moved meanwhile
		old, err := tx.GetAppointment(ctx, in.TenantID, in.AppointmentID)
		if err != nil {
			return err
		}

		aps, err := tx.ListOccupying(ctx, pro.ID, window.Start, window.End)
		if err != nil {
			return err
		}
		busy := domain.OccupiedIntervals(excluding(aps, old.ID))

		if err := domain.CheckBookable(working, busy, rules, window); err != nil {
			return err
		}

		next = &models.Appointment{
			TenantID:       old.TenantID,
			ProfessionalID: old.ProfessionalID,
			ServiceID:      old.ServiceID,
			ClientID:       old.ClientID,
			StartTime:      start,
			EndTime:        start.Add(rules.Duration),
			Status:         string(domain.InitialStatus()),
			Source:         old.Source,
			Notes:          old.Notes,
		}
		if err := tx.CreateAppointment(ctx, next); err != nil {
			return err
		}

		if err := domain.Transition(old, domain.StatusRescheduled, now, ""); err != nil {
			return err
		}
		old.RescheduledToID = &next.ID

		return tx.UpdateAppointment(ctx, old)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, pro.ID)

	uc.Audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.UserID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &next.ID,
		Metadata: map[string]string{"from": in.AppointmentID.String()},
	})

	return next, nil
}
