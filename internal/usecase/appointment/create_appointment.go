package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

const (
	SourcePublicPage = "public_page"
	SourceDashboard  = "dashboard"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	TenantID       uuid.UUID
	ProfessionalID uuid.UUID
	ServiceID      uuid.UUID

	StartTime time.Time
	Client    domain.ClientData
	Notes     string

	Source string
	UserID *uuid.UUID
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	Deps
}

func NewCreateAppointment(deps Deps) *CreateAppointment {
	return &CreateAppointment{Deps: deps}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute books one appointment. The availability check and the insert run
// in the same transaction under the professional lock, so two concurrent
// requests for the same window cannot both succeed.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (ap *models.Appointment, err error) {

	defer func() { uc.Metrics.ObserveBooking(in.Source, bookingOutcome(err)) }()

	// --------------------------------------------------
	// 1️⃣ Tenant
	// --------------------------------------------------
	tenant, err := uc.Repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(tenant.Timezone)

	// --------------------------------------------------
	// 2️⃣ Cliente
	// --------------------------------------------------
	in.Client.Name = strings.TrimSpace(in.Client.Name)
	in.Client.Phone = strings.TrimSpace(in.Client.Phone)
	if in.Client.Name == "" || in.Client.Phone == "" {
		return nil, httperr.ErrValidation("missing_client")
	}

	// --------------------------------------------------
	// 3️⃣ Profissional + serviço
	// --------------------------------------------------
	pro, svc, err := loadCatalog(ctx, uc.Repo, in.TenantID, in.ProfessionalID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	if in.StartTime.IsZero() {
		return nil, httperr.ErrValidation("invalid_date_or_time")
	}
	start := in.StartTime.In(loc)

	// --------------------------------------------------
	// 4️⃣ Antecedência mínima
	// --------------------------------------------------
	rules := domain.RulesFor(tenant, pro, svc, uc.now().In(loc))
	if start.Before(rules.EarliestStart) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// 5️⃣ Expediente do dia
	// --------------------------------------------------
	day, _ := timezone.DayBounds(start)
	working, err := workingIntervalsOn(ctx, uc.Repo, pro.ID, day)
	if err != nil {
		return nil, err
	}

	window := rules.Window(start)

	// --------------------------------------------------
	// 6️⃣ Check-and-insert sob lock do profissional
	// --------------------------------------------------
	err = uc.Repo.WithProfessionalLock(ctx, pro.ID, func(tx domain.Repository) error {
		aps, err := tx.ListOccupying(ctx, pro.ID, window.Start, window.End)
		if err != nil {
			return err
		}

		if err := domain.CheckBookable(working, domain.OccupiedIntervals(aps), rules, window); err != nil {
			return err
		}

		client, err := tx.GetOrCreateClient(ctx, in.TenantID, in.Client)
		if err != nil {
			return err
		}

		ap = &models.Appointment{
			TenantID:       in.TenantID,
			ProfessionalID: pro.ID,
			ServiceID:      svc.ID,
			ClientID:       client.ID,
			StartTime:      start,
			EndTime:        start.Add(rules.Duration),
			Status:         string(domain.InitialStatus()),
			Source:         in.Source,
			Notes:          in.Notes,
		}

		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	ap.Professional = *pro
	ap.Service = *svc

	uc.invalidate(ctx, pro.ID)

	// --------------------------------------------------
	// 7️⃣ Auditoria
	// --------------------------------------------------
	uc.Audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"source": in.Source},
	})

	return ap, nil
}
