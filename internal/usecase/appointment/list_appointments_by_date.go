package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/dto"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lists the day agenda of the tenant. A nil professionalID lists
// every professional.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	professionalID *uuid.UUID,
	date string,
) ([]dto.AppointmentListDTO, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(tenant.Timezone, date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}
	start, end := timezone.DayBounds(day)

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, domain.PeriodFilter{
		TenantID:       tenantID,
		ProfessionalID: professionalID,
		Start:          start,
		End:            end,
	})
	if err != nil {
		return nil, err
	}

	return dto.FromAppointments(appointments), nil
}
