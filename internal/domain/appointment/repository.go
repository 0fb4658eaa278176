package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type ClientData struct {
	Name  string
	Phone string
	Email string
}

// PeriodFilter narrows agenda listings. A nil ProfessionalID lists the
// whole tenant.
type PeriodFilter struct {
	TenantID       uuid.UUID
	ProfessionalID *uuid.UUID
	Start          time.Time
	End            time.Time
}

type Repository interface {
	// -------- Tenant --------
	GetTenantByID(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Tenant, error)

	// -------- Catalog --------
	GetProfessional(
		ctx context.Context,
		tenantID uuid.UUID,
		professionalID uuid.UUID,
	) (*models.Professional, error)

	GetService(
		ctx context.Context,
		tenantID uuid.UUID,
		serviceID uuid.UUID,
	) (*models.Service, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		tenantID uuid.UUID,
		data ClientData,
	) (*models.Client, error)

	// -------- Availability --------

	// GetWorkingHours returns nil, nil when the weekday has no row.
	GetWorkingHours(
		ctx context.Context,
		professionalID uuid.UUID,
		weekday int,
	) (*models.WorkingHours, error)

	// ListOccupying returns SCHEDULED, CONFIRMED and IN_PROGRESS
	// appointments of the professional intersecting [start, end).
	ListOccupying(
		ctx context.Context,
		professionalID uuid.UUID,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		tenantID uuid.UUID,
		appointmentID uuid.UUID,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListAppointmentsForPeriod(
		ctx context.Context,
		filter PeriodFilter,
	) ([]models.Appointment, error)

	// WithProfessionalLock runs fn in one transaction holding an exclusive
	// per-professional lock. fn must use the Repository it receives.
	WithProfessionalLock(
		ctx context.Context,
		professionalID uuid.UUID,
		fn func(tx Repository) error,
	) error
}
