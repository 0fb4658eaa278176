package repository

import (
	"context"
	"errors"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// notFound turns gorm.ErrRecordNotFound into a NotFound business error.
func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *AppointmentGormRepository) GetTenantByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&tenant).Error; err != nil {
		return nil, notFound(err, "tenant_not_found")
	}
	return &tenant, nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	tenantID uuid.UUID,
	professionalID uuid.UUID,
) (*models.Professional, error) {

	var pro models.Professional
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", professionalID, tenantID).
		First(&pro).Error; err != nil {
		return nil, notFound(err, "professional_not_found")
	}
	return &pro, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	tenantID uuid.UUID,
	serviceID uuid.UUID,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", serviceID, tenantID).
		First(&svc).Error; err != nil {
		return nil, notFound(err, "service_not_found")
	}
	return &svc, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

// GetOrCreateClient inserts with ON CONFLICT DO NOTHING so a concurrent
// insert of the same phone does not abort the surrounding transaction.
func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	tenantID uuid.UUID,
	data domain.ClientData,
) (*models.Client, error) {

	db := r.db.WithContext(ctx)

	var client models.Client
	err := db.
		Where("tenant_id = ? AND phone = ?", tenantID, data.Phone).
		First(&client).Error
	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		TenantID: tenantID,
		Name:     data.Name,
		Phone:    data.Phone,
		Email:    data.Email,
	}

	if err := db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "phone"}},
			DoNothing: true,
		}).
		Create(&client).Error; err != nil {
		return nil, err
	}

	var stored models.Client
	if err := db.
		Where("tenant_id = ? AND phone = ?", tenantID, data.Phone).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	professionalID uuid.UUID,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &wh, nil
}

func (r *AppointmentGormRepository) ListOccupying(
	ctx context.Context,
	professionalID uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"professional_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			professionalID,
			domain.OccupyingStatuses(),
			end,
			start,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	tenantID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", appointmentID, tenantID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	filter domain.PeriodFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Professional").
		Where(
			"tenant_id = ? AND start_time >= ? AND start_time < ?",
			filter.TenantID,
			filter.Start,
			filter.End,
		)

	if filter.ProfessionalID != nil {
		q = q.Where("professional_id = ?", *filter.ProfessionalID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Locking
// --------------------------------------------------

// WithProfessionalLock opens a transaction and takes a transaction-scoped
// advisory lock keyed by the professional. The lock is released on commit
// or rollback.
func (r *AppointmentGormRepository) WithProfessionalLock(
	ctx context.Context,
	professionalID uuid.UUID,
	fn func(tx domain.Repository) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", lockKey(professionalID)).Error; err != nil {
			return err
		}
		return fn(&AppointmentGormRepository{db: tx})
	})
}

func lockKey(id uuid.UUID) int64 {
	h := fnv.New64a()
	_, _ = h.Write(id[:])
	return int64(h.Sum64())
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
