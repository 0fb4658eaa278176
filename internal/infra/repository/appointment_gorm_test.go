package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestGetTenantByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1 AND active = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetTenantByID(context.Background(), uuid.New())

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "tenant_not_found", be.Code)
	assert.Equal(t, httperr.KindNotFound, be.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfessionalPassesThroughDBErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "professionals"`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetProfessional(context.Background(), uuid.New(), uuid.New())

	require.Error(t, err)
	_, isBusiness := httperr.AsBusiness(err)
	assert.False(t, isBusiness)
}

func TestGetWorkingHoursMissingRowIsClosedDay(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "working_hours" WHERE professional_id = \$1 AND weekday = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	wh, err := repo.GetWorkingHours(context.Background(), uuid.New(), 1)

	assert.NoError(t, err)
	assert.Nil(t, wh)
}

func TestListOccupyingFiltersStatuses(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	proID := uuid.New()
	start := time.Date(2031, 3, 10, 8, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	rows := sqlmock.NewRows([]string{"id", "professional_id", "start_time", "end_time", "status"}).
		AddRow(uuid.NewString(), proID.String(), start.Add(time.Hour), start.Add(90*time.Minute), "CONFIRMED")

	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE professional_id = \$1 AND status IN \(\$2,\$3,\$4\) AND start_time < \$5 AND end_time > \$6 ORDER BY start_time ASC`).
		WithArgs(proID, "SCHEDULED", "CONFIRMED", "IN_PROGRESS", end, start).
		WillReturnRows(rows)

	aps, err := repo.ListOccupying(context.Background(), proID, start, end)

	require.NoError(t, err)
	require.Len(t, aps, 1)
	assert.Equal(t, "CONFIRMED", aps[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithProfessionalLockCommits(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)
	proID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WithArgs(lockKey(proID)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "appointments"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.WithProfessionalLock(context.Background(), proID, func(tx domain.Repository) error {
		return tx.CreateAppointment(context.Background(), &models.Appointment{
			TenantID:       uuid.New(),
			ProfessionalID: proID,
			ServiceID:      uuid.New(),
			ClientID:       uuid.New(),
			StartTime:      time.Date(2031, 3, 10, 9, 0, 0, 0, time.UTC),
			EndTime:        time.Date(2031, 3, 10, 9, 30, 0, 0, time.UTC),
			Status:         "SCHEDULED",
		})
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithProfessionalLockRollsBackOnConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)
	proID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	conflict := httperr.ErrConflict("time_conflict")
	err := repo.WithProfessionalLock(context.Background(), proID, func(domain.Repository) error {
		return conflict
	})

	assert.ErrorIs(t, err, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockKeyIsStable(t *testing.T) {
	id := uuid.MustParse("7f1c2a4e-5b1d-4c1e-9a55-0b1f6f3f8a10")

	assert.Equal(t, lockKey(id), lockKey(id))
	assert.NotEqual(t, lockKey(id), lockKey(uuid.New()))
}

func TestTenantGetBySlugNormalizes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTenantGormRepository(db)

	tenantID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE slug = \$1 AND active = \$2`).
		WithArgs("studio-ana", true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "timezone"}).
			AddRow(tenantID.String(), "studio-ana", "UTC"))

	tenant, err := repo.GetBySlug(context.Background(), "  Studio-Ana ")

	require.NoError(t, err)
	assert.Equal(t, tenantID, tenant.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
