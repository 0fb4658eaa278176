package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/metrics"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// Deps groups the collaborators shared by the appointment use cases.
// Everything except Repo is optional.
type Deps struct {
	Repo     domain.Repository
	Audit    *audit.Dispatcher
	Cache    domain.AvailabilityCache
	CacheTTL time.Duration
	Metrics  *metrics.SchedulerMetrics
	Log      *zap.Logger
	Clock    func() time.Time
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

func (d Deps) logger() *zap.Logger {
	if d.Log != nil {
		return d.Log
	}
	return zap.NewNop()
}

func (d Deps) invalidate(ctx context.Context, professionalID uuid.UUID) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.Invalidate(ctx, professionalID); err != nil {
		d.logger().Warn("availability cache invalidation failed",
			zap.String("professional_id", professionalID.String()),
			zap.Error(err),
		)
	}
}

// loadCatalog resolves the active professional and service of a tenant.
func loadCatalog(
	ctx context.Context,
	repo domain.Repository,
	tenantID uuid.UUID,
	professionalID uuid.UUID,
	serviceID uuid.UUID,
) (*models.Professional, *models.Service, error) {

	pro, err := repo.GetProfessional(ctx, tenantID, professionalID)
	if err != nil {
		return nil, nil, err
	}
	if !pro.Active {
		return nil, nil, httperr.ErrNotFound("professional_not_found")
	}

	svc, err := repo.GetService(ctx, tenantID, serviceID)
	if err != nil {
		return nil, nil, err
	}
	if !svc.Active {
		return nil, nil, httperr.ErrNotFound("service_not_found")
	}
	if err := domain.ValidateService(svc); err != nil {
		return nil, nil, err
	}

	return pro, svc, nil
}

// workingIntervalsOn loads the weekday row of day and resolves it.
func workingIntervalsOn(
	ctx context.Context,
	repo domain.Repository,
	professionalID uuid.UUID,
	day time.Time,
) ([]domain.Interval, error) {

	wh, err := repo.GetWorkingHours(ctx, professionalID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	return domain.WorkingIntervals(wh, day)
}

// excluding drops one appointment from a busy list.
func excluding(aps []models.Appointment, id uuid.UUID) []models.Appointment {
	out := make([]models.Appointment, 0, len(aps))
	for _, ap := range aps {
		if ap.ID != id {
			out = append(out, ap)
		}
	}
	return out
}

func bookingOutcome(err error) string {
	if err == nil {
		return "created"
	}
	if be, ok := httperr.AsBusiness(err); ok {
		return be.Code
	}
	return "error"
}
