package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

const (
	MinServiceDuration = 1
	MaxServiceDuration = 1440
	MaxServiceBuffer   = 240
)

// ValidateService checks the duration and buffer ranges a service must
// respect before the engine can use it.
func ValidateService(svc *models.Service) error {
	if svc.DurationMin < MinServiceDuration || svc.DurationMin > MaxServiceDuration {
		return httperr.ErrValidation("invalid_duration")
	}
	if svc.BufferBeforeMin < 0 || svc.BufferBeforeMin > MaxServiceBuffer ||
		svc.BufferAfterMin < 0 || svc.BufferAfterMin > MaxServiceBuffer {
		return httperr.ErrValidation("invalid_buffer")
	}
	if svc.MaxConcurrent < 0 {
		return httperr.ErrValidation("invalid_capacity")
	}
	return nil
}

// CacheKey identifies one computed day of availability.
type CacheKey struct {
	TenantID       uuid.UUID
	ProfessionalID uuid.UUID
	ServiceID      uuid.UUID
	Date           string
}

// AvailabilityCache stores computed slot lists. Invalidate must make every
// entry of the professional unreachable. Get reports the version it read so
// that Set writes under it; a list computed before an Invalidate then lands
// on an orphaned entry.
type AvailabilityCache interface {
	Get(ctx context.Context, key CacheKey) (slots []Slot, version int64, hit bool, err error)
	Set(ctx context.Context, key CacheKey, version int64, slots []Slot, ttl time.Duration) error
	Invalidate(ctx context.Context, professionalID uuid.UUID) error
}
