package tenancy

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

// Tenant is the request-scoped view of the account every call runs for.
type Tenant struct {
	ID                  uuid.UUID
	Slug                string
	Name                string
	Timezone            string
	MinAdvanceMinutes   int
	DefaultSlotDuration int
}

func FromModel(t *models.Tenant) Tenant {
	return Tenant{
		ID:                  t.ID,
		Slug:                t.Slug,
		Name:                t.Name,
		Timezone:            t.Timezone,
		MinAdvanceMinutes:   t.MinAdvanceMinutes,
		DefaultSlotDuration: t.DefaultSlotDuration,
	}
}

func (t Tenant) Location() *time.Location {
	return timezone.Location(t.Timezone)
}

type ctxKey string

const tenantKey ctxKey = "agenda.tenant"

// WithTenant stores the tenant in context.
func WithTenant(ctx context.Context, t Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

// FromContext extracts the tenant if present.
func FromContext(ctx context.Context) (Tenant, bool) {
	t, ok := ctx.Value(tenantKey).(Tenant)
	return t, ok && t.ID != uuid.Nil
}
