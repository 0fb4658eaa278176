package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/tenancy"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

type TenantHandler struct {
	db       *gorm.DB
	resolver *tenancy.Resolver
	cache    domain.AvailabilityCache
	audit    *audit.Dispatcher
}

func NewTenantHandler(
	db *gorm.DB,
	resolver *tenancy.Resolver,
	cache domain.AvailabilityCache,
	dispatcher *audit.Dispatcher,
) *TenantHandler {
	return &TenantHandler{db: db, resolver: resolver, cache: cache, audit: dispatcher}
}

type UpdateTenantRequest struct {
	Name                *string `json:"name"`
	Phone               *string `json:"phone"`
	Timezone            *string `json:"timezone"`
	MinAdvanceMinutes   *int    `json:"min_advance_minutes"`
	DefaultSlotDuration *int    `json:"default_slot_duration"`
}

func (h *TenantHandler) Get(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	tenant, err := h.load(c.Request.Context(), t)
	if err != nil {
		writeError(c, err, "failed_to_get_tenant")
		return
	}

	httpresp.OK(c, tenantView(tenant))
}

// Update changes the scheduling settings. Lead time and granularity feed
// the slot engine, so cached availability of the tenant is dropped.
func (h *TenantHandler) Update(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	tenant, err := h.load(ctx, t)
	if err != nil {
		writeError(c, err, "failed_to_get_tenant")
		return
	}

	var req UpdateTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_request", "Invalid request.")
			return
		}
		tenant.Name = name
	}
	if req.Phone != nil {
		tenant.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Invalid timezone.")
			return
		}
		tenant.Timezone = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Minimum lead time must be zero or positive (minutes).")
			return
		}
		tenant.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}
	if req.DefaultSlotDuration != nil {
		if *req.DefaultSlotDuration < 0 || *req.DefaultSlotDuration > domain.MaxServiceDuration {
			httperr.BadRequest(c, "invalid_duration", "Slot duration out of range.")
			return
		}
		tenant.DefaultSlotDuration = *req.DefaultSlotDuration
	}

	if err := h.db.WithContext(ctx).Save(tenant).Error; err != nil {
		writeError(c, err, "failed_to_update_tenant")
		return
	}

	h.resolver.Forget(t)
	invalidateTenant(ctx, h.db, h.cache, tenant.ID)

	writeAudit(h.audit, tenant.ID, middleware.UserID(c), "tenant_updated", "tenant", tenant.ID, req)

	httpresp.OK(c, tenantView(tenant))
}

func (h *TenantHandler) load(ctx context.Context, t tenancy.Tenant) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := h.db.WithContext(ctx).Where("id = ?", t.ID).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("tenant_not_found")
		}
		return nil, err
	}
	return &tenant, nil
}
