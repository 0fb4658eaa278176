package handlers

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/tenancy"
)

// writeError is the single place where handlers turn errors into JSON.
func writeError(c *gin.Context, err error, fallbackCode string) {
	httperr.FromError(c, err, fallbackCode)
}

// currentTenant returns the tenant attached by the tenant middleware.
func currentTenant(c *gin.Context) (tenancy.Tenant, bool) {
	t, ok := middleware.Tenant(c)
	if !ok {
		httperr.Unauthorized(c, "missing_tenant", "Authentication required.")
		return tenancy.Tenant{}, false
	}
	return t, true
}

func uuidParam(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.NotFound(c, code, "Not found.")
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses an optional query value. Empty means nil.
func optionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON that accepts an empty body.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return false
	}
	return true
}

func invalidateProfessional(ctx context.Context, cache domain.AvailabilityCache, id uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, id); err != nil {
		zap.L().Warn("availability cache invalidation failed",
			zap.String("professional_id", id.String()),
			zap.Error(err),
		)
	}
}

// invalidateTenant drops cached availability of every professional of the
// tenant.
func invalidateTenant(ctx context.Context, db *gorm.DB, cache domain.AvailabilityCache, tenantID uuid.UUID) {
	if cache == nil {
		return
	}

	var ids []uuid.UUID
	if err := db.WithContext(ctx).
		Model(&models.Professional{}).
		Where("tenant_id = ?", tenantID).
		Pluck("id", &ids).Error; err != nil {

		zap.L().Warn("list professionals for invalidation failed", zap.Error(err))
		return
	}

	for _, id := range ids {
		invalidateProfessional(ctx, cache, id)
	}
}
