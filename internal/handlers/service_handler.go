package handlers

import (
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
)

type ServiceHandler struct {
	db    *gorm.DB
	cache domain.AvailabilityCache
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, cache domain.AvailabilityCache, dispatcher *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, cache: cache, audit: dispatcher}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	Duration      int     `json:"duration" binding:"required"`
	BufferBefore  int     `json:"buffer_before"`
	BufferAfter   int     `json:"buffer_after"`
	MaxConcurrent int     `json:"max_concurrent"`
}

type UpdateServiceRequest struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Duration      *int     `json:"duration,omitempty"`
	BufferBefore  *int     `json:"buffer_before,omitempty"`
	BufferAfter   *int     `json:"buffer_after,omitempty"`
	MaxConcurrent *int     `json:"max_concurrent,omitempty"`
	Active        *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active")) // "true", "false" ou vazio
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("tenant_id = ?", t.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		writeError(c, err, "failed_to_list_services")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	capacity := req.MaxConcurrent
	if capacity == 0 {
		capacity = 1
	}

	svc := models.Service{
		TenantID:        t.ID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Category:        strings.ToLower(strings.TrimSpace(req.Category)),
		Price:           req.Price,
		DurationMin:     req.Duration,
		BufferBeforeMin: req.BufferBefore,
		BufferAfterMin:  req.BufferAfter,
		MaxConcurrent:   capacity,
		Active:          true,
	}

	if err := domain.ValidateService(&svc); err != nil {
		writeError(c, err, "invalid_request")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		writeError(c, err, "failed_to_create_service")
		return
	}

	writeAudit(h.audit, t.ID, middleware.UserID(c), "service_created", "service", svc.ID, nil)

	httpresp.Created(c, svc)
}

// Update edits a service. Duration, buffers and capacity change the
// availability of every professional, so the tenant cache is dropped.
func (h *ServiceHandler) Update(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id", "service_not_found")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var svc models.Service
	if err := h.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, t.ID).
		First(&svc).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return
		}
		writeError(c, err, "failed_to_get_service")
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Category != nil {
		svc.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Duration != nil {
		svc.DurationMin = *req.Duration
	}
	if req.BufferBefore != nil {
		svc.BufferBeforeMin = *req.BufferBefore
	}
	if req.BufferAfter != nil {
		svc.BufferAfterMin = *req.BufferAfter
	}
	if req.MaxConcurrent != nil {
		svc.MaxConcurrent = *req.MaxConcurrent
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if svc.Name == "" {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}
	if err := domain.ValidateService(&svc); err != nil {
		writeError(c, err, "invalid_request")
		return
	}

	if err := h.db.WithContext(ctx).Save(&svc).Error; err != nil {
		writeError(c, err, "failed_to_update_service")
		return
	}

	invalidateTenant(ctx, h.db, h.cache, t.ID)
	writeAudit(h.audit, t.ID, middleware.UserID(c), "service_updated", "service", svc.ID, req)

	httpresp.OK(c, svc)
}
