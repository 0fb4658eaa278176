package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/validators"
)

type ProfessionalHandler struct {
	db    *gorm.DB
	cache domain.AvailabilityCache
	audit *audit.Dispatcher
}

func NewProfessionalHandler(db *gorm.DB, cache domain.AvailabilityCache, dispatcher *audit.Dispatcher) *ProfessionalHandler {
	return &ProfessionalHandler{db: db, cache: cache, audit: dispatcher}
}

// --------- Requests ---------

type CreateProfessionalRequest struct {
	Name         string     `json:"name" binding:"required"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Color        string     `json:"color"`
	SlotDuration int        `json:"slot_duration"`
	UserID       *uuid.UUID `json:"user_id"`
}

type UpdateProfessionalRequest struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Color        *string `json:"color,omitempty"`
	SlotDuration *int    `json:"slot_duration,omitempty"`
	Active       *bool   `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ProfessionalHandler) List(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Where("tenant_id = ?", t.ID)

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var professionals []models.Professional
	if err := q.Order("name ASC").Find(&professionals).Error; err != nil {
		writeError(c, err, "failed_to_list_professionals")
		return
	}

	httpresp.List(c, professionals)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	var req CreateProfessionalRequest
	if !bindJSON(c, &req) {
		return
	}

	pro := models.Professional{
		TenantID:     t.ID,
		UserID:       req.UserID,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		Color:        req.Color,
		SlotDuration: req.SlotDuration,
		Active:       true,
	}

	if err := validateProfessional(&pro); err != nil {
		writeError(c, err, "invalid_request")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&pro).Error; err != nil {
		writeError(c, err, "failed_to_create_professional")
		return
	}

	writeAudit(h.audit, t.ID, middleware.UserID(c), "professional_created", "professional", pro.ID, nil)

	httpresp.Created(c, pro)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id", "professional_not_found")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	pro, err := findProfessional(ctx, h.db, t.ID, id)
	if err != nil {
		writeError(c, err, "failed_to_get_professional")
		return
	}

	var req UpdateProfessionalRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		pro.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		pro.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		pro.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Color != nil {
		pro.Color = *req.Color
	}
	if req.SlotDuration != nil {
		pro.SlotDuration = *req.SlotDuration
	}
	if req.Active != nil {
		pro.Active = *req.Active
	}

	if err := validateProfessional(pro); err != nil {
		writeError(c, err, "invalid_request")
		return
	}

	if err := h.db.WithContext(ctx).Omit("WorkingHours").Save(pro).Error; err != nil {
		writeError(c, err, "failed_to_update_professional")
		return
	}

	invalidateProfessional(ctx, h.cache, pro.ID)
	writeAudit(h.audit, t.ID, middleware.UserID(c), "professional_updated", "professional", pro.ID, req)

	httpresp.OK(c, pro)
}

func validateProfessional(p *models.Professional) error {
	if p.Name == "" {
		return httperr.ErrValidation("invalid_request")
	}
	if p.Email != "" && !validators.IsEmailFormatValid(p.Email) {
		return httperr.ErrValidation("invalid_email")
	}
	if p.SlotDuration < 0 || p.SlotDuration > domain.MaxServiceDuration {
		return httperr.ErrValidation("invalid_duration")
	}
	return nil
}

func findProfessional(ctx context.Context, db *gorm.DB, tenantID, id uuid.UUID) (*models.Professional, error) {
	var pro models.Professional
	if err := db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&pro).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("professional_not_found")
		}
		return nil, err
	}
	return &pro, nil
}
