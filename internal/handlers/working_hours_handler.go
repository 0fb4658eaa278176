package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	cache domain.AvailabilityCache
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(db *gorm.DB, cache domain.AvailabilityCache, dispatcher *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, cache: cache, audit: dispatcher}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id", "professional_not_found")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := findProfessional(ctx, h.db, t.ID, id); err != nil {
		writeError(c, err, "failed_to_get_professional")
		return
	}

	var hours []models.WorkingHours
	if err := h.db.WithContext(ctx).
		Where("professional_id = ?", id).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		writeError(c, err, "failed_to_get_working_hours")
		return
	}

	httpresp.List(c, hours)
}

// Update replaces the whole week of a professional. Missing weekdays are
// closed.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id", "professional_not_found")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := findProfessional(ctx, h.db, t.ID, id); err != nil {
		writeError(c, err, "failed_to_get_professional")
		return
	}

	var req WorkingHoursUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	seen := map[int]bool{}
	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, "invalid_working_hours", "Invalid working hours.")
			return
		}
		seen[d.Weekday] = true

		wh := models.WorkingHours{
			ProfessionalID: id,
			Weekday:        d.Weekday,
			Active:         d.Active,
			StartTime:      d.StartTime,
			EndTime:        d.EndTime,
			LunchStart:     d.LunchStart,
			LunchEnd:       d.LunchEnd,
		}
		if err := domain.ValidateWorkingHours(wh); err != nil {
			writeError(c, err, "invalid_working_hours")
			return
		}
		toCreate = append(toCreate, wh)
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("professional_id = ?", id).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		writeError(c, err, "failed_to_save_working_hours")
		return
	}

	invalidateProfessional(ctx, h.cache, id)
	writeAudit(h.audit, t.ID, middleware.UserID(c), "working_hours_updated", "professional", id, req)

	httpresp.List(c, toCreate)
}
