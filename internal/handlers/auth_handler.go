package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Tenant").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid e-mail or password.")
			return
		}
		writeError(c, err, "internal_error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid e-mail or password.")
		return
	}

	if !user.Tenant.Active {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid e-mail or password.")
		return
	}

	h.respondWithToken(c, &user, &user.Tenant)
}

// --------- JWT ---------

func (h *AuthHandler) respondWithToken(c *gin.Context, user *models.User, tenant *models.Tenant) {
	token, err := middleware.IssueToken(h.config, user.ID, tenant.ID, user.Role, time.Now())
	if err != nil {
		writeError(c, err, "failed_to_generate_token")
		return
	}

	httpresp.OK(c, gin.H{
		"user":   userView(user),
		"tenant": tenantView(tenant),
		"token":  token,
	})
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"role":      u.Role,
		"tenant_id": u.TenantID,
	}
}

func tenantView(t *models.Tenant) gin.H {
	return gin.H{
		"id":                    t.ID,
		"name":                  t.Name,
		"slug":                  t.Slug,
		"phone":                 t.Phone,
		"email":                 t.Email,
		"timezone":              t.Timezone,
		"min_advance_minutes":   t.MinAdvanceMinutes,
		"default_slot_duration": t.DefaultSlotDuration,
	}
}
