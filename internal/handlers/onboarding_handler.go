package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/validators"
	"github.com/BruksfildServices01/agenda-scheduler/internal/wizard"
)

// OnboardingHandler creates a tenant with its first admin, catalog and
// schedule in one request.
type OnboardingHandler struct {
	db      *gorm.DB
	config  *config.Config
	audit   *audit.Dispatcher
	machine *wizard.Machine[wizard.OnboardingData]

	// emailDomainOK is nil when the DNS check is off.
	emailDomainOK func(email string) bool
}

func NewOnboardingHandler(db *gorm.DB, cfg *config.Config, dispatcher *audit.Dispatcher) *OnboardingHandler {
	h := &OnboardingHandler{
		db:      db,
		config:  cfg,
		audit:   dispatcher,
		machine: wizard.NewOnboardingMachine(),
	}
	if cfg.VerifyEmailDomain {
		h.emailDomainOK = validators.IsEmailDomainValid
	}
	return h
}

type onboardingResult struct {
	tenant        models.Tenant
	user          models.User
	services      []models.Service
	professionals []models.Professional
}

func (h *OnboardingHandler) Onboard(c *gin.Context) {
	var data wizard.OnboardingData
	if !bindJSON(c, &data) {
		return
	}

	// --------------------------------------------------
	// 1️⃣ Fluxo completo (company → schedule)
	// --------------------------------------------------
	if step, err := h.machine.Run(&data); err != nil {
		be, ok := httperr.AsBusiness(err)
		if !ok {
			writeError(c, err, "onboarding_failed")
			return
		}
		c.JSON(httperr.StatusFor(be.Kind), gin.H{
			"error_code": be.Code,
			"message":    httperr.Message(be.Code),
			"step":       step,
		})
		return
	}

	if h.emailDomainOK != nil && !h.emailDomainOK(data.Company.AdminEmail) {
		httperr.BadRequest(c, "invalid_email", "Invalid e-mail.")
		return
	}

	// --------------------------------------------------
	// 2️⃣ Persistência (uma transação)
	// --------------------------------------------------
	res, err := h.persist(c, &data)
	if err != nil {
		writeError(c, err, "onboarding_failed")
		return
	}

	// --------------------------------------------------
	// 3️⃣ Auditoria + token
	// --------------------------------------------------
	writeAudit(h.audit, res.tenant.ID, &res.user.ID, "tenant_onboarded", "tenant", res.tenant.ID, map[string]any{
		"services":      len(res.services),
		"professionals": len(res.professionals),
	})

	token, err := middleware.IssueToken(h.config, res.user.ID, res.tenant.ID, res.user.Role, time.Now())
	if err != nil {
		writeError(c, err, "failed_to_generate_token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":          userView(&res.user),
		"tenant":        tenantView(&res.tenant),
		"services":      res.services,
		"professionals": res.professionals,
		"token":         token,
	})
}

func (h *OnboardingHandler) persist(c *gin.Context, data *wizard.OnboardingData) (*onboardingResult, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(data.Company.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	co := data.Company
	res := &onboardingResult{
		tenant: models.Tenant{
			Name:                co.Name,
			Slug:                co.Slug,
			Phone:               co.Phone,
			Email:               co.AdminEmail,
			Timezone:            co.Timezone,
			MinAdvanceMinutes:   co.MinAdvanceMinutes,
			DefaultSlotDuration: co.DefaultSlotDuration,
			Active:              true,
		},
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&res.tenant).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				return httperr.ErrConflict("slug_already_exists")
			}
			return fmt.Errorf("create tenant: %w", err)
		}

		res.user = models.User{
			TenantID:     res.tenant.ID,
			Name:         co.AdminName,
			Email:        co.AdminEmail,
			PasswordHash: string(hashed),
			Role:         models.RoleAdmin,
		}
		if err := tx.Omit("Tenant").Create(&res.user).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				return httperr.ErrConflict("email_already_exists")
			}
			return fmt.Errorf("create admin: %w", err)
		}

		for _, s := range data.Services {
			res.services = append(res.services, s.ToModel(res.tenant.ID))
		}
		if err := tx.Create(&res.services).Error; err != nil {
			return fmt.Errorf("create services: %w", err)
		}

		for _, p := range data.Professionals {
			res.professionals = append(res.professionals, p.ToModel(res.tenant.ID))
		}
		if err := tx.Create(&res.professionals).Error; err != nil {
			return fmt.Errorf("create professionals: %w", err)
		}

		var hours []models.WorkingHours
		for _, p := range res.professionals {
			for _, wh := range data.Schedule {
				hours = append(hours, wh.ToModel(p.ID))
			}
		}
		if len(hours) > 0 {
			if err := tx.Create(&hours).Error; err != nil {
				return fmt.Errorf("create working hours: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
