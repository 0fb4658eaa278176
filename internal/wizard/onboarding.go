package wizard

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
	"github.com/BruksfildServices01/agenda-scheduler/internal/validators"
)

const (
	StepCompany       Step = "company"
	StepServices      Step = "services"
	StepProfessionals Step = "professionals"
	StepSchedule      Step = "schedule"
	StepDone          Step = "done"
)

const minPasswordLen = 8

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type CompanyDraft struct {
	Name                string `json:"name"`
	Slug                string `json:"slug"`
	Phone               string `json:"phone"`
	Timezone            string `json:"timezone"`
	MinAdvanceMinutes   int    `json:"minAdvanceMinutes"`
	DefaultSlotDuration int    `json:"defaultSlotDuration"`

	AdminName     string `json:"adminName"`
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
}

type ServiceDraft struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Duration      int     `json:"duration"`
	BufferBefore  int     `json:"bufferBefore"`
	BufferAfter   int     `json:"bufferAfter"`
	MaxConcurrent int     `json:"maxConcurrent"`
}

type ProfessionalDraft struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	SlotDuration int    `json:"slotDuration"`
}

type WorkingHoursDraft struct {
	Weekday    int    `json:"weekday"`
	Start      string `json:"start"`
	End        string `json:"end"`
	LunchStart string `json:"lunchStart"`
	LunchEnd   string `json:"lunchEnd"`
	Active     bool   `json:"active"`
}

// OnboardingData is what the sign-up flow collects. Schedule applies to
// every professional created in the flow.
type OnboardingData struct {
	Company       CompanyDraft        `json:"company"`
	Services      []ServiceDraft      `json:"services"`
	Professionals []ProfessionalDraft `json:"professionals"`
	Schedule      []WorkingHoursDraft `json:"schedule"`
}

func NewOnboardingMachine() *Machine[OnboardingData] {
	return NewMachine(
		[]Step{StepCompany, StepServices, StepProfessionals, StepSchedule, StepDone},
		map[Step]Guard[OnboardingData]{
			StepCompany:       validateCompany,
			StepServices:      validateServices,
			StepProfessionals: validateProfessionals,
			StepSchedule:      validateSchedule,
		},
	)
}

func validateCompany(d *OnboardingData) error {
	c := &d.Company
	c.Name = strings.TrimSpace(c.Name)
	c.Slug = strings.ToLower(strings.TrimSpace(c.Slug))
	c.AdminEmail = strings.ToLower(strings.TrimSpace(c.AdminEmail))

	if c.Name == "" || strings.TrimSpace(c.AdminName) == "" {
		return httperr.ErrValidation("invalid_request")
	}
	if len(c.Slug) < 3 || len(c.Slug) > 100 || !slugPattern.MatchString(c.Slug) {
		return httperr.ErrValidation("invalid_slug")
	}
	if c.Timezone == "" {
		c.Timezone = timezone.DefaultTimezone
	}
	if !timezone.IsValid(c.Timezone) {
		return httperr.ErrValidation("invalid_timezone")
	}
	if c.MinAdvanceMinutes < 0 || c.DefaultSlotDuration < 0 || c.DefaultSlotDuration > domain.MaxServiceDuration {
		return httperr.ErrValidation("invalid_request")
	}
	if !validators.IsEmailFormatValid(c.AdminEmail) {
		return httperr.ErrValidation("invalid_email")
	}
	if len(c.AdminPassword) < minPasswordLen {
		return httperr.ErrValidation("weak_password")
	}
	return nil
}

func validateServices(d *OnboardingData) error {
	if len(d.Services) == 0 {
		return httperr.ErrValidation("missing_services")
	}
	for _, s := range d.Services {
		if strings.TrimSpace(s.Name) == "" {
			return httperr.ErrValidation("invalid_request")
		}
		svc := s.ToModel(uuid.Nil)
		if err := domain.ValidateService(&svc); err != nil {
			return err
		}
	}
	return nil
}

func validateProfessionals(d *OnboardingData) error {
	if len(d.Professionals) == 0 {
		return httperr.ErrValidation("missing_professionals")
	}
	for _, p := range d.Professionals {
		if strings.TrimSpace(p.Name) == "" {
			return httperr.ErrValidation("invalid_request")
		}
		if p.Email != "" && !validators.IsEmailFormatValid(p.Email) {
			return httperr.ErrValidation("invalid_email")
		}
		if p.SlotDuration < 0 || p.SlotDuration > domain.MaxServiceDuration {
			return httperr.ErrValidation("invalid_request")
		}
	}
	return nil
}

func validateSchedule(d *OnboardingData) error {
	seen := map[int]bool{}
	active := 0
	for _, wh := range d.Schedule {
		if seen[wh.Weekday] {
			return httperr.ErrValidation("invalid_working_hours")
		}
		seen[wh.Weekday] = true

		if err := domain.ValidateWorkingHours(wh.ToModel(uuid.Nil)); err != nil {
			return err
		}
		if wh.Active {
			active++
		}
	}
	if active == 0 {
		return httperr.ErrValidation("missing_schedule")
	}
	return nil
}

func (s ServiceDraft) ToModel(tenantID uuid.UUID) models.Service {
	capacity := s.MaxConcurrent
	if capacity == 0 {
		capacity = 1
	}
	return models.Service{
		TenantID:        tenantID,
		Name:            strings.TrimSpace(s.Name),
		Description:     s.Description,
		Price:           s.Price,
		DurationMin:     s.Duration,
		BufferBeforeMin: s.BufferBefore,
		BufferAfterMin:  s.BufferAfter,
		MaxConcurrent:   capacity,
		Active:          true,
	}
}

func (p ProfessionalDraft) ToModel(tenantID uuid.UUID) models.Professional {
	return models.Professional{
		TenantID:     tenantID,
		Name:         strings.TrimSpace(p.Name),
		Email:        strings.TrimSpace(p.Email),
		Phone:        strings.TrimSpace(p.Phone),
		SlotDuration: p.SlotDuration,
		Active:       true,
	}
}

func (w WorkingHoursDraft) ToModel(professionalID uuid.UUID) models.WorkingHours {
	return models.WorkingHours{
		ProfessionalID: professionalID,
		Weekday:        w.Weekday,
		StartTime:      w.Start,
		EndTime:        w.End,
		LunchStart:     w.LunchStart,
		LunchEnd:       w.LunchEnd,
		Active:         w.Active,
	}
}
