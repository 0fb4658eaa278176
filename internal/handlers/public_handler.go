package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/wizard"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db           *gorm.DB
	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
	sessions     *wizard.SessionStore[wizard.BookingData]
	booking      *wizard.Machine[wizard.BookingData]
}

func NewPublicHandler(
	db *gorm.DB,
	availability *ucAppointment.GetAvailability,
	create *ucAppointment.CreateAppointment,
	sessions *wizard.SessionStore[wizard.BookingData],
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		availability: availability,
		create:       create,
		sessions:     sessions,
		booking:      wizard.NewBookingMachine(),
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type AvailableSlotsRequest struct {
	ProfessionalID uuid.UUID `json:"professionalId" binding:"required"`
	ServiceID      uuid.UUID `json:"serviceId" binding:"required"`
	Date           string    `json:"date" binding:"required"` // YYYY-MM-DD
	AvailableOnly  bool      `json:"availableOnly"`
}

type ClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type PublicCreateAppointmentRequest struct {
	ProfessionalID uuid.UUID     `json:"professionalId" binding:"required"`
	ServiceID      uuid.UUID     `json:"serviceId" binding:"required"`
	StartTime      string        `json:"startTime" binding:"required"`
	Client         ClientRequest `json:"client"`
	Notes          string        `json:"notes"`
}

////////////////////////////////////////////////////////
// TENANT PROFILE
////////////////////////////////////////////////////////

func (h *PublicHandler) GetTenant(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	httpresp.OK(c, gin.H{
		"id":                t.ID,
		"name":              t.Name,
		"slug":              t.Slug,
		"timezone":          t.Timezone,
		"minAdvanceMinutes": t.MinAdvanceMinutes,
	})
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND active = ?", t.ID, true)

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
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

// ListProfessionals lists the active professionals. service_id, when
// given, must name an active service of the tenant.
func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	serviceID, err := optionalUUID(c.Query("service_id"))
	if err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}
	if serviceID != nil {
		var count int64
		if err := h.db.WithContext(ctx).
			Model(&models.Service{}).
			Where("id = ? AND tenant_id = ? AND active = ?", *serviceID, t.ID, true).
			Count(&count).Error; err != nil {

			writeError(c, err, "failed_to_list_professionals")
			return
		}
		if count == 0 {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return
		}
	}

	var professionals []models.Professional
	if err := h.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", t.ID, true).
		Order("name ASC").
		Find(&professionals).Error; err != nil {

		writeError(c, err, "failed_to_list_professionals")
		return
	}

	httpresp.List(c, professionals)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) AvailableSlots(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	var req AvailableSlotsRequest
	if !bindJSON(c, &req) {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		TenantID:       t.ID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
	})
	if err != nil {
		writeError(c, err, "availability_failed")
		return
	}

	if req.AvailableOnly {
		slots = domain.AvailableOnly(slots)
	}

	httpresp.OK(c, gin.H{
		"date":  req.Date,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	start, err := parseStartTime(t, req.StartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		TenantID:       t.ID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		StartTime:      start,
		Client: domain.ClientData{
			Name:  req.Client.Name,
			Phone: req.Client.Phone,
			Email: req.Client.Email,
		},
		Notes:  req.Notes,
		Source: ucAppointment.SourcePublicPage,
	})
	if err != nil {
		writeError(c, err, "failed_to_create_appointment")
		return
	}

	httpresp.Created(c, ap)
}

////////////////////////////////////////////////////////
// BOOKING WIZARD
////////////////////////////////////////////////////////

func (h *PublicHandler) StartBookingSession(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	sess := h.sessions.Create(t.ID, h.booking.Initial())
	httpresp.Created(c, sess)
}

// NextBookingStep applies the payload of the current step and advances.
// Leaving the confirm step books the appointment. Steps of one session run
// one at a time, so a session books at most once.
func (h *PublicHandler) NextBookingStep(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id", "session_not_found")
	if !ok {
		return
	}

	var in wizard.BookingInput
	if !bindOptionalJSON(c, &in) {
		return
	}

	fallback := "booking_step_failed"
	sess, err := h.sessions.Update(t.ID, id, func(sess *wizard.Session[wizard.BookingData]) error {
		wizard.ApplyBookingInput(&sess.Data, sess.Step, in)

		if sess.Step == wizard.StepConfirm && sess.Data.AppointmentID == nil {
			ap, err := h.bookFromSession(c, t.ID, sess.Data)
			if err != nil {
				fallback = "failed_to_create_appointment"
				if httperr.IsBusiness(err, "time_conflict") || httperr.IsBusiness(err, "too_soon") {
					// the chosen time is gone; send the client back to pick another
					sess.Data.StartTime = nil
					sess.Step = wizard.StepDateTime
				}
				return err
			}
			sess.Data.AppointmentID = &ap.ID
		}

		next, err := h.booking.Next(sess.Step, &sess.Data)
		if err != nil {
			return err
		}
		sess.Step = next
		return nil
	})
	if err != nil {
		writeError(c, err, fallback)
		return
	}

	httpresp.OK(c, sess)
}

func (h *PublicHandler) BackBookingStep(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id", "session_not_found")
	if !ok {
		return
	}

	sess, err := h.sessions.Update(t.ID, id, func(sess *wizard.Session[wizard.BookingData]) error {
		prev, err := h.booking.Back(sess.Step)
		if err != nil {
			return err
		}
		sess.Step = prev
		return nil
	})
	if err != nil {
		writeError(c, err, "booking_step_failed")
		return
	}

	httpresp.OK(c, sess)
}

func (h *PublicHandler) bookFromSession(
	c *gin.Context,
	tenantID uuid.UUID,
	d wizard.BookingData,
) (*models.Appointment, error) {

	if d.ServiceID == nil || d.ProfessionalID == nil || d.StartTime == nil {
		return nil, httperr.ErrConflict("invalid_step")
	}

	return h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		TenantID:       tenantID,
		ProfessionalID: *d.ProfessionalID,
		ServiceID:      *d.ServiceID,
		StartTime:      *d.StartTime,
		Client: domain.ClientData{
			Name:  d.ClientName,
			Phone: d.ClientPhone,
			Email: d.ClientEmail,
		},
		Notes:  d.Notes,
		Source: ucAppointment.SourcePublicPage,
	})
}
