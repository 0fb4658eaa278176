package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucAppointment.CreateAppointment
	reschedule   *ucAppointment.RescheduleAppointment
	updateStatus *ucAppointment.UpdateStatus
	listByDate   *ucAppointment.ListAppointmentsByDate
	listByMonth  *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	reschedule *ucAppointment.RescheduleAppointment,
	updateStatus *ucAppointment.UpdateStatus,
	listByDate *ucAppointment.ListAppointmentsByDate,
	listByMonth *ucAppointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		reschedule:   reschedule,
		updateStatus: updateStatus,
		listByDate:   listByDate,
		listByMonth:  listByMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ProfessionalID uuid.UUID     `json:"professionalId" binding:"required"`
	ServiceID      uuid.UUID     `json:"serviceId" binding:"required"`
	StartTime      string        `json:"startTime" binding:"required"`
	Client         ClientRequest `json:"client"`
	Notes          string        `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type RescheduleRequest struct {
	StartTime string `json:"startTime" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
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
		Source: ucAppointment.SourceDashboard,
		UserID: middleware.UserID(c),
	})
	if err != nil {
		writeError(c, err, "failed_to_create_appointment")
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

// ListByDate lists one day; date defaults to today in the tenant timezone.
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	professionalID, err := optionalUUID(c.Query("professional_id"))
	if err != nil {
		httperr.NotFound(c, "professional_not_found", "Professional not found.")
		return
	}

	date := c.Query("date")
	if date == "" {
		date = nowInTenant(t).Format("2006-01-02")
	}

	items, err := h.listByDate.Execute(c.Request.Context(), t.ID, professionalID, date)
	if err != nil {
		writeError(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	professionalID, err := optionalUUID(c.Query("professional_id"))
	if err != nil {
		httperr.NotFound(c, "professional_not_found", "Professional not found.")
		return
	}

	now := nowInTenant(t)
	year, month := now.Year(), int(now.Month())

	if v := c.Query("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			httperr.BadRequest(c, "invalid_month", "Invalid month.")
			return
		}
	}
	if v := c.Query("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			httperr.BadRequest(c, "invalid_month", "Invalid month.")
			return
		}
	}

	items, err := h.listByMonth.Execute(c.Request.Context(), t.ID, professionalID, year, month)
	if err != nil {
		writeError(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, items)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id", "appointment_not_found")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.updateStatus.Execute(c.Request.Context(), ucAppointment.UpdateStatusInput{
		TenantID:      t.ID,
		AppointmentID: id,
		Status:        req.Status,
		Reason:        req.Reason,
		UserID:        middleware.UserID(c),
	})
	if err != nil {
		writeError(c, err, "failed_to_update_appointment")
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	t, ok := currentTenant(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id", "appointment_not_found")
	if !ok {
		return
	}

	var req RescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	start, err := parseStartTime(t, req.StartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleInput{
		TenantID:      t.ID,
		AppointmentID: id,
		StartTime:     start,
		UserID:        middleware.UserID(c),
	})
	if err != nil {
		writeError(c, err, "failed_to_reschedule_appointment")
		return
	}

	httpresp.OK(c, ap)
}
