package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID               uuid.UUID `json:"id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Status           string    `json:"status"`
	Source           string    `json:"source"`
	ProfessionalID   uuid.UUID `json:"professional_id"`
	ProfessionalName string    `json:"professional_name"`
	ClientName       string    `json:"client_name"`
	ClientPhone      string    `json:"client_phone"`
	ServiceName      string    `json:"service_name"`
}

func FromAppointments(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, AppointmentListDTO{
			ID:               ap.ID,
			StartTime:        ap.StartTime,
			EndTime:          ap.EndTime,
			Status:           ap.Status,
			Source:           ap.Source,
			ProfessionalID:   ap.ProfessionalID,
			ProfessionalName: ap.Professional.Name,
			ClientName:       ap.Client.Name,
			ClientPhone:      ap.Client.Phone,
			ServiceName:      ap.Service.Name,
		})
	}
	return out
}
