package wizard

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/validators"
)

const (
	StepService      Step = "service"
	StepProfessional Step = "professional"
	StepDateTime     Step = "datetime"
	StepClient       Step = "client"
	StepConfirm      Step = "confirm"
	StepSuccess      Step = "success"
)

// BookingData is what the public booking flow collects.
type BookingData struct {
	ServiceID      *uuid.UUID `json:"serviceId,omitempty"`
	ProfessionalID *uuid.UUID `json:"professionalId,omitempty"`
	StartTime      *time.Time `json:"startTime,omitempty"`

	ClientName  string `json:"clientName,omitempty"`
	ClientPhone string `json:"clientPhone,omitempty"`
	ClientEmail string `json:"clientEmail,omitempty"`
	Notes       string `json:"notes,omitempty"`

	AppointmentID *uuid.UUID `json:"appointmentId,omitempty"`
}

// BookingInput is the payload of one step. Only the fields of the current
// step are read.
type BookingInput struct {
	ServiceID      *uuid.UUID `json:"serviceId"`
	ProfessionalID *uuid.UUID `json:"professionalId"`
	StartTime      *time.Time `json:"startTime"`
	Client         struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	} `json:"client"`
	Notes string `json:"notes"`
}

func NewBookingMachine() *Machine[BookingData] {
	return NewMachine(
		[]Step{StepService, StepProfessional, StepDateTime, StepClient, StepConfirm, StepSuccess},
		map[Step]Guard[BookingData]{
			StepService: func(d *BookingData) error {
				if d.ServiceID == nil {
					return httperr.ErrValidation("missing_service")
				}
				return nil
			},
			StepProfessional: func(d *BookingData) error {
				if d.ProfessionalID == nil {
					return httperr.ErrValidation("missing_professional")
				}
				return nil
			},
			StepDateTime: func(d *BookingData) error {
				if d.StartTime == nil || d.StartTime.IsZero() {
					return httperr.ErrValidation("invalid_date_or_time")
				}
				return nil
			},
			StepClient: validateBookingClient,
			StepConfirm: func(d *BookingData) error {
				if d.AppointmentID == nil {
					return httperr.ErrConflict("invalid_step")
				}
				return nil
			},
		},
	)
}

func validateBookingClient(d *BookingData) error {
	if strings.TrimSpace(d.ClientName) == "" || strings.TrimSpace(d.ClientPhone) == "" {
		return httperr.ErrValidation("missing_client")
	}
	if d.ClientEmail != "" && !validators.IsEmailFormatValid(d.ClientEmail) {
		return httperr.ErrValidation("invalid_email")
	}
	return nil
}

// ApplyBookingInput copies the fields of step into d. Changing an earlier
// choice clears the choices that depend on it.
func ApplyBookingInput(d *BookingData, step Step, in BookingInput) {
	switch step {
	case StepService:
		if !sameID(d.ServiceID, in.ServiceID) {
			d.ProfessionalID = nil
			d.StartTime = nil
		}
		d.ServiceID = in.ServiceID
	case StepProfessional:
		if !sameID(d.ProfessionalID, in.ProfessionalID) {
			d.StartTime = nil
		}
		d.ProfessionalID = in.ProfessionalID
	case StepDateTime:
		d.StartTime = in.StartTime
	case StepClient:
		d.ClientName = strings.TrimSpace(in.Client.Name)
		d.ClientPhone = strings.TrimSpace(in.Client.Phone)
		d.ClientEmail = strings.TrimSpace(in.Client.Email)
		d.Notes = strings.TrimSpace(in.Notes)
	}
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
