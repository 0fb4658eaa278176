package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`

	ProfessionalID uuid.UUID    `gorm:"type:uuid;index:idx_appointment_professional_time;not null" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"professional"`

	ServiceID uuid.UUID `gorm:"type:uuid;not null" json:"service_id"`
	Service   Service   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	ClientID uuid.UUID `gorm:"type:uuid;not null" json:"client_id"`
	Client   Client    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client"`

	StartTime time.Time `gorm:"index:idx_appointment_professional_time;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;default:'SCHEDULED';index" json:"status"`
	Source string `gorm:"size:20" json:"source"`
	Notes  string `gorm:"size:255" json:"notes"`

	ConfirmedAt        *time.Time `json:"confirmed_at"`
	StartedAt          *time.Time `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason string     `gorm:"size:255" json:"cancellation_reason"`
	RescheduledToID    *uuid.UUID `gorm:"type:uuid" json:"rescheduled_to_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
