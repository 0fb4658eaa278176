package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Professional struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`

	UserID *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`
	Color string `gorm:"size:16" json:"color"`

	// SlotDuration is the candidate step in minutes; 0 falls back to the
	// tenant default, then to the service duration.
	SlotDuration int  `gorm:"default:0" json:"slot_duration"`
	Active       bool `gorm:"default:true" json:"active"`

	WorkingHours []WorkingHours `gorm:"constraint:OnDelete:CASCADE;" json:"working_hours,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Professional) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
