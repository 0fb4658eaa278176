package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is an isolated business account. Every other row is scoped by it.
type Tenant struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"size:100;not null" json:"name"`
	Slug  string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone string    `gorm:"size:20" json:"phone"`
	Email string    `gorm:"size:100" json:"email"`

	Timezone            string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`
	MinAdvanceMinutes   int    `gorm:"default:0" json:"min_advance_minutes"`
	DefaultSlotDuration int    `gorm:"default:0" json:"default_slot_duration"`
	Active              bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tenant) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
