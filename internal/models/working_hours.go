package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkingHours struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProfessionalID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wh_professional_weekday;not null" json:"professional_id"`

	Weekday int `gorm:"uniqueIndex:idx_wh_professional_weekday" json:"weekday"`

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	LunchStart string `gorm:"size:5" json:"lunch_start"`
	LunchEnd   string `gorm:"size:5" json:"lunch_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *WorkingHours) BeforeCreate(*gorm.DB) error {
	ensureID(&w.ID)
	return nil
}
