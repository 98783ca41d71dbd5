package models

import (
	"time"

	"gorm.io/gorm"
)

// Symptom is one self-reported symptom occurrence.
type Symptom struct {
	gorm.Model
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Name       string    `gorm:"size:120;not null" json:"name"`
	Severity   int       `json:"severity"` // 1..10
	BodyArea   string    `gorm:"size:60" json:"body_area"`
	Notes      string    `gorm:"type:text" json:"notes"`
	OccurredAt time.Time `gorm:"index;not null" json:"occurred_at"`
}
