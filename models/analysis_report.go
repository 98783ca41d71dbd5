package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalysisReport stores one run of the health analysis for a user.
type AnalysisReport struct {
	gorm.Model
	UserID          uint           `gorm:"index;not null" json:"user_id"`
	WindowFrom      time.Time      `json:"window_from"`
	WindowTo        time.Time      `json:"window_to"`
	SampleCount     int            `json:"sample_count"`
	HealthScore     int            `json:"health_score"`
	Incomplete      bool           `json:"incomplete"`
	Observations    datatypes.JSON `gorm:"type:jsonb" json:"observations"`
	Concerns        datatypes.JSON `gorm:"type:jsonb" json:"concerns"`
	Recommendations datatypes.JSON `gorm:"type:jsonb" json:"recommendations"`
}
