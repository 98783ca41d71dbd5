package models

import "time"

type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Type      string    `gorm:"size:20" json:"type"`   // "warning" | "info" | "achievement"
	Source    string    `gorm:"size:20" json:"source"` // "goal" | "analysis"
	Message   string    `gorm:"type:text" json:"message"`
	Read      bool      `gorm:"column:is_read;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
