package models

import (
	"time"

	"gorm.io/gorm"
)

type JournalEntry struct {
	gorm.Model
	UserID   uint      `gorm:"index;not null" json:"user_id"`
	Title    string    `gorm:"size:200" json:"title"`
	Content  string    `gorm:"type:text" json:"content"`
	Mood     int       `json:"mood"` // 1..5, 0 = not set
	Tags     string    `json:"tags"` // comma-sep
	ImageURL string    `json:"image_url,omitempty"`
	AILabels string    `json:"ai_labels,omitempty"` // comma-sep, from image recognition
	EntryAt  time.Time `gorm:"index;not null" json:"entry_at"`
}
