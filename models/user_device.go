package models

import "time"

// UserDevice is a push endpoint registered for one of the user's phones.
type UserDevice struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"index" json:"user_id"`
	Platform       string     `gorm:"size:16" json:"platform"` // "android" | "ios"
	TokenHash      string     `gorm:"size:64;index" json:"-"`
	EndpointARN    string     `gorm:"size:256" json:"endpoint_arn"`
	Enabled        bool       `gorm:"default:true" json:"enabled"`
	LastNotifiedAt *time.Time `json:"last_notified_at,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CreatedAt      time.Time  `json:"created_at"`
}
