package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email          string `gorm:"uniqueIndex;not null"`
	Password       string `gorm:"not null" json:"-"`
	FullName       string
	Birthday       time.Time
	Sex            string  `gorm:"size:16"`
	Height         float64 // cm
	Weight         float64 // kg
	ProfilePicture string
	MFAEnabled     bool
	MFACode        string    `json:"-"`
	ResetToken     string    `gorm:"index" json:"-"`
	ResetTokenExp  time.Time `json:"-"`
	Disabled       bool      `gorm:"default:false"`
}
