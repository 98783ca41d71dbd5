package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrGoalClosed   = errors.New("goal is no longer active")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrEmailTaken   = errors.New("email already registered")
	ErrUnavailable  = errors.New("feature not configured")
)

// notFound maps gorm's missing-row error onto ErrNotFound and passes everything else through.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
