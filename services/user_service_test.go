package services

import (
	"testing"
	"time"

	"healthtrack/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildProfile(t *testing.T) {
	u := &models.User{
		Email:    "a@b.co",
		FullName: "Ada",
		Birthday: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		Height:   180,
		Weight:   81,
	}
	u.ID = 9

	p := BuildProfile(u, time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, uint(9), p.ID)
	assert.Equal(t, "1990-06-15", p.Birthday)
	assert.Equal(t, 35, p.Age)
	assert.InDelta(t, 25.0, p.BMI, 0.01)
	assert.NotEmpty(t, p.BMICategory)
}

func TestBuildProfile_MissingData(t *testing.T) {
	p := BuildProfile(&models.User{Email: "a@b.co"}, time.Now())
	assert.Empty(t, p.Birthday)
	assert.Zero(t, p.Age)
	assert.Zero(t, p.BMI)
	assert.Empty(t, p.BMICategory)
}
