package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, 72, cfg.JWTTTLHours)
	assert.Equal(t, "eu-west-1", cfg.S3Region)
	assert.Equal(t, 7, cfg.AnalysisWindowDays)
	assert.Equal(t, "host=localhost user=postgres password=pw dbname=healthtrack port=5432 sslmode=disable", cfg.DSN())
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "restored after the test")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))
	_, err := Load()
	assert.Error(t, err)
}
