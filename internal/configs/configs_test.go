package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredS3Env fills in the storage variables LoadConfig always demands.
func setRequiredS3Env(t *testing.T) {
	t.Helper()
	t.Setenv("S3_BUCKET_NAME", "test-bucket")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_ACCESS_KEY_ID", "test-access-key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "test-secret-key")
}

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	setRequiredS3Env(t)
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SENDGRID_API_KEY", "")
	t.Setenv("MAIL_FROM", "")
	t.Setenv("ADMIN_EMAIL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Empty(t, cfg.SendGridAPIKey)
	assert.Equal(t, "noreply@kwakhanyadrivers.co.za", cfg.MailFrom)
	assert.Equal(t, "admin@kwakhanyadrivers.co.za", cfg.AdminEmail)
}

func TestLoadConfigParsesAllowedOrigins(t *testing.T) {
	setRequiredS3Env(t)
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("ALLOWED_ORIGINS", " https://kwakhanyadrivers.co.za , https://admin.kwakhanyadrivers.co.za ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://kwakhanyadrivers.co.za",
		"https://admin.kwakhanyadrivers.co.za",
	}, cfg.AllowedOrigins)
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	setRequiredS3Env(t)

	t.Setenv("PORT", "not-a-number")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("PORT", "80")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	setRequiredS3Env(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://app:secret@db:5432/kwakhanya")
	t.Setenv("SENDGRID_API_KEY", "SG.test")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err, "production config must not fall back to a default JWT secret")

	t.Setenv("JWT_SECRET", "production-secret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoadConfigProductionRequiresDatabase(t *testing.T) {
	setRequiredS3Env(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "production-secret")
	t.Setenv("SENDGRID_API_KEY", "SG.test")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
