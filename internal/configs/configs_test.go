package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setS3Env(t *testing.T) {
	t.Helper()
	t.Setenv("S3_BUCKET_NAME", "library")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_ACCESS_KEY_ID", "minio")
	t.Setenv("S3_SECRET_ACCESS_KEY", "minio-secret")
}

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	setS3Env(t)
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, defaultDevJWTSecret, cfg.JWTSecret)
	assert.Equal(t, defaultDevDSN, cfg.DatabaseDSN)
	assert.Equal(t, defaultDevAdminPass, cfg.AdminPassword)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(100<<20), cfg.MaxUploadBytes())
}

func TestLoadConfigProductionRequiresSecret(t *testing.T) {
	setS3Env(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://db/privlib")
	t.Setenv("ADMIN_PASSWORD", "s3cret!")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigRejectsPrivilegedPort(t *testing.T) {
	setS3Env(t)
	t.Setenv("PORT", "80")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRequiresBucket(t *testing.T) {
	setS3Env(t)
	t.Setenv("S3_BUCKET_NAME", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET_NAME")
}
