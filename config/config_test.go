package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com/, http://localhost:3000")
	t.Setenv("JWT_TTL", "not-a-duration")

	// An empty STORAGE_DRIVER is not one of the accepted drivers.
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "local")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, int64(5000000), cfg.ResumeMaxBytes)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.AllowAdminRegistration)
}

func TestLoadConfigS3NeedsBucket(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")
}
