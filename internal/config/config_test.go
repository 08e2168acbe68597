package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"DB_HOST", "JWT_SECRET", "JWT_ACCESS_EXPIRY", "TRACKING_CODE_PREFIX", "STATUS_POLICY", "LOG_RETENTION", "LOG_LEVEL", "PORT", "RATE_LIMIT_PER_MINUTE", "AUTH_RATE_LIMIT_PER_MINUTE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "", cfg.JWTSecret)
	assert.Equal(t, 12*time.Hour, cfg.JWTAccessExpiry)
	assert.Equal(t, "QA", cfg.TrackingCodePrefix)
	assert.Equal(t, "permissive", cfg.StatusPolicy)
	assert.Equal(t, 30*24*time.Hour, cfg.LogRetention)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Equal(t, 10, cfg.AuthRateLimit)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("TRACKING_CODE_PREFIX", "LAP")
	t.Setenv("STATUS_POLICY", "strict")
	t.Setenv("LOG_RETENTION", "not-a-duration")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("AUTH_RATE_LIMIT_PER_MINUTE", "-3")

	cfg := Load()
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, "LAP", cfg.TrackingCodePrefix)
	assert.Equal(t, "strict", cfg.StatusPolicy)
	assert.Equal(t, 30*24*time.Hour, cfg.LogRetention)
	assert.Equal(t, 0, cfg.RateLimit)
	assert.Equal(t, 10, cfg.AuthRateLimit)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PORT", "9000")
	t.Setenv("ADMIN_NAME", "")
	os.Unsetenv("ADMIN_NAME")

	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ADMIN_NAME=Posko Jakarta\nPORT=7000\n"), 0o600)
	require.NoError(t, err)

	cfg := Load()
	assert.Equal(t, "Posko Jakarta", cfg.AdminName)
	// Variables already present in the environment take precedence over .env.
	assert.Equal(t, "9000", cfg.Port)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "h", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "1", DBSSLMode: "disable"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=1 sslmode=disable TimeZone=UTC", cfg.DSN())
}
