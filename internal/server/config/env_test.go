package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv_OverlaysValues(t *testing.T) {
	t.Setenv("ADDRESS", ":9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/portal")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_NAME", "Admin")
	t.Setenv("ADMIN_PASSWORD", "S3cret!pass")
	t.Setenv("MAX_FAILED_ATTEMPTS", "3")
	t.Setenv("LOCKOUT_DURATION", "120")
	t.Setenv("SESSION_TIMEOUT", "600")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, c.EndpointAddr, ":9090")
	assert.Equal(t, c.DatabaseDSN, "postgres://u:p@db:5432/portal")
	assert.Equal(t, c.AdminEmail, "admin@example.com")
	assert.Equal(t, c.AdminName, "Admin")
	assert.Equal(t, c.AdminPassword, "S3cret!pass")
	assert.Equal(t, c.MaxFailedAttempts, 3)
	assert.Equal(t, c.LockoutDuration, 120*time.Second)
	assert.Equal(t, c.SessionTimeout, 600*time.Second)
}

func TestParseEnv_IgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("MAX_FAILED_ATTEMPTS", "not-a-number")
	t.Setenv("LOCKOUT_DURATION", "-5")
	t.Setenv("SESSION_TIMEOUT", "0")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, c.MaxFailedAttempts, 5)
	assert.Equal(t, c.LockoutDuration, 900*time.Second)
	assert.Equal(t, c.SessionTimeout, 3600*time.Second)
}

func TestParseEnv_UnsetLeavesDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Empty(t, c.AdminEmail)
	assert.Equal(t, c.EndpointAddr, ":8080")
}
