package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays selected Config fields from the process environment.
//
// Recognized variables:
//
//	ADDRESS              HTTP bind address
//	DATABASE_URL         PostgreSQL DSN
//	ADMIN_EMAIL          bootstrap admin email
//	ADMIN_NAME           bootstrap admin display name
//	ADMIN_PASSWORD       bootstrap admin password
//	MAX_FAILED_ATTEMPTS  failed logins before lockout
//	LOCKOUT_DURATION     lockout window, seconds
//	SESSION_TIMEOUT      session inactivity window, seconds
//
// The bootstrap credentials are only ever read here; they are deliberately
// not exposed as command-line flags so secrets stay out of argv. Numeric
// values that do not parse, or are not positive, keep the current value.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("ADMIN_EMAIL"); ok {
		config.AdminEmail = v
	}
	if v, ok := os.LookupEnv("ADMIN_NAME"); ok {
		config.AdminName = v
	}
	if v, ok := os.LookupEnv("ADMIN_PASSWORD"); ok {
		config.AdminPassword = v
	}
	if v, ok := os.LookupEnv("MAX_FAILED_ATTEMPTS"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.MaxFailedAttempts = n
		}
	}
	if v, ok := os.LookupEnv("LOCKOUT_DURATION"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.LockoutDuration = time.Duration(n) * time.Second
		}
	}
	if v, ok := os.LookupEnv("SESSION_TIMEOUT"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.SessionTimeout = time.Duration(n) * time.Second
		}
	}
}
