package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/techclub/recruitd/internal/flagx"
	"github.com/techclub/recruitd/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
// Bootstrap credentials are intentionally absent: they come from the
// environment only.
type JsonConfig struct {
	EndpointAddr      string         `json:"endpoint_addr"`
	DatabaseDSN       string         `json:"database_dsn"`
	MaxFailedAttempts int            `json:"max_failed_attempts"`
	LockoutDuration   timex.Duration `json:"lockout_duration"`
	SessionTimeout    timex.Duration `json:"session_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.MaxFailedAttempts > 0 {
		config.MaxFailedAttempts = c.MaxFailedAttempts
	}
	if c.LockoutDuration.Duration > 0 {
		config.LockoutDuration = time.Duration(c.LockoutDuration.Duration)
	}
	if c.SessionTimeout.Duration > 0 {
		config.SessionTimeout = time.Duration(c.SessionTimeout.Duration)
	}
}
