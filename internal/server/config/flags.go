package config

import (
	"flag"
	"os"
	"time"

	"github.com/techclub/recruitd/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-m int      max failed login attempts before lockout
//	-l int      lockout duration, seconds
//	-t int      session timeout, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration flags
// are accepted as integers in seconds and converted to time.Duration values.
// Bootstrap credentials are not flags; see parseEnv.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-l", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.MaxFailedAttempts, "m", config.MaxFailedAttempts, "max failed login attempts before lockout")

	lockoutDuration := fs.Int("l", int(config.LockoutDuration.Seconds()), "lockout duration (in seconds)")
	sessionTimeout := fs.Int("t", int(config.SessionTimeout.Seconds()), "session timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.LockoutDuration = time.Duration(*lockoutDuration) * time.Second
	config.SessionTimeout = time.Duration(*sessionTimeout) * time.Second
}
