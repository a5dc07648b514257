// Package config holds the server configuration, read from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config of the GoSet server. Command-line flags take precedence over these values.
type Config struct {
	// Addr to listen on. Empty means an automatic port on localhost.
	Addr string `env:"GOSET_ADDR"`

	// WebDir is the directory with static assets served under /web/.
	WebDir string `env:"GOSET_WEB_DIR,default=web"`

	// NATSURL enables publishing of game events when set.
	NATSURL string `env:"GOSET_NATS_URL"`

	// NATSSubject is the prefix of the subjects events are published to.
	NATSSubject string `env:"GOSET_NATS_SUBJECT,default=goset.events"`

	// ShutdownTimeout bounds the graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `env:"GOSET_SHUTDOWN_TIMEOUT,default=5s"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		WebDir:          "web",
		NATSSubject:     "goset.events",
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load reads the configuration from the environment.
// Malformed values (e.g.: an unparsable duration) are errors.
func Load() (Config, error) {
	cfg := Default()
	if err := envdecode.StrictDecode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("failed to decode configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout %s: must be positive", c.ShutdownTimeout)
	}
	// From the environment an empty subject gets its default back: this only guards configs built in code.
	if c.NATSURL != "" && c.NATSSubject == "" {
		return errors.New("a NATS subject is required when a NATS URL is set")
	}
	return nil
}
