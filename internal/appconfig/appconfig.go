// Package appconfig holds the process-start configuration read from
// the environment: where the database lives, whether this run is a
// single-run worker, and the dashboard listen port. This is distinct
// from the in-database key/value Config entries in internal/store,
// which operators change without restarting anything.
package appconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process-start configuration, parsed once from the
// environment at startup.
type Config struct {
	DataDir      string        `env:"QUEUECTL_DATA_DIR" envDefault:"."`
	SingleRun    bool          `env:"SINGLE_RUN" envDefault:"false"`
	Port         int           `env:"PORT" envDefault:"8080"`
	PollInterval time.Duration `env:"QUEUECTL_POLL_INTERVAL" envDefault:"200ms"`
	LogLevel     string        `env:"QUEUECTL_LOG_LEVEL" envDefault:"info"`
}

// Load parses Config from the environment, applying defaults for any
// variable that isn't set.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
