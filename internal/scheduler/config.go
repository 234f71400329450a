package scheduler

import (
	"errors"
	"time"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Config struct {
	// Interval between sweep runs.
	Interval time.Duration
	// Timeout bounds a single sweep run.
	Timeout time.Duration
	Enabled bool
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = time.Hour
	}
	if c.Timeout <= 0 {
		c.Timeout = time.Minute
	}
	return c
}
