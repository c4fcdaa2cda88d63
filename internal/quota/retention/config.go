package retention

import "time"

// Config controls the stale-counter pruning loop.
type Config struct {
	// KeepDays is how many calendar days of superseded counters to keep
	// before deletion.
	KeepDays     int
	BatchSize    int
	PollInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		KeepDays:     30,
		BatchSize:    500,
		PollInterval: time.Hour,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.KeepDays <= 0 {
		c.KeepDays = defaults.KeepDays
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	return c
}
