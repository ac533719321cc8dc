package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = zerolog.LevelInfoValue
	}
}

// Validate checks the level name.
func (c LoggingConfig) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	return nil
}

// Apply sets the global log level.
func (c LoggingConfig) Apply() error {
	lvl, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
