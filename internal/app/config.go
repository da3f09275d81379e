package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestsPath string // directory of kind manifest .hcl files

	TickRate      time.Duration // interval between ticks
	MaxTicks      uint64        // stop after this many ticks, 0 runs forever
	InspectorPort int           // port for the inspector HTTP server, 0 disables it

	LogFormat string
	LogLevel  string
}

// NewConfig validates a config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TickRate <= 0 {
		return nil, errors.New("TickRate must be a positive interval")
	}
	return &cfg, nil
}
