package sandbox

import (
	"strconv"
)

// Config controls a Simulation's dimensions and the rule documents it loads.
type Config struct {
	Width  int
	Height int

	Seed int64

	// Rules is a directory of rule documents loaded over the embedded
	// defaults. Empty means defaults only.
	Rules string
	// Defaults loads the embedded rule documents when set.
	Defaults bool

	// QueueSize bounds the pending command queue.
	QueueSize int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:     200,
		Height:    150,
		Seed:      1337,
		Defaults:  true,
		QueueSize: 256,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["rules"]; ok {
		c.Rules = v
	}
	if v, ok := cfg["defaults"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Defaults = parsed
		}
	}
	if v, ok := cfg["queue"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.QueueSize = parsed
		}
	}
	return c
}
