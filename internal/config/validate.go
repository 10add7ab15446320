package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateSummary(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTools() error {
	switch c.Tools.Discovery {
	case DiscoveryWalk, DiscoveryFind:
	default:
		return fmt.Errorf("tools.discovery must be %q or %q, got %q", DiscoveryWalk, DiscoveryFind, c.Tools.Discovery)
	}
	if c.Tools.TransformTimeoutMS <= 0 {
		return errors.New("tools.transform_timeout_ms must be positive")
	}
	return nil
}

func (c *Config) validateSummary() error {
	if c.Summary.Workers < 1 || c.Summary.Workers > maxWorkers {
		return fmt.Errorf("summary.workers must be between 1 and %d", maxWorkers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
