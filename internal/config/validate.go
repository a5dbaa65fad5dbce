package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConversion(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateConversion() error {
	source, err := c.SourceFormat()
	if err != nil {
		return fmt.Errorf("conversion.source_format: %w", err)
	}
	target, err := c.TargetFormat()
	if err != nil {
		return fmt.Errorf("conversion.target_format: %w", err)
	}
	if source.Name == target.Name {
		return fmt.Errorf("conversion.target_format must differ from source_format (both %q)", source.Name)
	}
	if c.Conversion.Jobs < 0 {
		return errors.New("conversion.jobs must be zero (one per CPU) or positive")
	}
	if c.Conversion.TaskTimeoutSeconds < 0 {
		return errors.New("conversion.task_timeout_seconds must be zero (disabled) or positive")
	}
	switch c.Conversion.Overwrite {
	case "skip", "prompt", "replace":
	default:
		return fmt.Errorf("conversion.overwrite: unsupported value %q (want skip, prompt, or replace)", c.Conversion.Overwrite)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
