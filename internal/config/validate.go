package config

import (
	"errors"
	"fmt"
	"math"

	"tci/internal/wave"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExperiment(); err != nil {
		return err
	}
	if err := c.validateSpecimen(); err != nil {
		return err
	}
	if err := c.validatePicking(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateExperiment() error {
	if len([]rune(c.Experiment.Delimiter)) != 1 {
		return fmt.Errorf("experiment.delimiter must be a single character, got %q", c.Experiment.Delimiter)
	}
	if c.Experiment.TimeParam == c.Experiment.CommentColumn {
		return errors.New("experiment.time_param and experiment.comment_column must differ")
	}
	return nil
}

func (c *Config) validateSpecimen() error {
	if c.Specimen.Length < 0 || math.IsNaN(c.Specimen.Length) {
		return errors.New("specimen.length must be zero (unset) or positive")
	}
	if c.Specimen.Density < 0 || math.IsNaN(c.Specimen.Density) {
		return errors.New("specimen.density must be zero (unset) or positive")
	}
	return nil
}

func (c *Config) validatePicking() error {
	if _, err := wave.ParseSet(c.Picking.ActiveWaves); err != nil {
		return fmt.Errorf("picking.active_waves: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
