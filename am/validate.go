package am

import (
	"github.com/teranos/decross/decross"
	"github.com/teranos/decross/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := c.Filter.Params().Validate(); err != nil {
		return errors.Wrap(err, "filter")
	}
	if _, err := decross.ParseKernel(c.Filter.Kernel); err != nil {
		return errors.Wrap(err, "filter.kernel")
	}

	// Pipeline workers: 0 = auto, negative = invalid
	if c.Pipeline.Workers < 0 {
		return errors.NewInvalidConfigError("pipeline.workers must be >= 0, got %d", c.Pipeline.Workers)
	}
	switch c.Pipeline.Progress {
	case "cli", "json", "none", "":
	default:
		return errors.WithHint(
			errors.NewInvalidConfigError("pipeline.progress must be cli, json or none, got %q", c.Pipeline.Progress),
			"use none when stdout carries the output stream and stderr is not a terminal")
	}
	if c.Pipeline.ProgressIntervalMS < 0 {
		return errors.NewInvalidConfigError("pipeline.progress_interval_ms must be >= 0, got %d", c.Pipeline.ProgressIntervalMS)
	}

	if c.Log.Verbosity < 0 {
		return errors.NewInvalidConfigError("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	return nil
}
