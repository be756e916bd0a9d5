// Package am loads decross configuration ("I am").
//
// Values cascade, later sources overriding earlier ones:
//
//	built-in defaults
//	/etc/decross/decross.toml
//	~/.decross/decross.toml
//	decross.toml in the working directory or the nearest parent
//	DECROSS_* environment variables (DECROSS_FILTER_THRESHOLDY, ...)
//	command line flags bound with BindFlag
package am

import (
	"time"

	"github.com/teranos/decross/decross"
)

// Config represents the decross configuration
type Config struct {
	Filter   FilterConfig   `mapstructure:"filter" toml:"filter" json:"filter" yaml:"filter"`
	Pipeline PipelineConfig `mapstructure:"pipeline" toml:"pipeline" json:"pipeline" yaml:"pipeline"`
	Log      LogConfig      `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// FilterConfig holds the cross-color filter parameters
type FilterConfig struct {
	Thresholdy int    `mapstructure:"thresholdy" toml:"thresholdy" json:"thresholdy" yaml:"thresholdy"` // luma step that flags a column (default: 30)
	Noise      int    `mapstructure:"noise" toml:"noise" json:"noise" yaml:"noise"`                     // patch difference a substitute must beat (default: 60)
	Margin     int    `mapstructure:"margin" toml:"margin" json:"margin" yaml:"margin"`                 // columns flagged around an edge (default: 1)
	Debug      bool   `mapstructure:"debug" toml:"debug" json:"debug" yaml:"debug"`                     // paint flagged columns instead of correcting
	Kernel     string `mapstructure:"kernel" toml:"kernel" json:"kernel" yaml:"kernel"`                 // packed or scalar
}

// PipelineConfig configures the concurrent frame driver
type PipelineConfig struct {
	Workers            int    `mapstructure:"workers" toml:"workers" json:"workers" yaml:"workers"`                                                 // 0 = size from CPUs and memory
	Progress           string `mapstructure:"progress" toml:"progress" json:"progress" yaml:"progress"`                                             // cli, json or none
	ProgressIntervalMS int    `mapstructure:"progress_interval_ms" toml:"progress_interval_ms" json:"progress_interval_ms" yaml:"progress_interval_ms"` // minimum gap between progress events
}

// LogConfig configures the logger
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" json:"verbosity" yaml:"verbosity"`
}

// Params converts the filter section to decross parameters
func (c FilterConfig) Params() decross.Params {
	return decross.Params{
		LumaThreshold:  c.Thresholdy,
		NoiseThreshold: c.Noise,
		Margin:         c.Margin,
		Debug:          c.Debug,
	}
}

// FilterOptions returns the decross options selected by the filter section.
// Call Validate first; an unknown kernel falls back to packed.
func (c FilterConfig) FilterOptions() []decross.Option {
	k, _ := decross.ParseKernel(c.Kernel)
	return []decross.Option{decross.WithKernel(k)}
}

// ProgressInterval returns the progress throttle interval
func (c PipelineConfig) ProgressInterval() time.Duration {
	return time.Duration(c.ProgressIntervalMS) * time.Millisecond
}
