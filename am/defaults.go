package am

import (
	"github.com/spf13/viper"

	"github.com/teranos/decross/decross"
)

// Config file locations
const (
	ConfigFileName = "decross.toml"
	SystemConfig   = "/etc/decross/decross.toml"
	UserConfigDir  = ".decross"
	EnvPrefix      = "DECROSS"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Filter defaults
	v.SetDefault("filter.thresholdy", decross.DefaultLumaThreshold)
	v.SetDefault("filter.noise", decross.DefaultNoiseThreshold)
	v.SetDefault("filter.margin", decross.DefaultMargin)
	v.SetDefault("filter.debug", false)
	v.SetDefault("filter.kernel", decross.KernelPacked.String())

	// Pipeline defaults
	v.SetDefault("pipeline.workers", 0) // size from host
	v.SetDefault("pipeline.progress", "none")
	v.SetDefault("pipeline.progress_interval_ms", 500)

	// Log defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}
