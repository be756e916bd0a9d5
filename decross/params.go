package decross

import (
	"github.com/teranos/decross/errors"
	"github.com/teranos/decross/video"
)

// Parameter defaults and limits
const (
	DefaultLumaThreshold  = 30
	DefaultNoiseThreshold = 60
	DefaultMargin         = 1

	MaxThreshold = 255
	MaxMargin    = 4
)

// Params holds the filter parameters. It is a plain value; a Filter keeps its
// own copy and never changes it.
type Params struct {
	// LumaThreshold is the minimum |left-right| luma step (exclusive) that flags a column
	LumaThreshold int `json:"thresholdy" yaml:"thresholdy" toml:"thresholdy" mapstructure:"thresholdy"`
	// NoiseThreshold bounds the patch difference a substitute candidate must beat
	NoiseThreshold int `json:"noise" yaml:"noise" toml:"noise" mapstructure:"noise"`
	// Margin is the number of neighbouring columns flagged on each side of an edge
	Margin int `json:"margin" yaml:"margin" toml:"margin" mapstructure:"margin"`
	// Debug paints flagged columns (U=128, V=255) instead of correcting them
	Debug bool `json:"debug" yaml:"debug" toml:"debug" mapstructure:"debug"`
}

// DefaultParams returns the default filter parameters
func DefaultParams() Params {
	return Params{
		LumaThreshold:  DefaultLumaThreshold,
		NoiseThreshold: DefaultNoiseThreshold,
		Margin:         DefaultMargin,
	}
}

// Validate checks every parameter range
func (p Params) Validate() error {
	if p.LumaThreshold < 0 || p.LumaThreshold > MaxThreshold {
		return errors.WithHint(
			errors.NewInvalidConfigError("thresholdy must be between 0 and 255 (inclusive), got %d", p.LumaThreshold),
			"omit thresholdy to use the default of 30")
	}
	if p.NoiseThreshold < 0 || p.NoiseThreshold > MaxThreshold {
		return errors.WithHint(
			errors.NewInvalidConfigError("noise must be between 0 and 255 (inclusive), got %d", p.NoiseThreshold),
			"omit noise to use the default of 60")
	}
	if p.Margin < 0 || p.Margin > MaxMargin {
		return errors.WithHint(
			errors.NewInvalidConfigError("margin must be between 0 and 4 (inclusive), got %d", p.Margin),
			"omit margin to use the default of 1")
	}
	return nil
}

// ValidateInfo checks that a clip can be processed: YUV420P8 or YUV422P8 with
// known, non-zero dimensions.
func ValidateInfo(info video.Info) error {
	if info.Format != video.FormatYUV420P8 && info.Format != video.FormatYUV422P8 {
		return errors.WithHint(
			errors.NewUnsupportedFormatError("only YUV420P8 and YUV422P8 with constant format and dimensions supported, got %s", info.Format),
			"convert the clip to 8-bit 4:2:0 or 4:2:2 before filtering")
	}
	if info.Width <= 0 || info.Height <= 0 {
		return errors.NewUnsupportedFormatError("only YUV420P8 and YUV422P8 with constant format and dimensions supported, got %dx%d", info.Width, info.Height)
	}
	return nil
}
