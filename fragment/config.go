package fragment

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/sartorproj/goshot/denoise"
	"github.com/sartorproj/goshot/detector"
	"github.com/sartorproj/goshot/stats"
)

// Default tuning. The flatness threshold and tolerance were calibrated on
// unit-spaced samples and may need adjusting for other sampling rates.
const (
	DefaultSmoothing         = 1.0
	DefaultMinPoints         = 15
	DefaultMaxPoints         = 100
	DefaultSpare             = 2
	DefaultFlatnessThreshold = 0.1
	DefaultTolerance         = 0.1
)

// ErrInvalidConfig is returned for configurations that fail validation.
var ErrInvalidConfig = errors.New("fragment: invalid config")

var validate = validator.New()

// Config holds the iterator tuning.
type Config struct {
	Smoothing         float64      `yaml:"smoothing" validate:"gte=0"`               // spline smoothing weight (default: 1.0)
	MinPoints         int          `yaml:"min_points" validate:"gte=5"`              // samples before the first analysis (default: 15)
	MaxPoints         int          `yaml:"max_points" validate:"gtefield=MinPoints"` // window cap (default: 100)
	Spare             int          `yaml:"spare" validate:"gte=0,ltfield=MinPoints"` // look-back kept across shifts (default: 2)
	IQRMultiplier     float64      `yaml:"iqr_multiplier" validate:"gt=0"`           // box-plot fence length (default: 1.5)
	FlatnessThreshold float64      `yaml:"flatness_threshold" validate:"gte=0"`      // minimum derivative box width (default: 0.1)
	Tolerance         float64      `yaml:"tolerance" validate:"gte=0"`               // derivative jitter ignored by the detector (default: 0.1)
	MinShotWidth      int          `yaml:"min_shot_width" validate:"gte=1"`          // minimum pulse width in samples (default: 5)
	Denoise           denoise.Mode `yaml:"denoise"`                                  // outlier handling (default: drop)
	DenoisePasses     int          `yaml:"denoise_passes" validate:"gte=1,lte=10"`   // reject/refit passes (default: 1)
}

// DefaultConfig returns the default iterator configuration.
func DefaultConfig() *Config {
	return &Config{
		Smoothing:         DefaultSmoothing,
		MinPoints:         DefaultMinPoints,
		MaxPoints:         DefaultMaxPoints,
		Spare:             DefaultSpare,
		IQRMultiplier:     stats.DefaultMultiplier,
		FlatnessThreshold: DefaultFlatnessThreshold,
		Tolerance:         DefaultTolerance,
		MinShotWidth:      detector.DefaultMinCount,
		Denoise:           denoise.Drop,
		DenoisePasses:     1,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Spare+1 >= c.MinPoints {
		return fmt.Errorf("%w: spare %d leaves no tail in a window of %d points", ErrInvalidConfig, c.Spare, c.MinPoints)
	}
	if c.Denoise != denoise.Drop && c.Denoise != denoise.Downweight {
		return fmt.Errorf("%w: denoise mode %v", ErrInvalidConfig, c.Denoise)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads a YAML configuration file. Keys missing from the file keep
// their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration data over the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) denoiser() *denoise.Denoiser {
	return &denoise.Denoiser{
		Smoothing:     c.Smoothing,
		Multiplier:    c.IQRMultiplier,
		Mode:          c.Denoise,
		OutlierWeight: denoise.DefaultOutlierWeight,
		Iterations:    c.DenoisePasses,
	}
}

func (c *Config) detector() detector.Detector {
	return detector.Detector{
		Tolerance: c.Tolerance,
		MinCount:  c.MinShotWidth,
	}
}
