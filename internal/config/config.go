// Application configuration with the defaults the desktop tool shipped with
package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

const (
	DefaultCannyLow    = 50.0
	DefaultCannyHigh   = 150.0
	DefaultCutoff      = 50.0
	DefaultHybridSigma = 15.0
	DefaultOutputDir   = "output"
)

// Accepted parameter ranges, shared with the operation registry.
const (
	MaxCannyThreshold = 1000.0
	MinCutoff         = 0.1
	MaxCutoff         = 1000.0
	MinHybridSigma    = 0.1
	MaxHybridSigma    = 500.0
)

// Config holds operator parameters and process-level switches.
type Config struct {
	Debug     bool
	OutputDir string

	CannyLow    float64
	CannyHigh   float64
	Cutoff      float64
	HybridSigma float64
}

// Default returns the configuration used when no flag overrides a value.
func Default() Config {
	return Config{
		OutputDir:   DefaultOutputDir,
		CannyLow:    DefaultCannyLow,
		CannyHigh:   DefaultCannyHigh,
		Cutoff:      DefaultCutoff,
		HybridSigma: DefaultHybridSigma,
	}
}

// BindFlags registers every field on fs, using the current values as
// defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug mode with verbose logging")
	fs.StringVarP(&c.OutputDir, "output", "o", c.OutputDir, "Directory for result images")
	fs.Float64Var(&c.CannyLow, "canny-low", c.CannyLow, "Lower hysteresis threshold for Canny")
	fs.Float64Var(&c.CannyHigh, "canny-high", c.CannyHigh, "Upper hysteresis threshold for Canny")
	fs.Float64Var(&c.Cutoff, "cutoff", c.Cutoff, "Gaussian cutoff radius D0 for frequency filters")
	fs.Float64Var(&c.HybridSigma, "sigma", c.HybridSigma, "Low-pass cutoff of hybrid images (high-pass uses 1.5x)")
}

// Validate enforces the parameter contract of the transform engine.
func (c Config) Validate() error {
	if err := inRange("canny-low", c.CannyLow, 0, MaxCannyThreshold); err != nil {
		return err
	}
	if err := inRange("canny-high", c.CannyHigh, 0, MaxCannyThreshold); err != nil {
		return err
	}
	if c.CannyLow > c.CannyHigh {
		return fmt.Errorf("canny-low (%g) must not exceed canny-high (%g)", c.CannyLow, c.CannyHigh)
	}
	if err := inRange("cutoff", c.Cutoff, MinCutoff, MaxCutoff); err != nil {
		return err
	}
	if err := inRange("sigma", c.HybridSigma, MinHybridSigma, MaxHybridSigma); err != nil {
		return err
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	return nil
}

func inRange(flag string, v, low, high float64) error {
	if v < low || v > high {
		return fmt.Errorf("%s must be within [%g, %g]: %g", flag, low, high, v)
	}
	return nil
}
