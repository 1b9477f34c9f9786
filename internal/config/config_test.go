package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50.0, cfg.CannyLow)
	assert.Equal(t, 150.0, cfg.CannyHigh)
	assert.Equal(t, 50.0, cfg.Cutoff)
	assert.Equal(t, 15.0, cfg.HybridSigma)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative canny", func(c *Config) { c.CannyLow = -1 }},
		{"inverted canny", func(c *Config) { c.CannyLow, c.CannyHigh = 200, 100 }},
		{"zero cutoff", func(c *Config) { c.Cutoff = 0 }},
		{"negative sigma", func(c *Config) { c.HybridSigma = -3 }},
		{"cutoff below range", func(c *Config) { c.Cutoff = 0.05 }},
		{"cutoff above range", func(c *Config) { c.Cutoff = 1001 }},
		{"sigma above range", func(c *Config) { c.HybridSigma = 600 }},
		{"canny above range", func(c *Config) { c.CannyHigh = 2000 }},
		{"no output dir", func(c *Config) { c.OutputDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBindFlags(t *testing.T) {
	cfg := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)

	require.NoError(t, fs.Parse([]string{"--cutoff=12.5", "--sigma", "8", "-o", "results", "--debug"}))

	assert.Equal(t, 12.5, cfg.Cutoff)
	assert.Equal(t, 8.0, cfg.HybridSigma)
	assert.Equal(t, "results", cfg.OutputDir)
	assert.True(t, cfg.Debug)
	assert.Equal(t, DefaultCannyHigh, cfg.CannyHigh)
}

func TestValidateAcceptsRangeEdges(t *testing.T) {
	cfg := Default()
	cfg.CannyLow, cfg.CannyHigh = 0, MaxCannyThreshold
	cfg.Cutoff = MinCutoff
	cfg.HybridSigma = MaxHybridSigma
	assert.NoError(t, cfg.Validate())
}
