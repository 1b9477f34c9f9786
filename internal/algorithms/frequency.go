// Frequency-domain algorithms
package algorithms

import (
	"fmt"

	"image-transform-lab/internal/config"
	"image-transform-lab/internal/frequency"
)

// GaussianFrequencyFilter applies a Gaussian low- or high-pass mask in the
// Fourier domain
type GaussianFrequencyFilter struct {
	mode frequency.Mode
}

// NewGaussianFrequencyFilter creates a frequency filter with fixed polarity
func NewGaussianFrequencyFilter(mode frequency.Mode) *GaussianFrequencyFilter {
	return &GaussianFrequencyFilter{mode: mode}
}

func (g *GaussianFrequencyFilter) Apply(inputs Inputs, params map[string]interface{}) (Output, error) {
	if inputs.Primary.Empty() {
		return Output{}, ErrEmptyInput
	}

	cutoff := floatParam(params, "cutoff", config.DefaultCutoff)
	filtered := frequency.ApplyFilter(inputs.Primary, cutoff, g.mode)
	if filtered.Empty() {
		filtered.Close()
		return Output{}, fmt.Errorf("%s filter on %dx%d image: %w",
			g.mode, inputs.Primary.Cols(), inputs.Primary.Rows(), ErrNoOutput)
	}
	return Output{Images: []NamedImage{{Name: "filtered", Mat: filtered}}}, nil
}

func (g *GaussianFrequencyFilter) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"cutoff": config.DefaultCutoff,
	}
}

func (g *GaussianFrequencyFilter) GetName() string {
	if g.mode == frequency.HighPass {
		return "Gaussian High Pass"
	}
	return "Gaussian Low Pass"
}

func (g *GaussianFrequencyFilter) GetDescription() string {
	if g.mode == frequency.HighPass {
		return "Removes low frequencies, keeping edges and fine texture"
	}
	return "Removes high frequencies, blurring the image"
}

func (g *GaussianFrequencyFilter) Validate(params map[string]interface{}) error {
	return checkRange(params, "cutoff", config.MinCutoff, config.MaxCutoff)
}

func (g *GaussianFrequencyFilter) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "cutoff",
			Type:        "float",
			Min:         config.MinCutoff,
			Max:         config.MaxCutoff,
			Default:     config.DefaultCutoff,
			Description: "Cutoff radius D0 in frequency samples",
		},
	}
}

func (g *GaussianFrequencyFilter) InputCount() int { return 1 }

// HybridImage combines the low frequencies of one image with the high
// frequencies of another
type HybridImage struct{}

// NewHybridImage creates a new hybrid image algorithm
func NewHybridImage() *HybridImage {
	return &HybridImage{}
}

func (h *HybridImage) Apply(inputs Inputs, params map[string]interface{}) (Output, error) {
	if inputs.Primary.Empty() {
		return Output{}, ErrEmptyInput
	}
	if inputs.Secondary.Empty() {
		return Output{}, ErrMissingSecondary
	}

	sigma := floatParam(params, "sigma", config.DefaultHybridSigma)
	hybrid := frequency.CreateHybrid(inputs.Primary, inputs.Secondary, sigma)
	if hybrid.Empty() {
		hybrid.Close()
		return Output{}, fmt.Errorf("hybrid: %w", ErrNoOutput)
	}
	return Output{Images: []NamedImage{{Name: "hybrid", Mat: hybrid}}}, nil
}

func (h *HybridImage) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"sigma": config.DefaultHybridSigma,
	}
}

func (h *HybridImage) GetName() string {
	return "Hybrid Image"
}

func (h *HybridImage) GetDescription() string {
	return fmt.Sprintf("Low-pass of image A at sigma plus high-pass of image B at %.1f x sigma", frequency.HighPassRatio)
}

func (h *HybridImage) Validate(params map[string]interface{}) error {
	return checkRange(params, "sigma", config.MinHybridSigma, config.MaxHybridSigma)
}

func (h *HybridImage) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "sigma",
			Type:        "float",
			Min:         config.MinHybridSigma,
			Max:         config.MaxHybridSigma,
			Default:     config.DefaultHybridSigma,
			Description: "Low-pass cutoff for image A; image B uses 1.5x",
		},
	}
}

func (h *HybridImage) InputCount() int { return 2 }
