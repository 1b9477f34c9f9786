// Algorithm registry: the boundary where operation names become typed calls
package algorithms

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"gocv.io/x/gocv"

	"image-transform-lab/internal/config"
	"image-transform-lab/internal/frequency"
	"image-transform-lab/internal/spatial"
)

var (
	ErrNotFound         = errors.New("algorithm not found")
	ErrEmptyInput       = errors.New("input image is empty")
	ErrMissingSecondary = errors.New("second input image is required")
	ErrNoOutput         = errors.New("operation produced no output")
)

// Algorithm defines the interface for image processing algorithms
type Algorithm interface {
	Apply(inputs Inputs, params map[string]interface{}) (Output, error)
	GetDefaultParams() map[string]interface{}
	GetName() string
	GetDescription() string
	Validate(params map[string]interface{}) error
	GetParameterInfo() []ParameterInfo
	InputCount() int
}

// ParameterInfo describes a parameter for UI generation
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "int", "float", "bool"
	Min         interface{} `json:"min,omitempty"`
	Max         interface{} `json:"max,omitempty"`
	Default     interface{} `json:"default"`
	Description string      `json:"description"`
}

// Inputs carries the caller-owned images an algorithm reads.
type Inputs struct {
	Primary   gocv.Mat
	Secondary gocv.Mat
}

// NamedImage is one output image with a display label.
type NamedImage struct {
	Name string
	Mat  gocv.Mat
}

// Output holds the images produced by one Apply call, in display order.
type Output struct {
	Images []NamedImage
}

// Get returns the image with the given name.
func (o Output) Get(name string) (gocv.Mat, bool) {
	img, ok := lo.Find(o.Images, func(n NamedImage) bool { return n.Name == name })
	return img.Mat, ok
}

// Names lists the output labels in order.
func (o Output) Names() []string {
	return lo.Map(o.Images, func(n NamedImage, _ int) string { return n.Name })
}

// Close releases every image.
func (o *Output) Close() {
	for i := range o.Images {
		o.Images[i].Mat.Close()
	}
	o.Images = nil
}

var algorithms = make(map[string]Algorithm)

func Register(name string, algorithm Algorithm) {
	algorithms[name] = algorithm
}

func Get(name string) (Algorithm, bool) {
	algorithm, exists := algorithms[name]
	return algorithm, exists
}

func Apply(name string, inputs Inputs, params map[string]interface{}) (Output, error) {
	algorithm, exists := algorithms[name]
	if !exists {
		return Output{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := algorithm.Validate(params); err != nil {
		return Output{}, fmt.Errorf("invalid parameters for %s: %w", name, err)
	}
	return algorithm.Apply(inputs, params)
}

func ValidateParameters(name string, params map[string]interface{}) error {
	algorithm, exists := algorithms[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return algorithm.Validate(params)
}

func IsValidAlgorithm(name string) bool {
	_, exists := algorithms[name]
	return exists
}

// Names returns every registered algorithm name in sorted order.
func Names() []string {
	names := lo.Keys(algorithms)
	sort.Strings(names)
	return names
}

func GetAlgorithmsByCategory() map[string][]string {
	return map[string][]string{
		"Edge Detection": {
			"sobel",
			"prewitt",
			"roberts",
			"canny",
		},
		"Frequency Domain": {
			"gaussian_low_pass",
			"gaussian_high_pass",
			"hybrid",
		},
	}
}

// ParamsFromConfig builds the parameter map of name from cfg, falling back
// to the algorithm defaults for anything cfg does not cover.
func ParamsFromConfig(name string, cfg config.Config) map[string]interface{} {
	algorithm, exists := algorithms[name]
	if !exists {
		return map[string]interface{}{}
	}

	params := algorithm.GetDefaultParams()
	switch name {
	case "canny":
		params["low_threshold"] = cfg.CannyLow
		params["high_threshold"] = cfg.CannyHigh
	case "gaussian_low_pass", "gaussian_high_pass":
		params["cutoff"] = cfg.Cutoff
	case "hybrid":
		params["sigma"] = cfg.HybridSigma
	}
	return params
}

func init() {
	Register("sobel", NewGradientEdge(spatial.Sobel))
	Register("prewitt", NewGradientEdge(spatial.Prewitt))
	Register("roberts", NewGradientEdge(spatial.Roberts))
	Register("canny", NewCannyEdge())

	Register("gaussian_low_pass", NewGaussianFrequencyFilter(frequency.LowPass))
	Register("gaussian_high_pass", NewGaussianFrequencyFilter(frequency.HighPass))
	Register("hybrid", NewHybridImage())
}

// floatParam reads a numeric parameter, accepting float64 or int.
func floatParam(params map[string]interface{}, name string, def float64) float64 {
	switch v := params[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

func boolParam(params map[string]interface{}, name string, def bool) bool {
	if v, ok := params[name].(bool); ok {
		return v
	}
	return def
}

// checkRange validates an optional numeric parameter.
func checkRange(params map[string]interface{}, name string, low, high float64) error {
	if _, present := params[name]; !present {
		return nil
	}
	v := floatParam(params, name, low-1)
	if v < low || v > high {
		return fmt.Errorf("%s must be between %g and %g", name, low, high)
	}
	return nil
}
