// Edge detection algorithms
package algorithms

import (
	"fmt"
	"strings"

	"image-transform-lab/internal/config"
	"image-transform-lab/internal/spatial"
)

// GradientEdge runs a fixed-kernel gradient operator (Sobel, Prewitt, Roberts)
type GradientEdge struct {
	op spatial.Operator
}

// NewGradientEdge creates a gradient edge algorithm for op
func NewGradientEdge(op spatial.Operator) *GradientEdge {
	return &GradientEdge{op: op}
}

func (g *GradientEdge) Apply(inputs Inputs, params map[string]interface{}) (Output, error) {
	if inputs.Primary.Empty() {
		return Output{}, ErrEmptyInput
	}

	result := spatial.ApplyGradientOperator(inputs.Primary, g.op)
	if result.Empty() {
		result.Close()
		return Output{}, fmt.Errorf("%s: %w", g.op, ErrNoOutput)
	}

	out := Output{Images: []NamedImage{
		{Name: "x", Mat: result.X},
		{Name: "y", Mat: result.Y},
		{Name: "magnitude", Mat: result.Magnitude},
	}}
	if boolParam(params, "preview_strip", false) {
		out.Images = append(out.Images, NamedImage{Name: "strip", Mat: result.Strip()})
	}
	return out, nil
}

func (g *GradientEdge) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"preview_strip": false,
	}
}

func (g *GradientEdge) GetName() string {
	return strings.ToUpper(g.op.String()[:1]) + g.op.String()[1:]
}

func (g *GradientEdge) GetDescription() string {
	return fmt.Sprintf("%s gradient: X, Y and magnitude from two 3x3 kernels", g.GetName())
}

func (g *GradientEdge) Validate(params map[string]interface{}) error {
	if val, ok := params["preview_strip"]; ok {
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("preview_strip must be a bool")
		}
	}
	return nil
}

func (g *GradientEdge) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "preview_strip",
			Type:        "bool",
			Default:     false,
			Description: "Also produce X | Y | magnitude side by side",
		},
	}
}

func (g *GradientEdge) InputCount() int { return 1 }

// CannyEdge delegates to OpenCV's multi-stage Canny detector
type CannyEdge struct{}

// NewCannyEdge creates a new Canny algorithm
func NewCannyEdge() *CannyEdge {
	return &CannyEdge{}
}

func (c *CannyEdge) Apply(inputs Inputs, params map[string]interface{}) (Output, error) {
	if inputs.Primary.Empty() {
		return Output{}, ErrEmptyInput
	}

	thresholds := spatial.CannyThresholds{
		Low:  floatParam(params, "low_threshold", config.DefaultCannyLow),
		High: floatParam(params, "high_threshold", config.DefaultCannyHigh),
	}

	edges := spatial.ApplyCanny(inputs.Primary, thresholds)
	if edges.Empty() {
		edges.Close()
		return Output{}, fmt.Errorf("canny: %w", ErrNoOutput)
	}
	return Output{Images: []NamedImage{{Name: "edges", Mat: edges}}}, nil
}

func (c *CannyEdge) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"low_threshold":  config.DefaultCannyLow,
		"high_threshold": config.DefaultCannyHigh,
	}
}

func (c *CannyEdge) GetName() string {
	return "Canny"
}

func (c *CannyEdge) GetDescription() string {
	return "Canny edge map with non-maximum suppression and hysteresis"
}

func (c *CannyEdge) Validate(params map[string]interface{}) error {
	if err := checkRange(params, "low_threshold", 0, config.MaxCannyThreshold); err != nil {
		return err
	}
	if err := checkRange(params, "high_threshold", 0, config.MaxCannyThreshold); err != nil {
		return err
	}

	low := floatParam(params, "low_threshold", config.DefaultCannyLow)
	high := floatParam(params, "high_threshold", config.DefaultCannyHigh)
	if low > high {
		return fmt.Errorf("low_threshold (%g) must not exceed high_threshold (%g)", low, high)
	}
	return nil
}

func (c *CannyEdge) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "low_threshold",
			Type:        "float",
			Min:         0.0,
			Max:         config.MaxCannyThreshold,
			Default:     config.DefaultCannyLow,
			Description: "Lower hysteresis threshold",
		},
		{
			Name:        "high_threshold",
			Type:        "float",
			Min:         0.0,
			Max:         config.MaxCannyThreshold,
			Default:     config.DefaultCannyHigh,
			Description: "Upper hysteresis threshold",
		},
	}
}

func (c *CannyEdge) InputCount() int { return 1 }

