package spatial

import (
	"fmt"
	"strings"

	"gocv.io/x/gocv"

	"image-transform-lab/internal/raster"
)

// Operator selects an edge detector.
type Operator int

const (
	Sobel Operator = iota
	Prewitt
	Roberts
	Canny
)

var operatorNames = map[Operator]string{
	Sobel:   "sobel",
	Prewitt: "prewitt",
	Roberts: "roberts",
	Canny:   "canny",
}

func (op Operator) String() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return fmt.Sprintf("operator(%d)", int(op))
}

// IsGradient reports whether op produces an X/Y/magnitude triplet.
func (op Operator) IsGradient() bool {
	return op == Sobel || op == Prewitt || op == Roberts
}

// ParseOperator maps a case-insensitive label to an Operator.
func ParseOperator(label string) (Operator, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	for op, name := range operatorNames {
		if name == key {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown edge operator: %q", label)
}

var gradientKernels = map[Operator][2]Kernel{
	Sobel: {
		mustKernel([][]int{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}),
		mustKernel([][]int{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}),
	},
	Prewitt: {
		mustKernel([][]int{{-1, 0, 1}, {-1, 0, 1}, {-1, 0, 1}}),
		mustKernel([][]int{{-1, -1, -1}, {0, 0, 0}, {1, 1, 1}}),
	},
	// The 2x2 Roberts cross is zero-padded into 3x3 so it shares the
	// convolution path; its support sits one pixel up-left of a true 2x2.
	Roberts: {
		mustKernel([][]int{{1, 0, 0}, {0, -1, 0}, {0, 0, 0}}),
		mustKernel([][]int{{0, 1, 0}, {-1, 0, 0}, {0, 0, 0}}),
	},
}

// KernelsFor returns the X and Y kernels of a gradient operator.
func KernelsFor(op Operator) (Kernel, Kernel, bool) {
	pair, ok := gradientKernels[op]
	return pair[0], pair[1], ok
}

// ApplyGradientOperator runs op's kernel pair over img and combines the
// responses. Canny and empty inputs yield empty images.
func ApplyGradientOperator(img gocv.Mat, op Operator) GradientImages {
	kx, ky, ok := KernelsFor(op)
	if img.Empty() || !ok {
		return GradientImages{X: gocv.NewMat(), Y: gocv.NewMat(), Magnitude: gocv.NewMat()}
	}

	gray := raster.ToGray(img)
	defer gray.Close()

	pair := GradientPair{X: Convolve(gray, kx), Y: Convolve(gray, ky)}
	defer pair.Close()

	return CombineGradients(pair)
}

// CannyThresholds are the hysteresis bounds handed to OpenCV's Canny.
type CannyThresholds struct {
	Low  float64
	High float64
}

// DefaultCannyThresholds mirrors the values the desktop tool always used.
var DefaultCannyThresholds = CannyThresholds{Low: 50, High: 150}

// ApplyCanny returns a binary edge map (0 or 255) of img.
func ApplyCanny(img gocv.Mat, t CannyThresholds) gocv.Mat {
	if img.Empty() {
		return gocv.NewMat()
	}

	gray := raster.ToGray(img)
	defer gray.Close()

	edges := gocv.NewMat()
	gocv.Canny(gray, &edges, float32(t.Low), float32(t.High))
	return edges
}

// EdgeResult carries either a gradient triplet or a single Canny map.
type EdgeResult struct {
	Operator  Operator
	Gradients GradientImages
	Edges     gocv.Mat
}

// IsGradient reports whether the result holds X/Y/magnitude images.
func (r EdgeResult) IsGradient() bool {
	return r.Operator.IsGradient()
}

// Empty reports whether the detector produced nothing.
func (r EdgeResult) Empty() bool {
	if r.IsGradient() {
		return r.Gradients.Empty()
	}
	return r.Edges.Empty()
}

// Close releases every image the result holds.
func (r *EdgeResult) Close() {
	r.Gradients.Close()
	r.Edges.Close()
}

// Detect dispatches img to op. Gradient operators fill Gradients and leave
// Edges empty; Canny does the reverse.
func Detect(img gocv.Mat, op Operator, t CannyThresholds) EdgeResult {
	if op == Canny {
		return EdgeResult{
			Operator:  op,
			Gradients: GradientImages{X: gocv.NewMat(), Y: gocv.NewMat(), Magnitude: gocv.NewMat()},
			Edges:     ApplyCanny(img, t),
		}
	}
	return EdgeResult{
		Operator:  op,
		Gradients: ApplyGradientOperator(img, op),
		Edges:     gocv.NewMat(),
	}
}
