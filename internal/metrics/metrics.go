// Quality metrics comparing a grayscale input with an operation's output
package metrics

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/samber/lo"
	"gocv.io/x/gocv"

	"image-transform-lab/internal/raster"
)

// Metric defines the interface for pairwise quality metrics
type Metric interface {
	Calculate(original, processed gocv.Mat) (float64, error)
	GetName() string
	GetDescription() string
	GetRange() (float64, float64)
	IsHigherBetter() bool
}

// MetricInfo provides metadata about a metric
type MetricInfo struct {
	Name         string
	Description  string
	Range        [2]float64
	HigherBetter bool
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}
	e.RegisterDefaultMetrics()
	return e
}

func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("psnr", NewPSNR())
	e.Register("ssim", NewSSIM())
	e.Register("mse", NewMSE())
}

func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Names returns registered metric names in sorted order.
func (e *Evaluator) Names() []string {
	names := lo.Keys(e.metrics)
	sort.Strings(names)
	return names
}

func (e *Evaluator) Calculate(name string, original, processed gocv.Mat) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}
	return metric.Calculate(original, processed)
}

func (e *Evaluator) CalculateAll(original, processed gocv.Mat) map[string]float64 {
	results := make(map[string]float64)
	for name, metric := range e.metrics {
		if value, err := metric.Calculate(original, processed); err == nil {
			results[name] = value
		}
	}
	return results
}

func (e *Evaluator) CalculatePSNR(original, processed gocv.Mat) (float64, error) {
	return e.Calculate("psnr", original, processed)
}

func (e *Evaluator) CalculateSSIM(original, processed gocv.Mat) (float64, error) {
	return e.Calculate("ssim", original, processed)
}

// Compare converts the input to grayscale, crops it to the output's size
// when the operation truncated to even dimensions, and evaluates every
// metric. Outputs larger than the input (preview strips) are skipped.
func (e *Evaluator) Compare(input, output gocv.Mat) map[string]float64 {
	if input.Empty() || output.Empty() {
		return map[string]float64{}
	}
	if output.Rows() > input.Rows() || output.Cols() > input.Cols() {
		return map[string]float64{}
	}

	gray := raster.ToGray(input)
	defer gray.Close()

	cropped := raster.Crop(gray, output.Rows(), output.Cols())
	defer cropped.Close()

	return e.CalculateAll(cropped, output)
}

// GetMetricInfo returns information about all metrics
func (e *Evaluator) GetMetricInfo() map[string]MetricInfo {
	info := make(map[string]MetricInfo)
	for name, metric := range e.metrics {
		low, high := metric.GetRange()
		info[name] = MetricInfo{
			Name:         metric.GetName(),
			Description:  metric.GetDescription(),
			Range:        [2]float64{low, high},
			HigherBetter: metric.IsHigherBetter(),
		}
	}
	return info
}

// grayPair validates two inputs and returns grayscale copies of both.
func grayPair(original, processed gocv.Mat) (gocv.Mat, gocv.Mat, error) {
	if original.Empty() || processed.Empty() {
		return gocv.NewMat(), gocv.NewMat(), fmt.Errorf("empty images")
	}
	if !raster.SameSize(original, processed) {
		return gocv.NewMat(), gocv.NewMat(), fmt.Errorf("dimension mismatch: %dx%d vs %dx%d",
			original.Cols(), original.Rows(), processed.Cols(), processed.Rows())
	}
	return raster.ToGray(original), raster.ToGray(processed), nil
}

// MSE is the mean squared difference of two grayscale images
type MSE struct{}

func NewMSE() *MSE { return &MSE{} }

func (m *MSE) Calculate(original, processed gocv.Mat) (float64, error) {
	gray1, gray2, err := grayPair(original, processed)
	defer gray1.Close()
	defer gray2.Close()
	if err != nil {
		return 0, err
	}
	return meanSquaredError(gray1, gray2), nil
}

func (m *MSE) GetName() string              { return "MSE" }
func (m *MSE) GetDescription() string       { return "Mean Squared Error" }
func (m *MSE) GetRange() (float64, float64) { return 0, 65025 }
func (m *MSE) IsHigherBetter() bool         { return false }

func meanSquaredError(a, b gocv.Mat) float64 {
	sum := 0.0
	for y := 0; y < a.Rows(); y++ {
		for x := 0; x < a.Cols(); x++ {
			d := float64(a.GetUCharAt(y, x)) - float64(b.GetUCharAt(y, x))
			sum += d * d
		}
	}
	return sum / float64(a.Rows()*a.Cols())
}

// PSNR is the peak signal-to-noise ratio, capped at 100 dB for identical images
type PSNR struct{}

func NewPSNR() *PSNR { return &PSNR{} }

func (p *PSNR) Calculate(original, processed gocv.Mat) (float64, error) {
	gray1, gray2, err := grayPair(original, processed)
	defer gray1.Close()
	defer gray2.Close()
	if err != nil {
		return 0, err
	}

	mse := meanSquaredError(gray1, gray2)
	if mse == 0 {
		return 100.0, nil
	}
	return math.Min(100, 20*math.Log10(255/math.Sqrt(mse))), nil
}

func (p *PSNR) GetName() string              { return "PSNR" }
func (p *PSNR) GetDescription() string       { return "Peak Signal-to-Noise Ratio" }
func (p *PSNR) GetRange() (float64, float64) { return 0, 100 }
func (p *PSNR) IsHigherBetter() bool         { return true }

// SSIM is a global (single-window) structural similarity index
type SSIM struct{}

func NewSSIM() *SSIM { return &SSIM{} }

// Calculate averages the SSIM map computed over 11x11 Gaussian windows
// (sigma 1.5).
func (s *SSIM) Calculate(original, processed gocv.Mat) (float64, error) {
	gray1, gray2, err := grayPair(original, processed)
	defer gray1.Close()
	defer gray2.Close()
	if err != nil {
		return 0, err
	}

	f1 := raster.ToFloat64(gray1)
	defer f1.Close()
	f2 := raster.ToFloat64(gray2)
	defer f2.Close()

	const C1, C2 = 6.5025, 58.5225

	mu1 := ssimWindow(f1)
	defer mu1.Close()
	mu2 := ssimWindow(f2)
	defer mu2.Close()

	mu1Sq := product(mu1, mu1)
	defer mu1Sq.Close()
	mu2Sq := product(mu2, mu2)
	defer mu2Sq.Close()
	mu1mu2 := product(mu1, mu2)
	defer mu1mu2.Close()

	sigma1Sq := windowedMoment(f1, f1, mu1Sq)
	defer sigma1Sq.Close()
	sigma2Sq := windowedMoment(f2, f2, mu2Sq)
	defer sigma2Sq.Close()
	sigma12 := windowedMoment(f1, f2, mu1mu2)
	defer sigma12.Close()

	// (2·μ1μ2 + C1)(2·σ12 + C2)
	t1, t2 := mu1mu2.Clone(), sigma12.Clone()
	defer t1.Close()
	defer t2.Close()
	t1.MultiplyFloat(2)
	t1.AddFloat(C1)
	t2.MultiplyFloat(2)
	t2.AddFloat(C2)
	numerator := product(t1, t2)
	defer numerator.Close()

	// (μ1² + μ2² + C1)(σ1² + σ2² + C2)
	t3, t4 := gocv.NewMat(), gocv.NewMat()
	defer t3.Close()
	defer t4.Close()
	gocv.Add(mu1Sq, mu2Sq, &t3)
	t3.AddFloat(C1)
	gocv.Add(sigma1Sq, sigma2Sq, &t4)
	t4.AddFloat(C2)
	denominator := product(t3, t4)
	defer denominator.Close()

	ssimMap := gocv.NewMat()
	defer ssimMap.Close()
	gocv.Divide(numerator, denominator, &ssimMap)

	return ssimMap.Mean().Val1, nil
}

func ssimWindow(m gocv.Mat) gocv.Mat {
	blurred := gocv.NewMat()
	gocv.GaussianBlur(m, &blurred, image.Pt(11, 11), 1.5, 1.5, gocv.BorderDefault)
	return blurred
}

func product(a, b gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.Multiply(a, b, &out)
	return out
}

// windowedMoment returns blur(a·b) − meanProduct.
func windowedMoment(a, b, meanProduct gocv.Mat) gocv.Mat {
	ab := product(a, b)
	defer ab.Close()
	blurred := ssimWindow(ab)
	defer blurred.Close()

	out := gocv.NewMat()
	gocv.Subtract(blurred, meanProduct, &out)
	return out
}

func (s *SSIM) GetName() string              { return "SSIM" }
func (s *SSIM) GetDescription() string       { return "Structural Similarity Index" }
func (s *SSIM) GetRange() (float64, float64) { return 0, 1 }
func (s *SSIM) IsHigherBetter() bool         { return true }
