package metrics

import (
	"math"

	"gocv.io/x/gocv"

	"image-transform-lab/internal/raster"
)

// EntropyLevel buckets Shannon entropy into the three bands shown to users.
type EntropyLevel string

const (
	EntropyLow      EntropyLevel = "Low"
	EntropyModerate EntropyLevel = "Moderate"
	EntropyHigh     EntropyLevel = "High"
)

// Description explains what an entropy band usually means for a photo.
func (l EntropyLevel) Description() string {
	switch l {
	case EntropyLow:
		return "Uniform areas dominate: flat sky, solid backgrounds, little structural detail."
	case EntropyModerate:
		return "Typical photograph with natural variance in lighting and subject matter."
	default:
		return "Rich texture, complex detail, or high-frequency noise present."
	}
}

// ClassifyEntropy maps an entropy value in bits to its band.
func ClassifyEntropy(h float64) EntropyLevel {
	switch {
	case h < 4.5:
		return EntropyLow
	case h < 6.8:
		return EntropyModerate
	default:
		return EntropyHigh
	}
}

// Histogram counts the 256 gray levels of img.
func Histogram(img gocv.Mat) [256]int {
	var counts [256]int
	gray := raster.ToGray(img)
	defer gray.Close()

	for y := 0; y < gray.Rows(); y++ {
		for x := 0; x < gray.Cols(); x++ {
			counts[gray.GetUCharAt(y, x)]++
		}
	}
	return counts
}

// Entropy is -Σ p·log2(p) over the gray-level histogram of img, in bits.
// An empty image has zero entropy.
func Entropy(img gocv.Mat) float64 {
	if img.Empty() {
		return 0
	}

	counts := Histogram(img)
	total := float64(img.Rows() * img.Cols())

	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		h -= p * math.Log2(p)
	}
	return h
}

// Summary describes a single grayscale image.
type Summary struct {
	Width    int
	Height   int
	Mean     float64
	Variance float64
	Entropy  float64
	Level    EntropyLevel
}

// Summarize computes mean, variance and entropy of img's grayscale form.
func Summarize(img gocv.Mat) Summary {
	if img.Empty() {
		return Summary{Level: EntropyLow}
	}

	gray := raster.ToGray(img)
	defer gray.Close()

	mean, stddev := gocv.NewMat(), gocv.NewMat()
	defer mean.Close()
	defer stddev.Close()
	gocv.MeanStdDev(gray, &mean, &stddev)

	sd := stddev.GetDoubleAt(0, 0)
	h := Entropy(gray)
	return Summary{
		Width:    gray.Cols(),
		Height:   gray.Rows(),
		Mean:     mean.GetDoubleAt(0, 0),
		Variance: sd * sd,
		Entropy:  h,
		Level:    ClassifyEntropy(h),
	}
}
