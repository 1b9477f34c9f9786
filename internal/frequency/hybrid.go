package frequency

import (
	"gocv.io/x/gocv"

	"image-transform-lab/internal/raster"
)

// HighPassRatio scales sigma into the high-pass cutoff of a hybrid image.
const HighPassRatio = 1.5

// CreateHybrid blends the low frequencies of a with the high frequencies of
// b. Sigma is the low-pass cutoff; the high-pass cutoff is sigma·HighPassRatio.
//
// b is resized to a's dimensions when they differ, without preserving its
// aspect ratio, and both are cropped to a's even size. The result is an
// 8-bit image stretched to [0,255], or an empty Mat if either input is empty.
func CreateHybrid(a, b gocv.Mat, sigma float64) gocv.Mat {
	if a.Empty() || b.Empty() {
		return gocv.NewMat()
	}

	grayA := raster.ToGray(a)
	defer grayA.Close()

	grayB := raster.ToGray(b)
	defer grayB.Close()

	if !raster.SameSize(grayA, grayB) {
		resized := raster.ResizeTo(grayB, grayA.Rows(), grayA.Cols())
		grayB.Close()
		grayB = resized
	}

	rows, cols := raster.EvenSize(grayA.Rows(), grayA.Cols())
	if rows == 0 || cols == 0 {
		return gocv.NewMat()
	}

	low := filteredField(grayA, rows, cols, sigma, LowPass)
	defer low.Close()

	high := filteredField(grayB, rows, cols, sigma*HighPassRatio, HighPass)
	defer high.Close()

	if !raster.SameSize(low, high) {
		resized := raster.ResizeTo(high, low.Rows(), low.Cols())
		high.Close()
		high = resized
	}

	sum := gocv.NewMat()
	defer sum.Close()
	gocv.Add(low, high, &sum)

	return raster.NormalizeToU8(sum)
}

func filteredField(gray gocv.Mat, rows, cols int, d0 float64, mode Mode) gocv.Mat {
	cropped := raster.Crop(gray, rows, cols)
	defer cropped.Close()

	field := raster.ToFloat64(cropped)
	defer field.Close()

	return FilterMagnitude(field, d0, mode)
}
