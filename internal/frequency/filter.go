package frequency

import (
	"gocv.io/x/gocv"

	"image-transform-lab/internal/raster"
)

// ApplyFilter runs a Gaussian low- or high-pass filter over img and returns
// an 8-bit image stretched to [0,255].
//
// The input is converted to grayscale and cropped to even dimensions before
// the transform, so the output may be one row or column smaller than img.
// An empty input, or one that crops to nothing, returns an empty Mat.
func ApplyFilter(img gocv.Mat, d0 float64, mode Mode) gocv.Mat {
	if img.Empty() {
		return gocv.NewMat()
	}

	gray := raster.ToGray(img)
	defer gray.Close()

	even := raster.TruncateEven(gray)
	defer even.Close()
	if even.Empty() {
		return gocv.NewMat()
	}

	field := raster.ToFloat64(even)
	defer field.Close()

	magnitude := FilterMagnitude(field, d0, mode)
	defer magnitude.Close()

	return raster.NormalizeToU8(magnitude)
}

// FilterMagnitude is the floating stage of ApplyFilter: it expects an
// even-sized CV_64F field and returns the CV_64F magnitude of the filtered
// inverse transform without normalizing it.
func FilterMagnitude(field gocv.Mat, d0 float64, mode Mode) gocv.Mat {
	if field.Empty() {
		return gocv.NewMat()
	}

	spectrum := Forward(field)
	defer spectrum.Close()

	CenterShift(spectrum)

	mask := GaussianMask(spectrum.Rows(), spectrum.Cols(), d0, mode)
	defer mask.Close()
	applyMask(spectrum, mask)

	CenterShift(spectrum)

	re, im := Inverse(spectrum)
	defer re.Close()
	defer im.Close()

	magnitude := gocv.NewMat()
	gocv.Magnitude(re, im, &magnitude)
	return magnitude
}
