// Raster helpers shared by the spatial and frequency engines
package raster

import (
	"image"
	"math"

	"gocv.io/x/gocv"
)

// degenerateTolerance is the relative spread below which a floating field is
// treated as constant when mapping it onto [0,255].
const degenerateTolerance = 1e-6

// ToGray returns a single-channel 8-bit copy of mat. BGR and BGRA inputs are
// converted, single-channel inputs are cloned. Empty or unsupported inputs
// yield an empty Mat.
func ToGray(mat gocv.Mat) gocv.Mat {
	if mat.Empty() {
		return gocv.NewMat()
	}

	switch mat.Channels() {
	case 1:
		if mat.Type() == gocv.MatTypeCV8UC1 {
			return mat.Clone()
		}
		gray := gocv.NewMat()
		mat.ConvertTo(&gray, gocv.MatTypeCV8U)
		return gray
	case 3:
		gray := gocv.NewMat()
		gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
		return gray
	case 4:
		gray := gocv.NewMat()
		gocv.CvtColor(mat, &gray, gocv.ColorBGRAToGray)
		return gray
	default:
		return gocv.NewMat()
	}
}

// EvenSize rounds both dimensions down to the nearest even number.
func EvenSize(rows, cols int) (int, int) {
	return rows &^ 1, cols &^ 1
}

// TruncateEven crops mat to its top-left even-sized region. The result is an
// independent copy; a crop with a zero dimension yields an empty Mat.
func TruncateEven(mat gocv.Mat) gocv.Mat {
	if mat.Empty() {
		return gocv.NewMat()
	}
	rows, cols := EvenSize(mat.Rows(), mat.Cols())
	return Crop(mat, rows, cols)
}

// Crop copies the top-left rows×cols region of mat.
func Crop(mat gocv.Mat, rows, cols int) gocv.Mat {
	if mat.Empty() || rows <= 0 || cols <= 0 {
		return gocv.NewMat()
	}
	if rows == mat.Rows() && cols == mat.Cols() {
		return mat.Clone()
	}

	region := mat.Region(image.Rect(0, 0, cols, rows))
	defer region.Close()
	return region.Clone()
}

// ResizeTo scales mat to rows×cols with bilinear interpolation. Aspect ratio
// is not preserved.
func ResizeTo(mat gocv.Mat, rows, cols int) gocv.Mat {
	if mat.Empty() || rows <= 0 || cols <= 0 {
		return gocv.NewMat()
	}
	if rows == mat.Rows() && cols == mat.Cols() {
		return mat.Clone()
	}

	dst := gocv.NewMat()
	gocv.Resize(mat, &dst, image.Pt(cols, rows), 0, 0, gocv.InterpolationLinear)
	return dst
}

// SameSize reports whether two Mats share rows and cols.
func SameSize(a, b gocv.Mat) bool {
	return a.Rows() == b.Rows() && a.Cols() == b.Cols()
}

// ToFloat64 converts an 8-bit single-channel Mat to CV_64F.
func ToFloat64(mat gocv.Mat) gocv.Mat {
	if mat.Empty() {
		return gocv.NewMat()
	}
	field := gocv.NewMat()
	mat.ConvertTo(&field, gocv.MatTypeCV64F)
	return field
}

// Zeros allocates a zero-filled single-channel Mat.
func Zeros(rows, cols int, mt gocv.MatType) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, mt)
}

// MinMax scans a CV_64F field and returns its extremes.
func MinMax(field gocv.Mat) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for y := 0; y < field.Rows(); y++ {
		for x := 0; x < field.Cols(); x++ {
			v := field.GetDoubleAt(y, x)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// IsDegenerate reports whether the spread hi-lo is too small to stretch.
func IsDegenerate(lo, hi float64) bool {
	return hi-lo <= degenerateTolerance*math.Max(1, math.Max(math.Abs(lo), math.Abs(hi)))
}

// NormalizeToU8 stretches a CV_64F field onto [0,255] and converts it to
// CV_8U. A field with no usable spread becomes a constant image holding its
// clamped, rounded minimum instead of being divided by a zero range.
func NormalizeToU8(field gocv.Mat) gocv.Mat {
	if field.Empty() {
		return gocv.NewMat()
	}

	lo, hi := MinMax(field)
	if IsDegenerate(lo, hi) {
		return gocv.NewMatWithSizeFromScalar(
			gocv.NewScalar(float64(ClampU8(lo)), 0, 0, 0),
			field.Rows(), field.Cols(), gocv.MatTypeCV8UC1)
	}

	stretched := gocv.NewMat()
	defer stretched.Close()
	gocv.Normalize(field, &stretched, 0, 255, gocv.NormMinMax)

	out := gocv.NewMat()
	stretched.ConvertTo(&out, gocv.MatTypeCV8U)
	return out
}

// AbsClampU8 maps a CV_64F field to CV_8U by absolute value and saturation,
// so negative responses render bright instead of wrapping.
func AbsClampU8(field gocv.Mat) gocv.Mat {
	if field.Empty() {
		return gocv.NewMat()
	}

	out := Zeros(field.Rows(), field.Cols(), gocv.MatTypeCV8UC1)
	for y := 0; y < field.Rows(); y++ {
		for x := 0; x < field.Cols(); x++ {
			out.SetUCharAt(y, x, ClampU8(math.Abs(field.GetDoubleAt(y, x))))
		}
	}
	return out
}

// ClampU8 rounds v and saturates it to the 8-bit range.
func ClampU8(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}
