// Frequency-domain filtering over OpenCV's discrete Fourier transform
package frequency

import (
	"gocv.io/x/gocv"

	"image-transform-lab/internal/raster"
)

// Spectrum is an image in the frequency domain, split into two CV_64F planes.
type Spectrum struct {
	Real gocv.Mat
	Imag gocv.Mat
}

// Rows returns the plane height.
func (s Spectrum) Rows() int { return s.Real.Rows() }

// Cols returns the plane width.
func (s Spectrum) Cols() int { return s.Real.Cols() }

// Empty reports whether the spectrum holds no data.
func (s Spectrum) Empty() bool { return s.Real.Empty() || s.Imag.Empty() }

// Close releases both planes.
func (s *Spectrum) Close() {
	s.Real.Close()
	s.Imag.Close()
}

// Forward computes the 2D DFT of a grayscale image or CV_64F field. The
// caller is responsible for even dimensions if CenterShift will be applied.
func Forward(img gocv.Mat) Spectrum {
	if img.Empty() {
		return Spectrum{Real: gocv.NewMat(), Imag: gocv.NewMat()}
	}

	field := asField(img)
	defer field.Close()

	imag := raster.Zeros(field.Rows(), field.Cols(), gocv.MatTypeCV64F)
	defer imag.Close()

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge([]gocv.Mat{field, imag}, &merged)

	transformed := gocv.NewMat()
	defer transformed.Close()
	gocv.DFT(merged, &transformed, gocv.DftForward)

	planes := gocv.Split(transformed)
	return Spectrum{Real: planes[0], Imag: planes[1]}
}

// Inverse computes the scaled inverse DFT and returns its real and imaginary
// planes.
func Inverse(s Spectrum) (gocv.Mat, gocv.Mat) {
	if s.Empty() {
		return gocv.NewMat(), gocv.NewMat()
	}

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge([]gocv.Mat{s.Real, s.Imag}, &merged)

	restored := gocv.NewMat()
	defer restored.Close()
	gocv.DFT(merged, &restored, gocv.DftInverse|gocv.DftScale)

	planes := gocv.Split(restored)
	return planes[0], planes[1]
}

// CenterShift swaps the quadrants of both planes in place (top-left with
// bottom-right, top-right with bottom-left), moving the zero-frequency term
// to (rows/2, cols/2). It is its own inverse on even-sized planes; odd sizes
// are rejected upstream by truncation.
func CenterShift(s Spectrum) {
	if s.Empty() {
		return
	}
	swapQuadrants(s.Real)
	swapQuadrants(s.Imag)
}

func swapQuadrants(m gocv.Mat) {
	cy, cx := m.Rows()/2, m.Cols()/2
	for y := 0; y < cy; y++ {
		for x := 0; x < cx; x++ {
			tl := m.GetDoubleAt(y, x)
			m.SetDoubleAt(y, x, m.GetDoubleAt(y+cy, x+cx))
			m.SetDoubleAt(y+cy, x+cx, tl)

			tr := m.GetDoubleAt(y, x+cx)
			m.SetDoubleAt(y, x+cx, m.GetDoubleAt(y+cy, x))
			m.SetDoubleAt(y+cy, x, tr)
		}
	}
}

// asField returns a CV_64F single-channel copy of img.
func asField(img gocv.Mat) gocv.Mat {
	if img.Type() == gocv.MatTypeCV64FC1 {
		return img.Clone()
	}
	gray := raster.ToGray(img)
	defer gray.Close()
	return raster.ToFloat64(gray)
}
