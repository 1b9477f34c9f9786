package spatial

import (
	"gocv.io/x/gocv"

	"image-transform-lab/internal/raster"
)

// Convolve slides k over img and returns a CV_64F field of the same size.
//
// Only pixels whose whole neighbourhood lies inside the image are computed;
// a band of width k.Radius() along every border stays zero. Colour input is
// converted to grayscale first, and an empty input yields an empty Mat.
func Convolve(img gocv.Mat, k Kernel) gocv.Mat {
	if img.Empty() || k.Size() == 0 {
		return gocv.NewMat()
	}

	gray := raster.ToGray(img)
	defer gray.Close()

	rows, cols := gray.Rows(), gray.Cols()
	out := raster.Zeros(rows, cols, gocv.MatTypeCV64F)
	r := k.Radius()

	for y := r; y < rows-r; y++ {
		for x := r; x < cols-r; x++ {
			sum := 0.0
			for ky := -r; ky <= r; ky++ {
				for kx := -r; kx <= r; kx++ {
					w := k.At(ky+r, kx+r)
					if w == 0 {
						continue
					}
					sum += float64(gray.GetUCharAt(y+ky, x+kx)) * float64(w)
				}
			}
			out.SetDoubleAt(y, x, sum)
		}
	}

	return out
}
