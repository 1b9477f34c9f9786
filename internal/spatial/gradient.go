package spatial

import (
	"math"

	"gocv.io/x/gocv"

	"image-transform-lab/internal/raster"
)

// GradientPair holds the two directional responses of one input.
type GradientPair struct {
	X gocv.Mat
	Y gocv.Mat
}

// Close releases both fields.
func (p *GradientPair) Close() {
	p.X.Close()
	p.Y.Close()
}

// GradientImages are the display-ready 8-bit renderings of a gradient pair.
type GradientImages struct {
	X         gocv.Mat
	Y         gocv.Mat
	Magnitude gocv.Mat
}

// Empty reports whether the combiner produced no output.
func (g GradientImages) Empty() bool {
	return g.X.Empty() || g.Y.Empty() || g.Magnitude.Empty()
}

// Close releases all three images.
func (g *GradientImages) Close() {
	g.X.Close()
	g.Y.Close()
	g.Magnitude.Close()
}

// Strip concatenates X | Y | Magnitude horizontally into one preview image.
func (g GradientImages) Strip() gocv.Mat {
	if g.Empty() {
		return gocv.NewMat()
	}

	xy := gocv.NewMat()
	defer xy.Close()
	gocv.Hconcat(g.X, g.Y, &xy)

	strip := gocv.NewMat()
	gocv.Hconcat(xy, g.Magnitude, &strip)
	return strip
}

// CombineGradients computes sqrt(Gx²+Gy²) and renders Gx, Gy and the
// magnitude as three independent 8-bit images by absolute value and
// saturation. If the fields disagree in shape, Y is resized to X first.
func CombineGradients(p GradientPair) GradientImages {
	if p.X.Empty() || p.Y.Empty() {
		return GradientImages{X: gocv.NewMat(), Y: gocv.NewMat(), Magnitude: gocv.NewMat()}
	}

	gy := p.Y
	if !raster.SameSize(p.X, p.Y) {
		gy = raster.ResizeTo(p.Y, p.X.Rows(), p.X.Cols())
		defer gy.Close()
	}

	rows, cols := p.X.Rows(), p.X.Cols()
	magnitude := raster.Zeros(rows, cols, gocv.MatTypeCV64F)
	defer magnitude.Close()

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			gx := p.X.GetDoubleAt(y, x)
			gyv := gy.GetDoubleAt(y, x)
			magnitude.SetDoubleAt(y, x, math.Sqrt(gx*gx+gyv*gyv))
		}
	}

	return GradientImages{
		X:         raster.AbsClampU8(p.X),
		Y:         raster.AbsClampU8(gy),
		Magnitude: raster.AbsClampU8(magnitude),
	}
}
