package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"image-transform-lab/internal/raster"
)

func uniformImage(rows, cols int, v float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC1)
}

// rampImage brightens by step per column.
func rampImage(rows, cols int, step uint8) gocv.Mat {
	img := raster.Zeros(rows, cols, gocv.MatTypeCV8UC1)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			img.SetUCharAt(y, x, uint8(x)*step)
		}
	}
	return img
}

// squareImage draws a bright square on a dark background.
func squareImage(size, from, to int, v uint8) gocv.Mat {
	img := raster.Zeros(size, size, gocv.MatTypeCV8UC1)
	for y := from; y < to; y++ {
		for x := from; x < to; x++ {
			img.SetUCharAt(y, x, v)
		}
	}
	return img
}

func collectValues(m gocv.Mat) map[uint8]int {
	values := make(map[uint8]int)
	for y := 0; y < m.Rows(); y++ {
		for x := 0; x < m.Cols(); x++ {
			values[m.GetUCharAt(y, x)]++
		}
	}
	return values
}

func TestNewKernel(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]int
		wantErr error
	}{
		{"3x3", [][]int{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}}, nil},
		{"1x1", [][]int{{1}}, nil},
		{"empty", nil, ErrKernelEmpty},
		{"even", [][]int{{1, 0}, {0, 1}}, ErrKernelNotOdd},
		{"ragged", [][]int{{1, 0, 0}, {0, 1}, {0, 0, 1}}, ErrKernelNotSquare},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NewKernel(tt.rows)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.rows), k.Size())
			assert.Equal(t, tt.rows, k.Rows())
		})
	}
}

func TestConvolveZeroKernel(t *testing.T) {
	img := rampImage(9, 11, 13)
	defer img.Close()

	zero, err := NewKernel([][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}})
	require.NoError(t, err)

	out := Convolve(img, zero)
	defer out.Close()

	require.Equal(t, img.Rows(), out.Rows())
	require.Equal(t, img.Cols(), out.Cols())
	for y := 1; y < out.Rows()-1; y++ {
		for x := 1; x < out.Cols()-1; x++ {
			assert.Zero(t, out.GetDoubleAt(y, x))
		}
	}
}

func TestConvolveIdentityKeepsInteriorAndZeroesBorder(t *testing.T) {
	img := rampImage(6, 7, 20)
	defer img.Close()

	identity, err := NewKernel([][]int{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}})
	require.NoError(t, err)

	out := Convolve(img, identity)
	defer out.Close()

	for y := 0; y < out.Rows(); y++ {
		for x := 0; x < out.Cols(); x++ {
			border := y == 0 || x == 0 || y == out.Rows()-1 || x == out.Cols()-1
			if border {
				assert.Zero(t, out.GetDoubleAt(y, x), "border (%d,%d)", y, x)
				continue
			}
			assert.Equal(t, float64(img.GetUCharAt(y, x)), out.GetDoubleAt(y, x))
		}
	}
}

func TestConvolveSobelOnRamp(t *testing.T) {
	img := rampImage(5, 10, 10)
	defer img.Close()

	kx, ky, ok := KernelsFor(Sobel)
	require.True(t, ok)

	gx := Convolve(img, kx)
	defer gx.Close()
	gy := Convolve(img, ky)
	defer gy.Close()

	assert.Equal(t, 80.0, gx.GetDoubleAt(2, 4))
	assert.Equal(t, 0.0, gy.GetDoubleAt(2, 4))
}

func TestConvolveSmallerThanKernel(t *testing.T) {
	img := uniformImage(2, 2, 200)
	defer img.Close()

	kx, _, _ := KernelsFor(Prewitt)
	out := Convolve(img, kx)
	defer out.Close()

	require.Equal(t, 2, out.Rows())
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			assert.Zero(t, out.GetDoubleAt(y, x))
		}
	}
}

func TestConvolveEmpty(t *testing.T) {
	img := gocv.NewMat()
	defer img.Close()

	kx, _, _ := KernelsFor(Sobel)
	out := Convolve(img, kx)
	defer out.Close()
	assert.True(t, out.Empty())
}

func TestCombineGradients(t *testing.T) {
	gx := raster.Zeros(1, 2, gocv.MatTypeCV64F)
	gy := raster.Zeros(1, 2, gocv.MatTypeCV64F)
	gx.SetDoubleAt(0, 0, 3)
	gx.SetDoubleAt(0, 1, -3)
	gy.SetDoubleAt(0, 0, 4)
	gy.SetDoubleAt(0, 1, -400)

	pair := GradientPair{X: gx, Y: gy}
	defer pair.Close()

	out := CombineGradients(pair)
	defer out.Close()

	assert.Equal(t, uint8(3), out.X.GetUCharAt(0, 0))
	assert.Equal(t, uint8(3), out.X.GetUCharAt(0, 1), "negative gradient renders bright")
	assert.Equal(t, uint8(4), out.Y.GetUCharAt(0, 0))
	assert.Equal(t, uint8(255), out.Y.GetUCharAt(0, 1))
	assert.Equal(t, uint8(5), out.Magnitude.GetUCharAt(0, 0))
	assert.Equal(t, uint8(255), out.Magnitude.GetUCharAt(0, 1))
}

func TestCombineGradientsResizesMismatch(t *testing.T) {
	gx := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(6, 0, 0, 0), 4, 4, gocv.MatTypeCV64F)
	gy := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(8, 0, 0, 0), 2, 2, gocv.MatTypeCV64F)
	pair := GradientPair{X: gx, Y: gy}
	defer pair.Close()

	out := CombineGradients(pair)
	defer out.Close()

	require.False(t, out.Empty())
	assert.Equal(t, 4, out.Y.Rows())
	assert.Equal(t, uint8(10), out.Magnitude.GetUCharAt(3, 3))
}

func TestGradientOperatorsOnUniformGray(t *testing.T) {
	img := uniformImage(12, 12, 128)
	defer img.Close()

	for _, op := range []Operator{Sobel, Prewitt, Roberts} {
		t.Run(op.String(), func(t *testing.T) {
			out := ApplyGradientOperator(img, op)
			defer out.Close()

			require.False(t, out.Empty())
			for _, m := range []gocv.Mat{out.X, out.Y, out.Magnitude} {
				assert.Equal(t, map[uint8]int{0: 144}, collectValues(m))
			}
		})
	}
}

func TestGradientOperatorsRejectEmpty(t *testing.T) {
	img := gocv.NewMat()
	defer img.Close()

	for _, op := range []Operator{Sobel, Prewitt, Roberts, Canny} {
		res := Detect(img, op, DefaultCannyThresholds)
		assert.True(t, res.Empty(), op.String())
		res.Close()
	}
}

func TestRobertsKeepsPaddedLayout(t *testing.T) {
	kx, ky, ok := KernelsFor(Roberts)
	require.True(t, ok)

	assert.Equal(t, [][]int{{1, 0, 0}, {0, -1, 0}, {0, 0, 0}}, kx.Rows())
	assert.Equal(t, [][]int{{0, 1, 0}, {-1, 0, 0}, {0, 0, 0}}, ky.Rows())
}

func TestCannyIsBinaryAndGradientsAreGraded(t *testing.T) {
	square := squareImage(24, 8, 16, 200)
	defer square.Close()

	canny := Detect(square, Canny, DefaultCannyThresholds)
	defer canny.Close()
	require.False(t, canny.IsGradient())
	require.False(t, canny.Empty())

	cannyValues := collectValues(canny.Edges)
	for v := range cannyValues {
		assert.Contains(t, []uint8{0, 255}, v)
	}
	assert.Positive(t, cannyValues[255], "square outline should produce edges")

	ramp := rampImage(10, 12, 10)
	defer ramp.Close()

	for _, op := range []Operator{Sobel, Prewitt, Roberts} {
		t.Run(op.String(), func(t *testing.T) {
			res := Detect(ramp, op, DefaultCannyThresholds)
			defer res.Close()
			require.True(t, res.IsGradient())

			graded := false
			for v := range collectValues(res.Gradients.Magnitude) {
				if v > 0 && v < 255 {
					graded = true
				}
			}
			assert.True(t, graded, "gradient magnitude should contain mid-range values")
		})
	}
}

func TestParseOperator(t *testing.T) {
	op, err := ParseOperator(" Prewitt ")
	require.NoError(t, err)
	assert.Equal(t, Prewitt, op)

	_, err = ParseOperator("laplace")
	assert.Error(t, err)
}

func TestStrip(t *testing.T) {
	img := rampImage(6, 8, 5)
	defer img.Close()

	out := ApplyGradientOperator(img, Sobel)
	defer out.Close()

	strip := out.Strip()
	defer strip.Close()

	assert.Equal(t, 6, strip.Rows())
	assert.Equal(t, 24, strip.Cols())
}
