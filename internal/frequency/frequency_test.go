package frequency

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"image-transform-lab/internal/raster"
)

func uniformImage(rows, cols int, v float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC1)
}

func noiseImage(rows, cols int, seed int64) gocv.Mat {
	rng := rand.New(rand.NewSource(seed))
	img := raster.Zeros(rows, cols, gocv.MatTypeCV8UC1)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if rng.Intn(2) == 1 {
				img.SetUCharAt(y, x, 255)
			}
		}
	}
	return img
}

func variance(img gocv.Mat) float64 {
	n := float64(img.Rows() * img.Cols())
	sum, sumSq := 0.0, 0.0
	for y := 0; y < img.Rows(); y++ {
		for x := 0; x < img.Cols(); x++ {
			v := float64(img.GetUCharAt(y, x))
			sum += v
			sumSq += v * v
		}
	}
	mean := sum / n
	return sumSq/n - mean*mean
}

func indexedSpectrum(rows, cols int) Spectrum {
	re := raster.Zeros(rows, cols, gocv.MatTypeCV64F)
	im := raster.Zeros(rows, cols, gocv.MatTypeCV64F)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			re.SetDoubleAt(y, x, float64(y*cols+x))
			im.SetDoubleAt(y, x, -float64(y*cols+x))
		}
	}
	return Spectrum{Real: re, Imag: im}
}

func TestCenterShiftIsSelfInverse(t *testing.T) {
	s := indexedSpectrum(4, 6)
	defer s.Close()

	CenterShift(s)
	assert.Equal(t, 0.0, s.Real.GetDoubleAt(2, 3), "origin moves to the center")
	assert.Equal(t, float64(2*6+3), s.Real.GetDoubleAt(0, 0))
	assert.Equal(t, float64(2*6), s.Real.GetDoubleAt(0, 3), "bottom-left moves to top-right")

	CenterShift(s)
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			assert.Equal(t, float64(y*6+x), s.Real.GetDoubleAt(y, x))
			assert.Equal(t, -float64(y*6+x), s.Imag.GetDoubleAt(y, x))
		}
	}
}

func TestForwardInverseRoundTrip(t *testing.T) {
	img := noiseImage(8, 10, 3)
	defer img.Close()

	s := Forward(img)
	defer s.Close()
	require.Equal(t, 8, s.Rows())
	require.Equal(t, 10, s.Cols())

	var total float64
	for y := 0; y < 8; y++ {
		for x := 0; x < 10; x++ {
			total += float64(img.GetUCharAt(y, x))
		}
	}
	assert.InDelta(t, total, s.Real.GetDoubleAt(0, 0), 1e-6, "DC term is the pixel sum")

	re, im := Inverse(s)
	defer re.Close()
	defer im.Close()

	for y := 0; y < 8; y++ {
		for x := 0; x < 10; x++ {
			assert.InDelta(t, float64(img.GetUCharAt(y, x)), re.GetDoubleAt(y, x), 1e-6)
			assert.InDelta(t, 0, im.GetDoubleAt(y, x), 1e-6)
		}
	}
}

func TestGaussianMask(t *testing.T) {
	const d0 = 3.0
	low := GaussianMask(8, 12, d0, LowPass)
	defer low.Close()
	high := GaussianMask(8, 12, d0, HighPass)
	defer high.Close()

	assert.Equal(t, 1.0, low.GetDoubleAt(4, 6))
	assert.Equal(t, 0.0, high.GetDoubleAt(4, 6))
	assert.InDelta(t, math.Exp(-0.5), low.GetDoubleAt(4, 9), 1e-12, "value at distance d0")
	assert.InDelta(t, low.GetDoubleAt(2, 6), low.GetDoubleAt(6, 6), 1e-12, "symmetric around center")

	for y := 0; y < 8; y++ {
		for x := 0; x < 12; x++ {
			assert.InDelta(t, 1.0, low.GetDoubleAt(y, x)+high.GetDoubleAt(y, x), 1e-12)
		}
	}
}

func TestApplyFilterLowPassReducesVariance(t *testing.T) {
	img := noiseImage(32, 32, 11)
	defer img.Close()

	out := ApplyFilter(img, 4, LowPass)
	defer out.Close()

	require.False(t, out.Empty())
	assert.Less(t, variance(out), variance(img))
}

func TestApplyFilterKeepsConstantField(t *testing.T) {
	img := uniformImage(16, 16, 128)
	defer img.Close()

	out := ApplyFilter(img, 10, LowPass)
	defer out.Close()

	require.Equal(t, 16, out.Rows())
	require.Equal(t, 16, out.Cols())
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			assert.Equal(t, uint8(128), out.GetUCharAt(y, x))
		}
	}
}

func TestApplyFilterHighPassOfConstantIsBlack(t *testing.T) {
	img := uniformImage(10, 10, 90)
	defer img.Close()

	out := ApplyFilter(img, 5, HighPass)
	defer out.Close()

	for y := 0; y < out.Rows(); y++ {
		for x := 0; x < out.Cols(); x++ {
			assert.Equal(t, uint8(0), out.GetUCharAt(y, x))
		}
	}
}

func TestApplyFilterTruncatesToEven(t *testing.T) {
	img := noiseImage(7, 9, 5)
	defer img.Close()

	out := ApplyFilter(img, 3, HighPass)
	defer out.Close()

	assert.Equal(t, 6, out.Rows())
	assert.Equal(t, 8, out.Cols())
}

func TestApplyFilterTinyInputs(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		wantEmpty  bool
	}{
		{"1x1", 1, 1, true},
		{"1x6", 1, 6, true},
		{"5x1", 5, 1, true},
		{"3x3", 3, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := uniformImage(tt.rows, tt.cols, 60)
			defer img.Close()

			for _, mode := range []Mode{LowPass, HighPass} {
				out := ApplyFilter(img, 2, mode)
				assert.Equal(t, tt.wantEmpty, out.Empty(), mode.String())
				out.Close()
			}
		})
	}
}

func TestApplyFilterEmpty(t *testing.T) {
	img := gocv.NewMat()
	defer img.Close()

	out := ApplyFilter(img, 10, LowPass)
	defer out.Close()
	assert.True(t, out.Empty())
}

func TestCreateHybridIsDeterministic(t *testing.T) {
	img := noiseImage(24, 20, 17)
	defer img.Close()

	first := CreateHybrid(img, img, 6)
	defer first.Close()
	second := CreateHybrid(img, img, 6)
	defer second.Close()

	require.False(t, first.Empty())
	assert.Equal(t, first.ToBytes(), second.ToBytes())
}

func TestCreateHybridResizesSecondInput(t *testing.T) {
	a := noiseImage(15, 21, 1)
	defer a.Close()
	b := noiseImage(40, 12, 2)
	defer b.Close()

	out := CreateHybrid(a, b, 4)
	defer out.Close()

	assert.Equal(t, 14, out.Rows())
	assert.Equal(t, 20, out.Cols())
}

func TestCreateHybridEmptyInput(t *testing.T) {
	a := noiseImage(8, 8, 1)
	defer a.Close()
	empty := gocv.NewMat()
	defer empty.Close()

	out := CreateHybrid(a, empty, 4)
	defer out.Close()
	assert.True(t, out.Empty())

	tiny := uniformImage(1, 1, 10)
	defer tiny.Close()
	out2 := CreateHybrid(tiny, a, 4)
	defer out2.Close()
	assert.True(t, out2.Empty())
}

func TestParseMode(t *testing.T) {
	for label, want := range map[string]Mode{
		"low":       LowPass,
		"Low Pass":  LowPass,
		"high-pass": HighPass,
		"HIGHPASS":  HighPass,
	} {
		got, err := ParseMode(label)
		require.NoError(t, err, label)
		assert.Equal(t, want, got, label)
	}

	_, err := ParseMode("band")
	assert.Error(t, err)
}
