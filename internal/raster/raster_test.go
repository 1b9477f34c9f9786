package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestEvenSize(t *testing.T) {
	tests := []struct {
		rows, cols         int
		wantRows, wantCols int
	}{
		{4, 6, 4, 6},
		{5, 7, 4, 6},
		{1, 1, 0, 0},
		{3, 2, 2, 2},
		{0, 0, 0, 0},
	}

	for _, tt := range tests {
		rows, cols := EvenSize(tt.rows, tt.cols)
		assert.Equal(t, tt.wantRows, rows, "rows for %dx%d", tt.rows, tt.cols)
		assert.Equal(t, tt.wantCols, cols, "cols for %dx%d", tt.rows, tt.cols)
	}
}

func TestTruncateEven(t *testing.T) {
	t.Run("odd dimensions are cropped", func(t *testing.T) {
		src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(9, 0, 0, 0), 5, 7, gocv.MatTypeCV8UC1)
		defer src.Close()
		src.SetUCharAt(0, 0, 42)

		out := TruncateEven(src)
		defer out.Close()

		assert.Equal(t, 4, out.Rows())
		assert.Equal(t, 6, out.Cols())
		assert.Equal(t, uint8(42), out.GetUCharAt(0, 0))
	})

	t.Run("single pixel becomes empty", func(t *testing.T) {
		src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(9, 0, 0, 0), 1, 1, gocv.MatTypeCV8UC1)
		defer src.Close()

		out := TruncateEven(src)
		defer out.Close()
		assert.True(t, out.Empty())
	})

	t.Run("empty stays empty", func(t *testing.T) {
		src := gocv.NewMat()
		defer src.Close()

		out := TruncateEven(src)
		defer out.Close()
		assert.True(t, out.Empty())
	})
}

func TestToGray(t *testing.T) {
	bgr := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(100, 100, 100, 0), 3, 3, gocv.MatTypeCV8UC3)
	defer bgr.Close()

	gray := ToGray(bgr)
	defer gray.Close()

	require.False(t, gray.Empty())
	assert.Equal(t, 1, gray.Channels())
	assert.Equal(t, uint8(100), gray.GetUCharAt(1, 1))
}

func TestNormalizeToU8(t *testing.T) {
	t.Run("full range stretch", func(t *testing.T) {
		field := Zeros(1, 3, gocv.MatTypeCV64F)
		defer field.Close()
		field.SetDoubleAt(0, 0, -10)
		field.SetDoubleAt(0, 1, 0)
		field.SetDoubleAt(0, 2, 10)

		out := NormalizeToU8(field)
		defer out.Close()

		assert.Equal(t, uint8(0), out.GetUCharAt(0, 0))
		assert.InDelta(t, 128, int(out.GetUCharAt(0, 1)), 1)
		assert.Equal(t, uint8(255), out.GetUCharAt(0, 2))
	})

	t.Run("constant field short-circuits", func(t *testing.T) {
		field := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(77.4, 0, 0, 0), 4, 4, gocv.MatTypeCV64F)
		defer field.Close()

		out := NormalizeToU8(field)
		defer out.Close()

		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				assert.Equal(t, uint8(77), out.GetUCharAt(y, x))
			}
		}
	})
}

func TestAbsClampU8(t *testing.T) {
	field := Zeros(1, 4, gocv.MatTypeCV64F)
	defer field.Close()
	field.SetDoubleAt(0, 0, -30)
	field.SetDoubleAt(0, 1, 12.4)
	field.SetDoubleAt(0, 2, 900)
	field.SetDoubleAt(0, 3, -900)

	out := AbsClampU8(field)
	defer out.Close()

	assert.Equal(t, uint8(30), out.GetUCharAt(0, 0))
	assert.Equal(t, uint8(12), out.GetUCharAt(0, 1))
	assert.Equal(t, uint8(255), out.GetUCharAt(0, 2))
	assert.Equal(t, uint8(255), out.GetUCharAt(0, 3))
}

func TestResizeTo(t *testing.T) {
	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(50, 0, 0, 0), 3, 5, gocv.MatTypeCV8UC1)
	defer src.Close()

	out := ResizeTo(src, 8, 6)
	defer out.Close()

	assert.Equal(t, 8, out.Rows())
	assert.Equal(t, 6, out.Cols())
	assert.Equal(t, uint8(50), out.GetUCharAt(4, 3))
}
