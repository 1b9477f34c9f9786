package io

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
	"golang.org/x/image/bmp"

	"image-transform-lab/internal/algorithms"
)

func newLoader() *ImageLoader {
	logger, _ := test.NewNullLogger()
	return NewImageLoader(logger)
}

func checkerboard(size int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x+y)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func TestIsSupportedFormat(t *testing.T) {
	for _, path := range []string{"a.png", "B.JPG", "dir.v1/c.jpeg", "d.tif", "e.webp", "f.bmp"} {
		assert.True(t, IsSupportedFormat(path), path)
	}
	for _, path := range []string{"a.gif", "noext", "archive.png.zip", "dir.png/file"} {
		assert.False(t, IsSupportedFormat(path), path)
	}
}

func TestLoadUnsupported(t *testing.T) {
	mat, err := newLoader().LoadImage("notes.txt")
	defer mat.Close()
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.True(t, mat.Empty())
}

func TestDecodeImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, checkerboard(6)))

	mat, err := DecodeImage(&buf)
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, 6, mat.Rows())
	assert.Equal(t, 6, mat.Cols())
	assert.Equal(t, 3, mat.Channels())
	assert.Equal(t, uint8(255), mat.GetUCharAt(0, 0))
	assert.Equal(t, uint8(0), mat.GetUCharAt(0, 3))
}

func TestDecodeImageGarbage(t *testing.T) {
	mat, err := DecodeImage(bytes.NewReader([]byte("not an image")))
	defer mat.Close()
	assert.Error(t, err)
}

func TestLoadGrayscale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, checkerboard(8)))
	require.NoError(t, f.Close())

	loader := newLoader()
	mat, err := loader.LoadImageGrayscale(path)
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, 1, mat.Channels())
	assert.Equal(t, uint8(255), mat.GetUCharAt(1, 1))
	assert.NoError(t, loader.ValidateImageFile(path))
}

func TestSaveAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	a := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 0, 0, 0), 4, 4, gocv.MatTypeCV8UC1)
	defer a.Close()
	b := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(200, 0, 0, 0), 4, 4, gocv.MatTypeCV8UC1)
	defer b.Close()

	loader := newLoader()
	paths, err := loader.SaveAll(dir, "sobel", []algorithms.NamedImage{
		{Name: "x", Mat: a},
		{Name: "magnitude", Mat: b},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "sobel_x.png"),
		filepath.Join(dir, "sobel_magnitude.png"),
	}, paths)

	back, err := loader.LoadImageGrayscale(paths[1])
	require.NoError(t, err)
	defer back.Close()
	assert.Equal(t, uint8(200), back.GetUCharAt(2, 2))
}

func TestSaveRejects(t *testing.T) {
	loader := newLoader()
	empty := gocv.NewMat()
	defer empty.Close()
	assert.Error(t, loader.SaveImage(empty, filepath.Join(t.TempDir(), "x.png")))

	img := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC1)
	defer img.Close()
	assert.ErrorIs(t, loader.SaveImage(img, filepath.Join(t.TempDir(), "x.webp")), ErrUnsupportedFormat)
}
