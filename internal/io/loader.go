// Image loading and saving functionality
package io

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	stdio "io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"image-transform-lab/internal/algorithms"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

var supportedExtensions = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp", ".webp"}

// writableExtensions excludes webp, which x/image can only decode.
var writableExtensions = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

// ImageLoader handles image file operations
type ImageLoader struct {
	logger logrus.FieldLogger
}

func NewImageLoader(logger logrus.FieldLogger) *ImageLoader {
	return &ImageLoader{
		logger: logger.WithField("component", "loader"),
	}
}

// LoadImage reads a color image. Files OpenCV cannot read fall back to the
// pure Go decoders.
func (il *ImageLoader) LoadImage(path string) (gocv.Mat, error) {
	return il.load(path, gocv.IMReadColor)
}

// LoadImageGrayscale reads path as a single-channel image
func (il *ImageLoader) LoadImageGrayscale(path string) (gocv.Mat, error) {
	return il.load(path, gocv.IMReadGrayScale)
}

func (il *ImageLoader) load(path string, flags gocv.IMReadFlag) (gocv.Mat, error) {
	log := il.logger.WithField("filepath", path)
	log.Debug("Loading image")

	if !IsSupportedFormat(path) {
		return gocv.NewMat(), fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	mat := gocv.IMRead(path, flags)
	if mat.Empty() {
		mat.Close()
		log.Debug("OpenCV could not read file, trying Go decoders")

		var err error
		mat, err = il.decodeFile(path)
		if err != nil {
			return gocv.NewMat(), err
		}
		if flags == gocv.IMReadGrayScale {
			gray := gocv.NewMat()
			gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
			mat.Close()
			mat = gray
		}
	}

	log.WithFields(logrus.Fields{
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image loaded successfully")

	return mat, nil
}

func (il *ImageLoader) decodeFile(path string) (gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to load image: %w", err)
	}
	defer f.Close()

	return DecodeImage(f)
}

// DecodeImage decodes any format registered with the image package into a
// 3-channel BGR Mat.
func DecodeImage(r stdio.Reader) (gocv.Mat, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("decode image: %w", err)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("convert %s image: %w", format, err)
	}
	return mat, nil
}

func (il *ImageLoader) SaveImage(mat gocv.Mat, path string) error {
	il.logger.WithField("filepath", path).Debug("Saving image")

	if mat.Empty() {
		return fmt.Errorf("cannot save empty image")
	}

	if !lo.Contains(writableExtensions, fileExtension(path)) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if !gocv.IMWrite(path, mat) {
		return fmt.Errorf("failed to save image: %s", path)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image saved successfully")

	return nil
}

// SaveAll writes each image as <dir>/<prefix>_<name>.png, creating dir if
// needed, and returns the written paths in order.
func (il *ImageLoader) SaveAll(dir, prefix string, images []algorithms.NamedImage) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	paths := make([]string, 0, len(images))
	for _, img := range images {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", prefix, img.Name))
		if err := il.SaveImage(img.Mat, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// IsSupportedFormat reports whether path has a readable image extension
func IsSupportedFormat(path string) bool {
	return lo.Contains(supportedExtensions, fileExtension(path))
}

func fileExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func (il *ImageLoader) GetSupportedFormats() []string {
	return []string{"JPEG", "PNG", "TIFF", "BMP", "WebP"}
}

// SupportedExtensions lists readable extensions, for file dialog filters
func SupportedExtensions() []string {
	return append([]string(nil), supportedExtensions...)
}

func (il *ImageLoader) ValidateImageFile(path string) error {
	mat, err := il.LoadImageGrayscale(path)
	if err != nil {
		return err
	}
	defer mat.Close()

	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("invalid image dimensions")
	}

	return nil
}
