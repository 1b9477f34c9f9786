package metrics

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"image-transform-lab/internal/raster"
)

// Size of the canvas drawn by PlotHistogram.
const (
	PlotWidth  = 512
	PlotHeight = 400
)

var (
	plotBackground = gocv.NewScalar(40, 40, 40, 0)
	plotLine       = color.RGBA{R: 255, G: 255, B: 0, A: 0}
)

// PlotHistogram draws the 256-bin gray-level distribution of img as a line
// graph on a dark BGR canvas. Bin counts are stretched so the lowest bin
// sits on the bottom edge and the highest touches the top.
func PlotHistogram(img gocv.Mat) gocv.Mat {
	plot := gocv.NewMatWithSizeFromScalar(plotBackground, PlotHeight, PlotWidth, gocv.MatTypeCV8UC3)
	if img.Empty() {
		return plot
	}

	counts := Histogram(img)
	low, high := counts[0], counts[0]
	for _, c := range counts {
		low = min(low, c)
		high = max(high, c)
	}

	heights := make([]int, len(counts))
	if !raster.IsDegenerate(float64(low), float64(high)) {
		scale := float64(PlotHeight) / float64(high-low)
		for i, c := range counts {
			heights[i] = int(float64(c-low)*scale + 0.5)
		}
	}

	binWidth := PlotWidth / len(counts)
	for i := 1; i < len(counts); i++ {
		gocv.Line(&plot,
			image.Pt(binWidth*(i-1), PlotHeight-heights[i-1]),
			image.Pt(binWidth*i, PlotHeight-heights[i]),
			plotLine, 2)
	}
	return plot
}
