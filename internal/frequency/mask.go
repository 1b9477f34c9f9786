package frequency

import (
	"fmt"
	"math"
	"strings"

	"gocv.io/x/gocv"

	"image-transform-lab/internal/raster"
)

// Mode selects the polarity of a Gaussian mask.
type Mode int

const (
	LowPass Mode = iota
	HighPass
)

func (m Mode) String() string {
	switch m {
	case LowPass:
		return "low_pass"
	case HighPass:
		return "high_pass"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "low", "low_pass", "high", "high_pass" and their
// hyphenated or spaced variants.
func ParseMode(label string) (Mode, error) {
	key := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(label)))
	switch key {
	case "low", "low_pass", "lowpass":
		return LowPass, nil
	case "high", "high_pass", "highpass":
		return HighPass, nil
	}
	return 0, fmt.Errorf("unknown filter mode: %q", label)
}

// GaussianMask builds exp(-D²/(2·d0²)) over a rows×cols grid, D being the
// distance to (rows/2, cols/2). HighPass yields one minus that value.
func GaussianMask(rows, cols int, d0 float64, mode Mode) gocv.Mat {
	if rows <= 0 || cols <= 0 {
		return gocv.NewMat()
	}

	mask := raster.Zeros(rows, cols, gocv.MatTypeCV64F)
	crow, ccol := rows/2, cols/2
	denom := 2 * d0 * d0

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			di, dj := float64(i-crow), float64(j-ccol)
			v := math.Exp(-(di*di + dj*dj) / denom)
			if mode == HighPass {
				v = 1 - v
			}
			mask.SetDoubleAt(i, j, v)
		}
	}
	return mask
}

// applyMask scales both planes by the same real mask, preserving phase.
func applyMask(s Spectrum, mask gocv.Mat) {
	for y := 0; y < mask.Rows(); y++ {
		for x := 0; x < mask.Cols(); x++ {
			w := mask.GetDoubleAt(y, x)
			s.Real.SetDoubleAt(y, x, s.Real.GetDoubleAt(y, x)*w)
			s.Imag.SetDoubleAt(y, x, s.Imag.GetDoubleAt(y, x)*w)
		}
	}
}
