package quality

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

const (
	// ssimWindow is the side of the uniform averaging window.
	ssimWindow = 7
	// ssimK1 and ssimK2 stabilise the luminance and contrast terms.
	ssimK1 = 0.01
	ssimK2 = 0.03
	// ssimDataRange is the dynamic range of normalized samples.
	ssimDataRange = 1.0
)

// SSIM returns the mean structural similarity of two (height, width, channels) tensors with
// samples in [0, 1]. Each channel is scored separately with a uniform 7x7 window and the
// channel scores are averaged.
//
// Borders are handled by symmetric reflection and the SSIM map is cropped by half a window on
// every side before averaging. Images narrower than the window use the largest odd window
// that fits.
//
// Arguments:
// - a: Reference tensor.
// - b: Distorted tensor of the same shape.
//
// Returns:
// - The SSIM score, 1 for identical inputs.
// - ErrShapeMismatch if the shapes differ or are not three-dimensional.
func SSIM(a, b *tensor.Dense) (float64, error) {
	x, y, err := backing(a, b)
	if err != nil {
		return 0, errors.Wrap(err, "ssim")
	}
	shape := a.Shape()
	if len(shape) != 3 || shape[0] <= 0 || shape[1] <= 0 || shape[2] <= 0 {
		return 0, errors.Wrapf(ErrShapeMismatch, "ssim: want (height, width, channels), got %v", shape)
	}
	height, width, channels := shape[0], shape[1], shape[2]

	win := windowSize(height, width)

	var total float64
	px := make([]float64, height*width)
	py := make([]float64, height*width)
	for c := 0; c < channels; c++ {
		for i := range px {
			px[i] = x[i*channels+c]
			py[i] = y[i*channels+c]
		}
		total += channelSSIM(px, py, height, width, win)
	}
	return total / float64(channels), nil
}

// windowSize returns ssimWindow or the largest odd size not exceeding either dimension.
func windowSize(height, width int) int {
	win := ssimWindow
	if m := min(height, width); m < win {
		win = m
		if win%2 == 0 {
			win--
		}
	}
	return win
}

// channelSSIM scores one plane.
func channelSSIM(x, y []float64, height, width, win int) float64 {
	n := len(x)
	xx := make([]float64, n)
	yy := make([]float64, n)
	xy := make([]float64, n)
	for i := range x {
		xx[i] = x[i] * x[i]
		yy[i] = y[i] * y[i]
		xy[i] = x[i] * y[i]
	}

	ux := uniformFilter(x, height, width, win)
	uy := uniformFilter(y, height, width, win)
	uxx := uniformFilter(xx, height, width, win)
	uyy := uniformFilter(yy, height, width, win)
	uxy := uniformFilter(xy, height, width, win)

	// Sample covariance.
	np := float64(win * win)
	covNorm := 1.0
	if np > 1 {
		covNorm = np / (np - 1)
	}

	c1 := (ssimK1 * ssimDataRange) * (ssimK1 * ssimDataRange)
	c2 := (ssimK2 * ssimDataRange) * (ssimK2 * ssimDataRange)

	pad := (win - 1) / 2
	var sum float64
	var count int
	for r := pad; r < height-pad; r++ {
		for col := pad; col < width-pad; col++ {
			i := r*width + col
			vx := covNorm * (uxx[i] - ux[i]*ux[i])
			vy := covNorm * (uyy[i] - uy[i]*uy[i])
			vxy := covNorm * (uxy[i] - ux[i]*uy[i])

			a1 := 2*ux[i]*uy[i] + c1
			a2 := 2*vxy + c2
			b1 := ux[i]*ux[i] + uy[i]*uy[i] + c1
			b2 := vx + vy + c2
			sum += (a1 * a2) / (b1 * b2)
			count++
		}
	}
	return sum / float64(count)
}

// uniformFilter returns the mean of every win x win neighbourhood of a row-major plane, with
// out-of-range indices mirrored about the edge (d c b a | a b c d | d c b a).
func uniformFilter(plane []float64, height, width, win int) []float64 {
	half := win / 2
	rows := make([]float64, len(plane))
	for r := 0; r < height; r++ {
		base := r * width
		for c := 0; c < width; c++ {
			var s float64
			for k := -half; k <= half; k++ {
				s += plane[base+reflect(c+k, width)]
			}
			rows[base+c] = s / float64(win)
		}
	}

	out := make([]float64, len(plane))
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			var s float64
			for k := -half; k <= half; k++ {
				s += rows[reflect(r+k, height)*width+c]
			}
			out[r*width+c] = s / float64(win)
		}
	}
	return out
}

// reflect maps an index onto [0, n) by half-sample symmetric extension.
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}
