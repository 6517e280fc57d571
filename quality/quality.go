// Package quality - objective fidelity metrics for comparing an image with its reconstruction.
//
// PSNR is computed on raw [0, 255] samples while SSIM and MSE are computed on samples scaled
// to [0, 1]. The two scales are intentional and reported side by side.
package quality

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-pca/images"
)

// PSNRIdentical is reported instead of +Inf when two buffers are identical.
const PSNRIdentical = 100.0

// maxPixel is the peak sample value used by PSNR.
const maxPixel = 255.0

// ErrShapeMismatch is returned when the two inputs do not have the same dimensions.
var ErrShapeMismatch = errors.New("shape mismatch")

// Metrics is the fidelity record for one reconstruction.
type Metrics struct {
	// InformationRetained is the mean explained-variance ratio of the channels, in percent.
	InformationRetained float64 `json:"information_retained_pct" yaml:"information_retained_pct"`
	// PSNR is the peak signal-to-noise ratio in decibels on [0, 255] samples.
	PSNR float64 `json:"psnr" yaml:"psnr"`
	// SSIM is the structural similarity on [0, 1] samples, averaged over channels.
	SSIM float64 `json:"ssim" yaml:"ssim"`
	// MSE is the mean squared error on [0, 1] samples.
	MSE float64 `json:"mse" yaml:"mse"`
	// VisualDegradation is (1 - SSIM) in percent.
	VisualDegradation float64 `json:"visual_degradation_pct" yaml:"visual_degradation_pct"`
}

// Evaluate computes every metric for a reconstruction.
//
// Arguments:
// - original: The source raster.
// - reconstructed: The raster produced by compression.
// - ratios: Per-channel explained-variance ratios in [0, 1].
//
// Returns:
// - The Metrics record.
// - ErrShapeMismatch if the rasters differ in size.
func Evaluate(original, reconstructed *images.Buffer, ratios [images.Channels]float64) (Metrics, error) {
	psnr, err := PSNR(original, reconstructed)
	if err != nil {
		return Metrics{}, err
	}

	a, b := original.Normalized(), reconstructed.Normalized()

	ssim, err := SSIM(a, b)
	if err != nil {
		return Metrics{}, err
	}
	mse, err := MSE(a, b)
	if err != nil {
		return Metrics{}, err
	}

	return Metrics{
		InformationRetained: InformationRetained(ratios),
		PSNR:                psnr,
		SSIM:                ssim,
		MSE:                 mse,
		VisualDegradation:   (1 - ssim) * 100,
	}, nil
}

// InformationRetained averages the per-channel explained-variance ratios and expresses the
// result as a percentage.
func InformationRetained(ratios [images.Channels]float64) float64 {
	return floats.Sum(ratios[:]) / images.Channels * 100
}

// PSNR returns the peak signal-to-noise ratio between two rasters on the raw [0, 255] scale.
// Identical rasters yield PSNRIdentical.
func PSNR(original, reconstructed *images.Buffer) (float64, error) {
	if !original.SameShape(reconstructed) || len(original.Pix) != len(reconstructed.Pix) {
		return 0, errors.Wrapf(ErrShapeMismatch, "psnr: %dx%d vs %dx%d",
			original.Height, original.Width, reconstructed.Height, reconstructed.Width)
	}
	if len(original.Pix) == 0 {
		return 0, errors.Wrap(ErrShapeMismatch, "psnr: empty input")
	}

	var sum float64
	for i := range original.Pix {
		d := float64(original.Pix[i]) - float64(reconstructed.Pix[i])
		sum += d * d
	}
	mse := sum / float64(len(original.Pix))
	if mse == 0 {
		return PSNRIdentical, nil
	}
	return 20 * math.Log10(maxPixel/math.Sqrt(mse)), nil
}

// MSE returns the mean squared error between two tensors of equal shape.
func MSE(a, b *tensor.Dense) (float64, error) {
	x, y, err := backing(a, b)
	if err != nil {
		return 0, errors.Wrap(err, "mse")
	}
	if len(x) == 0 {
		return 0, errors.Wrap(ErrShapeMismatch, "mse: empty input")
	}
	var sum float64
	for i := range x {
		d := x[i] - y[i]
		sum += d * d
	}
	return sum / float64(len(x)), nil
}

// backing checks that two tensors share a shape and returns their float64 data.
func backing(a, b *tensor.Dense) ([]float64, []float64, error) {
	if !a.Shape().Eq(b.Shape()) {
		return nil, nil, errors.Wrapf(ErrShapeMismatch, "%v vs %v", a.Shape(), b.Shape())
	}
	x, ok := a.Data().([]float64)
	if !ok {
		return nil, nil, errors.Errorf("unsupported tensor dtype %v", a.Dtype())
	}
	y, ok := b.Data().([]float64)
	if !ok {
		return nil, nil, errors.Errorf("unsupported tensor dtype %v", b.Dtype())
	}
	return x, y, nil
}
