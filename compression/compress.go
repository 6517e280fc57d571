// Package compression - lossy image compression by per-channel PCA low-rank approximation.
//
// A Request (a percentage of singular directions to discard, or a fixed component count) is
// mapped to a rank k by SelectRank, each RGB channel is replaced by its rank-k reconstruction
// by CompressChannels, and the result is scored by the quality package. Compress composes the
// three steps.
//
// Calls share no mutable state and are safe to run concurrently. The package never logs.
package compression

import (
	"time"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-pca/images"
	"github.com/nvr-ai/go-pca/quality"
)

// Options configures a Compressor.
type Options struct {
	// Sequential disables the per-channel goroutines and decomposes the channels one after
	// another on the calling goroutine.
	Sequential bool
}

// Compressor runs compression requests. The zero value is ready to use.
type Compressor struct {
	opts Options
}

var defaultCompressor = NewCompressor(Options{})

// NewCompressor creates a Compressor with the given options.
func NewCompressor(opts Options) *Compressor {
	return &Compressor{opts: opts}
}

// Result is the outcome of one compression request.
type Result struct {
	// Reconstructed is the compressed raster, same dimensions as the input.
	Reconstructed *images.Buffer `json:"-"`
	// Rank is the number of principal components kept per channel.
	Rank int `json:"rank"`
	// Runtime covers rank selection through reconstruction; metric computation is excluded.
	Runtime time.Duration `json:"runtime"`
	// ExplainedVariance is the per-channel explained-variance ratio in [0, 1].
	ExplainedVariance [images.Channels]float64 `json:"explained_variance"`
	// Metrics holds the fidelity scores.
	Metrics quality.Metrics `json:"metrics"`
}

// RuntimeSeconds returns Runtime as fractional seconds.
func (r *Result) RuntimeSeconds() float64 {
	return r.Runtime.Seconds()
}

// Compress runs req against img with the default Compressor.
func Compress(img *images.Buffer, req Request) (*Result, error) {
	return defaultCompressor.Compress(img, req)
}

// Compress selects a rank for req, reconstructs every channel of img at that rank and scores
// the reconstruction against img.
//
// Arguments:
// - img: The source raster. It is not modified.
// - req: The compression request.
//
// Returns:
// - The complete Result, or nil on any error.
// - ErrDegenerateInput or ErrInvalidParameter (wrapped) for bad inputs.
//
// @example
//
//	buf, err := images.Load("photo.png")
//	if err != nil {
//	    return err
//	}
//	res, err := compression.Compress(buf, compression.Percentage(80))
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("k=%d psnr=%.2f\n", res.Rank, res.Metrics.PSNR)
func (c *Compressor) Compress(img *images.Buffer, req Request) (*Result, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}

	start := time.Now()

	k, err := SelectRank(img.Height, img.Width, req)
	if err != nil {
		return nil, err
	}

	reconstructed, ratios, err := c.CompressChannels(img, k)
	if err != nil {
		return nil, err
	}

	runtime := time.Since(start)

	metrics, err := quality.Evaluate(img, reconstructed, ratios)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate reconstruction")
	}

	return &Result{
		Reconstructed:     reconstructed,
		Rank:              k,
		Runtime:           runtime,
		ExplainedVariance: ratios,
		Metrics:           metrics,
	}, nil
}
