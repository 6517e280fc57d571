package compression

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/nvr-ai/go-pca/images"
)

// Channel identifies one color channel of an images.Buffer.
type Channel int

const (
	// Red is channel 0.
	Red Channel = iota
	// Green is channel 1.
	Green
	// Blue is channel 2.
	Blue
)

// AllChannels lists the channels in buffer order.
var AllChannels = [images.Channels]Channel{Red, Green, Blue}

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return "unknown"
	}
}

// CompressChannels replaces every channel of img with its rank-k PCA reconstruction, using
// the default Compressor.
func CompressChannels(img *images.Buffer, k int) (*images.Buffer, [images.Channels]float64, error) {
	return defaultCompressor.CompressChannels(img, k)
}

// CompressChannels replaces every channel of img with its rank-k PCA reconstruction.
//
// Channels are decomposed independently: each is centered on its scalar mean, its rows are
// treated as observations, and the top k principal directions are kept. Reconstructed samples
// are clipped to [0, 255] and rounded.
//
// Arguments:
// - img: The source raster.
// - k: The rank, 1 <= k <= min(height, width).
//
// Returns:
// - The reconstructed raster.
// - The explained-variance ratio kept for each channel, in [0, 1].
// - ErrDegenerateInput for an empty or malformed buffer, ErrInvalidParameter for an out of
// range k.
func (c *Compressor) CompressChannels(img *images.Buffer, k int) (*images.Buffer, [images.Channels]float64, error) {
	var ratios [images.Channels]float64

	if err := checkImage(img); err != nil {
		return nil, ratios, err
	}
	if limit := min(img.Height, img.Width); k < 1 || k > limit {
		return nil, ratios, errors.Wrapf(ErrInvalidParameter, "rank %d outside [1, %d]", k, limit)
	}

	out := images.NewBuffer(img.Height, img.Width)

	reduce := func(ch Channel) error {
		ratio, err := reduceChannel(img, out, int(ch), k)
		if err != nil {
			return errors.Wrapf(err, "%s channel", ch)
		}
		ratios[ch] = ratio
		return nil
	}

	if c.opts.Sequential {
		for _, ch := range AllChannels {
			if err := reduce(ch); err != nil {
				return nil, [images.Channels]float64{}, err
			}
		}
		return out, ratios, nil
	}

	// Each goroutine writes only its own channel's samples and ratio slot.
	var g errgroup.Group
	for _, ch := range AllChannels {
		ch := ch
		g.Go(func() error { return reduce(ch) })
	}
	if err := g.Wait(); err != nil {
		return nil, [images.Channels]float64{}, err
	}
	return out, ratios, nil
}

// checkImage rejects nil, zero-area and malformed buffers.
func checkImage(img *images.Buffer) error {
	if img == nil {
		return errors.Wrap(ErrDegenerateInput, "nil image")
	}
	if img.Empty() {
		return errors.Wrapf(ErrDegenerateInput, "image %dx%d with %d samples",
			img.Height, img.Width, len(img.Pix))
	}
	return nil
}

// reduceChannel reconstructs channel c of src at rank k into dst and returns the fraction of
// variance the kept directions explain.
func reduceChannel(src, dst *images.Buffer, c, k int) (float64, error) {
	height, width := src.Height, src.Width
	plane := src.Channel(c)

	// Center the whole channel on its scalar mean.
	channelMean := stat.Mean(plane, nil)
	for i := range plane {
		plane[i] -= channelMean
	}

	// Rows are observations; remove the per-column mean before decomposing.
	x := mat.NewDense(height, width, plane)
	colMeans := make([]float64, width)
	for j := 0; j < width; j++ {
		colMeans[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}
	for i := 0; i < height; i++ {
		row := plane[i*width : (i+1)*width]
		for j := range row {
			row[j] -= colMeans[j]
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return 0, errors.New("singular value decomposition did not converge")
	}
	values := svd.Values(nil)

	var v mat.Dense
	svd.VTo(&v)
	basis := v.Slice(0, width, 0, k)

	// Project onto the kept directions and back.
	var scores, approx mat.Dense
	scores.Mul(x, basis)
	approx.Mul(&scores, basis.T())

	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			dst.Set(i, j, c, toSample(approx.At(i, j)+colMeans[j]+channelMean))
		}
	}

	return explainedRatio(values, k), nil
}

// explainedRatio returns the share of the squared singular values held by the first k.
// A plane with no variance has nothing to lose, so it reports 1.
func explainedRatio(values []float64, k int) float64 {
	var kept, total float64
	for i, s := range values {
		total += s * s
		if i == k-1 {
			kept = total
		}
	}
	if total == 0 {
		return 1
	}
	return kept / total
}

// toSample clips to [0, 255] and rounds to the nearest integer.
func toSample(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}
