package quality

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-pca/images"
)

func filled(height, width int, v uint8) *images.Buffer {
	buf := images.NewBuffer(height, width)
	for i := range buf.Pix {
		buf.Pix[i] = v
	}
	return buf
}

func gradient(height, width int) *images.Buffer {
	buf := images.NewBuffer(height, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf.Set(y, x, 0, uint8((x*255)/max(1, width-1)))
			buf.Set(y, x, 1, uint8((y*255)/max(1, height-1)))
			buf.Set(y, x, 2, uint8(((x+y)*7)%256))
		}
	}
	return buf
}

func TestPSNR(t *testing.T) {
	a := gradient(8, 8)

	psnr, err := PSNR(a, a.Clone())
	require.NoError(t, err)
	assert.Equal(t, PSNRIdentical, psnr, "identical buffers use the sentinel, never +Inf")

	psnr, err = PSNR(filled(4, 4, 0), filled(4, 4, 1))
	require.NoError(t, err)
	assert.InDelta(t, 20*math.Log10(255), psnr, 1e-12)

	psnr, err = PSNR(filled(4, 4, 0), filled(4, 4, 255))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, psnr, 1e-12)

	_, err = PSNR(filled(4, 4, 0), filled(4, 5, 0))
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

// TestMSEUsesNormalizedScale checks that MSE is measured on [0, 1] samples while PSNR stays on
// the raw scale.
func TestMSEUsesNormalizedScale(t *testing.T) {
	a, b := filled(3, 3, 0), filled(3, 3, 255)

	mse, err := MSE(a.Normalized(), b.Normalized())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mse, 1e-15)

	mse, err = MSE(filled(2, 2, 0).Normalized(), filled(2, 2, 51).Normalized())
	require.NoError(t, err)
	assert.InDelta(t, 0.04, mse, 1e-15)

	_, err = MSE(filled(2, 2, 0).Normalized(), filled(2, 3, 0).Normalized())
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestSSIMIdentical(t *testing.T) {
	for _, dims := range [][2]int{{16, 16}, {7, 7}, {4, 4}, {3, 10}, {1, 9}, {1, 1}} {
		buf := gradient(dims[0], dims[1])
		ssim, err := SSIM(buf.Normalized(), buf.Clone().Normalized())
		require.NoError(t, err, "dims=%v", dims)
		assert.InDelta(t, 1.0, ssim, 1e-12, "dims=%v", dims)
	}
}

func TestSSIMDegrades(t *testing.T) {
	ref := gradient(24, 24)
	noisy := ref.Clone()
	for i := range noisy.Pix {
		if i%5 == 0 {
			noisy.Pix[i] = 255 - noisy.Pix[i]
		}
	}

	ab, err := SSIM(ref.Normalized(), noisy.Normalized())
	require.NoError(t, err)
	ba, err := SSIM(noisy.Normalized(), ref.Normalized())
	require.NoError(t, err)

	assert.Less(t, ab, 1.0)
	assert.Greater(t, ab, -1.0)
	assert.InDelta(t, ab, ba, 1e-12, "ssim is symmetric")
}

func TestSSIMShape(t *testing.T) {
	_, err := SSIM(filled(4, 4, 0).Normalized(), filled(5, 4, 0).Normalized())
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestWindowSize(t *testing.T) {
	assert.Equal(t, 7, windowSize(100, 80))
	assert.Equal(t, 7, windowSize(7, 7))
	assert.Equal(t, 5, windowSize(6, 100))
	assert.Equal(t, 3, windowSize(4, 4))
	assert.Equal(t, 1, windowSize(1, 9))
	assert.Equal(t, 1, windowSize(2, 2))
}

func TestReflect(t *testing.T) {
	// d c b a | a b c d | d c b a
	got := make([]int, 0, 12)
	for i := -4; i < 8; i++ {
		got = append(got, reflect(i, 4))
	}
	assert.Equal(t, []int{3, 2, 1, 0, 0, 1, 2, 3, 3, 2, 1, 0}, got)
	assert.Equal(t, 0, reflect(-3, 1))
}

func TestUniformFilter(t *testing.T) {
	plane := make([]float64, 5*6)
	for i := range plane {
		plane[i] = 0.25
	}
	for _, v := range uniformFilter(plane, 5, 6, 3) {
		assert.InDelta(t, 0.25, v, 1e-15)
	}

	// A single row with window 3: the first sample sees itself twice through reflection.
	row := []float64{0, 3, 6}
	out := uniformFilter(row, 1, 3, 3)
	assert.InDelta(t, 1.0, out[0], 1e-12)
	assert.InDelta(t, 3.0, out[1], 1e-12)
	assert.InDelta(t, 5.0, out[2], 1e-12)
}

func TestEvaluate(t *testing.T) {
	ref := gradient(10, 12)
	dist := ref.Clone()
	dist.Pix[0] ^= 0x10

	m, err := Evaluate(ref, dist, [images.Channels]float64{1, 0.5, 0.75})
	require.NoError(t, err)

	assert.InDelta(t, 75.0, m.InformationRetained, 1e-12)
	assert.Less(t, m.PSNR, PSNRIdentical)
	assert.Greater(t, m.PSNR, 40.0)
	assert.Less(t, m.SSIM, 1.0)
	assert.InDelta(t, (1-m.SSIM)*100, m.VisualDegradation, 1e-12)
	assert.InDelta(t, (16.0/255)*(16.0/255)/float64(len(ref.Pix)), m.MSE, 1e-15)

	_, err = Evaluate(ref, gradient(10, 11), [images.Channels]float64{})
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestInformationRetained(t *testing.T) {
	assert.InDelta(t, 100.0, InformationRetained([images.Channels]float64{1, 1, 1}), 1e-12)
	assert.InDelta(t, 0.0, InformationRetained([images.Channels]float64{}), 1e-12)
	assert.InDelta(t, 50.0, InformationRetained([images.Channels]float64{0.25, 0.5, 0.75}), 1e-12)
}
