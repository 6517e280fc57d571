package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuffer(t *testing.T) {
	buf := NewBuffer(3, 5)
	assert.Equal(t, 3, buf.Height)
	assert.Equal(t, 5, buf.Width)
	assert.Len(t, buf.Pix, 3*5*Channels)
	assert.False(t, buf.Empty())

	assert.True(t, NewBuffer(0, 5).Empty())
	assert.True(t, NewBuffer(3, -1).Empty())
	assert.True(t, (&Buffer{Height: 2, Width: 2, Pix: make([]uint8, 3)}).Empty())

	var nilBuf *Buffer
	assert.True(t, nilBuf.Empty())
}

// TestFromImageNormalizesToRGB covers alpha, grayscale and paletted sources.
func TestFromImageNormalizesToRGB(t *testing.T) {
	t.Run("nrgba drops alpha without darkening", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
		img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
		img.SetNRGBA(1, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 0})

		buf := FromImage(img)
		assert.Equal(t, []uint8{200, 100, 50, 1, 2, 3}, buf.Pix)
	})

	t.Run("translucent rgba is un-premultiplied", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.SetRGBA(0, 0, color.RGBA{R: 100, G: 50, B: 0, A: 128})

		buf := FromImage(img)
		assert.InDelta(t, 199, int(buf.Pix[0]), 1)
		assert.InDelta(t, 99, int(buf.Pix[1]), 1)
		assert.Equal(t, uint8(0), buf.Pix[2])
	})

	t.Run("grayscale expands to three equal channels", func(t *testing.T) {
		img := image.NewGray(image.Rect(0, 0, 2, 2))
		img.SetGray(1, 1, color.Gray{Y: 77})

		buf := FromImage(img)
		assert.Equal(t, []uint8{77, 77, 77}, []uint8{buf.At(1, 1, 0), buf.At(1, 1, 1), buf.At(1, 1, 2)})
		assert.Equal(t, uint8(0), buf.At(0, 0, 0))
	})

	t.Run("paletted", func(t *testing.T) {
		palette := color.Palette{color.RGBA{A: 255}, color.RGBA{R: 10, G: 20, B: 30, A: 255}}
		img := image.NewPaletted(image.Rect(0, 0, 1, 1), palette)
		img.SetColorIndex(0, 0, 1)

		assert.Equal(t, []uint8{10, 20, 30}, FromImage(img).Pix)
	})

	t.Run("sub image keeps its own origin", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for i := range img.Pix {
			img.Pix[i] = 255
		}
		img.SetRGBA(2, 3, color.RGBA{R: 9, G: 8, B: 7, A: 255})

		sub := img.SubImage(image.Rect(2, 2, 4, 4))
		buf := FromImage(sub)
		require.Equal(t, 2, buf.Width)
		require.Equal(t, 2, buf.Height)
		assert.Equal(t, uint8(9), buf.At(1, 0, 0))
		assert.Equal(t, uint8(8), buf.At(1, 0, 1))
		assert.Equal(t, uint8(7), buf.At(1, 0, 2))
	})
}

func TestToImageRoundTrip(t *testing.T) {
	buf := NewBuffer(2, 3)
	for i := range buf.Pix {
		buf.Pix[i] = uint8(i * 13)
	}

	img := buf.ToImage()
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	assert.Equal(t, uint8(0xff), img.Pix[3])
	assert.True(t, buf.Equal(FromImage(img)))
}

func TestBufferAccessors(t *testing.T) {
	buf := NewBuffer(2, 2)
	buf.Set(1, 0, 2, 42)
	assert.Equal(t, uint8(42), buf.At(1, 0, 2))
	assert.Equal(t, uint8(42), buf.Pix[(1*2+0)*Channels+2])

	plane := buf.Channel(2)
	assert.Equal(t, []float64{0, 0, 42, 0}, plane)

	clone := buf.Clone()
	assert.True(t, buf.Equal(clone))
	clone.Pix[0] = 1
	assert.False(t, buf.Equal(clone), "clone must not share storage")
	assert.False(t, buf.Equal(NewBuffer(2, 3)))
	assert.True(t, buf.SameShape(clone))
}

func TestNormalized(t *testing.T) {
	buf := NewBuffer(2, 3)
	buf.Set(1, 2, 1, 255)
	buf.Set(0, 0, 0, 51)

	tn := buf.Normalized()
	assert.Equal(t, []int{2, 3, Channels}, []int(tn.Shape()))

	data, ok := tn.Data().([]float64)
	require.True(t, ok)
	assert.InDelta(t, 0.2, data[0], 1e-15)
	assert.InDelta(t, 1.0, data[(1*3+2)*Channels+1], 1e-15)
}

func TestChecksum(t *testing.T) {
	a := NewBuffer(4, 4)
	b := a.Clone()
	assert.Equal(t, Checksum(a), Checksum(b))

	b.Pix[5] = 1
	assert.NotEqual(t, Checksum(a), Checksum(b))

	// Same samples, different shape.
	assert.NotEqual(t, Checksum(NewBuffer(2, 8)), Checksum(NewBuffer(8, 2)))
	assert.Equal(t, "empty", Checksum(&Buffer{}))
}
