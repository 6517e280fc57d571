// Package images - RGB raster buffers and the codecs that move them to and from disk.
package images

import (
	"image"
	"image/color"

	"gorgonia.org/tensor"
)

// Channels is the number of color channels in a Buffer. Alpha and grayscale sources are
// normalized to RGB before they become a Buffer.
const Channels = 3

// Buffer is an 8-bit RGB raster in height-width-channel order.
type Buffer struct {
	// Height is the number of rows.
	Height int `json:"height" yaml:"height"`
	// Width is the number of columns.
	Width int `json:"width" yaml:"width"`
	// Pix holds the samples; the sample for row y, column x and channel c lives at
	// Pix[(y*Width+x)*Channels+c].
	Pix []uint8 `json:"-" yaml:"-"`
}

// NewBuffer allocates a zeroed buffer of the given dimensions.
//
// Arguments:
// - height: The number of rows.
// - width: The number of columns.
//
// Returns:
// - A Buffer with len(Pix) == height*width*Channels. Non-positive dimensions yield an empty buffer.
func NewBuffer(height, width int) *Buffer {
	if height <= 0 || width <= 0 {
		return &Buffer{}
	}
	return &Buffer{
		Height: height,
		Width:  width,
		Pix:    make([]uint8, height*width*Channels),
	}
}

// FromImage converts any image.Image into an RGB buffer.
//
// Alpha is dropped from the non-premultiplied color, so a half transparent red pixel stays
// full red rather than being darkened. Grayscale and paletted images expand to three equal
// channels.
//
// Arguments:
// - img: The decoded source image.
//
// Returns:
// - A new Buffer with the same dimensions as img.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	buf := NewBuffer(bounds.Dy(), bounds.Dx())
	if buf.Empty() {
		return buf
	}

	// Fast path for the layouts the standard decoders produce.
	switch src := img.(type) {
	case *image.RGBA:
		if isOpaque(src) {
			copyInterleaved(buf, src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y):], src.Stride, bounds)
			return buf
		}
	case *image.NRGBA:
		copyInterleaved(buf, src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y):], src.Stride, bounds)
		return buf
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			buf.Pix[i] = c.R
			buf.Pix[i+1] = c.G
			buf.Pix[i+2] = c.B
			i += Channels
		}
	}
	return buf
}

// copyInterleaved copies the RGB part of a 4-byte-per-pixel layout.
func copyInterleaved(buf *Buffer, pix []uint8, stride int, bounds image.Rectangle) {
	i := 0
	for y := 0; y < bounds.Dy(); y++ {
		row := pix[y*stride : y*stride+bounds.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			buf.Pix[i] = row[x]
			buf.Pix[i+1] = row[x+1]
			buf.Pix[i+2] = row[x+2]
			i += Channels
		}
	}
}

func isOpaque(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			return false
		}
	}
	return true
}

// ToImage returns an opaque *image.RGBA copy of the buffer.
func (b *Buffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, j := 0, 0; i < len(b.Pix); i, j = i+Channels, j+4 {
		img.Pix[j] = b.Pix[i]
		img.Pix[j+1] = b.Pix[i+1]
		img.Pix[j+2] = b.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// Empty reports whether the buffer has zero area or a pixel slice that does not match its
// dimensions.
func (b *Buffer) Empty() bool {
	return b == nil || b.Height <= 0 || b.Width <= 0 || len(b.Pix) != b.Height*b.Width*Channels
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Height: b.Height, Width: b.Width, Pix: make([]uint8, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// Equal reports whether two buffers have the same shape and samples.
func (b *Buffer) Equal(other *Buffer) bool {
	if b.Height != other.Height || b.Width != other.Width || len(b.Pix) != len(other.Pix) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// SameShape reports whether two buffers have identical dimensions.
func (b *Buffer) SameShape(other *Buffer) bool {
	return b.Height == other.Height && b.Width == other.Width
}

// At returns the sample at row y, column x, channel c.
func (b *Buffer) At(y, x, c int) uint8 {
	return b.Pix[(y*b.Width+x)*Channels+c]
}

// Set stores a sample at row y, column x, channel c.
func (b *Buffer) Set(y, x, c int, v uint8) {
	b.Pix[(y*b.Width+x)*Channels+c] = v
}

// Channel extracts one channel as a row-major height*width plane of float64.
//
// Arguments:
// - c: The channel index in [0, Channels).
//
// Returns:
// - A new slice; Channel(c)[y*Width+x] == float64(At(y, x, c)).
func (b *Buffer) Channel(c int) []float64 {
	plane := make([]float64, b.Height*b.Width)
	for i := range plane {
		plane[i] = float64(b.Pix[i*Channels+c])
	}
	return plane
}

// Normalized returns the buffer as a float64 tensor of shape (height, width, Channels) with
// every sample divided by 255.
func (b *Buffer) Normalized() *tensor.Dense {
	data := make([]float64, len(b.Pix))
	for i, v := range b.Pix {
		data[i] = float64(v) / 255.0
	}
	return tensor.New(
		tensor.WithShape(b.Height, b.Width, Channels),
		tensor.Of(tensor.Float64),
		tensor.WithBacking(data),
	)
}
