package images

import (
	"bufio"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// DefaultQuality is the quality hint used for lossy output formats when the caller has no
// preference.
const DefaultQuality = 40

// ErrIO is wrapped by every decode, encode and file access failure in this package.
var ErrIO = errors.New("image i/o failed")

// Decode reads an encoded raster in any supported format and normalizes it to RGB. JPEG EXIF
// orientation is applied so the buffer matches what a viewer shows.
//
// Arguments:
// - r: The encoded image stream.
//
// Returns:
// - The decoded RGB Buffer.
// - ErrIO (wrapped) if the stream is not a decodable image or has zero area.
func Decode(r io.Reader) (*Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "decode: %v", err)
	}
	buf := FromImage(img)
	if buf.Empty() {
		return nil, errors.Wrap(ErrIO, "decode: image has zero area")
	}
	return buf, nil
}

// Load opens and decodes the image file at path.
//
// Arguments:
// - path: The file to read.
//
// Returns:
// - The decoded RGB Buffer.
// - ErrIO (wrapped) if the file cannot be opened or decoded.
func Load(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "open %s: %v", path, err)
	}
	defer f.Close()

	buf, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return buf, nil
}

// Encode writes buf to w in the given format.
//
// The quality hint is only honoured by formats whose SupportsQuality is true; it is checked
// against [0, 100] for those formats and ignored otherwise.
//
// Arguments:
// - w: Destination stream.
// - buf: The raster to encode.
// - format: Output format.
// - quality: Lossy quality hint in [0, 100].
//
// Returns:
// - ErrIO (wrapped) on unknown formats, bad quality hints, empty buffers or encoder failure.
func Encode(w io.Writer, buf *Buffer, format ImageFormat, quality int) error {
	if buf.Empty() {
		return errors.Wrap(ErrIO, "encode: empty buffer")
	}
	if format.SupportsQuality() && (quality < 0 || quality > 100) {
		return errors.Wrapf(ErrIO, "encode: quality %d out of range [0, 100]", quality)
	}

	img := buf.ToImage()

	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatWebP:
		err = webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
	case FormatPNG:
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		err = encoder.Encode(w, img)
	case FormatGIF:
		err = gif.Encode(w, img, &gif.Options{NumColors: 256})
	case FormatBMP:
		err = bmp.Encode(w, img)
	default:
		return errors.Wrapf(ErrIO, "encode: unsupported image format: %s", format)
	}
	if err != nil {
		return errors.Wrapf(ErrIO, "encode %s: %v", format, err)
	}
	return nil
}

// Save encodes buf to path, choosing the format from the file extension.
//
// Arguments:
// - buf: The raster to save.
// - path: Output file; its extension selects the encoder.
// - quality: Lossy quality hint, used only by JPEG and WebP.
//
// Returns:
// - ErrIO (wrapped) if the format is unknown or writing fails. A partially written file is
// removed.
func Save(buf *Buffer, path string, quality int) (err error) {
	format := FormatFromPath(path)
	if format == FormatUnknown {
		return errors.Wrapf(ErrIO, "save %s: unsupported file extension", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(ErrIO, "create %s: %v", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(ErrIO, "close %s: %v", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	if err = Encode(w, buf, format, quality); err != nil {
		return errors.Wrap(err, path)
	}
	if err = w.Flush(); err != nil {
		return errors.Wrapf(ErrIO, "flush %s: %v", path, err)
	}
	return nil
}
