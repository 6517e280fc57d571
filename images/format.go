package images

import (
	"path/filepath"
	"strings"
)

// ImageFormat represents supported image formats
type ImageFormat string

// ImageFormat constants
const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatGIF is the GIF image format.
	FormatGIF ImageFormat = "gif"
	// FormatBMP is the BMP image format.
	FormatBMP ImageFormat = "bmp"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
	// FormatUnknown is returned for extensions no codec handles.
	FormatUnknown ImageFormat = ""
)

// extensions maps lowercase file extensions to formats.
var extensions = map[string]ImageFormat{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
	".gif":  FormatGIF,
	".bmp":  FormatBMP,
	".webp": FormatWebP,
}

// FormatFromPath returns the format implied by a file extension, or FormatUnknown.
func FormatFromPath(path string) ImageFormat {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// IsSupported reports whether path has an extension one of the codecs can read and write.
func IsSupported(path string) bool {
	return FormatFromPath(path) != FormatUnknown
}

// SupportsQuality reports whether the encoder for the format accepts a lossy quality setting.
// Only JPEG and WebP do; other formats ignore the hint.
func (f ImageFormat) SupportsQuality() bool {
	return f == FormatJPEG || f == FormatWebP
}

func (f ImageFormat) String() string {
	if f == FormatUnknown {
		return "unknown"
	}
	return string(f)
}
