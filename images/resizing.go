package images

import (
	"github.com/nfnt/resize"
)

// Downscale shrinks buf so that its longest side is at most maxDim, keeping the aspect ratio.
//
// PCA cost grows with height*width*min(height, width), so capping the longest side keeps very
// large inputs tractable. The resampling filter is Lanczos3.
//
// Arguments:
//   - buf: The raster to shrink.
//   - maxDim: Maximum length of the longest side. Values <= 0 disable the cap.
//
// Returns:
//   - buf itself when no shrinking is needed, otherwise a new Buffer.
func Downscale(buf *Buffer, maxDim int) *Buffer {
	if maxDim <= 0 || buf.Empty() {
		return buf
	}
	if buf.Width <= maxDim && buf.Height <= maxDim {
		return buf
	}

	// A zero dimension lets resize preserve the aspect ratio.
	var width, height uint
	if buf.Width >= buf.Height {
		width = uint(maxDim)
	} else {
		height = uint(maxDim)
	}

	return FromImage(resize.Resize(width, height, buf.ToImage(), resize.Lanczos3))
}
