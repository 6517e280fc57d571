package compression

import "github.com/pkg/errors"

var (
	// ErrInvalidParameter is returned for malformed or out-of-range compression requests.
	ErrInvalidParameter = errors.New("invalid compression parameter")
	// ErrDegenerateInput is returned for images with zero area or a malformed pixel layout.
	ErrDegenerateInput = errors.New("degenerate input image")
)
