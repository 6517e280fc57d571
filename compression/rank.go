package compression

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Mode selects how a Request's Value is interpreted.
type Mode int

const (
	// ModePercentage treats Value as the percentage of singular directions to discard.
	ModePercentage Mode = iota
	// ModeFixedRank treats Value as the number of components to keep.
	ModeFixedRank
)

// Mode names accepted by ParseMode.
const (
	ModeNamePercentage = "percentage"
	ModeNameFixed      = "fixed"
)

func (m Mode) String() string {
	switch m {
	case ModePercentage:
		return ModeNamePercentage
	case ModeFixedRank:
		return ModeNameFixed
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Request is a single compression parameter.
type Request struct {
	Mode  Mode    `json:"mode" yaml:"mode"`
	Value float64 `json:"value" yaml:"value"`
}

// Percentage builds a percentage request.
func Percentage(p float64) Request {
	return Request{Mode: ModePercentage, Value: p}
}

// FixedRank builds a fixed-rank request.
func FixedRank(k int) Request {
	return Request{Mode: ModeFixedRank, Value: float64(k)}
}

// ParseMode maps a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ModeNamePercentage:
		return ModePercentage, nil
	case ModeNameFixed:
		return ModeFixedRank, nil
	default:
		return 0, errors.Wrapf(ErrInvalidParameter, "unknown compression mode %q", name)
	}
}

// ParseRequest builds a Request from textual input, as received from a form or a flag.
//
// Arguments:
// - mode: "percentage" or "fixed".
// - value: A real number for percentage mode, an integer for fixed mode.
//
// Returns:
// - The parsed Request. Range checks happen in SelectRank.
// - ErrInvalidParameter (wrapped) if the mode is unknown or the value does not parse.
func ParseRequest(mode, value string) (Request, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return Request{}, err
	}

	value = strings.TrimSpace(value)
	switch m {
	case ModePercentage:
		p, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Request{}, errors.Wrapf(ErrInvalidParameter, "invalid percentage value %q", value)
		}
		return Percentage(p), nil
	default:
		k, err := strconv.Atoi(value)
		if err != nil {
			return Request{}, errors.Wrapf(ErrInvalidParameter, "invalid fixed components value %q", value)
		}
		return FixedRank(k), nil
	}
}

// SelectRank maps a request to the number of principal components to keep for a
// height x width image.
//
// In percentage mode the retained fraction is (100 - p) / 100 of min(height, width), rounded
// up. In fixed mode the value is used directly. Either way the result is at least 1 and is
// silently capped at min(height, width).
//
// Arguments:
// - height: Image height, at least 1.
// - width: Image width, at least 1.
// - req: The compression request.
//
// Returns:
// - The rank k with 1 <= k <= min(height, width).
// - ErrDegenerateInput for non-positive dimensions.
// - ErrInvalidParameter for a percentage outside [0, 100], a non-integer fixed rank, or an
// unknown mode.
func SelectRank(height, width int, req Request) (int, error) {
	if height < 1 || width < 1 {
		return 0, errors.Wrapf(ErrDegenerateInput, "image dimensions %dx%d", height, width)
	}
	limit := min(height, width)

	var k int
	switch req.Mode {
	case ModePercentage:
		p := req.Value
		// NaN fails both comparisons.
		if !(p >= 0 && p <= 100) {
			return 0, errors.Wrapf(ErrInvalidParameter, "compression percentage must be between 0 and 100, got %v", p)
		}
		retain := (100 - p) / 100
		k = max(1, int(math.Ceil(float64(limit)*retain)))
	case ModeFixedRank:
		v := req.Value
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, errors.Wrapf(ErrInvalidParameter, "fixed components must be an integer, got %v", v)
		}
		switch {
		case v > float64(limit):
			k = limit
		case v < 1:
			k = 1
		default:
			k = int(v)
		}
	default:
		return 0, errors.Wrapf(ErrInvalidParameter, "invalid compression type %v", req.Mode)
	}

	return min(k, limit), nil
}
