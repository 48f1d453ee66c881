package endpoint

import (
	"errors"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/procintf/internal/shared/fault"
)

// Input bounds in data bytes, excluding the trailing newline
const (
	PrimaryConfigMaxBytes = 7
	DebugLevelMaxBytes    = 11
)

var errEmpty = errors.New("empty input")

// bounded copies data into a local buffer, strips one trailing newline and
// checks the result against max.
func bounded(op string, data []byte, max int) (string, error) {
	if len(data) == 0 {
		return "", fault.New(fault.KindValidation, op, errEmpty)
	}
	if len(data) > max+1 {
		return "", fault.Newf(fault.KindValidation, op, "%d bytes exceeds limit of %d", len(data), max+1)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	if buf[len(buf)-1] == '\n' {
		buf = buf[:len(buf)-1]
	}

	switch {
	case len(buf) == 0:
		return "", fault.New(fault.KindValidation, op, errEmpty)
	case len(buf) > max:
		return "", fault.Newf(fault.KindValidation, op, "%d data bytes exceeds limit of %d", len(buf), max)
	}
	return string(buf), nil
}

// splitBase detects the base from the prefix: 0x hex, leading 0 octal,
// otherwise decimal.
func splitBase(s string) (string, int) {
	switch {
	case len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		return s[2:], 16
	case len(s) > 1 && s[0] == '0':
		return s[1:], 8
	default:
		return s, 10
	}
}

// parseUnsigned parses a 32-bit unsigned value with base auto-detection
func parseUnsigned(s string) (uint32, error) {
	s = strings.TrimPrefix(s, "+")
	digits, base := splitBase(s)
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// parseSigned parses a 32-bit signed value with base auto-detection.
// Values that do not fit report strconv.ErrRange.
func parseSigned(s string) (int32, error) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	digits, base := splitBase(s)
	mag, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, err
	}

	if neg {
		if mag > 1<<31 {
			return 0, strconv.ErrRange
		}
		return int32(-int64(mag)), nil
	}
	if mag > 1<<31-1 {
		return 0, strconv.ErrRange
	}
	return int32(mag), nil
}
