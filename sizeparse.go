package covsort

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedSize reports a size token that is not an integer with an
// optional K/M/G suffix.
var ErrMalformedSize = errors.New("malformed size value")

// ParseSize converts a size token such as "5m", "4.2M", or "2500000"
// into a base count. Suffixes are decimal (K=1e3, M=1e6, G=1e9) and
// case-insensitive. A fractional mantissa is truncated before scaling,
// so "4.2M" yields 4000000. Bare tokens must be plain integers.
func ParseSize(token string) (int64, error) {
	s := strings.TrimSpace(token)
	if s == "" {
		return 0, fmt.Errorf("%w: empty token", ErrMalformedSize)
	}

	var unit int64
	switch s[len(s)-1] {
	case 'k', 'K':
		unit = 1000
	case 'm', 'M':
		unit = 1000000
	case 'g', 'G':
		unit = 1000000000
	}

	if unit == 0 {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedSize, token)
		}
		return n, nil
	}

	mantissa, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedSize, token)
	}

	return int64(mantissa) * unit, nil
}
