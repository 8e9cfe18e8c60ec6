package collectible

import (
	"fmt"
	"math/big"
	"strings"
)

// SecondsPerHour converts auction durations entered in hours.
const SecondsPerHour = 3600

// ParseUint parses a decimal unsigned integer call argument.
func ParseUint(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("%q is not an integer: %w", s, ErrInvalidInput)
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("%q is negative: %w", s, ErrInvalidInput)
	}
	return n, nil
}

// HoursToSeconds converts a decimal number of hours to whole seconds. Fractional
// hours are accepted as long as they amount to a whole number of seconds.
func HoursToSeconds(hours string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(hours))
	if !ok {
		return nil, fmt.Errorf("%q is not a number: %w", hours, ErrInvalidInput)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("%q is negative: %w", hours, ErrInvalidInput)
	}
	r.Mul(r, big.NewRat(SecondsPerHour, 1))
	if !r.IsInt() {
		return nil, fmt.Errorf("%q hours is not a whole number of seconds: %w", hours, ErrInvalidInput)
	}
	return new(big.Int).Set(r.Num()), nil
}
