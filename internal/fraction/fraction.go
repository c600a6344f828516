// Package fraction converts US Treasury prices between decimal values and
// handle notation ("99-16+", "100-027").
//
// A handle price is written as N-FFx where N is the integer handle, FF is the
// number of 32nds (00-31) and x is the number of 256ths within that 32nd
// (0-7). The character '+' stands for 4/256, i.e. half a 32nd.
package fraction

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidHandle is returned when a string is not valid handle notation.
var ErrInvalidHandle = errors.New("invalid handle price")

// Tick is the smallest representable price increment (1/256).
const Tick = 1.0 / 256.0

// Parse converts a handle price into its decimal value. The trailing eighth
// may be omitted, in which case it is taken as zero.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	handle, frac, ok := strings.Cut(s, "-")
	if !ok || handle == "" {
		return 0, fmt.Errorf("fraction: %q: %w", s, ErrInvalidHandle)
	}

	whole, err := strconv.Atoi(handle)
	if err != nil || whole < 0 {
		return 0, fmt.Errorf("fraction: %q: %w", s, ErrInvalidHandle)
	}

	if len(frac) != 2 && len(frac) != 3 {
		return 0, fmt.Errorf("fraction: %q: %w", s, ErrInvalidHandle)
	}

	x32, err := strconv.Atoi(frac[:2])
	if err != nil || x32 < 0 || x32 > 31 {
		return 0, fmt.Errorf("fraction: %q: 32nds out of range: %w", s, ErrInvalidHandle)
	}

	x256 := 0
	if len(frac) == 3 {
		switch c := frac[2]; {
		case c == '+':
			x256 = 4
		case c >= '0' && c <= '7':
			x256 = int(c - '0')
		default:
			return 0, fmt.Errorf("fraction: %q: eighth out of range: %w", s, ErrInvalidHandle)
		}
	}

	return float64(whole) + float64(x32)/32.0 + float64(x256)/256.0, nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// constants and tests.
func MustParse(s string) float64 {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Format renders a decimal price in handle notation, truncating anything
// finer than 1/256. Negative values are formatted by magnitude with a
// leading minus sign.
func Format(price float64) string {
	sign := ""
	if price < 0 {
		sign = "-"
		price = -price
	}

	whole := math.Floor(price)
	// Nudge before truncation so values like 99.99999999 land on the tick.
	ticks := int(math.Floor((price-whole)*256 + 1e-9))
	if ticks >= 256 {
		whole++
		ticks -= 256
	}

	x32 := ticks / 8
	x256 := ticks % 8

	eighth := strconv.Itoa(x256)
	if x256 == 4 {
		eighth = "+"
	}

	return fmt.Sprintf("%s%d-%02d%s", sign, int64(whole), x32, eighth)
}
