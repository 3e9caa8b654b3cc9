package bignum

import (
	"fmt"
	"strings"
)

// Parse reads a decimal integer: an optional leading '-' followed by one or
// more ASCII digits. A leading '+', whitespace or any other character is an
// error.
func Parse(s string) (BigInt, error) {
	neg := false
	digits := s
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}
	if digits == "" {
		return BigInt{}, fmt.Errorf("%w: %q", ErrParse, s)
	}
	for i := range len(digits) {
		if digits[i] < '0' || digits[i] > '9' {
			return BigInt{}, fmt.Errorf("%w: %q", ErrParse, s)
		}
	}
	return newInt(neg, magFromDigits([]byte(digits))), nil
}

// ParseLiteral is like Parse but also accepts '_' between digits, as in Go
// integer literals ("1_000_000").
func ParseLiteral(s string) (BigInt, error) {
	if strings.IndexByte(s, '_') < 0 {
		return Parse(s)
	}
	body := strings.TrimPrefix(s, "-")
	if strings.HasPrefix(body, "_") || strings.HasSuffix(body, "_") || strings.Contains(body, "__") {
		return BigInt{}, fmt.Errorf("%w: misplaced '_' in %q", ErrParse, s)
	}
	v, err := Parse(strings.ReplaceAll(s, "_", ""))
	if err != nil {
		return BigInt{}, fmt.Errorf("%w: %q", ErrParse, s)
	}
	return v, nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// constants.
func MustParse(s string) BigInt {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// magFromDigits groups ASCII decimal digits into 9-digit limbs, starting from
// the least significant end.
func magFromDigits(digits []byte) []uint32 {
	out := make([]uint32, 0, len(digits)/LimbDigits+1)
	for end := len(digits); end > 0; end -= LimbDigits {
		start := max(end-LimbDigits, 0)
		var limb uint32
		for _, ch := range digits[start:end] {
			limb = limb*10 + uint32(ch-'0')
		}
		out = append(out, limb)
	}
	return trimLimbs(out)
}
