package bignum

import (
	"fmt"
	"strings"
)

// String renders x in decimal: an optional '-', the most significant limb
// without padding, then each remaining limb zero-padded to nine digits.
func (x BigInt) String() string {
	s := formatMag(x.mag())
	if x.IsNeg() {
		return "-" + s
	}
	return s
}

func formatMag(limbs []uint32) string {
	limbs = trimLimbs(limbs)
	var sb strings.Builder
	sb.Grow(len(limbs) * LimbDigits)
	sb.WriteString(fmt.Sprintf("%d", limbs[len(limbs)-1]))
	for i := len(limbs) - 2; i >= 0; i-- {
		sb.WriteString(fmt.Sprintf("%09d", limbs[i]))
	}
	return sb.String()
}

// DigitCount returns the number of decimal digits in |x| (1 for zero).
func (x BigInt) DigitCount() int {
	m := x.mag()
	top := m[len(m)-1]
	n := 1
	for top >= 10 {
		top /= 10
		n++
	}
	return (len(m)-1)*LimbDigits + n
}
