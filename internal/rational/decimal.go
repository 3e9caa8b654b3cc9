package rational

import (
	"strconv"
	"strings"

	"exactcalc/internal/bignum"
)

// FloatDigits is the number of fractional digits Float64 renders before
// parsing.
const FloatDigits = 15

// String renders "num" when the denominator is 1 and "num/den" otherwise.
func (x Rational) String() string {
	if x.IsInt() || x.IsZero() {
		return x.num.String()
	}
	return x.num.String() + "/" + x.Den().String()
}

// AsDecimal renders x as a decimal with exactly precision fractional digits.
// Digits past the last one are truncated, not rounded. The fractional part is
// produced by long division one decimal digit at a time, so a non-terminating
// fraction still stops after precision digits.
//
// A precision of zero prints the truncated integer part without a point.
func (x Rational) AsDecimal(precision int) string {
	var sb strings.Builder
	if x.num.IsNeg() {
		sb.WriteByte('-')
	}
	den := x.Den()
	intPart, rest, err := bignum.DivMod(x.num.Abs(), den)
	if err != nil {
		panic(err)
	}
	sb.WriteString(intPart.String())
	if precision <= 0 {
		return sb.String()
	}
	sb.WriteByte('.')
	ten := bignum.Lit(10)
	for range precision {
		var digit bignum.BigInt
		digit, rest, err = bignum.DivMod(bignum.Mul(rest, ten), den)
		if err != nil {
			panic(err)
		}
		sb.WriteString(digit.String())
	}
	return sb.String()
}

// Float64 returns an approximation of x obtained by parsing
// AsDecimal(FloatDigits). This is not a correctly rounded conversion: digits
// beyond the fifteenth fractional place are dropped first, and magnitudes
// outside the float64 range yield ±Inf.
func (x Rational) Float64() float64 {
	// The rendering is always well formed; a range error still yields ±Inf.
	f, _ := strconv.ParseFloat(x.AsDecimal(FloatDigits), 64) //nolint:errcheck
	return f
}
