package bignum

import (
	"errors"
	"math/bits"
)

// Base is the radix of a single limb.
const Base = 1_000_000_000

// LimbDigits is the number of decimal digits stored in one limb.
const LimbDigits = 9

var (
	// ErrDivisionByZero indicates an attempt to divide by zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrParse indicates a malformed decimal string.
	ErrParse = errors.New("invalid decimal integer")
	// ErrOutOfRangeDigit is the panic payload for a broken limb invariant.
	// It is never returned from an operation.
	ErrOutOfRangeDigit = errors.New("limb out of range")
)

// BigInt represents an arbitrary-precision signed integer.
//
// The zero value is a valid zero. Limb slices are never mutated after an
// operation returns, so values may be copied and shared freely.
type BigInt struct {
	neg bool
	// limbs are base-10^9 little-endian (limbs[0] is least significant).
	//
	// Canonical zero is a single zero limb with neg=false.
	limbs []uint32
}

// Zero returns a zero BigInt.
func Zero() BigInt { return BigInt{limbs: []uint32{0}} }

// One returns the BigInt 1.
func One() BigInt { return BigInt{limbs: []uint32{1}} }

// FromUint64 creates a BigInt from a uint64.
func FromUint64(v uint64) BigInt {
	return BigInt{limbs: magFromUint64(v)}
}

// FromInt64 creates a BigInt from an int64.
func FromInt64(v int64) BigInt {
	if v >= 0 {
		return BigInt{limbs: magFromUint64(uint64(v))}
	}
	u := uint64(-(v + 1)) //nolint:gosec // G115: -(v+1) is non-negative and fits in uint64 here.
	u++
	return BigInt{neg: true, limbs: magFromUint64(u)}
}

// FromInt creates a BigInt from an int.
func FromInt(v int) BigInt { return FromInt64(int64(v)) }

// Lit is the literal constructor: Lit(42) reads like a constant at call sites.
func Lit(v uint64) BigInt { return FromUint64(v) }

func magFromUint64(v uint64) []uint32 {
	if v == 0 {
		return []uint32{0}
	}
	out := make([]uint32, 0, 3)
	for v > 0 {
		out = append(out, toLimb(v%Base))
		v /= Base
	}
	return out
}

// IsZero reports whether the integer is zero.
func (x BigInt) IsZero() bool {
	return isZeroMag(x.limbs)
}

// Sign returns -1, 0 or +1.
func (x BigInt) Sign() int {
	switch {
	case x.IsZero():
		return 0
	case x.neg:
		return -1
	default:
		return 1
	}
}

// IsNeg reports whether x < 0.
func (x BigInt) IsNeg() bool { return x.neg && !x.IsZero() }

// Neg returns -x.
func (x BigInt) Neg() BigInt {
	if x.IsZero() {
		return Zero()
	}
	return BigInt{neg: !x.neg, limbs: x.limbs}
}

// Abs returns |x|.
func (x BigInt) Abs() BigInt {
	return BigInt{limbs: x.mag()}
}

// Limbs returns a copy of the base-10^9 little-endian magnitude.
func (x BigInt) Limbs() []uint32 {
	m := x.mag()
	out := make([]uint32, len(m))
	copy(out, m)
	return out
}

// Cmp compares two BigInt values and returns -1, 0, or 1.
func (x BigInt) Cmp(y BigInt) int {
	xs, ys := x.Sign(), y.Sign()
	// Zero is canonically positive, so the sign test orders it correctly.
	if xs < 0 && ys >= 0 {
		return -1
	}
	if xs >= 0 && ys < 0 {
		return 1
	}
	cmp := cmpMag(x.mag(), y.mag())
	if xs < 0 {
		return -cmp
	}
	return cmp
}

// Equal reports whether x and y have identical sign and limbs.
func (x BigInt) Equal(y BigInt) bool {
	if x.IsNeg() != y.IsNeg() {
		return false
	}
	return cmpMag(x.mag(), y.mag()) == 0
}

// Uint64 converts |x| to uint64 if it fits.
func (x BigInt) Uint64() (uint64, bool) {
	m := x.mag()
	var v uint64
	for i := len(m) - 1; i >= 0; i-- {
		hi, lo := bits.Mul64(v, Base)
		if hi != 0 {
			return 0, false
		}
		sum, carry := bits.Add64(lo, uint64(m[i]), 0)
		if carry != 0 {
			return 0, false
		}
		v = sum
	}
	return v, true
}

// Int64 converts BigInt to int64 if possible.
func (x BigInt) Int64() (int64, bool) {
	mag, ok := x.Uint64()
	if !ok {
		return 0, false
	}
	if !x.IsNeg() {
		if mag > uint64(^uint64(0)>>1) {
			return 0, false
		}
		return int64(mag), true
	}
	// Negative: allow magnitude up to 2^63.
	if mag > uint64(^uint64(0)>>1)+1 {
		return 0, false
	}
	if mag == uint64(^uint64(0)>>1)+1 {
		return -1 << 63, true
	}
	return -int64(mag), true //nolint:gosec // G115: mag < 2^63 checked above.
}

// mag returns the magnitude limbs, mapping the Go zero value to canonical zero.
func (x BigInt) mag() []uint32 {
	if len(x.limbs) == 0 {
		return []uint32{0}
	}
	return x.limbs
}

// newInt builds a canonical BigInt from a freshly allocated magnitude.
func newInt(neg bool, limbs []uint32) BigInt {
	limbs = trimLimbs(limbs)
	if isZeroMag(limbs) {
		neg = false
	}
	return mustCanonical(BigInt{neg: neg, limbs: limbs})
}
