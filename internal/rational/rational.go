// Package rational implements exact fractions over bignum.BigInt.
//
// A Rational is always kept in lowest terms with a positive denominator; zero
// is 0/1. The zero value of Rational is a valid zero.
package rational

import (
	"errors"

	"exactcalc/internal/bignum"
)

var (
	// ErrDivisionByZero is returned for a zero denominator or divisor.
	ErrDivisionByZero = bignum.ErrDivisionByZero
	// ErrParse indicates a malformed rational literal.
	ErrParse = errors.New("invalid rational")
)

// Rational is an exact fraction num/den.
type Rational struct {
	num bignum.BigInt
	// den is positive; the zero BigInt stands for 1 so that Rational{} is 0/1.
	den bignum.BigInt
}

// Zero returns 0/1.
func Zero() Rational { return Rational{num: bignum.Zero(), den: bignum.One()} }

// One returns 1/1.
func One() Rational { return Rational{num: bignum.One(), den: bignum.One()} }

// FromBigInt returns n/1.
func FromBigInt(n bignum.BigInt) Rational {
	return Rational{num: n, den: bignum.One()}
}

// FromInt64 returns v/1.
func FromInt64(v int64) Rational { return FromBigInt(bignum.FromInt64(v)) }

// FromInt returns v/1.
func FromInt(v int) Rational { return FromInt64(int64(v)) }

// New returns num/den in lowest terms with a positive denominator.
func New(num, den bignum.BigInt) (Rational, error) {
	if den.IsZero() {
		return Rational{}, ErrDivisionByZero
	}
	return normalize(num, den), nil
}

// MustNew is like New but panics on a zero denominator.
func MustNew(num, den bignum.BigInt) Rational {
	r, err := New(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

// NewInt64 is New for machine integers.
func NewInt64(num, den int64) (Rational, error) {
	return New(bignum.FromInt64(num), bignum.FromInt64(den))
}

// normalize moves the sign into the numerator and divides both parts by
// their gcd. den must be non-zero.
func normalize(num, den bignum.BigInt) Rational {
	if den.IsNeg() {
		num = num.Neg()
		den = den.Neg()
	}
	if num.IsZero() {
		return Zero()
	}
	g := bignum.GCD(num, den)
	if !g.Equal(bignum.One()) {
		num = mustDiv(num, g)
		den = mustDiv(den, g)
	}
	return Rational{num: num, den: den}
}

// mustDiv divides by a value known to be a non-zero divisor.
func mustDiv(a, b bignum.BigInt) bignum.BigInt {
	q, err := bignum.Div(a, b)
	if err != nil {
		panic(err)
	}
	return q
}

// Num returns the numerator.
func (x Rational) Num() bignum.BigInt { return x.num }

// Den returns the (positive) denominator.
func (x Rational) Den() bignum.BigInt {
	if x.den.IsZero() {
		return bignum.One()
	}
	return x.den
}

// Sign returns -1, 0 or +1.
func (x Rational) Sign() int { return x.num.Sign() }

// IsZero reports whether x == 0.
func (x Rational) IsZero() bool { return x.num.IsZero() }

// IsInt reports whether the denominator is 1.
func (x Rational) IsInt() bool { return x.Den().Equal(bignum.One()) }

// Neg returns -x.
func (x Rational) Neg() Rational {
	return Rational{num: x.num.Neg(), den: x.Den()}
}

// Abs returns |x|.
func (x Rational) Abs() Rational {
	return Rational{num: x.num.Abs(), den: x.Den()}
}

// Inv returns 1/x.
func (x Rational) Inv() (Rational, error) {
	if x.IsZero() {
		return Rational{}, ErrDivisionByZero
	}
	return normalize(x.Den(), x.num), nil
}

// Trunc returns the integer part of x, rounded toward zero.
func (x Rational) Trunc() bignum.BigInt {
	return mustDiv(x.num, x.Den())
}

// Add returns x + y.
func (x Rational) Add(y Rational) Rational {
	num := bignum.Add(bignum.Mul(x.num, y.Den()), bignum.Mul(y.num, x.Den()))
	return normalize(num, bignum.Mul(x.Den(), y.Den()))
}

// Sub returns x - y.
func (x Rational) Sub(y Rational) Rational {
	return x.Add(y.Neg())
}

// Mul returns x * y. Cross terms are reduced first to keep the intermediate
// products small.
func (x Rational) Mul(y Rational) Rational {
	if x.IsZero() || y.IsZero() {
		return Zero()
	}
	g1 := bignum.GCD(x.num, y.Den())
	g2 := bignum.GCD(y.num, x.Den())
	num := bignum.Mul(mustDiv(x.num, g1), mustDiv(y.num, g2))
	den := bignum.Mul(mustDiv(x.Den(), g2), mustDiv(y.Den(), g1))
	return normalize(num, den)
}

// Quo returns x / y.
func (x Rational) Quo(y Rational) (Rational, error) {
	inv, err := y.Inv()
	if err != nil {
		return Rational{}, err
	}
	return x.Mul(inv), nil
}

// AddAssign sets z = z + x.
func (z *Rational) AddAssign(x Rational) { *z = z.Add(x) }

// SubAssign sets z = z - x.
func (z *Rational) SubAssign(x Rational) { *z = z.Sub(x) }

// MulAssign sets z = z * x.
func (z *Rational) MulAssign(x Rational) { *z = z.Mul(x) }

// QuoAssign sets z = z / x. On error z is left unchanged.
func (z *Rational) QuoAssign(x Rational) error {
	q, err := z.Quo(x)
	if err != nil {
		return err
	}
	*z = q
	return nil
}

// Cmp compares x and y and returns -1, 0, or 1.
func (x Rational) Cmp(y Rational) int {
	xs, ys := x.Sign(), y.Sign()
	if xs != ys {
		if xs < ys {
			return -1
		}
		return 1
	}
	return bignum.Mul(x.num, y.Den()).Cmp(bignum.Mul(y.num, x.Den()))
}

// Equal reports whether x == y. Both sides are reduced, so this is a
// component-wise comparison.
func (x Rational) Equal(y Rational) bool {
	return x.num.Equal(y.num) && x.Den().Equal(y.Den())
}
