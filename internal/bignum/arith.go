package bignum

// Add returns a + b.
func Add(a, b BigInt) BigInt {
	if a.IsNeg() == b.IsNeg() {
		return newInt(a.IsNeg(), addMag(a.mag(), b.mag()))
	}
	diff, flipped := diffMag(a.mag(), b.mag())
	neg := a.IsNeg()
	if flipped {
		neg = !neg
	}
	return newInt(neg, diff)
}

// Sub returns a - b.
func Sub(a, b BigInt) BigInt {
	return Add(a, b.Neg())
}

// Mul returns a * b.
func Mul(a, b BigInt) BigInt {
	return newInt(a.IsNeg() != b.IsNeg(), mulMag(a.mag(), b.mag()))
}

// AddAssign sets z = z + x.
func (z *BigInt) AddAssign(x BigInt) { *z = Add(*z, x) }

// SubAssign sets z = z - x.
func (z *BigInt) SubAssign(x BigInt) { *z = Sub(*z, x) }

// MulAssign sets z = z * x.
func (z *BigInt) MulAssign(x BigInt) { *z = Mul(*z, x) }

// Inc adds one to z.
func (z *BigInt) Inc() { z.AddAssign(One()) }

// Dec subtracts one from z.
func (z *BigInt) Dec() { z.SubAssign(One()) }

// Pow returns x**n for n >= 0 by repeated squaring.
func Pow(x BigInt, n uint64) BigInt {
	result := One()
	base := x
	for n > 0 {
		if n&1 == 1 {
			result = Mul(result, base)
		}
		n >>= 1
		if n == 0 {
			break
		}
		base = Mul(base, base)
	}
	return result
}

// Pow10 returns 10**n.
func Pow10(n int) BigInt {
	if n < 0 {
		return Zero()
	}
	limbs := make([]uint32, n/LimbDigits+1)
	top := uint32(1)
	for range n % LimbDigits {
		top *= 10
	}
	limbs[len(limbs)-1] = top
	return newInt(false, limbs)
}
