package bignum

// GCD returns the greatest common divisor of |a| and |b| using the Euclidean
// algorithm. The result is non-negative; GCD(0, 0) is 0.
//
// a and b are passed by value and never modified.
func GCD(a, b BigInt) BigInt {
	x := a.Abs()
	y := b.Abs()
	for !y.IsZero() {
		_, r := divModMag(x.mag(), y.mag())
		x, y = y, newInt(false, r)
	}
	return x
}
