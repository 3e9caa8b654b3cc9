package bignum

// largestMultiple returns the largest m in [0, limit) with m*divisor <= value,
// found by binary search on m. It returns -1 when no such m exists, which
// only happens for a negative value and a non-negative divisor.
func largestMultiple(value, divisor BigInt, limit int) int {
	lo, hi := -1, limit
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if Mul(divisor, FromInt(mid)).Cmp(value) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// divModMag performs long division one decimal digit at a time, from the most
// significant digit of the dividend. The running remainder is shifted up by a
// digit, the next quotient digit is the largest multiple of the divisor that
// fits, and that multiple is subtracted.
func divModMag(a, b []uint32) (q, r []uint32) {
	if cmpMag(a, b) < 0 {
		return []uint32{0}, a
	}
	digits := formatMag(a)
	divisor := BigInt{limbs: b}
	// The quotient digits for a prefix shorter than the divisor are all zero,
	// so that prefix seeds the remainder directly.
	start := len(formatMag(b)) - 1
	quot := make([]byte, 0, len(digits)-start)
	rest := magFromDigits([]byte(digits[:start]))
	for i := start; i < len(digits); i++ {
		rest = addSmallMag(mulSmallMag(rest, 10), uint32(digits[i]-'0'))
		m := largestMultiple(BigInt{limbs: rest}, divisor, 10)
		if m > 0 {
			rest = subMag(rest, mulSmallMag(b, uint32(m))) //nolint:gosec // G115: m is in [1, 9].
		}
		quot = append(quot, byte('0'+m))
	}
	return magFromDigits(quot), rest
}

// DivMod performs truncating division: q rounds toward zero and r carries the
// sign of a, so that a == q*b + r.
func DivMod(a, b BigInt) (q, r BigInt, err error) {
	if b.IsZero() {
		return BigInt{}, BigInt{}, ErrDivisionByZero
	}
	qMag, rMag := divModMag(a.mag(), b.mag())
	return newInt(a.IsNeg() != b.IsNeg(), qMag), newInt(a.IsNeg(), rMag), nil
}

// Div returns the truncated quotient a / b.
func Div(a, b BigInt) (BigInt, error) {
	q, _, err := DivMod(a, b)
	return q, err
}

// Mod returns a - (a/b)*b.
func Mod(a, b BigInt) (BigInt, error) {
	_, r, err := DivMod(a, b)
	return r, err
}

// DivAssign sets z = z / x. On error z is left unchanged.
func (z *BigInt) DivAssign(x BigInt) error {
	q, err := Div(*z, x)
	if err != nil {
		return err
	}
	*z = q
	return nil
}

// ModAssign sets z = z % x. On error z is left unchanged.
func (z *BigInt) ModAssign(x BigInt) error {
	r, err := Mod(*z, x)
	if err != nil {
		return err
	}
	*z = r
	return nil
}

// Sqrt returns floor(sqrt(x)) for x >= 0, computed digit by digit with the
// same estimation primitive as division.
func Sqrt(x BigInt) (BigInt, bool) {
	if x.IsNeg() {
		return BigInt{}, false
	}
	digits := formatMag(x.mag())
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	root := Zero()
	rest := Zero()
	for i := 0; i < len(digits); i += 2 {
		pair := FromInt(int(digits[i]-'0')*10 + int(digits[i+1]-'0'))
		rest = Add(Mul(rest, Lit(100)), pair)
		// Find the largest d with (20*root + d)*d <= rest.
		base := Mul(root, Lit(20))
		d := 9
		for d > 0 && Mul(Add(base, FromInt(d)), FromInt(d)).Cmp(rest) > 0 {
			d--
		}
		rest = Sub(rest, Mul(Add(base, FromInt(d)), FromInt(d)))
		root = Add(Mul(root, Lit(10)), FromInt(d))
	}
	return root, true
}
