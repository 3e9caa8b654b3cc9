package bignum

import (
	"fmt"

	"fortio.org/safecast"
)

// toLimb narrows an intermediate cell value to a limb. A value outside
// [0, Base) means the carry/borrow logic is broken.
func toLimb[T int64 | uint64](v T) uint32 {
	limb, err := safecast.Conv[uint32](v)
	if err != nil || limb >= Base {
		panic(fmt.Errorf("%w: %d", ErrOutOfRangeDigit, v))
	}
	return limb
}

// mustCanonical panics unless x satisfies the representation invariants:
// at least one limb, every limb below Base, no high-order zero limbs and
// no negative zero.
func mustCanonical(x BigInt) BigInt {
	if len(x.limbs) == 0 {
		panic(fmt.Errorf("%w: empty limbs", ErrOutOfRangeDigit))
	}
	for i, limb := range x.limbs {
		if limb >= Base {
			panic(fmt.Errorf("%w: limb %d = %d", ErrOutOfRangeDigit, i, limb))
		}
	}
	if len(x.limbs) > 1 && x.limbs[len(x.limbs)-1] == 0 {
		panic(fmt.Errorf("%w: high-order zero limb", ErrOutOfRangeDigit))
	}
	if x.neg && isZeroMag(x.limbs) {
		panic(fmt.Errorf("%w: negative zero", ErrOutOfRangeDigit))
	}
	return x
}

func trimLimbs(limbs []uint32) []uint32 {
	for len(limbs) > 1 && limbs[len(limbs)-1] == 0 {
		limbs = limbs[:len(limbs)-1]
	}
	if len(limbs) == 0 {
		return []uint32{0}
	}
	return limbs
}

func isZeroMag(limbs []uint32) bool {
	for _, limb := range limbs {
		if limb != 0 {
			return false
		}
	}
	return true
}

func limbAt(limbs []uint32, i int) uint32 {
	if i < len(limbs) {
		return limbs[i]
	}
	return 0
}

func cmpMag(a, b []uint32) int {
	a = trimLimbs(a)
	b = trimLimbs(b)
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// addMag returns a + b with carry propagation.
func addMag(a, b []uint32) []uint32 {
	n := max(len(a), len(b))
	out := make([]uint32, n+1)
	var carry uint32
	for i := range n {
		sum := limbAt(a, i) + limbAt(b, i) + carry
		carry = 0
		if sum >= Base {
			sum -= Base
			carry = 1
		}
		out[i] = sum
	}
	out[n] = carry
	return trimLimbs(out)
}

// diffMag returns |a - b| and whether a < b.
//
// The limbs are subtracted pairwise and borrows propagated upward; if the top
// cell ends up negative the whole difference is negated and borrows are
// propagated again.
func diffMag(a, b []uint32) ([]uint32, bool) {
	n := max(len(a), len(b))
	cells := make([]int64, n)
	for i := range n {
		cells[i] = int64(limbAt(a, i)) - int64(limbAt(b, i))
	}
	propagateBorrow(cells)
	negative := cells[n-1] < 0
	if negative {
		for i := range cells {
			cells[i] = -cells[i]
		}
		propagateBorrow(cells)
	}
	out := make([]uint32, n)
	for i, c := range cells {
		out[i] = toLimb(c)
	}
	return trimLimbs(out), negative
}

func propagateBorrow(cells []int64) {
	for i := 0; i < len(cells)-1; i++ {
		if cells[i] < 0 {
			cells[i] += Base
			cells[i+1]--
		}
	}
}

// subMag returns a - b; the caller guarantees a >= b.
func subMag(a, b []uint32) []uint32 {
	out, negative := diffMag(a, b)
	if negative {
		panic(fmt.Errorf("%w: magnitude underflow", ErrOutOfRangeDigit))
	}
	return out
}

// mulMag is schoolbook multiplication. Each partial product is split into its
// low and high limb before accumulation so a cell never overflows uint64.
func mulMag(a, b []uint32) []uint32 {
	if isZeroMag(a) || isZeroMag(b) {
		return []uint32{0}
	}
	cells := make([]uint64, len(a)+len(b)+1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			p := uint64(av) * uint64(bv)
			cells[i+j] += p % Base
			cells[i+j+1] += p / Base
		}
	}
	out := make([]uint32, len(cells))
	var carry uint64
	for i, c := range cells {
		c += carry
		out[i] = toLimb(c % Base)
		carry = c / Base
	}
	if carry != 0 {
		panic(fmt.Errorf("%w: product carry %d", ErrOutOfRangeDigit, carry))
	}
	return trimLimbs(out)
}

// mulSmallMag multiplies a magnitude by a single limb-sized factor.
func mulSmallMag(a []uint32, m uint32) []uint32 {
	if m == 0 || isZeroMag(a) {
		return []uint32{0}
	}
	out := make([]uint32, len(a)+1)
	var carry uint64
	for i, av := range a {
		p := uint64(av)*uint64(m) + carry
		out[i] = toLimb(p % Base)
		carry = p / Base
	}
	out[len(a)] = toLimb(carry)
	return trimLimbs(out)
}

// addSmallMag adds a single limb-sized value to a magnitude.
func addSmallMag(a []uint32, v uint32) []uint32 {
	return addMag(a, []uint32{v})
}
