package bignum

import (
	"errors"
	"math"
	"math/big"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func randDecimal(r *rand.Rand, maxDigits int) string {
	n := 1 + r.IntN(maxDigits)
	var sb strings.Builder
	if r.IntN(2) == 0 {
		sb.WriteByte('-')
	}
	sb.WriteByte(byte('1' + r.IntN(9)))
	for range n - 1 {
		sb.WriteByte(byte('0' + r.IntN(10)))
	}
	return sb.String()
}

func oracle(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("oracle cannot parse %q", s)
	}
	return v
}

func TestSpecScenarios(t *testing.T) {
	cases := []struct {
		name string
		got  BigInt
		want string
	}{
		{"carry across limb", Add(MustParse("999999999"), MustParse("1")), "1000000000"},
		{"borrow across limb", Sub(MustParse("1000000000"), MustParse("1")), "999999999"},
		{"multi-limb product", Mul(MustParse("123456789123456789"), MustParse("2")), "246913578246913578"},
		{"gcd", GCD(MustParse("48"), MustParse("18")), "6"},
		{"negative plus positive", Add(MustParse("-5"), MustParse("3")), "-2"},
		{"sign flip across limbs", Add(MustParse("1"), MustParse("-1000000000000000000")), "-999999999999999999"},
		{"cancel to zero", Add(MustParse("-123456789012"), MustParse("123456789012")), "0"},
		{"product sign", Mul(MustParse("-3"), MustParse("7")), "-21"},
		{"negative times zero", Mul(MustParse("-3"), Zero()), "0"},
	}
	for _, tc := range cases {
		if got := tc.got.String(); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"0", "7", "-7", "999999999", "1000000000", "-1000000000",
		"123456789012345678901234567890", "-100000000000000000000000000",
		"1000000000000000001",
	}
	for _, s := range inputs {
		v, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := v.String(); got != s {
			t.Errorf("Parse(%q).String() = %q", s, got)
		}
	}
	r := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		s := randDecimal(r, 60)
		if got := MustParse(s).String(); got != s {
			t.Fatalf("round trip %q -> %q", s, got)
		}
	}
}

func TestParseCanonicalizes(t *testing.T) {
	cases := map[string]string{
		"-0":                     "0",
		"000":                    "0",
		"0012":                   "12",
		"-000000000000000000001": "-1",
	}
	for in, want := range cases {
		v, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if v.String() != want {
			t.Errorf("Parse(%q) = %s, want %s", in, v, want)
		}
		if in == "-0" && v.IsNeg() {
			t.Errorf("Parse(-0) produced negative zero")
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "-", "+1", "1 2", " 1", "1a", "--1", "1-", "0x10", "1.5"} {
		if _, err := Parse(in); !errors.Is(err, ErrParse) {
			t.Errorf("Parse(%q) error = %v, want ErrParse", in, err)
		}
	}
}

func TestParseLiteral(t *testing.T) {
	v, err := ParseLiteral("1_000_000_000")
	if err != nil {
		t.Fatalf("ParseLiteral: %v", err)
	}
	if !v.Equal(Lit(1000000000)) {
		t.Fatalf("ParseLiteral = %s", v)
	}
	if v, err := ParseLiteral("-12_345"); err != nil || v.String() != "-12345" {
		t.Fatalf("ParseLiteral(-12_345) = %s, %v", v, err)
	}
	for _, in := range []string{"_1", "1_", "1__0", "-_1"} {
		if _, err := ParseLiteral(in); !errors.Is(err, ErrParse) {
			t.Errorf("ParseLiteral(%q) error = %v, want ErrParse", in, err)
		}
	}
}

func TestArithmeticMatchesOracle(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for range 300 {
		as, bs := randDecimal(r, 45), randDecimal(r, 30)
		a, b := MustParse(as), MustParse(bs)
		oa, ob := oracle(t, as), oracle(t, bs)

		if got, want := Add(a, b).String(), new(big.Int).Add(oa, ob).String(); got != want {
			t.Fatalf("%s + %s = %s, want %s", as, bs, got, want)
		}
		if got, want := Sub(a, b).String(), new(big.Int).Sub(oa, ob).String(); got != want {
			t.Fatalf("%s - %s = %s, want %s", as, bs, got, want)
		}
		if got, want := Mul(a, b).String(), new(big.Int).Mul(oa, ob).String(); got != want {
			t.Fatalf("%s * %s = %s, want %s", as, bs, got, want)
		}
		q, m, err := DivMod(a, b)
		if err != nil {
			t.Fatalf("DivMod(%s, %s): %v", as, bs, err)
		}
		oq, om := new(big.Int).QuoRem(oa, ob, new(big.Int))
		if q.String() != oq.String() || m.String() != om.String() {
			t.Fatalf("DivMod(%s, %s) = (%s, %s), want (%s, %s)", as, bs, q, m, oq, om)
		}
		if got, want := GCD(a, b).String(), new(big.Int).GCD(nil, nil, new(big.Int).Abs(oa), new(big.Int).Abs(ob)).String(); got != want {
			t.Fatalf("gcd(%s, %s) = %s, want %s", as, bs, got, want)
		}
	}
}

func TestAlgebraicProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for range 200 {
		a, b := MustParse(randDecimal(r, 40)), MustParse(randDecimal(r, 25))
		if got := Sub(Add(a, b), b); !got.Equal(a) {
			t.Fatalf("(a+b)-b = %s, want %s", got, a)
		}
		if got := Add(a, a.Neg()); !got.IsZero() || got.IsNeg() {
			t.Fatalf("a + (-a) = %s", got)
		}
		if got := Mul(a, Zero()); !got.Equal(Zero()) {
			t.Fatalf("a*0 = %s", got)
		}
		if got := Mul(a, One()); !got.Equal(a) {
			t.Fatalf("a*1 = %s", got)
		}
		q, m, err := DivMod(a, b)
		if err != nil {
			t.Fatal(err)
		}
		if got := Add(Mul(q, b), m); !got.Equal(a) {
			t.Fatalf("(a/b)*b + a%%b = %s, want %s", got, a)
		}
		if !m.IsZero() && m.IsNeg() != a.IsNeg() {
			t.Fatalf("sign of %s %% %s = %s does not follow dividend", a, b, m)
		}
	}
}

func TestDivModSmallCases(t *testing.T) {
	cases := []struct{ a, b, q, r string }{
		{"7", "2", "3", "1"},
		{"-7", "2", "-3", "-1"},
		{"7", "-2", "-3", "1"},
		{"-7", "-2", "3", "-1"},
		{"0", "5", "0", "0"},
		{"3", "5", "0", "3"},
		{"-3", "5", "0", "-3"},
		{"1000000000000000000", "1000000000", "1000000000", "0"},
		{"999999999999999999999", "999999999", "1000000001000", "999"},
		{"123456789123456789123456789", "987654321987", "124999998861020", "308780210049"},
	}
	for _, tc := range cases {
		q, r, err := DivMod(MustParse(tc.a), MustParse(tc.b))
		if err != nil {
			t.Fatalf("DivMod(%s, %s): %v", tc.a, tc.b, err)
		}
		if q.String() != tc.q || r.String() != tc.r {
			t.Errorf("DivMod(%s, %s) = (%s, %s), want (%s, %s)", tc.a, tc.b, q, r, tc.q, tc.r)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	if _, _, err := DivMod(Lit(5), Zero()); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("DivMod by zero error = %v", err)
	}
	if _, err := Mod(Lit(5), BigInt{}); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("Mod by zero value error = %v", err)
	}
	z := MustParse("-123456789012")
	if err := z.DivAssign(Zero()); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("DivAssign error = %v", err)
	}
	if err := z.ModAssign(Zero()); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("ModAssign error = %v", err)
	}
	if z.String() != "-123456789012" {
		t.Fatalf("receiver changed after failed division: %s", z)
	}
}

func TestCompoundOperators(t *testing.T) {
	z := Lit(10)
	z.AddAssign(Lit(5))
	z.SubAssign(Lit(20))
	z.MulAssign(FromInt(-3))
	if z.String() != "15" {
		t.Fatalf("z = %s, want 15", z)
	}
	if err := z.DivAssign(Lit(4)); err != nil || z.String() != "3" {
		t.Fatalf("z/4 = %s, %v", z, err)
	}
	if err := z.ModAssign(Lit(2)); err != nil || z.String() != "1" {
		t.Fatalf("z%%2 = %s, %v", z, err)
	}
	z.Dec()
	if !z.IsZero() || z.IsNeg() {
		t.Fatalf("z-- = %s", z)
	}
	z.Dec()
	z.Inc()
	z.Inc()
	if !z.Equal(One()) {
		t.Fatalf("z = %s, want 1", z)
	}
}

func TestCompoundDoesNotAliasOperand(t *testing.T) {
	a := MustParse("999999999999999999")
	b := a
	b.AddAssign(One())
	if a.String() != "999999999999999999" {
		t.Fatalf("copy was mutated: %s", a)
	}
	g := GCD(a, b)
	if a.String() != "999999999999999999" || !g.Equal(One()) {
		t.Fatalf("GCD mutated input or wrong result: a=%s g=%s", a, g)
	}
}

func TestCmp(t *testing.T) {
	ordered := []string{
		"-1000000000000", "-999999999", "-10", "-1", "0", "1", "9", "1000000000", "1000000000000000000000",
	}
	for i := range ordered {
		for j := range ordered {
			want := 0
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			if got := MustParse(ordered[i]).Cmp(MustParse(ordered[j])); got != want {
				t.Errorf("Cmp(%s, %s) = %d, want %d", ordered[i], ordered[j], got, want)
			}
		}
	}
	var zero BigInt
	if zero.Cmp(Zero()) != 0 || !zero.Equal(Zero()) {
		t.Fatalf("zero value does not compare equal to Zero()")
	}
}

func TestLargestMultiple(t *testing.T) {
	cases := []struct {
		value, divisor string
		limit, want    int
	}{
		{"27", "3", 10, 9},
		{"26", "3", 10, 8},
		{"2", "3", 10, 0},
		{"0", "3", 10, 0},
		{"-1", "3", 10, -1},
		{"999999999", "1", Base, Base - 1},
		{"1000000000", "1", Base, Base - 1},
		{"123456789123", "1000", Base, 123456789},
	}
	for _, tc := range cases {
		got := largestMultiple(MustParse(tc.value), MustParse(tc.divisor), tc.limit)
		if got != tc.want {
			t.Errorf("largestMultiple(%s, %s, %d) = %d, want %d", tc.value, tc.divisor, tc.limit, got, tc.want)
		}
	}
}

func TestGCDAgainstTrialDivision(t *testing.T) {
	for a := int64(-30); a <= 60; a += 7 {
		for b := int64(-45); b <= 45; b += 4 {
			want := int64(0)
			for d := int64(1); d <= max(abs64(a), abs64(b)); d++ {
				if a%d == 0 && b%d == 0 {
					want = d
				}
			}
			got := GCD(FromInt64(a), FromInt64(b))
			if v, _ := got.Int64(); v != want {
				t.Errorf("gcd(%d, %d) = %s, want %d", a, b, got, want)
			}
			if !got.IsZero() {
				ra, _ := Mod(FromInt64(a), got)
				rb, _ := Mod(FromInt64(b), got)
				if !ra.IsZero() || !rb.IsZero() {
					t.Errorf("gcd(%d, %d) = %s does not divide both", a, b, got)
				}
			}
		}
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestMachineIntegers(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 999999999, 1000000000, -1000000000, math.MaxInt64, math.MinInt64} {
		x := FromInt64(v)
		if got, ok := x.Int64(); !ok || got != v {
			t.Errorf("FromInt64(%d).Int64() = %d, %v", v, got, ok)
		}
	}
	if got := FromUint64(math.MaxUint64).String(); got != "18446744073709551615" {
		t.Errorf("FromUint64(max) = %s", got)
	}
	if _, ok := MustParse("9223372036854775808").Int64(); ok {
		t.Errorf("2^63 should not fit int64")
	}
	if v, ok := MustParse("-9223372036854775808").Int64(); !ok || v != math.MinInt64 {
		t.Errorf("-2^63 should fit int64, got %d %v", v, ok)
	}
	if _, ok := MustParse("18446744073709551616").Uint64(); ok {
		t.Errorf("2^64 should not fit uint64")
	}
}

func TestPowSqrt(t *testing.T) {
	if got := Pow(Lit(2), 100).String(); got != "1267650600228229401496703205376" {
		t.Errorf("2^100 = %s", got)
	}
	if got := Pow(FromInt(-3), 3).String(); got != "-27" {
		t.Errorf("(-3)^3 = %s", got)
	}
	if got := Pow10(20).String(); got != "100000000000000000000" {
		t.Errorf("10^20 = %s", got)
	}
	for _, tc := range []struct{ in, want string }{
		{"0", "0"}, {"1", "1"}, {"15", "3"}, {"16", "4"}, {"1000000000000000000", "1000000000"},
		{"1267650600228229401496703205376", "1125899906842624"},
	} {
		got, ok := Sqrt(MustParse(tc.in))
		if !ok || got.String() != tc.want {
			t.Errorf("Sqrt(%s) = %s, %v", tc.in, got, ok)
		}
	}
	if _, ok := Sqrt(FromInt(-4)); ok {
		t.Errorf("Sqrt(-4) should fail")
	}
}

func TestDigitCount(t *testing.T) {
	for _, s := range []string{"0", "9", "10", "999999999", "1000000000", "-123456789012345"} {
		want := len(strings.TrimPrefix(s, "-"))
		if got := MustParse(s).DigitCount(); got != want {
			t.Errorf("DigitCount(%s) = %d, want %d", s, got, want)
		}
	}
}

func TestInvariantViolationPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrOutOfRangeDigit) {
			t.Fatalf("recovered %v, want ErrOutOfRangeDigit", r)
		}
	}()
	mustCanonical(BigInt{limbs: []uint32{Base}})
}

func TestCodecs(t *testing.T) {
	values := []BigInt{Zero(), MustParse("-98765432109876543210"), Lit(42)}
	for _, v := range values {
		text, err := v.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back BigInt
		if err := back.UnmarshalText(text); err != nil || !back.Equal(v) {
			t.Fatalf("text round trip %s -> %s, %v", v, back, err)
		}

		data, err := msgpack.Marshal(v)
		if err != nil {
			t.Fatalf("msgpack.Marshal(%s): %v", v, err)
		}
		var decoded BigInt
		if err := msgpack.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("msgpack.Unmarshal: %v", err)
		}
		if !decoded.Equal(v) {
			t.Fatalf("msgpack round trip %s -> %s", v, decoded)
		}
	}
	var bad BigInt
	data, _ := msgpack.Marshal("12x")
	if err := msgpack.Unmarshal(data, &bad); !errors.Is(err, ErrParse) {
		t.Fatalf("decoding garbage error = %v", err)
	}
}
