package rational

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"exactcalc/internal/bignum"
)

var (
	_ msgpack.CustomEncoder = Rational{}
	_ msgpack.CustomDecoder = (*Rational)(nil)
)

// Parse reads "n", "n/d" or a decimal literal "[-]i.f". Every integer part
// follows bignum.Parse. A zero denominator is ErrDivisionByZero.
func Parse(s string) (Rational, error) {
	if numStr, denStr, ok := strings.Cut(s, "/"); ok {
		num, err := bignum.Parse(numStr)
		if err != nil {
			return Rational{}, fmt.Errorf("%w: %q", ErrParse, s)
		}
		den, err := bignum.Parse(denStr)
		if err != nil {
			return Rational{}, fmt.Errorf("%w: %q", ErrParse, s)
		}
		return New(num, den)
	}
	if intStr, fracStr, ok := strings.Cut(s, "."); ok {
		if fracStr == "" || strings.TrimPrefix(intStr, "-") == "" || strings.HasPrefix(fracStr, "-") {
			return Rational{}, fmt.Errorf("%w: %q", ErrParse, s)
		}
		num, err := bignum.Parse(intStr + fracStr)
		if err != nil {
			return Rational{}, fmt.Errorf("%w: %q", ErrParse, s)
		}
		return normalize(num, bignum.Pow10(len(fracStr))), nil
	}
	n, err := bignum.Parse(s)
	if err != nil {
		return Rational{}, fmt.Errorf("%w: %q", ErrParse, s)
	}
	return FromBigInt(n), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// MarshalText implements encoding.TextMarshaler.
func (x Rational) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Rational) UnmarshalText(text []byte) error {
	r, err := Parse(string(text))
	if err != nil {
		return err
	}
	*x = r
	return nil
}

// EncodeMsgpack writes the value as a two-element array [num, den].
func (x Rational) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.Encode(x.num); err != nil {
		return err
	}
	return enc.Encode(x.Den())
}

// DecodeMsgpack implements msgpack.CustomDecoder. The decoded pair is
// re-normalized, so a hand-written payload cannot break the invariants.
func (x *Rational) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return fmt.Errorf("rational: decode: %w", err)
	}
	if n != 2 {
		return fmt.Errorf("rational: decode: %w: array of %d elements", ErrParse, n)
	}
	var num, den bignum.BigInt
	if err := dec.Decode(&num); err != nil {
		return fmt.Errorf("rational: decode numerator: %w", err)
	}
	if err := dec.Decode(&den); err != nil {
		return fmt.Errorf("rational: decode denominator: %w", err)
	}
	r, err := New(num, den)
	if err != nil {
		return fmt.Errorf("rational: decode: %w", err)
	}
	*x = r
	return nil
}

// IsParseError reports whether err came from malformed input.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse) || errors.Is(err, bignum.ErrParse)
}
