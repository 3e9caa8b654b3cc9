package bignum

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = BigInt{}
	_ msgpack.CustomDecoder = (*BigInt)(nil)
)

// MarshalText implements encoding.TextMarshaler.
func (x BigInt) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Digit separators are
// accepted as in ParseLiteral.
func (x *BigInt) UnmarshalText(text []byte) error {
	v, err := ParseLiteral(string(text))
	if err != nil {
		return err
	}
	*x = v
	return nil
}

// EncodeMsgpack stores the value as its decimal string so the payload does
// not depend on the limb radix.
func (x BigInt) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(x.String())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (x *BigInt) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return fmt.Errorf("bignum: decode: %w", err)
	}
	v, err := Parse(s)
	if err != nil {
		return fmt.Errorf("bignum: decode: %w", err)
	}
	*x = v
	return nil
}
