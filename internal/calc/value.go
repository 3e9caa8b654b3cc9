package calc

import "exactcalc/internal/rational"

// Value is a stack entry: a number or a macro (bracketed program text).
type Value struct {
	Num   rational.Rational `msgpack:"num"`
	Text  string            `msgpack:"text,omitempty"`
	Macro bool              `msgpack:"macro,omitempty"`
}

// Number wraps r.
func Number(r rational.Rational) Value { return Value{Num: r} }

// MacroValue wraps program text.
func MacroValue(text string) Value { return Value{Text: text, Macro: true} }

func (v Value) String() string {
	if v.Macro {
		return "[" + v.Text + "]"
	}
	return v.Num.String()
}

// Equal compares kind and content.
func (v Value) Equal(o Value) bool {
	if v.Macro || o.Macro {
		return v.Macro == o.Macro && v.Text == o.Text
	}
	return v.Num.Equal(o.Num)
}
