package calc

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/mattn/go-runewidth"

	"exactcalc/internal/bignum"
	"exactcalc/internal/rational"
)

// MaxExponent bounds the magnitude of an exponent given to '^'.
const MaxExponent = 1 << 20

type command func(ctx context.Context, e *Engine, s *scanner) error

var commands map[rune]command

func init() {
	commands = map[rune]command{
		// Arithmetic
		'+': binary(func(a, b rational.Rational) ([]Value, error) {
			return values(a.Add(b)), nil
		}),
		'-': binary(func(a, b rational.Rational) ([]Value, error) {
			return values(a.Sub(b)), nil
		}),
		'*': binary(func(a, b rational.Rational) ([]Value, error) {
			return values(a.Mul(b)), nil
		}),
		'/': binary(func(a, b rational.Rational) ([]Value, error) {
			q, err := a.Quo(b)
			if err != nil {
				return nil, err
			}
			return values(q), nil
		}),
		'%': binary(func(a, b rational.Rational) ([]Value, error) {
			_, r, err := truncQuoRem(a, b)
			if err != nil {
				return nil, err
			}
			return values(r), nil
		}),
		'~': binary(func(a, b rational.Rational) ([]Value, error) {
			q, r, err := truncQuoRem(a, b)
			if err != nil {
				return nil, err
			}
			return values(q, r), nil
		}),
		'^': binary(power),
		'g': binary(func(a, b rational.Rational) ([]Value, error) {
			if !a.IsInt() || !b.IsInt() {
				return nil, fmt.Errorf("%w: gcd of %s and %s", ErrNotInteger, a, b)
			}
			return values(rational.FromBigInt(bignum.GCD(a.Num(), b.Num()))), nil
		}),
		'v': unary(func(a rational.Rational) (rational.Rational, error) {
			if !a.IsInt() {
				return rational.Rational{}, fmt.Errorf("%w: sqrt of %s", ErrNotInteger, a)
			}
			root, ok := bignum.Sqrt(a.Num())
			if !ok {
				return rational.Rational{}, ErrNegativeRoot
			}
			return rational.FromBigInt(root), nil
		}),
		'i': unary(func(a rational.Rational) (rational.Rational, error) { return a.Inv() }),

		// Stack control
		'c': func(_ context.Context, e *Engine, _ *scanner) error {
			e.stack.Clear()
			return nil
		},
		'd': func(_ context.Context, e *Engine, _ *scanner) error {
			v, err := e.stack.Peek()
			if err != nil {
				return err
			}
			e.stack.Push(v)
			return nil
		},
		'r': func(_ context.Context, e *Engine, _ *scanner) error {
			vals, err := e.stack.Top(2)
			if err != nil {
				return err
			}
			e.stack.Drop(2)
			e.stack.Push(vals[1])
			e.stack.Push(vals[0])
			return nil
		},
		'z': func(_ context.Context, e *Engine, _ *scanner) error {
			e.stack.Push(Number(rational.FromInt(e.stack.Len())))
			return nil
		},

		// Printing
		'p': func(_ context.Context, e *Engine, _ *scanner) error {
			v, err := e.stack.Peek()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.Output, e.Format(v))
			return err
		},
		'n': func(_ context.Context, e *Engine, _ *scanner) error {
			v, err := e.stack.Pop()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(e.Output, e.Format(v))
			return err
		},
		'f': func(_ context.Context, e *Engine, _ *scanner) error {
			return e.printStack()
		},

		// Parameters
		'k': func(_ context.Context, e *Engine, _ *scanner) error {
			v, err := e.stack.Peek()
			if err != nil {
				return err
			}
			p, err := precisionOf(v)
			if err != nil {
				return err
			}
			e.precision = p
			_, err = e.stack.Pop()
			return err
		},
		'K': func(_ context.Context, e *Engine, _ *scanner) error {
			e.stack.Push(Number(rational.FromInt(e.precision)))
			return nil
		},

		// Registers
		's': withRegister(func(e *Engine, name rune) error {
			v, err := e.stack.Pop()
			if err != nil {
				return err
			}
			e.register(name).Set(v)
			return nil
		}),
		'S': withRegister(func(e *Engine, name rune) error {
			v, err := e.stack.Pop()
			if err != nil {
				return err
			}
			e.register(name).Push(v)
			return nil
		}),
		'l': withRegister(func(e *Engine, name rune) error {
			v, err := e.register(name).Peek()
			if err != nil {
				return fmt.Errorf("%w: %q", ErrEmptyRegister, name)
			}
			e.stack.Push(v)
			return nil
		}),
		'L': withRegister(func(e *Engine, name rune) error {
			v, err := e.register(name).Pop()
			if err != nil {
				return fmt.Errorf("%w: %q", ErrEmptyRegister, name)
			}
			e.stack.Push(v)
			return nil
		}),

		// Macros
		'x': func(ctx context.Context, e *Engine, _ *scanner) error {
			v, err := e.stack.Peek()
			if err != nil {
				return err
			}
			if !v.Macro {
				return nil
			}
			e.stack.Drop(1)
			return e.execMacro(ctx, v.Text)
		},
		'<': conditional(func(c int) bool { return c < 0 }),
		'>': conditional(func(c int) bool { return c > 0 }),
		'=': conditional(func(c int) bool { return c == 0 }),
		'q': func(_ context.Context, e *Engine, _ *scanner) error {
			e.quit = true
			return nil
		},
	}
}

func values(rs ...rational.Rational) []Value {
	out := make([]Value, len(rs))
	for i, r := range rs {
		out[i] = Number(r)
	}
	return out
}

func numbers(vals []Value) ([]rational.Rational, error) {
	out := make([]rational.Rational, len(vals))
	for i, v := range vals {
		if v.Macro {
			return nil, fmt.Errorf("%w: [%s]", ErrNotNumber, v.Text)
		}
		out[i] = v.Num
	}
	return out, nil
}

// binary applies op to the second and first values from the top. The
// operands stay on the stack when op fails.
func binary(op func(a, b rational.Rational) ([]Value, error)) command {
	return func(_ context.Context, e *Engine, _ *scanner) error {
		vals, err := e.stack.Top(2)
		if err != nil {
			return err
		}
		nums, err := numbers(vals)
		if err != nil {
			return err
		}
		out, err := op(nums[0], nums[1])
		if err != nil {
			return err
		}
		e.stack.Drop(2)
		for _, v := range out {
			e.stack.Push(v)
		}
		return nil
	}
}

func unary(op func(a rational.Rational) (rational.Rational, error)) command {
	return func(_ context.Context, e *Engine, _ *scanner) error {
		vals, err := e.stack.Top(1)
		if err != nil {
			return err
		}
		nums, err := numbers(vals)
		if err != nil {
			return err
		}
		r, err := op(nums[0])
		if err != nil {
			return err
		}
		e.stack.Set(Number(r))
		return nil
	}
}

func withRegister(op func(e *Engine, name rune) error) command {
	return func(_ context.Context, e *Engine, s *scanner) error {
		m := s.next()
		if m.ch == eof {
			return ErrMissingRegister
		}
		return op(e, m.ch)
	}
}

// conditional pops two numbers and runs the macro on top of the named
// register when cond(Cmp(top, second)) holds, as dc's "<r" does.
func conditional(cond func(int) bool) command {
	return func(ctx context.Context, e *Engine, s *scanner) error {
		m := s.next()
		if m.ch == eof {
			return ErrMissingRegister
		}
		vals, err := e.stack.Top(2)
		if err != nil {
			return err
		}
		nums, err := numbers(vals)
		if err != nil {
			return err
		}
		e.stack.Drop(2)
		if !cond(nums[1].Cmp(nums[0])) {
			return nil
		}
		v, err := e.register(m.ch).Peek()
		if err != nil {
			return fmt.Errorf("%w: %q", ErrEmptyRegister, m.ch)
		}
		if !v.Macro {
			e.stack.Push(v)
			return nil
		}
		return e.execMacro(ctx, v.Text)
	}
}

// truncQuoRem returns q = trunc(a/b) and r = a - q*b. Integer operands use
// the BigInt truncating remainder directly.
func truncQuoRem(a, b rational.Rational) (rational.Rational, rational.Rational, error) {
	if a.IsInt() && b.IsInt() {
		q, r, err := bignum.DivMod(a.Num(), b.Num())
		if err != nil {
			return rational.Rational{}, rational.Rational{}, err
		}
		return rational.FromBigInt(q), rational.FromBigInt(r), nil
	}
	quo, err := a.Quo(b)
	if err != nil {
		return rational.Rational{}, rational.Rational{}, err
	}
	q := rational.FromBigInt(quo.Trunc())
	return q, a.Sub(q.Mul(b)), nil
}

// power raises a to an integer exponent; a negative exponent yields the
// reciprocal.
func power(a, b rational.Rational) ([]Value, error) {
	if !b.IsInt() {
		return nil, fmt.Errorf("%w: exponent %s", ErrNotInteger, b)
	}
	n, ok := b.Num().Abs().Uint64()
	if !ok || n > MaxExponent {
		return nil, fmt.Errorf("%w: %s", ErrExponentRange, b)
	}
	num := bignum.Pow(a.Num(), n)
	den := bignum.Pow(a.Den(), n)
	if b.Sign() < 0 {
		num, den = den, num
	}
	r, err := rational.New(num, den)
	if err != nil {
		return nil, err
	}
	return values(r), nil
}

func precisionOf(v Value) (int, error) {
	if v.Macro || !v.Num.IsInt() || v.Num.Sign() < 0 {
		return 0, ErrNegativePrecision
	}
	n, ok := v.Num.Num().Int64()
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNegativePrecision, v.Num)
	}
	p, err := safecast.Conv[int](n)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNegativePrecision, err)
	}
	return p, nil
}

// printStack lists the stack top first, right-aligned on display width.
func (e *Engine) printStack() error {
	vals := e.stack.Values()
	lines := make([]string, len(vals))
	width := 0
	for i, v := range vals {
		lines[i] = e.Format(v)
		width = max(width, runewidth.StringWidth(lines[i]))
	}
	var sb strings.Builder
	for i := len(lines) - 1; i >= 0; i-- {
		sb.WriteString(strings.Repeat(" ", width-runewidth.StringWidth(lines[i])))
		sb.WriteString(lines[i])
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(e.Output, sb.String())
	return err
}
