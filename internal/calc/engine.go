// Package calc implements a dc-style reverse Polish calculator whose numbers
// are exact rationals.
//
// A program is a sequence of numbers, bracketed macros and single-character
// commands. Negative literals use '_' ("_5"), fractions may be written
// "3/4" or "1.25", and '#' starts a comment. Printing renders non-integers
// with the current precision, truncated toward zero.
package calc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"exactcalc/internal/rational"
	"exactcalc/internal/trace"
)

// MaxMacroDepth bounds nested macro execution.
const MaxMacroDepth = 10_000

// Engine holds the calculator state. It is not safe for concurrent use.
type Engine struct {
	// Output receives printed values.
	Output io.Writer
	// OnError, when set, receives evaluation errors and evaluation goes on
	// with the next token. When nil, Eval stops at the first error.
	OnError func(error)

	stack     Stack
	registers map[rune]*Stack
	precision int
	depth     int
	quit      bool
	executed  int
}

// New returns an engine printing to out.
func New(out io.Writer) *Engine {
	if out == nil {
		out = io.Discard
	}
	return &Engine{Output: out, registers: make(map[rune]*Stack)}
}

// Stack returns a copy of the main stack, bottom first.
func (e *Engine) Stack() []Value { return e.stack.Values() }

// Push pushes v onto the main stack.
func (e *Engine) Push(v Value) { e.stack.Push(v) }

// Register returns a copy of register name's stack, bottom first.
func (e *Engine) Register(name rune) []Value {
	if reg, ok := e.registers[name]; ok {
		return reg.Values()
	}
	return nil
}

// SetRegister replaces the top of register name with v.
func (e *Engine) SetRegister(name rune, v Value) { e.register(name).Set(v) }

// RegisterNames lists the registers holding at least one value.
func (e *Engine) RegisterNames() []rune {
	names := make([]rune, 0, len(e.registers))
	for name, reg := range e.registers {
		if reg.Len() > 0 {
			names = append(names, name)
		}
	}
	return names
}

func (e *Engine) register(name rune) *Stack {
	reg, ok := e.registers[name]
	if !ok {
		reg = &Stack{}
		e.registers[name] = reg
	}
	return reg
}

// Precision is the number of fractional digits used when printing.
func (e *Engine) Precision() int { return e.precision }

// SetPrecision sets the printing precision.
func (e *Engine) SetPrecision(p int) error {
	if p < 0 {
		return ErrNegativePrecision
	}
	e.precision = p
	return nil
}

// Format renders v the way 'p' prints it.
func (e *Engine) Format(v Value) string {
	switch {
	case v.Macro:
		return v.Text
	case v.Num.IsInt():
		return v.Num.String()
	default:
		return v.Num.AsDecimal(e.precision)
	}
}

// Eval runs the program read from r. name labels positions in errors and
// trace spans. A 'q' command ends this evaluation without error.
func (e *Engine) Eval(ctx context.Context, name string, r io.Reader) error {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeScript, "script:"+name, trace.ParentSpan(ctx))
	before := e.executed

	err := e.run(ctx, newScanner(name, r), span.ID())
	e.quit = false

	span.WithExtra("commands", strconv.Itoa(e.executed-before)).
		WithExtra("stack", strconv.Itoa(e.stack.Len()))
	if err != nil {
		trace.Fail(tracer, trace.ScopeScript, "script:"+name, err, span.ID())
		span.End("error")
		return err
	}
	span.End("")
	return nil
}

// EvalString is Eval over a string.
func (e *Engine) EvalString(ctx context.Context, name, src string) error {
	return e.Eval(ctx, name, strings.NewReader(src))
}

func (e *Engine) run(ctx context.Context, s *scanner, parent uint64) error {
	for !e.quit {
		if err := ctx.Err(); err != nil {
			return err
		}
		m := s.next()
		var err error
		switch {
		case m.ch == eof:
			return s.err
		case unicode.IsSpace(m.ch):
			continue
		case m.ch == '#':
			s.skipLine()
		case isNumberStart(m.ch):
			var r rational.Rational
			if r, err = s.scanNumber(m); err == nil {
				e.stack.Push(Number(r))
			}
		case m.ch == '[':
			var text string
			if text, err = s.scanMacro(m); err == nil {
				e.stack.Push(MacroValue(text))
			}
		default:
			err = e.exec(ctx, s, m, parent)
		}
		if err == nil {
			continue
		}
		var pe *PosError
		if !errors.As(err, &pe) && !isContextErr(err) {
			err = s.errorf(m.pos, err)
		}
		if e.OnError == nil || isContextErr(err) {
			return err
		}
		e.OnError(err)
	}
	return nil
}

func (e *Engine) exec(ctx context.Context, s *scanner, m mark, parent uint64) error {
	cmd, ok := commands[m.ch]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCommand, m.ch)
	}
	e.executed++
	tracer := trace.FromContext(ctx)
	if !tracer.Level().ShouldEmit(trace.ScopeCommand) {
		return cmd(ctx, e, s)
	}
	span := trace.Begin(tracer, trace.ScopeCommand, "cmd:"+string(m.ch), parent)
	err := cmd(trace.WithParent(ctx, span.ID()), e, s)
	if err != nil {
		span.End(err.Error())
	} else {
		span.End("")
	}
	return err
}

// execMacro evaluates text as a nested program.
func (e *Engine) execMacro(ctx context.Context, text string) error {
	if e.depth >= MaxMacroDepth {
		return ErrMacroDepth
	}
	e.depth++
	defer func() { e.depth-- }()
	return e.run(ctx, newMacroScanner(text), trace.ParentSpan(ctx))
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
