package calc

import (
	"errors"
	"fmt"
)

var (
	ErrStackEmpty        = errors.New("stack empty")
	ErrNotEnoughValues   = errors.New("not enough values on stack")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrEmptyRegister     = errors.New("register is empty")
	ErrMissingRegister   = errors.New("missing register name")
	ErrNegativePrecision = errors.New("precision must be a non-negative integer")
	ErrNotNumber         = errors.New("not a number")
	ErrNotInteger        = errors.New("not an integer")
	ErrNegativeRoot      = errors.New("square root of a negative number")
	ErrUnterminatedMacro = errors.New("unterminated macro")
	ErrMacroDepth        = errors.New("macro nesting too deep")
	ErrExponentRange     = errors.New("exponent out of range")
)

// Pos is a 1-based line and column in a program.
type Pos struct {
	Line int
	Col  int
}

// PosError ties an evaluation error to the program and position of the
// token that caused it.
type PosError struct {
	Name string
	Pos  Pos
	Err  error
}

func (e *PosError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %v", e.Name, e.Pos.Line, e.Pos.Col, e.Err)
}

func (e *PosError) Unwrap() error { return e.Err }

func needValues(n int) error {
	if n == 1 {
		return ErrStackEmpty
	}
	return fmt.Errorf("%w: need %d", ErrNotEnoughValues, n)
}
