// Package matrix provides dense matrices over an exact field such as
// rational.Rational, with Gaussian elimination for determinant, rank and
// inverse.
package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrShape indicates mismatched or invalid dimensions.
	ErrShape = errors.New("matrix shape mismatch")
	// ErrSingular indicates that a matrix has no inverse.
	ErrSingular = errors.New("matrix is singular")
)

// Field is the element contract: additive and multiplicative inverses,
// arithmetic and equality. Quo fails only for a zero divisor.
type Field[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Quo(T) (T, error)
	Neg() T
	IsZero() bool
	Equal(T) bool
}

// Constants supplies the identities of a field and construction from small
// integers.
type Constants[T any] struct {
	Zero    T
	One     T
	FromInt func(int64) T
}

// Matrix is a rows x cols matrix stored row-major.
type Matrix[T Field[T]] struct {
	rows, cols int
	data       []T
	k          Constants[T]
}

// New returns a zero matrix.
func New[T Field[T]](rows, cols int, k Constants[T]) (*Matrix[T], error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrShape, rows, cols)
	}
	data := make([]T, rows*cols)
	for i := range data {
		data[i] = k.Zero
	}
	return &Matrix[T]{rows: rows, cols: cols, data: data, k: k}, nil
}

// Identity returns the n x n identity matrix.
func Identity[T Field[T]](n int, k Constants[T]) (*Matrix[T], error) {
	m, err := New(n, n, k)
	if err != nil {
		return nil, err
	}
	for i := range n {
		m.Set(i, i, k.One)
	}
	return m, nil
}

// FromRows builds a matrix from equally sized rows.
func FromRows[T Field[T]](rows [][]T, k Constants[T]) (*Matrix[T], error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrShape)
	}
	m, err := New(len(rows), len(rows[0]), k)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != m.cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), m.cols)
		}
		copy(m.data[i*m.cols:], row)
	}
	return m, nil
}

// FromInts is FromRows over small integers converted with k.FromInt.
func FromInts[T Field[T]](rows [][]int64, k Constants[T]) (*Matrix[T], error) {
	vals := make([][]T, len(rows))
	for i, row := range rows {
		vals[i] = make([]T, len(row))
		for j, v := range row {
			vals[i][j] = k.FromInt(v)
		}
	}
	return FromRows(vals, k)
}

// Rows returns the number of rows.
func (m *Matrix[T]) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix[T]) Cols() int { return m.cols }

// At returns element (i, j).
func (m *Matrix[T]) At(i, j int) T { return m.data[i*m.cols+j] }

// Set stores v at (i, j).
func (m *Matrix[T]) Set(i, j int, v T) { m.data[i*m.cols+j] = v }

// Row returns a copy of row i.
func (m *Matrix[T]) Row(i int) []T {
	out := make([]T, m.cols)
	copy(out, m.data[i*m.cols:(i+1)*m.cols])
	return out
}

// Col returns a copy of column j.
func (m *Matrix[T]) Col(j int) []T {
	out := make([]T, m.rows)
	for i := range m.rows {
		out[i] = m.At(i, j)
	}
	return out
}

// Clone returns a deep copy; elements are values.
func (m *Matrix[T]) Clone() *Matrix[T] {
	data := make([]T, len(m.data))
	copy(data, m.data)
	return &Matrix[T]{rows: m.rows, cols: m.cols, data: data, k: m.k}
}

// Equal reports whether m and o have the same shape and elements.
func (m *Matrix[T]) Equal(o *Matrix[T]) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.data {
		if !m.data[i].Equal(o.data[i]) {
			return false
		}
	}
	return true
}

// Add returns m + o.
func (m *Matrix[T]) Add(o *Matrix[T]) (*Matrix[T], error) {
	return m.zipWith(o, func(a, b T) T { return a.Add(b) })
}

// Sub returns m - o.
func (m *Matrix[T]) Sub(o *Matrix[T]) (*Matrix[T], error) {
	return m.zipWith(o, func(a, b T) T { return a.Sub(b) })
}

func (m *Matrix[T]) zipWith(o *Matrix[T], f func(a, b T) T) (*Matrix[T], error) {
	if m.rows != o.rows || m.cols != o.cols {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShape, m.rows, m.cols, o.rows, o.cols)
	}
	out := m.Clone()
	for i := range out.data {
		out.data[i] = f(m.data[i], o.data[i])
	}
	return out, nil
}

// Scale returns v * m.
func (m *Matrix[T]) Scale(v T) *Matrix[T] {
	out := m.Clone()
	for i := range out.data {
		out.data[i] = out.data[i].Mul(v)
	}
	return out
}

// Mul returns the matrix product m * o.
func (m *Matrix[T]) Mul(o *Matrix[T]) (*Matrix[T], error) {
	if m.cols != o.rows {
		return nil, fmt.Errorf("%w: %dx%d * %dx%d", ErrShape, m.rows, m.cols, o.rows, o.cols)
	}
	out, err := New(m.rows, o.cols, m.k)
	if err != nil {
		return nil, err
	}
	for i := range m.rows {
		for j := range o.cols {
			sum := m.k.Zero
			for t := range m.cols {
				sum = sum.Add(m.At(i, t).Mul(o.At(t, j)))
			}
			out.Set(i, j, sum)
		}
	}
	return out, nil
}

// Transpose returns the transposed matrix.
func (m *Matrix[T]) Transpose() *Matrix[T] {
	out := &Matrix[T]{rows: m.cols, cols: m.rows, data: make([]T, len(m.data)), k: m.k}
	for i := range m.rows {
		for j := range m.cols {
			out.Set(j, i, m.At(i, j))
		}
	}
	return out
}

// Trace returns the sum of the diagonal of a square matrix.
func (m *Matrix[T]) Trace() (T, error) {
	if m.rows != m.cols {
		return m.k.Zero, fmt.Errorf("%w: trace of %dx%d", ErrShape, m.rows, m.cols)
	}
	sum := m.k.Zero
	for i := range m.rows {
		sum = sum.Add(m.At(i, i))
	}
	return sum, nil
}
