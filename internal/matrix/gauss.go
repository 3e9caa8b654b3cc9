package matrix

import "fmt"

func (m *Matrix[T]) swapRows(a, b int) {
	if a == b {
		return
	}
	for j := range m.cols {
		ia, ib := a*m.cols+j, b*m.cols+j
		m.data[ia], m.data[ib] = m.data[ib], m.data[ia]
	}
}

// eliminate reduces m in place to row echelon form, considering only the
// first limit columns for pivots. It returns the pivot columns and the
// number of row swaps performed. With reduced set, pivots are scaled to one
// and cleared above as well (Gauss-Jordan).
func (m *Matrix[T]) eliminate(limit int, reduced bool) (pivots []int, swaps int, err error) {
	row := 0
	for col := 0; col < limit && row < m.rows; col++ {
		pivot := -1
		for i := row; i < m.rows; i++ {
			if !m.At(i, col).IsZero() {
				pivot = i
				break
			}
		}
		if pivot < 0 {
			continue
		}
		if pivot != row {
			m.swapRows(pivot, row)
			swaps++
		}
		p := m.At(row, col)
		if reduced {
			for j := range m.cols {
				v, err := m.At(row, j).Quo(p)
				if err != nil {
					return nil, 0, err
				}
				m.Set(row, j, v)
			}
			p = m.k.One
		}
		for i := range m.rows {
			if i == row || (!reduced && i < row) {
				continue
			}
			below := m.At(i, col)
			if below.IsZero() {
				continue
			}
			factor, err := below.Quo(p)
			if err != nil {
				return nil, 0, err
			}
			for j := col; j < m.cols; j++ {
				m.Set(i, j, m.At(i, j).Sub(factor.Mul(m.At(row, j))))
			}
		}
		pivots = append(pivots, col)
		row++
	}
	return pivots, swaps, nil
}

// Det returns the determinant of a square matrix: the product of the echelon
// diagonal, negated once per row swap.
func (m *Matrix[T]) Det() (T, error) {
	if m.rows != m.cols {
		return m.k.Zero, fmt.Errorf("%w: determinant of %dx%d", ErrShape, m.rows, m.cols)
	}
	work := m.Clone()
	pivots, swaps, err := work.eliminate(work.cols, false)
	if err != nil {
		return m.k.Zero, err
	}
	if len(pivots) < m.rows {
		return m.k.Zero, nil
	}
	det := m.k.One
	if swaps%2 == 1 {
		det = det.Neg()
	}
	for i := range m.rows {
		det = det.Mul(work.At(i, i))
	}
	return det, nil
}

// Rank returns the number of linearly independent rows.
func (m *Matrix[T]) Rank() (int, error) {
	work := m.Clone()
	pivots, _, err := work.eliminate(work.cols, false)
	if err != nil {
		return 0, err
	}
	return len(pivots), nil
}

// Inverse returns m^-1 via Gauss-Jordan elimination on [m | I].
func (m *Matrix[T]) Inverse() (*Matrix[T], error) {
	n := m.rows
	if n != m.cols {
		return nil, fmt.Errorf("%w: inverse of %dx%d", ErrShape, m.rows, m.cols)
	}
	aug, err := New(n, 2*n, m.k)
	if err != nil {
		return nil, err
	}
	for i := range n {
		for j := range n {
			aug.Set(i, j, m.At(i, j))
		}
		aug.Set(i, n+i, m.k.One)
	}
	pivots, _, err := aug.eliminate(n, true)
	if err != nil {
		return nil, err
	}
	if len(pivots) < n {
		return nil, ErrSingular
	}
	out, err := New(n, n, m.k)
	if err != nil {
		return nil, err
	}
	for i := range n {
		for j := range n {
			out.Set(i, j, aug.At(i, n+j))
		}
	}
	return out, nil
}
