package matrix_test

import (
	"errors"
	"testing"

	"exactcalc/internal/matrix"
	"exactcalc/internal/rational"
)

var rat = matrix.Constants[rational.Rational]{
	Zero:    rational.Zero(),
	One:     rational.One(),
	FromInt: rational.FromInt64,
}

func fromInts(t *testing.T, rows [][]int64) *matrix.Matrix[rational.Rational] {
	t.Helper()
	m, err := matrix.FromInts(rows, rat)
	if err != nil {
		t.Fatalf("FromInts: %v", err)
	}
	return m
}

func TestDet(t *testing.T) {
	tests := []struct {
		name string
		rows [][]int64
		want string
	}{
		{"2x2", [][]int64{{1, 2}, {3, 4}}, "-2"},
		{"identity", [][]int64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, "1"},
		{"needs swap", [][]int64{{0, 1}, {1, 0}}, "-1"},
		{"singular", [][]int64{{1, 2}, {2, 4}}, "0"},
		{"3x3", [][]int64{{2, -3, 1}, {2, 0, -1}, {1, 4, 5}}, "49"},
		{"fractional pivots", [][]int64{{3, 1, 4}, {1, 5, 9}, {2, 6, 5}}, "-90"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det, err := fromInts(t, tt.rows).Det()
			if err != nil {
				t.Fatalf("Det: %v", err)
			}
			if det.String() != tt.want {
				t.Fatalf("Det = %s, want %s", det, tt.want)
			}
		})
	}
}

func TestInverse(t *testing.T) {
	a := fromInts(t, [][]int64{{2, -3, 1}, {2, 0, -1}, {1, 4, 5}})
	inv, err := a.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	prod, err := a.Mul(inv)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	id, _ := matrix.Identity(3, rat)
	if !prod.Equal(id) {
		t.Fatalf("A*A^-1 is not the identity")
	}
	if got := inv.At(0, 0).String(); got != "4/49" {
		t.Fatalf("inv[0][0] = %s, want 4/49", got)
	}
}

func TestInverseSingular(t *testing.T) {
	_, err := fromInts(t, [][]int64{{1, 2}, {2, 4}}).Inverse()
	if !errors.Is(err, matrix.ErrSingular) {
		t.Fatalf("want ErrSingular, got %v", err)
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		rows [][]int64
		want int
	}{
		{[][]int64{{1, 2}, {2, 4}}, 1},
		{[][]int64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, 2},
		{[][]int64{{0, 0}, {0, 0}}, 0},
		{[][]int64{{1, 0, 2}, {0, 1, 3}}, 2},
		{[][]int64{{0, 1}, {0, 2}, {1, 0}}, 2},
	}
	for i, tt := range tests {
		got, err := fromInts(t, tt.rows).Rank()
		if err != nil {
			t.Fatalf("case %d: Rank: %v", i, err)
		}
		if got != tt.want {
			t.Errorf("case %d: Rank = %d, want %d", i, got, tt.want)
		}
	}
}

func TestShapeErrors(t *testing.T) {
	a := fromInts(t, [][]int64{{1, 2, 3}})
	b := fromInts(t, [][]int64{{1, 2}})
	if _, err := a.Add(b); !errors.Is(err, matrix.ErrShape) {
		t.Fatalf("Add: want ErrShape, got %v", err)
	}
	if _, err := a.Mul(b); !errors.Is(err, matrix.ErrShape) {
		t.Fatalf("Mul: want ErrShape, got %v", err)
	}
	if _, err := a.Det(); !errors.Is(err, matrix.ErrShape) {
		t.Fatalf("Det: want ErrShape, got %v", err)
	}
	if _, err := matrix.FromRows([][]rational.Rational{{rat.One}, {rat.One, rat.One}}, rat); !errors.Is(err, matrix.ErrShape) {
		t.Fatalf("ragged FromRows: want ErrShape, got %v", err)
	}
}

func TestTransposeTraceScale(t *testing.T) {
	a := fromInts(t, [][]int64{{1, 2, 3}, {4, 5, 6}})
	tr := a.Transpose()
	if tr.Rows() != 3 || tr.Cols() != 2 || tr.At(2, 1).String() != "6" {
		t.Fatalf("unexpected transpose")
	}
	sq, err := a.Mul(tr)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	trace, err := sq.Trace()
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if trace.String() != "91" {
		t.Fatalf("Trace = %s, want 91", trace)
	}
	half := rational.MustParse("1/2")
	scaled := a.Scale(half)
	if got := scaled.At(0, 0).String(); got != "1/2" {
		t.Fatalf("Scale: got %s", got)
	}
	sum, _ := scaled.Add(scaled)
	if !sum.Equal(a) {
		t.Fatalf("A/2 + A/2 != A")
	}
	diff, _ := a.Sub(a)
	if rank, _ := diff.Rank(); rank != 0 {
		t.Fatalf("A - A has rank %d", rank)
	}
	if got := a.Row(1); got[2].String() != "6" {
		t.Fatalf("Row(1)[2] = %s", got[2])
	}
	if got := a.Col(1); got[0].String() != "2" || got[1].String() != "5" {
		t.Fatalf("Col(1) = %v", got)
	}
}
