package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"exactcalc/internal/matrix"
	"exactcalc/internal/rational"
	"exactcalc/internal/ui"
)

type ratMatrix = matrix.Matrix[rational.Rational]

var rationals = matrix.Constants[rational.Rational]{
	Zero:    rational.Zero(),
	One:     rational.One(),
	FromInt: rational.FromInt64,
}

var matrixOps = []string{"det", "rank", "trace", "inverse", "transpose"}

func (c *cli) newMatrixCmd() *cobra.Command {
	var ops []string
	cmd := &cobra.Command{
		Use:   "matrix [file|-]",
		Short: "Exact determinant, rank, trace, inverse or transpose of a matrix",
		Long: `matrix reads one row per line; entries are integers, fractions (3/4) or
decimals (1.25) separated by spaces or commas. Lines starting with # are
ignored. Reads stdin when no file (or -) is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			name := "stdin"
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in, name = f, args[0]
			}
			m, err := readMatrix(in)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return runMatrixOps(cmd.OutOrStdout(), m, ops)
		},
	}
	cmd.Flags().StringSliceVar(&ops, "op", []string{"det"}, "operations: "+strings.Join(matrixOps, ", ")+" or all")
	return cmd
}

func readMatrix(r io.Reader) (*ratMatrix, error) {
	var rows [][]rational.Rational
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
		row := make([]rational.Rational, len(fields))
		for i, field := range fields {
			v, err := rational.Parse(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return matrix.FromRows(rows, rationals)
}

func runMatrixOps(w io.Writer, m *ratMatrix, ops []string) error {
	if len(ops) == 1 && ops[0] == "all" {
		ops = matrixOps
	}
	for _, op := range ops {
		switch op {
		case "det":
			det, err := m.Det()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "det = %s\n", det)
		case "rank":
			rank, err := m.Rank()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "rank = %d\n", rank)
		case "trace":
			tr, err := m.Trace()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "trace = %s\n", tr)
		case "inverse":
			inv, err := m.Inverse()
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "inverse =")
			fmt.Fprint(w, renderMatrix(inv))
		case "transpose":
			fmt.Fprintln(w, "transpose =")
			fmt.Fprint(w, renderMatrix(m.Transpose()))
		default:
			return fmt.Errorf("unknown matrix operation %q (expected %s or all)", op, strings.Join(matrixOps, ", "))
		}
	}
	return nil
}

func renderMatrix(m *ratMatrix) string {
	cells := make([][]string, m.Rows())
	for i := range cells {
		row := m.Row(i)
		cells[i] = make([]string, len(row))
		for j, v := range row {
			cells[i][j] = v.String()
		}
	}
	return ui.RenderMatrix(cells, !color.NoColor)
}
