package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"exactcalc/internal/bignum"
	"exactcalc/internal/rational"
)

func (c *cli) newDecimalCmd() *cobra.Command {
	var (
		digits int
		float  bool
	)
	cmd := &cobra.Command{
		Use:   "decimal <value> | decimal <numerator> <denominator>",
		Short: "Render a fraction as a truncated decimal",
		Example: `  exactcalc decimal 1/3 --digits 20
  exactcalc decimal 22 7 --float`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseFraction(args)
			if err != nil {
				return err
			}
			if float {
				fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(value.Float64(), 'g', -1, 64))
				return nil
			}
			p, err := c.precision(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("digits") {
				if digits < 0 {
					return fmt.Errorf("--digits must not be negative, got %d", digits)
				}
				p = digits
			}
			fmt.Fprintln(cmd.OutOrStdout(), value.AsDecimal(p))
			return nil
		},
	}
	cmd.Flags().IntVarP(&digits, "digits", "d", 0, "fractional digits (default --precision)")
	cmd.Flags().BoolVar(&float, "float", false, "print the nearest float64 instead")
	return cmd
}

func parseFraction(args []string) (rational.Rational, error) {
	if len(args) == 1 {
		return rational.Parse(args[0])
	}
	num, err := bignum.ParseLiteral(args[0])
	if err != nil {
		return rational.Rational{}, fmt.Errorf("numerator: %w", err)
	}
	den, err := bignum.ParseLiteral(args[1])
	if err != nil {
		return rational.Rational{}, fmt.Errorf("denominator: %w", err)
	}
	return rational.New(num, den)
}
