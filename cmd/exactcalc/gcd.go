package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"exactcalc/internal/bignum"
)

func (c *cli) newGCDCmd() *cobra.Command {
	var lcm bool
	cmd := &cobra.Command{
		Use:   "gcd <integer> <integer>...",
		Short: "Greatest common divisor (or least common multiple) of integers",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]bignum.BigInt, len(args))
			for i, arg := range args {
				v, err := bignum.ParseLiteral(arg)
				if err != nil {
					return fmt.Errorf("argument %d: %w", i+1, err)
				}
				values[i] = v
			}
			var out bignum.BigInt
			if lcm {
				out = foldLCM(values)
			} else {
				out = foldGCD(values)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&lcm, "lcm", false, "print the least common multiple instead")
	return cmd
}

func foldGCD(values []bignum.BigInt) bignum.BigInt {
	g := bignum.Zero()
	for _, v := range values {
		g = bignum.GCD(g, v)
	}
	return g
}

// foldLCM returns the non-negative lcm; any zero argument makes it zero.
func foldLCM(values []bignum.BigInt) bignum.BigInt {
	l := bignum.One()
	for _, v := range values {
		if v.IsZero() {
			return bignum.Zero()
		}
		g := bignum.GCD(l, v)
		q, err := bignum.Div(v.Abs(), g)
		if err != nil {
			return bignum.Zero()
		}
		l = bignum.Mul(l, q)
	}
	return l
}
