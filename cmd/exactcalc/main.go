package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"exactcalc/internal/config"
	"exactcalc/internal/observ"
	"exactcalc/internal/trace"
	"exactcalc/internal/version"
)

// cli is the state shared by the commands of one invocation.
type cli struct {
	cfg     config.Config
	cfgPath string
	timer   *observ.Timer
	tracer  trace.Tracer
	cleanup func()
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{cfg: config.Default(), cleanup: func() {}}
	root := &cobra.Command{
		Use:           "exactcalc",
		Short:         "Exact rational arithmetic calculator",
		Long:          `exactcalc evaluates dc-style RPN programs over arbitrary-precision rationals.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.prepare(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.String("config", "", "path to exactcalc.toml (default: search upward from the working directory)")
	flags.Int("precision", 0, "fractional digits when printing non-integers")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept in the trace ring")
	flags.Duration("trace-heartbeat", 0, "heartbeat interval for hang detection (0 disables)")

	root.AddCommand(
		c.newEvalCmd(),
		c.newBatchCmd(),
		c.newDecimalCmd(),
		c.newGCDCmd(),
		c.newMatrixCmd(),
		newVersionCmd(),
	)
	return root, c
}

// main builds the command tree and exits with status 1 on failure.
func main() {
	root, c := newRootCmd()
	err := root.ExecuteContext(context.Background())
	c.finish(root, err)
	if err != nil {
		if !errors.Is(err, errReported) {
			printError(root.ErrOrStderr(), err)
		}
		os.Exit(1)
	}
}

// prepare loads configuration, applies the color mode and installs the tracer.
func (c *cli) prepare(cmd *cobra.Command) error {
	c.timer = observ.NewTimer()
	idx := c.timer.Begin("config")
	if err := c.loadConfig(cmd); err != nil {
		return err
	}
	c.timer.End(idx, c.cfgPath)

	colorMode, err := stringSetting(cmd, "color", c.cfg.Output.Color)
	if err != nil {
		return err
	}
	mode, err := readUIMode(colorMode)
	if err != nil {
		return fmt.Errorf("--color: %w", err)
	}
	color.NoColor = !shouldUseTUI(mode)

	cleanup, err := c.setupTracing(cmd)
	if err != nil {
		return err
	}
	c.cleanup = cleanup
	return nil
}

func (c *cli) loadConfig(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if path != "" {
		f, err := config.Load(path)
		if err != nil {
			return err
		}
		c.cfg, c.cfgPath = f.Config, f.Path
		return nil
	}
	f, ok, err := config.Discover(".")
	if err != nil {
		return err
	}
	c.cfg = f.Config
	if ok {
		c.cfgPath = f.Path
	}
	return nil
}

// finish dumps the trace ring when the command failed, closes the tracer
// and prints timings. It runs even when the command returned an error.
func (c *cli) finish(root *cobra.Command, err error) {
	if err != nil && c.tracer != nil {
		if ring, ok := trace.Ring(c.tracer); ok {
			fmt.Fprintln(root.ErrOrStderr(), "trace: last events before failure:")
			if dumpErr := ring.Dump(root.ErrOrStderr(), trace.FormatText); dumpErr != nil {
				fmt.Fprintf(root.ErrOrStderr(), "trace: dump error: %v\n", dumpErr)
			}
		}
	}
	c.cleanup()
	if timings, _ := root.PersistentFlags().GetBool("timings"); timings && c.timer != nil {
		fmt.Fprint(root.ErrOrStderr(), c.timer.Summary())
	}
}

// precision returns --precision when given, else the configured value.
func (c *cli) precision(cmd *cobra.Command) (int, error) {
	p := c.cfg.Calc.Precision
	if cmd.Flags().Changed("precision") {
		v, err := cmd.Flags().GetInt("precision")
		if err != nil {
			return 0, err
		}
		p = v
	}
	if p < 0 {
		return 0, fmt.Errorf("--precision must not be negative, got %d", p)
	}
	return p, nil
}

// stringSetting returns the flag value when set on the command line and
// fallback otherwise.
func stringSetting(cmd *cobra.Command, name, fallback string) (string, error) {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if cmd.Flags().Changed(name) || fallback == "" {
		return v, nil
	}
	return fallback, nil
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Flags().GetBool("quiet")
	return q
}

var errorColor = color.New(color.FgRed, color.Bold)

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorColor.Sprint("error:"), err)
}

// errReported marks a failure whose details were already printed.
var errReported = errors.New("errors reported")

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
