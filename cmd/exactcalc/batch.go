package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"exactcalc/internal/batch"
	"exactcalc/internal/calc"
)

type batchOptions struct {
	jobs     int
	failFast bool
	ui       string
	stacks   bool
}

func (c *cli) newBatchCmd() *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch [flags] path...",
		Short: "Evaluate many scripts in parallel, each in a fresh calculator",
		Long: `batch evaluates every given script, expanding directories into their
*.dc files. Each script runs in its own engine, so scripts cannot see each
other's stacks or registers. Output is printed per script in input order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd, opts, args)
		},
	}
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "maximum concurrent scripts (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "stop after the first failing script")
	cmd.Flags().StringVar(&opts.ui, "ui", "", "progress UI (auto|on|off, default from config)")
	cmd.Flags().BoolVar(&opts.stacks, "stacks", false, "print each script's final stack")
	return cmd
}

func (c *cli) runBatch(cmd *cobra.Command, opts *batchOptions, paths []string) error {
	files, err := batch.CollectFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s scripts found", batch.ScriptExt)
	}
	precision, err := c.precision(cmd)
	if err != nil {
		return err
	}
	setup, err := c.engineSetup(cmd)
	if err != nil {
		return err
	}
	uiValue := opts.ui
	if uiValue == "" {
		uiValue = c.cfg.Output.UI
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return fmt.Errorf("--ui: %w", err)
	}

	req := &batch.Request{
		Files:    files,
		Jobs:     opts.jobs,
		Setup:    setup,
		FailFast: opts.failFast,
		Timer:    c.timer,
	}
	var res batch.Result
	if shouldUseTUI(mode) && !quiet(cmd) {
		res, err = runBatchWithUI(cmd.Context(), fmt.Sprintf("evaluating %d scripts", len(files)), req)
	} else {
		res, err = batch.Run(cmd.Context(), req)
	}

	printBatchResult(cmd.OutOrStdout(), res, opts.stacks, quiet(cmd), precision)
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		return fmt.Errorf("%w: %d of %d scripts failed", errReported, res.Failed, len(res.Files))
	}
	return nil
}

func printBatchResult(w io.Writer, res batch.Result, stacks, quiet bool, precision int) {
	header := color.New(color.Bold)
	fail := color.New(color.FgRed)
	formatter := calc.New(nil)
	_ = formatter.SetPrecision(precision) //nolint:errcheck
	for _, r := range res.Files {
		if !quiet || r.Err != nil {
			header.Fprintf(w, "== %s ==\n", r.File)
		}
		fmt.Fprint(w, r.Output)
		if r.Output != "" && !strings.HasSuffix(r.Output, "\n") {
			fmt.Fprintln(w)
		}
		if stacks {
			for i := len(r.Stack) - 1; i >= 0; i-- {
				fmt.Fprintf(w, "  %s\n", formatter.Format(r.Stack[i]))
			}
		}
		if r.Err != nil {
			fail.Fprintf(w, "error: %v\n", r.Err)
		}
	}
	if !quiet {
		fmt.Fprintf(w, "%d scripts, %d failed, %s\n", len(res.Files), res.Failed, res.Elapsed.Round(time.Microsecond))
	}
}
