package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"exactcalc/internal/calc"
)

type evalOptions struct {
	exprs     []string
	session   string
	noSession bool
	keepGoing bool
}

func (c *cli) newEvalCmd() *cobra.Command {
	opts := &evalOptions{}
	cmd := &cobra.Command{
		Use:   "eval [flags] [file...]",
		Short: "Evaluate RPN programs from -e expressions, files, or stdin",
		Example: `  exactcalc eval -e '1 3 / 5 k p'
  exactcalc eval --session calc.msgpack script.dc
  echo '2 100 ^ p' | exactcalc eval`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEval(cmd, opts, args)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.exprs, "expr", "e", nil, "program text to evaluate (repeatable)")
	cmd.Flags().StringVar(&opts.session, "session", "", "msgpack session file to restore and save")
	cmd.Flags().BoolVar(&opts.noSession, "no-session", false, "ignore the configured session file")
	cmd.Flags().BoolVarP(&opts.keepGoing, "keep-going", "k", false, "report errors and continue (default for a terminal on stdin)")
	return cmd
}

func (c *cli) runEval(cmd *cobra.Command, opts *evalOptions, files []string) error {
	ctx := cmd.Context()
	engine := calc.New(cmd.OutOrStdout())

	sessionPath := opts.session
	if sessionPath == "" && !opts.noSession {
		sessionPath = c.cfg.Calc.Session
	}
	if err := c.initEngine(cmd, engine, sessionPath); err != nil {
		return err
	}

	interactive := len(opts.exprs) == 0 && len(files) == 0 && isTerminal(os.Stdin)
	failures := 0
	if opts.keepGoing || interactive {
		engine.OnError = func(err error) {
			failures++
			printError(cmd.ErrOrStderr(), err)
		}
	}

	err := c.evalInputs(cmd, engine, opts.exprs, files)
	if sessionPath != "" && ctx.Err() == nil {
		if saveErr := calc.SaveSession(sessionPath, engine.Snapshot()); saveErr != nil && err == nil {
			err = fmt.Errorf("save session: %w", saveErr)
		}
	}
	if err == nil && failures > 0 {
		return fmt.Errorf("%w: %d evaluation errors", errReported, failures)
	}
	return err
}

func (c *cli) evalInputs(cmd *cobra.Command, engine *calc.Engine, exprs, files []string) error {
	ctx := cmd.Context()
	for i, expr := range exprs {
		name := fmt.Sprintf("expr%d", i+1)
		idx := c.timer.Begin("eval " + name)
		err := engine.EvalString(ctx, name, expr)
		c.timer.End(idx, "")
		if err != nil {
			return err
		}
	}
	for _, file := range files {
		idx := c.timer.Begin("eval " + file)
		err := evalFile(cmd, engine, file)
		c.timer.End(idx, "")
		if err != nil {
			return err
		}
	}
	if len(exprs) == 0 && len(files) == 0 {
		idx := c.timer.Begin("eval stdin")
		defer c.timer.End(idx, "")
		return engine.Eval(ctx, "stdin", cmd.InOrStdin())
	}
	return nil
}

func evalFile(cmd *cobra.Command, engine *calc.Engine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return engine.Eval(cmd.Context(), path, f)
}

// initEngine restores the session when one exists, otherwise applies the
// configured precision and constants. An explicit --precision always wins.
func (c *cli) initEngine(cmd *cobra.Command, engine *calc.Engine, sessionPath string) error {
	if sessionPath != "" {
		s, ok, err := calc.LoadSession(sessionPath)
		if err != nil {
			return err
		}
		if ok {
			if err := engine.Restore(s); err != nil {
				return fmt.Errorf("%s: %w", sessionPath, err)
			}
			if cmd.Flags().Changed("precision") {
				p, err := c.precision(cmd)
				if err != nil {
					return err
				}
				return engine.SetPrecision(p)
			}
			return nil
		}
	}
	setup, err := c.engineSetup(cmd)
	if err != nil {
		return err
	}
	return setup(engine)
}

// engineSetup returns the preparation applied to every fresh engine.
func (c *cli) engineSetup(cmd *cobra.Command) (func(*calc.Engine) error, error) {
	p, err := c.precision(cmd)
	if err != nil {
		return nil, err
	}
	constants := c.cfg
	return func(e *calc.Engine) error {
		if err := e.SetPrecision(p); err != nil {
			return err
		}
		for _, name := range constants.ConstantNames() {
			r, _ := constants.Constant(name)
			e.SetRegister(name, calc.Number(r))
		}
		return nil
	}, nil
}
