// Package config loads exactcalc.toml, searched from the working directory
// upward.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"exactcalc/internal/rational"
)

// FileName is the configuration file looked up by Discover.
const FileName = "exactcalc.toml"

// Config mirrors the sections of exactcalc.toml.
type Config struct {
	Calc      CalcConfig                   `toml:"calc"`
	Output    OutputConfig                 `toml:"output"`
	Trace     TraceConfig                  `toml:"trace"`
	Constants map[string]rational.Rational `toml:"constants"`
}

type CalcConfig struct {
	Precision int    `toml:"precision"`
	Session   string `toml:"session"`
}

type OutputConfig struct {
	Color string `toml:"color"`
	UI    string `toml:"ui"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
	Mode   string `toml:"mode"`
}

// Default is the configuration used without a file.
func Default() Config {
	return Config{
		Output: OutputConfig{Color: "auto", UI: "auto"},
		Trace:  TraceConfig{Level: "off", Format: "auto", Mode: "stream"},
	}
}

// File is a loaded configuration and where it came from.
type File struct {
	Path   string
	Root   string
	Config Config
}

// Find returns the nearest exactcalc.toml at or above startDir.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Discover finds and loads the nearest configuration. Without a file it
// returns the defaults and false.
func Discover(startDir string) (*File, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &File{Config: Default()}, false, nil
	}
	f, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return f, true, nil
}

// Load decodes and validates the file at path. Errors are prefixed with
// the path.
func Load(path string) (*File, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("calc", "precision") && cfg.Calc.Precision < 0 {
		return nil, fmt.Errorf("%s: [calc].precision must not be negative", path)
	}
	if meta.IsDefined("calc", "session") && strings.TrimSpace(cfg.Calc.Session) == "" {
		return nil, fmt.Errorf("%s: [calc].session is empty", path)
	}
	if err := checkMode("[output].color", cfg.Output.Color); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := checkMode("[output].ui", cfg.Output.UI); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for name := range cfg.Constants {
		if utf8.RuneCountInString(name) != 1 {
			return nil, fmt.Errorf("%s: [constants].%s: register names are single characters", path, name)
		}
	}

	root := filepath.Dir(path)
	if cfg.Calc.Session != "" && !filepath.IsAbs(cfg.Calc.Session) {
		cfg.Calc.Session = filepath.Join(root, filepath.FromSlash(cfg.Calc.Session))
	}
	if cfg.Trace.Output != "" && cfg.Trace.Output != "-" && !filepath.IsAbs(cfg.Trace.Output) {
		cfg.Trace.Output = filepath.Join(root, filepath.FromSlash(cfg.Trace.Output))
	}
	return &File{Path: path, Root: root, Config: cfg}, nil
}

func checkMode(key, value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto", "on", "off":
		return nil
	default:
		return fmt.Errorf("%s: invalid value %q (expected auto|on|off)", key, value)
	}
}

// ConstantNames returns the constant register names in order.
func (c Config) ConstantNames() []rune {
	names := make([]rune, 0, len(c.Constants))
	for name := range c.Constants {
		r, _ := utf8.DecodeRuneInString(name)
		names = append(names, r)
	}
	slices.Sort(names)
	return names
}

// Constant returns the constant stored for register name.
func (c Config) Constant(name rune) (rational.Rational, bool) {
	r, ok := c.Constants[string(name)]
	return r, ok
}
