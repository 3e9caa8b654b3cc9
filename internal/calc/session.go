package calc

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"unicode/utf8"

	"github.com/vmihailenco/msgpack/v5"
)

// Session is the persistent part of an engine's state.
type Session struct {
	Stack     []Value            `msgpack:"stack"`
	Registers map[string][]Value `msgpack:"registers,omitempty"`
	Precision int                `msgpack:"precision"`
}

// Snapshot captures the stack, the non-empty registers and the precision.
func (e *Engine) Snapshot() Session {
	s := Session{Stack: e.stack.Values(), Precision: e.precision}
	names := e.RegisterNames()
	slices.Sort(names)
	for _, name := range names {
		if s.Registers == nil {
			s.Registers = make(map[string][]Value, len(names))
		}
		s.Registers[string(name)] = e.registers[name].Values()
	}
	return s
}

// Restore replaces the engine state with s.
func (e *Engine) Restore(s Session) error {
	if s.Precision < 0 {
		return ErrNegativePrecision
	}
	registers := make(map[rune]*Stack, len(s.Registers))
	for key, vals := range s.Registers {
		name, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) {
			return fmt.Errorf("session: invalid register name %q", key)
		}
		registers[name] = &Stack{data: slices.Clone(vals)}
	}
	e.stack = Stack{data: slices.Clone(s.Stack)}
	e.registers = registers
	e.precision = s.Precision
	return nil
}

// WriteSession encodes s as msgpack.
func WriteSession(w io.Writer, s Session) error {
	return msgpack.NewEncoder(w).Encode(&s)
}

// ReadSession decodes a session written by WriteSession.
func ReadSession(r io.Reader) (Session, error) {
	var s Session
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return Session{}, fmt.Errorf("session: %w", err)
	}
	return s, nil
}

// SaveSession writes s to path, replacing any previous file.
func SaveSession(path string, s Session) error {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSession reads path. A missing file yields an empty session and false.
func LoadSession(path string) (Session, bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	defer f.Close()
	s, err := ReadSession(f)
	if err != nil {
		return Session{}, true, fmt.Errorf("%s: %w", path, err)
	}
	return s, true, nil
}
