package calc

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"exactcalc/internal/rational"
	"exactcalc/internal/trace"
)

func run(t *testing.T, src string) (string, *Engine, error) {
	t.Helper()
	var out bytes.Buffer
	e := New(&out)
	err := e.EvalString(context.Background(), "test", src)
	return out.String(), e, err
}

func mustRun(t *testing.T, src string) string {
	t.Helper()
	out, _, err := run(t, src)
	if err != nil {
		t.Fatalf("%q: %v", src, err)
	}
	return out
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"one third", "1 3 / 5 k p", "0.33333\n"},
		{"negative quarter", "_1 4 / 2 k p", "-0.25\n"},
		{"integer ignores precision", "7 p", "7\n"},
		{"integer with precision", "3 k 7 p", "7\n"},
		{"fraction literal", "2 k 3/4 p", "0.75\n"},
		{"slash before space divides", "6 3/ p", "2\n"},
		{"decimal literal", "1.25 4 * p", "5\n"},
		{"leading dot", "2 k _.5 p", "-0.50\n"},
		{"power", "2 10 ^ p", "1024\n"},
		{"negative power", "2 k 2 _2 ^ p", "0.25\n"},
		{"rational power", "5 k 2/3 3 ^ p", "0.29629\n"},
		{"quotient and remainder", "7 2 ~ f", "1\n3\n"},
		{"truncating remainder", "_7 2 % p", "-1\n"},
		{"fractional remainder", "1 k 7/2 2 % p", "1.5\n"},
		{"gcd", "12 18 g p", "6\n"},
		{"square root", "17 v p", "4\n"},
		{"invert", "2 k 4 i p", "0.25\n"},
		{"swap", "1 2 r f", "1\n2\n"},
		{"depth", "5 5 z p", "2\n"},
		{"precision readback", "3 k K p", "3\n"},
		{"print without newline", "5 n 6 n", "56"},
		{"duplicate", "3 d * p", "9\n"},
		{"clear", "1 2 3 c z p", "0\n"},
		{"register", "5 sa la la * p", "25\n"},
		{"register stack", "1 Sa 2 Sa La La + p", "3\n"},
		{"macro", "[2 *] sd 3 ld x p", "6\n"},
		{"nested brackets", "[[inner]] x p", "inner\n"},
		{"number under x stays", "4 x p", "4\n"},
		{"loop", "0 [1 + d 5 >a] sa la x p", "5\n"},
		{"equal branch", "[[yes] p] sy 3 3 =y", "yes\n"},
		{"less branch not taken", "[[yes] p] sy 1 2 <y z p", "0\n"},
		{"comment", "1 # 2 +\n 3 + p", "4\n"},
		{"quit", "1 p q 2 p", "1\n"},
		{"quit inside macro", "[1 p q 2 p] x 3 p", "1\n"},
		{"full-width digits", "１２ ３ + p", "15\n"},
		{"aligned stack", "1 _100 f", "-100\n   1\n"},
		{"big", "2 100 ^ 1 - p", "1267650600228229401496703205375\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); got != tt.want {
				t.Fatalf("%q printed %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestDivisionByZeroKeepsOperands(t *testing.T) {
	_, e, err := run(t, "1 0 /")
	if !errors.Is(err, rational.ErrDivisionByZero) {
		t.Fatalf("want ErrDivisionByZero, got %v", err)
	}
	stack := e.Stack()
	if len(stack) != 2 || stack[0].Num.String() != "1" || stack[1].Num.String() != "0" {
		t.Fatalf("stack after failed division = %v", stack)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		src   string
		want  error
		depth int
	}{
		{"+", ErrNotEnoughValues, 0},
		{"1 +", ErrNotEnoughValues, 1},
		{"p", ErrStackEmpty, 0},
		{"1 @", ErrUnknownCommand, 1},
		{"lq", ErrEmptyRegister, 0},
		{"1 s", ErrMissingRegister, 1},
		{"_1 k", ErrNegativePrecision, 1},
		{"1/2 k", ErrNegativePrecision, 1},
		{"_4 v", ErrNegativeRoot, 1},
		{"1/2 v", ErrNotInteger, 1},
		{"1/2 4 g", ErrNotInteger, 2},
		{"2 1/2 ^", ErrNotInteger, 2},
		{"2 2000000 ^", ErrExponentRange, 2},
		{"0 _1 ^", rational.ErrDivisionByZero, 2},
		{"0 i", rational.ErrDivisionByZero, 1},
		{"5 0 %", rational.ErrDivisionByZero, 2},
		{"[a] 1 +", ErrNotNumber, 2},
		{"[unterminated", ErrUnterminatedMacro, 0},
		{"_ p", rational.ErrParse, 0},
		{"1/0", rational.ErrDivisionByZero, 0},
		{"[lax] sa lax", ErrMacroDepth, 0},
	}
	for _, tt := range tests {
		_, e, err := run(t, tt.src)
		if !errors.Is(err, tt.want) {
			t.Errorf("%q: want %v, got %v", tt.src, tt.want, err)
			continue
		}
		var pe *PosError
		if !errors.As(err, &pe) {
			t.Errorf("%q: error %v carries no position", tt.src, err)
		}
		if got := len(e.Stack()); got != tt.depth {
			t.Errorf("%q: stack depth %d after error, want %d", tt.src, got, tt.depth)
		}
	}
}

func TestErrorPosition(t *testing.T) {
	_, _, err := run(t, "1\n  2 @")
	var pe *PosError
	if !errors.As(err, &pe) {
		t.Fatalf("want PosError, got %v", err)
	}
	if pe.Pos != (Pos{Line: 2, Col: 5}) {
		t.Fatalf("position = %+v, want 2:5", pe.Pos)
	}
	if !strings.HasPrefix(pe.Error(), "test:2:5: unknown command") {
		t.Fatalf("message = %q", pe.Error())
	}
}

func TestOnErrorContinues(t *testing.T) {
	var out bytes.Buffer
	var errs []error
	e := New(&out)
	e.OnError = func(err error) { errs = append(errs, err) }
	if err := e.EvalString(context.Background(), "repl", "1 0 / @ c 2 p"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if len(errs) != 2 {
		t.Fatalf("got %d reported errors, want 2: %v", len(errs), errs)
	}
	if out.String() != "2\n" {
		t.Fatalf("output %q", out.String())
	}
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New(nil)
	if err := e.EvalString(ctx, "x", "1 2 +"); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if len(e.Stack()) != 0 {
		t.Fatalf("canceled evaluation ran commands")
	}
}

func TestStatePersistsAcrossEvals(t *testing.T) {
	var out bytes.Buffer
	e := New(&out)
	ctx := context.Background()
	for _, src := range []string{"4 k 10 sa", "la 3 /", "p"} {
		if err := e.EvalString(ctx, "step", src); err != nil {
			t.Fatalf("%q: %v", src, err)
		}
	}
	if out.String() != "3.3333\n" {
		t.Fatalf("output %q", out.String())
	}
}

func TestSessionRoundTrip(t *testing.T) {
	_, e, err := run(t, "7 k 1/3 [2 *] 5 sa 6 Sb 8 Sb")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteSession(&buf, e.Snapshot()); err != nil {
		t.Fatalf("WriteSession: %v", err)
	}
	s, err := ReadSession(&buf)
	if err != nil {
		t.Fatalf("ReadSession: %v", err)
	}
	restored := New(nil)
	if err := restored.Restore(s); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Precision() != 7 {
		t.Fatalf("precision = %d", restored.Precision())
	}
	want, got := e.Stack(), restored.Stack()
	if len(got) != len(want) {
		t.Fatalf("stack length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("stack[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if b := restored.Register('b'); len(b) != 2 || b[1].Num.String() != "8" {
		t.Fatalf("register b = %v", b)
	}
	if a := restored.Register('a'); len(a) != 1 || a[0].Num.String() != "5" {
		t.Fatalf("register a = %v", a)
	}
}

func TestLoadSessionMissingFile(t *testing.T) {
	s, ok, err := LoadSession(t.TempDir() + "/none.msgpack")
	if err != nil || ok || len(s.Stack) != 0 {
		t.Fatalf("LoadSession of missing file = %v, %v, %v", s, ok, err)
	}
}

func TestSaveLoadSessionFile(t *testing.T) {
	path := t.TempDir() + "/calc.msgpack"
	_, e, err := run(t, "2 k 22/7")
	if err != nil {
		t.Fatal(err)
	}
	if err := SaveSession(path, e.Snapshot()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	s, ok, err := LoadSession(path)
	if err != nil || !ok {
		t.Fatalf("LoadSession: %v %v", ok, err)
	}
	if len(s.Stack) != 1 || s.Stack[0].Num.String() != "22/7" || s.Precision != 2 {
		t.Fatalf("loaded %+v", s)
	}
}

func TestCommandSpans(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	e := New(nil)
	if err := e.EvalString(ctx, "traced", "1 2 + [3 *] x"); err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
		}
	}
	if got := strings.Join(names, " "); got != "script:traced cmd:+ cmd:x cmd:*" {
		t.Fatalf("spans = %q", got)
	}
}
