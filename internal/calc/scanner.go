package calc

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"exactcalc/internal/rational"
)

const eof = -1

type mark struct {
	ch  rune
	pos Pos
}

// scanner reads NFKC-normalized runes so that full-width digits and
// compatibility forms of the operators are read as their ASCII selves.
type scanner struct {
	name    string
	r       io.RuneReader
	pos     Pos
	pending []mark
	err     error
}

func newScanner(name string, r io.Reader) *scanner {
	return &scanner{
		name: name,
		r:    bufio.NewReader(norm.NFKC.Reader(r)),
		pos:  Pos{Line: 1, Col: 1},
	}
}

// newMacroScanner reads macro text, which was normalized when scanned.
func newMacroScanner(text string) *scanner {
	return &scanner{name: "macro", r: strings.NewReader(text), pos: Pos{Line: 1, Col: 1}}
}

func (s *scanner) next() mark {
	if n := len(s.pending); n > 0 {
		m := s.pending[n-1]
		s.pending = s.pending[:n-1]
		return m
	}
	ch, _, err := s.r.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		return mark{ch: eof, pos: s.pos}
	}
	m := mark{ch: ch, pos: s.pos}
	if ch == '\n' {
		s.pos.Line++
		s.pos.Col = 1
	} else {
		s.pos.Col++
	}
	return m
}

func (s *scanner) unread(m mark) {
	if m.ch != eof {
		s.pending = append(s.pending, m)
	}
}

func (s *scanner) errorf(pos Pos, err error) *PosError {
	return &PosError{Name: s.name, Pos: pos, Err: err}
}

func (s *scanner) skipLine() {
	for {
		if m := s.next(); m.ch == eof || m.ch == '\n' {
			return
		}
	}
}

func isDigit(ch rune) bool { return '0' <= ch && ch <= '9' }

func isNumberStart(ch rune) bool { return isDigit(ch) || ch == '_' || ch == '.' }

// scanNumber reads "_" (negative sign), digits, and then either a "."
// fraction or a "/" denominator. A "/" not followed by a digit is left for
// the division command.
func (s *scanner) scanNumber(first mark) (rational.Rational, error) {
	var sb strings.Builder
	m := first
	if m.ch == '_' {
		sb.WriteByte('-')
		m = s.next()
	}
	if m.ch == '.' {
		sb.WriteByte('0')
	}
	seenDot, seenSlash := false, false
	for ; ; m = s.next() {
		switch {
		case isDigit(m.ch):
			sb.WriteRune(m.ch)
			continue
		case m.ch == '.' && !seenDot && !seenSlash:
			seenDot = true
			sb.WriteByte('.')
			continue
		case m.ch == '/' && !seenDot && !seenSlash:
			after := s.next()
			if isDigit(after.ch) {
				seenSlash = true
				sb.WriteByte('/')
				sb.WriteRune(after.ch)
				continue
			}
			s.unread(after)
		}
		s.unread(m)
		break
	}
	r, err := rational.Parse(sb.String())
	if err != nil {
		return rational.Rational{}, s.errorf(first.pos, err)
	}
	return r, nil
}

// scanMacro reads up to the bracket matching an already consumed '['.
func (s *scanner) scanMacro(open mark) (string, error) {
	var sb strings.Builder
	depth := 1
	for {
		m := s.next()
		switch m.ch {
		case eof:
			return "", s.errorf(open.pos, ErrUnterminatedMacro)
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return sb.String(), nil
			}
		}
		sb.WriteRune(m.ch)
	}
}
