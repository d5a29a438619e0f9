package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is matched by every extraction failure.
var ErrSyntax = errors.New("lexer: syntax error")

// SyntaxError reports a malformed escape and where it started.
type SyntaxError struct {
	Offset int
	Text   string
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("lexer: %s at offset %d (%q)", e.Msg, e.Offset, e.Text)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

type state uint8

const (
	stateIdle state = iota
	stateInToken
	stateInConditionBody
	stateInBraceConstant
	stateInBracketConstant
	stateInCharConstant
	stateInFormatting
)

// Scanner splits a capability string into %-escape tokens. Text between
// escapes is not tokenized; it is passed through when the result is spliced.
type Scanner struct {
	source string
	cursor int
}

// NewScanner creates a new scanner for the given capability string.
func NewScanner(source string) *Scanner {
	return &Scanner{source: source}
}

// Reset re-initializes the scanner with new source for pool reuse.
func (s *Scanner) Reset(source string) {
	s.source = source
	s.cursor = 0
}

// Next returns the next token, or a KindEOF token once the source is exhausted.
func (s *Scanner) Next() (Token, error) {
	var (
		st    = stateIdle
		start = s.cursor
		nest  int
	)

	for {
		switch st {
		case stateIdle:
			i := strings.IndexByte(s.source[s.cursor:], '%')
			if i < 0 {
				s.cursor = len(s.source)
				return Token{Kind: KindEOF, Offset: s.cursor}, nil
			}
			start = s.cursor + i
			s.cursor = start + 1
			st = stateInToken

		case stateInToken:
			if s.cursor >= len(s.source) {
				return s.fail(start, "dangling designator at end of string")
			}
			ch := s.source[s.cursor]
			switch ch {
			case '?':
				s.cursor++
				nest = 1
				st = stateInConditionBody
			case 'p':
				if s.cursor+1 >= len(s.source) {
					return s.fail(start, "parameter designator needs a parameter number")
				}
				if arg := s.source[s.cursor+1]; arg < '1' || arg > '9' {
					return s.fail(start, "parameter designator takes a number from 1 to 9")
				}
				s.cursor += 2
				return s.emit(start, KindPushParam), nil
			case 'P', 'g':
				if s.cursor+1 >= len(s.source) {
					return s.fail(start, "variable designator needs a variable name")
				}
				if !isAlpha(s.source[s.cursor+1]) {
					return s.fail(start, "variable designator takes a letter")
				}
				s.cursor += 2
				kind := KindSetVariable
				if ch == 'g' {
					kind = KindGetVariable
				}
				return s.emit(start, kind), nil
			case '{':
				s.cursor++
				st = stateInBraceConstant
			case '\'':
				s.cursor++
				st = stateInCharConstant
			case '[':
				s.cursor++
				st = stateInBracketConstant
			default:
				if kind, ok := singleOps[ch]; ok {
					s.cursor++
					return s.emit(start, kind), nil
				}
				st = stateInFormatting
			}

		case stateInConditionBody:
			if s.cursor >= len(s.source) {
				return s.fail(start, "unterminated conditional")
			}
			if s.source[s.cursor] != '%' {
				s.cursor++
				continue
			}
			if s.cursor+1 >= len(s.source) {
				return s.fail(start, "dangling designator inside conditional")
			}
			switch s.source[s.cursor+1] {
			case '?':
				nest++
			case ';':
				nest--
			case '\'':
				// %'?' and %';' are constants, not nesting markers
				if n := charConstantLen(s.source[s.cursor:]); n > 0 {
					s.cursor += n
					continue
				}
			}
			s.cursor += 2
			if nest == 0 {
				return s.emit(start, KindConditional), nil
			}

		case stateInBraceConstant:
			end := strings.IndexByte(s.source[s.cursor:], '}')
			if end < 0 {
				return s.fail(start, "unterminated integer constant")
			}
			digits := s.source[s.cursor : s.cursor+end]
			if digits == "" {
				return s.fail(start, "integer constant is empty")
			}
			if _, err := strconv.Atoi(digits); err != nil {
				return s.fail(start, "invalid integer constant")
			}
			s.cursor += end + 1
			return s.emit(start, KindIntConstant), nil

		case stateInCharConstant:
			if s.cursor >= len(s.source) {
				return s.fail(start, "character constant at end of string")
			}
			_, size := utf8.DecodeRuneInString(s.source[s.cursor:])
			if s.cursor+size >= len(s.source) {
				return s.fail(start, "unterminated character constant")
			}
			if s.source[s.cursor+size] != '\'' {
				return s.fail(start, "character constant holds more than one character")
			}
			s.cursor += size + 1
			return s.emit(start, KindCharConstant), nil

		case stateInBracketConstant:
			end := strings.IndexByte(s.source[s.cursor:], ']')
			if end < 0 {
				return s.fail(start, "unterminated character list")
			}
			if end == 0 {
				return s.fail(start, "character list is empty")
			}
			s.cursor += end + 1
			return s.emit(start, KindCharList), nil

		case stateInFormatting:
			end, msg := scanFormat(s.source, s.cursor)
			if msg != "" {
				s.cursor = len(s.source)
				return s.fail(start, msg)
			}
			s.cursor = end
			return s.emit(start, KindFormatting), nil
		}
	}
}

func (s *Scanner) emit(start int, kind Kind) Token {
	return Token{Text: s.source[start:s.cursor], Offset: start, Kind: kind}
}

func (s *Scanner) fail(start int, msg string) (Token, error) {
	end := min(start+8, len(s.source))
	return Token{}, &SyntaxError{Offset: start, Text: s.source[start:end], Msg: msg}
}

// Extract tokenizes a whole capability string.
func Extract(source string) ([]Token, error) {
	if source == "" {
		return nil, nil
	}
	s := NewScanner(source)
	var tokens []Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// scanFormat walks a printf-style escape starting just past the '%'. It
// returns the offset after the conversion character, or a failure message.
func scanFormat(src string, pos int) (int, string) {
	// flags
	for pos < len(src) {
		switch src[pos] {
		case ':':
			if pos+1 >= len(src) || src[pos+1] != '-' {
				return pos, "flag ':' must be followed by '-'"
			}
			pos += 2
			continue
		case '+', '#', ' ':
			pos++
			continue
		}
		break
	}

	for pos < len(src) && isDigit(src[pos]) {
		pos++
	}
	if pos < len(src) && src[pos] == '.' {
		pos++
		for pos < len(src) && isDigit(src[pos]) {
			pos++
		}
	}

	if pos >= len(src) {
		return pos, "format designator missing a conversion type"
	}
	if !IsConversion(src[pos]) {
		return pos, fmt.Sprintf("invalid conversion type %q", src[pos])
	}
	return pos + 1, ""
}

// charConstantLen returns the byte length of a %'c' escape at the start of
// src, or 0 when src does not start with one.
func charConstantLen(src string) int {
	if len(src) < 4 || src[0] != '%' || src[1] != '\'' {
		return 0
	}
	_, size := utf8.DecodeRuneInString(src[2:])
	if 2+size >= len(src) || src[2+size] != '\'' {
		return 0
	}
	return size + 3
}

// IsConversion reports whether c is a printf conversion terminfo supports.
func IsConversion(c byte) bool {
	switch c {
	case 'd', 'o', 'x', 'X', 's':
		return true
	}
	return false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
