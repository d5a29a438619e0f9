package vm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agenthands/tiparm/pkg/compiler/lexer"
	"github.com/agenthands/tiparm/pkg/core/value"
)

// formatSpec is a parsed %[[:]flags][width[.precision]]conv escape.
type formatSpec struct {
	left, plus, alt, space bool
	zero                   bool
	hasWidth               bool
	width                  int
	hasPrec                bool
	prec                   int
	conv                   byte
}

func parseFormat(text string) (formatSpec, error) {
	var fs formatSpec
	if len(text) < 2 || text[0] != '%' {
		return fs, fmt.Errorf("%w: %q is not a format escape", lexer.ErrSyntax, text)
	}
	i := 1

flags:
	for i < len(text) {
		switch text[i] {
		case ':':
			if i+1 >= len(text) || text[i+1] != '-' {
				return fs, fmt.Errorf("%w: flag ':' must be followed by '-' in %q", lexer.ErrSyntax, text)
			}
			fs.left = true
			i += 2
		case '+':
			fs.plus = true
			i++
		case '#':
			fs.alt = true
			i++
		case ' ':
			fs.space = true
			i++
		default:
			break flags
		}
	}

	if i < len(text) && text[i] == '0' {
		fs.zero = true
	}
	start := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i > start {
		fs.hasWidth = true
		fs.width, _ = strconv.Atoi(text[start:i])
	}
	if i < len(text) && text[i] == '.' {
		i++
		start = i
		for i < len(text) && text[i] >= '0' && text[i] <= '9' {
			i++
		}
		fs.hasPrec = true
		fs.prec, _ = strconv.Atoi(text[start:i])
	}

	if i != len(text)-1 || !lexer.IsConversion(text[i]) {
		return fs, fmt.Errorf("%w: invalid conversion in %q", lexer.ErrSyntax, text)
	}
	fs.conv = text[i]
	return fs, nil
}

// verb rebuilds a Go fmt verb from the escape; conv replaces the
// terminfo conversion character.
func (fs formatSpec) verb(conv byte, numeric bool) string {
	var b strings.Builder
	b.WriteByte('%')
	if fs.left {
		b.WriteByte('-')
	}
	if numeric {
		if fs.plus {
			b.WriteByte('+')
		}
		if fs.space {
			b.WriteByte(' ')
		}
		if fs.alt && conv != 'd' && conv != 'f' {
			b.WriteByte('#')
		}
		if fs.zero && !fs.left {
			b.WriteByte('0')
		}
	}
	if fs.hasWidth && fs.width > 0 {
		b.WriteString(strconv.Itoa(fs.width))
	}
	if fs.hasPrec {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(fs.prec))
	}
	b.WriteByte(conv)
	return b.String()
}

// omitZero is the terminfo idiom where an explicit zero width hides a zero.
func (fs formatSpec) omitZero(n int64) bool {
	return fs.hasWidth && fs.width == 0 && n == 0
}

// formatValue renders v the way printf(3) would for the escape text.
func formatValue(text string, v value.Value) (string, error) {
	fs, err := parseFormat(text)
	if err != nil {
		return "", err
	}

	if fs.conv == 's' {
		return fmt.Sprintf(fs.verb('s', false), v.Text), nil
	}

	if fs.conv == 'd' {
		if digits, ok := v.Fraction(); ok {
			f, _ := v.Float()
			if fs.omitZero(0) && f == 0 {
				return "", nil
			}
			fixed := fs
			fixed.hasPrec, fixed.prec = true, digits
			return fmt.Sprintf(fixed.verb('f', true), f), nil
		}
	}

	n, err := v.Int()
	if err != nil {
		return "", fmt.Errorf("%w: %q for %s", ErrInvalidNumber, v.Text, text)
	}

	switch fs.conv {
	case 'd':
		if fs.omitZero(n) {
			return "", nil
		}
		return fmt.Sprintf(fs.verb('d', true), n), nil
	case 'o':
		if fs.omitZero(n) {
			return "", nil
		}
		return fmt.Sprintf(fs.verb('o', true), unsigned(n)), nil
	default: // 'x', 'X'
		return fmt.Sprintf(fs.verb(fs.conv, true), unsigned(n)), nil
	}
}

// unsigned mirrors C's reinterpretation of a negative int for %o and %x.
func unsigned(n int64) uint64 {
	if n < 0 && n >= -1<<31 {
		return uint64(uint32(n))
	}
	return uint64(n)
}
