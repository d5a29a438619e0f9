package lexer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedConditional is matched when a %? ... %; body cannot be split
// into condition and expression parts.
var ErrMalformedConditional = errors.New("lexer: malformed conditional")

// Role tells whether a conditional part is tested or rendered.
type Role uint8

const (
	RoleCondition Role = iota
	RoleExpression
)

func (r Role) String() string {
	if r == RoleCondition {
		return "Condition"
	}
	return "Expression"
}

// Branch is one part of a conditional body. Offset is relative to the
// template the conditional token came from.
type Branch struct {
	Role   Role
	Text   string
	Offset int
}

// SplitConditional breaks a Conditional token into its parts:
//
//	%? c1 %t e1 %e c2 %t e2 %e e3 %;  ->  [c1 e1 c2 e2 e3]
//
// Markers belonging to nested conditionals are left inside their part.
func SplitConditional(tok Token) ([]Branch, error) {
	text := tok.Text
	if len(text) < 4 || !strings.HasPrefix(text, "%?") || !strings.HasSuffix(text, "%;") {
		return nil, malformed(tok, "conditional must start with %? and end with %;")
	}
	body := text[2 : len(text)-2]
	base := tok.Offset + 2

	var (
		parts    []Branch
		role     = RoleCondition
		segStart = 0
		depth    = 0
		lastMark byte
	)
	for i := 0; i < len(body); {
		if body[i] != '%' || i+1 >= len(body) {
			i++
			continue
		}
		switch next := body[i+1]; {
		case next == '?':
			depth++
		case next == ';':
			depth--
		case next == '\'':
			if n := charConstantLen(body[i:]); n > 0 {
				i += n
				continue
			}
		case depth == 0 && (next == 't' || next == 'e'):
			if next == 't' && role != RoleCondition {
				return nil, malformed(tok, fmt.Sprintf("%%t without a condition at offset %d", base+i))
			}
			if next == 'e' && role != RoleExpression {
				return nil, malformed(tok, fmt.Sprintf("%%e without a then part at offset %d", base+i))
			}
			parts = append(parts, Branch{Role: role, Text: body[segStart:i], Offset: base + segStart})
			if next == 't' {
				role = RoleExpression
			} else {
				role = RoleCondition
			}
			lastMark = next
			segStart = i + 2
		}
		i += 2
	}

	// The tail is the last then part or the default else part. An empty
	// tail after %e means there is no default.
	tail := body[segStart:]
	if tail != "" || lastMark == 't' {
		parts = append(parts, Branch{Role: RoleExpression, Text: tail, Offset: base + segStart})
	}

	if len(parts) < 2 {
		return nil, malformed(tok, "conditional needs a condition and a then part")
	}
	if parts[0].Role != RoleCondition || parts[len(parts)-1].Role != RoleExpression {
		return nil, malformed(tok, "conditional must begin with a condition and end with an expression")
	}
	return parts, nil
}

func malformed(tok Token, msg string) error {
	return fmt.Errorf("%w: %s in %q", ErrMalformedConditional, msg, tok.Text)
}
