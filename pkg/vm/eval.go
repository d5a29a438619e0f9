package vm

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/agenthands/tiparm/pkg/compiler/lexer"
	"github.com/agenthands/tiparm/pkg/core/value"
)

// EvalError ties a runtime failure to the token that caused it. Offset is
// relative to the top-level capability string.
type EvalError struct {
	Kind   lexer.Kind
	Offset int
	Token  string
	Err    error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%v (%s %q at offset %d)", e.Err, e.Kind, e.Token, e.Offset)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// replacement is the text that takes the place of one token.
type replacement struct {
	offset int
	token  string
	text   string
}

// Run evaluates tokens extracted from source against args on a pooled Machine.
func Run(source string, tokens []lexer.Token, args ...any) (string, error) {
	m := GetMachine()
	defer PutMachine(m)
	m.Load(args)
	return m.Render(source, tokens)
}

// Render evaluates tokens against the loaded arguments and splices the
// results into source. Values left on the stack afterwards are ignored.
func (m *Machine) Render(source string, tokens []lexer.Token) (string, error) {
	return m.evaluate(source, tokens, 0)
}

func (m *Machine) evaluate(source string, tokens []lexer.Token, base int) (string, error) {
	replacements := make([]replacement, 0, len(tokens))
	increment := false

	for _, tok := range tokens {
		if m.Logger != nil {
			m.Logger.Debug("evaluate token",
				slog.String("kind", tok.Kind.String()),
				slog.Int("offset", base+tok.Offset),
				slog.String("token", tok.Text),
				slog.Int("depth", m.SP))
		}

		text, err := m.step(tok, base)
		if err != nil {
			var ee *EvalError
			var se *lexer.SyntaxError
			if errors.As(err, &ee) || errors.As(err, &se) {
				return "", err
			}
			return "", &EvalError{Kind: tok.Kind, Offset: base + tok.Offset, Token: tok.Text, Err: err}
		}
		if tok.Kind == lexer.KindIncrement {
			increment = true
		}
		replacements = append(replacements, replacement{offset: tok.Offset, token: tok.Text, text: text})
	}

	if increment {
		incrementFirstTwo(replacements)
	}
	return splice(source, replacements), nil
}

// step evaluates a single token and returns its replacement text.
func (m *Machine) step(tok lexer.Token, base int) (string, error) {
	switch kind := tok.Kind; {
	case kind == lexer.KindLiteral:
		return "%", nil

	case kind == lexer.KindFormatting:
		v, err := m.Pop()
		if err != nil {
			return "", err
		}
		return formatValue(tok.Text, v)

	case kind == lexer.KindPopChar:
		v, err := m.Pop()
		if err != nil {
			return "", err
		}
		n, err := v.Int()
		if err != nil || n < 0 || n > 0xff {
			return "", fmt.Errorf("%w: character code %q", ErrInvalidNumber, v.Text)
		}
		return string([]byte{byte(n)}), nil

	case kind == lexer.KindPopString:
		v, err := m.Pop()
		if err != nil {
			return "", err
		}
		return v.Text, nil

	case kind == lexer.KindPushParam:
		arg, err := m.Arg(int(tok.Text[2] - '0'))
		if err != nil {
			return "", err
		}
		return "", m.Push(arg)

	case kind == lexer.KindSetVariable:
		v, err := m.Pop()
		if err != nil {
			return "", err
		}
		m.SetVar(tok.Text[2], v)
		return "", nil

	case kind == lexer.KindGetVariable:
		v, err := m.GetVar(tok.Text[2])
		if err != nil {
			return "", err
		}
		return "", m.Push(v)

	case kind == lexer.KindCharConstant:
		return "", m.Push(value.FromString(tok.Text[2 : len(tok.Text)-1]))

	case kind == lexer.KindIntConstant:
		n, err := strconv.ParseInt(tok.Text[2:len(tok.Text)-1], 10, 64)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrInvalidNumber, tok.Text)
		}
		return "", m.Push(value.FromInt(n))

	case kind == lexer.KindCharList:
		return "", nil

	case kind == lexer.KindStringLength:
		v, err := m.Pop()
		if err != nil {
			return "", err
		}
		return "", m.Push(value.FromInt(int64(v.Len())))

	case kind.IsBinary():
		return "", m.binaryOp(kind)

	case kind.IsUnary():
		return "", m.unaryOp(kind)

	case kind == lexer.KindIncrement:
		return "", nil

	case kind == lexer.KindConditional:
		return m.conditional(tok, base)
	}
	return "", fmt.Errorf("vm: unknown token kind %d", tok.Kind)
}

// conditional picks the first part whose condition holds, or the trailing
// default, and evaluates only that part.
func (m *Machine) conditional(tok lexer.Token, base int) (string, error) {
	branches, err := lexer.SplitConditional(tok)
	if err != nil {
		return "", err
	}

	for i := 0; i < len(branches); i++ {
		b := branches[i]
		if b.Role == lexer.RoleExpression {
			return m.branch(b, base)
		}

		if _, err := m.branch(b, base); err != nil {
			return "", err
		}
		cond, err := m.Pop()
		if err != nil {
			return "", fmt.Errorf("%w: condition left no value", ErrStackUnderflow)
		}
		if cond.Truthy() {
			return m.branch(branches[i+1], base)
		}
		i++ // skip the then part
	}
	return "", nil
}

// branch extracts and evaluates one conditional part on the shared Machine.
// An expression part that prints nothing but pushes a value renders that value.
func (m *Machine) branch(b lexer.Branch, base int) (string, error) {
	tokens, err := lexer.Extract(b.Text)
	if err != nil {
		var se *lexer.SyntaxError
		if errors.As(err, &se) {
			shifted := *se
			shifted.Offset += base + b.Offset
			return "", &shifted
		}
		return "", err
	}

	depth := m.SP
	out, err := m.evaluate(b.Text, tokens, base+b.Offset)
	if err != nil {
		return "", err
	}
	if b.Role == lexer.RoleExpression && out == "" && m.SP > depth {
		v, _ := m.Pop()
		out = v.Text
	}
	return out, nil
}

// incrementFirstTwo applies %i: the first two numeric replacements become
// one-based. Padding around a number is kept.
func incrementFirstTwo(replacements []replacement) {
	done := 0
	for i := range replacements {
		if done == 2 {
			return
		}
		if next, ok := bump(replacements[i].text); ok {
			replacements[i].text = next
			done++
		}
	}
}

func bump(text string) (string, bool) {
	core := strings.TrimSpace(text)
	if core == "" {
		return text, false
	}
	n, err := strconv.ParseInt(core, 10, 64)
	if err != nil {
		return text, false
	}

	next := strconv.FormatInt(n+1, 10)
	if len(core) > 1 && core[0] == '0' && len(next) < len(core) {
		next = strings.Repeat("0", len(core)-len(next)) + next
	}
	pad := len(text) - len(next)
	if pad <= 0 || len(core) == len(text) {
		return next, true
	}
	if text[0] == ' ' {
		return strings.Repeat(" ", pad) + next, true
	}
	return next + strings.Repeat(" ", pad), true
}

// splice replaces every token span, highest offset first, so offsets not yet
// applied stay valid.
func splice(source string, replacements []replacement) string {
	out := source
	for i := len(replacements) - 1; i >= 0; i-- {
		r := replacements[i]
		out = out[:r.offset] + r.text + out[r.offset+len(r.token):]
	}
	return out
}
