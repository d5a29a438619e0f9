package vm

import "github.com/agenthands/tiparm/pkg/compiler/lexer"

// Program is an extracted capability string. Extraction does not depend on
// arguments, so one Program serves any number of evaluations, concurrently.
type Program struct {
	Source string
	Tokens []lexer.Token
}

// Compile extracts source once for repeated evaluation.
func Compile(source string) (*Program, error) {
	tokens, err := lexer.Extract(source)
	if err != nil {
		return nil, err
	}
	return &Program{Source: source, Tokens: tokens}, nil
}

// Run evaluates the program against args.
func (p *Program) Run(args ...any) (string, error) {
	return p.RunWith(args)
}

// RunWith evaluates the program against args on a pooled Machine configured
// by opts.
func (p *Program) RunWith(args []any, opts ...Option) (string, error) {
	m := GetMachine()
	defer PutMachine(m)
	for _, opt := range opts {
		opt(m)
	}
	m.Load(args)
	return m.Render(p.Source, p.Tokens)
}
