// Package tiparm renders terminfo parameterized capability strings.
//
// A capability such as cup, "\x1b[%i%p1%d;%p2%dH", is extracted once into
// tokens and then evaluated by a small stack machine for each set of
// arguments:
//
//	out, err := tiparm.Render("\x1b[%i%p1%d;%p2%dH", 23, 4) // "\x1b[24;5H"
//
// Errors match the sentinels below with errors.Is. A failing capability
// produces no partial output.
package tiparm

import (
	"github.com/agenthands/tiparm/pkg/compiler/lexer"
	"github.com/agenthands/tiparm/pkg/vm"
)

var (
	ErrSyntax               = lexer.ErrSyntax
	ErrMalformedConditional = lexer.ErrMalformedConditional
	ErrStackUnderflow       = vm.ErrStackUnderflow
	ErrStackOverflow        = vm.ErrStackOverflow
	ErrUndefinedVariable    = vm.ErrUndefinedVariable
	ErrInvalidNumber        = vm.ErrInvalidNumber
	ErrArithmetic           = vm.ErrArithmetic
	ErrMissingArgument      = vm.ErrMissingArgument
)

// Program is a compiled capability; it is immutable and safe for concurrent use.
type Program = vm.Program

// Compile extracts template for repeated rendering.
func Compile(template string) (*Program, error) {
	return vm.Compile(template)
}

// Render compiles and evaluates template in one step.
func Render(template string, args ...any) (string, error) {
	prog, err := vm.Compile(template)
	if err != nil {
		return "", err
	}
	return prog.Run(args...)
}
