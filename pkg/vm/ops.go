package vm

import (
	"fmt"

	"github.com/agenthands/tiparm/pkg/compiler/lexer"
	"github.com/agenthands/tiparm/pkg/core/value"
)

// binaryOp pops second then first and pushes first op second, so
// %p1%p2%- computes p1-p2.
func (m *Machine) binaryOp(kind lexer.Kind) error {
	if m.SP < 2 {
		return fmt.Errorf("%w: %s needs 2 operands, stack holds %d", ErrStackUnderflow, kind, m.SP)
	}
	second, _ := m.Pop()
	first, _ := m.Pop()

	a, err := first.Int()
	if err != nil {
		return fmt.Errorf("%w: first operand %q", ErrInvalidNumber, first.Text)
	}
	b, err := second.Int()
	if err != nil {
		return fmt.Errorf("%w: second operand %q", ErrInvalidNumber, second.Text)
	}

	var res int64
	switch kind {
	case lexer.KindAdd:
		res = a + b
	case lexer.KindSub:
		res = a - b
	case lexer.KindMul:
		res = a * b
	case lexer.KindDiv:
		if b == 0 {
			return fmt.Errorf("%w: division by zero", ErrArithmetic)
		}
		res = a / b
	case lexer.KindMod:
		if b == 0 {
			return fmt.Errorf("%w: modulo by zero", ErrArithmetic)
		}
		res = a % b
	case lexer.KindBitAnd:
		res = a & b
	case lexer.KindBitOr:
		res = a | b
	case lexer.KindBitXor:
		res = a ^ b
	case lexer.KindEqual:
		res = boolInt(a == b)
	case lexer.KindGreaterThan:
		res = boolInt(a > b)
	case lexer.KindLessThan:
		res = boolInt(a < b)
	case lexer.KindLogicalAnd:
		res = boolInt(a != 0 && b != 0)
	case lexer.KindLogicalOr:
		res = boolInt(a != 0 || b != 0)
	default:
		return fmt.Errorf("vm: %s is not a binary operator", kind)
	}
	return m.Push(value.FromInt(res))
}

func (m *Machine) unaryOp(kind lexer.Kind) error {
	if m.SP < 1 {
		return fmt.Errorf("%w: %s needs 1 operand", ErrStackUnderflow, kind)
	}
	v, _ := m.Pop()
	n, err := v.Int()
	if err != nil {
		return fmt.Errorf("%w: operand %q", ErrInvalidNumber, v.Text)
	}
	switch kind {
	case lexer.KindLogicalNot:
		return m.Push(value.FromBool(n == 0))
	case lexer.KindBitNot:
		return m.Push(value.FromInt(^n))
	}
	return fmt.Errorf("vm: %s is not a unary operator", kind)
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
