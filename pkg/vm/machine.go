package vm

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agenthands/tiparm/pkg/core/value"
)

var (
	ErrStackOverflow     = errors.New("vm: stack overflow")
	ErrStackUnderflow    = errors.New("vm: stack underflow")
	ErrUndefinedVariable = errors.New("vm: undefined variable")
	ErrInvalidNumber     = errors.New("vm: invalid numeric literal")
	ErrArithmetic        = errors.New("vm: arithmetic fault")
	ErrMissingArgument   = errors.New("vm: missing argument")
)

// StackDepth bounds the operand stack. Capability strings are short, so the
// limit is only reached by adversarial input.
const StackDepth = 128

// Statics holds the A-Z variables that terminfo keeps for a whole terminal
// session. It is safe for concurrent use.
type Statics struct {
	mu   sync.RWMutex
	vars map[byte]value.Value
}

// NewStatics creates an empty session variable store.
func NewStatics() *Statics {
	return &Statics{vars: make(map[byte]value.Value)}
}

// Get returns the stored value of name.
func (s *Statics) Get(name byte) (value.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[name]
	return v, ok
}

// Set binds name, replacing any previous value.
func (s *Statics) Set(name byte, v value.Value) {
	s.mu.Lock()
	s.vars[name] = v
	s.mu.Unlock()
}

// Reset forgets every session variable.
func (s *Statics) Reset() {
	s.mu.Lock()
	clear(s.vars)
	s.mu.Unlock()
}

// Machine is the context of one evaluation: operand stack, variables and the
// invocation arguments. Conditional branches are evaluated against the same
// Machine, so they see and modify the enclosing state.
type Machine struct {
	Stack [StackDepth]value.Value
	SP    int // Stack Pointer

	Args []value.Value
	Vars map[byte]value.Value

	// Statics, when set, receives the upper-case variables instead of Vars.
	Statics *Statics
	Logger  *slog.Logger
}

// Option configures a Machine before evaluation.
type Option func(*Machine)

// WithLogger traces every evaluated token at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.Logger = l }
}

// WithStatics makes %PA..%PZ persist in s across evaluations.
func WithStatics(s *Statics) Option {
	return func(m *Machine) { m.Statics = s }
}

// Reset clears the machine state for reuse (sync.Pool compliant).
func (m *Machine) Reset() {
	for i := 0; i < m.SP; i++ {
		m.Stack[i] = value.Value{}
	}
	m.SP = 0
	m.Args = m.Args[:0]
	clear(m.Vars)
	m.Statics = nil
	m.Logger = nil
}

// Load replaces the invocation arguments.
func (m *Machine) Load(args []any) {
	m.Args = m.Args[:0]
	for _, a := range args {
		m.Args = append(m.Args, value.FromAny(a))
	}
}

var machinePool = sync.Pool{
	New: func() any { return &Machine{Vars: make(map[byte]value.Value)} },
}

// GetMachine returns a clean Machine from the pool.
func GetMachine() *Machine {
	return machinePool.Get().(*Machine)
}

// PutMachine resets m and returns it to the pool.
func PutMachine(m *Machine) {
	m.Reset()
	machinePool.Put(m)
}

// Push adds a value to the stack.
func (m *Machine) Push(v value.Value) error {
	if m.SP >= StackDepth {
		return ErrStackOverflow
	}
	m.Stack[m.SP] = v
	m.SP++
	return nil
}

// Pop removes and returns the top value from the stack.
func (m *Machine) Pop() (value.Value, error) {
	if m.SP <= 0 {
		return value.Value{}, ErrStackUnderflow
	}
	m.SP--
	v := m.Stack[m.SP]
	m.Stack[m.SP] = value.Value{}
	return v, nil
}

// Depth returns the number of values on the stack.
func (m *Machine) Depth() int {
	return m.SP
}

// Arg returns the 1-based invocation argument n.
func (m *Machine) Arg(n int) (value.Value, error) {
	if n < 1 || n > len(m.Args) {
		return value.Value{}, fmt.Errorf("%w: parameter %d of %d", ErrMissingArgument, n, len(m.Args))
	}
	return m.Args[n-1], nil
}

// SetVar binds a variable. Upper-case names go to the session store when
// one is attached.
func (m *Machine) SetVar(name byte, v value.Value) {
	if m.Statics != nil && isStatic(name) {
		m.Statics.Set(name, v)
		return
	}
	if m.Vars == nil {
		m.Vars = make(map[byte]value.Value)
	}
	m.Vars[name] = v
}

// GetVar reads a variable bound earlier in this evaluation or session.
func (m *Machine) GetVar(name byte) (value.Value, error) {
	if m.Statics != nil && isStatic(name) {
		if v, ok := m.Statics.Get(name); ok {
			return v, nil
		}
	} else if v, ok := m.Vars[name]; ok {
		return v, nil
	}
	return value.Value{}, fmt.Errorf("%w: %c", ErrUndefinedVariable, name)
}

func isStatic(name byte) bool {
	return name >= 'A' && name <= 'Z'
}
