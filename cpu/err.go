package cpu

import (
	"errors"

	"github.com/ezrec/rize/translate"
)

var f = translate.From

// ErrKind is the pipeline failure taxonomy.
// Each kind is itself an error, so errors.Is(err, KIND_EXECUTE) works.
type ErrKind int

//go:generate go tool stringer -linecomment -type=ErrKind
const (
	KIND_FETCH          = ErrKind(0) // fetch
	KIND_DECODE         = ErrKind(1) // decode
	KIND_EXECUTE        = ErrKind(2) // execute
	KIND_MEMORY_READ    = ErrKind(3) // memory read
	KIND_MEMORY_WRITE   = ErrKind(4) // memory write
	KIND_REGISTER_READ  = ErrKind(5) // register read
	KIND_REGISTER_WRITE = ErrKind(6) // register write
	KIND_DISPLAY        = ErrKind(7) // display
)

func (kind ErrKind) Error() string {
	return f("%v error", kind.String())
}

var (
	// Fetch errors
	ErrProgramMissing = errors.New(f("no program loaded"))

	// Decode errors
	ErrOpcodeMissing    = errors.New(f("opcode missing"))
	ErrOpcodeExtraArgs  = errors.New(f("excessive arguments"))
	ErrOperandMalformed = errors.New(f("operand malformed"))

	// Execute errors
	ErrOperandMissing = errors.New(f("operand missing"))
	ErrOperandInvalid = errors.New(f("operand invalid"))
	ErrTargetInvalid  = errors.New(f("target invalid"))
	ErrDisplayMissing = errors.New(f("no display attached"))
)

// Error is a failure tagged with the pipeline kind that raised it.
type Error struct {
	Kind ErrKind
	Err  error
}

func (err *Error) Error() string {
	return f("%v: %v", err.Kind.String(), err.Err)
}

func (err *Error) Unwrap() error {
	return err.Err
}

func (err *Error) Is(target error) bool {
	kind, ok := target.(ErrKind)
	return ok && kind == err.Kind
}

// tag attaches kind to err, unless err already carries a kind.
func tag(kind ErrKind, err error) error {
	if err == nil {
		return nil
	}

	var tagged *Error
	if errors.As(err, &tagged) {
		return err
	}

	return &Error{Kind: kind, Err: err}
}

type ErrOpcodeUnknown string

func (err ErrOpcodeUnknown) Error() string {
	return f("opcode '%v' unknown", string(err))
}

type ErrRegisterUnknown string

func (err ErrRegisterUnknown) Error() string {
	return f("register '%v' unknown", string(err))
}

type ErrLabelMissing string

func (err ErrLabelMissing) Error() string {
	return f("label %v missing", string(err))
}

// ErrAddressRange is an access at or beyond the memory capacity.
type ErrAddressRange struct {
	Address  uint64
	Capacity uint64
}

func (err ErrAddressRange) Error() string {
	return f("address 0x%x out of range (capacity 0x%x)", err.Address, err.Capacity)
}

// ErrOperand locates an operand failure by slot and source text.
type ErrOperand struct {
	Slot int
	Text string
	Err  error
}

func (err ErrOperand) Error() string {
	return f("arg%d '%v' %v", err.Slot+1, err.Text, err.Err)
}

func (err ErrOperand) Unwrap() error {
	return err.Err
}

// ErrProgramLength is a program too long for the program counter.
type ErrProgramLength struct {
	Lines int
	Limit uint64
}

func (err ErrProgramLength) Error() string {
	return f("program has %d lines, the program counter holds at most %d", err.Lines, err.Limit)
}
