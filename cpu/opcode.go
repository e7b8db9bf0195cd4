package cpu

import (
	"strings"
)

// OpCode is a decoded instruction keyword.
type OpCode int

//go:generate go tool stringer -linecomment -type=OpCode
const (
	OP_INVALID = OpCode(0)  // invalid
	OP_NOP     = OpCode(1)  // nop
	OP_MOV     = OpCode(2)  // mov
	OP_ADD     = OpCode(3)  // add
	OP_SUB     = OpCode(4)  // sub
	OP_MUL     = OpCode(5)  // mul
	OP_DIV     = OpCode(6)  // div
	OP_AND     = OpCode(7)  // and
	OP_OR      = OpCode(8)  // or
	OP_XOR     = OpCode(9)  // xor
	OP_NOT     = OpCode(10) // not
	OP_SHL     = OpCode(11) // shl
	OP_SHR     = OpCode(12) // shr
	OP_LD      = OpCode(13) // ld
	OP_ST      = OpCode(14) // st
	OP_SWP     = OpCode(15) // swp
	OP_WDM     = OpCode(16) // wdm
	OP_JMP     = OpCode(17) // jmp
	OP_JIZ     = OpCode(18) // jiz
	OP_JIN     = OpCode(19) // jin
	OP_HALT    = OpCode(20) // halt
)

// arity is the minimum and maximum operand count of each opcode.
var arity = map[OpCode][2]int{
	OP_NOP:  {0, 0},
	OP_MOV:  {2, 2},
	OP_ADD:  {2, 3},
	OP_SUB:  {2, 3},
	OP_MUL:  {2, 3},
	OP_DIV:  {2, 3},
	OP_AND:  {2, 3},
	OP_OR:   {2, 3},
	OP_XOR:  {2, 3},
	OP_NOT:  {1, 3},
	OP_SHL:  {2, 3},
	OP_SHR:  {2, 3},
	OP_LD:   {0, 2},
	OP_ST:   {0, 2},
	OP_SWP:  {2, 2},
	OP_WDM:  {3, 3},
	OP_JMP:  {1, 1},
	OP_JIZ:  {1, 1},
	OP_JIN:  {1, 1},
	OP_HALT: {0, 0},
}

// keywords maps a lower case keyword to its opcode.
var keywords = make(map[string]OpCode, len(arity))

func init() {
	for op := range arity {
		keywords[op.String()] = op
	}
}

// ParseOpCode maps a keyword, in any case, to its opcode.
// Unknown keywords map to OP_INVALID.
func ParseOpCode(keyword string) OpCode {
	return keywords[strings.ToLower(keyword)]
}

// Arity returns the minimum and maximum operand count.
func (op OpCode) Arity() (min, max int) {
	limits, ok := arity[op]
	if !ok {
		return 0, len(Instruction{}.Args)
	}
	return limits[0], limits[1]
}

// Alu is true for opcodes that compute into a target and update flags.
func (op OpCode) Alu() bool {
	return op >= OP_ADD && op <= OP_SHR
}
