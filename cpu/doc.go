// Package cpu implements the Rize-1 processor.
//
// The processor has a program counter (pc) counting source lines, memory
// address and data registers (mar, mdr), four flags (zf, nf, cf, of) and a
// configurable number of general purpose registers (ga, gb, ...). A general
// purpose register may be addressed by section: gaa is all of ga, gab its
// low half and gac its high half.
//
// Programs are plain text, one instruction per line:
//
//	OPCODE [ARG1] [ARG2] [ARG3]
//
// Lines starting with '#' are comments and lines starting with '.' declare
// labels. The processor reinterprets the text on every cycle through its
// Fetch, Decode and Execute stages.
package cpu
