// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/rize/internal"
	"github.com/ezrec/rize/word"
)

// PixelStore receives pixel writes from the WDM instruction.
type PixelStore interface {
	SetPixel(x, y uint8, color [4]uint8) error
}

// Cpu is the Rize-1 processor: register file, memory, the loaded program
// and the stage functions that advance it.
type Cpu struct {
	Verbose bool // Set to enable per-stage trace logging.

	Width   word.Width // Machine word width.
	GpCount int        // Number of general purpose registers.

	Registers *Registers
	Memory    *Memory
	Program   *Program
	Display   PixelStore // Target of WDM; may be nil.
}

// NewCpu creates a CPU. The register file stays empty until Setup.
func NewCpu(width word.Width, gp int, capacity uint64) (cpu *Cpu) {
	cpu = &Cpu{
		Width:     width,
		GpCount:   gp,
		Registers: NewRegisters(),
		Memory:    NewMemory(width, capacity),
	}

	return
}

// Setup populates the register file if it is empty.
func (cpu *Cpu) Setup() (err error) {
	if cpu.Registers.Len() != 0 {
		return
	}

	if cpu.Verbose {
		log.WithFields(log.Fields{"width": cpu.Width, "gp": cpu.GpCount}).Info("cpu: setup registers")
	}

	err = cpu.Registers.Setup(cpu.Width, cpu.GpCount)
	return tag(KIND_REGISTER_WRITE, err)
}

// Reset zeroes registers and memory, and forgets the decoded instruction.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Info("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.Memory.Reset()
	if cpu.Program != nil {
		cpu.Program.Current = Instruction{}
	}
}

// Load replaces the program and resets the machine.
func (cpu *Cpu) Load(prog *Program) {
	cpu.Program = prog
	cpu.Reset()
}

func (cpu *Cpu) register(name string, kind ErrKind) (view View, err error) {
	view, ok := cpu.Registers.Get(name)
	if !ok {
		err = &Error{Kind: kind, Err: ErrRegisterUnknown(name)}
	}
	return
}

func (cpu *Cpu) setFlag(name string, set bool) (err error) {
	view, err := cpu.register(name, KIND_REGISTER_WRITE)
	if err != nil {
		return
	}

	view.Write(word.Flag(set))
	return
}

func (cpu *Cpu) flag(name string) (set bool, err error) {
	view, err := cpu.register(name, KIND_REGISTER_READ)
	if err != nil {
		return
	}

	set = view.Read().Bool()
	return
}

// lineLimit is the highest line number the program counter can hold.
func (cpu *Cpu) lineLimit() (limit uint64, ok bool) {
	bits := cpu.Width.Bits()
	if bits >= 64 {
		return
	}

	limit = 1<<bits - 1
	ok = true
	return
}

// Fetch captures the next instruction line at the program counter.
// Blank, comment and label lines are skipped, advancing the counter for
// each. Running off the end of the text requests a halt. A program with
// more lines than the counter can hold is rejected.
func (cpu *Cpu) Fetch() (halt bool, err error) {
	defer func() {
		err = tag(KIND_FETCH, err)
	}()

	prog := cpu.Program
	if prog == nil {
		err = ErrProgramMissing
		return
	}

	if limit, ok := cpu.lineLimit(); ok && uint64(prog.LineCount()) > limit {
		err = ErrProgramLength{Lines: prog.LineCount(), Limit: limit}
		return
	}

	pc, err := cpu.register(REG_PC, KIND_REGISTER_READ)
	if err != nil {
		return
	}

	offset := pc.Read().Uint64()
	for {
		if offset >= uint64(prog.LineCount()) {
			if cpu.Verbose {
				log.WithField("pc", offset).Info("fetch: end of program")
			}
			halt = true
			return
		}

		line, _ := prog.Line(int(offset) + 1)
		offset++
		pc.Write(word.New(cpu.Width, offset))

		if Skipped(line) {
			continue
		}

		prog.Current = Instruction{
			LineNo: int(offset),
			Text:   strings.TrimSpace(line),
		}

		if cpu.Verbose {
			log.WithFields(log.Fields{"pc": offset, "line": prog.Current.Text}).Info("fetch")
		}
		return
	}
}

// Decode splits the fetched line into an opcode and operands, classifies
// each operand, and resolves registers, immediates and memory addresses
// to values. Symbols are left for Execute.
func (cpu *Cpu) Decode() (err error) {
	defer func() {
		err = tag(KIND_DECODE, err)
	}()

	prog := cpu.Program
	if prog == nil {
		err = ErrProgramMissing
		return
	}

	inst := &prog.Current
	words := Tokenize(inst.Text)
	if len(words) == 0 {
		err = ErrOpcodeMissing
		return
	}

	inst.Keyword = words[0]
	inst.OpCode = ParseOpCode(words[0])
	inst.Args = [3]Operand{}

	operands := words[1:]
	least, most := inst.OpCode.Arity()
	if len(operands) > most {
		err = ErrOpcodeExtraArgs
		return
	}
	if len(operands) < least {
		err = ErrOperand{Slot: len(operands), Err: ErrOperandMissing}
		return
	}

	for n, text := range operands {
		arg := Classify(text)
		if arg.Type == ARG_MALFORMED {
			err = ErrOperand{Slot: n, Text: text, Err: ErrOperandMalformed}
			return
		}

		err = cpu.resolve(&arg)
		if err != nil {
			return
		}
		inst.Args[n] = arg
	}

	if cpu.Verbose {
		log.WithFields(log.Fields{"line": inst.LineNo, "opcode": inst.OpCode, "args": operands}).Info("decode")
	}

	return
}

// resolve reads the value of a register, immediate or memory operand.
func (cpu *Cpu) resolve(arg *Operand) (err error) {
	switch arg.Type {
	case ARG_REGISTER:
		var view View
		view, err = cpu.register(arg.Name, KIND_REGISTER_READ)
		if err != nil {
			return
		}
		arg.Value = view.Read()
	case ARG_IMMEDIATE:
		arg.Value = word.FromUint256(cpu.Width, &arg.Number)
	case ARG_MEMADDR:
		arg.Value, err = cpu.Memory.Read(arg.Address)
		if err != nil {
			return
		}
	default:
		return
	}

	arg.Resolved = true
	return
}

// State yields every register followed by every written memory cell.
func (cpu *Cpu) State() iter.Seq2[string, word.Value] {
	var cells iter.Seq2[string, word.Value] = func(yield func(string, word.Value) bool) {
		for addr, value := range cpu.Memory.All() {
			if !yield(fmt.Sprintf("[0x%04x]", addr), value) {
				return
			}
		}
	}

	return internal.IterSeq2Concat(cpu.Registers.Values(), cells)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	for name, value := range cpu.State() {
		text += fmt.Sprintf("% 8s: %v\n", name, value)
	}

	return
}
