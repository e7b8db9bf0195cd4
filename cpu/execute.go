// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/rize/word"
)

// Execute runs the decoded instruction. A HALT instruction requests a halt.
// On error no further register or memory state is changed.
func (cpu *Cpu) Execute() (halt bool, err error) {
	defer func() {
		err = tag(KIND_EXECUTE, err)
	}()

	prog := cpu.Program
	if prog == nil {
		err = ErrProgramMissing
		return
	}

	inst := &prog.Current

	if cpu.Verbose {
		log.WithFields(log.Fields{"line": inst.LineNo, "opcode": inst.OpCode}).Info("execute")
	}

	switch inst.OpCode {
	case OP_NOP:
	case OP_HALT:
		halt = true
	case OP_MOV:
		err = cpu.doMove(inst)
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_AND, OP_OR, OP_XOR, OP_NOT, OP_SHL, OP_SHR:
		err = cpu.doAlu(inst)
	case OP_LD:
		err = cpu.doLoad(inst)
	case OP_ST:
		err = cpu.doStore(inst)
	case OP_SWP:
		err = cpu.doSwap(inst)
	case OP_WDM:
		err = cpu.doWdm(inst)
	case OP_JMP, OP_JIZ, OP_JIN:
		err = cpu.doJump(inst)
	default:
		err = ErrOpcodeUnknown(inst.Keyword)
	}

	return
}

// value returns the resolved value of an operand slot.
func (cpu *Cpu) value(inst *Instruction, slot int) (value word.Value, err error) {
	arg := &inst.Args[slot]
	if !arg.Resolved {
		if arg.Type == ARG_NONE {
			err = ErrOperand{Slot: slot, Text: arg.Text, Err: ErrOperandMissing}
		} else {
			err = ErrOperand{Slot: slot, Text: arg.Text, Err: ErrOperandInvalid}
		}
		return
	}

	value = arg.Value
	return
}

// location returns the register section or memory cell an operand names.
func (cpu *Cpu) location(inst *Instruction, slot int) (loc Location, err error) {
	arg := &inst.Args[slot]
	switch arg.Type {
	case ARG_REGISTER:
		loc, err = cpu.register(arg.Name, KIND_REGISTER_WRITE)
	case ARG_MEMADDR:
		loc, err = cpu.Memory.Cell(arg.Address)
		err = tag(KIND_MEMORY_WRITE, err)
	default:
		err = ErrOperand{Slot: slot, Text: arg.Text, Err: ErrTargetInvalid}
	}
	return
}

// address converts a value to a memory address. Values that do not fit
// in 64 bits map to an address that is always out of range.
func address(value word.Value) uint64 {
	if !value.Uint256().IsUint64() {
		return math.MaxUint64
	}
	return value.Uint64()
}

// targetSlot picks the destination operand: the third operand if it is a
// register, else (for NOT) the second if it is a register, else the first.
func targetSlot(inst *Instruction) (slot int, err error) {
	args := &inst.Args

	switch {
	case args[2].Type == ARG_REGISTER:
		slot = 2
	case args[2].Type != ARG_NONE:
		err = ErrOperand{Slot: 2, Text: args[2].Text, Err: ErrTargetInvalid}
	case inst.OpCode != OP_NOT:
	case args[1].Type == ARG_REGISTER:
		slot = 1
	case args[1].Type != ARG_NONE:
		err = ErrOperand{Slot: 1, Text: args[1].Text, Err: ErrTargetInvalid}
	}

	return
}

func (cpu *Cpu) doMove(inst *Instruction) (err error) {
	src, err := cpu.value(inst, 1)
	if err != nil {
		return
	}

	dst, err := cpu.location(inst, 0)
	if err != nil {
		return
	}

	dst.Write(src)
	return
}

func (cpu *Cpu) doAlu(inst *Instruction) (err error) {
	slot, err := targetSlot(inst)
	if err != nil {
		return
	}

	target, err := cpu.location(inst, slot)
	if err != nil {
		return
	}

	a, err := cpu.value(inst, 0)
	if err != nil {
		return
	}

	var b word.Value
	if inst.OpCode != OP_NOT {
		b, err = cpu.value(inst, 1)
		if err != nil {
			return
		}
	}

	var overflow bool
	result, err := target.Update(func(current word.Value) (next word.Value, carry bool, err error) {
		if slot == 0 {
			a = current
		}

		switch inst.OpCode {
		case OP_ADD, OP_SUB:
			next, carry, overflow = carried(inst.OpCode, a, b, current.Width())
		case OP_MUL:
			next = a.Mul(b)
		case OP_DIV:
			next, err = a.Div(b)
		case OP_AND:
			next = a.And(b)
		case OP_OR:
			next = a.Or(b)
		case OP_XOR:
			next = a.Xor(b)
		case OP_NOT:
			next = a.Not()
		case OP_SHL:
			next = a.Shl(b)
		case OP_SHR:
			next = a.Shr(b)
		}

		return
	})
	if err != nil {
		return
	}

	return cpu.updateFlags(result, overflow)
}

// carried adds or subtracts at a width that holds both operands and the
// destination. Carry is set when an add does not fit the destination, or
// when a subtract borrows. Overflow is judged at the destination width.
func carried(op OpCode, a, b word.Value, dest word.Width) (r word.Value, carry bool, overflow bool) {
	width := max(a.Width(), b.Width(), dest)
	wa, wb := a.Resize(width), b.Resize(width)

	da, db := a.Resize(dest), b.Resize(dest)
	if op == OP_SUB {
		r, carry = wa.Sub(wb)
		overflow = word.SubOverflow(da, db, r.Resize(dest))
		return
	}

	r, carry = wa.Add(wb)
	carry = carry || !r.Equal(r.Resize(dest).Resize(width))
	overflow = word.AddOverflow(da, db, r.Resize(dest))
	return
}

// updateFlags sets zero and negative from the stored result, and carry
// and overflow as computed by the operation.
func (cpu *Cpu) updateFlags(result OpResult, overflow bool) (err error) {
	flags := []struct {
		name string
		set  bool
	}{
		{FLAG_ZERO, result.Result.IsZero()},
		{FLAG_NEGATIVE, result.Result.Msb()},
		{FLAG_CARRY, result.Carry},
		{FLAG_OVERFLOW, overflow},
	}

	for _, flag := range flags {
		err = cpu.setFlag(flag.name, flag.set)
		if err != nil {
			return
		}
	}

	return
}

// doLoad is LD: with no operands mdr <- mem[mar], else dst <- mem[addr].
func (cpu *Cpu) doLoad(inst *Instruction) (err error) {
	var dst Location
	var addr word.Value

	if inst.Args[0].Type == ARG_NONE {
		var mar View
		mar, err = cpu.register(REG_MAR, KIND_REGISTER_READ)
		if err != nil {
			return
		}
		addr = mar.Read()
		dst, err = cpu.register(REG_MDR, KIND_REGISTER_WRITE)
	} else {
		addr, err = cpu.value(inst, 1)
		if err != nil {
			return
		}
		dst, err = cpu.location(inst, 0)
	}
	if err != nil {
		return
	}

	value, err := cpu.Memory.Read(address(addr))
	if err != nil {
		return
	}

	dst.Write(value)
	return
}

// doStore is ST: with no operands mem[mar] <- mdr, else mem[addr] <- value.
func (cpu *Cpu) doStore(inst *Instruction) (err error) {
	var addr, value word.Value

	if inst.Args[0].Type == ARG_NONE {
		var mar, mdr View
		mar, err = cpu.register(REG_MAR, KIND_REGISTER_READ)
		if err != nil {
			return
		}
		mdr, err = cpu.register(REG_MDR, KIND_REGISTER_READ)
		if err != nil {
			return
		}
		addr = mar.Read()
		value = mdr.Read()
	} else {
		addr, err = cpu.value(inst, 0)
		if err != nil {
			return
		}
		value, err = cpu.value(inst, 1)
		if err != nil {
			return
		}
	}

	_, err = cpu.Memory.Write(address(addr), value)
	return
}

func (cpu *Cpu) doSwap(inst *Instruction) (err error) {
	a, err := cpu.location(inst, 0)
	if err != nil {
		return
	}

	b, err := cpu.location(inst, 1)
	if err != nil {
		return
	}

	va := a.Read()
	a.Write(b.Read())
	b.Write(va)
	return
}

// doWdm is WDM rg ba xy: each operand packs two bytes, high byte first.
func (cpu *Cpu) doWdm(inst *Instruction) (err error) {
	var packed [3]uint64
	for n := range packed {
		var value word.Value
		value, err = cpu.value(inst, n)
		if err != nil {
			return
		}
		packed[n] = value.Uint64()
	}

	if cpu.Display == nil {
		err = &Error{Kind: KIND_DISPLAY, Err: ErrDisplayMissing}
		return
	}

	hi := func(v uint64) uint8 { return uint8(v >> 8) }
	lo := func(v uint64) uint8 { return uint8(v) }

	color := [4]uint8{hi(packed[0]), lo(packed[0]), hi(packed[1]), lo(packed[1])}
	err = cpu.Display.SetPixel(hi(packed[2]), lo(packed[2]), color)
	return tag(KIND_DISPLAY, err)
}

// doJump is JMP, JIZ and JIN: pc <- the label's line, if taken.
func (cpu *Cpu) doJump(inst *Instruction) (err error) {
	arg := &inst.Args[0]
	if arg.Type != ARG_SYMBOL {
		err = ErrOperand{Slot: 0, Text: arg.Text, Err: ErrOperandInvalid}
		return
	}

	lineno, ok := cpu.Program.Label(arg.Name)
	if !ok {
		err = ErrLabelMissing(arg.Name)
		return
	}

	taken := true
	switch inst.OpCode {
	case OP_JIZ:
		taken, err = cpu.flag(FLAG_ZERO)
	case OP_JIN:
		taken, err = cpu.flag(FLAG_NEGATIVE)
	}
	if err != nil || !taken {
		return
	}

	pc, err := cpu.register(REG_PC, KIND_REGISTER_WRITE)
	if err != nil {
		return
	}

	pc.Write(word.New(cpu.Width, uint64(lineno)))
	return
}
