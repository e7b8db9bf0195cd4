// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/rize/word"
)

// Register names.
const (
	REG_PC  = "pc"  // Program counter, in source lines.
	REG_MAR = "mar" // Memory address register.
	REG_MDR = "mdr" // Memory data register.

	FLAG_ZERO     = "zf"
	FLAG_NEGATIVE = "nf"
	FLAG_CARRY    = "cf"
	FLAG_OVERFLOW = "of"

	GP_PREFIX = "g" // General purpose registers are ga, gb, ...
	GP_MAX    = 26
)

// ErrGpCount is an unsupported general purpose register count.
type ErrGpCount int

func (err ErrGpCount) Error() string {
	return f("%d general purpose registers requested, 1 to %d supported", int(err), GP_MAX)
}

// Registers is the register file. Names are case insensitive.
type Registers struct {
	byName map[string]*Register
	order  []string
}

// NewRegisters returns an empty register file.
func NewRegisters() *Registers {
	return &Registers{
		byName: make(map[string]*Register),
	}
}

// Setup populates the machine registers: pc, mar and mdr at the word
// width, the four flags, and gp general purpose registers.
func (regs *Registers) Setup(width word.Width, gp int) (err error) {
	if gp < 1 || gp > GP_MAX {
		err = ErrGpCount(gp)
		return
	}

	for _, name := range []string{REG_PC, REG_MAR, REG_MDR} {
		regs.Insert(NewRegister(name, width))
	}

	for _, name := range []string{FLAG_ZERO, FLAG_NEGATIVE, FLAG_CARRY, FLAG_OVERFLOW} {
		regs.Insert(NewRegister(name, word.WIDTH_FLAG))
	}

	for n := range gp {
		regs.Insert(NewRegister(GP_PREFIX+string(rune('a'+n)), width))
	}

	return
}

// Insert adds a register, replacing any register of the same name.
func (regs *Registers) Insert(reg *Register) {
	if regs.byName == nil {
		regs.byName = make(map[string]*Register)
	}

	name := strings.ToLower(reg.Name)
	reg.Name = name
	if _, ok := regs.byName[name]; !ok {
		regs.order = append(regs.order, name)
	}
	regs.byName[name] = reg
}

// Len is the number of registers.
func (regs *Registers) Len() int {
	return len(regs.order)
}

// Register returns a register by its exact name.
func (regs *Registers) Register(name string) (reg *Register, ok bool) {
	reg, ok = regs.byName[strings.ToLower(name)]
	return
}

// Get resolves a register name to a view.
// A three letter general purpose name, such as "gab", selects a section
// of the register named by its first two letters: a for the full width,
// b for the low half, c for the high half.
func (regs *Registers) Get(name string) (view View, ok bool) {
	name = strings.ToLower(name)

	if reg, found := regs.byName[name]; found {
		view = View{Register: reg, Section: SECTION_FULL}
		ok = true
		return
	}

	if len(name) == 3 && strings.HasPrefix(name, GP_PREFIX) {
		reg, found := regs.byName[name[:2]]
		section, valid := ParseSection(name[2])
		if found && valid {
			_, halves := reg.Width().Half()
			if section == SECTION_FULL || halves {
				view = View{Register: reg, Section: section}
				ok = true
				return
			}
		}
	}

	log.WithField("register", name).Debug("register not found")
	return
}

// All registers, in setup order.
func (regs *Registers) All() iter.Seq2[string, *Register] {
	return func(yield func(string, *Register) bool) {
		for _, name := range regs.order {
			if !yield(name, regs.byName[name]) {
				return
			}
		}
	}
}

// Values of all registers, in setup order.
func (regs *Registers) Values() iter.Seq2[string, word.Value] {
	return func(yield func(string, word.Value) bool) {
		for name, reg := range regs.All() {
			if !yield(name, reg.Read()) {
				return
			}
		}
	}
}

// Snapshot copies every register value.
func (regs *Registers) Snapshot() (values map[string]word.Value) {
	values = make(map[string]word.Value, len(regs.order))
	for name, value := range regs.Values() {
		values[name] = value
	}
	return
}

// Reset zeroes every register.
func (regs *Registers) Reset() {
	for _, reg := range regs.All() {
		reg.Write(word.Zero(reg.Width()))
	}
}

// String dumps the register file, one register per line.
func (regs *Registers) String() (text string) {
	for name, value := range regs.Values() {
		text += fmt.Sprintf("% 5s: %v\n", name, value)
	}
	return
}
