// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"github.com/ezrec/rize/word"
)

// Section selects which bits of a general purpose register a name addresses.
type Section int

//go:generate go tool stringer -linecomment -type=Section
const (
	SECTION_FULL = Section(0) // a
	SECTION_LOW  = Section(1) // b
	SECTION_HIGH = Section(2) // c
)

// ParseSection maps a section suffix letter to its Section.
func ParseSection(letter byte) (section Section, ok bool) {
	section = Section(letter - 'a')
	ok = section >= SECTION_FULL && section <= SECTION_HIGH
	return
}

// Register is a named cell. Registers are created at setup and never removed.
type Register struct {
	Name string
	*Cell
}

// NewRegister creates a zeroed register.
func NewRegister(name string, width word.Width) *Register {
	return &Register{
		Name: name,
		Cell: NewCell(width),
	}
}

// View addresses one section of a register. Every view of a register
// shares the register's cell.
type View struct {
	Register *Register
	Section  Section
}

var _ Location = View{}

// Width of the bits the view reads and writes.
func (view View) Width() word.Width {
	width := view.Register.Width()
	if view.Section == SECTION_FULL {
		return width
	}

	half, _ := width.Half()
	return half
}

// Name of the view, including the section suffix if any.
func (view View) Name() string {
	if view.Section == SECTION_FULL {
		return view.Register.Name
	}
	return view.Register.Name + view.Section.String()
}

func (view View) halves(full word.Value) (half word.Width, shift, lowMask word.Value) {
	half, _ = full.Width().Half()
	shift = word.New(full.Width(), uint64(half.Bits()))
	lowMask = word.Zero(half).Not().Resize(full.Width())
	return
}

func (view View) extract(full word.Value) word.Value {
	switch view.Section {
	case SECTION_LOW:
		half, _, _ := view.halves(full)
		return full.Resize(half)
	case SECTION_HIGH:
		half, shift, _ := view.halves(full)
		return full.Shr(shift).Resize(half)
	}

	return full
}

func (view View) merge(full word.Value, part word.Value) word.Value {
	switch view.Section {
	case SECTION_LOW:
		half, _, lowMask := view.halves(full)
		return full.And(lowMask.Not()).Or(part.Resize(half).Resize(full.Width()))
	case SECTION_HIGH:
		half, shift, lowMask := view.halves(full)
		return full.And(lowMask).Or(part.Resize(half).Resize(full.Width()).Shl(shift))
	}

	return part
}

// Read the viewed bits.
func (view View) Read() word.Value {
	return view.extract(view.Register.Read())
}

// Write the viewed bits, leaving the rest of the register alone.
func (view View) Write(v word.Value) (previous word.Value) {
	result, _ := view.Update(func(word.Value) (word.Value, bool, error) {
		return v, false, nil
	})
	return result.Previous
}

// Update the viewed bits atomically with respect to the whole register.
func (view View) Update(fn UpdateFunc) (result OpResult, err error) {
	result, err = view.Register.Update(func(full word.Value) (next word.Value, carry bool, err error) {
		part, carry, err := fn(view.extract(full))
		if err != nil {
			return
		}
		next = view.merge(full, part)
		return
	})

	result.Previous = view.extract(result.Previous)
	result.Result = view.extract(result.Result)
	return
}
