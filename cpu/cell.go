// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"sync"

	"github.com/ezrec/rize/word"
)

// OpResult reports a flagged cell mutation.
type OpResult struct {
	Previous word.Value // Value before the operation.
	Result   word.Value // Value stored by the operation.
	Carry    bool       // Carry (add) or borrow (sub) out of the width.
}

// UpdateFunc computes a new value from the current one.
type UpdateFunc func(current word.Value) (next word.Value, carry bool, err error)

// Location is anything an instruction can read and write: a register
// section or a memory cell.
type Location interface {
	Read() word.Value
	Write(v word.Value) (previous word.Value)
	Update(fn UpdateFunc) (result OpResult, err error)
}

// Cell holds one value of a fixed width.
// Readers may run concurrently with each other; mutation is exclusive.
type Cell struct {
	mutex sync.RWMutex
	value word.Value
}

var _ Location = &Cell{}

// NewCell creates a zeroed cell of the given width.
func NewCell(width word.Width) *Cell {
	return &Cell{value: word.Zero(width)}
}

// Width of the cell.
func (cell *Cell) Width() word.Width {
	cell.mutex.RLock()
	defer cell.mutex.RUnlock()

	return cell.value.Width()
}

// Read the value.
func (cell *Cell) Read() word.Value {
	cell.mutex.RLock()
	defer cell.mutex.RUnlock()

	return cell.value
}

// Write v, resized to the cell width, and return the previous value.
func (cell *Cell) Write(v word.Value) (previous word.Value) {
	cell.mutex.Lock()
	defer cell.mutex.Unlock()

	previous = cell.value
	cell.value = v.Resize(previous.Width())
	return
}

// Update replaces the value with fn's result, atomically.
// On error the cell is left untouched.
func (cell *Cell) Update(fn UpdateFunc) (result OpResult, err error) {
	cell.mutex.Lock()
	defer cell.mutex.Unlock()

	result.Previous = cell.value
	next, carry, err := fn(cell.value)
	if err != nil {
		result.Result = cell.value
		return
	}

	cell.value = next.Resize(cell.value.Width())
	result.Result = cell.value
	result.Carry = carry
	return
}

func (cell *Cell) flagged(fn func(current word.Value) (word.Value, bool)) OpResult {
	result, _ := cell.Update(func(current word.Value) (next word.Value, carry bool, err error) {
		next, carry = fn(current)
		return
	})
	return result
}

func (cell *Cell) plain(fn func(current word.Value) word.Value) OpResult {
	return cell.flagged(func(current word.Value) (word.Value, bool) {
		return fn(current), false
	})
}

func (cell *Cell) Add(v word.Value) OpResult {
	return cell.flagged(func(current word.Value) (word.Value, bool) { return current.Add(v) })
}

func (cell *Cell) Sub(v word.Value) OpResult {
	return cell.flagged(func(current word.Value) (word.Value, bool) { return current.Sub(v) })
}

func (cell *Cell) Mul(v word.Value) OpResult {
	return cell.plain(func(current word.Value) word.Value { return current.Mul(v) })
}

// Div fails with word.ErrDivideByZero, leaving the cell unchanged.
func (cell *Cell) Div(v word.Value) (OpResult, error) {
	return cell.Update(func(current word.Value) (next word.Value, carry bool, err error) {
		next, err = current.Div(v)
		return
	})
}

func (cell *Cell) And(v word.Value) OpResult {
	return cell.plain(func(current word.Value) word.Value { return current.And(v) })
}

func (cell *Cell) Or(v word.Value) OpResult {
	return cell.plain(func(current word.Value) word.Value { return current.Or(v) })
}

func (cell *Cell) Xor(v word.Value) OpResult {
	return cell.plain(func(current word.Value) word.Value { return current.Xor(v) })
}

func (cell *Cell) Not() OpResult {
	return cell.plain(func(current word.Value) word.Value { return current.Not() })
}

func (cell *Cell) Shl(count word.Value) OpResult {
	return cell.plain(func(current word.Value) word.Value { return current.Shl(count) })
}

func (cell *Cell) Shr(count word.Value) OpResult {
	return cell.plain(func(current word.Value) word.Value { return current.Shr(count) })
}
