// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"iter"
	"maps"
	"slices"
	"sync"

	"github.com/ezrec/rize/word"
)

// Memory is a bounds checked, sparse array of cells.
// Cells are created on first access; unwritten addresses read as zero.
type Memory struct {
	mutex    sync.RWMutex
	width    word.Width
	capacity uint64
	cells    map[uint64]*Cell
}

// NewMemory creates a memory of capacity cells of the given width.
func NewMemory(width word.Width, capacity uint64) *Memory {
	return &Memory{
		width:    width,
		capacity: capacity,
		cells:    make(map[uint64]*Cell),
	}
}

// Capacity is the number of addressable cells.
func (mem *Memory) Capacity() uint64 {
	return mem.capacity
}

// Width of every cell.
func (mem *Memory) Width() word.Width {
	return mem.width
}

func (mem *Memory) check(addr uint64) (err error) {
	if addr >= mem.capacity {
		err = ErrAddressRange{Address: addr, Capacity: mem.capacity}
	}
	return
}

// Cell returns the cell at addr, creating it if needed.
func (mem *Memory) Cell(addr uint64) (cell *Cell, err error) {
	err = mem.check(addr)
	if err != nil {
		return
	}

	mem.mutex.RLock()
	cell, ok := mem.cells[addr]
	mem.mutex.RUnlock()
	if ok {
		return
	}

	mem.mutex.Lock()
	defer mem.mutex.Unlock()

	cell, ok = mem.cells[addr]
	if !ok {
		cell = NewCell(mem.width)
		mem.cells[addr] = cell
	}
	return
}

// Read the value at addr.
func (mem *Memory) Read(addr uint64) (value word.Value, err error) {
	err = mem.check(addr)
	if err != nil {
		err = &Error{Kind: KIND_MEMORY_READ, Err: err}
		return
	}

	mem.mutex.RLock()
	cell, ok := mem.cells[addr]
	mem.mutex.RUnlock()
	if !ok {
		value = word.Zero(mem.width)
		return
	}

	value = cell.Read()
	return
}

// Write value at addr, returning the previous value.
func (mem *Memory) Write(addr uint64, value word.Value) (previous word.Value, err error) {
	cell, err := mem.Cell(addr)
	if err != nil {
		err = &Error{Kind: KIND_MEMORY_WRITE, Err: err}
		return
	}

	previous = cell.Write(value)
	return
}

// All yields every materialized cell's value in address order.
func (mem *Memory) All() iter.Seq2[uint64, word.Value] {
	mem.mutex.RLock()
	addrs := slices.Sorted(maps.Keys(mem.cells))
	mem.mutex.RUnlock()

	return func(yield func(uint64, word.Value) bool) {
		for _, addr := range addrs {
			mem.mutex.RLock()
			cell, ok := mem.cells[addr]
			mem.mutex.RUnlock()
			if !ok {
				continue
			}
			if !yield(addr, cell.Read()) {
				return
			}
		}
	}
}

// Reset drops every cell.
func (mem *Memory) Reset() {
	mem.mutex.Lock()
	defer mem.mutex.Unlock()

	clear(mem.cells)
}
