package cpu

import (
	"errors"
	"iter"
)

const (
	MEMORY_SIZE = 1 << 16 // Words of addressable memory.

	MR_KBSR = uint16(0xFE00) // Keyboard status, bit 15 set when a character is ready.
	MR_KBDR = uint16(0xFE02) // Keyboard data, low 8 bits hold the last character.

	KBSR_READY = uint16(1 << 15)
)

// Keyboard is the input side of the console.
type Keyboard interface {
	// Ready reports whether ReadByte would return without blocking.
	// Ready itself must never block.
	Ready() (ok bool, err error)
	// ReadByte blocks until a character is available.
	ReadByte() (c byte, err error)
}

// Memory is the 64K word address space with the memory-mapped keyboard
// registers.
type Memory struct {
	Keyboard Keyboard // Source polled by reads of MR_KBSR.

	cell [MEMORY_SIZE]uint16
}

// Reset zeros all of memory.
func (mem *Memory) Reset() {
	clear(mem.cell[:])
}

// Read returns the word at addr.
//
// Reading MR_KBSR polls the keyboard without blocking. When a character is
// available it is consumed into MR_KBDR and KBSR_READY is set, otherwise
// MR_KBSR is cleared.
func (mem *Memory) Read(addr uint16) (value uint16, err error) {
	if addr == MR_KBSR {
		err = mem.pollKeyboard()
		if err != nil {
			return
		}
	}

	value = mem.cell[addr]
	return
}

func (mem *Memory) pollKeyboard() (err error) {
	mem.cell[MR_KBSR] = 0

	if mem.Keyboard == nil {
		return
	}

	ready, err := mem.Keyboard.Ready()
	if err != nil {
		err = errors.Join(ErrIO, err)
		return
	}
	if !ready {
		return
	}

	c, err := mem.Keyboard.ReadByte()
	if err != nil {
		err = errors.Join(ErrIO, err)
		return
	}

	mem.cell[MR_KBSR] = KBSR_READY
	mem.cell[MR_KBDR] = uint16(c)
	return
}

// Write stores value at addr.
func (mem *Memory) Write(addr uint16, value uint16) {
	mem.cell[addr] = value
}

// Load stores words starting at origin, wrapping past 0xFFFF.
func (mem *Memory) Load(origin uint16, words []uint16) {
	addr := origin
	for _, word := range words {
		mem.cell[addr] = word
		addr++
	}
}

// Peek returns the word at addr without device side effects.
func (mem *Memory) Peek(addr uint16) uint16 {
	return mem.cell[addr]
}

// Dump returns an iterator over count words starting at from.
func (mem *Memory) Dump(from uint16, count int) iter.Seq2[uint16, uint16] {
	return func(yield func(addr uint16, value uint16) bool) {
		addr := from
		for range count {
			if !yield(addr, mem.cell[addr]) {
				return
			}
			addr++
		}
	}
}
