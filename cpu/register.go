package cpu

import (
	"fmt"
	"strings"
)

// Register identifies a cell of the register file.
type Register int

const (
	R0   = Register(0)
	R1   = Register(1)
	R2   = Register(2)
	R3   = Register(3)
	R4   = Register(4)
	R5   = Register(5)
	R6   = Register(6)
	R7   = Register(7)
	PC   = Register(8) // Program counter.
	COND = Register(9) // Condition flags.

	REGISTER_COUNT = 10
)

var registerName = [REGISTER_COUNT]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7", "pc", "cond",
}

func (r Register) String() string {
	if r < 0 || r >= REGISTER_COUNT {
		return fmt.Sprintf("Register(%d)", int(r))
	}
	return registerName[r]
}

// Flag is a set of condition flags. COND always holds exactly one of
// FL_POS, FL_ZRO or FL_NEG; a branch mask may hold any combination.
type Flag uint16

const (
	FL_POS = Flag(1 << 0) // p
	FL_ZRO = Flag(1 << 1) // z
	FL_NEG = Flag(1 << 2) // n
)

func (fl Flag) String() string {
	var sb strings.Builder
	if fl&FL_NEG != 0 {
		sb.WriteByte('n')
	}
	if fl&FL_ZRO != 0 {
		sb.WriteByte('z')
	}
	if fl&FL_POS != 0 {
		sb.WriteByte('p')
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// FlagOf returns the condition flag describing value.
func FlagOf(value uint16) Flag {
	switch {
	case value == 0:
		return FL_ZRO
	case value>>15 != 0:
		return FL_NEG
	default:
		return FL_POS
	}
}

// RegisterFile is the general registers, program counter and condition
// flags.
type RegisterFile [REGISTER_COUNT]uint16

// Get returns the value of a register.
func (rf *RegisterFile) Get(r Register) (value uint16, err error) {
	if r < 0 || r >= REGISTER_COUNT {
		err = ErrRegisterIndex(r)
		return
	}
	value = rf[r]
	return
}

// Set stores a value into a register.
func (rf *RegisterFile) Set(r Register, value uint16) (err error) {
	if r < 0 || r >= REGISTER_COUNT {
		err = ErrRegisterIndex(r)
		return
	}
	rf[r] = value
	return
}

// UpdateFlags sets COND from the value of register r.
func (rf *RegisterFile) UpdateFlags(r Register) (err error) {
	value, err := rf.Get(r)
	if err != nil {
		return
	}
	rf[COND] = uint16(FlagOf(value))
	return
}

// Cond returns the current condition flags.
func (rf *RegisterFile) Cond() Flag {
	return Flag(rf[COND])
}

// Reset clears all registers, then sets PC to entry and COND to FL_ZRO.
func (rf *RegisterFile) Reset(entry uint16) {
	clear(rf[:])
	rf[PC] = entry
	rf[COND] = uint16(FL_ZRO)
}

// String returns the register file as a string.
func (rf *RegisterFile) String() (text string) {
	for r := R0; r <= R7; r++ {
		text += fmt.Sprintf("% 5s: 0x%04X\n", r, rf[r])
	}
	text += fmt.Sprintf("% 5s: 0x%04X\n", PC, rf[PC])
	text += fmt.Sprintf("% 5s: %v\n", COND, rf.Cond())
	return
}
