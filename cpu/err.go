package cpu

import (
	"errors"

	"github.com/ezrec/lc3/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted        = errors.New(f("halted"))
	ErrInvalidOpcode = errors.New(f("invalid opcode"))
	ErrIO            = errors.New(f("console i/o"))
	ErrPcOutOfBounds = errors.New(f("pc out of bounds"))

	// Image errors
	ErrMalformedImage = errors.New(f("malformed image"))
)

// ErrRegisterIndex is an access to a register outside the register file.
type ErrRegisterIndex Register

func (er ErrRegisterIndex) Error() string {
	return f("register index %d out of bounds", int(er))
}

// ErrOpcode locates a failing instruction.
type ErrOpcode struct {
	Pc   uint16 // Address of the instruction.
	Code Code
	Err  error
}

func (eo *ErrOpcode) Error() string {
	return f("pc 0x%04x: 0x%04x (%v): %v", eo.Pc, eo.Code.Word, eo.Code.Opcode(), eo.Err)
}

func (eo *ErrOpcode) Unwrap() error {
	return eo.Err
}

// ErrImage reports an image that could not be parsed.
type ErrImage struct {
	Offset int // Byte offset of the problem.
	Err    error
}

func (ei *ErrImage) Error() string {
	return f("offset %d: %v", ei.Offset, ei.Err)
}

func (ei *ErrImage) Unwrap() error {
	return ei.Err
}
