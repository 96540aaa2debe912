// Package cpu implements the LC-3 processor.
//
// The CPU consists of eight 16-bit general-purpose registers (r0-r7), a
// program counter, and a condition register holding exactly one of the
// negative, zero or positive flags. Memory is 64K words; the keyboard is
// memory-mapped at MR_KBSR and MR_KBDR, and console services are reached
// through the TRAP instruction.
//
// Images are a big-endian origin word followed by big-endian program words.
package cpu
