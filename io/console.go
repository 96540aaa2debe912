// Package io provides console devices for the LC-3 emulator: a keyboard that
// can be polled without blocking, and a buffered display.
package io

import (
	"bufio"
	"io"
	"os"

	"github.com/ezrec/lc3/cpu"
	"github.com/ezrec/lc3/term"
)

// Poller is implemented by inputs that can report pending input without
// blocking, such as a terminal.
type Poller interface {
	Poll() (ready bool, err error)
}

// Console adapts an io.Reader and io.Writer to the CPU keyboard and display.
//
// The keyboard is ready when Input is a Poller that reports input, a file
// (pipe, terminal or regular file) with input waiting, or an in-memory
// reader with bytes left. Any other Input is never reported ready; polling
// must not block.
type Console struct {
	Input  io.Reader
	Output io.Writer

	writer *bufio.Writer
}

var _ cpu.Keyboard = (*Console)(nil)
var _ cpu.Display = (*Console)(nil)

// Ready reports whether a character can be read without blocking.
func (con *Console) Ready() (ok bool, err error) {
	switch in := con.Input.(type) {
	case nil:
		return
	case Poller:
		return in.Poll()
	case *os.File:
		return term.Poll(in)
	case interface{ Len() int }:
		ok = in.Len() > 0
	}

	return
}

// ReadByte blocks until a character is read from Input.
func (con *Console) ReadByte() (c byte, err error) {
	if con.Input == nil {
		err = ErrNoInput
		return
	}

	var one [1]byte
	_, err = io.ReadFull(con.Input, one[:])
	if err != nil {
		return
	}

	c = one[0]
	return
}

// WriteByte buffers a character for Output.
func (con *Console) WriteByte(c byte) (err error) {
	if con.Output == nil {
		err = ErrNoOutput
		return
	}

	if con.writer == nil {
		con.writer = bufio.NewWriter(con.Output)
	}

	return con.writer.WriteByte(c)
}

// Flush writes any buffered characters to Output.
func (con *Console) Flush() (err error) {
	if con.writer == nil {
		return
	}

	return con.writer.Flush()
}
