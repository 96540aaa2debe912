package io

import (
	"io"

	"github.com/ezrec/lc3/cpu"
)

// Script is a keyboard that replays queued characters. It never blocks:
// reading an empty script returns io.EOF.
type Script struct {
	FromDevice []byte
}

var _ cpu.Keyboard = (*Script)(nil)

// Reset drops all queued characters.
func (sc *Script) Reset() {
	sc.FromDevice = nil
}

// Type queues characters as if they had been typed.
func (sc *Script) Type(text string) {
	sc.FromDevice = append(sc.FromDevice, text...)
}

// Ready reports whether a character is queued.
func (sc *Script) Ready() (ok bool, err error) {
	ok = len(sc.FromDevice) > 0
	return
}

// ReadByte dequeues the next character.
func (sc *Script) ReadByte() (c byte, err error) {
	if len(sc.FromDevice) == 0 {
		err = io.EOF
		return
	}

	c = sc.FromDevice[0]
	sc.FromDevice = sc.FromDevice[1:]
	return
}
