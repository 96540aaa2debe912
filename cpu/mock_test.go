package cpu

import (
	"bytes"
	"errors"
)

var errMock = errors.New("mock failure")

type mockKeyboard struct {
	input     []byte
	readyErr  error
	readErr   error
	polls     int
	readCalls int
}

func (mk *mockKeyboard) Ready() (ok bool, err error) {
	mk.polls++
	if mk.readyErr != nil {
		err = mk.readyErr
		return
	}
	ok = len(mk.input) > 0
	return
}

func (mk *mockKeyboard) ReadByte() (c byte, err error) {
	mk.readCalls++
	if mk.readErr != nil {
		err = mk.readErr
		return
	}
	if len(mk.input) == 0 {
		err = errMock
		return
	}
	c = mk.input[0]
	mk.input = mk.input[1:]
	return
}

type mockDisplay struct {
	bytes.Buffer
	flushed  int
	writeErr error
	flushErr error
}

func (md *mockDisplay) WriteByte(c byte) error {
	if md.writeErr != nil {
		return md.writeErr
	}
	return md.Buffer.WriteByte(c)
}

func (md *mockDisplay) Flush() error {
	md.flushed++
	return md.flushErr
}

// newMockCpu creates a CPU with program loaded at PC_START.
func newMockCpu(input string, program ...Code) (cpu *Cpu, kbd *mockKeyboard, dsp *mockDisplay) {
	kbd = &mockKeyboard{input: []byte(input)}
	dsp = &mockDisplay{}
	cpu = NewCpu(kbd, dsp)
	NewImage(PC_START, program...).Load(&cpu.Memory)
	return
}

// runMockCpu ticks until halted or an error occurs, with a tick limit.
func runMockCpu(cpu *Cpu, limit int) (err error) {
	for range limit {
		err = cpu.Tick()
		if err != nil || !cpu.Running {
			return
		}
	}
	return
}
