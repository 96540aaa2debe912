package cpu

import (
	"errors"
	"iter"
	"log"
)

const (
	IN_PROMPT = "Enter a character: "
)

var ErrNoDevice = errors.New(f("no console device"))

// Trap performs the console service selected by vector.
func (cpu *Cpu) Trap(vector TrapVector) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: trap %v", vector)
	}

	reg := &cpu.Register

	switch vector {
	case TRAP_GETC:
		var c byte
		c, err = cpu.getc()
		if err != nil {
			return
		}
		reg[R0] = uint16(c)
		err = reg.UpdateFlags(R0)
	case TRAP_OUT:
		err = cpu.puts([]byte{byte(reg[R0])})
	case TRAP_PUTS:
		var text []byte
		for addr := range cpu.strz(reg[R0]) {
			text = append(text, byte(cpu.Memory.Peek(addr)))
		}
		err = cpu.puts(text)
	case TRAP_IN:
		err = cpu.puts([]byte(IN_PROMPT))
		if err != nil {
			return
		}
		var c byte
		c, err = cpu.getc()
		if err != nil {
			return
		}
		err = cpu.puts([]byte{c})
		if err != nil {
			return
		}
		reg[R0] = uint16(c)
		err = reg.UpdateFlags(R0)
	case TRAP_PUTSP:
		var text []byte
		for addr := range cpu.strz(reg[R0]) {
			word := cpu.Memory.Peek(addr)
			text = append(text, byte(word&0xff))
			if hi := byte(word >> 8); hi != 0 {
				text = append(text, hi)
			}
		}
		err = cpu.puts(text)
	case TRAP_HALT:
		cpu.Running = false
	default:
		err = ErrInvalidOpcode
	}

	return
}

// strz yields the addresses of a zero-terminated string starting at
// addr. At most one full pass of memory is made.
func (cpu *Cpu) strz(addr uint16) iter.Seq[uint16] {
	return func(yield func(uint16) bool) {
		for range MEMORY_SIZE {
			if cpu.Memory.Peek(addr) == 0 {
				return
			}
			if !yield(addr) {
				return
			}
			addr++
		}
	}
}

func (cpu *Cpu) getc() (c byte, err error) {
	kbd := cpu.Memory.Keyboard
	if kbd == nil {
		err = errors.Join(ErrIO, ErrNoDevice)
		return
	}

	c, err = kbd.ReadByte()
	if err != nil {
		err = errors.Join(ErrIO, err)
	}
	return
}

func (cpu *Cpu) puts(text []byte) (err error) {
	if cpu.Display == nil {
		err = errors.Join(ErrIO, ErrNoDevice)
		return
	}

	for _, c := range text {
		err = cpu.Display.WriteByte(c)
		if err != nil {
			err = errors.Join(ErrIO, err)
			return
		}
	}

	err = cpu.Display.Flush()
	if err != nil {
		err = errors.Join(ErrIO, err)
	}
	return
}
