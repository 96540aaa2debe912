package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

const (
	PC_START = uint16(0x3000) // Default entry address.
)

var _cpu_defines = map[string]uint16{
	"PC_START":   PC_START,
	"MR_KBSR":    MR_KBSR,
	"MR_KBDR":    MR_KBDR,
	"KBSR_READY": KBSR_READY,
	"FL_POS":     uint16(FL_POS),
	"FL_ZRO":     uint16(FL_ZRO),
	"FL_NEG":     uint16(FL_NEG),
}

// Display is the output side of the console.
type Display interface {
	WriteByte(c byte) error
	Flush() error
}

// Cpu is the simulation context for an LC-3 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register RegisterFile // Register bank.
	Memory   Memory       // Main memory.
	Display  Display      // Console output used by the trap routines.
	Stack    CallStack    // Subroutine return addresses, for backtraces.
	Running  bool         // Cleared by TRAP HALT.

	Ticks int // Instructions retired since reset.
}

// NewCpu creates a new CPU attached to a console.
func NewCpu(keyboard Keyboard, display Display) (cpu *Cpu) {
	cpu = &Cpu{
		Display: display,
	}
	cpu.Memory.Keyboard = keyboard
	cpu.Reset(PC_START)

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, uint16] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = cpu.Register.String()
	if !cpu.Stack.Empty() {
		text += fmt.Sprintf("% 5s:", "calls")
		for _, ret := range cpu.Stack.Backtrace() {
			text += fmt.Sprintf(" 0x%04X", ret)
		}
		text += "\n"
	}
	return
}

// Reset the CPU state.
// - Clears the registers and sets PC to entry, COND to zero.
// - Clears the call stack and statistics.
// - Marks the CPU as running.
//
// Memory is left untouched, so images may be loaded before or after.
func (cpu *Cpu) Reset(entry uint16) {
	if cpu.Verbose {
		log.Printf("cpu: reset, entry 0x%04x", entry)
	}

	cpu.Register.Reset(entry)
	cpu.Stack.Reset()
	cpu.Ticks = 0
	cpu.Running = true
}

// FetchCode reads the instruction at PC and advances PC.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	pc := cpu.Register[PC]
	if int(pc) >= len(cpu.Memory.cell) {
		if cpu.Verbose {
			log.Printf("cpu: pc 0x%04x > memory len 0x%x", pc, len(cpu.Memory.cell))
		}
		err = ErrPcOutOfBounds
		return
	}

	word, err := cpu.Memory.Read(pc)
	if err != nil {
		return
	}

	cpu.Register[PC] = pc + 1
	code = Code{Word: word}
	return
}

// Tick executes a single CPU instruction cycle. Once halted, Tick does
// not fetch and returns ErrHalted.
func (cpu *Cpu) Tick() (err error) {
	if !cpu.Running {
		err = ErrHalted
		return
	}

	pc := cpu.Register[PC]

	code, err := cpu.FetchCode()
	if err == nil {
		err = cpu.Execute(code)
	}
	if err != nil {
		err = &ErrOpcode{Pc: pc, Code: code, Err: err}
		return
	}

	cpu.Ticks++

	return
}

// Execute executes a single decoded instruction. PC must already point
// past the instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: %04x: %v", cpu.Register[PC]-1, code)
	}

	reg := &cpu.Register
	mem := &cpu.Memory

	switch code.Opcode() {
	case OP_ADD:
		dr := code.DR()
		operand := code.Imm5()
		if !code.IsImmediate() {
			operand = reg[code.SR2()]
		}
		reg[dr] = reg[code.SR1()] + operand
		err = reg.UpdateFlags(dr)
	case OP_AND:
		dr := code.DR()
		operand := code.Imm5()
		if !code.IsImmediate() {
			operand = reg[code.SR2()]
		}
		reg[dr] = reg[code.SR1()] & operand
		err = reg.UpdateFlags(dr)
	case OP_NOT:
		dr := code.DR()
		reg[dr] = ^reg[code.SR1()]
		err = reg.UpdateFlags(dr)
	case OP_BR:
		if code.NZP()&reg.Cond() != 0 {
			reg[PC] += code.PCOffset9()
		}
	case OP_JMP:
		base := code.BaseR()
		if base == R7 {
			cpu.Stack.Pop()
		}
		reg[PC] = reg[base]
	case OP_JSR:
		ret := reg[PC]
		if code.IsLong() {
			reg[PC] = ret + code.PCOffset11()
		} else {
			reg[PC] = reg[code.BaseR()]
		}
		reg[R7] = ret
		cpu.Stack.Push(ret)
	case OP_LD:
		dr := code.DR()
		reg[dr], err = mem.Read(reg[PC] + code.PCOffset9())
		if err != nil {
			return
		}
		err = reg.UpdateFlags(dr)
	case OP_LDI:
		dr := code.DR()
		var addr uint16
		addr, err = mem.Read(reg[PC] + code.PCOffset9())
		if err != nil {
			return
		}
		reg[dr], err = mem.Read(addr)
		if err != nil {
			return
		}
		err = reg.UpdateFlags(dr)
	case OP_LDR:
		dr := code.DR()
		reg[dr], err = mem.Read(reg[code.BaseR()] + code.Offset6())
		if err != nil {
			return
		}
		err = reg.UpdateFlags(dr)
	case OP_LEA:
		dr := code.DR()
		reg[dr] = reg[PC] + code.PCOffset9()
		err = reg.UpdateFlags(dr)
	case OP_ST:
		mem.Write(reg[PC]+code.PCOffset9(), reg[code.DR()])
	case OP_STI:
		var addr uint16
		addr, err = mem.Read(reg[PC] + code.PCOffset9())
		if err != nil {
			return
		}
		mem.Write(addr, reg[code.DR()])
	case OP_STR:
		mem.Write(reg[code.BaseR()]+code.Offset6(), reg[code.DR()])
	case OP_TRAP:
		err = cpu.Trap(code.TrapVector())
	case OP_RTI, OP_RES:
		err = ErrInvalidOpcode
	}

	return
}
