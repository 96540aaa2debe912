package cpu

import (
	"fmt"
)

// Opcode is the 4-bit operation selector in bits [15:12] of an instruction.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_BR   = Opcode(0x0) // br
	OP_ADD  = Opcode(0x1) // add
	OP_LD   = Opcode(0x2) // ld
	OP_ST   = Opcode(0x3) // st
	OP_JSR  = Opcode(0x4) // jsr
	OP_AND  = Opcode(0x5) // and
	OP_LDR  = Opcode(0x6) // ldr
	OP_STR  = Opcode(0x7) // str
	OP_RTI  = Opcode(0x8) // rti
	OP_NOT  = Opcode(0x9) // not
	OP_LDI  = Opcode(0xa) // ldi
	OP_STI  = Opcode(0xb) // sti
	OP_JMP  = Opcode(0xc) // jmp
	OP_RES  = Opcode(0xd) // res
	OP_LEA  = Opcode(0xe) // lea
	OP_TRAP = Opcode(0xf) // trap
)

// Valid returns false for the reserved opcodes, which have no behaviour.
func (op Opcode) Valid() bool {
	return op != OP_RTI && op != OP_RES
}

// TrapVector is the 8-bit service code of a TRAP instruction.
type TrapVector int

//go:generate go tool stringer -linecomment -type=TrapVector
const (
	TRAP_GETC  = TrapVector(0x20) // getc
	TRAP_OUT   = TrapVector(0x21) // out
	TRAP_PUTS  = TrapVector(0x22) // puts
	TRAP_IN    = TrapVector(0x23) // in
	TRAP_PUTSP = TrapVector(0x24) // putsp
	TRAP_HALT  = TrapVector(0x25) // halt
)

// SignExtend widens the low bitCount bits of value to a 16-bit two's
// complement value.
func SignExtend(value uint16, bitCount uint) uint16 {
	value &= (1 << bitCount) - 1
	if (value>>(bitCount-1))&1 != 0 {
		value |= 0xffff << bitCount
	}
	return value
}

// Code is a single 16-bit instruction word.
type Code struct {
	Word uint16
}

// Opcode returns bits [15:12].
func (code Code) Opcode() Opcode {
	return Opcode(code.Word >> 12)
}

// DR returns bits [11:9]: the destination register, the source register of
// a store, or the nzp mask of a branch.
func (code Code) DR() Register {
	return Register((code.Word >> 9) & 0x7)
}

// NZP returns the branch condition mask in bits [11:9].
func (code Code) NZP() Flag {
	return Flag((code.Word >> 9) & 0x7)
}

// SR1 returns bits [8:6].
func (code Code) SR1() Register {
	return Register((code.Word >> 6) & 0x7)
}

// BaseR returns bits [8:6].
func (code Code) BaseR() Register {
	return code.SR1()
}

// SR2 returns bits [2:0].
func (code Code) SR2() Register {
	return Register(code.Word & 0x7)
}

// IsImmediate reports the ADD/AND immediate mode bit (bit 5).
func (code Code) IsImmediate() bool {
	return (code.Word>>5)&1 == 1
}

// IsLong reports the JSR long-offset bit (bit 11).
func (code Code) IsLong() bool {
	return (code.Word>>11)&1 == 1
}

// Imm5 returns the sign-extended 5-bit immediate.
func (code Code) Imm5() uint16 {
	return SignExtend(code.Word, 5)
}

// Offset6 returns the sign-extended 6-bit base offset.
func (code Code) Offset6() uint16 {
	return SignExtend(code.Word, 6)
}

// PCOffset9 returns the sign-extended 9-bit PC offset.
func (code Code) PCOffset9() uint16 {
	return SignExtend(code.Word, 9)
}

// PCOffset11 returns the sign-extended 11-bit PC offset.
func (code Code) PCOffset11() uint16 {
	return SignExtend(code.Word, 11)
}

// TrapVector returns bits [7:0].
func (code Code) TrapVector() TrapVector {
	return TrapVector(code.Word & 0xff)
}

func makeCode(op Opcode, bits uint16) Code {
	return Code{Word: (uint16(op) << 12) | (bits & 0x0fff)}
}

func reg3(r Register, shift uint) uint16 {
	return (uint16(r) & 0x7) << shift
}

// MakeCodeAdd creates a register-mode ADD.
func MakeCodeAdd(dr, sr1, sr2 Register) Code {
	return makeCode(OP_ADD, reg3(dr, 9)|reg3(sr1, 6)|reg3(sr2, 0))
}

// MakeCodeAddImm creates an immediate-mode ADD. imm is truncated to 5 bits.
func MakeCodeAddImm(dr, sr1 Register, imm int) Code {
	return makeCode(OP_ADD, reg3(dr, 9)|reg3(sr1, 6)|(1<<5)|(uint16(imm)&0x1f))
}

// MakeCodeAnd creates a register-mode AND.
func MakeCodeAnd(dr, sr1, sr2 Register) Code {
	return makeCode(OP_AND, reg3(dr, 9)|reg3(sr1, 6)|reg3(sr2, 0))
}

// MakeCodeAndImm creates an immediate-mode AND. imm is truncated to 5 bits.
func MakeCodeAndImm(dr, sr1 Register, imm int) Code {
	return makeCode(OP_AND, reg3(dr, 9)|reg3(sr1, 6)|(1<<5)|(uint16(imm)&0x1f))
}

// MakeCodeNot creates a NOT.
func MakeCodeNot(dr, sr Register) Code {
	return makeCode(OP_NOT, reg3(dr, 9)|reg3(sr, 6)|0x3f)
}

// MakeCodeBr creates a conditional branch.
func MakeCodeBr(nzp Flag, offset int) Code {
	return makeCode(OP_BR, (uint16(nzp)&0x7)<<9|(uint16(offset)&0x1ff))
}

// MakeCodeJmp creates a JMP through a base register.
func MakeCodeJmp(base Register) Code {
	return makeCode(OP_JMP, reg3(base, 6))
}

// MakeCodeRet creates a RET (JMP R7).
func MakeCodeRet() Code {
	return MakeCodeJmp(R7)
}

// MakeCodeJsr creates a JSR with an 11-bit PC offset.
func MakeCodeJsr(offset int) Code {
	return makeCode(OP_JSR, (1<<11)|(uint16(offset)&0x7ff))
}

// MakeCodeJsrr creates a JSRR through a base register.
func MakeCodeJsrr(base Register) Code {
	return makeCode(OP_JSR, reg3(base, 6))
}

func makeCodePC(op Opcode, r Register, offset int) Code {
	return makeCode(op, reg3(r, 9)|(uint16(offset)&0x1ff))
}

func makeCodeBase(op Opcode, r, base Register, offset int) Code {
	return makeCode(op, reg3(r, 9)|reg3(base, 6)|(uint16(offset)&0x3f))
}

// MakeCodeLd creates a PC-relative load.
func MakeCodeLd(dr Register, offset int) Code { return makeCodePC(OP_LD, dr, offset) }

// MakeCodeLdi creates a PC-relative indirect load.
func MakeCodeLdi(dr Register, offset int) Code { return makeCodePC(OP_LDI, dr, offset) }

// MakeCodeLea creates a load effective address.
func MakeCodeLea(dr Register, offset int) Code { return makeCodePC(OP_LEA, dr, offset) }

// MakeCodeSt creates a PC-relative store.
func MakeCodeSt(sr Register, offset int) Code { return makeCodePC(OP_ST, sr, offset) }

// MakeCodeSti creates a PC-relative indirect store.
func MakeCodeSti(sr Register, offset int) Code { return makeCodePC(OP_STI, sr, offset) }

// MakeCodeLdr creates a base+offset load.
func MakeCodeLdr(dr, base Register, offset int) Code { return makeCodeBase(OP_LDR, dr, base, offset) }

// MakeCodeStr creates a base+offset store.
func MakeCodeStr(sr, base Register, offset int) Code { return makeCodeBase(OP_STR, sr, base, offset) }

// MakeCodeTrap creates a TRAP.
func MakeCodeTrap(vector TrapVector) Code {
	return makeCode(OP_TRAP, uint16(vector)&0xff)
}

// MakeCodeHalt creates TRAP HALT.
func MakeCodeHalt() Code {
	return MakeCodeTrap(TRAP_HALT)
}

func signed(value uint16) int16 {
	return int16(value)
}

// String returns the disassembly of this instruction.
func (code Code) String() (out string) {
	op := code.Opcode()

	switch op {
	case OP_ADD, OP_AND:
		if code.IsImmediate() {
			out = fmt.Sprintf("%v %v %v #%d", op, code.DR(), code.SR1(), signed(code.Imm5()))
		} else {
			out = fmt.Sprintf("%v %v %v %v", op, code.DR(), code.SR1(), code.SR2())
		}
	case OP_NOT:
		out = fmt.Sprintf("%v %v %v", op, code.DR(), code.SR1())
	case OP_BR:
		nzp := code.NZP()
		if nzp == 0 {
			out = fmt.Sprintf("nop #%d", signed(code.PCOffset9()))
		} else {
			out = fmt.Sprintf("%v %v #%d", op, nzp, signed(code.PCOffset9()))
		}
	case OP_JMP:
		if code.BaseR() == R7 {
			out = "ret"
		} else {
			out = fmt.Sprintf("%v %v", op, code.BaseR())
		}
	case OP_JSR:
		if code.IsLong() {
			out = fmt.Sprintf("%v #%d", op, signed(code.PCOffset11()))
		} else {
			out = fmt.Sprintf("jsrr %v", code.BaseR())
		}
	case OP_LD, OP_LDI, OP_LEA, OP_ST, OP_STI:
		out = fmt.Sprintf("%v %v #%d", op, code.DR(), signed(code.PCOffset9()))
	case OP_LDR, OP_STR:
		out = fmt.Sprintf("%v %v %v #%d", op, code.DR(), code.BaseR(), signed(code.Offset6()))
	case OP_TRAP:
		out = fmt.Sprintf("%v %v", op, code.TrapVector())
	default:
		out = fmt.Sprintf(".fill 0x%04x", code.Word)
	}

	return
}
