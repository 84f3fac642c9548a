// This file is part of Lockstep.
//
// Lockstep is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Lockstep is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Lockstep.  If not, see <https://www.gnu.org/licenses/>.

package mos6502

import (
	"github.com/lockstep-emu/lockstep/hardware/cpu/mos6502/execution"
	"github.com/lockstep-emu/lockstep/hardware/cpu/mos6502/instructions"
	"github.com/lockstep-emu/lockstep/hardware/cpu/mos6502/registers"
)

func (mc *CPU) branch(flag bool, offset uint16) {
	// sign extend the 8bit offset
	if offset&0x0080 == 0x0080 {
		offset |= 0xff00
	}

	mc.LastResult.BranchSuccess = flag
	if !flag {
		return
	}

	oldPC := mc.PC.Address()

	// phantom read
	// +1 cycle
	mc.phantomRead(oldPC)

	// the low byte of the PC is adjusted first. if the high byte needs
	// correcting then that takes another cycle
	mc.PC.Add(offset)
	mc.LastResult.PageFault = oldPC&0xff00 != mc.PC.Address()&0xff00

	if mc.LastResult.PageFault {
		// phantom read from the uncorrected address
		// +1 cycle
		mc.phantomRead(oldPC&0xff00 | mc.PC.Address()&0x00ff)
	}
}

// indexed addressing for the absolute and indirect indexed modes. the index
// is added to the low byte of the base address and if that overflows then the
// high byte needs correcting, which takes a phantom read from the
// uncorrected address. the phantom read always happens for write and RMW
// instructions.
func (mc *CPU) indexed(defn *instructions.Definition, base uint16, index uint8) uint16 {
	address := base + uint16(index)

	crossed := base&0xff00 != address&0xff00
	mc.LastResult.PageFault = defn.PageSensitive && crossed

	if mc.LastResult.PageFault || defn.Effect == instructions.Write || defn.Effect == instructions.RMW {
		// +1 cycle
		mc.phantomRead((base & 0xff00) | (address & 0x00ff))
	}

	return address
}

func (mc *CPU) adc(value uint8) {
	if mc.Status.DecimalMode && !mc.NoDecimal {
		mc.Status.Carry,
			mc.Status.Zero,
			mc.Status.Overflow,
			mc.Status.Sign = mc.A.AddDecimal(value, mc.Status.Carry)
	} else {
		mc.Status.Carry, mc.Status.Overflow = mc.A.Add(value, mc.Status.Carry)
		mc.Status.Zero = mc.A.IsZero()
		mc.Status.Sign = mc.A.IsNegative()
	}
}

func (mc *CPU) sbc(value uint8) {
	if mc.Status.DecimalMode && !mc.NoDecimal {
		mc.Status.Carry,
			mc.Status.Zero,
			mc.Status.Overflow,
			mc.Status.Sign = mc.A.SubtractDecimal(value, mc.Status.Carry)
	} else {
		mc.Status.Carry, mc.Status.Overflow = mc.A.Subtract(value, mc.Status.Carry)
		mc.Status.Zero = mc.A.IsZero()
		mc.Status.Sign = mc.A.IsNegative()
	}
}

func (mc *CPU) compare(reg uint8, value uint8) {
	r := mc.acc8
	r.Load(reg)

	// CMP is a binary subtraction even if decimal mode is active
	mc.Status.Carry, _ = r.Subtract(value, true)
	mc.Status.Zero = r.IsZero()
	mc.Status.Sign = r.IsNegative()
}

func (mc *CPU) setNZ(r registers.Register) {
	mc.Status.Zero = r.IsZero()
	mc.Status.Sign = r.IsNegative()
}

// the unstable store instructions (AHX, TAS, SHX, SHY) AND the stored value
// with the high byte of the base address plus one.
func highPlusOne(address uint16, index uint8) uint8 {
	return uint8((address-uint16(index))>>8) + 1
}

// executeInstruction fetches and executes the instruction at the PC. The
// basic process is this:
//
//  1. read opcode and look up instruction definition
//  2. read operands (if any) according to the addressing mode of the instruction
//  3. using the operator as a guide, perform the instruction on the data
//
// Every memory access adds one cycle to LastResult.
func (mc *CPU) executeInstruction() {
	// +1 cycle
	mc.read8BitPC(newOpcode)
	defn := mc.LastResult.Defn

	// address is the actual address to use to access memory (after any indexing
	// has taken place)
	var address uint16

	// value is read from the program for immediate/relative mode, and from
	// non-program memory for all other modes. for RMW instructions the value
	// will change during execution and be written back to memory
	var value uint8

	switch defn.AddressingMode {
	case instructions.Implied:
		if defn.Operator == instructions.Brk {
			// BRK is unusual in that it increases the PC by two bytes despite
			// being an implied addressing instruction
			// +1 cycle
			mc.read8BitPC(brk)
		} else {
			// the next byte is read but the PC is not incremented
			// +1 cycle
			mc.phantomRead(mc.PC.Address())
		}

	case instructions.Immediate:
		// +1 cycle
		value = mc.read8BitPC(loNibble)

	case instructions.Relative:
		// most of the addressing cycles for this addressing mode are consumed
		// in the branch() function
		// +1 cycle
		mc.read8BitPC(loNibble)
		address = mc.LastResult.InstructionData

	case instructions.Absolute:
		// for JSR, addresses are read slightly differently so we defer this
		// part of the operation to the operator switch below
		if defn.Effect != instructions.Subroutine {
			// +2 cycles
			mc.read16BitPC()
			address = mc.LastResult.InstructionData
		}

	case instructions.ZeroPage:
		// +1 cycle
		mc.read8BitPC(loNibble)
		address = mc.LastResult.InstructionData

	case instructions.Indirect:
		// indirect addressing (without indexing) is only used for the JMP
		// command
		// +2 cycles
		mc.read16BitPC()
		indirectAddress := mc.LastResult.InstructionData

		if indirectAddress&0x00ff == 0x00ff {
			// the high byte of the JMP address is read from the start of the
			// same page rather than the next page
			mc.LastResult.CPUBug = execution.JmpIndirectAddressingBug
			// +2 cycles
			lo := mc.read8Bit(indirectAddress)
			hi := mc.read8Bit(indirectAddress & 0xff00)
			address = (uint16(hi) << 8) | uint16(lo)
		} else {
			// +2 cycles
			address = mc.read16Bit(indirectAddress)
		}

	case instructions.IndexedIndirect: // x indexing
		// +1 cycle
		ptr := mc.read8BitPC(loNibble)

		// phantom read before adjusting the index
		// +1 cycle
		mc.phantomRead(uint16(ptr))

		// the indexed pointer does not leave the zero page
		if uint16(ptr)+uint16(mc.X.Value()) > 0xff {
			mc.LastResult.CPUBug = execution.ZeroPageIndexBug
		}

		// +2 cycles
		address = mc.read16BitZeroPage(ptr + mc.X.Value())

	case instructions.IndirectIndexed: // y indexing
		// +1 cycle
		ptr := mc.read8BitPC(loNibble)

		// +2 cycles
		base := mc.read16BitZeroPage(ptr)

		// +1 cycle (if page fault or write)
		address = mc.indexed(defn, base, mc.Y.Value())

	case instructions.AbsoluteIndexedX:
		// +2 cycles
		mc.read16BitPC()

		// +1 cycle (if page fault or write)
		address = mc.indexed(defn, mc.LastResult.InstructionData, mc.X.Value())

	case instructions.AbsoluteIndexedY:
		// +2 cycles
		mc.read16BitPC()

		// +1 cycle (if page fault or write)
		address = mc.indexed(defn, mc.LastResult.InstructionData, mc.Y.Value())

	case instructions.ZeroPageIndexedX, instructions.ZeroPageIndexedY:
		index := mc.X.Value()
		if defn.AddressingMode == instructions.ZeroPageIndexedY {
			index = mc.Y.Value()
		}

		// +1 cycle
		base := mc.read8BitPC(loNibble)

		// phantom read from base address before index adjustment
		// +1 cycle
		mc.phantomRead(uint16(base))

		// the indexed address does not leave the zero page
		if uint16(base)+uint16(index) > 0xff {
			mc.LastResult.CPUBug = execution.ZeroPageIndexBug
		}
		address = uint16(base + index)
	}

	// read value from memory using address found in AddressingMode switch
	// above only when:
	//
	// a) addressing mode is not 'implied' or 'immediate'
	// b) instruction is 'Read' OR 'RMW'
	if !(defn.AddressingMode == instructions.Implied || defn.AddressingMode == instructions.Immediate) {
		switch defn.Effect {
		case instructions.Read:
			// +1 cycle
			value = mc.read8Bit(address)

		case instructions.RMW:
			// +1 cycle
			value = mc.read8Bit(address)

			// phantom write of the unmodified value
			// +1 cycle
			mc.write8Bit(address, value)
		}
	}

	// actually perform instruction based on operator group
	switch defn.Operator {
	case instructions.Nop, instructions.NOP:
		// does nothing

	case instructions.Cli:
		mc.Status.InterruptDisable = false

	case instructions.Sei:
		mc.Status.InterruptDisable = true

	case instructions.Clc:
		mc.Status.Carry = false

	case instructions.Sec:
		mc.Status.Carry = true

	case instructions.Cld:
		mc.Status.DecimalMode = false

	case instructions.Sed:
		mc.Status.DecimalMode = true

	case instructions.Clv:
		mc.Status.Overflow = false

	case instructions.Pha:
		// +1 cycle
		mc.push(mc.A.Value())

	case instructions.Pla:
		// +1 cycle
		mc.LastResult.Cycles++

		// +1 cycle
		mc.A.Load(mc.pull())
		mc.setNZ(mc.A)

	case instructions.Php:
		// the pushed copy of the status register always has the break bit set
		// +1 cycle
		mc.push(mc.Status.Value() | registers.Break)

	case instructions.Plp:
		// +1 cycle
		mc.LastResult.Cycles++

		// +1 cycle
		mc.Status.Load(mc.pull())

	case instructions.Txa:
		mc.A.Load(mc.X.Value())
		mc.setNZ(mc.A)

	case instructions.Tax:
		mc.X.Load(mc.A.Value())
		mc.setNZ(mc.X)

	case instructions.Tay:
		mc.Y.Load(mc.A.Value())
		mc.setNZ(mc.Y)

	case instructions.Tya:
		mc.A.Load(mc.Y.Value())
		mc.setNZ(mc.A)

	case instructions.Tsx:
		mc.X.Load(mc.SP.Value())
		mc.setNZ(mc.X)

	case instructions.Txs:
		// does not affect status register
		mc.SP.Load(mc.X.Value())

	case instructions.Eor:
		mc.A.EOR(value)
		mc.setNZ(mc.A)

	case instructions.Ora:
		mc.A.ORA(value)
		mc.setNZ(mc.A)

	case instructions.And:
		mc.A.AND(value)
		mc.setNZ(mc.A)

	case instructions.Lda:
		mc.A.Load(value)
		mc.setNZ(mc.A)

	case instructions.Ldx:
		mc.X.Load(value)
		mc.setNZ(mc.X)

	case instructions.Ldy:
		mc.Y.Load(value)
		mc.setNZ(mc.Y)

	case instructions.Sta:
		// +1 cycle
		mc.write8Bit(address, mc.A.Value())

	case instructions.Stx:
		// +1 cycle
		mc.write8Bit(address, mc.X.Value())

	case instructions.Sty:
		// +1 cycle
		mc.write8Bit(address, mc.Y.Value())

	case instructions.Inx:
		mc.X.Add(1, false)
		mc.setNZ(mc.X)

	case instructions.Iny:
		mc.Y.Add(1, false)
		mc.setNZ(mc.Y)

	case instructions.Dex:
		mc.X.Add(0xff, false)
		mc.setNZ(mc.X)

	case instructions.Dey:
		mc.Y.Add(0xff, false)
		mc.setNZ(mc.Y)

	case instructions.Asl, instructions.Lsr, instructions.Rol, instructions.Ror:
		// accumulator or memory
		r := &mc.A
		if defn.Effect == instructions.RMW {
			r = &mc.acc8
			r.Load(value)
		}
		switch defn.Operator {
		case instructions.Asl:
			mc.Status.Carry = r.ASL()
		case instructions.Lsr:
			mc.Status.Carry = r.LSR()
		case instructions.Rol:
			mc.Status.Carry = r.ROL(mc.Status.Carry)
		case instructions.Ror:
			mc.Status.Carry = r.ROR(mc.Status.Carry)
		}
		mc.setNZ(*r)
		value = r.Value()

	case instructions.Adc:
		mc.adc(value)

	case instructions.Sbc, instructions.SBC:
		mc.sbc(value)

	case instructions.Inc:
		r := mc.acc8
		r.Load(value)
		r.Add(1, false)
		mc.setNZ(r)
		value = r.Value()

	case instructions.Dec:
		r := mc.acc8
		r.Load(value)
		r.Add(0xff, false)
		mc.setNZ(r)
		value = r.Value()

	case instructions.Cmp:
		mc.compare(mc.A.Value(), value)

	case instructions.Cpx:
		mc.compare(mc.X.Value(), value)

	case instructions.Cpy:
		mc.compare(mc.Y.Value(), value)

	case instructions.Bit:
		r := mc.acc8
		r.Load(value)
		mc.Status.Sign = r.IsNegative()
		mc.Status.Overflow = r.IsBitV()
		r.AND(mc.A.Value())
		mc.Status.Zero = r.IsZero()

	case instructions.Jmp:
		mc.PC.Load(address)

	case instructions.Bcc:
		mc.branch(!mc.Status.Carry, address)

	case instructions.Bcs:
		mc.branch(mc.Status.Carry, address)

	case instructions.Beq:
		mc.branch(mc.Status.Zero, address)

	case instructions.Bmi:
		mc.branch(mc.Status.Sign, address)

	case instructions.Bne:
		mc.branch(!mc.Status.Zero, address)

	case instructions.Bpl:
		mc.branch(!mc.Status.Sign, address)

	case instructions.Bvc:
		mc.branch(!mc.Status.Overflow, address)

	case instructions.Bvs:
		mc.branch(mc.Status.Overflow, address)

	case instructions.Jsr:
		// +1 cycle
		mc.read8BitPC(loNibble)

		// the current value of the PC is now correct, even though we've only
		// read one byte of the address so far. RTS increments the PC when
		// read from the stack, meaning that the PC will be correct at that
		// point

		// internal operation
		// +1 cycle
		mc.LastResult.Cycles++

		// +2 cycles
		mc.push(uint8(mc.PC.Address() >> 8))
		mc.push(uint8(mc.PC.Address()))

		// +1 cycle
		mc.read8BitPC(hiNibble)
		mc.PC.Load(mc.LastResult.InstructionData)

	case instructions.Rts:
		// +1 cycle
		mc.LastResult.Cycles++

		// +2 cycles
		lo := mc.pull()
		hi := mc.pull()

		// load and correct PC
		mc.PC.Load((uint16(hi) << 8) | uint16(lo))
		mc.PC.Add(1)

		// +1 cycle
		mc.LastResult.Cycles++

	case instructions.Brk:
		// +3 cycles
		mc.push(uint8(mc.PC.Address() >> 8))
		mc.push(uint8(mc.PC.Address()))
		mc.push(mc.Status.Value() | registers.Break)

		mc.Status.InterruptDisable = true

		// +2 cycles
		mc.PC.Load(mc.read16Bit(IRQVector))

	case instructions.Rti:
		// +1 cycle
		mc.LastResult.Cycles++

		// +3 cycles
		mc.Status.Load(mc.pull())
		lo := mc.pull()
		hi := mc.pull()

		// unlike RTS there is no need to add one to return address
		mc.PC.Load((uint16(hi) << 8) | uint16(lo))

	// undocumented instructions

	case instructions.LAX:
		mc.A.Load(value)
		mc.X.Load(value)
		mc.setNZ(mc.A)

	case instructions.LXA:
		// unstable. the magic constant varies between chips
		mc.A.Load(value)
		mc.X.Load(value)
		mc.setNZ(mc.A)

	case instructions.SAX:
		// +1 cycle
		mc.write8Bit(address, mc.A.Value()&mc.X.Value())

	case instructions.DCP:
		r := mc.acc8
		r.Load(value)
		r.Add(0xff, false)
		value = r.Value()
		mc.compare(mc.A.Value(), value)

	case instructions.ISC:
		r := mc.acc8
		r.Load(value)
		r.Add(1, false)
		value = r.Value()
		mc.sbc(value)

	case instructions.SLO:
		r := mc.acc8
		r.Load(value)
		mc.Status.Carry = r.ASL()
		value = r.Value()
		mc.A.ORA(value)
		mc.setNZ(mc.A)

	case instructions.RLA:
		r := mc.acc8
		r.Load(value)
		mc.Status.Carry = r.ROL(mc.Status.Carry)
		value = r.Value()
		mc.A.AND(value)
		mc.setNZ(mc.A)

	case instructions.SRE:
		r := mc.acc8
		r.Load(value)
		mc.Status.Carry = r.LSR()
		value = r.Value()
		mc.A.EOR(value)
		mc.setNZ(mc.A)

	case instructions.RRA:
		r := mc.acc8
		r.Load(value)
		mc.Status.Carry = r.ROR(mc.Status.Carry)
		value = r.Value()
		mc.adc(value)

	case instructions.ANC:
		// bit 7 of the result is put into the carry flag as though ASL had
		// been performed
		mc.A.AND(value)
		mc.setNZ(mc.A)
		mc.Status.Carry = mc.A.IsNegative()

	case instructions.ALR:
		mc.A.AND(value)
		mc.Status.Carry = mc.A.LSR()
		mc.setNZ(mc.A)

	case instructions.ARR:
		mc.A.AND(value)
		mc.A.ROR(mc.Status.Carry)
		mc.setNZ(mc.A)
		mc.Status.Carry = mc.A.Value()&0x40 == 0x40
		mc.Status.Overflow = (mc.A.Value()>>6)&1 != (mc.A.Value()>>5)&1

	case instructions.XAA:
		// unstable
		mc.A.Load(mc.X.Value())
		mc.A.AND(value)
		mc.setNZ(mc.A)

	case instructions.AXS:
		mc.X.Load(mc.A.Value() & mc.X.Value())

		// the subtraction behaves like CMP as far as the carry flag is
		// concerned
		mc.Status.Carry, _ = mc.X.Subtract(value, true)
		mc.setNZ(mc.X)

	case instructions.AHX:
		// +1 cycle
		mc.write8Bit(address, mc.A.Value()&mc.X.Value()&highPlusOne(address, mc.Y.Value()))

	case instructions.TAS:
		mc.SP.Load(mc.A.Value() & mc.X.Value())

		// +1 cycle
		mc.write8Bit(address, mc.SP.Value()&highPlusOne(address, mc.Y.Value()))

	case instructions.SHY:
		// +1 cycle
		mc.write8Bit(address, mc.Y.Value()&highPlusOne(address, mc.X.Value()))

	case instructions.SHX:
		// +1 cycle
		mc.write8Bit(address, mc.X.Value()&highPlusOne(address, mc.Y.Value()))

	case instructions.LAS:
		v := value & mc.SP.Value()
		mc.SP.Load(v)
		mc.A.Load(v)
		mc.X.Load(v)
		mc.setNZ(mc.A)

	case instructions.KIL:
		mc.Killed = true
	}

	// for RMW instructions: write altered value back to memory
	if defn.Effect == instructions.RMW {
		// +1 cycle
		mc.write8Bit(address, value)
	}
}
