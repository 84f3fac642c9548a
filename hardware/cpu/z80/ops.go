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

package z80

import "github.com/lockstep-emu/lockstep/hardware/cpu"

// handler executes one instruction. the opcode (and any prefix) has already
// been fetched. the handler adds the T-states of the instruction to c.t,
// not including the T-states of a DD or FD prefix.
type handler func(c *CPU)

// the dispatch tables. these are filled in by init() and never change.
var (
	baseOps [256]handler
	cbOps   [256]handler
	edOps   [256]handler

	// opcodes affected by a DD or FD prefix
	indexed [256]bool
)

func init() {
	initBaseOps()
	initCBOps()
	initEDOps()
	initIndexed()
}

func initIndexed() {
	for _, op := range []uint8{
		0x09, 0x19, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26,
		0x29, 0x2a, 0x2b, 0x2c, 0x2d, 0x2e, 0x34, 0x35,
		0x36, 0x39, 0xcb, 0xe1, 0xe3, 0xe5, 0xe9, 0xf9,
	} {
		indexed[op] = true
	}

	isHL := func(code int) bool {
		return code == 4 || code == 5 || code == 6
	}

	for op := 0x40; op <= 0xbf; op++ {
		if op == 0x76 {
			continue
		}
		if isHL(op & 0x07) {
			indexed[op] = true
		}
		if op < 0x80 && isHL((op>>3)&0x07) {
			indexed[op] = true
		}
	}
}

func initBaseOps() {
	baseOps[0x00] = func(c *CPU) { c.t += 4 }

	for p := range 4 {
		// LD rr,nn
		baseOps[0x01|p<<4] = func(c *CPU) {
			c.setRP(p, c.fetch16())
			c.t += 10
		}

		// INC rr
		baseOps[0x03|p<<4] = func(c *CPU) {
			c.setRP(p, c.rp(p)+1)
			c.t += 6
		}

		// ADD HL,rr
		baseOps[0x09|p<<4] = func(c *CPU) {
			c.setHL(c.add16(c.hl(), c.rp(p)))
			c.t += 11
		}

		// DEC rr
		baseOps[0x0b|p<<4] = func(c *CPU) {
			c.setRP(p, c.rp(p)-1)
			c.t += 6
		}

		// POP rr
		baseOps[0xc1|p<<4] = func(c *CPU) {
			c.setRP2(p, c.pop16())
			c.t += 10
		}

		// PUSH rr
		baseOps[0xc5|p<<4] = func(c *CPU) {
			c.push16(c.rp2(p))
			c.t += 11
		}
	}

	for y := range uint8(8) {
		// INC r
		baseOps[0x04|y<<3] = func(c *CPU) {
			if y == 6 {
				a := c.memOperand()
				c.write(a, c.inc8(c.read(a)))
				c.t += 11
				return
			}
			c.setReg(y, c.inc8(c.reg(y)))
			c.t += 4
		}

		// DEC r
		baseOps[0x05|y<<3] = func(c *CPU) {
			if y == 6 {
				a := c.memOperand()
				c.write(a, c.dec8(c.read(a)))
				c.t += 11
				return
			}
			c.setReg(y, c.dec8(c.reg(y)))
			c.t += 4
		}

		// LD r,n
		baseOps[0x06|y<<3] = func(c *CPU) {
			if y == 6 {
				a := c.memOperandImm()
				c.write(a, c.fetch())
				c.t += 10
				return
			}
			c.setReg(y, c.fetch())
			c.t += 7
		}

		// RET cc
		baseOps[0xc0|y<<3] = func(c *CPU) {
			if c.condition(y) {
				c.PC = c.pop16()
				c.t += 11
				return
			}
			c.t += 5
		}

		// JP cc,nn
		baseOps[0xc2|y<<3] = func(c *CPU) {
			a := c.fetch16()
			if c.condition(y) {
				c.PC = a
			}
			c.t += 10
		}

		// CALL cc,nn
		baseOps[0xc4|y<<3] = func(c *CPU) {
			a := c.fetch16()
			if c.condition(y) {
				c.push16(c.PC)
				c.PC = a
				c.t += 17
				return
			}
			c.t += 10
		}

		// ALU A,n
		baseOps[0xc6|y<<3] = func(c *CPU) {
			c.alu(y, c.fetch())
			c.t += 7
		}

		// RST p
		baseOps[0xc7|y<<3] = func(c *CPU) {
			c.push16(c.PC)
			c.PC = uint16(y) << 3
			c.t += 11
		}
	}

	// LD (BC),A / LD (DE),A / LD A,(BC) / LD A,(DE)
	baseOps[0x02] = func(c *CPU) {
		c.write(c.BC(), c.A)
		c.t += 7
	}
	baseOps[0x12] = func(c *CPU) {
		c.write(c.DE(), c.A)
		c.t += 7
	}
	baseOps[0x0a] = func(c *CPU) {
		c.A = c.read(c.BC())
		c.t += 7
	}
	baseOps[0x1a] = func(c *CPU) {
		c.A = c.read(c.DE())
		c.t += 7
	}

	// LD (nn),HL / LD HL,(nn)
	baseOps[0x22] = func(c *CPU) {
		c.write16(c.fetch16(), c.hl())
		c.t += 16
	}
	baseOps[0x2a] = func(c *CPU) {
		c.setHL(c.read16(c.fetch16()))
		c.t += 16
	}

	// LD (nn),A / LD A,(nn)
	baseOps[0x32] = func(c *CPU) {
		c.write(c.fetch16(), c.A)
		c.t += 13
	}
	baseOps[0x3a] = func(c *CPU) {
		c.A = c.read(c.fetch16())
		c.t += 13
	}

	// RLCA
	baseOps[0x07] = func(c *CPU) {
		carry := c.A >> 7
		c.A = c.A<<1 | carry
		c.rotateA(carry)
		c.t += 4
	}

	// RRCA
	baseOps[0x0f] = func(c *CPU) {
		carry := c.A & 1
		c.A = c.A>>1 | c.A<<7
		c.rotateA(carry)
		c.t += 4
	}

	// RLA
	baseOps[0x17] = func(c *CPU) {
		carry := c.A >> 7
		c.A = c.A<<1 | c.F&FlagC
		c.rotateA(carry)
		c.t += 4
	}

	// RRA
	baseOps[0x1f] = func(c *CPU) {
		carry := c.A & 1
		c.A = c.A>>1 | (c.F&FlagC)<<7
		c.rotateA(carry)
		c.t += 4
	}

	// EX AF,AF'
	baseOps[0x08] = func(c *CPU) {
		af := c.AF()
		c.SetAF(c.AltAF)
		c.AltAF = af
		c.t += 4
	}

	// DJNZ d
	baseOps[0x10] = func(c *CPU) {
		d := int8(c.fetch())
		c.B--
		if c.B != 0 {
			c.PC += uint16(int16(d))
			c.t += 13
			return
		}
		c.t += 8
	}

	// JR d
	baseOps[0x18] = func(c *CPU) {
		d := int8(c.fetch())
		c.PC += uint16(int16(d))
		c.t += 12
	}

	// JR cc,d. only the first four conditions are available
	for y := range uint8(4) {
		baseOps[0x20|y<<3] = func(c *CPU) {
			d := int8(c.fetch())
			if c.condition(y) {
				c.PC += uint16(int16(d))
				c.t += 12
				return
			}
			c.t += 7
		}
	}

	// DAA
	baseOps[0x27] = func(c *CPU) {
		c.daa()
		c.t += 4
	}

	// CPL
	baseOps[0x2f] = func(c *CPU) {
		c.A = ^c.A
		c.F = c.F&(FlagS|FlagZ|FlagPV|FlagC) | c.A&(FlagX|FlagY) | FlagH | FlagN
		c.t += 4
	}

	// SCF
	baseOps[0x37] = func(c *CPU) {
		c.F = c.F&(FlagS|FlagZ|FlagPV) | c.A&(FlagX|FlagY) | FlagC
		c.t += 4
	}

	// CCF
	baseOps[0x3f] = func(c *CPU) {
		f := c.F&(FlagS|FlagZ|FlagPV) | c.A&(FlagX|FlagY)
		if c.F&FlagC != 0 {
			f |= FlagH
		} else {
			f |= FlagC
		}
		c.F = f
		c.t += 4
	}

	// LD r,r'. with an indexed memory operand the register operand is
	// always one of the plain registers
	for op := 0x40; op <= 0x7f; op++ {
		dst := uint8(op>>3) & 0x07
		src := uint8(op) & 0x07
		switch {
		case src == 6 && dst == 6:
			// HALT. the PC is left pointing to the next instruction, which
			// is where an interrupt will return to
			baseOps[op] = func(c *CPU) {
				c.halted = true
				c.t += 4
			}
		case src == 6:
			baseOps[op] = func(c *CPU) {
				c.setRegPlain(dst, c.read(c.memOperand()))
				c.t += 7
			}
		case dst == 6:
			baseOps[op] = func(c *CPU) {
				c.write(c.memOperand(), c.regPlain(src))
				c.t += 7
			}
		default:
			baseOps[op] = func(c *CPU) {
				c.setReg(dst, c.reg(src))
				c.t += 4
			}
		}
	}

	// ALU A,r
	for op := 0x80; op <= 0xbf; op++ {
		fn := uint8(op>>3) & 0x07
		src := uint8(op) & 0x07
		if src == 6 {
			baseOps[op] = func(c *CPU) {
				c.alu(fn, c.read(c.memOperand()))
				c.t += 7
			}
		} else {
			baseOps[op] = func(c *CPU) {
				c.alu(fn, c.reg(src))
				c.t += 4
			}
		}
	}

	// JP nn
	baseOps[0xc3] = func(c *CPU) {
		c.PC = c.fetch16()
		c.t += 10
	}

	// RET
	baseOps[0xc9] = func(c *CPU) {
		c.PC = c.pop16()
		c.t += 10
	}

	// CALL nn
	baseOps[0xcd] = func(c *CPU) {
		a := c.fetch16()
		c.push16(c.PC)
		c.PC = a
		c.t += 17
	}

	// OUT (n),A
	baseOps[0xd3] = func(c *CPU) {
		n := c.fetch()
		c.io.Out(uint16(c.A)<<8|uint16(n), c.A)
		c.t += 11
	}

	// IN A,(n)
	baseOps[0xdb] = func(c *CPU) {
		n := c.fetch()
		c.A = c.io.In(uint16(c.A)<<8 | uint16(n))
		c.t += 11
	}

	// EXX
	baseOps[0xd9] = func(c *CPU) {
		bc, de, hl := c.BC(), c.DE(), c.HL()
		c.SetBC(c.AltBC)
		c.SetDE(c.AltDE)
		c.SetHL(c.AltHL)
		c.AltBC, c.AltDE, c.AltHL = bc, de, hl
		c.t += 4
	}

	// EX (SP),HL
	baseOps[0xe3] = func(c *CPU) {
		v := c.read16(c.SP)
		c.write16(c.SP, c.hl())
		c.setHL(v)
		c.t += 19
	}

	// JP (HL)
	baseOps[0xe9] = func(c *CPU) {
		c.PC = c.hl()
		c.t += 4
	}

	// EX DE,HL. not affected by the index prefixes
	baseOps[0xeb] = func(c *CPU) {
		de := c.DE()
		c.SetDE(c.HL())
		c.SetHL(de)
		c.t += 4
	}

	// DI
	baseOps[0xf3] = func(c *CPU) {
		c.IFF1 = false
		c.IFF2 = false
		c.t += 4
	}

	// LD SP,HL
	baseOps[0xf9] = func(c *CPU) {
		c.SP = c.hl()
		c.t += 6
	}

	// EI
	baseOps[0xfb] = func(c *CPU) {
		c.IFF1 = true
		c.IFF2 = true
		c.eiDelay = true
		c.t += 4
	}

	// prefixes
	baseOps[0xcb] = func(c *CPU) {
		if c.idx != noIndex {
			c.indexedCB()
			return
		}
		cbOps[c.fetchOpcode()](c)
	}
	baseOps[0xed] = func(c *CPU) {
		op := c.fetchOpcode()
		edOps[op](c)
		if c.illegal {
			c.illegalOpcode = 0xed00 | uint16(op)
		}
	}
	baseOps[0xdd] = func(c *CPU) {
		c.prefixIndex(indexIX)
	}
	baseOps[0xfd] = func(c *CPU) {
		c.prefixIndex(indexIY)
	}
}

// prefixIndex handles the DD and FD prefixes. if the next opcode does not use
// HL the prefix is a NOP but the opcode is still executed in this step.
//
// a repeated prefix replaces this one. the step ends after the first prefix
// and no interrupt is accepted before the next one.
func (c *CPU) prefixIndex(mode indexMode) {
	c.t += 4
	switch op := cpu.PeekOpcode(c.mem, c.PC); {
	case op == 0xdd || op == 0xfd:
		c.prefixed = true
		return
	case indexed[op]:
		c.idx = mode
	}
	baseOps[c.fetchOpcode()](c)
}

// indexedCB handles the DDCB and FDCB forms. the displacement comes before
// the opcode and the opcode fetch is not an M1 cycle.
//
// the undocumented forms with a register operand other than (HL) store the
// result in the register as well as in memory.
func (c *CPU) indexedCB() {
	d := int8(c.fetch())
	op := c.fetch()
	a := c.hl() + uint16(int16(d))

	x := op >> 6
	y := (op >> 3) & 0x07
	z := op & 0x07

	v := c.read(a)

	var r uint8
	switch x {
	case 0:
		r = c.rot(y, v)
	case 1:
		c.bit(y, v)
		c.F = c.F&^(FlagX|FlagY) | uint8(a>>8)&(FlagX|FlagY)
		c.t += 16
		return
	case 2:
		r = v &^ (1 << y)
	case 3:
		r = v | 1<<y
	}

	c.write(a, r)
	if z != 6 {
		c.setRegPlain(z, r)
	}
	c.t += 19
}

func initCBOps() {
	for op := range 256 {
		x := uint8(op >> 6)
		y := uint8(op>>3) & 0x07
		z := uint8(op) & 0x07

		// the operation on the value. BIT returns false because it does
		// not write the result
		var operate func(c *CPU, v uint8) (uint8, bool)
		switch x {
		case 0:
			operate = func(c *CPU, v uint8) (uint8, bool) {
				return c.rot(y, v), true
			}
		case 1:
			operate = func(c *CPU, v uint8) (uint8, bool) {
				c.bit(y, v)
				return v, false
			}
		case 2:
			operate = func(_ *CPU, v uint8) (uint8, bool) {
				return v &^ (1 << y), true
			}
		case 3:
			operate = func(_ *CPU, v uint8) (uint8, bool) {
				return v | 1<<y, true
			}
		}

		if z == 6 {
			cbOps[op] = func(c *CPU) {
				a := c.HL()
				r, w := operate(c, c.read(a))
				if w {
					c.write(a, r)
					c.t += 15
					return
				}
				c.t += 12
			}
		} else {
			cbOps[op] = func(c *CPU) {
				r, w := operate(c, c.regPlain(z))
				if w {
					c.setRegPlain(z, r)
				}
				c.t += 8
			}
		}
	}
}
