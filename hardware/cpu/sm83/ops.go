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

package sm83

// handler executes one instruction. the opcode has already been fetched. the
// handler adds the T-states of the instruction to c.t.
type handler func(c *CPU)

// the dispatch tables. these are filled in by init() and never change.
var (
	baseOps [256]handler
	cbOps   [256]handler
)

// Unused lists the opcodes that are not part of the SM83 instruction set.
var Unused = []uint8{0xd3, 0xdb, 0xdd, 0xe3, 0xe4, 0xeb, 0xec, 0xed, 0xf4, 0xfc, 0xfd}

func init() {
	initBaseOps()
	initCBOps()
}

func unused(c *CPU) {
	c.illegal = true
	c.t += 4
}

func initBaseOps() {
	baseOps[0x00] = func(c *CPU) { c.t += 4 }

	for p := range 4 {
		// LD rr,nn
		baseOps[0x01|p<<4] = func(c *CPU) {
			c.setRP(p, c.fetch16())
			c.t += 12
		}

		// INC rr
		baseOps[0x03|p<<4] = func(c *CPU) {
			c.setRP(p, c.rp(p)+1)
			c.t += 8
		}

		// ADD HL,rr
		baseOps[0x09|p<<4] = func(c *CPU) {
			c.addHL(c.rp(p))
			c.t += 8
		}

		// DEC rr
		baseOps[0x0b|p<<4] = func(c *CPU) {
			c.setRP(p, c.rp(p)-1)
			c.t += 8
		}

		// POP rr. code 3 is AF
		baseOps[0xc1|p<<4] = func(c *CPU) {
			v := c.pop16()
			if p == 3 {
				c.SetAF(v)
			} else {
				c.setRP(p, v)
			}
			c.t += 12
		}

		// PUSH rr
		baseOps[0xc5|p<<4] = func(c *CPU) {
			if p == 3 {
				c.push16(c.AF())
			} else {
				c.push16(c.rp(p))
			}
			c.t += 16
		}
	}

	// LD (BC),A / LD (DE),A / LD (HL+),A / LD (HL-),A and the loads from the
	// same addresses
	baseOps[0x02] = func(c *CPU) {
		c.write(c.BC(), c.A)
		c.t += 8
	}
	baseOps[0x12] = func(c *CPU) {
		c.write(c.DE(), c.A)
		c.t += 8
	}
	baseOps[0x22] = func(c *CPU) {
		hl := c.HL()
		c.write(hl, c.A)
		c.SetHL(hl + 1)
		c.t += 8
	}
	baseOps[0x32] = func(c *CPU) {
		hl := c.HL()
		c.write(hl, c.A)
		c.SetHL(hl - 1)
		c.t += 8
	}
	baseOps[0x0a] = func(c *CPU) {
		c.A = c.read(c.BC())
		c.t += 8
	}
	baseOps[0x1a] = func(c *CPU) {
		c.A = c.read(c.DE())
		c.t += 8
	}
	baseOps[0x2a] = func(c *CPU) {
		hl := c.HL()
		c.A = c.read(hl)
		c.SetHL(hl + 1)
		c.t += 8
	}
	baseOps[0x3a] = func(c *CPU) {
		hl := c.HL()
		c.A = c.read(hl)
		c.SetHL(hl - 1)
		c.t += 8
	}

	for y := range uint8(8) {
		// INC r
		baseOps[0x04|y<<3] = func(c *CPU) {
			c.setReg(y, c.inc8(c.reg(y)))
			if y == 6 {
				c.t += 12
				return
			}
			c.t += 4
		}

		// DEC r
		baseOps[0x05|y<<3] = func(c *CPU) {
			c.setReg(y, c.dec8(c.reg(y)))
			if y == 6 {
				c.t += 12
				return
			}
			c.t += 4
		}

		// LD r,n
		baseOps[0x06|y<<3] = func(c *CPU) {
			c.setReg(y, c.fetch())
			if y == 6 {
				c.t += 12
				return
			}
			c.t += 8
		}

		// ALU A,n
		baseOps[0xc6|y<<3] = func(c *CPU) {
			c.alu(y, c.fetch())
			c.t += 8
		}

		// RST p
		baseOps[0xc7|y<<3] = func(c *CPU) {
			c.push16(c.PC)
			c.PC = uint16(y) << 3
			c.t += 16
		}
	}

	// the conditional instructions. only the first four conditions exist
	for y := range uint8(4) {
		// JR cc,e
		baseOps[0x20|y<<3] = func(c *CPU) {
			e := int8(c.fetch())
			if c.condition(y) {
				c.PC += uint16(int16(e))
				c.t += 12
				return
			}
			c.t += 8
		}

		// RET cc
		baseOps[0xc0|y<<3] = func(c *CPU) {
			if c.condition(y) {
				c.PC = c.pop16()
				c.t += 20
				return
			}
			c.t += 8
		}

		// JP cc,nn
		baseOps[0xc2|y<<3] = func(c *CPU) {
			a := c.fetch16()
			if c.condition(y) {
				c.PC = a
				c.t += 16
				return
			}
			c.t += 12
		}

		// CALL cc,nn
		baseOps[0xc4|y<<3] = func(c *CPU) {
			a := c.fetch16()
			if c.condition(y) {
				c.push16(c.PC)
				c.PC = a
				c.t += 24
				return
			}
			c.t += 12
		}
	}

	// RLCA
	baseOps[0x07] = func(c *CPU) {
		carry := c.A >> 7
		c.A = c.A<<1 | carry
		c.F = carry << 4
		c.t += 4
	}

	// RRCA
	baseOps[0x0f] = func(c *CPU) {
		carry := c.A & 1
		c.A = c.A>>1 | c.A<<7
		c.F = carry << 4
		c.t += 4
	}

	// RLA
	baseOps[0x17] = func(c *CPU) {
		carry := c.A >> 7
		c.A = c.A<<1 | c.carry()
		c.F = carry << 4
		c.t += 4
	}

	// RRA
	baseOps[0x1f] = func(c *CPU) {
		carry := c.A & 1
		c.A = c.A>>1 | c.carry()<<7
		c.F = carry << 4
		c.t += 4
	}

	// LD (nn),SP
	baseOps[0x08] = func(c *CPU) {
		c.write16(c.fetch16(), c.SP)
		c.t += 20
	}

	// STOP. the second byte is ignored
	baseOps[0x10] = func(c *CPU) {
		c.fetch()
		c.stopped = true
		c.t += 4
	}

	// JR e
	baseOps[0x18] = func(c *CPU) {
		e := int8(c.fetch())
		c.PC += uint16(int16(e))
		c.t += 12
	}

	// DAA
	baseOps[0x27] = func(c *CPU) {
		c.daa()
		c.t += 4
	}

	// CPL
	baseOps[0x2f] = func(c *CPU) {
		c.A = ^c.A
		c.F = c.F&(FlagZ|FlagC) | FlagN | FlagH
		c.t += 4
	}

	// SCF
	baseOps[0x37] = func(c *CPU) {
		c.F = c.F&FlagZ | FlagC
		c.t += 4
	}

	// CCF
	baseOps[0x3f] = func(c *CPU) {
		c.F = c.F&FlagZ | (c.F & FlagC) ^ FlagC
		c.t += 4
	}

	// LD r,r'
	for op := 0x40; op <= 0x7f; op++ {
		dst := uint8(op>>3) & 0x07
		src := uint8(op) & 0x07
		if src == 6 && dst == 6 {
			baseOps[op] = halt
			continue
		}
		baseOps[op] = func(c *CPU) {
			c.setReg(dst, c.reg(src))
			if src == 6 || dst == 6 {
				c.t += 8
				return
			}
			c.t += 4
		}
	}

	// ALU A,r
	for op := 0x80; op <= 0xbf; op++ {
		fn := uint8(op>>3) & 0x07
		src := uint8(op) & 0x07
		baseOps[op] = func(c *CPU) {
			c.alu(fn, c.reg(src))
			if src == 6 {
				c.t += 8
				return
			}
			c.t += 4
		}
	}

	// JP nn
	baseOps[0xc3] = func(c *CPU) {
		c.PC = c.fetch16()
		c.t += 16
	}

	// RET
	baseOps[0xc9] = func(c *CPU) {
		c.PC = c.pop16()
		c.t += 16
	}

	// RETI. interrupts are enabled immediately
	baseOps[0xd9] = func(c *CPU) {
		c.PC = c.pop16()
		c.IME = true
		c.t += 16
	}

	// CALL nn
	baseOps[0xcd] = func(c *CPU) {
		a := c.fetch16()
		c.push16(c.PC)
		c.PC = a
		c.t += 24
	}

	// LDH (n),A / LDH A,(n)
	baseOps[0xe0] = func(c *CPU) {
		c.write(0xff00|uint16(c.fetch()), c.A)
		c.t += 12
	}
	baseOps[0xf0] = func(c *CPU) {
		c.A = c.read(0xff00 | uint16(c.fetch()))
		c.t += 12
	}

	// LD (C),A / LD A,(C)
	baseOps[0xe2] = func(c *CPU) {
		c.write(0xff00|uint16(c.C), c.A)
		c.t += 8
	}
	baseOps[0xf2] = func(c *CPU) {
		c.A = c.read(0xff00 | uint16(c.C))
		c.t += 8
	}

	// ADD SP,e
	baseOps[0xe8] = func(c *CPU) {
		c.SP = c.addSP(c.fetch())
		c.t += 16
	}

	// LD HL,SP+e
	baseOps[0xf8] = func(c *CPU) {
		c.SetHL(c.addSP(c.fetch()))
		c.t += 12
	}

	// JP HL
	baseOps[0xe9] = func(c *CPU) {
		c.PC = c.HL()
		c.t += 4
	}

	// LD SP,HL
	baseOps[0xf9] = func(c *CPU) {
		c.SP = c.HL()
		c.t += 8
	}

	// LD (nn),A / LD A,(nn)
	baseOps[0xea] = func(c *CPU) {
		c.write(c.fetch16(), c.A)
		c.t += 16
	}
	baseOps[0xfa] = func(c *CPU) {
		c.A = c.read(c.fetch16())
		c.t += 16
	}

	// DI
	baseOps[0xf3] = func(c *CPU) {
		c.IME = false
		c.eiPending = false
		c.t += 4
	}

	// EI
	baseOps[0xfb] = func(c *CPU) {
		c.eiPending = true
		c.t += 4
	}

	// CB prefix
	baseOps[0xcb] = func(c *CPU) {
		cbOps[c.fetch()](c)
	}

	for _, op := range Unused {
		baseOps[op] = unused
	}
}

// HALT waits for an enabled interrupt source. if IME is clear and a source
// is already pending the CPU does not halt and the next opcode is fetched
// twice.
func halt(c *CPU) {
	if !c.IME && c.pending() != 0 {
		c.haltBug = true
	} else {
		c.halted = true
	}
	c.t += 4
}

func initCBOps() {
	for op := range 256 {
		x := uint8(op >> 6)
		y := uint8(op>>3) & 0x07
		z := uint8(op) & 0x07

		cycles := 8
		if z == 6 {
			cycles = 16
			if x == 1 {
				cycles = 12
			}
		}

		switch x {
		case 0:
			cbOps[op] = func(c *CPU) {
				c.setReg(z, c.rot(y, c.reg(z)))
				c.t += cycles
			}
		case 1:
			cbOps[op] = func(c *CPU) {
				c.bit(y, c.reg(z))
				c.t += cycles
			}
		case 2:
			cbOps[op] = func(c *CPU) {
				c.setReg(z, c.reg(z)&^(1<<y))
				c.t += cycles
			}
		case 3:
			cbOps[op] = func(c *CPU) {
				c.setReg(z, c.reg(z)|1<<y)
				c.t += cycles
			}
		}
	}
}
