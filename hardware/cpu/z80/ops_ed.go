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

// undefined ED opcodes are two byte NOPs.
func undefinedED(c *CPU) {
	c.illegal = true
	c.t += 8
}

func initEDOps() {
	for i := range edOps {
		edOps[i] = undefinedED
	}

	for y := range uint8(8) {
		// IN r,(C). IN (C) sets the flags only
		edOps[0x40|y<<3] = func(c *CPU) {
			v := c.io.In(c.BC())
			if y != 6 {
				c.setRegPlain(y, v)
			}
			c.F = c.F&FlagC | sz(v) | parity(v)
			c.t += 12
		}

		// OUT (C),r. OUT (C),0 outputs zero
		edOps[0x41|y<<3] = func(c *CPU) {
			var v uint8
			if y != 6 {
				v = c.regPlain(y)
			}
			c.io.Out(c.BC(), v)
			c.t += 12
		}

		// NEG
		edOps[0x44|y<<3] = func(c *CPU) {
			a := c.A
			c.A = 0
			c.A = c.sub8(a, 0)
			c.t += 8
		}

		// RETN and RETI
		edOps[0x45|y<<3] = func(c *CPU) {
			c.IFF1 = c.IFF2
			c.PC = c.pop16()
			c.t += 14
		}
	}

	for p := range 4 {
		// SBC HL,rr
		edOps[0x42|p<<4] = func(c *CPU) {
			c.sbc16(c.rp(p))
			c.t += 15
		}

		// ADC HL,rr
		edOps[0x4a|p<<4] = func(c *CPU) {
			c.adc16(c.rp(p))
			c.t += 15
		}

		// LD (nn),rr
		edOps[0x43|p<<4] = func(c *CPU) {
			c.write16(c.fetch16(), c.rp(p))
			c.t += 20
		}

		// LD rr,(nn)
		edOps[0x4b|p<<4] = func(c *CPU) {
			c.setRP(p, c.read16(c.fetch16()))
			c.t += 20
		}
	}

	// IM 0, IM 1 and IM 2 including the undocumented duplicates
	for _, op := range []uint8{0x46, 0x4e, 0x66, 0x6e} {
		edOps[op] = func(c *CPU) {
			c.IM = 0
			c.t += 8
		}
	}
	for _, op := range []uint8{0x56, 0x76} {
		edOps[op] = func(c *CPU) {
			c.IM = 1
			c.t += 8
		}
	}
	for _, op := range []uint8{0x5e, 0x7e} {
		edOps[op] = func(c *CPU) {
			c.IM = 2
			c.t += 8
		}
	}

	// LD I,A
	edOps[0x47] = func(c *CPU) {
		c.I = c.A
		c.t += 9
	}

	// LD R,A
	edOps[0x4f] = func(c *CPU) {
		c.R = c.A
		c.t += 9
	}

	// LD A,I
	edOps[0x57] = func(c *CPU) {
		c.A = c.I
		c.ldAIR()
	}

	// LD A,R
	edOps[0x5f] = func(c *CPU) {
		c.A = c.R
		c.ldAIR()
	}

	// RRD
	edOps[0x67] = func(c *CPU) {
		a := c.HL()
		m := c.read(a)
		c.write(a, c.A<<4|m>>4)
		c.A = c.A&0xf0 | m&0x0f
		c.F = c.F&FlagC | sz(c.A) | parity(c.A)
		c.t += 18
	}

	// RLD
	edOps[0x6f] = func(c *CPU) {
		a := c.HL()
		m := c.read(a)
		c.write(a, m<<4|c.A&0x0f)
		c.A = c.A&0xf0 | m>>4
		c.F = c.F&FlagC | sz(c.A) | parity(c.A)
		c.t += 18
	}

	// block instructions. the low two bits select the operation, bit 3 the
	// direction and bit 4 the repeating form
	for op := 0xa0; op <= 0xbb; op++ {
		if op&0x04 != 0 {
			continue
		}
		dir := uint16(1)
		if op&0x08 != 0 {
			dir = 0xffff
		}
		repeat := op&0x10 != 0

		switch op & 0x03 {
		case 0:
			edOps[op] = func(c *CPU) { c.blockLD(dir, repeat) }
		case 1:
			edOps[op] = func(c *CPU) { c.blockCP(dir, repeat) }
		case 2:
			edOps[op] = func(c *CPU) { c.blockIN(dir, repeat) }
		case 3:
			edOps[op] = func(c *CPU) { c.blockOUT(dir, repeat) }
		}
	}
}

func (c *CPU) ldAIR() {
	f := c.F&FlagC | sz(c.A)
	if c.IFF2 {
		f |= FlagPV
	}
	c.F = f
	c.t += 9
}

// repeatBlock moves the PC back to the start of the instruction if the
// repeating form of a block instruction has not finished.
func (c *CPU) repeatBlock(again bool) {
	if again {
		c.PC -= 2
		c.t += 21
		return
	}
	c.t += 16
}

// LDI, LDD, LDIR and LDDR.
func (c *CPU) blockLD(dir uint16, repeat bool) {
	v := c.read(c.HL())
	c.write(c.DE(), v)
	c.SetHL(c.HL() + dir)
	c.SetDE(c.DE() + dir)
	c.SetBC(c.BC() - 1)

	n := v + c.A
	f := c.F&(FlagS|FlagZ|FlagC) | n&FlagX | (n<<4)&FlagY
	if c.BC() != 0 {
		f |= FlagPV
	}
	c.F = f

	c.repeatBlock(repeat && c.BC() != 0)
}

// CPI, CPD, CPIR and CPDR.
func (c *CPU) blockCP(dir uint16, repeat bool) {
	v := c.read(c.HL())
	r := c.A - v
	c.SetHL(c.HL() + dir)
	c.SetBC(c.BC() - 1)

	f := c.F&FlagC | FlagN | sz(r)&^(FlagX|FlagY)
	if (c.A^v^r)&0x10 != 0 {
		f |= FlagH
	}
	if c.BC() != 0 {
		f |= FlagPV
	}
	c.F = f

	c.repeatBlock(repeat && c.BC() != 0 && r != 0)
}

// INI, IND, INIR and INDR.
func (c *CPU) blockIN(dir uint16, repeat bool) {
	v := c.io.In(c.BC())
	c.write(c.HL(), v)
	c.SetHL(c.HL() + dir)
	c.B--
	c.F = c.F&FlagC | sz(c.B) | FlagN
	c.repeatBlock(repeat && c.B != 0)
}

// OUTI, OUTD, OTIR and OTDR. B is decremented before the port is written.
func (c *CPU) blockOUT(dir uint16, repeat bool) {
	v := c.read(c.HL())
	c.B--
	c.io.Out(c.BC(), v)
	c.SetHL(c.HL() + dir)
	c.F = c.F&FlagC | sz(c.B) | FlagN
	c.repeatBlock(repeat && c.B != 0)
}
