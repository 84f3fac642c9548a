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

func (c *CPU) add8(b uint8, carry uint8) {
	a := c.A
	r := uint16(a) + uint16(b) + uint16(carry)
	f := zero(uint8(r))
	if a&0x0f+b&0x0f+carry > 0x0f {
		f |= FlagH
	}
	if r > 0xff {
		f |= FlagC
	}
	c.A = uint8(r)
	c.F = f
}

// sub8 returns the result of the subtraction. The accumulator is not changed.
func (c *CPU) sub8(b uint8, carry uint8) uint8 {
	a := c.A
	r := int(a) - int(b) - int(carry)
	f := zero(uint8(r)) | FlagN
	if int(a&0x0f)-int(b&0x0f)-int(carry) < 0 {
		f |= FlagH
	}
	if r < 0 {
		f |= FlagC
	}
	c.F = f
	return uint8(r)
}

// alu performs one of the eight accumulator operations selected by bits
// 3-5 of the opcode.
func (c *CPU) alu(op uint8, v uint8) {
	switch op {
	case 0:
		c.add8(v, 0)
	case 1:
		c.add8(v, c.carry())
	case 2:
		c.A = c.sub8(v, 0)
	case 3:
		c.A = c.sub8(v, c.carry())
	case 4:
		c.A &= v
		c.F = zero(c.A) | FlagH
	case 5:
		c.A ^= v
		c.F = zero(c.A)
	case 6:
		c.A |= v
		c.F = zero(c.A)
	case 7:
		c.sub8(v, 0)
	}
}

// carry returns the carry flag as 0 or 1.
func (c *CPU) carry() uint8 {
	return (c.F & FlagC) >> 4
}

func (c *CPU) inc8(v uint8) uint8 {
	r := v + 1
	f := c.F&FlagC | zero(r)
	if r&0x0f == 0 {
		f |= FlagH
	}
	c.F = f
	return r
}

func (c *CPU) dec8(v uint8) uint8 {
	r := v - 1
	f := c.F&FlagC | zero(r) | FlagN
	if r&0x0f == 0x0f {
		f |= FlagH
	}
	c.F = f
	return r
}

// addHL is ADD HL,rr. Z is not affected.
func (c *CPU) addHL(b uint16) {
	a := c.HL()
	r := uint32(a) + uint32(b)
	f := c.F & FlagZ
	if a&0x0fff+b&0x0fff > 0x0fff {
		f |= FlagH
	}
	if r > 0xffff {
		f |= FlagC
	}
	c.F = f
	c.SetHL(uint16(r))
}

// addSP returns SP plus the signed operand. Used by ADD SP,e and LD HL,SP+e.
// H and C are from the unsigned addition of the low bytes.
func (c *CPU) addSP(e uint8) uint16 {
	sp := c.SP
	var f uint8
	if sp&0x0f+uint16(e&0x0f) > 0x0f {
		f |= FlagH
	}
	if sp&0xff+uint16(e) > 0xff {
		f |= FlagC
	}
	c.F = f
	return sp + uint16(int16(int8(e)))
}

func (c *CPU) daa() {
	a := c.A
	f := c.F & (FlagN | FlagC)
	if c.F&FlagN == 0 {
		if c.F&FlagC != 0 || a > 0x99 {
			a += 0x60
			f |= FlagC
		}
		if c.F&FlagH != 0 || a&0x0f > 0x09 {
			a += 0x06
		}
	} else {
		if c.F&FlagC != 0 {
			a -= 0x60
		}
		if c.F&FlagH != 0 {
			a -= 0x06
		}
	}
	c.A = a
	c.F = f | zero(a)
}

// rot performs one of the eight CB prefixed rotate and shift operations. The
// order is RLC, RRC, RL, RR, SLA, SRA, SWAP and SRL.
func (c *CPU) rot(op uint8, v uint8) uint8 {
	var r, carry uint8
	switch op {
	case 0:
		carry = v >> 7
		r = v<<1 | carry
	case 1:
		carry = v & 1
		r = v>>1 | v<<7
	case 2:
		carry = v >> 7
		r = v<<1 | c.carry()
	case 3:
		carry = v & 1
		r = v>>1 | c.carry()<<7
	case 4:
		carry = v >> 7
		r = v << 1
	case 5:
		carry = v & 1
		r = v>>1 | v&0x80
	case 6:
		r = v<<4 | v>>4
	case 7:
		carry = v & 1
		r = v >> 1
	}
	c.F = zero(r) | carry<<4
	return r
}

func (c *CPU) bit(n uint8, v uint8) {
	c.F = c.F&FlagC | FlagH | zero(v&(1<<n))
}
