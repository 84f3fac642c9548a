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

// add8 adds b and the carry to the accumulator.
func (c *CPU) add8(b uint8, carry uint8) {
	a := c.A
	r := uint16(a) + uint16(b) + uint16(carry)
	v := uint8(r)
	f := sz(v)
	if (a^b^v)&0x10 != 0 {
		f |= FlagH
	}
	if (a^v)&(b^v)&0x80 != 0 {
		f |= FlagPV
	}
	if r > 0xff {
		f |= FlagC
	}
	c.A = v
	c.F = f
}

// sub8 subtracts b and the carry from the accumulator and returns the
// result. The accumulator is not changed.
func (c *CPU) sub8(b uint8, carry uint8) uint8 {
	a := c.A
	r := int(a) - int(b) - int(carry)
	v := uint8(r)
	f := sz(v) | FlagN
	if (a^b^v)&0x10 != 0 {
		f |= FlagH
	}
	if (a^b)&(a^v)&0x80 != 0 {
		f |= FlagPV
	}
	if r < 0 {
		f |= FlagC
	}
	c.F = f
	return v
}

// alu performs one of the eight accumulator operations selected by bits
// 3-5 of the opcode.
func (c *CPU) alu(op uint8, v uint8) {
	switch op {
	case 0:
		c.add8(v, 0)
	case 1:
		c.add8(v, c.F&FlagC)
	case 2:
		c.A = c.sub8(v, 0)
	case 3:
		c.A = c.sub8(v, c.F&FlagC)
	case 4:
		c.A &= v
		c.F = sz(c.A) | parity(c.A) | FlagH
	case 5:
		c.A ^= v
		c.F = sz(c.A) | parity(c.A)
	case 6:
		c.A |= v
		c.F = sz(c.A) | parity(c.A)
	case 7:
		// X and Y come from the operand for CP
		c.sub8(v, 0)
		c.F = c.F&^(FlagX|FlagY) | v&(FlagX|FlagY)
	}
}

func (c *CPU) inc8(v uint8) uint8 {
	r := v + 1
	f := c.F&FlagC | sz(r)
	if r&0x0f == 0 {
		f |= FlagH
	}
	if r == 0x80 {
		f |= FlagPV
	}
	c.F = f
	return r
}

func (c *CPU) dec8(v uint8) uint8 {
	r := v - 1
	f := c.F&FlagC | sz(r) | FlagN
	if r&0x0f == 0x0f {
		f |= FlagH
	}
	if r == 0x7f {
		f |= FlagPV
	}
	c.F = f
	return r
}

// add16 is ADD HL,rr. S, Z and PV are not affected.
func (c *CPU) add16(a uint16, b uint16) uint16 {
	r := uint32(a) + uint32(b)
	v := uint16(r)
	f := c.F&(FlagS|FlagZ|FlagPV) | uint8(v>>8)&(FlagX|FlagY)
	if (a^b^v)&0x1000 != 0 {
		f |= FlagH
	}
	if r > 0xffff {
		f |= FlagC
	}
	c.F = f
	return v
}

// adc16 is ADC HL,rr.
func (c *CPU) adc16(b uint16) {
	a := c.hl()
	r := uint32(a) + uint32(b) + uint32(c.F&FlagC)
	v := uint16(r)
	f := uint8(v>>8) & (FlagS | FlagX | FlagY)
	if v == 0 {
		f |= FlagZ
	}
	if (a^b^v)&0x1000 != 0 {
		f |= FlagH
	}
	if (a^v)&(b^v)&0x8000 != 0 {
		f |= FlagPV
	}
	if r > 0xffff {
		f |= FlagC
	}
	c.F = f
	c.setHL(v)
}

// sbc16 is SBC HL,rr.
func (c *CPU) sbc16(b uint16) {
	a := c.hl()
	r := int32(a) - int32(b) - int32(c.F&FlagC)
	v := uint16(r)
	f := uint8(v>>8)&(FlagS|FlagX|FlagY) | FlagN
	if v == 0 {
		f |= FlagZ
	}
	if (a^b^v)&0x1000 != 0 {
		f |= FlagH
	}
	if (a^b)&(a^v)&0x8000 != 0 {
		f |= FlagPV
	}
	if r < 0 {
		f |= FlagC
	}
	c.F = f
	c.setHL(v)
}

// daa adjusts the accumulator after a BCD addition or subtraction.
func (c *CPU) daa() {
	a := c.A
	var corr uint8
	carry := c.F & FlagC
	if c.F&FlagH != 0 || a&0x0f > 9 {
		corr |= 0x06
	}
	if carry != 0 || a > 0x99 {
		corr |= 0x60
		carry = FlagC
	}

	var r uint8
	var h uint8
	if c.F&FlagN != 0 {
		r = a - corr
		if c.F&FlagH != 0 && a&0x0f < 6 {
			h = FlagH
		}
	} else {
		r = a + corr
		if a&0x0f > 9 {
			h = FlagH
		}
	}

	c.A = r
	c.F = sz(r) | parity(r) | c.F&FlagN | carry | h
}

// rotateA sets the flags for the four accumulator rotations. S, Z and PV are
// not affected.
func (c *CPU) rotateA(carry uint8) {
	c.F = c.F&(FlagS|FlagZ|FlagPV) | c.A&(FlagX|FlagY) | carry
}

// rot performs one of the eight CB prefixed rotate and shift operations.
// The order is RLC, RRC, RL, RR, SLA, SRA, SLL and SRL.
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
		r = v<<1 | c.F&FlagC
	case 3:
		carry = v & 1
		r = v>>1 | (c.F&FlagC)<<7
	case 4:
		carry = v >> 7
		r = v << 1
	case 5:
		carry = v & 1
		r = v>>1 | v&0x80
	case 6:
		// undocumented. bit 0 is set
		carry = v >> 7
		r = v<<1 | 1
	case 7:
		carry = v & 1
		r = v >> 1
	}
	c.F = sz(r) | parity(r) | carry
	return r
}

// bit tests bit n of v.
func (c *CPU) bit(n uint8, v uint8) {
	f := c.F&FlagC | FlagH | v&(FlagX|FlagY)
	r := v & (1 << n)
	if r == 0 {
		f |= FlagZ | FlagPV
	}
	if r&0x80 != 0 {
		f |= FlagS
	}
	c.F = f
}
