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

import "math/bits"

// Flag bits of the F register.
const (
	FlagC  = uint8(0x01)
	FlagN  = uint8(0x02)
	FlagPV = uint8(0x04)
	FlagX  = uint8(0x08)
	FlagH  = uint8(0x10)
	FlagY  = uint8(0x20)
	FlagZ  = uint8(0x40)
	FlagS  = uint8(0x80)
)

// AF returns the A and F registers as a pair.
func (c *CPU) AF() uint16 {
	return uint16(c.A)<<8 | uint16(c.F)
}

// SetAF loads the A and F registers.
func (c *CPU) SetAF(v uint16) {
	c.A = uint8(v >> 8)
	c.F = uint8(v)
}

// BC returns the B and C registers as a pair.
func (c *CPU) BC() uint16 {
	return uint16(c.B)<<8 | uint16(c.C)
}

// SetBC loads the B and C registers.
func (c *CPU) SetBC(v uint16) {
	c.B = uint8(v >> 8)
	c.C = uint8(v)
}

// DE returns the D and E registers as a pair.
func (c *CPU) DE() uint16 {
	return uint16(c.D)<<8 | uint16(c.E)
}

// SetDE loads the D and E registers.
func (c *CPU) SetDE(v uint16) {
	c.D = uint8(v >> 8)
	c.E = uint8(v)
}

// HL returns the H and L registers as a pair.
func (c *CPU) HL() uint16 {
	return uint16(c.H)<<8 | uint16(c.L)
}

// SetHL loads the H and L registers.
func (c *CPU) SetHL(v uint16) {
	c.H = uint8(v >> 8)
	c.L = uint8(v)
}

// the index register currently standing in for HL.
type indexMode int

const (
	noIndex indexMode = iota
	indexIX
	indexIY
)

// hl returns HL, IX or IY depending on the current prefix.
func (c *CPU) hl() uint16 {
	switch c.idx {
	case indexIX:
		return c.IX
	case indexIY:
		return c.IY
	}
	return c.HL()
}

func (c *CPU) setHL(v uint16) {
	switch c.idx {
	case indexIX:
		c.IX = v
	case indexIY:
		c.IY = v
	default:
		c.SetHL(v)
	}
}

// reg returns the 8bit register identified by the three bit code used in
// the opcode. Codes 4 and 5 select the halves of the index register when
// a prefix is in effect. Code 6 is the (HL) operand and is not handled here.
func (c *CPU) reg(code uint8) uint8 {
	switch code {
	case 4:
		return uint8(c.hl() >> 8)
	case 5:
		return uint8(c.hl())
	}
	return c.regPlain(code)
}

func (c *CPU) setReg(code uint8, v uint8) {
	switch code {
	case 4:
		c.setHL(c.hl()&0x00ff | uint16(v)<<8)
	case 5:
		c.setHL(c.hl()&0xff00 | uint16(v))
	default:
		c.setRegPlain(code, v)
	}
}

// regPlain is like reg but always uses H and L. Instructions that use an
// indexed memory operand refer to H and L for their register operand.
func (c *CPU) regPlain(code uint8) uint8 {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 7:
		return c.A
	}
	panic("z80: register code 6 is a memory operand")
}

func (c *CPU) setRegPlain(code uint8, v uint8) {
	switch code {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 7:
		c.A = v
	default:
		panic("z80: register code 6 is a memory operand")
	}
}

// rp returns the register pair identified by the two bit code used in the
// opcode. Code 3 is SP.
func (c *CPU) rp(code int) uint16 {
	switch code {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.hl()
	}
	return c.SP
}

func (c *CPU) setRP(code int, v uint16) {
	switch code {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.setHL(v)
	default:
		c.SP = v
	}
}

// rp2 is like rp except that code 3 is AF. Used by PUSH and POP.
func (c *CPU) rp2(code int) uint16 {
	if code == 3 {
		return c.AF()
	}
	return c.rp(code)
}

func (c *CPU) setRP2(code int, v uint16) {
	if code == 3 {
		c.SetAF(v)
		return
	}
	c.setRP(code, v)
}

// condition tests one of the eight condition codes. The order is NZ, Z, NC,
// C, PO, PE, P, M.
func (c *CPU) condition(code uint8) bool {
	var f uint8
	switch code >> 1 {
	case 0:
		f = FlagZ
	case 1:
		f = FlagC
	case 2:
		f = FlagPV
	case 3:
		f = FlagS
	}
	return (c.F&f != 0) == (code&1 == 1)
}

// sz returns the sign, zero and undocumented X/Y flags for a result.
func sz(v uint8) uint8 {
	f := v & (FlagS | FlagX | FlagY)
	if v == 0 {
		f |= FlagZ
	}
	return f
}

// parity returns FlagPV if the value has even parity.
func parity(v uint8) uint8 {
	if bits.OnesCount8(v)&1 == 0 {
		return FlagPV
	}
	return 0
}
