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

// Flag bits of the F register. The low four bits of F are always zero.
const (
	FlagC = uint8(0x10)
	FlagH = uint8(0x20)
	FlagN = uint8(0x40)
	FlagZ = uint8(0x80)
)

// AF returns the A and F registers as a pair.
func (c *CPU) AF() uint16 {
	return uint16(c.A)<<8 | uint16(c.F)
}

// SetAF loads the A and F registers. The low four bits of F are discarded.
func (c *CPU) SetAF(v uint16) {
	c.A = uint8(v >> 8)
	c.F = uint8(v) & 0xf0
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

// reg returns the register identified by the three bit code used in the
// opcode. Code 6 is the (HL) operand and reads memory.
func (c *CPU) reg(code uint8) uint8 {
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
	case 6:
		return c.read(c.HL())
	}
	return c.A
}

func (c *CPU) setReg(code uint8, v uint8) {
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
	case 6:
		c.write(c.HL(), v)
	default:
		c.A = v
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
		return c.HL()
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
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// condition tests one of the four condition codes: NZ, Z, NC and C.
func (c *CPU) condition(code uint8) bool {
	f := FlagZ
	if code&0x02 != 0 {
		f = FlagC
	}
	return (c.F&f != 0) == (code&1 == 1)
}

func zero(v uint8) uint8 {
	if v == 0 {
		return FlagZ
	}
	return 0
}
