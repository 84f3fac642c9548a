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

package z80_test

import (
	"testing"

	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/cpu/z80"
	"github.com/lockstep-emu/lockstep/test"
)

func TestImplementsCore(t *testing.T) {
	c, _, _, _ := newCPU()
	test.ExpectImplements(t, c, cpu.Core(nil))
}

func TestReset(t *testing.T) {
	c, _, _, _ := newCPU()
	test.ExpectEquality(t, c.PC, uint16(0x0000))
	test.ExpectEquality(t, c.SP, uint16(0xffff))
	test.ExpectEquality(t, c.AF(), uint16(0xffff))
	test.ExpectEquality(t, c.IFF1, false)
	test.ExpectEquality(t, c.IM, uint8(0))
}

func TestTimings(t *testing.T) {
	var tests = []struct {
		name   string
		code   []uint8
		cycles int
	}{
		{"NOP", []uint8{0x00}, 4},
		{"LD BC,nn", []uint8{0x01, 0x34, 0x12}, 10},
		{"LD A,(HL)", []uint8{0x7e}, 7},
		{"LD (HL),n", []uint8{0x36, 0x55}, 10},
		{"INC (HL)", []uint8{0x34}, 11},
		{"LD (nn),A", []uint8{0x32, 0x00, 0x10}, 13},
		{"LD (nn),HL", []uint8{0x22, 0x00, 0x10}, 16},
		{"ADD HL,BC", []uint8{0x09}, 11},
		{"INC BC", []uint8{0x03}, 6},
		{"PUSH BC", []uint8{0xc5}, 11},
		{"POP BC", []uint8{0xc1}, 10},
		{"EX (SP),HL", []uint8{0xe3}, 19},
		{"CALL nn", []uint8{0xcd, 0x00, 0x10}, 17},
		{"RET", []uint8{0xc9}, 10},
		{"RST 38", []uint8{0xff}, 11},
		{"JP nn", []uint8{0xc3, 0x00, 0x10}, 10},
		{"OUT (n),A", []uint8{0xd3, 0x10}, 11},
		{"IN A,(n)", []uint8{0xdb, 0x10}, 11},
		{"RLC B", []uint8{0xcb, 0x00}, 8},
		{"BIT 0,(HL)", []uint8{0xcb, 0x46}, 12},
		{"SET 0,(HL)", []uint8{0xcb, 0xc6}, 15},
		{"NEG", []uint8{0xed, 0x44}, 8},
		{"ADC HL,BC", []uint8{0xed, 0x4a}, 15},
		{"LD (nn),BC", []uint8{0xed, 0x43, 0x00, 0x10}, 20},
		{"IN A,(C)", []uint8{0xed, 0x78}, 12},
		{"RRD", []uint8{0xed, 0x67}, 18},
		{"LD A,I", []uint8{0xed, 0x57}, 9},
		{"IM 1", []uint8{0xed, 0x56}, 8},
		{"LD IX,nn", []uint8{0xdd, 0x21, 0x00, 0x10}, 14},
		{"ADD IX,BC", []uint8{0xdd, 0x09}, 15},
		{"PUSH IX", []uint8{0xdd, 0xe5}, 15},
		{"JP (IX)", []uint8{0xdd, 0xe9}, 8},
		{"LD IXH,n", []uint8{0xdd, 0x26, 0x12}, 11},
		{"LD A,(IX+d)", []uint8{0xdd, 0x7e, 0x05}, 19},
		{"LD (IY+d),n", []uint8{0xfd, 0x36, 0x05, 0x99}, 19},
		{"INC (IX+d)", []uint8{0xdd, 0x34, 0x01}, 23},
		{"ADD A,(IY+d)", []uint8{0xfd, 0x86, 0x01}, 19},
		{"BIT 0,(IX+d)", []uint8{0xdd, 0xcb, 0x02, 0x46}, 20},
		{"SET 0,(IY+d)", []uint8{0xfd, 0xcb, 0x02, 0xc6}, 23},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, m, _, _ := newCPU()
			m.load(0x0000, tc.code...)
			test.ExpectEquality(t, step(t, c), tc.cycles)
			test.ExpectEquality(t, c.Cycles(), uint64(tc.cycles))
		})
	}
}

func TestConditionalTimings(t *testing.T) {
	// all flags are set after reset
	var tests = []struct {
		name   string
		code   []uint8
		setup  func(c *z80.CPU)
		cycles int
		pc     uint16
	}{
		{"JR NZ not taken", []uint8{0x20, 0x05}, nil, 7, 0x0002},
		{"JR Z taken", []uint8{0x28, 0x05}, nil, 12, 0x0007},
		{"JR taken backwards", []uint8{0x18, 0xfe}, nil, 12, 0x0000},
		{"DJNZ not taken", []uint8{0x10, 0x05}, func(c *z80.CPU) { c.B = 1 }, 8, 0x0002},
		{"DJNZ taken", []uint8{0x10, 0x05}, func(c *z80.CPU) { c.B = 2 }, 13, 0x0007},
		{"CALL NZ not taken", []uint8{0xc4, 0x00, 0x10}, nil, 10, 0x0003},
		{"CALL Z taken", []uint8{0xcc, 0x00, 0x10}, nil, 17, 0x1000},
		{"RET NZ not taken", []uint8{0xc0}, nil, 5, 0x0001},
		{"RET Z taken", []uint8{0xc8}, func(c *z80.CPU) { c.SP = 0x2000 }, 11, 0x0000},
		{"JP NZ not taken", []uint8{0xc2, 0x00, 0x10}, nil, 10, 0x0003},
		{"JP PE taken", []uint8{0xea, 0x00, 0x10}, nil, 10, 0x1000},
		{"JP P not taken", []uint8{0xf2, 0x00, 0x10}, nil, 10, 0x0003},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, m, _, _ := newCPU()
			m.load(0x0000, tc.code...)
			if tc.setup != nil {
				tc.setup(c)
			}
			test.ExpectEquality(t, step(t, c), tc.cycles)
			test.ExpectEquality(t, c.PC, tc.pc)
		})
	}
}

func TestBlockRepeat(t *testing.T) {
	c, m, _, _ := newCPU()
	m.load(0x0000, 0xed, 0xb0) // LDIR
	m.load(0x1000, 0xaa, 0xbb)
	c.SetHL(0x1000)
	c.SetDE(0x2000)
	c.SetBC(2)

	test.ExpectEquality(t, step(t, c), 21)
	test.ExpectEquality(t, c.PC, uint16(0x0000))
	test.ExpectEquality(t, step(t, c), 16)
	test.ExpectEquality(t, c.PC, uint16(0x0002))
	test.ExpectEquality(t, m.data[0x2000], uint8(0xaa))
	test.ExpectEquality(t, m.data[0x2001], uint8(0xbb))
	test.ExpectEquality(t, c.BC(), uint16(0))
	test.ExpectEquality(t, c.F&z80.FlagPV, uint8(0))

	// CPIR stops when a match is found
	c, m, _, _ = newCPU()
	m.load(0x0000, 0xed, 0xb1)
	m.load(0x1000, 0x01, 0x02, 0x03)
	c.SetHL(0x1000)
	c.SetBC(3)
	c.A = 0x02

	test.ExpectEquality(t, step(t, c), 21)
	test.ExpectEquality(t, step(t, c), 16)
	test.ExpectEquality(t, c.HL(), uint16(0x1002))
	test.ExpectEquality(t, c.F&z80.FlagZ, z80.FlagZ)
	test.ExpectEquality(t, c.F&z80.FlagPV, z80.FlagPV)
}

func TestFlags(t *testing.T) {
	t.Run("ADD overflow", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0x3e, 0x7f, 0xc6, 0x01)
		step(t, c)
		c.F = 0
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x80))
		test.ExpectEquality(t, c.F, z80.FlagS|z80.FlagH|z80.FlagPV)
	})

	t.Run("SUB borrow", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0x3e, 0x00, 0xd6, 0x01)
		step(t, c)
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0xff))
		test.ExpectEquality(t, c.F, z80.FlagS|z80.FlagY|z80.FlagX|z80.FlagH|z80.FlagN|z80.FlagC)
	})

	t.Run("CP equal", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0x3e, 0x10, 0xfe, 0x10)
		step(t, c)
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x10))
		test.ExpectEquality(t, c.F, z80.FlagZ|z80.FlagN)
	})

	t.Run("INC preserves carry", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0x3c)
		c.A = 0xff
		c.F = z80.FlagC
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x00))
		test.ExpectEquality(t, c.F, z80.FlagZ|z80.FlagH|z80.FlagC)
	})

	t.Run("DEC overflow", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0x3d)
		c.A = 0x80
		c.F = 0
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x7f))
		test.ExpectEquality(t, c.F, z80.FlagY|z80.FlagH|z80.FlagX|z80.FlagPV|z80.FlagN)
	})

	t.Run("DAA", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0x3e, 0x09, 0xc6, 0x01, 0x27)
		step(t, c)
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x0a))
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x10))
		test.ExpectEquality(t, c.F, z80.FlagH)
	})

	t.Run("BIT 7,A", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0xcb, 0x7f)
		c.A = 0x80
		c.F = z80.FlagC
		step(t, c)
		test.ExpectEquality(t, c.F, z80.FlagS|z80.FlagH|z80.FlagC)
	})

	t.Run("AND parity", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0xe6, 0x03)
		c.A = 0x0f
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x03))
		test.ExpectEquality(t, c.F, z80.FlagH|z80.FlagPV)
	})

	t.Run("SBC HL", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0xed, 0x42)
		c.SetHL(0x1000)
		c.SetBC(0x1000)
		c.F = 0
		step(t, c)
		test.ExpectEquality(t, c.HL(), uint16(0))
		test.ExpectEquality(t, c.F, z80.FlagZ|z80.FlagN)
	})

	t.Run("SRL", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0xcb, 0x38)
		c.B = 0x01
		step(t, c)
		test.ExpectEquality(t, c.B, uint8(0x00))
		test.ExpectEquality(t, c.F, z80.FlagZ|z80.FlagPV|z80.FlagC)
	})
}

func TestExchange(t *testing.T) {
	c, m, _, _ := newCPU()
	m.load(0x0000, 0x08, 0xd9, 0xeb)
	c.SetBC(0x1111)
	c.SetDE(0x2222)
	c.SetHL(0x3333)
	c.AltAF = 0x4444

	step(t, c)
	test.ExpectEquality(t, c.AF(), uint16(0x4444))
	test.ExpectEquality(t, c.AltAF, uint16(0xffff))

	step(t, c)
	test.ExpectEquality(t, c.BC(), uint16(0))
	test.ExpectEquality(t, c.AltBC, uint16(0x1111))
	test.ExpectEquality(t, c.AltHL, uint16(0x3333))

	c.SetDE(0x5555)
	c.SetHL(0x6666)
	step(t, c)
	test.ExpectEquality(t, c.DE(), uint16(0x6666))
	test.ExpectEquality(t, c.HL(), uint16(0x5555))
}

func TestIndexPrefix(t *testing.T) {
	t.Run("prefix before non-HL instruction", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0xdd, 0x00, 0xdd, 0xdd, 0x21, 0x34, 0x12)
		// the prefix and the NOP are one step
		test.ExpectEquality(t, step(t, c), 8)
		test.ExpectEquality(t, c.PC, uint16(0x0002))

		// a repeated prefix: the first is a NOP
		test.ExpectEquality(t, step(t, c), 4)
		test.ExpectEquality(t, c.PC, uint16(0x0003))
		test.ExpectEquality(t, step(t, c), 14)
		test.ExpectEquality(t, c.IX, uint16(0x1234))
		test.ExpectEquality(t, c.HL(), uint16(0x0000))
	})

	t.Run("register operand with memory operand", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0xdd, 0x66, 0x03)
		m.load(0x1003, 0x77)
		c.IX = 0x1000
		test.ExpectEquality(t, step(t, c), 19)
		test.ExpectEquality(t, c.H, uint8(0x77))
		test.ExpectEquality(t, c.IX, uint16(0x1000))
	})

	t.Run("negative displacement", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0xfd, 0x77, 0xff)
		c.IY = 0x1000
		c.A = 0x42
		step(t, c)
		test.ExpectEquality(t, m.data[0x0fff], uint8(0x42))
	})

	t.Run("index register halves", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0xdd, 0x26, 0x12, 0xdd, 0x2e, 0x34, 0xdd, 0x7c)
		step(t, c)
		step(t, c)
		test.ExpectEquality(t, c.IX, uint16(0x1234))
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x12))
		test.ExpectEquality(t, c.HL(), uint16(0x0000))
	})

	t.Run("undocumented DDCB register copy", func(t *testing.T) {
		c, m, _, _ := newCPU()
		m.load(0x0000, 0xdd, 0xcb, 0x01, 0xc0)
		c.IX = 0x1000
		test.ExpectEquality(t, step(t, c), 23)
		test.ExpectEquality(t, m.data[0x1001], uint8(0x01))
		test.ExpectEquality(t, c.B, uint8(0x01))
	})
}

func TestUndefinedED(t *testing.T) {
	c, m, _, _ := newCPU()
	m.load(0x0000, 0xed, 0x77, 0x00)

	var address, opcode uint16
	var count int
	c.SetHooks(cpu.Hooks{
		Illegal: func(a uint16, o uint16) {
			address = a
			opcode = o
			count++
		},
	})

	test.ExpectEquality(t, step(t, c), 8)
	test.ExpectEquality(t, c.PC, uint16(0x0002))
	test.ExpectEquality(t, count, 1)
	test.ExpectEquality(t, address, uint16(0x0000))
	test.ExpectEquality(t, opcode, uint16(0xed77))

	// documented instructions are not reported
	step(t, c)
	test.ExpectEquality(t, count, 1)
}

func TestPorts(t *testing.T) {
	c, m, p, _ := newCPU()
	m.load(0x0000, 0x3e, 0x12, 0xd3, 0x34, 0xed, 0x41, 0xed, 0x50)
	p.value = 0x99

	step(t, c)
	step(t, c)
	test.ExpectEquality(t, p.lastPort, uint16(0x1234))
	test.ExpectEquality(t, p.lastData, uint8(0x12))

	// OUT (C),B
	c.SetBC(0xbe7f)
	step(t, c)
	test.ExpectEquality(t, p.lastPort, uint16(0xbe7f))
	test.ExpectEquality(t, p.lastData, uint8(0xbe))

	// IN D,(C)
	step(t, c)
	test.ExpectEquality(t, p.inPort, uint16(0xbe7f))
	test.ExpectEquality(t, c.D, uint8(0x99))
}

func TestMemoryRefresh(t *testing.T) {
	c, m, _, _ := newCPU()
	m.load(0x0000, 0x00, 0xdd, 0x21, 0x00, 0x00, 0xcb, 0x00)
	step(t, c)
	test.ExpectEquality(t, c.R, uint8(1))
	step(t, c)
	test.ExpectEquality(t, c.R, uint8(3))
	step(t, c)
	test.ExpectEquality(t, c.R, uint8(5))
}
