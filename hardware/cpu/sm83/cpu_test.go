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

package sm83_test

import (
	"testing"

	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/cpu/sm83"
	"github.com/lockstep-emu/lockstep/test"
)

func TestImplementsCore(t *testing.T) {
	c, _, _ := newCPU()
	test.ExpectImplements(t, c, cpu.Core(nil))
}

func TestReset(t *testing.T) {
	c, _, _ := newCPU()
	test.ExpectEquality(t, c.PC, sm83.EntryPoint)
	test.ExpectEquality(t, c.SP, uint16(0xfffe))
	test.ExpectEquality(t, c.AF(), uint16(0x01b0))
	test.ExpectEquality(t, c.HL(), uint16(0x014d))
	test.ExpectEquality(t, c.IME, false)
}

func TestTimings(t *testing.T) {
	var tests = []struct {
		name   string
		code   []uint8
		cycles int
	}{
		{"NOP", []uint8{0x00}, 4},
		{"LD BC,nn", []uint8{0x01, 0x34, 0x12}, 12},
		{"LD A,(HL)", []uint8{0x7e}, 8},
		{"LD (HL+),A", []uint8{0x22}, 8},
		{"INC (HL)", []uint8{0x34}, 12},
		{"LD (HL),n", []uint8{0x36, 0x55}, 12},
		{"LD (nn),SP", []uint8{0x08, 0x00, 0xc0}, 20},
		{"ADD HL,BC", []uint8{0x09}, 8},
		{"INC BC", []uint8{0x03}, 8},
		{"ADD A,(HL)", []uint8{0x86}, 8},
		{"PUSH BC", []uint8{0xc5}, 16},
		{"POP BC", []uint8{0xc1}, 12},
		{"JP nn", []uint8{0xc3, 0x00, 0x02}, 16},
		{"CALL nn", []uint8{0xcd, 0x00, 0x02}, 24},
		{"RET", []uint8{0xc9}, 16},
		{"RETI", []uint8{0xd9}, 16},
		{"RST 38", []uint8{0xff}, 16},
		{"LDH (n),A", []uint8{0xe0, 0x80}, 12},
		{"LD A,(C)", []uint8{0xf2}, 8},
		{"ADD SP,e", []uint8{0xe8, 0x02}, 16},
		{"LD HL,SP+e", []uint8{0xf8, 0x02}, 12},
		{"JP HL", []uint8{0xe9}, 4},
		{"LD (nn),A", []uint8{0xea, 0x00, 0xc0}, 16},
		{"RLC B", []uint8{0xcb, 0x00}, 8},
		{"BIT 0,(HL)", []uint8{0xcb, 0x46}, 12},
		{"SET 0,(HL)", []uint8{0xcb, 0xc6}, 16},
		{"SWAP (HL)", []uint8{0xcb, 0x36}, 16},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, m, _ := newCPU()
			m.load(sm83.EntryPoint, tc.code...)
			test.ExpectEquality(t, step(t, c), tc.cycles)
			test.ExpectEquality(t, c.Cycles(), uint64(tc.cycles))
		})
	}
}

func TestConditionalTimings(t *testing.T) {
	// Z and C are set after reset
	var tests = []struct {
		name   string
		code   []uint8
		cycles int
		pc     uint16
	}{
		{"JR NZ not taken", []uint8{0x20, 0x05}, 8, 0x0102},
		{"JR Z taken", []uint8{0x28, 0x05}, 12, 0x0107},
		{"JP NZ not taken", []uint8{0xc2, 0x00, 0x02}, 12, 0x0103},
		{"JP Z taken", []uint8{0xca, 0x00, 0x02}, 16, 0x0200},
		{"CALL NC not taken", []uint8{0xd4, 0x00, 0x02}, 12, 0x0103},
		{"CALL C taken", []uint8{0xdc, 0x00, 0x02}, 24, 0x0200},
		{"RET NZ not taken", []uint8{0xc0}, 8, 0x0101},
		{"RET Z taken", []uint8{0xc8}, 20, 0x0000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, m, _ := newCPU()
			m.load(sm83.EntryPoint, tc.code...)
			test.ExpectEquality(t, step(t, c), tc.cycles)
			test.ExpectEquality(t, c.PC, tc.pc)
		})
	}
}

func TestFlags(t *testing.T) {
	t.Run("ADD half carry", func(t *testing.T) {
		c, m, _ := newCPU()
		m.load(sm83.EntryPoint, 0xc6, 0x01)
		c.A = 0x0f
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x10))
		test.ExpectEquality(t, c.F, sm83.FlagH)
	})

	t.Run("SUB zero", func(t *testing.T) {
		c, m, _ := newCPU()
		m.load(sm83.EntryPoint, 0xd6, 0x10)
		c.A = 0x10
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x00))
		test.ExpectEquality(t, c.F, sm83.FlagZ|sm83.FlagN)
	})

	t.Run("SUB borrow", func(t *testing.T) {
		c, m, _ := newCPU()
		m.load(sm83.EntryPoint, 0xd6, 0x01)
		c.A = 0x00
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0xff))
		test.ExpectEquality(t, c.F, sm83.FlagN|sm83.FlagH|sm83.FlagC)
	})

	t.Run("CP", func(t *testing.T) {
		c, m, _ := newCPU()
		m.load(sm83.EntryPoint, 0xfe, 0x2f)
		c.A = 0x3c
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x3c))
		test.ExpectEquality(t, c.F, sm83.FlagN|sm83.FlagH)
	})

	t.Run("INC preserves carry", func(t *testing.T) {
		c, m, _ := newCPU()
		m.load(sm83.EntryPoint, 0x3c)
		c.A = 0xff
		c.F = sm83.FlagC
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x00))
		test.ExpectEquality(t, c.F, sm83.FlagZ|sm83.FlagH|sm83.FlagC)
	})

	t.Run("DAA", func(t *testing.T) {
		c, m, _ := newCPU()
		m.load(sm83.EntryPoint, 0xc6, 0x38, 0x27)
		c.A = 0x45
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x7d))
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x83))
		test.ExpectEquality(t, c.F, uint8(0))
	})

	t.Run("SWAP", func(t *testing.T) {
		c, m, _ := newCPU()
		m.load(sm83.EntryPoint, 0xcb, 0x37)
		c.A = 0xf0
		step(t, c)
		test.ExpectEquality(t, c.A, uint8(0x0f))
		test.ExpectEquality(t, c.F, uint8(0))
	})

	t.Run("ADD SP,e", func(t *testing.T) {
		c, m, _ := newCPU()
		m.load(sm83.EntryPoint, 0xe8, 0x08, 0xe8, 0xff)
		c.SP = 0xfff8
		step(t, c)
		test.ExpectEquality(t, c.SP, uint16(0x0000))
		test.ExpectEquality(t, c.F, sm83.FlagH|sm83.FlagC)
		step(t, c)
		test.ExpectEquality(t, c.SP, uint16(0xffff))
		test.ExpectEquality(t, c.F, uint8(0))
	})

	t.Run("POP AF", func(t *testing.T) {
		c, m, _ := newCPU()
		m.load(sm83.EntryPoint, 0xf1)
		m.load(0xc000, 0xff, 0x12)
		c.SP = 0xc000
		step(t, c)
		test.ExpectEquality(t, c.AF(), uint16(0x12f0))
	})

	t.Run("BIT", func(t *testing.T) {
		c, m, _ := newCPU()
		m.load(sm83.EntryPoint, 0xcb, 0x7c)
		c.H = 0x01
		c.F = sm83.FlagC
		step(t, c)
		test.ExpectEquality(t, c.F, sm83.FlagZ|sm83.FlagH|sm83.FlagC)
	})

	t.Run("CCF", func(t *testing.T) {
		c, m, _ := newCPU()
		m.load(sm83.EntryPoint, 0x3f, 0x3f)
		c.F = sm83.FlagZ | sm83.FlagN | sm83.FlagC
		step(t, c)
		test.ExpectEquality(t, c.F, sm83.FlagZ)
		step(t, c)
		test.ExpectEquality(t, c.F, sm83.FlagZ|sm83.FlagC)
	})
}

func TestLoadIncrement(t *testing.T) {
	c, m, _ := newCPU()
	m.load(sm83.EntryPoint, 0x22, 0x32, 0x2a)
	c.SetHL(0xc000)
	c.A = 0x42
	step(t, c)
	test.ExpectEquality(t, c.HL(), uint16(0xc001))
	step(t, c)
	test.ExpectEquality(t, c.HL(), uint16(0xc000))
	test.ExpectEquality(t, m.data[0xc000], uint8(0x42))
	test.ExpectEquality(t, m.data[0xc001], uint8(0x42))
	c.A = 0
	step(t, c)
	test.ExpectEquality(t, c.A, uint8(0x42))
	test.ExpectEquality(t, c.HL(), uint16(0xc001))
}

func TestUnused(t *testing.T) {
	test.ExpectEquality(t, len(sm83.Unused), 11)

	for _, op := range sm83.Unused {
		c, m, _ := newCPU()
		m.load(sm83.EntryPoint, op)

		var reported uint16
		c.SetHooks(cpu.Hooks{
			Illegal: func(_ uint16, opcode uint16) {
				reported = opcode
			},
		})

		test.ExpectEquality(t, step(t, c), 4, op)
		test.ExpectEquality(t, c.PC, uint16(0x0101), op)
		test.ExpectEquality(t, reported, uint16(op), op)
	}
}
