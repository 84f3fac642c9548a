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

package mos6502_test

import (
	"testing"

	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/cpu/mos6502"
	"github.com/lockstep-emu/lockstep/test"
)

// flat 64k of RAM.
type ram struct {
	data [0x10000]uint8
}

func (m *ram) Read(address uint16) uint8 {
	return m.data[address]
}

func (m *ram) Write(address uint16, data uint8) {
	m.data[address] = data
}

func (m *ram) Peek(address uint16) (uint8, error) {
	return m.data[address], nil
}

func (m *ram) load(origin uint16, data ...uint8) {
	copy(m.data[origin:], data)
}

const origin = 0x0200

// newCPU returns a CPU that has been reset to the origin address.
func newCPU() (*mos6502.CPU, *ram, *cpu.Lines) {
	m := &ram{}
	m.data[mos6502.ResetVector] = uint8(origin & 0xff)
	m.data[mos6502.ResetVector+1] = uint8(origin >> 8)
	l := cpu.NewLines()
	mc := mos6502.NewCPU(nil, m, l)
	mc.Reset()
	return mc, m, l
}

// step the CPU and check the result is consistent with the instruction
// definition.
func step(t *testing.T, mc *mos6502.CPU) int {
	t.Helper()
	n, err := mc.Step()
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, mc.LastResult.IsValid())
	test.ExpectEquality(t, n, mc.LastResult.Cycles)
	return n
}
