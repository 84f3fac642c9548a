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

package registers_test

import (
	"testing"

	"github.com/lockstep-emu/lockstep/hardware/cpu/mos6502/registers"
	"github.com/lockstep-emu/lockstep/test"
)

func TestRegister(t *testing.T) {
	var carry, overflow bool

	r8 := registers.NewRegister(0, "test")
	test.ExpectEquality(t, r8.IsZero(), true)
	test.ExpectEquality(t, r8.Value(), uint8(0))

	// loading & addition
	r8.Load(127)
	r8.Add(2, false)
	test.ExpectEquality(t, r8.Value(), uint8(129))

	// addition boundary
	r8.Load(255)
	test.ExpectEquality(t, r8.IsNegative(), true)
	carry, overflow = r8.Add(1, false)
	test.ExpectEquality(t, carry, true)
	test.ExpectEquality(t, overflow, false)
	test.ExpectEquality(t, r8.IsZero(), true)

	// addition boundary with carry
	r8.Load(254)
	carry, overflow = r8.Add(1, true)
	test.ExpectEquality(t, carry, true)
	test.ExpectEquality(t, overflow, false)
	test.ExpectEquality(t, r8.IsZero(), true)

	r8.Load(255)
	carry, _ = r8.Add(1, true)
	test.ExpectEquality(t, carry, true)
	test.ExpectEquality(t, r8.Value(), uint8(1))

	// signed overflow
	r8.Load(0x7f)
	_, overflow = r8.Add(1, false)
	test.ExpectEquality(t, overflow, true)

	// subtraction
	r8.Load(11)
	r8.Subtract(1, true)
	test.ExpectEquality(t, r8.Value(), uint8(10))

	r8.Load(12)
	r8.Subtract(1, false)
	test.ExpectEquality(t, r8.Value(), uint8(10))

	r8.Load(0x01)
	r8.Subtract(0x06, false)
	test.ExpectEquality(t, r8.Value(), uint8(0xfa))

	// subtract on boundary
	r8.Load(0)
	carry, _ = r8.Subtract(1, true)
	test.ExpectEquality(t, r8.Value(), uint8(255))
	test.ExpectEquality(t, carry, false)

	// logical operators
	r8.Load(0x21)
	r8.AND(0x01)
	test.ExpectEquality(t, r8.Value(), uint8(0x01))
	r8.EOR(0xff)
	test.ExpectEquality(t, r8.Value(), uint8(0xfe))
	r8.ORA(0x1)
	test.ExpectEquality(t, r8.Value(), uint8(0xff))

	// shifts
	carry = r8.ASL()
	test.ExpectEquality(t, r8.Value(), uint8(0xfe))
	test.ExpectEquality(t, carry, true)
	carry = r8.LSR()
	test.ExpectEquality(t, r8.Value(), uint8(0x7f))
	test.ExpectEquality(t, carry, false)
	carry = r8.LSR()
	test.ExpectEquality(t, carry, true)

	// rotation
	r8.Load(0xff)
	carry = r8.ROL(false)
	test.ExpectEquality(t, r8.Value(), uint8(0xfe))
	test.ExpectEquality(t, carry, true)
	carry = r8.ROR(true)
	test.ExpectEquality(t, r8.Value(), uint8(0xff))
	test.ExpectEquality(t, carry, false)
}

func TestStackPointer(t *testing.T) {
	sp := registers.NewStackPointer(0xfd)
	test.ExpectEquality(t, sp.Address(), uint16(0x01fd))
	sp.Add(0xff, false)
	test.ExpectEquality(t, sp.Address(), uint16(0x01fc))
	sp.Load(0x00)
	sp.Add(0xff, false)
	test.ExpectEquality(t, sp.Address(), uint16(0x01ff))
}

func TestProgramCounter(t *testing.T) {
	pc := registers.NewProgramCounter(0xfffe)
	test.ExpectEquality(t, pc.Add(1), false)
	test.ExpectEquality(t, pc.Address(), uint16(0xffff))
	test.ExpectEquality(t, pc.Add(1), true)
	test.ExpectEquality(t, pc.Address(), uint16(0x0000))
	test.ExpectEquality(t, pc.String(), "0x0000")
}

func TestStatusRegister(t *testing.T) {
	var sr registers.StatusRegister
	test.ExpectEquality(t, sr.Value(), registers.Unused)
	test.ExpectEquality(t, sr.String(), "nv--dizc")

	// the break bit is not retained
	sr.Load(0xff)
	test.ExpectEquality(t, sr.Value(), uint8(0xef))
	test.ExpectEquality(t, sr.String(), "NV--DIZC")

	sr.Reset()
	test.ExpectEquality(t, sr.Value(), registers.Unused)
}
