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

func TestDecimalModeCarry(t *testing.T) {
	var rcarry bool

	r8 := registers.NewRegister(0, "test")

	// addition without carry
	rcarry, _, _, _ = r8.AddDecimal(1, false)
	test.ExpectEquality(t, r8.Value(), uint8(0x01))
	test.ExpectEquality(t, rcarry, false)

	// addition with carry
	rcarry, _, _, _ = r8.AddDecimal(1, true)
	test.ExpectEquality(t, r8.Value(), uint8(0x03))
	test.ExpectEquality(t, rcarry, false)

	// subtraction with carry (subtract value)
	r8.Load(9)
	r8.SubtractDecimal(1, true)
	test.ExpectEquality(t, r8.Value(), uint8(0x08))

	// subtraction without carry (subtract value and another 1)
	r8.SubtractDecimal(1, false)
	test.ExpectEquality(t, r8.Value(), uint8(0x06))

	// addition on tens boundary
	r8.Load(9)
	r8.AddDecimal(1, false)
	test.ExpectEquality(t, r8.Value(), uint8(0x10))

	// subtraction on tens boundary
	r8.SubtractDecimal(1, true)
	test.ExpectEquality(t, r8.Value(), uint8(0x09))

	// addition on hundreds boundary
	r8.Load(0x99)
	rcarry, _, _, _ = r8.AddDecimal(1, false)
	test.ExpectEquality(t, r8.Value(), uint8(0x00))
	test.ExpectEquality(t, rcarry, true)

	// subtraction on hundreds boundary
	rcarry, _, _, _ = r8.SubtractDecimal(1, true)
	test.ExpectEquality(t, r8.Value(), uint8(0x99))
	test.ExpectEquality(t, rcarry, false)

	// multi-digit addition
	r8.Load(0x58)
	rcarry, _, _, _ = r8.AddDecimal(0x46, true)
	test.ExpectEquality(t, r8.Value(), uint8(0x05))
	test.ExpectEquality(t, rcarry, true)
}

func TestDecimalModeZero(t *testing.T) {
	var zero bool

	r8 := registers.NewRegister(0, "test")

	// subtract to zero
	r8.Load(0x02)
	_, zero, _, _ = r8.SubtractDecimal(1, true)
	test.ExpectEquality(t, zero, false)
	_, zero, _, _ = r8.SubtractDecimal(1, true)
	test.ExpectEquality(t, zero, true)
}

func TestDecimalModeInvalid(t *testing.T) {
	var rcarry, rzero bool

	// the zero flag is from the binary addition, so a decimal result of zero
	// does not set it
	r8 := registers.NewRegister(0x99, "test")
	rcarry, rzero, _, _ = r8.AddDecimal(1, false)
	test.ExpectEquality(t, r8.Value(), uint8(0x00))
	test.ExpectEquality(t, rcarry, true)
	test.ExpectEquality(t, rzero, false)
}
