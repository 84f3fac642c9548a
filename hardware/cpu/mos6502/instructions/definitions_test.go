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

package instructions_test

import (
	"testing"

	"github.com/lockstep-emu/lockstep/hardware/cpu/mos6502/instructions"
	"github.com/lockstep-emu/lockstep/test"
)

func TestDefinitionTable(t *testing.T) {
	defns := instructions.GetDefinitions()
	test.DemandEquality(t, len(defns), 256)

	var undocumented int
	for i, d := range defns {
		test.ExpectEquality(t, int(d.OpCode), i)
		test.ExpectInequality(t, d.Mnemonic, "unknown operator")
		if d.Undocumented {
			undocumented++
		}

		// only reads can be page sensitive
		if d.PageSensitive {
			test.ExpectEquality(t, d.Effect, instructions.Read, d)
		}
	}

	// 151 documented opcodes
	test.ExpectEquality(t, undocumented, 256-151)
}

func TestDefinitionDetail(t *testing.T) {
	defns := instructions.GetDefinitions()

	lda := defns[0xbd]
	test.ExpectEquality(t, lda.Mnemonic, "LDA")
	test.ExpectEquality(t, lda.AddressingMode, instructions.AbsoluteIndexedX)
	test.ExpectEquality(t, lda.Bytes, 3)
	test.ExpectEquality(t, lda.Cycles, 4)
	test.ExpectEquality(t, lda.PageSensitive, true)

	brk := defns[0x00]
	test.ExpectEquality(t, brk.Effect, instructions.Interrupt)
	test.ExpectEquality(t, brk.Cycles, 7)

	beq := defns[0xf0]
	test.ExpectEquality(t, beq.IsBranch(), true)

	sbc := defns[0xeb]
	test.ExpectEquality(t, sbc.Mnemonic, "SBC")
	test.ExpectEquality(t, sbc.Undocumented, true)

	nop := defns[0xea]
	test.ExpectEquality(t, nop.Undocumented, false)
}
