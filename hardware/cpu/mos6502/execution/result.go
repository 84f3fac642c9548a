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

package execution

import (
	"fmt"
	"strings"

	"github.com/lockstep-emu/lockstep/hardware/cpu/mos6502/instructions"
)

// Interrupt identifies an interrupt sequence performed instead of an
// instruction.
type Interrupt int

// List of interrupt sequences.
const (
	NoInterrupt Interrupt = iota
	NMI
	IRQ
	Reset
)

func (i Interrupt) String() string {
	switch i {
	case NMI:
		return "NMI"
	case IRQ:
		return "IRQ"
	case Reset:
		return "RESET"
	}
	return ""
}

// Result records the execution of a single instruction or interrupt.
type Result struct {
	// the address at which the instruction began
	Address uint16

	// the definition of the instruction. nil if no instruction was executed
	Defn *instructions.Definition

	// the operand of the instruction
	InstructionData uint16

	// the number of bytes read during instruction decode
	ByteCount int

	// the actual number of cycles taken by the instruction. usually the same
	// as Defn.Cycles but in the case of page faults and branches, this value
	// may be different
	Cycles int

	// whether an extra cycle was required because of 8 bit adder overflow
	PageFault bool

	// whether a branch instruction took the branch
	BranchSuccess bool

	// whether a known buggy code path was triggered
	CPUBug Bug

	// interrupt sequence performed instead of an instruction
	Interrupt Interrupt

	// cycles spent stalled (for example, during DMA)
	Stalled int

	// whether this result is complete
	Final bool
}

// Reset nullifies all members of the Result instance.
func (r *Result) Reset() {
	*r = Result{}
}

func (r Result) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%#04x ", r.Address))

	switch {
	case r.Interrupt != NoInterrupt:
		s.WriteString(r.Interrupt.String())
	case r.Stalled > 0:
		s.WriteString(fmt.Sprintf("stalled for %d cycles", r.Stalled))
		return s.String()
	case r.Defn == nil:
		s.WriteString("???")
	default:
		s.WriteString(r.Defn.Mnemonic)
		switch r.Defn.AddressingMode {
		case instructions.Implied:
		case instructions.Immediate:
			s.WriteString(fmt.Sprintf(" #$%02x", r.InstructionData))
		case instructions.Relative, instructions.ZeroPage:
			s.WriteString(fmt.Sprintf(" $%02x", r.InstructionData))
		case instructions.ZeroPageIndexedX:
			s.WriteString(fmt.Sprintf(" $%02x,X", r.InstructionData))
		case instructions.ZeroPageIndexedY:
			s.WriteString(fmt.Sprintf(" $%02x,Y", r.InstructionData))
		case instructions.IndexedIndirect:
			s.WriteString(fmt.Sprintf(" ($%02x,X)", r.InstructionData))
		case instructions.IndirectIndexed:
			s.WriteString(fmt.Sprintf(" ($%02x),Y", r.InstructionData))
		case instructions.Indirect:
			s.WriteString(fmt.Sprintf(" ($%04x)", r.InstructionData))
		case instructions.AbsoluteIndexedX:
			s.WriteString(fmt.Sprintf(" $%04x,X", r.InstructionData))
		case instructions.AbsoluteIndexedY:
			s.WriteString(fmt.Sprintf(" $%04x,Y", r.InstructionData))
		default:
			s.WriteString(fmt.Sprintf(" $%04x", r.InstructionData))
		}
	}

	s.WriteString(fmt.Sprintf(" [%d cycles]", r.Cycles))
	if r.PageFault {
		s.WriteString(" page-fault")
	}
	if r.CPUBug != NoBug {
		s.WriteString(fmt.Sprintf(" (%s)", r.CPUBug))
	}

	return s.String()
}
