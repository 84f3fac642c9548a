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

package cpu

import (
	"encoding"
)

// Memory is the view of the address bus as seen by a CPU core.
type Memory interface {
	Read(address uint16) uint8
	Write(address uint16, data uint8)
}

// Peeker is implemented by memory that can be read without side effects.
// Cores use it to look at the next opcode before it is fetched.
type Peeker interface {
	Peek(address uint16) (uint8, error)
}

// Core is implemented by each CPU family.
type Core interface {
	// Reset performs the power-on/reset sequence of the architecture.
	Reset()

	// Step executes one instruction, or services one interrupt, and returns
	// the number of cycles consumed. An error is only returned if a Hooks
	// function requests it.
	Step() (int, error)

	// Halted returns true if the core is in a halt state (JAM/KIL, HALT,
	// STOP). A halted core still consumes cycles when stepped.
	Halted() bool

	// Cycles returns the total number of cycles consumed since construction
	// or since the last call to SetCycles().
	Cycles() uint64

	// SetCycles sets the cycle counter. Reset() does not change the counter
	// so the owner of the core must keep it in step with its own counters.
	SetCycles(cycles uint64)

	ProgramCounter() uint16

	String() string

	// SetHooks attaches debugging hooks to the core. A zero value Hooks
	// removes them.
	SetHooks(Hooks)

	// Snapshot returns a copy of the core. The copy shares the memory and
	// interrupt lines of the original.
	Snapshot() Core

	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// Hooks allow a debugger or script to observe the core. Either field may be
// nil.
type Hooks struct {
	// Instruction is called before every instruction is executed with the
	// address and opcode of the instruction. For prefixed instruction sets
	// the opcode is prefix<<8 | opcode. Returning an error stops the
	// instruction from executing and the error is returned by Step()
	Instruction func(address uint16, opcode uint16) error

	// Illegal is called when an undocumented or undefined opcode has been
	// executed.
	Illegal func(address uint16, opcode uint16)
}

// PeekOpcode returns the byte at address. If the memory does not support
// side-effect free reads, or the peek fails, then it is read normally.
func PeekOpcode(mem Memory, address uint16) uint8 {
	if p, ok := mem.(Peeker); ok {
		if v, err := p.Peek(address); err == nil {
			return v
		}
	}
	return mem.Read(address)
}
