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

// Package sm83 emulates the Sharp SM83, the CPU of the Game Boy. The SM83 is
// related to the Z80 but has a smaller register file, no index registers, no
// I/O address space and a different interrupt system.
//
// Instructions are dispatched through two tables of handler functions, one
// for the unprefixed instructions and one for the CB prefix. The eleven
// unused opcodes are NOPs of four T-states and are reported to the Illegal
// hook.
//
// The interrupt flag register (IF) is the set of SM83 sources driving the IRQ
// line of the cpu.Lines type. Devices raise an interrupt by setting their
// source and the CPU clears the source when the interrupt is dispatched. The
// interrupt enable register (IE) belongs to the CPU. Both registers are made
// available to the memory bus by the InterruptRegisters() function.
//
// Cycles are counted in T-states. There is no boot ROM so Reset() leaves the
// registers in the state the boot ROM would leave them.
package sm83
