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

// Package mos6502 emulates the MOS 6502 and the Ricoh 2A03 found in the NES.
// The 2A03 is a 6502 without decimal mode and is selected with the NoDecimal
// field of the CPU type.
//
// The CPU is stepped one instruction at a time. The number of cycles used by
// an instruction is counted from the memory accesses made by the
// instruction, including the phantom reads and writes made by the real
// silicon. This means that page crossing and branch penalties arise from the
// emulation of the addressing modes rather than from a table lookup.
//
// All 256 opcodes are emulated. The undocumented opcodes perform their
// pseudo-operations and are reported to the Illegal hook. The KIL opcodes
// halt the CPU until it is reset.
package mos6502
