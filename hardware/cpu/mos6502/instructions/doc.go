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

// Package instructions defines the 6502 instruction set. Every one of the
// 256 opcodes has a Definition, including the undocumented opcodes, which
// are flagged as such.
//
// The definitions describe the nominal number of bytes and cycles of each
// instruction. The actual number of cycles consumed by the CPU is counted as
// the instruction is executed and will be greater than the nominal number
// for page-sensitive instructions that cross a page and for taken branches.
package instructions
