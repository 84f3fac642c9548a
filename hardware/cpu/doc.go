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

// Package cpu defines the contract shared by the CPU cores of every emulated
// platform. The cores themselves are in the sub-packages:
//
//	mos6502   MOS 6502 and the Ricoh 2A03 variant (no decimal mode)
//	z80       Zilog Z80
//	sm83      Sharp SM83 (LR35902)
//
// A core is advanced one instruction at a time by the Step() function, which
// returns the number of cycles consumed. Cycles are in the core's own units:
// CPU cycles for the 6502 and T-states for the Z80 and SM83.
//
// Interrupts are signalled through the Lines type. The video and audio chips,
// the cartridge mapper and the front-end all drive the lines and the core
// samples them at the start of every Step().
//
// Debugging tools can observe the core through the Hooks type.
package cpu
