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

// Package ppu implements the register interface of the NES picture
// processing unit.
//
// The PPU does not produce pixels. It implements the parts of the chip that
// are visible to the CPU and that affect the timing of a program: the
// vertical blank flag and NMI, the VRAM address and data registers, object
// attribute memory and OAM DMA, nametable mirroring and palette memory.
//
// The registers are mirrored every eight bytes from 0x2000 to 0x3fff. The
// OAM DMA register is at 0x4014.
package ppu
