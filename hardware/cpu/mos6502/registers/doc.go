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

// Package registers implements the registers of the 6502. The 8 bit Register
// type carries the arithmetic and logic operations. The ProgramCounter,
// StackPointer and StatusRegister types are the special purpose registers.
//
// Arithmetic functions return the carry and overflow results rather than
// altering the status register. It is up to the CPU to decide which flags an
// instruction affects.
package registers
