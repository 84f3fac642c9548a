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

// Package z80 emulates the Zilog Z80 as found in the Sega Master System.
//
// Instructions are dispatched through tables of handler functions indexed by
// opcode. There is a table for the unprefixed instructions and one each for
// the CB and ED prefixes. The DD and FD prefixes do not have tables of their
// own. Instead the prefix selects the IX or IY register and the unprefixed
// handler is run, with the HL register and the (HL) operand redirected to the
// index register. The DDCB and FDCB forms are handled separately because the
// displacement byte comes before the opcode.
//
// A DD or FD prefix in front of an instruction that does not use HL is
// treated as a NOP of four T-states. The instruction that follows is executed
// normally on the next call to Step().
//
// Undefined ED opcodes are NOPs of eight T-states and are reported to the
// Illegal hook.
//
// Cycles are counted in T-states.
package z80
