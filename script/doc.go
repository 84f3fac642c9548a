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

// Package script attaches Lua scripts to a running console. Scripts are run
// with github.com/yuin/gopher-lua and see the console through a global table
// called "console".
//
// The table has the following functions:
//
//	peek(address)            value at address without side effects, or nil
//	poke(address, value)     write value to address without side effects
//	read(address)            value at address as the CPU would read it
//	write(address, value)    write value to address as the CPU would
//	pc()                     program counter
//	cycles()                 CPU cycles since reset
//	frame()                  television frame number
//	scanline()               television scanline
//	platform()               platform name
//	reset()                  power cycle the console
//	reset_button()           request a CPU reset
//	run_frames(n)            run n frames. returns the number of frames run
//	                         and true if a hook interrupted the emulation
//	step()                   run a single instruction
//	snapshot()               serialised state as a string
//	restore(state)           restore state from a string
//	log(tag, detail)         add an entry to the central log
//	on_instruction(fn)       fn(address, opcode) is called before every
//	                         instruction. returning true interrupts the
//	                         emulation
//	on_illegal(fn)           fn(address, opcode) is called after an illegal
//	                         instruction
//	on_open_bus(fn)          fn(address) is called the first time an
//	                         unmapped address is read
//
// Passing nil to any of the on_ functions removes the hook.
package script
