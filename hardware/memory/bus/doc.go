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

// Package bus is the memory bus seen by a CPU core. Devices are installed
// over address ranges and the bus routes every read and write to the device
// that owns the address.
//
// Ranges never overlap. Installing a device over a range that exactly
// matches an existing mapping replaces that mapping, which is how mappers
// switch banks and how consoles rewire register windows at runtime. A
// partial overlap is a configuration error (ErrOverlap).
//
// Reads of an address that has no mapping return the open bus value, which
// is the last value driven onto the data bus by a read or a write. Writes
// to unmapped addresses are dropped.
//
// Devices are addressed relative to the origin of the range they are
// installed over. RegisterWindow and IoPort convert the offset back to an
// absolute address for the benefit of the hardware behind them.
//
// Peek() and Poke() are for the exclusive use of debuggers and scripts. They
// never cause side effects in the device.
package bus
