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

// Package logger is the central logging facility of the emulator. Entries are
// kept in a ring of limited size and consecutive repeated entries are folded
// into a single entry with a repeat count.
//
// Logging is gated by the Permission interface. Code that logs on behalf of
// a particular emulated console should pass the console's Environment as the
// permission, so that secondary consoles (for example, those created by the
// digest or performance packages) can log quietly. The Allow value can be
// used when logging should always happen.
//
// Logging is for diagnostics only. No emulation state passes through it.
package logger
