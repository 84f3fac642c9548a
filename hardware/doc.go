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

// Package hardware is the base package for the console emulation. It and its
// sub-packages contain everything required for a headless emulation.
//
// The Console type is the root of the emulation and contains references to
// all the sub-systems of a platform: the CPU, the memory bus, the cartridge,
// the television and the video and audio chips. From here, the emulation can
// either be run frame by frame (with an optional callback to check for
// continuation) or it can be stepped instruction by instruction.
//
// The state of a Console can be saved with Snapshot() and restored with
// Restore(). Snapshots taken at the end of recent frames can be kept for
// rewinding.
package hardware
