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

// Package digest is used to create hashes of an emulation. Hashes are useful
// for regression testing: two emulations that have run the same cartridge
// for the same number of frames should produce the same hash.
//
// The Audio type hashes the output of an audio chip. The Snapshot() and
// RunFor() functions hash the entire state of a console.
package digest

// Digest implementations create a running hash of an emulation.
type Digest interface {
	Hash() string
	ResetDigest()
}
