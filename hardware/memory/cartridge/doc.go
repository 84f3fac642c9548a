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

// Package cartridge loads cartridge images and implements the mapping
// schemes that connect cartridge memory to the bus.
//
// Currently supported mapping schemes. The number is the iNES mapper number
// found in the header of the image.
//
//	NROM	0
//	MMC1	1
//	UxROM	2
//	CNROM	3
//	MMC3	4
//	PLAIN	-
//
// The PLAIN scheme is used for images that have no iNES header. The image is
// mapped as a single fixed ROM window at 0x0000 to 0x7fff, which suits Sega
// Master System and Game Boy cartridges without banking hardware.
//
// Each mapper keeps its mutable state in a separate state type. The state is
// what is copied by Snapshot() and what is serialised by MarshalBinary().
// Requests for a bank number greater than the number of banks in the
// cartridge wrap around.
package cartridge
