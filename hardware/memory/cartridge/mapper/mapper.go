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

// Package mapper defines the interface implemented by every cartridge
// mapping scheme. Implementations are found in the cartridge package.
package mapper

import (
	"encoding"
	"fmt"

	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
)

// Mirroring is the arrangement of the nametables in video memory. Only
// meaningful for the NES.
type Mirroring int

// List of valid Mirroring values.
const (
	Horizontal Mirroring = iota
	Vertical
	SingleLower
	SingleUpper
	FourScreen
)

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case SingleLower:
		return "single (lower)"
	case SingleUpper:
		return "single (upper)"
	case FourScreen:
		return "four screen"
	}
	return "unknown"
}

// Nametable returns the physical nametable (0 to 3) used for the logical
// nametable at address. The address can be anywhere in the range
// 0x2000 to 0x3eff.
func (m Mirroring) Nametable(address uint16) int {
	logical := int(address>>10) & 0x03
	switch m {
	case Horizontal:
		return logical >> 1
	case Vertical:
		return logical & 0x01
	case SingleLower:
		return 0
	case SingleUpper:
		return 1
	}
	return logical
}

// Mapper implementations hold the PRG and CHR data of a cartridge and keep
// track of which banks are visible at any time.
type Mapper interface {
	fmt.Stringer

	// ID returns the short name of the mapping scheme. eg. "MMC1"
	ID() string

	// Number returns the iNES mapper number. -1 if the scheme has no iNES
	// number.
	Number() int

	// Install the register windows and banks of the mapper on the bus. Any
	// mappings previously installed by the mapper are replaced.
	Install(b *bus.Bus) error

	// Reset the registers of the mapper to their power-on state.
	Reset()

	// NotifyScanline is called by the scheduler at the end of every rendered
	// scanline. Mappers without a scanline counter do nothing.
	NotifyScanline()

	// Mirroring returns the current nametable arrangement.
	Mirroring() Mirroring

	// ReadCHR and WriteCHR access the pattern tables. The address is in the
	// range 0x0000 to 0x1fff. Writes to CHR ROM are ignored.
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, data uint8)

	// MappedBank returns the physical PRG bank visible at the CPU address.
	// Returns -1 if the address is not in a banked PRG area.
	MappedBank(address uint16) int

	// Snapshot returns a copy of the mapper. The copy shares the immutable
	// cartridge data and the interrupt lines of the original.
	Snapshot() Mapper

	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}
