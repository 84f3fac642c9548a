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

package cartridge

import (
	"fmt"

	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
	"github.com/lockstep-emu/lockstep/hardware/memory/cartridge/mapper"
)

// the ROM window used by the PLAIN mapping.
var plainRange = bus.Range{Origin: 0x0000, Memtop: 0x7fff}

const plainBank = 0x8000

// plain maps an image with no header as a single fixed ROM window. Images
// smaller than the window are mirrored. Images larger than the window are
// truncated because there is no banking hardware.
type plain struct {
	board
}

func newPlain(img *Image) (mapper.Mapper, error) {
	cart := &plain{
		board: newBoard("PLAIN", img, nil),
	}
	cart.number = -1
	return cart, nil
}

func (cart *plain) String() string {
	return fmt.Sprintf("%s [%dK]", cart.mappingID, len(cart.prg)/1024)
}

// Install implements the mapper.Mapper interface.
func (cart *plain) Install(b *bus.Bus) error {
	data := cart.prg
	if len(data) > plainBank {
		data = data[:plainBank]
	}
	if err := b.Install(plainRange, bus.NewRomBank(data)); err != nil {
		return fmt.Errorf("PLAIN: %w", err)
	}
	return nil
}

// Reset implements the mapper.Mapper interface.
func (cart *plain) Reset() {
}

// Mirroring implements the mapper.Mapper interface.
func (cart *plain) Mirroring() mapper.Mirroring {
	return mapper.Horizontal
}

// ReadCHR implements the mapper.Mapper interface. There is no CHR memory.
func (cart *plain) ReadCHR(_ uint16) uint8 {
	return 0
}

// WriteCHR implements the mapper.Mapper interface.
func (cart *plain) WriteCHR(_ uint16, _ uint8) {
}

// MappedBank implements the mapper.Mapper interface.
func (cart *plain) MappedBank(address uint16) int {
	if !plainRange.Contains(address) {
		return -1
	}
	return 0
}

// Snapshot implements the mapper.Mapper interface.
func (cart *plain) Snapshot() mapper.Mapper {
	n := *cart
	return &n
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The
// mapping has no state.
func (cart *plain) MarshalBinary() ([]byte, error) {
	return []byte{}, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (cart *plain) UnmarshalBinary(_ []byte) error {
	return nil
}
