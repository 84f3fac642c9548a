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

// NROM has no bank switching. 16K of PRG is mirrored at 0xc000. CHR is
// either 8K of ROM or 8K of RAM.
//
// cartridges:
//   - Super Mario Bros.
//   - Donkey Kong
type nrom struct {
	board

	// rewindable state
	state *nromState
}

func newNROM(img *Image, prgRAM *bus.RamBank) (mapper.Mapper, error) {
	cart := &nrom{
		board: newBoard("NROM", img, prgRAM),
	}

	if len(img.PRG) != PRGUnit && len(img.PRG) != PRGUnit*2 {
		return nil, fmt.Errorf("NROM: wrong number of bytes in the PRG data (%d)", len(img.PRG))
	}

	cart.state = &nromState{
		CHRRAM: cart.newCHRRAM(),
	}

	return cart, nil
}

func (cart *nrom) String() string {
	return fmt.Sprintf("%s [%dK]", cart.mappingID, len(cart.prg)/1024)
}

// Install implements the mapper.Mapper interface.
func (cart *nrom) Install(b *bus.Bus) error {
	if err := cart.installPRGRAM(b); err != nil {
		return err
	}
	if err := b.Install(prgROMRange, bus.NewRomBank(cart.prg)); err != nil {
		return fmt.Errorf("NROM: %w", err)
	}
	return nil
}

// Reset implements the mapper.Mapper interface.
func (cart *nrom) Reset() {
}

// Mirroring implements the mapper.Mapper interface.
func (cart *nrom) Mirroring() mapper.Mirroring {
	return cart.mirroring
}

// ReadCHR implements the mapper.Mapper interface.
func (cart *nrom) ReadCHR(address uint16) uint8 {
	chr := cart.chrMemory(cart.state.CHRRAM)
	if len(chr) == 0 {
		return 0
	}
	return chr[int(address&0x1fff)%len(chr)]
}

// WriteCHR implements the mapper.Mapper interface.
func (cart *nrom) WriteCHR(address uint16, data uint8) {
	if cart.state.CHRRAM != nil {
		cart.state.CHRRAM[address&0x1fff] = data
	}
}

// MappedBank implements the mapper.Mapper interface.
func (cart *nrom) MappedBank(address uint16) int {
	if !prgROMRange.Contains(address) {
		return -1
	}
	return bankIndex(cart.prg, PRGUnit, int(address-prgROMRange.Origin)/PRGUnit)
}

// Snapshot implements the mapper.Mapper interface.
func (cart *nrom) Snapshot() mapper.Mapper {
	n := *cart
	n.state = cart.state.Snapshot()
	return &n
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (cart *nrom) MarshalBinary() ([]byte, error) {
	return encode(cart.mappingID, cart.state)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (cart *nrom) UnmarshalBinary(data []byte) error {
	var s nromState
	if err := decode(cart.mappingID, data, &s); err != nil {
		return err
	}
	if err := checkCHRRAM(cart.mappingID, cart.state.CHRRAM, s.CHRRAM); err != nil {
		return err
	}
	cart.state = &s
	return nil
}

// rewindable state for the NROM cartridge.
type nromState struct {
	CHRRAM []uint8
}

// Snapshot returns a deep copy of the state.
func (s *nromState) Snapshot() *nromState {
	return &nromState{
		CHRRAM: cloneCHRRAM(s.CHRRAM),
	}
}
