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

// CNROM has fixed PRG, the same as NROM, and a single register written to
// anywhere in 8000-ffff that selects the 8K CHR bank.
//
// cartridges:
//   - Gradius
//   - Paperboy
type cnrom struct {
	board

	// rewindable state
	state *cnromState
}

func newCNROM(img *Image, prgRAM *bus.RamBank) (mapper.Mapper, error) {
	cart := &cnrom{
		board: newBoard("CNROM", img, prgRAM),
	}
	cart.state = &cnromState{
		CHRRAM: cart.newCHRRAM(),
	}
	return cart, nil
}

func (cart *cnrom) String() string {
	return fmt.Sprintf("%s CHR Bank: %d", cart.mappingID, cart.chrBank())
}

// Install implements the mapper.Mapper interface.
func (cart *cnrom) Install(b *bus.Bus) error {
	if err := cart.installPRGRAM(b); err != nil {
		return err
	}
	w := bus.NewRegisterWindow(cart.mappingID, prgROMRange.Origin, cart.read, cart.write)
	if err := b.Install(prgROMRange, w); err != nil {
		return fmt.Errorf("CNROM: %w", err)
	}
	return nil
}

// Reset implements the mapper.Mapper interface.
func (cart *cnrom) Reset() {
	cart.state.CHRBank = 0
}

func (cart *cnrom) read(address uint16) uint8 {
	return cart.prg[int(address-prgROMRange.Origin)%len(cart.prg)]
}

func (cart *cnrom) write(_ uint16, data uint8) {
	cart.state.CHRBank = data
}

func (cart *cnrom) chrBank() int {
	return bankIndex(cart.chrMemory(cart.state.CHRRAM), CHRUnit, int(cart.state.CHRBank))
}

// Mirroring implements the mapper.Mapper interface.
func (cart *cnrom) Mirroring() mapper.Mirroring {
	return cart.mirroring
}

// ReadCHR implements the mapper.Mapper interface.
func (cart *cnrom) ReadCHR(address uint16) uint8 {
	chr := cart.chrMemory(cart.state.CHRRAM)
	if len(chr) == 0 {
		return 0
	}
	return readBank(chr, CHRUnit, cart.chrBank(), int(address))
}

// WriteCHR implements the mapper.Mapper interface.
func (cart *cnrom) WriteCHR(address uint16, data uint8) {
	if cart.state.CHRRAM != nil {
		writeBank(cart.state.CHRRAM, CHRUnit, cart.chrBank(), int(address), data)
	}
}

// MappedBank implements the mapper.Mapper interface.
func (cart *cnrom) MappedBank(address uint16) int {
	if !prgROMRange.Contains(address) {
		return -1
	}
	return bankIndex(cart.prg, PRGUnit, int(address-prgROMRange.Origin)/PRGUnit)
}

// Snapshot implements the mapper.Mapper interface.
func (cart *cnrom) Snapshot() mapper.Mapper {
	n := *cart
	n.state = cart.state.Snapshot()
	return &n
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (cart *cnrom) MarshalBinary() ([]byte, error) {
	return encode(cart.mappingID, cart.state)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (cart *cnrom) UnmarshalBinary(data []byte) error {
	var s cnromState
	if err := decode(cart.mappingID, data, &s); err != nil {
		return err
	}
	if err := checkCHRRAM(cart.mappingID, cart.state.CHRRAM, s.CHRRAM); err != nil {
		return err
	}
	cart.state = &s
	return nil
}

// rewindable state for the CNROM cartridge.
type cnromState struct {
	CHRBank uint8
	CHRRAM  []uint8
}

// Snapshot returns a deep copy of the state.
func (s *cnromState) Snapshot() *cnromState {
	return &cnromState{
		CHRBank: s.CHRBank,
		CHRRAM:  cloneCHRRAM(s.CHRRAM),
	}
}
