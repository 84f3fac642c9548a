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

// UxROM has a single register, written to anywhere in 8000-ffff, that
// selects the 16K PRG bank visible at 8000. The last bank is fixed at c000.
// CHR is usually RAM.
//
// cartridges:
//   - Mega Man
//   - Castlevania
type uxrom struct {
	board

	// rewindable state
	state *uxromState
}

func newUxROM(img *Image, prgRAM *bus.RamBank) (mapper.Mapper, error) {
	cart := &uxrom{
		board: newBoard("UxROM", img, prgRAM),
	}
	cart.state = &uxromState{
		CHRRAM: cart.newCHRRAM(),
	}
	return cart, nil
}

func (cart *uxrom) String() string {
	return fmt.Sprintf("%s Bank: %d", cart.mappingID, cart.prgBank(0x8000))
}

// Install implements the mapper.Mapper interface.
func (cart *uxrom) Install(b *bus.Bus) error {
	if err := cart.installPRGRAM(b); err != nil {
		return err
	}
	w := bus.NewRegisterWindow(cart.mappingID, prgROMRange.Origin, cart.read, cart.write)
	if err := b.Install(prgROMRange, w); err != nil {
		return fmt.Errorf("UxROM: %w", err)
	}
	return nil
}

// Reset implements the mapper.Mapper interface.
func (cart *uxrom) Reset() {
	cart.state.Bank = 0
}

func (cart *uxrom) prgBank(address uint16) int {
	if address >= 0xc000 {
		return numBanks(cart.prg, PRGUnit) - 1
	}
	return bankIndex(cart.prg, PRGUnit, int(cart.state.Bank))
}

func (cart *uxrom) read(address uint16) uint8 {
	return readBank(cart.prg, PRGUnit, cart.prgBank(address), int(address))
}

func (cart *uxrom) write(_ uint16, data uint8) {
	cart.state.Bank = data
}

// Mirroring implements the mapper.Mapper interface.
func (cart *uxrom) Mirroring() mapper.Mirroring {
	return cart.mirroring
}

// ReadCHR implements the mapper.Mapper interface.
func (cart *uxrom) ReadCHR(address uint16) uint8 {
	chr := cart.chrMemory(cart.state.CHRRAM)
	if len(chr) == 0 {
		return 0
	}
	return chr[int(address&0x1fff)%len(chr)]
}

// WriteCHR implements the mapper.Mapper interface.
func (cart *uxrom) WriteCHR(address uint16, data uint8) {
	if cart.state.CHRRAM != nil {
		cart.state.CHRRAM[address&0x1fff] = data
	}
}

// MappedBank implements the mapper.Mapper interface.
func (cart *uxrom) MappedBank(address uint16) int {
	if !prgROMRange.Contains(address) {
		return -1
	}
	return cart.prgBank(address)
}

// Snapshot implements the mapper.Mapper interface.
func (cart *uxrom) Snapshot() mapper.Mapper {
	n := *cart
	n.state = cart.state.Snapshot()
	return &n
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (cart *uxrom) MarshalBinary() ([]byte, error) {
	return encode(cart.mappingID, cart.state)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (cart *uxrom) UnmarshalBinary(data []byte) error {
	var s uxromState
	if err := decode(cart.mappingID, data, &s); err != nil {
		return err
	}
	if err := checkCHRRAM(cart.mappingID, cart.state.CHRRAM, s.CHRRAM); err != nil {
		return err
	}
	cart.state = &s
	return nil
}

// rewindable state for the UxROM cartridge.
type uxromState struct {
	Bank   uint8
	CHRRAM []uint8
}

// Snapshot returns a deep copy of the state.
func (s *uxromState) Snapshot() *uxromState {
	return &uxromState{
		Bank:   s.Bank,
		CHRRAM: cloneCHRRAM(s.CHRRAM),
	}
}
