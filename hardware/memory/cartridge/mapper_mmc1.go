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

// MMC1 registers are loaded one bit at a time through a five bit shift
// register. Writing a value with bit 7 set resets the shift register.
//
// The register written is decided by the address of the fifth write:
//
//	8000-9fff	control
//	a000-bfff	CHR bank 0
//	c000-dfff	CHR bank 1
//	e000-ffff	PRG bank
//
// The PRG RAM chip enable bit is ignored, as it is on the MMC1A.
//
// cartridges:
//   - The Legend of Zelda
//   - Metroid
type mmc1 struct {
	board

	// rewindable state
	state *mmc1State
}

// PRG and CHR bank sizes used by the MMC1.
const (
	mmc1PRGBank = 0x4000
	mmc1CHRBank = 0x1000
)

func newMMC1(img *Image, prgRAM *bus.RamBank) (mapper.Mapper, error) {
	cart := &mmc1{
		board: newBoard("MMC1", img, prgRAM),
	}
	cart.state = newMMC1State(cart.newCHRRAM())
	return cart, nil
}

func (cart *mmc1) String() string {
	return fmt.Sprintf("%s PRG: %d/%d CHR: %d/%d", cart.mappingID,
		cart.prgBank(0x8000), cart.prgBank(0xc000),
		cart.chrBank(0x0000), cart.chrBank(0x1000))
}

// Install implements the mapper.Mapper interface.
func (cart *mmc1) Install(b *bus.Bus) error {
	if err := cart.installPRGRAM(b); err != nil {
		return err
	}
	w := bus.NewRegisterWindow(cart.mappingID, prgROMRange.Origin, cart.read, cart.write)
	if err := b.Install(prgROMRange, w); err != nil {
		return fmt.Errorf("MMC1: %w", err)
	}
	return nil
}

// Reset implements the mapper.Mapper interface.
func (cart *mmc1) Reset() {
	chrRAM := cart.state.CHRRAM
	cart.state = newMMC1State(chrRAM)
}

func (cart *mmc1) read(address uint16) uint8 {
	return readBank(cart.prg, mmc1PRGBank, cart.prgBank(address), int(address))
}

func (cart *mmc1) write(address uint16, data uint8) {
	if data&0x80 == 0x80 {
		cart.state.Shift = 0
		cart.state.Count = 0
		cart.state.Control |= 0x0c
		return
	}

	cart.state.Shift |= (data & 0x01) << cart.state.Count
	cart.state.Count++
	if cart.state.Count < 5 {
		return
	}

	v := cart.state.Shift
	cart.state.Shift = 0
	cart.state.Count = 0

	switch {
	case address < 0xa000:
		cart.state.Control = v
	case address < 0xc000:
		cart.state.CHR0 = v
	case address < 0xe000:
		cart.state.CHR1 = v
	default:
		cart.state.PRG = v
	}
}

// prgBank returns the 16K bank visible at the address.
func (cart *mmc1) prgBank(address uint16) int {
	n := int(cart.state.PRG & 0x0f)
	upper := address >= 0xc000

	switch (cart.state.Control >> 2) & 0x03 {
	case 0, 1:
		n &= 0x0e
		if upper {
			n++
		}
	case 2:
		if !upper {
			n = 0
		}
	case 3:
		if upper {
			n = numBanks(cart.prg, mmc1PRGBank) - 1
		}
	}

	return bankIndex(cart.prg, mmc1PRGBank, n)
}

// chrBank returns the 4K bank visible at the PPU address.
func (cart *mmc1) chrBank(address uint16) int {
	upper := address&0x1000 == 0x1000

	var n int
	if cart.state.Control&0x10 == 0x00 {
		n = int(cart.state.CHR0 & 0x1e)
		if upper {
			n++
		}
	} else if upper {
		n = int(cart.state.CHR1)
	} else {
		n = int(cart.state.CHR0)
	}

	return bankIndex(cart.chrMemory(cart.state.CHRRAM), mmc1CHRBank, n)
}

// Mirroring implements the mapper.Mapper interface.
func (cart *mmc1) Mirroring() mapper.Mirroring {
	switch cart.state.Control & 0x03 {
	case 0:
		return mapper.SingleLower
	case 1:
		return mapper.SingleUpper
	case 2:
		return mapper.Vertical
	}
	return mapper.Horizontal
}

// ReadCHR implements the mapper.Mapper interface.
func (cart *mmc1) ReadCHR(address uint16) uint8 {
	chr := cart.chrMemory(cart.state.CHRRAM)
	if len(chr) == 0 {
		return 0
	}
	return readBank(chr, mmc1CHRBank, cart.chrBank(address), int(address))
}

// WriteCHR implements the mapper.Mapper interface.
func (cart *mmc1) WriteCHR(address uint16, data uint8) {
	if cart.state.CHRRAM == nil {
		return
	}
	writeBank(cart.state.CHRRAM, mmc1CHRBank, cart.chrBank(address), int(address), data)
}

// MappedBank implements the mapper.Mapper interface.
func (cart *mmc1) MappedBank(address uint16) int {
	if !prgROMRange.Contains(address) {
		return -1
	}
	return cart.prgBank(address)
}

// Snapshot implements the mapper.Mapper interface.
func (cart *mmc1) Snapshot() mapper.Mapper {
	n := *cart
	n.state = cart.state.Snapshot()
	return &n
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (cart *mmc1) MarshalBinary() ([]byte, error) {
	return encode(cart.mappingID, cart.state)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (cart *mmc1) UnmarshalBinary(data []byte) error {
	var s mmc1State
	if err := decode(cart.mappingID, data, &s); err != nil {
		return err
	}
	if err := checkCHRRAM(cart.mappingID, cart.state.CHRRAM, s.CHRRAM); err != nil {
		return err
	}
	cart.state = &s
	return nil
}

// rewindable state for the MMC1 cartridge.
type mmc1State struct {
	Shift uint8
	Count uint8

	Control uint8
	CHR0    uint8
	CHR1    uint8
	PRG     uint8

	CHRRAM []uint8
}

// the last PRG bank is fixed at 0xc000 on power-on.
func newMMC1State(chrRAM []uint8) *mmc1State {
	return &mmc1State{
		Control: 0x0c,
		CHRRAM:  chrRAM,
	}
}

// Snapshot returns a deep copy of the state.
func (s *mmc1State) Snapshot() *mmc1State {
	n := *s
	n.CHRRAM = cloneCHRRAM(s.CHRRAM)
	return &n
}
