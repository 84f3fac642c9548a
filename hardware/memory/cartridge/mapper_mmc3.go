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

	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
	"github.com/lockstep-emu/lockstep/hardware/memory/cartridge/mapper"
)

// MMC3 has eight bank registers, selected through the bank select register,
// and a scanline counter that raises an IRQ. Registers are decoded by the
// address range and whether the address is even or odd:
//
//	8000 even	bank select		8001 odd	bank data
//	a000 even	mirroring		a001 odd	PRG RAM protect
//	c000 even	IRQ latch		c001 odd	IRQ reload
//	e000 even	IRQ disable		e001 odd	IRQ enable
//
// PRG is mapped in 8K banks. The bank registers R6 and R7 select the
// switchable banks and the second to last and last banks are fixed. Bit 6 of
// bank select swaps the positions of R6 and the fixed second to last bank.
//
// CHR is mapped as two 2K banks (R0 and R1) and four 1K banks (R2 to R5).
// Bit 7 of bank select swaps the two halves of the pattern table.
//
// cartridges:
//   - Super Mario Bros. 3
//   - Kirby's Adventure
type mmc3 struct {
	board

	lines *cpu.Lines

	// rewindable state
	state *mmc3State
}

// PRG and CHR bank sizes used by the MMC3.
const (
	mmc3PRGBank = 0x2000
	mmc3CHRBank = 0x0400
)

func newMMC3(img *Image, prgRAM *bus.RamBank, lines *cpu.Lines) (mapper.Mapper, error) {
	cart := &mmc3{
		board: newBoard("MMC3", img, prgRAM),
		lines: lines,
	}
	cart.state = newMMC3State(cart.newCHRRAM())
	return cart, nil
}

func (cart *mmc3) String() string {
	return fmt.Sprintf("%s PRG: %d/%d/%d/%d IRQ: %d/%d", cart.mappingID,
		cart.prgBank(0x8000), cart.prgBank(0xa000), cart.prgBank(0xc000), cart.prgBank(0xe000),
		cart.state.IRQCounter, cart.state.IRQLatch)
}

// Install implements the mapper.Mapper interface.
func (cart *mmc3) Install(b *bus.Bus) error {
	if cart.prgRAM != nil {
		w := bus.NewRegisterWindow("MMC3 RAM", prgRAMRange.Origin, cart.readRAM, cart.writeRAM)
		if err := b.Install(prgRAMRange, w); err != nil {
			return fmt.Errorf("MMC3: %w", err)
		}
	}
	w := bus.NewRegisterWindow(cart.mappingID, prgROMRange.Origin, cart.read, cart.write)
	if err := b.Install(prgROMRange, w); err != nil {
		return fmt.Errorf("MMC3: %w", err)
	}
	return nil
}

// Reset implements the mapper.Mapper interface.
func (cart *mmc3) Reset() {
	chrRAM := cart.state.CHRRAM
	cart.state = newMMC3State(chrRAM)
	cart.lines.Clear(cpu.IRQ, cpu.SourceMapper)
}

func (cart *mmc3) readRAM(address uint16) uint8 {
	return cart.prgRAM.Peek(address - prgRAMRange.Origin)
}

func (cart *mmc3) writeRAM(address uint16, data uint8) {
	// bit 7 enables the chip and bit 6 protects it from writes
	if cart.state.RAMProtect&0xc0 != 0x80 {
		return
	}
	cart.prgRAM.Write(address-prgRAMRange.Origin, data)
}

func (cart *mmc3) read(address uint16) uint8 {
	return readBank(cart.prg, mmc3PRGBank, cart.prgBank(address), int(address))
}

func (cart *mmc3) write(address uint16, data uint8) {
	even := address&0x01 == 0x00

	switch {
	case address < 0xa000:
		if even {
			cart.state.BankSelect = data
		} else {
			cart.state.Registers[cart.state.BankSelect&0x07] = data
		}
	case address < 0xc000:
		if even {
			cart.state.Mirroring = data & 0x01
		} else {
			cart.state.RAMProtect = data
		}
	case address < 0xe000:
		if even {
			cart.state.IRQLatch = data
		} else {
			cart.state.IRQCounter = 0
			cart.state.IRQReload = true
		}
	default:
		if even {
			cart.state.IRQEnabled = false
			cart.lines.Clear(cpu.IRQ, cpu.SourceMapper)
		} else {
			cart.state.IRQEnabled = true
		}
	}
}

// NotifyScanline implements the mapper.Mapper interface.
func (cart *mmc3) NotifyScanline() {
	if cart.state.IRQCounter == 0 || cart.state.IRQReload {
		cart.state.IRQCounter = cart.state.IRQLatch
		cart.state.IRQReload = false
	} else {
		cart.state.IRQCounter--
	}

	if cart.state.IRQCounter == 0 && cart.state.IRQEnabled {
		cart.lines.Set(cpu.IRQ, cpu.SourceMapper)
	}
}

// prgBank returns the 8K bank visible at the address.
func (cart *mmc3) prgBank(address uint16) int {
	last := numBanks(cart.prg, mmc3PRGBank) - 1
	swap := cart.state.BankSelect&0x40 == 0x40

	var n int
	switch address & 0xe000 {
	case 0x8000:
		if swap {
			n = last - 1
		} else {
			n = int(cart.state.Registers[6] & 0x3f)
		}
	case 0xa000:
		n = int(cart.state.Registers[7] & 0x3f)
	case 0xc000:
		if swap {
			n = int(cart.state.Registers[6] & 0x3f)
		} else {
			n = last - 1
		}
	default:
		n = last
	}

	return bankIndex(cart.prg, mmc3PRGBank, n)
}

// chrBank returns the 1K bank visible at the PPU address.
func (cart *mmc3) chrBank(address uint16) int {
	address &= 0x1fff
	if cart.state.BankSelect&0x80 == 0x80 {
		address ^= 0x1000
	}

	var n int
	switch {
	case address < 0x0800:
		n = int(cart.state.Registers[0]&0xfe) + int(address>>10)&0x01
	case address < 0x1000:
		n = int(cart.state.Registers[1]&0xfe) + int(address>>10)&0x01
	default:
		n = int(cart.state.Registers[2+(address-0x1000)>>10])
	}

	return bankIndex(cart.chrMemory(cart.state.CHRRAM), mmc3CHRBank, n)
}

// Mirroring implements the mapper.Mapper interface.
func (cart *mmc3) Mirroring() mapper.Mirroring {
	if cart.mirroring == mapper.FourScreen {
		return mapper.FourScreen
	}
	if cart.state.Mirroring == 0 {
		return mapper.Vertical
	}
	return mapper.Horizontal
}

// ReadCHR implements the mapper.Mapper interface.
func (cart *mmc3) ReadCHR(address uint16) uint8 {
	chr := cart.chrMemory(cart.state.CHRRAM)
	if len(chr) == 0 {
		return 0
	}
	return readBank(chr, mmc3CHRBank, cart.chrBank(address), int(address))
}

// WriteCHR implements the mapper.Mapper interface.
func (cart *mmc3) WriteCHR(address uint16, data uint8) {
	if cart.state.CHRRAM == nil {
		return
	}
	writeBank(cart.state.CHRRAM, mmc3CHRBank, cart.chrBank(address), int(address), data)
}

// MappedBank implements the mapper.Mapper interface.
func (cart *mmc3) MappedBank(address uint16) int {
	if !prgROMRange.Contains(address) {
		return -1
	}
	return cart.prgBank(address)
}

// Snapshot implements the mapper.Mapper interface.
func (cart *mmc3) Snapshot() mapper.Mapper {
	n := *cart
	n.state = cart.state.Snapshot()
	return &n
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (cart *mmc3) MarshalBinary() ([]byte, error) {
	return encode(cart.mappingID, cart.state)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (cart *mmc3) UnmarshalBinary(data []byte) error {
	var s mmc3State
	if err := decode(cart.mappingID, data, &s); err != nil {
		return err
	}
	if err := checkCHRRAM(cart.mappingID, cart.state.CHRRAM, s.CHRRAM); err != nil {
		return err
	}
	cart.state = &s
	return nil
}

// rewindable state for the MMC3 cartridge.
type mmc3State struct {
	BankSelect uint8
	Registers  [8]uint8
	Mirroring  uint8
	RAMProtect uint8

	IRQLatch   uint8
	IRQCounter uint8
	IRQReload  bool
	IRQEnabled bool

	CHRRAM []uint8
}

// PRG RAM is enabled and writable on power-on.
func newMMC3State(chrRAM []uint8) *mmc3State {
	return &mmc3State{
		RAMProtect: 0x80,
		CHRRAM:     chrRAM,
	}
}

// Snapshot returns a deep copy of the state.
func (s *mmc3State) Snapshot() *mmc3State {
	n := *s
	n.CHRRAM = cloneCHRRAM(s.CHRRAM)
	return &n
}
