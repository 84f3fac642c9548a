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
	"errors"
	"fmt"

	"github.com/lockstep-emu/lockstep/environment"
	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
	"github.com/lockstep-emu/lockstep/hardware/memory/cartridge/mapper"
	"github.com/lockstep-emu/lockstep/logger"
)

// Sentinel errors for the battery RAM functions.
var (
	ErrNoBattery = errors.New("cartridge has no battery backed RAM")
	ErrRAMSize   = bus.ErrRAMSize
)

// Cartridge connects a cartridge image to the bus through the mapper
// required by the image.
type Cartridge struct {
	env *environment.Environment

	Image *Image

	mapper mapper.Mapper

	// cartridge RAM at 0x6000 to 0x7fff. nil if there is none
	ram *bus.RamBank
}

// NewCartridge is the preferred method of initialisation for the Cartridge
// type. The interrupt lines are used by mappers that can raise an IRQ.
func NewCartridge(env *environment.Environment, img *Image, lines *cpu.Lines) (*Cartridge, error) {
	cart := &Cartridge{
		env:   env,
		Image: img,
	}

	if img.Format == FormatINES && img.PRGRAMSize > 0 {
		cart.ram = bus.NewRamBank(img.PRGRAMSize, img.Battery)
	}

	var err error

	switch img.MapperNumber {
	case -1:
		cart.mapper, err = newPlain(img)
	case 0:
		cart.mapper, err = newNROM(img, cart.ram)
	case 1:
		cart.mapper, err = newMMC1(img, cart.ram)
	case 2:
		cart.mapper, err = newUxROM(img, cart.ram)
	case 3:
		cart.mapper, err = newCNROM(img, cart.ram)
	case 4:
		cart.mapper, err = newMMC3(img, cart.ram, lines)
	default:
		err = fmt.Errorf("%w: %d", ErrUnsupportedMapper, img.MapperNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("cartridge: %w", err)
	}

	logger.Logf(cart.logPermission(), "cartridge", "%s", img)

	return cart, nil
}

func (cart *Cartridge) String() string {
	return cart.mapper.String()
}

func (cart *Cartridge) logPermission() logger.Permission {
	if cart.env == nil {
		return logger.Allow
	}
	return cart.env
}

// Hash returns the SHA-1 of the cartridge image.
func (cart *Cartridge) Hash() string {
	return cart.Image.Hash
}

// Mapper returns the mapper used by the cartridge.
func (cart *Cartridge) Mapper() mapper.Mapper {
	return cart.mapper
}

// RAM returns the cartridge RAM. Returns nil if the cartridge has none.
func (cart *Cartridge) RAM() *bus.RamBank {
	return cart.ram
}

// Install the cartridge on the bus.
func (cart *Cartridge) Install(b *bus.Bus) error {
	if err := cart.mapper.Install(b); err != nil {
		return fmt.Errorf("cartridge: %w", err)
	}
	return nil
}

// Reset the mapper. Cartridge RAM that is not battery backed is cleared or
// randomised according to the RandomState preference.
func (cart *Cartridge) Reset() {
	cart.mapper.Reset()

	if cart.ram == nil || cart.ram.Battery() {
		return
	}

	if cart.env != nil && cart.env.Prefs.RandomState.Get().(bool) {
		cart.ram.Randomise(cart.env.Random.Fill)
	} else {
		cart.ram.Clear()
	}
}

// BatteryRAM returns a copy of the battery backed RAM and whether it has
// been written to since the last call to ClearDirty(). Returns nil if the
// cartridge has no battery.
func (cart *Cartridge) BatteryRAM() ([]byte, bool) {
	if cart.ram == nil || !cart.ram.Battery() {
		return nil, false
	}
	return cart.ram.Data(), cart.ram.Dirty()
}

// ClearDirty should be called once battery RAM has been saved.
func (cart *Cartridge) ClearDirty() {
	if cart.ram != nil {
		cart.ram.ClearDirty()
	}
}

// LoadBatteryRAM replaces the contents of battery backed RAM. The data must
// be the same size as the RAM.
func (cart *Cartridge) LoadBatteryRAM(data []byte) error {
	if cart.ram == nil || !cart.ram.Battery() {
		return fmt.Errorf("cartridge: %w", ErrNoBattery)
	}
	if err := cart.ram.Load(data); err != nil {
		return fmt.Errorf("cartridge: %w", err)
	}
	return nil
}
