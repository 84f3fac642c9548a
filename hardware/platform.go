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

package hardware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lockstep-emu/lockstep/hardware/apu"
	"github.com/lockstep-emu/lockstep/hardware/cpu/mos6502"
	"github.com/lockstep-emu/lockstep/hardware/cpu/sm83"
	"github.com/lockstep-emu/lockstep/hardware/cpu/z80"
	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
	"github.com/lockstep-emu/lockstep/hardware/memory/cartridge"
	"github.com/lockstep-emu/lockstep/hardware/video/lcd"
	"github.com/lockstep-emu/lockstep/hardware/video/ppu"
	"github.com/lockstep-emu/lockstep/hardware/video/vdp"
)

// List of platforms supported by NewConsole(). The values are also the IDs
// of the television specifications used by each platform.
const (
	PlatformNES    = "NES-NTSC"
	PlatformNESPAL = "NES-PAL"
	PlatformSMS    = "SMS"
	PlatformDMG    = "DMG"
)

// Sentinel errors returned when a console is created.
var (
	ErrUnknownPlatform       = errors.New("unknown platform")
	ErrIncompatibleCartridge = errors.New("cartridge format not supported by platform")
)

// resolvePlatform returns the canonical platform ID for the requested
// platform. An empty request chooses the platform from the cartridge format
// and then from the DefaultPlatform preference.
func resolvePlatform(requested string, img *cartridge.Image, def string) (string, error) {
	if requested == "" {
		if img.Format == cartridge.FormatINES {
			return PlatformNES, nil
		}
		requested = def
	}

	switch strings.ToUpper(requested) {
	case "NES", PlatformNES:
		return PlatformNES, nil
	case PlatformNESPAL:
		return PlatformNESPAL, nil
	case PlatformSMS:
		return PlatformSMS, nil
	case PlatformDMG:
		return PlatformDMG, nil
	}
	return "", fmt.Errorf("hardware: %w: %q", ErrUnknownPlatform, requested)
}

// memory map of the NES.
var (
	nesWorkRAM = bus.NewRange(0x0000, 0x2000)
)

const nesWorkRAMSize = 0x0800

// attachNES builds the NES and NES-PAL platforms: 2K of work RAM mirrored to
// 0x1fff, the PPU, the APU and a 6502 core.
func (con *Console) attachNES() error {
	if con.Cart.Image.Format != cartridge.FormatINES {
		return fmt.Errorf("%w: %s on %s", ErrIncompatibleCartridge, con.Cart.Image.Format, con.Platform)
	}

	wram := bus.NewRamBank(nesWorkRAMSize, false)
	if err := con.Bus.Install(nesWorkRAM, wram); err != nil {
		return err
	}
	con.ram = append(con.ram, namedRAM{name: "wram", bank: wram})

	if err := con.Cart.Install(con.Bus); err != nil {
		return err
	}

	mc := mos6502.NewCPU(con.env, con.Bus, con.lines)
	con.CPU = mc

	con.PPU = ppu.NewPPU(con.env, con.lines, con.Bus, mc, con.Cart.Mapper())
	if err := con.PPU.Install(con.Bus); err != nil {
		return err
	}

	con.APU = apu.NewAPU(con.env, con.lines, con.TV.Spec())
	if err := con.APU.Install(con.Bus); err != nil {
		return err
	}

	con.video = con.PPU
	con.audio = con.APU

	return nil
}

// memory map of the Master System. 0x8000 to 0xbfff is left unmapped because
// PLAIN cartridges have no banking hardware.
var (
	smsWorkRAM = bus.NewRange(0xc000, 0x4000)
)

const smsWorkRAMSize = 0x2000

// attachSMS builds the Master System: a PLAIN cartridge, 8K of work RAM
// mirrored to 0xffff, the VDP on the I/O ports and a Z80 core.
func (con *Console) attachSMS() error {
	if con.Cart.Image.Format != cartridge.FormatPLAIN {
		return fmt.Errorf("%w: %s on %s", ErrIncompatibleCartridge, con.Cart.Image.Format, con.Platform)
	}

	if err := con.Cart.Install(con.Bus); err != nil {
		return err
	}

	wram := bus.NewRamBank(smsWorkRAMSize, false)
	if err := con.Bus.Install(smsWorkRAM, wram); err != nil {
		return err
	}
	con.ram = append(con.ram, namedRAM{name: "wram", bank: wram})

	con.VDP = vdp.NewVDP(con.lines, con.TV)
	con.CPU = z80.NewCPU(con.env, con.Bus, smsPorts{vdp: con.VDP}, con.lines)
	con.video = con.VDP

	return nil
}

// smsPorts decodes the I/O address space of the Master System. Only bits 0,
// 6 and 7 of the port address are connected.
type smsPorts struct {
	vdp *vdp.VDP
}

// the joypad ports read as all ones when no button is pressed.
const smsJoypadIdle = 0xff

// In implements the z80.IO interface.
func (p smsPorts) In(port uint16) uint8 {
	switch uint8(port) & 0xc0 {
	case 0x40, 0x80:
		return p.vdp.ReadPort(uint8(port))
	}
	return smsJoypadIdle
}

// Out implements the z80.IO interface. Writes to the PSG and to the memory
// and I/O control registers are dropped.
func (p smsPorts) Out(port uint16, data uint8) {
	if uint8(port)&0xc0 == 0x80 {
		p.vdp.WritePort(uint8(port), data)
	}
}

// memory map of the DMG. Cartridge RAM at 0xa000 is not supported by PLAIN
// cartridges.
var (
	dmgWorkRAM = bus.NewRange(0xc000, 0x2000)
	dmgEchoRAM = bus.NewRange(0xe000, 0x1e00)
	dmgHighRAM = bus.NewRange(0xff80, 0x7f)
	dmgIF      = bus.NewRange(sm83.IFAddress, 1)
	dmgIE      = bus.NewRange(sm83.IEAddress, 1)
)

// attachDMG builds the Game Boy: a PLAIN cartridge, the LCD controller with
// VRAM and OAM, 8K of work RAM and its echo, high RAM, the interrupt
// registers and an SM83 core.
func (con *Console) attachDMG() error {
	if con.Cart.Image.Format != cartridge.FormatPLAIN {
		return fmt.Errorf("%w: %s on %s", ErrIncompatibleCartridge, con.Cart.Image.Format, con.Platform)
	}

	if err := con.Cart.Install(con.Bus); err != nil {
		return err
	}

	wram := bus.NewRamBank(dmgWorkRAM.Size(), false)
	hram := bus.NewRamBank(dmgHighRAM.Size(), false)
	for _, m := range []struct {
		rng bus.Range
		dev bus.Device
	}{
		{rng: dmgWorkRAM, dev: wram},
		{rng: dmgEchoRAM, dev: wram},
		{rng: dmgHighRAM, dev: hram},
	} {
		if err := con.Bus.Install(m.rng, m.dev); err != nil {
			return err
		}
	}
	con.ram = append(con.ram, namedRAM{name: "wram", bank: wram}, namedRAM{name: "hram", bank: hram})

	con.LCD = lcd.NewLCD(con.lines, con.TV, con.Bus)
	if err := con.LCD.Install(con.Bus); err != nil {
		return err
	}

	mc := sm83.NewCPU(con.env, con.Bus, con.lines)
	con.CPU = mc

	regs := mc.InterruptRegisters()
	if err := con.Bus.Install(dmgIF, bus.NewIoPort("IF", sm83.IFAddress, 0xffff, regs)); err != nil {
		return err
	}
	if err := con.Bus.Install(dmgIE, bus.NewIoPort("IE", sm83.IEAddress, 0xffff, regs)); err != nil {
		return err
	}

	con.video = con.LCD

	return nil
}

// attach the platform specific hardware to the console.
func (con *Console) attach() error {
	var err error
	switch con.Platform {
	case PlatformNES, PlatformNESPAL:
		err = con.attachNES()
	case PlatformSMS:
		err = con.attachSMS()
	case PlatformDMG:
		err = con.attachDMG()
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownPlatform, con.Platform)
	}
	if err != nil {
		return fmt.Errorf("hardware: %w", err)
	}
	return nil
}
