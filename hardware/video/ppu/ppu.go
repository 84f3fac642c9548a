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

package ppu

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/lockstep-emu/lockstep/environment"
	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
	"github.com/lockstep-emu/lockstep/hardware/memory/cartridge/mapper"
	"github.com/lockstep-emu/lockstep/hardware/television"
	"github.com/lockstep-emu/lockstep/logger"
)

// CPU addresses of the PPU registers.
const (
	PPUCTRL   = uint16(0x2000)
	PPUMASK   = uint16(0x2001)
	PPUSTATUS = uint16(0x2002)
	OAMADDR   = uint16(0x2003)
	OAMDATA   = uint16(0x2004)
	PPUSCROLL = uint16(0x2005)
	PPUADDR   = uint16(0x2006)
	PPUDATA   = uint16(0x2007)
	OAMDMA    = uint16(0x4014)
)

// PPUCTRL bits.
const (
	ctrlIncrement = 0x04
	ctrlNMI       = 0x80
)

// PPUMASK bits.
const (
	maskBackground = 0x08
	maskSprites    = 0x10
)

// PPUSTATUS bits.
const (
	statusOverflow = 0x20
	statusSprite0  = 0x40
	statusVBlank   = 0x80
)

// number of CPU cycles the CPU is stalled during OAM DMA. one more cycle is
// required if the DMA starts on an odd CPU cycle.
const dmaCycles = 513

const (
	oamSize     = 256
	vramSize    = 0x1000
	paletteSize = 32
)

// Cartridge is the part of the cartridge mapper used by the PPU.
type Cartridge interface {
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, data uint8)
	Mirroring() mapper.Mirroring
}

// DMA is the CPU side of OAM DMA. CurrentCycle includes the cycles of the
// instruction that wrote to the DMA register.
type DMA interface {
	Stall(cycles int)
	CurrentCycle() uint64
}

// PPU is the register level emulation of the NES 2C02.
type PPU struct {
	env   *environment.Environment
	lines *cpu.Lines
	mem   cpu.Memory
	dma   DMA
	cart  Cartridge

	state *state
}

type state struct {
	Ctrl    uint8
	Mask    uint8
	Status  uint8
	OAMAddr uint8

	// loopy registers. v is the current VRAM address, t is the temporary
	// VRAM address, x is the fine X scroll and w is the write toggle
	V uint16
	T uint16
	X uint8
	W bool

	// the PPUDATA read buffer
	Buffer uint8

	// the value last written to any register. returned by reads of write
	// only registers
	Latch uint8

	OAM     [oamSize]uint8
	VRAM    [vramSize]uint8
	Palette [paletteSize]uint8

	// number of OAM DMA transfers since reset
	DMACount int
}

// NewPPU is the preferred method of initialisation for the PPU type. The
// memory is used for OAM DMA transfers.
func NewPPU(env *environment.Environment, lines *cpu.Lines, mem cpu.Memory, dma DMA, cart Cartridge) *PPU {
	p := &PPU{
		env:   env,
		lines: lines,
		mem:   mem,
		dma:   dma,
		cart:  cart,
		state: &state{},
	}
	p.Reset()
	return p
}

func (p *PPU) String() string {
	return fmt.Sprintf("PPU: ctrl=%02x mask=%02x status=%02x v=%04x", p.state.Ctrl, p.state.Mask, p.state.Status, p.state.V)
}

func (p *PPU) logPermission() logger.Permission {
	if p.env == nil {
		return logger.Allow
	}
	return p.env
}

// Reset the PPU to its power-on state. VRAM and OAM are not cleared.
func (p *PPU) Reset() {
	p.state.Ctrl = 0
	p.state.Mask = 0
	p.state.Status = 0
	p.state.OAMAddr = 0
	p.state.V = 0
	p.state.T = 0
	p.state.X = 0
	p.state.W = false
	p.state.Buffer = 0
	p.state.Latch = 0
	p.state.DMACount = 0
	p.updateNMI()
}

// Install the PPU registers on the bus.
func (p *PPU) Install(b *bus.Bus) error {
	err := b.Install(bus.NewRange(PPUCTRL, 0x2000), bus.NewIoPort("PPU", PPUCTRL, 0x0007, p))
	if err != nil {
		return fmt.Errorf("ppu: %w", err)
	}
	err = b.Install(bus.NewRange(OAMDMA, 1), bus.NewIoPort("OAMDMA", OAMDMA, 0x0000, p))
	if err != nil {
		return fmt.Errorf("ppu: %w", err)
	}
	return nil
}

// VBlank returns true if the vertical blank flag is set.
func (p *PPU) VBlank() bool {
	return p.state.Status&statusVBlank == statusVBlank
}

// RenderingEnabled implements the scheduler.Video interface.
func (p *PPU) RenderingEnabled() bool {
	return p.state.Mask&(maskBackground|maskSprites) != 0
}

// DMACount returns the number of OAM DMA transfers since reset.
func (p *PPU) DMACount() int {
	return p.state.DMACount
}

// OAM returns a copy of object attribute memory.
func (p *PPU) OAM() []uint8 {
	o := p.state.OAM
	return o[:]
}

// Scanline implements the scheduler.Video interface.
func (p *PPU) Scanline(ev television.Event) {
	if ev.VBlankStart {
		p.state.Status |= statusVBlank
		p.updateNMI()
	}
	if ev.VBlankEnd {
		p.state.Status &^= statusVBlank | statusSprite0 | statusOverflow
		p.updateNMI()
	}
}

// the NMI output of the PPU is the logical AND of the vblank flag and the NMI
// enable bit. the CPU latches the NMI on the rising edge.
func (p *PPU) updateNMI() {
	if p.state.Status&statusVBlank == statusVBlank && p.state.Ctrl&ctrlNMI == ctrlNMI {
		p.lines.Set(cpu.NMI, cpu.SourcePPU)
	} else {
		p.lines.Clear(cpu.NMI, cpu.SourcePPU)
	}
}

func (p *PPU) increment() uint16 {
	if p.state.Ctrl&ctrlIncrement == ctrlIncrement {
		return 32
	}
	return 1
}

// ReadRegister implements the bus.Registers interface.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case PPUSTATUS:
		v := p.state.Status&0xe0 | p.state.Latch&0x1f
		p.state.Status &^= statusVBlank
		p.state.W = false
		p.updateNMI()
		p.state.Latch = v
	case OAMDATA:
		p.state.Latch = p.state.OAM[p.state.OAMAddr]
	case PPUDATA:
		a := p.state.V & 0x3fff
		v := p.readVRAM(a)
		if a < 0x3f00 {
			v, p.state.Buffer = p.state.Buffer, v
		} else {
			// palette reads are not buffered but the buffer is filled with
			// the nametable data underneath the palette
			p.state.Buffer = p.readVRAM(a - 0x1000)
		}
		p.state.V += p.increment()
		p.state.Latch = v
	}
	return p.state.Latch
}

// PeekRegister implements the bus.Registers interface.
func (p *PPU) PeekRegister(address uint16) uint8 {
	switch address {
	case PPUSTATUS:
		return p.state.Status&0xe0 | p.state.Latch&0x1f
	case OAMDATA:
		return p.state.OAM[p.state.OAMAddr]
	case PPUDATA:
		return p.state.Buffer
	}
	return p.state.Latch
}

// WriteRegister implements the bus.Registers interface.
func (p *PPU) WriteRegister(address uint16, data uint8) {
	p.state.Latch = data

	switch address {
	case PPUCTRL:
		p.state.Ctrl = data
		p.state.T = p.state.T&0xf3ff | uint16(data&0x03)<<10

		// enabling NMI during vblank causes an immediate NMI
		p.updateNMI()
	case PPUMASK:
		p.state.Mask = data
	case PPUSTATUS:
	case OAMADDR:
		p.state.OAMAddr = data
	case OAMDATA:
		p.state.OAM[p.state.OAMAddr] = data
		p.state.OAMAddr++
	case PPUSCROLL:
		if !p.state.W {
			p.state.T = p.state.T&0xffe0 | uint16(data)>>3
			p.state.X = data & 0x07
		} else {
			p.state.T = p.state.T&0x8c1f | uint16(data&0x07)<<12 | uint16(data&0xf8)<<2
		}
		p.state.W = !p.state.W
	case PPUADDR:
		if !p.state.W {
			p.state.T = p.state.T&0x00ff | uint16(data&0x3f)<<8
		} else {
			p.state.T = p.state.T&0xff00 | uint16(data)
			p.state.V = p.state.T
		}
		p.state.W = !p.state.W
	case PPUDATA:
		p.writeVRAM(p.state.V&0x3fff, data)
		p.state.V += p.increment()
	case OAMDMA:
		p.oamDMA(data)
	}
}

// copy a page of CPU memory to OAM and stall the CPU for the duration of the
// transfer.
func (p *PPU) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := range uint16(oamSize) {
		p.state.OAM[uint8(uint16(p.state.OAMAddr)+i)] = p.mem.Read(base + i)
	}

	stall := dmaCycles
	if p.dma != nil {
		if p.dma.CurrentCycle()&0x01 == 0x01 {
			stall++
		}
		p.dma.Stall(stall)
	}
	p.state.DMACount++

	logger.Logf(p.logPermission(), "ppu", "OAM DMA from page %02x (%d cycles)", page, stall)
}

// nametableIndex returns the index into VRAM of a nametable address.
func (p *PPU) nametableIndex(address uint16) int {
	var m mapper.Mirroring
	if p.cart != nil {
		m = p.cart.Mirroring()
	}
	a := address & 0x0fff
	return m.Nametable(0x2000|a)*0x0400 + int(a&0x03ff)
}

func paletteIndex(address uint16) int {
	a := address & 0x1f
	// the background entries of the sprite palettes mirror the background
	// palette
	if a&0x13 == 0x10 {
		a &^= 0x10
	}
	return int(a)
}

func (p *PPU) readVRAM(address uint16) uint8 {
	switch {
	case address < 0x2000:
		if p.cart == nil {
			return 0
		}
		return p.cart.ReadCHR(address)
	case address < 0x3f00:
		return p.state.VRAM[p.nametableIndex(address)]
	}
	return p.state.Palette[paletteIndex(address)]
}

func (p *PPU) writeVRAM(address uint16, data uint8) {
	switch {
	case address < 0x2000:
		if p.cart != nil {
			p.cart.WriteCHR(address, data)
		}
	case address < 0x3f00:
		p.state.VRAM[p.nametableIndex(address)] = data
	default:
		p.state.Palette[paletteIndex(address)] = data & 0x3f
	}
}

// PeekVRAM returns the value in PPU memory without side effects.
func (p *PPU) PeekVRAM(address uint16) uint8 {
	return p.readVRAM(address & 0x3fff)
}

// Snapshot returns a copy of the PPU. The copy shares the interrupt lines,
// the memory and the cartridge of the original.
func (p *PPU) Snapshot() *PPU {
	n := *p
	s := *p.state
	n.state = &s
	return &n
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (p *PPU) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(p.state); err != nil {
		return nil, fmt.Errorf("ppu: %w", err)
	}
	return b.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface. The
// NMI line is not changed. It is part of the interrupt lines state.
func (p *PPU) UnmarshalBinary(data []byte) error {
	s := &state{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(s); err != nil {
		return fmt.Errorf("ppu: %w", err)
	}
	p.state = s
	return nil
}
