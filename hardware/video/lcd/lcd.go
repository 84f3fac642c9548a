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

package lcd

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
	"github.com/lockstep-emu/lockstep/hardware/television"
	"github.com/lockstep-emu/lockstep/hardware/television/specification"
)

// Register addresses.
const (
	LCDC = uint16(0xff40)
	STAT = uint16(0xff41)
	SCY  = uint16(0xff42)
	SCX  = uint16(0xff43)
	LY   = uint16(0xff44)
	LYC  = uint16(0xff45)
	DMA  = uint16(0xff46)
	BGP  = uint16(0xff47)
	OBP0 = uint16(0xff48)
	OBP1 = uint16(0xff49)
	WY   = uint16(0xff4a)
	WX   = uint16(0xff4b)
)

// Memory areas owned by the controller.
const (
	VRAMOrigin = uint16(0x8000)
	VRAMSize   = 0x2000
	OAMOrigin  = uint16(0xfe00)
	OAMSize    = 0xa0
)

const numRegs = 12

const lcdcEnable = 0x80

// STAT bits.
const (
	statCoincidence = 0x04
	statHBlankIRQ   = 0x08
	statVBlankIRQ   = 0x10
	statOAMIRQ      = 0x20
	statLYCIRQ      = 0x40
)

// length of modes 2 and 3 in T-states. the remainder of a visible scanline
// is mode 0.
const (
	oamScanLength = 80
	transferEnd   = 252
)

// Timing is the source of LY and the STAT mode.
type Timing interface {
	State() television.State
	Spec() specification.Spec
}

// LCD is the Game Boy LCD controller.
type LCD struct {
	lines  *cpu.Lines
	timing Timing
	mem    cpu.Memory

	vram *bus.RamBank
	oam  *bus.RamBank

	// registers 0xff40 to 0xff4b. LY is not stored
	regs [numRegs]uint8
}

// NewLCD is the preferred method of initialisation for the LCD type. The
// memory is the source of OAM DMA transfers.
func NewLCD(lines *cpu.Lines, timing Timing, mem cpu.Memory) *LCD {
	l := &LCD{
		lines:  lines,
		timing: timing,
		mem:    mem,
		vram:   bus.NewRamBank(VRAMSize, false),
		oam:    bus.NewRamBank(OAMSize, false),
	}
	l.Reset()
	return l
}

func (l *LCD) String() string {
	return fmt.Sprintf("LCD: LCDC=%02x STAT=%02x LY=%d LYC=%d", l.regs[LCDC-LCDC], l.readSTAT(), l.ly(), l.regs[LYC-LCDC])
}

// Reset the registers to the values left by the boot ROM.
func (l *LCD) Reset() {
	l.regs = [numRegs]uint8{}
	l.regs[LCDC-LCDC] = 0x91
	l.regs[BGP-LCDC] = 0xfc
	l.regs[OBP0-LCDC] = 0xff
	l.regs[OBP1-LCDC] = 0xff
}

// Install the registers, VRAM and OAM on the bus.
func (l *LCD) Install(b *bus.Bus) error {
	if err := b.Install(bus.NewRange(LCDC, numRegs), bus.NewIoPort("LCD", LCDC, 0xffff, l)); err != nil {
		return fmt.Errorf("lcd: %w", err)
	}
	if err := b.Install(bus.NewRange(VRAMOrigin, VRAMSize), l.vram); err != nil {
		return fmt.Errorf("lcd: %w", err)
	}
	if err := b.Install(bus.NewRange(OAMOrigin, OAMSize), l.oam); err != nil {
		return fmt.Errorf("lcd: %w", err)
	}
	return nil
}

// VRAM returns the video RAM bank.
func (l *LCD) VRAM() *bus.RamBank {
	return l.vram
}

// OAM returns the object attribute memory bank.
func (l *LCD) OAM() *bus.RamBank {
	return l.oam
}

func (l *LCD) enabled() bool {
	return l.regs[LCDC-LCDC]&lcdcEnable == lcdcEnable
}

// RenderingEnabled implements the scheduler.Video interface.
func (l *LCD) RenderingEnabled() bool {
	return l.enabled()
}

func (l *LCD) ly() uint8 {
	if !l.enabled() || l.timing == nil {
		return 0
	}
	return uint8(l.timing.State().Scanline)
}

// mode returns the STAT mode for the current beam position.
func (l *LCD) mode() uint8 {
	if !l.enabled() || l.timing == nil {
		return 0
	}
	st := l.timing.State()
	switch {
	case st.Scanline >= l.timing.Spec().ScanlinesVisible:
		return 1
	case st.Clock < oamScanLength:
		return 2
	case st.Clock < transferEnd:
		return 3
	}
	return 0
}

func (l *LCD) readSTAT() uint8 {
	v := 0x80 | l.regs[STAT-LCDC]&0x78 | l.mode()
	if l.ly() == l.regs[LYC-LCDC] {
		v |= statCoincidence
	}
	return v
}

// Scanline implements the scheduler.Video interface.
func (l *LCD) Scanline(ev television.Event) {
	if !l.enabled() {
		return
	}

	stat := l.regs[STAT-LCDC]
	request := false

	if ev.VBlankStart {
		l.lines.Set(cpu.IRQ, cpu.SourceVBlank)
		request = stat&statVBlankIRQ == statVBlankIRQ
	} else if l.ly() < uint8(l.timing.Spec().ScanlinesVisible) {
		// new visible line begins with the OAM scan
		request = stat&statOAMIRQ == statOAMIRQ
	}

	// the previous line ended in HBlank
	if ev.Rendered && stat&statHBlankIRQ == statHBlankIRQ {
		request = true
	}

	if stat&statLYCIRQ == statLYCIRQ && l.ly() == l.regs[LYC-LCDC] {
		request = true
	}

	if request {
		l.lines.Set(cpu.IRQ, cpu.SourceLCDStat)
	}
}

// ReadRegister implements the bus.Registers interface.
func (l *LCD) ReadRegister(address uint16) uint8 {
	return l.PeekRegister(address)
}

// PeekRegister implements the bus.Registers interface.
func (l *LCD) PeekRegister(address uint16) uint8 {
	switch address {
	case STAT:
		return l.readSTAT()
	case LY:
		return l.ly()
	}
	return l.regs[(address-LCDC)%numRegs]
}

// WriteRegister implements the bus.Registers interface.
func (l *LCD) WriteRegister(address uint16, data uint8) {
	switch address {
	case STAT:
		l.regs[STAT-LCDC] = data & 0x78
	case LY:
	case DMA:
		l.regs[DMA-LCDC] = data
		l.dma(data)
	default:
		l.regs[(address-LCDC)%numRegs] = data
	}
}

// copy 160 bytes to OAM from the page written to the DMA register.
func (l *LCD) dma(page uint8) {
	base := uint16(page) << 8
	for i := range uint16(OAMSize) {
		l.oam.Write(i, l.mem.Read(base+i))
	}
}

type lcdState struct {
	Regs [numRegs]uint8
	VRAM []uint8
	OAM  []uint8
}

// Snapshot returns a copy of the LCD.
func (l *LCD) Snapshot() *LCD {
	n := *l
	n.vram = bus.NewRamBank(VRAMSize, false)
	_ = n.vram.Load(l.vram.Data())
	n.oam = bus.NewRamBank(OAMSize, false)
	_ = n.oam.Load(l.oam.Data())
	return &n
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (l *LCD) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	err := gob.NewEncoder(&b).Encode(lcdState{
		Regs: l.regs,
		VRAM: l.vram.Data(),
		OAM:  l.oam.Data(),
	})
	if err != nil {
		return nil, fmt.Errorf("lcd: %w", err)
	}
	return b.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (l *LCD) UnmarshalBinary(data []byte) error {
	var s lcdState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("lcd: %w", err)
	}
	if len(s.VRAM) != VRAMSize || len(s.OAM) != OAMSize {
		return fmt.Errorf("lcd: %w", bus.ErrRAMSize)
	}
	_ = l.vram.Load(s.VRAM)
	_ = l.oam.Load(s.OAM)
	l.regs = s.Regs
	return nil
}
