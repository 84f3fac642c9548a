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

package lcd_test

import (
	"testing"

	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
	"github.com/lockstep-emu/lockstep/hardware/television"
	"github.com/lockstep-emu/lockstep/hardware/television/specification"
	"github.com/lockstep-emu/lockstep/hardware/video/lcd"
	"github.com/lockstep-emu/lockstep/test"
)

type timing struct {
	state television.State
}

func (t *timing) State() television.State {
	return t.state
}

func (t *timing) Spec() specification.Spec {
	return specification.SpecDMG
}

type ram struct {
	data [0x10000]uint8
}

func (m *ram) Read(address uint16) uint8 {
	return m.data[address]
}

func (m *ram) Write(address uint16, data uint8) {
	m.data[address] = data
}

func newLCD() (*lcd.LCD, *cpu.Lines, *timing, *ram) {
	l := cpu.NewLines()
	tm := &timing{}
	m := &ram{}
	return lcd.NewLCD(l, tm, m), l, tm, m
}

func TestVBlank(t *testing.T) {
	d, l, tm, _ := newLCD()

	tm.state.Scanline = 144
	d.Scanline(television.Event{Scanline: 143, Rendered: true, VBlankStart: true})
	test.ExpectEquality(t, l.IRQ(), cpu.SourceVBlank)
	test.ExpectEquality(t, d.ReadRegister(lcd.LY), uint8(144))
	test.ExpectEquality(t, d.ReadRegister(lcd.STAT)&0x03, uint8(1))
}

func TestVBlankStat(t *testing.T) {
	d, l, tm, _ := newLCD()
	d.WriteRegister(lcd.STAT, 0x10)

	tm.state.Scanline = 144
	d.Scanline(television.Event{Scanline: 143, Rendered: true, VBlankStart: true})
	test.ExpectEquality(t, l.IRQ(), cpu.SourceVBlank|cpu.SourceLCDStat)
}

func TestCoincidence(t *testing.T) {
	d, l, tm, _ := newLCD()
	d.WriteRegister(lcd.LYC, 10)
	d.WriteRegister(lcd.STAT, 0x40)

	tm.state.Scanline = 9
	d.Scanline(television.Event{Scanline: 8, Rendered: true})
	test.ExpectEquality(t, l.IRQ(), cpu.Source(0))
	test.ExpectEquality(t, d.ReadRegister(lcd.STAT)&0x04, uint8(0))

	tm.state.Scanline = 10
	d.Scanline(television.Event{Scanline: 9, Rendered: true})
	test.ExpectEquality(t, l.IRQ(), cpu.SourceLCDStat)
	test.ExpectEquality(t, d.ReadRegister(lcd.STAT)&0x04, uint8(0x04))
}

func TestDisabled(t *testing.T) {
	d, l, tm, _ := newLCD()
	d.WriteRegister(lcd.LCDC, 0x00)
	test.ExpectFailure(t, d.RenderingEnabled())

	tm.state.Scanline = 144
	d.Scanline(television.Event{Scanline: 143, Rendered: true, VBlankStart: true})
	test.ExpectEquality(t, l.IRQ(), cpu.Source(0))
	test.ExpectEquality(t, d.ReadRegister(lcd.LY), uint8(0))
}

func TestModes(t *testing.T) {
	d, _, tm, _ := newLCD()

	tm.state.Scanline = 5
	tm.state.Clock = 0
	test.ExpectEquality(t, d.ReadRegister(lcd.STAT)&0x03, uint8(2))
	tm.state.Clock = 100
	test.ExpectEquality(t, d.ReadRegister(lcd.STAT)&0x03, uint8(3))
	tm.state.Clock = 300
	test.ExpectEquality(t, d.ReadRegister(lcd.STAT)&0x03, uint8(0))
	tm.state.Scanline = 150
	test.ExpectEquality(t, d.ReadRegister(lcd.STAT)&0x03, uint8(1))
}

func TestRegisters(t *testing.T) {
	d, _, tm, _ := newLCD()
	tm.state.Scanline = 150

	// LY is read only and the low bits of STAT can't be written
	d.WriteRegister(lcd.LY, 0x55)
	test.ExpectEquality(t, d.ReadRegister(lcd.LY), uint8(150))
	d.WriteRegister(lcd.STAT, 0xff)
	test.ExpectEquality(t, d.ReadRegister(lcd.STAT), uint8(0xf9))

	d.WriteRegister(lcd.SCX, 0x12)
	d.WriteRegister(lcd.WX, 0x34)
	test.ExpectEquality(t, d.PeekRegister(lcd.SCX), uint8(0x12))
	test.ExpectEquality(t, d.PeekRegister(lcd.WX), uint8(0x34))
	test.ExpectEquality(t, d.PeekRegister(lcd.BGP), uint8(0xfc))
}

func TestDMA(t *testing.T) {
	d, _, _, m := newLCD()
	for i := range lcd.OAMSize {
		m.data[0xc100+i] = uint8(i + 1)
	}
	d.WriteRegister(lcd.DMA, 0xc1)
	test.ExpectEquality(t, d.OAM().Read(0), uint8(1))
	test.ExpectEquality(t, d.OAM().Read(lcd.OAMSize-1), uint8(lcd.OAMSize))
}

func TestInstall(t *testing.T) {
	d, _, tm, _ := newLCD()
	b := bus.NewBus(nil)
	test.DemandSuccess(t, d.Install(b))

	tm.state.Scanline = 42
	test.ExpectEquality(t, b.Read(lcd.LY), uint8(42))

	b.Write(0x8010, 0x99)
	test.ExpectEquality(t, d.VRAM().Read(0x0010), uint8(0x99))
	b.Write(0xfe01, 0x77)
	test.ExpectEquality(t, d.OAM().Read(0x0001), uint8(0x77))

	// 0xfea0 is not part of OAM
	test.ExpectEquality(t, len(b.Mappings()), 3)
}

func TestSerialisation(t *testing.T) {
	d, _, _, _ := newLCD()
	d.WriteRegister(lcd.SCY, 0x21)
	d.VRAM().Write(0x100, 0x42)

	data, err := d.MarshalBinary()
	test.DemandSuccess(t, err)

	e, _, _, _ := newLCD()
	test.DemandSuccess(t, e.UnmarshalBinary(data))
	test.ExpectEquality(t, e.PeekRegister(lcd.SCY), uint8(0x21))
	test.ExpectEquality(t, e.VRAM().Read(0x100), uint8(0x42))

	s := d.Snapshot()
	d.VRAM().Write(0x100, 0x00)
	test.ExpectEquality(t, s.VRAM().Read(0x100), uint8(0x42))
}
