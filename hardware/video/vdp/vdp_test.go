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

package vdp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/television"
	"github.com/lockstep-emu/lockstep/hardware/television/specification"
	"github.com/lockstep-emu/lockstep/hardware/video/vdp"
)

type timing struct {
	state television.State
}

func (t *timing) State() television.State {
	return t.state
}

func (t *timing) Spec() specification.Spec {
	return specification.SpecSMS
}

func newVDP() (*vdp.VDP, *cpu.Lines, *timing) {
	l := cpu.NewLines()
	tm := &timing{}
	return vdp.NewVDP(l, tm), l, tm
}

func control(v *vdp.VDP, lo uint8, hi uint8) {
	v.WritePort(vdp.PortControl, lo)
	v.WritePort(vdp.PortControl, hi)
}

func TestRegisterWrite(t *testing.T) {
	v, _, _ := newVDP()
	control(v, 0x60, 0x81)
	assert.Equal(t, uint8(0x60), v.Register(1))
	assert.True(t, v.RenderingEnabled())

	// mirrored control port
	control(v, 0x02, 0x87)
	assert.Equal(t, uint8(0x02), v.Register(7))
}

func TestVRAM(t *testing.T) {
	v, _, _ := newVDP()

	control(v, 0x00, 0x40)
	v.WritePort(vdp.PortData, 0x11)
	v.WritePort(vdp.PortData, 0x22)
	assert.Equal(t, uint8(0x11), v.PeekVRAM(0x0000))
	assert.Equal(t, uint8(0x22), v.PeekVRAM(0x0001))

	// read setup prefetches the first byte
	control(v, 0x00, 0x00)
	assert.Equal(t, uint8(0x11), v.PeekPort(vdp.PortData))
	assert.Equal(t, uint8(0x11), v.ReadPort(vdp.PortData))
	assert.Equal(t, uint8(0x22), v.ReadPort(vdp.PortData))

	// address wraps at the end of VRAM
	control(v, 0xff, 0x7f)
	v.WritePort(vdp.PortData, 0x33)
	v.WritePort(vdp.PortData, 0x44)
	assert.Equal(t, uint8(0x33), v.PeekVRAM(0x3fff))
	assert.Equal(t, uint8(0x44), v.PeekVRAM(0x0000))
}

func TestCRAM(t *testing.T) {
	v, _, _ := newVDP()
	control(v, 0x05, 0xc0)
	v.WritePort(vdp.PortData, 0x3f)
	assert.Equal(t, uint8(0x3f), v.PeekCRAM(0x05))
	assert.Equal(t, uint8(0x00), v.PeekVRAM(0x0005))
}

func TestFrameInterrupt(t *testing.T) {
	v, l, _ := newVDP()
	control(v, 0x20, 0x81)

	v.Scanline(television.Event{Scanline: 191, VBlankStart: true})
	assert.True(t, v.FramePending())
	assert.Equal(t, cpu.SourceVDP, l.IRQ()&cpu.SourceVDP)

	// peek does not acknowledge the interrupt
	assert.Equal(t, uint8(0x9f), v.PeekPort(vdp.PortControl))
	assert.True(t, v.FramePending())

	assert.Equal(t, uint8(0x9f), v.ReadPort(vdp.PortControl))
	assert.False(t, v.FramePending())
	assert.Equal(t, cpu.Source(0), l.IRQ()&cpu.SourceVDP)
}

func TestFrameInterruptEnable(t *testing.T) {
	v, l, _ := newVDP()

	v.Scanline(television.Event{Scanline: 191, VBlankStart: true})
	assert.True(t, v.FramePending())
	assert.Equal(t, cpu.Source(0), l.IRQ())

	// enabling the interrupt with the flag set raises the IRQ
	control(v, 0x20, 0x81)
	assert.Equal(t, cpu.SourceVDP, l.IRQ())

	control(v, 0x00, 0x81)
	assert.Equal(t, cpu.Source(0), l.IRQ())
}

func TestLineInterrupt(t *testing.T) {
	v, l, _ := newVDP()
	control(v, 0x02, 0x8a)
	control(v, 0x10, 0x80)

	// reloaded outside of the active area
	v.Scanline(television.Event{Scanline: 200})
	assert.Equal(t, cpu.Source(0), l.IRQ())

	v.Scanline(television.Event{Scanline: 0})
	v.Scanline(television.Event{Scanline: 1})
	assert.Equal(t, cpu.Source(0), l.IRQ())

	v.Scanline(television.Event{Scanline: 2})
	assert.Equal(t, cpu.SourceVDP, l.IRQ())

	v.ReadPort(vdp.PortControl)
	assert.Equal(t, cpu.Source(0), l.IRQ())

	// fires every three lines
	for line := 3; line < 6; line++ {
		v.Scanline(television.Event{Scanline: line})
	}
	assert.Equal(t, cpu.SourceVDP, l.IRQ())
}

func TestCounters(t *testing.T) {
	v, _, tm := newVDP()

	tm.state.Scanline = 100
	assert.Equal(t, uint8(100), v.ReadPort(vdp.PortVCounter))

	tm.state.Scanline = 0xda
	assert.Equal(t, uint8(0xda), v.VCounter())
	tm.state.Scanline = 0xdb
	assert.Equal(t, uint8(0xd5), v.VCounter())
	tm.state.Scanline = 261
	assert.Equal(t, uint8(0xff), v.VCounter())

	tm.state.Clock = 0
	assert.Equal(t, uint8(0), v.ReadPort(vdp.PortHCounter))
	tm.state.Clock = 3419
	assert.Equal(t, uint8(170), v.HCounter())
	tm.state.Clock = 5000
	assert.Equal(t, uint8(170), v.HCounter())
}

func TestSerialisation(t *testing.T) {
	v, _, _ := newVDP()
	control(v, 0x20, 0x81)
	control(v, 0x10, 0x40)
	v.WritePort(vdp.PortData, 0xaa)

	data, err := v.MarshalBinary()
	require.NoError(t, err)

	w, _, _ := newVDP()
	require.NoError(t, w.UnmarshalBinary(data))
	assert.Equal(t, uint8(0x20), w.Register(1))
	assert.Equal(t, uint8(0xaa), w.PeekVRAM(0x0010))
	assert.Equal(t, v.String(), w.String())

	s := v.Snapshot()
	control(v, 0x00, 0x81)
	assert.Equal(t, uint8(0x20), s.Register(1))
}
