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

package vdp

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/television"
	"github.com/lockstep-emu/lockstep/hardware/television/specification"
)

// Port functions. The VDP only decodes bits 0, 6 and 7 of the port address.
const (
	PortVCounter = 0x7e
	PortHCounter = 0x7f
	PortData     = 0xbe
	PortControl  = 0xbf
)

// status register bits.
const (
	statusFrame     = 0x80
	statusOverflow  = 0x40
	statusCollision = 0x20
)

// register bits.
const (
	reg0LineIRQ  = 0x10
	reg1Display  = 0x40
	reg1FrameIRQ = 0x20
)

// access codes of the second control byte.
const (
	codeVRAMRead = iota
	codeVRAMWrite
	codeRegister
	codeCRAMWrite
)

const (
	vramSize = 0x4000
	cramSize = 32
	numRegs  = 16
)

// Timing is the source of the V and H counters.
type Timing interface {
	State() television.State
	Spec() specification.Spec
}

// VDP is the port level emulation of the Sega 315-5124.
type VDP struct {
	lines  *cpu.Lines
	timing Timing

	state *state
}

type state struct {
	Regs   [numRegs]uint8
	Status uint8

	// the control port latches the first byte of a two byte command
	Latch    uint8
	Latched  bool
	Code     uint8
	Address  uint16
	Buffer   uint8
	VRAM     [vramSize]uint8
	CRAM     [cramSize]uint8
	LinesIRQ bool

	// the line interrupt counter
	LineCounter int
}

// NewVDP is the preferred method of initialisation for the VDP type.
func NewVDP(lines *cpu.Lines, timing Timing) *VDP {
	v := &VDP{
		lines:  lines,
		timing: timing,
		state:  &state{},
	}
	v.Reset()
	return v
}

func (v *VDP) String() string {
	return fmt.Sprintf("VDP: status=%02x addr=%04x code=%d", v.state.Status, v.state.Address, v.state.Code)
}

// Reset the VDP registers. VRAM and CRAM are not cleared.
func (v *VDP) Reset() {
	v.state.Regs = [numRegs]uint8{}
	v.state.Regs[10] = 0xff
	v.state.Status = 0
	v.state.Latch = 0
	v.state.Latched = false
	v.state.Code = 0
	v.state.Address = 0
	v.state.Buffer = 0
	v.state.LinesIRQ = false
	v.state.LineCounter = 0xff
	v.updateIRQ()
}

// Register returns the value of a VDP register.
func (v *VDP) Register(n int) uint8 {
	return v.state.Regs[n&0x0f]
}

// PeekVRAM returns the value in VRAM without side effects.
func (v *VDP) PeekVRAM(address uint16) uint8 {
	return v.state.VRAM[address&(vramSize-1)]
}

// PeekCRAM returns the value in colour RAM without side effects.
func (v *VDP) PeekCRAM(address uint16) uint8 {
	return v.state.CRAM[address&(cramSize-1)]
}

// RenderingEnabled implements the scheduler.Video interface.
func (v *VDP) RenderingEnabled() bool {
	return v.state.Regs[1]&reg1Display == reg1Display
}

// FramePending returns true if the frame interrupt flag is set.
func (v *VDP) FramePending() bool {
	return v.state.Status&statusFrame == statusFrame
}

// Scanline implements the scheduler.Video interface.
func (v *VDP) Scanline(ev television.Event) {
	visible := 192
	if v.timing != nil {
		visible = v.timing.Spec().ScanlinesVisible
	}

	// the line counter is decremented on every active line and the line
	// following it. it is reloaded on every other line
	if ev.Scanline <= visible {
		v.state.LineCounter--
		if v.state.LineCounter < 0 {
			v.state.LineCounter = int(v.state.Regs[10])
			v.state.LinesIRQ = true
		}
	} else {
		v.state.LineCounter = int(v.state.Regs[10])
	}

	if ev.VBlankStart {
		v.state.Status |= statusFrame
	}

	v.updateIRQ()
}

func (v *VDP) updateIRQ() {
	frame := v.state.Status&statusFrame == statusFrame && v.state.Regs[1]&reg1FrameIRQ == reg1FrameIRQ
	line := v.state.LinesIRQ && v.state.Regs[0]&reg0LineIRQ == reg0LineIRQ
	if frame || line {
		v.lines.Set(cpu.IRQ, cpu.SourceVDP)
	} else {
		v.lines.Clear(cpu.IRQ, cpu.SourceVDP)
	}
}

// VCounter returns the value of the V counter. The counter jumps back after
// line 0xda so that it fits in eight bits.
func (v *VDP) VCounter() uint8 {
	if v.timing == nil {
		return 0
	}
	line := v.timing.State().Scanline
	if line > 0xda {
		return uint8(line - 6)
	}
	return uint8(line)
}

// HCounter returns the value of the H counter. The counter counts pixels in
// pairs. There are 342 pixels in a scanline.
func (v *VDP) HCounter() uint8 {
	if v.timing == nil {
		return 0
	}
	spec := v.timing.Spec()
	clk := min(v.timing.State().Clock, spec.ClocksPerScanline-1)
	return uint8(clk * 342 / spec.ClocksPerScanline / 2)
}

// ReadPort returns the value of the VDP port. Only bits 0, 6 and 7 of the
// port are considered.
func (v *VDP) ReadPort(port uint8) uint8 {
	switch port & 0xc1 {
	case 0x40:
		return v.VCounter()
	case 0x41:
		return v.HCounter()
	case 0x80:
		v.state.Latched = false
		d := v.state.Buffer
		v.state.Buffer = v.state.VRAM[v.state.Address]
		v.state.Address = (v.state.Address + 1) & (vramSize - 1)
		return d
	case 0x81:
		v.state.Latched = false
		d := v.state.Status | 0x1f
		v.state.Status = 0
		v.state.LinesIRQ = false
		v.updateIRQ()
		return d
	}
	return 0xff
}

// PeekPort is like ReadPort but without side effects.
func (v *VDP) PeekPort(port uint8) uint8 {
	switch port & 0xc1 {
	case 0x40:
		return v.VCounter()
	case 0x41:
		return v.HCounter()
	case 0x80:
		return v.state.Buffer
	case 0x81:
		return v.state.Status | 0x1f
	}
	return 0xff
}

// WritePort writes to the data or control port.
func (v *VDP) WritePort(port uint8, data uint8) {
	switch port & 0xc1 {
	case 0x80:
		v.state.Latched = false
		if v.state.Code == codeCRAMWrite {
			v.state.CRAM[v.state.Address&(cramSize-1)] = data
		} else {
			v.state.VRAM[v.state.Address] = data
		}
		v.state.Buffer = data
		v.state.Address = (v.state.Address + 1) & (vramSize - 1)
	case 0x81:
		if !v.state.Latched {
			v.state.Latch = data
			v.state.Latched = true
			v.state.Address = v.state.Address&0x3f00 | uint16(data)
			return
		}
		v.state.Latched = false
		v.state.Code = data >> 6
		v.state.Address = uint16(data&0x3f)<<8 | uint16(v.state.Latch)

		switch v.state.Code {
		case codeVRAMRead:
			v.state.Buffer = v.state.VRAM[v.state.Address]
			v.state.Address = (v.state.Address + 1) & (vramSize - 1)
		case codeRegister:
			v.state.Regs[data&0x0f] = v.state.Latch
			v.updateIRQ()
		}
	}
}

// Snapshot returns a copy of the VDP.
func (v *VDP) Snapshot() *VDP {
	n := *v
	s := *v.state
	n.state = &s
	return &n
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (v *VDP) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(v.state); err != nil {
		return nil, fmt.Errorf("vdp: %w", err)
	}
	return b.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (v *VDP) UnmarshalBinary(data []byte) error {
	s := &state{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(s); err != nil {
		return fmt.Errorf("vdp: %w", err)
	}
	v.state = s
	return nil
}
