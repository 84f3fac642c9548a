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

package apu

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/lockstep-emu/lockstep/environment"
	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
	"github.com/lockstep-emu/lockstep/hardware/television/specification"
)

// Register addresses.
const (
	Pulse1    = uint16(0x4000)
	Pulse2    = uint16(0x4004)
	Triangle  = uint16(0x4008)
	Noise     = uint16(0x400c)
	DMC       = uint16(0x4010)
	Status    = uint16(0x4015)
	FrameCtrl = uint16(0x4017)
)

// DefaultSampleRate is used if the environment has no preferences.
const DefaultSampleRate = 44100

// Sink receives the samples produced by the APU.
type Sink interface {
	SetAudio(sample int16)
}

// frame counter sequence in CPU cycles, for NTSC and PAL.
var (
	sequenceNTSC = [5]int{3729, 7457, 11186, 14915, 18641}
	sequencePAL  = [5]int{4157, 8314, 12471, 16628, 20783}
)

// APU is the 2A03 audio processing unit.
type APU struct {
	lines *cpu.Lines
	sink  Sink

	// returns the value on the data bus. used for reads of the write-only
	// registers
	openBus func() uint8

	sequence   [5]int
	cpuClock   float64
	sampleRate float64

	state *state
}

type state struct {
	Pulse    [2]pulse
	Triangle triangle
	Noise    noise
	DMC      [4]uint8

	// frame counter
	FiveStep   bool
	Inhibit    bool
	FrameIRQ   bool
	FrameCycle int

	// pulse and noise timers are clocked every other CPU cycle
	Odd bool

	// sample pacing accumulator
	Pacing float64

	Samples uint64
}

// NewAPU is the preferred method of initialisation for the APU type. The
// sample rate is taken from the environment's preferences.
func NewAPU(env *environment.Environment, lines *cpu.Lines, spec specification.Spec) *APU {
	a := &APU{
		lines:      lines,
		openBus:    func() uint8 { return 0 },
		sequence:   sequenceNTSC,
		cpuClock:   spec.CPUClock(),
		sampleRate: DefaultSampleRate,
		state:      &state{},
	}

	if spec.ID == specification.SpecNESPAL.ID {
		a.sequence = sequencePAL
	}

	if env != nil && env.Prefs != nil {
		if r, ok := env.Prefs.AudioSampleRate.Get().(int); ok && r > 0 {
			a.sampleRate = float64(r)
		}
	}

	a.Reset()
	return a
}

func (a *APU) String() string {
	return fmt.Sprintf("APU: status=%02x frame=%d irq=%v", a.PeekRegister(Status), a.state.FrameCycle, a.state.FrameIRQ)
}

// SampleRate returns the number of samples produced per second of emulated
// time.
func (a *APU) SampleRate() int {
	return int(a.sampleRate)
}

// SetSink sets the destination for samples. A nil sink disables sample
// generation but the APU continues to be clocked.
func (a *APU) SetSink(sink Sink) {
	a.sink = sink
}

// Samples returns the number of samples generated since reset.
func (a *APU) Samples() uint64 {
	return a.state.Samples
}

// Reset the APU to its power-on state.
func (a *APU) Reset() {
	*a.state = state{}
	a.state.Pulse[0].OnesComplement = true
	a.state.Noise.Shift = 1
	a.state.Noise.Period = noiseTable[0]
	a.lines.Clear(cpu.IRQ, cpu.SourceAPUFrame)
}

// Install the APU registers on the bus. 0x4014 and 0x4016 are not part of
// the APU.
func (a *APU) Install(b *bus.Bus) error {
	a.openBus = b.OpenBus
	for _, r := range []bus.Range{
		bus.NewRange(Pulse1, 0x14),
		bus.NewRange(Status, 1),
		bus.NewRange(FrameCtrl, 1),
	} {
		if err := b.Install(r, bus.NewIoPort("APU", r.Origin, 0xffff, a)); err != nil {
			return fmt.Errorf("apu: %w", err)
		}
	}
	return nil
}

// ReadRegister implements the bus.Registers interface.
func (a *APU) ReadRegister(address uint16) uint8 {
	v := a.PeekRegister(address)
	if address == Status {
		a.state.FrameIRQ = false
		a.lines.Clear(cpu.IRQ, cpu.SourceAPUFrame)
	}
	return v
}

// PeekRegister implements the bus.Registers interface.
func (a *APU) PeekRegister(address uint16) uint8 {
	if address != Status {
		return a.openBus()
	}

	var v uint8
	if a.state.Pulse[0].Length.Counter > 0 {
		v |= 0x01
	}
	if a.state.Pulse[1].Length.Counter > 0 {
		v |= 0x02
	}
	if a.state.Triangle.Length.Counter > 0 {
		v |= 0x04
	}
	if a.state.Noise.Length.Counter > 0 {
		v |= 0x08
	}
	if a.state.FrameIRQ {
		v |= 0x40
	}
	return v | a.openBus()&0x20
}

// WriteRegister implements the bus.Registers interface.
func (a *APU) WriteRegister(address uint16, data uint8) {
	switch {
	case address >= Pulse1 && address < Pulse2:
		a.state.Pulse[0].write(address-Pulse1, data)
	case address >= Pulse2 && address < Triangle:
		a.state.Pulse[1].write(address-Pulse2, data)
	case address >= Triangle && address < Noise:
		a.state.Triangle.write(address-Triangle, data)
	case address >= Noise && address < DMC:
		a.state.Noise.write(address-Noise, data)
	case address >= DMC && address < DMC+4:
		a.state.DMC[address-DMC] = data
	case address == Status:
		a.enable(data)
	case address == FrameCtrl:
		a.state.FiveStep = data&0x80 == 0x80
		a.state.Inhibit = data&0x40 == 0x40
		if a.state.Inhibit {
			a.state.FrameIRQ = false
			a.lines.Clear(cpu.IRQ, cpu.SourceAPUFrame)
		}
		a.state.FrameCycle = 0
		if a.state.FiveStep {
			a.quarterFrame()
			a.halfFrame()
		}
	}
}

func (a *APU) enable(data uint8) {
	a.state.Pulse[0].Enabled = data&0x01 == 0x01
	a.state.Pulse[1].Enabled = data&0x02 == 0x02
	a.state.Triangle.Enabled = data&0x04 == 0x04
	a.state.Noise.Enabled = data&0x08 == 0x08

	if !a.state.Pulse[0].Enabled {
		a.state.Pulse[0].Length.Counter = 0
	}
	if !a.state.Pulse[1].Enabled {
		a.state.Pulse[1].Length.Counter = 0
	}
	if !a.state.Triangle.Enabled {
		a.state.Triangle.Length.Counter = 0
	}
	if !a.state.Noise.Enabled {
		a.state.Noise.Length.Counter = 0
	}
}

func (a *APU) quarterFrame() {
	a.state.Pulse[0].Envelope.tick()
	a.state.Pulse[1].Envelope.tick()
	a.state.Noise.Envelope.tick()
	a.state.Triangle.linear()
}

func (a *APU) halfFrame() {
	a.state.Pulse[0].Length.tick()
	a.state.Pulse[1].Length.tick()
	a.state.Triangle.Length.tick()
	a.state.Noise.Length.tick()
	a.state.Pulse[0].sweep()
	a.state.Pulse[1].sweep()
}

func (a *APU) frameCounter() {
	a.state.FrameCycle++

	switch a.state.FrameCycle {
	case a.sequence[0], a.sequence[2]:
		a.quarterFrame()
	case a.sequence[1]:
		a.quarterFrame()
		a.halfFrame()
	case a.sequence[3]:
		if !a.state.FiveStep {
			a.quarterFrame()
			a.halfFrame()
			if !a.state.Inhibit {
				a.state.FrameIRQ = true
				a.lines.Set(cpu.IRQ, cpu.SourceAPUFrame)
			}
			a.state.FrameCycle = 0
		}
	case a.sequence[4]:
		a.quarterFrame()
		a.halfFrame()
		a.state.FrameCycle = 0
	}
}

// Cycles implements the scheduler.Audio interface. The APU is advanced by
// n CPU cycles.
func (a *APU) Cycles(n int) {
	for range n {
		a.frameCounter()

		a.state.Triangle.clock()
		if a.state.Odd {
			a.state.Pulse[0].clock()
			a.state.Pulse[1].clock()
			a.state.Noise.clock()
		}
		a.state.Odd = !a.state.Odd

		if a.sink == nil {
			continue
		}

		a.state.Pacing += a.sampleRate
		if a.state.Pacing >= a.cpuClock {
			a.state.Pacing -= a.cpuClock
			a.state.Samples++
			a.sink.SetAudio(a.Sample())
		}
	}
}

// Sample returns the current output of the mixer.
func (a *APU) Sample() int16 {
	return toSample(mix(
		a.state.Pulse[0].output(),
		a.state.Pulse[1].output(),
		a.state.Triangle.output(),
		a.state.Noise.output(),
	))
}

// Snapshot returns a copy of the APU. The copy shares the interrupt lines and
// the sink of the original.
func (a *APU) Snapshot() *APU {
	n := *a
	s := *a.state
	n.state = &s
	return &n
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (a *APU) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(a.state); err != nil {
		return nil, fmt.Errorf("apu: %w", err)
	}
	return b.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (a *APU) UnmarshalBinary(data []byte) error {
	s := &state{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(s); err != nil {
		return fmt.Errorf("apu: %w", err)
	}
	a.state = s
	return nil
}
