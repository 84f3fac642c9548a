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

package apu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockstep-emu/lockstep/hardware/apu"
	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
	"github.com/lockstep-emu/lockstep/hardware/television/specification"
)

type sink struct {
	samples []int16
}

func (s *sink) SetAudio(sample int16) {
	s.samples = append(s.samples, sample)
}

func newAPU() (*apu.APU, *cpu.Lines) {
	l := cpu.NewLines()
	return apu.NewAPU(nil, l, specification.SpecNESNTSC), l
}

func TestLengthCounter(t *testing.T) {
	a, _ := newAPU()

	// length is not loaded while the channel is disabled
	a.WriteRegister(apu.Pulse1+3, 0x08)
	assert.Equal(t, uint8(0x00), a.PeekRegister(apu.Status)&0x0f)

	a.WriteRegister(apu.Status, 0x0f)
	a.WriteRegister(apu.Pulse1+3, 0x08)
	a.WriteRegister(apu.Pulse2+3, 0x08)
	a.WriteRegister(apu.Triangle+3, 0x08)
	a.WriteRegister(apu.Noise+3, 0x08)
	assert.Equal(t, uint8(0x0f), a.PeekRegister(apu.Status)&0x0f)

	// disabling a channel clears its length counter
	a.WriteRegister(apu.Status, 0x0a)
	assert.Equal(t, uint8(0x0a), a.PeekRegister(apu.Status)&0x0f)
}

func TestLengthExpiry(t *testing.T) {
	a, _ := newAPU()
	a.WriteRegister(apu.Status, 0x01)

	// length index 0 is 10 half frames. two half frames per 4-step sequence
	a.WriteRegister(apu.Pulse1+3, 0x00)
	a.Cycles(14915 * 4)
	assert.Equal(t, uint8(0x01), a.PeekRegister(apu.Status)&0x01)
	a.Cycles(14915)
	assert.Equal(t, uint8(0x00), a.PeekRegister(apu.Status)&0x01)

	// halted counters never expire
	a.WriteRegister(apu.Pulse1, 0x20)
	a.WriteRegister(apu.Pulse1+3, 0x00)
	a.Cycles(14915 * 10)
	assert.Equal(t, uint8(0x01), a.PeekRegister(apu.Status)&0x01)
}

func TestFrameIRQ(t *testing.T) {
	a, l := newAPU()

	a.Cycles(14914)
	assert.Equal(t, cpu.Source(0), l.IRQ())

	a.Cycles(1)
	assert.Equal(t, cpu.SourceAPUFrame, l.IRQ())
	assert.Equal(t, uint8(0x40), a.PeekRegister(apu.Status)&0x40)

	// reading the status acknowledges the interrupt
	assert.Equal(t, uint8(0x40), a.ReadRegister(apu.Status)&0x40)
	assert.Equal(t, cpu.Source(0), l.IRQ())
	assert.Equal(t, uint8(0x00), a.ReadRegister(apu.Status)&0x40)

	// the sequence repeats
	a.Cycles(14915)
	assert.Equal(t, cpu.SourceAPUFrame, l.IRQ())
}

func TestInhibit(t *testing.T) {
	a, l := newAPU()

	a.Cycles(14915)
	require.Equal(t, cpu.SourceAPUFrame, l.IRQ())

	// setting the inhibit flag clears a pending interrupt
	a.WriteRegister(apu.FrameCtrl, 0x40)
	assert.Equal(t, cpu.Source(0), l.IRQ())

	a.Cycles(14915 * 3)
	assert.Equal(t, cpu.Source(0), l.IRQ())
}

func TestFiveStep(t *testing.T) {
	a, l := newAPU()
	a.WriteRegister(apu.Status, 0x01)
	a.WriteRegister(apu.Pulse1+3, 0x18)

	// five step mode generates no interrupts and clocks the length counter
	// immediately. length index 3 is 2 half frames
	a.WriteRegister(apu.FrameCtrl, 0x80)
	assert.Equal(t, uint8(0x01), a.PeekRegister(apu.Status)&0x01)

	a.Cycles(7457)
	assert.Equal(t, uint8(0x00), a.PeekRegister(apu.Status)&0x01)

	a.Cycles(18641 * 3)
	assert.Equal(t, cpu.Source(0), l.IRQ())
}

func TestSampleRate(t *testing.T) {
	a, _ := newAPU()
	s := &sink{}
	a.SetSink(s)

	a.Cycles(int(specification.SpecNESNTSC.CPUClock()))
	assert.InDelta(t, apu.DefaultSampleRate, len(s.samples), 1)
	assert.Equal(t, uint64(len(s.samples)), a.Samples())
	assert.Equal(t, apu.DefaultSampleRate, a.SampleRate())

	// clocked without a sink
	a.SetSink(nil)
	a.Cycles(1000)
	assert.Equal(t, uint64(len(s.samples)), a.Samples())
}

func TestSilence(t *testing.T) {
	a, _ := newAPU()
	s := &sink{}
	a.SetSink(s)

	a.Cycles(10000)
	require.NotEmpty(t, s.samples)
	for _, v := range s.samples {
		assert.Equal(t, s.samples[0], v)
	}
}

func TestPulse(t *testing.T) {
	a, _ := newAPU()
	s := &sink{}
	a.SetSink(s)

	// 50% duty, constant volume 15, period 200
	a.WriteRegister(apu.Status, 0x01)
	a.WriteRegister(apu.Pulse1, 0xbf)
	a.WriteRegister(apu.Pulse1+2, 200)
	a.WriteRegister(apu.Pulse1+3, 0x08)

	a.Cycles(20000)

	low := s.samples[0]
	for _, v := range s.samples {
		low = min(low, v)
	}

	var lo, hi int
	for _, v := range s.samples {
		if v > low {
			hi++
		} else {
			lo++
		}
	}
	assert.Positive(t, hi)
	assert.Positive(t, lo)
}

func TestSweepMute(t *testing.T) {
	a, _ := newAPU()
	s := &sink{}
	a.SetSink(s)

	// a period of less than 8 silences the channel
	a.WriteRegister(apu.Status, 0x01)
	a.WriteRegister(apu.Pulse1, 0xbf)
	a.WriteRegister(apu.Pulse1+2, 5)
	a.WriteRegister(apu.Pulse1+3, 0x08)

	a.Cycles(5000)
	for _, v := range s.samples {
		assert.Equal(t, s.samples[0], v)
	}
}

func TestInstall(t *testing.T) {
	a, l := newAPU()
	b := bus.NewBus(nil)
	require.NoError(t, a.Install(b))
	assert.Len(t, b.Mappings(), 3)

	// write-only registers return the open bus value
	b.Write(apu.Pulse1, 0x5a)
	assert.Equal(t, uint8(0x5a), b.Read(apu.Pulse1+1))

	b.Write(apu.Status, 0x01)
	b.Write(apu.Pulse1+3, 0x08)
	assert.Equal(t, uint8(0x01), b.Read(apu.Status)&0x01)

	a.Cycles(14915)
	v, err := b.Peek(apu.Status)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x40), v&0x40)
	assert.Equal(t, cpu.SourceAPUFrame, l.IRQ())
}

func TestSerialisation(t *testing.T) {
	a, _ := newAPU()
	a.WriteRegister(apu.Status, 0x0f)
	a.WriteRegister(apu.Pulse1, 0xbf)
	a.WriteRegister(apu.Pulse1+2, 200)
	a.WriteRegister(apu.Pulse1+3, 0x08)
	a.Cycles(12345)

	data, err := a.MarshalBinary()
	require.NoError(t, err)

	b, _ := newAPU()
	require.NoError(t, b.UnmarshalBinary(data))
	assert.Equal(t, a.String(), b.String())

	// both produce the same output from here on
	sa := &sink{}
	sb := &sink{}
	a.SetSink(sa)
	b.SetSink(sb)
	a.Cycles(5000)
	b.Cycles(5000)
	assert.Equal(t, sa.samples, sb.samples)

	s := a.Snapshot()
	a.WriteRegister(apu.Status, 0x00)
	assert.NotEqual(t, a.PeekRegister(apu.Status), s.PeekRegister(apu.Status))
}
