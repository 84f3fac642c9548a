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

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

var triangleTable = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

var noiseTable = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// the length counter silences a channel after a number of half frames.
type length struct {
	Counter uint8
	Halt    bool
}

func (l *length) load(v uint8) {
	l.Counter = lengthTable[v>>3]
}

func (l *length) tick() {
	if !l.Halt && l.Counter > 0 {
		l.Counter--
	}
}

// the envelope generator produces a decaying volume or a constant volume.
type envelope struct {
	Start    bool
	Loop     bool
	Constant bool
	Volume   uint8
	Divider  uint8
	Decay    uint8
}

func (e *envelope) write(v uint8) {
	e.Loop = v&0x20 == 0x20
	e.Constant = v&0x10 == 0x10
	e.Volume = v & 0x0f
}

func (e *envelope) tick() {
	if e.Start {
		e.Start = false
		e.Decay = 15
		e.Divider = e.Volume
		return
	}
	if e.Divider > 0 {
		e.Divider--
		return
	}
	e.Divider = e.Volume
	if e.Decay > 0 {
		e.Decay--
	} else if e.Loop {
		e.Decay = 15
	}
}

func (e *envelope) output() uint8 {
	if e.Constant {
		return e.Volume
	}
	return e.Decay
}

type pulse struct {
	// pulse 1 negates with ones' complement, pulse 2 with two's complement
	OnesComplement bool

	Enabled  bool
	Duty     uint8
	Step     uint8
	Period   uint16
	Timer    uint16
	Length   length
	Envelope envelope

	SweepEnabled bool
	SweepPeriod  uint8
	SweepNegate  bool
	SweepShift   uint8
	SweepDivider uint8
	SweepReload  bool
}

func (p *pulse) write(reg uint16, v uint8) {
	switch reg {
	case 0:
		p.Duty = v >> 6
		p.Length.Halt = v&0x20 == 0x20
		p.Envelope.write(v)
	case 1:
		p.SweepEnabled = v&0x80 == 0x80
		p.SweepPeriod = (v >> 4) & 0x07
		p.SweepNegate = v&0x08 == 0x08
		p.SweepShift = v & 0x07
		p.SweepReload = true
	case 2:
		p.Period = p.Period&0x0700 | uint16(v)
	case 3:
		p.Period = p.Period&0x00ff | uint16(v&0x07)<<8
		if p.Enabled {
			p.Length.load(v)
		}
		p.Step = 0
		p.Envelope.Start = true
	}
}

func (p *pulse) target() uint16 {
	change := p.Period >> p.SweepShift
	if p.SweepNegate {
		if p.OnesComplement {
			return p.Period - change - 1
		}
		return p.Period - change
	}
	return p.Period + change
}

func (p *pulse) muted() bool {
	return p.Period < 8 || (!p.SweepNegate && p.target() > 0x7ff)
}

// clocked every APU cycle (every other CPU cycle).
func (p *pulse) clock() {
	if p.Timer == 0 {
		p.Timer = p.Period
		p.Step = (p.Step + 1) & 0x07
	} else {
		p.Timer--
	}
}

func (p *pulse) sweep() {
	if p.SweepDivider == 0 && p.SweepEnabled && p.SweepShift > 0 && !p.muted() {
		p.Period = p.target()
	}
	if p.SweepDivider == 0 || p.SweepReload {
		p.SweepDivider = p.SweepPeriod
		p.SweepReload = false
	} else {
		p.SweepDivider--
	}
}

func (p *pulse) output() uint8 {
	if !p.Enabled || p.Length.Counter == 0 || p.muted() || dutyTable[p.Duty][p.Step] == 0 {
		return 0
	}
	return p.Envelope.output()
}

type triangle struct {
	Enabled bool
	Period  uint16
	Timer   uint16
	Step    uint8
	Length  length

	LinearReload  uint8
	Linear        uint8
	LinearControl bool
	LinearStart   bool
}

func (t *triangle) write(reg uint16, v uint8) {
	switch reg {
	case 0:
		t.LinearControl = v&0x80 == 0x80
		t.Length.Halt = t.LinearControl
		t.LinearReload = v & 0x7f
	case 2:
		t.Period = t.Period&0x0700 | uint16(v)
	case 3:
		t.Period = t.Period&0x00ff | uint16(v&0x07)<<8
		if t.Enabled {
			t.Length.load(v)
		}
		t.LinearStart = true
	}
}

// clocked every CPU cycle.
func (t *triangle) clock() {
	if t.Timer == 0 {
		t.Timer = t.Period
		if t.Length.Counter > 0 && t.Linear > 0 {
			t.Step = (t.Step + 1) & 0x1f
		}
	} else {
		t.Timer--
	}
}

func (t *triangle) linear() {
	if t.LinearStart {
		t.Linear = t.LinearReload
	} else if t.Linear > 0 {
		t.Linear--
	}
	if !t.LinearControl {
		t.LinearStart = false
	}
}

func (t *triangle) output() uint8 {
	// very low periods are ultrasonic. output the mid point rather than
	// aliasing
	if t.Period < 2 {
		return 7
	}
	return triangleTable[t.Step]
}

type noise struct {
	Enabled  bool
	Mode     bool
	Period   uint16
	Timer    uint16
	Shift    uint16
	Length   length
	Envelope envelope
}

func (n *noise) write(reg uint16, v uint8) {
	switch reg {
	case 0:
		n.Length.Halt = v&0x20 == 0x20
		n.Envelope.write(v)
	case 2:
		n.Mode = v&0x80 == 0x80
		n.Period = noiseTable[v&0x0f]
	case 3:
		if n.Enabled {
			n.Length.load(v)
		}
		n.Envelope.Start = true
	}
}

// clocked every APU cycle.
func (n *noise) clock() {
	if n.Timer > 0 {
		n.Timer--
		return
	}
	n.Timer = n.Period

	tap := uint16(1)
	if n.Mode {
		tap = 6
	}
	feedback := (n.Shift ^ n.Shift>>tap) & 0x01
	n.Shift = n.Shift>>1 | feedback<<14
}

func (n *noise) output() uint8 {
	if !n.Enabled || n.Length.Counter == 0 || n.Shift&0x01 == 0x01 {
		return 0
	}
	return n.Envelope.output()
}
