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

package cpu

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strings"
)

// Line is an interrupt input of the CPU.
type Line int

// List of valid Line values.
const (
	NMI Line = iota
	IRQ
	Reset
)

func (l Line) String() string {
	switch l {
	case NMI:
		return "NMI"
	case IRQ:
		return "IRQ"
	case Reset:
		return "RESET"
	}
	return "unknown line"
}

// Source identifies the device driving a line. The IRQ line is the wired-OR
// of all sources currently driving it.
//
// The first five sources are in the same order as the bits of the SM83
// interrupt flag register.
type Source uint16

// List of interrupt sources.
const (
	SourceVBlank Source = 1 << iota
	SourceLCDStat
	SourceTimer
	SourceSerial
	SourceJoypad
	SourceAPUFrame
	SourceDMC
	SourceMapper
	SourceVDP
	SourcePPU
	SourceButton
)

// SM83Sources is the mask of sources visible in the SM83 interrupt flag
// register.
const SM83Sources = SourceVBlank | SourceLCDStat | SourceTimer | SourceSerial | SourceJoypad

var sourceNames = []string{
	"VBlank", "LCDStat", "Timer", "Serial", "Joypad",
	"APUFrame", "DMC", "Mapper", "VDP", "PPU", "Button",
}

func (s Source) String() string {
	var n []string
	for i, name := range sourceNames {
		if s&(1<<i) != 0 {
			n = append(n, name)
		}
	}
	if len(n) == 0 {
		return "none"
	}
	return strings.Join(n, "|")
}

// Lines holds the state of the interrupt inputs to a CPU core.
//
// NMI is edge triggered: a change from no source to any source latches a
// pending NMI, which remains pending until the core takes it. IRQ is level
// triggered and is asserted for as long as any source drives it. Reset is a
// request that is consumed by the core at its next Step().
type Lines struct {
	nmi        Source
	nmiPending bool
	irq        Source
	reset      bool
}

// NewLines is the preferred method of initialisation for the Lines type.
func NewLines() *Lines {
	return &Lines{}
}

func (l *Lines) String() string {
	return fmt.Sprintf("NMI=%s (pending=%v) IRQ=%s RESET=%v", l.nmi, l.nmiPending, l.irq, l.reset)
}

// Set asserts the line on behalf of the source.
func (l *Lines) Set(line Line, src Source) {
	switch line {
	case NMI:
		if l.nmi == 0 && src != 0 {
			l.nmiPending = true
		}
		l.nmi |= src
	case IRQ:
		l.irq |= src
	case Reset:
		l.reset = true
	}
}

// Clear releases the line on behalf of the source. Clearing the Reset line
// withdraws a request that has not yet been consumed.
func (l *Lines) Clear(line Line, src Source) {
	switch line {
	case NMI:
		l.nmi &^= src
	case IRQ:
		l.irq &^= src
	case Reset:
		l.reset = false
	}
}

// IRQ returns the sources currently driving the IRQ line.
func (l *Lines) IRQ() Source {
	return l.irq
}

// NMIPending returns true if an NMI edge has been latched.
func (l *Lines) NMIPending() bool {
	return l.nmiPending
}

// TakeNMI consumes a pending NMI. Returns true if there was one.
func (l *Lines) TakeNMI() bool {
	p := l.nmiPending
	l.nmiPending = false
	return p
}

// TakeReset consumes a pending reset request. Returns true if there was one.
func (l *Lines) TakeReset() bool {
	r := l.reset
	l.reset = false
	return r
}

// Reset releases every line and forgets any pending NMI or reset request.
func (l *Lines) Reset() {
	*l = Lines{}
}

// Snapshot returns a copy of the lines.
func (l *Lines) Snapshot() *Lines {
	n := *l
	return &n
}

// the serialisable form of the Lines type.
type linesState struct {
	NMI        Source
	NMIPending bool
	IRQ        Source
	Reset      bool
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (l *Lines) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	err := gob.NewEncoder(&b).Encode(linesState{
		NMI:        l.nmi,
		NMIPending: l.nmiPending,
		IRQ:        l.irq,
		Reset:      l.reset,
	})
	if err != nil {
		return nil, fmt.Errorf("cpu: lines: %w", err)
	}
	return b.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (l *Lines) UnmarshalBinary(data []byte) error {
	var s linesState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("cpu: lines: %w", err)
	}
	l.nmi = s.NMI
	l.nmiPending = s.NMIPending
	l.irq = s.IRQ
	l.reset = s.Reset
	return nil
}
