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

// Package television is the video timing unit of the emulation. It does not
// present any information, either visually or sonically. It only keeps track
// of the position of the beam: the frame, the scanline and the number of
// master clocks since the start of the scanline.
//
// The television is advanced by the scheduler. Advance() is called after
// every CPU instruction with the number of master clocks consumed and
// StepScanline() is called at the end of every quantum. The video chips
// learn about the vertical blank through the Event returned by
// StepScanline().
package television

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/lockstep-emu/lockstep/hardware/television/coords"
	"github.com/lockstep-emu/lockstep/hardware/television/specification"
)

// FrameTrigger implementations listen for NewFrame events.
type FrameTrigger interface {
	NewFrame(frameNum int) error
}

// State is the timing state of the television.
type State struct {
	Frame    int
	Scanline int

	// master clocks since the start of the scanline. may be greater than
	// the number of clocks in a scanline if the CPU overshot the end of
	// the scanline
	Clock int

	VBlank bool

	// master clocks since the console was reset. the scheduler keeps this
	// in step with its own clock counter
	Total uint64
}

// Event describes what happened when a scanline was completed.
type Event struct {
	// the scanline that was completed
	Scanline int

	// the completed scanline was a scanline on which the video chip fetches
	// data. either a visible scanline or the pre-render scanline
	Rendered bool

	VBlankStart bool
	VBlankEnd   bool
	NewFrame    bool
}

// Television is the timing source of a console.
type Television struct {
	spec  specification.Spec
	state State

	frameTriggers []FrameTrigger
}

// NewTelevision creates a new instance of the television type, satisfying the
// Television interface.
func NewTelevision(spec string) (*Television, error) {
	s, err := specification.SearchSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("television: %w", err)
	}
	return &Television{spec: s}, nil
}

func (tv *Television) String() string {
	return fmt.Sprintf("%s %s", tv.spec.ID, tv.Coords())
}

// Spec returns the specification of the television.
func (tv *Television) Spec() specification.Spec {
	return tv.spec
}

// AddFrameTrigger registers an (additional) implementation of FrameTrigger.
func (tv *Television) AddFrameTrigger(f FrameTrigger) {
	tv.frameTriggers = append(tv.frameTriggers, f)
}

// Reset the television to the start of the first frame.
func (tv *Television) Reset() {
	tv.state = State{}
}

// SetTotal sets the number of master clocks the television has seen. The beam
// position is not changed.
func (tv *Television) SetTotal(clocks uint64) {
	tv.state.Total = clocks
}

// State returns a copy of the timing state.
func (tv *Television) State() State {
	return tv.state
}

// Coords returns the current position of the beam.
func (tv *Television) Coords() coords.TelevisionCoords {
	return coords.TelevisionCoords{
		Frame:    tv.state.Frame,
		Scanline: tv.state.Scanline,
		Clock:    tv.state.Clock,
	}
}

// Position implements the random.Beam interface.
func (tv *Television) Position() uint64 {
	return tv.state.Total
}

// Advance moves the beam along the current scanline.
func (tv *Television) Advance(clocks int) {
	tv.state.Clock += clocks
	tv.state.Total += uint64(clocks)
}

// StepScanline completes the current scanline. Any clocks beyond the end of
// the scanline are carried into the next scanline.
func (tv *Television) StepScanline() (Event, error) {
	ev := Event{
		Scanline: tv.state.Scanline,
		Rendered: tv.state.Scanline < tv.spec.ScanlinesVisible || tv.state.Scanline == tv.spec.ScanlinePreRender,
	}

	tv.state.Clock = max(0, tv.state.Clock-tv.spec.ClocksPerScanline)
	tv.state.Scanline++

	if tv.state.Scanline == tv.spec.ScanlineVBlank {
		tv.state.VBlank = true
		ev.VBlankStart = true
	}

	if tv.state.Scanline == tv.spec.ScanlineVBlankEnd && tv.state.VBlank {
		tv.state.VBlank = false
		ev.VBlankEnd = true
	}

	if tv.state.Scanline >= tv.spec.ScanlinesTotal {
		tv.state.Scanline = 0
		tv.state.Frame++
		ev.NewFrame = true

		if tv.state.VBlank {
			tv.state.VBlank = false
			ev.VBlankEnd = true
		}

		for _, f := range tv.frameTriggers {
			if err := f.NewFrame(tv.state.Frame); err != nil {
				return ev, fmt.Errorf("television: %w", err)
			}
		}
	}

	return ev, nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (tv *Television) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(tv.state); err != nil {
		return nil, fmt.Errorf("television: %w", err)
	}
	return b.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (tv *Television) UnmarshalBinary(data []byte) error {
	var s State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("television: %w", err)
	}
	tv.state = s
	return nil
}
