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

// Package specification contains the timing definitions of the platforms
// supported by the emulation.
//
// All timing is measured in master clocks. The master clock is the fastest
// clock in the console from which the CPU and video clocks are divided. The
// number of master clocks in a scanline is therefore always an integer,
// even when the number of CPU cycles in a scanline is not.
package specification

import (
	"fmt"
	"strings"
)

// Spec is used to define the timing of a platform.
type Spec struct {
	ID string

	// frequency of the master clock in Hz
	MasterClock float64

	// the number of master clocks in one scanline and the number of master
	// clocks in one CPU cycle (or T-state)
	ClocksPerScanline int
	ClocksPerCPUCycle int

	// the number of scanlines in a frame and the number of those scanlines
	// that show the picture
	ScanlinesTotal   int
	ScanlinesVisible int

	// the scanline on which the vertical blank starts and the scanline on
	// which it ends. a value equal to ScanlinesTotal means the vertical blank
	// ends with the frame
	ScanlineVBlank    int
	ScanlineVBlankEnd int

	// the scanline after the vertical blank on which the video chip fetches
	// data as though it was rendering. -1 if there is no such scanline
	ScanlinePreRender int

	// the number of frames per second required by the specification
	FramesPerSecond float32
}

func (spec Spec) String() string {
	return spec.ID
}

// CPUCyclesPerScanline is the number of CPU cycles in a scanline. The value
// is not necessarily a whole number.
func (spec Spec) CPUCyclesPerScanline() float64 {
	return float64(spec.ClocksPerScanline) / float64(spec.ClocksPerCPUCycle)
}

// ClocksPerFrame is the number of master clocks in a frame.
func (spec Spec) ClocksPerFrame() int {
	return spec.ClocksPerScanline * spec.ScanlinesTotal
}

// CPUClock returns the frequency of the CPU in Hz.
func (spec Spec) CPUClock() float64 {
	return spec.MasterClock / float64(spec.ClocksPerCPUCycle)
}

// SpecNESNTSC is the specification for the NTSC NES. The CPU runs at 1/12 of
// the master clock and the PPU at 1/4. There are 341 PPU dots in a scanline.
var SpecNESNTSC = Spec{
	ID:                "NES-NTSC",
	MasterClock:       21477272,
	ClocksPerScanline: 341 * 4,
	ClocksPerCPUCycle: 12,
	ScanlinesTotal:    262,
	ScanlinesVisible:  240,
	ScanlineVBlank:    241,
	ScanlineVBlankEnd: 261,
	ScanlinePreRender: 261,
	FramesPerSecond:   60.0988,
}

// SpecNESPAL is the specification for the PAL NES. The CPU runs at 1/16 of the
// master clock and the PPU at 1/5.
var SpecNESPAL = Spec{
	ID:                "NES-PAL",
	MasterClock:       26601712,
	ClocksPerScanline: 341 * 5,
	ClocksPerCPUCycle: 16,
	ScanlinesTotal:    312,
	ScanlinesVisible:  240,
	ScanlineVBlank:    241,
	ScanlineVBlankEnd: 311,
	ScanlinePreRender: 311,
	FramesPerSecond:   50.007,
}

// SpecSMS is the specification for the NTSC Master System. The Z80 runs at
// 1/15 of the master clock. The VDP outputs 342 pixels per scanline at 1/10
// of the master clock.
var SpecSMS = Spec{
	ID:                "SMS",
	MasterClock:       53693175,
	ClocksPerScanline: 342 * 10,
	ClocksPerCPUCycle: 15,
	ScanlinesTotal:    262,
	ScanlinesVisible:  192,
	ScanlineVBlank:    192,
	ScanlineVBlankEnd: 262,
	ScanlinePreRender: -1,
	FramesPerSecond:   59.922,
}

// SpecDMG is the specification for the original Game Boy. The master clock is
// the dot clock, which is also the rate of SM83 T-states.
var SpecDMG = Spec{
	ID:                "DMG",
	MasterClock:       4194304,
	ClocksPerScanline: 456,
	ClocksPerCPUCycle: 1,
	ScanlinesTotal:    154,
	ScanlinesVisible:  144,
	ScanlineVBlank:    144,
	ScanlineVBlankEnd: 154,
	ScanlinePreRender: -1,
	FramesPerSecond:   59.7275,
}

// SpecList is the list of specifications that the television may adopt.
var SpecList = []Spec{SpecNESNTSC, SpecNESPAL, SpecSMS, SpecDMG}

// SearchSpec returns the specification with the ID. The search is case
// insensitive. "NES" is accepted as an alternative for "NES-NTSC".
func SearchSpec(id string) (Spec, error) {
	if strings.EqualFold(id, "NES") {
		return SpecNESNTSC, nil
	}
	for _, s := range SpecList {
		if strings.EqualFold(s.ID, id) {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("specification: unknown specification %q", id)
}
