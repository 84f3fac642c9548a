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

// Package coords represents and can work with television coordinates.
//
// Coordinates are a measurement of time from the point of view of the
// television. The unit of the Clock field is the master clock of the
// platform, so coordinates from different platforms are not comparable.
package coords

import (
	"cmp"
	"fmt"

	"github.com/lockstep-emu/lockstep/hardware/television/specification"
)

// FrameIsUndefined is used to indicate that the Frame field of the
// TelevisionCoords struct is to be ignored.
const FrameIsUndefined = -1

// TelevisionCoords represents the state of the TV at any moment in time. The
// Clock field is measured in master clocks from the start of the scanline.
type TelevisionCoords struct {
	Frame    int
	Scanline int
	Clock    int
}

func (c TelevisionCoords) String() string {
	if c.Frame == FrameIsUndefined {
		return fmt.Sprintf("Scanline: %03d  Clock: %04d", c.Scanline, c.Clock)
	}
	return fmt.Sprintf("Frame: %d  Scanline: %03d  Clock: %04d", c.Frame, c.Scanline, c.Clock)
}

// Compare returns -1, 0 or +1 depending on whether c is before, the same as
// or after o. The Frame field is ignored if it is undefined in either value.
func (c TelevisionCoords) Compare(o TelevisionCoords) int {
	if c.Frame != FrameIsUndefined && o.Frame != FrameIsUndefined {
		if r := cmp.Compare(c.Frame, o.Frame); r != 0 {
			return r
		}
	}
	if r := cmp.Compare(c.Scanline, o.Scanline); r != 0 {
		return r
	}
	return cmp.Compare(c.Clock, o.Clock)
}

// Equal is true if Compare() returns zero.
func (c TelevisionCoords) Equal(o TelevisionCoords) bool {
	return c.Compare(o) == 0
}

// Clocks is the number of master clocks from the start of the emulation. If
// the frame is undefined then the count is from the start of the frame.
func (c TelevisionCoords) Clocks(spec specification.Spec) int {
	n := c.Scanline*spec.ClocksPerScanline + c.Clock
	if c.Frame != FrameIsUndefined {
		n += c.Frame * spec.ClocksPerFrame()
	}
	return n
}

// Sub returns the number of master clocks between c and o. The result is
// negative if o is later than c.
func (c TelevisionCoords) Sub(o TelevisionCoords, spec specification.Spec) int {
	if c.Frame == FrameIsUndefined || o.Frame == FrameIsUndefined {
		c.Frame = FrameIsUndefined
		o.Frame = FrameIsUndefined
	}
	return c.Clocks(spec) - o.Clocks(spec)
}
