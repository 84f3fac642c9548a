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

package television_test

import (
	"errors"
	"testing"

	"github.com/lockstep-emu/lockstep/hardware/television"
	"github.com/lockstep-emu/lockstep/test"
)

func TestNewTelevision(t *testing.T) {
	for _, spec := range []string{"NES-NTSC", "NES-PAL", "SMS", "DMG"} {
		tv, err := television.NewTelevision(spec)
		test.ExpectSuccess(t, err, spec)
		test.ExpectEquality(t, tv.Spec().ID, spec)
	}

	tv, err := television.NewTelevision("FOO")
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, tv == nil)
}

type frames struct {
	count int
	err   error
}

func (f *frames) NewFrame(frameNum int) error {
	f.count = frameNum
	return f.err
}

func TestFrame(t *testing.T) {
	tv, err := television.NewTelevision("NES-NTSC")
	test.DemandSuccess(t, err)

	f := &frames{}
	tv.AddFrameTrigger(f)

	var vblankStart, vblankEnd, rendered int
	for range 262 {
		tv.Advance(1364)
		ev, err := tv.StepScanline()
		test.DemandSuccess(t, err)

		if ev.VBlankStart {
			vblankStart++
			test.ExpectEquality(t, ev.Scanline, 240)
			test.ExpectSuccess(t, tv.State().VBlank)
		}
		if ev.VBlankEnd {
			vblankEnd++
			test.ExpectEquality(t, ev.Scanline, 260)
			test.ExpectFailure(t, tv.State().VBlank)
		}
		if ev.Rendered {
			rendered++
		}
	}

	test.ExpectEquality(t, vblankStart, 1)
	test.ExpectEquality(t, vblankEnd, 1)
	test.ExpectEquality(t, rendered, 241)
	test.ExpectEquality(t, tv.State().Frame, 1)
	test.ExpectEquality(t, tv.State().Scanline, 0)
	test.ExpectEquality(t, f.count, 1)
	test.ExpectEquality(t, tv.Position(), uint64(262*1364))
}

func TestVBlankToEndOfFrame(t *testing.T) {
	tv, err := television.NewTelevision("DMG")
	test.DemandSuccess(t, err)

	for range 144 {
		_, _ = tv.StepScanline()
	}
	test.ExpectSuccess(t, tv.State().VBlank)

	for range 9 {
		_, _ = tv.StepScanline()
	}
	test.ExpectSuccess(t, tv.State().VBlank)

	ev, err := tv.StepScanline()
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, ev.NewFrame)
	test.ExpectSuccess(t, ev.VBlankEnd)
	test.ExpectFailure(t, tv.State().VBlank)
}

func TestOvershoot(t *testing.T) {
	tv, err := television.NewTelevision("SMS")
	test.DemandSuccess(t, err)

	tv.Advance(3420 + 45)
	_, err = tv.StepScanline()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, tv.State().Clock, 45)
	test.ExpectEquality(t, tv.Coords().Scanline, 1)
}

func TestFrameTriggerError(t *testing.T) {
	tv, err := television.NewTelevision("DMG")
	test.DemandSuccess(t, err)

	errFrame := errors.New("frame")
	tv.AddFrameTrigger(&frames{err: errFrame})

	for range 153 {
		_, _ = tv.StepScanline()
	}
	_, err = tv.StepScanline()
	test.ExpectSuccess(t, errors.Is(err, errFrame))
}

func TestSerialisation(t *testing.T) {
	tv, err := television.NewTelevision("DMG")
	test.DemandSuccess(t, err)
	tv.Advance(100)
	for range 150 {
		_, _ = tv.StepScanline()
	}

	data, err := tv.MarshalBinary()
	test.DemandSuccess(t, err)

	tv2, _ := television.NewTelevision("DMG")
	test.DemandSuccess(t, tv2.UnmarshalBinary(data))
	test.ExpectEquality(t, tv2.State(), tv.State())
}
