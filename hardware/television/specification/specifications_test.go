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

package specification_test

import (
	"testing"

	"github.com/lockstep-emu/lockstep/hardware/television/specification"
	"github.com/lockstep-emu/lockstep/test"
)

func TestSearch(t *testing.T) {
	s, err := specification.SearchSpec("nes-ntsc")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s.ID, "NES-NTSC")

	s, err = specification.SearchSpec("NES")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s.ID, "NES-NTSC")

	_, err = specification.SearchSpec("FOO")
	test.ExpectFailure(t, err)
}

func TestCycles(t *testing.T) {
	// the NTSC NES has a fractional number of CPU cycles per scanline
	test.ExpectApproximate(t, specification.SpecNESNTSC.CPUCyclesPerScanline(), 113.667, 0.001)
	test.ExpectEquality(t, specification.SpecSMS.CPUCyclesPerScanline(), 228.0)
	test.ExpectEquality(t, specification.SpecDMG.ClocksPerFrame(), 70224)
	test.ExpectApproximate(t, specification.SpecNESNTSC.CPUClock(), 1789772.667, 0.001)
}
