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

package performance

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/lockstep-emu/lockstep/hardware"
	"github.com/lockstep-emu/lockstep/hardware/memory/cartridge"
	"github.com/lockstep-emu/lockstep/hardware/television/specification"
	"github.com/lockstep-emu/lockstep/test"
)

func TestCalcFPS(t *testing.T) {
	fps, accuracy := CalcFPS(specification.SpecDMG, 0, 0)
	test.ExpectEquality(t, fps, 0.0)
	test.ExpectEquality(t, accuracy, 0.0)

	fps, accuracy = CalcFPS(specification.SpecNESPAL, 500, 10)
	test.ExpectApproximate(t, fps, 50.0, 0.001)
	test.ExpectApproximate(t, accuracy, 100.0, 0.1)

	fps, accuracy = CalcFPS(specification.SpecNESPAL, 250, 10)
	test.ExpectApproximate(t, fps, 25.0, 0.001)
	test.ExpectApproximate(t, accuracy, 50.0, 0.1)
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfileString("")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, ProfileNone)

	p, err = ParseProfileString("cpu, trace")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, ProfileCPU|ProfileTrace)
	test.ExpectEquality(t, p.String(), "CPU,TRACE")

	p, err = ParseProfileString("all")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, ProfileCPU|ProfileMem|ProfileTrace)

	_, err = ParseProfileString("cpu,disk")
	test.ExpectFailure(t, err)
}

func TestRunProfilerNone(t *testing.T) {
	var ran bool
	err := RunProfiler(ProfileNone, t.TempDir(), func() error {
		ran = true
		return nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ran, true)
}

func TestCheck(t *testing.T) {
	leadTime = 0
	defer func() { leadTime = 2 * time.Second }()

	prg := make([]byte, 0x4000)
	copy(prg, []byte{0x4c, 0x00, 0x80}) // JMP $8000
	copy(prg[0x3ffa:], []byte{0x00, 0x80, 0x00, 0x80, 0x00, 0x80})
	data := append([]byte{'N', 'E', 'S', 0x1a, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, prg...)
	img, err := cartridge.NewImage(data, "")
	test.DemandSuccess(t, err)

	con, err := hardware.NewConsole(nil, hardware.PlatformNES, img)
	test.DemandSuccess(t, err)

	var out strings.Builder
	err = Check(&out, ProfileNone, con, false, "10ms")
	test.ExpectSuccess(t, err)

	match := regexp.MustCompile(`^[0-9.]+ fps \([0-9]+ frames in 0\.01 seconds\) [0-9.]+%\n$`)
	test.ExpectEquality(t, match.MatchString(out.String()), true, out.String())

	test.ExpectFailure(t, Check(&out, ProfileNone, con, false, "soon"))
	test.ExpectFailure(t, Check(&out, ProfileNone, con, false, "0s"))
}
