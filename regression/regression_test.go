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

package regression

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lockstep-emu/lockstep/test"
	"github.com/stretchr/testify/require"
)

// writes an NROM cartridge that enables the first pulse channel and then
// loops forever incrementing a zero page counter.
func cartridgeFile(t *testing.T) string {
	t.Helper()

	prg := make([]byte, 0x4000)
	copy(prg, []byte{
		0xa9, 0x01, // LDA #$01
		0x8d, 0x15, 0x40, // STA $4015
		0xa9, 0xbf, // LDA #$bf
		0x8d, 0x00, 0x40, // STA $4000
		0xa9, 0x80, // LDA #$80
		0x8d, 0x02, 0x40, // STA $4002
		0xa9, 0x08, // LDA #$08
		0x8d, 0x03, 0x40, // STA $4003
		0xe6, 0x00, // INC $00
		0x4c, 0x14, 0x80, // JMP $8014
	})
	copy(prg[0x3ffa:], []byte{0x00, 0x80, 0x00, 0x80, 0x00, 0x80})
	data := append([]byte{'N', 'E', 'S', 0x1a, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, prg...)

	fn := filepath.Join(t.TempDir(), "tone.nes")
	test.DemandSuccess(t, os.WriteFile(fn, data, 0o644))
	return fn
}

func TestDigestMode(t *testing.T) {
	for _, m := range []DigestMode{DigestStateOnly, DigestAudioOnly, DigestBoth} {
		p, err := ParseDigestMode(strings.ToUpper(m.String()))
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, p, m)
	}

	_, err := ParseDigestMode("video")
	test.ExpectFailure(t, err)

	_, err = NewDigestRegression("a.nes", "", DigestUndefined, 10, "")
	test.ExpectFailure(t, err)
	_, err = NewDigestRegression("a.nes", "", DigestBoth, 0, "")
	test.ExpectFailure(t, err)

	reg, err := NewDigestRegression("a.nes", "", DigestBoth, 10, "one, two\nthree")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, reg.Notes, "one; two three")
}

func TestSerialise(t *testing.T) {
	reg, err := NewDigestRegression("a.nes", "NES", DigestStateOnly, 10, "notes")
	require.NoError(t, err)
	reg.stateDigest = "abcd"

	fields, err := reg.Serialise()
	require.NoError(t, err)
	test.ExpectEquality(t, len(fields), numDigestFields)

	ent, err := deserialiseDigestEntry(fields)
	require.NoError(t, err)
	test.ExpectEquality(t, *ent.(*DigestRegression), *reg)

	_, err = deserialiseDigestEntry(fields[1:])
	test.ExpectFailure(t, err)

	fields[digestFieldNumFrames] = "ten"
	_, err = deserialiseDigestEntry(fields)
	test.ExpectFailure(t, err)
}

func TestRegress(t *testing.T) {
	cart := cartridgeFile(t)

	reg, err := NewDigestRegression(cart, "", DigestBoth, 5, "")
	require.NoError(t, err)

	ok, _, err := reg.regress(true)
	require.NoError(t, err)
	test.ExpectEquality(t, ok, true)
	test.ExpectEquality(t, reg.Platform, "NES-NTSC")
	test.ExpectEquality(t, len(reg.stateDigest), 40)
	test.ExpectEquality(t, len(reg.audioDigest), 40)

	ok, fail, err := reg.regress(false)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ok, true)
	test.ExpectEquality(t, fail, "")

	reg.audioDigest = strings.Repeat("0", 40)
	ok, fail, err = reg.regress(false)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ok, false)
	test.ExpectEquality(t, fail, "audio digest mismatch")

	reg.stateDigest = strings.Repeat("0", 40)
	_, fail, _ = reg.regress(false)
	test.ExpectEquality(t, fail, "state digest mismatch")

	missing, err := NewDigestRegression(filepath.Join(t.TempDir(), "missing.nes"), "", DigestStateOnly, 5, "")
	require.NoError(t, err)
	_, _, err = missing.regress(false)
	test.ExpectFailure(t, err)
}

func TestDatabase(t *testing.T) {
	cart := cartridgeFile(t)
	dbPath := filepath.Join(t.TempDir(), "regress", "regressionDB")

	var out strings.Builder
	test.DemandSuccess(t, RegressList(&out, dbPath))
	test.ExpectEquality(t, out.String(), "database is empty\n")

	for _, mode := range []DigestMode{DigestStateOnly, DigestAudioOnly} {
		reg, err := NewDigestRegression(cart, "", mode, 3, "")
		require.NoError(t, err)
		test.DemandSuccess(t, RegressAdd(&out, dbPath, reg))
	}

	out.Reset()
	test.DemandSuccess(t, RegressList(&out, dbPath))
	s := out.String()
	test.ExpectEquality(t, strings.Contains(s, "000 [state] "), true, s)
	test.ExpectEquality(t, strings.Contains(s, "001 [audio] "), true, s)
	test.ExpectEquality(t, strings.HasSuffix(s, "Total: 2\n"), true, s)

	out.Reset()
	test.DemandSuccess(t, RegressRun(&out, dbPath, false, nil))
	s = out.String()
	test.ExpectEquality(t, strings.HasSuffix(s, "regression tests: 2 succeed, 0 fail\n"), true, s)

	out.Reset()
	test.DemandSuccess(t, RegressRun(&out, dbPath, false, []string{"1"}))
	s = out.String()
	test.ExpectEquality(t, strings.HasSuffix(s, "regression tests: 1 succeed, 0 fail\n"), true, s)

	test.ExpectFailure(t, RegressRun(&out, dbPath, false, []string{"x"}))

	// declining the deletion leaves the database unchanged
	out.Reset()
	test.DemandSuccess(t, RegressDelete(&out, strings.NewReader("n"), dbPath, "0"))
	test.DemandSuccess(t, RegressDelete(&out, strings.NewReader("y"), dbPath, "1"))
	test.ExpectEquality(t, strings.Contains(out.String(), "deleted test #001"), true)
	test.ExpectFailure(t, RegressDelete(&out, strings.NewReader("y"), dbPath, "1"))

	out.Reset()
	test.DemandSuccess(t, RegressList(&out, dbPath))
	test.ExpectEquality(t, strings.HasSuffix(out.String(), "Total: 1\n"), true)

	// the cartridge is gone. the test is counted as an error
	test.DemandSuccess(t, os.Remove(cart))
	out.Reset()
	err := RegressRun(&out, dbPath, true, nil)
	test.ExpectEquality(t, err, ErrFailed)
	s = out.String()
	test.ExpectEquality(t, strings.HasSuffix(s, "regression tests: 0 succeed, 0 fail [1 with errors]\n"), true, s)
}
