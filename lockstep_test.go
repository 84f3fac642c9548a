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

package main

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/lockstep-emu/lockstep/test"
)

// writes an NROM cartridge with battery backed RAM to a temporary file. the
// program increments the first byte of cartridge RAM forever.
func cartridgeFile(t *testing.T) string {
	t.Helper()

	prg := make([]byte, 0x4000)
	copy(prg, []byte{
		0xee, 0x00, 0x60, // INC $6000
		0x4c, 0x00, 0x80, // JMP $8000
	})
	copy(prg[0x3ffa:], []byte{0x00, 0x80, 0x00, 0x80, 0x00, 0x80})
	data := append([]byte{'N', 'E', 'S', 0x1a, 1, 0, 0x02, 0, 0, 0, 0, 0, 0, 0, 0, 0}, prg...)

	fn := filepath.Join(t.TempDir(), "counter.nes")
	test.DemandSuccess(t, os.WriteFile(fn, data, 0o644))
	return fn
}

func TestHelp(t *testing.T) {
	var out strings.Builder
	test.ExpectEquality(t, launch([]string{"-help"}, &out, nil, nil), exitOK)
	test.ExpectEquality(t, strings.Contains(out.String(), "RUN, STEP, INFO, STATE, PERFORMANCE, REGRESS"), true)
}

func TestMissingCartridge(t *testing.T) {
	var out strings.Builder
	test.ExpectEquality(t, launch([]string{"RUN"}, &out, nil, nil), exitModeError)
	test.ExpectEquality(t, out.String(), "* error in RUN mode: cartridge required for RUN mode\n")

	out.Reset()
	test.ExpectEquality(t, launch([]string{"INFO", "a.nes", "b.nes"}, &out, nil, nil), exitModeError)
}

func TestInfo(t *testing.T) {
	var out strings.Builder
	test.ExpectEquality(t, launch([]string{"INFO", cartridgeFile(t)}, &out, nil, nil), exitOK)

	s := out.String()
	test.ExpectEquality(t, strings.Contains(s, "name:     counter\n"), true, s)
	test.ExpectEquality(t, strings.Contains(s, "platform: NES\n"), true, s)
	test.ExpectEquality(t, strings.Contains(s, "prg ram:  8K\n"), true, s)
	test.ExpectEquality(t, strings.Contains(s, "battery"), true, s)
}

func TestRun(t *testing.T) {
	cart := cartridgeFile(t)
	dir := t.TempDir()
	battery := filepath.Join(dir, "counter.sav")
	state := filepath.Join(dir, "counter.state")
	wav := filepath.Join(dir, "counter.wav")

	var out strings.Builder
	code := launch([]string{"RUN", "-frames", "3", "-battery", battery, "-save", state, "-wav", wav, cart}, &out, nil, nil)
	test.ExpectEquality(t, code, exitOK, out.String())
	test.ExpectEquality(t, out.String(), "3 frames\n")

	d, err := os.ReadFile(battery)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(d), 0x2000)
	test.ExpectInequality(t, d[0], uint8(0))

	_, err = os.Stat(wav)
	test.ExpectSuccess(t, err)

	// restoring the state continues from the third frame
	out.Reset()
	code = launch([]string{"RUN", "-frames", "2", "-load", state, cart}, &out, nil, nil)
	test.ExpectEquality(t, code, exitOK, out.String())
	test.ExpectEquality(t, out.String(), "5 frames\n")

	// a state from a different platform is rejected
	out.Reset()
	code = launch([]string{"RUN", "-frames", "2", "-platform", "NES-PAL", "-load", state, cart}, &out, nil, nil)
	test.ExpectEquality(t, code, exitModeError)
}

func TestRunScript(t *testing.T) {
	cart := cartridgeFile(t)
	lua := filepath.Join(t.TempDir(), "script.lua")
	err := os.WriteFile(lua, []byte(`
		console.poke(0x6000, 0)
		console.run_frames(1)
		assert(console.peek(0x6000) ~= 0)
	`), 0o644)
	test.DemandSuccess(t, err)

	var out strings.Builder
	code := launch([]string{"RUN", "-frames", "2", "-script", lua, cart}, &out, nil, nil)
	test.ExpectEquality(t, code, exitOK, out.String())
	test.ExpectEquality(t, out.String(), "3 frames\n")

	// break on the jump instruction
	err = os.WriteFile(lua, []byte(`
		console.on_instruction(function(address)
			return console.frame() == 1 and address == 0x8003
		end)
	`), 0o644)
	test.DemandSuccess(t, err)

	out.Reset()
	code = launch([]string{"RUN", "-frames", "2", "-script", lua, cart}, &out, nil, nil)
	test.ExpectEquality(t, code, exitOK, out.String())
	test.ExpectEquality(t, out.String(), "! script break at 0x8003\n1 frames\n")
}

func TestState(t *testing.T) {
	cart := cartridgeFile(t)
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "snapshot")
	graph := filepath.Join(dir, "console.dot")

	var out strings.Builder
	code := launch([]string{"STATE", "-frames", "4", "-out", snapshot, "-memviz", graph, cart}, &out, nil, nil)
	test.ExpectEquality(t, code, exitOK, out.String())

	digest := out.String()
	test.ExpectEquality(t, regexp.MustCompile(`^[0-9a-f]{40}\n$`).MatchString(digest), true, digest)

	_, err := os.Stat(snapshot)
	test.ExpectSuccess(t, err)

	g, err := os.ReadFile(graph)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, strings.HasPrefix(string(g), "digraph"), true)

	// the digest is repeatable
	out.Reset()
	code = launch([]string{"STATE", "-frames", "4", cart}, &out, nil, nil)
	test.ExpectEquality(t, code, exitOK, out.String())
	test.ExpectEquality(t, out.String(), digest)
}

func TestStep(t *testing.T) {
	cart := cartridgeFile(t)

	var out strings.Builder
	in := strings.NewReader("s\n\nx\nr\nq\ns\n")
	code := launch([]string{"STEP", cart}, &out, in, nil)
	test.ExpectEquality(t, code, exitOK, out.String())

	// initial state, two steps and a failed rewind. input after the quit is
	// ignored
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	test.ExpectEquality(t, len(lines), 4, out.String())
	test.ExpectEquality(t, strings.HasPrefix(lines[3], "! "), true, lines[3])
}

func TestRegress(t *testing.T) {
	cart := cartridgeFile(t)
	db := filepath.Join(t.TempDir(), "regressionDB")

	var out strings.Builder
	test.ExpectEquality(t, launch([]string{"REGRESS", "ADD", "-db", db}, &out, nil, nil), exitModeError)
	test.ExpectEquality(t, out.String(), "* error in REGRESS/ADD mode: cartridge required for REGRESS/ADD mode\n")

	out.Reset()
	test.ExpectEquality(t, launch([]string{"REGRESS", "ADD", "-db", db, "-mode", "video", cart}, &out, nil, nil), exitModeError)

	out.Reset()
	code := launch([]string{"REGRESS", "ADD", "-db", db, "-frames", "5", "-mode", "both", "-notes", "counter", cart}, &out, nil, nil)
	test.ExpectEquality(t, code, exitOK, out.String())
	test.ExpectEquality(t, strings.HasPrefix(out.String(), "added: 000 [both] "), true, out.String())

	out.Reset()
	test.ExpectEquality(t, launch([]string{"REGRESS", "LIST", "-db", db}, &out, nil, nil), exitOK)
	test.ExpectEquality(t, strings.HasSuffix(out.String(), "[counter]\nTotal: 1\n"), true, out.String())

	// RUN is the default sub-mode
	out.Reset()
	test.ExpectEquality(t, launch([]string{"REGRESS", "-db", db}, &out, nil, nil), exitOK)
	test.ExpectEquality(t, strings.HasSuffix(out.String(), "regression tests: 1 succeed, 0 fail\n"), true, out.String())

	out.Reset()
	test.ExpectEquality(t, launch([]string{"REGRESS", "DELETE", "-db", db, "0"}, &out, strings.NewReader("n"), nil), exitOK)
	test.ExpectEquality(t, launch([]string{"REGRESS", "DELETE", "-db", db, "-yes", "0"}, &out, nil, nil), exitOK)

	out.Reset()
	test.ExpectEquality(t, launch([]string{"REGRESS", "LIST", "-db", db}, &out, nil, nil), exitOK)
	test.ExpectEquality(t, out.String(), "database is empty\n")
}
