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

package easyterm_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lockstep-emu/lockstep/easyterm"
	"github.com/lockstep-emu/lockstep/test"
)

func TestNotTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "input"))
	test.DemandSuccess(t, err)
	defer f.Close()

	var pt easyterm.Terminal
	err = pt.Initialise(f, f)
	test.ExpectEquality(t, errors.Is(err, easyterm.ErrNotTerminal), true)

	test.ExpectFailure(t, pt.Initialise(nil, f))
	test.ExpectFailure(t, pt.Initialise(f, nil))

	// clean up of an uninitialised terminal is safe
	pt.CleanUp()
}
