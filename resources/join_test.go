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

package resources_test

import (
	"path/filepath"
	"testing"

	"github.com/lockstep-emu/lockstep/resources"
	"github.com/lockstep-emu/lockstep/test"
)

func TestJoinPath(t *testing.T) {
	p, err := resources.JoinPath("battery", "game.sav")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, filepath.Base(p), "game.sav")
	test.ExpectEquality(t, filepath.Base(filepath.Dir(p)), "battery")

	// joining an already joined path does not prepend the base path twice
	q, err := resources.JoinPath(p)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q, p)
}
