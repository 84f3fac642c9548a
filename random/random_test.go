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

package random_test

import (
	"testing"

	"github.com/lockstep-emu/lockstep/random"
	"github.com/lockstep-emu/lockstep/test"
)

type beam struct {
	pos uint64
}

func (b *beam) Position() uint64 {
	return b.pos
}

func TestRandom(t *testing.T) {
	a := random.NewRandom(&beam{pos: 1000})
	b := random.NewRandom(&beam{pos: 1000})
	a.ZeroSeed = true
	b.ZeroSeed = true

	for i := 1; i < 256; i++ {
		test.ExpectEquality(t, a.Intn(i), b.Intn(i))
	}

	da := make([]byte, 64)
	db := make([]byte, 64)
	a.Fill(da)
	b.Fill(db)
	test.ExpectEquality(t, string(da), string(db))
}

func TestNilBeam(t *testing.T) {
	a := random.NewRandom(nil)
	a.ZeroSeed = true
	v := a.Intn(10)
	test.ExpectSuccess(t, v >= 0 && v < 10)
}
