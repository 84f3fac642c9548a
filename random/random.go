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

package random

import (
	"math/rand"
	"time"
)

// the seed is fixed for the lifetime of the process.
var baseSeed int64

func init() {
	baseSeed = int64(time.Now().Nanosecond())
}

// Beam is implemented by anything that can report a monotonic position in
// the emulated timeline. The television is the usual implementation.
type Beam interface {
	Position() uint64
}

// Random is a source of random numbers tied to a Beam.
type Random struct {
	beam Beam

	// use zero seed rather than the random base seed. this is only really
	// useful for normalised instances where random numbers must be predictable
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom(beam Beam) *Random {
	return &Random{
		beam: beam,
	}
}

// SetBeam changes the position source.
func (rnd *Random) SetBeam(beam Beam) {
	rnd.beam = beam
}

func (rnd *Random) rand() *rand.Rand {
	var p int64
	if rnd.beam != nil {
		p = int64(rnd.beam.Position())
	}
	if rnd.ZeroSeed {
		return rand.New(rand.NewSource(p))
	}
	return rand.New(rand.NewSource(baseSeed + p))
}

// Intn returns a random number in the range [0,n).
func (rnd *Random) Intn(n int) int {
	return rnd.rand().Intn(n)
}

// Fill the byte slice with random values. The same beam position always
// produces the same sequence when ZeroSeed is set.
func (rnd *Random) Fill(data []byte) {
	r := rnd.rand()
	for i := range data {
		data[i] = uint8(r.Intn(0x100))
	}
}
