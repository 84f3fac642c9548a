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

package apu

// mix the channel outputs with the approximations of the non-linear DAC
// given by the nesdev wiki. the result is in the range 0.0 to 1.0.
func mix(p1, p2, t, n uint8) float64 {
	var pulse, tnd float64

	if p1+p2 > 0 {
		pulse = 95.88 / (8128.0/float64(p1+p2) + 100.0)
	}

	d := float64(t)/8227.0 + float64(n)/12241.0
	if d > 0 {
		tnd = 159.79 / (1.0/d + 100.0)
	}

	return pulse + tnd
}

// convert the mixed output to a signed 16 bit sample.
func toSample(v float64) int16 {
	v = v*2.0 - 1.0
	if v > 1.0 {
		v = 1.0
	} else if v < -1.0 {
		v = -1.0
	}
	return int16(v * 32767)
}
