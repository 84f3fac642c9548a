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

// Package apu implements the sound generating part of the Ricoh 2A03.
//
// The two pulse channels, the triangle channel and the noise channel are
// emulated, along with the status register at 0x4015 and the frame counter
// at 0x4017. The DMC registers are accepted but the channel is silent.
//
// The APU is clocked by the scheduler with the number of CPU cycles executed
// in each quantum. Samples are produced at the sample rate given to NewAPU()
// and passed to the Sink, if there is one. Mixing uses the non-linear
// formulae of the hardware's resistor network. Resampling and output are
// left to the Sink.
package apu
