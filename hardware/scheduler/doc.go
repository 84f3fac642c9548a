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

// Package scheduler advances a CPU core, the television and the video and
// audio chips in lockstep.
//
// The unit of work is the quantum. A quantum is one scanline's worth of
// master clocks. The CPU is stepped one instruction at a time until the
// master clocks consumed by the quantum meet or exceed the budget. The
// television is advanced after every instruction so that the beam position
// seen by the video chips is never more than one instruction stale.
//
// Instructions are indivisible, so the final instruction of a quantum will
// usually overshoot the budget. The overshoot is carried into the next
// quantum by reducing its budget. Over n quanta with a budget of B master
// clocks the master clock counter therefore advances by at least n*B and by
// no more than n*B plus the master clock length of the longest instruction,
// less one.
//
// Abort() is the only method that is safe to call from another goroutine.
package scheduler
