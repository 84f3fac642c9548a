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

// Package lcd implements the registers of the Game Boy LCD controller.
//
// The controller requests the VBlank interrupt at the start of the vertical
// blank and the LCDStat interrupt for the enabled STAT conditions. Video RAM
// and object attribute memory belong to the controller and are installed on
// the bus with the registers.
package lcd
