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

package cartridge_test

import (
	"testing"

	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
	"github.com/lockstep-emu/lockstep/hardware/memory/cartridge"
	"github.com/stretchr/testify/require"
)

// ines creates an iNES image. Every byte of PRG is the number of the 8K
// bank it is in and every byte of CHR is the number of the 1K bank it is in.
func ines(mapperNum int, prgUnits int, chrUnits int, flags6 uint8) []byte {
	data := []byte{'N', 'E', 'S', 0x1a, uint8(prgUnits), uint8(chrUnits),
		flags6 | uint8(mapperNum&0x0f)<<4, uint8(mapperNum & 0xf0), 0, 0, 0, 0, 0, 0, 0, 0}

	prg := make([]byte, prgUnits*cartridge.PRGUnit)
	for i := range prg {
		prg[i] = uint8(i >> 13)
	}
	chr := make([]byte, chrUnits*cartridge.CHRUnit)
	for i := range chr {
		chr[i] = uint8(i >> 10)
	}

	data = append(data, prg...)
	return append(data, chr...)
}

// load an image into a new cartridge and install it on a new bus.
func load(t *testing.T, data []byte) (*cartridge.Cartridge, *bus.Bus, *cpu.Lines) {
	t.Helper()

	img, err := cartridge.NewImage(data, "")
	require.NoError(t, err)

	lines := cpu.NewLines()
	cart, err := cartridge.NewCartridge(nil, img, lines)
	require.NoError(t, err)

	b := bus.NewBus(nil)
	require.NoError(t, cart.Install(b))
	cart.Reset()

	return cart, b, lines
}
