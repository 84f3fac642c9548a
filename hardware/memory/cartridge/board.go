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

package cartridge

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
	"github.com/lockstep-emu/lockstep/hardware/memory/cartridge/mapper"
)

// ErrCHRRAMSize is returned when a serialised mapper state has CHR RAM of
// the wrong size.
var ErrCHRRAMSize = errors.New("chr ram size mismatch")

// CPU address areas common to the NES mapping schemes.
var (
	prgRAMRange = bus.Range{Origin: 0x6000, Memtop: 0x7fff}
	prgROMRange = bus.Range{Origin: 0x8000, Memtop: 0xffff}
)

// the size of CHR RAM for cartridges with no CHR ROM.
const chrRAMSize = 0x2000

// board is the part of a mapper that does not change during emulation.
type board struct {
	mappingID string
	number    int

	// prg and chr are shared with the image and must never be written to
	prg []uint8
	chr []uint8

	// the cartridge RAM at 0x6000. may be nil
	prgRAM *bus.RamBank

	// the mirroring specified by the cartridge header
	mirroring mapper.Mirroring
}

func newBoard(id string, img *Image, prgRAM *bus.RamBank) board {
	return board{
		mappingID: id,
		number:    img.MapperNumber,
		prg:       img.PRG,
		chr:       img.CHR,
		prgRAM:    prgRAM,
		mirroring: img.Mirroring,
	}
}

// ID implements the mapper.Mapper interface.
func (b *board) ID() string {
	return b.mappingID
}

// Number implements the mapper.Mapper interface.
func (b *board) Number() int {
	return b.number
}

// NotifyScanline implements the mapper.Mapper interface.
func (b *board) NotifyScanline() {
}

// newCHRRAM returns CHR RAM if the cartridge does not have CHR ROM.
func (b *board) newCHRRAM() []uint8 {
	if len(b.chr) > 0 {
		return nil
	}
	return make([]uint8, chrRAMSize)
}

// installPRGRAM puts the cartridge RAM on the bus if the cartridge has any.
func (b *board) installPRGRAM(bs *bus.Bus) error {
	if b.prgRAM == nil {
		return nil
	}
	if err := bs.Install(prgRAMRange, b.prgRAM); err != nil {
		return fmt.Errorf("%s: %w", b.mappingID, err)
	}
	return nil
}

// numBanks returns the number of banks of size in data. Data that is smaller
// than a single bank counts as one bank.
func numBanks(data []uint8, size int) int {
	return max(1, len(data)/size)
}

// bankIndex wraps the requested bank number to the number of banks available.
func bankIndex(data []uint8, size int, n int) int {
	c := numBanks(data, size)
	n %= c
	if n < 0 {
		n += c
	}
	return n
}

// readBank returns the byte at offset in bank n of data, where each bank is
// size bytes. Banks and offsets both wrap.
func readBank(data []uint8, size int, n int, offset int) uint8 {
	idx := bankIndex(data, size, n)*size + offset%size
	return data[idx%len(data)]
}

// writeBank is the write equivalent of readBank.
func writeBank(data []uint8, size int, n int, offset int, v uint8) {
	idx := bankIndex(data, size, n)*size + offset%size
	data[idx%len(data)] = v
}

// chrMemory returns the CHR memory in use. Either CHR ROM or CHR RAM.
func (b *board) chrMemory(chrRAM []uint8) []uint8 {
	if chrRAM != nil {
		return chrRAM
	}
	return b.chr
}

// encode and decode serialise a mapper state with gob.
func encode(id string, state any) ([]byte, error) {
	var w bytes.Buffer
	if err := gob.NewEncoder(&w).Encode(state); err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return w.Bytes(), nil
}

func decode(id string, data []byte, state any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(state); err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	return nil
}

// checkCHRRAM makes sure that deserialised CHR RAM is the expected size.
func checkCHRRAM(id string, want []uint8, got []uint8) error {
	if len(want) != len(got) {
		return fmt.Errorf("%s: %w: want %d bytes, got %d", id, ErrCHRRAMSize, len(want), len(got))
	}
	return nil
}

// cloneCHRRAM is used when copying a mapper state.
func cloneCHRRAM(chrRAM []uint8) []uint8 {
	if chrRAM == nil {
		return nil
	}
	c := make([]uint8, len(chrRAM))
	copy(c, chrRAM)
	return c
}
