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
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/lockstep-emu/lockstep/hardware/memory/cartridge/mapper"
)

// Sentinel errors returned when creating an Image.
var (
	ErrTruncated         = errors.New("image is truncated")
	ErrBadSignature      = errors.New("image does not have an iNES signature")
	ErrUnsupportedMapper = errors.New("unsupported mapper")
	ErrNoPRG             = errors.New("image has no PRG data")
)

// Image formats.
const (
	FormatINES  = "INES"
	FormatPLAIN = "PLAIN"
)

// Sizes of the units used in the iNES header.
const (
	PRGUnit    = 0x4000
	CHRUnit    = 0x2000
	PRGRAMUnit = 0x2000
	trainerLen = 512
	headerLen  = 16
)

var signature = [4]byte{'N', 'E', 'S', 0x1a}

// the first 16 bytes of an iNES file.
type header struct {
	Signature [4]byte
	PRGUnits  uint8
	CHRUnits  uint8
	Flags6    uint8
	Flags7    uint8
	PRGRAM    uint8
	Flags9    uint8
	Flags10   uint8
	Padding   [5]byte
}

// Image is a parsed cartridge file. Image is never modified after it has
// been created.
type Image struct {
	Format string

	// iNES mapper number. -1 for PLAIN images
	MapperNumber int

	PRG []uint8
	CHR []uint8

	// size in bytes of PRG RAM. zero if the cartridge has none
	PRGRAMSize int

	Mirroring mapper.Mirroring
	Battery   bool
	Trainer   bool
	NES2      bool

	// SHA-1 of the entire file, including any header
	Hash string
}

func (img *Image) String() string {
	if img.Format == FormatPLAIN {
		return fmt.Sprintf("%s %dK", img.Format, len(img.PRG)/1024)
	}
	s := fmt.Sprintf("%s mapper %d PRG %dK CHR %dK %s", img.Format, img.MapperNumber,
		len(img.PRG)/1024, len(img.CHR)/1024, img.Mirroring)
	if img.Battery {
		s = fmt.Sprintf("%s battery", s)
	}
	return s
}

// HasINESSignature returns true if the data starts with the iNES signature.
func HasINESSignature(data []byte) bool {
	return len(data) >= len(signature) && bytes.Equal(data[:len(signature)], signature[:])
}

// NewImage parses data according to format. If format is empty the format
// is decided by the presence of the iNES signature.
func NewImage(data []byte, format string) (*Image, error) {
	if format == "" {
		if HasINESSignature(data) {
			format = FormatINES
		} else {
			format = FormatPLAIN
		}
	}

	var img *Image
	var err error

	switch format {
	case FormatINES:
		img, err = parseINES(data)
	case FormatPLAIN:
		img, err = parsePlain(data)
	default:
		return nil, fmt.Errorf("cartridge: unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("cartridge: %w", err)
	}

	img.Hash = fmt.Sprintf("%x", sha1.Sum(data))

	return img, nil
}

func parsePlain(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrNoPRG
	}
	img := &Image{
		Format:       FormatPLAIN,
		MapperNumber: -1,
		PRG:          make([]uint8, len(data)),
	}
	copy(img.PRG, data)
	return img, nil
}

func parseINES(data []byte) (*Image, error) {
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: %d bytes is too short for a header", ErrTruncated, len(data))
	}

	var h header
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}

	if h.Signature != signature {
		return nil, ErrBadSignature
	}

	if h.PRGUnits == 0 {
		return nil, ErrNoPRG
	}

	img := &Image{
		Format:  FormatINES,
		Battery: h.Flags6&0x02 == 0x02,
		Trainer: h.Flags6&0x04 == 0x04,
		NES2:    h.Flags7&0x0c == 0x08,
	}

	switch {
	case h.Flags6&0x08 == 0x08:
		img.Mirroring = mapper.FourScreen
	case h.Flags6&0x01 == 0x01:
		img.Mirroring = mapper.Vertical
	default:
		img.Mirroring = mapper.Horizontal
	}

	// old iNES files sometimes have garbage in the padding bytes, in which
	// case the high nibble of the mapper number is also garbage
	img.MapperNumber = int(h.Flags6 >> 4)
	if img.NES2 || h.Padding == [5]byte{} {
		img.MapperNumber |= int(h.Flags7 & 0xf0)
	}

	switch img.MapperNumber {
	case 0, 1, 2, 3, 4:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, img.MapperNumber)
	}

	if img.NES2 {
		img.PRGRAMSize = nes2Shift(h.Flags10&0x0f) + nes2Shift(h.Flags10>>4)
	} else if h.PRGRAM == 0 {
		// a value of zero means 8K for compatability
		img.PRGRAMSize = PRGRAMUnit
	} else {
		img.PRGRAMSize = int(h.PRGRAM) * PRGRAMUnit
	}

	offset := headerLen
	if img.Trainer {
		offset += trainerLen
	}

	prgLen := int(h.PRGUnits) * PRGUnit
	chrLen := int(h.CHRUnits) * CHRUnit

	if len(data) < offset+prgLen+chrLen {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, offset+prgLen+chrLen, len(data))
	}

	img.PRG = make([]uint8, prgLen)
	copy(img.PRG, data[offset:])
	offset += prgLen

	img.CHR = make([]uint8, chrLen)
	copy(img.CHR, data[offset:])

	return img, nil
}

// the NES 2.0 RAM size fields are a shift count.
func nes2Shift(v uint8) int {
	if v == 0 {
		return 0
	}
	return 64 << v
}
