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

package digest

import (
	"crypto/sha1"
	"fmt"
)

// the length of the buffer. samples are added to the buffer after the
// current digest value. when the buffer is full a new digest is computed
const audioBufferLength = 1024 * sha1.Size

const audioBufferStart = sha1.Size

// Audio implements the apu.Sink interface.
type Audio struct {
	digest   [sha1.Size]byte
	buffer   []uint8
	bufferCt int
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio() *Audio {
	return &Audio{
		buffer:   make([]uint8, audioBufferLength),
		bufferCt: audioBufferStart,
	}
}

func (dig *Audio) String() string {
	return dig.Hash()
}

// Hash implements the Digest interface. Samples that have not yet filled the
// buffer are included.
func (dig *Audio) Hash() string {
	if dig.bufferCt == audioBufferStart {
		return fmt.Sprintf("%x", dig.digest)
	}
	return fmt.Sprintf("%x", sha1.Sum(dig.buffer[:dig.bufferCt]))
}

// ResetDigest implements the Digest interface.
func (dig *Audio) ResetDigest() {
	clear(dig.digest[:])
	clear(dig.buffer)
	dig.bufferCt = audioBufferStart
}

// SetAudio implements the apu.Sink interface.
func (dig *Audio) SetAudio(sample int16) {
	dig.buffer[dig.bufferCt] = uint8(sample)
	dig.buffer[dig.bufferCt+1] = uint8(uint16(sample) >> 8)
	dig.bufferCt += 2
	if dig.bufferCt >= audioBufferLength {
		dig.flush()
	}
}

// the digest is chained by making it the start of the next buffer.
func (dig *Audio) flush() {
	dig.digest = sha1.Sum(dig.buffer)
	copy(dig.buffer, dig.digest[:])
	dig.bufferCt = audioBufferStart
}
