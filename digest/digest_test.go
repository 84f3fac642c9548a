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

package digest_test

import (
	"testing"

	"github.com/lockstep-emu/lockstep/digest"
	"github.com/lockstep-emu/lockstep/hardware"
	"github.com/lockstep-emu/lockstep/hardware/apu"
	"github.com/lockstep-emu/lockstep/hardware/memory/cartridge"
	"github.com/lockstep-emu/lockstep/test"
)

// an NROM cartridge that sets the APU running and loops forever.
func image(t *testing.T) *cartridge.Image {
	t.Helper()

	prg := make([]byte, 0x4000)
	copy(prg, []byte{
		0xa9, 0x0f, // LDA #$0f
		0x8d, 0x15, 0x40, // STA $4015
		0xa9, 0xbf, // LDA #$bf
		0x8d, 0x00, 0x40, // STA $4000
		0xa9, 0x40, // LDA #$40
		0x8d, 0x02, 0x40, // STA $4002
		0xa9, 0x08, // LDA #$08
		0x8d, 0x03, 0x40, // STA $4003
		0x4c, 0x14, 0x80, // JMP $8014
	})
	copy(prg[0x3ffa:], []byte{0x00, 0x80, 0x00, 0x80, 0x00, 0x80})

	data := []byte{'N', 'E', 'S', 0x1a, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	data = append(data, prg...)
	img, err := cartridge.NewImage(data, "")
	test.DemandSuccess(t, err)
	return img
}

func TestAudioDigest(t *testing.T) {
	a := digest.NewAudio()
	b := digest.NewAudio()
	test.ExpectImplements(t, a, (apu.Sink)(nil))
	test.ExpectImplements(t, a, (digest.Digest)(nil))

	empty := a.Hash()

	for i := range 100000 {
		a.SetAudio(int16(i))
		b.SetAudio(int16(i))
	}
	test.ExpectInequality(t, a.Hash(), empty)
	test.ExpectEquality(t, a.Hash(), b.Hash())

	b.SetAudio(1)
	test.ExpectInequality(t, a.Hash(), b.Hash())

	a.ResetDigest()
	test.ExpectEquality(t, a.Hash(), empty)
}

func TestStateDigest(t *testing.T) {
	run := func() (string, string) {
		con, err := hardware.NewConsole(nil, hardware.PlatformNES, image(t))
		test.DemandSuccess(t, err)

		aud := digest.NewAudio()
		con.APU.SetSink(aud)

		h, err := digest.RunFor(con, 10)
		test.DemandSuccess(t, err)
		return h, aud.Hash()
	}

	state1, audio1 := run()
	state2, audio2 := run()
	test.ExpectEquality(t, state1, state2)
	test.ExpectEquality(t, audio1, audio2)
	test.ExpectEquality(t, len(state1), 40)
}
