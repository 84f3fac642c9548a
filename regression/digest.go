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

package regression

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lockstep-emu/lockstep/cartridgeloader"
	"github.com/lockstep-emu/lockstep/database"
	"github.com/lockstep-emu/lockstep/digest"
	"github.com/lockstep-emu/lockstep/environment"
	"github.com/lockstep-emu/lockstep/hardware"
)

const digestEntryID = "digest"

const (
	digestFieldCartridge int = iota
	digestFieldPlatform
	digestFieldMode
	digestFieldNumFrames
	digestFieldState
	digestFieldAudio
	digestFieldNotes
	numDigestFields
)

// ErrNoAudio is returned if an audio digest is requested for a platform that
// does not produce audio.
var ErrNoAudio = errors.New("platform has no audio")

// DigestRegression is the simplest regression type. It runs the emulation
// for a number of frames and records the digests.
type DigestRegression struct {
	Cartridge string
	Platform  string
	Mode      DigestMode
	NumFrames int
	Notes     string

	stateDigest string
	audioDigest string
}

// NewDigestRegression is the preferred method of initialisation for the
// DigestRegression type.
func NewDigestRegression(cartridge string, platform string, mode DigestMode, numFrames int, notes string) (*DigestRegression, error) {
	if mode == DigestUndefined {
		return nil, fmt.Errorf("regression: digest mode is undefined")
	}
	if numFrames <= 0 {
		return nil, fmt.Errorf("regression: number of frames must be positive")
	}

	// the database does not allow separators in the field
	notes = strings.NewReplacer(",", ";", "\n", " ").Replace(notes)

	return &DigestRegression{
		Cartridge: cartridge,
		Platform:  platform,
		Mode:      mode,
		NumFrames: numFrames,
		Notes:     notes,
	}, nil
}

func deserialiseDigestEntry(fields []string) (database.Entry, error) {
	if len(fields) != numDigestFields {
		return nil, fmt.Errorf("regression: %w: digest entry has %d fields", database.ErrMalformed, len(fields))
	}

	mode, err := ParseDigestMode(fields[digestFieldMode])
	if err != nil {
		return nil, err
	}

	n, err := strconv.Atoi(fields[digestFieldNumFrames])
	if err != nil {
		return nil, fmt.Errorf("regression: invalid number of frames (%s)", fields[digestFieldNumFrames])
	}

	return &DigestRegression{
		Cartridge:   fields[digestFieldCartridge],
		Platform:    fields[digestFieldPlatform],
		Mode:        mode,
		NumFrames:   n,
		stateDigest: fields[digestFieldState],
		audioDigest: fields[digestFieldAudio],
		Notes:       fields[digestFieldNotes],
	}, nil
}

// ID implements the database.Entry interface.
func (reg *DigestRegression) ID() string {
	return digestEntryID
}

// String implements the database.Entry interface.
func (reg *DigestRegression) String() string {
	s := fmt.Sprintf("[%s] %s [%s] frames=%d", reg.Mode, reg.Cartridge, reg.Platform, reg.NumFrames)
	if reg.Notes != "" {
		s = fmt.Sprintf("%s [%s]", s, reg.Notes)
	}
	return s
}

// Serialise implements the database.Entry interface.
func (reg *DigestRegression) Serialise() ([]string, error) {
	f := make([]string, numDigestFields)
	f[digestFieldCartridge] = reg.Cartridge
	f[digestFieldPlatform] = reg.Platform
	f[digestFieldMode] = reg.Mode.String()
	f[digestFieldNumFrames] = strconv.Itoa(reg.NumFrames)
	f[digestFieldState] = reg.stateDigest
	f[digestFieldAudio] = reg.audioDigest
	f[digestFieldNotes] = reg.Notes
	return f, nil
}

// CleanUp implements the database.Entry interface.
func (reg *DigestRegression) CleanUp() error {
	return nil
}

// regress runs the emulation and compares the digests with the stored
// digests. if newRegression is true the digests are stored instead. the
// returned string describes the failure.
func (reg *DigestRegression) regress(newRegression bool) (bool, string, error) {
	cl := cartridgeloader.NewLoader(reg.Cartridge, "")
	if err := cl.Load(); err != nil {
		return false, "", err
	}

	img, err := cl.Image()
	if err != nil {
		return false, "", err
	}

	env, err := environment.NewEnvironment(nil, nil)
	if err != nil {
		return false, "", err
	}
	env.Normalise()

	platform := reg.Platform
	if platform == "" {
		platform = cl.Platform
	}

	con, err := hardware.NewConsole(env, platform, img)
	if err != nil {
		return false, "", err
	}

	var aud *digest.Audio
	if reg.Mode.audio() {
		if con.APU == nil {
			return false, "", fmt.Errorf("regression: %w: %s", ErrNoAudio, con.Platform)
		}
		aud = digest.NewAudio()
		con.APU.SetSink(aud)
	}

	state, err := digest.RunFor(con, reg.NumFrames)
	if err != nil {
		return false, "", err
	}

	if newRegression {
		reg.Platform = con.Platform
		if reg.Mode.state() {
			reg.stateDigest = state
		}
		if aud != nil {
			reg.audioDigest = aud.Hash()
		}
		return true, "", nil
	}

	if reg.Mode.state() && state != reg.stateDigest {
		return false, "state digest mismatch", nil
	}
	if aud != nil && aud.Hash() != reg.audioDigest {
		return false, "audio digest mismatch", nil
	}

	return true, "", nil
}
