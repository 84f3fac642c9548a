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

// Package preferences holds the emulation preferences that affect the
// hardware. Preferences are persisted to the global preferences file through
// the prefs package.
package preferences

import (
	"fmt"
	"strings"

	"github.com/lockstep-emu/lockstep/prefs"
	"github.com/lockstep-emu/lockstep/resources"
)

// Preferences for the emulated hardware.
type Preferences struct {
	dsk *prefs.Disk

	// initialise RAM and registers to an unknown state after reset
	RandomState prefs.Bool

	// log the first read of every unmapped address
	OpenBusLogging prefs.Bool

	// treat a partial overlap of a bus mapping as a fatal configuration
	// error. if false the overlap is logged and the installation skipped
	StrictOverlap prefs.Bool

	// platform used when the cartridge format does not imply one
	DefaultPlatform prefs.String

	// sample rate of the audio produced by the APU
	AudioSampleRate prefs.Int
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the global preferences file.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	p.DefaultPlatform.SetMaxLen(8)
	p.DefaultPlatform.SetHookPre(func(v prefs.Value) error {
		switch strings.ToUpper(v.(string)) {
		case "NES", "NES-PAL", "SMS", "DMG":
			return nil
		}
		return fmt.Errorf("preferences: unknown platform %q", v)
	})

	p.AudioSampleRate.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 8000 || v.(int) > 192000 {
			return fmt.Errorf("preferences: audio sample rate out of range (%d)", v)
		}
		return nil
	})

	pth, err := resources.JoinPath(prefs.DefaultPrefsFile)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}

	for k, v := range map[string]prefsValue{
		"hardware.randomState":     &p.RandomState,
		"hardware.openBusLogging":  &p.OpenBusLogging,
		"hardware.strictOverlap":   &p.StrictOverlap,
		"hardware.defaultPlatform": &p.DefaultPlatform,
		"hardware.audioSampleRate": &p.AudioSampleRate,
	} {
		if err := p.dsk.Add(k, v); err != nil {
			return nil, fmt.Errorf("preferences: %w", err)
		}
	}

	if err := p.dsk.Load(); err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}

	return p, nil
}

// the subset of the prefs value types used by Preferences.
type prefsValue interface {
	fmt.Stringer
	Set(prefs.Value) error
	Get() prefs.Value
	Reset() error
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	_ = p.RandomState.Set(false)
	_ = p.OpenBusLogging.Set(true)
	_ = p.StrictOverlap.Set(true)
	_ = p.DefaultPlatform.Set("NES")
	_ = p.AudioSampleRate.Set(44100)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
