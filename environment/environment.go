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

// Package environment bundles the per-console resources that are not part
// of the emulated hardware: a label, a source of random numbers and the
// hardware preferences.
package environment

import (
	"github.com/lockstep-emu/lockstep/hardware/preferences"
	"github.com/lockstep-emu/lockstep/random"
)

// Label is used to name the environment.
type Label string

// MainEmulation is the label used for the primary emulation instance.
const MainEmulation = Label("")

// Environment is passed to each console. Nothing in the emulation should
// reach for package level state.
type Environment struct {
	Label Label

	// any randomisation required by the emulation should be retrieved through
	// this structure
	Random *random.Random

	// the emulation preferences
	Prefs *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type. If prefs is nil then the preferences are loaded from
// disk.
func NewEnvironment(beam random.Beam, prefs *preferences.Preferences) (*Environment, error) {
	env := &Environment{
		Random: random.NewRandom(beam),
	}

	if prefs == nil {
		var err error
		prefs, err = preferences.NewPreferences()
		if err != nil {
			return nil, err
		}
	}
	env.Prefs = prefs

	return env, nil
}

// SetBeam changes the source of positions for the random number generator.
// Used when the television is created after the environment.
func (env *Environment) SetBeam(beam random.Beam) {
	env.Random.SetBeam(beam)
}

// Normalise ensures the environment is in a known default state. Useful for
// regression testing where the initial state must be the same for every run.
func (env *Environment) Normalise() {
	env.Random.ZeroSeed = true
	env.Prefs.SetDefaults()
}

// AllowLogging implements the logger.Permission interface.
func (env *Environment) AllowLogging() bool {
	return env.Label == MainEmulation
}

// IsEmulation checks the emulation label and returns true if it matches.
func (env *Environment) IsEmulation(label Label) bool {
	return env.Label == label
}
