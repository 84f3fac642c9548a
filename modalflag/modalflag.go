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

package modalflag

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"strings"
	"time"
)

const modeSeparator = "/"

// ParseResult is returned from the Parse() function.
type ParseResult int

// List of valid ParseResult values.
const (
	// ParseContinue indicates that processing of the command line should
	// continue. If sub-modes were added then the selected mode is returned
	// by Mode().
	ParseContinue ParseResult = iota

	// ParseHelp indicates that help was requested and has been printed.
	ParseHelp

	// ParseError indicates that the arguments could not be parsed. The error
	// is returned alongside.
	ParseError
)

// Modes handles the arguments of a modal command line. Output should be set
// before calling Parse() or help messages will not be seen.
type Modes struct {
	Output io.Writer

	// a new flag set is created by every call to NewMode()
	flags *flag.FlagSet

	// the arguments and the number of arguments consumed by previous modes
	args     []string
	consumed int

	// sub-modes for the next call to Parse(). the first entry is the default
	subModes []string

	// the modes that have been selected so far. never reset
	path []string

	extraHelp string
	parsed    bool
}

func (md *Modes) String() string {
	return md.Path()
}

// NewArgs begins a new command line. It implies a call to NewMode().
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.consumed = 0
	md.path = md.path[:0]
	md.NewMode()
}

// NewMode starts a new layer of flags and sub-modes. Arguments that have not
// been consumed by the previous mode are parsed by the next call to Parse().
func (md *Modes) NewMode() {
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
	md.subModes = md.subModes[:0]
	md.extraHelp = ""
	md.parsed = false
}

// AdditionalHelp is printed after the list of flags and sub-modes.
func (md *Modes) AdditionalHelp(help string) {
	md.extraHelp = help
}

// Parsed returns true if Parse() has been called since the last call to
// NewMode(), even if Parse() returned an error.
func (md *Modes) Parsed() bool {
	return md.parsed
}

// Mode returns the most recently selected mode.
func (md *Modes) Mode() string {
	if len(md.path) == 0 {
		return ""
	}
	return md.path[len(md.path)-1]
}

// Path returns every mode that has been selected, separated with a slash.
func (md *Modes) Path() string {
	return strings.Join(md.path, modeSeparator)
}

// Parse the arguments for the current mode.
//
// If flags are found that have not been added and sub-modes exist, the
// default sub-mode is selected and the flags are left for the sub-mode to
// parse.
func (md *Modes) Parse() (ParseResult, error) {
	md.parsed = true

	var defaults bytes.Buffer
	md.flags.SetOutput(&defaults)
	md.flags.Usage = func() {
		md.flags.PrintDefaults()
	}

	err := md.flags.Parse(md.args[md.consumed:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			md.help(defaults.String())
			return ParseHelp, nil
		}
		if len(md.subModes) == 0 {
			return ParseError, err
		}
		md.path = append(md.path, md.subModes[0])
		return ParseContinue, nil
	}

	md.consumed = len(md.args) - md.flags.NArg()

	if len(md.subModes) > 0 {
		mode := md.subModes[0]
		arg := strings.ToUpper(md.flags.Arg(0))
		for _, m := range md.subModes {
			if m == arg {
				mode = m
				md.consumed++
				break
			}
		}
		md.path = append(md.path, mode)
	}

	return ParseContinue, nil
}

// RemainingArgs returns the arguments that are not flags and that did not
// select a sub-mode.
func (md *Modes) RemainingArgs() []string {
	return md.args[md.consumed:]
}

// GetArg returns the numbered argument of RemainingArgs(). Returns the empty
// string if there is no such argument.
func (md *Modes) GetArg(i int) string {
	r := md.RemainingArgs()
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// AddSubModes adds to the list of sub-modes for the next call to Parse().
// The first sub-mode is the default unless AddDefaultSubMode() is called.
func (md *Modes) AddSubModes(subModes ...string) {
	for _, m := range subModes {
		md.subModes = append(md.subModes, strings.ToUpper(m))
	}
}

// AddDefaultSubMode adds a sub-mode to the front of the list, making it the
// default.
func (md *Modes) AddDefaultSubMode(subMode string) {
	md.subModes = append([]string{strings.ToUpper(subMode)}, md.subModes...)
}

// AddBool flag for the next call to Parse().
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	return md.flags.Bool(name, value, usage)
}

// AddInt flag for the next call to Parse().
func (md *Modes) AddInt(name string, value int, usage string) *int {
	return md.flags.Int(name, value, usage)
}

// AddFloat64 flag for the next call to Parse().
func (md *Modes) AddFloat64(name string, value float64, usage string) *float64 {
	return md.flags.Float64(name, value, usage)
}

// AddString flag for the next call to Parse().
func (md *Modes) AddString(name string, value string, usage string) *string {
	return md.flags.String(name, value, usage)
}

// AddDuration flag for the next call to Parse().
func (md *Modes) AddDuration(name string, value time.Duration, usage string) *time.Duration {
	return md.flags.Duration(name, value, usage)
}
