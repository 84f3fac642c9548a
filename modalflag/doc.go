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

// Package modalflag parses command lines that are made up of nested modes,
// each mode having its own set of flags. For example:
//
//	lockstep RUN -frames 600 -wav out.wav game.nes
//	lockstep STATE -digest 60 game.nes
//
// A Modes value is initialised with NewArgs(). The flags and the sub-modes
// of the top level are added and then Parse() is called. If Parse() selected
// a sub-mode then NewMode() is called, the flags of that sub-mode are added
// and Parse() is called again, this time on the remaining arguments:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "STEP", "INFO")
//
//	p, err := md.Parse()
//	switch p {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		frames := md.AddInt("frames", 0, "number of frames to run")
//		...
//	}
//
// The first sub-mode added is the default. A default sub-mode is selected
// when the first remaining argument does not name a sub-mode, which means
// that a command line with no mode at all runs the default.
//
// Sub-mode names are case insensitive. Mode() and Path() return them in upper
// case.
//
// Help is printed to the Output writer when the -help flag is found.
package modalflag
