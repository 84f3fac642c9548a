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

//go:build windows

package easyterm

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Terminal is the main container for terminals.
type Terminal struct {
	input  *os.File
	output *os.File

	state *term.State
}

// Initialise the fields in the Terminal struct.
func (pt *Terminal) Initialise(inputFile, outputFile *os.File) error {
	if inputFile == nil {
		return fmt.Errorf("easyterm: terminal requires an input file")
	}
	if outputFile == nil {
		return fmt.Errorf("easyterm: terminal requires an output file")
	}
	if !term.IsTerminal(int(inputFile.Fd())) {
		return ErrNotTerminal
	}
	pt.input = inputFile
	pt.output = outputFile
	return nil
}

// CleanUp returns the terminal to canonical mode.
func (pt *Terminal) CleanUp() {
	if pt.input == nil {
		return
	}
	_ = pt.CanonicalMode()
}

// CanonicalMode puts terminal into normal, everyday canonical mode.
func (pt *Terminal) CanonicalMode() error {
	if pt.state == nil {
		return nil
	}
	err := term.Restore(int(pt.input.Fd()), pt.state)
	pt.state = nil
	if err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}
	return nil
}

// RawMode puts terminal into raw mode.
func (pt *Terminal) RawMode() error {
	if pt.state != nil {
		return nil
	}
	st, err := term.MakeRaw(int(pt.input.Fd()))
	if err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}
	pt.state = st
	return nil
}

// CBreakMode is the same as RawMode.
func (pt *Terminal) CBreakMode() error {
	return pt.RawMode()
}

// Flush does nothing.
func (pt *Terminal) Flush() error {
	return nil
}
