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

package easyterm

import (
	"fmt"
)

// list of ASCII codes for non-alphanumeric characters.
const (
	KeyInterrupt      = 3  // end-of-text character
	KeySuspend        = 26 // substitute character
	KeyTab            = 9
	KeyCarriageReturn = 13
	KeyLineFeed       = 10
	KeyEsc            = 27
	KeyBackspace      = 8
)

// ReadKey waits for a single key press. The terminal should be in raw or
// cbreak mode.
func (pt *Terminal) ReadKey() (byte, error) {
	var b [1]byte
	if _, err := pt.input.Read(b[:]); err != nil {
		return 0, fmt.Errorf("easyterm: %w", err)
	}
	return b[0], nil
}

// Print writes the formatted string to the output file. Line feeds are
// preceded by a carriage return so that output is correct in raw mode.
func (pt *Terminal) Print(s string, a ...any) {
	out := fmt.Sprintf(s, a...)
	var b []byte
	for i := range len(out) {
		if out[i] == '\n' {
			b = append(b, '\r')
		}
		b = append(b, out[i])
	}
	_, _ = pt.output.Write(b)
}
