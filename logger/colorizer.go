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

package logger

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	dimRed    = "\033[2;31m"
	normalPen = "\033[0m"
)

// Colorizer applies basic coloring to log entries echoed to a terminal. The
// tag of each entry is written in the normal pen and the detail is dimmed.
type Colorizer struct {
	out io.Writer
}

// NewColorizer wraps io.Writer with a Colorizer if the writer is a terminal.
// Otherwise the io.Writer is returned unchanged.
func NewColorizer(out io.Writer) io.Writer {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return Colorizer{out: out}
	}
	return out
}

func (c Colorizer) Write(p []byte) (int, error) {
	s := string(p)
	tag, detail, found := strings.Cut(s, ": ")
	if !found {
		return c.out.Write(p)
	}

	_, err := io.WriteString(c.out, tag+": "+dimRed+strings.TrimSuffix(detail, "\n")+normalPen)
	if err != nil {
		return 0, err
	}
	if strings.HasSuffix(detail, "\n") {
		_, err = io.WriteString(c.out, "\n")
		if err != nil {
			return 0, err
		}
	}

	return len(p), nil
}
