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

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lockstep-emu/lockstep/easyterm"
	"github.com/lockstep-emu/lockstep/hardware"
	"github.com/lockstep-emu/lockstep/modalflag"
)

const stepHelp = `keys:
  s, space, return    step one instruction
  f                   run to the end of the frame
  r                   rewind to the start of the previous frame
  b                   press the reset button
  q                   quit
`

// keyReader returns key presses for the stepper. io.EOF indicates that
// there is no more input.
type keyReader interface {
	readKey() (byte, error)
	print(s string, a ...any)
}

// single key presses from a terminal in cbreak mode.
type termKeys struct {
	easyterm.Terminal
}

func (k *termKeys) readKey() (byte, error) {
	return k.ReadKey()
}

func (k *termKeys) print(s string, a ...any) {
	k.Print(s, a...)
}

// line based input. the first character of the line is the key. an empty
// line is a step.
type lineKeys struct {
	scanner *bufio.Scanner
	output  io.Writer
}

func (k *lineKeys) readKey() (byte, error) {
	if !k.scanner.Scan() {
		if err := k.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	l := strings.TrimSpace(k.scanner.Text())
	if l == "" {
		return 's', nil
	}
	return l[0], nil
}

func (k *lineKeys) print(s string, a ...any) {
	fmt.Fprintf(k.output, s, a...)
}

// keys returns a keyReader for the session. A terminal is used if both the
// input and output are terminals.
func (s *session) keys() (keyReader, func()) {
	in, inOK := s.input.(*os.File)
	out, outOK := s.md.Output.(*os.File)
	if inOK && outOK {
		k := &termKeys{}
		if err := k.Initialise(in, out); err == nil {
			if err := k.CBreakMode(); err == nil {
				return k, k.CleanUp
			}
			k.CleanUp()
		}
	}

	return &lineKeys{
		scanner: bufio.NewScanner(s.input),
		output:  s.md.Output,
	}, func() {}
}

func (s *session) step() error {
	md := s.md
	md.NewMode()
	md.AdditionalHelp(stepHelp)

	cf := addCartFlags(md)
	rewind := md.AddInt("rewind", 100, "number of frames to keep in the rewind history")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	con, err := s.console(cf)
	if err != nil {
		return err
	}
	con.SetRewind(*rewind)

	keys, cleanup := s.keys()
	defer cleanup()

	printState := func() {
		keys.print("%s %s\n", con.TV, con.CPU)
	}

	printState()

	for {
		select {
		case <-s.intChan:
			return nil
		default:
		}

		key, err := keys.readKey()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch key {
		case 's', ' ', easyterm.KeyCarriageReturn, easyterm.KeyLineFeed:
			if err := con.Step(); err != nil {
				return err
			}
		case 'f':
			if _, err := con.RunFrame(); err != nil {
				return err
			}
		case 'r':
			if err := rewindFrame(con); err != nil {
				keys.print("! %v\n", err)
				continue
			}
		case 'b':
			con.ResetButton()
		case 'q', easyterm.KeyInterrupt:
			return nil
		case 'h', '?':
			keys.print(stepHelp)
			continue
		default:
			continue
		}

		printState()
	}
}

// rewind to the start of the frame before the current one.
func rewindFrame(con *hardware.Console) error {
	current := con.TV.State().Frame
	frames := con.RewindFrames()
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i] < current {
			return con.RewindTo(frames[i])
		}
	}
	return hardware.ErrRewindUnavailable
}
