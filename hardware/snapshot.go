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

package hardware

import (
	"bytes"
	"encoding"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
	"github.com/lockstep-emu/lockstep/hardware/scheduler"
)

// SnapshotVersion is increased whenever the layout of a snapshot changes.
const SnapshotVersion = 1

// Sentinel errors returned by Restore(). The console is never changed when
// an error is returned.
var (
	ErrSnapshotVersion   = errors.New("snapshot version not supported")
	ErrPlatformMismatch  = errors.New("snapshot is for a different platform")
	ErrCartridgeMismatch = errors.New("snapshot is for a different cartridge")
	ErrSnapshotSection   = errors.New("snapshot section missing")
)

type codec interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// section of a snapshot. the scratch function returns a disposable copy of
// the live component into which a serialised section can be decoded
// without affecting the live component.
type section struct {
	name    string
	live    codec
	scratch func() codec
}

// envelope is the gob encoded form of a snapshot. sections are stored in a
// slice so that the encoding of identical consoles is identical.
type envelope struct {
	Version  int
	Platform string
	Hash     string
	Sections []serialised
}

type serialised struct {
	Name string
	Data []byte
}

// sections returns every part of the console that is part of a snapshot.
func (con *Console) sections() []section {
	s := []section{
		{name: "cpu", live: con.CPU, scratch: func() codec { return con.CPU.Snapshot() }},
		{name: "lines", live: con.lines, scratch: func() codec { return con.lines.Snapshot() }},
		{name: "mapper", live: con.Cart.Mapper(), scratch: func() codec { return con.Cart.Mapper().Snapshot() }},
		{name: "tv", live: con.TV, scratch: func() codec {
			tv := *con.TV
			return &tv
		}},
		{name: "bus", live: con.Bus, scratch: func() codec { return bus.NewBus(nil) }},
		{name: "scheduler", live: con.Scheduler, scratch: func() codec { return new(scheduler.Scheduler) }},
	}

	for _, r := range con.ram {
		s = append(s, ramSection(r.name, r.bank))
	}
	if ram := con.Cart.RAM(); ram != nil {
		s = append(s, ramSection("cartram", ram))
	}

	switch {
	case con.PPU != nil:
		s = append(s, section{name: "ppu", live: con.PPU, scratch: func() codec { return con.PPU.Snapshot() }})
	case con.VDP != nil:
		s = append(s, section{name: "vdp", live: con.VDP, scratch: func() codec { return con.VDP.Snapshot() }})
	case con.LCD != nil:
		s = append(s, section{name: "lcd", live: con.LCD, scratch: func() codec { return con.LCD.Snapshot() }})
	}

	if con.APU != nil {
		s = append(s, section{name: "apu", live: con.APU, scratch: func() codec { return con.APU.Snapshot() }})
	}

	return s
}

func ramSection(name string, bank *bus.RamBank) section {
	return section{name: name, live: bank, scratch: func() codec {
		return bus.NewRamBank(bank.Size(), bank.Battery())
	}}
}

// Snapshot serialises the state of the console. It should only be called
// between frames, or when the emulation has been stopped by a hook.
func (con *Console) Snapshot() ([]byte, error) {
	env := envelope{
		Version:  SnapshotVersion,
		Platform: con.Platform,
		Hash:     con.Cart.Hash(),
	}

	for _, s := range con.sections() {
		d, err := s.live.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("hardware: snapshot: %s: %w", s.name, err)
		}
		env.Sections = append(env.Sections, serialised{Name: s.name, Data: d})
	}

	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(env); err != nil {
		return nil, fmt.Errorf("hardware: snapshot: %w", err)
	}
	return b.Bytes(), nil
}

// Restore the state of the console from data created by Snapshot(). The
// snapshot must be for the same platform and cartridge.
//
// Every section is decoded into a disposable copy of its component before
// any live component is changed, so a snapshot that fails to restore leaves
// the console untouched.
func (con *Console) Restore(data []byte) error {
	if err := con.restore(data); err != nil {
		return err
	}
	con.rewind.reset()
	return nil
}

func (con *Console) restore(data []byte) error {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return fmt.Errorf("hardware: restore: %w", err)
	}

	if env.Version != SnapshotVersion {
		return fmt.Errorf("hardware: restore: %w: %d", ErrSnapshotVersion, env.Version)
	}
	if env.Platform != con.Platform {
		return fmt.Errorf("hardware: restore: %w: %s", ErrPlatformMismatch, env.Platform)
	}
	if env.Hash != con.Cart.Hash() {
		return fmt.Errorf("hardware: restore: %w", ErrCartridgeMismatch)
	}

	stored := make(map[string][]byte, len(env.Sections))
	for _, s := range env.Sections {
		stored[s.Name] = s.Data
	}

	sections := con.sections()

	for _, s := range sections {
		d, ok := stored[s.name]
		if !ok {
			return fmt.Errorf("hardware: restore: %w: %s", ErrSnapshotSection, s.name)
		}
		if err := s.scratch().UnmarshalBinary(d); err != nil {
			return fmt.Errorf("hardware: restore: %s: %w", s.name, err)
		}
	}

	for _, s := range sections {
		if err := s.live.UnmarshalBinary(stored[s.name]); err != nil {
			return fmt.Errorf("hardware: restore: %s: %w", s.name, err)
		}
	}

	return nil
}
