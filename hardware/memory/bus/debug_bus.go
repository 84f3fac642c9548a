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

package bus

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by Peek() and Poke().
var (
	ErrUnmapped    = errors.New("address is not mapped")
	ErrNotPeekable = errors.New("device does not support peeking")
	ErrNotPokeable = errors.New("device does not support poking")
)

// Peeker is implemented by devices that can be read without side effects.
type Peeker interface {
	Peek(offset uint16) uint8
}

// Poker is implemented by devices that can be altered outside of the normal
// operation of the machine.
type Poker interface {
	Poke(offset uint16, data uint8)
}

// Peek returns the value at the address without triggering any side effects
// in the device. The open bus value is not changed.
func (b *Bus) Peek(address uint16) (uint8, error) {
	m, ok := b.lookup(address)
	if !ok {
		return b.openBus, fmt.Errorf("bus: %w: %#04x", ErrUnmapped, address)
	}
	p, ok := m.dev.(Peeker)
	if !ok {
		return b.openBus, fmt.Errorf("bus: %w: %#04x", ErrNotPeekable, address)
	}
	return p.Peek(address - m.rng.Origin), nil
}

// Poke alters the value at the address. Read only devices will accept a
// poke if they implement the Poker interface.
func (b *Bus) Poke(address uint16, data uint8) error {
	m, ok := b.lookup(address)
	if !ok {
		return fmt.Errorf("bus: %w: %#04x", ErrUnmapped, address)
	}
	p, ok := m.dev.(Poker)
	if !ok {
		return fmt.Errorf("bus: %w: %#04x", ErrNotPokeable, address)
	}
	p.Poke(address-m.rng.Origin, data)
	return nil
}

// Summary returns a single multiline string detailing the installed
// mappings. Useful for reference.
func (b *Bus) Summary() string {
	s := strings.Builder{}
	for _, m := range b.mappings {
		s.WriteString(fmt.Sprintf("%s\t%s\n", m.rng, describe(m.dev)))
	}
	return s.String()
}

func describe(dev Device) string {
	if s, ok := dev.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", dev)
}
