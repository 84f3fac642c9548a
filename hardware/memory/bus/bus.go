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
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"sort"

	"github.com/lockstep-emu/lockstep/environment"
	"github.com/lockstep-emu/lockstep/logger"
)

// Sentinel errors returned by the bus.
var (
	ErrOverlap  = errors.New("range overlaps an existing mapping")
	ErrNotFound = errors.New("no mapping for range")
)

// Range is an inclusive span of addresses.
type Range struct {
	Origin uint16
	Memtop uint16
}

// NewRange is a convenience function for a range of size bytes starting at
// origin.
func NewRange(origin uint16, size int) Range {
	return Range{Origin: origin, Memtop: origin + uint16(size-1)}
}

func (r Range) String() string {
	return fmt.Sprintf("%04x -> %04x", r.Origin, r.Memtop)
}

// Contains returns true if address is inside the range.
func (r Range) Contains(address uint16) bool {
	return address >= r.Origin && address <= r.Memtop
}

// Size returns the number of addresses in the range.
func (r Range) Size() int {
	return int(r.Memtop) - int(r.Origin) + 1
}

func (r Range) overlaps(o Range) bool {
	return r.Origin <= o.Memtop && o.Origin <= r.Memtop
}

// Device is anything that can be installed on the bus. The address is the
// offset from the origin of the range the device was installed over.
type Device interface {
	Read(offset uint16) uint8
	Write(offset uint16, data uint8)
}

// readOnly is implemented by devices that discard writes. The bus counts the
// writes and reports them to the ReadOnlyWrite hook.
type readOnly interface {
	ReadOnly() bool
}

// Hooks allow a debugger or script to observe bus anomalies. Either field
// may be nil.
type Hooks struct {
	// OpenBus is called the first time an unmapped address is read
	OpenBus func(address uint16)

	// ReadOnlyWrite is called whenever a ROM bank is written to
	ReadOnlyWrite func(address uint16, data uint8)
}

type mapping struct {
	rng Range
	dev Device
}

// Bus routes CPU accesses to the installed devices.
type Bus struct {
	env *environment.Environment

	// sorted by origin. ranges do not overlap
	mappings []mapping

	// index of the most recently hit mapping. -1 if there is no valid hit
	last int

	// the last value driven on the data bus
	openBus uint8

	// unmapped addresses that have already been reported
	openBusSeen map[uint16]bool

	// the number of writes discarded by read only devices
	romWrites int

	hooks Hooks
}

// NewBus is the preferred method of initialisation for the Bus type. The
// environment argument can be nil.
func NewBus(env *environment.Environment) *Bus {
	return &Bus{
		env:         env,
		last:        -1,
		openBusSeen: make(map[uint16]bool),
	}
}

// SetHooks attaches debugging hooks to the bus. A zero value Hooks removes
// them.
func (b *Bus) SetHooks(hooks Hooks) {
	b.hooks = hooks
}

func (b *Bus) logPermission() logger.Permission {
	if b.env == nil {
		return logger.Allow
	}
	return b.env
}

func (b *Bus) strictOverlap() bool {
	if b.env == nil || b.env.Prefs == nil {
		return true
	}
	return b.env.Prefs.StrictOverlap.Get().(bool)
}

func (b *Bus) openBusLogging() bool {
	if b.env == nil || b.env.Prefs == nil {
		return true
	}
	return b.env.Prefs.OpenBusLogging.Get().(bool)
}

// search returns the index of the first mapping with a memtop at or above
// the address.
func (b *Bus) search(address uint16) int {
	return sort.Search(len(b.mappings), func(i int) bool {
		return b.mappings[i].rng.Memtop >= address
	})
}

// Install a device over the range. An existing mapping for exactly the same
// range is replaced.
func (b *Bus) Install(rng Range, dev Device) error {
	if rng.Memtop < rng.Origin {
		return fmt.Errorf("bus: invalid range %s", rng)
	}
	if dev == nil {
		return fmt.Errorf("bus: nil device for %s", rng)
	}

	i := b.search(rng.Origin)

	if i < len(b.mappings) && b.mappings[i].rng == rng {
		b.mappings[i].dev = dev
		return nil
	}

	if i < len(b.mappings) && b.mappings[i].rng.overlaps(rng) {
		err := fmt.Errorf("bus: %w: %s with %s", ErrOverlap, rng, b.mappings[i].rng)
		if b.strictOverlap() {
			return err
		}
		logger.Log(b.logPermission(), "bus", err)
		return nil
	}

	b.mappings = append(b.mappings, mapping{})
	copy(b.mappings[i+1:], b.mappings[i:])
	b.mappings[i] = mapping{rng: rng, dev: dev}
	b.last = -1

	return nil
}

// Uninstall removes the mapping for exactly the range.
func (b *Bus) Uninstall(rng Range) error {
	i := b.search(rng.Origin)
	if i >= len(b.mappings) || b.mappings[i].rng != rng {
		return fmt.Errorf("bus: %w: %s", ErrNotFound, rng)
	}
	b.mappings = append(b.mappings[:i], b.mappings[i+1:]...)
	b.last = -1
	return nil
}

// lookup returns the mapping that contains the address.
func (b *Bus) lookup(address uint16) (*mapping, bool) {
	if b.last >= 0 && b.mappings[b.last].rng.Contains(address) {
		return &b.mappings[b.last], true
	}

	i := b.search(address)
	if i >= len(b.mappings) || !b.mappings[i].rng.Contains(address) {
		return nil, false
	}
	b.last = i

	return &b.mappings[i], true
}

// Read implements the cpu.Memory interface.
func (b *Bus) Read(address uint16) uint8 {
	m, ok := b.lookup(address)
	if !ok {
		b.reportOpenBus(address)
		return b.openBus
	}
	b.openBus = m.dev.Read(address - m.rng.Origin)
	return b.openBus
}

// Write implements the cpu.Memory interface.
func (b *Bus) Write(address uint16, data uint8) {
	b.openBus = data

	m, ok := b.lookup(address)
	if !ok {
		return
	}

	if ro, ok := m.dev.(readOnly); ok && ro.ReadOnly() {
		b.romWrites++
		if b.hooks.ReadOnlyWrite != nil {
			b.hooks.ReadOnlyWrite(address, data)
		}
		return
	}

	m.dev.Write(address-m.rng.Origin, data)
}

func (b *Bus) reportOpenBus(address uint16) {
	if b.openBusSeen[address] {
		return
	}
	b.openBusSeen[address] = true

	if b.openBusLogging() {
		logger.Logf(b.logPermission(), "bus", "open bus read at %#04x", address)
	}
	if b.hooks.OpenBus != nil {
		b.hooks.OpenBus(address)
	}
}

// OpenBus returns the value currently on the data bus.
func (b *Bus) OpenBus() uint8 {
	return b.openBus
}

// ROMWrites returns the number of writes discarded by read only devices.
func (b *Bus) ROMWrites() int {
	return b.romWrites
}

// Mappings returns the installed ranges in address order.
func (b *Bus) Mappings() []Range {
	r := make([]Range, len(b.mappings))
	for i := range b.mappings {
		r[i] = b.mappings[i].rng
	}
	return r
}

// the serialisable state of the bus. devices serialise themselves.
type busState struct {
	OpenBus   uint8
	ROMWrites int
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (b *Bus) MarshalBinary() ([]byte, error) {
	var w bytes.Buffer
	err := gob.NewEncoder(&w).Encode(busState{
		OpenBus:   b.openBus,
		ROMWrites: b.romWrites,
	})
	if err != nil {
		return nil, fmt.Errorf("bus: %w", err)
	}
	return w.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (b *Bus) UnmarshalBinary(data []byte) error {
	var s busState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("bus: %w", err)
	}
	b.openBus = s.OpenBus
	b.romWrites = s.ROMWrites
	return nil
}
