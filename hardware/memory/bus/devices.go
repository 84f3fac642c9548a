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
)

// ErrRAMSize is returned when RAM is loaded with data of the wrong size.
var ErrRAMSize = errors.New("ram size mismatch")

// RomBank is a read only device. A bank smaller than the range it is
// installed over is mirrored.
type RomBank struct {
	data []uint8
}

// NewRomBank is the preferred method of initialisation for the RomBank type.
// The data is not copied.
func NewRomBank(data []uint8) *RomBank {
	return &RomBank{data: data}
}

func (r *RomBank) String() string {
	return fmt.Sprintf("ROM (%d bytes)", len(r.data))
}

// Read implements the Device interface.
func (r *RomBank) Read(offset uint16) uint8 {
	return r.data[int(offset)%len(r.data)]
}

// Write implements the Device interface. Writes are discarded.
func (r *RomBank) Write(_ uint16, _ uint8) {
}

// Peek implements the Peeker interface.
func (r *RomBank) Peek(offset uint16) uint8 {
	return r.Read(offset)
}

// ReadOnly returns true. Writes to a ROM bank are counted by the bus and
// then discarded.
func (r *RomBank) ReadOnly() bool {
	return true
}

// RamBank is a read/write device. A battery backed bank tracks whether it
// has been written to since the last call to ClearDirty().
type RamBank struct {
	data    []uint8
	battery bool
	dirty   bool
}

// NewRamBank is the preferred method of initialisation for the RamBank type.
func NewRamBank(size int, battery bool) *RamBank {
	return &RamBank{
		data:    make([]uint8, size),
		battery: battery,
	}
}

func (r *RamBank) String() string {
	if r.battery {
		return fmt.Sprintf("RAM (%d bytes, battery)", len(r.data))
	}
	return fmt.Sprintf("RAM (%d bytes)", len(r.data))
}

// Read implements the Device interface.
func (r *RamBank) Read(offset uint16) uint8 {
	return r.data[int(offset)%len(r.data)]
}

// Write implements the Device interface.
func (r *RamBank) Write(offset uint16, data uint8) {
	r.data[int(offset)%len(r.data)] = data
	if r.battery {
		r.dirty = true
	}
}

// Peek implements the Peeker interface.
func (r *RamBank) Peek(offset uint16) uint8 {
	return r.Read(offset)
}

// Poke implements the Poker interface. The dirty flag is not affected.
func (r *RamBank) Poke(offset uint16, data uint8) {
	r.data[int(offset)%len(r.data)] = data
}

// Size returns the number of bytes in the bank.
func (r *RamBank) Size() int {
	return len(r.data)
}

// Battery returns true if the RAM is battery backed.
func (r *RamBank) Battery() bool {
	return r.battery
}

// Dirty returns true if battery backed RAM has been written to.
func (r *RamBank) Dirty() bool {
	return r.dirty
}

// ClearDirty resets the dirty flag. Called once the RAM has been saved.
func (r *RamBank) ClearDirty() {
	r.dirty = false
}

// Data returns a copy of the RAM.
func (r *RamBank) Data() []uint8 {
	d := make([]uint8, len(r.data))
	copy(d, r.data)
	return d
}

// Load replaces the contents of the RAM. The data must be the same size as
// the RAM.
func (r *RamBank) Load(data []uint8) error {
	if len(data) != len(r.data) {
		return fmt.Errorf("bus: %w: want %d bytes, got %d", ErrRAMSize, len(r.data), len(data))
	}
	copy(r.data, data)
	r.dirty = false
	return nil
}

// Randomise fills the RAM using the supplied function. Used to create an
// unknown power-on state.
func (r *RamBank) Randomise(fill func([]uint8)) {
	fill(r.data)
}

// Clear sets every byte of RAM to zero.
func (r *RamBank) Clear() {
	clear(r.data)
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (r *RamBank) MarshalBinary() ([]byte, error) {
	return r.Data(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface. The
// dirty flag is set for battery backed RAM because the contents may differ
// from what was last saved.
func (r *RamBank) UnmarshalBinary(data []byte) error {
	if err := r.Load(data); err != nil {
		return err
	}
	r.dirty = r.battery
	return nil
}

// RegisterWindow is a device whose reads and writes are handled by a
// mapper. It is typically installed over the ROM area of a cartridge, where
// reads return data from the currently selected banks and writes update the
// bank registers.
type RegisterWindow struct {
	label  string
	origin uint16
	read   func(address uint16) uint8
	write  func(address uint16, data uint8)
}

// NewRegisterWindow is the preferred method of initialisation for the
// RegisterWindow type. The read function must be free of side effects. The
// functions receive absolute addresses.
func NewRegisterWindow(label string, origin uint16, read func(uint16) uint8, write func(uint16, uint8)) *RegisterWindow {
	return &RegisterWindow{
		label:  label,
		origin: origin,
		read:   read,
		write:  write,
	}
}

func (r *RegisterWindow) String() string {
	return r.label
}

// Read implements the Device interface.
func (r *RegisterWindow) Read(offset uint16) uint8 {
	return r.read(r.origin + offset)
}

// Write implements the Device interface.
func (r *RegisterWindow) Write(offset uint16, data uint8) {
	r.write(r.origin+offset, data)
}

// Peek implements the Peeker interface.
func (r *RegisterWindow) Peek(offset uint16) uint8 {
	return r.read(r.origin + offset)
}

// Registers is implemented by the chips behind an IoPort. Addresses are
// absolute.
type Registers interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, data uint8)

	// PeekRegister must not cause side effects. For example, reading a status
	// register that is cleared on read.
	PeekRegister(address uint16) uint8
}

// IoPort connects the registers of a chip to the bus. Addresses inside the
// range are masked before being passed to the chip, allowing a small
// register file to be mirrored across a larger range.
type IoPort struct {
	label  string
	origin uint16
	mask   uint16
	regs   Registers
}

// NewIoPort is the preferred method of initialisation for the IoPort type. A
// mask of 0xffff means no mirroring.
func NewIoPort(label string, origin uint16, mask uint16, regs Registers) *IoPort {
	return &IoPort{
		label:  label,
		origin: origin,
		mask:   mask,
		regs:   regs,
	}
}

func (p *IoPort) String() string {
	return p.label
}

func (p *IoPort) address(offset uint16) uint16 {
	return p.origin + offset&p.mask
}

// Read implements the Device interface.
func (p *IoPort) Read(offset uint16) uint8 {
	return p.regs.ReadRegister(p.address(offset))
}

// Write implements the Device interface.
func (p *IoPort) Write(offset uint16, data uint8) {
	p.regs.WriteRegister(p.address(offset), data)
}

// Peek implements the Peeker interface.
func (p *IoPort) Peek(offset uint16) uint8 {
	return p.regs.PeekRegister(p.address(offset))
}
