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

package sm83

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/bits"

	"github.com/lockstep-emu/lockstep/environment"
	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/logger"
)

// Addresses of the interrupt registers.
const (
	IFAddress = uint16(0xff0f)
	IEAddress = uint16(0xffff)
)

// EntryPoint is the address of the first instruction of the cartridge. The
// boot ROM jumps here when it has finished.
const EntryPoint = uint16(0x0100)

// the interrupt vector of an interrupt source is VectorBase + 8*bit
const VectorBase = uint16(0x0040)

// T-states used by the interrupt and reset sequences.
const (
	resetCycles     = 4
	interruptCycles = 20
	idleCycles      = 4
)

// CPU implements the SM83.
type CPU struct {
	env   *environment.Environment
	mem   cpu.Memory
	lines *cpu.Lines
	hooks cpu.Hooks

	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16

	// interrupt master enable and interrupt enable register
	IME bool
	IE  uint8

	// EI enables interrupts after the following instruction
	eiPending bool

	halted  bool
	stopped bool

	// the byte following the HALT is read twice when HALT is executed with
	// IME clear and an interrupt pending
	haltBug bool

	cycles uint64

	// T-states consumed by the current step
	t int

	// set by an unused opcode during the current instruction
	illegal bool
}

// NewCPU is the preferred method of initialisation for the CPU type. The env
// argument can be nil.
func NewCPU(env *environment.Environment, mem cpu.Memory, lines *cpu.Lines) *CPU {
	if lines == nil {
		lines = cpu.NewLines()
	}
	return &CPU{
		env:   env,
		mem:   mem,
		lines: lines,
	}
}

func (c *CPU) String() string {
	return fmt.Sprintf("PC=%#04x SP=%#04x AF=%#04x BC=%#04x DE=%#04x HL=%#04x IME=%v IE=%#02x IF=%#02x",
		c.PC, c.SP, c.AF(), c.BC(), c.DE(), c.HL(), c.IME, c.IE, c.ReadIF())
}

// Snapshot implements the cpu.Core interface.
func (c *CPU) Snapshot() cpu.Core {
	n := *c
	return &n
}

// SetHooks implements the cpu.Core interface.
func (c *CPU) SetHooks(hooks cpu.Hooks) {
	c.hooks = hooks
}

// Halted implements the cpu.Core interface. True after HALT or STOP.
func (c *CPU) Halted() bool {
	return c.halted || c.stopped
}

// Cycles implements the cpu.Core interface.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// SetCycles implements the cpu.Core interface.
func (c *CPU) SetCycles(cycles uint64) {
	c.cycles = cycles
}

// ProgramCounter implements the cpu.Core interface.
func (c *CPU) ProgramCounter() uint16 {
	return c.PC
}

// Reset implements the cpu.Core interface. The registers are set to the
// values left by the DMG boot ROM, so the RandomState preference has no
// effect.
func (c *CPU) Reset() {
	c.SetAF(0x01b0)
	c.SetBC(0x0013)
	c.SetDE(0x00d8)
	c.SetHL(0x014d)
	c.SP = 0xfffe
	c.PC = EntryPoint
	c.IME = false
	c.IE = 0
	c.eiPending = false
	c.halted = false
	c.stopped = false
	c.haltBug = false
}

// ReadIF returns the value of the interrupt flag register. The upper three
// bits read as one.
func (c *CPU) ReadIF() uint8 {
	return 0xe0 | uint8(c.lines.IRQ()&cpu.SM83Sources)
}

// WriteIF sets and clears the SM83 interrupt sources.
func (c *CPU) WriteIF(v uint8) {
	set := cpu.Source(v) & cpu.SM83Sources
	c.lines.Set(cpu.IRQ, set)
	c.lines.Clear(cpu.IRQ, cpu.SM83Sources&^set)
}

// InterruptRegisters is the memory view of the IF and IE registers.
type InterruptRegisters struct {
	c *CPU
}

// InterruptRegisters returns the memory view of the IF and IE registers,
// suitable for attaching to the memory bus at IFAddress and IEAddress.
func (c *CPU) InterruptRegisters() InterruptRegisters {
	return InterruptRegisters{c: c}
}

// ReadRegister implements the bus.Registers interface.
func (r InterruptRegisters) ReadRegister(address uint16) uint8 {
	if address == IEAddress {
		return r.c.IE
	}
	return r.c.ReadIF()
}

// PeekRegister implements the bus.Registers interface.
func (r InterruptRegisters) PeekRegister(address uint16) uint8 {
	return r.ReadRegister(address)
}

// WriteRegister implements the bus.Registers interface.
func (r InterruptRegisters) WriteRegister(address uint16, data uint8) {
	if address == IEAddress {
		r.c.IE = data
		return
	}
	r.c.WriteIF(data)
}

// pending returns the enabled interrupt sources that have been requested.
func (c *CPU) pending() uint8 {
	return c.IE & uint8(c.lines.IRQ()&cpu.SM83Sources)
}

func (c *CPU) read(address uint16) uint8 {
	return c.mem.Read(address)
}

func (c *CPU) write(address uint16, data uint8) {
	c.mem.Write(address, data)
}

func (c *CPU) read16(address uint16) uint16 {
	lo := c.read(address)
	hi := c.read(address + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) write16(address uint16, data uint16) {
	c.write(address, uint8(data))
	c.write(address+1, uint8(data>>8))
}

func (c *CPU) fetch() uint8 {
	v := c.read(c.PC)
	c.PC++
	return v
}

// fetchOpcode is like fetch except for the HALT bug, which causes the PC to
// fail to increment.
func (c *CPU) fetchOpcode() uint8 {
	if c.haltBug {
		c.haltBug = false
		return c.read(c.PC)
	}
	return c.fetch()
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push16(v uint16) {
	c.SP--
	c.write(c.SP, uint8(v>>8))
	c.SP--
	c.write(c.SP, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.read(c.SP)
	c.SP++
	hi := c.read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// dispatch the highest priority pending interrupt. the lowest bit has the
// highest priority. the source is acknowledged by clearing it.
func (c *CPU) dispatch(pending uint8) {
	bit := bits.TrailingZeros8(pending)
	c.lines.Clear(cpu.IRQ, cpu.Source(1<<bit))
	c.IME = false
	c.push16(c.PC)
	c.PC = VectorBase + uint16(bit)*8
	c.t = interruptCycles
}

func (c *CPU) finalise() int {
	c.cycles += uint64(c.t)
	return c.t
}

// Step implements the cpu.Core interface. The SM83 has no NMI input and the
// NMI line is ignored.
func (c *CPU) Step() (int, error) {
	c.t = 0
	c.illegal = false

	if c.lines.TakeReset() {
		c.Reset()
		c.t = resetCycles
		return c.finalise(), nil
	}

	// STOP is left when any source is requested, whether it is enabled or not
	if c.stopped {
		if c.lines.IRQ()&cpu.SM83Sources == 0 {
			c.t = idleCycles
			return c.finalise(), nil
		}
		c.stopped = false
	}

	pending := c.pending()

	// HALT is left when an enabled source is requested, even if IME is clear
	if c.halted {
		if pending == 0 {
			c.t = idleCycles
			return c.finalise(), nil
		}
		c.halted = false
	}

	if c.IME && pending != 0 {
		c.dispatch(pending)
		return c.finalise(), nil
	}

	if c.hooks.Instruction != nil {
		op := uint16(cpu.PeekOpcode(c.mem, c.PC))
		if op == 0xcb {
			op = op<<8 | uint16(cpu.PeekOpcode(c.mem, c.PC+1))
		}
		if err := c.hooks.Instruction(c.PC, op); err != nil {
			return 0, err
		}
	}

	// the effect of a previous EI. the instruction being executed can still
	// cancel it with DI
	if c.eiPending {
		c.eiPending = false
		c.IME = true
	}

	address := c.PC
	op := c.fetchOpcode()
	baseOps[op](c)

	if c.illegal {
		if c.hooks.Illegal != nil {
			c.hooks.Illegal(address, uint16(op))
		}
		logger.Logf(c.logPermission(), "sm83", "unused opcode %#02x at %#04x", op, address)
	}

	return c.finalise(), nil
}

func (c *CPU) logPermission() logger.Permission {
	if c.env == nil {
		return logger.Allow
	}
	return c.env
}

// the serialisable state of the CPU.
type cpuState struct {
	AF, BC, DE, HL uint16
	SP, PC         uint16
	IME            bool
	IE             uint8
	EIPending      bool
	Halted         bool
	Stopped        bool
	HaltBug        bool
	Cycles         uint64
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (c *CPU) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	err := gob.NewEncoder(&b).Encode(cpuState{
		AF: c.AF(), BC: c.BC(), DE: c.DE(), HL: c.HL(),
		SP: c.SP, PC: c.PC,
		IME:       c.IME,
		IE:        c.IE,
		EIPending: c.eiPending,
		Halted:    c.halted,
		Stopped:   c.stopped,
		HaltBug:   c.haltBug,
		Cycles:    c.cycles,
	})
	if err != nil {
		return nil, fmt.Errorf("sm83: %w", err)
	}
	return b.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (c *CPU) UnmarshalBinary(data []byte) error {
	var s cpuState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("sm83: %w", err)
	}
	c.SetAF(s.AF)
	c.SetBC(s.BC)
	c.SetDE(s.DE)
	c.SetHL(s.HL)
	c.SP, c.PC = s.SP, s.PC
	c.IME = s.IME
	c.IE = s.IE
	c.eiPending = s.EIPending
	c.halted = s.Halted
	c.stopped = s.Stopped
	c.haltBug = s.HaltBug
	c.cycles = s.Cycles
	return nil
}
