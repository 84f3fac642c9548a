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

package z80

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/lockstep-emu/lockstep/environment"
	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/logger"
)

// Fixed addresses used by the interrupt and reset sequences.
const (
	ResetAddress = uint16(0x0000)
	IM1Address   = uint16(0x0038)
	NMIAddress   = uint16(0x0066)
)

// T-states used by the interrupt and reset sequences.
const (
	resetCycles = 3
	nmiCycles   = 11
	im0Cycles   = 13
	im1Cycles   = 13
	im2Cycles   = 19
	haltCycles  = 4
)

// the value on the data bus during an interrupt acknowledge cycle. no device
// on the supported platforms drives the bus, so it floats high. in IM 0 this
// is the opcode for RST $38.
const idleBus = uint8(0xff)

// IO is the I/O address space of the Z80, accessed with the IN and OUT
// instructions. The full 16 bit port address is passed to the IO
// implementation.
type IO interface {
	In(port uint16) uint8
	Out(port uint16, data uint8)
}

// floating is used when the CPU is created without an IO implementation.
type floating struct{}

func (floating) In(uint16) uint8 {
	return idleBus
}

func (floating) Out(uint16, uint8) {}

// CPU implements the Z80.
type CPU struct {
	env   *environment.Environment
	mem   cpu.Memory
	io    IO
	lines *cpu.Lines
	hooks cpu.Hooks

	A, F, B, C, D, E, H, L uint8

	// the alternate register set
	AltAF, AltBC, AltDE, AltHL uint16

	IX, IY uint16
	SP, PC uint16
	I, R   uint8

	// interrupt mode (0, 1 or 2) and the interrupt flip-flops
	IM   uint8
	IFF1 bool
	IFF2 bool

	halted bool

	// interrupts are not accepted in the instruction following EI
	eiDelay bool

	// the last step ended with a DD or FD prefix that is followed by another
	// prefix. interrupts are not accepted until the prefixed instruction
	// completes
	prefixed bool

	cycles uint64

	// T-states consumed by the current step
	t int

	// index register selected by a DD or FD prefix for the current
	// instruction
	idx indexMode

	// set by an undefined opcode during the current instruction
	illegal       bool
	illegalOpcode uint16
}

// NewCPU is the preferred method of initialisation for the CPU type. The env
// argument can be nil, in which case the CPU will always reset to a zero
// state. If io is nil then all ports read as $FF and writes are ignored.
func NewCPU(env *environment.Environment, mem cpu.Memory, io IO, lines *cpu.Lines) *CPU {
	if io == nil {
		io = floating{}
	}
	if lines == nil {
		lines = cpu.NewLines()
	}
	return &CPU{
		env:   env,
		mem:   mem,
		io:    io,
		lines: lines,
	}
}

func (c *CPU) String() string {
	return fmt.Sprintf("PC=%#04x SP=%#04x AF=%#04x BC=%#04x DE=%#04x HL=%#04x IX=%#04x IY=%#04x I=%#02x IM=%d IFF=%v",
		c.PC, c.SP, c.AF(), c.BC(), c.DE(), c.HL(), c.IX, c.IY, c.I, c.IM, c.IFF1)
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

// Halted implements the cpu.Core interface. The CPU is halted by the HALT
// instruction and leaves the halt state when an interrupt is accepted.
func (c *CPU) Halted() bool {
	return c.halted
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

// Reset implements the cpu.Core interface.
func (c *CPU) Reset() {
	c.PC = ResetAddress
	c.I = 0
	c.R = 0
	c.IM = 0
	c.IFF1 = false
	c.IFF2 = false
	c.halted = false
	c.eiDelay = false
	c.prefixed = false
	c.SP = 0xffff
	c.SetAF(0xffff)

	if c.env != nil && c.env.Prefs.RandomState.Get().(bool) {
		c.SetBC(uint16(c.env.Random.Intn(0x10000)))
		c.SetDE(uint16(c.env.Random.Intn(0x10000)))
		c.SetHL(uint16(c.env.Random.Intn(0x10000)))
		c.IX = uint16(c.env.Random.Intn(0x10000))
		c.IY = uint16(c.env.Random.Intn(0x10000))
	} else {
		c.SetBC(0)
		c.SetDE(0)
		c.SetHL(0)
		c.IX = 0
		c.IY = 0
	}
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

// the memory refresh register counts opcode fetches. bit 7 is only changed
// by LD R,A.
func (c *CPU) incR() {
	c.R = c.R&0x80 | (c.R+1)&0x7f
}

// fetchOpcode is an M1 cycle.
func (c *CPU) fetchOpcode() uint8 {
	c.incR()
	return c.fetch()
}

func (c *CPU) fetch() uint8 {
	v := c.read(c.PC)
	c.PC++
	return v
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

// memOperand returns the address of the (HL) operand. With an index prefix
// the displacement byte is read and the address is (IX+d) or (IY+d).
func (c *CPU) memOperand() uint16 {
	if c.idx == noIndex {
		return c.HL()
	}
	d := int8(c.fetch())
	c.t += 8
	return c.hl() + uint16(int16(d))
}

// memOperandImm is like memOperand but for LD (HL),n, where the
// displacement fetch overlaps with the fetch of the immediate value.
func (c *CPU) memOperandImm() uint16 {
	if c.idx == noIndex {
		return c.HL()
	}
	d := int8(c.fetch())
	c.t += 5
	return c.hl() + uint16(int16(d))
}

func (c *CPU) nmi() {
	c.incR()
	c.halted = false
	c.eiDelay = false
	c.IFF1 = false
	c.push16(c.PC)
	c.PC = NMIAddress
	c.t = nmiCycles
}

func (c *CPU) irq() {
	c.incR()
	c.halted = false
	c.IFF1 = false
	c.IFF2 = false

	switch c.IM {
	case 0:
		// the instruction on the data bus is executed. it is always RST $38
		c.push16(c.PC)
		c.PC = uint16(idleBus & 0x38)
		c.t = im0Cycles
	case 1:
		c.push16(c.PC)
		c.PC = IM1Address
		c.t = im1Cycles
	default:
		c.push16(c.PC)
		c.PC = c.read16(uint16(c.I)<<8 | uint16(idleBus))
		c.t = im2Cycles
	}
}

// peekOpcode returns the opcode at the PC for the Instruction hook. prefixed
// opcodes are returned as prefix<<8 | opcode.
func (c *CPU) peekOpcode() uint16 {
	op := uint16(cpu.PeekOpcode(c.mem, c.PC))
	switch op {
	case 0xcb, 0xdd, 0xed, 0xfd:
		op = op<<8 | uint16(cpu.PeekOpcode(c.mem, c.PC+1))
	}
	return op
}

func (c *CPU) finalise() int {
	c.cycles += uint64(c.t)
	return c.t
}

// Step implements the cpu.Core interface. A reset request takes precedence,
// then a pending NMI and finally the IRQ line if interrupts are enabled.
func (c *CPU) Step() (int, error) {
	c.t = 0
	c.idx = noIndex
	c.illegal = false

	if c.lines.TakeReset() {
		c.Reset()
		c.t = resetCycles
		return c.finalise(), nil
	}

	prefixed := c.prefixed
	c.prefixed = false

	if !prefixed && c.lines.TakeNMI() {
		c.nmi()
		return c.finalise(), nil
	}

	delayed := c.eiDelay
	c.eiDelay = false

	if !delayed && !prefixed && c.IFF1 && c.lines.IRQ() != 0 {
		c.irq()
		return c.finalise(), nil
	}

	if c.halted {
		c.incR()
		c.t = haltCycles
		return c.finalise(), nil
	}

	address := c.PC

	if c.hooks.Instruction != nil {
		if err := c.hooks.Instruction(address, c.peekOpcode()); err != nil {
			c.eiDelay = delayed
			c.prefixed = prefixed
			return 0, err
		}
	}

	baseOps[c.fetchOpcode()](c)

	if c.illegal {
		if c.hooks.Illegal != nil {
			c.hooks.Illegal(address, c.illegalOpcode)
		}
		logger.Logf(c.logPermission(), "z80", "undefined opcode %#04x at %#04x", c.illegalOpcode, address)
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
	AF, BC, DE, HL             uint16
	AltAF, AltBC, AltDE, AltHL uint16
	IX, IY, SP, PC             uint16
	I, R, IM                   uint8
	IFF1, IFF2                 bool
	Halted                     bool
	EIDelay                    bool
	Prefixed                   bool
	Cycles                     uint64
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (c *CPU) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	err := gob.NewEncoder(&b).Encode(cpuState{
		AF: c.AF(), BC: c.BC(), DE: c.DE(), HL: c.HL(),
		AltAF: c.AltAF, AltBC: c.AltBC, AltDE: c.AltDE, AltHL: c.AltHL,
		IX: c.IX, IY: c.IY, SP: c.SP, PC: c.PC,
		I: c.I, R: c.R, IM: c.IM,
		IFF1: c.IFF1, IFF2: c.IFF2,
		Halted:   c.halted,
		EIDelay:  c.eiDelay,
		Prefixed: c.prefixed,
		Cycles:   c.cycles,
	})
	if err != nil {
		return nil, fmt.Errorf("z80: %w", err)
	}
	return b.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (c *CPU) UnmarshalBinary(data []byte) error {
	var s cpuState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("z80: %w", err)
	}
	c.SetAF(s.AF)
	c.SetBC(s.BC)
	c.SetDE(s.DE)
	c.SetHL(s.HL)
	c.AltAF, c.AltBC, c.AltDE, c.AltHL = s.AltAF, s.AltBC, s.AltDE, s.AltHL
	c.IX, c.IY, c.SP, c.PC = s.IX, s.IY, s.SP, s.PC
	c.I, c.R, c.IM = s.I, s.R, s.IM
	c.IFF1, c.IFF2 = s.IFF1, s.IFF2
	c.halted = s.Halted
	c.eiDelay = s.EIDelay
	c.prefixed = s.Prefixed
	c.cycles = s.Cycles
	return nil
}
