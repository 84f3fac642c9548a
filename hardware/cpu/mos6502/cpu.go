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

package mos6502

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/lockstep-emu/lockstep/environment"
	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/cpu/mos6502/execution"
	"github.com/lockstep-emu/lockstep/hardware/cpu/mos6502/instructions"
	"github.com/lockstep-emu/lockstep/hardware/cpu/mos6502/registers"
	"github.com/lockstep-emu/lockstep/logger"
)

// Interrupt vectors.
const (
	NMIVector   = uint16(0xfffa)
	ResetVector = uint16(0xfffc)
	IRQVector   = uint16(0xfffe)
)

// number of cycles taken by the reset and interrupt sequences.
const interruptCycles = 7

// CPU implements the 6502. Register logic is implemented by the Register
// type in the registers sub-package.
type CPU struct {
	env *environment.Environment

	PC     registers.ProgramCounter
	A      registers.Register
	X      registers.Register
	Y      registers.Register
	SP     registers.StackPointer
	Status registers.StatusRegister

	// some operations only need an accumulator
	acc8 registers.Register

	mem          cpu.Memory
	lines        *cpu.Lines
	hooks        cpu.Hooks
	instructions []*instructions.Definition

	// the 2A03 ignores the decimal flag for ADC and SBC
	NoDecimal bool

	// the result of the most recent call to Step()
	LastResult execution.Result

	// total cycles consumed
	cycles uint64

	// number of cycles the CPU is held for before the next instruction
	stall int

	// the cpu has encountered a KIL instruction. requires a Reset()
	Killed bool
}

// NewCPU is the preferred method of initialisation for the CPU type. The env
// argument can be nil, in which case the CPU will always reset to a zero
// state.
func NewCPU(env *environment.Environment, mem cpu.Memory, lines *cpu.Lines) *CPU {
	if lines == nil {
		lines = cpu.NewLines()
	}
	return &CPU{
		env:          env,
		mem:          mem,
		lines:        lines,
		PC:           registers.NewProgramCounter(0),
		A:            registers.NewRegister(0, "A"),
		X:            registers.NewRegister(0, "X"),
		Y:            registers.NewRegister(0, "Y"),
		SP:           registers.NewStackPointer(0),
		acc8:         registers.NewRegister(0, "accumulator"),
		instructions: instructions.GetDefinitions(),
	}
}

// Snapshot creates a copy of the CPU in its current state.
func (mc *CPU) Snapshot() cpu.Core {
	n := *mc
	return &n
}

func (mc *CPU) String() string {
	return fmt.Sprintf("%s=%s %s=%s %s=%s %s=%s %s=%s %s=%s",
		mc.PC.Label(), mc.PC, mc.A.Label(), mc.A,
		mc.X.Label(), mc.X, mc.Y.Label(), mc.Y,
		mc.SP.Label(), mc.SP, mc.Status.Label(), mc.Status)
}

// SetHooks implements the cpu.Core interface.
func (mc *CPU) SetHooks(hooks cpu.Hooks) {
	mc.hooks = hooks
}

// Halted implements the cpu.Core interface. The CPU is only halted by a KIL
// instruction.
func (mc *CPU) Halted() bool {
	return mc.Killed
}

// Cycles implements the cpu.Core interface.
func (mc *CPU) Cycles() uint64 {
	return mc.cycles
}

// SetCycles implements the cpu.Core interface.
func (mc *CPU) SetCycles(cycles uint64) {
	mc.cycles = cycles
}

// CurrentCycle returns the cycle count including the cycles consumed so far
// by the instruction being executed. Devices that are written to during an
// instruction use this to find the parity of the current cycle.
func (mc *CPU) CurrentCycle() uint64 {
	if mc.LastResult.Final {
		return mc.cycles
	}
	return mc.cycles + uint64(mc.LastResult.Cycles)
}

// ProgramCounter implements the cpu.Core interface.
func (mc *CPU) ProgramCounter() uint16 {
	return mc.PC.Address()
}

// Stall holds the CPU for the number of cycles before the next instruction.
// Used by DMA.
func (mc *CPU) Stall(cycles int) {
	mc.stall += cycles
}

// Reset reinitialises all registers and loads the PC with the reset vector.
func (mc *CPU) Reset() {
	mc.LastResult.Reset()
	mc.Killed = false
	mc.stall = 0

	// checking for env == nil because it's possible for NewCPU to be called
	// with a nil environment (test package)
	if mc.env != nil && mc.env.Prefs.RandomState.Get().(bool) {
		mc.A.Load(uint8(mc.env.Random.Intn(0x100)))
		mc.X.Load(uint8(mc.env.Random.Intn(0x100)))
		mc.Y.Load(uint8(mc.env.Random.Intn(0x100)))
	} else {
		mc.A.Load(0)
		mc.X.Load(0)
		mc.Y.Load(0)
	}

	mc.SP.Load(0xfd)
	mc.Status.Reset()
	mc.Status.InterruptDisable = true

	lo := mc.mem.Read(ResetVector)
	hi := mc.mem.Read(ResetVector + 1)
	mc.PC.Load((uint16(hi) << 8) | uint16(lo))
}

// LoadPC loads the contents of directAddress into the PC.
func (mc *CPU) LoadPC(directAddress uint16) {
	mc.PC.Load(directAddress)
}

// read8Bit returns 8bit value from the specified address.
func (mc *CPU) read8Bit(address uint16) uint8 {
	// +1 cycle
	mc.LastResult.Cycles++
	return mc.mem.Read(address)
}

// phantomRead is a read made by the CPU whose value is discarded. it still
// takes a cycle and is still visible to devices on the bus.
func (mc *CPU) phantomRead(address uint16) {
	_ = mc.read8Bit(address)
}

// write8Bit writes 8 bits to the specified address.
func (mc *CPU) write8Bit(address uint16, value uint8) {
	// +1 cycle
	mc.LastResult.Cycles++
	mc.mem.Write(address, value)
}

// read16Bit returns 16bit value from the specified address.
func (mc *CPU) read16Bit(address uint16) uint16 {
	lo := mc.read8Bit(address)
	hi := mc.read8Bit(address + 1)
	return (uint16(hi) << 8) | uint16(lo)
}

// read16BitZeroPage returns a 16bit value from the zero page. the pointer
// wraps around within the zero page.
func (mc *CPU) read16BitZeroPage(address uint8) uint16 {
	if address == 0xff {
		mc.LastResult.CPUBug = execution.ZeroPagePointerBug
	}
	lo := mc.read8Bit(uint16(address))
	hi := mc.read8Bit(uint16(address + 1))
	return (uint16(hi) << 8) | uint16(lo)
}

// push a value onto the stack and decrement the stack pointer.
func (mc *CPU) push(value uint8) {
	mc.write8Bit(mc.SP.Address(), value)
	mc.SP.Add(0xff, false)
}

// increment the stack pointer and pull a value from the stack.
func (mc *CPU) pull() uint8 {
	mc.SP.Add(1, false)
	return mc.read8Bit(mc.SP.Address())
}

// read 8bits from the PC location has a variety of additional side-effects
// depending on context.
type read8BitPCeffect int

const (
	brk read8BitPCeffect = iota
	newOpcode
	loNibble
	hiNibble
)

// read8BitPC reads 8 bits from the memory location pointed to by PC
//
// side-effects:
//   - updates program counter
//   - updates LastResult.ByteCount
//   - additional side effect updates LastResult as appropriate
func (mc *CPU) read8BitPC(effect read8BitPCeffect) uint8 {
	v := mc.read8Bit(mc.PC.Address())
	mc.PC.Add(1)

	// bump the number of bytes read during instruction decode
	mc.LastResult.ByteCount++

	switch effect {
	case brk:
		// BRK advances the PC by two but the padding byte is not part of
		// the instruction
		mc.LastResult.ByteCount--

	case newOpcode:
		mc.LastResult.Defn = mc.instructions[v]

	case loNibble:
		mc.LastResult.InstructionData = uint16(v)

	case hiNibble:
		mc.LastResult.InstructionData = (uint16(v) << 8) | mc.LastResult.InstructionData
	}

	return v
}

// read16BitPC reads 16 bits from the memory location pointed to by PC
func (mc *CPU) read16BitPC() {
	mc.read8BitPC(loNibble)
	mc.read8BitPC(hiNibble)
}

// interrupt performs the interrupt sequence, taking seven cycles. the status
// register is pushed without the break bit.
func (mc *CPU) interrupt(vector uint16, kind execution.Interrupt) {
	mc.LastResult.Interrupt = kind

	// the opcode fetch is performed and discarded
	mc.phantomRead(mc.PC.Address())
	mc.phantomRead(mc.PC.Address())

	mc.push(uint8(mc.PC.Address() >> 8))
	mc.push(uint8(mc.PC.Address()))
	mc.push(mc.Status.Value())
	mc.Status.InterruptDisable = true

	mc.PC.Load(mc.read16Bit(vector))
}

// finalise the LastResult and add the cycles to the running total.
func (mc *CPU) finalise() int {
	mc.LastResult.Final = true
	mc.cycles += uint64(mc.LastResult.Cycles)
	return mc.LastResult.Cycles
}

// Step implements the cpu.Core interface. The interrupt lines are sampled
// before the next instruction is fetched: a reset request takes precedence,
// then a pending NMI and finally the IRQ line if interrupts are not
// disabled.
func (mc *CPU) Step() (int, error) {
	mc.LastResult.Reset()
	mc.LastResult.Address = mc.PC.Address()

	if mc.lines.TakeReset() {
		mc.Reset()
		mc.LastResult.Interrupt = execution.Reset
		mc.LastResult.Cycles = interruptCycles
		return mc.finalise(), nil
	}

	if mc.stall > 0 {
		mc.LastResult.Stalled = mc.stall
		mc.LastResult.Cycles = mc.stall
		mc.stall = 0
		return mc.finalise(), nil
	}

	// a killed CPU makes no progress but the clock still ticks
	if mc.Killed {
		mc.LastResult.Cycles = 1
		return mc.finalise(), nil
	}

	if mc.lines.TakeNMI() {
		mc.interrupt(NMIVector, execution.NMI)
		return mc.finalise(), nil
	}

	if mc.lines.IRQ() != 0 && !mc.Status.InterruptDisable {
		mc.interrupt(IRQVector, execution.IRQ)
		return mc.finalise(), nil
	}

	if mc.hooks.Instruction != nil {
		opcode := cpu.PeekOpcode(mc.mem, mc.PC.Address())
		if err := mc.hooks.Instruction(mc.PC.Address(), uint16(opcode)); err != nil {
			return 0, err
		}
	}

	mc.executeInstruction()

	defn := mc.LastResult.Defn
	if defn.Undocumented {
		if mc.hooks.Illegal != nil {
			mc.hooks.Illegal(mc.LastResult.Address, uint16(defn.OpCode))
		}
		if defn.Operator == instructions.KIL {
			logger.Logf(mc.logPermission(), "mos6502", "KIL instruction (%#02x) at %#04x", defn.OpCode, mc.LastResult.Address)
		}
	}

	return mc.finalise(), nil
}

func (mc *CPU) logPermission() logger.Permission {
	if mc.env == nil {
		return logger.Allow
	}
	return mc.env
}

// the serialisable state of the CPU.
type cpuState struct {
	PC        uint16
	A         uint8
	X         uint8
	Y         uint8
	SP        uint8
	Status    uint8
	Cycles    uint64
	Stall     int
	Killed    bool
	NoDecimal bool
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (mc *CPU) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	err := gob.NewEncoder(&b).Encode(cpuState{
		PC:        mc.PC.Address(),
		A:         mc.A.Value(),
		X:         mc.X.Value(),
		Y:         mc.Y.Value(),
		SP:        mc.SP.Value(),
		Status:    mc.Status.Value(),
		Cycles:    mc.cycles,
		Stall:     mc.stall,
		Killed:    mc.Killed,
		NoDecimal: mc.NoDecimal,
	})
	if err != nil {
		return nil, fmt.Errorf("mos6502: %w", err)
	}
	return b.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (mc *CPU) UnmarshalBinary(data []byte) error {
	var s cpuState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("mos6502: %w", err)
	}
	mc.PC.Load(s.PC)
	mc.A.Load(s.A)
	mc.X.Load(s.X)
	mc.Y.Load(s.Y)
	mc.SP.Load(s.SP)
	mc.Status.Load(s.Status)
	mc.cycles = s.Cycles
	mc.stall = s.Stall
	mc.Killed = s.Killed
	mc.NoDecimal = s.NoDecimal
	mc.LastResult.Reset()
	return nil
}
