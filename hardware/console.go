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
	"errors"
	"fmt"

	"github.com/lockstep-emu/lockstep/environment"
	"github.com/lockstep-emu/lockstep/hardware/apu"
	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
	"github.com/lockstep-emu/lockstep/hardware/memory/cartridge"
	"github.com/lockstep-emu/lockstep/hardware/scheduler"
	"github.com/lockstep-emu/lockstep/hardware/television"
	"github.com/lockstep-emu/lockstep/hardware/video/lcd"
	"github.com/lockstep-emu/lockstep/hardware/video/ppu"
	"github.com/lockstep-emu/lockstep/hardware/video/vdp"
	"github.com/lockstep-emu/lockstep/logger"
)

// the video chip of every platform can be reset and is serialisable.
type videoChip interface {
	scheduler.Video
	Reset()
}

// named work RAM. the name is used as the section name in a snapshot.
type namedRAM struct {
	name string
	bank *bus.RamBank
}

// Console is the root of the emulation. It owns every component of one
// platform and nothing is shared between consoles.
type Console struct {
	env *environment.Environment

	// the canonical platform ID. one of the Platform constants
	Platform string

	TV        *television.Television
	Bus       *bus.Bus
	CPU       cpu.Core
	Cart      *cartridge.Cartridge
	Scheduler *scheduler.Scheduler

	// the video and audio chips. only the chips used by the platform are
	// non-nil
	PPU *ppu.PPU
	VDP *vdp.VDP
	LCD *lcd.LCD
	APU *apu.APU

	lines *cpu.Lines
	ram   []namedRAM

	video videoChip
	audio *apu.APU

	// debugging hooks supplied by SetHooks()
	hooks cpu.Hooks

	// instruction stepping. see Step()
	stepping   bool
	stepBudget int

	rewind *rewind
}

// NewConsole creates a console for the platform and inserts the cartridge.
// If platform is empty it is chosen from the format of the cartridge image
// and the DefaultPlatform preference.
//
// The environment may be nil, in which case logging is always allowed and
// the RandomState preference is treated as false.
func NewConsole(env *environment.Environment, platform string, img *cartridge.Image) (*Console, error) {
	def := PlatformNES
	if env != nil {
		def = env.Prefs.DefaultPlatform.String()
	}

	var err error

	con := &Console{
		env:   env,
		lines: cpu.NewLines(),
	}

	con.Platform, err = resolvePlatform(platform, img, def)
	if err != nil {
		return nil, err
	}

	con.TV, err = television.NewTelevision(con.Platform)
	if err != nil {
		return nil, fmt.Errorf("hardware: %w", err)
	}
	if env != nil {
		env.SetBeam(con.TV)
	}

	con.Bus = bus.NewBus(env)

	con.Cart, err = cartridge.NewCartridge(env, img, con.lines)
	if err != nil {
		return nil, fmt.Errorf("hardware: %w", err)
	}

	if err := con.attach(); err != nil {
		return nil, err
	}

	var audio scheduler.Audio
	if con.audio != nil {
		audio = con.audio
	}
	con.Scheduler = scheduler.NewScheduler(con.CPU, con.TV, con.video, audio, con.Cart.Mapper())

	con.rewind = newRewind(con)
	con.TV.AddFrameTrigger(con.rewind)

	con.SetHooks(cpu.Hooks{}, bus.Hooks{})
	con.Reset()

	logger.Logf(con.logPermission(), "hardware", "%s console with %s", con.Platform, con.Cart)

	return con, nil
}

func (con *Console) String() string {
	return fmt.Sprintf("%s: %s", con.Platform, con.CPU)
}

func (con *Console) logPermission() logger.Permission {
	if con.env == nil {
		return logger.Allow
	}
	return con.env
}

// Lines returns the interrupt inputs of the CPU. The reset button of the
// front-end is Set(cpu.Reset, cpu.SourceButton) and the pause button of the
// Master System is Set(cpu.NMI, cpu.SourceButton).
func (con *Console) Lines() *cpu.Lines {
	return con.lines
}

// SetHooks attaches debugging hooks to the CPU and the bus. Zero value hooks
// remove any previously attached hooks.
func (con *Console) SetHooks(cpuHooks cpu.Hooks, busHooks bus.Hooks) {
	con.hooks = cpuHooks
	con.CPU.SetHooks(cpu.Hooks{
		Instruction: con.instructionHook,
		Illegal:     cpuHooks.Illegal,
	})
	con.Bus.SetHooks(busHooks)
}

// errStepped is used to interrupt the scheduler at the end of an instruction
// when stepping.
var errStepped = errors.New("instruction step")

func (con *Console) instructionHook(address uint16, opcode uint16) error {
	if con.stepping {
		if con.stepBudget == 0 {
			return errStepped
		}
		con.stepBudget--
	}
	if con.hooks.Instruction != nil {
		return con.hooks.Instruction(address, opcode)
	}
	return nil
}

// Reset emulates a power cycle. Work RAM and cartridge RAM that is not
// battery backed are cleared or randomised according to the RandomState
// preference. Battery backed RAM is preserved.
func (con *Console) Reset() {
	con.lines.Reset()
	con.Cart.Reset()

	random := con.env != nil && con.env.Prefs.RandomState.Get().(bool)
	for _, r := range con.ram {
		if random {
			r.bank.Randomise(con.env.Random.Fill)
		} else {
			r.bank.Clear()
		}
	}

	con.video.Reset()
	if con.audio != nil {
		con.audio.Reset()
	}

	con.TV.Reset()
	con.Scheduler.Reset()
	con.CPU.Reset()
	con.CPU.SetCycles(0)
	con.rewind.reset()
}

// ResetButton requests a reset of the CPU. The reset happens at the start of
// the next instruction. RAM and the video and audio chips are not affected.
func (con *Console) ResetButton() {
	con.lines.Set(cpu.Reset, cpu.SourceButton)
}
