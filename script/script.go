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

package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/lockstep-emu/lockstep/hardware"
	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/memory/bus"
)

// ErrBreak is returned through the emulation when an instruction hook asks
// for the emulation to be interrupted.
var ErrBreak = errors.New("script break")

// name of the global table.
const consoleTable = "console"

// Script is a Lua state bound to a console.
type Script struct {
	con *hardware.Console
	L   *lua.LState

	instruction *lua.LFunction
	illegal     *lua.LFunction
	openBus     *lua.LFunction

	// the first error raised by a hook that cannot return an error itself
	hookErr error
}

// NewScript is the preferred method of initialisation for the Script type.
func NewScript(con *hardware.Console) *Script {
	s := &Script{
		con: con,
		L:   lua.NewState(),
	}

	tbl := s.L.NewTable()
	s.L.SetFuncs(tbl, map[string]lua.LGFunction{
		"peek":           s.peek,
		"poke":           s.poke,
		"read":           s.read,
		"write":          s.write,
		"pc":             s.pc,
		"cycles":         s.cycles,
		"frame":          s.frame,
		"scanline":       s.scanline,
		"platform":       s.platform,
		"reset":          s.reset,
		"reset_button":   s.resetButton,
		"run_frames":     s.runFrames,
		"step":           s.step,
		"snapshot":       s.snapshot,
		"restore":        s.restore,
		"log":            s.log,
		"on_instruction": s.onInstruction,
		"on_illegal":     s.onIllegal,
		"on_open_bus":    s.onOpenBus,
	})
	s.L.SetGlobal(consoleTable, tbl)

	return s
}

// Close the Lua state and remove any hooks from the console.
func (s *Script) Close() {
	s.instruction = nil
	s.illegal = nil
	s.openBus = nil
	s.install()
	s.L.Close()
}

// DoString runs the Lua source.
func (s *Script) DoString(source string) error {
	if err := s.L.DoString(source); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// DoFile runs the Lua file.
func (s *Script) DoFile(filename string) error {
	if err := s.L.DoFile(filename); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// Global returns the value of the global variable in the Lua state.
func (s *Script) Global(name string) lua.LValue {
	return s.L.GetGlobal(name)
}

// HookError returns and clears the first error raised by an illegal or open
// bus hook.
func (s *Script) HookError() error {
	err := s.hookErr
	s.hookErr = nil
	return err
}

func (s *Script) install() {
	var cpuHooks cpu.Hooks
	var busHooks bus.Hooks

	if s.instruction != nil {
		cpuHooks.Instruction = s.instructionHook
	}
	if s.illegal != nil {
		cpuHooks.Illegal = s.illegalHook
	}
	if s.openBus != nil {
		busHooks.OpenBus = s.openBusHook
	}

	s.con.SetHooks(cpuHooks, busHooks)
}

func (s *Script) call(fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	err := s.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return lua.LNil, fmt.Errorf("script: %w", err)
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)
	return ret, nil
}

func (s *Script) instructionHook(address uint16, opcode uint16) error {
	ret, err := s.call(s.instruction, lua.LNumber(address), lua.LNumber(opcode))
	if err != nil {
		return err
	}
	if lua.LVAsBool(ret) {
		return ErrBreak
	}
	return nil
}

func (s *Script) illegalHook(address uint16, opcode uint16) {
	if _, err := s.call(s.illegal, lua.LNumber(address), lua.LNumber(opcode)); err != nil && s.hookErr == nil {
		s.hookErr = err
	}
}

func (s *Script) openBusHook(address uint16) {
	if _, err := s.call(s.openBus, lua.LNumber(address)); err != nil && s.hookErr == nil {
		s.hookErr = err
	}
}

// returns the function argument or nil if the argument is nil.
func optFunction(L *lua.LState, n int) *lua.LFunction {
	if L.Get(n) == lua.LNil {
		return nil
	}
	return L.CheckFunction(n)
}

func (s *Script) onInstruction(L *lua.LState) int {
	s.instruction = optFunction(L, 1)
	s.install()
	return 0
}

func (s *Script) onIllegal(L *lua.LState) int {
	s.illegal = optFunction(L, 1)
	s.install()
	return 0
}

func (s *Script) onOpenBus(L *lua.LState) int {
	s.openBus = optFunction(L, 1)
	s.install()
	return 0
}
