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

	lua "github.com/yuin/gopher-lua"

	"github.com/lockstep-emu/lockstep/logger"
)

func checkAddress(L *lua.LState, n int) uint16 {
	a := L.CheckInt(n)
	if a < 0 || a > 0xffff {
		L.ArgError(n, "address out of range")
	}
	return uint16(a)
}

func checkByte(L *lua.LState, n int) uint8 {
	v := L.CheckInt(n)
	if v < 0 || v > 0xff {
		L.ArgError(n, "value out of range")
	}
	return uint8(v)
}

func (s *Script) peek(L *lua.LState) int {
	v, err := s.con.Bus.Peek(checkAddress(L, 1))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (s *Script) poke(L *lua.LState) int {
	if err := s.con.Bus.Poke(checkAddress(L, 1), checkByte(L, 2)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (s *Script) read(L *lua.LState) int {
	L.Push(lua.LNumber(s.con.Bus.Read(checkAddress(L, 1))))
	return 1
}

func (s *Script) write(L *lua.LState) int {
	s.con.Bus.Write(checkAddress(L, 1), checkByte(L, 2))
	return 0
}

func (s *Script) pc(L *lua.LState) int {
	L.Push(lua.LNumber(s.con.CPU.ProgramCounter()))
	return 1
}

func (s *Script) cycles(L *lua.LState) int {
	L.Push(lua.LNumber(s.con.CPU.Cycles()))
	return 1
}

func (s *Script) frame(L *lua.LState) int {
	L.Push(lua.LNumber(s.con.TV.State().Frame))
	return 1
}

func (s *Script) scanline(L *lua.LState) int {
	L.Push(lua.LNumber(s.con.TV.State().Scanline))
	return 1
}

func (s *Script) platform(L *lua.LState) int {
	L.Push(lua.LString(s.con.Platform))
	return 1
}

func (s *Script) reset(L *lua.LState) int {
	s.con.Reset()
	return 0
}

func (s *Script) resetButton(L *lua.LState) int {
	s.con.ResetButton()
	return 0
}

func (s *Script) runFrames(L *lua.LState) int {
	n := L.CheckInt(1)

	var count int
	for count < n {
		if _, err := s.con.RunFrame(); err != nil {
			if errors.Is(err, ErrBreak) {
				L.Push(lua.LNumber(count))
				L.Push(lua.LTrue)
				return 2
			}
			L.RaiseError("%v", err)
		}
		count++
	}

	L.Push(lua.LNumber(count))
	L.Push(lua.LFalse)
	return 2
}

func (s *Script) step(L *lua.LState) int {
	if err := s.con.Step(); err != nil {
		if errors.Is(err, ErrBreak) {
			L.Push(lua.LTrue)
			return 1
		}
		L.RaiseError("%v", err)
	}
	L.Push(lua.LFalse)
	return 1
}

func (s *Script) snapshot(L *lua.LState) int {
	d, err := s.con.Snapshot()
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LString(d))
	return 1
}

func (s *Script) restore(L *lua.LState) int {
	if err := s.con.Restore([]byte(L.CheckString(1))); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (s *Script) log(L *lua.LState) int {
	logger.Log(logger.Allow, L.CheckString(1), L.CheckString(2))
	return 0
}
