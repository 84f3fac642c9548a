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

	"github.com/lockstep-emu/lockstep/govern"
	"github.com/lockstep-emu/lockstep/hardware/scheduler"
)

// It can be expensive to do a full continue check after every frame or
// instruction.
//
// PerformanceBrake is a standard value that can be used to filter out
// expensive code paths within a continueCheck() implementation. For example:
//
//	performanceFilter++
//	if performanceFilter >= hardware.PerformanceBrake {
//		performanceFilter = 0
//		if end_condition == true {
//			return govern.Ending, nil
//		}
//	}
//	return govern.Running, nil
const PerformanceBrake = 100

// ErrUnsupportedState is returned by Run() when the continue check returns
// a state that the run loop cannot handle.
var ErrUnsupportedState = errors.New("unsupported emulation state")

// RunFrame runs the emulation until the end of the current frame.
func (con *Console) RunFrame() (scheduler.FrameResult, error) {
	res, err := con.Scheduler.RunFrame()
	if err != nil {
		return res, fmt.Errorf("hardware: %w", err)
	}
	if err := con.rewind.resolve(); err != nil {
		return res, err
	}
	return res, nil
}

// Run sets the emulation running as quickly as possible. The continueCheck
// function is called at the end of every frame. A nil continueCheck runs
// the emulation until an error occurs.
func (con *Console) Run(continueCheck func() (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	var err error

	state := govern.Running

	for state != govern.Ending {
		switch state {
		case govern.Running:
			if _, err := con.RunFrame(); err != nil {
				return err
			}
		case govern.Stepping:
			if err := con.Step(); err != nil {
				return err
			}
		case govern.Paused:
		default:
			return fmt.Errorf("hardware: %w: %s", ErrUnsupportedState, state)
		}

		state, err = continueCheck()
		if err != nil {
			return err
		}
	}

	return nil
}

// RunForFrameCount runs the emulation for the specified number of frames.
// Useful for FPS and regression tests.
func (con *Console) RunForFrameCount(numFrames int, continueCheck func(frame int) (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func(frame int) (govern.State, error) { return govern.Running, nil }
	}

	frameNum := con.TV.State().Frame
	targetFrame := frameNum + numFrames

	state := govern.Running
	for frameNum < targetFrame && state != govern.Ending {
		if _, err := con.RunFrame(); err != nil {
			return err
		}

		frameNum = con.TV.State().Frame

		var err error
		state, err = continueCheck(frameNum)
		if err != nil {
			return err
		}
	}

	return nil
}

// Step the emulation by one CPU instruction. Video and audio are advanced by
// the same amount as they would be when running.
//
// Stepping a halted CPU returns at the end of the current frame.
func (con *Console) Step() error {
	con.stepping = true
	con.stepBudget = 1
	defer func() {
		con.stepping = false
	}()

	for {
		halted := con.CPU.Halted()

		_, err := con.Scheduler.RunFrame()
		if errors.Is(err, errStepped) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("hardware: %w", err)
		}
		if err := con.rewind.resolve(); err != nil {
			return err
		}

		if halted {
			return nil
		}
	}
}
