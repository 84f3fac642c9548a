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

package scheduler

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/television"
)

// ErrNoProgress is returned by RunFrame() if a frame could not complete
// within the expected number of quanta.
var ErrNoProgress = errors.New("frame did not complete")

// Video chips are told about the end of every scanline.
type Video interface {
	Scanline(ev television.Event)
	RenderingEnabled() bool
}

// Notifier is implemented by cartridge mappers that count scanlines.
type Notifier interface {
	NotifyScanline()
}

// Audio chips are clocked once per quantum with the number of CPU cycles
// executed during that quantum.
type Audio interface {
	Cycles(n int)
}

// FrameResult summarises a call to RunFrame().
type FrameResult struct {
	// the frame number that the television has moved to
	Frame int

	// number of quanta (scanlines) executed
	Scanlines int

	CPUCycles uint64
	Clocks    uint64

	// the frame was interrupted by Abort(). the CPU and television have
	// been reset
	Aborted bool
}

func (r FrameResult) String() string {
	if r.Aborted {
		return fmt.Sprintf("frame %d: aborted", r.Frame)
	}
	return fmt.Sprintf("frame %d: %d scanlines, %d cycles, %d clocks", r.Frame, r.Scanlines, r.CPUCycles, r.Clocks)
}

// Scheduler drives a single console. The zero value is not usable. Use
// NewScheduler().
type Scheduler struct {
	core  cpu.Core
	tv    *television.Television
	video Video
	audio Audio
	notif Notifier

	// master clocks per CPU cycle
	div int

	// running counters
	clocks    uint64
	cpuCycles uint64

	// counters at the start of the current quantum. used when abandoning
	// a quantum on Abort()
	quantumClocks    uint64
	quantumCPUCycles uint64

	// cpu cycles executed so far in the current quantum. a quantum that
	// was interrupted by a hook error is resumed by the next call to
	// RunFrame() or RunQuanta()
	inQuantum  bool
	quantumRun int

	abort atomic.Bool
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type. The video, audio and notifier arguments may be nil.
func NewScheduler(core cpu.Core, tv *television.Television, video Video, audio Audio, notif Notifier) *Scheduler {
	return &Scheduler{
		core:  core,
		tv:    tv,
		video: video,
		audio: audio,
		notif: notif,
		div:   max(1, tv.Spec().ClocksPerCPUCycle),
	}
}

func (sch *Scheduler) String() string {
	return fmt.Sprintf("clocks=%d cycles=%d carry=%d", sch.clocks, sch.cpuCycles, sch.Carry())
}

// SetCore changes the core being driven. Used when a snapshot is restored
// into a console.
func (sch *Scheduler) SetCore(core cpu.Core) {
	sch.core = core
}

// Clocks returns the number of master clocks consumed.
func (sch *Scheduler) Clocks() uint64 {
	return sch.clocks
}

// CPUCycles returns the number of CPU cycles executed.
func (sch *Scheduler) CPUCycles() uint64 {
	return sch.cpuCycles
}

// Carry returns the number of master clocks that the current quantum has
// already consumed, either as overshoot from the previous quantum or because
// the quantum was interrupted.
func (sch *Scheduler) Carry() int {
	return sch.tv.State().Clock
}

// Abort the frame currently being run. Safe to call from any goroutine.
func (sch *Scheduler) Abort() {
	sch.abort.Store(true)
}

// Reset the counters of the scheduler. The CPU and television are not reset
// but their counters must be reset by the caller.
func (sch *Scheduler) Reset() {
	sch.clocks = 0
	sch.cpuCycles = 0
	sch.quantumClocks = 0
	sch.quantumCPUCycles = 0
	sch.inQuantum = false
	sch.quantumRun = 0
	sch.abort.Store(false)
}

// abandon the current quantum and put the CPU and television into their
// reset state. the counters of the scheduler, the core and the television
// are all wound back to the start of the quantum.
func (sch *Scheduler) abandon() {
	sch.abort.Store(false)
	sch.clocks = sch.quantumClocks
	sch.cpuCycles = sch.quantumCPUCycles
	sch.inQuantum = false
	sch.quantumRun = 0
	sch.core.Reset()
	sch.core.SetCycles(sch.cpuCycles)
	sch.tv.Reset()
	sch.tv.SetTotal(sch.clocks)
}

// quantum runs (or resumes) a single quantum. Returns true if the quantum was
// abandoned because of a call to Abort().
func (sch *Scheduler) quantum() (television.Event, bool, error) {
	if !sch.inQuantum {
		sch.inQuantum = true
		sch.quantumRun = 0
		sch.quantumClocks = sch.clocks
		sch.quantumCPUCycles = sch.cpuCycles
	}

	budget := sch.tv.Spec().ClocksPerScanline

	for sch.tv.State().Clock < budget {
		if sch.abort.Load() {
			sch.abandon()
			return television.Event{}, true, nil
		}

		c, err := sch.core.Step()
		if err != nil {
			return television.Event{}, false, fmt.Errorf("scheduler: %w", err)
		}

		// a core that reports no cycles would never finish the quantum
		if c <= 0 {
			c = 1
		}

		sch.quantumRun += c
		sch.cpuCycles += uint64(c)
		sch.clocks += uint64(c * sch.div)
		sch.tv.Advance(c * sch.div)
	}

	ev, err := sch.tv.StepScanline()
	if err != nil {
		// the quantum is complete even if the frame trigger failed
		sch.inQuantum = false
		return ev, false, fmt.Errorf("scheduler: %w", err)
	}

	if sch.video != nil {
		sch.video.Scanline(ev)
	}

	if sch.notif != nil && ev.Rendered && (sch.video == nil || sch.video.RenderingEnabled()) {
		sch.notif.NotifyScanline()
	}

	if sch.audio != nil {
		sch.audio.Cycles(sch.quantumRun)
	}

	sch.inQuantum = false

	return ev, false, nil
}

// RunFrame runs quanta until the television begins a new frame.
func (sch *Scheduler) RunFrame() (FrameResult, error) {
	startClocks := sch.clocks
	startCycles := sch.cpuCycles

	// generous upper limit on the number of quanta in a frame. a frame
	// with more quanta than this means the television is misconfigured
	limit := sch.tv.Spec().ScanlinesTotal * 2

	var res FrameResult

	for range limit {
		ev, aborted, err := sch.quantum()
		if aborted {
			res.Aborted = true
			res.Frame = sch.tv.State().Frame
			return res, nil
		}

		// a quantum interrupted by a hook error is not counted until it has
		// been resumed and completed
		if !sch.inQuantum {
			res.Scanlines++
		}
		res.Frame = sch.tv.State().Frame
		res.Clocks = sch.clocks - startClocks
		res.CPUCycles = sch.cpuCycles - startCycles

		if err != nil {
			return res, err
		}

		if ev.NewFrame {
			return res, nil
		}
	}

	return res, fmt.Errorf("scheduler: %w", ErrNoProgress)
}

// RunQuanta runs exactly n quanta, regardless of frame boundaries. Returns
// the number of quanta completed.
func (sch *Scheduler) RunQuanta(n int) (int, error) {
	for i := range n {
		_, aborted, err := sch.quantum()
		if aborted {
			return i, nil
		}
		if err != nil {
			return i, err
		}
	}
	return n, nil
}

type schedulerState struct {
	Clocks           uint64
	CPUCycles        uint64
	QuantumClocks    uint64
	QuantumCPUCycles uint64
	InQuantum        bool
	QuantumRun       int
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The
// carry is part of the television state.
func (sch *Scheduler) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	err := gob.NewEncoder(&b).Encode(schedulerState{
		Clocks:           sch.clocks,
		CPUCycles:        sch.cpuCycles,
		QuantumClocks:    sch.quantumClocks,
		QuantumCPUCycles: sch.quantumCPUCycles,
		InQuantum:        sch.inQuantum,
		QuantumRun:       sch.quantumRun,
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	return b.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (sch *Scheduler) UnmarshalBinary(data []byte) error {
	var s schedulerState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	sch.clocks = s.Clocks
	sch.cpuCycles = s.CPUCycles
	sch.quantumClocks = s.QuantumClocks
	sch.quantumCPUCycles = s.QuantumCPUCycles
	sch.inQuantum = s.InQuantum
	sch.quantumRun = s.QuantumRun
	return nil
}
