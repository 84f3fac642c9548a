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

package scheduler_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockstep-emu/lockstep/hardware/cpu"
	"github.com/lockstep-emu/lockstep/hardware/scheduler"
	"github.com/lockstep-emu/lockstep/hardware/television"
)

// fakeCore returns cycle counts from a repeating pattern.
type fakeCore struct {
	pattern []int
	idx     int
	cycles  uint64
	resets  int

	// called before every step with the number of steps taken so far
	onStep func(n int) error
	steps  int
}

func (c *fakeCore) Reset() {
	c.resets++
	c.idx = 0
}

func (c *fakeCore) Step() (int, error) {
	if c.onStep != nil {
		if err := c.onStep(c.steps); err != nil {
			return 0, err
		}
	}
	c.steps++
	n := c.pattern[c.idx%len(c.pattern)]
	c.idx++
	c.cycles += uint64(n)
	return n, nil
}

func (c *fakeCore) Halted() bool                      { return false }
func (c *fakeCore) Cycles() uint64                    { return c.cycles }
func (c *fakeCore) SetCycles(cycles uint64)           { c.cycles = cycles }
func (c *fakeCore) ProgramCounter() uint16            { return uint16(c.idx) }
func (c *fakeCore) String() string                    { return fmt.Sprintf("fake %d", c.idx) }
func (c *fakeCore) SetHooks(cpu.Hooks)                {}
func (c *fakeCore) MarshalBinary() ([]byte, error)    { return nil, nil }
func (c *fakeCore) UnmarshalBinary(data []byte) error { return nil }

func (c *fakeCore) Snapshot() cpu.Core {
	n := *c
	return &n
}

type fakeVideo struct {
	rendering bool
	events    []television.Event
}

func (v *fakeVideo) Scanline(ev television.Event) {
	v.events = append(v.events, ev)
}

func (v *fakeVideo) RenderingEnabled() bool {
	return v.rendering
}

type fakeMapper struct {
	count int
}

func (m *fakeMapper) NotifyScanline() {
	m.count++
}

type fakeAudio struct {
	cycles int
	calls  int
}

func (a *fakeAudio) Cycles(n int) {
	a.cycles += n
	a.calls++
}

func newTV(t *testing.T, spec string) *television.Television {
	t.Helper()
	tv, err := television.NewTelevision(spec)
	require.NoError(t, err)
	return tv
}

func TestDriftBounds(t *testing.T) {
	patterns := [][]int{
		{4},
		{2, 7, 3, 5},
		{7, 7, 2},
		{1, 6, 2, 3, 4, 5, 7},
	}

	for _, spec := range []string{"DMG", "NES", "NES-PAL", "SMS"} {
		for _, pattern := range patterns {
			t.Run(fmt.Sprintf("%s %v", spec, pattern), func(t *testing.T) {
				tv := newTV(t, spec)
				core := &fakeCore{pattern: pattern}
				sch := scheduler.NewScheduler(core, tv, nil, nil, nil)

				maxInstr := 0
				for _, p := range pattern {
					maxInstr = max(maxInstr, p)
				}

				div := uint64(tv.Spec().ClocksPerCPUCycle)
				budget := uint64(tv.Spec().ClocksPerScanline)

				for _, n := range []int{1, 3, 10, 100} {
					sch.Reset()
					tv.Reset()

					done, err := sch.RunQuanta(n)
					require.NoError(t, err)
					require.Equal(t, n, done)

					lower := uint64(n) * budget
					upper := lower + uint64(maxInstr)*div - 1
					assert.GreaterOrEqual(t, sch.Clocks(), lower)
					assert.LessOrEqual(t, sch.Clocks(), upper)
					assert.Equal(t, sch.CPUCycles()*div, sch.Clocks())
					assert.Less(t, sch.Carry(), maxInstr*int(div))
				}
			})
		}
	}
}

func TestExactDrift(t *testing.T) {
	// 456 is divisible by 4 so there is never any carry
	tv := newTV(t, "DMG")
	sch := scheduler.NewScheduler(&fakeCore{pattern: []int{4}}, tv, nil, nil, nil)

	_, err := sch.RunQuanta(154)
	require.NoError(t, err)
	assert.Equal(t, uint64(154*456), sch.Clocks())
	assert.Equal(t, 0, sch.Carry())
}

func TestRunFrame(t *testing.T) {
	tv := newTV(t, "NES")
	video := &fakeVideo{rendering: true}
	mapper := &fakeMapper{}
	audio := &fakeAudio{}
	sch := scheduler.NewScheduler(&fakeCore{pattern: []int{2, 3, 4}}, tv, video, audio, mapper)

	res, err := sch.RunFrame()
	require.NoError(t, err)
	assert.False(t, res.Aborted)
	assert.Equal(t, 1, res.Frame)
	assert.Equal(t, 262, res.Scanlines)
	assert.Len(t, video.events, 262)

	// visible scanlines plus the pre-render scanline
	assert.Equal(t, 241, mapper.count)

	assert.Equal(t, 262, audio.calls)
	assert.Equal(t, sch.CPUCycles(), uint64(audio.cycles))
	assert.Equal(t, res.CPUCycles, sch.CPUCycles())
	assert.Equal(t, res.Clocks, sch.Clocks())

	var vblank int
	for _, ev := range video.events {
		if ev.VBlankStart {
			vblank++
		}
	}
	assert.Equal(t, 1, vblank)

	res, err = sch.RunFrame()
	require.NoError(t, err)
	assert.Equal(t, 2, res.Frame)
	assert.Equal(t, 262, res.Scanlines)
}

func TestRenderingDisabled(t *testing.T) {
	tv := newTV(t, "NES")
	mapper := &fakeMapper{}
	sch := scheduler.NewScheduler(&fakeCore{pattern: []int{3}}, tv, &fakeVideo{}, nil, mapper)

	_, err := sch.RunFrame()
	require.NoError(t, err)
	assert.Equal(t, 0, mapper.count)
}

func TestHookError(t *testing.T) {
	errBreak := errors.New("breakpoint")

	tv := newTV(t, "DMG")
	core := &fakeCore{pattern: []int{4}}
	core.onStep = func(n int) error {
		if n == 1000 {
			core.onStep = nil
			return errBreak
		}
		return nil
	}
	sch := scheduler.NewScheduler(core, tv, nil, nil, nil)

	res, err := sch.RunFrame()
	require.Error(t, err)
	assert.ErrorIs(t, err, errBreak)
	assert.Equal(t, uint64(4000), sch.CPUCycles())

	// 114 steps per scanline. the break occurs partway through the ninth
	// scanline
	assert.Equal(t, 8, res.Scanlines)
	assert.Equal(t, 1000-8*114, sch.Carry()/4)

	// resuming the frame completes the interrupted quantum
	res, err = sch.RunFrame()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Frame)
	assert.Equal(t, 154-8, res.Scanlines)
	assert.Equal(t, uint64(154*456), sch.Clocks())
}

func TestAbort(t *testing.T) {
	tv := newTV(t, "NES")
	core := &fakeCore{pattern: []int{3}}
	video := &fakeVideo{rendering: true}
	sch := scheduler.NewScheduler(core, tv, video, nil, nil)

	_, err := sch.RunQuanta(10)
	require.NoError(t, err)
	clocks := sch.Clocks()
	cycles := sch.CPUCycles()

	core.onStep = func(_ int) error {
		sch.Abort()
		return nil
	}

	res, err := sch.RunFrame()
	require.NoError(t, err)
	assert.True(t, res.Aborted)

	// partial quantum was discarded. the beam is back at the start of the
	// first frame but the counters agree with each other
	assert.Equal(t, clocks, sch.Clocks())
	assert.Equal(t, cycles, sch.CPUCycles())
	assert.Equal(t, cycles, core.Cycles())
	assert.Equal(t, 1, core.resets)
	assert.Equal(t, television.State{Total: clocks}, tv.State())
	assert.Len(t, video.events, 10)

	// the abort flag does not persist
	core.onStep = nil
	res, err = sch.RunFrame()
	require.NoError(t, err)
	assert.False(t, res.Aborted)
	assert.Equal(t, 1, res.Frame)
}

func TestAbortBeforeRun(t *testing.T) {
	tv := newTV(t, "SMS")
	core := &fakeCore{pattern: []int{11}}
	sch := scheduler.NewScheduler(core, tv, nil, nil, nil)

	sch.Abort()
	done, err := sch.RunQuanta(5)
	require.NoError(t, err)
	assert.Equal(t, 0, done)
	assert.Equal(t, uint64(0), sch.Clocks())
	assert.Equal(t, 0, core.steps)
}

func TestZeroCycleCore(t *testing.T) {
	tv := newTV(t, "DMG")
	sch := scheduler.NewScheduler(&fakeCore{pattern: []int{0}}, tv, nil, nil, nil)

	done, err := sch.RunQuanta(2)
	require.NoError(t, err)
	assert.Equal(t, 2, done)
	assert.Equal(t, uint64(2*456), sch.Clocks())
}

type failingTrigger struct{}

func (failingTrigger) NewFrame(int) error {
	return errors.New("trigger")
}

func TestFrameTriggerError(t *testing.T) {
	tv := newTV(t, "DMG")
	tv.AddFrameTrigger(failingTrigger{})
	sch := scheduler.NewScheduler(&fakeCore{pattern: []int{4}}, tv, nil, nil, nil)

	res, err := sch.RunFrame()
	require.Error(t, err)
	assert.Equal(t, 154, res.Scanlines)

	// the quantum was completed so the next frame runs from the start
	tv.Reset()
	_, err = sch.RunQuanta(1)
	require.NoError(t, err)
	assert.Equal(t, 1, tv.State().Scanline)
}

func TestSerialisation(t *testing.T) {
	tv := newTV(t, "NES")
	sch := scheduler.NewScheduler(&fakeCore{pattern: []int{2, 5}}, tv, nil, nil, nil)

	_, err := sch.RunQuanta(17)
	require.NoError(t, err)

	data, err := sch.MarshalBinary()
	require.NoError(t, err)

	other := scheduler.NewScheduler(&fakeCore{pattern: []int{2, 5}}, newTV(t, "NES"), nil, nil, nil)
	require.NoError(t, other.UnmarshalBinary(data))
	assert.Equal(t, sch.Clocks(), other.Clocks())
	assert.Equal(t, sch.CPUCycles(), other.CPUCycles())

	require.Error(t, other.UnmarshalBinary([]byte("garbage")))
}
