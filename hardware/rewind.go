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
)

// ErrRewindUnavailable is returned by RewindTo() when there is no snapshot
// for the requested frame.
var ErrRewindUnavailable = errors.New("rewind frame not available")

// the maximum number of steps to store before the earliest steps are
// forgotten.
const maxRewindSteps = 100

type rewindStep struct {
	frame int
	data  []byte
}

// rewind keeps a snapshot of the console at the start of recent frames.
type rewind struct {
	con   *Console
	steps []rewindStep

	// the number of steps to keep. zero if rewind is disabled
	limit int

	// a new frame has been triggered. resolve as soon as the frame has
	// completed
	newFrame bool
}

func newRewind(con *Console) *rewind {
	return &rewind{
		con: con,
	}
}

// NewFrame implements the television.FrameTrigger interface. The snapshot
// cannot be taken here because the scanline is still being completed.
func (r *rewind) NewFrame(_ int) error {
	r.newFrame = r.limit > 0
	return nil
}

func (r *rewind) reset() {
	r.steps = r.steps[:0]
	r.newFrame = false
}

// resolve a new frame by taking a snapshot.
func (r *rewind) resolve() error {
	if !r.newFrame {
		return nil
	}
	r.newFrame = false

	d, err := r.con.Snapshot()
	if err != nil {
		return fmt.Errorf("rewind: %w", err)
	}

	if len(r.steps) >= r.limit {
		n := copy(r.steps, r.steps[len(r.steps)-r.limit+1:])
		r.steps = r.steps[:n]
	}
	r.steps = append(r.steps, rewindStep{
		frame: r.con.TV.State().Frame,
		data:  d,
	})

	return nil
}

// SetRewind sets the number of frames that can be rewound. A value of zero
// disables rewinding. Any existing rewind history is forgotten.
func (con *Console) SetRewind(frames int) {
	con.rewind.limit = min(max(frames, 0), maxRewindSteps)
	con.rewind.reset()
}

// RewindFrames returns the frame numbers that can be rewound to, earliest
// first.
func (con *Console) RewindFrames() []int {
	f := make([]int, len(con.rewind.steps))
	for i, s := range con.rewind.steps {
		f[i] = s.frame
	}
	return f
}

// RewindTo restores the console to the start of the frame. History after the
// frame is forgotten.
func (con *Console) RewindTo(frame int) error {
	for i, s := range con.rewind.steps {
		if s.frame != frame {
			continue
		}
		if err := con.restore(s.data); err != nil {
			return err
		}
		con.rewind.steps = con.rewind.steps[:i+1]
		con.rewind.newFrame = false
		return nil
	}
	return fmt.Errorf("hardware: %w: %d", ErrRewindUnavailable, frame)
}
