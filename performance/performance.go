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

package performance

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lockstep-emu/lockstep/govern"
	"github.com/lockstep-emu/lockstep/hardware"
	"github.com/lockstep-emu/lockstep/performance/limiter"
)

// sentinal error returned by Run() loop.
var timedOut = errors.New("performance timed out")

// the period before measurement begins. allows the frame rate to settle.
var leadTime = 2 * time.Second

// Check the performance of the emulator using the supplied console.
//
// Emulation will run for the specified duration and will create a cpu, memory
// profile, a trace (or a combination of those) as defined by the Profile
// argument. If capped is true the emulation is limited to the frame rate of
// the console's television specification.
func Check(output io.Writer, profile Profile, con *hardware.Console, capped bool, duration string) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	if dur <= 0 {
		return fmt.Errorf("performance: duration must be positive")
	}

	spec := con.TV.Spec()

	var lim *limiter.Limiter
	if capped {
		lim = limiter.NewLimiter(spec.FramesPerSecond)
		defer lim.Stop()
	}

	// get starting frame number
	startFrame := con.TV.State().Frame

	runner := func() error {
		// signals false when the lead time has elapsed and measurement
		// should start. signals true when the measurement period is over
		timerChan := make(chan bool, 2)

		time.AfterFunc(leadTime, func() {
			timerChan <- false
			time.AfterFunc(dur, func() {
				timerChan <- true
			})
		})

		// checking the timerChan every frame is relatively expensive
		performanceBrake := 0

		return con.Run(func() (govern.State, error) {
			if lim != nil {
				lim.Wait()
			}

			performanceBrake++
			if performanceBrake < hardware.PerformanceBrake {
				return govern.Running, nil
			}
			performanceBrake = 0

			select {
			case v := <-timerChan:
				if v {
					return govern.Ending, timedOut
				}
				startFrame = con.TV.State().Frame
			default:
			}

			return govern.Running, nil
		})
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil && !errors.Is(err, timedOut) {
		return fmt.Errorf("performance: %w", err)
	}

	numFrames := con.TV.State().Frame - startFrame
	fps, accuracy := CalcFPS(spec, numFrames, dur.Seconds())
	fmt.Fprintf(output, "%.2f fps (%d frames in %.2f seconds) %.1f%%\n", fps, numFrames, dur.Seconds(), accuracy)

	return nil
}
