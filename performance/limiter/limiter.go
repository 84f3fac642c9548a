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

// Package limiter provides a rough and ready way of limiting events to a fixed
// rate.
//
// A new Limiter can be created with:
//
//	lim := limiter.NewLimiter(60)
//	defer lim.Stop()
//
// Operations can then be stalled with the Wait() function. For example:
//
//	for {
//		lim.Wait()
//		runFrame()
//	}
package limiter

import (
	"time"
)

// Limiter will trigger at the requested rate.
type Limiter struct {
	ticker *time.Ticker
	rate   float32
}

// NewLimiter is the preferred method of initialisation for the Limiter type.
// A rate of zero or less disables the limit.
func NewLimiter(rate float32) *Limiter {
	lim := &Limiter{}
	lim.SetLimit(rate)
	return lim
}

func period(rate float32) time.Duration {
	return time.Duration(float64(time.Second) / float64(rate))
}

// SetLimit changes the limit at which the Limiter waits.
func (lim *Limiter) SetLimit(rate float32) {
	lim.rate = rate
	if rate <= 0 {
		lim.Stop()
		lim.ticker = nil
		return
	}
	if lim.ticker == nil {
		lim.ticker = time.NewTicker(period(rate))
		return
	}
	lim.ticker.Reset(period(rate))
}

// Limit returns the current rate.
func (lim *Limiter) Limit() float32 {
	return lim.rate
}

// Wait will block until the next trigger. Returns immediately if the limit
// has been disabled.
func (lim *Limiter) Wait() {
	if lim.ticker == nil {
		return
	}
	<-lim.ticker.C
}

// HasWaited will return true if the trigger has already happened and false
// if it is still yet to happen.
func (lim *Limiter) HasWaited() bool {
	if lim.ticker == nil {
		return true
	}
	select {
	case <-lim.ticker.C:
		return true
	default:
		return false
	}
}

// Stop the limiter. Wait() will block forever after Stop() unless SetLimit()
// is used to start it again.
func (lim *Limiter) Stop() {
	if lim.ticker != nil {
		lim.ticker.Stop()
	}
}
