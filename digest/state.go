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

package digest

import (
	"crypto/sha1"
	"fmt"

	"github.com/lockstep-emu/lockstep/hardware"
)

// Snapshot returns the SHA-1 of the console's current snapshot.
func Snapshot(con *hardware.Console) (string, error) {
	d, err := con.Snapshot()
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return fmt.Sprintf("%x", sha1.Sum(d)), nil
}

// RunFor runs the console for the number of frames and returns the digest of
// the resulting state.
func RunFor(con *hardware.Console, frames int) (string, error) {
	if err := con.RunForFrameCount(frames, nil); err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return Snapshot(con)
}
