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

package execution

import (
	"errors"
	"fmt"
)

// ErrNotFinal is returned by IsValid() if the result is incomplete.
var ErrNotFinal = errors.New("execution not finalised")

// IsValid checks whether the instance of Result contains information
// consistent with the instruction definition.
func (r Result) IsValid() error {
	if !r.Final {
		return fmt.Errorf("cpu: %w", ErrNotFinal)
	}

	// interrupts and stalls have no definition to check against
	if r.Defn == nil {
		return nil
	}

	if !r.Defn.PageSensitive && !r.Defn.IsBranch() && r.PageFault {
		return fmt.Errorf("cpu: unexpected page fault for opcode %#02x [%s]", r.Defn.OpCode, r.Defn.Mnemonic)
	}

	if r.ByteCount != r.Defn.Bytes {
		return fmt.Errorf("cpu: unexpected number of bytes read during decode for opcode %#02x [%s] (%d instead of %d)",
			r.Defn.OpCode, r.Defn.Mnemonic, r.ByteCount, r.Defn.Bytes)
	}

	expected := r.Defn.Cycles
	if r.Defn.IsBranch() {
		if r.BranchSuccess {
			expected++
		}
		if r.PageFault {
			expected++
		}
	} else if r.PageFault {
		expected++
	}

	if r.Cycles != expected {
		return fmt.Errorf("cpu: number of cycles wrong for opcode %#02x [%s] (%d instead of %d)",
			r.Defn.OpCode, r.Defn.Mnemonic, r.Cycles, expected)
	}

	return nil
}
