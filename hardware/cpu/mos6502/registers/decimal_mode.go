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

package registers

// AddDecimal adds value to register as though both registers are decimal
// representations. Returns new carry state, zero, overflow, sign bit
// information.
//
// The zero flag is that of the equivalent binary addition. The sign and
// overflow flags are computed after the adjustment of the low nibble but
// before the adjustment of the high nibble.
func (r *Register) AddDecimal(val uint8, carry bool) (bool, bool, bool, bool) {
	a := r.value
	c := boolToUint8(carry)

	zero := a+val+c == 0

	lo := (a & 0x0f) + (val & 0x0f) + c
	if lo > 0x09 {
		lo += 0x06
	}

	hi := uint16(a>>4) + uint16(val>>4)
	if lo > 0x0f {
		hi++
	}

	sign := hi&0x08 == 0x08
	overflow := (uint8(hi<<4)^a)&0x80 != 0 && (a^val)&0x80 == 0

	if hi > 0x09 {
		hi += 0x06
	}

	r.value = uint8(hi<<4) | (lo & 0x0f)

	return hi > 0x0f, zero, overflow, sign
}

func subtractDecimal(a, b uint8, borrow bool) (r uint8, rborrow bool) {
	r = a - b
	if borrow {
		r--
	}
	return r, b > a || borrow && b == a
}

// SubtractDecimal subtracts value from register as though both registers are
// decimal representations. Returns new carry state, zero, overflow, sign bit
// information. The flags other than carry are those of the equivalent binary
// subtraction.
func (r *Register) SubtractDecimal(val uint8, carry bool) (bool, bool, bool, bool) {
	bin := *r
	_, overflow := bin.Subtract(val, carry)

	var ucarry, tcarry bool

	// the carry flag is an inverted borrow
	borrow := !carry

	runits := r.value & 0x0f
	vunits := val & 0x0f
	runits, ucarry = subtractDecimal(runits, vunits, borrow)

	rtens := (r.value & 0xf0) >> 4
	vtens := (val & 0xf0) >> 4
	rtens, tcarry = subtractDecimal(rtens, vtens, ucarry)

	if ucarry {
		runits += 10
	}
	if tcarry {
		rtens += 10
	}

	r.value = ((rtens & 0x0f) << 4) | (runits & 0x0f)

	return !tcarry, bin.IsZero(), overflow, bin.IsNegative()
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
