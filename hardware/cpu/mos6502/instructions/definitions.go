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

package instructions

// the opcode table. the number of bytes and the mnemonic are derived from the
// addressing mode and operator.
var table = [256]struct {
	opcode        uint8
	operator      Operator
	mode          AddressingMode
	cycles        int
	pageSensitive bool
	effect        EffectCategory
}{
	{0x00, Brk, Implied, 7, false, Interrupt},
	{0x01, Ora, IndexedIndirect, 6, false, Read},
	{0x02, KIL, Implied, 2, false, Read},
	{0x03, SLO, IndexedIndirect, 8, false, RMW},
	{0x04, NOP, ZeroPage, 3, false, Read},
	{0x05, Ora, ZeroPage, 3, false, Read},
	{0x06, Asl, ZeroPage, 5, false, RMW},
	{0x07, SLO, ZeroPage, 5, false, RMW},
	{0x08, Php, Implied, 3, false, Write},
	{0x09, Ora, Immediate, 2, false, Read},
	{0x0a, Asl, Implied, 2, false, Read},
	{0x0b, ANC, Immediate, 2, false, Read},
	{0x0c, NOP, Absolute, 4, false, Read},
	{0x0d, Ora, Absolute, 4, false, Read},
	{0x0e, Asl, Absolute, 6, false, RMW},
	{0x0f, SLO, Absolute, 6, false, RMW},
	{0x10, Bpl, Relative, 2, false, Flow},
	{0x11, Ora, IndirectIndexed, 5, true, Read},
	{0x12, KIL, Implied, 2, false, Read},
	{0x13, SLO, IndirectIndexed, 8, false, RMW},
	{0x14, NOP, ZeroPageIndexedX, 4, false, Read},
	{0x15, Ora, ZeroPageIndexedX, 4, false, Read},
	{0x16, Asl, ZeroPageIndexedX, 6, false, RMW},
	{0x17, SLO, ZeroPageIndexedX, 6, false, RMW},
	{0x18, Clc, Implied, 2, false, Read},
	{0x19, Ora, AbsoluteIndexedY, 4, true, Read},
	{0x1a, NOP, Implied, 2, false, Read},
	{0x1b, SLO, AbsoluteIndexedY, 7, false, RMW},
	{0x1c, NOP, AbsoluteIndexedX, 4, true, Read},
	{0x1d, Ora, AbsoluteIndexedX, 4, true, Read},
	{0x1e, Asl, AbsoluteIndexedX, 7, false, RMW},
	{0x1f, SLO, AbsoluteIndexedX, 7, false, RMW},
	{0x20, Jsr, Absolute, 6, false, Subroutine},
	{0x21, And, IndexedIndirect, 6, false, Read},
	{0x22, KIL, Implied, 2, false, Read},
	{0x23, RLA, IndexedIndirect, 8, false, RMW},
	{0x24, Bit, ZeroPage, 3, false, Read},
	{0x25, And, ZeroPage, 3, false, Read},
	{0x26, Rol, ZeroPage, 5, false, RMW},
	{0x27, RLA, ZeroPage, 5, false, RMW},
	{0x28, Plp, Implied, 4, false, Read},
	{0x29, And, Immediate, 2, false, Read},
	{0x2a, Rol, Implied, 2, false, Read},
	{0x2b, ANC, Immediate, 2, false, Read},
	{0x2c, Bit, Absolute, 4, false, Read},
	{0x2d, And, Absolute, 4, false, Read},
	{0x2e, Rol, Absolute, 6, false, RMW},
	{0x2f, RLA, Absolute, 6, false, RMW},
	{0x30, Bmi, Relative, 2, false, Flow},
	{0x31, And, IndirectIndexed, 5, true, Read},
	{0x32, KIL, Implied, 2, false, Read},
	{0x33, RLA, IndirectIndexed, 8, false, RMW},
	{0x34, NOP, ZeroPageIndexedX, 4, false, Read},
	{0x35, And, ZeroPageIndexedX, 4, false, Read},
	{0x36, Rol, ZeroPageIndexedX, 6, false, RMW},
	{0x37, RLA, ZeroPageIndexedX, 6, false, RMW},
	{0x38, Sec, Implied, 2, false, Read},
	{0x39, And, AbsoluteIndexedY, 4, true, Read},
	{0x3a, NOP, Implied, 2, false, Read},
	{0x3b, RLA, AbsoluteIndexedY, 7, false, RMW},
	{0x3c, NOP, AbsoluteIndexedX, 4, true, Read},
	{0x3d, And, AbsoluteIndexedX, 4, true, Read},
	{0x3e, Rol, AbsoluteIndexedX, 7, false, RMW},
	{0x3f, RLA, AbsoluteIndexedX, 7, false, RMW},
	{0x40, Rti, Implied, 6, false, Interrupt},
	{0x41, Eor, IndexedIndirect, 6, false, Read},
	{0x42, KIL, Implied, 2, false, Read},
	{0x43, SRE, IndexedIndirect, 8, false, RMW},
	{0x44, NOP, ZeroPage, 3, false, Read},
	{0x45, Eor, ZeroPage, 3, false, Read},
	{0x46, Lsr, ZeroPage, 5, false, RMW},
	{0x47, SRE, ZeroPage, 5, false, RMW},
	{0x48, Pha, Implied, 3, false, Write},
	{0x49, Eor, Immediate, 2, false, Read},
	{0x4a, Lsr, Implied, 2, false, Read},
	{0x4b, ALR, Immediate, 2, false, Read},
	{0x4c, Jmp, Absolute, 3, false, Flow},
	{0x4d, Eor, Absolute, 4, false, Read},
	{0x4e, Lsr, Absolute, 6, false, RMW},
	{0x4f, SRE, Absolute, 6, false, RMW},
	{0x50, Bvc, Relative, 2, false, Flow},
	{0x51, Eor, IndirectIndexed, 5, true, Read},
	{0x52, KIL, Implied, 2, false, Read},
	{0x53, SRE, IndirectIndexed, 8, false, RMW},
	{0x54, NOP, ZeroPageIndexedX, 4, false, Read},
	{0x55, Eor, ZeroPageIndexedX, 4, false, Read},
	{0x56, Lsr, ZeroPageIndexedX, 6, false, RMW},
	{0x57, SRE, ZeroPageIndexedX, 6, false, RMW},
	{0x58, Cli, Implied, 2, false, Read},
	{0x59, Eor, AbsoluteIndexedY, 4, true, Read},
	{0x5a, NOP, Implied, 2, false, Read},
	{0x5b, SRE, AbsoluteIndexedY, 7, false, RMW},
	{0x5c, NOP, AbsoluteIndexedX, 4, true, Read},
	{0x5d, Eor, AbsoluteIndexedX, 4, true, Read},
	{0x5e, Lsr, AbsoluteIndexedX, 7, false, RMW},
	{0x5f, SRE, AbsoluteIndexedX, 7, false, RMW},
	{0x60, Rts, Implied, 6, false, Subroutine},
	{0x61, Adc, IndexedIndirect, 6, false, Read},
	{0x62, KIL, Implied, 2, false, Read},
	{0x63, RRA, IndexedIndirect, 8, false, RMW},
	{0x64, NOP, ZeroPage, 3, false, Read},
	{0x65, Adc, ZeroPage, 3, false, Read},
	{0x66, Ror, ZeroPage, 5, false, RMW},
	{0x67, RRA, ZeroPage, 5, false, RMW},
	{0x68, Pla, Implied, 4, false, Read},
	{0x69, Adc, Immediate, 2, false, Read},
	{0x6a, Ror, Implied, 2, false, Read},
	{0x6b, ARR, Immediate, 2, false, Read},
	{0x6c, Jmp, Indirect, 5, false, Flow},
	{0x6d, Adc, Absolute, 4, false, Read},
	{0x6e, Ror, Absolute, 6, false, RMW},
	{0x6f, RRA, Absolute, 6, false, RMW},
	{0x70, Bvs, Relative, 2, false, Flow},
	{0x71, Adc, IndirectIndexed, 5, true, Read},
	{0x72, KIL, Implied, 2, false, Read},
	{0x73, RRA, IndirectIndexed, 8, false, RMW},
	{0x74, NOP, ZeroPageIndexedX, 4, false, Read},
	{0x75, Adc, ZeroPageIndexedX, 4, false, Read},
	{0x76, Ror, ZeroPageIndexedX, 6, false, RMW},
	{0x77, RRA, ZeroPageIndexedX, 6, false, RMW},
	{0x78, Sei, Implied, 2, false, Read},
	{0x79, Adc, AbsoluteIndexedY, 4, true, Read},
	{0x7a, NOP, Implied, 2, false, Read},
	{0x7b, RRA, AbsoluteIndexedY, 7, false, RMW},
	{0x7c, NOP, AbsoluteIndexedX, 4, true, Read},
	{0x7d, Adc, AbsoluteIndexedX, 4, true, Read},
	{0x7e, Ror, AbsoluteIndexedX, 7, false, RMW},
	{0x7f, RRA, AbsoluteIndexedX, 7, false, RMW},
	{0x80, NOP, Immediate, 2, false, Read},
	{0x81, Sta, IndexedIndirect, 6, false, Write},
	{0x82, NOP, Immediate, 2, false, Read},
	{0x83, SAX, IndexedIndirect, 6, false, Write},
	{0x84, Sty, ZeroPage, 3, false, Write},
	{0x85, Sta, ZeroPage, 3, false, Write},
	{0x86, Stx, ZeroPage, 3, false, Write},
	{0x87, SAX, ZeroPage, 3, false, Write},
	{0x88, Dey, Implied, 2, false, Read},
	{0x89, NOP, Immediate, 2, false, Read},
	{0x8a, Txa, Implied, 2, false, Read},
	{0x8b, XAA, Immediate, 2, false, Read},
	{0x8c, Sty, Absolute, 4, false, Write},
	{0x8d, Sta, Absolute, 4, false, Write},
	{0x8e, Stx, Absolute, 4, false, Write},
	{0x8f, SAX, Absolute, 4, false, Write},
	{0x90, Bcc, Relative, 2, false, Flow},
	{0x91, Sta, IndirectIndexed, 6, false, Write},
	{0x92, KIL, Implied, 2, false, Read},
	{0x93, AHX, IndirectIndexed, 6, false, Write},
	{0x94, Sty, ZeroPageIndexedX, 4, false, Write},
	{0x95, Sta, ZeroPageIndexedX, 4, false, Write},
	{0x96, Stx, ZeroPageIndexedY, 4, false, Write},
	{0x97, SAX, ZeroPageIndexedY, 4, false, Write},
	{0x98, Tya, Implied, 2, false, Read},
	{0x99, Sta, AbsoluteIndexedY, 5, false, Write},
	{0x9a, Txs, Implied, 2, false, Read},
	{0x9b, TAS, AbsoluteIndexedY, 5, false, Write},
	{0x9c, SHY, AbsoluteIndexedX, 5, false, Write},
	{0x9d, Sta, AbsoluteIndexedX, 5, false, Write},
	{0x9e, SHX, AbsoluteIndexedY, 5, false, Write},
	{0x9f, AHX, AbsoluteIndexedY, 5, false, Write},
	{0xa0, Ldy, Immediate, 2, false, Read},
	{0xa1, Lda, IndexedIndirect, 6, false, Read},
	{0xa2, Ldx, Immediate, 2, false, Read},
	{0xa3, LAX, IndexedIndirect, 6, false, Read},
	{0xa4, Ldy, ZeroPage, 3, false, Read},
	{0xa5, Lda, ZeroPage, 3, false, Read},
	{0xa6, Ldx, ZeroPage, 3, false, Read},
	{0xa7, LAX, ZeroPage, 3, false, Read},
	{0xa8, Tay, Implied, 2, false, Read},
	{0xa9, Lda, Immediate, 2, false, Read},
	{0xaa, Tax, Implied, 2, false, Read},
	{0xab, LXA, Immediate, 2, false, Read},
	{0xac, Ldy, Absolute, 4, false, Read},
	{0xad, Lda, Absolute, 4, false, Read},
	{0xae, Ldx, Absolute, 4, false, Read},
	{0xaf, LAX, Absolute, 4, false, Read},
	{0xb0, Bcs, Relative, 2, false, Flow},
	{0xb1, Lda, IndirectIndexed, 5, true, Read},
	{0xb2, KIL, Implied, 2, false, Read},
	{0xb3, LAX, IndirectIndexed, 5, true, Read},
	{0xb4, Ldy, ZeroPageIndexedX, 4, false, Read},
	{0xb5, Lda, ZeroPageIndexedX, 4, false, Read},
	{0xb6, Ldx, ZeroPageIndexedY, 4, false, Read},
	{0xb7, LAX, ZeroPageIndexedY, 4, false, Read},
	{0xb8, Clv, Implied, 2, false, Read},
	{0xb9, Lda, AbsoluteIndexedY, 4, true, Read},
	{0xba, Tsx, Implied, 2, false, Read},
	{0xbb, LAS, AbsoluteIndexedY, 4, true, Read},
	{0xbc, Ldy, AbsoluteIndexedX, 4, true, Read},
	{0xbd, Lda, AbsoluteIndexedX, 4, true, Read},
	{0xbe, Ldx, AbsoluteIndexedY, 4, true, Read},
	{0xbf, LAX, AbsoluteIndexedY, 4, true, Read},
	{0xc0, Cpy, Immediate, 2, false, Read},
	{0xc1, Cmp, IndexedIndirect, 6, false, Read},
	{0xc2, NOP, Immediate, 2, false, Read},
	{0xc3, DCP, IndexedIndirect, 8, false, RMW},
	{0xc4, Cpy, ZeroPage, 3, false, Read},
	{0xc5, Cmp, ZeroPage, 3, false, Read},
	{0xc6, Dec, ZeroPage, 5, false, RMW},
	{0xc7, DCP, ZeroPage, 5, false, RMW},
	{0xc8, Iny, Implied, 2, false, Read},
	{0xc9, Cmp, Immediate, 2, false, Read},
	{0xca, Dex, Implied, 2, false, Read},
	{0xcb, AXS, Immediate, 2, false, Read},
	{0xcc, Cpy, Absolute, 4, false, Read},
	{0xcd, Cmp, Absolute, 4, false, Read},
	{0xce, Dec, Absolute, 6, false, RMW},
	{0xcf, DCP, Absolute, 6, false, RMW},
	{0xd0, Bne, Relative, 2, false, Flow},
	{0xd1, Cmp, IndirectIndexed, 5, true, Read},
	{0xd2, KIL, Implied, 2, false, Read},
	{0xd3, DCP, IndirectIndexed, 8, false, RMW},
	{0xd4, NOP, ZeroPageIndexedX, 4, false, Read},
	{0xd5, Cmp, ZeroPageIndexedX, 4, false, Read},
	{0xd6, Dec, ZeroPageIndexedX, 6, false, RMW},
	{0xd7, DCP, ZeroPageIndexedX, 6, false, RMW},
	{0xd8, Cld, Implied, 2, false, Read},
	{0xd9, Cmp, AbsoluteIndexedY, 4, true, Read},
	{0xda, NOP, Implied, 2, false, Read},
	{0xdb, DCP, AbsoluteIndexedY, 7, false, RMW},
	{0xdc, NOP, AbsoluteIndexedX, 4, true, Read},
	{0xdd, Cmp, AbsoluteIndexedX, 4, true, Read},
	{0xde, Dec, AbsoluteIndexedX, 7, false, RMW},
	{0xdf, DCP, AbsoluteIndexedX, 7, false, RMW},
	{0xe0, Cpx, Immediate, 2, false, Read},
	{0xe1, Sbc, IndexedIndirect, 6, false, Read},
	{0xe2, NOP, Immediate, 2, false, Read},
	{0xe3, ISC, IndexedIndirect, 8, false, RMW},
	{0xe4, Cpx, ZeroPage, 3, false, Read},
	{0xe5, Sbc, ZeroPage, 3, false, Read},
	{0xe6, Inc, ZeroPage, 5, false, RMW},
	{0xe7, ISC, ZeroPage, 5, false, RMW},
	{0xe8, Inx, Implied, 2, false, Read},
	{0xe9, Sbc, Immediate, 2, false, Read},
	{0xea, Nop, Implied, 2, false, Read},
	{0xeb, SBC, Immediate, 2, false, Read},
	{0xec, Cpx, Absolute, 4, false, Read},
	{0xed, Sbc, Absolute, 4, false, Read},
	{0xee, Inc, Absolute, 6, false, RMW},
	{0xef, ISC, Absolute, 6, false, RMW},
	{0xf0, Beq, Relative, 2, false, Flow},
	{0xf1, Sbc, IndirectIndexed, 5, true, Read},
	{0xf2, KIL, Implied, 2, false, Read},
	{0xf3, ISC, IndirectIndexed, 8, false, RMW},
	{0xf4, NOP, ZeroPageIndexedX, 4, false, Read},
	{0xf5, Sbc, ZeroPageIndexedX, 4, false, Read},
	{0xf6, Inc, ZeroPageIndexedX, 6, false, RMW},
	{0xf7, ISC, ZeroPageIndexedX, 6, false, RMW},
	{0xf8, Sed, Implied, 2, false, Read},
	{0xf9, Sbc, AbsoluteIndexedY, 4, true, Read},
	{0xfa, NOP, Implied, 2, false, Read},
	{0xfb, ISC, AbsoluteIndexedY, 7, false, RMW},
	{0xfc, NOP, AbsoluteIndexedX, 4, true, Read},
	{0xfd, Sbc, AbsoluteIndexedX, 4, true, Read},
	{0xfe, Inc, AbsoluteIndexedX, 7, false, RMW},
	{0xff, ISC, AbsoluteIndexedX, 7, false, RMW},
}

// GetDefinitions returns the table of instruction definitions for the 6502,
// indexed by opcode.
func GetDefinitions() []*Definition {
	defns := make([]*Definition, len(table))
	for i, e := range table {
		defns[i] = &Definition{
			OpCode:         e.opcode,
			Operator:       e.operator,
			Mnemonic:       e.operator.String(),
			Bytes:          e.mode.bytes(),
			Cycles:         e.cycles,
			AddressingMode: e.mode,
			PageSensitive:  e.pageSensitive,
			Effect:         e.effect,
			Undocumented:   e.operator.IsUndocumented(),
		}
	}
	return defns
}
