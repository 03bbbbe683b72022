package hw

import "fmt"

//go:generate go tool stringer -type=Mnemonic
//go:generate go tool stringer -type=AddressMode

// Mnemonic identifies the instruction executed by an opcode. ILL marks the
// opcodes which are not part of the official 6502 instruction set.
type Mnemonic uint8

const (
	ILL Mnemonic = iota
	ADC
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRK
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PLA
	PLP
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	STA
	STX
	STY
	TAX
	TAY
	TSX
	TXA
	TXS
	TYA
)

type AddressMode uint8

const (
	Implied AddressMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	Relative
)

// Size returns the number of operand bytes following the opcode.
func (m AddressMode) Size() int {
	switch m {
	case Implied, Accumulator:
		return 0
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 2
	}
	return 1
}

// Operation describes an opcode.
type Operation struct {
	Opcode   uint8
	Mnemonic Mnemonic
	Mode     AddressMode
}

// Valid reports whether the opcode is part of the official instruction set.
func (op Operation) Valid() bool {
	return op.Mnemonic != ILL
}

// Format returns the assembly form of the operation given its operand bytes
// (only the first Mode.Size() ones are used) and the address of the opcode.
func (op Operation) Format(pc uint16, lo, hi uint8) string {
	w := uint16(hi)<<8 | uint16(lo)
	mn := op.Mnemonic.String()
	switch op.Mode {
	case Accumulator:
		return mn + " A"
	case Immediate:
		return fmt.Sprintf("%s #$%02X", mn, lo)
	case ZeroPage:
		return fmt.Sprintf("%s $%02X", mn, lo)
	case ZeroPageX:
		return fmt.Sprintf("%s $%02X,X", mn, lo)
	case ZeroPageY:
		return fmt.Sprintf("%s $%02X,Y", mn, lo)
	case Absolute:
		return fmt.Sprintf("%s $%04X", mn, w)
	case AbsoluteX:
		return fmt.Sprintf("%s $%04X,X", mn, w)
	case AbsoluteY:
		return fmt.Sprintf("%s $%04X,Y", mn, w)
	case Indirect:
		return fmt.Sprintf("%s ($%04X)", mn, w)
	case IndirectX:
		return fmt.Sprintf("%s ($%02X,X)", mn, lo)
	case IndirectY:
		return fmt.Sprintf("%s ($%02X),Y", mn, lo)
	case Relative:
		return fmt.Sprintf("%s $%04X", mn, pc+2+uint16(int8(lo)))
	}
	if op.Mnemonic == ILL {
		return fmt.Sprintf(".byte $%02X", op.Opcode)
	}
	return mn
}

// Lookup returns the operation for the given opcode.
func Lookup(opcode uint8) Operation {
	op := ops[opcode]
	op.Opcode = opcode
	return op
}

var ops = [256]Operation{
	0x69: {Mnemonic: ADC, Mode: Immediate},
	0x65: {Mnemonic: ADC, Mode: ZeroPage},
	0x75: {Mnemonic: ADC, Mode: ZeroPageX},
	0x6D: {Mnemonic: ADC, Mode: Absolute},
	0x7D: {Mnemonic: ADC, Mode: AbsoluteX},
	0x79: {Mnemonic: ADC, Mode: AbsoluteY},
	0x61: {Mnemonic: ADC, Mode: IndirectX},
	0x71: {Mnemonic: ADC, Mode: IndirectY},

	0x29: {Mnemonic: AND, Mode: Immediate},
	0x25: {Mnemonic: AND, Mode: ZeroPage},
	0x35: {Mnemonic: AND, Mode: ZeroPageX},
	0x2D: {Mnemonic: AND, Mode: Absolute},
	0x3D: {Mnemonic: AND, Mode: AbsoluteX},
	0x39: {Mnemonic: AND, Mode: AbsoluteY},
	0x21: {Mnemonic: AND, Mode: IndirectX},
	0x31: {Mnemonic: AND, Mode: IndirectY},

	0x0A: {Mnemonic: ASL, Mode: Accumulator},
	0x06: {Mnemonic: ASL, Mode: ZeroPage},
	0x16: {Mnemonic: ASL, Mode: ZeroPageX},
	0x0E: {Mnemonic: ASL, Mode: Absolute},
	0x1E: {Mnemonic: ASL, Mode: AbsoluteX},

	0x90: {Mnemonic: BCC, Mode: Relative},
	0xB0: {Mnemonic: BCS, Mode: Relative},
	0xF0: {Mnemonic: BEQ, Mode: Relative},
	0x30: {Mnemonic: BMI, Mode: Relative},
	0xD0: {Mnemonic: BNE, Mode: Relative},
	0x10: {Mnemonic: BPL, Mode: Relative},
	0x50: {Mnemonic: BVC, Mode: Relative},
	0x70: {Mnemonic: BVS, Mode: Relative},

	0x24: {Mnemonic: BIT, Mode: ZeroPage},
	0x2C: {Mnemonic: BIT, Mode: Absolute},

	0x00: {Mnemonic: BRK, Mode: Implied},

	0x18: {Mnemonic: CLC, Mode: Implied},
	0xD8: {Mnemonic: CLD, Mode: Implied},
	0x58: {Mnemonic: CLI, Mode: Implied},
	0xB8: {Mnemonic: CLV, Mode: Implied},

	0xC9: {Mnemonic: CMP, Mode: Immediate},
	0xC5: {Mnemonic: CMP, Mode: ZeroPage},
	0xD5: {Mnemonic: CMP, Mode: ZeroPageX},
	0xCD: {Mnemonic: CMP, Mode: Absolute},
	0xDD: {Mnemonic: CMP, Mode: AbsoluteX},
	0xD9: {Mnemonic: CMP, Mode: AbsoluteY},
	0xC1: {Mnemonic: CMP, Mode: IndirectX},
	0xD1: {Mnemonic: CMP, Mode: IndirectY},

	0xE0: {Mnemonic: CPX, Mode: Immediate},
	0xE4: {Mnemonic: CPX, Mode: ZeroPage},
	0xEC: {Mnemonic: CPX, Mode: Absolute},

	0xC0: {Mnemonic: CPY, Mode: Immediate},
	0xC4: {Mnemonic: CPY, Mode: ZeroPage},
	0xCC: {Mnemonic: CPY, Mode: Absolute},

	0xC6: {Mnemonic: DEC, Mode: ZeroPage},
	0xD6: {Mnemonic: DEC, Mode: ZeroPageX},
	0xCE: {Mnemonic: DEC, Mode: Absolute},
	0xDE: {Mnemonic: DEC, Mode: AbsoluteX},

	0xCA: {Mnemonic: DEX, Mode: Implied},
	0x88: {Mnemonic: DEY, Mode: Implied},

	0x49: {Mnemonic: EOR, Mode: Immediate},
	0x45: {Mnemonic: EOR, Mode: ZeroPage},
	0x55: {Mnemonic: EOR, Mode: ZeroPageX},
	0x4D: {Mnemonic: EOR, Mode: Absolute},
	0x5D: {Mnemonic: EOR, Mode: AbsoluteX},
	0x59: {Mnemonic: EOR, Mode: AbsoluteY},
	0x41: {Mnemonic: EOR, Mode: IndirectX},
	0x51: {Mnemonic: EOR, Mode: IndirectY},

	0xE6: {Mnemonic: INC, Mode: ZeroPage},
	0xF6: {Mnemonic: INC, Mode: ZeroPageX},
	0xEE: {Mnemonic: INC, Mode: Absolute},
	0xFE: {Mnemonic: INC, Mode: AbsoluteX},

	0xE8: {Mnemonic: INX, Mode: Implied},
	0xC8: {Mnemonic: INY, Mode: Implied},

	0x4C: {Mnemonic: JMP, Mode: Absolute},
	0x6C: {Mnemonic: JMP, Mode: Indirect},
	0x20: {Mnemonic: JSR, Mode: Absolute},

	0xA9: {Mnemonic: LDA, Mode: Immediate},
	0xA5: {Mnemonic: LDA, Mode: ZeroPage},
	0xB5: {Mnemonic: LDA, Mode: ZeroPageX},
	0xAD: {Mnemonic: LDA, Mode: Absolute},
	0xBD: {Mnemonic: LDA, Mode: AbsoluteX},
	0xB9: {Mnemonic: LDA, Mode: AbsoluteY},
	0xA1: {Mnemonic: LDA, Mode: IndirectX},
	0xB1: {Mnemonic: LDA, Mode: IndirectY},

	0xA2: {Mnemonic: LDX, Mode: Immediate},
	0xA6: {Mnemonic: LDX, Mode: ZeroPage},
	0xB6: {Mnemonic: LDX, Mode: ZeroPageY},
	0xAE: {Mnemonic: LDX, Mode: Absolute},
	0xBE: {Mnemonic: LDX, Mode: AbsoluteY},

	0xA0: {Mnemonic: LDY, Mode: Immediate},
	0xA4: {Mnemonic: LDY, Mode: ZeroPage},
	0xB4: {Mnemonic: LDY, Mode: ZeroPageX},
	0xAC: {Mnemonic: LDY, Mode: Absolute},
	0xBC: {Mnemonic: LDY, Mode: AbsoluteX},

	0x4A: {Mnemonic: LSR, Mode: Accumulator},
	0x46: {Mnemonic: LSR, Mode: ZeroPage},
	0x56: {Mnemonic: LSR, Mode: ZeroPageX},
	0x4E: {Mnemonic: LSR, Mode: Absolute},
	0x5E: {Mnemonic: LSR, Mode: AbsoluteX},

	0xEA: {Mnemonic: NOP, Mode: Implied},

	0x09: {Mnemonic: ORA, Mode: Immediate},
	0x05: {Mnemonic: ORA, Mode: ZeroPage},
	0x15: {Mnemonic: ORA, Mode: ZeroPageX},
	0x0D: {Mnemonic: ORA, Mode: Absolute},
	0x1D: {Mnemonic: ORA, Mode: AbsoluteX},
	0x19: {Mnemonic: ORA, Mode: AbsoluteY},
	0x01: {Mnemonic: ORA, Mode: IndirectX},
	0x11: {Mnemonic: ORA, Mode: IndirectY},

	0x48: {Mnemonic: PHA, Mode: Implied},
	0x08: {Mnemonic: PHP, Mode: Implied},
	0x68: {Mnemonic: PLA, Mode: Implied},
	0x28: {Mnemonic: PLP, Mode: Implied},

	0x2A: {Mnemonic: ROL, Mode: Accumulator},
	0x26: {Mnemonic: ROL, Mode: ZeroPage},
	0x36: {Mnemonic: ROL, Mode: ZeroPageX},
	0x2E: {Mnemonic: ROL, Mode: Absolute},
	0x3E: {Mnemonic: ROL, Mode: AbsoluteX},

	0x6A: {Mnemonic: ROR, Mode: Accumulator},
	0x66: {Mnemonic: ROR, Mode: ZeroPage},
	0x76: {Mnemonic: ROR, Mode: ZeroPageX},
	0x6E: {Mnemonic: ROR, Mode: Absolute},
	0x7E: {Mnemonic: ROR, Mode: AbsoluteX},

	0x40: {Mnemonic: RTI, Mode: Implied},
	0x60: {Mnemonic: RTS, Mode: Implied},

	0xE9: {Mnemonic: SBC, Mode: Immediate},
	0xE5: {Mnemonic: SBC, Mode: ZeroPage},
	0xF5: {Mnemonic: SBC, Mode: ZeroPageX},
	0xED: {Mnemonic: SBC, Mode: Absolute},
	0xFD: {Mnemonic: SBC, Mode: AbsoluteX},
	0xF9: {Mnemonic: SBC, Mode: AbsoluteY},
	0xE1: {Mnemonic: SBC, Mode: IndirectX},
	0xF1: {Mnemonic: SBC, Mode: IndirectY},

	0x38: {Mnemonic: SEC, Mode: Implied},
	0xF8: {Mnemonic: SED, Mode: Implied},
	0x78: {Mnemonic: SEI, Mode: Implied},

	0x85: {Mnemonic: STA, Mode: ZeroPage},
	0x95: {Mnemonic: STA, Mode: ZeroPageX},
	0x8D: {Mnemonic: STA, Mode: Absolute},
	0x9D: {Mnemonic: STA, Mode: AbsoluteX},
	0x99: {Mnemonic: STA, Mode: AbsoluteY},
	0x81: {Mnemonic: STA, Mode: IndirectX},
	0x91: {Mnemonic: STA, Mode: IndirectY},

	0x86: {Mnemonic: STX, Mode: ZeroPage},
	0x96: {Mnemonic: STX, Mode: ZeroPageY},
	0x8E: {Mnemonic: STX, Mode: Absolute},

	0x84: {Mnemonic: STY, Mode: ZeroPage},
	0x94: {Mnemonic: STY, Mode: ZeroPageX},
	0x8C: {Mnemonic: STY, Mode: Absolute},

	0xAA: {Mnemonic: TAX, Mode: Implied},
	0xA8: {Mnemonic: TAY, Mode: Implied},
	0xBA: {Mnemonic: TSX, Mode: Implied},
	0x8A: {Mnemonic: TXA, Mode: Implied},
	0x9A: {Mnemonic: TXS, Mode: Implied},
	0x98: {Mnemonic: TYA, Mode: Implied},
}
