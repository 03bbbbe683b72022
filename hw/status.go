package hw

// P is the processor status register.
type P uint8

// Status flags.
const (
	Carry = 1 << iota
	Zero
	Interrupt
	Decimal
	Break
	Reserved
	Overflow
	Negative
)

// String shows set flags in upper case, from bit 7 to bit 0.
func (p P) String() string {
	var s [8]byte
	for i, c := range []byte("NVUBDIZC") {
		if uint8(p)&(0x80>>i) == 0 {
			c += 'a' - 'A'
		}
		s[i] = c
	}
	return string(s[:])
}

func (p P) has(flag uint8) bool {
	return uint8(p)&flag != 0
}

func (p *P) set(flag uint8, on bool) {
	if on {
		*p |= P(flag)
	} else {
		*p &^= P(flag)
	}
}

// carry returns 1 if the carry flag is set, 0 otherwise.
func (p P) carry() uint8 {
	return uint8(p) & Carry
}

func (p *P) setNZ(val uint8) {
	p.set(Zero, val == 0)
	p.set(Negative, val&0x80 != 0)
}

// Break and Reserved only exist on the stack: Reserved always reads as 1,
// Break as 0.
func (p *P) load(val uint8) {
	*p = P(val)&^Break | Reserved
}
