package hw

// execute runs one cycle of the current instruction.
func (c *CPU) execute() {
	switch c.op.Mnemonic {
	case ADC:
		c.readOp(c.adc)
	case AND:
		c.readOp(func(m uint8) { c.A &= m; c.P.setNZ(c.A) })
	case BIT:
		c.readOp(c.bit)
	case CMP:
		c.readOp(func(m uint8) { c.compare(c.A, m) })
	case CPX:
		c.readOp(func(m uint8) { c.compare(c.X, m) })
	case CPY:
		c.readOp(func(m uint8) { c.compare(c.Y, m) })
	case EOR:
		c.readOp(func(m uint8) { c.A ^= m; c.P.setNZ(c.A) })
	case LDA:
		c.readOp(func(m uint8) { c.A = m; c.P.setNZ(m) })
	case LDX:
		c.readOp(func(m uint8) { c.X = m; c.P.setNZ(m) })
	case LDY:
		c.readOp(func(m uint8) { c.Y = m; c.P.setNZ(m) })
	case ORA:
		c.readOp(func(m uint8) { c.A |= m; c.P.setNZ(c.A) })
	case SBC:
		c.readOp(c.sbc)

	case STA:
		c.store(c.A)
	case STX:
		c.store(c.X)
	case STY:
		c.store(c.Y)

	case ASL:
		c.rmw(c.asl)
	case LSR:
		c.rmw(c.lsr)
	case ROL:
		c.rmw(c.rol)
	case ROR:
		c.rmw(c.ror)
	case INC:
		c.rmw(func(v uint8) uint8 { v++; c.P.setNZ(v); return v })
	case DEC:
		c.rmw(func(v uint8) uint8 { v--; c.P.setNZ(v); return v })

	case BCC:
		c.branch(!c.P.has(Carry))
	case BCS:
		c.branch(c.P.has(Carry))
	case BEQ:
		c.branch(c.P.has(Zero))
	case BMI:
		c.branch(c.P.has(Negative))
	case BNE:
		c.branch(!c.P.has(Zero))
	case BPL:
		c.branch(!c.P.has(Negative))
	case BVC:
		c.branch(!c.P.has(Overflow))
	case BVS:
		c.branch(c.P.has(Overflow))

	case CLC:
		c.implied(func() { c.P.set(Carry, false) })
	case CLD:
		c.implied(func() { c.P.set(Decimal, false) })
	case CLI:
		c.implied(func() { c.P.set(Interrupt, false) })
	case CLV:
		c.implied(func() { c.P.set(Overflow, false) })
	case SEC:
		c.implied(func() { c.P.set(Carry, true) })
	case SED:
		c.implied(func() { c.P.set(Decimal, true) })
	case SEI:
		c.implied(func() { c.P.set(Interrupt, true) })
	case DEX:
		c.implied(func() { c.X--; c.P.setNZ(c.X) })
	case DEY:
		c.implied(func() { c.Y--; c.P.setNZ(c.Y) })
	case INX:
		c.implied(func() { c.X++; c.P.setNZ(c.X) })
	case INY:
		c.implied(func() { c.Y++; c.P.setNZ(c.Y) })
	case TAX:
		c.implied(func() { c.X = c.A; c.P.setNZ(c.X) })
	case TAY:
		c.implied(func() { c.Y = c.A; c.P.setNZ(c.Y) })
	case TSX:
		c.implied(func() { c.X = c.SP; c.P.setNZ(c.X) })
	case TXA:
		c.implied(func() { c.A = c.X; c.P.setNZ(c.A) })
	case TXS:
		c.implied(func() { c.SP = c.X })
	case TYA:
		c.implied(func() { c.A = c.Y; c.P.setNZ(c.A) })
	case NOP:
		c.implied(func() {})

	case PHA:
		c.pushOp(func() uint8 { return c.A })
	case PHP:
		c.pushOp(func() uint8 { return uint8(c.P) | Break | Reserved })
	case PLA:
		c.pullOp(func(v uint8) { c.A = v; c.P.setNZ(v) })
	case PLP:
		c.pullOp(c.P.load)

	case BRK:
		c.brk()
	case JMP:
		c.jmp()
	case JSR:
		c.jsr()
	case RTI:
		c.rti()
	case RTS:
		c.rts()
	}
}

func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// noCarry returns the address the CPU puts on the bus before it has fixed
// the high byte of an indexed address: high byte of base, low byte of addr.
func noCarry(base, addr uint16) uint16 {
	return base&0xFF00 | addr&0x00FF
}

func (c *CPU) index() uint8 {
	switch c.op.Mode {
	case ZeroPageY, AbsoluteY, IndirectY:
		return c.Y
	}
	return c.X
}

// address performs one cycle of effective address computation. Once the
// effective address is known, it returns true without touching the bus,
// leaving the current cycle to the data access.
//
// fast is set by read instructions: when indexing doesn't cross a page the
// read at the partially computed address is the right one, saving a cycle.
func (c *CPU) address(fast bool) bool {
	s := &c.st
	switch c.op.Mode {
	case Immediate:
		s.addr = c.PC
		c.PC++
		return true

	case ZeroPage:
		switch s.step {
		case 0:
			s.addr = uint16(c.fetch())
		default:
			return true
		}

	case ZeroPageX, ZeroPageY:
		switch s.step {
		case 0:
			s.ptr = uint16(c.fetch())
		case 1:
			c.read(s.ptr) // dummy read
			s.addr = (s.ptr + uint16(c.index())) & 0xFF
		default:
			return true
		}

	case Absolute:
		switch s.step {
		case 0:
			s.addr = uint16(c.fetch())
		case 1:
			s.addr |= uint16(c.fetch()) << 8
		default:
			return true
		}

	case AbsoluteX, AbsoluteY:
		switch s.step {
		case 0:
			s.ptr = uint16(c.fetch())
		case 1:
			s.ptr |= uint16(c.fetch()) << 8
			s.addr = s.ptr + uint16(c.index())
		case 2:
			if fast && !pageCrossed(s.ptr, s.addr) {
				return true
			}
			c.read(noCarry(s.ptr, s.addr))
		default:
			return true
		}

	case IndirectX:
		switch s.step {
		case 0:
			s.ptr = uint16(c.fetch())
		case 1:
			c.read(s.ptr) // dummy read
			s.ptr = (s.ptr + uint16(c.X)) & 0xFF
		case 2:
			s.addr = uint16(c.read(s.ptr))
		case 3:
			s.addr |= uint16(c.read((s.ptr+1)&0xFF)) << 8
		default:
			return true
		}

	case IndirectY:
		switch s.step {
		case 0:
			s.ptr = uint16(c.fetch())
		case 1:
			s.addr = uint16(c.read(s.ptr))
		case 2:
			s.addr |= uint16(c.read((s.ptr+1)&0xFF)) << 8
			s.ptr = s.addr
			s.addr += uint16(c.Y)
		case 3:
			if fast && !pageCrossed(s.ptr, s.addr) {
				return true
			}
			c.read(noCarry(s.ptr, s.addr))
		default:
			return true
		}
	}
	s.step++
	return false
}

// readOp runs instructions reading their operand from memory.
func (c *CPU) readOp(f func(m uint8)) {
	if !c.address(true) {
		return
	}
	f(c.read(c.st.addr))
	c.retire()
}

func (c *CPU) store(val uint8) {
	if !c.address(false) {
		return
	}
	c.write(c.st.addr, val)
	c.retire()
}

// rmw runs read-modify-write instructions. The CPU writes the unmodified
// value back, then the result on the next cycle.
func (c *CPU) rmw(f func(uint8) uint8) {
	if c.op.Mode == Accumulator {
		c.read(c.PC) // dummy read
		c.A = f(c.A)
		c.retire()
		return
	}

	s := &c.st
	if !s.loaded {
		if c.address(false) {
			s.data = c.read(s.addr)
			s.loaded = true
			s.step = 0
		}
		return
	}
	if s.step == 0 {
		c.write(s.addr, s.data)
		s.step++
		return
	}
	c.write(s.addr, f(s.data))
	c.retire()
}

func (c *CPU) implied(f func()) {
	c.read(c.PC) // dummy read
	f()
	c.retire()
}

func (c *CPU) branch(taken bool) {
	s := &c.st
	switch s.step {
	case 0:
		off := c.fetch()
		if !taken {
			c.retire()
			return
		}
		s.addr = c.PC + uint16(int8(off))
	case 1:
		if !pageCrossed(c.PC, s.addr) {
			c.PC = s.addr
			c.read(c.PC) // dummy read
			c.retire()
			return
		}
		c.PC = noCarry(c.PC, s.addr)
		c.read(c.PC) // dummy read
	default:
		c.PC = s.addr
		c.read(c.PC) // dummy read
		c.retire()
		return
	}
	s.step++
}

func (c *CPU) pushOp(val func() uint8) {
	if c.st.step == 0 {
		c.read(c.PC) // dummy read
		c.st.step++
		return
	}
	c.push(val())
	c.retire()
}

func (c *CPU) pullOp(f func(uint8)) {
	switch c.st.step {
	case 0:
		c.read(c.PC) // dummy read
	case 1:
		c.read(0x0100 | uint16(c.SP)) // dummy read
	default:
		f(c.pull())
		c.retire()
		return
	}
	c.st.step++
}

func (c *CPU) brk() {
	s := &c.st
	switch s.step {
	case 0:
		c.fetch() // padding byte, skipped
	case 1:
		c.push(uint8(c.PC >> 8))
	case 2:
		c.push(uint8(c.PC))
	case 3:
		c.push(uint8(c.P) | Break | Reserved)
		c.P.set(Interrupt, true)
	case 4:
		s.addr = uint16(c.read(IRQVector))
	default:
		c.PC = s.addr | uint16(c.read(IRQVector+1))<<8
		c.retire()
		return
	}
	s.step++
}

func (c *CPU) jmp() {
	s := &c.st
	switch s.step {
	case 0:
		s.ptr = uint16(c.fetch())
	case 1:
		s.ptr |= uint16(c.fetch()) << 8
		if c.op.Mode == Absolute {
			c.PC = s.ptr
			c.retire()
			return
		}
	case 2:
		s.addr = uint16(c.read(s.ptr))
	default:
		// The pointer high byte is read without carry: JMP ($xxFF) reads
		// the high byte from $xx00.
		hi := c.read(noCarry(s.ptr, s.ptr+1))
		c.PC = s.addr | uint16(hi)<<8
		c.retire()
		return
	}
	s.step++
}

func (c *CPU) jsr() {
	s := &c.st
	switch s.step {
	case 0:
		s.addr = uint16(c.fetch())
	case 1:
		c.read(0x0100 | uint16(c.SP)) // dummy read
	case 2:
		c.push(uint8(c.PC >> 8))
	case 3:
		c.push(uint8(c.PC))
	default:
		s.addr |= uint16(c.read(c.PC)) << 8
		c.PC = s.addr
		c.retire()
		return
	}
	s.step++
}

func (c *CPU) rti() {
	s := &c.st
	switch s.step {
	case 0:
		c.read(c.PC) // dummy read
	case 1:
		c.read(0x0100 | uint16(c.SP)) // dummy read
	case 2:
		c.P.load(c.pull())
	case 3:
		s.addr = uint16(c.pull())
	default:
		c.PC = s.addr | uint16(c.pull())<<8
		c.retire()
		return
	}
	s.step++
}

func (c *CPU) rts() {
	s := &c.st
	switch s.step {
	case 0:
		c.read(c.PC) // dummy read
	case 1:
		c.read(0x0100 | uint16(c.SP)) // dummy read
	case 2:
		s.addr = uint16(c.pull())
	case 3:
		c.PC = s.addr | uint16(c.pull())<<8
	default:
		c.read(c.PC) // dummy read
		c.PC++
		c.retire()
		return
	}
	s.step++
}

/* arithmetic and logic */

func (c *CPU) adc(m uint8) {
	carry := c.P.carry()
	sum := uint16(c.A) + uint16(m) + uint16(carry)
	signed := int16(int8(c.A)) + int16(int8(m)) + int16(carry)

	c.P.set(Carry, sum > 0xFF)
	c.P.set(Overflow, signed < -128 || signed > 127)
	c.A = uint8(sum)
	c.P.setNZ(c.A)
}

func (c *CPU) sbc(m uint8) {
	borrow := int16(1 - c.P.carry())
	diff := int16(c.A) - int16(m) - borrow
	signed := int16(int8(c.A)) - int16(int8(m)) - borrow

	c.P.set(Carry, diff >= 0)
	c.P.set(Overflow, signed < -128 || signed > 127)
	c.A = uint8(diff)
	c.P.setNZ(c.A)
}

func (c *CPU) compare(reg, m uint8) {
	c.P.set(Carry, reg >= m)
	c.P.set(Zero, reg == m)
	c.P.set(Negative, (reg-m)&0x80 != 0)
}

func (c *CPU) bit(m uint8) {
	c.P.set(Overflow, m&0x40 != 0)
	c.P.set(Negative, m&0x80 != 0)
	c.P.set(Zero, c.A&m == 0)
}

func (c *CPU) asl(v uint8) uint8 {
	c.P.set(Carry, v&0x80 != 0)
	v <<= 1
	c.P.setNZ(v)
	return v
}

func (c *CPU) lsr(v uint8) uint8 {
	c.P.set(Carry, v&0x01 != 0)
	v >>= 1
	c.P.setNZ(v)
	return v
}

func (c *CPU) rol(v uint8) uint8 {
	carry := c.P.carry()
	c.P.set(Carry, v&0x80 != 0)
	v = v<<1 | carry
	c.P.setNZ(v)
	return v
}

func (c *CPU) ror(v uint8) uint8 {
	carry := c.P.carry()
	c.P.set(Carry, v&0x01 != 0)
	v = v>>1 | carry<<7
	c.P.setNZ(v)
	return v
}
