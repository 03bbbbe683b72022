package mappers

var MMC1 = MapperDesc{
	Name: "MMC1",
	Load: loadMMC1,
}

type mmc1 struct {
	*base

	serial  shiftReg // shift register
	counter uint8    // count of bits shifted

	// writes on consecutive CPU cycles are ignored. Set to 2 on each serial
	// write and shifted right every CPU cycle.
	writeLock uint8

	// CTRL reg bits
	chrmode uint8
	prgmode uint8
	ntm     uint8

	// CHR regs
	chrbank0 uint32
	chrbank1 uint32

	// PRG reg bits
	disableWRAM bool
	prgbank     uint32
}

// shiftReg receives bits LSB first.
type shiftReg uint8

func (sr shiftReg) push(bit uint8, count uint8) shiftReg {
	return sr | shiftReg((bit&1)<<count)
}

func loadMMC1(b *base) (Mapper, error) {
	b.allocPRGRAM()
	m := &mmc1{base: b}

	// On power-up the last PRG bank is fixed at $C000 so that the reset
	// vector is always reachable.
	m.writeCTRL(0x0C | 0x03)
	m.chrbank0 = 0
	m.chrbank1 = 1
	return m, nil
}

func (m *mmc1) Cycle() {
	m.writeLock >>= 1
}

func (m *mmc1) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		return m.prg[m.prgoff(addr)]
	case addr >= 0x6000:
		if m.disableWRAM {
			return m.bus.OpenBus()
		}
		return m.readPRGRAM(addr)
	}
	return m.bus.OpenBus()
}

func (m *mmc1) CPUWrite(addr uint16, val uint8) {
	switch {
	case addr >= 0x8000:
		m.writeSerial(addr, val)
	case addr >= 0x6000:
		if !m.disableWRAM {
			m.writePRGRAM(addr, val)
		}
	}
}

func (m *mmc1) writeSerial(addr uint16, val uint8) {
	if val&0x80 != 0 {
		// Reset: the data bit is ignored, the next write is the "first" one
		// and PRG mode goes back to 3 (fixed last bank). Other bits of CTRL
		// are unchanged.
		m.serial = 0
		m.counter = 0
		m.prgmode = 3
		return
	}
	if m.writeLock != 0 {
		modMapper.DebugZ("ignored consecutive write").Hex16("addr", addr).Uint8("val", val).End()
		return
	}
	m.serial = m.serial.push(val, m.counter)
	m.counter++
	if m.counter == 5 {
		m.writeREG(addr, uint8(m.serial))
		m.serial = 0
		m.counter = 0
	}
	m.writeLock = 2
}

func (m *mmc1) writeREG(addr uint16, val uint8) {
	switch (addr & 0x6000) >> 13 {
	case 0:
		m.writeCTRL(val)
	case 1:
		m.writeCHR0(val)
	case 2:
		m.writeCHR1(val)
	case 3:
		m.writePRG(val)
	}
}

func (m *mmc1) writeCTRL(val uint8) {
	m.chrmode = (val & 0x10) >> 4
	m.prgmode = (val & 0x0C) >> 2
	m.ntm = val & 0x03
	switch m.ntm {
	case 0:
		m.nt = lowLayout
	case 1:
		m.nt = highLayout
	case 2:
		m.nt = vertLayout
	case 3:
		m.nt = horzLayout
	}

	modMapper.DebugZ("Write CTRL reg").String("mapper", m.desc.Name).
		Uint8("val", val).
		Uint8("prgmode", m.prgmode).
		Uint8("chrmode", m.chrmode).
		Uint8("ntm", m.ntm).
		End()
}

func (m *mmc1) writeCHR0(val uint8) {
	modMapper.DebugZ("Write CHR0 reg").String("mapper", m.desc.Name).Uint8("val", val).End()
	m.chrbank0 = uint32(val & 0x1F)
}

func (m *mmc1) writeCHR1(val uint8) {
	modMapper.DebugZ("Write CHR1 reg").String("mapper", m.desc.Name).Uint8("val", val).End()
	m.chrbank1 = uint32(val & 0x1F)
}

// $E000-FFFF:  [...W PPPP]
// W = WRAM Disable (0=enabled, 1=disabled)
// P = PRG Reg
func (m *mmc1) writePRG(val uint8) {
	modMapper.DebugZ("Write PRG reg").String("mapper", m.desc.Name).Uint8("val", val).End()
	m.disableWRAM = val&0x10 != 0
	m.prgbank = uint32(val & 0x0F)
}

// prgoff translates a CPU address in $8000-$FFFF into a PRG ROM offset.
func (m *mmc1) prgoff(addr uint16) uint32 {
	const bank16 = 0x4000
	nbanks := uint32(len(m.prg)) / bank16
	if nbanks == 0 {
		nbanks = 1
	}

	var bank uint32
	off := uint32(addr-0x8000) % bank16
	hi := addr >= 0xC000

	switch m.prgmode {
	case 0, 1:
		// 32KB at $8000, low bit of the bank number ignored.
		bank = m.prgbank &^ 1
		if hi {
			bank++
		}
	case 2:
		// First bank fixed at $8000, switchable $C000.
		bank = m.prgbank
		if !hi {
			bank = 0
		}
	case 3:
		// Switchable $8000, last bank fixed at $C000.
		bank = m.prgbank
		if hi {
			bank = nbanks - 1
		}
	}
	return ((bank%nbanks)*bank16 + off) % uint32(len(m.prg))
}

// chroff translates a PPU address in $0000-$1FFF into a CHR offset.
func (m *mmc1) chroff(addr uint16) uint32 {
	if m.chrmode == 0 {
		return (m.chrbank0&0x1E)*0x1000 + uint32(addr)
	}
	if addr < 0x1000 {
		return m.chrbank0*0x1000 + uint32(addr)
	}
	return m.chrbank1*0x1000 + uint32(addr-0x1000)
}

func (m *mmc1) PPURead(addr uint16) uint8 {
	if addr < 0x2000 {
		return m.readCHR(m.chroff(addr))
	}
	return m.readNT(addr)
}

func (m *mmc1) PPUWrite(addr uint16, val uint8) {
	if addr < 0x2000 {
		m.writeCHR(m.chroff(addr), val)
		return
	}
	m.writeNT(addr, val)
}

func (m *mmc1) PeekCPU(addr uint16) uint8 { return m.CPURead(addr) }
func (m *mmc1) PeekPPU(addr uint16) uint8 { return m.PPURead(addr) }
