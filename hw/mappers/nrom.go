package mappers

var NROM = MapperDesc{
	Name: "NROM",
	Load: loadNROM,
}

// nrom has no bank switching. A 16KB PRG ROM is mirrored at $C000.
type nrom struct {
	*base
}

func loadNROM(b *base) (Mapper, error) {
	b.allocPRGRAM()
	return &nrom{base: b}, nil
}

func (m *nrom) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		return m.prg[int(addr-0x8000)%len(m.prg)]
	case addr >= 0x6000:
		return m.readPRGRAM(addr)
	}
	return m.bus.OpenBus()
}

func (m *nrom) CPUWrite(addr uint16, val uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.writePRGRAM(addr, val)
	}
}

func (m *nrom) PPURead(addr uint16) uint8 {
	if addr < 0x2000 {
		return m.readCHR(uint32(addr))
	}
	return m.readNT(addr)
}

func (m *nrom) PPUWrite(addr uint16, val uint8) {
	if addr < 0x2000 {
		m.writeCHR(uint32(addr), val)
		return
	}
	m.writeNT(addr, val)
}

func (m *nrom) PeekCPU(addr uint16) uint8 { return m.CPURead(addr) }
func (m *nrom) PeekPPU(addr uint16) uint8 { return m.PPURead(addr) }
