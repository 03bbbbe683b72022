package mappers

var CNROM = MapperDesc{
	Name: "CNROM",
	Load: loadCNROM,
}

// cnrom has fixed PRG ROM (mirrored like NROM) and a switchable 8KB CHR
// bank, selected by any write to $8000-$FFFF.
type cnrom struct {
	*base

	chrbank uint8
}

func loadCNROM(b *base) (Mapper, error) {
	return &cnrom{base: b}, nil
}

func (m *cnrom) CPURead(addr uint16) uint8 {
	if addr >= 0x8000 {
		return m.prg[int(addr-0x8000)%len(m.prg)]
	}
	return m.bus.OpenBus()
}

func (m *cnrom) CPUWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		return
	}
	prev := m.chrbank
	m.chrbank = val
	if prev != val {
		modMapper.DebugZ("CHR bank switch").String("mapper", m.desc.Name).Uint8("prev", prev).Uint8("new", val).End()
	}
}

func (m *cnrom) PPURead(addr uint16) uint8 {
	if addr < 0x2000 {
		return m.readCHR(uint32(addr) + 0x2000*uint32(m.chrbank))
	}
	return m.readNT(addr)
}

func (m *cnrom) PPUWrite(addr uint16, val uint8) {
	if addr < 0x2000 {
		m.writeCHR(uint32(addr)+0x2000*uint32(m.chrbank), val)
		return
	}
	m.writeNT(addr, val)
}

func (m *cnrom) PeekCPU(addr uint16) uint8 { return m.CPURead(addr) }
func (m *cnrom) PeekPPU(addr uint16) uint8 { return m.PPURead(addr) }
