package mappers

import (
	"fmt"

	"cyclenes/ines"
)

// ntLayout maps each of the 4 logical nametables to one of the physical
// 1KB pages of nametable RAM.
type ntLayout [4]uint8

var (
	horzLayout = ntLayout{0, 0, 1, 1}
	vertLayout = ntLayout{0, 1, 0, 1}
	lowLayout  = ntLayout{0, 0, 0, 0}
	highLayout = ntLayout{1, 1, 1, 1}
	fourLayout = ntLayout{0, 1, 2, 3}
)

type base struct {
	desc MapperDesc
	rom  *ines.Rom
	bus  Bus

	prg    []byte
	prgram []byte
	chr    []byte
	chrram bool // chr is writable RAM

	vram [0x1000]byte // 2KB on the console, 4KB with four-screen boards
	nt   ntLayout
}

func ispow2(n int) bool {
	return n&(n-1) == 0
}

func newbase(desc MapperDesc, rom *ines.Rom, bus Bus) (*base, error) {
	if len(rom.PRG) == 0 {
		return nil, fmt.Errorf("no PRG ROM")
	}
	if !ispow2(len(rom.PRG)) {
		return nil, fmt.Errorf("only support PRG ROM with power of 2 size, got %d", len(rom.PRG))
	}

	b := &base{desc: desc, rom: rom, bus: bus, prg: rom.PRG}
	if len(rom.CHR) > 0 {
		b.chr = rom.CHR
	} else {
		sz := rom.CHRRAMSize() + rom.CHRNVRAMSize()
		if sz == 0 {
			sz = 0x2000
		}
		b.chr = make([]byte, sz)
		b.chrram = true
	}
	b.setNTMirroring(rom.Mirroring())
	return b, nil
}

func (b *base) Name() string { return b.desc.Name }

func (b *base) allocPRGRAM() {
	if sz := b.rom.PRGRAMSize() + b.rom.PRGNVRAMSize(); sz > 0 {
		b.prgram = make([]byte, sz)
	}
}

func (b *base) setNTMirroring(m ines.Mirroring) {
	switch m {
	case ines.Horizontal:
		b.nt = horzLayout
	case ines.Vertical:
		b.nt = vertLayout
	case ines.FourScreen:
		b.nt = fourLayout
	default:
		panic(fmt.Sprintf("unsupported mirroring %d", m))
	}
}

// ntaddr translates a PPU address in $2000-$3EFF into a nametable RAM offset.
func (b *base) ntaddr(addr uint16) uint16 {
	page := (addr & 0x0C00) >> 10
	return addr&0x03FF | uint16(b.nt[page])<<10
}

func (b *base) readNT(addr uint16) uint8 {
	return b.vram[b.ntaddr(addr)]
}

func (b *base) writeNT(addr uint16, val uint8) {
	b.vram[b.ntaddr(addr)] = val
}

// readPRGRAM reads $6000-$7FFF, RAM is mirrored when smaller than 8KB.
func (b *base) readPRGRAM(addr uint16) uint8 {
	if len(b.prgram) == 0 {
		return b.bus.OpenBus()
	}
	return b.prgram[int(addr-0x6000)%len(b.prgram)]
}

func (b *base) writePRGRAM(addr uint16, val uint8) {
	if len(b.prgram) != 0 {
		b.prgram[int(addr-0x6000)%len(b.prgram)] = val
	}
}

func (b *base) readCHR(off uint32) uint8 {
	return b.chr[off%uint32(len(b.chr))]
}

func (b *base) writeCHR(off uint32, val uint8) {
	if b.chrram {
		b.chr[off%uint32(len(b.chr))] = val
	}
}
