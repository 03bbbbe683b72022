package hw

import (
	"fmt"

	"cyclenes/emu/log"
)

// A MemDump is a raw copy of the whole PPU address space, $0000-$3FFF, as
// saved by emulator debuggers. Nametables are not mirrored.
type MemDump [0x4000]uint8

func (m *MemDump) PPURead(addr uint16) uint8        { return m[addr&0x3FFF] }
func (m *MemDump) PPUWrite(addr uint16, val uint8) { m[addr&0x3FFF] = val }
func (m *MemDump) PeekPPU(addr uint16) uint8        { return m[addr&0x3FFF] }

// LoadMemDump copies buf into a MemDump. Short dumps are zero padded.
func LoadMemDump(buf []byte) (*MemDump, error) {
	var m MemDump
	if len(buf) > len(m) {
		return nil, fmt.Errorf("vram dump too big: %d bytes, max %d", len(buf), len(m))
	}
	copy(m[:], buf)
	return &m, nil
}

// RenderDump renders the picture described by a PPU memory dump and an OAM
// dump. Palette RAM is taken from $3F00-$3F1F of mem. The PPU is set up with
// NMI enabled, background at $1000, sprites at $0000, and both layers
// displayed except on the 8 leftmost pixels.
func RenderDump(mem *MemDump, oam []byte) (*Frame, error) {
	if len(oam) > 256 {
		return nil, fmt.Errorf("oam dump too big: %d bytes, max 256", len(oam))
	}

	p := NewPPU(mem)
	p.warmup = 0
	p.ctrl = 0x90
	p.mask = 0x18
	for i := range p.palette {
		p.palette[i] = mem[0x3F00+i] & 0x3F
	}
	copy(p.oam[:], oam)

	// Start on the pre-render line, the first frame completes when it ends.
	p.Scanline = NumScanlines - 1
	for range 2 {
		p.Cycle()
		for !p.EndOfFrame() {
			p.Cycle()
		}
	}
	log.ModPPU.DebugZ("dump rendered").Int64("frames", p.Frames).End()
	return p.Frame(), nil
}
