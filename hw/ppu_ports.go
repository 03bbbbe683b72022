package hw

import (
	"cyclenes/emu/log"
)

// WriteRegister writes val to the PPU register reg (0-7).
func (p *PPU) WriteRegister(reg uint8, val uint8) {
	// Writing any register fills the open bus latch.
	p.latch = val

	switch reg & 0x7 {
	case PPUCTRL:
		p.writePPUCTRL(val)
	case PPUMASK:
		if p.ignoreWrite("PPUMASK", val) {
			return
		}
		p.mask = ppumask(val)
	case PPUSTATUS:
		// read-only
	case OAMADDR:
		p.oamaddr = val
	case OAMDATA:
		if p.renderingActive() {
			return
		}
		p.oam[p.oamaddr] = val
		p.oamaddr++
	case PPUSCROLL:
		p.writePPUSCROLL(val)
	case PPUADDR:
		p.writePPUADDR(val)
	case PPUDATA:
		p.writePPUDATA(val)
	}
}

// ReadRegister reads the PPU register reg (0-7). Write-only registers return
// the open bus latch.
func (p *PPU) ReadRegister(reg uint8) uint8 {
	switch reg & 0x7 {
	case PPUSTATUS:
		// Only the 3 upper bits exist.
		p.latch = p.latch&0x1F | p.status&0xE0
		p.status &^= vblank
		p.toggle = false
	case OAMDATA:
		p.latch = p.oam[p.oamaddr]
	case PPUDATA:
		p.latch = p.readPPUDATA()
	}
	return p.latch
}

// PeekRegister returns what reading reg would return, without side effects.
func (p *PPU) PeekRegister(reg uint8) uint8 {
	switch reg & 0x7 {
	case PPUSTATUS:
		return p.latch&0x1F | p.status&0xE0
	case OAMDATA:
		return p.oam[p.oamaddr]
	case PPUDATA:
		if addr := p.v.addr(); addr >= 0x3F00 {
			return p.Peek(addr)
		}
		return p.rbuf
	}
	return p.latch
}

func (p *PPU) ignoreWrite(reg string, val uint8) bool {
	if p.warmup == 0 {
		return false
	}
	log.ModPPU.DebugZ("write ignored during warm-up").
		String("reg", reg).
		Hex8("val", val).
		End()
	return true
}

// PPUCTRL: $2000
func (p *PPU) writePPUCTRL(val uint8) {
	if p.ignoreWrite("PPUCTRL", val) {
		return
	}

	prev := p.ctrl
	p.ctrl = ppuctrl(val)
	p.t.setNametable(p.ctrl.nametable())

	// Enabling NMI during vblank triggers an NMI right away.
	if !prev.nmi() && p.ctrl.nmi() && p.status&vblank != 0 {
		p.raiseNMI()
	}
}

// PPUSCROLL: $2005
func (p *PPU) writePPUSCROLL(val uint8) {
	if p.ignoreWrite("PPUSCROLL", val) {
		return
	}

	if !p.toggle { // first write
		p.finex = val & 0b111
		p.t = p.t&^0x1F | loopy(val>>3)
	} else { // second write
		p.t &^= 0b0111_0011_1110_0000
		p.t |= loopy(val&0b111) << 12
		p.t |= loopy(val&0b1111_1000) << 2
	}
	p.toggle = !p.toggle
}

// To read/write VRAM from CPU, PPUADDR is set to the address of the operation.
// It's a 16-bit register so 2 writes are necessary.
// PPUADDR: $2006
func (p *PPU) writePPUADDR(val uint8) {
	if p.ignoreWrite("PPUADDR", val) {
		return
	}

	if !p.toggle { // first write, bit 14 is cleared
		p.t = p.t&0x00FF | loopy(val&0b11_1111)<<8
	} else { // second write
		p.t = p.t&0xFF00 | loopy(val)
		p.v = p.t
	}
	p.toggle = !p.toggle
}

// PPUDATA: $2007
func (p *PPU) readPPUDATA() uint8 {
	addr := p.v.addr()

	var val uint8
	if addr < 0x3F00 {
		// Reading VRAM is too slow so the actual data
		// will be returned at the next read.
		val = p.rbuf
		p.rbuf = p.read(addr)
	} else {
		// Reading palette data is immediate, though the buffer
		// gets the nametable byte 'under' the palette.
		val = p.read(addr)
		p.rbuf = p.read(addr - 0x1000)
	}
	p.incVRAMAddr()
	return val
}

// PPUDATA: $2007
func (p *PPU) writePPUDATA(val uint8) {
	if !p.renderingActive() {
		p.write(p.v.addr(), val)
	}
	p.incVRAMAddr()
}

// After each access to PPUDATA, the VRAM address is incremented. During
// rendering, the PPU increments coarse X and Y at the same time instead.
func (p *PPU) incVRAMAddr() {
	if p.renderingActive() {
		p.v.incx()
		p.v.incy()
		return
	}
	p.v = (p.v + loopy(p.ctrl.incr())) & 0x7FFF
}
