package hw

import (
	"cyclenes/emu/log"
)

const (
	NumScanlines = 262 // Number of scanlines per frame.
	NumCycles    = 341 // Number of PPU cycles per scanline.

	ScreenWidth  = 256
	ScreenHeight = 240
)

// After power-on or reset, writes to PPUCTRL, PPUMASK, PPUSCROLL and PPUADDR
// are ignored for about 29658 CPU cycles.
const warmupDots = 29658 * 3

// A Frame holds the palette indices (0-63) of a rendered picture, row by
// row.
type Frame [ScreenWidth * ScreenHeight]uint8

// At returns the palette index of the pixel at (x, y).
func (f *Frame) At(x, y int) uint8 {
	return f[y*ScreenWidth+x]
}

// VRAM is the PPU view of the cartridge: pattern tables at $0000-$1FFF and
// nametables at $2000-$3EFF.
type VRAM interface {
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, val uint8)
	PeekPPU(addr uint16) uint8
}

type PPU struct {
	vram VRAM
	CPU  *CPU // receives NMIs, may be nil

	Scanline int // Current scanline being drawn
	Dot      int // Current cycle/pixel in scanline
	Frames   int64

	ctrl   ppuctrl
	mask   ppumask
	status uint8

	// VRAM read/write
	v, t   loopy
	finex  uint8
	toggle bool  // write toggle shared by PPUSCROLL and PPUADDR
	rbuf   uint8 // PPUDATA read buffer
	latch  uint8 // open bus

	palette [32]uint8
	oam     [256]uint8
	oamaddr uint8

	bg      bgPipeline
	sprites spritePipeline

	pixels [ScreenWidth]uint8 // computed pixels waiting for output
	cur    Frame
	last   Frame

	odd      bool
	frameEnd bool
	warmup   int
}

// NewPPU returns a PPU in its power-up state, accessing pattern tables and
// nametables via vram.
func NewPPU(vram VRAM) *PPU {
	p := &PPU{vram: vram}
	p.Reset()
	return p
}

// Reset puts the PPU in its reset state, which also restarts the warm-up
// period.
func (p *PPU) Reset() {
	p.Scanline = 0
	p.Dot = 0
	p.ctrl = 0
	p.mask = 0
	p.toggle = false
	p.rbuf = 0
	p.odd = false
	p.frameEnd = false
	p.warmup = warmupDots
	for i := range p.cur {
		p.cur[i] = 0x3F
	}
	p.last = p.cur
}

// Frame returns the last completed frame.
func (p *PPU) Frame() *Frame {
	return &p.last
}

// EndOfFrame reports whether the last dot completed a frame.
func (p *PPU) EndOfFrame() bool {
	return p.frameEnd
}

// OAM gives access to the object attribute memory.
func (p *PPU) OAM() *[256]uint8 {
	return &p.oam
}

// renderingActive reports whether the PPU is currently accessing VRAM for
// rendering.
func (p *PPU) renderingActive() bool {
	return p.mask.rendering() && (p.Scanline < ScreenHeight || p.Scanline == NumScanlines-1)
}

// Cycle runs one PPU dot.
func (p *PPU) Cycle() {
	p.frameEnd = false
	if p.warmup > 0 {
		p.warmup--
	}

	switch {
	case p.Scanline < ScreenHeight:
		p.visibleDot()

	case p.Scanline == 241:
		if p.Dot == 1 {
			p.status |= vblank
			if p.ctrl.nmi() {
				p.raiseNMI()
			}
		}

	case p.Scanline == NumScanlines-1:
		if p.Dot == 1 {
			p.status &^= vblank | spriteHit | spriteOverflow
		}
		if p.mask.rendering() {
			p.renderDot(false)
			if p.Dot >= 280 && p.Dot <= 304 {
				p.v.copyBits(p.t, loopyVert)
			}
		}
	}

	p.tick()
}

func (p *PPU) tick() {
	p.Dot++
	if p.Dot < NumCycles {
		return
	}
	p.Dot = 0
	p.Scanline++
	if p.Scanline < NumScanlines {
		return
	}

	p.Scanline = 0
	p.last = p.cur
	p.frameEnd = true
	p.Frames++

	// On odd frames, the idle dot of the first scanline is skipped.
	if p.odd && p.mask.rendering() {
		p.Dot = 1
	}
	p.odd = !p.odd
}

func (p *PPU) raiseNMI() {
	if p.CPU != nil {
		p.CPU.RaiseNMI()
	}
}

func (p *PPU) read(addr uint16) uint8 {
	addr &= 0x3FFF
	if addr >= 0x3F00 {
		return p.readPalette(addr)
	}
	return p.vram.PPURead(addr)
}

func (p *PPU) write(addr uint16, val uint8) {
	addr &= 0x3FFF
	if addr >= 0x3F00 {
		p.palette[paletteIndex(addr)] = val & 0x3F
		return
	}
	p.vram.PPUWrite(addr, val)
}

// paletteIndex maps $3F00-$3FFF to palette RAM. Entries $10/$14/$18/$1C
// mirror $00/$04/$08/$0C.
func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	if idx&0x13 == 0x10 {
		idx &^= 0x10
	}
	return idx
}

func (p *PPU) readPalette(addr uint16) uint8 {
	val := p.palette[paletteIndex(addr)]
	if p.mask.gray() {
		val &= 0x30
	}
	return val
}

// Peek returns the byte at addr in PPU address space, without side effects.
func (p *PPU) Peek(addr uint16) uint8 {
	addr &= 0x3FFF
	if addr >= 0x3F00 {
		return p.palette[paletteIndex(addr)]
	}
	return p.vram.PeekPPU(addr)
}

// AddLogContext implements log.Context.
func (p *PPU) AddLogContext(e *log.EntryZ) {
	e.Int("ppu.line", p.Scanline).Int("ppu.dot", p.Dot)
}
