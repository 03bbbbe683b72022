package hw

import "math/bits"

// bgPipeline holds the background fetch latches and shift registers.
// Pattern bytes are stored bit-reversed so that the leftmost pixel of a tile
// is bit 0, the registers shifting right once per dot.
type bgPipeline struct {
	nt     uint8 // tile index
	atbuf  uint8 // attribute bits, loaded into the latch on reload
	lo, hi uint8 // pattern bytes

	patlo, pathi uint16
	atlo, athi   uint8
	atlatch      uint8 // fed into the attribute shift registers
}

func (bg *bgPipeline) shift() {
	bg.patlo >>= 1
	bg.pathi >>= 1
	bg.atlo = bg.atlo>>1 | (bg.atlatch&1)<<7
	bg.athi = bg.athi>>1 | (bg.atlatch>>1&1)<<7
}

func (bg *bgPipeline) reload() {
	bg.patlo |= uint16(bg.lo) << 8
	bg.pathi |= uint16(bg.hi) << 8
	bg.atlatch = bg.atbuf
}

// pixel returns the 4-bit background palette entry selected by fine X.
func (bg *bgPipeline) pixel(finex uint8) uint8 {
	return uint8(bg.athi>>finex&1)<<3 |
		uint8(bg.atlo>>finex&1)<<2 |
		uint8(bg.pathi>>finex&1)<<1 |
		uint8(bg.patlo>>finex&1)
}

func (p *PPU) visibleDot() {
	switch {
	case p.mask.rendering():
		p.renderDot(true)
	case p.Dot >= 1 && p.Dot <= ScreenWidth:
		p.pixels[p.Dot-1] = p.readPalette(0x3F00)
	}

	// Pixels are output 3 dots after being computed.
	if p.Dot >= 4 && p.Dot <= ScreenWidth+3 {
		x := p.Dot - 4
		p.cur[p.Scanline*ScreenWidth+x] = p.pixels[x]
	}
}

// renderDot runs the 3 rendering sub-pipelines for the current dot: memory
// fetches, sprite evaluation (visible lines only) and pixel composition.
func (p *PPU) renderDot(visible bool) {
	dot := p.Dot
	fetching := (dot >= 1 && dot <= 256) || (dot >= 321 && dot <= 336)

	if fetching {
		p.fetchTile(dot)
	}
	switch {
	case dot == 256:
		p.v.incy()
	case dot == 257:
		p.v.copyBits(p.t, loopyHorz)
	}
	if dot >= 257 && dot <= 320 {
		p.fetchSprite(dot)
		p.oamaddr = 0
	}

	if visible {
		p.evalSprites(dot)
		if dot >= 1 && dot <= ScreenWidth {
			p.pixels[dot-1] = p.composePixel(dot - 1)
		}
	}

	if dot >= 1 && dot <= 336 {
		p.bg.shift()
		if fetching && dot%8 == 0 {
			p.bg.reload()
		}
	}

	if dot == 340 {
		p.sprites.endLine()
	}
}

// fetchTile runs the 8-dot background fetch pattern: nametable byte,
// attribute byte, low then high pattern bytes, and coarse X increment.
func (p *PPU) fetchTile(dot int) {
	switch dot % 8 {
	case 2:
		p.bg.nt = p.read(0x2000 | p.v.val()&0x0FFF)
	case 4:
		v := p.v.val()
		addr := 0x23C0 | v&0x0C00 | v>>4&0x38 | v>>2&0x07
		shift := v>>4&4 | v&2
		p.bg.atbuf = p.read(addr) >> shift & 0b11
	case 6:
		addr := p.ctrl.bgTable() | uint16(p.bg.nt)<<4 | p.v.finey()
		p.bg.lo = bits.Reverse8(p.read(addr))
	case 0:
		addr := p.ctrl.bgTable() | uint16(p.bg.nt)<<4 | 8 | p.v.finey()
		p.bg.hi = bits.Reverse8(p.read(addr))
		p.v.incx()
	}
}

func opaque(pix uint8) bool {
	return pix&0b11 != 0
}

// composePixel computes the palette index of pixel x of the current line,
// from the background shifters and the active sprites.
func (p *PPU) composePixel(x int) uint8 {
	var bgpix uint8
	if p.mask.bg() && (x >= 8 || p.mask.bgLeft()) {
		bgpix = p.bg.pixel(p.finex)
	}

	sppix, behind, zero := p.sprites.pixel()
	if !p.mask.sprites() || (x < 8 && !p.mask.spriteLeft()) {
		sppix, zero = 0, false
	}

	if zero && opaque(bgpix) && x != 255 {
		p.status |= spriteHit
	}

	switch {
	case opaque(sppix) && (!behind || !opaque(bgpix)):
		return p.readPalette(0x3F00 | uint16(sppix))
	case opaque(bgpix):
		return p.readPalette(0x3F00 | uint16(bgpix))
	}
	return p.readPalette(0x3F00)
}
