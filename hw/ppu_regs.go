package hw

// CPU-exposed memory-mapped PPU registers, mapped from $2000 to $2007 and
// mirrored up to $3FFF.
const (
	PPUCTRL   = 0x0
	PPUMASK   = 0x1
	PPUSTATUS = 0x2
	OAMADDR   = 0x3
	OAMDATA   = 0x4
	PPUSCROLL = 0x5
	PPUADDR   = 0x6
	PPUDATA   = 0x7
)

// ppuctrl register ($2000)
type ppuctrl uint8

// Nametable selection mask
// (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
func (c ppuctrl) nametable() uint16 { return uint16(c & 0b11) }

// VRAM address increment per CPU read/write of PPUDATA
// (0: +1 i.e. horizontal; 1: +32 i.e. vertical)
func (c ppuctrl) incr() uint16 {
	if c&(1<<2) != 0 {
		return 32
	}
	return 1
}

// Sprite pattern table address for 8x8 sprites
// (0: $0000; 1: $1000; ignored in 8x16 mode)
func (c ppuctrl) spriteTable() uint16 { return uint16(c&(1<<3)) << 9 }

// Background pattern table address (0: $0000; 1: $1000)
func (c ppuctrl) bgTable() uint16 { return uint16(c&(1<<4)) << 8 }

// Sprite height: 8 or 16 pixels.
func (c ppuctrl) spriteHeight() int {
	if c&(1<<5) != 0 {
		return 16
	}
	return 8
}

// Generate an NMI at the start of the
// vertical blanking interval (0: off; 1: on)
func (c ppuctrl) nmi() bool { return c&(1<<7) != 0 }

// ppumask register ($2001)
type ppumask uint8

func (m ppumask) gray() bool { return m&(1<<0) != 0 }

// Show background/sprites in leftmost 8 pixels of screen.
func (m ppumask) bgLeft() bool     { return m&(1<<1) != 0 }
func (m ppumask) spriteLeft() bool { return m&(1<<2) != 0 }

func (m ppumask) bg() bool      { return m&(1<<3) != 0 }
func (m ppumask) sprites() bool { return m&(1<<4) != 0 }

func (m ppumask) rendering() bool { return m&(1<<3|1<<4) != 0 }

// PPUSTATUS bits ($2002). The lower 5 bits return stale PPU bus contents.
const (
	// The intent was for this flag to be set whenever more than eight sprites
	// appear on a scanline, but a hardware bug causes the actual behavior to
	// be more complicated and generate false positives as well as false
	// negatives. Set during sprite evaluation and cleared at dot 1 of the
	// pre-render line.
	spriteOverflow = 1 << 5

	// Set when a nonzero pixel of sprite 0 overlaps a nonzero background
	// pixel; cleared at dot 1 of the pre-render line.
	spriteHit = 1 << 6

	// Set at dot 1 of line 241 (the line *after* the post-render line);
	// cleared after reading $2002 and at dot 1 of the pre-render line.
	vblank = 1 << 7
)

// loopy is the 15-bit PPU VRAM address, also used as scroll position while
// rendering:
//
//	yyy NN YYYYY XXXXX
//	||| || ||||| +++++-- coarse X scroll
//	||| || +++++-------- coarse Y scroll
//	||| ++-------------- nametable select
//	+++----------------- fine Y scroll
type loopy uint16

func (l loopy) coarsex() uint16   { return uint16(l) & 0x1F }
func (l loopy) coarsey() uint16   { return uint16(l) >> 5 & 0x1F }
func (l loopy) nametable() uint16 { return uint16(l) >> 10 & 0b11 }
func (l loopy) finey() uint16     { return uint16(l) >> 12 & 0b111 }
func (l loopy) val() uint16       { return uint16(l) & 0x7FFF }

// addr is the 14-bit address put on the PPU bus.
func (l loopy) addr() uint16 { return uint16(l) & 0x3FFF }

func (l *loopy) setNametable(nt uint16) {
	*l = *l&^(0b11<<10) | loopy(nt&0b11)<<10
}

// Loopy bit groups.
const (
	loopyHorz = 0x041F // coarse X and horizontal nametable
	loopyVert = 0x7BE0 // fine Y, coarse Y and vertical nametable
)

// incx increments coarse X, switching horizontal nametable on overflow.
func (l *loopy) incx() {
	if l.coarsex() == 31 {
		*l &^= 0x1F
		*l ^= 0x0400
		return
	}
	*l++
}

// incy increments fine Y, overflowing into coarse Y. Coarse Y wraps at 29,
// switching vertical nametable, or at 31 when it was set out of range, in
// which case the nametable doesn't change.
func (l *loopy) incy() {
	if l.finey() != 7 {
		*l += 0x1000
		return
	}
	*l &^= 0x7000
	y := l.coarsey()
	switch y {
	case 29:
		y = 0
		*l ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	*l = *l&^0x03E0 | loopy(y)<<5
}

// copyBits copies the bits of src selected by mask.
func (l *loopy) copyBits(src loopy, mask uint16) {
	*l = *l&^loopy(mask) | src&loopy(mask)
}
