package hw

import "math/bits"

// A spriteSlot is one of the 8 sprites output on the current line.
type spriteSlot struct {
	lo, hi uint8 // pattern shift registers, leftmost pixel in bit 0
	attr   uint8
	x      uint8 // counts down to the first pixel of the sprite
}

// spritePipeline holds the sprite evaluation state and the sprites of the
// current line.
type spritePipeline struct {
	// Secondary OAM: the sprites found for the next line. Byte 0 of each
	// entry is the row within the sprite rather than its Y coordinate.
	oam2  [32]uint8
	slots [8]spriteSlot

	n    int // number of sprites found
	addr int // OAM address being evaluated, >= 256 once done
	copy int // bytes left to copy (or to skip) after an in-range Y

	// Sprite 0 tracker: bit 0 when sprite 0 is on the current line, bit 1
	// when it's on the next one.
	zero uint8
}

// pixel returns the sprite pixel for the current dot, as an offset into the
// sprite palettes, whether it's drawn behind the background and whether
// sprite 0 has an opaque pixel here. It advances all sprite slots.
func (sp *spritePipeline) pixel() (pix uint8, behind, zero bool) {
	for i := range sp.slots {
		s := &sp.slots[i]
		if s.x != 0 {
			s.x--
			continue
		}

		px := s.hi&1<<1 | s.lo&1
		s.lo >>= 1
		s.hi >>= 1
		if px == 0 {
			continue
		}
		if i == 0 && sp.zero&1 != 0 {
			zero = true
		}
		if pix == 0 {
			pix = 0x10 | s.attr&0b11<<2 | px
			behind = s.attr&0x20 != 0
		}
	}
	return pix, behind, zero
}

func (sp *spritePipeline) endLine() {
	sp.n = 0
	sp.addr = 0
	sp.copy = 0
	sp.zero >>= 1
}

// evalSprites runs sprite evaluation for the next line: secondary OAM is
// cleared on dots 1-64, then OAM is scanned for sprites in range on dots
// 65-256, one access every other dot.
func (p *PPU) evalSprites(dot int) {
	sp := &p.sprites
	switch {
	case dot >= 1 && dot <= 64:
		if dot%2 == 0 {
			sp.oam2[dot/2-1] = 0xFF
		}
	case dot >= 65 && dot <= 256:
		if dot%2 != 0 || sp.addr >= len(p.oam) {
			return
		}
		if sp.n < len(sp.slots) {
			p.copySprite()
		} else {
			p.checkOverflow()
		}
	}
}

func (p *PPU) spriteInRange(y uint8) (row int, ok bool) {
	row = p.Scanline - int(y)
	return row, row >= 0 && row < p.ctrl.spriteHeight()
}

func (p *PPU) copySprite() {
	sp := &p.sprites
	if sp.copy == 0 {
		row, ok := p.spriteInRange(p.oam[sp.addr])
		if !ok {
			sp.addr += 4
			return
		}
		sp.oam2[sp.n*4] = uint8(row)
		if sp.addr == 0 {
			sp.zero |= 0b10
		}
		sp.addr++
		sp.copy = 3
		return
	}

	// tile index, attributes then X.
	sp.oam2[sp.n*4+4-sp.copy] = p.oam[sp.addr]
	sp.addr++
	sp.copy--
	if sp.copy == 0 {
		sp.n++
	}
}

// checkOverflow runs the evaluation once 8 sprites have been found. The OAM
// address is made of the sprite index n (bits 2-7) and the byte index m
// (bits 0-1). Instead of only moving to the next sprite, a failed range check
// increments both n and m, without carry from m into n. Bytes that aren't Y
// coordinates end up being range checked.
func (p *PPU) checkOverflow() {
	sp := &p.sprites
	if sp.copy > 0 {
		sp.copy--
		return
	}

	if _, ok := p.spriteInRange(p.oam[sp.addr]); ok {
		p.status |= spriteOverflow
		sp.addr += 4
		sp.copy = 3
		return
	}
	if sp.addr&0b11 == 0b11 {
		sp.addr++
	} else {
		sp.addr += 5
	}
}

// fetchSprite loads the sprite slots from secondary OAM on dots 257-320,
// 8 dots per sprite. Unused slots get transparent patterns.
func (p *PPU) fetchSprite(dot int) {
	sp := &p.sprites
	i := (dot - 257) / 8
	s := &sp.slots[i]

	if i >= sp.n {
		if dot%8 == 0 {
			*s = spriteSlot{x: 0xFF}
		}
		return
	}

	switch dot % 8 {
	case 6:
		s.lo = p.spritePattern(i, 0)
	case 0:
		s.hi = p.spritePattern(i, 8)
		s.attr = sp.oam2[i*4+2]
		s.x = sp.oam2[i*4+3]
	}
}

// spritePattern reads a pattern byte (plane is 0 or 8) of the sprite in
// secondary OAM slot i, for its row on the next line.
func (p *PPU) spritePattern(i int, plane uint16) uint8 {
	ent := p.sprites.oam2[i*4 : i*4+4]
	row := uint16(ent[0])
	tile := uint16(ent[1])
	attr := ent[2]

	h := uint16(p.ctrl.spriteHeight())
	if attr&0x80 != 0 { // vertical flip
		row = (h - 1 - row) & (h - 1)
	}

	var addr uint16
	if h == 16 {
		// Bit 0 of the tile index selects the pattern table.
		addr = (tile&1)<<12 | (tile&0xFE|row>>3)<<4 | row&7
	} else {
		addr = p.ctrl.spriteTable() | tile<<4 | row&7
	}

	val := p.read(addr | plane)
	if attr&0x40 == 0 {
		// Shift registers output bit 0 first, so only non-flipped
		// sprites are reversed.
		val = bits.Reverse8(val)
	}
	return val
}
